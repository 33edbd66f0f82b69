// Package plot renders dataset columns to PNG files with gonum/plot.
package plot

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/KaramelBytes/dataprep-cli/internal/analysis"
	"github.com/KaramelBytes/dataprep-cli/internal/dataset"
	"github.com/KaramelBytes/dataprep-cli/internal/utils"
)

// ErrNoValues is returned when a selected column has no present numeric values.
var ErrNoValues = errors.New("no values to plot")

// Kind names a chart type offered by the plot menu.
type Kind int

const (
	Histogram Kind = iota + 1
	Boxplot
	Scatter
	Heatmap
)

func (k Kind) String() string {
	switch k {
	case Histogram:
		return "histogram"
	case Boxplot:
		return "boxplot"
	case Scatter:
		return "scatter"
	case Heatmap:
		return "heatmap"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Plotter writes charts into Dir.
type Plotter struct {
	Dir    string
	Width  vg.Length
	Height vg.Length
	log    *slog.Logger
}

// New returns a Plotter. Sizes are in inches; non-positive sizes fall back to 6x4.
func New(dir string, widthIn, heightIn float64, logger *slog.Logger) *Plotter {
	if widthIn <= 0 {
		widthIn = 6
	}
	if heightIn <= 0 {
		heightIn = 4
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Plotter{Dir: dir, Width: vg.Length(widthIn) * vg.Inch, Height: vg.Length(heightIn) * vg.Inch, log: logger}
}

// Histogram saves one histogram per column and returns the file paths.
func (p *Plotter) Histogram(ds *dataset.Dataset, cols []string) ([]string, error) {
	var out []string
	for _, c := range cols {
		vals, err := values(ds, c)
		if err != nil {
			return out, err
		}
		h, err := plotter.NewHist(vals, bins(len(vals)))
		if err != nil {
			return out, fmt.Errorf("histogram %s: %w", c, err)
		}
		pl := plot.New()
		pl.Title.Text = "Histogram of " + c
		pl.X.Label.Text = c
		pl.Y.Label.Text = "Count"
		pl.Add(h)
		path, err := p.save(pl, ds, Histogram, c)
		if err != nil {
			return out, err
		}
		out = append(out, path)
	}
	return out, nil
}

// Boxplot draws one box per column side by side.
func (p *Plotter) Boxplot(ds *dataset.Dataset, cols []string) (string, error) {
	pl := plot.New()
	pl.Title.Text = "Boxplot"
	for i, c := range cols {
		vals, err := values(ds, c)
		if err != nil {
			return "", err
		}
		b, err := plotter.NewBoxPlot(vg.Points(20), float64(i), vals)
		if err != nil {
			return "", fmt.Errorf("boxplot %s: %w", c, err)
		}
		pl.Add(b)
	}
	pl.NominalX(cols...)
	return p.save(pl, ds, Boxplot, cols...)
}

// Scatter plots y against x over rows where both are present.
func (p *Plotter) Scatter(ds *dataset.Dataset, x, y string) (string, error) {
	xs, err := ds.Floats(x)
	if err != nil {
		return "", err
	}
	ys, err := ds.Floats(y)
	if err != nil {
		return "", err
	}
	var pts plotter.XYs
	for i := range xs {
		if math.IsNaN(xs[i]) || math.IsNaN(ys[i]) {
			continue
		}
		pts = append(pts, plotter.XY{X: xs[i], Y: ys[i]})
	}
	if len(pts) == 0 {
		return "", fmt.Errorf("%s vs %s: %w", x, y, ErrNoValues)
	}
	s, err := plotter.NewScatter(pts)
	if err != nil {
		return "", fmt.Errorf("scatter: %w", err)
	}
	pl := plot.New()
	pl.Title.Text = fmt.Sprintf("%s vs %s", y, x)
	pl.X.Label.Text = x
	pl.Y.Label.Text = y
	pl.Add(s)
	return p.save(pl, ds, Scatter, x, y)
}

// Heatmap draws the Pearson correlation matrix of the numeric columns in cols.
func (p *Plotter) Heatmap(ds *dataset.Dataset, cols []string) (string, error) {
	corr := analysis.Correlations(ds, cols)
	if len(corr.Columns) < 2 {
		return "", errors.New("correlation heatmap needs at least two numeric columns")
	}
	hm := plotter.NewHeatMap(corrGrid{corr}, palette.Heat(32, 1))
	hm.Min, hm.Max = -1, 1
	pl := plot.New()
	pl.Title.Text = "Correlation heatmap"
	pl.Add(hm)
	pl.NominalX(corr.Columns...)
	pl.NominalY(corr.Columns...)
	return p.save(pl, ds, Heatmap, corr.Columns...)
}

func (p *Plotter) save(pl *plot.Plot, ds *dataset.Dataset, kind Kind, cols ...string) (string, error) {
	if err := utils.EnsureDir(p.Dir); err != nil {
		return "", err
	}
	stem := strings.TrimSuffix(ds.Name, filepath.Ext(ds.Name))
	name := fmt.Sprintf("%s_%s_%s_%s.png", slug(stem), kind, slug(strings.Join(cols, "-")), uuid.NewString()[:8])
	path := filepath.Join(p.Dir, name)
	if err := pl.Save(p.Width, p.Height, path); err != nil {
		return "", fmt.Errorf("save plot: %w", err)
	}
	p.log.Debug("plot saved", "kind", kind.String(), "columns", cols, "path", path)
	return path, nil
}

// corrGrid adapts a correlation matrix to plotter.GridXYZ.
type corrGrid struct{ m *analysis.CorrMatrix }

func (g corrGrid) Dims() (c, r int)   { return len(g.m.Columns), len(g.m.Columns) }
func (g corrGrid) Z(c, r int) float64 { return g.m.Values[r][c] }
func (g corrGrid) X(c int) float64    { return float64(c) }
func (g corrGrid) Y(r int) float64    { return float64(r) }

func values(ds *dataset.Dataset, col string) (plotter.Values, error) {
	xs, err := ds.Floats(col)
	if err != nil {
		return nil, err
	}
	var vals plotter.Values
	for _, v := range xs {
		if !math.IsNaN(v) {
			vals = append(vals, v)
		}
	}
	if len(vals) == 0 {
		return nil, fmt.Errorf("%s: %w", col, ErrNoValues)
	}
	return vals, nil
}

// bins follows Sturges' rule.
func bins(n int) int {
	if n < 2 {
		return 1
	}
	return int(math.Ceil(math.Log2(float64(n)))) + 1
}

func slug(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(s) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	out := strings.Trim(b.String(), "_")
	if len(out) > 40 {
		out = out[:40]
	}
	if out == "" {
		return "plot"
	}
	return out
}
