package analysis

import (
	"fmt"
	"math"
	"regexp"
	"sort"
	"strings"
	"time"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/KaramelBytes/dataprep-cli/internal/dataset"
)

// Options controls analysis behavior for tabular data.
type Options struct {
	// SampleRows determines how many example rows to include in the report.
	SampleRows int
	// GroupBy computes per-group summaries for the given column names.
	GroupBy []string
	// Correlations computes Pearson correlations among numeric columns.
	Correlations bool
	// Outlier detection via robust Z-score (MAD). If Outliers is true, counts |z|>threshold.
	Outliers         bool
	OutlierThreshold float64
}

// DefaultOptions returns reasonable defaults for dataset analysis.
func DefaultOptions() Options {
	return Options{
		SampleRows:       5,
		Correlations:     true,
		Outliers:         true,
		OutlierThreshold: 3.5,
	}
}

// Report is a markdown-friendly analysis of a tabular dataset.
type Report struct {
	Name       string          `json:"name"`
	Rows       int             `json:"rows"`
	Missing    int             `json:"missing"`
	Duplicates int             `json:"duplicates"`
	Cols       []ColumnSummary `json:"columns"`
	Header     []string        `json:"header"`
	Samples    [][]string      `json:"samples,omitempty"`
	Warnings   []string        `json:"warnings,omitempty"`
	Groups     []GroupResult   `json:"groups,omitempty"`
	Corr       *CorrMatrix     `json:"correlations,omitempty"`
}

// ColumnSummary captures inferred type and statistics per column.
type ColumnSummary struct {
	Name    string `json:"name"`
	Kind    string `json:"kind"` // numeric|datetime|categorical|text
	Unit    string `json:"unit,omitempty"`
	NonNull int    `json:"non_null"`
	Missing int    `json:"missing"`
	Unique  int    `json:"unique"`
	// Numeric stats
	Min    float64 `json:"min,omitempty"`
	Max    float64 `json:"max,omitempty"`
	Mean   float64 `json:"mean,omitempty"`
	Std    float64 `json:"std,omitempty"`
	Median float64 `json:"median,omitempty"`
	// Outliers (robust Z via MAD)
	OutliersCount    int     `json:"outliers,omitempty"`
	OutliersMaxAbsZ  float64 `json:"outliers_max_abs_z,omitempty"`
	OutlierThreshold float64 `json:"outlier_threshold,omitempty"`
	// Categorical top values
	TopValues    []CategoryCount `json:"top_values,omitempty"`
	ExampleTexts []string        `json:"examples,omitempty"`
}

type CategoryCount struct {
	Value string `json:"value"`
	Count int    `json:"count"`
}

// GroupResult captures aggregated metrics per group key.
type GroupResult struct {
	Key     string                `json:"key"`
	Size    int                   `json:"size"`
	Metrics map[string]NumSummary `json:"metrics"` // by column name
}

type NumSummary struct {
	Count int     `json:"count"`
	Min   float64 `json:"min"`
	Max   float64 `json:"max"`
	Mean  float64 `json:"mean"`
}

// CorrMatrix holds a symmetric Pearson correlation matrix across numeric columns.
type CorrMatrix struct {
	Columns []string    `json:"columns"`
	Values  [][]float64 `json:"values"` // row-major, Values[i][j]
}

// Analyze summarizes a dataset: per-column kinds and statistics, outliers,
// correlations, group-by metrics and sample rows.
func Analyze(ds *dataset.Dataset, opt Options) *Report {
	rep := &Report{
		Name:       ds.Name,
		Rows:       ds.NRows(),
		Missing:    ds.MissingCount(),
		Duplicates: len(ds.DuplicateRows()),
		Header:     ds.Names(),
	}
	sampleRows := opt.SampleRows
	if sampleRows <= 0 {
		sampleRows = 5
	}
	rep.Samples = ds.Head(sampleRows)

	var numCols []string
	numeric := map[string][]float64{}
	for _, name := range ds.Names() {
		c, err := ds.Column(name)
		if err != nil {
			rep.Warnings = append(rep.Warnings, err.Error())
			continue
		}
		_, unit := splitUnits(name)
		s := ColumnSummary{Name: name, Unit: unit}
		present := c.Present()
		s.NonNull = len(present)
		s.Missing = c.Len() - len(present)
		s.Unique = len(c.Distinct())

		if c.Kind == dataset.Numeric {
			vals := make([]float64, len(present))
			for k, i := range present {
				vals[k] = c.Floats[i]
			}
			numCols = append(numCols, name)
			numeric[name], _ = ds.Floats(name)
			summarizeNumeric(&s, vals, opt)
		} else {
			summarizeText(&s, c, present)
		}
		rep.Cols = append(rep.Cols, s)
	}

	if len(opt.GroupBy) > 0 {
		groups, warn := groupBy(ds, opt.GroupBy, numCols, numeric)
		rep.Groups = groups
		rep.Warnings = append(rep.Warnings, warn...)
	}
	if opt.Correlations && len(numCols) >= 2 {
		rep.Corr = Correlations(ds, numCols)
	}
	if rep.Duplicates > 0 {
		rep.Warnings = append(rep.Warnings, fmt.Sprintf("%d duplicate rows", rep.Duplicates))
	}
	return rep
}

func summarizeNumeric(s *ColumnSummary, vals []float64, opt Options) {
	s.Kind = "numeric"
	if len(vals) == 0 {
		return
	}
	s.Min = floats.Min(vals)
	s.Max = floats.Max(vals)
	if len(vals) > 1 {
		s.Mean, s.Std = stat.MeanStdDev(vals, nil)
	} else {
		s.Mean = vals[0]
	}
	sorted := append([]float64(nil), vals...)
	sort.Float64s(sorted)
	s.Median = quantile(sorted, 0.5)

	if !opt.Outliers || len(vals) < 8 {
		return
	}
	median, mad := medianMAD(vals)
	thr := opt.OutlierThreshold
	if thr <= 0 {
		thr = 3.5
	}
	s.OutlierThreshold = thr
	if mad == 0 {
		return
	}
	for _, v := range vals {
		az := math.Abs(0.6745 * (v - median) / mad)
		if az > thr {
			s.OutliersCount++
		}
		if az > s.OutliersMaxAbsZ {
			s.OutliersMaxAbsZ = az
		}
	}
}

func summarizeText(s *ColumnSummary, c dataset.Column, present []int) {
	if len(present) == 0 {
		s.Kind = "text"
		return
	}
	dates := 0
	cats := map[string]int{}
	for _, i := range present {
		v := c.Strings[i]
		if _, ok := parseTimeMaybe(v); ok {
			dates++
		}
		// treat short tokens as categories
		if len(v) <= 64 {
			cats[v]++
		} else if len(s.ExampleTexts) < 3 {
			s.ExampleTexts = append(s.ExampleTexts, v)
		}
	}
	switch {
	case dates == len(present):
		s.Kind = "datetime"
	case len(cats) > 0:
		s.Kind = "categorical"
		tops := make([]CategoryCount, 0, len(cats))
		for k, v := range cats {
			tops = append(tops, CategoryCount{Value: k, Count: v})
		}
		sort.Slice(tops, func(i, j int) bool {
			if tops[i].Count == tops[j].Count {
				return tops[i].Value < tops[j].Value
			}
			return tops[i].Count > tops[j].Count
		})
		if len(tops) > 8 {
			tops = tops[:8]
		}
		s.TopValues = tops
	default:
		s.Kind = "text"
	}
}

func groupBy(ds *dataset.Dataset, by []string, numCols []string, numeric map[string][]float64) ([]GroupResult, []string) {
	var warn []string
	var keys [][]string
	var names []string
	for _, name := range by {
		name = strings.TrimSpace(name)
		found := ""
		for _, n := range ds.Names() {
			if strings.EqualFold(n, name) {
				found = n
				break
			}
		}
		if found == "" {
			warn = append(warn, fmt.Sprintf("group-by column %q not found", name))
			continue
		}
		vals, _ := ds.Strings(found)
		keys = append(keys, vals)
		names = append(names, found)
	}
	if len(keys) == 0 {
		return nil, warn
	}

	type gAcc struct {
		size int
		vals map[string][]float64
	}
	groups := map[string]*gAcc{}
	for i := 0; i < ds.NRows(); i++ {
		parts := make([]string, len(keys))
		for k, col := range keys {
			parts[k] = fmt.Sprintf("%s=%s", names[k], safeVal(col[i]))
		}
		key := strings.Join(parts, " | ")
		ga := groups[key]
		if ga == nil {
			ga = &gAcc{vals: map[string][]float64{}}
			groups[key] = ga
		}
		ga.size++
		for _, c := range numCols {
			if x := numeric[c][i]; !math.IsNaN(x) {
				ga.vals[c] = append(ga.vals[c], x)
			}
		}
	}

	out := make([]GroupResult, 0, len(groups))
	for k, ga := range groups {
		gr := GroupResult{Key: k, Size: ga.size, Metrics: map[string]NumSummary{}}
		for c, xs := range ga.vals {
			gr.Metrics[c] = NumSummary{Count: len(xs), Min: floats.Min(xs), Max: floats.Max(xs), Mean: stat.Mean(xs, nil)}
		}
		out = append(out, gr)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Size == out[j].Size {
			return out[i].Key < out[j].Key
		}
		return out[i].Size > out[j].Size
	})
	if len(out) > 20 {
		out = out[:20]
	}
	return out, warn
}

// Correlations computes the Pearson matrix of the numeric columns in cols,
// using pairwise-complete observations. Text or unknown columns are skipped.
func Correlations(ds *dataset.Dataset, cols []string) *CorrMatrix {
	var names []string
	var series [][]float64
	for _, c := range cols {
		xs, err := ds.Floats(c)
		if err != nil {
			continue
		}
		names = append(names, c)
		series = append(series, xs)
	}
	n := len(names)
	m := make([][]float64, n)
	for i := range m {
		m[i] = make([]float64, n)
		m[i][i] = 1
	}
	for a := 0; a < n; a++ {
		for b := a + 1; b < n; b++ {
			var x, y []float64
			for i := range series[a] {
				if math.IsNaN(series[a][i]) || math.IsNaN(series[b][i]) {
					continue
				}
				x = append(x, series[a][i])
				y = append(y, series[b][i])
			}
			var r float64
			if len(x) >= 2 {
				r = stat.Correlation(x, y, nil)
			}
			if math.IsNaN(r) || math.IsInf(r, 0) {
				r = 0
			}
			m[a][b], m[b][a] = r, r
		}
	}
	return &CorrMatrix{Columns: names, Values: m}
}

func parseTimeMaybe(s string) (time.Time, bool) {
	layouts := []string{
		time.RFC3339, "2006-01-02", "2006/01/02", "02/01/2006", "01/02/2006",
		"2006-01-02 15:04", "2006-01-02 15:04:05", "1/2/2006 15:04", "1/2/2006 15:04:05",
	}
	for _, l := range layouts {
		if t, err := time.Parse(l, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

var unitPatterns = []struct {
	re   *regexp.Regexp
	pick int
}{
	{regexp.MustCompile(`^(.*)\s*\(([^)]+)\)\s*$`), 2},  // e.g., Alpha (%)
	{regexp.MustCompile(`^(.*)\s*\[([^\]]+)\]\s*$`), 2}, // e.g., Mass [mg/L]
	{regexp.MustCompile(`^(.*?)[_\s-]+(mg/L|g/L|ug/L|°[CF]|Brix|%|ppm|ppb)$`), 2},
}

// splitUnits separates a unit suffix from a column header for display.
func splitUnits(name string) (clean string, unit string) {
	s := strings.TrimSpace(name)
	for _, p := range unitPatterns {
		if m := p.re.FindStringSubmatch(s); len(m) >= 3 {
			base := strings.TrimSpace(m[1])
			u := strings.TrimSpace(m[p.pick])
			if base != "" && u != "" {
				return base, u
			}
		}
	}
	return s, ""
}

// medianMAD computes median and MAD (median absolute deviation) of values.
func medianMAD(vals []float64) (median, mad float64) {
	if len(vals) == 0 {
		return 0, 0
	}
	cp := make([]float64, len(vals))
	copy(cp, vals)
	sort.Float64s(cp)
	median = quantile(cp, 0.5)
	dev := make([]float64, len(cp))
	for i, v := range cp {
		dev[i] = math.Abs(v - median)
	}
	sort.Float64s(dev)
	mad = quantile(dev, 0.5)
	return
}

func quantile(sorted []float64, q float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	if q <= 0 {
		return sorted[0]
	}
	if q >= 1 {
		return sorted[len(sorted)-1]
	}
	pos := q * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	w := pos - float64(lo)
	return sorted[lo]*(1-w) + sorted[hi]*w
}
