package impute

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/KaramelBytes/dataprep-cli/internal/dataset"
)

// FillMean replaces missing cells of a numeric column with the mean of the
// present values.
func FillMean(ds *dataset.Dataset, col string) error {
	vals, err := present(ds, col)
	if err != nil {
		return err
	}
	return fillNumber(ds, col, stat.Mean(vals, nil))
}

// FillMedian replaces missing cells with the median of the present values.
// Even counts average the two middle values.
func FillMedian(ds *dataset.Dataset, col string) error {
	vals, err := present(ds, col)
	if err != nil {
		return err
	}
	return fillNumber(ds, col, median(vals))
}

// FillMode replaces missing cells with the most frequent present value. Ties go
// to the smallest value (numeric order for numbers, byte order for text).
func FillMode(ds *dataset.Dataset, col string) error {
	c, err := ds.Column(col)
	if err != nil {
		return err
	}
	idx := c.Present()
	if len(idx) == 0 {
		return fmt.Errorf("mode of %s: %w", col, ErrNoObservations)
	}
	if c.Kind == dataset.Numeric {
		vals := make([]float64, len(idx))
		for k, i := range idx {
			vals[k] = c.Floats[i]
		}
		return fillNumber(ds, col, modeFloat(vals))
	}
	vals := make([]string, len(idx))
	for k, i := range idx {
		vals[k] = c.Strings[i]
	}
	return fillText(c, ds, modeString(vals))
}

// FillConstant replaces missing cells with a user-supplied literal. A numeric
// column keeps its kind when the literal parses as a number; otherwise the
// column becomes text and the literal is stored verbatim.
func FillConstant(ds *dataset.Dataset, col, literal string) error {
	c, err := ds.Column(col)
	if err != nil {
		return err
	}
	if c.Kind == dataset.Numeric {
		if v, ok := dataset.ParseNumber(literal, 0); ok {
			return fillNumber(ds, col, v)
		}
		c = dataset.TextColumn(col, c.Values(), c.Missing)
	}
	return fillText(c, ds, literal)
}

func present(ds *dataset.Dataset, col string) ([]float64, error) {
	all, err := ds.Floats(col)
	if err != nil {
		return nil, err
	}
	vals := make([]float64, 0, len(all))
	for _, v := range all {
		if !math.IsNaN(v) {
			vals = append(vals, v)
		}
	}
	if len(vals) == 0 {
		return nil, fmt.Errorf("%s: %w", col, ErrNoObservations)
	}
	return vals, nil
}

func fillNumber(ds *dataset.Dataset, col string, v float64) error {
	vals, err := ds.Floats(col)
	if err != nil {
		return err
	}
	for i, x := range vals {
		if math.IsNaN(x) {
			vals[i] = v
		}
	}
	return ds.SetFloats(col, vals, make([]bool, len(vals)))
}

func fillText(c dataset.Column, ds *dataset.Dataset, v string) error {
	vals := make([]string, c.Len())
	copy(vals, c.Strings)
	for i := range vals {
		if c.IsMissing(i) {
			vals[i] = v
		}
	}
	return ds.SetStrings(c.Name, vals, nil)
}

func median(vals []float64) float64 {
	s := append([]float64(nil), vals...)
	sort.Float64s(s)
	n := len(s)
	if n%2 == 1 {
		return s[n/2]
	}
	return (s[n/2-1] + s[n/2]) / 2
}

func modeFloat(vals []float64) float64 {
	counts := map[float64]int{}
	for _, v := range vals {
		counts[v]++
	}
	best, bestN := math.Inf(1), 0
	for v, n := range counts {
		if n > bestN || (n == bestN && v < best) {
			best, bestN = v, n
		}
	}
	return best
}

func modeString(vals []string) string {
	counts := map[string]int{}
	for _, v := range vals {
		counts[v]++
	}
	var best string
	bestN := 0
	for v, n := range counts {
		if n > bestN || (n == bestN && v < best) {
			best, bestN = v, n
		}
	}
	return best
}
