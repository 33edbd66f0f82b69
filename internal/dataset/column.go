package dataset

import (
	"math"

	"github.com/go-gota/gota/series"
)

// Column is a detached, typed copy of one dataset column.
// Exactly one of Floats or Strings is populated, according to Kind.
type Column struct {
	Name    string
	Kind    Kind
	Floats  []float64
	Strings []string
	Missing []bool
}

// NumericColumn builds a numeric column. A nil mask marks NaN values as missing.
func NumericColumn(name string, vals []float64, missing []bool) Column {
	c := Column{Name: name, Kind: Numeric, Floats: vals, Missing: missing}
	if c.Missing == nil {
		c.Missing = make([]bool, len(vals))
		for i, v := range vals {
			c.Missing[i] = v != v
		}
	}
	return c
}

// TextColumn builds a text column. A nil mask means nothing is missing.
func TextColumn(name string, vals []string, missing []bool) Column {
	if missing == nil {
		missing = make([]bool, len(vals))
	}
	return Column{Name: name, Kind: Text, Strings: vals, Missing: missing}
}

// Len returns the number of cells.
func (c Column) Len() int {
	if c.Kind == Numeric {
		return len(c.Floats)
	}
	return len(c.Strings)
}

// IsMissing reports whether cell i is missing.
func (c Column) IsMissing(i int) bool {
	return i < len(c.Missing) && c.Missing[i]
}

// Values returns display strings; missing cells are empty.
func (c Column) Values() []string {
	out := make([]string, c.Len())
	for i := range out {
		switch {
		case c.IsMissing(i):
		case c.Kind == Numeric:
			out[i] = FormatNumber(c.Floats[i])
		default:
			out[i] = c.Strings[i]
		}
	}
	return out
}

// Present returns the indexes of non-missing cells.
func (c Column) Present() []int {
	var idx []int
	for i := 0; i < c.Len(); i++ {
		if !c.IsMissing(i) {
			idx = append(idx, i)
		}
	}
	return idx
}

// Distinct returns the distinct non-missing values in first-seen order.
func (c Column) Distinct() []string {
	seen := map[string]bool{}
	var out []string
	vals := c.Values()
	for _, i := range c.Present() {
		v := vals[i]
		if !seen[v] {
			seen[v] = true
			out = append(out, v)
		}
	}
	return out
}

func (c Column) subset(idx []int) Column {
	out := Column{Name: c.Name, Kind: c.Kind, Missing: make([]bool, len(idx))}
	if c.Kind == Numeric {
		out.Floats = make([]float64, len(idx))
	} else {
		out.Strings = make([]string, len(idx))
	}
	for k, i := range idx {
		out.Missing[k] = c.IsMissing(i)
		if c.Kind == Numeric {
			out.Floats[k] = c.Floats[i]
		} else {
			out.Strings[k] = c.Strings[i]
		}
	}
	return out
}

// series converts the column into a gota series. Missing cells are passed as
// nil, which gota stores as NA.
func (c Column) series() series.Series {
	vals := make([]interface{}, c.Len())
	for i := range vals {
		switch {
		case c.IsMissing(i):
		case c.Kind == Numeric:
			vals[i] = c.Floats[i]
		case c.Strings[i] == "NaN":
			vals[i] = textNaN
		default:
			vals[i] = c.Strings[i]
		}
	}
	if c.Kind == Numeric {
		return series.New(vals, series.Float, c.Name)
	}
	return series.New(vals, series.String, c.Name)
}

// textNaN carries the literal text "NaN" into a string series. gota turns the
// string "NaN" into NA but copies an element's text as-is.
var textNaN = series.Floats([]float64{math.NaN()}).Elem(0)
