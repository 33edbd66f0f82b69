// Package dataset holds the in-memory table every session operation mutates.
//
// A Dataset wraps a gota DataFrame whose columns are either series.Float
// (numeric) or series.String (text). Missing cells are gota NA elements.
// All mutating methods replace the wrapped frame; callers share the
// *Dataset handle and observe changes immediately.
package dataset

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"github.com/google/uuid"
)

// Kind is the semantic type of a column.
type Kind int

const (
	Numeric Kind = iota
	Text
)

func (k Kind) String() string {
	if k == Numeric {
		return "numeric"
	}
	return "text"
}

var (
	// ErrColumnNotFound is returned when a column name is not part of the dataset.
	ErrColumnNotFound = errors.New("column not found")
	// ErrNotNumeric is returned when numeric values are requested from a text column.
	ErrNotNumeric = errors.New("column is not numeric")
)

// Dataset is a mutable, ordered collection of named, typed columns.
type Dataset struct {
	ID    uuid.UUID
	Name  string
	frame dataframe.DataFrame
	rows  int
}

// FromColumns builds a dataset from already-typed column data.
func FromColumns(name string, cols ...Column) (*Dataset, error) {
	d := &Dataset{ID: uuid.New(), Name: name}
	if len(cols) == 0 {
		return d, nil
	}
	ss := make([]series.Series, 0, len(cols))
	n := cols[0].Len()
	for _, c := range cols {
		if c.Len() != n {
			return nil, fmt.Errorf("column %q has %d rows, want %d", c.Name, c.Len(), n)
		}
		ss = append(ss, c.series())
	}
	if err := d.setFrame(ss, n); err != nil {
		return nil, err
	}
	return d, nil
}

// Frame exposes the underlying gota DataFrame (a copy-on-read view).
func (d *Dataset) Frame() dataframe.DataFrame { return d.frame.Copy() }

// Names returns column names in order.
func (d *Dataset) Names() []string {
	if d.frame.Ncol() == 0 {
		return nil
	}
	return d.frame.Names()
}

// NRows returns the number of rows.
func (d *Dataset) NRows() int { return d.rows }

// NCols returns the number of columns.
func (d *Dataset) NCols() int { return d.frame.Ncol() }

// Has reports whether a column exists.
func (d *Dataset) Has(col string) bool { return d.index(col) >= 0 }

func (d *Dataset) index(col string) int {
	for i, n := range d.Names() {
		if n == col {
			return i
		}
	}
	return -1
}

func (d *Dataset) col(name string) (series.Series, error) {
	if !d.Has(name) {
		return series.Series{}, fmt.Errorf("%w: %s", ErrColumnNotFound, name)
	}
	s := d.frame.Col(name)
	if s.Err != nil {
		return series.Series{}, fmt.Errorf("column %s: %w", name, s.Err)
	}
	return s, nil
}

// Kind reports whether a column is numeric or text.
func (d *Dataset) Kind(col string) (Kind, error) {
	s, err := d.col(col)
	if err != nil {
		return Text, err
	}
	if s.Type() == series.Float || s.Type() == series.Int {
		return Numeric, nil
	}
	return Text, nil
}

// IsNumeric is a convenience wrapper around Kind.
func (d *Dataset) IsNumeric(col string) bool {
	k, err := d.Kind(col)
	return err == nil && k == Numeric
}

// Missing returns the missingness mask for a column.
func (d *Dataset) Missing(col string) ([]bool, error) {
	s, err := d.col(col)
	if err != nil {
		return nil, err
	}
	return s.IsNaN(), nil
}

// MissingIn counts missing cells in one column; unknown columns count as zero.
func (d *Dataset) MissingIn(col string) int {
	mask, err := d.Missing(col)
	if err != nil {
		return 0
	}
	n := 0
	for _, m := range mask {
		if m {
			n++
		}
	}
	return n
}

// MissingCount counts missing cells across all columns.
func (d *Dataset) MissingCount() int {
	total := 0
	for _, c := range d.Names() {
		total += d.MissingIn(c)
	}
	return total
}

// ColumnsWithMissing lists columns that contain at least one missing cell, in order.
func (d *Dataset) ColumnsWithMissing() []string {
	var out []string
	for _, c := range d.Names() {
		if d.MissingIn(c) > 0 {
			out = append(out, c)
		}
	}
	return out
}

// Column returns a detached copy of a column.
func (d *Dataset) Column(name string) (Column, error) {
	s, err := d.col(name)
	if err != nil {
		return Column{}, err
	}
	c := Column{Name: name, Missing: s.IsNaN()}
	if s.Type() == series.Float || s.Type() == series.Int {
		c.Kind = Numeric
		c.Floats = s.Float()
		return c, nil
	}
	c.Kind = Text
	c.Strings = s.Records()
	for i, m := range c.Missing {
		if m {
			c.Strings[i] = ""
		}
	}
	return c, nil
}

// Floats returns numeric values with NaN in missing positions.
func (d *Dataset) Floats(col string) ([]float64, error) {
	c, err := d.Column(col)
	if err != nil {
		return nil, err
	}
	if c.Kind != Numeric {
		return nil, fmt.Errorf("%w: %s", ErrNotNumeric, col)
	}
	out := make([]float64, len(c.Floats))
	for i, v := range c.Floats {
		if c.Missing[i] {
			v = math.NaN()
		}
		out[i] = v
	}
	return out, nil
}

// Strings returns the display form of every cell; missing cells are empty.
func (d *Dataset) Strings(col string) ([]string, error) {
	c, err := d.Column(col)
	if err != nil {
		return nil, err
	}
	return c.Values(), nil
}

// Put replaces (or appends) a column. The column length must match the dataset.
func (d *Dataset) Put(c Column) error {
	if d.NCols() > 0 && c.Len() != d.rows {
		return fmt.Errorf("column %q has %d rows, want %d", c.Name, c.Len(), d.rows)
	}
	if d.NCols() == 0 {
		return d.setFrame([]series.Series{c.series()}, c.Len())
	}
	next := d.frame.Mutate(c.series())
	if next.Err != nil {
		return fmt.Errorf("replace column %s: %w", c.Name, next.Err)
	}
	d.frame = next
	return nil
}

// SetFloats stores a numeric column; missing may be nil.
func (d *Dataset) SetFloats(col string, vals []float64, missing []bool) error {
	return d.Put(NumericColumn(col, vals, missing))
}

// SetStrings stores a text column; missing may be nil.
func (d *Dataset) SetStrings(col string, vals []string, missing []bool) error {
	return d.Put(TextColumn(col, vals, missing))
}

// InsertColumn places a column at position pos (clamped to the valid range).
func (d *Dataset) InsertColumn(pos int, c Column) error {
	if d.Has(c.Name) {
		return fmt.Errorf("column %q already exists", c.Name)
	}
	if d.NCols() > 0 && c.Len() != d.rows {
		return fmt.Errorf("column %q has %d rows, want %d", c.Name, c.Len(), d.rows)
	}
	names := d.Names()
	if pos < 0 {
		pos = 0
	}
	if pos > len(names) {
		pos = len(names)
	}
	ss := make([]series.Series, 0, len(names)+1)
	for i, n := range names {
		if i == pos {
			ss = append(ss, c.series())
		}
		ss = append(ss, d.frame.Col(n))
	}
	if pos == len(names) {
		ss = append(ss, c.series())
	}
	return d.setFrame(ss, c.Len())
}

// DropColumns removes the named columns.
func (d *Dataset) DropColumns(cols ...string) error {
	drop := map[string]bool{}
	for _, c := range cols {
		if !d.Has(c) {
			return fmt.Errorf("%w: %s", ErrColumnNotFound, c)
		}
		drop[c] = true
	}
	var keep []series.Series
	for _, n := range d.Names() {
		if !drop[n] {
			keep = append(keep, d.frame.Col(n))
		}
	}
	return d.setFrame(keep, d.rows)
}

// DropRowsWithMissing removes rows with a missing cell in any of cols
// (all columns when cols is empty). It returns the number of rows removed.
func (d *Dataset) DropRowsWithMissing(cols ...string) (int, error) {
	if len(cols) == 0 {
		cols = d.Names()
	}
	bad := make([]bool, d.rows)
	for _, c := range cols {
		mask, err := d.Missing(c)
		if err != nil {
			return 0, err
		}
		for i, m := range mask {
			if m {
				bad[i] = true
			}
		}
	}
	var keep []int
	for i, b := range bad {
		if !b {
			keep = append(keep, i)
		}
	}
	removed := d.rows - len(keep)
	if removed == 0 {
		return 0, nil
	}
	return removed, d.KeepRows(keep)
}

// KeepRows retains only the given row indexes, in the given order.
func (d *Dataset) KeepRows(idx []int) error {
	for _, i := range idx {
		if i < 0 || i >= d.rows {
			return fmt.Errorf("row index %d out of range [0,%d)", i, d.rows)
		}
	}
	var ss []series.Series
	for _, n := range d.Names() {
		c, err := d.Column(n)
		if err != nil {
			return err
		}
		ss = append(ss, c.subset(idx).series())
	}
	return d.setFrame(ss, len(idx))
}

// Row returns the display values of one row.
func (d *Dataset) Row(i int) []string {
	names := d.Names()
	out := make([]string, len(names))
	for j, n := range names {
		vals, err := d.Strings(n)
		if err != nil || i >= len(vals) {
			continue
		}
		out[j] = vals[i]
	}
	return out
}

// Records returns all rows in display form (no header); missing cells are empty.
func (d *Dataset) Records() [][]string {
	names := d.Names()
	cols := make([][]string, len(names))
	for j, n := range names {
		cols[j], _ = d.Strings(n)
	}
	out := make([][]string, d.rows)
	for i := range out {
		row := make([]string, len(names))
		for j := range names {
			row[j] = cols[j][i]
		}
		out[i] = row
	}
	return out
}

// Head returns up to n rows in display form.
func (d *Dataset) Head(n int) [][]string {
	recs := d.Records()
	if n >= 0 && len(recs) > n {
		recs = recs[:n]
	}
	return recs
}

// DuplicateRows returns the indexes of rows that repeat an earlier row exactly.
func (d *Dataset) DuplicateRows() []int {
	names := d.Names()
	masks := make([][]bool, len(names))
	for j, n := range names {
		masks[j], _ = d.Missing(n)
	}
	seen := map[string]bool{}
	var dups []int
	for i, row := range d.Records() {
		var b strings.Builder
		for j, v := range row {
			if masks[j][i] {
				b.WriteString("\x00")
			} else {
				b.WriteString(v)
			}
			b.WriteString("\x1f")
		}
		key := b.String()
		if seen[key] {
			dups = append(dups, i)
			continue
		}
		seen[key] = true
	}
	return dups
}

// DropDuplicates removes repeated rows, keeping the first occurrence.
func (d *Dataset) DropDuplicates() (int, error) {
	dups := d.DuplicateRows()
	if len(dups) == 0 {
		return 0, nil
	}
	isDup := make(map[int]bool, len(dups))
	for _, i := range dups {
		isDup[i] = true
	}
	keep := make([]int, 0, d.rows-len(dups))
	for i := 0; i < d.rows; i++ {
		if !isDup[i] {
			keep = append(keep, i)
		}
	}
	return len(dups), d.KeepRows(keep)
}

func (d *Dataset) setFrame(ss []series.Series, rows int) error {
	d.rows = rows
	if len(ss) == 0 {
		d.frame = dataframe.DataFrame{}
		return nil
	}
	df := dataframe.New(ss...)
	if df.Err != nil {
		return fmt.Errorf("build frame: %w", df.Err)
	}
	d.frame = df
	return nil
}

// FormatNumber renders a float in its shortest round-trip form.
func FormatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
