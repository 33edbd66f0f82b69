package analysis

import (
	"fmt"
	"io"
	"math"
	"sort"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

// Markdown renders a compact report suitable for standalone docs.
func (r *Report) Markdown() string {
	var b strings.Builder
	b.WriteString("[DATASET SUMMARY]\n")
	if r.Name != "" {
		b.WriteString(fmt.Sprintf("File: %s\n", r.Name))
	}
	b.WriteString(fmt.Sprintf("Rows: %d\n", r.Rows))
	b.WriteString(fmt.Sprintf("Columns: %d\n", len(r.Cols)))
	b.WriteString(fmt.Sprintf("Missing cells: %d\n", r.Missing))
	b.WriteString(fmt.Sprintf("Duplicate rows: %d\n\n", r.Duplicates))

	b.WriteString("[SCHEMA]\n")
	for _, c := range r.Cols {
		name := safeName(c.Name)
		if c.Unit != "" {
			name = fmt.Sprintf("%s [%s]", name, c.Unit)
		}
		b.WriteString(fmt.Sprintf("- %s: %s (non-null %d, missing %.1f%%)", name, c.Kind, c.NonNull, c.missingPct()))
		switch c.Kind {
		case "numeric":
			if c.NonNull == 0 {
				break
			}
			b.WriteString(fmt.Sprintf("; min %.4g, max %.4g, mean %.4g, median %.4g, std %.4g", c.Min, c.Max, c.Mean, c.Median, c.Std))
			if c.OutlierThreshold > 0 {
				b.WriteString(fmt.Sprintf("; outliers: %d above |z|>%.1f", c.OutliersCount, c.OutlierThreshold))
				if c.OutliersMaxAbsZ > 0 {
					b.WriteString(fmt.Sprintf(" (max |z|≈%.2f)", c.OutliersMaxAbsZ))
				}
			}
		case "categorical":
			if len(c.TopValues) > 0 {
				b.WriteString("; top: ")
				for i, kv := range c.TopValues {
					if i > 0 {
						b.WriteString(", ")
					}
					b.WriteString(fmt.Sprintf("%s(%d)", safeVal(kv.Value), kv.Count))
				}
				if c.Unique > len(c.TopValues) {
					b.WriteString(fmt.Sprintf("; unique=%d", c.Unique))
				}
			}
		case "text":
			if len(c.ExampleTexts) > 0 {
				b.WriteString("; e.g., ")
				for i, ex := range c.ExampleTexts {
					if i > 0 {
						b.WriteString(" | ")
					}
					b.WriteString(safeVal(ex))
				}
			}
		}
		b.WriteString("\n")
	}
	if len(r.Groups) > 0 {
		b.WriteString("\n[GROUP-BY SUMMARY]\n")
		for _, g := range r.Groups {
			b.WriteString(fmt.Sprintf("- %s (n=%d)\n", g.Key, g.Size))
			keys := make([]string, 0, len(g.Metrics))
			for k := range g.Metrics {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			if len(keys) > 6 {
				keys = keys[:6]
			}
			for _, k := range keys {
				m := g.Metrics[k]
				b.WriteString(fmt.Sprintf("  • %s: mean %.4g (min %.4g, max %.4g)\n", k, m.Mean, m.Min, m.Max))
			}
		}
	}
	if pairs := r.TopPairs(10); len(pairs) > 0 {
		b.WriteString("\n[CORRELATIONS]\n")
		for _, p := range pairs {
			b.WriteString(fmt.Sprintf("- %s ~ %s: r=%.3f\n", p.A, p.B, p.R))
		}
	}
	if len(r.Samples) > 0 {
		b.WriteString("\n[HEAD AND SAMPLE ROWS]\n| ")
		for i, h := range r.Header {
			if i > 0 {
				b.WriteString(" | ")
			}
			b.WriteString(safeName(h))
		}
		b.WriteString(" |\n| ")
		for i := range r.Header {
			if i > 0 {
				b.WriteString(" | ")
			}
			b.WriteString("---")
		}
		b.WriteString(" |\n")
		for _, row := range r.Samples {
			b.WriteString("| ")
			for i := range r.Header {
				if i > 0 {
					b.WriteString(" | ")
				}
				val := ""
				if i < len(row) {
					val = row[i]
				}
				if len(val) > 80 {
					val = val[:77] + "..."
				}
				b.WriteString(safeVal(val))
			}
			b.WriteString(" |\n")
		}
	}
	if len(r.Warnings) > 0 {
		b.WriteString("\n[NOTES]\n")
		for _, w := range r.Warnings {
			b.WriteString("- ")
			b.WriteString(w)
			b.WriteString("\n")
		}
	}
	return b.String()
}

// PairCorr is one off-diagonal entry of the correlation matrix.
type PairCorr struct {
	A, B string
	R    float64
}

// TopPairs returns up to n column pairs ordered by |r|, strongest first.
func (r *Report) TopPairs(n int) []PairCorr {
	if r.Corr == nil || len(r.Corr.Columns) < 2 {
		return nil
	}
	var pairs []PairCorr
	cols := r.Corr.Columns
	for i := range cols {
		for j := i + 1; j < len(cols); j++ {
			pairs = append(pairs, PairCorr{A: cols[i], B: cols[j], R: r.Corr.Values[i][j]})
		}
	}
	sort.SliceStable(pairs, func(i, j int) bool {
		ai, aj := math.Abs(pairs[i].R), math.Abs(pairs[j].R)
		if ai == aj {
			return pairs[i].A+pairs[i].B < pairs[j].A+pairs[j].B
		}
		return ai > aj
	})
	if n > 0 && len(pairs) > n {
		pairs = pairs[:n]
	}
	return pairs
}

// Render writes every terminal section with a plain heading.
func (r *Report) Render(w io.Writer) {
	fmt.Fprintln(w, "Preview of dataset:")
	r.RenderPreview(w)
	fmt.Fprintln(w, "Data info:")
	r.RenderInfo(w)
	fmt.Fprintln(w, "Data description:")
	r.RenderDescribe(w)
	if r.Corr != nil {
		fmt.Fprintln(w, "Correlations:")
		r.RenderCorrelations(w)
	}
}

// RenderPreview writes the sample rows as a table.
func (r *Report) RenderPreview(w io.Writer) {
	t := newTable(w)
	t.AppendHeader(toRow(r.Header))
	for _, row := range r.Samples {
		t.AppendRow(toRow(row))
	}
	t.Render()
}

// RenderInfo writes one line per column: kind, non-null and missing counts.
func (r *Report) RenderInfo(w io.Writer) {
	fmt.Fprintf(w, "%d rows x %d columns, %d missing cells, %d duplicate rows\n", r.Rows, len(r.Cols), r.Missing, r.Duplicates)
	t := newTable(w)
	t.AppendHeader(table.Row{"#", "Column", "Kind", "Non-Null", "Missing", "Unique"})
	for i, c := range r.Cols {
		t.AppendRow(table.Row{i + 1, c.Name, c.Kind, c.NonNull, c.Missing, c.Unique})
	}
	t.Render()
}

// RenderDescribe writes descriptive statistics for the numeric columns.
func (r *Report) RenderDescribe(w io.Writer) {
	t := newTable(w)
	t.AppendHeader(table.Row{"Column", "Count", "Mean", "Std", "Min", "Median", "Max", "Outliers"})
	n := 0
	for _, c := range r.Cols {
		if c.Kind != "numeric" {
			continue
		}
		n++
		if c.NonNull == 0 {
			t.AppendRow(table.Row{c.Name, 0, "", "", "", "", "", ""})
			continue
		}
		out := ""
		if c.OutlierThreshold > 0 {
			out = fmt.Sprint(c.OutliersCount)
		}
		t.AppendRow(table.Row{c.Name, c.NonNull, num(c.Mean), num(c.Std), num(c.Min), num(c.Median), num(c.Max), out})
	}
	if n == 0 {
		fmt.Fprintln(w, "No numeric columns.")
		return
	}
	t.Render()
}

// RenderCorrelations writes the strongest correlated pairs.
func (r *Report) RenderCorrelations(w io.Writer) {
	pairs := r.TopPairs(10)
	if len(pairs) == 0 {
		return
	}
	t := newTable(w)
	t.AppendHeader(table.Row{"Column A", "Column B", "r"})
	for _, p := range pairs {
		t.AppendRow(table.Row{p.A, p.B, fmt.Sprintf("%.3f", p.R)})
	}
	t.Render()
}

func newTable(w io.Writer) table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	// Headers carry dataset column names; keep their case.
	t.Style().Format.Header = text.FormatDefault
	return t
}

func toRow(vals []string) table.Row {
	row := make(table.Row, len(vals))
	for i, v := range vals {
		if len(v) > 40 {
			v = v[:37] + "..."
		}
		row[i] = v
	}
	return row
}

func num(v float64) string { return fmt.Sprintf("%.4g", v) }

func (c ColumnSummary) missingPct() float64 {
	total := c.NonNull + c.Missing
	if total == 0 {
		return 0
	}
	return float64(c.Missing) * 100.0 / float64(total)
}

func safeName(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return "(unnamed)"
	}
	return s
}

func safeVal(s string) string { return strings.ReplaceAll(strings.ReplaceAll(s, "\n", " "), "|", "/") }
