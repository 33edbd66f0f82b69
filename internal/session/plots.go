package session

import (
	"context"

	"github.com/KaramelBytes/dataprep-cli/internal/dataset"
	"github.com/KaramelBytes/dataprep-cli/internal/plot"
)

var plotChoices = []string{
	"Histogram",
	"Boxplot",
	"Scatter plot",
	"Correlation heatmap",
	"Back",
}

// PlotMenu renders charts of the numeric columns until the user goes back.
func (s *Session) PlotMenu(ctx context.Context, ds *dataset.Dataset) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		n, err := s.con.Choose("Plot Menu:", plotChoices, "Select an option: ")
		if err != nil {
			return err
		}
		if n == len(plotChoices) {
			s.con.Info("Returning to main menu...")
			return nil
		}
		kind := plot.Kind(n)

		var numeric []string
		for _, name := range ds.Names() {
			if ds.IsNumeric(name) {
				numeric = append(numeric, name)
			}
		}
		need := 1
		if kind == plot.Scatter || kind == plot.Heatmap {
			need = 2
		}
		if len(numeric) < need {
			s.con.Notice("A %s needs at least %d numeric column(s).", kind, need)
			continue
		}

		cols, err := s.selectColumns(kind, numeric)
		if err != nil {
			return err
		}
		var paths []string
		switch kind {
		case plot.Histogram:
			paths, err = s.plots.Histogram(ds, cols)
		case plot.Boxplot:
			var p string
			p, err = s.plots.Boxplot(ds, cols)
			paths = []string{p}
		case plot.Scatter:
			var p string
			p, err = s.plots.Scatter(ds, cols[0], cols[1])
			paths = []string{p}
		case plot.Heatmap:
			var p string
			p, err = s.plots.Heatmap(ds, cols)
			paths = []string{p}
		}
		if err != nil {
			s.con.Failure("Cannot plot %s: %v", kind, err)
			continue
		}
		for _, p := range paths {
			s.con.Success("Plot saved to %s", p)
		}
	}
}

func (s *Session) selectColumns(kind plot.Kind, numeric []string) ([]string, error) {
	for {
		s.con.Question("Select columns to plot the %s (space, comma and semicolon are delimiters, colon and dash define inclusive range)", kind)
		s.con.List(numeric)
		ans, err := s.con.Ask("Enter column numbers: ")
		if err != nil {
			return nil, err
		}
		idx, err := plot.ParseSelection(ans, len(numeric))
		switch {
		case err != nil:
			s.con.Failure("Invalid input: %v", err)
			continue
		case len(idx) == 0:
			s.con.Failure("No columns selected. Please try again!")
			continue
		case kind == plot.Scatter && len(idx) != 2:
			s.con.Failure("Select exactly two columns for a scatter plot.")
			continue
		case kind == plot.Heatmap && len(idx) < 2:
			s.con.Failure("Select at least two columns for a heatmap.")
			continue
		}
		cols := make([]string, len(idx))
		for i, k := range idx {
			cols[i] = numeric[k]
		}
		return cols, nil
	}
}
