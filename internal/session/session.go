// Package session drives the interactive cleaning workflow for each input
// file: inspection, missing-data resolution, duplicate removal and the menus.
package session

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/KaramelBytes/dataprep-cli/internal/analysis"
	"github.com/KaramelBytes/dataprep-cli/internal/console"
	"github.com/KaramelBytes/dataprep-cli/internal/dataset"
	"github.com/KaramelBytes/dataprep-cli/internal/impute"
	"github.com/KaramelBytes/dataprep-cli/internal/model"
	"github.com/KaramelBytes/dataprep-cli/internal/plot"
)

// Options configures a session.
type Options struct {
	Load     dataset.Options
	Analysis analysis.Options
	Model    model.Options

	PlotDir      string
	PlotWidthIn  float64
	PlotHeightIn float64
}

// Session owns the console and the helpers shared by every file of a run.
type Session struct {
	con   *console.Console
	imp   *impute.Imputer
	plots *plot.Plotter
	opt   Options
	log   *slog.Logger
}

// New returns a Session writing to con. A nil logger discards log output.
func New(con *console.Console, opt Options, logger *slog.Logger) *Session {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Session{
		con:   con,
		imp:   impute.New(con, logger),
		plots: plot.New(opt.PlotDir, opt.PlotWidthIn, opt.PlotHeightIn, logger),
		opt:   opt,
		log:   logger,
	}
}

// Run processes files in order. It stops early when the user picks Exit.
func (s *Session) Run(ctx context.Context, files []string) error {
	for i, f := range files {
		if err := ctx.Err(); err != nil {
			return err
		}
		ds, err := dataset.Load(f, s.opt.Load)
		if err != nil {
			return fmt.Errorf("load %s: %w", f, err)
		}
		s.log.Info("loaded dataset", "file", f, "rows", ds.NRows(), "columns", ds.NCols(), "id", ds.ID)
		exit, err := s.Process(ctx, ds, i == len(files)-1)
		if err != nil {
			return err
		}
		if exit {
			return nil
		}
	}
	return nil
}

// Process runs the initial cleaning steps on ds and then the main menu. It
// reports whether the user asked to end the whole run.
func (s *Session) Process(ctx context.Context, ds *dataset.Dataset, last bool) (bool, error) {
	s.Inspect(ds)
	if err := s.imp.Resolve(ds); err != nil {
		return false, err
	}
	if err := s.RemoveDuplicates(ds); err != nil {
		return false, err
	}
	s.con.Println()
	s.con.Info("Initial preprocessing complete!")
	return s.Menu(ctx, ds, last)
}

// Inspect prints a preview, per-column info and descriptive statistics.
func (s *Session) Inspect(ds *dataset.Dataset) {
	rep := analysis.Analyze(ds, s.opt.Analysis)
	out := s.con.Out()
	s.con.Info("Preview of dataset:")
	rep.RenderPreview(out)
	s.con.Println()
	s.con.Info("Data info:")
	rep.RenderInfo(out)
	s.con.Println()
	s.con.Info("Data description:")
	rep.RenderDescribe(out)
	if rep.Corr != nil {
		s.con.Println()
		s.con.Info("Correlations:")
		rep.RenderCorrelations(out)
	}
}

// RemoveDuplicates reports repeated rows and drops them when the user agrees.
func (s *Session) RemoveDuplicates(ds *dataset.Dataset) error {
	n := len(ds.DuplicateRows())
	if n == 0 {
		s.con.Success("No duplicate data found!")
		return nil
	}
	s.con.Failure("%d duplicate rows found!", n)
	ok, err := s.con.Confirm("Do you want to remove duplicate data? (y/n): ")
	if err != nil {
		return err
	}
	if !ok {
		s.con.Info("Duplicate data not removed.")
		return nil
	}
	if _, err := ds.DropDuplicates(); err != nil {
		return err
	}
	s.con.Success("Duplicate data removed!")
	return nil
}
