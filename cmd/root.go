package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/KaramelBytes/dataprep-cli/internal/analysis"
	cfgpkg "github.com/KaramelBytes/dataprep-cli/internal/config"
	"github.com/KaramelBytes/dataprep-cli/internal/console"
	"github.com/KaramelBytes/dataprep-cli/internal/dataset"
	"github.com/KaramelBytes/dataprep-cli/internal/model"
	"github.com/KaramelBytes/dataprep-cli/internal/session"
	"github.com/KaramelBytes/dataprep-cli/internal/utils"
)

var (
	// Global flags
	cfgFile       string
	debug         bool
	flagDelimiter string
	flagNoColor   bool
	flagPlotDir   string

	// Loaded configuration
	cfg *cfgpkg.Global
	// cfgErr keeps the load error of an explicit --config file
	cfgErr error
)

var rootCmd = &cobra.Command{
	Use:   "dataprep <file>...",
	Short: "dataprep: interactive cleaning of tabular datasets",
	Long: `dataprep loads CSV/TSV/XLSX files one after another, resolves missing values
and duplicates interactively, and offers a menu for encoding, plotting, baseline
models and export.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSession,
}

// Execute is the entry point called by main.main()
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		fmt.Fprintln(os.Stderr, "✗ Error:", err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(loadConfig)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ~/.dataprep/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging on stderr")
	rootCmd.PersistentFlags().StringVar(&flagDelimiter, "delimiter", "", "field delimiter: , ; tab | (default: sniff)")
	rootCmd.PersistentFlags().BoolVar(&flagNoColor, "no-color", false, "disable colored output")
	rootCmd.PersistentFlags().StringVar(&flagPlotDir, "plot-dir", "", "directory for saved plots (overrides config)")
}

func loadConfig() {
	c, err := cfgpkg.Load(cfgFile)
	cfgErr = err
	if err != nil {
		// Non-fatal: fall back to built-in defaults
		fmt.Fprintf(os.Stderr, "⚠ Warning: failed to load config: %v\n", err)
		c = cfgpkg.Default()
	}
	cfg = c

	// Apply CLI overrides if provided
	f := rootCmd.PersistentFlags()
	if f.Changed("delimiter") {
		cfg.Delimiter = flagDelimiter
	}
	if f.Changed("no-color") && flagNoColor {
		cfg.Color = false
	}
	if f.Changed("plot-dir") && flagPlotDir != "" {
		cfg.PlotDir = flagPlotDir
	}
}

func runSession(cmd *cobra.Command, args []string) error {
	c := effectiveConfig()
	opt, err := sessionOptions(c)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	logger := newLogger(cmd.ErrOrStderr())

	var in console.Prompter
	if f, ok := cmd.InOrStdin().(*os.File); ok && isTerminal(f) {
		if c.HistoryFile != "" {
			if err := utils.EnsureDir(filepath.Dir(c.HistoryFile)); err != nil {
				logger.Warn("history disabled", "path", c.HistoryFile, "err", err)
			}
		}
		term, err := console.NewTerminal(c.HistoryFile, out)
		if err != nil {
			return fmt.Errorf("open terminal: %w", err)
		}
		defer term.Close()
		in = term
	} else {
		in = console.NewLinePrompter(cmd.InOrStdin(), out)
	}
	color := c.Color
	if f, ok := out.(*os.File); !ok || !isTerminal(f) {
		color = false
	}
	con := console.New(out, in, color)

	err = session.New(con, opt, logger).Run(cmd.Context(), args)
	switch {
	case errors.Is(err, io.EOF), errors.Is(err, console.ErrInterrupted), errors.Is(err, context.Canceled):
		logger.Debug("session ended early", "err", err)
		con.Println()
		con.Info("Exiting...")
		return nil
	}
	return err
}

func effectiveConfig() *cfgpkg.Global {
	if cfg == nil {
		return cfgpkg.Default()
	}
	return cfg
}

func sessionOptions(c *cfgpkg.Global) (session.Options, error) {
	load, err := loadOptions(c, "")
	if err != nil {
		return session.Options{}, err
	}
	ana := analysis.DefaultOptions()
	if c.SampleRows > 0 {
		ana.SampleRows = c.SampleRows
	}
	if c.OutlierThreshold > 0 {
		ana.OutlierThreshold = c.OutlierThreshold
	}
	mo := model.DefaultOptions()
	if c.TestRatio > 0 && c.TestRatio < 1 {
		mo.TestRatio = c.TestRatio
	}
	mo.Seed = c.RandomSeed
	mo.TreePrune = c.TreePrune
	if c.ForestTrees > 0 {
		mo.ForestTrees = c.ForestTrees
	}
	mo.ForestFeatures = c.ForestFeatures
	return session.Options{
		Load:         load,
		Analysis:     ana,
		Model:        mo,
		PlotDir:      c.PlotDir,
		PlotWidthIn:  c.PlotWidthIn,
		PlotHeightIn: c.PlotHeightIn,
	}, nil
}

// loadOptions builds reader options from config; a non-empty decimal overrides it.
func loadOptions(c *cfgpkg.Global, decimal string) (dataset.Options, error) {
	opt := dataset.DefaultOptions()
	if len(c.MissingTokens) > 0 {
		opt.MissingTokens = c.MissingTokens
	}
	d, ok := dataset.ParseDelimiter(c.Delimiter)
	if !ok {
		return opt, fmt.Errorf("unsupported delimiter: %q (use , ; tab |)", c.Delimiter)
	}
	opt.Delimiter = d
	if decimal == "" {
		decimal = c.DecimalSeparator
	}
	dec, ok := dataset.ParseDecimalSeparator(decimal)
	if !ok {
		return opt, fmt.Errorf("unsupported decimal separator: %q (use '.'|'comma')", decimal)
	}
	opt.DecimalSeparator = dec
	return opt, nil
}

func newLogger(w io.Writer) *slog.Logger {
	level := slog.LevelWarn
	if debug {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

func isTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
