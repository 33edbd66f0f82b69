package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	cfgpkg "github.com/KaramelBytes/dataprep-cli/internal/config"
	"github.com/KaramelBytes/dataprep-cli/internal/dataset"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View or set dataprep configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		c := effectiveConfig()
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "delimiter: %q\n", c.Delimiter)
		fmt.Fprintf(out, "decimal_separator: %q\n", c.DecimalSeparator)
		fmt.Fprintf(out, "missing_tokens: %q\n", c.MissingTokens)
		fmt.Fprintf(out, "sample_rows: %d\n", c.SampleRows)
		fmt.Fprintf(out, "outlier_threshold: %.2f\n", c.OutlierThreshold)
		fmt.Fprintf(out, "test_ratio: %.2f\n", c.TestRatio)
		fmt.Fprintf(out, "random_seed: %d\n", c.RandomSeed)
		fmt.Fprintf(out, "tree_prune: %.2f\n", c.TreePrune)
		fmt.Fprintf(out, "forest_trees: %d\n", c.ForestTrees)
		fmt.Fprintf(out, "forest_features: %d\n", c.ForestFeatures)
		fmt.Fprintf(out, "plot_dir: %s\n", c.PlotDir)
		fmt.Fprintf(out, "plot_width_in: %.1f\n", c.PlotWidthIn)
		fmt.Fprintf(out, "plot_height_in: %.1f\n", c.PlotHeightIn)
		fmt.Fprintf(out, "color: %t\n", c.Color)
		if c.HistoryFile != "" {
			fmt.Fprintf(out, "history_file: %s\n", c.HistoryFile)
		}
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a config value and save to disk",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, val := args[0], args[1]
		if cfgErr != nil {
			return fmt.Errorf("refusing to overwrite config: %w", cfgErr)
		}
		if cfg == nil {
			c, err := cfgpkg.Load(cfgFile)
			if err != nil {
				return err
			}
			cfg = c
		}
		switch key {
		case "delimiter":
			if _, ok := dataset.ParseDelimiter(val); !ok {
				return fmt.Errorf("invalid delimiter: %s (use , ; tab |)", val)
			}
			cfg.Delimiter = val
		case "decimal_separator":
			if _, ok := dataset.ParseDecimalSeparator(val); !ok {
				return fmt.Errorf("invalid decimal_separator: %s (use '.'|'comma')", val)
			}
			cfg.DecimalSeparator = val
		case "missing_tokens":
			toks := strings.Split(val, ",")
			for i := range toks {
				toks[i] = strings.TrimSpace(toks[i])
			}
			cfg.MissingTokens = toks
		case "sample_rows", "forest_trees", "forest_features":
			i, err := strconv.Atoi(val)
			if err != nil || i < 0 {
				return fmt.Errorf("invalid int for %s: %v", key, val)
			}
			switch key {
			case "sample_rows":
				cfg.SampleRows = i
			case "forest_trees":
				cfg.ForestTrees = i
			default:
				cfg.ForestFeatures = i
			}
		case "random_seed":
			i, err := strconv.ParseInt(val, 10, 64)
			if err != nil {
				return fmt.Errorf("invalid int for random_seed: %w", err)
			}
			cfg.RandomSeed = i
		case "test_ratio", "tree_prune":
			f, err := strconv.ParseFloat(val, 64)
			if err != nil || f < 0 || f >= 1 {
				return fmt.Errorf("invalid ratio for %s: %v (want 0 <= x < 1)", key, val)
			}
			if key == "test_ratio" {
				cfg.TestRatio = f
			} else {
				cfg.TreePrune = f
			}
		case "outlier_threshold", "plot_width_in", "plot_height_in":
			f, err := strconv.ParseFloat(val, 64)
			if err != nil || f <= 0 {
				return fmt.Errorf("invalid positive float for %s: %v", key, val)
			}
			switch key {
			case "outlier_threshold":
				cfg.OutlierThreshold = f
			case "plot_width_in":
				cfg.PlotWidthIn = f
			default:
				cfg.PlotHeightIn = f
			}
		case "plot_dir":
			cfg.PlotDir = val
		case "history_file":
			cfg.HistoryFile = val
		case "color":
			b, err := strconv.ParseBool(val)
			if err != nil {
				return fmt.Errorf("invalid bool for color: %w", err)
			}
			cfg.Color = b
		default:
			return fmt.Errorf("unknown key: %s", key)
		}
		if err := cfgpkg.Save(cfg, cfgFile); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Saved config")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
}
