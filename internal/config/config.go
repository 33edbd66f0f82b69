package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Global configuration structure.
type Global struct {
	// Loading
	Delimiter        string   `mapstructure:"delimiter" yaml:"delimiter"`
	DecimalSeparator string   `mapstructure:"decimal_separator" yaml:"decimal_separator"`
	MissingTokens    []string `mapstructure:"missing_tokens" yaml:"missing_tokens"`

	// Inspection
	SampleRows       int     `mapstructure:"sample_rows" yaml:"sample_rows"`
	OutlierThreshold float64 `mapstructure:"outlier_threshold" yaml:"outlier_threshold"`

	// Model training
	TestRatio      float64 `mapstructure:"test_ratio" yaml:"test_ratio"`
	RandomSeed     int64   `mapstructure:"random_seed" yaml:"random_seed"`
	TreePrune      float64 `mapstructure:"tree_prune" yaml:"tree_prune"`
	ForestTrees    int     `mapstructure:"forest_trees" yaml:"forest_trees"`
	ForestFeatures int     `mapstructure:"forest_features" yaml:"forest_features"`

	// Plotting
	PlotDir      string  `mapstructure:"plot_dir" yaml:"plot_dir"`
	PlotWidthIn  float64 `mapstructure:"plot_width_in" yaml:"plot_width_in"`
	PlotHeightIn float64 `mapstructure:"plot_height_in" yaml:"plot_height_in"`

	// Terminal
	Color       bool   `mapstructure:"color" yaml:"color"`
	HistoryFile string `mapstructure:"history_file" yaml:"history_file"`
}

// DefaultMissingTokens are the raw cell values treated as missing on load.
var DefaultMissingTokens = []string{"", "NA", "NaN", "nan", "null", "NULL", "None", "<nil>"}

func configDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home dir: %w", err)
	}
	return filepath.Join(home, ".dataprep"), nil
}

// Save writes the given configuration to the cfgFile path. If cfgFile is empty,
// it writes to ~/.dataprep/config.yaml, creating the directory if necessary.
func Save(c *Global, cfgFile string) error {
	path := cfgFile
	if path == "" {
		dir, err := configDir()
		if err != nil {
			return err
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("mkdir config dir: %w", err)
		}
		path = filepath.Join(dir, "config.yaml")
	}
	b, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal yaml: %w", err)
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// Load loads configuration from file, env, and defaults.
// Precedence: flags (cfgFile) > env > config file > defaults.
func Load(cfgFile string) (*Global, error) {
	v := viper.New()
	v.SetEnvPrefix("DATAPREP")
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("delimiter", "")
	v.SetDefault("decimal_separator", "")
	v.SetDefault("missing_tokens", DefaultMissingTokens)
	v.SetDefault("sample_rows", 5)
	v.SetDefault("outlier_threshold", 3.5)
	v.SetDefault("test_ratio", 0.2)
	v.SetDefault("random_seed", 42)
	v.SetDefault("tree_prune", 0.0)
	v.SetDefault("forest_trees", 50)
	v.SetDefault("forest_features", 0)
	v.SetDefault("plot_dir", "plots")
	v.SetDefault("plot_width_in", 6.0)
	v.SetDefault("plot_height_in", 4.0)
	v.SetDefault("color", true)
	v.SetDefault("history_file", "")

	// Config file
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		dir, err := configDir()
		if err != nil {
			return nil, err
		}
		v.AddConfigPath(dir)
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}
	// The file is optional, but one named explicitly must parse.
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" && !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("read config %s: %w", cfgFile, err)
		}
	}

	var c Global
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if c.HistoryFile == "" {
		if dir, err := configDir(); err == nil {
			c.HistoryFile = filepath.Join(dir, "history")
		}
	}
	return &c, nil
}

// Default returns the built-in configuration without touching disk or env.
func Default() *Global {
	return &Global{
		MissingTokens:    append([]string(nil), DefaultMissingTokens...),
		SampleRows:       5,
		OutlierThreshold: 3.5,
		TestRatio:        0.2,
		RandomSeed:       42,
		ForestTrees:      50,
		PlotDir:          "plots",
		PlotWidthIn:      6,
		PlotHeightIn:     4,
		Color:            true,
	}
}
