// Authors: Rohan Adla, Arrio Gonsalves, Shreyan Nalwad, Dylan Setiawan
// Date: Dec 12th 2025
// Project: Bivariate Granger Causality Ratio Analysis
// Class: 02-613 at Caregie Mellon University

// Package config loads the run configuration from YAML, a .env file and GRANGER_*
// environment variables, in increasing order of precedence.
package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"

	"bivariate-granger/internal/causality"
	"bivariate-granger/internal/stationarity"
	"bivariate-granger/internal/timeseries"
	"bivariate-granger/internal/varmodel"
)

// App holds process settings.
type App struct {
	LogLevel    string `yaml:"log_level"`
	LogFormat   string `yaml:"log_format"` // json or console
	MetricsPath string `yaml:"metrics_path"`
}

// Analysis holds the options passed to the causality aggregator.
type Analysis struct {
	MaxLag           int     `yaml:"max_lag"`
	Alpha            float64 `yaml:"alpha"`
	Workers          int     `yaml:"workers"`
	Deterministic    string  `yaml:"deterministic"`
	StationarityTest string  `yaml:"stationarity_test"`
}

// Input describes the CSV panel.
type Input struct {
	Path          string   `yaml:"path"`
	IndexColumn   string   `yaml:"index_column"`
	Variables     []string `yaml:"variables"`
	MissingValues []string `yaml:"missing_values"`
}

// Output names the CSV files written after a run. Empty paths are skipped.
type Output struct {
	ResultsCSV string `yaml:"results_csv"`
	RatioCSV   string `yaml:"ratio_csv"`
}

// Config collects every section for easy marshaling from YAML.
type Config struct {
	App      App      `yaml:"app"`
	Analysis Analysis `yaml:"analysis"`
	Input    Input    `yaml:"input"`
	Output   Output   `yaml:"output"`
}

// Default returns the reference configuration.
func Default() *Config {
	return &Config{
		App: App{LogLevel: "info", LogFormat: "json"},
		Analysis: Analysis{
			MaxLag:           causality.DefaultMaxLag,
			Alpha:            causality.DefaultAlpha,
			Workers:          1,
			Deterministic:    varmodel.DetConst.String(),
			StationarityTest: string(stationarity.ADFTest),
		},
		Input: Input{MissingValues: timeseries.DefaultCSVOptions().MissingValues},
	}
}

// Load reads a YAML file on top of Default.
func Load(path string) (*Config, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	config := Default()
	if err := yaml.NewDecoder(file).Decode(config); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("decode yaml: %w", err)
	}
	return config, nil
}

// Save persists a Config struct to disk as YAML.
func Save(path string, cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("nil config")
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal yaml: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// LoadDotEnv loads the given .env files (".env" if none) into the environment
// without overriding variables that are already set. Missing files are skipped.
func LoadDotEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, p := range paths {
		if _, err := os.Stat(p); errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err := godotenv.Load(p); err != nil {
			return fmt.Errorf("load %s: %w", p, err)
		}
	}
	return nil
}

// ApplyEnv overrides fields from GRANGER_* environment variables.
func (c *Config) ApplyEnv() error {
	c.App.LogLevel = getEnv("GRANGER_LOG_LEVEL", c.App.LogLevel)
	c.App.LogFormat = getEnv("GRANGER_LOG_FORMAT", c.App.LogFormat)
	c.App.MetricsPath = getEnv("GRANGER_METRICS_PATH", c.App.MetricsPath)

	c.Input.Path = getEnv("GRANGER_DATA", c.Input.Path)
	c.Input.IndexColumn = getEnv("GRANGER_INDEX_COLUMN", c.Input.IndexColumn)
	if v := getEnv("GRANGER_VARIABLES", ""); v != "" {
		c.Input.Variables = SplitList(v)
	}

	c.Output.ResultsCSV = getEnv("GRANGER_RESULTS_CSV", c.Output.ResultsCSV)
	c.Output.RatioCSV = getEnv("GRANGER_RATIO_CSV", c.Output.RatioCSV)

	c.Analysis.Deterministic = getEnv("GRANGER_DETERMINISTIC", c.Analysis.Deterministic)
	c.Analysis.StationarityTest = getEnv("GRANGER_STATIONARITY_TEST", c.Analysis.StationarityTest)

	var err error
	if c.Analysis.MaxLag, err = envInt("GRANGER_MAX_LAG", c.Analysis.MaxLag); err != nil {
		return err
	}
	if c.Analysis.Workers, err = envInt("GRANGER_WORKERS", c.Analysis.Workers); err != nil {
		return err
	}
	if v, ok := os.LookupEnv("GRANGER_ALPHA"); ok {
		alpha, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return fmt.Errorf("GRANGER_ALPHA: %w", err)
		}
		c.Analysis.Alpha = alpha
	}
	return nil
}

// Validate checks ranges and enumerations.
func (c *Config) Validate() error {
	if c.Analysis.MaxLag < 1 {
		return fmt.Errorf("analysis.max_lag must be >= 1, got %d", c.Analysis.MaxLag)
	}
	if c.Analysis.Alpha <= 0 || c.Analysis.Alpha >= 1 {
		return fmt.Errorf("analysis.alpha must be in (0, 1), got %v", c.Analysis.Alpha)
	}
	if c.Analysis.Workers < 1 {
		return fmt.Errorf("analysis.workers must be >= 1, got %d", c.Analysis.Workers)
	}
	if _, err := varmodel.ParseDeterministic(c.Analysis.Deterministic); err != nil {
		return fmt.Errorf("analysis.deterministic: %w", err)
	}
	if _, err := stationarity.ParseMethod(c.Analysis.StationarityTest); err != nil {
		return fmt.Errorf("analysis.stationarity_test: %w", err)
	}
	return nil
}

// Causality converts the analysis section into aggregator options.
func (c *Config) Causality(logger zerolog.Logger, observer causality.Observer) (causality.Config, error) {
	if err := c.Validate(); err != nil {
		return causality.Config{}, err
	}
	det, _ := varmodel.ParseDeterministic(c.Analysis.Deterministic)
	method, _ := stationarity.ParseMethod(c.Analysis.StationarityTest)

	cfg := causality.DefaultConfig()
	cfg.MaxLag = c.Analysis.MaxLag
	cfg.Alpha = c.Analysis.Alpha
	cfg.Workers = c.Analysis.Workers
	cfg.Deterministic = det
	cfg.Stationarity = method
	cfg.Logger = logger
	cfg.Observer = observer
	return cfg, nil
}

// CSVOptions returns the reader options of the input section.
func (c *Config) CSVOptions() timeseries.CSVOptions {
	opts := timeseries.DefaultCSVOptions()
	opts.IndexColumn = c.Input.IndexColumn
	if len(c.Input.MissingValues) > 0 {
		opts.MissingValues = c.Input.MissingValues
	}
	return opts
}

// SplitList splits a comma separated list, dropping empty entries.
func SplitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func getEnv(key, defaultVal string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultVal
}

func envInt(key string, defaultVal int) (int, error) {
	value, exists := os.LookupEnv(key)
	if !exists {
		return defaultVal, nil
	}
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return defaultVal, fmt.Errorf("%s: %w", key, err)
	}
	return n, nil
}
