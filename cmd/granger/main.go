// Authors: Rohan Adla, Arrio Gonsalves, Shreyan Nalwad, Dylan Setiawan
// Date: Dec 12th 2025
// Project: Bivariate Granger Causality Ratio Analysis
// Class: 02-613 at Caregie Mellon University

// Command granger runs the bivariate Granger causality ratio analysis on a CSV panel.
//
// Settings come from a YAML file (-config), then a .env file and GRANGER_* environment
// variables, then flags. The run:
//  1. loads the CSV panel
//  2. checks stationarity of every variable (diagnostic only)
//  3. selects a lag per variable pair and takes the maximum
//  4. compares the joint VAR with the univariate AR of each variable in every pair
//  5. prints the results table and ratio matrix and writes the CSV outputs
//  6. writes run metrics as a Prometheus textfile
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"

	"bivariate-granger/internal/causality"
	"bivariate-granger/internal/config"
	"bivariate-granger/internal/logging"
	"bivariate-granger/internal/metrics"
	"bivariate-granger/internal/report"
	"bivariate-granger/internal/timeseries"
)

func main() {
	log := logging.New("info", os.Stderr)
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		log.Fatal().Err(err).Msg("granger failed")
	}
}

func run(args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("granger", flag.ContinueOnError)
	fs.SetOutput(stderr)

	var (
		configPath  = fs.String("config", "", "YAML configuration file")
		envPath     = fs.String("env", ".env", ".env file loaded before GRANGER_* variables are read")
		dataPath    = fs.String("data", "", "CSV panel with a header row of variable names")
		indexColumn = fs.String("index", "", "name of the time index column")
		vars        = fs.String("vars", "", "comma separated variables to analyze (default: all)")
		maxLag      = fs.Int("max-lag", causality.DefaultMaxLag, "lag search bound, lags 1..max-lag-1 are tried")
		alpha       = fs.Float64("alpha", causality.DefaultAlpha, "significance level of the Granger F-test")
		workers     = fs.Int("workers", 1, "pairs evaluated in parallel")
		results     = fs.String("results", "", "results table CSV output")
		ratios      = fs.String("ratios", "", "ratio matrix CSV output")
		metricsPath = fs.String("metrics", "", "Prometheus textfile written at the end of the run")
		logLevel    = fs.String("log-level", "info", "debug, info, warn or error")
		quiet       = fs.Bool("quiet", false, "do not print the tables")
	)
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return err
	}

	// 1. Configuration: file, then environment, then flags
	if err := config.LoadDotEnv(*envPath); err != nil {
		return err
	}
	cfg := config.Default()
	if *configPath != "" {
		var err error
		if cfg, err = config.Load(*configPath); err != nil {
			return err
		}
	}
	if err := cfg.ApplyEnv(); err != nil {
		return err
	}
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "data":
			cfg.Input.Path = *dataPath
		case "index":
			cfg.Input.IndexColumn = *indexColumn
		case "vars":
			cfg.Input.Variables = config.SplitList(*vars)
		case "max-lag":
			cfg.Analysis.MaxLag = *maxLag
		case "alpha":
			cfg.Analysis.Alpha = *alpha
		case "workers":
			cfg.Analysis.Workers = *workers
		case "results":
			cfg.Output.ResultsCSV = *results
		case "ratios":
			cfg.Output.RatioCSV = *ratios
		case "metrics":
			cfg.App.MetricsPath = *metricsPath
		case "log-level":
			cfg.App.LogLevel = *logLevel
		}
	})

	log := newLogger(cfg.App, stderr)

	// 2. Load the panel
	if cfg.Input.Path == "" {
		return fmt.Errorf("no input data, set -data or input.path")
	}
	panel, err := timeseries.LoadCSV(cfg.Input.Path, cfg.CSVOptions())
	if err != nil {
		return err
	}
	names := cfg.Input.Variables
	if len(names) == 0 {
		names = panel.Names()
	}
	log.Info().Str("path", cfg.Input.Path).Int("rows", panel.Len()).Strs("variables", names).
		Msg("loaded panel")

	// 3. Run the analysis
	collector := metrics.New()
	opts, err := cfg.Causality(log, collector)
	if err != nil {
		return err
	}
	rep, err := causality.New(opts).Run(panel, names)
	if err != nil {
		return err
	}

	// 4. Outputs
	if !*quiet {
		report.PrintStationarity(stdout, rep.Stationarity, rep.StationarityReports)
		fmt.Fprintf(stdout, "Number of coefficients for the autoregressive models: %d\n", rep.Lag)
		report.PrintRecords(stdout, rep.Records)
		report.PrintRatioMatrix(stdout, rep.Ratios, opts.Alpha)
	}
	if path := cfg.Output.ResultsCSV; path != "" {
		if err := report.WriteRecordsCSV(path, rep.Records); err != nil {
			return err
		}
		log.Info().Str("path", path).Msg("results written")
	}
	if path := cfg.Output.RatioCSV; path != "" {
		if err := report.WriteRatioMatrixCSV(path, rep.Ratios); err != nil {
			return err
		}
		log.Info().Str("path", path).Msg("ratio matrix written")
	}
	if path := cfg.App.MetricsPath; path != "" {
		if err := collector.WriteTextfile(path); err != nil {
			return fmt.Errorf("write metrics: %w", err)
		}
		log.Info().Str("path", path).Msg("metrics written")
	}
	return nil
}

func newLogger(app config.App, w io.Writer) zerolog.Logger {
	if app.LogFormat == "console" {
		return logging.Console(app.LogLevel, w)
	}
	return logging.New(app.LogLevel, w)
}
