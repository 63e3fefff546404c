// Package main runs a walk-forward evaluation of naive baselines over a CSV
// time series, printing one line (or YAML document entry) per fold.
package main

import (
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/sartorproj/timesplit/config"
	"github.com/sartorproj/timesplit/split"
	"github.com/sartorproj/timesplit/timeseries"
	"github.com/sartorproj/timesplit/window"
)

// options holds the command-line flags.
type options struct {
	configPath string
	dataPath   string
	column     string
	idColumn   string
	idValue    string
	start      string
	end        string
	output     string
	dumpDir    string
	verbose    bool
}

// FoldResult holds the evaluation of one fold.
type FoldResult struct {
	Index         int       `yaml:"index"`
	TrainStart    time.Time `yaml:"train_start"`
	TrainEnd      time.Time `yaml:"train_end"`
	ForecastStart time.Time `yaml:"forecast_start"`
	ForecastEnd   time.Time `yaml:"forecast_end"`
	TrainRows     int       `yaml:"train_rows"`
	ForecastRows  int       `yaml:"forecast_rows"`
	MeanMAE       float64   `yaml:"mean_mae"`  // MAE of forecasting the training mean
	NaiveMAE      float64   `yaml:"naive_mae"` // MAE of forecasting the last training value
}

// Report holds all results for export.
type Report struct {
	Config   ConfigReport `yaml:"config"`
	Column   string       `yaml:"column"`
	Rows     int          `yaml:"rows"`
	NSplits  int          `yaml:"n_splits"`
	Folds    []FoldResult `yaml:"folds"`
	MeanMAE  float64      `yaml:"mean_mae"`
	NaiveMAE float64      `yaml:"naive_mae"`
}

// ConfigReport is the resolved split configuration.
type ConfigReport struct {
	Frequency       string `yaml:"frequency"`
	TrainSize       int    `yaml:"train_size"`
	ForecastHorizon int    `yaml:"forecast_horizon"`
	Gap             int    `yaml:"gap"`
	Stride          int    `yaml:"stride"`
	Window          string `yaml:"window"`
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:   "walkforward",
		Short: "Walk-forward evaluation of naive baselines over a CSV time series",
		Long: `Splits a CSV time series into time-based train/forecast folds and scores
two naive baselines (training mean, last training value) on every fold.

The split configuration is read from a YAML file and TIMESPLIT_* environment
variables, e.g. TIMESPLIT_TRAIN_SIZE=30.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.OutOrStdout(), opts)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&opts.configPath, "config", "c", "", "YAML split configuration")
	f.StringVarP(&opts.dataPath, "data", "d", "", "CSV file with a date column")
	f.StringVar(&opts.column, "column", "y", "value column to evaluate")
	f.StringVar(&opts.idColumn, "id-column", "", "column identifying the series")
	f.StringVar(&opts.idValue, "id", "", "series to keep when --id-column is set")
	f.StringVar(&opts.start, "start", "", "period start (default: first timestamp)")
	f.StringVar(&opts.end, "end", "", "period end (default: last timestamp)")
	f.StringVarP(&opts.output, "output", "o", "text", "output format: text or yaml")
	f.StringVar(&opts.dumpDir, "dump-dir", "", "write each fold's train and forecast series as CSV here")
	f.BoolVarP(&opts.verbose, "verbose", "v", false, "debug logging")
	_ = cmd.MarkFlagRequired("data")

	return cmd
}

func newLogger(verbose bool) (*zap.Logger, error) {
	if verbose {
		return zap.NewDevelopment()
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	return cfg.Build()
}

func run(w io.Writer, opts *options) error {
	if opts.output != "text" && opts.output != "yaml" {
		return fmt.Errorf("unknown output format %q", opts.output)
	}

	logger, err := newLogger(opts.verbose)
	if err != nil {
		return fmt.Errorf("failed to build logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return fmt.Errorf("failed to load split config: %w", err)
	}

	csvOpts := timeseries.DefaultCSVOptions()
	csvOpts.Columns = []string{opts.column}
	csvOpts.IDColumn = opts.idColumn
	csvOpts.IDFilter = opts.idValue
	frame, err := timeseries.LoadCSV(opts.dataPath, csvOpts)
	if err != nil {
		return fmt.Errorf("failed to load %s: %w", opts.dataPath, err)
	}
	series, err := frame.Series(opts.column)
	if err != nil {
		return err
	}
	logger.Info("loaded series", zap.String("file", opts.dataPath), zap.Int("rows", series.Len()))

	start, err := parseTime(opts.start)
	if err != nil {
		return fmt.Errorf("invalid --start: %w", err)
	}
	end, err := parseTime(opts.end)
	if err != nil {
		return fmt.Errorf("invalid --end: %w", err)
	}

	sp, err := split.New(cfg, window.WithLogger(logger))
	if err != nil {
		return err
	}
	report, err := evaluate(sp, series, start, end, opts.dumpDir)
	if err != nil {
		return err
	}
	report.Column = opts.column

	if opts.output == "yaml" {
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(report); err != nil {
			return err
		}
		return enc.Close()
	}
	printText(w, sp.Engine, report)
	return nil
}

// evaluate walks the folds of series and scores both baselines.
func evaluate(sp *split.Splitter, series *timeseries.Series, start, end time.Time, dumpDir string) (*Report, error) {
	n, err := sp.NSplitsOf(series.Timestamps, start, end)
	if err != nil {
		return nil, err
	}
	it, err := sp.Split(series.Timestamps, &split.Options{Start: start, End: end, ReturnFold: true}, series)
	if err != nil {
		return nil, err
	}

	resolved := sp.Config()
	report := &Report{
		Config: ConfigReport{
			Frequency:       resolved.Frequency.String(),
			TrainSize:       resolved.TrainSize,
			ForecastHorizon: resolved.ForecastHorizon,
			Gap:             resolved.Gap,
			Stride:          resolved.Stride,
			Window:          resolved.Window.String(),
		},
		Rows:    series.Len(),
		NSplits: n,
		Folds:   make([]FoldResult, 0, n),
	}

	var meanSum, naiveSum float64
	scored := 0
	for r := range it.All() {
		train := r.Train(0).(*timeseries.Series)
		test := r.Forecast(0).(*timeseries.Series)

		fr := FoldResult{
			Index:         len(report.Folds),
			TrainStart:    r.Fold.TrainStart,
			TrainEnd:      r.Fold.TrainEnd,
			ForecastStart: r.Fold.ForecastStart,
			ForecastEnd:   r.Fold.ForecastEnd,
			TrainRows:     train.Len(),
			ForecastRows:  test.Len(),
			MeanMAE:       meanAbsError(test.Values, train.Mean()),
			NaiveMAE:      meanAbsError(test.Values, train.Last()),
		}
		if !math.IsNaN(fr.MeanMAE) {
			meanSum += fr.MeanMAE
			naiveSum += fr.NaiveMAE
			scored++
		}
		report.Folds = append(report.Folds, fr)

		if dumpDir != "" {
			if err := dumpFold(dumpDir, fr.Index, train, test); err != nil {
				return nil, err
			}
		}
	}

	report.MeanMAE, report.NaiveMAE = math.NaN(), math.NaN()
	if scored > 0 {
		report.MeanMAE = meanSum / float64(scored)
		report.NaiveMAE = naiveSum / float64(scored)
	}
	return report, nil
}

// meanAbsError scores a constant forecast. NaN when there is nothing to
// score or the forecast itself is NaN (empty training slice).
func meanAbsError(actual []float64, forecast float64) float64 {
	if len(actual) == 0 || math.IsNaN(forecast) {
		return math.NaN()
	}
	sum := 0.0
	for _, v := range actual {
		sum += math.Abs(v - forecast)
	}
	return sum / float64(len(actual))
}

func dumpFold(dir string, index int, train, test *timeseries.Series) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	if err := timeseries.SaveCSV(train, filepath.Join(dir, fmt.Sprintf("fold_%03d_train.csv", index))); err != nil {
		return err
	}
	return timeseries.SaveCSV(test, filepath.Join(dir, fmt.Sprintf("fold_%03d_forecast.csv", index)))
}

func printText(w io.Writer, eng *window.Engine, report *Report) {
	fmt.Fprintln(w, strings.Repeat("=", 80))
	fmt.Fprintln(w, eng.String())
	fmt.Fprintf(w, "column: %s, rows: %d, folds: %d\n", report.Column, report.Rows, report.NSplits)
	fmt.Fprintln(w, strings.Repeat("=", 80))

	for _, f := range report.Folds {
		fmt.Fprintf(w, "%3d  train [%s, %s) %4d rows  forecast [%s, %s) %3d rows  mean MAE %10.4f  naive MAE %10.4f\n",
			f.Index,
			f.TrainStart.Format(time.DateOnly), f.TrainEnd.Format(time.DateOnly), f.TrainRows,
			f.ForecastStart.Format(time.DateOnly), f.ForecastEnd.Format(time.DateOnly), f.ForecastRows,
			f.MeanMAE, f.NaiveMAE)
	}

	fmt.Fprintln(w, strings.Repeat("-", 80))
	fmt.Fprintf(w, "average  mean MAE %.4f  naive MAE %.4f\n", report.MeanMAE, report.NaiveMAE)
}

// parseTime accepts an empty string (zero time), a date or an RFC 3339 timestamp.
func parseTime(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	if t, err := time.Parse(time.DateOnly, s); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, s)
}
