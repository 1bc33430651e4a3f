// SPDX-FileCopyrightText: 2026 The NexGen-AI Authors
// SPDX-License-Identifier: Apache-2.0

// Package analysis runs the performance, exploration and sensitivity reports
// end to end: console tables, plots, CSV dumps and the metrics textfile.
package analysis

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"k8s.io/utils/ptr"

	"github.com/nexgen-ai/socmodel/config"
	"github.com/nexgen-ai/socmodel/internal/arch"
	"github.com/nexgen-ai/socmodel/internal/explore"
	"github.com/nexgen-ai/socmodel/internal/power"
	"github.com/nexgen-ai/socmodel/internal/sweep"
)

// Output file names, relative to the output directory
const (
	RooflinePlot    = "roofline_fp16.png"
	ScalingPlot     = "chiplet_scaling.png"
	ComparisonPlot  = "architecture_comparison.png"
	SensitivityPlot = "sensitivity_analysis.png"

	WorkloadsCSV = "workloads.csv"
	ScalingCSV   = "chiplet_scaling.csv"
	VariantsCSV  = "variants.csv"

	MetricsTextfile = "socmodel.prom"
)

// SensitivityCSV is the CSV file name of one parameter sweep
func SensitivityCSV(p sweep.Parameter) string {
	return fmt.Sprintf("sensitivity_%s.csv", p)
}

type Opts struct {
	logger           *slog.Logger
	outputDir        string
	plots            bool
	csv              bool
	metrics          bool
	precisions       []arch.Precision
	chipletCounts    []int
	stacksPerChiplet int
	coefficients     power.Coefficients
	targets          explore.Targets
	variants         []explore.Variant
	analyses         []sweep.Analysis
	metricsLevel     config.Level
}

// DefaultOpts returns a new Opts with defaults set
func DefaultOpts() Opts {
	return Opts{
		logger:           slog.Default(),
		outputDir:        "outputs",
		plots:            true,
		csv:              true,
		metrics:          true,
		precisions:       []arch.Precision{arch.FP16, arch.FP8, arch.INT8},
		chipletCounts:    []int{2, 4, 6, 8},
		stacksPerChiplet: 2,
		coefficients:     power.DefaultCoefficients(),
		targets:          explore.DefaultTargets(),
		variants:         explore.Catalogue(),
		analyses:         sweep.DefaultAnalyses(),
		metricsLevel:     config.MetricsLevelAll,
	}
}

// OptionFn is a function sets one more more options in Opts struct
type OptionFn func(*Opts)

func WithLogger(logger *slog.Logger) OptionFn {
	return func(o *Opts) {
		o.logger = logger
	}
}

func WithOutputDir(dir string) OptionFn {
	return func(o *Opts) {
		o.outputDir = dir
	}
}

func WithPlots(enabled bool) OptionFn {
	return func(o *Opts) {
		o.plots = enabled
	}
}

func WithCSV(enabled bool) OptionFn {
	return func(o *Opts) {
		o.csv = enabled
	}
}

// WithMetrics toggles the Prometheus textfile
func WithMetrics(enabled bool) OptionFn {
	return func(o *Opts) {
		o.metrics = enabled
	}
}

func WithPrecisions(p []arch.Precision) OptionFn {
	return func(o *Opts) {
		o.precisions = p
	}
}

func WithChipletCounts(counts []int) OptionFn {
	return func(o *Opts) {
		o.chipletCounts = counts
	}
}

func WithStacksPerChiplet(n int) OptionFn {
	return func(o *Opts) {
		o.stacksPerChiplet = n
	}
}

func WithCoefficients(c power.Coefficients) OptionFn {
	return func(o *Opts) {
		o.coefficients = c
	}
}

func WithTargets(t explore.Targets) OptionFn {
	return func(o *Opts) {
		o.targets = t
	}
}

func WithVariants(v []explore.Variant) OptionFn {
	return func(o *Opts) {
		o.variants = v
	}
}

func WithAnalyses(a []sweep.Analysis) OptionFn {
	return func(o *Opts) {
		o.analyses = a
	}
}

func WithMetricsLevel(level config.Level) OptionFn {
	return func(o *Opts) {
		o.metricsLevel = level
	}
}

// OptionsFromConfig maps the output, model and exporter sections of cfg
func OptionsFromConfig(cfg *config.Config) ([]OptionFn, error) {
	precisions, err := cfg.AnalysisPrecisions()
	if err != nil {
		return nil, err
	}
	return []OptionFn{
		WithOutputDir(cfg.Output.Dir),
		WithPlots(ptr.Deref(cfg.Output.Plots, true)),
		WithCSV(ptr.Deref(cfg.Output.CSV, true)),
		WithMetrics(ptr.Deref(cfg.Output.Metrics, true)),
		WithPrecisions(precisions),
		WithChipletCounts(cfg.Analysis.ChipletCounts),
		WithStacksPerChiplet(cfg.Analysis.StacksPerChiplet),
		WithCoefficients(cfg.Coefficients()),
		WithTargets(cfg.ExploreTargets()),
		WithMetricsLevel(cfg.Exporter.Prometheus.MetricsLevel),
	}, nil
}

// Analyzer runs the reports for one SoC
type Analyzer struct {
	logger *slog.Logger
	soc    arch.SoC
	out    io.Writer
	opts   Opts
}

// New creates an Analyzer that writes its console report to out
func New(soc arch.SoC, out io.Writer, applyOpts ...OptionFn) *Analyzer {
	opts := DefaultOpts()
	for _, apply := range applyOpts {
		apply(&opts)
	}
	// repeated entries would repeat table rows and metric series
	opts.precisions = unique(opts.precisions)
	opts.chipletCounts = unique(opts.chipletCounts)
	opts.coefficients.DefaultUtilizations = unique(opts.coefficients.DefaultUtilizations)

	return &Analyzer{
		logger: opts.logger.With("service", "analysis"),
		soc:    soc,
		out:    out,
		opts:   opts,
	}
}

// unique drops repeated values, keeping the first occurrence
func unique[T comparable](in []T) []T {
	if in == nil {
		return nil
	}
	seen := make(map[T]bool, len(in))
	out := make([]T, 0, len(in))
	for _, v := range in {
		if !seen[v] {
			seen[v] = true
			out = append(out, v)
		}
	}
	return out
}

// writesFiles reports whether any file output is enabled
func (a *Analyzer) writesFiles() bool {
	return a.opts.plots || a.opts.csv || a.opts.metrics
}

func (a *Analyzer) prepareOutputDir() error {
	if !a.writesFiles() {
		return nil
	}
	if err := os.MkdirAll(a.opts.outputDir, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	return nil
}

func (a *Analyzer) path(name string) string {
	return filepath.Join(a.opts.outputDir, name)
}

// artifacts collects the files written by one report
type artifacts []string

func (as *artifacts) add(logger *slog.Logger, kind, path string) {
	logger.Info("Wrote "+kind, "path", path)
	*as = append(*as, path)
}
