// SPDX-FileCopyrightText: 2026 The NexGen-AI Authors
// SPDX-License-Identifier: Apache-2.0

// Package prometheus publishes the model results, either live on /metrics or
// as a node-exporter textfile next to the analysis outputs.
package prometheus

import (
	"fmt"
	"log/slog"
	"net/http"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/nexgen-ai/socmodel/config"
	"github.com/nexgen-ai/socmodel/internal/exporter/prometheus/collector"
	"github.com/nexgen-ai/socmodel/internal/service"
)

type APIRegistry interface {
	Register(endpoint, summary, description string, handler http.Handler) error
}

type Opts struct {
	logger          *slog.Logger
	debugCollectors map[string]bool
	collectors      map[string]prom.Collector
	metricsLevel    config.Level
}

// DefaultOpts returns a new Opts with defaults set
func DefaultOpts() Opts {
	return Opts{
		logger:          slog.Default(),
		debugCollectors: map[string]bool{"go": true},
		collectors:      map[string]prom.Collector{},
		metricsLevel:    config.MetricsLevelAll,
	}
}

// OptionFn is a function sets one more more options in Opts struct
type OptionFn func(*Opts)

func WithLogger(logger *slog.Logger) OptionFn {
	return func(o *Opts) {
		o.logger = logger
	}
}

// WithDebugCollectors replaces the runtime collectors ("go", "process")
func WithDebugCollectors(names []string) OptionFn {
	return func(o *Opts) {
		o.debugCollectors = make(map[string]bool, len(names))
		for _, name := range names {
			o.debugCollectors[name] = true
		}
	}
}

func WithCollectors(c map[string]prom.Collector) OptionFn {
	return func(o *Opts) {
		o.collectors = c
	}
}

func WithMetricsLevel(level config.Level) OptionFn {
	return func(o *Opts) {
		o.metricsLevel = level
	}
}

// Exporter serves the registered collectors on /metrics
type Exporter struct {
	logger          *slog.Logger
	registry        *prom.Registry
	server          APIRegistry
	debugCollectors map[string]bool
	collectors      map[string]prom.Collector
}

var _ service.Initializer = (*Exporter)(nil)

func NewExporter(s APIRegistry, applyOpts ...OptionFn) *Exporter {
	opts := DefaultOpts()
	for _, apply := range applyOpts {
		apply(&opts)
	}

	return &Exporter{
		logger:          opts.logger.With("service", "prometheus"),
		registry:        prom.NewRegistry(),
		server:          s,
		debugCollectors: opts.debugCollectors,
		collectors:      opts.collectors,
	}
}

func collectorForName(name string) (prom.Collector, error) {
	switch name {
	case "go":
		return collectors.NewGoCollector(), nil
	case "process":
		return collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}), nil
	default:
		return nil, fmt.Errorf("unknown collector: %s", name)
	}
}

// CreateCollectors returns the model and build info collectors for m
func CreateCollectors(m collector.Model, applyOpts ...OptionFn) map[string]prom.Collector {
	opts := DefaultOpts()
	for _, apply := range applyOpts {
		apply(&opts)
	}
	return map[string]prom.Collector{
		"build_info": collector.NewBuildInfoCollector(),
		"model":      collector.NewModelCollector(m, opts.logger, opts.metricsLevel),
	}
}

func (e *Exporter) Init() error {
	for name := range e.debugCollectors {
		c, err := collectorForName(name)
		if err != nil {
			return err
		}
		e.logger.Info("Enabling debug collector", "collector", name)
		if err := e.registry.Register(c); err != nil {
			return fmt.Errorf("registering %s collector: %w", name, err)
		}
	}

	for name, c := range e.collectors {
		e.logger.Info("Enabling collector", "collector", name)
		if err := e.registry.Register(c); err != nil {
			return fmt.Errorf("registering %s collector: %w", name, err)
		}
	}

	return e.server.Register("/metrics", "Metrics", "Model results in Prometheus format",
		promhttp.HandlerFor(e.registry, promhttp.HandlerOpts{
			EnableOpenMetrics: true,
			Registry:          e.registry,
		}))
}

func (e *Exporter) Name() string {
	return "prometheus"
}
