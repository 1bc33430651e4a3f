// SPDX-FileCopyrightText: 2026 The NexGen-AI Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"syscall"

	"github.com/alecthomas/kingpin/v2"

	"github.com/nexgen-ai/socmodel/config"
	"github.com/nexgen-ai/socmodel/internal/analysis"
	"github.com/nexgen-ai/socmodel/internal/arch"
	"github.com/nexgen-ai/socmodel/internal/explore"
	"github.com/nexgen-ai/socmodel/internal/exporter/prometheus"
	"github.com/nexgen-ai/socmodel/internal/exporter/prometheus/collector"
	"github.com/nexgen-ai/socmodel/internal/logger"
	"github.com/nexgen-ai/socmodel/internal/server"
	"github.com/nexgen-ai/socmodel/internal/service"
	"github.com/nexgen-ai/socmodel/internal/version"
)

const (
	analyzeCmd     = "analyze"
	exploreCmd     = "explore"
	sensitivityCmd = "sensitivity"
	allCmd         = "all"
	serveCmd       = "serve"
)

func main() {
	cmd, cfg, err := parseArgsAndConfig(os.Args[1:])
	if err != nil {
		os.Exit(1)
	}
	log := logger.New(cfg.Log.Level, cfg.Log.Format, os.Stderr)
	logVersionInfo(log)
	printConfigInfo(log, cfg)

	if err := runCommand(cmd, cfg, log); err != nil {
		log.Error("socmodel terminated with an error", "command", cmd, "error", err)
		os.Exit(1)
	}
}

func parseArgsAndConfig(args []string) (string, *config.Config, error) {
	app := kingpin.New("socmodel", "Analytical performance and power model of the NexGen-AI chiplet SoC.")
	app.Version(version.Info().String())

	configFiles := app.Flag("config.file", "Path to YAML configuration file; repeat to layer files").Strings()
	updateConfig := config.RegisterFlags(app)

	app.Command(analyzeCmd, "Peak compute, roofline, power and chiplet scaling report").Default()
	app.Command(exploreCmd, "Compare the architecture variants against the targets")
	app.Command(sensitivityCmd, "Sweep architectural parameters and report their impact")
	app.Command(allCmd, "Run the analyze, explore and sensitivity reports")
	app.Command(serveCmd, "Serve the model results on /metrics")

	cmd := kingpin.MustParse(app.Parse(args))

	log := logger.New("info", "text", os.Stderr)
	cfg := config.DefaultConfig()
	if len(*configFiles) > 0 {
		log.Info("Loading configuration files", "paths", *configFiles)
		loaded, err := config.FromFiles(*configFiles...)
		if err != nil {
			log.Error("Error loading config file", "error", err.Error())
			return "", nil, err
		}
		cfg = loaded
	}

	// command line flags override config file settings
	if err := updateConfig(cfg); err != nil {
		log.Error("Error applying command line flags", "error", err.Error())
		return "", nil, err
	}
	return cmd, cfg, nil
}

func logVersionInfo(log *slog.Logger) {
	v := version.Info()
	log.Info("socmodel version information",
		"version", v.Version,
		"buildTime", v.BuildTime,
		"gitBranch", v.GitBranch,
		"gitCommit", v.GitCommit,
		"goVersion", v.GoVersion,
		"goOS", v.GoOS,
		"goArch", v.GoArch,
	)
}

func printConfigInfo(log *slog.Logger, cfg *config.Config) {
	if !log.Enabled(context.Background(), slog.LevelDebug) {
		return
	}
	fmt.Fprintf(os.Stderr, `
Configuration
━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━
%s
━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━
`, cfg)
}

func runCommand(cmd string, cfg *config.Config, log *slog.Logger) error {
	if cmd == serveCmd {
		return serve(cfg, log)
	}

	opts, err := analysis.OptionsFromConfig(cfg)
	if err != nil {
		return err
	}
	a := analysis.New(arch.DefaultSoC(), os.Stdout, append(opts, analysis.WithLogger(log))...)

	var reports []func() ([]string, error)
	switch cmd {
	case analyzeCmd:
		reports = append(reports, a.Performance)
	case exploreCmd:
		reports = append(reports, a.Exploration)
	case sensitivityCmd:
		reports = append(reports, a.Sensitivity)
	case allCmd:
		reports = append(reports, a.Performance, a.Exploration, a.Sensitivity)
	default:
		return fmt.Errorf("unknown command %q", cmd)
	}

	for _, run := range reports {
		if _, err := run(); err != nil {
			return err
		}
	}
	return nil
}

func serve(cfg *config.Config, log *slog.Logger) error {
	precisions, err := cfg.AnalysisPrecisions()
	if err != nil {
		return err
	}

	apiServer := server.NewAPIServer(
		server.WithLogger(log),
		server.WithListenAddress(cfg.Web.ListenAddresses),
		server.WithWebConfig(cfg.Web.Config),
	)

	collectors := prometheus.CreateCollectors(collector.Model{
		SoC:              arch.DefaultSoC(),
		Coefficients:     cfg.Coefficients(),
		Precisions:       precisions,
		ChipletCounts:    cfg.Analysis.ChipletCounts,
		StacksPerChiplet: cfg.Analysis.StacksPerChiplet,
		Variants:         explore.Catalogue(),
		Targets:          cfg.ExploreTargets(),
	},
		prometheus.WithLogger(log),
		prometheus.WithMetricsLevel(cfg.Exporter.Prometheus.MetricsLevel),
	)
	promExporter := prometheus.NewExporter(apiServer,
		prometheus.WithLogger(log),
		prometheus.WithDebugCollectors(cfg.Exporter.Prometheus.DebugCollectors),
		prometheus.WithCollectors(collectors),
	)

	services := []service.Service{
		apiServer,
		promExporter,
		service.NewSignalHandler(log, os.Interrupt, syscall.SIGTERM),
	}
	if err := service.Init(log, services); err != nil {
		return err
	}

	log.Info("Serving model metrics", "addresses", cfg.Web.ListenAddresses)
	if err := service.Run(context.Background(), log, services); err != nil {
		return err
	}
	log.Info("Graceful shutdown completed")
	return nil
}
