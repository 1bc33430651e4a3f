// SPDX-FileCopyrightText: 2026 The NexGen-AI Authors
// SPDX-License-Identifier: Apache-2.0

package analysis

import (
	"fmt"

	"github.com/nexgen-ai/socmodel/internal/arch"
	"github.com/nexgen-ai/socmodel/internal/exporter/prometheus"
	"github.com/nexgen-ai/socmodel/internal/exporter/prometheus/collector"
	"github.com/nexgen-ai/socmodel/internal/perf"
	"github.com/nexgen-ai/socmodel/internal/plot"
	"github.com/nexgen-ai/socmodel/internal/power"
	"github.com/nexgen-ai/socmodel/internal/report"
	"github.com/nexgen-ai/socmodel/internal/scaling"
)

// Performance reports peak compute per precision, the reference workloads on
// the FP16 roofline, power at the configured utilizations and chiplet
// scaling. It returns the files it wrote.
func (a *Analyzer) Performance() ([]string, error) {
	if err := a.prepareOutputDir(); err != nil {
		return nil, err
	}

	pm := perf.New(a.soc)
	pwr := power.New(a.soc, power.WithCoefficients(a.opts.coefficients))

	report.Heading(a.out, "NexGen-AI SoC Performance Model")
	report.Configuration(a.out, a.soc)

	a.logger.Debug("Evaluating peak compute", "precisions", len(a.opts.precisions))
	precisions, err := a.precisionSummaries(pm)
	if err != nil {
		return nil, err
	}
	report.Heading(a.out, "PERFORMANCE ANALYSIS")
	report.Precisions(a.out, precisions, a.opts.targets.DensityTFLOPSPerMM2)

	workloads, err := pm.AnalyzeWorkloads(arch.FP16, perf.ReferenceWorkloads())
	if err != nil {
		return nil, fmt.Errorf("failed to analyze workloads: %w", err)
	}
	report.Heading(a.out, "WORKLOAD ANALYSIS (FP16)")
	report.Workloads(a.out, workloads)

	powers, err := a.powerSummaries(pwr)
	if err != nil {
		return nil, err
	}
	report.Heading(a.out, "POWER ANALYSIS")
	report.Power(a.out, powers, a.opts.targets.PowerWatts)

	points, err := scaling.New(a.soc,
		scaling.WithStacksPerChiplet(a.opts.stacksPerChiplet),
		scaling.WithCoefficients(a.opts.coefficients),
	).Efficiency(a.opts.chipletCounts, arch.FP16)
	if err != nil {
		return nil, fmt.Errorf("failed to evaluate chiplet scaling: %w", err)
	}
	report.Heading(a.out, "CHIPLET SCALING")
	report.Scaling(a.out, points)

	var written artifacts
	if a.opts.plots {
		path := a.path(RooflinePlot)
		if err := plot.Roofline(path, pm, arch.FP16, perf.ReferenceWorkloads()); err != nil {
			return nil, err
		}
		written.add(a.logger, "plot", path)

		path = a.path(ScalingPlot)
		if err := plot.Scaling(path, points, a.opts.targets.PowerWatts); err != nil {
			return nil, err
		}
		written.add(a.logger, "plot", path)
	}

	if a.opts.csv {
		path := a.path(WorkloadsCSV)
		if err := report.WriteCSV(path, workloads); err != nil {
			return nil, err
		}
		written.add(a.logger, "csv", path)

		path = a.path(ScalingCSV)
		if err := report.WriteCSV(path, points); err != nil {
			return nil, err
		}
		written.add(a.logger, "csv", path)
	}

	if a.opts.metrics {
		path := a.path(MetricsTextfile)
		cs := prometheus.CreateCollectors(a.model(),
			prometheus.WithLogger(a.logger),
			prometheus.WithMetricsLevel(a.opts.metricsLevel),
		)
		if err := prometheus.WriteTextfile(path, cs); err != nil {
			return nil, err
		}
		written.add(a.logger, "metrics", path)
	}

	a.summary(precisions, powers, written)
	return written, nil
}

func (a *Analyzer) precisionSummaries(pm *perf.Model) ([]report.PrecisionSummary, error) {
	out := make([]report.PrecisionSummary, 0, len(a.opts.precisions))
	for _, p := range a.opts.precisions {
		peak, err := pm.PeakCompute(p)
		if err != nil {
			return nil, err
		}
		density, err := pm.ComputeDensity(p)
		if err != nil {
			return nil, err
		}
		ridge, err := pm.RidgePoint(p)
		if err != nil {
			return nil, err
		}
		out = append(out, report.PrecisionSummary{
			Precision:  p,
			PeakTFLOPS: peak.TFLOPS(),
			Density:    density,
			RidgePoint: ridge,
		})
	}
	return out, nil
}

func (a *Analyzer) powerSummaries(pwr *power.Model) ([]report.PowerSummary, error) {
	c := a.opts.coefficients
	out := make([]report.PowerSummary, 0, len(c.DefaultUtilizations))
	for _, u := range c.DefaultUtilizations {
		b, err := pwr.Breakdown(u)
		if err != nil {
			return nil, fmt.Errorf("failed to evaluate power: %w", err)
		}
		eff, err := pwr.Efficiency(arch.FP16, u)
		if err != nil {
			return nil, fmt.Errorf("failed to evaluate power: %w", err)
		}
		tj, err := pwr.JunctionTemperature(u, c.AmbientCelsius, c.ThetaJA)
		if err != nil {
			return nil, fmt.Errorf("failed to evaluate power: %w", err)
		}
		out = append(out, report.PowerSummary{
			Utilization: u,
			Breakdown:   b,
			Efficiency:  eff,
			JunctionC:   tj,
		})
	}
	return out, nil
}

// model is the collector input matching the analyzer options
func (a *Analyzer) model() collector.Model {
	return collector.Model{
		SoC:              a.soc,
		Coefficients:     a.opts.coefficients,
		Precisions:       a.opts.precisions,
		ChipletCounts:    a.opts.chipletCounts,
		StacksPerChiplet: a.opts.stacksPerChiplet,
		Variants:         a.opts.variants,
		Targets:          a.opts.targets,
	}
}

func (a *Analyzer) summary(precisions []report.PrecisionSummary, powers []report.PowerSummary, written artifacts) {
	report.Heading(a.out, "SUMMARY")
	for _, p := range precisions {
		if p.Precision == arch.FP16 {
			fmt.Fprintf(a.out, "FP16 peak: %.1f TFLOPS at %.3f TFLOPS/mm² (target %.1f)\n",
				p.PeakTFLOPS, p.Density, a.opts.targets.DensityTFLOPSPerMM2)
		}
	}
	for _, p := range powers {
		if p.Utilization == 1 {
			fmt.Fprintf(a.out, "Full load power: %.1f W (budget %.0f W)\n",
				p.Breakdown.Total().Watts(), a.opts.targets.PowerWatts)
		}
	}
	for _, path := range written {
		fmt.Fprintf(a.out, "  wrote %s\n", path)
	}
}
