// SPDX-FileCopyrightText: 2026 The NexGen-AI Authors
// SPDX-License-Identifier: Apache-2.0

package collector

import (
	"fmt"
	"log/slog"
	"strconv"

	prom "github.com/prometheus/client_golang/prometheus"

	"github.com/nexgen-ai/socmodel/config"
	"github.com/nexgen-ai/socmodel/internal/arch"
	"github.com/nexgen-ai/socmodel/internal/explore"
	"github.com/nexgen-ai/socmodel/internal/perf"
	"github.com/nexgen-ai/socmodel/internal/power"
	"github.com/nexgen-ai/socmodel/internal/scaling"
)

// Model is the input the collector evaluates on every scrape
type Model struct {
	SoC              arch.SoC
	Coefficients     power.Coefficients
	Precisions       []arch.Precision
	ChipletCounts    []int
	StacksPerChiplet int
	Variants         []explore.Variant
	Targets          explore.Targets
}

// ModelCollector exports the analytical model results as gauges. The inputs
// are immutable, so every Collect recomputes from scratch without locking.
type ModelCollector struct {
	model        Model
	logger       *slog.Logger
	metricsLevel config.Level

	// performance
	peakDesc      *prom.Desc
	densityDesc   *prom.Desc
	ridgeDesc     *prom.Desc
	bandwidthDesc *prom.Desc
	areaDesc      *prom.Desc

	// power
	powerDesc      *prom.Desc
	efficiencyDesc *prom.Desc
	junctionDesc   *prom.Desc

	// scaling
	scalingComputeDesc *prom.Desc
	scalingMemoryDesc  *prom.Desc
	scalingPowerDesc   *prom.Desc

	// variants
	variantPeakDesc       *prom.Desc
	variantDensityDesc    *prom.Desc
	variantPowerDesc      *prom.Desc
	variantEfficiencyDesc *prom.Desc
	variantTargetDesc     *prom.Desc
}

func desc(subsystem, name, help string, labels ...string) *prom.Desc {
	return prom.NewDesc(prom.BuildFQName(namespace, subsystem, name), help, labels, nil)
}

// NewModelCollector creates a collector for m restricted to the groups in level
func NewModelCollector(m Model, logger *slog.Logger, level config.Level) *ModelCollector {
	const (
		precision   = "precision"
		utilization = "utilization"
		chiplets    = "chiplets"
		variant     = "variant"
	)

	// a repeated input would emit the same series twice and fail the gather
	m.Precisions = unique(m.Precisions)
	m.ChipletCounts = unique(m.ChipletCounts)
	m.Coefficients.DefaultUtilizations = unique(m.Coefficients.DefaultUtilizations)

	return &ModelCollector{
		model:        m,
		logger:       logger.With("collector", "model"),
		metricsLevel: level,

		peakDesc:      desc("soc", "peak_tflops", "Theoretical peak compute in TFLOPS", precision),
		densityDesc:   desc("soc", "compute_density_tflops_per_mm2", "Peak compute per mm² of silicon", precision),
		ridgeDesc:     desc("soc", "ridge_point_flops_per_byte", "Arithmetic intensity where the roofline turns compute bound", precision),
		bandwidthDesc: desc("soc", "memory_bandwidth_tbps", "Aggregate HBM bandwidth in TB/s"),
		areaDesc:      desc("soc", "area_mm2", "Total chiplet silicon area in mm²"),

		powerDesc:      desc("soc", "power_watts", "Modelled power draw by component", utilization, "component"),
		efficiencyDesc: desc("soc", "efficiency_tflops_per_watt", "FP16 throughput per watt at the given utilization", utilization),
		junctionDesc:   desc("soc", "junction_temperature_celsius", "Estimated junction temperature", utilization),

		scalingComputeDesc: desc("scaling", "compute_tflops", "FP16 peak compute by chiplet count", chiplets),
		scalingMemoryDesc:  desc("scaling", "memory_bandwidth_tbps", "HBM bandwidth by chiplet count", chiplets),
		scalingPowerDesc:   desc("scaling", "power_watts", "Full load power by chiplet count", chiplets),

		variantPeakDesc:       desc("variant", "peak_tflops", "FP16 peak compute of an architecture variant", variant, "name"),
		variantDensityDesc:    desc("variant", "compute_density_tflops_per_mm2", "FP16 compute density of an architecture variant", variant, "name"),
		variantPowerDesc:      desc("variant", "power_watts", "Full load power of an architecture variant", variant, "name"),
		variantEfficiencyDesc: desc("variant", "efficiency_tflops_per_watt", "FP16 TFLOPS per watt of an architecture variant", variant, "name"),
		variantTargetDesc:     desc("variant", "meets_target", "1 if the variant meets the target, 0 otherwise", variant, "name", "target"),
	}
}

// Describe implements the prometheus.Collector interface
func (c *ModelCollector) Describe(ch chan<- *prom.Desc) {
	if c.metricsLevel.IsPerformanceEnabled() {
		ch <- c.peakDesc
		ch <- c.densityDesc
		ch <- c.ridgeDesc
		ch <- c.bandwidthDesc
		ch <- c.areaDesc
	}
	if c.metricsLevel.IsPowerEnabled() {
		ch <- c.powerDesc
		ch <- c.efficiencyDesc
		ch <- c.junctionDesc
	}
	if c.metricsLevel.IsScalingEnabled() {
		ch <- c.scalingComputeDesc
		ch <- c.scalingMemoryDesc
		ch <- c.scalingPowerDesc
	}
	if c.metricsLevel.IsVariantEnabled() {
		ch <- c.variantPeakDesc
		ch <- c.variantDensityDesc
		ch <- c.variantPowerDesc
		ch <- c.variantEfficiencyDesc
		ch <- c.variantTargetDesc
	}
}

// Collect implements the prometheus.Collector interface. A group that fails
// to evaluate is logged and skipped; the other groups are still exported.
func (c *ModelCollector) Collect(ch chan<- prom.Metric) {
	groups := []struct {
		name    string
		enabled bool
		collect func(chan<- prom.Metric) error
	}{
		{"performance", c.metricsLevel.IsPerformanceEnabled(), c.collectPerformance},
		{"power", c.metricsLevel.IsPowerEnabled(), c.collectPower},
		{"scaling", c.metricsLevel.IsScalingEnabled(), c.collectScaling},
		{"variant", c.metricsLevel.IsVariantEnabled(), c.collectVariants},
	}

	for _, g := range groups {
		if !g.enabled {
			continue
		}
		if err := g.collect(ch); err != nil {
			c.logger.Error("Failed to evaluate model", "group", g.name, "error", err)
		}
	}
}

func (c *ModelCollector) collectPerformance(ch chan<- prom.Metric) error {
	m := perf.New(c.model.SoC)
	for _, p := range c.model.Precisions {
		peak, err := m.PeakCompute(p)
		if err != nil {
			return err
		}
		density, err := m.ComputeDensity(p)
		if err != nil {
			return err
		}
		ridge, err := m.RidgePoint(p)
		if err != nil {
			return err
		}
		ch <- prom.MustNewConstMetric(c.peakDesc, prom.GaugeValue, peak.TFLOPS(), p.String())
		ch <- prom.MustNewConstMetric(c.densityDesc, prom.GaugeValue, density, p.String())
		ch <- prom.MustNewConstMetric(c.ridgeDesc, prom.GaugeValue, ridge, p.String())
	}
	ch <- prom.MustNewConstMetric(c.bandwidthDesc, prom.GaugeValue, m.MemoryBandwidth().TBps())
	ch <- prom.MustNewConstMetric(c.areaDesc, prom.GaugeValue, c.model.SoC.TotalAreaMM2())
	return nil
}

func (c *ModelCollector) collectPower(ch chan<- prom.Metric) error {
	m := power.New(c.model.SoC, power.WithCoefficients(c.model.Coefficients))
	for _, u := range c.model.Coefficients.DefaultUtilizations {
		b, err := m.Breakdown(u)
		if err != nil {
			return err
		}
		eff, err := m.Efficiency(arch.FP16, u)
		if err != nil {
			return err
		}
		tj, err := m.DefaultJunctionTemperature(u)
		if err != nil {
			return err
		}

		ul := formatFloat(u)
		components := []struct {
			name  string
			watts float64
		}{
			{"sm", b.SM.Watts()},
			{"cache", b.Cache.Watts()},
			{"hbm", b.HBM.Watts()},
			{"static", b.Static.Watts()},
			{"interconnect", b.Interconnect.Watts()},
			{"io", b.IO.Watts()},
			{"total", b.Total().Watts()},
		}
		for _, comp := range components {
			ch <- prom.MustNewConstMetric(c.powerDesc, prom.GaugeValue, comp.watts, ul, comp.name)
		}
		ch <- prom.MustNewConstMetric(c.efficiencyDesc, prom.GaugeValue, eff, ul)
		ch <- prom.MustNewConstMetric(c.junctionDesc, prom.GaugeValue, tj, ul)
	}
	return nil
}

func (c *ModelCollector) collectScaling(ch chan<- prom.Metric) error {
	points, err := scaling.New(c.model.SoC,
		scaling.WithStacksPerChiplet(c.model.StacksPerChiplet),
		scaling.WithCoefficients(c.model.Coefficients),
	).Efficiency(c.model.ChipletCounts, arch.FP16)
	if err != nil {
		return err
	}

	for _, pt := range points {
		n := strconv.Itoa(pt.Chiplets)
		ch <- prom.MustNewConstMetric(c.scalingComputeDesc, prom.GaugeValue, pt.ComputeTFLOPS, n)
		ch <- prom.MustNewConstMetric(c.scalingMemoryDesc, prom.GaugeValue, pt.MemoryTBps, n)
		ch <- prom.MustNewConstMetric(c.scalingPowerDesc, prom.GaugeValue, pt.PowerWatts, n)
	}
	return nil
}

func (c *ModelCollector) collectVariants(ch chan<- prom.Metric) error {
	evals, err := explore.NewComparator(
		explore.WithTargets(c.model.Targets),
		explore.WithCoefficients(c.model.Coefficients),
	).Compare(c.model.Variants)
	if err != nil {
		return fmt.Errorf("comparing variants: %w", err)
	}

	for _, e := range evals {
		id := Slug(e.Name)
		ch <- prom.MustNewConstMetric(c.variantPeakDesc, prom.GaugeValue, e.FP16TFLOPS, id, e.Name)
		ch <- prom.MustNewConstMetric(c.variantDensityDesc, prom.GaugeValue, e.Density, id, e.Name)
		ch <- prom.MustNewConstMetric(c.variantPowerDesc, prom.GaugeValue, e.PowerWatts, id, e.Name)
		ch <- prom.MustNewConstMetric(c.variantEfficiencyDesc, prom.GaugeValue, e.Efficiency, id, e.Name)
		ch <- prom.MustNewConstMetric(c.variantTargetDesc, prom.GaugeValue, boolToFloat(e.MeetsDensity), id, e.Name, "density")
		ch <- prom.MustNewConstMetric(c.variantTargetDesc, prom.GaugeValue, boolToFloat(e.MeetsPower), id, e.Name, "power")
	}
	return nil
}

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

func boolToFloat(b bool) float64 {
	if b {
		return 1
	}
	return 0
}
