// SPDX-FileCopyrightText: 2026 The NexGen-AI Authors
// SPDX-License-Identifier: Apache-2.0

// Package sweep varies one architectural parameter at a time and records how
// a metric responds.
package sweep

import (
	"fmt"
	"slices"

	"github.com/nexgen-ai/socmodel/internal/arch"
	"github.com/nexgen-ai/socmodel/internal/perf"
	"github.com/nexgen-ai/socmodel/internal/power"
)

// Metric computes a scalar from a configuration
type Metric func(arch.SoC) (float64, error)

// Density is FP16 TFLOPS per mm²
func Density(soc arch.SoC) (float64, error) {
	return perf.New(soc).ComputeDensity(arch.FP16)
}

// PeakTFLOPS is FP16 peak compute
func PeakTFLOPS(soc arch.SoC) (float64, error) {
	peak, err := perf.New(soc).PeakCompute(arch.FP16)
	return peak.TFLOPS(), err
}

// TotalPower returns a metric of full-load watts under the given coefficients
func TotalPower(c power.Coefficients) Metric {
	return func(soc arch.SoC) (float64, error) {
		total, err := power.New(soc, power.WithCoefficients(c)).Total(1.0)
		return total.Watts(), err
	}
}

// Efficiency returns a metric of full-load FP16 TFLOPS/W
func Efficiency(c power.Coefficients) Metric {
	return func(soc arch.SoC) (float64, error) {
		return power.New(soc, power.WithCoefficients(c)).Efficiency(arch.FP16, 1.0)
	}
}

// Run evaluates metric for a fresh configuration per value
func Run(base arch.SoC, param Parameter, values []float64, metric Metric) ([]float64, error) {
	out := make([]float64, 0, len(values))
	for _, v := range values {
		soc, err := Apply(base, param, v)
		if err != nil {
			return nil, err
		}
		m, err := metric(soc)
		if err != nil {
			return nil, fmt.Errorf("%s=%v: %w", param, v, err)
		}
		out = append(out, m)
	}
	return out, nil
}

// Sensitivity is the normalized two-point secant between the first and last
// sample: (Δm/m₀)/(Δp/p₀). It only looks at the endpoints, so curvature in
// between is ignored. ok is false when it is undefined.
func Sensitivity(params, metrics []float64) (s float64, ok bool) {
	if len(params) < 2 || len(params) != len(metrics) {
		return 0, false
	}
	p0, p1 := params[0], params[len(params)-1]
	m0, m1 := metrics[0], metrics[len(metrics)-1]
	if p0 <= 0 || m0 <= 0 || p0 == p1 {
		return 0, false
	}
	return ((m1 - m0) / m0) / ((p1 - p0) / p0), true
}

// Range returns start, start+step, ... strictly below stop
func Range(start, stop, step float64) []float64 {
	if step <= 0 || stop <= start {
		return nil
	}
	var out []float64
	for i := 0; ; i++ {
		v := start + float64(i)*step
		if v >= stop {
			break
		}
		out = append(out, v)
	}
	return out
}

// Analysis names a parameter and the values to sweep it over
type Analysis struct {
	Parameter Parameter
	Values    []float64
}

// DefaultAnalyses are the sweeps run by the sensitivity report
func DefaultAnalyses() []Analysis {
	return []Analysis{
		{NumSMs, Range(16, 65, 4)},
		{ChipletArea, Range(250, 450, 10)},
		{ClockMHz, Range(1500, 3000, 100)},
		{TensorCores, Range(2, 11, 1)},
		{FP16OpsPerCycle, Range(64, 320, 16)},
	}
}

// Sample is a single point of a sensitivity sweep
type Sample struct {
	Parameter  string  `csv:"parameter"`
	Value      float64 `csv:"value"`
	Density    float64 `csv:"density_tflops_per_mm2"`
	PowerWatts float64 `csv:"power_watts"`
	PeakTFLOPS float64 `csv:"peak_tflops"`
}

// Result is the outcome of one parameter sweep
type Result struct {
	Parameter   Parameter
	Values      []float64
	Density     []float64
	Power       []float64
	Peak        []float64
	Sensitivity float64
	Defined     bool // false when Sensitivity could not be computed
}

// Samples flattens the result into one row per value
func (r Result) Samples() []Sample {
	out := make([]Sample, len(r.Values))
	for i, v := range r.Values {
		out[i] = Sample{
			Parameter:  string(r.Parameter),
			Value:      v,
			Density:    r.Density[i],
			PowerWatts: r.Power[i],
			PeakTFLOPS: r.Peak[i],
		}
	}
	return out
}

// DensityRange returns min and max density over the sweep
func (r Result) DensityRange() (float64, float64) {
	return minMax(r.Density)
}

// PowerRange returns min and max power over the sweep
func (r Result) PowerRange() (float64, float64) {
	return minMax(r.Power)
}

func minMax(v []float64) (float64, float64) {
	if len(v) == 0 {
		return 0, 0
	}
	return slices.Min(v), slices.Max(v)
}

// Analyze sweeps density, power and peak compute for each analysis
func Analyze(base arch.SoC, coeffs power.Coefficients, analyses []Analysis) ([]Result, error) {
	results := make([]Result, 0, len(analyses))
	for _, a := range analyses {
		density, err := Run(base, a.Parameter, a.Values, Density)
		if err != nil {
			return nil, err
		}
		watts, err := Run(base, a.Parameter, a.Values, TotalPower(coeffs))
		if err != nil {
			return nil, err
		}
		peak, err := Run(base, a.Parameter, a.Values, PeakTFLOPS)
		if err != nil {
			return nil, err
		}
		s, ok := Sensitivity(a.Values, density)
		results = append(results, Result{
			Parameter:   a.Parameter,
			Values:      a.Values,
			Density:     density,
			Power:       watts,
			Peak:        peak,
			Sensitivity: s,
			Defined:     ok,
		})
	}
	return results, nil
}
