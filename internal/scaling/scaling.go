// SPDX-FileCopyrightText: 2026 The NexGen-AI Authors
// SPDX-License-Identifier: Apache-2.0

// Package scaling evaluates ideal chiplet-count scaling of compute, memory
// bandwidth and power for a fixed chiplet design.
package scaling

import (
	"fmt"

	"github.com/nexgen-ai/socmodel/internal/arch"
	"github.com/nexgen-ai/socmodel/internal/perf"
	"github.com/nexgen-ai/socmodel/internal/power"
)

// DefaultStacksPerChiplet is the HBM stacks attached per chiplet when memory
// scales with compute
const DefaultStacksPerChiplet = 2

// Point is one row of the scaling analysis
type Point struct {
	Chiplets       int     `csv:"chiplets"`
	ComputeTFLOPS  float64 `csv:"compute_tflops"`
	MemoryTBps     float64 `csv:"memory_tbps"`
	PowerWatts     float64 `csv:"power_watts"`
	TFLOPSPerWatt  float64 `csv:"tflops_per_watt"`
	ComputePerArea float64 `csv:"tflops_per_mm2"`
}

// Model derives SoCs with varying chiplet counts from a base chiplet
type Model struct {
	base             arch.SoC
	stacksPerChiplet int
	coeffs           power.Coefficients
}

type OptionFn func(*Model)

func WithStacksPerChiplet(n int) OptionFn {
	return func(m *Model) {
		m.stacksPerChiplet = n
	}
}

func WithCoefficients(c power.Coefficients) OptionFn {
	return func(m *Model) {
		m.coeffs = c
	}
}

// New returns a scaling model that keeps every parameter of base except the
// chiplet count and, for memory and power, the HBM stack count
func New(base arch.SoC, applyOpts ...OptionFn) *Model {
	m := &Model{
		base:             base,
		stacksPerChiplet: DefaultStacksPerChiplet,
		coeffs:           power.DefaultCoefficients(),
	}
	for _, apply := range applyOpts {
		apply(m)
	}
	return m
}

// computeSoC varies only the chiplet count; HBM stays as in the base
func (m *Model) computeSoC(n int) arch.SoC {
	return m.base.WithChiplets(n)
}

// memorySoC scales HBM stacks with the chiplet count
func (m *Model) memorySoC(n int) arch.SoC {
	return m.base.WithChiplets(n).WithHBMStacks(n * m.stacksPerChiplet)
}

// Compute returns peak TFLOPS per chiplet count
func (m *Model) Compute(counts []int, p arch.Precision) (map[int]float64, error) {
	out := make(map[int]float64, len(counts))
	for _, n := range counts {
		peak, err := perf.New(m.computeSoC(n)).PeakCompute(p)
		if err != nil {
			return nil, err
		}
		out[n] = peak.TFLOPS()
	}
	return out, nil
}

// Memory returns HBM bandwidth in TB/s per chiplet count
func (m *Model) Memory(counts []int) map[int]float64 {
	out := make(map[int]float64, len(counts))
	for _, n := range counts {
		out[n] = perf.New(m.memorySoC(n)).MemoryBandwidth().TBps()
	}
	return out
}

// Power returns total watts at utilization u per chiplet count
func (m *Model) Power(counts []int, u float64) (map[int]float64, error) {
	out := make(map[int]float64, len(counts))
	for _, n := range counts {
		total, err := power.New(m.memorySoC(n), power.WithCoefficients(m.coeffs)).Total(u)
		if err != nil {
			return nil, err
		}
		out[n] = total.Watts()
	}
	return out, nil
}

// Efficiency combines compute, memory and full-load power for each count,
// in the order given
func (m *Model) Efficiency(counts []int, p arch.Precision) ([]Point, error) {
	for _, n := range counts {
		if n <= 0 {
			return nil, fmt.Errorf("invalid chiplet count: %d", n)
		}
	}
	compute, err := m.Compute(counts, p)
	if err != nil {
		return nil, err
	}
	memory := m.Memory(counts)
	watts, err := m.Power(counts, 1.0)
	if err != nil {
		return nil, err
	}

	points := make([]Point, 0, len(counts))
	for _, n := range counts {
		points = append(points, Point{
			Chiplets:       n,
			ComputeTFLOPS:  compute[n],
			MemoryTBps:     memory[n],
			PowerWatts:     watts[n],
			TFLOPSPerWatt:  compute[n] / watts[n],
			ComputePerArea: compute[n] / (float64(n) * m.base.Chiplet.AreaMM2),
		})
	}
	return points, nil
}
