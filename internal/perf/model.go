// SPDX-FileCopyrightText: 2026 The NexGen-AI Authors
// SPDX-License-Identifier: Apache-2.0

// Package perf implements peak-compute and roofline analysis of an SoC
// configuration.
package perf

import (
	"errors"
	"fmt"
	"math"

	"github.com/nexgen-ai/socmodel/internal/arch"
	"github.com/nexgen-ai/socmodel/internal/units"
)

var ErrInvalidIntensity = errors.New("invalid arithmetic intensity")

// Bound names the resource limiting a workload on the roofline
type Bound int

const (
	MemoryBound Bound = iota
	ComputeBound
)

func (b Bound) String() string {
	switch b {
	case MemoryBound:
		return "Memory"
	case ComputeBound:
		return "Compute"
	default:
		return fmt.Sprintf("Bound(%d)", int(b))
	}
}

// Model evaluates performance metrics of a single SoC configuration
type Model struct {
	soc arch.SoC
}

func New(soc arch.SoC) *Model {
	return &Model{soc: soc}
}

// SoC returns the modelled configuration
func (m *Model) SoC() arch.SoC {
	return m.soc
}

// PeakCompute returns the peak tensor throughput of the whole SoC
func (m *Model) PeakCompute(p arch.Precision) (units.Compute, error) {
	perSM, err := m.soc.Chiplet.SM.PeakTFLOPS(p)
	if err != nil {
		return 0, err
	}
	return perSM * units.Compute(m.soc.TotalSMs()), nil
}

// ComputeDensity returns peak TFLOPS per mm² of total die area
func (m *Model) ComputeDensity(p arch.Precision) (float64, error) {
	peak, err := m.PeakCompute(p)
	if err != nil {
		return 0, err
	}
	return peak.TFLOPS() / m.soc.TotalAreaMM2(), nil
}

// MemoryBandwidth returns the aggregate HBM bandwidth
func (m *Model) MemoryBandwidth() units.Bandwidth {
	return m.soc.TotalHBMBandwidth()
}

// RidgePoint returns the arithmetic intensity (FLOPS/byte) at which the
// memory roof meets the compute roof
func (m *Model) RidgePoint(p arch.Precision) (float64, error) {
	peak, err := m.PeakCompute(p)
	if err != nil {
		return 0, err
	}
	return peak.FLOPS() / m.MemoryBandwidth().BytesPerSecond(), nil
}

// Roofline returns the achievable throughput at arithmetic intensity ai:
// min(bandwidth × ai, peak)
func (m *Model) Roofline(ai float64, p arch.Precision) (units.Compute, error) {
	if err := checkIntensity(ai); err != nil {
		return 0, err
	}
	peak, err := m.PeakCompute(p)
	if err != nil {
		return 0, err
	}
	return roof(ai, m.MemoryBandwidth().TBps(), peak.TFLOPS()), nil
}

// RooflineSweep evaluates the roofline over a slice of intensities and
// returns achieved TFLOPS for each point
func (m *Model) RooflineSweep(ais []float64, p arch.Precision) ([]float64, error) {
	peak, err := m.PeakCompute(p)
	if err != nil {
		return nil, err
	}
	bw := m.MemoryBandwidth().TBps()

	out := make([]float64, len(ais))
	for i, ai := range ais {
		if err := checkIntensity(ai); err != nil {
			return nil, fmt.Errorf("point %d: %w", i, err)
		}
		out[i] = roof(ai, bw, peak.TFLOPS()).TFLOPS()
	}
	return out, nil
}

// Classify reports whether a workload of intensity ai is memory or compute bound
func (m *Model) Classify(ai float64, p arch.Precision) (Bound, error) {
	if err := checkIntensity(ai); err != nil {
		return 0, err
	}
	ridge, err := m.RidgePoint(p)
	if err != nil {
		return 0, err
	}
	if ai < ridge {
		return MemoryBound, nil
	}
	return ComputeBound, nil
}

// roof is min(bw × ai, peak). The memory roof is only formed once it is known
// to be below peak so very large intensities never overflow to +Inf.
func roof(ai, bwTBps, peakTFLOPS float64) units.Compute {
	if ai >= peakTFLOPS/bwTBps {
		return units.Compute(peakTFLOPS)
	}
	return units.Compute(bwTBps * ai)
}

func checkIntensity(ai float64) error {
	if math.IsNaN(ai) || math.IsInf(ai, 0) || ai < 0 {
		return fmt.Errorf("%w: %v", ErrInvalidIntensity, ai)
	}
	return nil
}

// LogSpace returns n points spaced evenly on a log scale between 10^lo and 10^hi
func LogSpace(lo, hi float64, n int) []float64 {
	if n <= 0 {
		return nil
	}
	if n == 1 {
		return []float64{math.Pow(10, lo)}
	}
	out := make([]float64, n)
	step := (hi - lo) / float64(n-1)
	for i := range out {
		out[i] = math.Pow(10, lo+step*float64(i))
	}
	return out
}
