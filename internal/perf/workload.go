// SPDX-FileCopyrightText: 2026 The NexGen-AI Authors
// SPDX-License-Identifier: Apache-2.0

package perf

import (
	"github.com/nexgen-ai/socmodel/internal/arch"
)

// Workload is a named kernel class characterised by its arithmetic intensity
type Workload struct {
	Name      string
	Intensity float64 // FLOPS per byte
}

// ReferenceWorkloads are the kernel classes marked on roofline plots
func ReferenceWorkloads() []Workload {
	return []Workload{
		{Name: "GEMM (Optimized)", Intensity: 100},
		{Name: "GEMM (Naive)", Intensity: 10},
		{Name: "Attention (FlashAttention)", Intensity: 50},
		{Name: "Attention (Naive)", Intensity: 5},
		{Name: "Elementwise", Intensity: 0.5},
		{Name: "Reduction", Intensity: 1},
	}
}

// WorkloadAnalysis is the roofline verdict for a single workload
type WorkloadAnalysis struct {
	Precision         string  `csv:"precision"`
	Name              string  `csv:"workload"`
	Intensity         float64 `csv:"arithmetic_intensity"`
	PeakTFLOPS        float64 `csv:"peak_tflops"`
	AchievedTFLOPS    float64 `csv:"achieved_tflops"`
	EfficiencyPercent float64 `csv:"efficiency_percent"`
	Bound             Bound   `csv:"-"`
	Bottleneck        string  `csv:"bottleneck"`
	RidgePoint        float64 `csv:"ridge_point"`
}

// AnalyzeWorkload places a workload of intensity ai on the roofline
func (m *Model) AnalyzeWorkload(p arch.Precision, ai float64) (WorkloadAnalysis, error) {
	peak, err := m.PeakCompute(p)
	if err != nil {
		return WorkloadAnalysis{}, err
	}
	achieved, err := m.Roofline(ai, p)
	if err != nil {
		return WorkloadAnalysis{}, err
	}
	ridge, err := m.RidgePoint(p)
	if err != nil {
		return WorkloadAnalysis{}, err
	}
	bound, err := m.Classify(ai, p)
	if err != nil {
		return WorkloadAnalysis{}, err
	}

	return WorkloadAnalysis{
		Precision:         p.String(),
		Intensity:         ai,
		PeakTFLOPS:        peak.TFLOPS(),
		AchievedTFLOPS:    achieved.TFLOPS(),
		EfficiencyPercent: achieved.TFLOPS() / peak.TFLOPS() * 100,
		Bound:             bound,
		Bottleneck:        bound.String(),
		RidgePoint:        ridge,
	}, nil
}

// AnalyzeWorkloads runs AnalyzeWorkload for each named workload
func (m *Model) AnalyzeWorkloads(p arch.Precision, workloads []Workload) ([]WorkloadAnalysis, error) {
	out := make([]WorkloadAnalysis, 0, len(workloads))
	for _, w := range workloads {
		a, err := m.AnalyzeWorkload(p, w.Intensity)
		if err != nil {
			return nil, err
		}
		a.Name = w.Name
		out = append(out, a)
	}
	return out, nil
}
