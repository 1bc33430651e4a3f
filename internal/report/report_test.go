// SPDX-FileCopyrightText: 2026 The NexGen-AI Authors
// SPDX-License-Identifier: Apache-2.0

package report

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nexgen-ai/socmodel/internal/arch"
	"github.com/nexgen-ai/socmodel/internal/explore"
	"github.com/nexgen-ai/socmodel/internal/perf"
	"github.com/nexgen-ai/socmodel/internal/power"
	"github.com/nexgen-ai/socmodel/internal/scaling"
	"github.com/nexgen-ai/socmodel/internal/sweep"
)

func TestHeading(t *testing.T) {
	out := &bytes.Buffer{}
	Heading(out, "POWER ANALYSIS")

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, strings.Repeat("=", 100), lines[0])
	assert.Equal(t, "POWER ANALYSIS", lines[1])
}

func TestConfiguration(t *testing.T) {
	out := &bytes.Buffer{}
	Configuration(out, arch.DefaultSoC())

	s := out.String()
	assert.Contains(t, s, "Total SMs")
	assert.Contains(t, s, "64")
	assert.Contains(t, s, "1600.0")
	assert.Contains(t, s, "1024 GB/s (1.02 TB/s)")
}

func TestPrecisions(t *testing.T) {
	out := &bytes.Buffer{}
	Precisions(out, []PrecisionSummary{
		{Precision: arch.FP16, PeakTFLOPS: 65.536, Density: 0.04096, RidgePoint: 64},
		{Precision: arch.FP8, PeakTFLOPS: 3300, Density: 2.0625, RidgePoint: 128},
	}, 2.0)

	lines := strings.Split(out.String(), "\n")
	var fp16, fp8 string
	for _, l := range lines {
		switch {
		case strings.Contains(l, "FP16"):
			fp16 = l
		case strings.Contains(l, "FP8"):
			fp8 = l
		}
	}
	assert.Contains(t, fp16, "65.5")
	assert.Contains(t, fp16, "0.041")
	assert.Contains(t, fp16, fail)
	assert.Contains(t, fp8, pass)
	// headers are upper-cased by the table writer
	assert.Contains(t, out.String(), "≥ 2.0 TFLOPS/MM²")
}

func TestWorkloads(t *testing.T) {
	m := perf.New(arch.DefaultSoC())
	rows, err := m.AnalyzeWorkloads(arch.FP16, perf.ReferenceWorkloads())
	require.NoError(t, err)

	out := &bytes.Buffer{}
	Workloads(out, rows)

	s := out.String()
	for _, w := range perf.ReferenceWorkloads() {
		assert.Contains(t, s, w.Name)
	}
	assert.Contains(t, s, "Compute")
	assert.Contains(t, s, "Memory")
	assert.Contains(t, s, "100.0%")
}

func TestPower(t *testing.T) {
	m := power.New(arch.DefaultSoC())
	full, err := m.Breakdown(1)
	require.NoError(t, err)

	out := &bytes.Buffer{}
	Power(out, []PowerSummary{
		{Utilization: 1, Breakdown: full, Efficiency: 0.245, JunctionC: 51.72},
	}, 500)

	s := out.String()
	assert.Contains(t, s, "100%")
	assert.Contains(t, s, "267.2")
	assert.Contains(t, s, "51.7")
	assert.Contains(t, s, "≤ 500 W")
	assert.Contains(t, s, pass)

	out.Reset()
	Power(out, []PowerSummary{{Utilization: 1, Breakdown: full}}, 200)
	assert.Contains(t, out.String(), fail)
}

func TestScaling(t *testing.T) {
	points, err := scaling.New(arch.DefaultSoC()).Efficiency([]int{2, 4}, arch.FP16)
	require.NoError(t, err)

	out := &bytes.Buffer{}
	Scaling(out, points)

	s := out.String()
	assert.Contains(t, s, "32.8")
	assert.Contains(t, s, "148.6")
	assert.Contains(t, s, "0.51")
}

func evaluations(t *testing.T) []explore.Evaluation {
	t.Helper()
	evals, err := explore.NewComparator().Compare(explore.Catalogue())
	require.NoError(t, err)
	return evals
}

func TestVariants(t *testing.T) {
	out := &bytes.Buffer{}
	Variants(out, evaluations(t))

	s := out.String()
	for _, v := range explore.Catalogue() {
		assert.Contains(t, s, v.Name)
	}
	assert.Contains(t, s, "983.0")
	assert.Contains(t, s, "0.819")
}

func TestDetails(t *testing.T) {
	out := &bytes.Buffer{}
	Details(out, evaluations(t))

	s := out.String()
	assert.Contains(t, s, "Aggressive Optimized:")
	assert.Contains(t, s, "Below density target by 1.181 TFLOPS/mm²")
	assert.Contains(t, s, "Meets power target (500W)")
	assert.NotContains(t, s, "Meets density target")
}

func TestRecommendation(t *testing.T) {
	t.Run("best variant", func(t *testing.T) {
		out := &bytes.Buffer{}
		Recommendation(out, explore.Recommend(evaluations(t)), explore.DefaultTargets())

		s := out.String()
		assert.Contains(t, s, "Best configuration meeting power target: Aggressive Optimized")
		assert.Contains(t, s, "WARNING: No configuration meets the 2.0 TFLOPS/mm² target")
	})

	t.Run("nothing fits the budget", func(t *testing.T) {
		out := &bytes.Buffer{}
		Recommendation(out, explore.Recommendation{}, explore.Targets{DensityTFLOPSPerMM2: 0.1, PowerWatts: 100})

		s := out.String()
		assert.Contains(t, s, "No configuration fits the 100 W power budget")
		assert.NotContains(t, s, "WARNING")
	})
}

func TestBaseline(t *testing.T) {
	out := &bytes.Buffer{}
	Baseline(out, arch.DefaultSoC())

	s := out.String()
	assert.Contains(t, s, "2000")
	assert.Contains(t, s, "400.0")
	assert.Contains(t, s, "128")
}

func TestSensitivity(t *testing.T) {
	results := []sweep.Result{{
		Parameter:   sweep.NumSMs,
		Values:      []float64{16, 32},
		Density:     []float64{0.041, 0.082},
		Power:       []float64{267.2, 363.2},
		Peak:        []float64{65.5, 131.1},
		Sensitivity: 1,
		Defined:     true,
	}, {
		Parameter: sweep.ClockMHz,
		Values:    []float64{2000},
		Density:   []float64{0.041},
		Power:     []float64{267.2},
		Peak:      []float64{65.5},
	}}

	out := &bytes.Buffer{}
	Sensitivity(out, results)

	s := out.String()
	assert.Contains(t, s, sweep.NumSMs.Label())
	assert.Contains(t, s, "1.00")
	assert.Contains(t, s, "0.041 - 0.082")
	assert.Contains(t, s, "267.2 - 363.2")
	assert.Contains(t, s, "n/a")
}
