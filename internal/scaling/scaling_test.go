// SPDX-FileCopyrightText: 2026 The NexGen-AI Authors
// SPDX-License-Identifier: Apache-2.0

package scaling

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nexgen-ai/socmodel/internal/arch"
	"github.com/nexgen-ai/socmodel/internal/power"
)

func TestEfficiency(t *testing.T) {
	m := New(arch.DefaultSoC())
	counts := []int{2, 4, 6, 8}

	points, err := m.Efficiency(counts, arch.FP16)
	require.NoError(t, err)
	require.Len(t, points, 4)

	for i, n := range counts {
		p := points[i]
		assert.Equal(t, n, p.Chiplets)
		assert.InDelta(t, 65.536/4*float64(n), p.ComputeTFLOPS, 1e-9)
		assert.InDelta(t, 0.256*float64(n), p.MemoryTBps, 1e-12)
		assert.InDelta(t, p.ComputeTFLOPS/p.PowerWatts, p.TFLOPSPerWatt, 1e-12)
		assert.InDelta(t, 65.536/1600, p.ComputePerArea, 1e-12, "ideal scaling keeps density constant")
	}

	// 4 chiplets with 8 stacks is the baseline
	assert.InDelta(t, 267.2, points[1].PowerWatts, 1e-9)
}

func TestLinearScaling(t *testing.T) {
	m := New(arch.DefaultSoC())

	compute, err := m.Compute([]int{4, 8}, arch.FP16)
	require.NoError(t, err)
	memory := m.Memory([]int{4, 8})

	assert.Equal(t, 2*compute[4], compute[8])
	assert.Equal(t, 2*memory[4], memory[8])
}

func TestPowerScaling(t *testing.T) {
	m := New(arch.DefaultSoC())

	idle, err := m.Power([]int{2, 4}, 0)
	require.NoError(t, err)
	// static 5 W per chiplet + 30 W fixed
	assert.InDelta(t, 40.0, idle[2], 1e-9)
	assert.InDelta(t, 50.0, idle[4], 1e-9)

	_, err = m.Power([]int{2}, 2)
	assert.ErrorIs(t, err, power.ErrInvalidUtilization)
}

func TestOptions(t *testing.T) {
	c := power.DefaultCoefficients()
	c.Interconnect = 0
	c.IO = 0
	m := New(arch.DefaultSoC(), WithStacksPerChiplet(1), WithCoefficients(c))

	memory := m.Memory([]int{4})
	assert.InDelta(t, 0.512, memory[4], 1e-12)

	idle, err := m.Power([]int{4}, 0)
	require.NoError(t, err)
	assert.InDelta(t, 20.0, idle[4], 1e-9)
}

func TestErrors(t *testing.T) {
	m := New(arch.DefaultSoC())

	_, err := m.Efficiency([]int{0}, arch.FP16)
	assert.Error(t, err)

	_, err = m.Compute([]int{1}, arch.Precision(7))
	assert.ErrorIs(t, err, arch.ErrUnknownPrecision)
}
