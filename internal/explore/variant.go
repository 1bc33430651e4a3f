// SPDX-FileCopyrightText: 2026 The NexGen-AI Authors
// SPDX-License-Identifier: Apache-2.0

package explore

import (
	"github.com/nexgen-ai/socmodel/internal/arch"
)

// Variant is a named architecture candidate
type Variant struct {
	Name        string
	Description string
	SoC         arch.SoC
}

// Catalogue returns the hand-tuned variants compared by the exploration
// report, baseline first
func Catalogue() []Variant {
	return []Variant{
		Baseline(),
		RealisticOptimized(),
		HighSMDensity(),
		AggressiveOptimized(),
		PowerOptimized(),
	}
}

func opsTable(fp16, fp32 int) arch.OpsTable {
	return arch.OpsTable{
		arch.FP4:  512,
		arch.FP8:  256,
		arch.INT8: 256,
		arch.FP16: fp16,
		arch.BF16: fp16,
		arch.FP32: fp32,
	}
}

func variant(name, desc string, sm arch.SM, smsPerChiplet, l2MB int, areaMM2 float64) Variant {
	chiplet := arch.DefaultChiplet().
		WithSMs(smsPerChiplet).
		WithL2CacheMB(l2MB).
		WithAreaMM2(areaMM2).
		WithSM(sm)

	return Variant{
		Name:        name,
		Description: desc,
		SoC:         arch.DefaultSoC().WithChiplets(4).WithHBMStacks(8).WithChiplet(chiplet),
	}
}

func Baseline() Variant {
	sm := arch.DefaultSM().WithTensorCores(4).WithClockMHz(2000).WithOps(opsTable(128, 64))
	return variant("Baseline", "Original baseline configuration", sm, 16, 6, 400)
}

// AggressiveOptimized triples SMs, doubles tensor cores and FP16 rate and
// raises the clock, on a 25% smaller die
func AggressiveOptimized() Variant {
	sm := arch.DefaultSM().WithTensorCores(8).WithClockMHz(2500).WithOps(opsTable(256, 128))
	return variant("Aggressive Optimized", "3x SMs, 2x tensor cores, higher clock, denser ops", sm, 48, 8, 300)
}

func RealisticOptimized() Variant {
	sm := arch.DefaultSM().WithTensorCores(6).WithClockMHz(2300).WithOps(opsTable(192, 96))
	return variant("Realistic Optimized", "2x SMs, 1.5x tensor cores, moderate clock boost", sm, 32, 7, 350)
}

func HighSMDensity() Variant {
	sm := arch.DefaultSM().WithTensorCores(4).WithClockMHz(2200).WithOps(opsTable(160, 80))
	return variant("High SM Density", "2.5x SMs, optimized area, moderate improvements", sm, 40, 8, 320)
}

func PowerOptimized() Variant {
	sm := arch.DefaultSM().WithTensorCores(4).WithClockMHz(1800).WithOps(opsTable(128, 64))
	return variant("Power Optimized", "Lower clock, moderate SM increase, focus on efficiency", sm, 24, 6, 380)
}
