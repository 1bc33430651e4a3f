// SPDX-FileCopyrightText: 2026 The NexGen-AI Authors
// SPDX-License-Identifier: Apache-2.0

package units

import (
	"fmt"
)

// Power represents power draw as a float64 MicroWatt count.
// Use functions Watts, MilliWatts and MicroWatts to get the power value as
// Watts, MilliWatts or MicroWatts respectively
type Power float64

const (
	MicroWatt Power = 1.0
	MilliWatt       = 1000 * MicroWatt
	Watt            = 1000 * MilliWatt
)

func (p Power) MicroWatts() float64 {
	return float64(p)
}

func (p Power) MilliWatts() float64 {
	return float64(p / MilliWatt)
}

func (p Power) Watts() float64 {
	return float64(p / Watt)
}

func (p Power) String() string {
	return fmt.Sprintf("%.1fW", p.Watts())
}

// Compute represents a throughput in TFLOPS (10^12 operations per second)
type Compute float64

const (
	TFLOPS Compute = 1.0

	flopsPerTFLOP = 1e12
)

// FromOpsPerSecond converts a raw operations-per-second value to Compute
func FromOpsPerSecond(ops float64) Compute {
	return Compute(ops / flopsPerTFLOP)
}

func (c Compute) TFLOPS() float64 {
	return float64(c)
}

func (c Compute) FLOPS() float64 {
	return float64(c) * flopsPerTFLOP
}

func (c Compute) String() string {
	return fmt.Sprintf("%.1f TFLOPS", c.TFLOPS())
}

// Bandwidth represents a data rate in GB/s (10^9 bytes per second)
type Bandwidth float64

const (
	GBps Bandwidth = 1.0
	TBps           = 1000 * GBps
)

func (b Bandwidth) GBps() float64 {
	return float64(b)
}

func (b Bandwidth) TBps() float64 {
	return float64(b / TBps)
}

func (b Bandwidth) BytesPerSecond() float64 {
	return float64(b) * 1e9
}

func (b Bandwidth) String() string {
	return fmt.Sprintf("%.0f GB/s", b.GBps())
}
