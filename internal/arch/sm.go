// SPDX-FileCopyrightText: 2026 The NexGen-AI Authors
// SPDX-License-Identifier: Apache-2.0

package arch

import (
	"fmt"
	"maps"

	"github.com/nexgen-ai/socmodel/internal/units"
)

// OpsTable maps a precision to operations per cycle per tensor core
type OpsTable map[Precision]int

// DefaultOpsTable returns the baseline tensor-core throughput table
func DefaultOpsTable() OpsTable {
	return OpsTable{
		FP4:  512,
		FP8:  256,
		INT8: 256,
		FP16: 128,
		BF16: 128,
		FP32: 64,
	}
}

// SM is a streaming multiprocessor configuration.
// SM values are never modified in place; the With methods return copies.
type SM struct {
	CUDACores      int
	TensorCores    int
	L1CacheKB      int
	SharedMemoryKB int
	RegisterFileKB int
	ClockMHz       int

	ops OpsTable
}

// DefaultSM returns the baseline SM: 128 CUDA cores, 4 tensor cores at 2000 MHz
func DefaultSM() SM {
	return SM{
		CUDACores:      128,
		TensorCores:    4,
		L1CacheKB:      128,
		SharedMemoryKB: 128,
		RegisterFileKB: 256,
		ClockMHz:       2000,
		ops:            DefaultOpsTable(),
	}
}

// OpsPerCycle returns the operations per cycle per tensor core for p
func (s SM) OpsPerCycle(p Precision) (int, error) {
	ops, ok := s.ops[p]
	if !ok {
		return 0, fmt.Errorf("%w: %s has no tensor-core rate", ErrUnknownPrecision, p)
	}
	return ops, nil
}

// Ops returns a copy of the throughput table
func (s SM) Ops() OpsTable {
	return maps.Clone(s.ops)
}

// PeakTFLOPS returns the peak tensor throughput of a single SM
func (s SM) PeakTFLOPS(p Precision) (units.Compute, error) {
	ops, err := s.OpsPerCycle(p)
	if err != nil {
		return 0, err
	}
	perCycle := float64(ops) * float64(s.TensorCores)
	return units.FromOpsPerSecond(perCycle * float64(s.ClockMHz) * 1e6), nil
}

func (s SM) WithTensorCores(n int) SM {
	s.TensorCores = n
	return s
}

func (s SM) WithClockMHz(mhz int) SM {
	s.ClockMHz = mhz
	return s
}

func (s SM) WithCUDACores(n int) SM {
	s.CUDACores = n
	return s
}

// WithOps replaces the whole throughput table
func (s SM) WithOps(t OpsTable) SM {
	s.ops = maps.Clone(t)
	return s
}

// WithOpsPerCycle sets the rate of a single precision, leaving the original
// table untouched
func (s SM) WithOpsPerCycle(p Precision, ops int) SM {
	t := maps.Clone(s.ops)
	if t == nil {
		t = OpsTable{}
	}
	t[p] = ops
	s.ops = t
	return s
}

func (s SM) Validate() error {
	switch {
	case s.TensorCores <= 0:
		return fmt.Errorf("invalid SM: tensor cores must be positive, got %d", s.TensorCores)
	case s.ClockMHz <= 0:
		return fmt.Errorf("invalid SM: clock must be positive, got %d MHz", s.ClockMHz)
	case s.CUDACores < 0:
		return fmt.Errorf("invalid SM: CUDA cores can't be negative, got %d", s.CUDACores)
	}
	for p, ops := range s.ops {
		if ops < 0 {
			return fmt.Errorf("invalid SM: %s ops per cycle can't be negative, got %d", p, ops)
		}
	}
	return nil
}
