// SPDX-FileCopyrightText: 2026 The NexGen-AI Authors
// SPDX-License-Identifier: Apache-2.0

package sweep

import (
	"errors"
	"fmt"
	"strings"

	"github.com/nexgen-ai/socmodel/internal/arch"
)

var ErrUnknownParameter = errors.New("unknown parameter")

// Parameter is one of the architectural knobs a sweep can vary
type Parameter string

const (
	NumSMs          Parameter = "num_sms"
	ChipletArea     Parameter = "chiplet_area"
	ClockMHz        Parameter = "clock_mhz"
	TensorCores     Parameter = "tensor_cores"
	FP16OpsPerCycle Parameter = "fp16_ops_per_cycle"
)

// Parameters returns every recognised parameter
func Parameters() []Parameter {
	return []Parameter{NumSMs, ChipletArea, ClockMHz, TensorCores, FP16OpsPerCycle}
}

func (p Parameter) String() string {
	return string(p)
}

// Label is the human readable axis label
func (p Parameter) Label() string {
	switch p {
	case NumSMs:
		return "Number of SMs per Chiplet"
	case ChipletArea:
		return "Chiplet Area"
	case ClockMHz:
		return "Clock Frequency"
	case TensorCores:
		return "Tensor Cores per SM"
	case FP16OpsPerCycle:
		return "FP16 Ops per Cycle per Tensor Core"
	default:
		return string(p)
	}
}

// Unit is the unit of the parameter values
func (p Parameter) Unit() string {
	switch p {
	case NumSMs:
		return "SMs"
	case ChipletArea:
		return "mm²"
	case ClockMHz:
		return "MHz"
	case TensorCores:
		return "cores"
	case FP16OpsPerCycle:
		return "ops/cycle"
	default:
		return ""
	}
}

// ParseParameter validates a parameter name
func ParseParameter(s string) (Parameter, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for _, p := range Parameters() {
		if string(p) == name {
			return p, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownParameter, s)
}

// Apply derives a new SoC from base with param set to value; everything else
// is left as in base. Integer parameters are truncated.
func Apply(base arch.SoC, param Parameter, value float64) (arch.SoC, error) {
	chiplet := base.Chiplet
	sm := chiplet.SM

	switch param {
	case NumSMs:
		chiplet = chiplet.WithSMs(int(value))
	case ChipletArea:
		chiplet = chiplet.WithAreaMM2(value)
	case ClockMHz:
		chiplet = chiplet.WithSM(sm.WithClockMHz(int(value)))
	case TensorCores:
		chiplet = chiplet.WithSM(sm.WithTensorCores(int(value)))
	case FP16OpsPerCycle:
		chiplet = chiplet.WithSM(sm.WithOpsPerCycle(arch.FP16, int(value)))
	default:
		return arch.SoC{}, fmt.Errorf("%w: %q", ErrUnknownParameter, string(param))
	}
	return base.WithChiplet(chiplet), nil
}
