// SPDX-FileCopyrightText: 2026 The NexGen-AI Authors
// SPDX-License-Identifier: Apache-2.0

// Package power estimates SoC power draw, efficiency and junction temperature
// from an architecture configuration and a utilization fraction.
package power

import (
	"errors"
	"fmt"
	"math"

	"github.com/nexgen-ai/socmodel/internal/arch"
	"github.com/nexgen-ai/socmodel/internal/perf"
	"github.com/nexgen-ai/socmodel/internal/units"
)

var ErrInvalidUtilization = errors.New("utilization must be within [0, 1]")

// Coefficients are the per-component power parameters of the model
type Coefficients struct {
	SMDynamic           units.Power // per SM at full load
	L2PerMB             units.Power // per MB of L2 at full load
	HBMStack            units.Power // per stack at full bandwidth
	Interconnect        units.Power // UCIe + NVLink, fixed
	IO                  units.Power // PCIe and misc I/O, fixed
	StaticPerChiplet    units.Power // leakage
	AmbientCelsius      float64
	ThetaJA             float64 // °C/W junction-to-ambient
	DefaultUtilizations []float64
}

// DefaultCoefficients returns the reference coefficients
func DefaultCoefficients() Coefficients {
	return Coefficients{
		SMDynamic:           1500 * units.MilliWatt,
		L2PerMB:             50 * units.MilliWatt,
		HBMStack:            15 * units.Watt,
		Interconnect:        20 * units.Watt,
		IO:                  10 * units.Watt,
		StaticPerChiplet:    5 * units.Watt,
		AmbientCelsius:      25,
		ThetaJA:             0.1,
		DefaultUtilizations: []float64{1.0, 0.75, 0.5},
	}
}

// Breakdown is the power draw split by component
type Breakdown struct {
	SM           units.Power
	Cache        units.Power
	HBM          units.Power
	Static       units.Power
	Interconnect units.Power
	IO           units.Power
}

// Dynamic is the utilization dependent part of the breakdown
func (b Breakdown) Dynamic() units.Power {
	return b.SM + b.Cache + b.HBM
}

// Total is the sum of all components
func (b Breakdown) Total() units.Power {
	return b.Dynamic() + b.Static + b.Interconnect + b.IO
}

// Model is the power model of a single SoC configuration
type Model struct {
	soc    arch.SoC
	coeffs Coefficients
}

type Opts struct {
	coeffs Coefficients
}

// OptionFn sets one or more options in Opts
type OptionFn func(*Opts)

// WithCoefficients overrides the default power coefficients
func WithCoefficients(c Coefficients) OptionFn {
	return func(o *Opts) {
		o.coeffs = c
	}
}

func New(soc arch.SoC, applyOpts ...OptionFn) *Model {
	opts := Opts{coeffs: DefaultCoefficients()}
	for _, apply := range applyOpts {
		apply(&opts)
	}
	return &Model{soc: soc, coeffs: opts.coeffs}
}

// Breakdown splits the power at utilization u into its components.
// SM and HBM power are linear in u, cache power follows √u.
func (m *Model) Breakdown(u float64) (Breakdown, error) {
	if err := checkUtilization(u); err != nil {
		return Breakdown{}, err
	}
	c := m.coeffs
	return Breakdown{
		SM:           units.Power(m.soc.TotalSMs()) * c.SMDynamic * units.Power(u),
		Cache:        units.Power(m.soc.TotalL2CacheMB()) * c.L2PerMB * units.Power(math.Sqrt(u)),
		HBM:          units.Power(m.soc.HBMStacks) * c.HBMStack * units.Power(u),
		Static:       m.Static(),
		Interconnect: c.Interconnect,
		IO:           c.IO,
	}, nil
}

// Dynamic returns SM, cache and HBM power at utilization u
func (m *Model) Dynamic(u float64) (units.Power, error) {
	b, err := m.Breakdown(u)
	if err != nil {
		return 0, err
	}
	return b.Dynamic(), nil
}

// Static returns leakage power, linear in chiplet count
func (m *Model) Static() units.Power {
	return units.Power(m.soc.Chiplets) * m.coeffs.StaticPerChiplet
}

// Total returns the SoC power at utilization u
func (m *Model) Total(u float64) (units.Power, error) {
	b, err := m.Breakdown(u)
	if err != nil {
		return 0, err
	}
	return b.Total(), nil
}

// Efficiency returns achieved TFLOPS per watt: peak(p) × u / Total(u)
func (m *Model) Efficiency(p arch.Precision, u float64) (float64, error) {
	total, err := m.Total(u)
	if err != nil {
		return 0, err
	}
	peak, err := perf.New(m.soc).PeakCompute(p)
	if err != nil {
		return 0, err
	}
	return peak.TFLOPS() * u / total.Watts(), nil
}

// JunctionTemperature returns ambient + Total(u) × θja in °C
func (m *Model) JunctionTemperature(u, ambientCelsius, thetaJA float64) (float64, error) {
	total, err := m.Total(u)
	if err != nil {
		return 0, err
	}
	return ambientCelsius + total.Watts()*thetaJA, nil
}

// DefaultJunctionTemperature uses the ambient and θja of the coefficients
func (m *Model) DefaultJunctionTemperature(u float64) (float64, error) {
	return m.JunctionTemperature(u, m.coeffs.AmbientCelsius, m.coeffs.ThetaJA)
}

func checkUtilization(u float64) error {
	if math.IsNaN(u) || u < 0 || u > 1 {
		return fmt.Errorf("%w: got %v", ErrInvalidUtilization, u)
	}
	return nil
}
