// SPDX-FileCopyrightText: 2026 The NexGen-AI Authors
// SPDX-License-Identifier: Apache-2.0

// Package explore compares a fixed catalogue of architecture variants against
// density and power targets.
package explore

import (
	"fmt"
	"sort"

	"github.com/nexgen-ai/socmodel/internal/arch"
	"github.com/nexgen-ai/socmodel/internal/perf"
	"github.com/nexgen-ai/socmodel/internal/power"
)

// Targets are the pass/fail thresholds a variant is checked against
type Targets struct {
	DensityTFLOPSPerMM2 float64
	PowerWatts          float64
}

func DefaultTargets() Targets {
	return Targets{
		DensityTFLOPSPerMM2: 2.0,
		PowerWatts:          500.0,
	}
}

// Evaluation is the FP16, full-load verdict for one variant
type Evaluation struct {
	Name          string  `csv:"name"`
	Description   string  `csv:"description"`
	FP16TFLOPS    float64 `csv:"fp16_tflops"`
	Density       float64 `csv:"fp16_density_tflops_per_mm2"`
	PowerWatts    float64 `csv:"total_power_w"`
	Efficiency    float64 `csv:"efficiency_tflops_per_w"`
	TotalAreaMM2  float64 `csv:"total_area_mm2"`
	Chiplets      int     `csv:"num_chiplets"`
	TotalSMs      int     `csv:"total_sms"`
	MeetsDensity  bool    `csv:"meets_density_target"`
	MeetsPower    bool    `csv:"meets_power_target"`
	DensityTarget float64 `csv:"-"`
	PowerTarget   float64 `csv:"-"`
}

// DensityGap is how far density falls short of the target; 0 when met
func (e Evaluation) DensityGap() float64 {
	if e.MeetsDensity {
		return 0
	}
	return e.DensityTarget - e.Density
}

// PowerExcess is how far power exceeds the budget; 0 when met
func (e Evaluation) PowerExcess() float64 {
	if e.MeetsPower {
		return 0
	}
	return e.PowerWatts - e.PowerTarget
}

// Comparator evaluates variants with a fixed power model and targets
type Comparator struct {
	targets Targets
	coeffs  power.Coefficients
}

type OptionFn func(*Comparator)

func WithTargets(t Targets) OptionFn {
	return func(c *Comparator) {
		c.targets = t
	}
}

func WithCoefficients(coeffs power.Coefficients) OptionFn {
	return func(c *Comparator) {
		c.coeffs = coeffs
	}
}

func NewComparator(applyOpts ...OptionFn) *Comparator {
	c := &Comparator{
		targets: DefaultTargets(),
		coeffs:  power.DefaultCoefficients(),
	}
	for _, apply := range applyOpts {
		apply(c)
	}
	return c
}

// Targets returns the thresholds used by the comparator
func (c *Comparator) Targets() Targets {
	return c.targets
}

// Evaluate computes FP16 peak, density, full-load power and efficiency of v
func (c *Comparator) Evaluate(v Variant) (Evaluation, error) {
	pm := perf.New(v.SoC)
	pw := power.New(v.SoC, power.WithCoefficients(c.coeffs))

	peak, err := pm.PeakCompute(arch.FP16)
	if err != nil {
		return Evaluation{}, fmt.Errorf("variant %q: %w", v.Name, err)
	}
	density, err := pm.ComputeDensity(arch.FP16)
	if err != nil {
		return Evaluation{}, fmt.Errorf("variant %q: %w", v.Name, err)
	}
	total, err := pw.Total(1.0)
	if err != nil {
		return Evaluation{}, fmt.Errorf("variant %q: %w", v.Name, err)
	}
	eff, err := pw.Efficiency(arch.FP16, 1.0)
	if err != nil {
		return Evaluation{}, fmt.Errorf("variant %q: %w", v.Name, err)
	}

	return Evaluation{
		Name:          v.Name,
		Description:   v.Description,
		FP16TFLOPS:    peak.TFLOPS(),
		Density:       density,
		PowerWatts:    total.Watts(),
		Efficiency:    eff,
		TotalAreaMM2:  v.SoC.TotalAreaMM2(),
		Chiplets:      v.SoC.Chiplets,
		TotalSMs:      v.SoC.TotalSMs(),
		MeetsDensity:  density >= c.targets.DensityTFLOPSPerMM2,
		MeetsPower:    total.Watts() <= c.targets.PowerWatts,
		DensityTarget: c.targets.DensityTFLOPSPerMM2,
		PowerTarget:   c.targets.PowerWatts,
	}, nil
}

// Compare evaluates every variant in order
func (c *Comparator) Compare(variants []Variant) ([]Evaluation, error) {
	out := make([]Evaluation, 0, len(variants))
	for _, v := range variants {
		e, err := c.Evaluate(v)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, nil
}

// Rank returns the power-compliant evaluations ordered by density, highest
// first. Ties keep catalogue order.
func Rank(evals []Evaluation) []Evaluation {
	ranked := make([]Evaluation, 0, len(evals))
	for _, e := range evals {
		if e.MeetsPower {
			ranked = append(ranked, e)
		}
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Density > ranked[j].Density
	})
	return ranked
}

// Recommendation summarises the comparison
type Recommendation struct {
	Best             *Evaluation // densest power-compliant variant, nil if none
	NoneMeetsDensity bool
}

// Recommend picks the densest variant that fits the power budget
func Recommend(evals []Evaluation) Recommendation {
	var r Recommendation
	if ranked := Rank(evals); len(ranked) > 0 {
		best := ranked[0]
		r.Best = &best
	}
	r.NoneMeetsDensity = true
	for _, e := range evals {
		if e.MeetsDensity {
			r.NoneMeetsDensity = false
			break
		}
	}
	return r
}
