// SPDX-FileCopyrightText: 2026 The NexGen-AI Authors
// SPDX-License-Identifier: Apache-2.0

package explore

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/nexgen-ai/socmodel/internal/arch"
	"github.com/nexgen-ai/socmodel/internal/power"
)

var _ = Describe("Variant catalogue", func() {
	It("holds five variants with the baseline first", func() {
		variants := Catalogue()
		Expect(variants).To(HaveLen(5))
		Expect(variants[0].Name).To(Equal("Baseline"))

		names := map[string]bool{}
		for _, v := range variants {
			Expect(v.SoC.Validate()).To(Succeed())
			names[v.Name] = true
		}
		Expect(names).To(HaveLen(5))
	})

	It("builds the aggressive variant from its published parameters", func() {
		soc := AggressiveOptimized().SoC
		Expect(soc.Chiplets).To(Equal(4))
		Expect(soc.Chiplet.SMs).To(Equal(48))
		Expect(soc.Chiplet.AreaMM2).To(BeNumerically("==", 300))
		Expect(soc.Chiplet.SM.TensorCores).To(Equal(8))
		Expect(soc.Chiplet.SM.ClockMHz).To(Equal(2500))
		ops, err := soc.Chiplet.SM.OpsPerCycle(arch.FP16)
		Expect(err).NotTo(HaveOccurred())
		Expect(ops).To(Equal(256))
	})
})

var _ = Describe("Comparator", func() {
	var comparator *Comparator

	BeforeEach(func() {
		comparator = NewComparator()
	})

	It("evaluates the baseline", func() {
		e, err := comparator.Evaluate(Baseline())
		Expect(err).NotTo(HaveOccurred())
		Expect(e.TotalSMs).To(Equal(64))
		Expect(e.TotalAreaMM2).To(BeNumerically("~", 1600, 1e-9))
		Expect(e.FP16TFLOPS).To(BeNumerically("~", 65.536, 1e-9))
		Expect(e.Density).To(BeNumerically("~", 65.536/1600, 1e-12))
		Expect(e.PowerWatts).To(BeNumerically("~", 267.2, 1e-9))
		Expect(e.Efficiency).To(BeNumerically("~", 65.536/267.2, 1e-12))
		Expect(e.MeetsDensity).To(BeFalse())
		Expect(e.MeetsPower).To(BeTrue())
		Expect(e.PowerExcess()).To(BeZero())
		Expect(e.DensityGap()).To(BeNumerically("~", 2.0-65.536/1600, 1e-12))
	})

	It("matches a closed-form recomputation of the aggressive variant", func() {
		e, err := comparator.Evaluate(AggressiveOptimized())
		Expect(err).NotTo(HaveOccurred())

		// ops × tensor cores × Hz × SMs per chiplet × chiplets / area
		peak := 256.0 * 8 * 2500e6 * 48 * 4 / 1e12
		density := peak / (300 * 4)

		Expect(e.FP16TFLOPS).To(BeNumerically("~", peak, 1e-9))
		Expect(e.Density).To(BeNumerically("~", density, 1e-12))
		Expect(e.Density).To(BeNumerically("~", 0.8192, 1e-12))
		Expect(e.MeetsDensity).To(Equal(density >= 2.0))
		Expect(e.MeetsDensity).To(BeFalse())
		Expect(e.PowerWatts).To(BeNumerically("~", 459.6, 1e-9))
		Expect(e.MeetsPower).To(BeTrue())
	})

	It("honours custom targets", func() {
		c := NewComparator(WithTargets(Targets{DensityTFLOPSPerMM2: 0.5, PowerWatts: 400}))
		Expect(c.Targets().PowerWatts).To(BeNumerically("==", 400))

		e, err := c.Evaluate(AggressiveOptimized())
		Expect(err).NotTo(HaveOccurred())
		Expect(e.MeetsDensity).To(BeTrue())
		Expect(e.DensityGap()).To(BeZero())
		Expect(e.MeetsPower).To(BeFalse())
		Expect(e.PowerExcess()).To(BeNumerically("~", 59.6, 1e-9))
	})

	It("uses the configured power coefficients", func() {
		coeffs := power.DefaultCoefficients()
		coeffs.HBMStack = 0
		c := NewComparator(WithCoefficients(coeffs))

		e, err := c.Evaluate(Baseline())
		Expect(err).NotTo(HaveOccurred())
		Expect(e.PowerWatts).To(BeNumerically("~", 147.2, 1e-9))
	})

	It("fails on a variant without an FP16 rate", func() {
		v := Baseline()
		v.SoC = v.SoC.WithChiplet(v.SoC.Chiplet.WithSM(v.SoC.Chiplet.SM.WithOps(arch.OpsTable{arch.FP8: 1})))
		_, err := comparator.Compare([]Variant{v})
		Expect(err).To(MatchError(arch.ErrUnknownPrecision))
	})
})

var _ = Describe("Ranking and recommendation", func() {
	var evals []Evaluation

	BeforeEach(func() {
		var err error
		evals, err = NewComparator().Compare(Catalogue())
		Expect(err).NotTo(HaveOccurred())
		Expect(evals).To(HaveLen(5))
	})

	It("ranks power-compliant variants by density", func() {
		ranked := Rank(evals)
		names := make([]string, len(ranked))
		for i, e := range ranked {
			names[i] = e.Name
		}
		Expect(names).To(Equal([]string{
			"Aggressive Optimized",
			"Realistic Optimized",
			"High SM Density",
			"Power Optimized",
			"Baseline",
		}))
	})

	It("drops variants over the power budget", func() {
		evals[3].MeetsPower = false
		ranked := Rank(evals)
		Expect(ranked).To(HaveLen(4))
		Expect(ranked[0].Name).To(Equal("Realistic Optimized"))
	})

	It("recommends the densest compliant variant", func() {
		r := Recommend(evals)
		Expect(r.Best).NotTo(BeNil())
		Expect(r.Best.Name).To(Equal("Aggressive Optimized"))
		Expect(r.NoneMeetsDensity).To(BeTrue())
	})

	It("returns no recommendation when nothing fits the budget", func() {
		for i := range evals {
			evals[i].MeetsPower = false
		}
		evals[1].MeetsDensity = true
		r := Recommend(evals)
		Expect(r.Best).To(BeNil())
		Expect(r.NoneMeetsDensity).To(BeFalse())
	})
})
