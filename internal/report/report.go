// SPDX-FileCopyrightText: 2026 The NexGen-AI Authors
// SPDX-License-Identifier: Apache-2.0

// Package report renders model results as console tables and CSV files.
package report

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/nexgen-ai/socmodel/internal/arch"
	"github.com/nexgen-ai/socmodel/internal/explore"
	"github.com/nexgen-ai/socmodel/internal/perf"
	"github.com/nexgen-ai/socmodel/internal/power"
	"github.com/nexgen-ai/socmodel/internal/scaling"
	"github.com/nexgen-ai/socmodel/internal/sweep"
)

const (
	pass = "✓"
	fail = "✗"

	ruleWidth = 100
)

// PrecisionSummary is the peak compute of the SoC at one precision
type PrecisionSummary struct {
	Precision  arch.Precision
	PeakTFLOPS float64
	Density    float64
	RidgePoint float64
}

// PowerSummary is the power picture of the SoC at one utilization
type PowerSummary struct {
	Utilization float64
	Breakdown   power.Breakdown
	Efficiency  float64 // FP16 TFLOPS/W
	JunctionC   float64
}

func verdict(ok bool) string {
	if ok {
		return pass
	}
	return fail
}

func f(v float64, prec int) string {
	return strconv.FormatFloat(v, 'f', prec, 64)
}

// Heading writes a section title between two rules
func Heading(out io.Writer, title string) {
	rule := strings.Repeat("=", ruleWidth)
	fmt.Fprintf(out, "\n%s\n%s\n%s\n", rule, title, rule)
}

func table(out io.Writer, header []string, rows [][]string) {
	t := tablewriter.NewWriter(out)
	t.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Formatting.Alignment = tw.AlignRight
	})
	t.Header(header)
	_ = t.Bulk(rows)
	_ = t.Render()
}

// Configuration writes the headline numbers of soc
func Configuration(out io.Writer, soc arch.SoC) {
	bw := soc.TotalHBMBandwidth()
	rows := [][]string{
		{"Chiplets", strconv.Itoa(soc.Chiplets)},
		{"SMs per chiplet", strconv.Itoa(soc.Chiplet.SMs)},
		{"Total SMs", strconv.Itoa(soc.TotalSMs())},
		{"Total area (mm²)", f(soc.TotalAreaMM2(), 1)},
		{"Clock (MHz)", strconv.Itoa(soc.Chiplet.SM.ClockMHz)},
		{"Tensor cores per SM", strconv.Itoa(soc.Chiplet.SM.TensorCores)},
		{"L2 cache (MB)", strconv.Itoa(soc.TotalL2CacheMB())},
		{"HBM stacks", strconv.Itoa(soc.HBMStacks)},
		{"Memory bandwidth", fmt.Sprintf("%s GB/s (%s TB/s)", f(bw.GBps(), 0), f(bw.TBps(), 2))},
	}
	table(out, []string{"Parameter", "Value"}, rows)
}

// Precisions writes peak compute, density and ridge point per precision,
// with the density target verdict
func Precisions(out io.Writer, rows []PrecisionSummary, densityTarget float64) {
	data := make([][]string, 0, len(rows))
	for _, r := range rows {
		data = append(data, []string{
			r.Precision.String(),
			f(r.PeakTFLOPS, 1),
			f(r.Density, 3),
			f(r.RidgePoint, 1),
			verdict(r.Density >= densityTarget),
		})
	}
	table(out, []string{
		"Precision", "Peak TFLOPS", "TFLOPS/mm²", "Ridge (FLOPS/B)",
		fmt.Sprintf("≥ %s TFLOPS/mm²", f(densityTarget, 1)),
	}, data)
}

// Workloads writes the roofline verdict of each workload
func Workloads(out io.Writer, rows []perf.WorkloadAnalysis) {
	data := make([][]string, 0, len(rows))
	for _, r := range rows {
		data = append(data, []string{
			r.Name,
			f(r.Intensity, 1),
			f(r.AchievedTFLOPS, 1),
			f(r.EfficiencyPercent, 1) + "%",
			r.Bottleneck,
		})
	}
	table(out, []string{"Workload", "AI (FLOPS/B)", "Achieved TFLOPS", "Of peak", "Bottleneck"}, data)
}

// Power writes the breakdown at each utilization with the budget verdict
func Power(out io.Writer, rows []PowerSummary, budgetWatts float64) {
	data := make([][]string, 0, len(rows))
	for _, r := range rows {
		total := r.Breakdown.Total().Watts()
		data = append(data, []string{
			f(r.Utilization*100, 0) + "%",
			f(r.Breakdown.SM.Watts(), 1),
			f(r.Breakdown.Cache.Watts(), 1),
			f(r.Breakdown.HBM.Watts(), 1),
			f((r.Breakdown.Static + r.Breakdown.Interconnect + r.Breakdown.IO).Watts(), 1),
			f(total, 1),
			f(r.Efficiency, 3),
			f(r.JunctionC, 1),
			verdict(total <= budgetWatts),
		})
	}
	table(out, []string{
		"Utilization", "SM (W)", "Cache (W)", "HBM (W)", "Static (W)", "Total (W)",
		"FP16 TFLOPS/W", "Tj (°C)", fmt.Sprintf("≤ %s W", f(budgetWatts, 0)),
	}, data)
}

// Scaling writes one row per chiplet count
func Scaling(out io.Writer, points []scaling.Point) {
	data := make([][]string, 0, len(points))
	for _, p := range points {
		data = append(data, []string{
			strconv.Itoa(p.Chiplets),
			f(p.ComputeTFLOPS, 1),
			f(p.MemoryTBps, 2),
			f(p.PowerWatts, 1),
			f(p.TFLOPSPerWatt, 3),
		})
	}
	table(out, []string{"Chiplets", "TFLOPS", "BW (TB/s)", "Power (W)", "TFLOPS/W"}, data)
}

// Variants writes the comparison table of the evaluated variants
func Variants(out io.Writer, evals []explore.Evaluation) {
	data := make([][]string, 0, len(evals))
	for _, e := range evals {
		data = append(data, []string{
			e.Name,
			f(e.FP16TFLOPS, 1),
			f(e.Density, 3),
			f(e.PowerWatts, 1),
			f(e.Efficiency, 2),
			verdict(e.MeetsDensity),
			verdict(e.MeetsPower),
		})
	}
	table(out, []string{"Variant", "FP16 TFLOPS", "TFLOPS/mm²", "Power (W)", "TFLOPS/W", "Density", "Power"}, data)
}

// Details writes the per-variant breakdown with the distance to each target
func Details(out io.Writer, evals []explore.Evaluation) {
	for _, e := range evals {
		fmt.Fprintf(out, "\n%s:\n", e.Name)
		fmt.Fprintf(out, "  Description: %s\n", e.Description)
		fmt.Fprintf(out, "  Total SMs: %d\n", e.TotalSMs)
		fmt.Fprintf(out, "  Total Area: %s mm²\n", f(e.TotalAreaMM2, 1))
		fmt.Fprintf(out, "  FP16 Performance: %s TFLOPS\n", f(e.FP16TFLOPS, 1))
		fmt.Fprintf(out, "  Compute Density: %s TFLOPS/mm²\n", f(e.Density, 3))
		fmt.Fprintf(out, "  Power: %s W\n", f(e.PowerWatts, 1))
		fmt.Fprintf(out, "  Efficiency: %s TFLOPS/W\n", f(e.Efficiency, 2))
		if e.MeetsDensity {
			fmt.Fprintf(out, "  %s Meets density target (%s TFLOPS/mm²)\n", pass, f(e.DensityTarget, 1))
		} else {
			fmt.Fprintf(out, "  %s Below density target by %s TFLOPS/mm²\n", fail, f(e.DensityGap(), 3))
		}
		if e.MeetsPower {
			fmt.Fprintf(out, "  %s Meets power target (%sW)\n", pass, f(e.PowerTarget, 0))
		} else {
			fmt.Fprintf(out, "  %s Exceeds power target by %s W\n", fail, f(e.PowerExcess(), 1))
		}
	}
}

// Recommendation writes the densest power-compliant variant, or a warning
// when none exists, followed by a warning if no variant meets density
func Recommendation(out io.Writer, r explore.Recommendation, targets explore.Targets) {
	if r.Best != nil {
		fmt.Fprintf(out, "\n%s Best configuration meeting power target: %s\n", pass, r.Best.Name)
		fmt.Fprintf(out, "  Density: %s TFLOPS/mm²\n", f(r.Best.Density, 3))
		fmt.Fprintf(out, "  Power: %s W\n", f(r.Best.PowerWatts, 1))
		fmt.Fprintf(out, "  Efficiency: %s TFLOPS/W\n", f(r.Best.Efficiency, 2))
	} else {
		fmt.Fprintf(out, "\n%s No configuration fits the %s W power budget\n", fail, f(targets.PowerWatts, 0))
	}
	if r.NoneMeetsDensity {
		fmt.Fprintf(out, "\nWARNING: No configuration meets the %s TFLOPS/mm² target\n", f(targets.DensityTFLOPSPerMM2, 1))
	}
}

// Baseline writes the knobs a sensitivity sweep varies, at their base values
func Baseline(out io.Writer, soc arch.SoC) {
	fp16, _ := soc.Chiplet.SM.OpsPerCycle(arch.FP16)
	rows := [][]string{
		{"SMs per chiplet", strconv.Itoa(soc.Chiplet.SMs)},
		{"Chiplet area (mm²)", f(soc.Chiplet.AreaMM2, 1)},
		{"Clock (MHz)", strconv.Itoa(soc.Chiplet.SM.ClockMHz)},
		{"Tensor cores", strconv.Itoa(soc.Chiplet.SM.TensorCores)},
		{"FP16 ops/cycle", strconv.Itoa(fp16)},
	}
	table(out, []string{"Parameter", "Baseline"}, rows)
}

// Sensitivity writes the normalised density sensitivity and the density and
// power ranges of each sweep. Undefined sensitivities are shown as n/a.
func Sensitivity(out io.Writer, results []sweep.Result) {
	data := make([][]string, 0, len(results))
	for _, r := range results {
		s := "n/a"
		if r.Defined {
			s = f(r.Sensitivity, 2)
		}
		dmin, dmax := r.DensityRange()
		pmin, pmax := r.PowerRange()
		data = append(data, []string{
			r.Parameter.Label(),
			s,
			f(dmin, 3) + " - " + f(dmax, 3),
			f(pmin, 1) + " - " + f(pmax, 1),
		})
	}
	table(out, []string{"Parameter", "Sensitivity", "Density (TFLOPS/mm²)", "Power (W)"}, data)
}
