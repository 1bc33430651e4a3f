// SPDX-FileCopyrightText: 2026 The NexGen-AI Authors
// SPDX-License-Identifier: Apache-2.0

package plot

import (
	gonum "gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/nexgen-ai/socmodel/internal/explore"
)

const barWidth = 20

// passFailBars draws one horizontal bar per evaluation, green when ok holds
// and red otherwise
func passFailBars(p *gonum.Plot, evals []explore.Evaluation, value func(explore.Evaluation) float64, ok func(explore.Evaluation) bool) error {
	good := make(plotter.Values, len(evals))
	bad := make(plotter.Values, len(evals))
	names := make([]string, len(evals))
	for i, e := range evals {
		names[i] = e.Name
		if ok(e) {
			good[i] = value(e)
		} else {
			bad[i] = value(e)
		}
	}

	goodBars, err := plotter.NewBarChart(good, vg.Points(barWidth))
	if err != nil {
		return err
	}
	goodBars.Horizontal = true
	goodBars.Color = green
	goodBars.LineStyle.Width = 0

	badBars, err := plotter.NewBarChart(bad, vg.Points(barWidth))
	if err != nil {
		return err
	}
	badBars.Horizontal = true
	badBars.Color = red
	badBars.LineStyle.Width = 0

	p.Add(goodBars, badBars)
	p.NominalY(names...)
	p.Legend.Add("Meets target", goodBars)
	p.Legend.Add("Misses target", badBars)
	return nil
}

// vline is a dashed vertical target line spanning n horizontal bars
func vline(p *gonum.Plot, x float64, n int) error {
	l, err := line(plotter.XYs{{X: x, Y: -0.5}, {X: x, Y: float64(n) - 0.5}}, red, true)
	if err != nil {
		return err
	}
	p.Add(l)
	p.Legend.Add("Target", l)
	return nil
}

// Comparison draws density, power and efficiency bars per variant and an
// area against peak compute scatter as a 2×2 grid
func Comparison(path string, evals []explore.Evaluation, targets explore.Targets) error {
	density := newPlot("Compute Density Comparison", "Compute Density (TFLOPS/mm²)", "")
	if err := passFailBars(density, evals,
		func(e explore.Evaluation) float64 { return e.Density },
		func(e explore.Evaluation) bool { return e.MeetsDensity },
	); err != nil {
		return err
	}
	if err := vline(density, targets.DensityTFLOPSPerMM2, len(evals)); err != nil {
		return err
	}

	watts := newPlot("Power Consumption Comparison", "Power Consumption (Watts)", "")
	if err := passFailBars(watts, evals,
		func(e explore.Evaluation) float64 { return e.PowerWatts },
		func(e explore.Evaluation) bool { return e.MeetsPower },
	); err != nil {
		return err
	}
	if err := vline(watts, targets.PowerWatts, len(evals)); err != nil {
		return err
	}

	efficiency := newPlot("Power Efficiency Comparison", "Power Efficiency (TFLOPS/W)", "")
	effs := make(plotter.Values, len(evals))
	names := make([]string, len(evals))
	for i, e := range evals {
		effs[i] = e.Efficiency
		names[i] = e.Name
	}
	bars, err := plotter.NewBarChart(effs, vg.Points(barWidth))
	if err != nil {
		return err
	}
	bars.Horizontal = true
	bars.Color = blue
	bars.LineStyle.Width = 0
	efficiency.Add(bars)
	efficiency.NominalY(names...)

	tradeoff := newPlot("Area vs Performance Trade-off", "Total Area (mm²)", "Peak FP16 Performance (TFLOPS)")
	points := plotter.XYLabels{XYs: make(plotter.XYs, len(evals)), Labels: names}
	for i, e := range evals {
		points.XYs[i].X, points.XYs[i].Y = e.TotalAreaMM2, e.FP16TFLOPS
	}
	scatter, err := plotter.NewScatter(points)
	if err != nil {
		return err
	}
	scatter.Color = blue
	scatter.Shape = draw.CircleGlyph{}
	scatter.Radius = vg.Points(6)
	labels, err := plotter.NewLabels(points)
	if err != nil {
		return err
	}
	for i := range labels.TextStyle {
		labels.TextStyle[i].Color = gray
	}
	labels.Offset = vg.Point{X: vg.Points(8), Y: vg.Points(4)}
	tradeoff.Add(scatter, labels)

	return saveGrid([][]*gonum.Plot{
		{density, watts},
		{efficiency, tradeoff},
	}, GridSize, path)
}
