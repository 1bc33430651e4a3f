// SPDX-FileCopyrightText: 2026 The NexGen-AI Authors
// SPDX-License-Identifier: Apache-2.0

package plot

import (
	"image/color"

	gonum "gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"

	"github.com/nexgen-ai/socmodel/internal/scaling"
)

// Scaling draws compute, memory bandwidth, power and efficiency against the
// chiplet count as a 2×2 grid. The power panel carries the budget line.
func Scaling(path string, points []scaling.Point, powerBudgetWatts float64) error {
	panel := func(title, y string, c color.Color, value func(scaling.Point) float64) (*gonum.Plot, error) {
		p := newPlot(title, "Number of Chiplets", y)
		xys := make(plotter.XYs, len(points))
		for i, pt := range points {
			xys[i].X, xys[i].Y = float64(pt.Chiplets), value(pt)
		}
		l, s, err := linePoints(xys, c)
		if err != nil {
			return nil, err
		}
		p.Add(l, s)
		return p, nil
	}

	compute, err := panel("Compute Scaling", "FP16 TFLOPS", blue,
		func(pt scaling.Point) float64 { return pt.ComputeTFLOPS })
	if err != nil {
		return err
	}
	memory, err := panel("Memory Bandwidth Scaling", "Bandwidth (TB/s)", green,
		func(pt scaling.Point) float64 { return pt.MemoryTBps })
	if err != nil {
		return err
	}
	watts, err := panel("Power Scaling", "Power (W)", red,
		func(pt scaling.Point) float64 { return pt.PowerWatts })
	if err != nil {
		return err
	}
	budget := hline(powerBudgetWatts, red)
	watts.Add(budget)
	watts.Y.Max = max(watts.Y.Max, powerBudgetWatts*1.05)
	watts.Legend.Add("Power Target", budget)
	watts.Legend.Top = true
	watts.Legend.Left = true

	efficiency, err := panel("Power Efficiency", "TFLOPS/W", gray,
		func(pt scaling.Point) float64 { return pt.TFLOPSPerWatt })
	if err != nil {
		return err
	}

	return saveGrid([][]*gonum.Plot{
		{compute, memory},
		{watts, efficiency},
	}, GridSize, path)
}
