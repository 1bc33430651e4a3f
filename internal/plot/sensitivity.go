// SPDX-FileCopyrightText: 2026 The NexGen-AI Authors
// SPDX-License-Identifier: Apache-2.0

package plot

import (
	"fmt"

	gonum "gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/nexgen-ai/socmodel/internal/sweep"
)

const sensitivityCols = 2

// Sensitivity draws density against the swept value for each result, two
// panels per row. Each panel carries the density target line and the power
// range of the sweep in its title.
func Sensitivity(path string, results []sweep.Result, densityTarget float64) error {
	if len(results) == 0 {
		return fmt.Errorf("failed to save plot %s: no sensitivity results", path)
	}

	rows := (len(results) + sensitivityCols - 1) / sensitivityCols
	grid := make([][]*gonum.Plot, rows)
	for i := range grid {
		grid[i] = make([]*gonum.Plot, sensitivityCols)
	}

	for i, r := range results {
		pmin, pmax := r.PowerRange()
		p := newPlot(
			fmt.Sprintf("Sensitivity: %s\nPower %.0f - %.0f W", r.Parameter.Label(), pmin, pmax),
			fmt.Sprintf("%s (%s)", r.Parameter.Label(), r.Parameter.Unit()),
			"Density (TFLOPS/mm²)",
		)

		xys := make(plotter.XYs, len(r.Values))
		for j := range r.Values {
			xys[j].X, xys[j].Y = r.Values[j], r.Density[j]
		}
		l, s, err := linePoints(xys, blue)
		if err != nil {
			return fmt.Errorf("%s: %w", r.Parameter, err)
		}
		p.Add(l, s)
		p.Legend.Add("Compute Density", l, s)

		target := hline(densityTarget, blue)
		p.Add(target)
		p.Y.Max = max(p.Y.Max, densityTarget*1.05)
		p.Legend.Add("Density Target", target)
		p.Legend.Top = true
		p.Legend.Left = true

		grid[i/sensitivityCols][i%sensitivityCols] = p
	}

	size := GridSize
	size.Height = GridSize.Height * vg.Length(rows) / 2
	return saveGrid(grid, size, path)
}
