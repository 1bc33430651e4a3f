// SPDX-FileCopyrightText: 2026 The NexGen-AI Authors
// SPDX-License-Identifier: Apache-2.0

package plot

import (
	"fmt"

	gonum "gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"

	"github.com/nexgen-ai/socmodel/internal/arch"
	"github.com/nexgen-ai/socmodel/internal/perf"
)

// Roofline draws the log-log roofline of m at precision p with the ridge
// point and each workload marked, and saves it as a PNG at path
func Roofline(path string, m *perf.Model, p arch.Precision, workloads []perf.Workload) error {
	peak, err := m.PeakCompute(p)
	if err != nil {
		return err
	}
	ridge, err := m.RidgePoint(p)
	if err != nil {
		return err
	}
	bw := m.MemoryBandwidth()

	ais := perf.LogSpace(-2, 3, 1000)
	perfs, err := m.RooflineSweep(ais, p)
	if err != nil {
		return err
	}

	pl := newPlot(
		fmt.Sprintf("Roofline Model - %s Precision\nPeak: %.1f TFLOPS, BW: %.2f TB/s", p, peak.TFLOPS(), bw.TBps()),
		"Arithmetic Intensity (FLOPS/Byte)",
		"Performance (TFLOPS)",
	)
	pl.X.Scale = gonum.LogScale{}
	pl.X.Tick.Marker = gonum.LogTicks{Prec: -1}
	pl.Y.Scale = gonum.LogScale{}
	pl.Y.Tick.Marker = gonum.LogTicks{Prec: -1}
	pl.Legend.Top = true
	pl.Legend.Left = true

	xys := make(plotter.XYs, len(ais))
	for i := range ais {
		xys[i].X, xys[i].Y = ais[i], perfs[i]
	}
	roof, err := line(xys, blue, false)
	if err != nil {
		return err
	}
	pl.Add(roof)
	pl.Legend.Add("Roofline", roof)

	ridgeLine, err := line(plotter.XYs{{X: ridge, Y: perfs[0]}, {X: ridge, Y: peak.TFLOPS() * 2}}, red, true)
	if err != nil {
		return err
	}
	pl.Add(ridgeLine)
	pl.Legend.Add(fmt.Sprintf("Ridge Point: %.1f FLOPS/Byte", ridge), ridgeLine)

	for i, w := range workloads {
		achieved, err := m.Roofline(w.Intensity, p)
		if err != nil {
			return fmt.Errorf("workload %q: %w", w.Name, err)
		}
		s, err := plotter.NewScatter(plotter.XYs{{X: w.Intensity, Y: achieved.TFLOPS()}})
		if err != nil {
			return err
		}
		s.Color = plotutil.Color(i + 2)
		s.Shape = plotutil.Shape(i)
		s.Radius = vg.Points(5)
		pl.Add(s)
		pl.Legend.Add(w.Name, s)
	}

	return save(pl, DefaultSize, path)
}
