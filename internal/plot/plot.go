// SPDX-FileCopyrightText: 2026 The NexGen-AI Authors
// SPDX-License-Identifier: Apache-2.0

// Package plot draws the model results as PNG charts.
package plot

import (
	"fmt"
	"image/color"
	"os"

	gonum "gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"
)

var (
	blue  = color.RGBA{R: 31, G: 119, B: 180, A: 255}
	red   = color.RGBA{R: 214, G: 39, B: 40, A: 255}
	green = color.RGBA{R: 44, G: 160, B: 44, A: 255}
	gray  = color.RGBA{R: 128, G: 128, B: 128, A: 255}
)

// Size is the canvas size of a single chart
type Size struct {
	Width, Height vg.Length
}

var (
	// DefaultSize is used for single-panel charts
	DefaultSize = Size{Width: 10 * vg.Inch, Height: 6 * vg.Inch}
	// GridSize is used for multi-panel charts
	GridSize = Size{Width: 16 * vg.Inch, Height: 12 * vg.Inch}
)

func newPlot(title, x, y string) *gonum.Plot {
	p := gonum.New()
	p.Title.Text = title
	p.X.Label.Text = x
	p.Y.Label.Text = y
	p.Add(plotter.NewGrid())
	return p
}

func line(xys plotter.XYs, c color.Color, dashed bool) (*plotter.Line, error) {
	l, err := plotter.NewLine(xys)
	if err != nil {
		return nil, err
	}
	l.Color = c
	l.Width = vg.Points(2)
	if dashed {
		l.Dashes = plotutil.Dashes(1)
	}
	return l, nil
}

func linePoints(xys plotter.XYs, c color.Color) (*plotter.Line, *plotter.Scatter, error) {
	l, s, err := plotter.NewLinePoints(xys)
	if err != nil {
		return nil, nil, err
	}
	l.Color = c
	l.Width = vg.Points(2)
	s.Color = c
	s.Shape = draw.CircleGlyph{}
	s.Radius = vg.Points(4)
	return l, s, nil
}

// hline is a dashed horizontal line at y across the x range of p
func hline(y float64, c color.Color) *plotter.Function {
	f := plotter.NewFunction(func(float64) float64 { return y })
	f.Color = c
	f.Width = vg.Points(1.5)
	f.Dashes = plotutil.Dashes(1)
	return f
}

func save(p *gonum.Plot, size Size, path string) error {
	if err := p.Save(size.Width, size.Height, path); err != nil {
		return fmt.Errorf("failed to save plot %s: %w", path, err)
	}
	return nil
}

// saveGrid draws plots, a row-major grid, onto a single PNG at path
func saveGrid(plots [][]*gonum.Plot, size Size, path string) (err error) {
	rows := len(plots)
	if rows == 0 {
		return fmt.Errorf("failed to save plot %s: no panels", path)
	}
	img := vgimg.New(size.Width, size.Height)
	dc := draw.New(img)
	tiles := draw.Tiles{
		Rows:      rows,
		Cols:      len(plots[0]),
		PadX:      vg.Millimeter * 5,
		PadY:      vg.Millimeter * 5,
		PadTop:    vg.Points(4),
		PadBottom: vg.Points(4),
		PadLeft:   vg.Points(4),
		PadRight:  vg.Points(4),
	}

	canvases := gonum.Align(plots, tiles, dc)
	for j := range plots {
		for i, p := range plots[j] {
			if p != nil {
				p.Draw(canvases[j][i])
			}
		}
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to save plot %s: %w", path, err)
	}
	defer func() {
		if cerr := file.Close(); err == nil && cerr != nil {
			err = cerr
		}
	}()

	png := vgimg.PngCanvas{Canvas: img}
	if _, err := png.WriteTo(file); err != nil {
		return fmt.Errorf("failed to save plot %s: %w", path, err)
	}
	return nil
}
