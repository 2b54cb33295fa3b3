// Copyright (c) 2025 hitoshi.mukai.b@gmail.com. All rights reserved.
// You are free to use this source code for any purpose. The copyright remains with the author.
// The author accepts no liability for any damages arising from the use of this source code.
//
// Last modified: 2026.10.15
//

// Package plotting renders inversion results as PNG images.
package plotting

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"math"
	"time"

	"github.com/lucasb-eyer/go-colorful"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// Diverging ramp: blue (negative) - white - red (positive)
var (
	rampLow  = colorful.Color{R: 0.129, G: 0.400, B: 0.675}
	rampMid  = colorful.Color{R: 0.969, G: 0.969, B: 0.969}
	rampHigh = colorful.Color{R: 0.698, G: 0.094, B: 0.169}
)

// Line plot of one pixel's values over the acquisition dates
func TimeSeries(w io.Writer, title, ylabel string, dates []time.Time, values []float64) error {
	if len(dates) != len(values) {
		return fmt.Errorf("got %d dates but %d values", len(dates), len(values))
	}

	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "Date"
	p.Y.Label.Text = ylabel
	p.X.Tick.Marker = plot.TimeTicks{Format: "2006-01-02"}

	pts := make(plotter.XYs, len(dates))
	for i, d := range dates {
		pts[i].X = float64(d.Unix())
		pts[i].Y = values[i]
	}
	line, points, err := plotter.NewLinePoints(pts)
	if err != nil {
		return err
	}
	p.Add(plotter.NewGrid(), line, points)

	wt, err := p.WriterTo(6*vg.Inch, 4*vg.Inch, "png")
	if err != nil {
		return err
	}
	_, err = wt.WriteTo(w)
	return err
}

// Colour for v on a ramp symmetric around zero; limit maps to full saturation
func RampColor(v, limit float64) color.NRGBA {
	if math.IsNaN(v) {
		return color.NRGBA{}
	}
	t := 0.0
	if limit > 0 {
		t = math.Max(-1, math.Min(1, v/limit))
	}
	var c colorful.Color
	if t < 0 {
		c = rampMid.BlendLab(rampLow, -t)
	} else {
		c = rampMid.BlendLab(rampHigh, t)
	}
	r, g, b := c.Clamped().RGB255()
	return color.NRGBA{R: r, G: g, B: b, A: 255}
}

// Image of a rows x cols map. limit <= 0 uses the largest absolute value.
func MapImage(m mat.Matrix, limit float64) *image.NRGBA {
	rows, cols := m.Dims()
	if limit <= 0 {
		for i := 0; i < rows; i++ {
			for j := 0; j < cols; j++ {
				if v := math.Abs(m.At(i, j)); v > limit {
					limit = v
				}
			}
		}
	}
	img := image.NewNRGBA(image.Rect(0, 0, cols, rows))
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			img.SetNRGBA(j, i, RampColor(m.At(i, j), limit))
		}
	}
	return img
}

// Write a velocity (or deformation) map as PNG
func VelocityMap(w io.Writer, m mat.Matrix, limit float64) error {
	return png.Encode(w, MapImage(m, limit))
}
