package main

import (
	"image/color"
	"math"
	"time"

	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/aclements/sunhours/solar"
)

// saveSunPath plots the sun's elevation over the day with the current
// time marked.
func saveSunPath(path string, sun *solar.Sun) error {
	const rad2deg = 180 / math.Pi
	hours := func(h float64) float64 {
		return float64(time.Duration(h * float64(time.Hour)))
	}

	plt := newPlot()
	plt.Title.Text = sun.String()
	plt.X.Label.Text = "Local time"
	plt.Y.Label.Text = "Elevation (°)"
	plt.X.Tick.Marker = timeOfDayTicks{targetTicks: 8}
	plt.X.Min, plt.X.Max = 0, hours(24)

	// Trace the whole day, below the horizon too, at 10 minute steps.
	var day plotter.XYs
	for m := 0; m <= 24*60; m += 10 {
		in, err := sun.At(float64(m) / 60)
		if err != nil {
			return err
		}
		day = append(day, plotter.XY{X: hours(in.Hours), Y: in.Elevation * rad2deg})
	}
	dayLine, err := plotter.NewLine(day)
	if err != nil {
		return err
	}
	dayLine.Color = color.Gray{Y: 128}
	dayLine.Dashes = []vg.Length{vg.Points(4), vg.Points(4)}
	plt.Add(dayLine)

	horizon, err := plotter.NewLine(plotter.XYs{{X: 0, Y: 0}, {X: hours(24), Y: 0}})
	if err != nil {
		return err
	}
	horizon.Color = color.Gray{Y: 80}
	plt.Add(horizon)

	// The sampled path used for the shadow analysis.
	if p := sun.Path(); p != nil {
		var pts plotter.XYs
		for _, s := range p.Samples {
			pts = append(pts, plotter.XY{X: hours(s.Hours), Y: s.Elevation * rad2deg})
		}
		sc, err := plotter.NewScatter(pts)
		if err != nil {
			return err
		}
		sc.GlyphStyle.Color = color.RGBA{R: 255, G: 200, B: 0, A: 255}
		sc.GlyphStyle.Radius = vg.Points(2)
		plt.Add(sc)
	}

	now, err := plotter.NewScatter(plotter.XYs{{X: hours(sun.Hours()), Y: sun.Elevation() * rad2deg}})
	if err != nil {
		return err
	}
	now.GlyphStyle.Color = color.RGBA{R: 255, A: 255}
	now.GlyphStyle.Shape = draw.CrossGlyph{}
	now.GlyphStyle.Radius = vg.Points(5)
	plt.Add(now)

	return plt.Save(20*vg.Centimeter, 12*vg.Centimeter, path)
}
