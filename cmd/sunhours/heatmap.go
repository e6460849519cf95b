package main

import (
	"image/color"
	"os"
	"time"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette/moreland"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"

	"github.com/aclements/sunhours/duration"
	"github.com/aclements/sunhours/geom"
)

// durationGrid adapts a duration.Grid to plotter.GridXYZ.
type durationGrid struct {
	g *duration.Grid
}

func (dg durationGrid) Dims() (c, r int) {
	return dg.g.Cols, dg.g.Rows
}

func (dg durationGrid) Z(c, r int) float64 {
	return dg.g.At(r, c)
}

func (dg durationGrid) X(c int) float64 {
	return dg.g.Center(0, c)[0]
}

func (dg durationGrid) Y(r int) float64 {
	return dg.g.Center(r, 0)[1]
}

// saveHeatMap draws the grid durations as a heat map with the building
// outlines on top and a color key on the right, and writes it as a PNG.
// daylight is the longest possible duration.
func saveHeatMap(path string, g *duration.Grid, buildings []*geom.Building, daylight float64) error {
	if daylight <= 0 {
		// Polar night. Keep the color scale non-empty.
		daylight = 1
	}

	cmap := moreland.ExtendedBlackBody()
	cmap.SetMin(0)
	cmap.SetMax(daylight)

	plt := newPlot()
	plt.Title.Text = "Hours of direct sunlight"
	plt.X.Label.Text = "East (m)"
	plt.Y.Label.Text = "North (m)"
	hm := plotter.NewHeatMap(durationGrid{g}, cmap.Palette(256))
	hm.Min, hm.Max = 0, daylight
	hm.Rasterized = true
	plt.Add(hm)

	for _, b := range buildings {
		lines, err := outline(b)
		if err != nil {
			return err
		}
		for _, l := range lines {
			plt.Add(l)
		}
	}

	// The key shares the color map but is scaled in time.Duration so it
	// can use duration tick labels.
	keyMap := moreland.ExtendedBlackBody()
	keyMap.SetMin(0)
	keyMap.SetMax(daylight * float64(time.Hour))
	key := newPlot()
	key.HideX()
	key.Y.Tick.Marker = durationTicks{targetTicks: 6}
	key.Add(&plotter.ColorBar{ColorMap: keyMap, Vertical: true})

	const (
		width     = 20 * vg.Centimeter
		height    = 16 * vg.Centimeter
		keyWidth  = 3 * vg.Centimeter
		keyMargin = 0.5 * vg.Centimeter
	)
	img := vgimg.New(width, height)
	dc := draw.New(img)
	plt.Draw(draw.Crop(dc, 0, -keyWidth, 0, 0))
	key.Draw(draw.Crop(dc, width-keyWidth, 0, keyMargin, -keyMargin))

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if _, err := (vgimg.PngCanvas{Canvas: img}).WriteTo(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// outline returns the footprint outline of b: its base rings if it is
// extruded, otherwise its bounding rectangle.
func outline(b *geom.Building) ([]*plotter.Line, error) {
	var rings []plotter.XYs
	if b.Extruded() {
		for _, r := range b.Base() {
			xys := make(plotter.XYs, len(r))
			for i, p := range r {
				xys[i] = plotter.XY{X: p[0], Y: p[1]}
			}
			rings = append(rings, xys)
		}
	} else {
		bb := b.Bounds()
		rings = append(rings, plotter.XYs{
			{X: bb.Min.X, Y: bb.Min.Y}, {X: bb.Max.X, Y: bb.Min.Y},
			{X: bb.Max.X, Y: bb.Max.Y}, {X: bb.Min.X, Y: bb.Max.Y},
			{X: bb.Min.X, Y: bb.Min.Y},
		})
	}
	var lines []*plotter.Line
	for _, xys := range rings {
		l, err := plotter.NewLine(xys)
		if err != nil {
			return nil, err
		}
		l.Color = color.RGBA{R: 80, G: 160, B: 255, A: 255}
		l.Width = vg.Points(1.5)
		lines = append(lines, l)
	}
	return lines, nil
}

// newPlot returns a plot with the light-on-dark styling used for all
// output images.
func newPlot() *plot.Plot {
	plt := plot.New()
	plt.BackgroundColor = color.Black
	for _, elt := range []*color.Color{
		&plt.Title.TextStyle.Color,
		&plt.X.Color,
		&plt.X.Tick.Color,
		&plt.X.Tick.Label.Color,
		&plt.X.Label.TextStyle.Color,
		&plt.Y.Color,
		&plt.Y.Tick.Color,
		&plt.Y.Tick.Label.Color,
		&plt.Y.Label.TextStyle.Color,
	} {
		*elt = color.White
	}
	return plt
}
