package shadow

import (
	"errors"

	"github.com/paulmach/orb"

	"github.com/aclements/sunhours/geom"
	"github.com/aclements/sunhours/solar"
)

// ErrNoShadowData is returned when a date has no sun path to cast
// shadows from, as during a polar night.
var ErrNoShadowData = errors.New("no shadow data")

// A DaySet is the set of shadows cast over one day, one per interior
// sample of the sun path. It is immutable once built and safe for
// concurrent use.
type DaySet struct {
	Method  Method
	Samples []solar.Sample
	Shadows []Shadow

	// SunlightDuration is the sunrise to sunset span of the path, in
	// hours.
	SunlightDuration float64
}

// NewDaySet projects buildings at every interior sample of path.
func NewDaySet(method Method, path *solar.Path, buildings []*geom.Building) (*DaySet, error) {
	if path == nil {
		return nil, ErrNoShadowData
	}
	samples := path.Interior()
	d := &DaySet{
		Method:           method,
		Samples:          samples,
		Shadows:          make([]Shadow, len(samples)),
		SunlightDuration: path.SunlightDuration(),
	}
	for i, s := range samples {
		d.Shadows[i] = Project(method, s, buildings...)
	}
	return d, nil
}

// Len returns the number of shadows, including those that were not cast.
func (d *DaySet) Len() int {
	if d == nil {
		return 0
	}
	return len(d.Shadows)
}

// Lit returns the number of cast shadows that do not cover p.
func (d *DaySet) Lit(p orb.Point) int {
	if d == nil {
		return 0
	}
	n := 0
	for _, s := range d.Shadows {
		if s.OK() && !s.Footprint.Contains(p) {
			n++
		}
	}
	return n
}

// Duration returns the hours of sunshine at ground point p. Shadows
// that were not cast count as dark samples.
func (d *DaySet) Duration(p orb.Point) float64 {
	if d.Len() == 0 {
		return 0
	}
	return float64(d.Lit(p)) / float64(len(d.Shadows)) * d.SunlightDuration
}
