package solar

import "gonum.org/v1/gonum/spatial/r3"

// A Sample is one point of a sun path.
type Sample struct {
	Hours     float64 // Local time
	Elevation float64 // Radians
	Dir       r3.Vec  // Towards the sun, scaled to the ground radius
}

// Sample returns the path sample for in.
func (in Instant) Sample() Sample {
	return Sample{Hours: in.Hours, Elevation: in.Elevation, Dir: in.Dir}
}

// A Path is the sun's trajectory across the sunlit part of one day,
// sampled at equally spaced times. It is immutable once computed.
type Path struct {
	Samples []Sample

	// Polar is set if the date is a polar day, in which case the
	// samples span the full 24 hours.
	Polar bool

	Sunrise, Sunset float64
}

// SunlightDuration returns the length of the sampled window in hours.
func (p *Path) SunlightDuration() float64 {
	return p.Sunset - p.Sunrise
}

// Len returns the number of samples.
func (p *Path) Len() int {
	return len(p.Samples)
}

// Interior returns the samples strictly between the first and the last.
// The end samples sit on the horizon at sunrise and sunset and carry no
// usable shadow.
func (p *Path) Interior() []Sample {
	if len(p.Samples) < 3 {
		return nil
	}
	return p.Samples[1 : len(p.Samples)-1]
}

// Polyline returns the sampled directions in order. On a polar day the
// sun circles the sky and the polyline is closed by repeating the
// first point.
func (p *Path) Polyline() []r3.Vec {
	pts := make([]r3.Vec, 0, len(p.Samples)+1)
	for _, s := range p.Samples {
		pts = append(pts, s.Dir)
	}
	if p.Polar && len(pts) > 0 {
		pts = append(pts, pts[0])
	}
	return pts
}

// ComputePath samples n points between sunrise and sunset of the given
// date. It returns nil for a polar date whose sun is at or below the
// horizon at the reference time, meaning no shadow data exists.
func ComputePath(facts DayFacts, now Instant, n int, radius float64) (*Path, error) {
	if err := checkPathDiv(n); err != nil {
		return nil, err
	}
	if err := checkRadius(radius); err != nil {
		return nil, err
	}
	return computePath(facts, now, n, radius), nil
}

func (s *Sun) computePath() *Path {
	return computePath(s.facts, s.now, s.pathDiv, s.radius)
}

func computePath(facts DayFacts, now Instant, n int, radius float64) *Path {
	if facts.Polar && now.Dir.Z <= 0 {
		return nil
	}
	p := &Path{
		Samples: make([]Sample, n),
		Polar:   facts.Polar,
		Sunrise: facts.Sunrise,
		Sunset:  facts.Sunset,
	}
	step := (facts.Sunset - facts.Sunrise) / float64(n-1)
	for i := range p.Samples {
		p.Samples[i] = facts.At(facts.Sunrise+float64(i)*step, radius).Sample()
	}
	return p
}
