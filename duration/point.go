package duration

import (
	"fmt"

	"gonum.org/v1/gonum/spatial/r3"
)

// A SamplingPoint is a location whose sunlight is measured. Analyses
// fill in Duration and Insolation.
type SamplingPoint struct {
	Point  r3.Vec
	Normal r3.Vec // Unit length

	// Duration is the hours of direct sunlight at Point.
	Duration float64

	// Insolation is the direct solar energy received per unit area of
	// the surface, in Wh/m².
	Insolation float64
}

// NewSamplingPoint returns a sampling point on horizontal ground.
func NewSamplingPoint(p r3.Vec) *SamplingPoint {
	return &SamplingPoint{Point: p, Normal: r3.Vec{Z: 1}}
}

// NewSamplingPointWithNormal returns a sampling point on a surface
// facing n.
func NewSamplingPointWithNormal(p, n r3.Vec) (*SamplingPoint, error) {
	if r3.Norm(n) == 0 {
		return nil, fmt.Errorf("sampling point %v has a zero normal", p)
	}
	return &SamplingPoint{Point: p, Normal: r3.Unit(n)}, nil
}

// Lifted returns the point offset along the normal, from which rays to
// the sun are traced.
func (s *SamplingPoint) Lifted(offset float64) r3.Vec {
	return r3.Add(s.Point, r3.Scale(offset, s.Normal))
}

func (s *SamplingPoint) String() string {
	return fmt.Sprintf("(%.2f, %.2f, %.2f): %.2fh", s.Point.X, s.Point.Y, s.Point.Z, s.Duration)
}
