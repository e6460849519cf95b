package geom

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// A Box is an axis-aligned bounding box.
type Box struct {
	Min, Max r3.Vec
}

// EmptyBox returns a box that contains nothing and that any Extend will
// replace.
func EmptyBox() Box {
	inf := math.Inf(1)
	return Box{
		Min: r3.Vec{X: inf, Y: inf, Z: inf},
		Max: r3.Vec{X: -inf, Y: -inf, Z: -inf},
	}
}

// Empty reports whether b contains no points.
func (b Box) Empty() bool {
	return b.Min.X > b.Max.X || b.Min.Y > b.Max.Y || b.Min.Z > b.Max.Z
}

// Extend returns the smallest box containing b and p.
func (b Box) Extend(p r3.Vec) Box {
	return Box{
		Min: r3.Vec{X: math.Min(b.Min.X, p.X), Y: math.Min(b.Min.Y, p.Y), Z: math.Min(b.Min.Z, p.Z)},
		Max: r3.Vec{X: math.Max(b.Max.X, p.X), Y: math.Max(b.Max.Y, p.Y), Z: math.Max(b.Max.Z, p.Z)},
	}
}

// Union returns the smallest box containing b and o.
func (b Box) Union(o Box) Box {
	if o.Empty() {
		return b
	}
	return b.Extend(o.Min).Extend(o.Max)
}

// Contains reports whether p is inside b or on its boundary.
func (b Box) Contains(p r3.Vec) bool {
	return b.Min.X <= p.X && p.X <= b.Max.X &&
		b.Min.Y <= p.Y && p.Y <= b.Max.Y &&
		b.Min.Z <= p.Z && p.Z <= b.Max.Z
}

// IntersectsRay reports whether r passes through b, using the slab
// method. Touching the boundary counts as an intersection.
func (b Box) IntersectsRay(r Ray) bool {
	if b.Empty() {
		return false
	}
	tMin, tMax := 0.0, math.Inf(1)
	o := [3]float64{r.Origin.X, r.Origin.Y, r.Origin.Z}
	d := [3]float64{r.Dir.X, r.Dir.Y, r.Dir.Z}
	lo := [3]float64{b.Min.X, b.Min.Y, b.Min.Z}
	hi := [3]float64{b.Max.X, b.Max.Y, b.Max.Z}
	for i := range o {
		if d[i] == 0 {
			if o[i] < lo[i] || o[i] > hi[i] {
				return false
			}
			continue
		}
		t1, t2 := (lo[i]-o[i])/d[i], (hi[i]-o[i])/d[i]
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		tMin, tMax = math.Max(tMin, t1), math.Min(tMax, t2)
		if tMin > tMax {
			return false
		}
	}
	return true
}
