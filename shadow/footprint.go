package shadow

import (
	"math"

	polyclip "github.com/ctessum/polyclip-go"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
)

// areaTol is the area below which a contour is considered a numerical
// sliver and removed.
const areaTol = 1e-9

// A Footprint is an immutable region of the ground plane, possibly in
// several parts and possibly with holes. Containment follows the
// even-odd rule over all of its contours.
type Footprint struct {
	poly   polyclip.Polygon
	rings  []orb.Ring
	bounds []orb.Bound
	bound  orb.Bound
}

func newFootprint(p polyclip.Polygon) *Footprint {
	f := &Footprint{poly: p}
	for i, c := range p {
		r := toRing(c)
		f.rings = append(f.rings, r)
		f.bounds = append(f.bounds, r.Bound())
		if i == 0 {
			f.bound = f.bounds[0]
		} else {
			f.bound = f.bound.Union(f.bounds[i])
		}
	}
	return f
}

// Empty reports whether f covers no ground.
func (f *Footprint) Empty() bool {
	return f == nil || len(f.rings) == 0
}

// Bound returns the bounding box of f.
func (f *Footprint) Bound() orb.Bound {
	if f.Empty() {
		return orb.Bound{}
	}
	return f.bound
}

// Contains reports whether p lies in f.
func (f *Footprint) Contains(p orb.Point) bool {
	if f.Empty() || !f.bound.Contains(p) {
		return false
	}
	inside := false
	for i, r := range f.rings {
		if f.bounds[i].Contains(p) && planar.RingContains(r, p) {
			inside = !inside
		}
	}
	return inside
}

// Area returns the area of f. Contours nested an odd number of times
// are holes.
func (f *Footprint) Area() float64 {
	if f.Empty() {
		return 0
	}
	var area float64
	for i, r := range f.rings {
		depth := 0
		for j, o := range f.rings {
			if i != j && f.bounds[j].Contains(r[0]) && planar.RingContains(o, r[0]) {
				depth++
			}
		}
		a := math.Abs(planar.Area(r))
		if depth%2 == 1 {
			a = -a
		}
		area += a
	}
	return area
}

// Rings returns the closed contours of f, for presentation.
func (f *Footprint) Rings() []orb.Ring {
	if f.Empty() {
		return nil
	}
	out := make([]orb.Ring, len(f.rings))
	for i, r := range f.rings {
		out[i] = append(orb.Ring(nil), r...)
	}
	return out
}

func toRing(c polyclip.Contour) orb.Ring {
	r := make(orb.Ring, 0, len(c)+1)
	for _, p := range c {
		r = append(r, orb.Point{p.X, p.Y})
	}
	if len(c) > 0 {
		r = append(r, r[0])
	}
	return r
}

func toContour(r orb.Ring) polyclip.Contour {
	c := make(polyclip.Contour, 0, len(r))
	for _, p := range r {
		c = append(c, polyclip.Point{X: p[0], Y: p[1]})
	}
	if n := len(c); n > 1 && c[0] == c[n-1] {
		c = c[:n-1]
	}
	return c
}

// heal is the zero-width buffering pass: it collapses repeated vertices
// and drops contours that enclose no area.
func heal(p polyclip.Polygon) polyclip.Polygon {
	var out polyclip.Polygon
	for _, c := range p {
		var hc polyclip.Contour
		for _, pt := range c {
			if n := len(hc); n > 0 && hc[n-1] == pt {
				continue
			}
			hc = append(hc, pt)
		}
		for len(hc) > 1 && hc[0] == hc[len(hc)-1] {
			hc = hc[:len(hc)-1]
		}
		if len(hc) < 3 || math.Abs(planar.Area(toRing(hc))) < areaTol {
			continue
		}
		out = append(out, hc)
	}
	return out
}

// union merges polygons pairwise in a fixed order, so the same inputs
// always produce the same output.
func union(polys []polyclip.Polygon) polyclip.Polygon {
	var live []polyclip.Polygon
	for _, p := range polys {
		if p = heal(p); len(p) > 0 {
			live = append(live, p)
		}
	}
	if len(live) == 0 {
		return nil
	}
	for len(live) > 1 {
		next := make([]polyclip.Polygon, 0, (len(live)+1)/2)
		for i := 0; i < len(live); i += 2 {
			if i+1 == len(live) {
				next = append(next, live[i])
				continue
			}
			next = append(next, heal(live[i].Construct(polyclip.UNION, live[i+1])))
		}
		live = next
	}
	return live[0]
}
