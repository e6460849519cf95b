package shadow

import (
	"fmt"
	"math"
	"strings"

	polyclip "github.com/ctessum/polyclip-go"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/aclements/sunhours/geom"
	"github.com/aclements/sunhours/solar"
)

// A Method selects how a building's shadow is computed.
type Method uint8

const (
	// Facet casts every triangle of the building onto the ground and
	// unions the results. It works for any mesh.
	Facet Method = iota
	// Volume sweeps the base polygon of an extruded building along the
	// shadow vector. It is much cheaper than Facet but only applies to
	// extruded buildings.
	Volume
)

func (m Method) String() string {
	switch m {
	case Facet:
		return "facet"
	case Volume:
		return "volume"
	}
	return fmt.Sprintf("Method(%d)", m)
}

// ParseMethod parses the name of a Method, as returned by String.
func ParseMethod(s string) (Method, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "facet", "":
		return Facet, nil
	case "volume":
		return Volume, nil
	}
	return 0, fmt.Errorf("unknown shadow method %q", s)
}

// Project computes the union of the shadows cast by buildings when the
// sun is at sample.
func Project(method Method, sample solar.Sample, buildings ...*geom.Building) Shadow {
	if sample.Elevation <= 0 {
		return Shadow{Status: BelowHorizon}
	}
	shadows := make([]Shadow, 0, len(buildings))
	for _, b := range buildings {
		var s Shadow
		if method == Volume {
			s = ProjectVolume(sample, b)
		} else {
			s = ProjectFacet(sample, b)
		}
		shadows = append(shadows, s)
	}
	if len(shadows) == 0 {
		return Shadow{Footprint: newFootprint(nil)}
	}
	u := Union(shadows...)
	if u.Status == Degenerate {
		// Nothing in the scene has a projectable facet, so the
		// ground is unshaded.
		return Shadow{Footprint: newFootprint(nil), Dropped: u.Dropped}
	}
	return u
}

// shadowVector returns the ground offset of the shadow of a point at
// the given height. It is zero when the sun is straight overhead.
func shadowVector(dir r3.Vec, elevation, height float64) orb.Point {
	h := math.Hypot(dir.X, dir.Y)
	if h < 1e-12 {
		return orb.Point{}
	}
	l := height / math.Tan(elevation)
	return orb.Point{-dir.X / h * l, -dir.Y / h * l}
}

// ProjectVolume computes the shadow of an extruded building: the base
// polygon together with the quad swept by each of its edges. A mesh
// building is projected facet by facet instead.
func ProjectVolume(sample solar.Sample, b *geom.Building) Shadow {
	if sample.Elevation <= 0 {
		return Shadow{Status: BelowHorizon}
	}
	if !b.Extruded() {
		return ProjectFacet(sample, b)
	}
	s := shadowVector(sample.Dir, sample.Elevation, b.Height())

	var base polyclip.Polygon
	parts := make([]polyclip.Polygon, 0, 8)
	for _, r := range b.Base() {
		c := toContour(r)
		base = append(base, c)
		for i := range c {
			p0, p1 := c[i], c[(i+1)%len(c)]
			parts = append(parts, polyclip.Polygon{{
				p0,
				p1,
				{X: p1.X + s[0], Y: p1.Y + s[1]},
				{X: p0.X + s[0], Y: p0.Y + s[1]},
			}})
		}
	}
	parts = append([]polyclip.Polygon{base}, parts...)
	return Shadow{Footprint: newFootprint(union(parts))}
}

// ProjectFacet computes the shadow of a building by casting each of
// its triangles onto the ground along the sun direction. A triangle
// that cannot be cast, or whose shadow has no area, is left out and
// counted in Dropped.
func ProjectFacet(sample solar.Sample, b *geom.Building) Shadow {
	if sample.Elevation <= 0 {
		return Shadow{Status: BelowHorizon}
	}
	away := r3.Scale(-1, sample.Dir)
	var parts []polyclip.Polygon
	dropped := 0
	for _, tri := range b.Triangles() {
		var c polyclip.Contour
		ok := true
		for _, v := range tri {
			p, hit := geom.Ray{Origin: v, Dir: away}.IntersectGround(0)
			if !hit {
				ok = false
				break
			}
			c = append(c, polyclip.Point{X: p.X, Y: p.Y})
		}
		if !ok || math.Abs(planar.Area(toRing(c))) < areaTol {
			dropped++
			continue
		}
		parts = append(parts, polyclip.Polygon{c})
	}
	if len(parts) == 0 {
		return Shadow{Status: Degenerate, Dropped: dropped}
	}
	return Shadow{Footprint: newFootprint(union(parts)), Dropped: dropped}
}
