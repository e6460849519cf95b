// Package geom holds the building geometry consumed by the shadow and
// duration analyses, along with the ray queries run against it.
//
// The coordinate system is as follows:
//
//	Z/up
//	|  Y/north
//	| /
//	|/____ X/east
//
// The ground is the plane Z=0.
package geom

import (
	"errors"
	"fmt"
	"math"

	"github.com/paulmach/orb"
	"gonum.org/v1/gonum/spatial/r3"
)

// ErrInvalidGeometry is wrapped by errors constructing a Building from
// unusable input.
var ErrInvalidGeometry = errors.New("invalid geometry")

// A Building is an immutable triangulated surface anchored on the
// ground.
//
// An extruded building also carries its base polygon and height, which
// the volumetric shadow projection uses. A mesh building only has
// triangles.
type Building struct {
	tris    []r3.Triangle
	normals []r3.Vec

	base   orb.Polygon
	height float64

	bounds Box
}

// NewExtruded returns a prism of the given height over base. The first
// ring of base is the shell and the rest are holes. Rings are
// reoriented so the shell is counter-clockwise and holes are clockwise,
// which makes every wall's normal face out of the solid.
func NewExtruded(base orb.Polygon, height float64) (*Building, error) {
	if math.IsNaN(height) || math.IsInf(height, 0) || height <= 0 {
		return nil, fmt.Errorf("%w: height must be positive: %v", ErrInvalidGeometry, height)
	}
	if len(base) == 0 {
		return nil, fmt.Errorf("%w: base has no rings", ErrInvalidGeometry)
	}

	b := &Building{height: height}
	for i, r := range base {
		pts := openRing(r)
		if len(pts) < 3 {
			return nil, fmt.Errorf("%w: ring %d has %d distinct points", ErrInvalidGeometry, i, len(pts))
		}
		ccw := signedArea(pts) > 0
		if (i == 0) != ccw {
			reverse(pts)
		}
		b.base = append(b.base, append(orb.Ring(pts), pts[0]))
	}

	// Walls.
	for _, ring := range b.base {
		for i := 0; i < len(ring)-1; i++ {
			p0, p1 := ring[i], ring[i+1]
			a := r3.Vec{X: p0[0], Y: p0[1]}
			c := r3.Vec{X: p1[0], Y: p1[1]}
			at, ct := a, c
			at.Z, ct.Z = height, height
			b.tris = append(b.tris, r3.Triangle{a, c, ct}, r3.Triangle{a, ct, at})
		}
	}

	// Roof and floor.
	caps, err := Triangulate(b.base)
	if err != nil {
		return nil, err
	}
	for _, t := range caps {
		var roof, floor r3.Triangle
		for i, p := range t {
			roof[i] = r3.Vec{X: p[0], Y: p[1], Z: height}
			floor[2-i] = r3.Vec{X: p[0], Y: p[1]}
		}
		b.tris = append(b.tris, roof, floor)
	}

	b.finish()
	return b, nil
}

// NewExtrudedContours is like NewExtruded, but takes the base as a flat
// list of points, shell first and then each hole, with perContour
// giving the number of points in each contour.
func NewExtrudedContours(points []orb.Point, perContour []int, height float64) (*Building, error) {
	var base orb.Polygon
	start := 0
	for i, n := range perContour {
		if n < 0 || start+n > len(points) {
			return nil, fmt.Errorf("%w: contour %d with %d points overruns %d points", ErrInvalidGeometry, i, n, len(points))
		}
		base = append(base, orb.Ring(append([]orb.Point(nil), points[start:start+n]...)))
		start += n
	}
	if start != len(points) {
		return nil, fmt.Errorf("%w: contours cover %d of %d points", ErrInvalidGeometry, start, len(points))
	}
	return NewExtruded(base, height)
}

// NewMesh returns a building made of arbitrary triangles, such as one
// imported from a model file. Triangles must be consistently wound with
// normals facing out.
func NewMesh(tris []r3.Triangle) (*Building, error) {
	if len(tris) == 0 {
		return nil, fmt.Errorf("%w: mesh has no triangles", ErrInvalidGeometry)
	}
	b := &Building{tris: append([]r3.Triangle(nil), tris...)}
	b.finish()
	return b, nil
}

func (b *Building) finish() {
	b.bounds = EmptyBox()
	b.normals = make([]r3.Vec, len(b.tris))
	for i, t := range b.tris {
		for _, v := range t {
			b.bounds = b.bounds.Extend(v)
		}
		n := r3.Cross(r3.Sub(t[1], t[0]), r3.Sub(t[2], t[0]))
		if l := r3.Norm(n); l > 0 {
			b.normals[i] = r3.Scale(1/l, n)
		}
	}
}

// Triangles returns the building's surface. The caller must not modify
// it.
func (b *Building) Triangles() []r3.Triangle { return b.tris }

// Normal returns the outward unit normal of triangle i, or the zero
// vector for a degenerate triangle.
func (b *Building) Normal(i int) r3.Vec { return b.normals[i] }

// Base returns the base polygon of an extruded building, or nil.
func (b *Building) Base() orb.Polygon { return b.base }

// Height returns the extrusion height, or 0 for a mesh building.
func (b *Building) Height() float64 { return b.height }

// Extruded reports whether the building has a base polygon.
func (b *Building) Extruded() bool { return b.base != nil }

// Bounds returns the building's axis-aligned bounding box.
func (b *Building) Bounds() Box { return b.bounds }
