package geom

import (
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r3"
)

// A Ray is a half-line starting at Origin. Dir need not be normalized;
// intersection parameters are in units of Dir.
type Ray struct {
	Origin r3.Vec
	Dir    r3.Vec
}

// singularTol is the relative determinant below which a ray is treated
// as parallel to a triangle's plane.
const singularTol = 1e-12

// IntersectTriangle returns the ray parameter of the intersection of r
// with tri.
//
// It solves origin + t·dir = p0 + u·e1 + v·e2 by inverting the 3×3
// matrix [−dir | e1 | e2]. A singular system (the ray is parallel to the
// plane, or the triangle has no area) is a miss, as is a hit behind the
// origin.
func (r Ray) IntersectTriangle(tri *r3.Triangle) (t float64, ok bool) {
	e1 := r3.Sub(tri[1], tri[0])
	e2 := r3.Sub(tri[2], tri[0])
	m := mat.NewDense(3, 3, []float64{
		-r.Dir.X, e1.X, e2.X,
		-r.Dir.Y, e1.Y, e2.Y,
		-r.Dir.Z, e1.Z, e2.Z,
	})
	scale := r3.Norm(r.Dir) * r3.Norm(e1) * r3.Norm(e2)
	if scale == 0 || math.Abs(mat.Det(m)) <= singularTol*scale {
		return 0, false
	}
	var inv mat.Dense
	if err := inv.Inverse(m); err != nil {
		return 0, false
	}
	s := r3.Sub(r.Origin, tri[0])
	var x mat.VecDense
	x.MulVec(&inv, mat.NewVecDense(3, []float64{s.X, s.Y, s.Z}))
	t, u, v := x.AtVec(0), x.AtVec(1), x.AtVec(2)
	if u < 0 || v < 0 || u+v > 1 {
		return 0, false
	}
	if t < 0 {
		// There is a line intersection but not a ray intersection.
		return 0, false
	}
	return t, true
}

// IntersectMesh returns the nearest intersection of r with tris and the
// index of the triangle hit.
func (r Ray) IntersectMesh(tris []r3.Triangle) (t float64, index int, ok bool) {
	index = -1
	for i := range tris {
		ti, hit := r.IntersectTriangle(&tris[i])
		if !hit {
			continue
		}
		if index < 0 || ti < t {
			t, index = ti, i
		}
	}
	return t, index, index >= 0
}

// Occluded reports whether r hits any of tris. It stops at the first
// hit.
func (r Ray) Occluded(tris []r3.Triangle) bool {
	for i := range tris {
		if _, hit := r.IntersectTriangle(&tris[i]); hit {
			return true
		}
	}
	return false
}

// IntersectGround returns where r meets the horizontal plane at height
// z. It fails if r is parallel to the plane or meets it behind the
// origin.
func (r Ray) IntersectGround(z float64) (r3.Vec, bool) {
	if math.Abs(r.Dir.Z) < 1e-12 {
		return r3.Vec{}, false
	}
	t := (z - r.Origin.Z) / r.Dir.Z
	if t < 0 {
		return r3.Vec{}, false
	}
	p := r.Along(t)
	p.Z = z
	return p, true
}

// Along returns the point at parameter t on r.
func (r Ray) Along(t float64) r3.Vec {
	return r3.Add(r.Origin, r3.Scale(t, r.Dir))
}
