package geom

import (
	"fmt"
	"math"
	"sort"

	"github.com/paulmach/orb"
)

// Triangulate splits a polygon with holes into counter-clockwise
// triangles by ear clipping. Each hole is first bridged to the shell
// through a mutually visible vertex pair, turning the polygon into a
// single weakly simple ring.
func Triangulate(poly orb.Polygon) ([][3]orb.Point, error) {
	if len(poly) == 0 {
		return nil, fmt.Errorf("%w: polygon has no rings", ErrInvalidGeometry)
	}
	outer := openRing(poly[0])
	if len(outer) < 3 {
		return nil, fmt.Errorf("%w: shell has %d points", ErrInvalidGeometry, len(outer))
	}
	if signedArea(outer) < 0 {
		reverse(outer)
	}
	var holes [][]orb.Point
	for i, r := range poly[1:] {
		h := openRing(r)
		if len(h) < 3 {
			return nil, fmt.Errorf("%w: hole %d has %d points", ErrInvalidGeometry, i, len(h))
		}
		if signedArea(h) > 0 {
			reverse(h)
		}
		holes = append(holes, h)
	}

	// Bridge the holes right to left, so a bridge never has to cross a
	// hole further right.
	sort.SliceStable(holes, func(i, j int) bool {
		return maxX(holes[i]) > maxX(holes[j])
	})
	for i, h := range holes {
		var err error
		outer, err = bridge(outer, h, holes[i+1:])
		if err != nil {
			return nil, err
		}
	}
	return earClip(outer)
}

// openRing returns a copy of r without the closing point.
func openRing(r orb.Ring) []orb.Point {
	pts := append([]orb.Point(nil), r...)
	if n := len(pts); n > 1 && pts[0] == pts[n-1] {
		pts = pts[:n-1]
	}
	return pts
}

func reverse(pts []orb.Point) {
	for i, j := 0, len(pts)-1; i < j; i, j = i+1, j-1 {
		pts[i], pts[j] = pts[j], pts[i]
	}
}

// signedArea is positive for counter-clockwise rings.
func signedArea(pts []orb.Point) float64 {
	var a float64
	for i, p := range pts {
		q := pts[(i+1)%len(pts)]
		a += p[0]*q[1] - q[0]*p[1]
	}
	return a / 2
}

func maxX(pts []orb.Point) float64 {
	m := math.Inf(-1)
	for _, p := range pts {
		m = math.Max(m, p[0])
	}
	return m
}

func cross(o, a, b orb.Point) float64 {
	return (a[0]-o[0])*(b[1]-o[1]) - (a[1]-o[1])*(b[0]-o[0])
}

// bridge splices hole into outer through the closest outer vertex that
// is visible from the hole's rightmost vertex.
func bridge(outer, hole []orb.Point, others [][]orb.Point) ([]orb.Point, error) {
	mi := 0
	for i, p := range hole {
		if p[0] > hole[mi][0] {
			mi = i
		}
	}
	m := hole[mi]

	order := make([]int, len(outer))
	for i := range order {
		order[i] = i
	}
	dist := func(i int) float64 {
		dx, dy := outer[i][0]-m[0], outer[i][1]-m[1]
		return dx*dx + dy*dy
	}
	sort.SliceStable(order, func(a, b int) bool { return dist(order[a]) < dist(order[b]) })

	rings := append([][]orb.Point{outer, hole}, others...)
	for _, vi := range order {
		if visible(m, outer[vi], rings) {
			out := make([]orb.Point, 0, len(outer)+len(hole)+2)
			out = append(out, outer[:vi+1]...)
			for k := 0; k <= len(hole); k++ {
				out = append(out, hole[(mi+k)%len(hole)])
			}
			out = append(out, outer[vi:]...)
			return out, nil
		}
	}
	return nil, fmt.Errorf("%w: hole at %v cannot be bridged to its shell", ErrInvalidGeometry, m)
}

// visible reports whether segment ab crosses no ring edge, ignoring
// edges that merely share an endpoint with it.
func visible(a, b orb.Point, rings [][]orb.Point) bool {
	for _, r := range rings {
		for i, p := range r {
			q := r[(i+1)%len(r)]
			if p == a || p == b || q == a || q == b {
				continue
			}
			if segmentsIntersect(a, b, p, q) {
				return false
			}
		}
	}
	return true
}

func segmentsIntersect(a, b, c, d orb.Point) bool {
	d1, d2 := cross(c, d, a), cross(c, d, b)
	d3, d4 := cross(a, b, c), cross(a, b, d)
	if ((d1 > 0 && d2 < 0) || (d1 < 0 && d2 > 0)) && ((d3 > 0 && d4 < 0) || (d3 < 0 && d4 > 0)) {
		return true
	}
	on := func(p, q, r orb.Point) bool {
		return math.Min(p[0], q[0]) <= r[0] && r[0] <= math.Max(p[0], q[0]) &&
			math.Min(p[1], q[1]) <= r[1] && r[1] <= math.Max(p[1], q[1])
	}
	return (d1 == 0 && on(c, d, a)) || (d2 == 0 && on(c, d, b)) ||
		(d3 == 0 && on(a, b, c)) || (d4 == 0 && on(a, b, d))
}

// earClip triangulates a counter-clockwise, weakly simple ring.
func earClip(pts []orb.Point) ([][3]orb.Point, error) {
	idx := make([]int, len(pts))
	for i := range idx {
		idx[i] = i
	}
	var tris [][3]orb.Point
	for len(idx) > 3 {
		n := len(idx)
		clipped := false
		for i := 0; i < n; i++ {
			a, b, c := pts[idx[(i+n-1)%n]], pts[idx[i]], pts[idx[(i+1)%n]]
			if cross(a, b, c) <= 0 || !isEar(a, b, c, pts, idx) {
				continue
			}
			tris = append(tris, [3]orb.Point{a, b, c})
			idx = append(idx[:i], idx[i+1:]...)
			clipped = true
			break
		}
		if clipped {
			continue
		}
		// No ear: drop a collinear or duplicate vertex, which
		// contributes no area.
		for i := 0; i < n && !clipped; i++ {
			a, b, c := pts[idx[(i+n-1)%n]], pts[idx[i]], pts[idx[(i+1)%n]]
			if math.Abs(cross(a, b, c)) <= 1e-12 {
				idx = append(idx[:i], idx[i+1:]...)
				clipped = true
			}
		}
		if !clipped {
			return nil, fmt.Errorf("%w: polygon is not simple", ErrInvalidGeometry)
		}
	}
	if a, b, c := pts[idx[0]], pts[idx[1]], pts[idx[2]]; cross(a, b, c) > 0 {
		tris = append(tris, [3]orb.Point{a, b, c})
	}
	return tris, nil
}

// isEar reports whether no other remaining vertex lies in triangle abc.
func isEar(a, b, c orb.Point, pts []orb.Point, idx []int) bool {
	for _, j := range idx {
		p := pts[j]
		if p == a || p == b || p == c {
			continue
		}
		if cross(a, b, p) >= 0 && cross(b, c, p) >= 0 && cross(c, a, p) >= 0 {
			return false
		}
	}
	return true
}
