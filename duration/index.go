package duration

import (
	"math"

	"github.com/dhconnelly/rtreego"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/aclements/sunhours/geom"
)

// pad keeps R-tree rectangles non-degenerate, since rtreego rejects
// zero-length sides.
const pad = 1e-6

// indexed is a building stored in the R-tree.
type indexed struct {
	b    *geom.Building
	rect rtreego.Rect
}

func (s *indexed) Bounds() rtreego.Rect {
	return s.rect
}

func boxRect(min, max r3.Vec) rtreego.Rect {
	r, err := rtreego.NewRect(
		rtreego.Point{min.X - pad, min.Y - pad, min.Z - pad},
		[]float64{max.X - min.X + 2*pad, max.Y - min.Y + 2*pad, max.Z - min.Z + 2*pad},
	)
	if err != nil {
		// Only reachable with NaN coordinates, which buildings reject.
		panic(err)
	}
	return r
}

// A sceneIndex finds the buildings a ray may hit.
type sceneIndex struct {
	tree   *rtreego.Rtree
	bounds geom.Box
}

func newSceneIndex(buildings []*geom.Building) *sceneIndex {
	idx := &sceneIndex{tree: rtreego.NewTree(3, 2, 8), bounds: geom.EmptyBox()}
	for _, b := range buildings {
		box := b.Bounds()
		idx.tree.Insert(&indexed{b: b, rect: boxRect(box.Min, box.Max)})
		idx.bounds = idx.bounds.Union(box)
	}
	return idx
}

// candidates returns the buildings whose bounds r crosses.
func (idx *sceneIndex) candidates(r geom.Ray) []*geom.Building {
	if idx.bounds.Empty() || !idx.bounds.IntersectsRay(r) {
		return nil
	}
	// The ray can only meet buildings while it is inside the scene
	// bounds, so search the box spanned by that segment.
	tExit := exitParam(r, idx.bounds)
	end := r.Along(tExit)
	min := r3.Vec{X: math.Min(r.Origin.X, end.X), Y: math.Min(r.Origin.Y, end.Y), Z: math.Min(r.Origin.Z, end.Z)}
	max := r3.Vec{X: math.Max(r.Origin.X, end.X), Y: math.Max(r.Origin.Y, end.Y), Z: math.Max(r.Origin.Z, end.Z)}

	var out []*geom.Building
	for _, s := range idx.tree.SearchIntersect(boxRect(min, max)) {
		b := s.(*indexed).b
		if b.Bounds().IntersectsRay(r) {
			out = append(out, b)
		}
	}
	return out
}

// exitParam returns the ray parameter at which r leaves box.
func exitParam(r geom.Ray, box geom.Box) float64 {
	tExit := math.Inf(1)
	o := [3]float64{r.Origin.X, r.Origin.Y, r.Origin.Z}
	d := [3]float64{r.Dir.X, r.Dir.Y, r.Dir.Z}
	lo := [3]float64{box.Min.X, box.Min.Y, box.Min.Z}
	hi := [3]float64{box.Max.X, box.Max.Y, box.Max.Z}
	for i := range o {
		if d[i] == 0 {
			continue
		}
		t0, t1 := (lo[i]-o[i])/d[i], (hi[i]-o[i])/d[i]
		tExit = math.Min(tExit, math.Max(t0, t1))
	}
	if math.IsInf(tExit, 1) || tExit < 0 {
		return 0
	}
	return tExit
}
