// Package shadow projects building shadows onto the ground.
//
// A shadow is computed either by treating each building as a vertical
// extrusion of its base (Volume), or by casting every facet of its mesh
// onto the ground (Facet). Pieces are merged by polygon union.
package shadow

import (
	"github.com/paulmach/orb"

	polyclip "github.com/ctessum/polyclip-go"
)

// Status says whether a Shadow was cast, and if not, why.
type Status uint8

const (
	// Cast means Footprint holds the shadow, which may be empty.
	Cast Status = iota
	// BelowHorizon means the sun is not up, so nothing casts a shadow.
	BelowHorizon
	// Degenerate means the geometry could not be projected.
	Degenerate
)

func (s Status) String() string {
	switch s {
	case Cast:
		return "cast"
	case BelowHorizon:
		return "below horizon"
	case Degenerate:
		return "degenerate"
	}
	return "unknown"
}

// A Shadow is the result of a projection. Only a Cast shadow has a
// Footprint. Dropped counts the facets whose projection failed and
// were left out.
type Shadow struct {
	Footprint *Footprint
	Status    Status
	Dropped   int
}

// OK reports whether the shadow was cast.
func (s Shadow) OK() bool {
	return s.Status == Cast
}

// Contains reports whether p is in a cast shadow.
func (s Shadow) Contains(p orb.Point) bool {
	return s.OK() && s.Footprint.Contains(p)
}

// Union merges shadows. A single shadow is returned as is. If any input
// is BelowHorizon, so is the result; Degenerate inputs contribute
// nothing.
func Union(shadows ...Shadow) Shadow {
	if len(shadows) == 1 {
		return shadows[0]
	}
	var polys []polyclip.Polygon
	dropped := 0
	for _, s := range shadows {
		switch s.Status {
		case BelowHorizon:
			return Shadow{Status: BelowHorizon}
		case Degenerate:
			dropped++
			continue
		}
		dropped += s.Dropped
		if !s.Footprint.Empty() {
			polys = append(polys, s.Footprint.poly)
		}
	}
	return Shadow{Footprint: newFootprint(union(polys)), Dropped: dropped}
}
