// Package duration measures how long points in a scene are in direct
// sunlight over a day.
//
// Ground points are evaluated in 2-D against the day's shadow
// footprints. Points on arbitrary surfaces are evaluated in 3-D by
// tracing a ray towards each sampled sun position.
package duration

import (
	"errors"
	"math"

	"github.com/paulmach/orb"
	"go.uber.org/zap"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/aclements/sunhours/geom"
	"github.com/aclements/sunhours/shadow"
	"github.com/aclements/sunhours/solar"
)

// An Analyzer computes sunlight durations for a fixed set of buildings
// under a Sun.
//
// Update must be called after changing the Sun and before running
// analyses. Update must not run concurrently with analyses; analyses
// may run concurrently with each other.
type Analyzer struct {
	sun       *solar.Sun
	buildings []*geom.Building
	index     *sceneIndex

	cfg Config
	log *zap.Logger

	path *solar.Path
	days *shadow.DaySet

	// evalCell computes the duration of one grid cell.
	evalCell func(days *shadow.DaySet, p orb.Point) float64
}

// New returns an analyzer for buildings lit by sun. The day's shadows
// are computed immediately.
func New(sun *solar.Sun, buildings []*geom.Building, opts ...Option) *Analyzer {
	a := &Analyzer{
		sun:       sun,
		buildings: append([]*geom.Building(nil), buildings...),
		index:     newSceneIndex(buildings),
		cfg:       DefaultConfig(),
		log:       zap.NewNop(),
		evalCell:  (*shadow.DaySet).Duration,
	}
	for _, opt := range opts {
		opt(a)
	}
	a.Update()
	return a
}

// Update snapshots the sun path and rebuilds the day's shadows.
func (a *Analyzer) Update() {
	a.path = a.sun.Path()
	days, err := shadow.NewDaySet(a.cfg.Method, a.path, a.buildings)
	if errors.Is(err, shadow.ErrNoShadowData) {
		a.log.Debug("no sun path; all durations are zero", zap.Stringer("sun", a.sun))
	}
	a.days = days
	if days != nil {
		dropped := 0
		for _, s := range days.Shadows {
			dropped += s.Dropped
		}
		a.log.Debug("rebuilt day shadows",
			zap.Stringer("sun", a.sun),
			zap.Stringer("method", a.cfg.Method),
			zap.Int("shadows", days.Len()),
			zap.Int("droppedFacets", dropped))
	}
}

// HasData reports whether the current date has a sun path.
func (a *Analyzer) HasData() bool {
	return a.days != nil
}

// DaySet returns the current day's shadows, or nil if there are none.
func (a *Analyzer) DaySet() *shadow.DaySet {
	return a.days
}

// Path returns the sun path snapshot taken by the last Update.
func (a *Analyzer) Path() *solar.Path {
	return a.path
}

// Duration2D returns the hours of sunlight at ground point p.
func (a *Analyzer) Duration2D(p orb.Point) float64 {
	return a.days.Duration(p)
}

// PointAnalysis computes the sunlight duration and insolation of sp by
// tracing a ray to every interior sun sample. A sample is also counted
// as dark when the sun is at or below the horizon or behind the
// surface at sp, even if no triangle blocks the ray.
func (a *Analyzer) PointAnalysis(sp *SamplingPoint) {
	sp.Duration, sp.Insolation = 0, 0
	if a.path == nil {
		return
	}
	samples := a.path.Interior()
	if len(samples) == 0 {
		return
	}
	step := a.path.SunlightDuration() / float64(len(samples))
	origin := sp.Lifted(a.cfg.NormalOffset)
	lit := 0
	for _, s := range samples {
		if s.Elevation <= 0 {
			continue
		}
		dir := r3.Unit(s.Dir)
		cosInc := r3.Dot(dir, sp.Normal)
		if cosInc <= 0 {
			// The sun is behind the surface.
			continue
		}
		if a.occluded(geom.Ray{Origin: origin, Dir: dir}) {
			continue
		}
		lit++
		sp.Insolation += solar.DirectIrradiance(s.Elevation, a.cfg.AltitudeMeters) * cosInc * step
	}
	sp.Duration = float64(lit) * step
}

// PointsAnalysis runs PointAnalysis on each point in turn.
func (a *Analyzer) PointsAnalysis(points []*SamplingPoint) {
	for _, sp := range points {
		a.PointAnalysis(sp)
	}
}

func (a *Analyzer) occluded(r geom.Ray) bool {
	for _, b := range a.index.candidates(r) {
		if r.Occluded(b.Triangles()) {
			return true
		}
	}
	return false
}

// Pick returns the sampling point where r first meets a building or,
// failing that, the ground. It reports false if r meets neither.
func (a *Analyzer) Pick(r geom.Ray) (*SamplingPoint, bool) {
	best := math.Inf(1)
	var normal r3.Vec
	for _, b := range a.index.candidates(r) {
		t, i, ok := r.IntersectMesh(b.Triangles())
		if ok && t < best {
			best, normal = t, b.Normal(i)
		}
	}
	if !math.IsInf(best, 1) {
		if r3.Dot(normal, r.Dir) > 0 {
			normal = r3.Scale(-1, normal)
		}
		return &SamplingPoint{Point: r.Along(best), Normal: normal}, true
	}
	if p, ok := r.IntersectGround(0); ok {
		return NewSamplingPoint(p), true
	}
	return nil, false
}
