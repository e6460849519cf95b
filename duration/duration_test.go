package duration

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/paulmach/orb"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest"
	"go.uber.org/zap/zaptest/observer"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/aclements/sunhours/geom"
	"github.com/aclements/sunhours/shadow"
	"github.com/aclements/sunhours/solar"
)

func mustSun(t *testing.T, cfg solar.Config) *solar.Sun {
	t.Helper()
	s, err := solar.NewSun(cfg)
	if err != nil {
		t.Fatal(err)
	}
	return s
}

func box(t *testing.T, x0, y0, x1, y1, height float64) *geom.Building {
	t.Helper()
	b, err := geom.NewExtruded(orb.Polygon{{{x0, y0}, {x1, y0}, {x1, y1}, {x0, y1}, {x0, y0}}}, height)
	if err != nil {
		t.Fatal(err)
	}
	return b
}

func assertClose(t *testing.T, what string, got, want float64) {
	t.Helper()
	if math.Abs(got-want) > 1e-9 {
		t.Errorf("%s = %v, want %v", what, got, want)
	}
}

func TestNoBuildings(t *testing.T) {
	sun := mustSun(t, solar.DefaultConfig())
	a := New(sun, nil, WithLogger(zaptest.NewLogger(t)))
	if !a.HasData() {
		t.Fatal("no shadow data on a regular day")
	}
	full := sun.SunlightDuration()

	assertClose(t, "Duration2D", a.Duration2D(orb.Point{0, 0}), full)

	sp := NewSamplingPoint(r3.Vec{X: 3, Y: -7})
	a.PointAnalysis(sp)
	assertClose(t, "PointAnalysis duration", sp.Duration, full)
	if sp.Insolation <= 0 {
		t.Errorf("insolation = %v, want > 0", sp.Insolation)
	}

	g, err := a.GridAnalysis(orb.Bound{Min: orb.Point{-50, -50}, Max: orb.Point{50, 50}}, 5, 7)
	if err != nil {
		t.Fatal(err)
	}
	assertClose(t, "grid min", g.Min(), full)
	assertClose(t, "grid max", g.Max(), full)
}

func TestOccludedPoints(t *testing.T) {
	sun := mustSun(t, solar.DefaultConfig())
	a := New(sun, []*geom.Building{box(t, 0, 0, 10, 10, 10)})
	full := sun.SunlightDuration()

	under := NewSamplingPoint(r3.Vec{X: 5, Y: 5})
	far := NewSamplingPoint(r3.Vec{X: 500, Y: 500})
	a.PointsAnalysis([]*SamplingPoint{under, far})
	assertClose(t, "duration under the building", under.Duration, 0)
	assertClose(t, "duration far away", far.Duration, full)

	assertClose(t, "2-D duration under the building", a.Duration2D(orb.Point{5, 5}), 0)
	assertClose(t, "2-D duration far away", a.Duration2D(orb.Point{500, 500}), full)

	// West of the building, the morning sun is blocked and the
	// afternoon sun is not.
	near := NewSamplingPoint(r3.Vec{X: -2, Y: 5})
	a.PointAnalysis(near)
	if near.Duration <= 0 || near.Duration >= full {
		t.Errorf("duration next to the building = %v, want in (0, %v)", near.Duration, full)
	}
	if d := a.Duration2D(orb.Point{-2, 5}); d < 0 || d > full {
		t.Errorf("2-D duration %v out of [0, %v]", d, full)
	}
}

func TestWallFacingAway(t *testing.T) {
	// A surface facing the ground never sees the sun.
	sun := mustSun(t, solar.DefaultConfig())
	a := New(sun, nil)
	sp, err := NewSamplingPointWithNormal(r3.Vec{Z: 5}, r3.Vec{Z: -3})
	if err != nil {
		t.Fatal(err)
	}
	a.PointAnalysis(sp)
	if sp.Duration != 0 || sp.Insolation != 0 {
		t.Errorf("downward facing point got %v h, %v Wh/m²", sp.Duration, sp.Insolation)
	}
	if _, err := NewSamplingPointWithNormal(r3.Vec{}, r3.Vec{}); err == nil {
		t.Errorf("zero normal accepted")
	}
}

func TestPolarNight(t *testing.T) {
	cfg := solar.DefaultConfig()
	cfg.Latitude, cfg.Month, cfg.Day = 80, 12, 22
	a := New(mustSun(t, cfg), []*geom.Building{box(t, 0, 0, 10, 10, 10)})
	if a.HasData() {
		t.Fatal("polar night has shadow data")
	}
	sp := NewSamplingPoint(r3.Vec{X: 50})
	a.PointAnalysis(sp)
	if sp.Duration != 0 {
		t.Errorf("polar night duration = %v", sp.Duration)
	}
	g, err := a.GridAnalysis(orb.Bound{Min: orb.Point{-10, -10}, Max: orb.Point{10, 10}}, 3, 3)
	if err != nil {
		t.Fatal(err)
	}
	if g.Max() != 0 {
		t.Errorf("polar night grid max = %v", g.Max())
	}
}

func TestHoleScenario(t *testing.T) {
	// A courtyard building near the equator at the March equinox, so
	// the sun is almost straight overhead at noon.
	cfg := solar.DefaultConfig()
	cfg.Longitude, cfg.Latitude, cfg.Month, cfg.Day = 0, 0, 3, 21
	cfg.PathDiv = 31
	sun := mustSun(t, cfg)
	b, err := geom.NewExtruded(orb.Polygon{
		{{-20, -20}, {20, -20}, {20, 20}, {-20, 20}, {-20, -20}},
		{{-5, -5}, {5, -5}, {5, 5}, {-5, 5}, {-5, -5}},
	}, 10)
	if err != nil {
		t.Fatal(err)
	}
	a := New(sun, []*geom.Building{b}, WithConfig(Config{Method: shadow.Volume}))
	days := a.DaySet()
	noon := days.Len() / 2
	if s := days.Shadows[noon]; s.Contains(orb.Point{0, 0}) {
		t.Errorf("courtyard center shaded at noon (elevation %v)", days.Samples[noon].Elevation)
	}
	if d := a.Duration2D(orb.Point{0, 0}); d <= 0 {
		t.Errorf("courtyard center duration = %v", d)
	}
	assertClose(t, "duration under the roof", a.Duration2D(orb.Point{15, 15}), 0)
}

func TestGridDeterminism(t *testing.T) {
	sun := mustSun(t, solar.DefaultConfig())
	buildings := []*geom.Building{box(t, 0, 0, 10, 10, 20), box(t, 20, -5, 30, 5, 8)}
	a := New(sun, buildings, WithConfig(Config{Workers: 4}))
	bound := orb.Bound{Min: orb.Point{-40, -40}, Max: orb.Point{60, 40}}
	g1, err := a.GridAnalysis(bound, 8, 10)
	if err != nil {
		t.Fatal(err)
	}
	g2, err := a.GridAnalysis(bound, 8, 10)
	if err != nil {
		t.Fatal(err)
	}
	full := sun.SunlightDuration()
	for r := 0; r < g1.Rows; r++ {
		for c := 0; c < g1.Cols; c++ {
			if g1.At(r, c) != g2.At(r, c) {
				t.Errorf("cell %d,%d: %v then %v", r, c, g1.At(r, c), g2.At(r, c))
			}
			if want := a.Duration2D(g1.Center(r, c)); g1.At(r, c) != want {
				t.Errorf("cell %d,%d: %v, sequential %v", r, c, g1.At(r, c), want)
			}
			if d := g1.At(r, c); d < 0 || d > full {
				t.Errorf("cell %d,%d: %v out of [0, %v]", r, c, d, full)
			}
		}
	}
	if g1.Min() >= g1.Max() {
		t.Errorf("grid has no shade: min %v, max %v", g1.Min(), g1.Max())
	}
}

func TestGridErrors(t *testing.T) {
	a := New(mustSun(t, solar.DefaultConfig()), nil)
	if _, err := a.GridAnalysis(orb.Bound{Max: orb.Point{1, 1}}, 0, 3); err == nil {
		t.Errorf("zero rows accepted")
	}
	if _, err := a.GridAnalysis(orb.Bound{Max: orb.Point{0, 1}}, 2, 2); err == nil {
		t.Errorf("zero-width bound accepted")
	}
}

func TestGridJoinTimeout(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	a := New(mustSun(t, solar.DefaultConfig()), nil,
		WithLogger(zap.New(core)),
		WithConfig(Config{Workers: 2, JoinTimeout: 20 * time.Millisecond, ShutdownGrace: time.Second}))
	a.evalCell = func(days *shadow.DaySet, p orb.Point) float64 {
		time.Sleep(50 * time.Millisecond)
		return days.Duration(p)
	}
	g, err := a.GridAnalysis(orb.Bound{Max: orb.Point{10, 10}}, 4, 4)
	if !errors.Is(err, ErrJoinTimeout) {
		t.Fatalf("err = %v, want %v", err, ErrJoinTimeout)
	}
	if g != nil {
		t.Errorf("partial grid returned")
	}
	if n := logs.FilterMessageSnippet("timed out").Len(); n != 1 {
		t.Errorf("%d timeout warnings logged, want 1", n)
	}
}

func TestGridGraceExpired(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	a := New(mustSun(t, solar.DefaultConfig()), nil,
		WithLogger(zap.New(core)),
		WithConfig(Config{Workers: 2, JoinTimeout: 20 * time.Millisecond, ShutdownGrace: time.Millisecond}))
	a.evalCell = func(days *shadow.DaySet, p orb.Point) float64 {
		time.Sleep(300 * time.Millisecond)
		return days.Duration(p)
	}
	if _, err := a.GridAnalysis(orb.Bound{Max: orb.Point{10, 10}}, 2, 2); !errors.Is(err, ErrJoinTimeout) {
		t.Fatalf("err = %v, want %v", err, ErrJoinTimeout)
	}
	if n := logs.Len(); n != 2 {
		t.Errorf("%d warnings logged, want 2", n)
	}
	if n := logs.FilterMessageSnippet("after grace period").Len(); n != 1 {
		t.Errorf("%d grace warnings logged, want 1", n)
	}
}

func TestPick(t *testing.T) {
	a := New(mustSun(t, solar.DefaultConfig()), []*geom.Building{box(t, 0, 0, 10, 10, 10)})

	// Looking down onto the roof.
	sp, ok := a.Pick(geom.Ray{Origin: r3.Vec{X: 5, Y: 5, Z: 50}, Dir: r3.Vec{Z: -1}})
	if !ok {
		t.Fatal("missed the roof")
	}
	if math.Abs(sp.Point.Z-10) > 1e-9 || sp.Normal != (r3.Vec{Z: 1}) {
		t.Errorf("roof pick = %v, normal %v", sp.Point, sp.Normal)
	}

	// Looking west at the east wall.
	sp, ok = a.Pick(geom.Ray{Origin: r3.Vec{X: 50, Y: 5, Z: 5}, Dir: r3.Vec{X: -1}})
	if !ok || math.Abs(sp.Point.X-10) > 1e-9 || math.Abs(sp.Normal.X-1) > 1e-9 {
		t.Errorf("wall pick = %v, %v", sp, ok)
	}

	// Missing the building lands on the ground.
	sp, ok = a.Pick(geom.Ray{Origin: r3.Vec{X: 50, Y: 50, Z: 10}, Dir: r3.Vec{X: 1, Z: -1}})
	if !ok || sp.Point != (r3.Vec{X: 60, Y: 50}) || sp.Normal != (r3.Vec{Z: 1}) {
		t.Errorf("ground pick = %v, %v", sp, ok)
	}

	if _, ok := a.Pick(geom.Ray{Origin: r3.Vec{X: 50, Y: 50, Z: 10}, Dir: r3.Vec{Z: 1}}); ok {
		t.Errorf("picked something looking at the sky")
	}
}
