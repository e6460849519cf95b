package main

import (
	"bytes"
	"encoding/binary"
	"flag"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"

	"github.com/aclements/sunhours/duration"
	"github.com/aclements/sunhours/internal/config"
	"github.com/aclements/sunhours/solar"
)

func testConfig(t *testing.T) *config.Config {
	cfg := config.Default()
	cfg.Output.Dir = t.TempDir()
	cfg.Analysis.Grid = config.GridConfig{Rows: 6, Cols: 8, Min: [2]float64{-30, -30}, Max: [2]float64{40, 30}}
	cfg.Analysis.Samples = []config.SampleConfig{
		{Name: "yard", Point: [3]float64{-20, 0, 0}},
		{Name: "east wall", Point: [3]float64{10, 5, 5}, Normal: &[3]float64{1, 0, 0}},
	}
	cfg.Buildings = []config.BuildingConfig{{
		Name:   "block",
		Shell:  [][2]float64{{0, 0}, {10, 0}, {10, 10}, {0, 10}},
		Height: 15,
	}}
	return cfg
}

func TestRun(t *testing.T) {
	cfg := testConfig(t)
	cfg.Output.WriteConfig = filepath.Join(cfg.Output.Dir, "effective.yaml")
	var out bytes.Buffer
	if err := run(cfg, zaptest.NewLogger(t), &out); err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"Sun{ 117.00° 24.00° 6-22 14:00 }", "suncalc", "sunrise", "yard", "east wall", "grid 6x8"} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("report missing %q:\n%s", want, out.String())
		}
	}
	for _, name := range []string{cfg.Output.Heatmap, cfg.Output.Sunpath} {
		fi, err := os.Stat(filepath.Join(cfg.Output.Dir, name))
		if err != nil {
			t.Errorf("missing output: %v", err)
		} else if fi.Size() == 0 {
			t.Errorf("%s is empty", name)
		}
	}

	saved, err := config.Load(flag.NewFlagSet("sunhours", flag.ContinueOnError), []string{"-config", cfg.Output.WriteConfig})
	if err != nil {
		t.Fatal(err)
	}
	if len(saved.Buildings) != 1 || saved.Buildings[0].Height != 15 || len(saved.Analysis.Samples) != 2 {
		t.Errorf("saved config differs: %+v", saved)
	}
}

func TestRunPolarNight(t *testing.T) {
	cfg := testConfig(t)
	cfg.Site.Latitude, cfg.Site.Month, cfg.Site.Day = 80, 12, 22
	var out bytes.Buffer
	if err := run(cfg, zap.NewNop(), &out); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "polar night") || !strings.Contains(out.String(), "0.00h to 0.00h") {
		t.Errorf("unexpected report:\n%s", out.String())
	}
}

func TestGridCache(t *testing.T) {
	cfg := testConfig(t)
	cfg.Output.Cache = true
	log := zaptest.NewLogger(t)
	sun, err := solar.NewSun(cfg.Solar())
	if err != nil {
		t.Fatal(err)
	}
	buildings, err := loadBuildings(cfg.Buildings, log)
	if err != nil {
		t.Fatal(err)
	}
	an := duration.New(sun, buildings)
	g1, err := gridAnalysis(cfg, an, buildings, log)
	if err != nil {
		t.Fatal(err)
	}
	entries, err := os.ReadDir(filepath.Join(cfg.Output.Dir, ".cache"))
	if err != nil || len(entries) != 1 {
		t.Fatalf("cache dir: %v, %d entries", err, len(entries))
	}
	g2, err := gridAnalysis(cfg, an, buildings, log)
	if err != nil {
		t.Fatal(err)
	}
	if g1.Rows != g2.Rows || g1.Bound != g2.Bound {
		t.Errorf("cached grid %+v differs from %+v", g2, g1)
	}
	for i := range g1.Durations {
		if g1.Durations[i] != g2.Durations[i] {
			t.Errorf("cell %d: %v, cached %v", i, g1.Durations[i], g2.Durations[i])
		}
	}

	// A different site misses the cache.
	ck1 := MakeCacheKey(t.TempDir(), log, cfg.Site)
	cfg.Site.Day++
	ck2 := MakeCacheKey(t.TempDir(), log, cfg.Site)
	if ck1.key == ck2.key {
		t.Errorf("cache key ignores the date")
	}
	var v int
	if ck2.Load(&v) {
		t.Errorf("loaded a value that was never saved")
	}

	// An unencodable value is logged, not saved.
	ck2.Save(make(chan int))
	if _, err := os.Stat(ck2.path()); !os.IsNotExist(err) {
		t.Errorf("partial cache entry left behind: %v", err)
	}
}

func writeSTL(t *testing.T, tris [][3][3]float32) string {
	t.Helper()
	var buf bytes.Buffer
	buf.Write(make([]byte, 80))
	binary.Write(&buf, binary.LittleEndian, uint32(len(tris)))
	for _, tri := range tris {
		binary.Write(&buf, binary.LittleEndian, [3]float32{})
		binary.Write(&buf, binary.LittleEndian, tri)
		binary.Write(&buf, binary.LittleEndian, uint16(0))
	}
	path := filepath.Join(t.TempDir(), "mesh.stl")
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadBuildings(t *testing.T) {
	// A tilted panel, in inches.
	path := writeSTL(t, [][3][3]float32{
		{{0, 0, 0}, {100, 0, 0}, {0, 100, 100}},
	})
	buildings, err := loadBuildings([]config.BuildingConfig{
		{STL: path, Scale: 0.0254},
		{Shell: [][2]float64{{0, 0}, {5, 0}, {5, 5}, {0, 5}}, Height: 3},
	}, zap.NewNop())
	if err != nil {
		t.Fatal(err)
	}
	if len(buildings) != 2 {
		t.Fatalf("got %d buildings", len(buildings))
	}
	if buildings[0].Extruded() || !buildings[1].Extruded() {
		t.Errorf("wrong building kinds")
	}
	if got := buildings[0].Bounds().Max.X; math.Abs(got-2.54) > 1e-5 {
		t.Errorf("scaled mesh max X = %v, want 2.54", got)
	}

	_, err = loadBuildings([]config.BuildingConfig{{Name: "gone", STL: filepath.Join(t.TempDir(), "none.stl")}}, zap.NewNop())
	if err == nil || !strings.Contains(err.Error(), "gone") {
		t.Errorf("missing STL: %v", err)
	}
}

func TestReferencePosition(t *testing.T) {
	const rad2deg = 180 / math.Pi
	cfg := solar.DefaultConfig()
	cfg.Hour = 10
	sun, err := solar.NewSun(cfg)
	if err != nil {
		t.Fatal(err)
	}
	ref := referencePosition(sun)
	if ref.T.Hour() != 10 || ref.T.Month() != time.June {
		t.Errorf("reference time %v", ref.T)
	}
	if d := math.Abs(ref.Altitude - sun.Elevation()*rad2deg); d > 2 {
		t.Errorf("elevation %v, suncalc %v", sun.Elevation()*rad2deg, ref.Altitude)
	}
	if d := math.Abs(ref.Azimuth - sun.Azimuth()*rad2deg); d > 4 {
		t.Errorf("azimuth %v, suncalc %v", sun.Azimuth()*rad2deg, ref.Azimuth)
	}
}

func TestTicks(t *testing.T) {
	ticks := timeOfDayTicks{targetTicks: 8}.Ticks(0, float64(24*time.Hour))
	var labels []string
	for _, tk := range ticks {
		if tk.Label != "" {
			labels = append(labels, tk.Label)
		}
	}
	if len(labels) != 9 || labels[0] != "00:00" || labels[4] != "12:00" {
		t.Errorf("time of day labels %v", labels)
	}

	ticks = durationTicks{targetTicks: 6}.Ticks(0, float64(13*time.Hour))
	if ticks[0].Label != "0h" || ticks[3].Label != "3h" {
		t.Errorf("duration ticks %v", ticks[:4])
	}
}

func TestClock(t *testing.T) {
	for h, want := range map[float64]string{0: "00:00", 5.5: "05:30", 13.999: "14:00", 24: "24:00"} {
		if got := clock(h); got != want {
			t.Errorf("clock(%v) = %q, want %q", h, got, want)
		}
	}
}
