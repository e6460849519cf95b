// Command sunhours reports the sun's position for a site and date and
// computes how many hours of direct sunlight reach the ground and
// chosen sample points around a set of buildings.
//
// Buildings are described in a YAML config file, either as extruded
// base polygons or as binary STL meshes:
//
//	site: {longitude: 117, latitude: 24, month: 6, day: 22}
//	buildings:
//	  - shell: [[0, 0], [20, 0], [20, 10], [0, 10]]
//	    height: 30
//	  - stl: house.stl
//	    scale: 0.0254  # SketchUp exports inches
//
// Flags override the file. The merged configuration can be saved with
// -write-config to rerun the same analysis later.
//
// The coordinate system is as follows:
//
//	Z/up
//	|  Y/north
//	| /
//	|/____ X/east
package main

import (
	"flag"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/aclements/sunhours/duration"
	"github.com/aclements/sunhours/geom"
	"github.com/aclements/sunhours/internal/config"
	"github.com/aclements/sunhours/internal/logger"
	"github.com/aclements/sunhours/solar"
)

func main() {
	cfg, err := config.Load(flag.CommandLine, os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	log, err := logger.New(cfg.Logging.Level, cfg.Logging.File)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	defer log.Sync()

	if err := cfg.Validate(); err != nil {
		log.Fatal("invalid configuration", zap.Error(err))
	}
	if err := run(cfg, log, os.Stdout); err != nil {
		log.Fatal("analysis failed", zap.Error(err))
	}
}

func run(cfg *config.Config, log *zap.Logger, w io.Writer) error {
	sun, err := solar.NewSun(cfg.Solar())
	if err != nil {
		return err
	}
	dc, err := cfg.Duration()
	if err != nil {
		return err
	}
	buildings, err := loadBuildings(cfg.Buildings, log)
	if err != nil {
		return err
	}

	start := time.Now()
	an := duration.New(sun, buildings, duration.WithConfig(dc), duration.WithLogger(log))
	log.Debug("built analyzer",
		zap.Int("buildings", len(buildings)),
		zap.Bool("hasData", an.HasData()),
		zap.Duration("elapsed", time.Since(start)))

	if path := cfg.Output.WriteConfig; path != "" {
		if err := cfg.SaveTo(path); err != nil {
			return fmt.Errorf("saving configuration: %w", err)
		}
		log.Info("saved configuration", zap.String("path", path))
	}

	printSun(w, sun)

	var points []*duration.SamplingPoint
	for i, s := range cfg.Analysis.Samples {
		sp := duration.NewSamplingPoint(r3.Vec{X: s.Point[0], Y: s.Point[1], Z: s.Point[2]})
		if s.Normal != nil {
			sp, err = duration.NewSamplingPointWithNormal(sp.Point, r3.Vec{X: s.Normal[0], Y: s.Normal[1], Z: s.Normal[2]})
			if err != nil {
				return fmt.Errorf("sample %d: %w", i, err)
			}
		}
		points = append(points, sp)
	}
	an.PointsAnalysis(points)
	for i, sp := range points {
		name := cfg.Analysis.Samples[i].Name
		if name == "" {
			name = fmt.Sprintf("sample %d", i)
		}
		fmt.Fprintf(w, "%-16s %s  %.0f Wh/m²\n", name, sp, sp.Insolation)
	}

	if err := os.MkdirAll(cfg.Output.Dir, 0777); err != nil {
		return err
	}

	if g := cfg.Analysis.Grid; g.Rows > 0 {
		grid, err := gridAnalysis(cfg, an, buildings, log)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "grid %dx%d: %.2fh to %.2fh of sun\n", grid.Rows, grid.Cols, grid.Min(), grid.Max())
		if cfg.Output.Heatmap != "" {
			path := filepath.Join(cfg.Output.Dir, cfg.Output.Heatmap)
			if err := saveHeatMap(path, grid, buildings, sun.SunlightDuration()); err != nil {
				return fmt.Errorf("writing heat map: %w", err)
			}
			log.Info("wrote heat map", zap.String("path", path))
		}
	}

	if cfg.Output.Sunpath != "" {
		path := filepath.Join(cfg.Output.Dir, cfg.Output.Sunpath)
		if err := saveSunPath(path, sun); err != nil {
			return fmt.Errorf("writing sun path: %w", err)
		}
		log.Info("wrote sun path", zap.String("path", path))
	}
	return nil
}

// gridAnalysis runs the grid analysis, consulting the result cache if
// enabled.
func gridAnalysis(cfg *config.Config, an *duration.Analyzer, buildings []*geom.Building, log *zap.Logger) (*duration.Grid, error) {
	var ck *CacheKey
	if cfg.Output.Cache {
		var tris [][]r3.Triangle
		for _, b := range buildings {
			tris = append(tris, b.Triangles())
		}
		ck = MakeCacheKey(filepath.Join(cfg.Output.Dir, ".cache"), log,
			cfg.Site, cfg.Analysis.Method, cfg.Analysis.Grid, tris)
		var grid duration.Grid
		if ck.Load(&grid) {
			log.Debug("grid loaded from cache")
			return &grid, nil
		}
	}
	grid, err := an.GridAnalysis(cfg.GridBound(), cfg.Analysis.Grid.Rows, cfg.Analysis.Grid.Cols)
	if err != nil {
		return nil, err
	}
	if ck != nil {
		ck.Save(grid)
	}
	return grid, nil
}

func printSun(w io.Writer, sun *solar.Sun) {
	const rad2deg = 180 / math.Pi
	ref := referencePosition(sun)
	fmt.Fprintln(w, sun)
	fmt.Fprintf(w, "elevation %6.2f°  (suncalc %6.2f°)\n", sun.Elevation()*rad2deg, ref.Altitude)
	fmt.Fprintf(w, "azimuth   %6.2f°  (suncalc %6.2f°)\n", sun.Azimuth()*rad2deg, ref.Azimuth)
	if sun.Polar() {
		if sun.Path() == nil {
			fmt.Fprintln(w, "polar night")
		} else {
			fmt.Fprintln(w, "polar day")
		}
		return
	}
	fmt.Fprintf(w, "sunrise %s  sunset %s  daylight %.2fh\n",
		clock(sun.Sunrise()), clock(sun.Sunset()), sun.SunlightDuration())
}

// clock formats hours since midnight as HH:MM.
func clock(hours float64) string {
	d := time.Duration(hours * float64(time.Hour)).Round(time.Minute)
	return fmt.Sprintf("%02d:%02d", int(d.Hours()), int(d.Minutes())%60)
}
