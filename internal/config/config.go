// Package config handles loading the sunhours configuration.
package config

import (
	"fmt"
	"time"

	"github.com/paulmach/orb"

	"github.com/aclements/sunhours/duration"
	"github.com/aclements/sunhours/shadow"
	"github.com/aclements/sunhours/solar"
)

// Config holds all settings for a run.
type Config struct {
	Site      SiteConfig       `yaml:"site"`
	Analysis  AnalysisConfig   `yaml:"analysis"`
	Buildings []BuildingConfig `yaml:"buildings"`
	Output    OutputConfig     `yaml:"output"`
	Logging   LoggingConfig    `yaml:"logging"`
}

// SiteConfig places the site and picks the date and time.
type SiteConfig struct {
	Longitude    float64 `yaml:"longitude"`
	Latitude     float64 `yaml:"latitude"`
	Month        int     `yaml:"month"`
	Day          int     `yaml:"day"`
	Hour         int     `yaml:"hour"`
	Minute       int     `yaml:"minute"`
	GroundRadius float64 `yaml:"ground_radius"`
	PathDiv      int     `yaml:"path_div"`
	AltitudeM    float64 `yaml:"altitude_m"`
}

// AnalysisConfig controls the duration analyses.
type AnalysisConfig struct {
	Method        string        `yaml:"method"` // "facet" or "volume"
	Workers       int           `yaml:"workers"`
	JoinTimeout   time.Duration `yaml:"join_timeout"`
	ShutdownGrace time.Duration `yaml:"shutdown_grace"`
	NormalOffset  float64       `yaml:"normal_offset"`

	Grid    GridConfig     `yaml:"grid"`
	Samples []SampleConfig `yaml:"samples"`
}

// GridConfig describes the ground grid. A grid with no rows is skipped.
type GridConfig struct {
	Rows int        `yaml:"rows"`
	Cols int        `yaml:"cols"`
	Min  [2]float64 `yaml:"min"`
	Max  [2]float64 `yaml:"max"`
}

// SampleConfig is a point analyzed in 3-D. A missing normal means up.
type SampleConfig struct {
	Name   string      `yaml:"name,omitempty"`
	Point  [3]float64  `yaml:"point"`
	Normal *[3]float64 `yaml:"normal,omitempty"`
}

// BuildingConfig describes one building, either as an extruded base
// polygon or as an STL mesh.
type BuildingConfig struct {
	Name string `yaml:"name,omitempty"`

	Shell  [][2]float64   `yaml:"shell,omitempty"`
	Holes  [][][2]float64 `yaml:"holes,omitempty"`
	Height float64        `yaml:"height,omitempty"`

	STL   string  `yaml:"stl,omitempty"`
	Scale float64 `yaml:"scale,omitempty"` // Multiplier for STL coordinates; 0 means 1
}

// OutputConfig says where results go. Empty file names are skipped.
type OutputConfig struct {
	Dir     string `yaml:"dir"`
	Heatmap string `yaml:"heatmap"`
	Sunpath string `yaml:"sunpath"`
	Cache   bool   `yaml:"cache"`

	// WriteConfig, if set, is where the effective configuration is
	// saved before the analysis runs. It is only set from flags.
	WriteConfig string `yaml:"-"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"`
}

// Default returns a Config with default values.
func Default() *Config {
	sc := solar.DefaultConfig()
	dc := duration.DefaultConfig()
	return &Config{
		Site: SiteConfig{
			Longitude:    sc.Longitude,
			Latitude:     sc.Latitude,
			Month:        sc.Month,
			Day:          sc.Day,
			Hour:         sc.Hour,
			Minute:       sc.Minute,
			GroundRadius: sc.GroundRadius,
			PathDiv:      sc.PathDiv,
		},
		Analysis: AnalysisConfig{
			Method:        dc.Method.String(),
			Workers:       dc.Workers,
			JoinTimeout:   dc.JoinTimeout,
			ShutdownGrace: dc.ShutdownGrace,
			NormalOffset:  dc.NormalOffset,
			Grid: GridConfig{
				Rows: 40,
				Cols: 40,
				Min:  [2]float64{-sc.GroundRadius, -sc.GroundRadius},
				Max:  [2]float64{sc.GroundRadius, sc.GroundRadius},
			},
		},
		Output: OutputConfig{
			Dir:     ".",
			Heatmap: "heatmap.png",
			Sunpath: "sunpath.png",
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Solar returns the sun settings.
func (c *Config) Solar() solar.Config {
	return solar.Config{
		Longitude:    c.Site.Longitude,
		Latitude:     c.Site.Latitude,
		Month:        c.Site.Month,
		Day:          c.Site.Day,
		Hour:         c.Site.Hour,
		Minute:       c.Site.Minute,
		GroundRadius: c.Site.GroundRadius,
		PathDiv:      c.Site.PathDiv,
	}
}

// Duration returns the analyzer settings.
func (c *Config) Duration() (duration.Config, error) {
	m, err := shadow.ParseMethod(c.Analysis.Method)
	if err != nil {
		return duration.Config{}, err
	}
	return duration.Config{
		Method:         m,
		Workers:        c.Analysis.Workers,
		JoinTimeout:    c.Analysis.JoinTimeout,
		ShutdownGrace:  c.Analysis.ShutdownGrace,
		NormalOffset:   c.Analysis.NormalOffset,
		AltitudeMeters: c.Site.AltitudeM,
	}, nil
}

// GridBound returns the area covered by the grid.
func (c *Config) GridBound() orb.Bound {
	g := c.Analysis.Grid
	return orb.Bound{Min: orb.Point(g.Min), Max: orb.Point(g.Max)}
}

// Validate checks that c describes a runnable analysis.
func (c *Config) Validate() error {
	if _, err := solar.NewSun(c.Solar()); err != nil {
		return fmt.Errorf("site: %w", err)
	}
	dc, err := c.Duration()
	if err != nil {
		return fmt.Errorf("analysis: %w", err)
	}
	if err := dc.Validate(); err != nil {
		return fmt.Errorf("analysis: %w", err)
	}
	if g := c.Analysis.Grid; g.Rows != 0 || g.Cols != 0 {
		if g.Rows < 1 || g.Cols < 1 {
			return fmt.Errorf("analysis: grid must be at least 1x1, got %dx%d", g.Rows, g.Cols)
		}
		if !(g.Max[0] > g.Min[0] && g.Max[1] > g.Min[1]) {
			return fmt.Errorf("analysis: grid bound %v-%v has no area", g.Min, g.Max)
		}
	}
	for i, s := range c.Analysis.Samples {
		if s.Normal != nil && *s.Normal == [3]float64{} {
			return fmt.Errorf("analysis: sample %d has a zero normal", i)
		}
	}
	for i, b := range c.Buildings {
		if err := b.validate(); err != nil {
			return fmt.Errorf("building %d (%s): %w", i, b.Name, err)
		}
	}
	if _, err := parseLevel(c.Logging.Level); err != nil {
		return fmt.Errorf("logging: %w", err)
	}
	return nil
}

func (b BuildingConfig) validate() error {
	switch {
	case b.STL != "" && len(b.Shell) > 0:
		return fmt.Errorf("both stl and shell given")
	case b.STL != "":
		if b.Scale < 0 {
			return fmt.Errorf("negative scale %v", b.Scale)
		}
	case len(b.Shell) < 3:
		return fmt.Errorf("shell has %d points, need at least 3", len(b.Shell))
	case b.Height <= 0:
		return fmt.Errorf("height must be positive, got %v", b.Height)
	}
	for i, h := range b.Holes {
		if len(h) < 3 {
			return fmt.Errorf("hole %d has %d points, need at least 3", i, len(h))
		}
	}
	return nil
}

// Base returns the base polygon of an extruded building.
func (b BuildingConfig) Base() orb.Polygon {
	poly := orb.Polygon{ring(b.Shell)}
	for _, h := range b.Holes {
		poly = append(poly, ring(h))
	}
	return poly
}

func ring(pts [][2]float64) orb.Ring {
	r := make(orb.Ring, len(pts))
	for i, p := range pts {
		r[i] = orb.Point(p)
	}
	return r
}
