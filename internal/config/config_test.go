package config

import (
	"flag"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/aclements/sunhours/shadow"
)

func newFlagSet() *flag.FlagSet {
	fs := flag.NewFlagSet("sunhours", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	return fs
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "sunhours.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()
	if cfg.Site.Longitude != 117 || cfg.Site.Latitude != 24 {
		t.Errorf("expected location 117, 24, got %v, %v", cfg.Site.Longitude, cfg.Site.Latitude)
	}
	if cfg.Site.Month != 6 || cfg.Site.Day != 22 || cfg.Site.Hour != 14 {
		t.Errorf("expected Jun 22 14:00, got %d-%d %d:%d", cfg.Site.Month, cfg.Site.Day, cfg.Site.Hour, cfg.Site.Minute)
	}
	if cfg.Analysis.Workers != 25 {
		t.Errorf("expected 25 workers, got %d", cfg.Analysis.Workers)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config invalid: %v", err)
	}
	dc, err := cfg.Duration()
	if err != nil || dc.Method != shadow.Facet {
		t.Errorf("Duration() = %+v, %v", dc, err)
	}
}

func TestLoadPriority(t *testing.T) {
	path := writeConfig(t, `
site:
  longitude: -29
  latitude: 56
  month: 12
  day: 22
analysis:
  method: volume
  join_timeout: 30s
  grid:
    rows: 10
    cols: 20
    min: [-10, -10]
    max: [10, 10]
buildings:
  - name: tower
    shell: [[0, 0], [10, 0], [10, 10], [0, 10]]
    holes: [[[4, 4], [6, 4], [6, 6], [4, 6]]]
    height: 30
  - stl: model.stl
    scale: 0.0254
logging:
  level: warn
`)
	cfg, err := Load(newFlagSet(), []string{"-config", path, "-time", "12:20", "-lat", "50", "-debug"})
	if err != nil {
		t.Fatal(err)
	}
	// From the file.
	if cfg.Site.Longitude != -29 || cfg.Site.Month != 12 || cfg.Site.Day != 22 {
		t.Errorf("file site not applied: %+v", cfg.Site)
	}
	if cfg.Analysis.Method != "volume" || cfg.Analysis.JoinTimeout != 30*time.Second {
		t.Errorf("file analysis not applied: %+v", cfg.Analysis)
	}
	if cfg.Analysis.Grid.Rows != 10 || cfg.Analysis.Grid.Cols != 20 {
		t.Errorf("grid = %+v", cfg.Analysis.Grid)
	}
	if len(cfg.Buildings) != 2 || cfg.Buildings[0].Height != 30 || cfg.Buildings[1].STL != "model.stl" {
		t.Errorf("buildings = %+v", cfg.Buildings)
	}
	// Defaults survive.
	if cfg.Analysis.Workers != 25 || cfg.Site.PathDiv != 30 {
		t.Errorf("defaults lost: workers %d, path div %d", cfg.Analysis.Workers, cfg.Site.PathDiv)
	}
	// Flags win.
	if cfg.Site.Latitude != 50 || cfg.Site.Hour != 12 || cfg.Site.Minute != 20 {
		t.Errorf("flags not applied: %+v", cfg.Site)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("expected debug logging, got %q", cfg.Logging.Level)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate: %v", err)
	}

	base := cfg.Buildings[0].Base()
	if len(base) != 2 || len(base[1]) != 4 {
		t.Errorf("Base() = %v", base)
	}
}

func TestLoadErrors(t *testing.T) {
	if _, err := Load(newFlagSet(), []string{"-config", "/nonexistent/sunhours.yaml"}); err == nil {
		t.Error("expected error loading missing file")
	}
	bad := writeConfig(t, "site:\n  latitude: north\n")
	if _, err := Load(newFlagSet(), []string{"-config", bad}); err == nil {
		t.Error("expected error loading invalid YAML")
	}
	if _, err := Load(newFlagSet(), []string{"-date", "June"}); err == nil {
		t.Error("expected error for a bad -date")
	}
	if _, err := Load(newFlagSet(), []string{"-bogus"}); err == nil {
		t.Error("expected error for an unknown flag")
	}
}

func TestValidate(t *testing.T) {
	for _, test := range []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"latitude", func(c *Config) { c.Site.Latitude = 91 }, "site"},
		{"method", func(c *Config) { c.Analysis.Method = "raytrace" }, "analysis"},
		{"workers", func(c *Config) { c.Analysis.Workers = 0 }, "analysis"},
		{"grid", func(c *Config) { c.Analysis.Grid.Max[0] = -200 }, "grid bound"},
		{"building", func(c *Config) {
			c.Buildings = []BuildingConfig{{Shell: [][2]float64{{0, 0}, {1, 0}}, Height: 1}}
		}, "shell has 2 points"},
		{"both", func(c *Config) {
			c.Buildings = []BuildingConfig{{STL: "a.stl", Shell: [][2]float64{{0, 0}, {1, 0}, {1, 1}}}}
		}, "both"},
		{"level", func(c *Config) { c.Logging.Level = "loud" }, "logging"},
	} {
		cfg := Default()
		test.mutate(cfg)
		err := cfg.Validate()
		if err == nil || !strings.Contains(err.Error(), test.want) {
			t.Errorf("%s: got %v, want error containing %q", test.name, err, test.want)
		}
	}
}

func TestSaveTo(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "sunhours.yaml")
	cfg := Default()
	cfg.Site.Latitude = 40
	if err := cfg.SaveTo(path); err != nil {
		t.Fatal(err)
	}
	got, err := Load(newFlagSet(), []string{"-config", path})
	if err != nil {
		t.Fatal(err)
	}
	if got.Site.Latitude != 40 || got.Analysis.JoinTimeout != cfg.Analysis.JoinTimeout {
		t.Errorf("reloaded config differs: %+v", got.Site)
	}
	if got.Output.WriteConfig != "" {
		t.Errorf("write path was saved: %q", got.Output.WriteConfig)
	}

	got, err = Load(newFlagSet(), []string{"-write-config", path})
	if err != nil {
		t.Fatal(err)
	}
	if got.Output.WriteConfig != path {
		t.Errorf("WriteConfig = %q, want %q", got.Output.WriteConfig, path)
	}
}
