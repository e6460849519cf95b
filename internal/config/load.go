package config

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"
)

// flags holds the command-line overrides registered on a FlagSet.
type flags struct {
	config  string
	lon     float64
	lat     float64
	date    string
	clock   string
	method  string
	workers int
	out     string
	debug   bool
	cache   bool
	write   string
}

func register(fs *flag.FlagSet) *flags {
	f := new(flags)
	fs.StringVar(&f.config, "config", "", "Path to config `file`")
	fs.Float64Var(&f.lon, "lon", 0, "Longitude in degrees, east positive")
	fs.Float64Var(&f.lat, "lat", 0, "Latitude in degrees, north positive")
	fs.StringVar(&f.date, "date", "", "Date as `MM-DD`")
	fs.StringVar(&f.clock, "time", "", "Local time as `HH:MM`")
	fs.StringVar(&f.method, "method", "", "Shadow method: facet or volume")
	fs.IntVar(&f.workers, "workers", 0, "Grid worker count")
	fs.StringVar(&f.out, "out", "", "Output `directory`")
	fs.BoolVar(&f.debug, "debug", false, "Enable debug logging")
	fs.BoolVar(&f.cache, "cache", false, "Reuse grid results from earlier runs")
	fs.StringVar(&f.write, "write-config", "", "Save the effective configuration to `file`")
	return f
}

// Load parses args into fs and loads configuration with priority:
// defaults < file < flags.
func Load(fs *flag.FlagSet, args []string) (*Config, error) {
	f := register(fs)
	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	cfg := Default()
	if f.config != "" {
		if err := loadFromFile(cfg, f.config); err != nil {
			return nil, fmt.Errorf("loading config from %s: %w", f.config, err)
		}
	}
	if err := f.apply(fs, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// loadFromFile loads config from a YAML file, merging with existing values.
func loadFromFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, cfg)
}

// apply copies the flags that were set on the command line into cfg.
func (f *flags) apply(fs *flag.FlagSet, cfg *Config) error {
	var err error
	fs.Visit(func(fl *flag.Flag) {
		if err != nil {
			return
		}
		switch fl.Name {
		case "lon":
			cfg.Site.Longitude = f.lon
		case "lat":
			cfg.Site.Latitude = f.lat
		case "date":
			_, err = fmt.Sscanf(f.date, "%d-%d", &cfg.Site.Month, &cfg.Site.Day)
			if err != nil {
				err = fmt.Errorf("bad -date %q: %w", f.date, err)
			}
		case "time":
			_, err = fmt.Sscanf(f.clock, "%d:%d", &cfg.Site.Hour, &cfg.Site.Minute)
			if err != nil {
				err = fmt.Errorf("bad -time %q: %w", f.clock, err)
			}
		case "method":
			cfg.Analysis.Method = f.method
		case "workers":
			cfg.Analysis.Workers = f.workers
		case "out":
			cfg.Output.Dir = f.out
		case "debug":
			if f.debug {
				cfg.Logging.Level = "debug"
			}
		case "cache":
			cfg.Output.Cache = f.cache
		case "write-config":
			cfg.Output.WriteConfig = f.write
		}
	})
	return err
}

func parseLevel(level string) (zapcore.Level, error) {
	return zapcore.ParseLevel(strings.ToLower(level))
}
