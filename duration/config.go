package duration

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/aclements/sunhours/shadow"
)

// Config controls an Analyzer.
type Config struct {
	// Method is the shadow projection used by 2-D analyses.
	Method shadow.Method

	// Workers bounds the number of grid cells evaluated at once.
	Workers int

	// JoinTimeout bounds how long GridAnalysis waits for its workers.
	// When it expires, outstanding work is cancelled and, after
	// ShutdownGrace, GridAnalysis returns ErrJoinTimeout.
	JoinTimeout   time.Duration
	ShutdownGrace time.Duration

	// NormalOffset is how far a sampling point is lifted along its
	// normal before tracing rays, so it does not hit its own surface.
	NormalOffset float64

	// AltitudeMeters is the site altitude, used for insolation.
	AltitudeMeters float64
}

// DefaultConfig returns the default analysis settings.
func DefaultConfig() Config {
	return Config{
		Method:        shadow.Facet,
		Workers:       25,
		JoinTimeout:   time.Minute,
		ShutdownGrace: 5 * time.Second,
		NormalOffset:  1,
	}
}

// Validate checks that c is usable.
func (c Config) Validate() error {
	switch {
	case c.Workers < 1:
		return fmt.Errorf("workers must be at least 1, got %d", c.Workers)
	case c.JoinTimeout <= 0:
		return fmt.Errorf("join timeout must be positive, got %v", c.JoinTimeout)
	case c.ShutdownGrace < 0:
		return fmt.Errorf("shutdown grace must not be negative, got %v", c.ShutdownGrace)
	case c.NormalOffset < 0:
		return fmt.Errorf("normal offset must not be negative, got %v", c.NormalOffset)
	}
	return nil
}

// An Option configures an Analyzer.
type Option func(*Analyzer)

// WithConfig replaces the analyzer's settings. Invalid fields are left
// at their defaults.
func WithConfig(c Config) Option {
	return func(a *Analyzer) {
		def := DefaultConfig()
		if c.Workers < 1 {
			c.Workers = def.Workers
		}
		if c.JoinTimeout <= 0 {
			c.JoinTimeout = def.JoinTimeout
		}
		if c.ShutdownGrace < 0 {
			c.ShutdownGrace = def.ShutdownGrace
		}
		if c.NormalOffset < 0 {
			c.NormalOffset = def.NormalOffset
		}
		a.cfg = c
	}
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(l *zap.Logger) Option {
	return func(a *Analyzer) {
		if l != nil {
			a.log = l
		}
	}
}
