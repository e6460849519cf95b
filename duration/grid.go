package duration

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/paulmach/orb"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// ErrJoinTimeout is returned when grid workers do not finish within the
// configured join timeout.
var ErrJoinTimeout = errors.New("grid analysis timed out")

// A Grid holds the sunlight duration at the center of each cell of a
// regular grid over Bound. Durations is row-major and row 0 lies along
// Bound.Min.
type Grid struct {
	Bound      orb.Bound
	Rows, Cols int

	CellWidth, CellHeight float64

	Durations []float64
}

func newGrid(bound orb.Bound, rows, cols int) (*Grid, error) {
	if rows < 1 || cols < 1 {
		return nil, fmt.Errorf("grid must have at least one cell, got %dx%d", rows, cols)
	}
	w, h := bound.Max[0]-bound.Min[0], bound.Max[1]-bound.Min[1]
	if !(w > 0 && h > 0) || math.IsInf(w, 0) || math.IsInf(h, 0) {
		return nil, fmt.Errorf("grid bound %v has no area", bound)
	}
	return &Grid{
		Bound:      bound,
		Rows:       rows,
		Cols:       cols,
		CellWidth:  w / float64(cols),
		CellHeight: h / float64(rows),
		Durations:  make([]float64, rows*cols),
	}, nil
}

// At returns the duration of the cell at row, col.
func (g *Grid) At(row, col int) float64 {
	return g.Durations[row*g.Cols+col]
}

// Center returns the center of the cell at row, col.
func (g *Grid) Center(row, col int) orb.Point {
	return orb.Point{
		g.Bound.Min[0] + (float64(col)+0.5)*g.CellWidth,
		g.Bound.Min[1] + (float64(row)+0.5)*g.CellHeight,
	}
}

// Min returns the smallest duration in g.
func (g *Grid) Min() float64 {
	m := math.Inf(1)
	for _, d := range g.Durations {
		m = math.Min(m, d)
	}
	return m
}

// Max returns the largest duration in g.
func (g *Grid) Max() float64 {
	m := math.Inf(-1)
	for _, d := range g.Durations {
		m = math.Max(m, d)
	}
	return m
}

// GridAnalysis computes the ground sunlight duration at the center of
// each cell of a rows×cols grid over bound. Cells are evaluated by a
// bounded pool of workers.
//
// If the workers do not finish within the join timeout they are
// cancelled and GridAnalysis returns ErrJoinTimeout.
func (a *Analyzer) GridAnalysis(bound orb.Bound, rows, cols int) (*Grid, error) {
	g, err := newGrid(bound, rows, cols)
	if err != nil {
		return nil, err
	}
	days := a.days
	if days == nil {
		return g, nil
	}

	start := time.Now()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(a.cfg.Workers)

	done := make(chan error, 1)
	go func() {
		for i := range g.Durations {
			if ctx.Err() != nil {
				break
			}
			i := i
			eg.Go(func() error {
				if err := ctx.Err(); err != nil {
					return err
				}
				g.Durations[i] = a.evalCell(days, g.Center(i/cols, i%cols))
				return nil
			})
		}
		done <- eg.Wait()
	}()

	timer := time.NewTimer(a.cfg.JoinTimeout)
	defer timer.Stop()
	select {
	case err := <-done:
		if err != nil {
			return nil, err
		}
		a.log.Info("grid analysis done",
			zap.Int("cells", len(g.Durations)),
			zap.Int("workers", a.cfg.Workers),
			zap.Duration("elapsed", time.Since(start)))
		return g, nil
	case <-timer.C:
	}

	a.log.Warn("grid analysis timed out; cancelling workers",
		zap.Duration("timeout", a.cfg.JoinTimeout),
		zap.Int("cells", len(g.Durations)))
	cancel()
	select {
	case <-done:
	case <-time.After(a.cfg.ShutdownGrace):
		a.log.Warn("grid workers still running after grace period",
			zap.Duration("grace", a.cfg.ShutdownGrace))
	}
	return nil, ErrJoinTimeout
}
