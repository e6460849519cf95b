package main

import (
	"fmt"
	"time"

	"gonum.org/v1/plot"
)

// timeOfDayTicks renders a time.Duration since midnight as a time of day.
type timeOfDayTicks struct {
	targetTicks int // Create around targetTicks number of ticks
}

func (o timeOfDayTicks) Ticks(min, max float64) []plot.Tick {
	dayBase := time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)
	return durationTickSet(min, max, o.targetTicks, func(t, _ time.Duration) string {
		return dayBase.Add(t).Format("15:04")
	})
}

// durationTicks renders a time.Duration as a length of time.
type durationTicks struct {
	targetTicks int // Create around targetTicks number of ticks
}

func (o durationTicks) Ticks(min, max float64) []plot.Tick {
	return durationTickSet(min, max, o.targetTicks, func(t, best time.Duration) string {
		if best%time.Hour == 0 {
			return fmt.Sprintf("%dh", int(t.Hours()))
		} else if best%time.Minute == 0 {
			return fmt.Sprintf("%dh%02dm", int(t.Hours()), int(t.Minutes())%60)
		}
		return t.String()
	})
}

// durationTickSet generates major and minor ticks over [min, max],
// labeling the major ticks with label.
func durationTickSet(min, max float64, targetTicks int, label func(t, best time.Duration) string) []plot.Tick {
	minD, maxD := time.Duration(min), time.Duration(max)
	best, minor := optimizeDurationTicks(minD, maxD, targetTicks)

	var ticks []plot.Tick
	first := int((minD + minor - 1) / minor)
	last := int(maxD / minor)
	minorFactor := int(best / minor)
	for i := first; i <= last; i++ {
		t := time.Duration(i) * minor
		l := ""
		if i%minorFactor == 0 {
			l = label(t, best)
		}
		ticks = append(ticks, plot.Tick{
			Value: float64(t),
			Label: l,
		})
	}
	return ticks
}

var durationScales = []time.Duration{12 * time.Hour, 3 * time.Hour, time.Hour, 30 * time.Minute, 10 * time.Minute, 5 * time.Minute, time.Minute}

func optimizeDurationTicks(minD, maxD time.Duration, targetTicks int) (best, minor time.Duration) {
	// Compute how many ticks would appear in [minD, maxD] for each
	// scale and pick the closest to targetTicks.
	bestNDelta := 0
	for i, scale := range durationScales {
		first := int((minD + scale - 1) / scale)
		last := int(maxD / scale)
		if n := last - first + 1; n > 0 {
			delta := n - targetTicks
			if delta < 0 {
				delta = -delta
			}
			if best == 0 || delta < bestNDelta {
				best, bestNDelta = scale, delta
				if i+1 < len(durationScales) {
					minor = durationScales[i+1]
				} else {
					minor = scale
				}
			}
		}
	}
	if best == 0 {
		best, minor = durationScales[0], durationScales[1]
	}
	return best, minor
}
