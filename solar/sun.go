package solar

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// A Sun tracks the sun's position for a location, date and local time.
//
// Its state is staged in two records: DayFacts, which only changes with
// the location or date, and an Instant, which changes with the time of
// day. Every setter validates its input first and leaves the Sun
// untouched on error.
//
// A Sun is not safe for concurrent mutation. Analyses read a snapshot
// of its Path, which is immutable.
type Sun struct {
	radius float64

	facts DayFacts
	now   Instant

	pathDiv int
	path    *Path
}

// NewSun returns a Sun initialized from cfg.
func NewSun(cfg Config) (*Sun, error) {
	if err := checkRadius(cfg.GroundRadius); err != nil {
		return nil, err
	}
	if err := checkPathDiv(cfg.PathDiv); err != nil {
		return nil, err
	}
	if err := checkClock(cfg.Hour, cfg.Minute); err != nil {
		return nil, err
	}
	facts, err := NewDayFacts(cfg.Longitude, cfg.Latitude, cfg.Month, cfg.Day)
	if err != nil {
		return nil, err
	}
	s := &Sun{radius: cfg.GroundRadius, facts: facts, pathDiv: cfg.PathDiv}
	s.now = facts.At(clockHours(cfg.Hour, cfg.Minute), s.radius)
	s.path = s.computePath()
	return s, nil
}

// SetLocation sets the longitude and latitude in degrees.
func (s *Sun) SetLocation(lon, lat float64) error {
	facts, err := NewDayFacts(lon, lat, s.facts.Month, s.facts.Day)
	if err != nil {
		return err
	}
	s.setFacts(facts)
	return nil
}

// SetDate sets the month and day of a non-leap year.
func (s *Sun) SetDate(month, day int) error {
	facts, err := NewDayFacts(s.facts.Longitude, s.facts.Latitude, month, day)
	if err != nil {
		return err
	}
	s.setFacts(facts)
	return nil
}

func (s *Sun) setFacts(facts DayFacts) {
	s.facts = facts
	s.now = facts.At(s.now.Hours, s.radius)
	s.path = s.computePath()
}

// SetTime sets the local time in hours in [0, 24]. The sun path is not
// recomputed.
func (s *Sun) SetTime(hours float64) error {
	if err := checkHours(hours); err != nil {
		return err
	}
	s.now = s.facts.At(hours, s.radius)
	return nil
}

// SetClock sets the local time as hour and minute. 24:00 is accepted as
// the end of the day.
func (s *Sun) SetClock(hour, minute int) error {
	if err := checkClock(hour, minute); err != nil {
		return err
	}
	return s.SetTime(clockHours(hour, minute))
}

// SetPathDiv sets the number of samples in the sun path and recomputes
// it.
func (s *Sun) SetPathDiv(n int) error {
	if err := checkPathDiv(n); err != nil {
		return err
	}
	s.pathDiv = n
	s.path = s.computePath()
	return nil
}

func clockHours(hour, minute int) float64 {
	return float64(hour) + float64(minute)/60
}

// Location returns the longitude and latitude in degrees.
func (s *Sun) Location() (lon, lat float64) {
	return s.facts.Longitude, s.facts.Latitude
}

// Date returns the month and day.
func (s *Sun) Date() (month, day int) {
	return s.facts.Month, s.facts.Day
}

// Hours returns the local time in hours.
func (s *Sun) Hours() float64 {
	return s.now.Hours
}

// Clock returns the local time rounded to the minute.
func (s *Sun) Clock() (hour, minute int) {
	return hoursToClock(s.now.Hours)
}

func hoursToClock(hours float64) (hour, minute int) {
	hour = int(math.Floor(hours))
	minute = int(math.Round((hours - float64(hour)) * 60))
	if minute == 60 {
		hour, minute = hour+1, 0
	}
	return
}

// Elevation returns the sun's elevation in radians.
func (s *Sun) Elevation() float64 { return s.now.Elevation }

// Azimuth returns the sun's azimuth in radians, 0 being north.
func (s *Sun) Azimuth() float64 { return s.now.Azimuth }

// Position returns the direction of the sun scaled to the ground
// radius.
func (s *Sun) Position() r3.Vec { return s.now.Dir }

// GroundRadius returns the radius of the sun sphere.
func (s *Sun) GroundRadius() float64 { return s.radius }

// Day returns the current date-level facts.
func (s *Sun) Day() DayFacts { return s.facts }

// Now returns the current instant.
func (s *Sun) Now() Instant { return s.now }

// At returns the sun's state at another time on the current date
// without changing the Sun.
func (s *Sun) At(hours float64) (Instant, error) {
	if err := checkHours(hours); err != nil {
		return Instant{}, err
	}
	return s.facts.At(hours, s.radius), nil
}

// Polar reports whether the current date is a polar day or night.
func (s *Sun) Polar() bool { return s.facts.Polar }

// Sunrise returns the local sunrise time in hours.
func (s *Sun) Sunrise() float64 { return s.facts.Sunrise }

// Sunset returns the local sunset time in hours.
func (s *Sun) Sunset() float64 { return s.facts.Sunset }

// SunlightDuration returns the hours between sunrise and sunset.
func (s *Sun) SunlightDuration() float64 { return s.facts.SunlightDuration() }

// PathDiv returns the number of sun path samples.
func (s *Sun) PathDiv() int { return s.pathDiv }

// Path returns the sun path of the current date, or nil if the date is
// a polar night. The returned Path must not be modified.
func (s *Sun) Path() *Path { return s.path }

func (s *Sun) String() string {
	h, m := s.Clock()
	return fmt.Sprintf("Sun{ %.2f° %.2f° %d-%d %02d:%02d }",
		s.facts.Longitude, s.facts.Latitude, s.facts.Month, s.facts.Day, h, m)
}
