package solar

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidParameter is wrapped by every validation failure in this
// package. A failed setter leaves the Sun unchanged.
var ErrInvalidParameter = errors.New("invalid parameter")

// monthDays is the non-leap-year month length table.
var monthDays = [12]int{31, 28, 31, 30, 31, 30, 31, 31, 30, 31, 30, 31}

func checkLocation(lon, lat float64) error {
	if math.IsNaN(lon) || lon < -180 || lon > 180 {
		return fmt.Errorf("%w: longitude must be between -180 (west) and 180 (east): %v", ErrInvalidParameter, lon)
	}
	if math.IsNaN(lat) || lat < -90 || lat > 90 {
		return fmt.Errorf("%w: latitude must be between -90 (south) and 90 (north): %v", ErrInvalidParameter, lat)
	}
	return nil
}

func checkDate(month, day int) error {
	if month < 1 || month > 12 {
		return fmt.Errorf("%w: month must be between 1 and 12: %d", ErrInvalidParameter, month)
	}
	if n := monthDays[month-1]; day < 1 || day > n {
		return fmt.Errorf("%w: day must be between 1 and %d in month %d: %d", ErrInvalidParameter, n, month, day)
	}
	return nil
}

func checkClock(hour, minute int) error {
	if hour == 24 && minute == 0 {
		return nil
	}
	if hour < 0 || hour > 23 {
		return fmt.Errorf("%w: hour must be between 0 and 23: %d", ErrInvalidParameter, hour)
	}
	if minute < 0 || minute > 59 {
		return fmt.Errorf("%w: minute must be between 0 and 59: %d", ErrInvalidParameter, minute)
	}
	return nil
}

func checkHours(hours float64) error {
	if math.IsNaN(hours) || hours < 0 || hours > 24 {
		return fmt.Errorf("%w: hours must be between 0 and 24: %v", ErrInvalidParameter, hours)
	}
	return nil
}

func checkPathDiv(n int) error {
	// The first and last samples are the sunrise/sunset boundaries, so
	// at least one interior sample is needed.
	if n < 3 {
		return fmt.Errorf("%w: path subdivisions must be at least 3: %d", ErrInvalidParameter, n)
	}
	return nil
}

func checkRadius(r float64) error {
	if math.IsNaN(r) || r <= 0 {
		return fmt.Errorf("%w: ground radius must be positive: %v", ErrInvalidParameter, r)
	}
	return nil
}

// dayOfYear counts days from January 1st (day 1) without a leap day.
func dayOfYear(month, day int) int {
	n := day
	for m := 1; m < month; m++ {
		n += monthDays[m-1]
	}
	return n
}

// clampUnit bounds a trigonometric value to [-1, 1] to absorb
// floating-point overshoot before asin/acos.
func clampUnit(x float64) float64 {
	return math.Max(-1, math.Min(1, x))
}
