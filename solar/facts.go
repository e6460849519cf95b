package solar

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

const (
	deg2rad = math.Pi / 180
	rad2deg = 180 / math.Pi
)

// DayFacts are the quantities that depend only on location and date.
// They are computed once per date and never change afterward.
//
// Angles are in degrees unless noted. The model follows
// https://www.pveducation.org/pvcdrom/properties-of-sunlight/solar-time
// and is accurate to within about a degree.
type DayFacts struct {
	Longitude, Latitude float64
	Month, Day          int

	// DayOfYear is in [1, 365]. Leap days are not modeled.
	DayOfYear int

	// B is the fractional-year angle, 360/365·(DayOfYear−81).
	B float64

	// EoT is the equation of time, in minutes.
	EoT float64

	// LSTM is the local standard time meridian.
	LSTM float64

	// TC is the time correction factor, in minutes.
	TC float64

	Declination float64

	// Sunrise and Sunset are local times in hours. For a polar day or
	// night they are 0 and 24.
	Sunrise, Sunset float64

	// Polar is set when the sun never rises or never sets on this date.
	Polar bool
}

// NewDayFacts computes the date-level facts for a validated location
// and date.
func NewDayFacts(lon, lat float64, month, day int) (DayFacts, error) {
	if err := checkLocation(lon, lat); err != nil {
		return DayFacts{}, err
	}
	if err := checkDate(month, day); err != nil {
		return DayFacts{}, err
	}
	return newDayFacts(lon, lat, month, day), nil
}

func newDayFacts(lon, lat float64, month, day int) DayFacts {
	d := DayFacts{
		Longitude: lon,
		Latitude:  lat,
		Month:     month,
		Day:       day,
		DayOfYear: dayOfYear(month, day),
	}
	d.B = 360.0 / 365 * float64(d.DayOfYear-81)
	bRad := d.B * deg2rad
	d.EoT = 9.87*math.Sin(2*bRad) - 7.53*math.Cos(bRad) - 1.5*math.Sin(bRad)
	d.LSTM = 15 * math.Round(lon/15)
	d.TC = 4*(lon-d.LSTM) + d.EoT
	d.Declination = 23.45 * math.Sin(bRad)

	// The sunrise hour angle solves elevation = 0.
	cosH := -math.Tan(lat*deg2rad) * math.Tan(d.Declination*deg2rad)
	if cosH < -1 || cosH > 1 {
		d.Sunrise, d.Sunset, d.Polar = 0, 24, true
		return d
	}
	half := math.Acos(cosH) * rad2deg / 15
	d.Sunrise = 12 - half - d.TC/60
	d.Sunset = 12 + half - d.TC/60
	if d.Sunrise == d.Sunset || d.Sunrise < 0 || d.Sunset > 24 {
		d.Sunrise, d.Sunset, d.Polar = 0, 24, true
	}
	return d
}

// SunlightDuration is the length of the sunlit window in hours.
func (d DayFacts) SunlightDuration() float64 {
	return d.Sunset - d.Sunrise
}

// An Instant is the sun's state at one local time on a DayFacts' date.
type Instant struct {
	// Hours is the local clock time in [0, 24].
	Hours float64

	// LST is the local solar time in hours and HRA the hour angle in
	// degrees (negative before solar noon).
	LST, HRA float64

	// Elevation is in radians in [-π/2, π/2]. Azimuth is in radians in
	// [0, 2π), where 0 is north and π/2 is east.
	Elevation, Azimuth float64

	// Dir points from the origin towards the sun, scaled to the ground
	// radius. X is east, Y is north, Z is up.
	Dir r3.Vec
}

// At combines the date-level facts with a local time. It is a pure
// function: elevation and azimuth are always derived together from the
// same declination and hour angle.
func (d DayFacts) At(hours, radius float64) Instant {
	in := Instant{Hours: hours}
	in.LST = hours + d.TC/60
	in.HRA = 15 * (in.LST - 12)

	lat := d.Latitude * deg2rad
	dec := d.Declination * deg2rad
	hra := in.HRA * deg2rad

	sinAl := math.Sin(dec)*math.Sin(lat) + math.Cos(dec)*math.Cos(lat)*math.Cos(hra)
	in.Elevation = math.Asin(clampUnit(sinAl))

	cosAl := math.Cos(in.Elevation)
	if cosAl > 1e-12 {
		cosAz := (math.Sin(dec)*math.Cos(lat) - math.Cos(dec)*math.Sin(lat)*math.Cos(hra)) / cosAl
		in.Azimuth = math.Acos(clampUnit(cosAz))
		if in.LST > 12 {
			in.Azimuth = 2*math.Pi - in.Azimuth
		}
		if in.Azimuth >= 2*math.Pi {
			in.Azimuth -= 2 * math.Pi
		}
	}

	in.Dir = r3.Scale(radius, r3.Vec{
		X: math.Cos(in.Elevation) * math.Sin(in.Azimuth),
		Y: math.Cos(in.Elevation) * math.Cos(in.Azimuth),
		Z: math.Sin(in.Elevation),
	})
	return in
}
