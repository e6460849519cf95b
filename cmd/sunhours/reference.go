package main

import (
	"math"
	"time"

	"github.com/sixdouglas/suncalc"

	"github.com/aclements/sunhours/solar"
)

// A SunPos is a sun position from an independent ephemeris, used to
// sanity check the closed-form model.
type SunPos struct {
	T time.Time

	// Altitude is the altitude of the sun in the alt-azimuth coordinate
	// system, in degrees. This ranges from -90 to 90, where 0 is the
	// horizon and 90 is directly overhead.
	Altitude float64

	// Azimuth is the azimuth of the sun in the alt-azimuth coordinate
	// system, in degrees. This ranges from 0 to 360, where 0 is north
	// and 90 is east.
	Azimuth float64
}

// referencePosition returns the suncalc position for sun's location,
// date and clock time. The clock is interpreted in the standard time
// zone of the local standard time meridian, in a non-leap year.
func referencePosition(sun *solar.Sun) SunPos {
	lon, lat := sun.Location()
	month, day := sun.Date()
	hour, minute := sun.Clock()
	zone := time.FixedZone("LST", int(math.Round(sun.Day().LSTM/15))*3600)
	t := time.Date(2021, time.Month(month), day, hour, minute, 0, 0, zone)
	return GetSunPos(t, lat, lon)
}

// GetSunPos returns the sun position in horizonal alt-azimuth
// coordinates at the given time and location. Latitude and longitude
// are in degrees, where north and east are positive, respectively.
func GetSunPos(t time.Time, latitude, longitude float64) SunPos {
	p := suncalc.GetPosition(t, latitude, longitude)
	// suncalc returns angles in radians (even though it takes latitude
	// and longitude in degrees). Also, it uses a non-standard
	// convention for azimuth where -90 is east, 0 is south, 90 is west,
	// and 180 is north.
	const rad2deg = 180 / math.Pi
	return SunPos{t, p.Altitude * rad2deg, p.Azimuth*rad2deg + 180}
}
