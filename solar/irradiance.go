package solar

import "math"

// DirectIrradiance returns the direct solar radiation in W/m² on a
// plane perpendicular to the sun at the given elevation (radians) and
// site altitude (meters). It returns 0 when the sun is below the
// horizon.
func DirectIrradiance(elevation, altitudeMeters float64) (wattsPerSquareMeter float64) {
	// This is based on https://www.pveducation.org/pvcdrom/properties-of-sunlight/air-mass
	if elevation < 0 {
		return 0
	}

	// Air mass is 1 with the sun overhead and ~38 at the horizon. The
	// core of this formula is 1/cos(Θ); the remaining terms account
	// for the curvature of the Earth.
	//
	// From Kasten, F. and Young, A. T., “Revised optical air mass
	// tables and approximation formula”, Applied Optics, vol. 28, pp.
	// 4735–4738, 1989.
	zenith := 90 - elevation*rad2deg
	airMass := 1 / (math.Cos(zenith*deg2rad) + 0.50572*math.Pow(96.07995-zenith, -1.6364))

	// From Meinel, A. B. and Meinel, M. P., Applied Solar Energy.
	// Addison Wesley Publishing Co., 1976.
	h := altitudeMeters / 1000
	const a = 0.14
	return 1353 * ((1-a*h)*math.Pow(0.7, math.Pow(airMass, 0.678)) + a*h)
}
