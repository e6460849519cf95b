package solar

import "testing"

func TestDirectIrradiance(t *testing.T) {
	// These tests are based on the tables at
	// https://www.ftexploring.com/solar-energy/air-mass-and-insolation2.htm
	// which report global radiation, taken here as direct radiation plus
	// 10% diffuse.
	global := func(elevationDeg float64) float64 {
		return 1.1 * DirectIrradiance(elevationDeg*deg2rad, 0)
	}
	assertBetween(t, "global at 90°", global(90), 1041, 1042)
	assertBetween(t, "global at 1°", global(1), 56, 57)
	assertBetween(t, "global at 0°", global(0), 22.4, 22.5)

	if got := DirectIrradiance(-0.1, 0); got != 0 {
		t.Errorf("below horizon: got %v, want 0", got)
	}
	if DirectIrradiance(0.5, 2000) <= DirectIrradiance(0.5, 0) {
		t.Errorf("irradiance does not increase with altitude")
	}
}
