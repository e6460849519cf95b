package solar

// Config holds the initial state of a Sun. It replaces process-wide
// defaults so several models with different defaults can coexist.
type Config struct {
	// Longitude and Latitude are in degrees, where east and north are
	// positive, respectively.
	Longitude, Latitude float64

	Month, Day   int
	Hour, Minute int

	// GroundRadius scales the unit direction returned by Position.
	GroundRadius float64

	// PathDiv is the number of samples in a day's sun path.
	PathDiv int
}

// DefaultConfig returns the configuration of the original study site
// (117°E, 24°N) at 2pm on the summer solstice.
func DefaultConfig() Config {
	return Config{
		Longitude:    117,
		Latitude:     24,
		Month:        6,
		Day:          22,
		Hour:         14,
		Minute:       0,
		GroundRadius: 100,
		PathDiv:      30,
	}
}
