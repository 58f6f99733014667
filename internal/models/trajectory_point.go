package models

import "time"

// TrajectoryPoint is one positional sample of a flight. Numeric fields
// hold NaN when the source value is missing.
type TrajectoryPoint struct {
	FlightID     string
	Timestamp    time.Time
	Altitude     float64 // ft
	VerticalRate float64 // ft/min
	WindU        float64 // eastward wind component
	WindV        float64 // northward wind component
	Track        float64 // degrees, compass bearing
	GroundSpeed  float64

	// Take-off reference of the flight, joined from metadata
	ATOT time.Time

	// Derived fields, populated by the kinematic stage
	WindSpeed     float64
	WindDirection float64 // degrees
	Airspeed      float64
	AirspeedAngle float64 // degrees

	// Altitude of the previous sample of the same flight; NaN for the first
	AltitudePrev float64
}

// MinutesSinceTakeoff returns the elapsed minutes from ATOT to the sample.
func (p TrajectoryPoint) MinutesSinceTakeoff() float64 {
	return p.Timestamp.Sub(p.ATOT).Minutes()
}
