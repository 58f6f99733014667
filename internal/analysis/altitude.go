package analysis

import (
	"github.com/jengzang/trajectory-features/internal/models"
	"github.com/jengzang/trajectory-features/internal/stats"
)

// AltitudeAggregate estimates the flight level from the altitude
// distribution of a flight. The three estimates differ in how they react
// to short altitude excursions.
type AltitudeAggregate struct {
	FLMode   float64 // largest most-frequent altitude
	FLMax    float64
	FLMedian float64
}

// AggregateAltitude computes the flight level estimates.
func AggregateAltitude(pts []models.TrajectoryPoint) AltitudeAggregate {
	alts := altitudes(pts)
	return AltitudeAggregate{
		FLMode:   stats.ModeMax(alts),
		FLMax:    stats.Max(alts),
		FLMedian: stats.Median(alts),
	}
}

// GroundReference is the state of the flight at its first retained samples.
type GroundReference struct {
	FLGround float64 // lowest retained altitude
	AirState
}

// ComputeGroundReference takes wind and airspeed from the chronologically
// first samples where they are known and the ground level as the minimum
// over all samples.
func ComputeGroundReference(pts []models.TrajectoryPoint) GroundReference {
	return GroundReference{
		FLGround: stats.Min(altitudes(pts)),
		AirState: firstAirState(pts),
	}
}
