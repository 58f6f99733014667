package models

import (
	"math"
	"time"
)

// FeatureRecord is the per-flight aggregate produced for one source file.
// Missing values are NaN; a missing timestamp is the zero time.
type FeatureRecord struct {
	FlightID string

	// Flight level estimates
	FLMode   float64
	FLMax    float64
	FLMedian float64
	FLGround float64

	// Climb towards flight level
	ModeLevelTimestamp time.Time
	ClimbDurationMin   float64
	VerticalRateMode   float64
	VerticalRateMax    float64
	VerticalRateMean   float64
	FLMaxClimbRateAvg  float64

	// Wind and airspeed at the first retained sample
	GroundWindSpeed     float64
	GroundWindDirection float64
	GroundAirspeed      float64
	GroundAirspeedAngle float64

	// First climb plateau
	PlateauTimestamp        time.Time
	PlateauAltitude         float64
	PlateauClimbDurationMin float64
	PlateauClimbRateAvg     float64
	PlateauWindSpeed        float64
	PlateauWindDirection    float64
	PlateauAirspeed         float64
	PlateauAirspeedAngle    float64

	SourceFile string
}

// NewFeatureRecord returns a record whose numeric fields are all missing.
func NewFeatureRecord(flightID, sourceFile string) FeatureRecord {
	nan := math.NaN()
	return FeatureRecord{
		FlightID:                flightID,
		FLMode:                  nan,
		FLMax:                   nan,
		FLMedian:                nan,
		FLGround:                nan,
		ClimbDurationMin:        nan,
		VerticalRateMode:        nan,
		VerticalRateMax:         nan,
		VerticalRateMean:        nan,
		FLMaxClimbRateAvg:       nan,
		GroundWindSpeed:         nan,
		GroundWindDirection:     nan,
		GroundAirspeed:          nan,
		GroundAirspeedAngle:     nan,
		PlateauAltitude:         nan,
		PlateauClimbDurationMin: nan,
		PlateauClimbRateAvg:     nan,
		PlateauWindSpeed:        nan,
		PlateauWindDirection:    nan,
		PlateauAirspeed:         nan,
		PlateauAirspeedAngle:    nan,
		SourceFile:              sourceFile,
	}
}

// FeatureColumns is the output column order.
var FeatureColumns = []string{
	"flight_id",
	"fl_mode",
	"fl_max",
	"fl_median",
	"fl_ground",
	"mode_level_timestamp",
	"climb_duration_min",
	"vertical_rate_mode",
	"vertical_rate_max",
	"vertical_rate_mean",
	"fl_max_climb_rate_avg",
	"ground_wind_speed",
	"ground_wind_direction",
	"ground_airspeed",
	"ground_airspeed_angle",
	"plateau_timestamp",
	"plateau_altitude",
	"plateau_climb_duration_min",
	"plateau_climb_rate_avg",
	"plateau_wind_speed",
	"plateau_wind_direction",
	"plateau_airspeed",
	"plateau_airspeed_angle",
	"source_file",
}

// FileResult holds the records computed from one trajectory file.
type FileResult struct {
	SourceFile string
	Records    []FeatureRecord
}
