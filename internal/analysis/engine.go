// Package analysis turns the retained trajectory samples of one file into
// per-flight feature records.
package analysis

import (
	"context"
	"math"
	"path/filepath"
	"time"

	"github.com/jengzang/trajectory-features/internal/config"
	"github.com/jengzang/trajectory-features/internal/models"
	"github.com/jengzang/trajectory-features/internal/spatial"
	"github.com/jengzang/trajectory-features/pkg/logger"
)

// Thresholds configures plateau detection and the climb filter.
type Thresholds struct {
	PlateauGrace             time.Duration // no plateau before atot + grace
	PlateauAltitudeTolerance float64       // ft above the previous sample still counted as level
	ClimbAltitudeRatio       float64       // near-level floor as a fraction of fl_mode
	ClimbVerticalRateLimit   float64       // ft/min; larger |vertical_rate| is treated as a glitch
	ConsistentAirspeedAngle  bool
}

// DefaultThresholds matches the reference feature set.
var DefaultThresholds = Thresholds{
	PlateauGrace:             10 * time.Minute,
	PlateauAltitudeTolerance: 200,
	ClimbAltitudeRatio:       0.7,
	ClimbVerticalRateLimit:   1000,
}

// ThresholdsFromConfig converts the configured feature parameters.
func ThresholdsFromConfig(p config.FeatureParams) Thresholds {
	return Thresholds{
		PlateauGrace:             p.PlateauGrace(),
		PlateauAltitudeTolerance: p.PlateauAltitudeTolerance,
		ClimbAltitudeRatio:       p.ClimbAltitudeRatio,
		ClimbVerticalRateLimit:   p.ClimbVerticalRateLimit,
		ConsistentAirspeedAngle:  p.ConsistentAirspeedAngle,
	}
}

// FileAnalyzer computes the feature records of one trajectory file.
type FileAnalyzer struct {
	Thresholds Thresholds
	log        *logger.Logger
}

// NewFileAnalyzer creates a new file analyzer
func NewFileAnalyzer(th Thresholds, log *logger.Logger) *FileAnalyzer {
	return &FileAnalyzer{Thresholds: th, log: log.Named("analysis")}
}

// Analyze derives the kinematic fields of points (in place) and returns
// one record per flight. Flights without points produce no record.
func (a *FileAnalyzer) Analyze(ctx context.Context, sourceFile string, points []models.TrajectoryPoint) (models.FileResult, error) {
	name := filepath.Base(sourceFile)
	log := a.log.With(logger.String("file", name))

	log.Debug("Wind speed calculation START")
	DeriveKinematics(points, spatial.WindOptions{ConsistentAirspeedAngle: a.Thresholds.ConsistentAirspeedAngle})
	log.Debug("Wind speed calculation END")

	flights := GroupFlights(points)
	records := make([]models.FeatureRecord, 0, len(flights))

	log.Debug("Max altitude START", logger.Int("flights", len(flights)))
	plateaus := 0
	for _, f := range flights {
		if err := ctx.Err(); err != nil {
			return models.FileResult{}, err
		}
		rec := a.analyzeFlight(f, name)
		if !rec.PlateauTimestamp.IsZero() {
			plateaus++
		}
		records = append(records, rec)
	}
	log.Debug("Max altitude END", logger.Int("plateaus", plateaus))

	return models.FileResult{SourceFile: name, Records: records}, nil
}

// analyzeFlight left-joins the climb, ground and plateau aggregates onto
// the altitude aggregate. Ratios are left unguarded: a zero or missing
// duration yields Inf or NaN.
func (a *FileAnalyzer) analyzeFlight(f Flight, sourceFile string) models.FeatureRecord {
	rec := models.NewFeatureRecord(f.ID, sourceFile)

	alt := AggregateAltitude(f.Points)
	rec.FLMode = alt.FLMode
	rec.FLMax = alt.FLMax
	rec.FLMedian = alt.FLMedian

	ground := ComputeGroundReference(f.Points)
	rec.FLGround = ground.FLGround
	rec.GroundWindSpeed = ground.WindSpeed
	rec.GroundWindDirection = ground.WindDirection
	rec.GroundAirspeed = ground.Airspeed
	rec.GroundAirspeedAngle = ground.AirspeedAngle

	if climb, ok := AggregateClimb(f.Points, alt.FLMode, a.Thresholds); ok {
		rec.ModeLevelTimestamp = climb.ModeLevelTimestamp
		rec.ClimbDurationMin = climb.ClimbDurationMin
		rec.VerticalRateMode = climb.VerticalRateMode
		rec.VerticalRateMax = climb.VerticalRateMax
		rec.VerticalRateMean = climb.VerticalRateMean
	}

	if plateau, ok := DetectPlateau(f.Points, a.Thresholds); ok {
		rec.PlateauTimestamp = plateau.Timestamp
		rec.PlateauAltitude = plateau.Altitude
		rec.PlateauClimbDurationMin = plateau.ClimbDurationMin
		rec.PlateauWindSpeed = plateau.WindSpeed
		rec.PlateauWindDirection = plateau.WindDirection
		rec.PlateauAirspeed = plateau.Airspeed
		rec.PlateauAirspeedAngle = plateau.AirspeedAngle
	}

	rec.FLMaxClimbRateAvg = (rec.FLMedian - rec.FLGround) / rec.ClimbDurationMin
	rec.PlateauClimbRateAvg = (rec.PlateauAltitude - rec.FLGround) / rec.PlateauClimbDurationMin
	return rec
}

func nan() float64 {
	return math.NaN()
}
