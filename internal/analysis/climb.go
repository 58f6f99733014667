package analysis

import (
	"time"

	"github.com/jengzang/trajectory-features/internal/models"
	"github.com/jengzang/trajectory-features/internal/stats"
)

// ClimbAggregate describes the ascent near the flight level.
type ClimbAggregate struct {
	ModeLevelTimestamp time.Time // first sample near the flight level
	ClimbDurationMin   float64   // minutes from take-off to ModeLevelTimestamp

	// Over the near-level samples that are still climbing
	VerticalRateMode float64
	VerticalRateMax  float64
	VerticalRateMean float64
}

// AggregateClimb keeps the samples at or above ClimbAltitudeRatio·flMode
// whose vertical rate is strictly inside ±ClimbVerticalRateLimit. ok is
// false when no sample survives the filter. Vertical rate aggregates are
// NaN when none of the kept samples is climbing.
func AggregateClimb(pts []models.TrajectoryPoint, flMode float64, th Thresholds) (ClimbAggregate, bool) {
	floor := th.ClimbAltitudeRatio * flMode

	var first *models.TrajectoryPoint
	var climbing []float64
	for i := range pts {
		p := &pts[i]
		if !(p.Altitude >= floor) {
			continue
		}
		if !(p.VerticalRate < th.ClimbVerticalRateLimit && p.VerticalRate > -th.ClimbVerticalRateLimit) {
			continue
		}
		if first == nil {
			first = p
		}
		if p.VerticalRate > 0 {
			climbing = append(climbing, p.VerticalRate)
		}
	}
	if first == nil {
		return ClimbAggregate{}, false
	}

	return ClimbAggregate{
		ModeLevelTimestamp: first.Timestamp,
		ClimbDurationMin:   first.MinutesSinceTakeoff(),
		VerticalRateMode:   stats.ModeMax(climbing),
		VerticalRateMax:    stats.Max(climbing),
		VerticalRateMean:   stats.Mean(climbing),
	}, true
}
