package analysis

import (
	"time"

	"github.com/jengzang/trajectory-features/internal/models"
)

// Plateau is the first stabilisation of altitude after the initial climb.
type Plateau struct {
	Timestamp        time.Time
	Altitude         float64
	ClimbDurationMin float64 // minutes from take-off to the plateau
	AirState
}

// DetectPlateau finds the samples, at least the grace period after
// take-off, that either have a zero vertical rate or are no more than the
// tolerance above the previous sample. The earliest of them dates the
// plateau; altitude, wind and airspeed are the first known values among
// them. pts must be chronological with AltitudePrev set. ok is false when
// no sample qualifies.
func DetectPlateau(pts []models.TrajectoryPoint, th Thresholds) (Plateau, bool) {
	var candidates []models.TrajectoryPoint
	for _, p := range pts {
		if p.Timestamp.Before(p.ATOT.Add(th.PlateauGrace)) {
			continue
		}
		if p.VerticalRate == 0 || p.Altitude <= p.AltitudePrev+th.PlateauAltitudeTolerance {
			candidates = append(candidates, p)
		}
	}
	if len(candidates) == 0 {
		return Plateau{}, false
	}

	first := candidates[0]
	return Plateau{
		Timestamp:        first.Timestamp,
		Altitude:         firstValid(candidates, func(p models.TrajectoryPoint) float64 { return p.Altitude }),
		ClimbDurationMin: first.MinutesSinceTakeoff(),
		AirState:         firstAirState(candidates),
	}, true
}
