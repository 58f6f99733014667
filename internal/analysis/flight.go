package analysis

import (
	"math"
	"sort"
	"time"

	"github.com/jengzang/trajectory-features/internal/models"
	"github.com/jengzang/trajectory-features/internal/spatial"
)

// Flight is the chronologically ordered set of retained samples of one
// flight within one source file.
type Flight struct {
	ID     string
	ATOT   time.Time
	Points []models.TrajectoryPoint
}

// DeriveKinematics fills the wind and airspeed fields of every point.
func DeriveKinematics(points []models.TrajectoryPoint, opts spatial.WindOptions) {
	for i := range points {
		p := &points[i]
		k := spatial.DecomposeWind(p.WindU, p.WindV, p.Track, p.GroundSpeed, opts)
		p.WindSpeed = k.WindSpeed
		p.WindDirection = k.WindDirection
		p.Airspeed = k.Airspeed
		p.AirspeedAngle = k.AirspeedAngle
	}
}

// GroupFlights splits points by flight, orders each flight's samples by
// timestamp (stable, so equal timestamps keep file order) and sets
// AltitudePrev. Flights are returned ordered by id.
func GroupFlights(points []models.TrajectoryPoint) []Flight {
	byID := make(map[string][]models.TrajectoryPoint)
	for _, p := range points {
		byID[p.FlightID] = append(byID[p.FlightID], p)
	}

	flights := make([]Flight, 0, len(byID))
	for id, pts := range byID {
		sort.SliceStable(pts, func(i, j int) bool {
			return pts[i].Timestamp.Before(pts[j].Timestamp)
		})
		setAltitudePrev(pts)
		flights = append(flights, Flight{ID: id, ATOT: pts[0].ATOT, Points: pts})
	}
	sort.Slice(flights, func(i, j int) bool {
		return models.LessFlightID(flights[i].ID, flights[j].ID)
	})
	return flights
}

func setAltitudePrev(pts []models.TrajectoryPoint) {
	for i := range pts {
		if i == 0 {
			pts[i].AltitudePrev = nan()
			continue
		}
		pts[i].AltitudePrev = pts[i-1].Altitude
	}
}

func altitudes(pts []models.TrajectoryPoint) []float64 {
	out := make([]float64, len(pts))
	for i, p := range pts {
		out[i] = p.Altitude
	}
	return out
}

// AirState is the wind and airspeed of a flight at a reference sample.
type AirState struct {
	WindSpeed     float64
	WindDirection float64
	Airspeed      float64
	AirspeedAngle float64
}

// firstAirState takes each field from the earliest sample where it is
// known, so one sample with missing wind does not blank the whole state.
func firstAirState(pts []models.TrajectoryPoint) AirState {
	return AirState{
		WindSpeed:     firstValid(pts, func(p models.TrajectoryPoint) float64 { return p.WindSpeed }),
		WindDirection: firstValid(pts, func(p models.TrajectoryPoint) float64 { return p.WindDirection }),
		Airspeed:      firstValid(pts, func(p models.TrajectoryPoint) float64 { return p.Airspeed }),
		AirspeedAngle: firstValid(pts, func(p models.TrajectoryPoint) float64 { return p.AirspeedAngle }),
	}
}

func firstValid(pts []models.TrajectoryPoint, get func(models.TrajectoryPoint) float64) float64 {
	for _, p := range pts {
		if v := get(p); !math.IsNaN(v) {
			return v
		}
	}
	return math.NaN()
}
