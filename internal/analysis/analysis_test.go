package analysis

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jengzang/trajectory-features/internal/config"
	"github.com/jengzang/trajectory-features/internal/models"
	"github.com/jengzang/trajectory-features/internal/spatial"
	"github.com/jengzang/trajectory-features/pkg/logger"
)

var atot = time.Date(2024, 1, 1, 0, 10, 0, 0, time.UTC)

// pt builds a calm-wind sample m minutes after midnight.
func pt(id string, m, alt, vr float64) models.TrajectoryPoint {
	return models.TrajectoryPoint{
		FlightID:     id,
		Timestamp:    time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC).Add(time.Duration(m * float64(time.Minute))),
		Altitude:     alt,
		VerticalRate: vr,
		Track:        90,
		GroundSpeed:  250,
		ATOT:         atot,
	}
}

func analyze(t *testing.T, points []models.TrajectoryPoint) models.FileResult {
	t.Helper()
	res, err := NewFileAnalyzer(DefaultThresholds, logger.NewNop()).Analyze(context.Background(), "/data/2024-01-01.parquet", points)
	require.NoError(t, err)
	return res
}

func TestAnalyzeReferenceScenario(t *testing.T) {
	res := analyze(t, []models.TrajectoryPoint{
		pt("F1", 30, 30000, 0),
		pt("F1", 10, 0, 500),
		pt("F1", 25, 30000, 0),
	})

	assert.Equal(t, "2024-01-01.parquet", res.SourceFile)
	require.Len(t, res.Records, 1)
	r := res.Records[0]

	assert.Equal(t, "F1", r.FlightID)
	assert.Equal(t, 30000.0, r.FLMode)
	assert.Equal(t, 30000.0, r.FLMax)
	assert.Equal(t, 30000.0, r.FLMedian)
	assert.Equal(t, 0.0, r.FLGround)

	assert.True(t, atot.Add(15*time.Minute).Equal(r.PlateauTimestamp))
	assert.Equal(t, 15.0, r.PlateauClimbDurationMin)
	assert.Equal(t, 30000.0, r.PlateauAltitude)
	assert.Equal(t, 2000.0, r.PlateauClimbRateAvg)

	assert.True(t, atot.Add(15*time.Minute).Equal(r.ModeLevelTimestamp))
	assert.Equal(t, 15.0, r.ClimbDurationMin)
	assert.Equal(t, 2000.0, r.FLMaxClimbRateAvg)

	// no climbing sample near the flight level
	assert.True(t, math.IsNaN(r.VerticalRateMode))
	assert.True(t, math.IsNaN(r.VerticalRateMax))
	assert.True(t, math.IsNaN(r.VerticalRateMean))

	// calm air: airspeed is ground speed, heading is track
	assert.Equal(t, 250.0, r.GroundAirspeed)
	assert.InDelta(t, 90.0, r.GroundAirspeedAngle, 1e-9)
	assert.Equal(t, 0.0, r.GroundWindSpeed)
	assert.Equal(t, 250.0, r.PlateauAirspeed)
}

func TestPlateauAfterConstantAltitude(t *testing.T) {
	// climbing until minute 12, level afterwards
	var pts []models.TrajectoryPoint
	for m := 10; m <= 30; m++ {
		alt, vr := float64(m-10)*3000, 3000.0
		if m >= 22 {
			alt, vr = 36000, 0
		}
		pts = append(pts, pt("F1", float64(m), alt, vr))
	}
	flights := GroupFlights(pts)
	require.Len(t, flights, 1)

	p, ok := DetectPlateau(flights[0].Points, DefaultThresholds)
	require.True(t, ok)
	assert.True(t, atot.Add(12*time.Minute).Equal(p.Timestamp))
	assert.Equal(t, 36000.0, p.Altitude)
	assert.Equal(t, 12.0, p.ClimbDurationMin)
}

func TestPlateauAltitudeTolerance(t *testing.T) {
	pts := []models.TrajectoryPoint{
		pt("F1", 10, 0, 2000),
		pt("F1", 19, 18000, 2000),
		pt("F1", 20, 20000, 2000), // +2000 ft, still climbing
		pt("F1", 21, 20150, 150),  // within 200 ft of previous
		pt("F1", 22, 20150, 0),
	}
	flights := GroupFlights(pts)
	p, ok := DetectPlateau(flights[0].Points, DefaultThresholds)
	require.True(t, ok)
	assert.Equal(t, 11.0, p.ClimbDurationMin)
	assert.Equal(t, 20150.0, p.Altitude)
}

func TestPlateauGracePeriod(t *testing.T) {
	// level flight inside the grace period only
	pts := []models.TrajectoryPoint{
		pt("F1", 10, 1000, 0),
		pt("F1", 15, 1000, 0),
		pt("F1", 19, 1000, 0),
	}
	flights := GroupFlights(pts)
	_, ok := DetectPlateau(flights[0].Points, DefaultThresholds)
	assert.False(t, ok)

	res := analyze(t, pts)
	require.Len(t, res.Records, 1)
	r := res.Records[0]
	assert.True(t, r.PlateauTimestamp.IsZero())
	assert.True(t, math.IsNaN(r.PlateauAltitude))
	assert.True(t, math.IsNaN(r.PlateauClimbRateAvg))
	assert.True(t, math.IsNaN(r.PlateauAirspeed))
}

func TestFirstSampleHasNoPreviousAltitude(t *testing.T) {
	// a lone sample past the grace period with a non-zero rate: the
	// missing previous altitude never satisfies the tolerance rule
	flights := GroupFlights([]models.TrajectoryPoint{pt("F1", 25, 30000, 400)})
	assert.True(t, math.IsNaN(flights[0].Points[0].AltitudePrev))
	_, ok := DetectPlateau(flights[0].Points, DefaultThresholds)
	assert.False(t, ok)
}

func TestGroundAndPlateauSkipMissingWind(t *testing.T) {
	windy := func(p models.TrajectoryPoint) models.TrajectoryPoint {
		p.WindU, p.WindV = 3, 4
		return p
	}
	noWind := func(p models.TrajectoryPoint) models.TrajectoryPoint {
		p.WindU, p.WindV = math.NaN(), math.NaN()
		return p
	}
	res := analyze(t, []models.TrajectoryPoint{
		noWind(pt("F1", 10, 0, 500)),
		windy(pt("F1", 12, 2000, 500)),
		noWind(pt("F1", 25, 30000, 0)),
		windy(pt("F1", 26, 30000, 0)),
	})
	require.Len(t, res.Records, 1)
	r := res.Records[0]

	want := spatial.DecomposeWind(3, 4, 90, 250, spatial.WindOptions{})
	assert.Equal(t, 5.0, r.GroundWindSpeed)
	assert.InDelta(t, want.WindDirection, r.GroundWindDirection, 1e-9)
	assert.InDelta(t, want.Airspeed, r.GroundAirspeed, 1e-9)
	assert.InDelta(t, want.AirspeedAngle, r.GroundAirspeedAngle, 1e-9)
	assert.Equal(t, 0.0, r.FLGround)

	assert.True(t, atot.Add(15*time.Minute).Equal(r.PlateauTimestamp))
	assert.Equal(t, 15.0, r.PlateauClimbDurationMin)
	assert.Equal(t, 5.0, r.PlateauWindSpeed)
	assert.InDelta(t, want.Airspeed, r.PlateauAirspeed, 1e-9)
	assert.InDelta(t, want.AirspeedAngle, r.PlateauAirspeedAngle, 1e-9)
}

func TestPlateauAltitudeFromFirstKnownCandidate(t *testing.T) {
	flights := GroupFlights([]models.TrajectoryPoint{
		pt("F1", 10, 0, 500),
		pt("F1", 25, math.NaN(), 0),
		pt("F1", 26, 31000, 0),
	})
	p, ok := DetectPlateau(flights[0].Points, DefaultThresholds)
	require.True(t, ok)
	assert.True(t, atot.Add(15*time.Minute).Equal(p.Timestamp))
	assert.Equal(t, 31000.0, p.Altitude)
}

func TestMedianNotAboveMaxForMonotonicClimb(t *testing.T) {
	var pts []models.TrajectoryPoint
	for m := 10; m < 40; m++ {
		pts = append(pts, pt("F1", float64(m), float64((m-10)*1000), 1000))
	}
	agg := AggregateAltitude(GroupFlights(pts)[0].Points)
	assert.GreaterOrEqual(t, agg.FLMax, agg.FLMedian)
	assert.Equal(t, 29000.0, agg.FLMax)
	assert.Equal(t, 14500.0, agg.FLMedian)
}

func TestAggregateClimbFilters(t *testing.T) {
	pts := []models.TrajectoryPoint{
		pt("F1", 10, 0, 3000),
		pt("F1", 20, 20000, 800),  // below 0.7·30000
		pt("F1", 22, 22000, 1500), // vertical rate outside the limit
		pt("F1", 24, 24000, 600),
		pt("F1", 26, 26000, 600),
		pt("F1", 28, 28000, 900),
		pt("F1", 30, 30000, 0),
		pt("F1", 31, 30000, 0),
		pt("F1", 32, 30000, -999),
		pt("F1", 33, 30000, -1000), // outside (strict)
	}
	f := GroupFlights(pts)[0]
	c, ok := AggregateClimb(f.Points, 30000, DefaultThresholds)
	require.True(t, ok)

	assert.True(t, atot.Add(14*time.Minute).Equal(c.ModeLevelTimestamp))
	assert.Equal(t, 14.0, c.ClimbDurationMin)
	assert.Equal(t, 600.0, c.VerticalRateMode)
	assert.Equal(t, 900.0, c.VerticalRateMax)
	assert.Equal(t, 700.0, c.VerticalRateMean)
}

func TestAggregateClimbMissingFlightLevel(t *testing.T) {
	f := GroupFlights([]models.TrajectoryPoint{pt("F1", 12, math.NaN(), 100)})[0]
	_, ok := AggregateClimb(f.Points, math.NaN(), DefaultThresholds)
	assert.False(t, ok)

	res := analyze(t, f.Points)
	r := res.Records[0]
	assert.True(t, math.IsNaN(r.FLMode))
	assert.True(t, math.IsNaN(r.FLGround))
	assert.True(t, math.IsNaN(r.ClimbDurationMin))
	assert.True(t, math.IsNaN(r.FLMaxClimbRateAvg))
	assert.True(t, r.ModeLevelTimestamp.IsZero())
}

func TestZeroDurationRatioIsUnguarded(t *testing.T) {
	// the only sample is at take-off: climb duration 0, (alt-ground)/0
	res := analyze(t, []models.TrajectoryPoint{pt("F1", 10, 5000, 0)})
	r := res.Records[0]
	assert.Equal(t, 0.0, r.ClimbDurationMin)
	assert.True(t, math.IsNaN(r.FLMaxClimbRateAvg)) // 0/0
}

func TestGroupFlightsOrderingAndPrev(t *testing.T) {
	flights := GroupFlights([]models.TrajectoryPoint{
		pt("100", 12, 300, 0),
		pt("9", 11, 100, 0),
		pt("100", 11, 200, 0),
		pt("9", 10, 50, 0),
	})
	require.Len(t, flights, 2)
	assert.Equal(t, "9", flights[0].ID)
	assert.Equal(t, "100", flights[1].ID)
	assert.Equal(t, 200.0, flights[1].Points[0].Altitude)
	assert.Equal(t, 200.0, flights[1].Points[1].AltitudePrev)
	assert.True(t, atot.Equal(flights[1].ATOT))
}

func TestAnalyzeOneRecordPerFlight(t *testing.T) {
	res := analyze(t, []models.TrajectoryPoint{
		pt("B", 11, 100, 0), pt("A", 11, 100, 0), pt("B", 12, 200, 0),
	})
	require.Len(t, res.Records, 2)
	assert.Equal(t, "A", res.Records[0].FlightID)
	assert.Equal(t, "B", res.Records[1].FlightID)

	empty := analyze(t, nil)
	assert.Empty(t, empty.Records)
}

func TestAnalyzeCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewFileAnalyzer(DefaultThresholds, logger.NewNop()).Analyze(ctx, "x.parquet", []models.TrajectoryPoint{pt("F1", 11, 0, 0)})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestThresholdsFromConfig(t *testing.T) {
	th := ThresholdsFromConfig(config.DefaultFeatureParams())
	assert.Equal(t, DefaultThresholds, th)
}
