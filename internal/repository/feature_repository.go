package repository

import (
	"context"
	"database/sql"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/jengzang/trajectory-features/internal/database"
	"github.com/jengzang/trajectory-features/internal/models"
)

// FeatureRepository handles database operations for feature records
type FeatureRepository struct {
	db *sql.DB
}

// NewFeatureRepository creates a new feature repository
func NewFeatureRepository(db *sql.DB) *FeatureRepository {
	return &FeatureRepository{db: db}
}

type featureColumn struct {
	name  string
	value func(models.FeatureRecord) interface{}
}

func floatColumn(name string, get func(models.FeatureRecord) float64) featureColumn {
	return featureColumn{name, func(r models.FeatureRecord) interface{} { return toNull(get(r)) }}
}

func timeColumn(name string, get func(models.FeatureRecord) time.Time) featureColumn {
	return featureColumn{name, func(r models.FeatureRecord) interface{} { return nullTime(get(r)) }}
}

// featureColumns maps trajectory_features columns, after run_id, to
// record fields.
var featureColumns = []featureColumn{
	{"flight_id", func(r models.FeatureRecord) interface{} { return r.FlightID }},
	{"source_file", func(r models.FeatureRecord) interface{} { return r.SourceFile }},
	floatColumn("fl_mode", func(r models.FeatureRecord) float64 { return r.FLMode }),
	floatColumn("fl_max", func(r models.FeatureRecord) float64 { return r.FLMax }),
	floatColumn("fl_median", func(r models.FeatureRecord) float64 { return r.FLMedian }),
	floatColumn("fl_ground", func(r models.FeatureRecord) float64 { return r.FLGround }),
	timeColumn("mode_level_timestamp", func(r models.FeatureRecord) time.Time { return r.ModeLevelTimestamp }),
	floatColumn("climb_duration_min", func(r models.FeatureRecord) float64 { return r.ClimbDurationMin }),
	floatColumn("vertical_rate_mode", func(r models.FeatureRecord) float64 { return r.VerticalRateMode }),
	floatColumn("vertical_rate_max", func(r models.FeatureRecord) float64 { return r.VerticalRateMax }),
	floatColumn("vertical_rate_mean", func(r models.FeatureRecord) float64 { return r.VerticalRateMean }),
	floatColumn("fl_max_climb_rate_avg", func(r models.FeatureRecord) float64 { return r.FLMaxClimbRateAvg }),
	floatColumn("ground_wind_speed", func(r models.FeatureRecord) float64 { return r.GroundWindSpeed }),
	floatColumn("ground_wind_direction", func(r models.FeatureRecord) float64 { return r.GroundWindDirection }),
	floatColumn("ground_airspeed", func(r models.FeatureRecord) float64 { return r.GroundAirspeed }),
	floatColumn("ground_airspeed_angle", func(r models.FeatureRecord) float64 { return r.GroundAirspeedAngle }),
	timeColumn("plateau_timestamp", func(r models.FeatureRecord) time.Time { return r.PlateauTimestamp }),
	floatColumn("plateau_altitude", func(r models.FeatureRecord) float64 { return r.PlateauAltitude }),
	floatColumn("plateau_climb_duration_min", func(r models.FeatureRecord) float64 { return r.PlateauClimbDurationMin }),
	floatColumn("plateau_climb_rate_avg", func(r models.FeatureRecord) float64 { return r.PlateauClimbRateAvg }),
	floatColumn("plateau_wind_speed", func(r models.FeatureRecord) float64 { return r.PlateauWindSpeed }),
	floatColumn("plateau_wind_direction", func(r models.FeatureRecord) float64 { return r.PlateauWindDirection }),
	floatColumn("plateau_airspeed", func(r models.FeatureRecord) float64 { return r.PlateauAirspeed }),
	floatColumn("plateau_airspeed_angle", func(r models.FeatureRecord) float64 { return r.PlateauAirspeedAngle }),
}

func insertFeatureQuery() string {
	names := []string{"run_id"}
	for _, c := range featureColumns {
		names = append(names, c.name)
	}
	return fmt.Sprintf("INSERT INTO trajectory_features (%s) VALUES (%s)",
		strings.Join(names, ", "),
		strings.TrimSuffix(strings.Repeat("?, ", len(names)), ", "))
}

// InsertResult stores every record of one file in a single transaction.
func (r *FeatureRepository) InsertResult(ctx context.Context, runID string, res models.FileResult) error {
	if len(res.Records) == 0 {
		return nil
	}

	query := insertFeatureQuery()

	return database.Transaction(ctx, r.db, func(tx *sql.Tx) error {
		stmt, err := tx.PrepareContext(ctx, query)
		if err != nil {
			return fmt.Errorf("failed to prepare feature insert: %w", err)
		}
		defer stmt.Close()

		for _, rec := range res.Records {
			if _, err := stmt.ExecContext(ctx, featureArgs(runID, rec)...); err != nil {
				return fmt.Errorf("failed to insert flight %s: %w", rec.FlightID, err)
			}
		}
		return nil
	})
}

// CountByRun returns how many feature rows a run stored.
func (r *FeatureRepository) CountByRun(ctx context.Context, runID string) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM trajectory_features WHERE run_id = ?", runID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("failed to count features: %w", err)
	}
	return n, nil
}

// GetByFlight returns the stored records of a flight within a run, one per
// source file.
func (r *FeatureRepository) GetByFlight(ctx context.Context, runID, flightID string) ([]models.FeatureRecord, error) {
	query := `
		SELECT flight_id, source_file, fl_mode, fl_max, fl_median, fl_ground,
		       plateau_timestamp, plateau_altitude, plateau_climb_duration_min, plateau_climb_rate_avg
		FROM trajectory_features
		WHERE run_id = ? AND flight_id = ?
		ORDER BY id
	`
	rows, err := r.db.QueryContext(ctx, query, runID, flightID)
	if err != nil {
		return nil, fmt.Errorf("failed to query features: %w", err)
	}
	defer rows.Close()

	var out []models.FeatureRecord
	for rows.Next() {
		var flight, source string
		var mode, max, median, ground, pAlt, pDur, pRate sql.NullFloat64
		var pTime sql.NullTime
		if err := rows.Scan(&flight, &source, &mode, &max, &median, &ground, &pTime, &pAlt, &pDur, &pRate); err != nil {
			return nil, fmt.Errorf("failed to scan feature row: %w", err)
		}
		rec := models.NewFeatureRecord(flight, source)
		rec.FLMode = fromNull(mode)
		rec.FLMax = fromNull(max)
		rec.FLMedian = fromNull(median)
		rec.FLGround = fromNull(ground)
		if pTime.Valid {
			rec.PlateauTimestamp = pTime.Time.UTC()
		}
		rec.PlateauAltitude = fromNull(pAlt)
		rec.PlateauClimbDurationMin = fromNull(pDur)
		rec.PlateauClimbRateAvg = fromNull(pRate)
		out = append(out, rec)
	}
	return out, rows.Err()
}

func featureArgs(runID string, rec models.FeatureRecord) []interface{} {
	args := make([]interface{}, 0, len(featureColumns)+1)
	args = append(args, runID)
	for _, c := range featureColumns {
		args = append(args, c.value(rec))
	}
	return args
}

// toNull stores NaN as NULL. Infinities are kept; sqlite represents them.
func toNull(v float64) sql.NullFloat64 {
	if math.IsNaN(v) {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: v, Valid: true}
}

func fromNull(v sql.NullFloat64) float64 {
	if !v.Valid {
		return math.NaN()
	}
	return v.Float64
}

func nullTime(t time.Time) sql.NullTime {
	if t.IsZero() {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: t.UTC(), Valid: true}
}
