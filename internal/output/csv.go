// Package output writes the combined feature table.
package output

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"

	"github.com/jengzang/trajectory-features/internal/models"
	"github.com/jengzang/trajectory-features/internal/timefmt"
)

// FormatFloat renders a feature value. Missing values are empty fields.
func FormatFloat(v float64) string {
	switch {
	case math.IsNaN(v):
		return ""
	case math.IsInf(v, 1):
		return "inf"
	case math.IsInf(v, -1):
		return "-inf"
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// Row renders a record in models.FeatureColumns order.
func Row(r models.FeatureRecord) []string {
	f := FormatFloat
	return []string{
		r.FlightID,
		f(r.FLMode), f(r.FLMax), f(r.FLMedian), f(r.FLGround),
		timefmt.Format(r.ModeLevelTimestamp),
		f(r.ClimbDurationMin),
		f(r.VerticalRateMode), f(r.VerticalRateMax), f(r.VerticalRateMean),
		f(r.FLMaxClimbRateAvg),
		f(r.GroundWindSpeed), f(r.GroundWindDirection), f(r.GroundAirspeed), f(r.GroundAirspeedAngle),
		timefmt.Format(r.PlateauTimestamp),
		f(r.PlateauAltitude), f(r.PlateauClimbDurationMin), f(r.PlateauClimbRateAvg),
		f(r.PlateauWindSpeed), f(r.PlateauWindDirection), f(r.PlateauAirspeed), f(r.PlateauAirspeedAngle),
		r.SourceFile,
	}
}

// WriteCSV writes the header and then every record of every result, in
// order, with no deduplication across results.
func WriteCSV(w io.Writer, results []models.FileResult) (int, error) {
	cw := csv.NewWriter(w)
	if err := cw.Write(models.FeatureColumns); err != nil {
		return 0, fmt.Errorf("failed to write header: %w", err)
	}

	rows := 0
	for _, res := range results {
		for _, rec := range res.Records {
			if err := cw.Write(Row(rec)); err != nil {
				return rows, fmt.Errorf("failed to write flight %s: %w", rec.FlightID, err)
			}
			rows++
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return rows, fmt.Errorf("failed to flush csv: %w", err)
	}
	return rows, nil
}

// WriteFile writes the table to path through a temporary file in the same
// directory, so path is either fully written or untouched.
func WriteFile(path string, results []models.FileResult) (int, error) {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return 0, fmt.Errorf("failed to create output file: %w", err)
	}
	defer os.Remove(tmp.Name())

	rows, err := WriteCSV(tmp, results)
	if err != nil {
		tmp.Close()
		return 0, err
	}
	if err := tmp.Close(); err != nil {
		return 0, fmt.Errorf("failed to close output file: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return 0, fmt.Errorf("failed to move output into place: %w", err)
	}
	return rows, nil
}
