// Package metadata loads the challenge and submission flight tables and
// derives each flight's actual take-off time.
package metadata

import (
	"encoding/csv"
	"errors"
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"

	"github.com/jengzang/trajectory-features/internal/models"
	"github.com/jengzang/trajectory-features/internal/timefmt"
)

// ErrMissingColumn is returned when a metadata table lacks a required column.
var ErrMissingColumn = errors.New("missing required column")

// Column names of the metadata tables
const (
	ColFlightID    = "flight_id"
	ColOffBlock    = "actual_offblock_time"
	ColTaxiOutTime = "taxiout_time"
)

var requiredColumns = []string{ColFlightID, ColOffBlock, ColTaxiOutTime}

// naValues are the cell values read as missing.
var naValues = []string{"", "NA", "NaN", "NaT", "nan", "<nil>"}

// Load reads the given tables in order, concatenates them row-wise and
// returns the flight index with derived take-off times. Tables with a
// header but no rows contribute nothing.
func Load(paths ...string) (*models.FlightIndex, error) {
	var combined *dataframe.DataFrame
	for _, path := range paths {
		df, err := readTable(path)
		if err != nil {
			return nil, err
		}
		if df == nil {
			continue
		}
		if combined == nil {
			combined = df
			continue
		}
		merged := combined.RBind(*df)
		if merged.Err != nil {
			return nil, fmt.Errorf("failed to concatenate %s: %w", path, merged.Err)
		}
		combined = &merged
	}
	if combined == nil {
		return models.NewFlightIndex(nil), nil
	}

	records, err := toRecords(*combined)
	if err != nil {
		return nil, err
	}
	return models.NewFlightIndex(records), nil
}

// readTable returns nil for a table without data rows.
func readTable(path string) (*dataframe.DataFrame, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open metadata table: %w", err)
	}
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read metadata table %s: %w", path, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%s: %w: %s", path, ErrMissingColumn, ColFlightID)
	}

	present := make(map[string]bool, len(rows[0]))
	for _, name := range rows[0] {
		present[name] = true
	}
	for _, col := range requiredColumns {
		if !present[col] {
			return nil, fmt.Errorf("%s: %w: %s", path, ErrMissingColumn, col)
		}
	}
	if len(rows) == 1 {
		return nil, nil
	}

	df := dataframe.LoadRecords(rows,
		dataframe.WithTypes(map[string]series.Type{
			ColFlightID:    series.String,
			ColOffBlock:    series.String,
			ColTaxiOutTime: series.String,
		}),
	)
	if df.Err != nil {
		return nil, fmt.Errorf("failed to read metadata table %s: %w", path, df.Err)
	}

	df = df.Select(requiredColumns)
	if df.Err != nil {
		return nil, fmt.Errorf("failed to select metadata columns of %s: %w", path, df.Err)
	}
	return &df, nil
}

func toRecords(df dataframe.DataFrame) ([]models.FlightMetadata, error) {
	ids := df.Col(ColFlightID).Records()
	offBlocks := df.Col(ColOffBlock).Records()
	taxiOuts := df.Col(ColTaxiOutTime).Records()

	records := make([]models.FlightMetadata, 0, len(ids))
	for i, id := range ids {
		m := models.FlightMetadata{FlightID: id}

		offBlock, offOK, err := parseOffBlock(offBlocks[i])
		if err != nil {
			return nil, fmt.Errorf("flight %s: invalid %s: %w", id, ColOffBlock, err)
		}
		taxiOut, taxiOK, err := parseTaxiOut(taxiOuts[i])
		if err != nil {
			return nil, fmt.Errorf("flight %s: invalid %s: %w", id, ColTaxiOutTime, err)
		}

		switch {
		case offOK && taxiOK:
			m = models.NewFlightMetadata(id, offBlock, taxiOut)
		case offOK:
			m.ActualOffBlock = offBlock
		case taxiOK:
			m.TaxiOut = taxiOut
		}
		records = append(records, m)
	}
	return records, nil
}

func isNA(v string) bool {
	v = strings.TrimSpace(v)
	for _, na := range naValues {
		if v == na {
			return true
		}
	}
	return false
}

func parseOffBlock(v string) (time.Time, bool, error) {
	if isNA(v) {
		return time.Time{}, false, nil
	}
	t, err := timefmt.Parse(v)
	if err != nil {
		return time.Time{}, false, err
	}
	return t, true, nil
}

// parseTaxiOut reads taxi-out minutes.
func parseTaxiOut(v string) (time.Duration, bool, error) {
	if isNA(v) {
		return 0, false, nil
	}
	minutes, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
	if err != nil {
		return 0, false, err
	}
	if math.IsNaN(minutes) || math.IsInf(minutes, 0) {
		return 0, false, fmt.Errorf("not a finite number: %s", v)
	}
	return time.Duration(minutes * float64(time.Minute)), true, nil
}
