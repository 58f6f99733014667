// Package trajectory reads columnar trajectory files, restricted to the
// flights of a metadata index and to samples at or after take-off.
package trajectory

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/apache/arrow/go/v14/arrow"
	"github.com/apache/arrow/go/v14/arrow/memory"
	"github.com/apache/arrow/go/v14/parquet/file"
	"github.com/apache/arrow/go/v14/parquet/pqarrow"

	"github.com/jengzang/trajectory-features/internal/models"
	"github.com/jengzang/trajectory-features/pkg/logger"
)

// ErrMissingColumn is returned when a trajectory file lacks a required column.
var ErrMissingColumn = errors.New("missing required column")

// Column names of the trajectory files
const (
	ColTimestamp    = "timestamp"
	ColFlightID     = "flight_id"
	ColAltitude     = "altitude"
	ColVerticalRate = "vertical_rate"
	ColWindU        = "u_component_of_wind"
	ColWindV        = "v_component_of_wind"
	ColTrack        = "track"
	ColGroundSpeed  = "groundspeed"
)

// Columns lists the projected columns in read order.
var Columns = []string{
	ColTimestamp, ColFlightID, ColAltitude, ColVerticalRate,
	ColWindU, ColWindV, ColTrack, ColGroundSpeed,
}

const defaultBatchSize = 64 * 1024

// ReadStats summarises one ReadFile call.
type ReadStats struct {
	RowGroups     int // row groups in the file
	RowGroupsRead int // row groups left after statistics pruning
	RowsRead      int // rows decoded from the surviving row groups
	RowsKept      int // rows of indexed flights at or after take-off
}

// Reader loads trajectory files one at a time.
type Reader struct {
	mem       memory.Allocator
	batchSize int64
	log       *logger.Logger
}

// NewReader creates a reader using the default Go allocator.
func NewReader(log *logger.Logger) *Reader {
	return &Reader{
		mem:       memory.DefaultAllocator,
		batchSize: defaultBatchSize,
		log:       log.Named("trajectory"),
	}
}

// ListFiles returns the regular files of dir whose name ends with ext, in
// directory listing order.
func ListFiles(dir, ext string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", dir, err)
	}
	var files []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ext) {
			continue
		}
		files = append(files, filepath.Join(dir, e.Name()))
	}
	return files, nil
}

// ReadFile loads the projected columns of one parquet file. Row groups
// whose flight_id statistics exclude every indexed flight are skipped
// without being decoded; the remaining rows are filtered against the
// index, joined with their take-off time and dropped when earlier than it.
func (r *Reader) ReadFile(ctx context.Context, path string, index *models.FlightIndex) ([]models.TrajectoryPoint, ReadStats, error) {
	var stats ReadStats

	pf, err := file.OpenParquetFile(path, false)
	if err != nil {
		return nil, stats, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer pf.Close()

	md := pf.MetaData()
	colIndices := make([]int, len(Columns))
	for i, name := range Columns {
		idx := md.Schema.ColumnIndexByName(name)
		if idx < 0 {
			return nil, stats, fmt.Errorf("%s: %w: %s", path, ErrMissingColumn, name)
		}
		colIndices[i] = idx
	}

	stats.RowGroups = pf.NumRowGroups()
	rowGroups, err := r.selectRowGroups(pf, colIndices[1], index)
	if err != nil {
		return nil, stats, fmt.Errorf("%s: %w", path, err)
	}
	stats.RowGroupsRead = len(rowGroups)
	if len(rowGroups) == 0 {
		return nil, stats, nil
	}

	fr, err := pqarrow.NewFileReader(pf, pqarrow.ArrowReadProperties{BatchSize: r.batchSize}, r.mem)
	if err != nil {
		return nil, stats, fmt.Errorf("failed to create arrow reader for %s: %w", path, err)
	}
	rr, err := fr.GetRecordReader(ctx, colIndices, rowGroups)
	if err != nil {
		return nil, stats, fmt.Errorf("failed to read %s: %w", path, err)
	}
	defer rr.Release()

	var points []models.TrajectoryPoint
	for rr.Next() {
		if err := ctx.Err(); err != nil {
			return nil, stats, err
		}
		rec := rr.Record()
		stats.RowsRead += int(rec.NumRows())
		points, err = appendRecord(points, rec, index)
		if err != nil {
			return nil, stats, fmt.Errorf("%s: %w", path, err)
		}
	}
	if err := rr.Err(); err != nil {
		return nil, stats, fmt.Errorf("failed to read %s: %w", path, err)
	}

	stats.RowsKept = len(points)
	r.log.Debug("file read",
		logger.String("file", filepath.Base(path)),
		logger.Int("row_groups", stats.RowGroups),
		logger.Int("row_groups_read", stats.RowGroupsRead),
		logger.Int("rows_read", stats.RowsRead),
		logger.Int("rows_kept", stats.RowsKept))
	return points, stats, nil
}

func (r *Reader) selectRowGroups(pf *file.Reader, flightCol int, index *models.FlightIndex) ([]int, error) {
	if index.Len() == 0 {
		return nil, nil
	}
	pred := newFlightPredicate(index)
	md := pf.MetaData()

	var selected []int
	for i := 0; i < pf.NumRowGroups(); i++ {
		chunk, err := md.RowGroup(i).ColumnChunk(flightCol)
		if err != nil {
			return nil, fmt.Errorf("failed to read row group %d metadata: %w", i, err)
		}
		keep := true
		if ok, err := chunk.StatsSet(); err == nil && ok {
			st, err := chunk.Statistics()
			if err == nil {
				keep = pred.mayContain(st)
			}
		}
		if keep {
			selected = append(selected, i)
		}
	}
	return selected, nil
}

func appendRecord(points []models.TrajectoryPoint, rec arrow.Record, index *models.FlightIndex) ([]models.TrajectoryPoint, error) {
	col := func(name string) (arrow.Array, error) {
		idx := rec.Schema().FieldIndices(name)
		if len(idx) == 0 {
			return nil, fmt.Errorf("%w: %s", ErrMissingColumn, name)
		}
		return rec.Column(idx[0]), nil
	}

	tsArr, err := col(ColTimestamp)
	if err != nil {
		return nil, err
	}
	timestamps, err := timeColumn(tsArr)
	if err != nil {
		return nil, err
	}
	idArr, err := col(ColFlightID)
	if err != nil {
		return nil, err
	}
	flightIDs, err := stringColumn(idArr)
	if err != nil {
		return nil, err
	}

	numeric := make(map[string]floatGetter, 6)
	for _, name := range []string{ColAltitude, ColVerticalRate, ColWindU, ColWindV, ColTrack, ColGroundSpeed} {
		arr, err := col(name)
		if err != nil {
			return nil, err
		}
		get, err := floatColumn(arr)
		if err != nil {
			return nil, fmt.Errorf("column %s: %w", name, err)
		}
		numeric[name] = get
	}

	for i := 0; i < int(rec.NumRows()); i++ {
		id, ok := flightIDs(i)
		if !ok {
			continue
		}
		meta, ok := index.Lookup(id)
		if !ok || !meta.HasATOT() {
			continue
		}
		ts, ok, err := timestamps(i)
		if err != nil {
			return nil, fmt.Errorf("flight %s row %d: %w", id, i, err)
		}
		if !ok || ts.Before(meta.ATOT) {
			continue
		}
		points = append(points, models.TrajectoryPoint{
			FlightID:     id,
			Timestamp:    ts,
			Altitude:     numeric[ColAltitude](i),
			VerticalRate: numeric[ColVerticalRate](i),
			WindU:        numeric[ColWindU](i),
			WindV:        numeric[ColWindV](i),
			Track:        numeric[ColTrack](i),
			GroundSpeed:  numeric[ColGroundSpeed](i),
			ATOT:         meta.ATOT,
		})
	}
	return points, nil
}
