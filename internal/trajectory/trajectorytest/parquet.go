// Package trajectorytest writes small parquet trajectory files for tests.
package trajectorytest

import (
	"math"
	"os"
	"strconv"
	"testing"
	"time"

	"github.com/apache/arrow/go/v14/arrow"
	"github.com/apache/arrow/go/v14/arrow/array"
	"github.com/apache/arrow/go/v14/arrow/memory"
	"github.com/apache/arrow/go/v14/parquet"
	"github.com/apache/arrow/go/v14/parquet/pqarrow"
)

// Row is one trajectory sample. NaN numeric values are written as nulls.
type Row struct {
	FlightID     string
	Timestamp    time.Time
	Altitude     float64
	VerticalRate float64
	WindU        float64
	WindV        float64
	Track        float64
	GroundSpeed  float64
}

// Options controls the physical layout of the written file.
type Options struct {
	RowGroupSize int64 // rows per row group; 0 writes a single group
	IntFlightIDs bool  // store flight_id as int64
	OmitColumn   string
}

// Write stores rows as a parquet file at path.
func Write(t testing.TB, path string, rows []Row, opts Options) {
	t.Helper()
	mem := memory.NewGoAllocator()

	idType := arrow.DataType(arrow.BinaryTypes.String)
	if opts.IntFlightIDs {
		idType = arrow.PrimitiveTypes.Int64
	}
	fields := []arrow.Field{
		{Name: "timestamp", Type: &arrow.TimestampType{Unit: arrow.Microsecond, TimeZone: "UTC"}, Nullable: true},
		{Name: "flight_id", Type: idType, Nullable: true},
		{Name: "altitude", Type: arrow.PrimitiveTypes.Float64, Nullable: true},
		{Name: "vertical_rate", Type: arrow.PrimitiveTypes.Float64, Nullable: true},
		{Name: "u_component_of_wind", Type: arrow.PrimitiveTypes.Float64, Nullable: true},
		{Name: "v_component_of_wind", Type: arrow.PrimitiveTypes.Float64, Nullable: true},
		{Name: "track", Type: arrow.PrimitiveTypes.Float64, Nullable: true},
		{Name: "groundspeed", Type: arrow.PrimitiveTypes.Float64, Nullable: true},
	}

	var kept []arrow.Field
	for _, f := range fields {
		if f.Name != opts.OmitColumn {
			kept = append(kept, f)
		}
	}
	schema := arrow.NewSchema(kept, nil)

	b := array.NewRecordBuilder(mem, schema)
	defer b.Release()

	for i, f := range kept {
		fb := b.Field(i)
		for _, r := range rows {
			switch f.Name {
			case "timestamp":
				fb.(*array.TimestampBuilder).Append(arrow.Timestamp(r.Timestamp.UnixMicro()))
			case "flight_id":
				if opts.IntFlightIDs {
					n, err := strconv.ParseInt(r.FlightID, 10, 64)
					if err != nil {
						t.Fatalf("flight id %q is not an integer", r.FlightID)
					}
					fb.(*array.Int64Builder).Append(n)
				} else {
					fb.(*array.StringBuilder).Append(r.FlightID)
				}
			default:
				appendFloat(fb.(*array.Float64Builder), value(r, f.Name))
			}
		}
	}

	rec := b.NewRecord()
	defer rec.Release()
	tbl := array.NewTableFromRecords(schema, []arrow.Record{rec})
	defer tbl.Release()

	out, err := os.Create(path)
	if err != nil {
		t.Fatalf("create %s: %v", path, err)
	}
	defer out.Close()

	chunk := opts.RowGroupSize
	if chunk <= 0 {
		chunk = int64(len(rows)) + 1
	}
	props := parquet.NewWriterProperties(parquet.WithStats(true), parquet.WithAllocator(mem))
	if err := pqarrow.WriteTable(tbl, out, chunk, props, pqarrow.DefaultWriterProps()); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func value(r Row, column string) float64 {
	switch column {
	case "altitude":
		return r.Altitude
	case "vertical_rate":
		return r.VerticalRate
	case "u_component_of_wind":
		return r.WindU
	case "v_component_of_wind":
		return r.WindV
	case "track":
		return r.Track
	case "groundspeed":
		return r.GroundSpeed
	}
	return math.NaN()
}

func appendFloat(b *array.Float64Builder, v float64) {
	if math.IsNaN(v) {
		b.AppendNull()
		return
	}
	b.Append(v)
}
