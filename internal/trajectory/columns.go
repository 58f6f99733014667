package trajectory

import (
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/apache/arrow/go/v14/arrow"
	"github.com/apache/arrow/go/v14/arrow/array"

	"github.com/jengzang/trajectory-features/internal/timefmt"
)

// Accessors turn an arrow column into per-row getters. They are resolved
// once per record batch so the row loop does no type switching.

type floatGetter func(i int) float64

type stringGetter func(i int) (string, bool)

type timeGetter func(i int) (time.Time, bool, error)

func floatColumn(arr arrow.Array) (floatGetter, error) {
	var get func(i int) float64
	switch a := arr.(type) {
	case *array.Float64:
		get = a.Value
	case *array.Float32:
		get = func(i int) float64 { return float64(a.Value(i)) }
	case *array.Int64:
		get = func(i int) float64 { return float64(a.Value(i)) }
	case *array.Int32:
		get = func(i int) float64 { return float64(a.Value(i)) }
	case *array.Int16:
		get = func(i int) float64 { return float64(a.Value(i)) }
	case *array.Int8:
		get = func(i int) float64 { return float64(a.Value(i)) }
	case *array.Uint32:
		get = func(i int) float64 { return float64(a.Value(i)) }
	case *array.Uint16:
		get = func(i int) float64 { return float64(a.Value(i)) }
	default:
		return nil, fmt.Errorf("unsupported numeric column type %s", arr.DataType())
	}
	return func(i int) float64 {
		if arr.IsNull(i) {
			return math.NaN()
		}
		return get(i)
	}, nil
}

func stringColumn(arr arrow.Array) (stringGetter, error) {
	var get func(i int) string
	switch a := arr.(type) {
	case *array.String:
		get = a.Value
	case *array.LargeString:
		get = a.Value
	case *array.Int64:
		get = func(i int) string { return strconv.FormatInt(a.Value(i), 10) }
	case *array.Int32:
		get = func(i int) string { return strconv.FormatInt(int64(a.Value(i)), 10) }
	default:
		return nil, fmt.Errorf("unsupported flight_id column type %s", arr.DataType())
	}
	return func(i int) (string, bool) {
		if arr.IsNull(i) {
			return "", false
		}
		return get(i), true
	}, nil
}

func timeColumn(arr arrow.Array) (timeGetter, error) {
	switch a := arr.(type) {
	case *array.Timestamp:
		unit := a.DataType().(*arrow.TimestampType).Unit
		return func(i int) (time.Time, bool, error) {
			if a.IsNull(i) {
				return time.Time{}, false, nil
			}
			return a.Value(i).ToTime(unit).UTC(), true, nil
		}, nil
	case *array.String:
		return parsedTimeColumn(a.IsNull, a.Value), nil
	case *array.LargeString:
		return parsedTimeColumn(a.IsNull, a.Value), nil
	}
	return nil, fmt.Errorf("unsupported timestamp column type %s", arr.DataType())
}

func parsedTimeColumn(isNull func(int) bool, value func(int) string) timeGetter {
	return func(i int) (time.Time, bool, error) {
		if isNull(i) {
			return time.Time{}, false, nil
		}
		t, err := timefmt.Parse(value(i))
		if err != nil {
			return time.Time{}, false, err
		}
		return t, true, nil
	}
}
