package trajectory

import (
	"sort"
	"strconv"

	"github.com/apache/arrow/go/v14/parquet/metadata"

	"github.com/jengzang/trajectory-features/internal/models"
)

// flightPredicate decides from row group statistics whether a row group
// may contain any indexed flight.
type flightPredicate struct {
	intIDs    []int64 // sorted ids that parse as integers
	stringIDs []string
}

func newFlightPredicate(index *models.FlightIndex) *flightPredicate {
	p := &flightPredicate{stringIDs: index.IDs()}
	sort.Strings(p.stringIDs)

	for _, id := range p.stringIDs {
		if n, err := strconv.ParseInt(id, 10, 64); err == nil {
			p.intIDs = append(p.intIDs, n)
		}
	}
	sort.Slice(p.intIDs, func(i, j int) bool { return p.intIDs[i] < p.intIDs[j] })
	return p
}

// mayContain reports false only when the statistics prove that no indexed
// flight lies within the row group. Missing or unusable statistics keep
// the row group.
func (p *flightPredicate) mayContain(stats metadata.TypedStatistics) bool {
	if len(p.stringIDs) == 0 {
		return false
	}
	if stats == nil || !stats.HasMinMax() {
		return true
	}

	switch s := stats.(type) {
	case *metadata.Int64Statistics:
		return p.intInRange(s.Min(), s.Max())
	case *metadata.Int32Statistics:
		return p.intInRange(int64(s.Min()), int64(s.Max()))
	case *metadata.ByteArrayStatistics:
		return p.stringInRange(string(s.Min()), string(s.Max()))
	}
	return true
}

func (p *flightPredicate) intInRange(min, max int64) bool {
	i := sort.Search(len(p.intIDs), func(i int) bool { return p.intIDs[i] >= min })
	return i < len(p.intIDs) && p.intIDs[i] <= max
}

func (p *flightPredicate) stringInRange(min, max string) bool {
	i := sort.SearchStrings(p.stringIDs, min)
	return i < len(p.stringIDs) && p.stringIDs[i] <= max
}
