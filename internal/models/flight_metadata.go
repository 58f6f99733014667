package models

import (
	"strconv"
	"time"
)

// FlightMetadata is the per-flight reference data joined onto trajectories.
type FlightMetadata struct {
	FlightID       string
	ActualOffBlock time.Time
	TaxiOut        time.Duration
	ATOT           time.Time // actual take-off time: off-block + taxi-out
}

// NewFlightMetadata derives the take-off time from off-block and taxi-out.
func NewFlightMetadata(flightID string, offBlock time.Time, taxiOut time.Duration) FlightMetadata {
	return FlightMetadata{
		FlightID:       flightID,
		ActualOffBlock: offBlock,
		TaxiOut:        taxiOut,
		ATOT:           offBlock.Add(taxiOut),
	}
}

// HasATOT reports whether the take-off time is known. A flight with a
// blank off-block or taxi-out value has none and keeps no samples.
func (m FlightMetadata) HasATOT() bool {
	return !m.ATOT.IsZero()
}

// FlightIndex is the metadata table keyed by flight_id.
type FlightIndex struct {
	flights map[string]FlightMetadata
	order   []string
}

// NewFlightIndex builds an index. When a flight_id repeats, the first
// record is kept.
func NewFlightIndex(records []FlightMetadata) *FlightIndex {
	idx := &FlightIndex{flights: make(map[string]FlightMetadata, len(records))}
	for _, r := range records {
		if _, ok := idx.flights[r.FlightID]; ok {
			continue
		}
		idx.flights[r.FlightID] = r
		idx.order = append(idx.order, r.FlightID)
	}
	return idx
}

// Len returns the number of distinct flights.
func (idx *FlightIndex) Len() int {
	return len(idx.order)
}

// Contains reports whether the flight is known.
func (idx *FlightIndex) Contains(flightID string) bool {
	_, ok := idx.flights[flightID]
	return ok
}

// Lookup returns the metadata of a flight.
func (idx *FlightIndex) Lookup(flightID string) (FlightMetadata, bool) {
	m, ok := idx.flights[flightID]
	return m, ok
}

// IDs returns the flight ids in load order.
func (idx *FlightIndex) IDs() []string {
	out := make([]string, len(idx.order))
	copy(out, idx.order)
	return out
}

// LessFlightID orders flight ids numerically when both are integers and
// lexicographically otherwise.
func LessFlightID(a, b string) bool {
	na, errA := strconv.ParseInt(a, 10, 64)
	nb, errB := strconv.ParseInt(b, 10, 64)
	switch {
	case errA == nil && errB == nil:
		return na < nb
	case errA == nil:
		return true
	case errB == nil:
		return false
	}
	return a < b
}
