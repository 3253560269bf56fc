package gtfs

import (
	"fmt"
	"strconv"
	"strings"
)

// Stop is one stops.txt record with valid coordinates.
type Stop struct {
	ID        string
	Name      string
	Latitude  float64
	Longitude float64
}

// StopTime is one scheduled visit of a trip at a stop. Times are
// seconds since the start of the service day; GTFS times past midnight
// (e.g. 25:10:00) stay representable.
type StopTime struct {
	StopID       string
	Sequence     int
	ArrivalSec   int
	DepartureSec int
}

// Trip is one trips.txt record with its ordered stop visits.
type Trip struct {
	ID          string
	RouteID     string
	DirectionID string // "0" or "1"
	StopTimes   []StopTime
}

// Frequency is one frequencies.txt record: the trip repeats every
// HeadwaySec within [StartSec, EndSec).
type Frequency struct {
	TripID     string
	StartSec   int
	EndSec     int
	HeadwaySec int
}

// Feed is the ingested static feed. Trips hold their stop visits sorted
// by sequence; DroppedStops counts stop records rejected for missing or
// out-of-range coordinates.
type Feed struct {
	AgencyID        string
	AgencyName      string
	AgencyTimezone  string
	Stops           map[string]Stop
	Trips           map[string]*Trip
	RouteShortNames map[string]string
	Frequencies     []Frequency
	SpecialDates    map[string]struct{} // YYYYMMDD service exception dates
	DroppedStops    int
}

// NewFeed creates an empty feed.
func NewFeed() *Feed {
	return &Feed{
		Stops:           map[string]Stop{},
		Trips:           map[string]*Trip{},
		RouteShortNames: map[string]string{},
		SpecialDates:    map[string]struct{}{},
	}
}

// IsSpecialDate reports whether the YYYYMMDD date carries a service
// exception in calendar_dates.txt.
func (f *Feed) IsSpecialDate(date string) bool {
	_, ok := f.SpecialDates[date]
	return ok
}

// ParseTimeSeconds parses a GTFS HH:MM:SS time into seconds since the
// start of the service day. Hours may exceed 23 for post-midnight
// service.
func ParseTimeSeconds(s string) (int, error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) != 3 {
		return 0, fmt.Errorf("malformed GTFS time %q", s)
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil || h < 0 {
		return 0, fmt.Errorf("malformed GTFS time %q", s)
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil || m < 0 || m > 59 {
		return 0, fmt.Errorf("malformed GTFS time %q", s)
	}
	sec, err := strconv.Atoi(parts[2])
	if err != nil || sec < 0 || sec > 59 {
		return 0, fmt.Errorf("malformed GTFS time %q", s)
	}
	return h*3600 + m*60 + sec, nil
}
