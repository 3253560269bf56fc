package timetable

import (
	"sort"

	"github.com/theoremus-urban-solutions/journey-planner/geo"
)

// Direction tells which way a route visits a stop.
type Direction string

const (
	DirectionOutbound Direction = "outbound"
	DirectionInbound  Direction = "inbound"
)

// RouteStop is the composite key for per-(route, stop) lookups.
type RouteStop struct {
	RouteID string
	StopID  string
}

// Stop is a station with fixed coordinates.
type Stop struct {
	ID       string
	Name     string
	Location geo.Point
}

// RouteStopInfo describes how a route relates to one of its stops.
type RouteStopInfo struct {
	Sequence  int
	Direction Direction
}

// Connection is one scheduled, direct hop of a trip between two
// consecutive stops. Times are seconds since the service-day start.
type Connection struct {
	RouteID      string
	TripID       string
	FromStopID   string
	ToStopID     string
	DepartureSec int
	ArrivalSec   int
}

// Timetable is the static model the search engine runs against.
type Timetable struct {
	agencyID   string
	agencyName string

	stops        map[string]Stop
	routes       []string
	routeStops   map[RouteStop]RouteStopInfo
	routesAtStop map[string][]string

	connsByRoute     map[string][]Connection
	connsByTrip      map[string][]Connection
	connsByRouteStop map[RouteStop][]Connection

	specialDates map[string]struct{}

	grid    *geo.Grid
	gridIDs []string // grid id -> stop id
}

// AgencyID returns the feed's agency identifier.
func (t *Timetable) AgencyID() string { return t.agencyID }

// AgencyName returns the feed's agency display name.
func (t *Timetable) AgencyName() string { return t.agencyName }

// Stop looks up a stop by id.
func (t *Timetable) Stop(id string) (Stop, bool) {
	s, ok := t.stops[id]
	return s, ok
}

// StopCount returns the number of stops in the model.
func (t *Timetable) StopCount() int { return len(t.stops) }

// Routes returns all route ids, sorted.
func (t *Timetable) Routes() []string { return t.routes }

// RoutesAt returns the routes serving a stop, sorted by id.
func (t *Timetable) RoutesAt(stopID string) []string {
	return t.routesAtStop[stopID]
}

// SequenceOf returns the position of a stop in the route's stop order.
func (t *Timetable) SequenceOf(routeID, stopID string) (int, bool) {
	info, ok := t.routeStops[RouteStop{RouteID: routeID, StopID: stopID}]
	return info.Sequence, ok
}

// RouteStopInfo returns sequence and direction for a (route, stop) pair.
func (t *Timetable) RouteStopInfo(routeID, stopID string) (RouteStopInfo, bool) {
	info, ok := t.routeStops[RouteStop{RouteID: routeID, StopID: stopID}]
	return info, ok
}

// ConnectionsOf returns the route's connections ordered by departure.
func (t *Timetable) ConnectionsOf(routeID string) []Connection {
	return t.connsByRoute[routeID]
}

// ConnectionsOfTrip returns a single trip's connections in travel order.
func (t *Timetable) ConnectionsOfTrip(tripID string) []Connection {
	return t.connsByTrip[tripID]
}

// ConnectionsFrom returns connections departing the stop on the route,
// ordered by departure time. The slice is shared; callers must not
// mutate it.
func (t *Timetable) ConnectionsFrom(routeID, stopID string) []Connection {
	return t.connsByRouteStop[RouteStop{RouteID: routeID, StopID: stopID}]
}

// ConnectionsFromAfter returns the suffix of ConnectionsFrom whose
// departure is at or after sec.
func (t *Timetable) ConnectionsFromAfter(routeID, stopID string, sec int) []Connection {
	conns := t.ConnectionsFrom(routeID, stopID)
	i := sort.Search(len(conns), func(i int) bool { return conns[i].DepartureSec >= sec })
	return conns[i:]
}

// IsSpecialDate reports a calendar exception for a YYYYMMDD date.
func (t *Timetable) IsSpecialDate(date string) bool {
	_, ok := t.specialDates[date]
	return ok
}
