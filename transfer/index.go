package transfer

import (
	"sort"

	"github.com/theoremus-urban-solutions/journey-planner/timetable"
)

// Stats summarizes a built index for diagnostics.
type Stats struct {
	Total               int     `json:"total_transfers"`
	Viable              int     `json:"viable_transfers"`
	ViabilityRate       float64 `json:"viability_rate"`
	RoutesWithTransfers int     `json:"routes_with_transfers"`
}

// Index is the registry of candidate interchanges, keyed by
// (from-route, from-stop), with a reverse index by destination route
// for analytics. Built once per feed snapshot; read-only afterwards.
type Index struct {
	transfers map[timetable.RouteStop][]Connection
	byToRoute map[string][]Connection
}

// NewIndex creates an empty index.
func NewIndex() *Index {
	return &Index{
		transfers: map[timetable.RouteStop][]Connection{},
		byToRoute: map[string][]Connection{},
	}
}

// Add registers a candidate interchange.
func (ix *Index) Add(c Connection) {
	key := timetable.RouteStop{RouteID: c.FromRouteID, StopID: c.FromStopID}
	ix.transfers[key] = append(ix.transfers[key], c)
	ix.byToRoute[c.ToRouteID] = append(ix.byToRoute[c.ToRouteID], c)
}

// TransfersFrom returns the interchanges leaving a (route, stop) pair,
// ordered by walking distance. viableOnly filters with the viability
// predicate; the scan engine always passes true, false is reserved for
// diagnostics.
func (ix *Index) TransfersFrom(routeID, stopID string, viableOnly bool) []Connection {
	all := ix.transfers[timetable.RouteStop{RouteID: routeID, StopID: stopID}]
	if !viableOnly {
		return all
	}
	var out []Connection
	for _, c := range all {
		if c.Viable() {
			out = append(out, c)
		}
	}
	return out
}

// TransfersTo returns every interchange arriving at a route.
func (ix *Index) TransfersTo(routeID string) []Connection {
	return ix.byToRoute[routeID]
}

// Len returns the total number of registered interchanges.
func (ix *Index) Len() int {
	n := 0
	for _, conns := range ix.transfers {
		n += len(conns)
	}
	return n
}

// Stats computes summary statistics over the whole index.
func (ix *Index) Stats() Stats {
	s := Stats{}
	fromRoutes := map[string]struct{}{}
	for _, conns := range ix.transfers {
		for _, c := range conns {
			s.Total++
			if c.Viable() {
				s.Viable++
			}
			fromRoutes[c.FromRouteID] = struct{}{}
		}
	}
	s.RoutesWithTransfers = len(fromRoutes)
	if s.Total > 0 {
		s.ViabilityRate = float64(s.Viable) / float64(s.Total)
	}
	return s
}

// sortAll fixes a deterministic per-key order after a parallel build.
func (ix *Index) sortAll() {
	less := func(a, b Connection) bool {
		if a.WalkingDistanceKM != b.WalkingDistanceKM {
			return a.WalkingDistanceKM < b.WalkingDistanceKM
		}
		if a.ToRouteID != b.ToRouteID {
			return a.ToRouteID < b.ToRouteID
		}
		return a.ToStopID < b.ToStopID
	}
	for _, conns := range ix.transfers {
		sort.Slice(conns, func(i, j int) bool { return less(conns[i], conns[j]) })
	}
	for _, conns := range ix.byToRoute {
		sort.Slice(conns, func(i, j int) bool { return less(conns[i], conns[j]) })
	}
}
