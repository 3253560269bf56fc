package timetable

import (
	"github.com/theoremus-urban-solutions/journey-planner/geo"
)

// StopDistance pairs a stop with its great-circle distance from a query
// point or stop.
type StopDistance struct {
	Stop       Stop
	DistanceKM float64
}

// StopsNear returns every stop within radiusKM of the point, ordered
// ascending by distance.
func (t *Timetable) StopsNear(p geo.Point, radiusKM float64) []StopDistance {
	matches := t.grid.Within(p, radiusKM)
	out := make([]StopDistance, 0, len(matches))
	for _, m := range matches {
		out = append(out, StopDistance{Stop: t.stops[t.gridIDs[m.ID]], DistanceKM: m.DistanceKM})
	}
	return out
}

// NearbyStops is StopsNear truncated to limit results. limit <= 0 means
// no truncation.
func (t *Timetable) NearbyStops(p geo.Point, radiusKM float64, limit int) []StopDistance {
	out := t.StopsNear(p, radiusKM)
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

// NearbyRoutes finds the routes reachable on foot from a stop: every
// route with a stop within radiusKM, mapped to that route's nearby
// stops ordered ascending by distance. The query stop itself is a
// candidate at distance zero, so routes sharing the stop stay
// discoverable; route self-interchange filtering is the transfer
// builder's concern.
func (t *Timetable) NearbyRoutes(stopID string, radiusKM float64) map[string][]StopDistance {
	origin, ok := t.stops[stopID]
	if !ok {
		return nil
	}
	out := map[string][]StopDistance{}
	for _, cand := range t.StopsNear(origin.Location, radiusKM) {
		for _, routeID := range t.routesAtStop[cand.Stop.ID] {
			out[routeID] = append(out[routeID], cand)
		}
	}
	// StopsNear is distance-ordered, so each route's slice already is.
	return out
}
