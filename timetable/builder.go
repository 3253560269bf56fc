package timetable

import (
	"errors"
	"fmt"
	"sort"

	"go.uber.org/zap"

	"github.com/theoremus-urban-solutions/journey-planner/geo"
	"github.com/theoremus-urban-solutions/journey-planner/gtfs"
)

// ErrNoRoutes is returned when a feed yields zero searchable routes.
var ErrNoRoutes = errors.New("timetable: feed contains no routes with connections")

const gridCellKM = 0.5

// Build constructs the timetable from an ingested feed. Frequency-based
// trips are expanded into concrete departures first; each trip then
// emits one connection per consecutive stop pair. Routes that end up
// with no connections are logged and excluded. A feed with zero usable
// routes is a fatal error.
func Build(feed *gtfs.Feed, logger *zap.Logger) (*Timetable, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if feed == nil || len(feed.Trips) == 0 {
		return nil, ErrNoRoutes
	}

	t := &Timetable{
		agencyID:         feed.AgencyID,
		agencyName:       feed.AgencyName,
		stops:            map[string]Stop{},
		routeStops:       map[RouteStop]RouteStopInfo{},
		routesAtStop:     map[string][]string{},
		connsByRoute:     map[string][]Connection{},
		connsByTrip:      map[string][]Connection{},
		connsByRouteStop: map[RouteStop][]Connection{},
		specialDates:     feed.SpecialDates,
	}
	if t.specialDates == nil {
		t.specialDates = map[string]struct{}{}
	}

	trips := expandFrequencies(feed)

	skippedHops := 0
	for _, trip := range trips {
		direction := DirectionOutbound
		if trip.DirectionID == "1" {
			direction = DirectionInbound
		}
		for i, st := range trip.StopTimes {
			stop, ok := feed.Stops[st.StopID]
			if !ok {
				continue
			}
			t.addStop(stop)
			key := RouteStop{RouteID: trip.RouteID, StopID: st.StopID}
			if _, seen := t.routeStops[key]; !seen {
				t.routeStops[key] = RouteStopInfo{Sequence: st.Sequence, Direction: direction}
			}

			if i+1 >= len(trip.StopTimes) {
				continue
			}
			next := trip.StopTimes[i+1]
			if _, ok := feed.Stops[next.StopID]; !ok {
				continue
			}
			if next.ArrivalSec <= st.DepartureSec {
				// no time travel within a trip; zero-length hops carry
				// no information for an earliest-arrival search
				skippedHops++
				continue
			}
			conn := Connection{
				RouteID:      trip.RouteID,
				TripID:       trip.ID,
				FromStopID:   st.StopID,
				ToStopID:     next.StopID,
				DepartureSec: st.DepartureSec,
				ArrivalSec:   next.ArrivalSec,
			}
			t.connsByRoute[trip.RouteID] = append(t.connsByRoute[trip.RouteID], conn)
			t.connsByTrip[trip.ID] = append(t.connsByTrip[trip.ID], conn)
			t.connsByRouteStop[key] = append(t.connsByRouteStop[key], conn)
		}
	}

	seenRoutes := map[string]bool{}
	for key := range t.routeStops {
		seenRoutes[key.RouteID] = true
	}
	for routeID := range seenRoutes {
		if len(t.connsByRoute[routeID]) == 0 {
			logger.Warn("excluding route without connections", zap.String("route", routeID))
			delete(t.connsByRoute, routeID)
			continue
		}
		t.routes = append(t.routes, routeID)
	}
	if len(t.routes) == 0 {
		return nil, fmt.Errorf("%w (trips=%d)", ErrNoRoutes, len(feed.Trips))
	}
	sort.Strings(t.routes)

	// drop (route, stop) registrations of excluded routes
	routeSet := map[string]bool{}
	for _, r := range t.routes {
		routeSet[r] = true
	}
	for key := range t.routeStops {
		if !routeSet[key.RouteID] {
			delete(t.routeStops, key)
		}
	}
	for key := range t.routeStops {
		t.routesAtStop[key.StopID] = append(t.routesAtStop[key.StopID], key.RouteID)
	}
	for stopID := range t.routesAtStop {
		sort.Strings(t.routesAtStop[stopID])
	}

	sortByDeparture := func(conns []Connection) {
		sort.Slice(conns, func(i, j int) bool {
			if conns[i].DepartureSec != conns[j].DepartureSec {
				return conns[i].DepartureSec < conns[j].DepartureSec
			}
			return conns[i].ArrivalSec < conns[j].ArrivalSec
		})
	}
	for _, conns := range t.connsByRoute {
		sortByDeparture(conns)
	}
	for _, conns := range t.connsByRouteStop {
		sortByDeparture(conns)
	}
	for _, conns := range t.connsByTrip {
		sort.Slice(conns, func(i, j int) bool { return conns[i].DepartureSec < conns[j].DepartureSec })
	}

	t.grid = geo.NewGrid(gridCellKM)
	t.gridIDs = make([]string, 0, len(t.stops))
	for id, stop := range t.stops {
		t.grid.Insert(len(t.gridIDs), stop.Location)
		t.gridIDs = append(t.gridIDs, id)
	}

	logger.Info("timetable built",
		zap.Int("routes", len(t.routes)),
		zap.Int("stops", len(t.stops)),
		zap.Int("skipped_zero_length_hops", skippedHops),
		zap.Int("dropped_stop_records", feed.DroppedStops))
	return t, nil
}

func (t *Timetable) addStop(s gtfs.Stop) {
	if _, ok := t.stops[s.ID]; ok {
		return
	}
	t.stops[s.ID] = Stop{
		ID:       s.ID,
		Name:     s.Name,
		Location: geo.Point{Latitude: s.Latitude, Longitude: s.Longitude},
	}
}

// expandFrequencies turns frequency-based trips into concrete departures
// every headway within [start, end), shifting all stop times by the
// offset from the trip's first departure. Trips without frequency
// entries pass through unchanged.
func expandFrequencies(feed *gtfs.Feed) []*gtfs.Trip {
	freqByTrip := map[string][]gtfs.Frequency{}
	for _, f := range feed.Frequencies {
		freqByTrip[f.TripID] = append(freqByTrip[f.TripID], f)
	}

	var out []*gtfs.Trip
	tripIDs := make([]string, 0, len(feed.Trips))
	for id := range feed.Trips {
		tripIDs = append(tripIDs, id)
	}
	sort.Strings(tripIDs)

	for _, id := range tripIDs {
		trip := feed.Trips[id]
		freqs, ok := freqByTrip[id]
		if !ok || len(trip.StopTimes) == 0 {
			out = append(out, trip)
			continue
		}
		base := trip.StopTimes[0].DepartureSec
		run := 0
		for _, f := range freqs {
			for start := f.StartSec; start < f.EndSec; start += f.HeadwaySec {
				clone := &gtfs.Trip{
					ID:          fmt.Sprintf("%s#%d", trip.ID, run),
					RouteID:     trip.RouteID,
					DirectionID: trip.DirectionID,
					StopTimes:   make([]gtfs.StopTime, len(trip.StopTimes)),
				}
				offset := start - base
				for i, st := range trip.StopTimes {
					st.ArrivalSec += offset
					st.DepartureSec += offset
					clone.StopTimes[i] = st
				}
				out = append(out, clone)
				run++
			}
		}
	}
	return out
}
