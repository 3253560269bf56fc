package journeyplanner

import (
	"time"

	"github.com/theoremus-urban-solutions/journey-planner/planner"
)

type LegView struct {
	Type       string    `json:"type"`
	Start      time.Time `json:"start"`
	End        time.Time `json:"end"`
	DistanceKM float64   `json:"distance_km,omitempty"`
	RouteID    string    `json:"route_id,omitempty"`
	TripID     string    `json:"trip_id,omitempty"`
	FromStopID string    `json:"from_stop_id,omitempty"`
	ToStopID   string    `json:"to_stop_id,omitempty"`
	FromRoute  string    `json:"from_route_id,omitempty"`
	ToRoute    string    `json:"to_route_id,omitempty"`
	AtStopID   string    `json:"at_stop_id,omitempty"`
	BufferSec  int       `json:"buffer_seconds,omitempty"`
}

type JourneyView struct {
	Departure         time.Time `json:"departure"`
	Arrival           time.Time `json:"arrival"`
	DurationSeconds   int       `json:"duration_seconds"`
	Transfers         int       `json:"transfers"`
	WalkingDistanceKM float64   `json:"walking_distance_km"`
	Routes            []string  `json:"routes"`
	Legs              []LegView `json:"legs"`
}

type journeysResponse struct {
	Journeys []JourneyView `json:"journeys"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func viewLeg(l planner.Leg) LegView {
	return LegView{
		Type:       string(l.Type),
		Start:      l.Start,
		End:        l.End,
		DistanceKM: l.DistanceKM,
		RouteID:    l.RouteID,
		TripID:     l.TripID,
		FromStopID: l.FromStopID,
		ToStopID:   l.ToStopID,
		FromRoute:  l.FromRouteID,
		ToRoute:    l.ToRouteID,
		AtStopID:   l.AtStopID,
		BufferSec:  int(l.Buffer.Seconds()),
	}
}

// ViewJourneys converts planner output to the wire representation used
// by both the HTTP handler and the CLI.
func ViewJourneys(journeys []planner.Journey) []JourneyView {
	out := make([]JourneyView, 0, len(journeys))
	for _, j := range journeys {
		out = append(out, viewJourney(j))
	}
	return out
}

func viewJourney(j planner.Journey) JourneyView {
	legs := make([]LegView, 0, len(j.Legs))
	for _, l := range j.Legs {
		legs = append(legs, viewLeg(l))
	}
	return JourneyView{
		Departure:         j.Departure(),
		Arrival:           j.Arrival(),
		DurationSeconds:   int(j.Duration().Seconds()),
		Transfers:         j.Transfers(),
		WalkingDistanceKM: j.WalkingDistanceKM(),
		Routes:            j.RouteSequence(),
		Legs:              legs,
	}
}
