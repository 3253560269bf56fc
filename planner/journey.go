package planner

import (
	"strings"
	"time"
)

// LegType discriminates the three kinds of journey legs.
type LegType string

const (
	LegWalk     LegType = "walk"
	LegTransit  LegType = "transit"
	LegTransfer LegType = "transfer"
)

// Leg is one segment of a journey. Which fields are meaningful depends
// on Type: walk legs carry a distance, transit legs a route and stop
// pair, transfer legs the route change and its buffer.
type Leg struct {
	Type  LegType   `json:"type"`
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`

	DistanceKM float64 `json:"distance_km,omitempty"`

	RouteID    string `json:"route_id,omitempty"`
	TripID     string `json:"trip_id,omitempty"`
	FromStopID string `json:"from_stop_id,omitempty"`
	ToStopID   string `json:"to_stop_id,omitempty"`

	FromRouteID string        `json:"from_route_id,omitempty"`
	ToRouteID   string        `json:"to_route_id,omitempty"`
	AtStopID    string        `json:"at_stop_id,omitempty"`
	Buffer      time.Duration `json:"-"`
}

// Duration is the leg's elapsed time.
func (l Leg) Duration() time.Duration { return l.End.Sub(l.Start) }

// Journey is an ordered sequence of legs. Journeys are value objects:
// never mutated after assembly.
type Journey struct {
	Legs []Leg `json:"legs"`
}

// Departure is the start of the first leg.
func (j Journey) Departure() time.Time {
	if len(j.Legs) == 0 {
		return time.Time{}
	}
	return j.Legs[0].Start
}

// Arrival is the end of the last leg.
func (j Journey) Arrival() time.Time {
	if len(j.Legs) == 0 {
		return time.Time{}
	}
	return j.Legs[len(j.Legs)-1].End
}

// Duration is last leg end minus first leg start.
func (j Journey) Duration() time.Duration {
	return j.Arrival().Sub(j.Departure())
}

// Transfers counts the transfer legs.
func (j Journey) Transfers() int {
	n := 0
	for _, l := range j.Legs {
		if l.Type == LegTransfer {
			n++
		}
	}
	return n
}

// WalkingDistanceKM sums the walk legs' distances.
func (j Journey) WalkingDistanceKM() float64 {
	d := 0.0
	for _, l := range j.Legs {
		if l.Type == LegWalk {
			d += l.DistanceKM
		}
	}
	return d
}

// RouteSequence is the ordered route ids of the transit legs. Two
// journeys with the same sequence are considered duplicates.
func (j Journey) RouteSequence() []string {
	var seq []string
	for _, l := range j.Legs {
		if l.Type == LegTransit {
			if n := len(seq); n == 0 || seq[n-1] != l.RouteID {
				seq = append(seq, l.RouteID)
			}
		}
	}
	return seq
}

func (j Journey) routeKey() string {
	return strings.Join(j.RouteSequence(), "|")
}

// Better orders journeys by total duration, then transfer count.
func (j Journey) Better(other Journey) bool {
	if d1, d2 := j.Duration(), other.Duration(); d1 != d2 {
		return d1 < d2
	}
	return j.Transfers() < other.Transfers()
}
