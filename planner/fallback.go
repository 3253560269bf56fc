package planner

import (
	"context"
	"time"
)

// directJourneys is the second-tier strategy: when the full scan finds
// nothing, look for a single route serving both a boarding and an
// alighting candidate and ride the earliest trip between them. It is a
// deliberately simple heuristic, not a replacement for the scan.
func (p *Planner) directJourneys(ctx context.Context, origins, dests []candidate, q Query, dayStart time.Time, depSec int) []Journey {
	var journeys []Journey
	for _, o := range origins {
		startSec := depSec + int(o.walkSec)
		for _, d := range dests {
			if o.stop.ID == d.stop.ID {
				continue
			}
			if ctx.Err() != nil {
				return journeys
			}
			for _, routeID := range p.tt.RoutesAt(o.stop.ID) {
				oSeq, ok := p.tt.SequenceOf(routeID, o.stop.ID)
				if !ok {
					continue
				}
				dSeq, ok := p.tt.SequenceOf(routeID, d.stop.ID)
				if !ok || dSeq <= oSeq {
					continue
				}
				if trace := p.earliestDirectTrace(routeID, o.stop.ID, d.stop.ID, startSec); trace != nil {
					journeys = append(journeys, p.assemble(trace, o, d, q, dayStart))
				}
			}
		}
	}
	return journeys
}

// earliestDirectTrace follows the earliest trip on the route that
// departs the boarding stop at or after startSec and reaches the
// alighting stop without leaving the trip.
func (p *Planner) earliestDirectTrace(routeID, fromStop, toStop string, startSec int) []hop {
	for _, conn := range p.tt.ConnectionsFromAfter(routeID, fromStop, startSec) {
		if trace := p.followTrip(conn.TripID, fromStop, toStop, conn.DepartureSec); trace != nil {
			return trace
		}
	}
	return nil
}

// followTrip rides one trip from fromStop and returns the hop chain if
// the trip reaches toStop.
func (p *Planner) followTrip(tripID, fromStop, toStop string, departSec int) []hop {
	conns := p.tt.ConnectionsOfTrip(tripID)
	var trace []hop
	riding := false
	for _, c := range conns {
		if !riding {
			if c.FromStopID != fromStop || c.DepartureSec != departSec {
				continue
			}
			riding = true
		} else if len(trace) > 0 && trace[len(trace)-1].ToStopID != c.FromStopID {
			return nil // trip chain broken
		}
		trace = append(trace, hop{
			FromStopID:   c.FromStopID,
			ToStopID:     c.ToStopID,
			RouteID:      c.RouteID,
			TripID:       c.TripID,
			DepartureSec: c.DepartureSec,
			ArrivalSec:   c.ArrivalSec,
		})
		if c.ToStopID == toStop {
			return trace
		}
	}
	return nil
}
