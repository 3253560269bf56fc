package planner

import (
	"container/heap"
	"context"
	"errors"

	"github.com/theoremus-urban-solutions/journey-planner/timetable"
)

// ErrUnknownStop signals a contract violation: the caller asked to scan
// from or to a stop that is not part of the timetable.
var ErrUnknownStop = errors.New("planner: stop not present in timetable")

// hop is one stop-to-stop movement recovered from the predecessor
// chain. TransferBufferSec is non-zero when boarding required a route
// change at FromStopID.
type hop struct {
	FromStopID        string
	ToStopID          string
	RouteID           string
	TripID            string
	DepartureSec      int
	ArrivalSec        int
	TransferBufferSec int
}

// predecessor records how a stop was reached, for path reconstruction.
type predecessor struct {
	fromStopID string
	routeID    string
	tripID     string
	departSec  int
	arriveSec  int
	bufferSec  int
}

type queueItem struct {
	arriveSec int
	stopID    string
	routeID   string // route used to arrive; empty at the origin
	transfers int
}

// scanQueue is a min-heap on arrival time.
type scanQueue []queueItem

func (q scanQueue) Len() int            { return len(q) }
func (q scanQueue) Less(i, j int) bool  { return q[i].arriveSec < q[j].arriveSec }
func (q scanQueue) Swap(i, j int)       { q[i], q[j] = q[j], q[i] }
func (q *scanQueue) Push(x any)         { *q = append(*q, x.(queueItem)) }
func (q *scanQueue) Pop() any {
	old := *q
	n := len(old)
	it := old[n-1]
	*q = old[:n-1]
	return it
}

// connectionScan runs one earliest-arrival search from originStop to
// destStop, seeded with arrival at the origin at startSec. It returns
// the path traces of up to MaxDestinationVisits destination arrivals.
// An unreachable destination is a normal empty result, not an error.
// All scratch state lives inside this call; nothing is shared between
// runs.
func (p *Planner) connectionScan(ctx context.Context, originStop, destStop string, startSec int) ([][]hop, error) {
	if _, ok := p.tt.Stop(originStop); !ok {
		return nil, ErrUnknownStop
	}
	if _, ok := p.tt.Stop(destStop); !ok {
		return nil, ErrUnknownStop
	}

	earliest := map[string]int{originStop: startSec}
	preds := map[string]predecessor{}
	visited := map[timetable.RouteStop]bool{}

	queue := &scanQueue{{arriveSec: startSec, stopID: originStop, transfers: 0}}
	heap.Init(queue)

	var traces [][]hop
	destVisits := 0
	scanned := 0

scan:
	for queue.Len() > 0 {
		// cancellation is checked at the natural suspension point
		if err := ctx.Err(); err != nil {
			return traces, err
		}
		cur := heap.Pop(queue).(queueItem)

		if cur.stopID == destStop {
			if trace := reconstruct(originStop, destStop, preds); trace != nil {
				traces = append(traces, trace)
			}
			destVisits++
			if destVisits >= p.opts.MaxDestinationVisits {
				break
			}
			continue
		}
		if cur.transfers > p.opts.MaxTransfers {
			continue
		}

		for _, routeID := range p.tt.RoutesAt(cur.stopID) {
			changesRoute := cur.routeID != "" && cur.routeID != routeID
			if changesRoute && cur.transfers >= p.opts.MaxTransfers {
				continue
			}
			key := timetable.RouteStop{RouteID: routeID, StopID: cur.stopID}
			if visited[key] {
				continue
			}
			visited[key] = true

			ready := cur.arriveSec
			buffer := 0
			if changesRoute {
				b, ok := p.transferBuffer(cur.routeID, cur.stopID, routeID)
				if !ok {
					continue // no viable interchange: not an error, just no edge
				}
				buffer = b
				ready += b
			}

			for _, conn := range p.tt.ConnectionsFromAfter(routeID, cur.stopID, ready) {
				scanned++
				if scanned > p.opts.MaxConnectionsScanned {
					break scan
				}
				best, seen := earliest[conn.ToStopID]
				if seen && conn.ArrivalSec >= best {
					continue
				}
				earliest[conn.ToStopID] = conn.ArrivalSec
				preds[conn.ToStopID] = predecessor{
					fromStopID: cur.stopID,
					routeID:    routeID,
					tripID:     conn.TripID,
					departSec:  conn.DepartureSec,
					arriveSec:  conn.ArrivalSec,
					bufferSec:  buffer,
				}
				next := cur.transfers
				if changesRoute {
					next++
				}
				heap.Push(queue, queueItem{
					arriveSec: conn.ArrivalSec,
					stopID:    conn.ToStopID,
					routeID:   routeID,
					transfers: next,
				})
			}
		}
	}
	return traces, nil
}

// transferBuffer returns the smallest minimum-transfer-time buffer of a
// viable interchange from (fromRoute, stop) to toRoute, or false when
// no viable interchange exists.
func (p *Planner) transferBuffer(fromRoute, stopID, toRoute string) (int, bool) {
	best := 0
	found := false
	for _, t := range p.transfers.TransfersFrom(fromRoute, stopID, true) {
		if t.ToRouteID != toRoute {
			continue
		}
		if !found || t.MinTransferSec < best {
			best = t.MinTransferSec
			found = true
		}
	}
	return best, found
}

// reconstruct walks the predecessor chain backwards from the
// destination. A broken chain (a predecessor missing before reaching
// the origin) means no journey: it returns nil rather than an error.
func reconstruct(originStop, destStop string, preds map[string]predecessor) []hop {
	var reversed []hop
	cur := destStop
	for cur != originStop {
		pr, ok := preds[cur]
		if !ok {
			return nil
		}
		reversed = append(reversed, hop{
			FromStopID:        pr.fromStopID,
			ToStopID:          cur,
			RouteID:           pr.routeID,
			TripID:            pr.tripID,
			DepartureSec:      pr.departSec,
			ArrivalSec:        pr.arriveSec,
			TransferBufferSec: pr.bufferSec,
		})
		cur = pr.fromStopID
	}
	if len(reversed) == 0 {
		return nil
	}
	trace := make([]hop, len(reversed))
	for i, h := range reversed {
		trace[len(reversed)-1-i] = h
	}
	return trace
}
