package planner

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/theoremus-urban-solutions/journey-planner/geo"
	"github.com/theoremus-urban-solutions/journey-planner/timetable"
	"github.com/theoremus-urban-solutions/journey-planner/transfer"
)

// ErrInvalidCoordinates signals a query outside the geographic range.
var ErrInvalidCoordinates = errors.New("planner: coordinates out of range")

// Query is one journey request.
type Query struct {
	Origin      geo.Point
	Destination geo.Point
	Departure   time.Time
	// MaxAlternatives overrides the planner option when positive.
	MaxAlternatives int
}

// Planner runs journey queries. It only reads the timetable and the
// transfer index, so a single Planner serves concurrent queries.
type Planner struct {
	tt        *timetable.Timetable
	transfers *transfer.Index
	opts      Options
	logger    *zap.Logger
}

// New creates a planner. A zero Options value selects the defaults;
// otherwise the options are validated and invalid tuning is rejected
// before any query can run.
func New(tt *timetable.Timetable, ix *transfer.Index, opts Options, logger *zap.Logger) (*Planner, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts == (Options{}) {
		opts = DefaultOptions()
	}
	opts = opts.withDefaults()
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if ix == nil {
		ix = transfer.NewIndex()
	}
	return &Planner{tt: tt, transfers: ix, opts: opts, logger: logger}, nil
}

// candidate is a boarding or alighting stop near a query endpoint.
type candidate struct {
	stop       timetable.Stop
	distanceKM float64
	walkSec    float64
}

// FindJourneys answers a query with up to MaxAlternatives journeys,
// best first. An empty result means no path within the configured
// bounds; it is not an error. The full connection scan runs first; if
// it legitimately finds nothing, the direct-route strategy runs as the
// documented second tier.
func (p *Planner) FindJourneys(ctx context.Context, q Query) ([]Journey, error) {
	if !geo.ValidCoordinates(q.Origin.Latitude, q.Origin.Longitude) ||
		!geo.ValidCoordinates(q.Destination.Latitude, q.Destination.Longitude) {
		return nil, ErrInvalidCoordinates
	}
	queryID := uuid.NewString()
	log := p.logger.With(zap.String("query_id", queryID))

	origins := p.candidatesNear(q.Origin)
	if len(origins) == 0 {
		log.Info("no stops near origin")
		return nil, nil
	}
	dests := p.candidatesNear(q.Destination)
	if len(dests) == 0 {
		log.Info("no stops near destination")
		return nil, nil
	}

	dayStart := serviceDayStart(q.Departure)
	depSec := int(q.Departure.Sub(dayStart) / time.Second)

	journeys, err := p.scanAll(ctx, origins, dests, q, dayStart, depSec)
	if err != nil {
		return nil, err
	}
	if len(journeys) == 0 {
		// second tier: single-route search without transfers
		journeys = p.directJourneys(ctx, origins, dests, q, dayStart, depSec)
		if len(journeys) > 0 {
			log.Info("direct-route fallback produced journeys", zap.Int("count", len(journeys)))
		}
	}

	journeys = rank(journeys)
	limit := q.MaxAlternatives
	if limit <= 0 {
		limit = p.opts.MaxAlternatives
	}
	if len(journeys) > limit {
		journeys = journeys[:limit]
	}
	log.Info("query answered",
		zap.Int("origin_candidates", len(origins)),
		zap.Int("destination_candidates", len(dests)),
		zap.Int("journeys", len(journeys)))
	return journeys, nil
}

// scanAll runs the connection scan for every candidate pair. Scans per
// boarding stop are independent and run concurrently; results merge
// after all goroutines finish.
func (p *Planner) scanAll(ctx context.Context, origins, dests []candidate, q Query, dayStart time.Time, depSec int) ([]Journey, error) {
	var (
		mu       sync.Mutex
		journeys []Journey
		firstErr error
		wg       sync.WaitGroup
	)
	for _, o := range origins {
		wg.Add(1)
		go func(o candidate) {
			defer wg.Done()
			startSec := depSec + int(o.walkSec)
			for _, d := range dests {
				if o.stop.ID == d.stop.ID {
					continue
				}
				traces, err := p.connectionScan(ctx, o.stop.ID, d.stop.ID, startSec)
				mu.Lock()
				if err != nil && firstErr == nil && !errors.Is(err, ErrUnknownStop) {
					firstErr = err
				}
				for _, trace := range traces {
					journeys = append(journeys, p.assemble(trace, o, d, q, dayStart))
				}
				mu.Unlock()
			}
		}(o)
	}
	wg.Wait()
	if firstErr != nil {
		return nil, firstErr
	}
	return journeys, nil
}

func (p *Planner) candidatesNear(pt geo.Point) []candidate {
	near := p.tt.NearbyStops(pt, p.opts.MaxWalkingKM, p.opts.CandidateStops)
	out := make([]candidate, 0, len(near))
	for _, sd := range near {
		out = append(out, candidate{
			stop:       sd.Stop,
			distanceKM: sd.DistanceKM,
			walkSec:    geo.WalkingTimeSeconds(sd.DistanceKM, p.opts.WalkingSpeedKMH),
		})
	}
	return out
}

// assemble stitches a path trace into a complete journey: access walk,
// transit hops with transfer legs at route changes, egress walk.
func (p *Planner) assemble(trace []hop, o, d candidate, q Query, dayStart time.Time) Journey {
	legs := make([]Leg, 0, len(trace)+3)

	walkEnd := q.Departure.Add(time.Duration(o.walkSec) * time.Second)
	legs = append(legs, Leg{
		Type:       LegWalk,
		Start:      q.Departure,
		End:        walkEnd,
		DistanceKM: o.distanceKM,
		ToStopID:   o.stop.ID,
	})

	var prevRoute string
	var prevArrival time.Time
	for i, h := range trace {
		depart := dayStart.Add(time.Duration(h.DepartureSec) * time.Second)
		arrive := dayStart.Add(time.Duration(h.ArrivalSec) * time.Second)
		if i > 0 && h.RouteID != prevRoute {
			buffer := time.Duration(h.TransferBufferSec) * time.Second
			legs = append(legs, Leg{
				Type:        LegTransfer,
				Start:       prevArrival,
				End:         prevArrival.Add(buffer),
				FromRouteID: prevRoute,
				ToRouteID:   h.RouteID,
				AtStopID:    h.FromStopID,
				Buffer:      buffer,
			})
		}
		legs = append(legs, Leg{
			Type:       LegTransit,
			Start:      depart,
			End:        arrive,
			RouteID:    h.RouteID,
			TripID:     h.TripID,
			FromStopID: h.FromStopID,
			ToStopID:   h.ToStopID,
		})
		prevRoute = h.RouteID
		prevArrival = arrive
	}

	egressStart := prevArrival
	if len(trace) == 0 {
		egressStart = walkEnd
	}
	legs = append(legs, Leg{
		Type:       LegWalk,
		Start:      egressStart,
		End:        egressStart.Add(time.Duration(d.walkSec) * time.Second),
		DistanceKM: d.distanceKM,
		FromStopID: d.stop.ID,
	})
	return Journey{Legs: legs}
}

// rank sorts by (duration, transfers) ascending and drops journeys
// whose ordered route sequence duplicates a better-ranked one.
func rank(journeys []Journey) []Journey {
	sort.SliceStable(journeys, func(i, j int) bool { return journeys[i].Better(journeys[j]) })
	seen := map[string]bool{}
	out := journeys[:0]
	for _, j := range journeys {
		key := j.routeKey()
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, j)
	}
	return out
}

func serviceDayStart(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
