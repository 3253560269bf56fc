package transfer

import (
	"fmt"
	"runtime"
	"sort"
	"sync"

	"go.uber.org/zap"

	"github.com/theoremus-urban-solutions/journey-planner/geo"
	"github.com/theoremus-urban-solutions/journey-planner/timetable"
)

// BuildOptions tunes transfer matrix construction. The zero value is
// not usable; call withDefaults or start from DefaultBuildOptions.
type BuildOptions struct {
	SearchRadiusKM       float64
	NearestStopsPerRoute int
	WalkingSpeedKMH      float64
	MinTransferSec       int
	MaxWaitingSec        int
	Workers              int
}

// DefaultBuildOptions returns the standard tuning.
func DefaultBuildOptions() BuildOptions {
	return BuildOptions{
		SearchRadiusKM:       0.5,
		NearestStopsPerRoute: 3,
		WalkingSpeedKMH:      5.0,
		MinTransferSec:       120,
		MaxWaitingSec:        900,
		Workers:              runtime.NumCPU(),
	}
}

func (o BuildOptions) withDefaults() BuildOptions {
	d := DefaultBuildOptions()
	if o.SearchRadiusKM == 0 {
		o.SearchRadiusKM = d.SearchRadiusKM
	}
	if o.NearestStopsPerRoute == 0 {
		o.NearestStopsPerRoute = d.NearestStopsPerRoute
	}
	if o.WalkingSpeedKMH == 0 {
		o.WalkingSpeedKMH = d.WalkingSpeedKMH
	}
	if o.MinTransferSec == 0 {
		o.MinTransferSec = d.MinTransferSec
	}
	if o.MaxWaitingSec == 0 {
		o.MaxWaitingSec = d.MaxWaitingSec
	}
	if o.Workers == 0 {
		o.Workers = d.Workers
	}
	return o
}

// Validate rejects configurations that cannot produce a correct matrix.
func (o BuildOptions) Validate() error {
	if o.SearchRadiusKM < 0 {
		return fmt.Errorf("transfer: negative search radius %v", o.SearchRadiusKM)
	}
	if o.WalkingSpeedKMH < 0 {
		return fmt.Errorf("transfer: negative walking speed %v", o.WalkingSpeedKMH)
	}
	if o.NearestStopsPerRoute < 0 || o.MinTransferSec < 0 || o.MaxWaitingSec < 0 || o.Workers < 0 {
		return fmt.Errorf("transfer: negative build option")
	}
	return nil
}

// Build computes the transfer matrix for a timetable. Each (route,
// stop) pair is an independent work item: a fixed worker pool computes
// candidate interchanges into private slices, and results merge into
// the index only after all workers finish.
func Build(tt *timetable.Timetable, opts BuildOptions, logger *zap.Logger) (*Index, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	opts = opts.withDefaults()

	var jobs []timetable.RouteStop
	for _, routeID := range tt.Routes() {
		seen := map[string]bool{}
		for _, conn := range tt.ConnectionsOf(routeID) {
			for _, stopID := range []string{conn.FromStopID, conn.ToStopID} {
				if !seen[stopID] {
					seen[stopID] = true
					jobs = append(jobs, timetable.RouteStop{RouteID: routeID, StopID: stopID})
				}
			}
		}
	}
	sort.Slice(jobs, func(i, j int) bool {
		if jobs[i].RouteID != jobs[j].RouteID {
			return jobs[i].RouteID < jobs[j].RouteID
		}
		return jobs[i].StopID < jobs[j].StopID
	})

	workers := opts.Workers
	if workers > len(jobs) {
		workers = len(jobs)
	}
	if workers < 1 {
		workers = 1
	}

	results := make([][]Connection, workers)
	jobCh := make(chan timetable.RouteStop)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for job := range jobCh {
				results[w] = append(results[w], candidatesFor(tt, job, opts)...)
			}
		}(w)
	}
	for _, job := range jobs {
		jobCh <- job
	}
	close(jobCh)
	wg.Wait()

	// single merge barrier: the index is only touched after the
	// parallel phase is over
	ix := NewIndex()
	for _, batch := range results {
		for _, c := range batch {
			ix.Add(c)
		}
	}
	ix.sortAll()

	stats := ix.Stats()
	logger.Info("transfer matrix built",
		zap.Int("pairs", len(jobs)),
		zap.Int("transfers", stats.Total),
		zap.Int("viable", stats.Viable),
		zap.Int("routes_with_transfers", stats.RoutesWithTransfers))
	return ix, nil
}

// candidatesFor synthesizes the interchanges leaving one (route, stop)
// pair: for each distinct nearby route, its k nearest stops become
// candidate transfers. Self-transfers on the same route are excluded.
func candidatesFor(tt *timetable.Timetable, from timetable.RouteStop, opts BuildOptions) []Connection {
	var out []Connection
	for toRouteID, nearby := range tt.NearbyRoutes(from.StopID, opts.SearchRadiusKM) {
		if toRouteID == from.RouteID {
			continue
		}
		k := opts.NearestStopsPerRoute
		if k > len(nearby) {
			k = len(nearby)
		}
		for _, cand := range nearby[:k] {
			walkSec := geo.WalkingTimeSeconds(cand.DistanceKM, opts.WalkingSpeedKMH)
			minTransfer := opts.MinTransferSec
			if int(walkSec) > minTransfer {
				minTransfer = int(walkSec)
			}
			out = append(out, Connection{
				FromRouteID:       from.RouteID,
				FromStopID:        from.StopID,
				ToRouteID:         toRouteID,
				ToStopID:          cand.Stop.ID,
				WalkingDistanceKM: cand.DistanceKM,
				WalkingTimeSec:    walkSec,
				MinTransferSec:    minTransfer,
				MaxWaitingSec:     opts.MaxWaitingSec,
				Class:             classify(from.StopID, cand.Stop.ID, cand.DistanceKM),
			})
		}
	}
	return out
}

func classify(fromStopID, toStopID string, distanceKM float64) Class {
	switch {
	case fromStopID == toStopID:
		return ClassSameStop
	case distanceKM < 0.05:
		return ClassNearby
	default:
		return ClassWalking
	}
}
