// Package journeyplanner wires the feed loader, timetable, transfer
// matrix and planner into a runnable journey-planning service.
package journeyplanner

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/theoremus-urban-solutions/journey-planner/config"
	"github.com/theoremus-urban-solutions/journey-planner/gtfs"
	"github.com/theoremus-urban-solutions/journey-planner/planner"
	"github.com/theoremus-urban-solutions/journey-planner/timetable"
	"github.com/theoremus-urban-solutions/journey-planner/transfer"
)

// App holds the built, read-only model and the planner serving queries
// against it.
type App struct {
	Config    config.AppConfig
	Logger    *zap.Logger
	Timetable *timetable.Timetable
	Transfers *transfer.Index
	Planner   *planner.Planner
}

// NewApp ingests the configured feed and builds the timetable, the
// transfer matrix and the planner. Any failure here is fatal: the
// service cannot answer queries from a broken model.
func NewApp(cfg config.AppConfig, logger *zap.Logger) (*App, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	var (
		feed *gtfs.Feed
		err  error
	)
	switch {
	case cfg.GTFS.StaticPath != "":
		feed, err = gtfs.LoadFromZip(cfg.GTFS.StaticPath)
	case cfg.GTFS.StaticURL != "":
		feed, err = gtfs.LoadFromURL(cfg.GTFS.StaticURL)
	default:
		err = errors.New("no GTFS source configured")
	}
	if err != nil {
		return nil, fmt.Errorf("load feed: %w", err)
	}
	if feed.DroppedStops > 0 {
		logger.Warn("dropped malformed stop records", zap.Int("count", feed.DroppedStops))
	}

	tt, err := timetable.Build(feed, logger)
	if err != nil {
		return nil, fmt.Errorf("build timetable: %w", err)
	}

	ix, err := transfer.Build(tt, transfer.BuildOptions{
		SearchRadiusKM:       cfg.Transfers.SearchRadiusKM,
		NearestStopsPerRoute: cfg.Transfers.NearestStopsPerRoute,
		WalkingSpeedKMH:      cfg.Planner.WalkingSpeedKMH,
		MinTransferSec:       cfg.Transfers.MinTransferSec,
		MaxWaitingSec:        cfg.Transfers.MaxWaitingSec,
		Workers:              cfg.Transfers.Workers,
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("build transfer matrix: %w", err)
	}

	pl, err := planner.New(tt, ix, planner.Options{
		MaxWalkingKM:          cfg.Planner.MaxWalkingKM,
		WalkingSpeedKMH:       cfg.Planner.WalkingSpeedKMH,
		MaxTransfers:          cfg.Planner.MaxTransfers,
		MaxAlternatives:       cfg.Planner.MaxAlternatives,
		CandidateStops:        cfg.Planner.CandidateStops,
		MaxConnectionsScanned: cfg.Planner.MaxConnectionsScanned,
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("build planner: %w", err)
	}

	return &App{
		Config:    cfg,
		Logger:    logger,
		Timetable: tt,
		Transfers: ix,
		Planner:   pl,
	}, nil
}
