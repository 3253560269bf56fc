package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	lib "github.com/theoremus-urban-solutions/journey-planner"
	"github.com/theoremus-urban-solutions/journey-planner/config"
	"github.com/theoremus-urban-solutions/journey-planner/planner"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to the YAML configuration file")
	mode := flag.String("mode", "serve", "serve|query")
	gtfsPath := flag.String("gtfs", "", "path to a GTFS zip (overrides config)")
	from := flag.String("from", "", "query origin as lat,lon")
	to := flag.String("to", "", "query destination as lat,lon")
	departure := flag.String("departure", "", "departure time, RFC 3339 (default now)")
	alternatives := flag.Int("alternatives", 0, "maximum journeys to return (0 = config default)")
	flag.Parse()

	cfg := config.Default()
	if _, err := os.Stat(*configPath); err == nil {
		cfg, err = config.Load(*configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "config: %v\n", err)
			os.Exit(1)
		}
	}
	if *gtfsPath != "" {
		cfg.GTFS.StaticPath = *gtfsPath
	}

	logger, err := lib.NewLogger(cfg.Logging.Level)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	app, err := lib.NewApp(cfg, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "startup: %v\n", err)
		os.Exit(1)
	}

	switch *mode {
	case "serve":
		srv := lib.NewServer(app)
		srv.Start()
		srv.HandleGracefulShutdown()
	case "query":
		if err := runQuery(app, *from, *to, *departure, *alternatives); err != nil {
			fmt.Fprintf(os.Stderr, "query: %v\n", err)
			os.Exit(1)
		}
	default:
		fmt.Fprintf(os.Stderr, "unknown mode %q\n", *mode)
		os.Exit(1)
	}
}

func runQuery(app *lib.App, from, to, departure string, alternatives int) error {
	origin, err := lib.ParsePoint(from)
	if err != nil {
		return fmt.Errorf("from: %w", err)
	}
	dest, err := lib.ParsePoint(to)
	if err != nil {
		return fmt.Errorf("to: %w", err)
	}
	dep := time.Now()
	if departure != "" {
		dep, err = time.Parse(time.RFC3339, departure)
		if err != nil {
			return fmt.Errorf("departure: %w", err)
		}
	}

	journeys, err := app.Planner.FindJourneys(context.Background(), planner.Query{
		Origin:          origin,
		Destination:     dest,
		Departure:       dep,
		MaxAlternatives: alternatives,
	})
	if err != nil {
		return err
	}

	out := json.NewEncoder(os.Stdout)
	out.SetIndent("", "  ")
	return out.Encode(lib.ViewJourneys(journeys))
}
