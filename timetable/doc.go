// Package timetable holds the immutable, query-optimized model built
// once from an ingested GTFS feed: stops, routes, scheduled connections
// and a spatial index for proximity queries. After Build returns the
// model is read-only and safe for concurrent use.
package timetable
