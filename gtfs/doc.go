// Package gtfs ingests a static GTFS feed (zip of CSV files) into an
// in-memory Feed. Malformed stop records are filtered here so the
// timetable never sees a stop without valid coordinates.
package gtfs
