// Package planner answers journey queries over a timetable and a
// transfer index: a connection-scan search with bounded transfers and
// alternatives, plus the assembly and ranking of complete journeys
// (walk + transit + transfer legs).
package planner
