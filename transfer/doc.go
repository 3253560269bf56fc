// Package transfer precomputes, for every (route, stop) pair of a
// timetable, the candidate interchanges to other routes. Discovery
// casts a wide net; the viability predicate narrows it at query time.
package transfer
