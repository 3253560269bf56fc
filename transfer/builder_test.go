package transfer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/theoremus-urban-solutions/journey-planner/gtfs"
	"github.com/theoremus-urban-solutions/journey-planner/timetable"
)

// interchangeTimetable builds two routes with stops close enough to
// walk between:
//
//	R1: A -> B
//	R2: X -> B -> Y
//
// X is ~11 m from A, B is shared, Y is ~445 m from B.
func interchangeTimetable(t *testing.T) *timetable.Timetable {
	t.Helper()
	feed := gtfs.NewFeed()
	feed.Stops = map[string]gtfs.Stop{
		"A": {ID: "A", Latitude: 42.6900, Longitude: 23.3200},
		"B": {ID: "B", Latitude: 42.6910, Longitude: 23.3200},
		"X": {ID: "X", Latitude: 42.6901, Longitude: 23.3200},
		"Y": {ID: "Y", Latitude: 42.6950, Longitude: 23.3200},
	}
	feed.Trips = map[string]*gtfs.Trip{
		"T1": {ID: "T1", RouteID: "R1", DirectionID: "0", StopTimes: []gtfs.StopTime{
			{StopID: "A", Sequence: 1, ArrivalSec: 28800, DepartureSec: 28800},
			{StopID: "B", Sequence: 2, ArrivalSec: 29000, DepartureSec: 29000},
		}},
		"T2": {ID: "T2", RouteID: "R2", DirectionID: "0", StopTimes: []gtfs.StopTime{
			{StopID: "X", Sequence: 1, ArrivalSec: 29000, DepartureSec: 29000},
			{StopID: "B", Sequence: 2, ArrivalSec: 29200, DepartureSec: 29200},
			{StopID: "Y", Sequence: 3, ArrivalSec: 29400, DepartureSec: 29400},
		}},
	}
	tt, err := timetable.Build(feed, nil)
	require.NoError(t, err)
	return tt
}

func TestBuild_TransferMatrix(t *testing.T) {
	tt := interchangeTimetable(t)

	ix, err := Build(tt, DefaultBuildOptions(), nil)
	require.NoError(t, err)

	// shared stop B: interchange to the other route without walking
	fromB := ix.TransfersFrom("R1", "B", true)
	require.NotEmpty(t, fromB)
	assert.Equal(t, ClassSameStop, fromB[0].Class)
	assert.Equal(t, "B", fromB[0].ToStopID)
	assert.Equal(t, "R2", fromB[0].ToRouteID)
	assert.InDelta(t, 0, fromB[0].WalkingDistanceKM, 1e-9)
	// the floor applies when the walk is shorter than the minimum
	assert.Equal(t, 120, fromB[0].MinTransferSec)

	// A has no shared stop with R2, but X is a few meters away
	fromA := ix.TransfersFrom("R1", "A", true)
	require.Len(t, fromA, 2)
	assert.Equal(t, "X", fromA[0].ToStopID)
	assert.Equal(t, ClassNearby, fromA[0].Class)
	assert.Equal(t, "B", fromA[1].ToStopID)
	assert.Equal(t, ClassWalking, fromA[1].Class)

	// never a transfer back onto the same route
	for _, key := range []struct{ route, stop string }{
		{"R1", "A"}, {"R1", "B"}, {"R2", "B"}, {"R2", "X"}, {"R2", "Y"},
	} {
		for _, c := range ix.TransfersFrom(key.route, key.stop, false) {
			assert.NotEqual(t, key.route, c.ToRouteID, "self-transfer at %s/%s", key.route, key.stop)
		}
	}

	stats := ix.Stats()
	assert.Equal(t, ix.Len(), stats.Total)
	assert.Equal(t, stats.Total, stats.Viable)
	assert.InDelta(t, 1.0, stats.ViabilityRate, 1e-9)
	assert.Equal(t, 2, stats.RoutesWithTransfers)
}

func TestBuild_Deterministic(t *testing.T) {
	tt := interchangeTimetable(t)

	opts := DefaultBuildOptions()
	opts.Workers = 4
	first, err := Build(tt, opts, nil)
	require.NoError(t, err)
	second, err := Build(tt, opts, nil)
	require.NoError(t, err)

	assert.Equal(t, first.Len(), second.Len())
	for _, key := range []struct{ route, stop string }{
		{"R1", "A"}, {"R1", "B"}, {"R2", "B"}, {"R2", "X"}, {"R2", "Y"},
	} {
		assert.Equal(t,
			first.TransfersFrom(key.route, key.stop, false),
			second.TransfersFrom(key.route, key.stop, false))
	}
}

func TestBuild_NearestStopsPerRoute(t *testing.T) {
	tt := interchangeTimetable(t)

	opts := DefaultBuildOptions()
	opts.NearestStopsPerRoute = 1
	ix, err := Build(tt, opts, nil)
	require.NoError(t, err)

	// only the closest stop of R2 survives the cut
	fromB := ix.TransfersFrom("R1", "B", false)
	require.Len(t, fromB, 1)
	assert.Equal(t, "B", fromB[0].ToStopID)
}

func TestBuild_DiscoveryBeyondViability(t *testing.T) {
	tt := interchangeTimetable(t)

	// Y is ~556 m from A: inside this discovery radius, outside the
	// viability bound
	opts := DefaultBuildOptions()
	opts.SearchRadiusKM = 0.7
	ix, err := Build(tt, opts, nil)
	require.NoError(t, err)

	all := ix.TransfersFrom("R1", "A", false)
	viable := ix.TransfersFrom("R1", "A", true)
	require.Len(t, all, 3)
	require.Len(t, viable, 2)
	assert.Equal(t, "Y", all[2].ToStopID)
	assert.False(t, all[2].Viable())
}

func TestBuild_WalkFloorAndSpeed(t *testing.T) {
	tt := interchangeTimetable(t)

	// at 1 km/h the 445 m walk to Y takes ~27 min, exceeding the floor
	opts := DefaultBuildOptions()
	opts.WalkingSpeedKMH = 1.0
	ix, err := Build(tt, opts, nil)
	require.NoError(t, err)

	var toY *Connection
	for _, c := range ix.TransfersFrom("R1", "B", false) {
		if c.ToStopID == "Y" {
			toY = &c
			break
		}
	}
	require.NotNil(t, toY)
	assert.Greater(t, toY.MinTransferSec, 120)
	assert.Equal(t, int(toY.WalkingTimeSec), toY.MinTransferSec)
	// a half-hour walk is not a viable interchange
	assert.False(t, toY.Viable())
}

func TestBuildOptions_Validate(t *testing.T) {
	assert.NoError(t, DefaultBuildOptions().Validate())

	bad := DefaultBuildOptions()
	bad.SearchRadiusKM = -1
	assert.Error(t, bad.Validate())

	bad = DefaultBuildOptions()
	bad.WalkingSpeedKMH = -0.1
	assert.Error(t, bad.Validate())

	bad = DefaultBuildOptions()
	bad.MinTransferSec = -1
	assert.Error(t, bad.Validate())
}

func TestIndex_TransfersTo(t *testing.T) {
	tt := interchangeTimetable(t)

	ix, err := Build(tt, DefaultBuildOptions(), nil)
	require.NoError(t, err)

	toR2 := ix.TransfersTo("R2")
	require.NotEmpty(t, toR2)
	for _, c := range toR2 {
		assert.Equal(t, "R2", c.ToRouteID)
		assert.Equal(t, "R1", c.FromRouteID)
	}
}
