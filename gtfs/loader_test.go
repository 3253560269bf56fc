package gtfs

import (
	"archive/zip"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeFeedZip builds a GTFS zip from file name to CSV content.
func writeFeedZip(t *testing.T, files map[string]string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "feed.zip")
	f, err := os.Create(path)
	require.NoError(t, err)
	zw := zip.NewWriter(f)
	for name, content := range files {
		w, err := zw.Create(name)
		require.NoError(t, err)
		_, err = w.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	require.NoError(t, f.Close())
	return path
}

func minimalFeedFiles() map[string]string {
	return map[string]string{
		"agency.txt": "agency_id,agency_name,agency_timezone\n" +
			"SOF,Sofia Urban Mobility,Europe/Sofia\n",
		"routes.txt": "route_id,route_short_name\n" +
			"R1,1\n",
		"stops.txt": "stop_id,stop_name,stop_lat,stop_lon\n" +
			"A,Alpha,42.6900,23.3200\n" +
			"B,Beta,42.7000,23.3200\n",
		"trips.txt": "route_id,trip_id,direction_id\n" +
			"R1,T1,0\n",
		"stop_times.txt": "trip_id,stop_id,stop_sequence,arrival_time,departure_time\n" +
			"T1,B,2,08:10:00,08:10:00\n" +
			"T1,A,1,08:00:00,08:00:00\n",
	}
}

func TestLoadFromZip_MinimalFeed(t *testing.T) {
	path := writeFeedZip(t, minimalFeedFiles())

	feed, err := LoadFromZip(path)
	require.NoError(t, err)

	assert.Equal(t, "SOF", feed.AgencyID)
	assert.Equal(t, "Sofia Urban Mobility", feed.AgencyName)
	assert.Equal(t, "Europe/Sofia", feed.AgencyTimezone)
	assert.Equal(t, "1", feed.RouteShortNames["R1"])
	assert.Len(t, feed.Stops, 2)
	assert.Zero(t, feed.DroppedStops)

	trip := feed.Trips["T1"]
	require.NotNil(t, trip)
	assert.Equal(t, "R1", trip.RouteID)

	// stop visits come back in sequence order, not file order
	require.Len(t, trip.StopTimes, 2)
	assert.Equal(t, "A", trip.StopTimes[0].StopID)
	assert.Equal(t, 28800, trip.StopTimes[0].DepartureSec)
	assert.Equal(t, "B", trip.StopTimes[1].StopID)
	assert.Equal(t, 29400, trip.StopTimes[1].ArrivalSec)
}

func TestLoadFromZip_DropsMalformedStops(t *testing.T) {
	files := minimalFeedFiles()
	files["stops.txt"] = "stop_id,stop_name,stop_lat,stop_lon\n" +
		"A,Alpha,42.6900,23.3200\n" +
		"B,Beta,42.7000,23.3200\n" +
		"BAD1,No Coords,,\n" +
		"BAD2,Off The Map,95.0,23.32\n" +
		"BAD3,Not Numeric,abc,def\n"
	files["stop_times.txt"] = "trip_id,stop_id,stop_sequence,arrival_time,departure_time\n" +
		"T1,A,1,08:00:00,08:00:00\n" +
		"T1,BAD1,2,08:05:00,08:05:00\n" +
		"T1,B,3,08:10:00,08:10:00\n"

	feed, err := LoadFromZip(writeFeedZip(t, files))
	require.NoError(t, err)

	assert.Equal(t, 3, feed.DroppedStops)
	assert.Len(t, feed.Stops, 2)

	// the visit to the dropped stop is filtered out of the trip
	trip := feed.Trips["T1"]
	require.Len(t, trip.StopTimes, 2)
	assert.Equal(t, "A", trip.StopTimes[0].StopID)
	assert.Equal(t, "B", trip.StopTimes[1].StopID)
}

func TestLoadFromZip_Frequencies(t *testing.T) {
	files := minimalFeedFiles()
	files["frequencies.txt"] = "trip_id,start_time,end_time,headway_secs\n" +
		"T1,08:00:00,09:00:00,600\n" +
		"T1,09:00:00,10:00:00,1200\n" +
		"UNKNOWN,08:00:00,09:00:00,600\n" +
		"T1,08:00:00,09:00:00,0\n"

	feed, err := LoadFromZip(writeFeedZip(t, files))
	require.NoError(t, err)

	// unknown trips and non-positive headways are ignored
	require.Len(t, feed.Frequencies, 2)
	assert.Equal(t, Frequency{TripID: "T1", StartSec: 28800, EndSec: 32400, HeadwaySec: 600}, feed.Frequencies[0])
	assert.Equal(t, Frequency{TripID: "T1", StartSec: 32400, EndSec: 36000, HeadwaySec: 1200}, feed.Frequencies[1])
}

func TestLoadFromZip_CalendarDates(t *testing.T) {
	files := minimalFeedFiles()
	files["calendar_dates.txt"] = "service_id,date,exception_type\n" +
		"S1,20260101,1\n" +
		"S1,20260301,2\n"

	feed, err := LoadFromZip(writeFeedZip(t, files))
	require.NoError(t, err)

	assert.True(t, feed.IsSpecialDate("20260101"))
	assert.True(t, feed.IsSpecialDate("20260301"))
	assert.False(t, feed.IsSpecialDate("20260102"))
}

func TestLoadFromZip_NoTrips(t *testing.T) {
	files := minimalFeedFiles()
	delete(files, "trips.txt")
	delete(files, "stop_times.txt")

	_, err := LoadFromZip(writeFeedZip(t, files))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no usable trips")
}

func TestLoadFromZip_MissingFile(t *testing.T) {
	_, err := LoadFromZip(filepath.Join(t.TempDir(), "nope.zip"))
	require.Error(t, err)
}
