package gtfs

import (
	"archive/zip"
	"encoding/csv"
	"errors"
	"io"
	"net/http"
	"os"
	"sort"
	"strconv"
	"strings"
)

var feedFiles = map[string]bool{
	"agency.txt":         true,
	"routes.txt":         true,
	"trips.txt":          true,
	"stops.txt":          true,
	"stop_times.txt":     true,
	"frequencies.txt":    true,
	"calendar_dates.txt": true,
}

// LoadFromZip opens a local GTFS zip file and consumes the feed CSVs.
func LoadFromZip(path string) (*Feed, error) {
	zr, err := zip.OpenReader(path)
	if err != nil {
		return nil, err
	}
	defer zr.Close()
	return consumeArchive(&zr.Reader)
}

// LoadFromURL downloads a GTFS zip to a temp file and consumes it.
func LoadFromURL(url string) (*Feed, error) {
	resp, err := http.Get(url)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	tmp, err := os.CreateTemp("", "gtfs-*.zip")
	if err != nil {
		return nil, err
	}
	defer os.Remove(tmp.Name())
	if _, err := io.Copy(tmp, resp.Body); err != nil {
		return nil, err
	}
	if err := tmp.Close(); err != nil {
		return nil, err
	}
	return LoadFromZip(tmp.Name())
}

func consumeArchive(zr *zip.Reader) (*Feed, error) {
	feed := NewFeed()
	// stops.txt must be consumed before stop_times.txt so visits to
	// dropped stops can be filtered; collect files first.
	byName := map[string]*zip.File{}
	for _, f := range zr.File {
		name := strings.ToLower(f.Name)
		if feedFiles[name] {
			byName[name] = f
		}
	}
	order := []string{"agency.txt", "routes.txt", "stops.txt", "trips.txt", "stop_times.txt", "frequencies.txt", "calendar_dates.txt"}
	for _, name := range order {
		f, ok := byName[name]
		if !ok {
			continue
		}
		if err := feed.consumeCSV(f); err != nil {
			return nil, err
		}
	}
	if len(feed.Trips) == 0 {
		return nil, errors.New("gtfs: feed contains no usable trips")
	}
	for _, trip := range feed.Trips {
		sort.Slice(trip.StopTimes, func(i, j int) bool { return trip.StopTimes[i].Sequence < trip.StopTimes[j].Sequence })
	}
	return feed, nil
}

func (feed *Feed) consumeCSV(f *zip.File) error {
	r, err := f.Open()
	if err != nil {
		return err
	}
	defer r.Close()
	csvr := csv.NewReader(r)
	csvr.FieldsPerRecord = -1
	rec, err := csvr.ReadAll()
	if err != nil {
		return err
	}
	if len(rec) == 0 {
		return nil
	}
	head := rec[0]
	idx := func(col string) int {
		for i, h := range head {
			if strings.EqualFold(strings.TrimSpace(h), col) {
				return i
			}
		}
		return -1
	}
	field := func(row []string, i int) string {
		if i >= 0 && i < len(row) {
			return strings.TrimSpace(row[i])
		}
		return ""
	}

	switch strings.ToLower(f.Name) {
	case "agency.txt":
		agID := idx("agency_id")
		agName := idx("agency_name")
		agTZ := idx("agency_timezone")
		if len(rec) > 1 {
			feed.AgencyID = field(rec[1], agID)
			feed.AgencyName = field(rec[1], agName)
			feed.AgencyTimezone = field(rec[1], agTZ)
		}
	case "routes.txt":
		rID := idx("route_id")
		rSN := idx("route_short_name")
		for _, row := range rec[1:] {
			if id := field(row, rID); id != "" {
				feed.RouteShortNames[id] = field(row, rSN)
			}
		}
	case "stops.txt":
		sID := idx("stop_id")
		sN := idx("stop_name")
		sLat := idx("stop_lat")
		sLon := idx("stop_lon")
		for _, row := range rec[1:] {
			id := field(row, sID)
			if id == "" {
				continue
			}
			lat, errLat := strconv.ParseFloat(field(row, sLat), 64)
			lon, errLon := strconv.ParseFloat(field(row, sLon), 64)
			if errLat != nil || errLon != nil || !validCoordinates(lat, lon) {
				feed.DroppedStops++
				continue
			}
			feed.Stops[id] = Stop{ID: id, Name: field(row, sN), Latitude: lat, Longitude: lon}
		}
	case "trips.txt":
		rID := idx("route_id")
		tID := idx("trip_id")
		dir := idx("direction_id")
		for _, row := range rec[1:] {
			trip := field(row, tID)
			route := field(row, rID)
			if trip == "" || route == "" {
				continue
			}
			feed.Trips[trip] = &Trip{ID: trip, RouteID: route, DirectionID: field(row, dir)}
		}
	case "stop_times.txt":
		tID := idx("trip_id")
		sID := idx("stop_id")
		sq := idx("stop_sequence")
		arr := idx("arrival_time")
		dep := idx("departure_time")
		if tID < 0 || sID < 0 || sq < 0 {
			return nil
		}
		for _, row := range rec[1:] {
			trip, ok := feed.Trips[field(row, tID)]
			if !ok {
				continue
			}
			stopID := field(row, sID)
			if _, ok := feed.Stops[stopID]; !ok {
				continue // stop was dropped or never declared
			}
			seq, err := strconv.Atoi(field(row, sq))
			if err != nil {
				continue
			}
			arrSec, errA := ParseTimeSeconds(field(row, arr))
			depSec, errD := ParseTimeSeconds(field(row, dep))
			if errA != nil && errD != nil {
				continue
			}
			if errA != nil {
				arrSec = depSec
			}
			if errD != nil {
				depSec = arrSec
			}
			trip.StopTimes = append(trip.StopTimes, StopTime{StopID: stopID, Sequence: seq, ArrivalSec: arrSec, DepartureSec: depSec})
		}
	case "frequencies.txt":
		tID := idx("trip_id")
		st := idx("start_time")
		et := idx("end_time")
		hw := idx("headway_secs")
		for _, row := range rec[1:] {
			trip := field(row, tID)
			if _, ok := feed.Trips[trip]; !ok {
				continue
			}
			startSec, errS := ParseTimeSeconds(field(row, st))
			endSec, errE := ParseTimeSeconds(field(row, et))
			headway, errH := strconv.Atoi(field(row, hw))
			if errS != nil || errE != nil || errH != nil || headway <= 0 {
				continue
			}
			feed.Frequencies = append(feed.Frequencies, Frequency{TripID: trip, StartSec: startSec, EndSec: endSec, HeadwaySec: headway})
		}
	case "calendar_dates.txt":
		d := idx("date")
		for _, row := range rec[1:] {
			if date := field(row, d); date != "" {
				feed.SpecialDates[date] = struct{}{}
			}
		}
	}
	return nil
}

func validCoordinates(lat, lon float64) bool {
	return lat >= -90 && lat <= 90 && lon >= -180 && lon <= 180
}
