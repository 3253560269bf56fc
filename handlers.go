package journeyplanner

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/theoremus-urban-solutions/journey-planner/geo"
	"github.com/theoremus-urban-solutions/journey-planner/planner"
)

// ParsePoint reads a "lat,lon" coordinate pair.
func ParsePoint(raw string) (geo.Point, error) {
	parts := strings.Split(raw, ",")
	if len(parts) != 2 {
		return geo.Point{}, fmt.Errorf("expected lat,lon: %q", raw)
	}
	lat, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return geo.Point{}, fmt.Errorf("bad latitude: %q", parts[0])
	}
	lon, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return geo.Point{}, fmt.Errorf("bad longitude: %q", parts[1])
	}
	return geo.Point{Latitude: lat, Longitude: lon}, nil
}

func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(errorResponse{Error: msg})
}

// handleJourneys answers GET /api/journeys?from=lat,lon&to=lat,lon with
// optional departure (RFC 3339, default now) and alternatives.
func (s *Server) handleJourneys(w http.ResponseWriter, r *http.Request) {
	qv := r.URL.Query()

	origin, err := ParsePoint(qv.Get("from"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "from: "+err.Error())
		return
	}
	dest, err := ParsePoint(qv.Get("to"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "to: "+err.Error())
		return
	}

	departure := time.Now()
	if raw := qv.Get("departure"); raw != "" {
		departure, err = time.Parse(time.RFC3339, raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "departure: expected RFC 3339 timestamp")
			return
		}
	}

	alternatives := 0
	if raw := qv.Get("alternatives"); raw != "" {
		alternatives, err = strconv.Atoi(raw)
		if err != nil || alternatives < 1 {
			writeError(w, http.StatusBadRequest, "alternatives: expected a positive integer")
			return
		}
	}

	journeys, err := s.app.Planner.FindJourneys(r.Context(), planner.Query{
		Origin:          origin,
		Destination:     dest,
		Departure:       departure,
		MaxAlternatives: alternatives,
	})
	if err != nil {
		if errors.Is(err, planner.ErrInvalidCoordinates) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, "journey search failed")
		return
	}

	resp := journeysResponse{Journeys: make([]JourneyView, 0, len(journeys))}
	for _, j := range journeys {
		resp.Journeys = append(resp.Journeys, viewJourney(j))
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(resp)
}
