package journeyplanner

import (
	"encoding/json"
	"net/http"
)

type healthResponse struct {
	Status    string `json:"status"`
	Agency    string `json:"agency,omitempty"`
	Stops     int    `json:"stops"`
	Routes    int    `json:"routes"`
	Transfers int    `json:"transfers"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	resp := healthResponse{
		Status:    "ok",
		Agency:    s.app.Timetable.AgencyName(),
		Stops:     s.app.Timetable.StopCount(),
		Routes:    len(s.app.Timetable.Routes()),
		Transfers: s.app.Transfers.Len(),
	}
	_ = json.NewEncoder(w).Encode(resp)
}
