package transfer

// Class describes how an interchange is made on foot.
type Class string

const (
	ClassSameStop Class = "same_stop"
	ClassNearby   Class = "nearby"
	ClassWalking  Class = "walking"
)

// Viability thresholds. Independent of the discovery radius: candidates
// may be stored beyond these limits and simply never become viable.
const (
	MaxViableDistanceKM = 0.5
	MaxViableWalkSec    = 600
)

// Connection is a directed candidate interchange between two distinct
// routes. It is derived, not authoritative: an arriving passenger may
// ignore it, and viability is evaluated on demand rather than stored.
type Connection struct {
	FromRouteID       string  `json:"from_route_id"`
	FromStopID        string  `json:"from_stop_id"`
	ToRouteID         string  `json:"to_route_id"`
	ToStopID          string  `json:"to_stop_id"`
	WalkingDistanceKM float64 `json:"walking_distance_km"`
	WalkingTimeSec    float64 `json:"walking_time_seconds"`
	MinTransferSec    int     `json:"min_transfer_time"`
	MaxWaitingSec     int     `json:"max_waiting_time"`
	Class             Class   `json:"transfer_class"`
}

// Viable reports whether the interchange is usable: at most 0.5 km and
// at most 600 s of walking, both bounds inclusive.
func (c Connection) Viable() bool {
	return c.WalkingDistanceKM <= MaxViableDistanceKM && c.WalkingTimeSec <= MaxViableWalkSec
}

// TotalTransferSec is the walking time plus an additional waiting time.
func (c Connection) TotalTransferSec(waitingSec int) float64 {
	return c.WalkingTimeSec + float64(waitingSec)
}
