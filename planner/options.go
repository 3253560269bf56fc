package planner

import "fmt"

// Options tunes a Planner. Pass an explicit value into New; options are
// immutable afterwards so multiple planners with different tunings can
// coexist.
type Options struct {
	MaxWalkingKM    float64
	WalkingSpeedKMH float64
	MaxTransfers    int
	MaxAlternatives int

	// CandidateStops bounds how many boarding/alighting stops are
	// considered around each endpoint.
	CandidateStops int
	// MaxDestinationVisits bounds how many times the scan pops the
	// destination before terminating (alternative generation).
	MaxDestinationVisits int
	// MaxConnectionsScanned is the safety valve that bounds a single
	// scan regardless of the transfer limit.
	MaxConnectionsScanned int
}

// DefaultOptions returns the standard tuning.
func DefaultOptions() Options {
	return Options{
		MaxWalkingKM:          1.0,
		WalkingSpeedKMH:       5.0,
		MaxTransfers:          3,
		MaxAlternatives:       3,
		CandidateStops:        3,
		MaxDestinationVisits:  3,
		MaxConnectionsScanned: 100000,
	}
}

func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.MaxAlternatives == 0 {
		o.MaxAlternatives = d.MaxAlternatives
	}
	if o.CandidateStops == 0 {
		o.CandidateStops = d.CandidateStops
	}
	if o.MaxDestinationVisits == 0 {
		o.MaxDestinationVisits = d.MaxDestinationVisits
	}
	if o.MaxConnectionsScanned == 0 {
		o.MaxConnectionsScanned = d.MaxConnectionsScanned
	}
	return o
}

// Validate rejects configurations that must not reach a query.
func (o Options) Validate() error {
	if o.MaxWalkingKM <= 0 {
		return fmt.Errorf("planner: max walking distance must be positive, got %v", o.MaxWalkingKM)
	}
	if o.WalkingSpeedKMH <= 0 {
		return fmt.Errorf("planner: walking speed must be positive, got %v", o.WalkingSpeedKMH)
	}
	if o.MaxTransfers < 0 {
		return fmt.Errorf("planner: negative max transfers %d", o.MaxTransfers)
	}
	if o.MaxAlternatives < 0 || o.CandidateStops < 0 || o.MaxDestinationVisits < 0 || o.MaxConnectionsScanned < 0 {
		return fmt.Errorf("planner: negative search bound")
	}
	return nil
}
