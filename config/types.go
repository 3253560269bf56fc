package config

// ServerConfig contains the HTTP server configuration.
type ServerConfig struct {
	Port int `yaml:"port" validate:"gt=0"`
}

// GTFSConfig tells the loader where the static feed lives. Exactly one
// of StaticPath or StaticURL should be set.
type GTFSConfig struct {
	StaticPath string `yaml:"staticPath" validate:"omitempty"`
	StaticURL  string `yaml:"staticURL" validate:"omitempty,url"`
	AgencyID   string `yaml:"agencyID" validate:"omitempty"`
}

// PlannerConfig tunes journey queries.
type PlannerConfig struct {
	MaxWalkingKM          float64 `yaml:"maxWalkingKm" validate:"gt=0"`
	WalkingSpeedKMH       float64 `yaml:"walkingSpeedKmh" validate:"gt=0"`
	MaxTransfers          int     `yaml:"maxTransfers" validate:"gte=0"`
	MaxAlternatives       int     `yaml:"maxAlternatives" validate:"gt=0"`
	CandidateStops        int     `yaml:"candidateStops" validate:"gt=0"`
	MaxConnectionsScanned int     `yaml:"maxConnectionsScanned" validate:"gt=0"`
}

// TransferConfig tunes transfer matrix construction.
type TransferConfig struct {
	SearchRadiusKM       float64 `yaml:"searchRadiusKm" validate:"gt=0"`
	NearestStopsPerRoute int     `yaml:"nearestStopsPerRoute" validate:"gt=0"`
	MinTransferSec       int     `yaml:"minTransferSeconds" validate:"gte=0"`
	MaxWaitingSec        int     `yaml:"maxWaitingSeconds" validate:"gte=0"`
	Workers              int     `yaml:"workers" validate:"gte=0"`
}

// LoggingConfig selects the log level.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// AppConfig is the root configuration structure.
type AppConfig struct {
	Server    ServerConfig   `yaml:"server"`
	GTFS      GTFSConfig     `yaml:"gtfs"`
	Planner   PlannerConfig  `yaml:"planner"`
	Transfers TransferConfig `yaml:"transfers"`
	Logging   LoggingConfig  `yaml:"logging"`
}

// Default returns the configuration used when a field is absent from
// the YAML file. Explicitly setting an invalid value (e.g. zero walking
// speed) fails validation instead of silently reverting.
func Default() AppConfig {
	return AppConfig{
		Server: ServerConfig{Port: 16181},
		Planner: PlannerConfig{
			MaxWalkingKM:          1.0,
			WalkingSpeedKMH:       5.0,
			MaxTransfers:          3,
			MaxAlternatives:       3,
			CandidateStops:        3,
			MaxConnectionsScanned: 100000,
		},
		Transfers: TransferConfig{
			SearchRadiusKM:       0.5,
			NearestStopsPerRoute: 3,
			MinTransferSec:       120,
			MaxWaitingSec:        900,
		},
		Logging: LoggingConfig{Level: "info"},
	}
}
