package store

import "time"

// Config aggregates the per-backend settings
type Config struct {
	// AppName is reported to postgres as application_name so server-side
	// activity views can attribute our connections
	AppName string

	PG PGConfig
	CH CHConfig
}

// PGConfig configures the snapshot database connection
type PGConfig struct {
	Enabled     bool
	URL         string
	MaxConns    int32
	LogSQL      bool
	SlowQueryMs int

	// boot probe knobs; zero means the defaults (6 retries, 5s ping timeout)
	ConnectRetries int
	PingTimeout    time.Duration
}

// CHConfig configures the change archive connection
type CHConfig struct {
	Enabled bool
	URL     string

	// ClientName and ClientTag annotate connections in system.query_log
	ClientName string
	ClientTag  string
}
