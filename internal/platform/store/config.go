package store

import "time"

// Config selects and configures the warehouse backend
type Config struct {
	AppName string
	Version string
	Dialect Dialect

	PG    PGConfig
	MySQL MySQLConfig
	CH    CHConfig

	// LogSQL traces every statement through the store logger
	LogSQL      bool
	SlowQueryMs int

	// Boot knobs, applied to both sql dialects
	ConnectRetries int           // default 6
	PingTimeout    time.Duration // default 3s
}

// PGConfig configures postgres connectivity
type PGConfig struct {
	URL      string
	MaxConns int32
}

// MySQLConfig configures mysql connectivity
type MySQLConfig struct {
	DSN      string
	Host     string
	Port     int
	User     string
	Password string
	DB       string
	MaxConns int
}

// CHConfig configures clickhouse connectivity
type CHConfig struct {
	DSN string
}
