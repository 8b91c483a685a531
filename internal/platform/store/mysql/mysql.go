// Package mysql provides a MySQL warehouse client over database/sql and go-sql-driver
package mysql

import (
	"context"
	"database/sql"
	"net"
	"strconv"
	"time"

	"marketingetl/internal/platform/store/trace"

	driver "github.com/go-sql-driver/mysql"
)

// Config configures the MySQL connection pool
type Config struct {
	// DSN, when set, wins over the discrete fields
	DSN      string
	Host     string
	Port     int
	User     string
	Password string
	DB       string

	MaxConns        int
	ConnMaxLifetime time.Duration
	SlowMs          int
}

// MySQL is a pooled *sql.DB with optional tracer
type MySQL struct {
	DB     *sql.DB
	Tracer trace.QueryTracer
	SlowMs int
}

var openDB = sql.Open

// FormatDSN renders the driver DSN; parseTime is forced so DATE columns scan into time.Time
func (c Config) FormatDSN() (string, error) {
	if c.DSN != "" {
		mc, err := driver.ParseDSN(c.DSN)
		if err != nil {
			return "", err
		}
		mc.ParseTime = true
		return mc.FormatDSN(), nil
	}
	mc := driver.NewConfig()
	mc.Net = "tcp"
	mc.Addr = net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
	mc.User = c.User
	mc.Passwd = c.Password
	mc.DBName = c.DB
	mc.ParseTime = true
	mc.Loc = time.UTC
	return mc.FormatDSN(), nil
}

// Open creates the pool; it does not ping
func Open(_ context.Context, cfg Config, tracer trace.QueryTracer) (*MySQL, error) {
	dsn, err := cfg.FormatDSN()
	if err != nil {
		return nil, err
	}
	db, err := openDB("mysql", dsn)
	if err != nil {
		return nil, err
	}
	maxConns := cfg.MaxConns
	if maxConns <= 0 {
		maxConns = 4
	}
	life := cfg.ConnMaxLifetime
	if life <= 0 {
		life = 5 * time.Minute
	}
	db.SetMaxOpenConns(maxConns)
	db.SetMaxIdleConns(maxConns)
	db.SetConnMaxLifetime(life)
	return &MySQL{DB: db, Tracer: tracer, SlowMs: cfg.SlowMs}, nil
}

// Close closes the pool
func (m *MySQL) Close() error {
	if m == nil || m.DB == nil {
		return nil
	}
	return m.DB.Close()
}
