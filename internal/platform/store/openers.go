package store

import (
	"context"
	"fmt"
	"time"

	chx "marketingetl/internal/platform/store/ch"
	"marketingetl/internal/platform/store/mysql"
	"marketingetl/internal/platform/store/pg"
	"marketingetl/internal/platform/store/trace"
)

// sleep is a seam for tests
var sleep = time.Sleep

// openPG opens pg and wraps it with our sql adapter once a ping succeeds
func openPG(ctx context.Context, cfg Config, s *Store) (Pool, error) {
	var tracer trace.QueryTracer
	if cfg.LogSQL {
		tracer = trace.Tracer(s.Log, "pg")
	}
	p, err := pg.Open(ctx, pg.Config{
		URL:      cfg.PG.URL,
		AppName:  cfg.AppName,
		MaxConns: cfg.PG.MaxConns,
		SlowMs:   cfg.SlowQueryMs,
	}, tracer, nil)
	if err != nil {
		return nil, err
	}
	if err := pingWithRetry(ctx, cfg, s, p.Pool.Ping); err != nil {
		p.Close()
		return nil, err
	}
	return newPGAdapter(p), nil
}

// openMySQL opens the mysql pool and wraps it with the database/sql adapter
func openMySQL(ctx context.Context, cfg Config, s *Store) (Pool, error) {
	var tracer trace.QueryTracer
	if cfg.LogSQL {
		tracer = trace.Tracer(s.Log, "mysql")
	}
	m, err := mysql.Open(ctx, mysql.Config{
		DSN:      cfg.MySQL.DSN,
		Host:     cfg.MySQL.Host,
		Port:     cfg.MySQL.Port,
		User:     cfg.MySQL.User,
		Password: cfg.MySQL.Password,
		DB:       cfg.MySQL.DB,
		MaxConns: cfg.MySQL.MaxConns,
		SlowMs:   cfg.SlowQueryMs,
	}, tracer)
	if err != nil {
		return nil, err
	}
	if err := pingWithRetry(ctx, cfg, s, m.DB.PingContext); err != nil {
		_ = m.Close()
		return nil, err
	}
	return newSQLAdapter(m), nil
}

func openCH(ctx context.Context, cfg Config) (Clickhouse, error) {
	c, err := chx.Open(ctx, chx.Config{DSN: cfg.CH.DSN, Role: cfg.AppName, Version: cfg.Version})
	if err != nil {
		return nil, err
	}
	return newCHAdapter(c), nil
}

// pingWithRetry pings with exponential backoff capped at 2s
func pingWithRetry(ctx context.Context, cfg Config, s *Store, ping func(context.Context) error) error {
	attempts := cfg.ConnectRetries
	if attempts <= 0 {
		attempts = 6
	}
	timeout := cfg.PingTimeout
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	const backoffCeiling = 2 * time.Second

	var lastErr error
	backoff := 150 * time.Millisecond
	for i := range attempts {
		toCtx, cancel := context.WithTimeout(ctx, timeout)
		lastErr = ping(toCtx)
		cancel()
		if lastErr == nil {
			return nil
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		s.Log.Warn().Err(lastErr).Int("attempt", i+1).Dur("backoff", backoff).Msg("warehouse ping failed")
		sleep(backoff)
		backoff = min(backoff*2, backoffCeiling)
	}
	return fmt.Errorf("%s ping failed after %d attempts: %w", cfg.Dialect, attempts, lastErr)
}
