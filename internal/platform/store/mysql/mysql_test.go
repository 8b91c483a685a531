package mysql

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"testing"

	"marketingetl/internal/platform/testkit"

	driver "github.com/go-sql-driver/mysql"
)

func TestFormatDSN_FromParts(t *testing.T) {
	dsn, err := Config{Host: "warehouse", Port: 3306, User: "etl", Password: "s3cret", DB: "marketing"}.FormatDSN()
	if err != nil {
		t.Fatalf("FormatDSN: %v", err)
	}
	mc, err := driver.ParseDSN(dsn)
	if err != nil {
		t.Fatalf("round trip parse: %v", err)
	}
	if mc.Addr != "warehouse:3306" || mc.User != "etl" || mc.Passwd != "s3cret" || mc.DBName != "marketing" {
		t.Fatalf("config mismatch: %+v", mc)
	}
	if !mc.ParseTime {
		t.Fatalf("parseTime must be on")
	}
}

func TestFormatDSN_ExplicitWins(t *testing.T) {
	dsn, err := Config{DSN: "etl:pw@tcp(db:3307)/ads", Host: "ignored"}.FormatDSN()
	if err != nil {
		t.Fatalf("FormatDSN: %v", err)
	}
	if !strings.Contains(dsn, "tcp(db:3307)/ads") || !strings.Contains(dsn, "parseTime=true") {
		t.Fatalf("dsn = %q", dsn)
	}
	if _, err := (Config{DSN: "not a dsn"}).FormatDSN(); err == nil {
		t.Fatalf("expected parse error")
	}
}

func TestOpen_UsesSeam(t *testing.T) {
	testkit.Serial(t)

	var gotDriver string
	testkit.Swap(t, &openDB, func(name, _ string) (*sql.DB, error) {
		gotDriver = name
		return nil, errors.New("boom")
	})
	if _, err := Open(context.Background(), Config{Host: "h", Port: 3306}, nil); err == nil {
		t.Fatalf("expected seam error")
	}
	if gotDriver != "mysql" {
		t.Fatalf("driver = %q", gotDriver)
	}
}

func TestClose_NilSafe(t *testing.T) {
	var m *MySQL
	if err := m.Close(); err != nil {
		t.Fatalf("nil close: %v", err)
	}
}
