package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	kit "marketingetl/internal/platform/testkit"
)

func TestPrefixAndKey(t *testing.T) {
	meta := New().Prefix("META_")
	if got := meta.key("ACCESS_TOKEN"); got != "META_ACCESS_TOKEN" {
		t.Fatalf("key() = %q, want %q", got, "META_ACCESS_TOKEN")
	}
	nested := New().Prefix("SHOPIFY_").Prefix("SALES_")
	if got := nested.Key("WRITE_MODE"); got != "SHOPIFY_SALES_WRITE_MODE" {
		t.Fatalf("nested Key() = %q", got)
	}
}

// May* fallbacks

func TestMayString(t *testing.T) {
	c := New().Prefix("S_")
	if got := c.MayString("MISSING", "def"); got != "def" {
		t.Fatalf("MayString default = %q", got)
	}
	t.Setenv("S_DIR", " ./staging ")
	if got := c.MayString("DIR", "x"); got != "./staging" {
		t.Fatalf("MayString value = %q", got)
	}
}

func TestMayInt(t *testing.T) {
	c := New().Prefix("I_")
	if got := c.MayInt("MISSING", 9); got != 9 {
		t.Fatalf("MayInt default = %d", got)
	}
	t.Setenv("I_OK", " 7 ")
	if got := c.MayInt("OK", 0); got != 7 {
		t.Fatalf("MayInt ok = %d", got)
	}
	t.Setenv("I_BAD", "x")
	if got := c.MayInt("BAD", 3); got != 3 {
		t.Fatalf("MayInt bad -> default = %d", got)
	}
}

func TestMayPort(t *testing.T) {
	c := New().Prefix("WAREHOUSE_")
	if got := c.MayPort("PORT", 3306); got != 3306 {
		t.Fatalf("MayPort default = %d", got)
	}
	t.Setenv("WAREHOUSE_PORT", "5432")
	if got := c.MayPort("PORT", 3306); got != 5432 {
		t.Fatalf("MayPort = %d", got)
	}
	t.Setenv("WAREHOUSE_PORT", "70000")
	kit.MustPanic(t, func() { _ = c.MayPort("PORT", 3306) })
	t.Setenv("WAREHOUSE_PORT", "abc")
	kit.MustPanic(t, func() { _ = c.MayPort("PORT", 3306) })
}

func TestMayBool(t *testing.T) {
	c := New().Prefix("B_")
	if !c.MayBool("MISSING", true) {
		t.Fatalf("MayBool default true expected")
	}
	t.Setenv("B_T", "true")
	if !c.MayBool("T", false) {
		t.Fatalf("MayBool true expected")
	}
	t.Setenv("B_BAD", "nope")
	if c.MayBool("BAD", false) {
		t.Fatalf("MayBool bad -> default false expected")
	}
}

func TestMayDuration(t *testing.T) {
	c := New().Prefix("DUR_")
	if got := c.MayDuration("MISS", 5*time.Second); got != 5*time.Second {
		t.Fatalf("MayDuration default expected")
	}
	t.Setenv("DUR_OK", "150ms")
	if got := c.MayDuration("OK", time.Second); got != 150*time.Millisecond {
		t.Fatalf("MayDuration ok = %v", got)
	}
	t.Setenv("DUR_BAD", "nope")
	if got := c.MayDuration("BAD", time.Minute); got != time.Minute {
		t.Fatalf("MayDuration bad -> default expected")
	}
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	body := "DOTENV_TEST_TOKEN=from-file\nDOTENV_TEST_KEEP=from-file\n"
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("DOTENV_TEST_KEEP", "from-env")
	os.Unsetenv("DOTENV_TEST_TOKEN")
	t.Cleanup(func() { os.Unsetenv("DOTENV_TEST_TOKEN") })

	n, err := LoadDotEnv(path)
	if err != nil {
		t.Fatalf("LoadDotEnv err: %v", err)
	}
	if n != 1 {
		t.Fatalf("exported = %d, want 1", n)
	}
	if got := os.Getenv("DOTENV_TEST_TOKEN"); got != "from-file" {
		t.Fatalf("token = %q", got)
	}
	if got := os.Getenv("DOTENV_TEST_KEEP"); got != "from-env" {
		t.Fatalf("process env must win, got %q", got)
	}
}

func TestLoadDotEnvMissingFile(t *testing.T) {
	n, err := LoadDotEnv(filepath.Join(t.TempDir(), "nope.env"))
	if err != nil || n != 0 {
		t.Fatalf("missing file: n=%d err=%v", n, err)
	}
	if n, err := LoadDotEnv(""); err != nil || n != 0 {
		t.Fatalf("empty path: n=%d err=%v", n, err)
	}
}
