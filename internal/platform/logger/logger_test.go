package logger

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	kit "marketingetl/internal/platform/testkit"
)

func TestParseLevel_AllBranches(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"trace", "trace"},
		{"debug", "debug"},
		{"info", "info"},
		{"warn", "warn"},
		{"warning", "warn"},
		{"error", "error"},
		{"fatal", "fatal"},
		{"panic", "panic"},
		{"", "info"},
		{"   nonsense   ", "info"},
	}
	for _, c := range cases {
		lvl := parseLevel(c.in)
		if strings.ToLower(lvl.String()) != c.want {
			t.Fatalf("parseLevel(%q) = %q, want %q", c.in, lvl, c.want)
		}
	}
}

func TestNew_NamedAndForRun(t *testing.T) {
	var buf bytes.Buffer
	l, closer, err := New(Options{
		Level:        "debug",
		Format:       "console",
		Service:      "meta_ads_etl",
		Writer:       &buf,
		WithCaller:   true,
		StaticFields: map[string]string{"build": "test"},
	})
	if err != nil {
		t.Fatalf("New err: %v", err)
	}
	defer closer.Close()

	l.Info().Str("k", "v").Msg("root-msg")
	named := Named(l, "loader")
	named.Info().Msg("named-msg")
	run := ForRun(l, "run-1", "metaads")
	run.Info().Msg("run-msg")
	unnamed := Named(l, "")
	unnamed.Debug().Msg("unnamed")

	out := buf.String()
	kit.MustContain(t, out, "root-msg")
	kit.MustContain(t, out, "named-msg")
	kit.MustContain(t, out, "component=")
	kit.MustContain(t, out, "loader")
	kit.MustContain(t, out, "run_id=")
	kit.MustContain(t, out, "run-1")
	kit.MustContain(t, out, "pipeline=")
	kit.MustContain(t, out, "metaads")
	kit.MustContain(t, out, "build=")
	kit.MustContain(t, out, "service=")
	kit.MustContain(t, out, "meta_ads_etl")
	kit.MustContain(t, out, "unnamed")
}

func TestNew_LevelFilters(t *testing.T) {
	var buf bytes.Buffer
	l, _, err := New(Options{Level: "warn", Format: "json", Writer: &buf})
	if err != nil {
		t.Fatal(err)
	}
	l.Info().Msg("hidden")
	l.Warn().Msg("shown")
	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Fatalf("info line leaked at warn level: %s", out)
	}
	kit.MustContain(t, out, `"message":"shown"`)
}

func TestNew_LogDirDuplicatesToFile(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "logs")
	var buf bytes.Buffer
	l, closer, err := New(Options{Level: "info", Format: "json", Service: "google_ads_etl", Writer: &buf, Dir: dir})
	if err != nil {
		t.Fatalf("New err: %v", err)
	}
	l.Info().Msg("to-both")
	if err := closer.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	b, err := os.ReadFile(filepath.Join(dir, "google_ads_etl.log"))
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	kit.MustContain(t, string(b), "to-both")
	kit.MustContain(t, buf.String(), "to-both")
}

func TestNew_LogDirExplicitFile(t *testing.T) {
	dir := t.TempDir()
	l, closer, err := New(Options{Format: "json", Writer: &bytes.Buffer{}, Dir: dir, File: "shopify.log"})
	if err != nil {
		t.Fatal(err)
	}
	l.Info().Msg("x")
	closer.Close()
	if _, err := os.Stat(filepath.Join(dir, "shopify.log")); err != nil {
		t.Fatalf("expected shopify.log: %v", err)
	}
}

func TestFromEnv_Independently(t *testing.T) {
	t.Setenv("LOG_LEVEL", "warn")
	t.Setenv("LOG_FORMAT", "json")
	t.Setenv("LOG_SERVICE", "svc-b")
	t.Setenv("LOG_COMPONENT", "comp-b")
	t.Setenv("LOG_CALLER", "true")
	t.Setenv("LOG_DIR", "/tmp/etl-logs")
	t.Setenv("LOG_FILE", "x.log")

	opt := FromEnv()
	if opt.Level != "warn" || opt.Format != "json" || opt.Service != "svc-b" || opt.Component != "comp-b" {
		t.Fatalf("FromEnv fields mismatch: %+v", opt)
	}
	if !opt.WithCaller || opt.Dir != "/tmp/etl-logs" || opt.File != "x.log" {
		t.Fatalf("FromEnv caller/dir mismatch: %+v", opt)
	}
}

func TestGet_Bootstrap(t *testing.T) {
	if Get() == nil {
		t.Fatal("Get returned nil")
	}
	Get().Debug().Msg("bootstrap")
}
