package module

import (
	"path/filepath"
	"testing"

	"marketingetl/internal/core/pipeline/pipelinetest"
	"marketingetl/internal/modkit"
	"marketingetl/internal/platform/config"
	perr "marketingetl/internal/platform/errors"
	kit "marketingetl/internal/platform/testkit"
	"marketingetl/internal/services/shopify/domain"
)

var keys = []string{
	"ETL_STAGING_DIR", "SHOPIFY_STORE", "SHOPIFY_SALES_FILE", "SHOPIFY_SESSIONS_LOCATION_FILE",
	"SHOPIFY_PAGE_SESSIONS_FILE", "SHOPIFY_SALES_WRITE_MODE", "SHOPIFY_SESSIONS_LOCATION_WRITE_MODE",
	"SHOPIFY_PAGE_SESSIONS_WRITE_MODE", "ETL_START", "ETL_END",
}

func setenv(t *testing.T, kv map[string]string) {
	t.Helper()
	for _, k := range keys {
		t.Setenv(k, "")
	}
	for k, v := range kv {
		t.Setenv(k, v)
	}
}

func valid() map[string]string {
	return map[string]string{
		"ETL_STAGING_DIR":                      "/data/staging",
		"SHOPIFY_PAGE_SESSIONS_FILE":           "/abs/pages.csv",
		"SHOPIFY_SALES_WRITE_MODE":             "upsert",
		"SHOPIFY_SESSIONS_LOCATION_WRITE_MODE": "upsert",
		"SHOPIFY_PAGE_SESSIONS_WRITE_MODE":     "insert",
	}
}

func TestFromConfig(t *testing.T) {
	setenv(t, valid())
	o, err := FromConfig(config.New())
	if err != nil {
		t.Fatalf("FromConfig: %v", err)
	}
	if o.SalesFile != filepath.Join("/data/staging", "feb_sales_summary.csv") || o.PagesFile != "/abs/pages.csv" {
		t.Fatalf("files = %+v", o.Files())
	}
	if o.Store != "shopify" || o.Modes().Pages != "insert" {
		t.Fatalf("options = %+v", o)
	}
}

func TestFromConfig_EveryModeIsRequired(t *testing.T) {
	for _, key := range []string{"SHOPIFY_SALES_WRITE_MODE", "SHOPIFY_SESSIONS_LOCATION_WRITE_MODE", "SHOPIFY_PAGE_SESSIONS_WRITE_MODE"} {
		t.Run(key, func(t *testing.T) {
			kv := valid()
			delete(kv, key)
			setenv(t, kv)
			_, err := FromConfig(config.New())
			kit.MustCode(t, err, perr.ErrorCodeConfig)
			kit.MustContain(t, err.Error(), key)
		})
	}
}

func TestNew(t *testing.T) {
	kit.MustPanic(t, func() { New(modkit.Deps{}, Options{}) })

	setenv(t, valid())
	o, _ := FromConfig(config.New())
	m := New(modkit.Deps{}, o, modkit.WithPorts(domain.Ports{Loader: &pipelinetest.Loader{}}))
	if m.Name() != "shopify" || m.Ports().(Ports).Runner == nil {
		t.Fatalf("module = %+v", m)
	}
}
