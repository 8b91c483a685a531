package module

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"marketingetl/internal/core/pipeline"
	"marketingetl/internal/core/pipeline/pipelinetest"
	"marketingetl/internal/modkit"
	"marketingetl/internal/platform/config"
	perr "marketingetl/internal/platform/errors"
	kit "marketingetl/internal/platform/testkit"
	"marketingetl/internal/services/googleads/domain"
)

var keys = []string{
	"GOOGLE_DEVELOPER_TOKEN", "GOOGLE_CLIENT_ID", "GOOGLE_CLIENT_SECRET", "GOOGLE_REFRESH_TOKEN",
	"GOOGLE_CUSTOMER_ID", "GOOGLE_CLIENT_CUSTOMER_ID", "GOOGLE_API_VERSION", "GOOGLE_BASE_URL",
	"GOOGLE_TOKEN_URL", "GOOGLE_HTTP_TIMEOUT", "GOOGLE_WRITE_MODE", "GOOGLE_TABLE", "ETL_START", "ETL_END",
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
		"GOOGLE_DEVELOPER_TOKEN": "dev",
		"GOOGLE_CLIENT_ID":       "cid",
		"GOOGLE_CLIENT_SECRET":   "secret",
		"GOOGLE_REFRESH_TOKEN":   "rt",
		"GOOGLE_CUSTOMER_ID":     "123-456-7890",
		"GOOGLE_WRITE_MODE":      "insert",
	}
}

func TestFromConfig(t *testing.T) {
	setenv(t, valid())
	o, err := FromConfig(config.New())
	if err != nil {
		t.Fatalf("FromConfig: %v", err)
	}
	if o.Version != "v20" || o.TokenURL != "https://oauth2.googleapis.com/token" || o.HTTPTimeout != modkit.DefaultHTTPTimeout {
		t.Fatalf("defaults = %+v", o)
	}
	_, err = o.Account()
	kit.MustCode(t, err, perr.ErrorCodeConfig)
	kit.MustContain(t, err.Error(), "-list-clients")

	kv := valid()
	kv["GOOGLE_CLIENT_CUSTOMER_ID"] = "1112223333"
	setenv(t, kv)
	o, _ = FromConfig(config.New())
	if acc, err := o.Account(); err != nil || acc != "1112223333" {
		t.Fatalf("Account = %q err=%v", acc, err)
	}
}

func TestFromConfig_Invalid(t *testing.T) {
	for _, key := range []string{"GOOGLE_WRITE_MODE", "GOOGLE_DEVELOPER_TOKEN", "GOOGLE_REFRESH_TOKEN", "GOOGLE_CUSTOMER_ID"} {
		t.Run(key, func(t *testing.T) {
			kv := valid()
			kv[key] = ""
			setenv(t, kv)
			_, err := FromConfig(config.New())
			kit.MustCode(t, err, perr.ErrorCodeConfig)
			kit.MustContain(t, err.Error(), key)
		})
	}
	kv := valid()
	kv["GOOGLE_CLIENT_CUSTOMER_ID"] = "12345"
	setenv(t, kv)
	_, err := FromConfig(config.New())
	kit.MustContain(t, err.Error(), "GOOGLE_CLIENT_CUSTOMER_ID")
}

func TestNew_RequiresLoader(t *testing.T) {
	kit.MustPanic(t, func() { New(context.Background(), modkit.Deps{}, Options{}) })
}

func TestNew_AuthorizesAndListsClients(t *testing.T) {
	tokens := 0
	mux := http.NewServeMux()
	mux.HandleFunc("POST /token", func(w http.ResponseWriter, r *http.Request) {
		tokens++
		w.Header().Set("Content-Type", "application/json")
		_, _ = fmt.Fprint(w, `{"access_token":"at","token_type":"Bearer","expires_in":3600}`)
	})
	mux.HandleFunc("POST /v20/customers/{id}/googleAds:search", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer at" || r.Header.Get("login-customer-id") != "1234567890" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		if r.PathValue("id") == "1234567890" {
			_, _ = fmt.Fprint(w, `{"results":[{"customerClient":{"id":"1112223333","descriptiveName":"Shop"}}]}`)
			return
		}
		_, _ = fmt.Fprint(w, `{"results":[{"campaign":{"id":"5"},"customer":{"id":"1112223333"},"metrics":{"costMicros":"1000000"}}]}`)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	kv := valid()
	kv["GOOGLE_BASE_URL"] = srv.URL
	kv["GOOGLE_TOKEN_URL"] = srv.URL + "/token"
	setenv(t, kv)
	opts, err := FromConfig(config.New())
	if err != nil {
		t.Fatalf("FromConfig: %v", err)
	}

	ld := &pipelinetest.Loader{}
	m := New(context.Background(), modkit.Deps{}, opts, modkit.WithPorts(domain.Ports{Loader: ld}), modkit.WithHTTPClient(srv.Client()))
	ports := m.Ports().(Ports)

	clients, err := ports.Clients.ListClients(context.Background(), opts.CustomerID)
	if err != nil || len(clients) != 1 || clients[0].ID != "1112223333" {
		t.Fatalf("clients = %+v err=%v", clients, err)
	}

	p, _ := opts.Period(time.Now())
	res := ports.Runner.Run(context.Background(), pipeline.Scope{Account: clients[0].ID, Period: p})
	if res.Status != pipeline.StatusOK || len(ld.Table(domain.Table)) != 1 {
		t.Fatalf("result = %+v err=%v", res, res.Err)
	}
	if tokens != 1 {
		t.Fatalf("token minted %d times", tokens)
	}
}

func TestNewClients_NeedsNoWriteMode(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /token", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = fmt.Fprint(w, `{"access_token":"at","token_type":"Bearer","expires_in":3600}`)
	})
	mux.HandleFunc("POST /v20/customers/{id}/googleAds:search", func(w http.ResponseWriter, r *http.Request) {
		_, _ = fmt.Fprint(w, `{"results":[{"customerClient":{"id":"1112223333","descriptiveName":"Shop"}},{"customerClient":{"id":"4445556666"}}]}`)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	kv := valid()
	delete(kv, "GOOGLE_WRITE_MODE")
	kv["GOOGLE_BASE_URL"] = srv.URL
	kv["GOOGLE_TOKEN_URL"] = srv.URL + "/token"
	setenv(t, kv)

	_, err := FromConfig(config.New())
	kit.MustCode(t, err, perr.ErrorCodeConfig)

	a, err := AccessFromConfig(config.New())
	if err != nil {
		t.Fatalf("AccessFromConfig: %v", err)
	}
	clients, err := NewClients(context.Background(), modkit.Deps{}, a, modkit.WithHTTPClient(srv.Client())).
		ListClients(context.Background(), a.CustomerID)
	if err != nil || len(clients) != 2 || clients[1].ID != "4445556666" {
		t.Fatalf("clients = %+v err=%v", clients, err)
	}
}
