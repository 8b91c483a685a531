package googleads

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"marketingetl/internal/core/pipeline"
	perr "marketingetl/internal/platform/errors"
	"marketingetl/internal/platform/logger"
	kit "marketingetl/internal/platform/testkit"

	"github.com/tidwall/gjson"
)

// ads fakes the token endpoint and googleAds:search
type ads struct {
	t        *testing.T
	srv      *httptest.Server
	pages    []string // bodies; page i is returned for pageToken "p<i>"
	status   int
	tokens   int
	badGrant bool
	queries  []string
	headers  http.Header
	path     string
}

func newAds(t *testing.T) *ads {
	a := &ads{t: t}
	mux := http.NewServeMux()
	mux.HandleFunc("POST /token", a.token)
	mux.HandleFunc("POST /", a.search)
	a.srv = httptest.NewServer(mux)
	t.Cleanup(a.srv.Close)
	return a
}

func (a *ads) token(w http.ResponseWriter, r *http.Request) {
	a.tokens++
	_ = r.ParseForm()
	if a.badGrant || r.Form.Get("grant_type") != "refresh_token" || r.Form.Get("refresh_token") != "rt" || r.Form.Get("client_id") != "cid" {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = fmt.Fprint(w, `{"error":"invalid_grant"}`)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_, _ = fmt.Fprint(w, `{"access_token":"at-1","token_type":"Bearer","expires_in":3600}`)
}

func (a *ads) search(w http.ResponseWriter, r *http.Request) {
	b, _ := io.ReadAll(r.Body)
	body := gjson.ParseBytes(b)
	a.queries = append(a.queries, body.Get("query").String())
	a.headers = r.Header.Clone()
	a.path = r.URL.Path
	if r.Header.Get("Authorization") != "Bearer at-1" {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = fmt.Fprint(w, `{"error":{"code":401,"message":"Request is missing required authentication credential."}}`)
		return
	}
	if a.status != 0 {
		w.WriteHeader(a.status)
		_, _ = fmt.Fprint(w, `{"error":{"code":403,"message":"The caller does not have permission"}}`)
		return
	}
	i := 0
	if tok := body.Get("pageToken").String(); tok != "" {
		_, _ = fmt.Sscanf(tok, "p%d", &i)
	}
	if i >= len(a.pages) {
		_, _ = fmt.Fprint(w, `{"fieldMask":"campaign.id"}`)
		return
	}
	_, _ = fmt.Fprint(w, a.pages[i])
}

func (a *ads) client() *Client {
	creds := Credentials{ClientID: "cid", ClientSecret: "secret", RefreshToken: "rt", TokenURL: a.srv.URL + "/token"}
	hc := creds.Authorize(context.Background(), a.srv.Client())
	return NewClient(logger.Logger{}, hc, Options{BaseURL: a.srv.URL, DeveloperToken: "dev", LoginCustomerID: "123-456-7890"})
}

func campaignResult(id string) string {
	return `{"campaign":{"id":"` + id + `","name":"C` + id + `","status":"ENABLED","biddingStrategyType":"MAXIMIZE_CONVERSIONS"},` +
		`"customer":{"id":"9876543210"},"campaignBudget":{"amountMicros":"5000000"},` +
		`"metrics":{"impressions":"1000","clicks":"50","ctr":0.05,"averageCpc":2000000,"costMicros":"100000000","conversions":4,"conversionsValue":300,"interactionRate":0.05}}`
}

func period(t *testing.T) pipeline.Period {
	p, err := pipeline.ParsePeriod("2025-03-01", "2025-03-07", time.Now())
	if err != nil {
		t.Fatalf("period: %v", err)
	}
	return p
}

func TestSearch_FollowsNextPageToken(t *testing.T) {
	a := newAds(t)
	a.pages = []string{
		`{"results":[` + campaignResult("1") + `,` + campaignResult("2") + `],"nextPageToken":"p1"}`,
		`{"results":[` + campaignResult("3") + `],"nextPageToken":"p2"}`,
		`{"results":[` + campaignResult("4") + `],"nextPageToken":""}`,
	}

	x := NewExtractor(logger.Logger{}, a.client())
	var ids []string
	for rec, err := range x.Extract(context.Background(), pipeline.Scope{Account: "111-222-3333", Period: period(t)}) {
		if err != nil {
			t.Fatalf("Extract: %v", err)
		}
		ids = append(ids, rec.CampaignID)
		if rec.Period.StartDate() != "2025-03-01" {
			t.Fatalf("period not carried: %v", rec.Period)
		}
	}
	if strings.Join(ids, ",") != "1,2,3,4" {
		t.Fatalf("ids = %v", ids)
	}
	if len(a.queries) != 3 {
		t.Fatalf("requests = %d, want 3", len(a.queries))
	}
	if a.tokens != 1 {
		t.Fatalf("token minted %d times, want 1", a.tokens)
	}
	if a.path != "/v20/customers/1112223333/googleAds:search" {
		t.Fatalf("path = %s", a.path)
	}
	if a.headers.Get("developer-token") != "dev" || a.headers.Get("login-customer-id") != "1234567890" {
		t.Fatalf("headers = %v", a.headers)
	}
	kit.MustContain(t, a.queries[0], "campaign.status = 'ENABLED'")
	kit.MustContain(t, a.queries[0], "segments.date BETWEEN '2025-03-01' AND '2025-03-07'")
}

func TestSearch_ParsesRow(t *testing.T) {
	a := newAds(t)
	a.pages = []string{`{"results":[` + campaignResult("7") + `]}`}
	var got []Row
	for r, err := range a.client().Campaigns(context.Background(), "1", "a", "b") {
		if err != nil {
			t.Fatalf("Campaigns: %v", err)
		}
		got = append(got, r)
	}
	want := Row{
		CampaignID: "7", CampaignName: "C7", Status: "ENABLED", BiddingStrategyType: "MAXIMIZE_CONVERSIONS",
		CustomerID: "9876543210", BudgetMicros: "5000000", Impressions: "1000", Clicks: "50", CTR: "0.05",
		AverageCPCMicros: "2000000", CostMicros: "100000000", Conversions: "4", ConversionsValue: "300", InteractionRate: "0.05",
	}
	if len(got) != 1 || got[0] != want {
		t.Fatalf("row = %+v", got)
	}
}

func TestSearch_EmptyResultSet(t *testing.T) {
	a := newAds(t)
	n := 0
	for _, err := range a.client().Campaigns(context.Background(), "1", "a", "b") {
		if err != nil {
			t.Fatalf("Campaigns: %v", err)
		}
		n++
	}
	if n != 0 {
		t.Fatalf("rows = %d", n)
	}
}

func TestSearch_Errors(t *testing.T) {
	cases := []struct {
		name     string
		setup    func(a *ads)
		customer string
		code     perr.ErrorCode
		msg      string
	}{
		{"permission denied", func(a *ads) { a.status = http.StatusForbidden }, "1", perr.ErrorCodeSourceUnavailable, "The caller does not have permission"},
		{"bad refresh token", func(a *ads) { a.badGrant = true }, "1", perr.ErrorCodeSourceUnavailable, ""},
		{"no results array", func(a *ads) { a.pages = []string{`{"requestId":"x"}`} }, "1", perr.ErrorCodeSourceSchema, "results"},
		{"result without id", func(a *ads) { a.pages = []string{`{"results":[{"campaign":{"name":"x"}}]}`} }, "1", perr.ErrorCodeSourceSchema, "campaign.id"},
		{"blank customer", func(a *ads) {}, "--", perr.ErrorCodeConfig, "customer"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			a := newAds(t)
			c.setup(a)
			var got error
			for _, err := range a.client().Campaigns(context.Background(), c.customer, "a", "b") {
				if err != nil {
					got = err
					break
				}
			}
			kit.MustCode(t, got, c.code)
			if c.msg != "" {
				kit.MustContain(t, got.Error(), c.msg)
			}
			if strings.Contains(got.Error(), "secret") || strings.Contains(got.Error(), "at-1") {
				t.Fatalf("credential leaked: %v", got)
			}
		})
	}
}

func TestListClients(t *testing.T) {
	a := newAds(t)
	a.pages = []string{
		`{"results":[{"customerClient":{"id":"111","descriptiveName":"Shop EU"}}],"nextPageToken":"p1"}`,
		`{"results":[{"customerClient":{"id":"222","descriptiveName":"Shop US"}}]}`,
	}
	got, err := a.client().ListClients(context.Background(), "123-456-7890")
	if err != nil {
		t.Fatalf("ListClients: %v", err)
	}
	if len(got) != 2 || got[0] != (Account{ID: "111", Name: "Shop EU"}) || got[1].ID != "222" {
		t.Fatalf("clients = %+v", got)
	}
	kit.MustContain(t, a.queries[0], "customer_client.manager = false")
	if a.path != "/v20/customers/1234567890/googleAds:search" {
		t.Fatalf("path = %s", a.path)
	}
}

func TestConstructors_Panic(t *testing.T) {
	kit.MustPanic(t, func() { NewClient(logger.Logger{}, nil, Options{}) })
	kit.MustPanic(t, func() { NewExtractor(logger.Logger{}, nil) })
}
