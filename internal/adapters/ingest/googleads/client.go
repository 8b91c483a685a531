// Package googleads runs GAQL queries against the Google Ads REST search endpoint
package googleads

import (
	"bytes"
	"context"
	"encoding/json"
	"iter"
	"net/http"
	"strings"

	perr "marketingetl/internal/platform/errors"
	"marketingetl/internal/platform/logger"
	phttp "marketingetl/internal/platform/net/http"
	pstrings "marketingetl/internal/platform/strings"

	"github.com/tidwall/gjson"
)

const (
	baseURLDefault = "https://googleads.googleapis.com"
	versionDefault = "v20"
)

// Options configures the Client
type Options struct {
	BaseURL        string
	Version        string
	DeveloperToken string
	// LoginCustomerID is the manager account the credentials belong to;
	// dashes are allowed
	LoginCustomerID string
}

// Client pages googleAds:search by nextPageToken
//
// the http client must already authorize requests, see Credentials.Authorize
type Client struct {
	http *http.Client
	opts Options
	log  logger.Logger
}

// NewClient creates a Client with sane defaults
func NewClient(log logger.Logger, hc *http.Client, o Options) *Client {
	if hc == nil {
		panic("googleads.NewClient requires an http client")
	}
	if o.BaseURL == "" {
		o.BaseURL = baseURLDefault
	}
	if o.Version == "" {
		o.Version = versionDefault
	}
	o.BaseURL = strings.TrimRight(o.BaseURL, "/")
	o.LoginCustomerID = pstrings.Digits(o.LoginCustomerID)
	return &Client{http: hc, opts: o, log: logger.Named(log, "googleads")}
}

type searchRequest struct {
	Query     string `json:"query"`
	PageToken string `json:"pageToken,omitempty"`
}

func (c *Client) searchURL(customer string) string {
	return c.opts.BaseURL + "/" + c.opts.Version + "/customers/" + pstrings.Digits(customer) + "/googleAds:search"
}

// Search yields the results array of every page of query run as customer,
// following nextPageToken until it is absent or empty. A failed page ends
// the sequence with its error.
func (c *Client) Search(ctx context.Context, customer, query string) iter.Seq2[[]gjson.Result, error] {
	return func(yield func([]gjson.Result, error) bool) {
		if pstrings.Digits(customer) == "" {
			yield(nil, perr.WithField(perr.Configf("customer id %q has no digits", customer), "customer"))
			return
		}
		token := ""
		for page := 1; ; page++ {
			results, next, err := c.page(ctx, customer, query, token)
			if err != nil {
				yield(nil, perr.WithOp(err, "googleAds:search"))
				return
			}
			c.log.Debug().Str("customer", pstrings.Digits(customer)).Int("page", page).Int("rows", len(results)).Msg("page fetched")
			if !yield(results, nil) {
				return
			}
			if next == "" {
				return
			}
			token = next
		}
	}
}

func (c *Client) page(ctx context.Context, customer, query, token string) ([]gjson.Result, string, error) {
	body, err := json.Marshal(searchRequest{Query: query, PageToken: token})
	if err != nil {
		return nil, "", perr.Wrap(err, perr.ErrorCodeJSON, "encode search request")
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.searchURL(customer), bytes.NewReader(body))
	if err != nil {
		return nil, "", perr.Wrap(err, perr.ErrorCodeSourceUnavailable, "build search request")
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("developer-token", c.opts.DeveloperToken)
	if c.opts.LoginCustomerID != "" {
		req.Header.Set("login-customer-id", c.opts.LoginCustomerID)
	}

	resp, err := phttp.Do(c.http, req, "error.message")
	if err != nil {
		return nil, "", err
	}
	// an empty result set omits results and keeps the field mask
	if !resp.Get("results").Exists() && resp.Get("fieldMask").Exists() {
		return nil, "", nil
	}
	results, err := phttp.Array(resp, "results")
	if err != nil {
		return nil, "", err
	}
	return results, resp.Get("nextPageToken").String(), nil
}

// CampaignQuery selects enabled campaigns with their metrics segmented to
// the closed period since..until (YYYY-MM-DD)
func CampaignQuery(since, until string) string {
	return `SELECT campaign.id, campaign.name, campaign.status, customer.id, ` +
		`campaign.bidding_strategy_type, campaign_budget.amount_micros, ` +
		`metrics.impressions, metrics.clicks, metrics.ctr, metrics.average_cpc, ` +
		`metrics.cost_micros, metrics.conversions, metrics.conversions_value, ` +
		`metrics.interaction_rate ` +
		`FROM campaign ` +
		`WHERE campaign.status = 'ENABLED' ` +
		`AND segments.date BETWEEN '` + since + `' AND '` + until + `'`
}

const clientsQuery = `SELECT customer_client.client_customer, customer_client.descriptive_name, customer_client.id ` +
	`FROM customer_client WHERE customer_client.manager = false`

// Campaigns streams the campaign rows of customer for since..until
func (c *Client) Campaigns(ctx context.Context, customer, since, until string) iter.Seq2[Row, error] {
	return func(yield func(Row, error) bool) {
		for results, err := range c.Search(ctx, customer, CampaignQuery(since, until)) {
			if err != nil {
				yield(Row{}, err)
				return
			}
			for _, v := range results {
				r, err := parseRow(v)
				if err != nil {
					yield(Row{}, err)
					return
				}
				if !yield(r, nil) {
					return
				}
			}
		}
	}
}

// ListClients returns the non-manager accounts linked under manager
func (c *Client) ListClients(ctx context.Context, manager string) ([]Account, error) {
	var out []Account
	for results, err := range c.Search(ctx, manager, clientsQuery) {
		if err != nil {
			return nil, err
		}
		for _, v := range results {
			a, err := parseAccount(v)
			if err != nil {
				return nil, err
			}
			c.log.Info().Str("client", a.Name).Str("id", a.ID).Msg("found client")
			out = append(out, a)
		}
	}
	return out, nil
}
