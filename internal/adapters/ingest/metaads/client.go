// Package metaads reads campaigns, ad sets and campaign insights from the Meta Graph API
package metaads

import (
	"context"
	"iter"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	perr "marketingetl/internal/platform/errors"
	"marketingetl/internal/platform/logger"
	phttp "marketingetl/internal/platform/net/http"

	"github.com/tidwall/gjson"
)

const (
	baseURLDefault = "https://graph.facebook.com"
	versionDefault = "v22.0"
)

// Options configures the Client
type Options struct {
	BaseURL   string
	Version   string
	Token     string
	PageLimit int // 0 lets the API pick
}

// Client is a minimal Graph API reader that follows paging.next
type Client struct {
	http *http.Client
	opts Options
	log  logger.Logger
}

// NewClient creates a Client with sane defaults
func NewClient(log logger.Logger, hc *http.Client, o Options) *Client {
	if hc == nil {
		panic("metaads.NewClient requires an http client")
	}
	if o.BaseURL == "" {
		o.BaseURL = baseURLDefault
	}
	if o.Version == "" {
		o.Version = versionDefault
	}
	o.BaseURL = strings.TrimRight(o.BaseURL, "/")
	return &Client{http: hc, opts: o, log: logger.Named(log, "metaads")}
}

// edgeURL renders the first page URL of account/edge
func (c *Client) edgeURL(account, edge string, params url.Values) string {
	q := url.Values{}
	for k, v := range params {
		q[k] = v
	}
	if c.opts.PageLimit > 0 {
		q.Set("limit", strconv.Itoa(c.opts.PageLimit))
	}
	q.Set("access_token", c.opts.Token)
	return c.opts.BaseURL + "/" + c.opts.Version + "/" + url.PathEscape(account) + "/" + edge + "?" + q.Encode()
}

// Pages yields the data array of every page of account/edge, following
// paging.next until it is absent or empty. A failed page ends the sequence
// with its error.
func (c *Client) Pages(ctx context.Context, account, edge string, params url.Values) iter.Seq2[[]gjson.Result, error] {
	return func(yield func([]gjson.Result, error) bool) {
		next := c.edgeURL(account, edge, params)
		for page := 1; next != ""; page++ {
			req, err := http.NewRequestWithContext(ctx, http.MethodGet, next, nil)
			if err != nil {
				yield(nil, perr.Wrapf(err, perr.ErrorCodeSourceUnavailable, "%s page %d", edge, page))
				return
			}
			body, err := phttp.Do(c.http, req, "error.message")
			if err != nil {
				yield(nil, perr.WithOp(err, edge))
				return
			}
			data, err := phttp.Array(body, "data")
			if err != nil {
				yield(nil, perr.WithOp(err, edge))
				return
			}
			c.log.Debug().Str("edge", edge).Int("page", page).Int("rows", len(data)).Msg("page fetched")
			if !yield(data, nil) {
				return
			}
			next = body.Get("paging.next").String()
		}
	}
}

// Campaigns pages the account's campaigns into an id keyed lookup
func (c *Client) Campaigns(ctx context.Context, account string) (map[string]Campaign, error) {
	out := map[string]Campaign{}
	params := url.Values{"fields": {"id,name,status,daily_budget"}}
	for data, err := range c.Pages(ctx, account, "campaigns", params) {
		if err != nil {
			return nil, err
		}
		for _, v := range data {
			cmp, err := parseCampaign(v)
			if err != nil {
				return nil, err
			}
			out[cmp.ID] = cmp
		}
	}
	return out, nil
}

// Attribution pages the account's ad sets into a campaign id keyed lookup of
// attribution settings; the last ad set seen for a campaign wins
func (c *Client) Attribution(ctx context.Context, account string) (map[string]string, error) {
	out := map[string]string{}
	params := url.Values{"fields": {"id,campaign_id,attribution_setting"}}
	for data, err := range c.Pages(ctx, account, "adsets", params) {
		if err != nil {
			return nil, err
		}
		for _, v := range data {
			as := parseAdSet(v)
			if as.CampaignID == "" {
				continue
			}
			out[as.CampaignID] = as.Attribution
		}
	}
	return out, nil
}

// Insights streams campaign level insights for the closed period since..until
func (c *Client) Insights(ctx context.Context, account, since, until string) iter.Seq2[Insight, error] {
	params := url.Values{
		"fields":     {"campaign_id,spend,reach,impressions,clicks,ctr,cpc,cpm,purchase_roas,actions"},
		"level":      {"campaign"},
		"time_range": {`{"since":"` + since + `","until":"` + until + `"}`},
	}
	return func(yield func(Insight, error) bool) {
		for data, err := range c.Pages(ctx, account, "insights", params) {
			if err != nil {
				yield(Insight{}, err)
				return
			}
			for _, v := range data {
				in, err := parseInsight(v)
				if err != nil {
					yield(Insight{}, err)
					return
				}
				if !yield(in, nil) {
					return
				}
			}
		}
	}
}
