package metaads

import (
	"context"
	"iter"

	"marketingetl/internal/core/pipeline"
	"marketingetl/internal/platform/logger"
)

// Record is one insights row joined with its campaign and attribution
//
// Campaign is the zero value and HasCampaign false when the campaigns edge
// did not list the insight's campaign; Attribution is empty when no ad set
// named it
type Record struct {
	Account     string
	Period      pipeline.Period
	Insight     Insight
	Campaign    Campaign
	HasCampaign bool
	Attribution string
}

// Extractor implements pipeline.Extractor[Record]
//
// campaigns and ad sets are paged fully into memory before insights stream;
// both lookups grow with the account's campaign count
type Extractor struct {
	c   *Client
	log logger.Logger
}

// NewExtractor wraps a client
func NewExtractor(log logger.Logger, c *Client) *Extractor {
	if c == nil {
		panic("metaads.NewExtractor requires a client")
	}
	return &Extractor{c: c, log: logger.Named(log, "metaads")}
}

// Extract implements pipeline.Extractor
func (x *Extractor) Extract(ctx context.Context, scope pipeline.Scope) iter.Seq2[Record, error] {
	return func(yield func(Record, error) bool) {
		camps, err := x.c.Campaigns(ctx, scope.Account)
		if err != nil {
			yield(Record{}, err)
			return
		}
		attr, err := x.c.Attribution(ctx, scope.Account)
		if err != nil {
			yield(Record{}, err)
			return
		}
		x.log.Info().Int("campaigns", len(camps)).Int("attributions", len(attr)).Msg("lookups loaded")

		since, until := scope.Period.StartDate(), scope.Period.EndDate()
		for in, err := range x.c.Insights(ctx, scope.Account, since, until) {
			if err != nil {
				yield(Record{}, err)
				return
			}
			cmp, ok := camps[in.CampaignID]
			rec := Record{
				Account:     scope.Account,
				Period:      scope.Period,
				Insight:     in,
				Campaign:    cmp,
				HasCampaign: ok,
				Attribution: attr[in.CampaignID],
			}
			if !yield(rec, nil) {
				return
			}
		}
	}
}

var _ pipeline.Extractor[Record] = (*Extractor)(nil)
