package googleads

import (
	"context"
	"iter"

	"marketingetl/internal/core/pipeline"
	"marketingetl/internal/platform/logger"
)

// Record is one campaign row together with the period it was queried for
type Record struct {
	Row
	Period pipeline.Period
}

// Extractor implements pipeline.Extractor[Record]; the scope account is the
// client customer id
type Extractor struct {
	c   *Client
	log logger.Logger
}

// NewExtractor wraps a client
func NewExtractor(log logger.Logger, c *Client) *Extractor {
	if c == nil {
		panic("googleads.NewExtractor requires a client")
	}
	return &Extractor{c: c, log: logger.Named(log, "googleads")}
}

// Extract implements pipeline.Extractor
func (x *Extractor) Extract(ctx context.Context, scope pipeline.Scope) iter.Seq2[Record, error] {
	return func(yield func(Record, error) bool) {
		n := 0
		for r, err := range x.c.Campaigns(ctx, scope.Account, scope.Period.StartDate(), scope.Period.EndDate()) {
			if err != nil {
				yield(Record{}, err)
				return
			}
			n++
			if !yield(Record{Row: r, Period: scope.Period}, nil) {
				return
			}
		}
		x.log.Info().Int("rows", n).Str("period", scope.Period.String()).Msg("rows fetched")
	}
}

var _ pipeline.Extractor[Record] = (*Extractor)(nil)
