package service

import (
	"slices"
	"strings"

	"marketingetl/internal/adapters/ingest/metaads"
	"marketingetl/internal/core/fact"
	"marketingetl/internal/core/metrics"
	"marketingetl/internal/core/normalize"
	perr "marketingetl/internal/platform/errors"
	"marketingetl/internal/platform/logger"
	"marketingetl/internal/services/metaads/domain"

	"github.com/shopspring/decimal"
)

// action types counted, first match wins
var (
	ConversionActions = []string{"purchase", "offsite_conversion.fb_pixel_purchase"}
	LinkClickActions  = []string{"link_click", "onsite_link_click"}
)

// Transformer maps joined Meta records to campaign facts
type Transformer struct {
	log logger.Logger
}

// NewTransformer returns a Transformer logging per campaign at debug level
func NewTransformer(log logger.Logger) *Transformer {
	return &Transformer{log: logger.Named(log, "transform")}
}

// Transform implements pipeline.Transformer
func (t *Transformer) Transform(rec metaads.Record) ([]fact.Row, error) {
	f, err := ToFact(rec)
	if err != nil {
		return nil, perr.WithOp(err, "campaign "+rec.Insight.CampaignID)
	}
	t.log.Debug().
		Str("campaign_id", f.CampaignID).
		Stringer("spend", f.AmountSpent).
		Stringer("roas", f.PurchaseROAS).
		Stringer("revenue", f.Revenue).
		Msg("campaign")
	return []fact.Row{f}, nil
}

// ToFact derives one CampaignFact; only unparseable numbers fail
func ToFact(rec metaads.Record) (domain.CampaignFact, error) {
	in := rec.Insight
	var p parser

	spend := p.amount("spend", in.Spend)
	roas := decimal.Zero
	if len(in.PurchaseROAS) > 0 {
		roas = p.amount("purchase_roas", in.PurchaseROAS[0].Value)
	}
	conversions := metrics.WholeCount(p.amount("actions", firstAction(in.Actions, ConversionActions)))
	linkClicks := metrics.WholeCount(p.amount("actions", firstAction(in.Actions, LinkClickActions)))

	budget := decimal.Zero
	if rec.HasCampaign {
		budget = metrics.FromMinor(p.amount("daily_budget", rec.Campaign.DailyBudget))
	}

	f := domain.CampaignFact{
		CampaignID:    in.CampaignID,
		CustomerID:    strings.TrimPrefix(rec.Account, "act_"),
		CampaignName:  normalize.Or(rec.Campaign.Name, fact.MissingName),
		Status:        normalize.Or(rec.Campaign.Status, fact.MissingStatus),
		Attribution:   normalize.Or(rec.Attribution, fact.Unknown),
		StartDate:     rec.Period.Start,
		EndDate:       rec.Period.End,
		Budget:        metrics.NonNegative(budget),
		AmountSpent:   metrics.NonNegative(spend),
		Reach:         p.count("reach", in.Reach),
		Impressions:   p.count("impressions", in.Impressions),
		Clicks:        p.count("clicks", in.Clicks),
		CTR:           metrics.NonNegative(p.amount("ctr", in.CTR)),
		CPC:           metrics.NonNegative(p.amount("cpc", in.CPC)),
		CPM:           metrics.NonNegative(p.amount("cpm", in.CPM)),
		Conversions:   conversions,
		PurchaseROAS:  metrics.NonNegative(roas),
		LinkClicks:    linkClicks,
	}
	f.Revenue = metrics.Revenue(f.AmountSpent, f.PurchaseROAS)
	f.CostPerResult = metrics.CostPerResult(f.AmountSpent, decimal.NewFromInt(conversions))
	if p.err != nil {
		return domain.CampaignFact{}, p.err
	}
	return f, nil
}

// firstAction returns the value of the first action whose type is accepted
func firstAction(actions []metaads.Action, accepted []string) string {
	for _, a := range actions {
		if slices.Contains(accepted, a.Type) {
			return a.Value
		}
	}
	return ""
}

// parser keeps the first parse failure so a row is checked in one pass
type parser struct{ err error }

func (p *parser) amount(field, s string) decimal.Decimal {
	d, err := metrics.ParseAmount(s)
	if err != nil && p.err == nil {
		p.err = perr.WithField(err, field)
	}
	return d
}

func (p *parser) count(field, s string) int64 {
	n, err := metrics.ParseCount(s)
	if err != nil && p.err == nil {
		p.err = perr.WithField(err, field)
	}
	return max(n, 0)
}
