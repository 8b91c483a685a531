package service

import (
	"marketingetl/internal/adapters/ingest/googleads"
	"marketingetl/internal/core/fact"
	"marketingetl/internal/core/metrics"
	"marketingetl/internal/core/normalize"
	perr "marketingetl/internal/platform/errors"
	pstrings "marketingetl/internal/platform/strings"
	"marketingetl/internal/services/googleads/domain"

	"github.com/shopspring/decimal"
)

// Transform implements pipeline.Transformer over googleads records
func Transform(rec googleads.Record) ([]fact.Row, error) {
	f, err := ToFact(rec)
	if err != nil {
		return nil, perr.WithOp(err, "campaign "+rec.CampaignID)
	}
	return []fact.Row{f}, nil
}

// ToFact converts micros to major units and derives roas and cost per
// result; only unparseable numbers fail
func ToFact(rec googleads.Record) (domain.CampaignFact, error) {
	var p parser
	f := domain.CampaignFact{
		CampaignID:      rec.CampaignID,
		CampaignName:    normalize.Or(rec.CampaignName, fact.MissingName),
		Status:          normalize.Or(rec.Status, fact.MissingStatus),
		StartDate:       rec.Period.Start,
		EndDate:         rec.Period.End,
		CustomerID:      pstrings.Digits(rec.CustomerID),
		BidStrategy:     normalize.Or(rec.BiddingStrategyType, fact.Unknown),
		Budget:          p.micros("campaign_budget.amount_micros", rec.BudgetMicros),
		Impressions:     p.count("metrics.impressions", rec.Impressions),
		Clicks:          p.count("metrics.clicks", rec.Clicks),
		CTR:             p.amount("metrics.ctr", rec.CTR),
		AvgCost:         p.micros("metrics.average_cpc", rec.AverageCPCMicros),
		Cost:            p.micros("metrics.cost_micros", rec.CostMicros),
		Conversions:     p.amount("metrics.conversions", rec.Conversions),
		ConvValue:       p.amount("metrics.conversions_value", rec.ConversionsValue),
		InteractionRate: p.amount("metrics.interaction_rate", rec.InteractionRate),
	}
	if f.CustomerID == "" {
		f.CustomerID = fact.Missing("customer_id")
	}
	f.ROAS = metrics.ROAS(f.ConvValue, f.Cost)
	f.CostPerResult = metrics.CostPerResult(f.Cost, f.Conversions)
	if p.err != nil {
		return domain.CampaignFact{}, p.err
	}
	return f, nil
}

// parser keeps the first parse failure so a row is checked in one pass
type parser struct{ err error }

func (p *parser) keep(field string, err error) {
	if err != nil && p.err == nil {
		p.err = perr.WithField(err, field)
	}
}

func (p *parser) amount(field, s string) decimal.Decimal {
	d, err := metrics.ParseAmount(s)
	p.keep(field, err)
	return metrics.NonNegative(d)
}

func (p *parser) micros(field, s string) decimal.Decimal {
	d, err := metrics.ParseMicros(s)
	p.keep(field, err)
	return metrics.NonNegative(d)
}

func (p *parser) count(field, s string) int64 {
	n, err := metrics.ParseCount(s)
	p.keep(field, err)
	return max(n, 0)
}
