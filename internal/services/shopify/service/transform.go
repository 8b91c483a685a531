package service

import (
	"fmt"
	"strings"
	"time"

	"marketingetl/internal/adapters/ingest/shopifycsv"
	"marketingetl/internal/core/fact"
	"marketingetl/internal/core/metrics"
	"marketingetl/internal/core/normalize"
	"marketingetl/internal/core/pipeline"
	perr "marketingetl/internal/platform/errors"
	"marketingetl/internal/services/shopify/domain"

	"github.com/shopspring/decimal"
)

// SalesFact maps a sales line; amounts keep their sign
func SalesFact(s shopifycsv.Sale) (domain.SalesFact, error) {
	p := parser{line: s.Line}
	f := domain.SalesFact{
		Day:              p.day("Day", s.Day),
		ShippingRegion:   normalize.Or(s.ShippingRegion, fact.Missing("shipping region")),
		ShippingCity:     normalize.Or(s.ShippingCity, fact.Missing("shipping city")),
		UTMSource:        normalize.Or(s.UTMSource, fact.Missing("order utm source")),
		UTMMedium:        normalize.Or(s.UTMMedium, fact.Missing("order utm medium")),
		UTMCampaign:      normalize.Or(s.UTMCampaign, fact.Missing("order utm campaign")),
		ReferringChannel: normalize.Or(s.ReferringChannel, fact.Missing("referring channel")),
		TotalSales:       p.amount("Total sales", s.TotalSales),
		GrossSales:       p.amount("Gross sales", s.GrossSales),
		Discounts:        p.amount("Discounts", s.Discounts),
		ShippingCharges:  p.amount("Shipping charges", s.ShippingCharges),
		Taxes:            p.amount("Taxes", s.Taxes),
		NetSales:         p.amount("Net sales", s.NetSales),
	}
	return f, p.err
}

// LocationFact maps a sessions by location line; the period is part of the
// row's key so exports of different periods never overwrite each other
func LocationFact(s shopifycsv.LocationSessions) (domain.LocationFact, error) {
	p := parser{line: s.Line}
	f := domain.LocationFact{
		Country:   normalize.Or(s.Country, fact.Missing("session country")),
		Region:    normalize.Or(s.Region, fact.Missing("session region")),
		City:      normalize.Or(s.City, fact.Missing("session city")),
		StartDate: s.Period.Start,
		EndDate:   s.Period.End,
		Visitors:  p.count("Online store visitors", s.Visitors),
		Sessions:  p.count("Sessions", s.Sessions),
	}
	return f, p.err
}

// PageFact maps a landing page line; "3.5%" becomes 0.035
func PageFact(s shopifycsv.PageSessions) (domain.PageFact, error) {
	p := parser{line: s.Line}
	f := domain.PageFact{
		Day:            p.day("Day", s.Day),
		LandingPage:    normalize.Or(s.LandingPage, fact.Missing("landing page path")),
		Sessions:       p.count("Sessions", s.Sessions),
		ConversionRate: p.percent("Conversion rate", s.ConversionRate),
	}
	return f, p.err
}

// rows adapts a single-fact mapper to pipeline.Transformer
func rows[R any, F fact.Row](fn func(R) (F, error)) pipeline.TransformFunc[R] {
	return func(rec R) ([]fact.Row, error) {
		f, err := fn(rec)
		if err != nil {
			return nil, err
		}
		return []fact.Row{f}, nil
	}
}

// parser keeps the first parse failure of a line
type parser struct {
	line int
	err  error
}

func (p *parser) keep(col string, err error) {
	if err != nil && p.err == nil {
		p.err = perr.WithOp(perr.WithField(err, col), fmt.Sprintf("line %d", p.line))
	}
}

func (p *parser) amount(col, s string) decimal.Decimal {
	d, err := metrics.ParseAmount(s)
	p.keep(col, err)
	return d
}

func (p *parser) percent(col, s string) decimal.Decimal {
	d, err := metrics.ParsePercent(s)
	p.keep(col, err)
	return metrics.NonNegative(d)
}

func (p *parser) count(col, s string) int64 {
	n, err := metrics.ParseCount(s)
	p.keep(col, err)
	return max(n, 0)
}

func (p *parser) day(col, s string) time.Time {
	t, err := time.Parse(pipeline.DateLayout, strings.TrimSpace(s))
	if err != nil {
		p.keep(col, perr.Wrapf(err, perr.ErrorCodeValidation, "invalid day %q, expected YYYY-MM-DD", s))
	}
	return t
}
