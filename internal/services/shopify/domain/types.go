// Package domain holds the Shopify fact rows and the module's ports
package domain

import (
	"context"
	"time"

	"marketingetl/internal/core/fact"
	"marketingetl/internal/core/pipeline"

	"github.com/shopspring/decimal"
)

// Destination tables
const (
	SalesTable     = "sales_fact"
	LocationsTable = "sessions_by_location_fact"
	PagesTable     = "page_sessions_fact"
)

// SalesDestination declares sales_fact for mode
func SalesDestination(mode fact.WriteMode) fact.Destination {
	return fact.Destination{
		Table: SalesTable,
		Columns: []string{
			"day", "shipping_region", "shipping_city", "order_utm_source", "order_utm_medium",
			"order_utm_campaign", "referring_channel", "total_sales", "gross_sales",
			"discounts", "shipping_charges", "taxes", "net_sales",
		},
		Key: []string{
			"day", "shipping_region", "shipping_city", "order_utm_source",
			"order_utm_medium", "order_utm_campaign", "referring_channel",
		},
		Mode: mode,
	}
}

// LocationsDestination declares sessions_by_location_fact for mode
func LocationsDestination(mode fact.WriteMode) fact.Destination {
	return fact.Destination{
		Table:   LocationsTable,
		Columns: []string{
			"session_country", "session_region", "session_city", "start_date", "end_date",
			"online_store_visitors", "sessions",
		},
		Key:  []string{"session_country", "session_region", "session_city", "start_date", "end_date"},
		Mode: mode,
	}
}

// PagesDestination declares page_sessions_fact for mode
func PagesDestination(mode fact.WriteMode) fact.Destination {
	return fact.Destination{
		Table:   PagesTable,
		Columns: []string{"day", "landing_page_path", "sessions", "conversion_rate"},
		Key:     []string{"day", "landing_page_path"},
		Mode:    mode,
	}
}

// SalesFact is one day of sales for a region, city and attribution
// Amounts are signed, returns and discounts arrive negative
type SalesFact struct {
	Day              time.Time
	ShippingRegion   string
	ShippingCity     string
	UTMSource        string
	UTMMedium        string
	UTMCampaign      string
	ReferringChannel string
	TotalSales       decimal.Decimal
	GrossSales       decimal.Decimal
	Discounts        decimal.Decimal
	ShippingCharges  decimal.Decimal
	Taxes            decimal.Decimal
	NetSales         decimal.Decimal
}

// Values implements fact.Row
func (f SalesFact) Values() []any {
	return []any{
		f.Day, f.ShippingRegion, f.ShippingCity, f.UTMSource, f.UTMMedium,
		f.UTMCampaign, f.ReferringChannel, f.TotalSales, f.GrossSales,
		f.Discounts, f.ShippingCharges, f.Taxes, f.NetSales,
	}
}

// LocationFact is the session count of one location over a reporting period
type LocationFact struct {
	Country   string
	Region    string
	City      string
	StartDate time.Time
	EndDate   time.Time
	Visitors  int64
	Sessions  int64
}

// Values implements fact.Row
func (f LocationFact) Values() []any {
	return []any{f.Country, f.Region, f.City, f.StartDate, f.EndDate, f.Visitors, f.Sessions}
}

// PageFact is one landing page's sessions on one day; ConversionRate is a fraction
type PageFact struct {
	Day            time.Time
	LandingPage    string
	Sessions       int64
	ConversionRate decimal.Decimal
}

// Values implements fact.Row
func (f PageFact) Values() []any {
	return []any{f.Day, f.LandingPage, f.Sessions, f.ConversionRate}
}

// RunnerPort runs every export; each result stands alone
type RunnerPort interface {
	RunAll(ctx context.Context, scope pipeline.Scope) []pipeline.Result
}

// Ports are dependencies injected into the shopify module
type Ports struct {
	Loader pipeline.Loader // required
	Ledger pipeline.Ledger // optional
}
