// Package shopifycsv reads Shopify analytics CSV exports
package shopifycsv

import "marketingetl/internal/core/pipeline"

// Sale is one sales summary line; amounts keep their export text
type Sale struct {
	Line             int
	Day              string
	ShippingRegion   string
	ShippingCity     string
	UTMSource        string
	UTMMedium        string
	UTMCampaign      string
	ReferringChannel string
	TotalSales       string
	GrossSales       string
	Discounts        string
	ShippingCharges  string
	Taxes            string
	NetSales         string
}

// LocationSessions is one sessions by location line; the export has no
// date column, so Period is the run's reporting period
type LocationSessions struct {
	Line     int
	Period   pipeline.Period
	Country  string
	Region   string
	City     string
	Visitors string
	Sessions string
}

// PageSessions is one sessions by landing page and day line
type PageSessions struct {
	Line           int
	Day            string
	LandingPage    string
	Sessions       string
	ConversionRate string
}

// Export names a CSV export, its exact header set and how a line decodes
type Export[R any] struct {
	Name        string
	DefaultFile string
	Columns     []string
	decode      func(line int, get func(col string) string) R
	// inPeriod stamps the run period on exports without a date column
	inPeriod func(rec R, p pipeline.Period) R
}

// Sales is the sales summary export
var Sales = Export[Sale]{
	Name:        "sales",
	DefaultFile: "feb_sales_summary.csv",
	Columns: []string{
		"Day", "Shipping region", "Shipping city", "Order UTM source", "Order UTM medium",
		"Order UTM campaign", "Referring channel", "Total sales", "Gross sales",
		"Discounts", "Shipping charges", "Taxes", "Net sales",
	},
	decode: func(line int, get func(string) string) Sale {
		return Sale{
			Line:             line,
			Day:              get("Day"),
			ShippingRegion:   get("Shipping region"),
			ShippingCity:     get("Shipping city"),
			UTMSource:        get("Order UTM source"),
			UTMMedium:        get("Order UTM medium"),
			UTMCampaign:      get("Order UTM campaign"),
			ReferringChannel: get("Referring channel"),
			TotalSales:       get("Total sales"),
			GrossSales:       get("Gross sales"),
			Discounts:        get("Discounts"),
			ShippingCharges:  get("Shipping charges"),
			Taxes:            get("Taxes"),
			NetSales:         get("Net sales"),
		}
	},
}

// SessionsByLocation is the sessions by location export
var SessionsByLocation = Export[LocationSessions]{
	Name:        "sessions_by_location",
	DefaultFile: "feb_sessions_by_location.csv",
	Columns:     []string{"Session country", "Session region", "Session city", "Online store visitors", "Sessions"},
	decode: func(line int, get func(string) string) LocationSessions {
		return LocationSessions{
			Line:     line,
			Country:  get("Session country"),
			Region:   get("Session region"),
			City:     get("Session city"),
			Visitors: get("Online store visitors"),
			Sessions: get("Sessions"),
		}
	},
	inPeriod: func(rec LocationSessions, p pipeline.Period) LocationSessions {
		rec.Period = p
		return rec
	},
}

// PageSessionsByDay is the sessions by landing page export
var PageSessionsByDay = Export[PageSessions]{
	Name:        "page_sessions",
	DefaultFile: "feb_sessions_by_day.csv",
	Columns:     []string{"Day", "Landing page path", "Sessions", "Conversion rate"},
	decode: func(line int, get func(string) string) PageSessions {
		return PageSessions{
			Line:           line,
			Day:            get("Day"),
			LandingPage:    get("Landing page path"),
			Sessions:       get("Sessions"),
			ConversionRate: get("Conversion rate"),
		}
	},
}
