// Package domain holds the Google Ads fact row and the module's ports
package domain

import (
	"context"
	"time"

	"marketingetl/internal/adapters/ingest/googleads"
	"marketingetl/internal/core/fact"
	"marketingetl/internal/core/pipeline"

	"github.com/shopspring/decimal"
)

// Table is the default destination table
const Table = "google_ads_campaigns_fact"

// Columns in row order
var Columns = []string{
	"campaign_id", "campaign_name", "status", "start_date", "end_date", "customer_id",
	"bid_strategy_type", "budget", "impressions", "clicks", "ctr", "avg_cost", "cost",
	"conversions", "conv_value", "interaction_rate", "roas", "cost_per_result",
}

// Key is the natural key of one campaign of one customer over one period
var Key = []string{"campaign_id", "customer_id", "start_date", "end_date"}

// Destination returns the fact table declaration for mode
func Destination(mode fact.WriteMode) fact.Destination {
	return fact.Destination{Table: Table, Columns: Columns, Key: Key, Mode: mode}
}

// CampaignFact is one enabled campaign's performance over the requested period
type CampaignFact struct {
	CampaignID      string
	CampaignName    string
	Status          string
	StartDate       time.Time
	EndDate         time.Time
	CustomerID      string
	BidStrategy     string
	Budget          decimal.Decimal
	Impressions     int64
	Clicks          int64
	CTR             decimal.Decimal
	AvgCost         decimal.Decimal
	Cost            decimal.Decimal
	Conversions     decimal.Decimal
	ConvValue       decimal.Decimal
	InteractionRate decimal.Decimal
	ROAS            decimal.Decimal
	CostPerResult   decimal.Decimal
}

// Values implements fact.Row
func (f CampaignFact) Values() []any {
	return []any{
		f.CampaignID, f.CampaignName, f.Status, f.StartDate, f.EndDate, f.CustomerID,
		f.BidStrategy, f.Budget, f.Impressions, f.Clicks, f.CTR, f.AvgCost, f.Cost,
		f.Conversions, f.ConvValue, f.InteractionRate, f.ROAS, f.CostPerResult,
	}
}

// RunnerPort is the external port of the googleads module
type RunnerPort interface {
	Run(ctx context.Context, scope pipeline.Scope) pipeline.Result
}

// ClientsPort lists the client accounts linked under a manager account
type ClientsPort interface {
	ListClients(ctx context.Context, manager string) ([]googleads.Account, error)
}

// Ports are dependencies injected into the googleads module
type Ports struct {
	Loader pipeline.Loader // required
	Ledger pipeline.Ledger // optional
}
