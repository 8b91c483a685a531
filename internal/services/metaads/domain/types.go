// Package domain holds the Meta Ads fact row and the module's ports
package domain

import (
	"context"
	"time"

	"marketingetl/internal/core/fact"
	"marketingetl/internal/core/pipeline"

	"github.com/shopspring/decimal"
)

// Table is the default destination table
const Table = "meta_ads_campaigns_fact"

// Columns in row order
var Columns = []string{
	"campaign_id", "customer_id", "campaign_name", "status", "attribution_setting",
	"start_date", "end_date", "budget", "amount_spent", "reach", "impressions",
	"clicks", "ctr", "cpc", "cpm", "conversions", "purchase_roas", "revenue",
	"link_clicks", "cost_per_result",
}

// Key is the natural key of one campaign over one period
var Key = []string{"campaign_id", "start_date", "end_date"}

// Destination returns the fact table declaration for mode
func Destination(mode fact.WriteMode) fact.Destination {
	return fact.Destination{Table: Table, Columns: Columns, Key: Key, Mode: mode}
}

// CampaignFact is one campaign's performance over the requested period
type CampaignFact struct {
	CampaignID    string
	CustomerID    string
	CampaignName  string
	Status        string
	Attribution   string
	StartDate     time.Time
	EndDate       time.Time
	Budget        decimal.Decimal
	AmountSpent   decimal.Decimal
	Reach         int64
	Impressions   int64
	Clicks        int64
	CTR           decimal.Decimal
	CPC           decimal.Decimal
	CPM           decimal.Decimal
	Conversions   int64
	PurchaseROAS  decimal.Decimal
	Revenue       decimal.Decimal
	LinkClicks    int64
	CostPerResult decimal.Decimal
}

// Values implements fact.Row
func (f CampaignFact) Values() []any {
	return []any{
		f.CampaignID, f.CustomerID, f.CampaignName, f.Status, f.Attribution,
		f.StartDate, f.EndDate, f.Budget, f.AmountSpent, f.Reach, f.Impressions,
		f.Clicks, f.CTR, f.CPC, f.CPM, f.Conversions, f.PurchaseROAS, f.Revenue,
		f.LinkClicks, f.CostPerResult,
	}
}

// RunnerPort is the external port of the metaads module
type RunnerPort interface {
	Run(ctx context.Context, scope pipeline.Scope) pipeline.Result
}

// Ports are dependencies injected into the metaads module
type Ports struct {
	Loader pipeline.Loader // required
	Ledger pipeline.Ledger // optional
}
