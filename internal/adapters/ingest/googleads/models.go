package googleads

import (
	perr "marketingetl/internal/platform/errors"

	"github.com/tidwall/gjson"
)

// Row is one googleAds:search result of the campaign query
//
// int64 and double metrics keep the API's textual form (REST renders int64 as
// JSON strings) and are empty when absent; money fields are in micros
type Row struct {
	CampaignID          string
	CampaignName        string
	Status              string
	BiddingStrategyType string
	CustomerID          string
	BudgetMicros        string
	Impressions         string
	Clicks              string
	CTR                 string
	AverageCPCMicros    string
	CostMicros          string
	Conversions         string
	ConversionsValue    string
	InteractionRate     string
}

// Account is one linked, non-manager client account
type Account struct {
	ID   string
	Name string
}

func text(v gjson.Result) string {
	switch v.Type {
	case gjson.String:
		return v.Str
	case gjson.Number:
		return v.Raw
	default:
		return ""
	}
}

func parseRow(v gjson.Result) (Row, error) {
	r := Row{
		CampaignID:          text(v.Get("campaign.id")),
		CampaignName:        text(v.Get("campaign.name")),
		Status:              text(v.Get("campaign.status")),
		BiddingStrategyType: text(v.Get("campaign.biddingStrategyType")),
		CustomerID:          text(v.Get("customer.id")),
		BudgetMicros:        text(v.Get("campaignBudget.amountMicros")),
		Impressions:         text(v.Get("metrics.impressions")),
		Clicks:              text(v.Get("metrics.clicks")),
		CTR:                 text(v.Get("metrics.ctr")),
		AverageCPCMicros:    text(v.Get("metrics.averageCpc")),
		CostMicros:          text(v.Get("metrics.costMicros")),
		Conversions:         text(v.Get("metrics.conversions")),
		ConversionsValue:    text(v.Get("metrics.conversionsValue")),
		InteractionRate:     text(v.Get("metrics.interactionRate")),
	}
	if r.CampaignID == "" {
		return Row{}, perr.WithField(perr.SourceSchemaf("result without campaign.id: %s", v.Raw), "campaign.id")
	}
	return r, nil
}

func parseAccount(v gjson.Result) (Account, error) {
	a := Account{
		ID:   text(v.Get("customerClient.id")),
		Name: text(v.Get("customerClient.descriptiveName")),
	}
	if a.ID == "" {
		return Account{}, perr.WithField(perr.SourceSchemaf("customer client without id: %s", v.Raw), "customerClient.id")
	}
	return a, nil
}
