package metaads

import (
	perr "marketingetl/internal/platform/errors"

	"github.com/tidwall/gjson"
)

// Campaign is one campaigns edge entry; DailyBudget is in minor units
type Campaign struct {
	ID          string
	Name        string
	Status      string
	DailyBudget string
}

// AdSet is one adsets edge entry
type AdSet struct {
	ID          string
	CampaignID  string
	Attribution string
}

// Action is one {action_type, value} pair from actions or purchase_roas
type Action struct {
	Type  string
	Value string
}

// Insight is one campaign level insights row; numeric fields keep the API's
// textual form and are empty when absent
type Insight struct {
	CampaignID   string
	Spend        string
	Reach        string
	Impressions  string
	Clicks       string
	CTR          string
	CPC          string
	CPM          string
	PurchaseROAS []Action
	Actions      []Action
}

// text returns the literal text of a string or number value, empty otherwise
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

func parseCampaign(v gjson.Result) (Campaign, error) {
	c := Campaign{
		ID:          text(v.Get("id")),
		Name:        text(v.Get("name")),
		Status:      text(v.Get("status")),
		DailyBudget: text(v.Get("daily_budget")),
	}
	if c.ID == "" {
		return Campaign{}, perr.WithField(perr.SourceSchemaf("campaign without id: %s", v.Raw), "id")
	}
	return c, nil
}

func parseAdSet(v gjson.Result) AdSet {
	return AdSet{
		ID:          text(v.Get("id")),
		CampaignID:  text(v.Get("campaign_id")),
		Attribution: text(v.Get("attribution_setting")),
	}
}

func parseActions(v gjson.Result) []Action {
	if !v.IsArray() {
		return nil
	}
	arr := v.Array()
	out := make([]Action, 0, len(arr))
	for _, a := range arr {
		out = append(out, Action{Type: text(a.Get("action_type")), Value: text(a.Get("value"))})
	}
	return out
}

func parseInsight(v gjson.Result) (Insight, error) {
	in := Insight{
		CampaignID:   text(v.Get("campaign_id")),
		Spend:        text(v.Get("spend")),
		Reach:        text(v.Get("reach")),
		Impressions:  text(v.Get("impressions")),
		Clicks:       text(v.Get("clicks")),
		CTR:          text(v.Get("ctr")),
		CPC:          text(v.Get("cpc")),
		CPM:          text(v.Get("cpm")),
		PurchaseROAS: parseActions(v.Get("purchase_roas")),
		Actions:      parseActions(v.Get("actions")),
	}
	if in.CampaignID == "" {
		return Insight{}, perr.WithField(perr.SourceSchemaf("insight without campaign_id: %s", v.Raw), "campaign_id")
	}
	return in, nil
}
