package models

// Recognized Asset field keys. A scraped row populates whichever of these the
// markup yields; absence of a key means the field was not present on the page.
const (
	FieldName          = "name"
	FieldDescription   = "description"
	FieldDirection     = "direction"
	FieldInvestedPct   = "invested_percentage"
	FieldProfitLossPct = "profit_loss_percentage"
	FieldProfitLoss    = "profit_loss_status"
	FieldValuePct      = "value_percentage"
	FieldSellPrice     = "sell_price"
	FieldBuyPrice      = "buy_price"
	FieldAvatarURL     = "avatar_url"
	FieldAltText       = "alt_text"
	FieldExtractedFrom = "extracted_from"
)

// Profit/loss sign classifications derived from the page's marker classes.
const (
	ProfitLossPositive = "positive"
	ProfitLossNegative = "negative"
)

// Asset is one extracted portfolio row. Fields are kept as opaque strings
// exactly as rendered by the page; no field except name is guaranteed present.
type Asset map[string]string

// Name returns the asset name, or "" if the row had none.
func (a Asset) Name() string { return a[FieldName] }

// Portfolio is the normalized result of one extraction. It is constructed
// fresh per call and never mutated afterwards.
type Portfolio struct {
	User              string  `json:"user,omitempty"`
	LastUpdated       string  `json:"last_updated,omitempty"`
	TotalAssets       int     `json:"total_assets"`
	Assets            []Asset `json:"assets"`
	BalancePercentage string  `json:"balance_percentage,omitempty"`
	AccessRestricted  bool    `json:"access_restricted,omitempty"`
	Message           string  `json:"message,omitempty"`
}

// FieldSet returns the union of asset keys present in the portfolio, used by
// the table and CSV formatters to decide which columns to render.
func (p *Portfolio) FieldSet() map[string]struct{} {
	keys := make(map[string]struct{})
	for _, a := range p.Assets {
		for k := range a {
			keys[k] = struct{}{}
		}
	}
	return keys
}
