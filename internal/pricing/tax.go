package pricing

// Default tax percentages applied when the operator leaves them unset.
const (
	DefaultGSTPercent = 5.0
	DefaultTCSPercent = 5.0
)

// TaxParams carries the operator-entered profit and tax configuration. Profit
// is an absolute INR amount, not a percentage.
type TaxParams struct {
	Profit     float64   `json:"profit"`
	GSTPercent float64   `json:"gst_percent"`
	TCSPercent float64   `json:"tcs_percent"`
	Scope      TripScope `json:"scope"`
}

// TaxComputation stores every intermediate of the tax pipeline so the grand
// total can always be reconstructed as AdminSubtotal + GSTAmount + TCSAmount.
type TaxComputation struct {
	Subtotal      float64 `json:"subtotal"`
	Profit        float64 `json:"profit"`
	AdminSubtotal float64 `json:"admin_subtotal"`
	GSTPercent    float64 `json:"gst_percent"`
	GSTAmount     float64 `json:"gst_amount"`
	TCSPercent    float64 `json:"tcs_percent"`
	TCSAmount     float64 `json:"tcs_amount"`
	GrandTotal    float64 `json:"grand_total"`
}

// ComputeTax runs the strictly ordered profit/GST/TCS pipeline. TCS compounds
// on the GST-inclusive amount, not on the subtotal alone; that ordering is
// load-bearing for existing priced trips and must not be reordered. Domestic
// trips pay no TCS regardless of the configured percentage.
func ComputeTax(subtotal float64, params TaxParams) TaxComputation {
	comp := TaxComputation{
		Subtotal:   subtotal,
		Profit:     params.Profit,
		GSTPercent: params.GSTPercent,
		TCSPercent: params.TCSPercent,
	}
	comp.AdminSubtotal = subtotal + params.Profit
	comp.GSTAmount = comp.AdminSubtotal * params.GSTPercent / 100
	if params.Scope == ScopeInternational {
		comp.TCSAmount = (comp.AdminSubtotal + comp.GSTAmount) * params.TCSPercent / 100
	}
	comp.GrandTotal = comp.AdminSubtotal + comp.GSTAmount + comp.TCSAmount
	return comp
}
