package domain

// Line is the chargeback amount owed by one subscription for a period.
type Line struct {
	ConsumerID   string  `json:"consumer_id"`
	ApiID        string  `json:"api_id"`
	PlanID       string  `json:"plan_id"`
	Period       string  `json:"period"`
	Calls        int64   `json:"calls"`
	OverageCalls int64   `json:"overage_calls"`
	Amount       float64 `json:"amount"`
}

// Report is the full chargeback output for a period, one line per
// active subscription.
type Report struct {
	Period string `json:"period"`
	Items  []Line `json:"items"`
}
