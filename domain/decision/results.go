package decision

// Verdict is the bottom-line recommendation of the Net Value calculator
type Verdict string

const (
	VerdictTest     Verdict = "test_this"
	VerdictDontTest Verdict = "dont_test_this"
)

// EVPIResult is the expected value of perfect information: the ceiling
// price worth paying for certainty about the true lift.
type EVPIResult struct {
	Dollars               float64 `json:"dollars"`
	DefaultAction         Action  `json:"default_action"`
	TruncationSignificant bool    `json:"truncation_significant"`
}

// EVSIResult is the expected value of one specific finite test
type EVSIResult struct {
	Dollars               float64 `json:"dollars"`
	EVPIDollars           float64 `json:"evpi_dollars"`
	DefaultAction         Action  `json:"default_action"`
	OverturnProbability   float64 `json:"overturn_probability"` // P(test flips the default decision)
	TruncationSignificant bool    `json:"truncation_significant"`
	Method                string  `json:"method"` // "closed_form" or "monte_carlo"
	Samples               int     `json:"samples,omitempty"`
}

// NetValueResult is EVSI folded together with timing and direct costs
// through one coherent timeline simulation.
type NetValueResult struct {
	Dollars               float64 `json:"dollars"`
	Verdict               Verdict `json:"verdict"`
	GrossValueDollars     float64 `json:"gross_value_dollars"` // value delta before direct costs
	DirectCostDollars     float64 `json:"direct_cost_dollars"`
	DelayCostDollars      float64 `json:"delay_cost_dollars"`
	DefaultAction         Action  `json:"default_action"`
	OverturnProbability   float64 `json:"overturn_probability"`
	TruncationSignificant bool    `json:"truncation_significant"`
	Samples               int     `json:"samples"`
}
