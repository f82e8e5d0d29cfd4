package decision

import (
	"math"

	"testworth/domain/core"
)

// BusinessInputs carry the monetary weight of lift errors.
// K = CR0 * AnnualTraffic * ValuePerConversion is the dollar value of
// one unit of relative lift sustained for a year.
type BusinessInputs struct {
	BaselineRate       float64 `json:"baseline_rate"`        // CR0, in (0,1)
	AnnualTraffic      float64 `json:"annual_traffic"`       // visitors per year
	ValuePerConversion float64 `json:"value_per_conversion"` // dollars
}

// Validate fails fast on out-of-domain business inputs
func (b BusinessInputs) Validate() error {
	if !(b.BaselineRate > 0 && b.BaselineRate < 1) || !isFinite(b.BaselineRate) {
		return core.NewFieldError(core.ErrInvalidBusiness, "baseline_rate", b.BaselineRate)
	}
	if b.AnnualTraffic <= 0 || !isFinite(b.AnnualTraffic) {
		return core.NewFieldError(core.ErrInvalidBusiness, "annual_traffic", b.AnnualTraffic)
	}
	if b.ValuePerConversion <= 0 || !isFinite(b.ValuePerConversion) {
		return core.NewFieldError(core.ErrInvalidBusiness, "value_per_conversion", b.ValuePerConversion)
	}
	return nil
}

// LiftValue returns K, the dollars at stake per unit of lift per year
func (b BusinessInputs) LiftValue() float64 {
	return b.BaselineRate * b.AnnualTraffic * b.ValuePerConversion
}

// TestDesign describes one concrete experiment to be valued.
// It feeds EVSI and Net Value only; EVPI never sees it.
type TestDesign struct {
	DurationDays        float64 `json:"duration_days"`
	DailyTraffic        float64 `json:"daily_traffic"`
	TreatmentFraction   float64 `json:"treatment_fraction"`   // share of eligible traffic in treatment
	EligibilityFraction float64 `json:"eligibility_fraction"` // share of traffic entering the test
	ConversionLagDays   float64 `json:"conversion_lag_days"`
	DecisionLagDays     float64 `json:"decision_lag_days"`
}

// Validate fails fast on zero or negative traffic and duration
func (d TestDesign) Validate() error {
	if d.DurationDays <= 0 || !isFinite(d.DurationDays) {
		return core.NewFieldError(core.ErrInvalidDesign, "duration_days", d.DurationDays)
	}
	if d.DailyTraffic <= 0 || !isFinite(d.DailyTraffic) {
		return core.NewFieldError(core.ErrInvalidDesign, "daily_traffic", d.DailyTraffic)
	}
	if !(d.TreatmentFraction > 0 && d.TreatmentFraction < 1) || !isFinite(d.TreatmentFraction) {
		return core.NewFieldError(core.ErrInvalidDesign, "treatment_fraction", d.TreatmentFraction)
	}
	if !(d.EligibilityFraction > 0 && d.EligibilityFraction <= 1) || !isFinite(d.EligibilityFraction) {
		return core.NewFieldError(core.ErrInvalidDesign, "eligibility_fraction", d.EligibilityFraction)
	}
	if d.ConversionLagDays < 0 || !isFinite(d.ConversionLagDays) {
		return core.NewFieldError(core.ErrInvalidDesign, "conversion_lag_days", d.ConversionLagDays)
	}
	if d.DecisionLagDays < 0 || !isFinite(d.DecisionLagDays) {
		return core.NewFieldError(core.ErrInvalidDesign, "decision_lag_days", d.DecisionLagDays)
	}
	return nil
}

// LatencyDays is the window between test end and the decision taking effect
func (d TestDesign) LatencyDays() float64 {
	return d.ConversionLagDays + d.DecisionLagDays
}

// CostInputs are the direct costs of running the test, Net Value only
type CostInputs struct {
	FixedCost       float64 `json:"fixed_cost"`
	LaborHours      float64 `json:"labor_hours"`
	LaborHourlyRate float64 `json:"labor_hourly_rate"`
	DailyDelayCost  float64 `json:"daily_delay_cost"`
}

// Validate rejects negative or non-finite cost components
func (c CostInputs) Validate() error {
	if c.FixedCost < 0 || !isFinite(c.FixedCost) {
		return core.NewFieldError(core.ErrInvalidCosts, "fixed_cost", c.FixedCost)
	}
	if c.LaborHours < 0 || !isFinite(c.LaborHours) {
		return core.NewFieldError(core.ErrInvalidCosts, "labor_hours", c.LaborHours)
	}
	if c.LaborHourlyRate < 0 || !isFinite(c.LaborHourlyRate) {
		return core.NewFieldError(core.ErrInvalidCosts, "labor_hourly_rate", c.LaborHourlyRate)
	}
	if c.DailyDelayCost < 0 || !isFinite(c.DailyDelayCost) {
		return core.NewFieldError(core.ErrInvalidCosts, "daily_delay_cost", c.DailyDelayCost)
	}
	return nil
}

// LaborCost is the total labor spend on the test
func (c CostInputs) LaborCost() float64 {
	return c.LaborHours * c.LaborHourlyRate
}

func isFinite(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}
