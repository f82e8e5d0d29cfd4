package analysis

import (
	"math"

	"testworth/domain/core"
	"testworth/domain/decision"
	"testworth/domain/prior"
	apperrors "testworth/internal/errors"
)

// EVPICalculator computes the expected monetary regret of committing to
// the default decision without ever testing: the ceiling price of certainty.
type EVPICalculator struct{}

// NewEVPICalculator creates an EVPI calculator
func NewEVPICalculator() *EVPICalculator {
	return &EVPICalculator{}
}

// Compute evaluates EVPI for a prior, threshold and lift value K.
// Normal priors take the closed-form unit normal loss integral; the
// other shapes integrate the truncated density numerically.
func (c *EVPICalculator) Compute(pr prior.Prior, threshold, liftValue float64) (*decision.EVPIResult, error) {
	if math.IsNaN(threshold) || math.IsInf(threshold, 0) {
		return nil, apperrors.ValidationError(core.NewFieldError(core.ErrInvalidBusiness, "threshold", threshold))
	}
	if liftValue <= 0 || math.IsNaN(liftValue) || math.IsInf(liftValue, 0) {
		return nil, apperrors.ValidationError(core.NewFieldError(core.ErrInvalidBusiness, "lift_value", liftValue))
	}

	tr, err := prior.Truncate(pr)
	if err != nil {
		return nil, apperrors.ComputationError("prior truncation failed", err)
	}

	mu := pr.Mean()
	action := decision.Decide(mu, threshold)

	var shortfall float64
	switch pr.Shape() {
	case prior.ShapeNormal:
		// Untruncated closed form; the truncation flag covers the gap.
		shortfall = normalShortfall(mu, pr.StdDev(), threshold)
	default:
		if action == decision.Ship {
			shortfall = shortfallBelow(tr, threshold)
		} else {
			shortfall = gainAbove(tr, threshold)
		}
	}

	dollars := liftValue * shortfall
	if math.IsNaN(dollars) || math.IsInf(dollars, 0) {
		return nil, apperrors.ComputationError("EVPI evaluation produced a non-finite value", core.ErrNonFinite)
	}
	if dollars < 0 {
		return nil, apperrors.ComputationError("EVPI evaluation produced a negative value", core.ErrDegenerate)
	}

	return &decision.EVPIResult{
		Dollars:               dollars,
		DefaultAction:         action,
		TruncationSignificant: tr.Significant(),
	}, nil
}
