package prior

import (
	"testworth/domain/core"
)

// Spec is the wire-level description of a prior as supplied by the caller.
// Either the 90% credible interval or the native parameters may be given;
// the interval wins when both are present (it is what the wizard collects).
type Spec struct {
	Shape Shape `json:"shape"`

	// 90% credible interval over lift
	IntervalLower *float64 `json:"interval_lower,omitempty"`
	IntervalUpper *float64 `json:"interval_upper,omitempty"`

	// Native parameters (normal/student_t)
	Mu    *float64 `json:"mu,omitempty"`
	Sigma *float64 `json:"sigma,omitempty"`

	// Degrees of freedom, student_t only
	DF int `json:"df,omitempty"`
}

// Build derives the immutable prior from the spec
func (s Spec) Build() (Prior, error) {
	hasInterval := s.IntervalLower != nil && s.IntervalUpper != nil

	switch s.Shape {
	case ShapeNormal:
		if hasInterval {
			return NewNormalFromInterval(*s.IntervalLower, *s.IntervalUpper)
		}
		if s.Mu != nil && s.Sigma != nil {
			return NewNormal(*s.Mu, *s.Sigma)
		}
		return nil, core.NewValidationError("prior", "normal prior requires an interval or mu/sigma")

	case ShapeStudentT:
		if hasInterval {
			return NewStudentTFromInterval(*s.IntervalLower, *s.IntervalUpper, s.DF)
		}
		if s.Mu != nil && s.Sigma != nil {
			return NewStudentT(*s.Mu, *s.Sigma, s.DF)
		}
		return nil, core.NewValidationError("prior", "student_t prior requires an interval or mu/sigma")

	case ShapeUniform:
		if hasInterval {
			return NewUniform(*s.IntervalLower, *s.IntervalUpper)
		}
		return nil, core.NewValidationError("prior", "uniform prior requires interval bounds")

	default:
		return nil, core.NewFieldError(core.ErrUnsupportedShape, "shape", string(s.Shape))
	}
}
