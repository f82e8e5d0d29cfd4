package analysis

import (
	"math"
	"testing"

	"testworth/domain/prior"
)

func TestUnitNormalLossKnownValues(t *testing.T) {
	// L(0) = phi(0) = 1/sqrt(2*pi)
	if got, want := unitNormalLoss(0), 1/math.Sqrt(2*math.Pi); math.Abs(got-want) > 1e-12 {
		t.Errorf("L(0) = %v, want %v", got, want)
	}
	// L(2) = phi(2) - 2*(1-Phi(2)), hand-computed reference
	if got, want := unitNormalLoss(2), 0.008490702; math.Abs(got-want) > 1e-8 {
		t.Errorf("L(2) = %v, want %v", got, want)
	}
	// Monotone decreasing, vanishing in the far tail
	if unitNormalLoss(1) <= unitNormalLoss(2) {
		t.Error("loss integral must decrease in z")
	}
	if unitNormalLoss(40) != 0 {
		t.Errorf("L(40) = %v, want exact 0 in the far tail", unitNormalLoss(40))
	}
}

// The numerical integrator must reproduce the Normal closed form when
// pointed at a (negligibly truncated) normal density.
func TestNumericalIntegrationMatchesClosedForm(t *testing.T) {
	cases := []struct {
		mu, sigma, threshold float64
	}{
		{0.02, 0.01, 0},
		{0.0, 0.05, 0},
		{-0.01, 0.02, 0.005},
		{0.03, 0.015, 0.05},
	}
	for _, tc := range cases {
		p, err := prior.NewNormal(tc.mu, tc.sigma)
		if err != nil {
			t.Fatalf("prior: %v", err)
		}
		tr, err := prior.Truncate(p)
		if err != nil {
			t.Fatalf("truncate: %v", err)
		}

		want := normalShortfall(tc.mu, tc.sigma, tc.threshold)
		var got float64
		if tc.mu >= tc.threshold {
			got = shortfallBelow(tr, tc.threshold)
		} else {
			got = gainAbove(tr, tc.threshold)
		}

		if rel := math.Abs(got-want) / want; rel > 1e-4 {
			t.Errorf("mu=%v sigma=%v T=%v: numeric %v vs closed form %v (rel %v)",
				tc.mu, tc.sigma, tc.threshold, got, want, rel)
		}
	}
}

// Uniform shortfall has an exact polynomial answer:
// for U(a,b) with threshold T inside, E[max(0,T-L)] = (T-a)^2 / (2(b-a)).
func TestUniformShortfallExact(t *testing.T) {
	p, _ := prior.NewUniform(-0.02, 0.06)
	tr, _ := prior.Truncate(p)

	got := shortfallBelow(tr, 0)
	want := math.Pow(0-(-0.02), 2) / (2 * 0.08)
	if math.Abs(got-want)/want > 1e-6 {
		t.Errorf("uniform shortfall = %v, want %v", got, want)
	}

	gotGain := gainAbove(tr, 0)
	wantGain := math.Pow(0.06-0, 2) / (2 * 0.08)
	if math.Abs(gotGain-wantGain)/wantGain > 1e-6 {
		t.Errorf("uniform gain = %v, want %v", gotGain, wantGain)
	}
}
