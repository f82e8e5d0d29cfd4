package analysis

import (
	"math"
	"math/rand"
	"testing"

	"testworth/domain/decision"
	"testworth/domain/prior"
)

func standardBusiness() decision.BusinessInputs {
	return decision.BusinessInputs{BaselineRate: 0.04, AnnualTraffic: 1_000_000, ValuePerConversion: 1.25}
}

func bigDesign() decision.TestDesign {
	return decision.TestDesign{
		DurationDays:        60,
		DailyTraffic:        50000,
		TreatmentFraction:   0.5,
		EligibilityFraction: 1.0,
	}
}

func TestEVSIClosedFormBoundedByEVPI(t *testing.T) {
	calc := NewEVSICalculator()
	p := normalPrior(t, 0.01, 0.05)

	res, err := calc.Compute(p, standardBusiness(), bigDesign(), 0, 0, nil)
	if err != nil {
		t.Fatalf("compute: %v", err)
	}
	if res.Method != MethodClosedForm {
		t.Errorf("method = %v, want closed form for a normal prior", res.Method)
	}
	if res.Dollars < 0 {
		t.Errorf("EVSI = %v, must be non-negative", res.Dollars)
	}
	if res.Dollars > res.EVPIDollars {
		t.Errorf("EVSI %v exceeds EVPI %v: a finite test cannot beat perfect information", res.Dollars, res.EVPIDollars)
	}
	if res.OverturnProbability < 0 || res.OverturnProbability > 1 {
		t.Errorf("overturn probability = %v", res.OverturnProbability)
	}
}

func TestEVSIConvergesToEVPI(t *testing.T) {
	calc := NewEVSICalculator()
	p := normalPrior(t, 0.01, 0.05)

	// An absurdly large test pins down the lift almost perfectly
	huge := decision.TestDesign{
		DurationDays:        10000,
		DailyTraffic:        10_000_000,
		TreatmentFraction:   0.5,
		EligibilityFraction: 1.0,
	}
	res, err := calc.Compute(p, standardBusiness(), huge, 0, 0, nil)
	if err != nil {
		t.Fatalf("compute: %v", err)
	}
	if rel := (res.EVPIDollars - res.Dollars) / res.EVPIDollars; rel > 0.001 {
		t.Errorf("EVSI %v should converge to EVPI %v (gap %v)", res.Dollars, res.EVPIDollars, rel)
	}

	// A tiny test is worth much less
	tiny := decision.TestDesign{
		DurationDays:        1,
		DailyTraffic:        50,
		TreatmentFraction:   0.5,
		EligibilityFraction: 1.0,
	}
	small, err := calc.Compute(p, standardBusiness(), tiny, 0, 0, nil)
	if err != nil {
		t.Fatalf("compute: %v", err)
	}
	if small.Dollars >= res.Dollars {
		t.Errorf("tiny test EVSI %v should be far below huge test EVSI %v", small.Dollars, res.Dollars)
	}
}

// Primary cross-validation: on a Normal prior the Monte Carlo path must
// agree with the closed form within 2% at high sample counts.
func TestEVSIMonteCarloMatchesClosedForm(t *testing.T) {
	calc := NewEVSICalculator()
	p := normalPrior(t, 0.01, 0.05)
	biz := standardBusiness()
	design := bigDesign()

	cf, err := calc.Compute(p, biz, design, 0, 0, nil)
	if err != nil {
		t.Fatalf("closed form: %v", err)
	}

	rng := rand.New(rand.NewSource(7))
	mc, err := calc.MonteCarlo(p, biz, design, 0, 200000, rng)
	if err != nil {
		t.Fatalf("monte carlo: %v", err)
	}
	if mc.Method != MethodMonteCarlo {
		t.Errorf("method = %v", mc.Method)
	}
	if mc.Samples != 200000 {
		t.Errorf("samples = %v", mc.Samples)
	}

	if rel := math.Abs(mc.Dollars-cf.Dollars) / cf.Dollars; rel > 0.02 {
		t.Errorf("monte carlo %v vs closed form %v: relative gap %v exceeds 2%%", mc.Dollars, cf.Dollars, rel)
	}
}

func TestEVSIMonteCarloShapes(t *testing.T) {
	calc := NewEVSICalculator()
	biz := standardBusiness()
	design := bigDesign()

	st, err := prior.NewStudentT(0.01, 0.03, 5)
	if err != nil {
		t.Fatalf("prior: %v", err)
	}
	u, err := prior.NewUniform(-0.02, 0.06)
	if err != nil {
		t.Fatalf("prior: %v", err)
	}

	for _, p := range []prior.Prior{st, u} {
		rng := rand.New(rand.NewSource(11))
		res, err := calc.Compute(p, biz, design, 0, 50000, rng)
		if err != nil {
			t.Fatalf("%s: %v", p.Shape(), err)
		}
		if res.Method != MethodMonteCarlo {
			t.Errorf("%s: method = %v, want monte carlo", p.Shape(), res.Method)
		}
		// Allow a whisker of sampling noise over the EVPI ceiling
		if res.Dollars > res.EVPIDollars*1.02 {
			t.Errorf("%s: EVSI %v materially exceeds EVPI %v", p.Shape(), res.Dollars, res.EVPIDollars)
		}
		if res.OverturnProbability < 0 || res.OverturnProbability > 1 {
			t.Errorf("%s: overturn probability = %v", p.Shape(), res.OverturnProbability)
		}
	}
}

func TestEVSISeededReproducibility(t *testing.T) {
	calc := NewEVSICalculator()
	st, _ := prior.NewStudentT(0.01, 0.03, 5)

	a, err := calc.Compute(st, standardBusiness(), bigDesign(), 0, 5000, rand.New(rand.NewSource(42)))
	if err != nil {
		t.Fatalf("first run: %v", err)
	}
	b, err := calc.Compute(st, standardBusiness(), bigDesign(), 0, 5000, rand.New(rand.NewSource(42)))
	if err != nil {
		t.Fatalf("second run: %v", err)
	}
	if a.Dollars != b.Dollars {
		t.Errorf("same seed produced %v and %v", a.Dollars, b.Dollars)
	}
}

func TestEVSITruncationFlagPropagates(t *testing.T) {
	calc := NewEVSICalculator()
	res, err := calc.Compute(normalPrior(t, -0.9, 0.5), standardBusiness(), bigDesign(), 0, 0, nil)
	if err != nil {
		t.Fatalf("compute: %v", err)
	}
	if !res.TruncationSignificant {
		t.Error("heavy mass below -1 must flag truncation on the EVSI result")
	}
}

func TestSamplingStdDev(t *testing.T) {
	sd, err := samplingStdDev(standardBusiness(), bigDesign())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// 2 * cr(1-cr)/n per arm with n=1.5M, on the relative-lift scale
	n := 60.0 * 50000 * 0.5
	want := math.Sqrt(0.04*0.96*(2/n)) / 0.04
	if math.Abs(sd-want)/want > 1e-12 {
		t.Errorf("sampling sd = %v, want %v", sd, want)
	}
}

func TestPosteriorMeanShrinkage(t *testing.T) {
	// Infinitely precise data: estimate equals the observation
	if got := posteriorMean(0.02, 1e-4, 0.05, 1e-12); math.Abs(got-0.05) > 1e-6 {
		t.Errorf("precise data: posterior mean = %v, want ~0.05", got)
	}
	// Worthless data: estimate collapses to the prior mean
	if got := posteriorMean(0.02, 1e-4, 0.05, 1e4); math.Abs(got-0.02) > 1e-6 {
		t.Errorf("vague data: posterior mean = %v, want ~0.02", got)
	}
	// Weights are proportional to precision
	got := posteriorMean(0, 1, 1, 1)
	if math.Abs(got-0.5) > 1e-12 {
		t.Errorf("equal precision: posterior mean = %v, want 0.5", got)
	}
}
