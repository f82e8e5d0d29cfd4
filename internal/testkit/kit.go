package testkit

import (
	"context"
	"math/rand"
	"sync"

	"testworth/app"
	"testworth/domain/decision"
	"testworth/domain/prior"
	"testworth/ports"
)

// FixedSeedRNG is a deterministic RNGPort for tests: both the production
// and the seeded stream derive from one fixed seed.
type FixedSeedRNG struct {
	Seed int64
}

// Stream returns a stream from the fixed seed
func (f *FixedSeedRNG) Stream() *rand.Rand {
	return rand.New(rand.NewSource(f.Seed))
}

// SeededStream ignores the name and honors the explicit seed
func (f *FixedSeedRNG) SeededStream(_ string, seed int64) *rand.Rand {
	return rand.New(rand.NewSource(seed))
}

var _ ports.RNGPort = (*FixedSeedRNG)(nil)

// InMemoryLedger is a LedgerPort for tests and DB-less operation
type InMemoryLedger struct {
	mu      sync.Mutex
	records []ports.CalculationRecord
}

// NewInMemoryLedger creates an empty in-memory ledger
func NewInMemoryLedger() *InMemoryLedger {
	return &InMemoryLedger{}
}

// SaveCalculation appends the record
func (l *InMemoryLedger) SaveCalculation(_ context.Context, rec *ports.CalculationRecord) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.records = append(l.records, *rec)
	return nil
}

// ListCalculations returns the most recent records, newest first
func (l *InMemoryLedger) ListCalculations(_ context.Context, limit int) ([]ports.CalculationRecord, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if limit <= 0 || limit > len(l.records) {
		limit = len(l.records)
	}
	out := make([]ports.CalculationRecord, 0, limit)
	for i := len(l.records) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, l.records[i])
	}
	return out, nil
}

// Count returns the number of saved records
func (l *InMemoryLedger) Count() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.records)
}

var _ ports.LedgerPort = (*InMemoryLedger)(nil)

func f64(v float64) *float64 { return &v }

// StandardBusiness is the canonical business scenario used across tests:
// K = 0.04 * 1,000,000 * 1.25 = $50,000 per unit lift per year.
func StandardBusiness() decision.BusinessInputs {
	return decision.BusinessInputs{
		BaselineRate:       0.04,
		AnnualTraffic:      1_000_000,
		ValuePerConversion: 1.25,
	}
}

// StandardDesign is a plausible four-week test
func StandardDesign() decision.TestDesign {
	return decision.TestDesign{
		DurationDays:        28,
		DailyTraffic:        3000,
		TreatmentFraction:   0.5,
		EligibilityFraction: 1.0,
		ConversionLagDays:   7,
		DecisionLagDays:     3,
	}
}

// StandardCosts is a modest direct cost structure
func StandardCosts() decision.CostInputs {
	return decision.CostInputs{
		FixedCost:       500,
		LaborHours:      20,
		LaborHourlyRate: 75,
		DailyDelayCost:  10,
	}
}

// NormalPriorSpec is the canonical optimistic prior: mu=0.02, sigma=0.01
func NormalPriorSpec() prior.Spec {
	return prior.Spec{
		Shape: prior.ShapeNormal,
		Mu:    f64(0.02),
		Sigma: f64(0.01),
	}
}

// EVSIRequest builds a complete seeded EVSI request for the given prior
func EVSIRequest(spec prior.Spec, seed int64) app.EVSIRequest {
	return app.EVSIRequest{
		Prior:     spec,
		Business:  StandardBusiness(),
		Threshold: 0,
		Design:    StandardDesign(),
		Seed:      &seed,
	}
}

// NetValueRequest builds a complete seeded Net Value request
func NetValueRequest(spec prior.Spec, seed int64) app.NetValueRequest {
	return app.NetValueRequest{
		Prior:     spec,
		Business:  StandardBusiness(),
		Threshold: 0,
		Design:    StandardDesign(),
		Costs:     StandardCosts(),
		Seed:      &seed,
	}
}
