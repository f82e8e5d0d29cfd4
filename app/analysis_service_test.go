package app_test

import (
	"context"
	"math"
	"testing"

	"testworth/app"
	"testworth/domain/decision"
	"testworth/domain/prior"
	apperrors "testworth/internal/errors"
	"testworth/internal/testkit"
	"testworth/internal/worker"
	"testworth/ports"
)

func f64(v float64) *float64 { return &v }

func newService(ledger ports.LedgerPort) *app.AnalysisService {
	w := worker.New(2, nil)
	return app.NewAnalysisService(w, &testkit.FixedSeedRNG{Seed: 1}, ledger, nil, 0)
}

func studentTSpec() prior.Spec {
	return prior.Spec{Shape: prior.ShapeStudentT, Mu: f64(0.01), Sigma: f64(0.03), DF: 5}
}

func TestComputeEVPI(t *testing.T) {
	svc := newService(nil)

	res, err := svc.ComputeEVPI(context.Background(), app.EVPIRequest{
		Prior:    testkit.NormalPriorSpec(),
		Business: testkit.StandardBusiness(),
	})
	if err != nil {
		t.Fatalf("compute: %v", err)
	}
	if res.DefaultAction != decision.Ship {
		t.Errorf("default action = %v", res.DefaultAction)
	}
	if math.Abs(res.Dollars-4.245) > 0.001 {
		t.Errorf("EVPI = %v, want 4.245", res.Dollars)
	}
}

func TestComputeEVSISelectsMethodByShape(t *testing.T) {
	svc := newService(nil)
	ctx := context.Background()

	normal, err := svc.ComputeEVSI(ctx, testkit.EVSIRequest(testkit.NormalPriorSpec(), 1))
	if err != nil {
		t.Fatalf("normal prior: %v", err)
	}
	if normal.Method != "closed_form" {
		t.Errorf("normal prior method = %v, want closed_form", normal.Method)
	}

	studentT, err := svc.ComputeEVSI(ctx, testkit.EVSIRequest(studentTSpec(), 1))
	if err != nil {
		t.Fatalf("student-t prior: %v", err)
	}
	if studentT.Method != "monte_carlo" {
		t.Errorf("student-t prior method = %v, want monte_carlo", studentT.Method)
	}
	if studentT.Dollars > studentT.EVPIDollars*1.02 {
		t.Errorf("EVSI %v materially exceeds EVPI %v", studentT.Dollars, studentT.EVPIDollars)
	}
}

func TestComputeEVSISeedDeterminism(t *testing.T) {
	svc := newService(nil)
	ctx := context.Background()

	a, err := svc.ComputeEVSI(ctx, testkit.EVSIRequest(studentTSpec(), 99))
	if err != nil {
		t.Fatalf("first run: %v", err)
	}
	b, err := svc.ComputeEVSI(ctx, testkit.EVSIRequest(studentTSpec(), 99))
	if err != nil {
		t.Fatalf("second run: %v", err)
	}
	if a.Dollars != b.Dollars {
		t.Errorf("same seed produced %v and %v", a.Dollars, b.Dollars)
	}
}

func TestComputeNetValue(t *testing.T) {
	svc := newService(nil)

	res, err := svc.ComputeNetValue(context.Background(), testkit.NetValueRequest(testkit.NormalPriorSpec(), 5))
	if err != nil {
		t.Fatalf("compute: %v", err)
	}
	if (res.Verdict == decision.VerdictTest) != (res.Dollars > 0) {
		t.Errorf("verdict %v inconsistent with net %v", res.Verdict, res.Dollars)
	}
	wantDirect := 500.0 + 20*75
	if res.DirectCostDollars != wantDirect {
		t.Errorf("direct cost = %v, want %v", res.DirectCostDollars, wantDirect)
	}
}

func TestConfiguredDefaultSamples(t *testing.T) {
	w := worker.New(2, nil)
	svc := app.NewAnalysisService(w, &testkit.FixedSeedRNG{Seed: 1}, nil, nil, 800)
	ctx := context.Background()

	// An unset request count must take the configured default, not the
	// engine constant.
	net, err := svc.ComputeNetValue(ctx, testkit.NetValueRequest(testkit.NormalPriorSpec(), 1))
	if err != nil {
		t.Fatalf("net value: %v", err)
	}
	if net.Samples != 800 {
		t.Errorf("net value samples = %d, want configured 800", net.Samples)
	}

	evsi, err := svc.ComputeEVSI(ctx, testkit.EVSIRequest(studentTSpec(), 1))
	if err != nil {
		t.Fatalf("evsi: %v", err)
	}
	if evsi.Samples != 800 {
		t.Errorf("evsi samples = %d, want configured 800", evsi.Samples)
	}

	// An explicit request count still wins
	req := testkit.NetValueRequest(testkit.NormalPriorSpec(), 1)
	req.Samples = 1200
	net, err = svc.ComputeNetValue(ctx, req)
	if err != nil {
		t.Fatalf("net value: %v", err)
	}
	if net.Samples != 1200 {
		t.Errorf("net value samples = %d, want requested 1200", net.Samples)
	}
}

func TestValidationPrecedesDispatch(t *testing.T) {
	svc := newService(nil)
	ctx := context.Background()

	bad := testkit.EVSIRequest(testkit.NormalPriorSpec(), 1)
	bad.Design.DurationDays = 0
	if _, err := svc.ComputeEVSI(ctx, bad); apperrors.GetCode(err) != apperrors.CodeValidationError {
		t.Errorf("invalid design: code = %v, want validation error", apperrors.GetCode(err))
	}

	badPrior := testkit.EVSIRequest(prior.Spec{Shape: "gamma"}, 1)
	if _, err := svc.ComputeEVSI(ctx, badPrior); apperrors.GetCode(err) != apperrors.CodeValidationError {
		t.Errorf("unsupported shape: code = %v, want validation error", apperrors.GetCode(err))
	}

	badCosts := testkit.NetValueRequest(testkit.NormalPriorSpec(), 1)
	badCosts.Costs.FixedCost = -1
	if _, err := svc.ComputeNetValue(ctx, badCosts); apperrors.GetCode(err) != apperrors.CodeValidationError {
		t.Errorf("negative cost: code = %v, want validation error", apperrors.GetCode(err))
	}

	badSamples := testkit.EVSIRequest(testkit.NormalPriorSpec(), 1)
	badSamples.Samples = -10
	if _, err := svc.ComputeEVSI(ctx, badSamples); apperrors.GetCode(err) != apperrors.CodeValidationError {
		t.Errorf("negative samples: code = %v, want validation error", apperrors.GetCode(err))
	}
}

func TestCalculationsAreRecorded(t *testing.T) {
	ledger := testkit.NewInMemoryLedger()
	svc := newService(ledger)
	ctx := context.Background()

	if _, err := svc.ComputeEVPI(ctx, app.EVPIRequest{Prior: testkit.NormalPriorSpec(), Business: testkit.StandardBusiness()}); err != nil {
		t.Fatalf("evpi: %v", err)
	}
	if _, err := svc.ComputeEVSI(ctx, testkit.EVSIRequest(testkit.NormalPriorSpec(), 1)); err != nil {
		t.Fatalf("evsi: %v", err)
	}
	if _, err := svc.ComputeNetValue(ctx, testkit.NetValueRequest(testkit.NormalPriorSpec(), 1)); err != nil {
		t.Fatalf("net value: %v", err)
	}

	if ledger.Count() != 3 {
		t.Fatalf("ledger holds %d records, want 3", ledger.Count())
	}
	recs, err := ledger.ListCalculations(ctx, 10)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	// Newest first
	if recs[0].Kind != ports.KindNetValue || recs[2].Kind != ports.KindEVPI {
		t.Errorf("unexpected record order: %v, %v, %v", recs[0].Kind, recs[1].Kind, recs[2].Kind)
	}
	for _, r := range recs {
		if r.ID == "" || len(r.Inputs) == 0 || len(r.Result) == 0 {
			t.Errorf("incomplete record: %+v", r)
		}
	}
}

func TestFailedCalculationsAreNotRecorded(t *testing.T) {
	ledger := testkit.NewInMemoryLedger()
	svc := newService(ledger)

	bad := testkit.EVSIRequest(testkit.NormalPriorSpec(), 1)
	bad.Business.BaselineRate = 0
	if _, err := svc.ComputeEVSI(context.Background(), bad); err == nil {
		t.Fatal("expected validation error")
	}
	if ledger.Count() != 0 {
		t.Errorf("failed calculation was recorded")
	}
}

func TestAbandonedWaitReturnsError(t *testing.T) {
	svc := newService(nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	// Student-t goes through the worker; a dead context must not hang
	if _, err := svc.ComputeEVSI(ctx, testkit.EVSIRequest(studentTSpec(), 1)); err == nil {
		t.Error("cancelled context should surface an error")
	}
}
