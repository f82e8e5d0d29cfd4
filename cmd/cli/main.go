package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"testworth/adapters/excel"
	"testworth/adapters/rng"
	"testworth/app"
	"testworth/domain/decision"
	"testworth/domain/prior"
	"testworth/internal"
	"testworth/internal/report"
	"testworth/internal/worker"
)

// run one full analysis from the command line and print the brief
func main() {
	shape := flag.String("shape", "normal", "prior shape: normal, student_t, uniform")
	lower := flag.Float64("lower", -0.01, "90% credible interval lower bound on lift")
	upper := flag.Float64("upper", 0.05, "90% credible interval upper bound on lift")
	df := flag.Int("df", 5, "degrees of freedom for student_t (3, 5 or 10)")

	baseline := flag.Float64("baseline", 0.04, "baseline conversion rate")
	traffic := flag.Float64("traffic", 1_000_000, "annual traffic")
	value := flag.Float64("value", 1.25, "dollar value per conversion")
	threshold := flag.Float64("threshold", 0, "minimum lift required to ship")

	duration := flag.Float64("duration", 28, "test duration in days")
	daily := flag.Float64("daily", 3000, "daily eligible traffic")
	split := flag.Float64("split", 0.5, "treatment traffic fraction")
	eligibility := flag.Float64("eligibility", 1.0, "eligibility fraction")
	convLag := flag.Float64("conversion-lag", 7, "conversion latency days")
	decLag := flag.Float64("decision-lag", 3, "decision latency days")

	fixedCost := flag.Float64("fixed-cost", 0, "fixed test cost")
	laborHours := flag.Float64("labor-hours", 0, "labor hours")
	laborRate := flag.Float64("labor-rate", 0, "labor hourly rate")
	delayCost := flag.Float64("delay-cost", 0, "daily cost of delay")

	samples := flag.Int("samples", 0, "monte carlo samples (0 = default 5000)")
	seed := flag.Int64("seed", 0, "rng seed for reproducible runs (0 = unseeded)")
	xlsxOut := flag.String("xlsx", "", "write the analysis workbook to this path")
	flag.Parse()

	spec := prior.Spec{
		Shape:         prior.Shape(*shape),
		IntervalLower: lower,
		IntervalUpper: upper,
		DF:            *df,
	}
	biz := decision.BusinessInputs{
		BaselineRate:       *baseline,
		AnnualTraffic:      *traffic,
		ValuePerConversion: *value,
	}
	design := decision.TestDesign{
		DurationDays:        *duration,
		DailyTraffic:        *daily,
		TreatmentFraction:   *split,
		EligibilityFraction: *eligibility,
		ConversionLagDays:   *convLag,
		DecisionLagDays:     *decLag,
	}
	costs := decision.CostInputs{
		FixedCost:       *fixedCost,
		LaborHours:      *laborHours,
		LaborHourlyRate: *laborRate,
		DailyDelayCost:  *delayCost,
	}

	var seedPtr *int64
	if *seed != 0 {
		seedPtr = seed
	}

	logger := internal.NewDefaultLogger()
	service := app.NewAnalysisService(worker.New(2, logger), rng.NewSystemRNG(), nil, logger, 0)
	ctx := context.Background()

	evpiRes, err := service.ComputeEVPI(ctx, app.EVPIRequest{Prior: spec, Business: biz, Threshold: *threshold})
	if err != nil {
		log.Fatalf("EVPI failed: %v", err)
	}
	evsiRes, err := service.ComputeEVSI(ctx, app.EVSIRequest{
		Prior: spec, Business: biz, Threshold: *threshold,
		Design: design, Samples: *samples, Seed: seedPtr,
	})
	if err != nil {
		log.Fatalf("EVSI failed: %v", err)
	}
	netRes, err := service.ComputeNetValue(ctx, app.NetValueRequest{
		Prior: spec, Business: biz, Threshold: *threshold,
		Design: design, Costs: costs, Samples: *samples, Seed: seedPtr,
	})
	if err != nil {
		log.Fatalf("net value failed: %v", err)
	}

	md := report.BuildMarkdown(report.Brief{
		Business:  biz,
		Threshold: *threshold,
		EVPI:      evpiRes,
		EVSI:      evsiRes,
		NetValue:  netRes,
	})
	fmt.Print(md)

	if *xlsxOut != "" {
		exporter := excel.NewExporter()
		err := exporter.Write(*xlsxOut, excel.AnalysisWorkbook{
			Business:  biz,
			Threshold: *threshold,
			EVPI:      evpiRes,
			EVSI:      evsiRes,
			NetValue:  netRes,
		})
		if err != nil {
			log.Fatalf("workbook export failed: %v", err)
		}
		fmt.Fprintf(os.Stderr, "workbook written to %s\n", *xlsxOut)
	}
}
