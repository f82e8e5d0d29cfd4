package app

import (
	"context"
	"encoding/json"
	"math/rand"
	"time"

	"testworth/domain/core"
	"testworth/domain/decision"
	"testworth/domain/prior"
	"testworth/internal"
	"testworth/internal/analysis"
	apperrors "testworth/internal/errors"
	"testworth/internal/worker"
	"testworth/ports"
)

// EVPIRequest carries the inputs for a synchronous EVPI calculation
type EVPIRequest struct {
	Prior     prior.Spec              `json:"prior"`
	Business  decision.BusinessInputs `json:"business"`
	Threshold float64                 `json:"threshold"`
}

// EVSIRequest additionally names the test design to be valued.
// Seed is optional and exists for test determinism only.
type EVSIRequest struct {
	Prior     prior.Spec              `json:"prior"`
	Business  decision.BusinessInputs `json:"business"`
	Threshold float64                 `json:"threshold"`
	Design    decision.TestDesign     `json:"design"`
	Samples   int                     `json:"samples,omitempty"`
	Seed      *int64                  `json:"seed,omitempty"`
}

// NetValueRequest folds in timing and direct costs
type NetValueRequest struct {
	Prior     prior.Spec              `json:"prior"`
	Business  decision.BusinessInputs `json:"business"`
	Threshold float64                 `json:"threshold"`
	Design    decision.TestDesign     `json:"design"`
	Costs     decision.CostInputs     `json:"costs"`
	Samples   int                     `json:"samples,omitempty"`
	Seed      *int64                  `json:"seed,omitempty"`
}

// AnalysisService is the engine's front door. EVPI and the Normal EVSI
// fast path run synchronously; Monte Carlo work goes through the
// compute worker and comes back as exactly one response.
type AnalysisService struct {
	evpi           *analysis.EVPICalculator
	evsi           *analysis.EVSICalculator
	netValue       *analysis.NetValueCalculator
	worker         *worker.ComputeWorker
	rng            ports.RNGPort
	ledger         ports.LedgerPort
	logger         *internal.Logger
	defaultSamples int
}

// NewAnalysisService wires the calculators to the worker, RNG and ledger.
// ledger may be nil; calculations then simply go unrecorded.
// defaultSamples is the draw count used when a request leaves Samples at
// zero; non-positive falls back to the engine constant.
func NewAnalysisService(w *worker.ComputeWorker, rng ports.RNGPort, ledger ports.LedgerPort, logger *internal.Logger, defaultSamples int) *AnalysisService {
	if logger == nil {
		logger = internal.NewDefaultLogger()
	}
	if defaultSamples <= 0 {
		defaultSamples = analysis.DefaultSamples
	}
	return &AnalysisService{
		evpi:           analysis.NewEVPICalculator(),
		evsi:           analysis.NewEVSICalculator(),
		netValue:       analysis.NewNetValueCalculator(),
		worker:         w,
		rng:            rng,
		ledger:         ledger,
		logger:         logger,
		defaultSamples: defaultSamples,
	}
}

// ComputeEVPI runs the closed-form/integration EVPI calculation
// synchronously; it is cheap enough for every input change.
func (s *AnalysisService) ComputeEVPI(ctx context.Context, req EVPIRequest) (*decision.EVPIResult, error) {
	if err := req.Business.Validate(); err != nil {
		return nil, apperrors.ValidationError(err)
	}
	pr, err := req.Prior.Build()
	if err != nil {
		return nil, apperrors.ValidationError(err)
	}

	start := time.Now()
	result, err := s.evpi.Compute(pr, req.Threshold, req.Business.LiftValue())
	if err != nil {
		return nil, err
	}
	s.record(ctx, ports.KindEVPI, req, result, start)
	return result, nil
}

// ComputeEVSI validates, then dispatches per prior shape: Normal priors
// resolve in closed form on the calling goroutine, the rest go to the
// worker. Validation always happens before any asynchronous dispatch.
func (s *AnalysisService) ComputeEVSI(ctx context.Context, req EVSIRequest) (*decision.EVSIResult, error) {
	if err := s.validateDesign(req.Business, req.Design, req.Samples); err != nil {
		return nil, err
	}
	priorObj, err := req.Prior.Build()
	if err != nil {
		return nil, apperrors.ValidationError(err)
	}

	start := time.Now()
	samples := s.resolveSamples(req.Samples)

	if priorObj.Shape() == prior.ShapeNormal {
		result, err := s.evsi.Compute(priorObj, req.Business, req.Design, req.Threshold, samples, nil)
		if err != nil {
			return nil, err
		}
		s.record(ctx, ports.KindEVSI, req, result, start)
		return result, nil
	}

	stream := s.stream("evsi", req.Seed)
	resp := s.worker.Submit(ctx, "evsi", func(taskCtx context.Context) (interface{}, error) {
		return s.evsi.Compute(priorObj, req.Business, req.Design, req.Threshold, samples, stream)
	})

	value, err := s.await(ctx, resp)
	if err != nil {
		return nil, err
	}
	result := value.(*decision.EVSIResult)
	s.record(ctx, ports.KindEVSI, req, result, start)
	return result, nil
}

// ComputeNetValue always runs through the worker: the timeline
// simulation is Monte Carlo for every prior shape.
func (s *AnalysisService) ComputeNetValue(ctx context.Context, req NetValueRequest) (*decision.NetValueResult, error) {
	if err := s.validateDesign(req.Business, req.Design, req.Samples); err != nil {
		return nil, err
	}
	if err := req.Costs.Validate(); err != nil {
		return nil, apperrors.ValidationError(err)
	}
	priorObj, err := req.Prior.Build()
	if err != nil {
		return nil, apperrors.ValidationError(err)
	}

	start := time.Now()
	samples := s.resolveSamples(req.Samples)
	stream := s.stream("net_value", req.Seed)
	resp := s.worker.Submit(ctx, "net_value", func(taskCtx context.Context) (interface{}, error) {
		return s.netValue.Compute(priorObj, req.Business, req.Design, req.Costs, req.Threshold, samples, stream)
	})

	value, err := s.await(ctx, resp)
	if err != nil {
		return nil, err
	}
	result := value.(*decision.NetValueResult)
	s.record(ctx, ports.KindNetValue, req, result, start)
	return result, nil
}

// validateDesign shares the pre-dispatch validation between EVSI and
// Net Value
func (s *AnalysisService) validateDesign(biz decision.BusinessInputs, design decision.TestDesign, samples int) error {
	if err := biz.Validate(); err != nil {
		return apperrors.ValidationError(err)
	}
	if err := design.Validate(); err != nil {
		return apperrors.ValidationError(err)
	}
	if samples < 0 {
		return apperrors.ValidationError(core.NewFieldError(core.ErrInvalidSamples, "samples", samples))
	}
	return nil
}

// await blocks for the single worker response. Context cancellation
// stops the wait; it does not preempt the in-flight computation.
func (s *AnalysisService) await(ctx context.Context, resp <-chan worker.Response) (interface{}, error) {
	select {
	case r := <-resp:
		if r.Err != nil {
			return nil, r.Err
		}
		return r.Value, nil
	case <-ctx.Done():
		return nil, apperrors.Wrap(ctx.Err(), "calculation abandoned by caller")
	}
}

// resolveSamples substitutes the configured default for an unset count
func (s *AnalysisService) resolveSamples(requested int) int {
	if requested == 0 {
		return s.defaultSamples
	}
	return requested
}

func (s *AnalysisService) stream(name string, seed *int64) *rand.Rand {
	if seed != nil {
		return s.rng.SeededStream(name, *seed)
	}
	return s.rng.Stream()
}

// record persists the finished calculation best-effort; ledger trouble
// is logged and never fails the calculation itself.
func (s *AnalysisService) record(ctx context.Context, kind ports.CalculationKind, inputs interface{}, result interface{}, start time.Time) {
	if s.ledger == nil {
		return
	}
	inputsJSON, err := json.Marshal(inputs)
	if err != nil {
		s.logger.Warn("ledger: could not marshal %s inputs: %v", kind, err)
		return
	}
	resultJSON, err := json.Marshal(result)
	if err != nil {
		s.logger.Warn("ledger: could not marshal %s result: %v", kind, err)
		return
	}
	rec := &ports.CalculationRecord{
		ID:        core.NewID(),
		Kind:      kind,
		Inputs:    inputsJSON,
		Result:    resultJSON,
		RuntimeMs: time.Since(start).Milliseconds(),
		CreatedAt: core.Now(),
	}
	if err := s.ledger.SaveCalculation(ctx, rec); err != nil {
		s.logger.Warn("ledger: save failed for %s: %v", kind, err)
	}
}
