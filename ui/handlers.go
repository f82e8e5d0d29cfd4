package ui

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"testworth/app"
	"testworth/domain/core"
	apperrors "testworth/internal/errors"
	"testworth/internal/report"
)

// errorBody is the uniform error envelope
type errorBody struct {
	Code  string `json:"code"`
	Error string `json:"error"`
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) handleEVPI(c *gin.Context) {
	var req app.EVPIRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorBody{Code: apperrors.CodeValidationError, Error: err.Error()})
		return
	}
	result, err := s.service.ComputeEVPI(c.Request.Context(), req)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (s *Server) handleEVSI(c *gin.Context) {
	var req app.EVSIRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorBody{Code: apperrors.CodeValidationError, Error: err.Error()})
		return
	}
	result, err := s.service.ComputeEVSI(c.Request.Context(), req)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (s *Server) handleNetValue(c *gin.Context) {
	var req app.NetValueRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorBody{Code: apperrors.CodeValidationError, Error: err.Error()})
		return
	}
	result, err := s.service.ComputeNetValue(c.Request.Context(), req)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// handleReport runs the full analysis and renders the decision brief as HTML
func (s *Server) handleReport(c *gin.Context) {
	var req app.NetValueRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorBody{Code: apperrors.CodeValidationError, Error: err.Error()})
		return
	}

	ctx := c.Request.Context()
	evpiRes, err := s.service.ComputeEVPI(ctx, app.EVPIRequest{
		Prior:     req.Prior,
		Business:  req.Business,
		Threshold: req.Threshold,
	})
	if err != nil {
		s.writeError(c, err)
		return
	}
	evsiRes, err := s.service.ComputeEVSI(ctx, app.EVSIRequest{
		Prior:     req.Prior,
		Business:  req.Business,
		Threshold: req.Threshold,
		Design:    req.Design,
		Samples:   req.Samples,
		Seed:      req.Seed,
	})
	if err != nil {
		s.writeError(c, err)
		return
	}
	netRes, err := s.service.ComputeNetValue(ctx, req)
	if err != nil {
		s.writeError(c, err)
		return
	}

	md := report.BuildMarkdown(report.Brief{
		Business:  req.Business,
		Threshold: req.Threshold,
		EVPI:      evpiRes,
		EVSI:      evsiRes,
		NetValue:  netRes,
	})
	c.Data(http.StatusOK, "text/html; charset=utf-8", report.RenderHTML(md))
}

func (s *Server) handleListCalculations(c *gin.Context) {
	if s.ledger == nil {
		c.JSON(http.StatusOK, []interface{}{})
		return
	}
	records, err := s.ledger.ListCalculations(c.Request.Context(), 50)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, records)
}

// writeError maps the error taxonomy onto status codes: validation
// errors are the caller's fault, computation errors mean the inputs
// looked valid but the derived quantities were not. Domain sentinels
// that escape without an AppError wrapper still classify by kind.
func (s *Server) writeError(c *gin.Context, err error) {
	code := apperrors.GetCode(err)
	status := http.StatusInternalServerError
	switch {
	case code == apperrors.CodeValidationError || core.IsValidationError(err):
		status = http.StatusBadRequest
		code = apperrors.CodeValidationError
	case code == apperrors.CodeComputationError || core.IsNumericalError(err):
		status = http.StatusUnprocessableEntity
		code = apperrors.CodeComputationError
	}
	if status == http.StatusInternalServerError {
		s.logger.Error("request failed: %v", err)
	}
	c.JSON(status, errorBody{Code: code, Error: err.Error()})
}
