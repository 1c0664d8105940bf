package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/Aashish23092/auction-analyzer/dto"
	"github.com/Aashish23092/auction-analyzer/pkg/logger"
	"github.com/Aashish23092/auction-analyzer/service"
	"github.com/gin-gonic/gin"
)

const defaultListLimit = 20

type AnalysisHandler struct {
	analysisService *service.AnalysisService
	defaults        dto.Assumptions
}

// NewAnalysisHandler creates the handler. defaults are the assumptions a
// partial "assumptions" form field is layered on.
func NewAnalysisHandler(analysisService *service.AnalysisService, defaults dto.Assumptions) *AnalysisHandler {
	return &AnalysisHandler{
		analysisService: analysisService,
		defaults:        defaults,
	}
}

// CreateAnalysis handles POST /analyses.
func (h *AnalysisHandler) CreateAnalysis(c *gin.Context) {
	var req dto.AnalysisRequest
	if err := c.ShouldBind(&req); err != nil {
		sendError(c, http.StatusBadRequest, codeInvalidRequest, "Failed to parse multipart form", err)
		return
	}
	if err := req.Validate(); err != nil {
		sendError(c, http.StatusBadRequest, codeInvalidRequest, err.Error(), nil)
		return
	}

	in, err := h.buildInput(&req)
	if err != nil {
		sendError(c, http.StatusBadRequest, codeInvalidRequest, "Invalid analysis request", err)
		return
	}

	result, err := h.analysisService.Analyze(c.Request.Context(), in)
	if err != nil {
		sendServiceError(c, "Failed to analyze listing", err)
		return
	}
	withAnalysisID(c, result.ID)
	c.JSON(http.StatusCreated, result)
}

// withAnalysisID tags the request context so the request log line names the
// analysis.
func withAnalysisID(c *gin.Context, id string) {
	ctx := context.WithValue(c.Request.Context(), logger.AnalysisIDKey, id)
	c.Request = c.Request.WithContext(ctx)
}

func (h *AnalysisHandler) buildInput(req *dto.AnalysisRequest) (service.AnalysisInput, error) {
	in := service.AnalysisInput{Password: req.Password}

	if req.Listing != "" {
		var listing dto.ExtractedListing
		if err := json.Unmarshal([]byte(req.Listing), &listing); err != nil {
			return in, fmt.Errorf("listing: %w", err)
		}
		in.Listing = &listing
	} else {
		data, err := readUpload(req.PDF)
		if err != nil {
			return in, err
		}
		in.PDF = data
	}

	comps, err := readUpload(req.Comps)
	if err != nil {
		return in, err
	}
	in.Comps = comps

	if req.Assumptions != "" {
		a := h.defaults
		if err := json.Unmarshal([]byte(req.Assumptions), &a); err != nil {
			return in, fmt.Errorf("assumptions: %w", err)
		}
		in.Assumptions = &a
	}

	if req.Loan != "" {
		loan, err := strconv.ParseInt(req.Loan, 10, 64)
		if err != nil || loan < 0 {
			return in, fmt.Errorf("loan_amount must be a non-negative integer")
		}
		in.LoanAmount = &loan
	}
	return in, nil
}

// ListAnalyses handles GET /analyses?limit=N.
func (h *AnalysisHandler) ListAnalyses(c *gin.Context) {
	limit := defaultListLimit
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			sendError(c, http.StatusBadRequest, codeInvalidRequest, "limit must be a positive integer", err)
			return
		}
		limit = n
	}

	list, err := h.analysisService.List(c.Request.Context(), limit)
	if err != nil {
		sendServiceError(c, "Failed to list analyses", err)
		return
	}
	if list == nil {
		list = []dto.AnalysisSummary{}
	}
	c.JSON(http.StatusOK, gin.H{"analyses": list})
}

// GetAnalysis handles GET /analyses/:id.
func (h *AnalysisHandler) GetAnalysis(c *gin.Context) {
	result, err := h.analysisService.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		sendServiceError(c, "Failed to load analysis", err)
		return
	}
	withAnalysisID(c, result.ID)
	c.JSON(http.StatusOK, result)
}
