package handlers

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/ROTRMO/Sugeridos-Tienda-Vargas/internal/domain/models"
	"github.com/ROTRMO/Sugeridos-Tienda-Vargas/internal/repository/sheets"
	"github.com/ROTRMO/Sugeridos-Tienda-Vargas/internal/service/export"
	"github.com/ROTRMO/Sugeridos-Tienda-Vargas/internal/service/planning"
)

const uploadField = "file"

// PlanningService is the subset of the planning service the HTTP layer drives.
type PlanningService interface {
	DefaultPolicy() models.Policy
	PlanFromWorkbook(ctx context.Context, r io.Reader, policy models.Policy) (*planning.Plan, error)
	PlanFromSheet(ctx context.Context, policy models.Policy) (*planning.Plan, error)
	PublishPlan(ctx context.Context, plan *planning.Plan) error
	Insights(ctx context.Context, plan *planning.Plan) string
}

// PlanHandler exposes redistribution plans over HTTP.
type PlanHandler struct {
	svc    PlanningService
	logger *zap.Logger
}

type planResponse struct {
	*planning.Plan
	Table planning.Page `json:"table"`
}

type insightsResponse struct {
	PlanID   string `json:"plan_id"`
	Insights string `json:"insights"`
}

// NewPlanHandler constructs the HTTP handler adapter.
func NewPlanHandler(svc PlanningService, logger *zap.Logger) *PlanHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PlanHandler{svc: svc, logger: logger}
}

// Upload balances an uploaded workbook and returns the summary plus one table page.
func (h *PlanHandler) Upload(c *gin.Context) {
	plan, ok := h.planFromUpload(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, planResponse{Plan: plan, Table: planning.View(plan.Records, tableQuery(c))})
}

// FromSheet balances the configured Google Sheets inventory tab.
func (h *PlanHandler) FromSheet(c *gin.Context) {
	plan, ok := h.planFromSheet(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, planResponse{Plan: plan, Table: planning.View(plan.Records, tableQuery(c))})
}

// Export balances an uploaded workbook and returns the plan as CSV.
func (h *PlanHandler) Export(c *gin.Context) {
	plan, ok := h.planFromUpload(c)
	if !ok {
		return
	}
	h.writeCSV(c, plan)
}

// ExportSheet returns the Google Sheets based plan as CSV.
func (h *PlanHandler) ExportSheet(c *gin.Context) {
	plan, ok := h.planFromSheet(c)
	if !ok {
		return
	}
	h.writeCSV(c, plan)
}

// PublishSheet recomputes the sheet plan and rewrites the plan tab.
func (h *PlanHandler) PublishSheet(c *gin.Context) {
	plan, ok := h.planFromSheet(c)
	if !ok {
		return
	}
	if err := h.svc.PublishPlan(c.Request.Context(), plan); err != nil {
		h.logger.Error("failed publishing plan", zap.String("plan_id", plan.ID), zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": "unable to publish plan"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"plan_id": plan.ID, "summary": plan.Summary})
}

// Insights balances an uploaded workbook and asks the LLM for an executive summary.
// LLM failures never fail the request; the fallback text is returned instead.
func (h *PlanHandler) Insights(c *gin.Context) {
	plan, ok := h.planFromUpload(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, insightsResponse{PlanID: plan.ID, Insights: h.svc.Insights(c.Request.Context(), plan)})
}

func (h *PlanHandler) planFromUpload(c *gin.Context) (*planning.Plan, bool) {
	policy, err := policyFromQuery(c, h.svc.DefaultPolicy())
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return nil, false
	}

	header, err := c.FormFile(uploadField)
	if err != nil {
		h.logger.Warn("missing workbook upload", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "an .xlsx file is required in the \"file\" field"})
		return nil, false
	}

	file, err := header.Open()
	if err != nil {
		h.logger.Error("failed opening upload", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "unable to read upload"})
		return nil, false
	}
	defer file.Close()

	plan, err := h.svc.PlanFromWorkbook(c.Request.Context(), file, policy)
	if err != nil {
		h.respondPlanError(c, err)
		return nil, false
	}
	return plan, true
}

func (h *PlanHandler) planFromSheet(c *gin.Context) (*planning.Plan, bool) {
	policy, err := policyFromQuery(c, h.svc.DefaultPolicy())
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return nil, false
	}

	plan, err := h.svc.PlanFromSheet(c.Request.Context(), policy)
	if err != nil {
		h.respondPlanError(c, err)
		return nil, false
	}
	return plan, true
}

func (h *PlanHandler) respondPlanError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, models.ErrInvalidPolicy):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, sheets.ErrSheetsDisabled):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
	default:
		h.logger.Warn("failed building plan", zap.Error(err))
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "unable to build plan from inventory"})
	}
}

func (h *PlanHandler) writeCSV(c *gin.Context, plan *planning.Plan) {
	var buf bytes.Buffer
	if err := export.WriteCSV(&buf, plan.Records); err != nil {
		h.logger.Error("failed rendering csv", zap.String("plan_id", plan.ID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "unable to export plan"})
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", export.FileName(plan.Policy)))
	c.Header("X-Plan-ID", plan.ID)
	c.Data(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
}

// policyFromQuery overlays min_store, max_store, min_warehouse, max_warehouse
// and mode query parameters on the configured defaults.
func policyFromQuery(c *gin.Context, defaults models.Policy) (models.Policy, error) {
	policy := defaults

	targets := []struct {
		key string
		dst *int
	}{
		{"min_store", &policy.MinStore},
		{"max_store", &policy.MaxStore},
		{"min_warehouse", &policy.MinWarehouse},
		{"max_warehouse", &policy.MaxWarehouse},
	}
	for _, t := range targets {
		raw, ok := c.GetQuery(t.key)
		if !ok {
			continue
		}
		n, err := strconv.Atoi(raw)
		if err != nil {
			return models.Policy{}, fmt.Errorf("%w: %s must be an integer", models.ErrInvalidPolicy, t.key)
		}
		*t.dst = n
	}

	if raw, ok := c.GetQuery("mode"); ok {
		mode, err := models.ParsePolicyMode(raw)
		if err != nil {
			return models.Policy{}, err
		}
		policy.Mode = mode
	}

	if err := policy.Validate(); err != nil {
		return models.Policy{}, err
	}
	return policy, nil
}

func tableQuery(c *gin.Context) planning.Query {
	page, _ := strconv.Atoi(c.Query("page"))
	size, _ := strconv.Atoi(c.Query("page_size"))
	return planning.Query{Search: c.Query("search"), Page: page, PageSize: size}
}
