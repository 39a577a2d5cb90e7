package planning

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ROTRMO/Sugeridos-Tienda-Vargas/internal/config"
	"github.com/ROTRMO/Sugeridos-Tienda-Vargas/internal/domain/models"
	"github.com/ROTRMO/Sugeridos-Tienda-Vargas/internal/repository/sheets"
	"github.com/ROTRMO/Sugeridos-Tienda-Vargas/internal/repository/workbook"
	"github.com/ROTRMO/Sugeridos-Tienda-Vargas/internal/service/balancing"
	"github.com/ROTRMO/Sugeridos-Tienda-Vargas/internal/service/export"
	"github.com/ROTRMO/Sugeridos-Tienda-Vargas/internal/service/ingest"
)

// Plan is one balanced batch. It is rebuilt from scratch for every policy.
type Plan struct {
	ID          string                  `json:"plan_id"`
	GeneratedAt time.Time               `json:"generated_at"`
	Policy      models.Policy           `json:"policy"`
	Summary     models.BatchSummary     `json:"summary"`
	Records     []models.BalancedRecord `json:"-"`
}

// InsightGenerator produces prose for a plan and never fails.
type InsightGenerator interface {
	Generate(ctx context.Context, summary models.BatchSummary, records []models.BalancedRecord, policy models.Policy) string
}

// Service loads inventory, balances it and hands the result to its consumers.
type Service struct {
	sheets   sheets.Repository
	workbook workbook.Reader
	parser   *ingest.Parser
	insights InsightGenerator
	cfg      config.SheetsConfig
	policy   models.Policy
	logger   *zap.Logger
	now      func() time.Time
	newID    func() string
}

// NewService wires the planning service. sheetsRepo may be nil when Google
// Sheets is not configured.
func NewService(sheetsRepo sheets.Repository, reader workbook.Reader, insights InsightGenerator, cfg config.SheetsConfig, defaultPolicy models.Policy, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		sheets:   sheetsRepo,
		workbook: reader,
		parser:   ingest.NewParser(logger.Named("ingest")),
		insights: insights,
		cfg:      cfg,
		policy:   defaultPolicy,
		logger:   logger,
		now:      time.Now,
		newID:    uuid.NewString,
	}
}

// DefaultPolicy returns the configured policy used when callers override nothing.
func (s *Service) DefaultPolicy() models.Policy {
	return s.policy
}

// PlanFromWorkbook balances an uploaded .xlsx inventory. Parsing a large
// workbook is slow, so a request cancelled meanwhile is not balanced.
func (s *Service) PlanFromWorkbook(ctx context.Context, r io.Reader, policy models.Policy) (*Plan, error) {
	if err := policy.Validate(); err != nil {
		return nil, err
	}

	rows, err := s.workbook.ReadFirstSheet(r)
	if err != nil {
		return nil, fmt.Errorf("read uploaded workbook: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("read uploaded workbook: %w", err)
	}

	return s.build(s.parser.ParseStringRows(rows), policy, "upload"), nil
}

// PlanFromSheet balances the inventory tab of the configured spreadsheet.
func (s *Service) PlanFromSheet(ctx context.Context, policy models.Policy) (*Plan, error) {
	if s.sheets == nil {
		return nil, sheets.ErrSheetsDisabled
	}
	if err := policy.Validate(); err != nil {
		return nil, err
	}

	rows, err := s.sheets.ReadRange(ctx, s.cfg.InventoryRange)
	if err != nil {
		return nil, fmt.Errorf("load inventory range: %w", err)
	}

	return s.build(s.parser.ParseRows(rows), policy, "sheet"), nil
}

// PublishPlan replaces the plan tab of the spreadsheet with the given plan.
func (s *Service) PublishPlan(ctx context.Context, plan *Plan) error {
	if s.sheets == nil {
		return sheets.ErrSheetsDisabled
	}

	tab := s.cfg.PlanRange
	if name, _, ok := strings.Cut(tab, "!"); ok {
		tab = name
	}

	if err := s.sheets.ClearRange(ctx, tab); err != nil {
		return fmt.Errorf("clear plan tab: %w", err)
	}
	if err := s.sheets.WriteRange(ctx, s.cfg.PlanRange, export.SheetRows(plan.Records)); err != nil {
		return fmt.Errorf("write plan tab: %w", err)
	}

	s.logger.Info("plan published", zap.String("plan_id", plan.ID), zap.String("range", s.cfg.PlanRange), zap.Int("records", len(plan.Records)))
	return nil
}

// Insights summarizes a plan in prose, falling back to a fixed message on failure.
func (s *Service) Insights(ctx context.Context, plan *Plan) string {
	return s.insights.Generate(ctx, plan.Summary, plan.Records, plan.Policy)
}

func (s *Service) build(records []models.StockRecord, policy models.Policy, source string) *Plan {
	balanced, summary := balancing.Balance(records, policy)

	plan := &Plan{
		ID:          s.newID(),
		GeneratedAt: s.now().UTC(),
		Policy:      policy,
		Summary:     summary,
		Records:     balanced,
	}

	s.logger.Info("plan computed",
		zap.String("plan_id", plan.ID),
		zap.String("source", source),
		zap.String("mode", string(policy.Mode)),
		zap.Int("items", summary.TotalItems),
		zap.Int("items_below_min", summary.ItemsBelowMin),
		zap.Int("po_qty", summary.TotalPOQty),
		zap.Int("po_by_sales", summary.TotalPOBySales))

	return plan
}
