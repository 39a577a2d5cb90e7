package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/ROTRMO/Sugeridos-Tienda-Vargas/internal/config"
	"github.com/ROTRMO/Sugeridos-Tienda-Vargas/internal/domain/models"
	"github.com/ROTRMO/Sugeridos-Tienda-Vargas/internal/service/planning"
)

const runTimeout = 2 * time.Minute

// PlanRunner is what the scheduled refresh needs from the planning service.
type PlanRunner interface {
	DefaultPolicy() models.Policy
	PlanFromSheet(ctx context.Context, policy models.Policy) (*planning.Plan, error)
	PublishPlan(ctx context.Context, plan *planning.Plan) error
	Insights(ctx context.Context, plan *planning.Plan) string
}

// Notifier delivers the plan digest to an operator.
type Notifier interface {
	SendText(ctx context.Context, to, body string) (string, error)
}

// Scheduler periodically rebuilds the plan from the inventory sheet.
type Scheduler struct {
	cron      *cron.Cron
	runner    PlanRunner
	notifier  Notifier
	recipient string
	schedule  string
	logger    *zap.Logger
}

// NewScheduler creates a scheduler running in the configured timezone.
// notifier may be nil, in which case digests are only logged.
func NewScheduler(cfg config.Config, runner PlanRunner, notifier Notifier, logger *zap.Logger) (*Scheduler, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	loc, err := cfg.Reporting.Location()
	if err != nil {
		return nil, fmt.Errorf("load scheduler timezone: %w", err)
	}

	return &Scheduler{
		cron:      cron.New(cron.WithLocation(loc)),
		runner:    runner,
		notifier:  notifier,
		recipient: cfg.WhatsApp.RecipientID,
		schedule:  cfg.Reporting.CronSchedule,
		logger:    logger,
	}, nil
}

// Start registers the refresh job and starts the cron loop.
func (s *Scheduler) Start() error {
	if _, err := s.cron.AddFunc(s.schedule, s.refreshPlan); err != nil {
		return fmt.Errorf("schedule plan refresh %q: %w", s.schedule, err)
	}

	s.logger.Info("starting scheduler", zap.String("schedule", s.schedule))
	s.cron.Start()
	return nil
}

// Stop stops the scheduler and waits for a running job to finish.
func (s *Scheduler) Stop() {
	s.logger.Info("stopping scheduler")
	<-s.cron.Stop().Done()
}

func (s *Scheduler) refreshPlan() {
	ctx, cancel := context.WithTimeout(context.Background(), runTimeout)
	defer cancel()

	if err := s.RunOnce(ctx); err != nil {
		s.logger.Error("scheduled plan refresh failed", zap.Error(err))
	}
}

// RunOnce balances the sheet inventory, republishes the plan tab and sends the digest.
func (s *Scheduler) RunOnce(ctx context.Context) error {
	plan, err := s.runner.PlanFromSheet(ctx, s.runner.DefaultPolicy())
	if err != nil {
		return fmt.Errorf("build plan: %w", err)
	}

	if err := s.runner.PublishPlan(ctx, plan); err != nil {
		return fmt.Errorf("publish plan: %w", err)
	}

	digest := Digest(plan, s.runner.Insights(ctx, plan))

	if s.notifier == nil || s.recipient == "" {
		s.logger.Info("plan digest ready, no recipient configured", zap.String("plan_id", plan.ID))
		return nil
	}

	if _, err := s.notifier.SendText(ctx, s.recipient, digest); err != nil {
		return fmt.Errorf("send plan digest: %w", err)
	}

	s.logger.Info("plan digest sent", zap.String("plan_id", plan.ID))
	return nil
}

// Digest renders a short text summary of a plan followed by the AI insights.
func Digest(plan *planning.Plan, insights string) string {
	sum := plan.Summary
	return fmt.Sprintf(
		"Plan de inventario %s\nSKUs: %d | Bajo minimo: %d (%s%%)\nStock CEDI: %d | Bodega 1: %d | Bodega 2: %d\nSugerido compra: %d | Sugerido por ventas: %d\n\n%s",
		plan.GeneratedAt.Format("2006-01-02"),
		sum.TotalItems, sum.ItemsBelowMin, sum.BelowMinRate.StringFixed(1),
		sum.TotalWarehouseStock, sum.TotalStore1Stock, sum.TotalStore2Stock,
		sum.TotalPOQty, sum.TotalPOBySales,
		insights,
	)
}
