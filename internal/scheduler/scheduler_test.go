package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ROTRMO/Sugeridos-Tienda-Vargas/internal/config"
	"github.com/ROTRMO/Sugeridos-Tienda-Vargas/internal/domain/models"
	"github.com/ROTRMO/Sugeridos-Tienda-Vargas/internal/service/planning"
)

type fakeRunner struct {
	planErr    error
	publishErr error
	published  bool
}

func (f *fakeRunner) DefaultPolicy() models.Policy {
	return models.Policy{MinStore: 10, MaxStore: 50, MinWarehouse: 50, MaxWarehouse: 100, Mode: models.ModeMinMax}
}

func (f *fakeRunner) PlanFromSheet(_ context.Context, policy models.Policy) (*planning.Plan, error) {
	if f.planErr != nil {
		return nil, f.planErr
	}
	return &planning.Plan{
		ID:          "plan-7",
		GeneratedAt: time.Date(2024, 3, 4, 11, 0, 0, 0, time.UTC),
		Policy:      policy,
		Summary: models.BatchSummary{
			TotalItems:          3,
			TotalWarehouseStock: 130,
			TotalStore1Stock:    80,
			TotalStore2Stock:    65,
			TotalPOQty:          153,
			TotalPOBySales:      12,
			ItemsBelowMin:       1,
			BelowMinRate:        decimal.RequireFromString("33.3"),
		},
	}, nil
}

func (f *fakeRunner) PublishPlan(_ context.Context, _ *planning.Plan) error {
	f.published = f.publishErr == nil
	return f.publishErr
}

func (f *fakeRunner) Insights(_ context.Context, _ *planning.Plan) string {
	return "Reponer SKU-1 primero."
}

type fakeNotifier struct {
	err  error
	to   string
	body string
}

func (f *fakeNotifier) SendText(_ context.Context, to, body string) (string, error) {
	f.to, f.body = to, body
	return "wamid.1", f.err
}

func testConfig(recipient string) config.Config {
	return config.Config{
		Reporting: config.ReportingConfig{CronSchedule: "0 6 * * 1-6", Timezone: "UTC"},
		WhatsApp:  config.WhatsAppConfig{RecipientID: recipient},
	}
}

func TestRunOnce_SendsDigest(t *testing.T) {
	t.Parallel()

	runner := &fakeRunner{}
	notifier := &fakeNotifier{}
	s, err := NewScheduler(testConfig("573001234567"), runner, notifier, nil)
	require.NoError(t, err)

	require.NoError(t, s.RunOnce(context.Background()))

	assert.True(t, runner.published)
	assert.Equal(t, "573001234567", notifier.to)
	assert.Contains(t, notifier.body, "Plan de inventario 2024-03-04")
	assert.Contains(t, notifier.body, "Bajo minimo: 1 (33.3%)")
	assert.Contains(t, notifier.body, "Sugerido compra: 153 | Sugerido por ventas: 12")
	assert.Contains(t, notifier.body, "Reponer SKU-1 primero.")
}

func TestRunOnce_WithoutNotifier(t *testing.T) {
	t.Parallel()

	runner := &fakeRunner{}
	s, err := NewScheduler(testConfig(""), runner, nil, nil)
	require.NoError(t, err)

	require.NoError(t, s.RunOnce(context.Background()))
	assert.True(t, runner.published)
}

func TestRunOnce_Errors(t *testing.T) {
	t.Parallel()

	boom := errors.New("boom")

	tests := []struct {
		name     string
		runner   *fakeRunner
		notifier *fakeNotifier
		wantMsg  string
	}{
		{name: "plan", runner: &fakeRunner{planErr: boom}, notifier: &fakeNotifier{}, wantMsg: "build plan"},
		{name: "publish", runner: &fakeRunner{publishErr: boom}, notifier: &fakeNotifier{}, wantMsg: "publish plan"},
		{name: "notify", runner: &fakeRunner{}, notifier: &fakeNotifier{err: boom}, wantMsg: "send plan digest"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			s, err := NewScheduler(testConfig("573001234567"), tt.runner, tt.notifier, nil)
			require.NoError(t, err)

			err = s.RunOnce(context.Background())
			require.ErrorIs(t, err, boom)
			assert.ErrorContains(t, err, tt.wantMsg)
		})
	}
}

func TestNewScheduler_InvalidTimezone(t *testing.T) {
	t.Parallel()

	cfg := testConfig("")
	cfg.Reporting.Timezone = "Mars/Olympus"

	_, err := NewScheduler(cfg, &fakeRunner{}, nil, nil)
	assert.Error(t, err)
}

func TestStart_InvalidSchedule(t *testing.T) {
	t.Parallel()

	cfg := testConfig("")
	cfg.Reporting.CronSchedule = "every morning"

	s, err := NewScheduler(cfg, &fakeRunner{}, nil, nil)
	require.NoError(t, err)
	assert.Error(t, s.Start())
}
