package insights

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ROTRMO/Sugeridos-Tienda-Vargas/internal/domain/models"
	"github.com/ROTRMO/Sugeridos-Tienda-Vargas/internal/service/balancing"
)

type stubClient struct {
	text   string
	err    error
	prompt string
}

func (s *stubClient) Complete(_ context.Context, _, prompt string) (string, error) {
	s.prompt = prompt
	return s.text, s.err
}

func batch() ([]models.BalancedRecord, models.BatchSummary, models.Policy) {
	policy := models.Policy{MinStore: 10, MaxStore: 50, MinWarehouse: 20, MaxWarehouse: 100, Mode: models.ModeMinMax}
	records, summary := balancing.Balance([]models.StockRecord{
		{ID: "SKU-1", Description: "Cuaderno", WarehouseQty: 30, Store1Qty: 5, Store2Qty: 12, Total3MonthSales: 40},
		{ID: "SKU-2", Description: "Lapiz", WarehouseQty: 100, Store1Qty: 50, Store2Qty: 50},
	}, policy)
	return records, summary, policy
}

func TestGenerate(t *testing.T) {
	t.Parallel()

	records, summary, policy := batch()
	client := &stubClient{text: "  - Todo en orden  "}

	got := NewService(client, nil).Generate(context.Background(), summary, records, policy)

	assert.Equal(t, "- Todo en orden", got)
	assert.Contains(t, client.prompt, "Total SKUs: 2")
	assert.Contains(t, client.prompt, "Cuaderno (ID: SKU-1)")
	assert.Contains(t, client.prompt, "Total PO=153")
	assert.Contains(t, client.prompt, "50.0%")
}

func TestGenerate_FailsClosed(t *testing.T) {
	t.Parallel()

	records, summary, policy := batch()

	tests := []struct {
		name    string
		service *Service
	}{
		{name: "no client", service: NewService(nil, nil)},
		{name: "client error", service: NewService(&stubClient{err: errors.New("timeout")}, nil)},
		{name: "blank answer", service: NewService(&stubClient{text: "   "}, nil)},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, FallbackMessage, tt.service.Generate(context.Background(), summary, records, policy))
		})
	}
}

func TestBuildPrompt_MinOnlyOmitsMaximums(t *testing.T) {
	t.Parallel()

	prompt := BuildPrompt(models.BatchSummary{}, nil, models.Policy{MinStore: 3, MinWarehouse: 9, Mode: models.ModeMinOnly})

	assert.NotContains(t, prompt, "Maximum Stock Target")
	assert.Contains(t, prompt, "(3 for Bodegas, 9 for CEDI)")
	assert.Contains(t, prompt, "Top 0 Critical Items")
}
