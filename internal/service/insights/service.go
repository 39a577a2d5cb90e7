package insights

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/ROTRMO/Sugeridos-Tienda-Vargas/internal/domain/models"
	"github.com/ROTRMO/Sugeridos-Tienda-Vargas/internal/service/balancing"
	"github.com/ROTRMO/Sugeridos-Tienda-Vargas/pkg/clients/anthropic"
)

// FallbackMessage is shown whenever insights cannot be produced.
const FallbackMessage = "Unable to generate AI insights at this time. Please check your API key configuration."

const (
	criticalItemsInPrompt = 5
	systemPrompt          = "Act as an expert Supply Chain Analyst for a retail business with 2 Bodegas and 1 CEDI (Warehouse)."
)

// Service turns a balanced batch into an executive summary written by an LLM.
type Service struct {
	client anthropic.Client
	logger *zap.Logger
}

// NewService wires an insight generator. A nil client always yields FallbackMessage.
func NewService(client anthropic.Client, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{client: client, logger: logger}
}

// Generate never fails: any fault is logged and replaced by FallbackMessage.
func (s *Service) Generate(ctx context.Context, summary models.BatchSummary, records []models.BalancedRecord, policy models.Policy) string {
	if s.client == nil {
		s.logger.Warn("insights requested without ai client")
		return FallbackMessage
	}

	prompt := BuildPrompt(summary, balancing.CriticalItems(records, criticalItemsInPrompt), policy)

	text, err := s.client.Complete(ctx, systemPrompt, prompt)
	if err != nil {
		s.logger.Error("insight generation failed", zap.Error(err))
		return FallbackMessage
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return FallbackMessage
	}
	return text
}

// BuildPrompt renders the analyst prompt for a batch.
func BuildPrompt(summary models.BatchSummary, critical []models.BalancedRecord, policy models.Policy) string {
	var b strings.Builder

	b.WriteString("Analyze the following inventory situation.\n\n")

	b.WriteString("Configuration:\n")
	fmt.Fprintf(&b, "- Policy mode: %s\n", policy.Mode)
	fmt.Fprintf(&b, "- Minimum Stock Target per Bodega: %d units\n", policy.MinStore)
	fmt.Fprintf(&b, "- Minimum Stock Target for CEDI: %d units\n", policy.MinWarehouse)
	if policy.Mode == models.ModeMinMax {
		fmt.Fprintf(&b, "- Maximum Stock Target per Bodega: %d units\n", policy.MaxStore)
		fmt.Fprintf(&b, "- Maximum Stock Target for CEDI: %d units\n", policy.MaxWarehouse)
	}

	b.WriteString("\nCurrent Stats:\n")
	fmt.Fprintf(&b, "- Total SKUs: %d\n", summary.TotalItems)
	fmt.Fprintf(&b, "- Total CEDI Stock: %d\n", summary.TotalWarehouseStock)
	fmt.Fprintf(&b, "- Bodega 1 Total Stock: %d\n", summary.TotalStore1Stock)
	fmt.Fprintf(&b, "- Bodega 2 Total Stock: %d\n", summary.TotalStore2Stock)
	fmt.Fprintf(&b, "- Items with Bodega Deficits: %d (%s%%)\n", summary.ItemsBelowMin, summary.BelowMinRate.StringFixed(1))
	fmt.Fprintf(&b, "- Total Suggested Purchase Order Qty (min/max): %d\n", summary.TotalPOQty)
	fmt.Fprintf(&b, "- Total Suggested Purchase Order Qty (3-month sales coverage): %d\n", summary.TotalPOBySales)

	fmt.Fprintf(&b, "\nTop %d Critical Items (High PO Needs):\n", len(critical))
	for _, item := range critical {
		fmt.Fprintf(&b, "- %s (ID: %s): CEDI=%d, B1=%d, B2=%d, CEDI Deficit=%d, Total PO=%d, PO by Sales=%d\n",
			item.Description, item.ID, item.WarehouseQty, item.Store1Qty, item.Store2Qty,
			item.WarehouseDeficit, item.POQty, item.POBySales)
	}

	b.WriteString("\nPlease provide a concise, bulleted executive summary.\n")
	b.WriteString("1. Highlights of the inventory health.\n")
	b.WriteString("2. Specific actionable advice regarding stock balancing between Bodegas and CEDI replenishment.\n")
	fmt.Fprintf(&b, "3. Assessment of the current minimum stock levels (%d for Bodegas, %d for CEDI).\n", policy.MinStore, policy.MinWarehouse)
	b.WriteString("4. Urgency of the suggested purchase orders.\n\n")
	b.WriteString("Keep it professional and under 200 words.")

	return b.String()
}
