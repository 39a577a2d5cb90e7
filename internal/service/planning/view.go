package planning

import (
	"strings"

	"github.com/ROTRMO/Sugeridos-Tienda-Vargas/internal/domain/models"
)

// DefaultPageSize matches the rows shown per page in the plan table.
const DefaultPageSize = 50

// Query filters and paginates a plan for the table view.
type Query struct {
	Search   string
	Page     int
	PageSize int
}

// Page is one slice of the filtered plan.
type Page struct {
	Items      []models.BalancedRecord `json:"items"`
	Page       int                     `json:"page"`
	PageSize   int                     `json:"page_size"`
	TotalPages int                     `json:"total_pages"`
	TotalItems int                     `json:"total_items"`
}

// View applies a case-insensitive ID/description search and returns the
// requested page, clamped to the available range.
func View(records []models.BalancedRecord, q Query) Page {
	size := q.PageSize
	if size <= 0 {
		size = DefaultPageSize
	}

	filtered := records
	if term := strings.ToLower(strings.TrimSpace(q.Search)); term != "" {
		filtered = make([]models.BalancedRecord, 0, len(records))
		for _, r := range records {
			if strings.Contains(strings.ToLower(r.Description), term) || strings.Contains(strings.ToLower(r.ID), term) {
				filtered = append(filtered, r)
			}
		}
	}

	totalPages := (len(filtered) + size - 1) / size
	page := min(max(q.Page, 1), max(totalPages, 1))

	start := min((page-1)*size, len(filtered))
	end := min(start+size, len(filtered))

	return Page{
		Items:      filtered[start:end],
		Page:       page,
		PageSize:   size,
		TotalPages: totalPages,
		TotalItems: len(filtered),
	}
}
