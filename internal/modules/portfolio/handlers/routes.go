package handlers

import (
	"github.com/go-chi/chi/v5"
)

// RegisterRoutes registers all portfolio routes
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/portfolio", func(r chi.Router) {
		r.Get("/holdings", h.HandleGetHoldings)     // Holdings with market values
		r.Get("/summary", h.HandleGetSummary)       // Portfolio summary
		r.Get("/allocation", h.HandleGetAllocation) // Per-asset allocation
	})
}
