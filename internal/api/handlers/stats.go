package handlers

import (
	"net/http"

	"github.com/eshaffer321/tcg-inventory-backend/internal/api/dto"
	"github.com/eshaffer321/tcg-inventory-backend/internal/infrastructure/storage"
)

// StatsHandler serves aggregate inventory and sales statistics.
type StatsHandler struct {
	Base
	storage storage.Repository
}

func NewStatsHandler(store storage.Repository) *StatsHandler {
	return &StatsHandler{storage: store}
}

// Get handles GET /api/stats.
func (h *StatsHandler) Get(w http.ResponseWriter, r *http.Request) {
	stats, err := h.storage.GetStats()
	if err != nil {
		h.WriteError(w, http.StatusInternalServerError, dto.InternalError("failed to compute stats"))
		return
	}
	h.WriteJSON(w, http.StatusOK, stats)
}
