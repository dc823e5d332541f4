package handlers

import (
	"net/http"

	"github.com/eshaffer321/tcg-inventory-backend/internal/api/dto"
	"github.com/eshaffer321/tcg-inventory-backend/internal/infrastructure/storage"
)

// InventoryHandler serves the current inventory snapshot.
type InventoryHandler struct {
	Base
	storage storage.Repository
}

func NewInventoryHandler(store storage.Repository) *InventoryHandler {
	return &InventoryHandler{storage: store}
}

// List returns the latest snapshot with quantity-weighted ask and
// market totals.
func (h *InventoryHandler) List(w http.ResponseWriter, r *http.Request) {
	items, err := h.storage.GetInventory()
	if err != nil {
		h.WriteError(w, http.StatusInternalServerError, dto.InternalError("failed to load inventory"))
		return
	}

	var totals dto.InventoryTotals
	for _, item := range items {
		totals.Ask += item.Price * float64(item.Qty)
		totals.Market += item.Market * float64(item.Qty)
	}
	totals.Delta = totals.Ask - totals.Market

	h.WriteJSON(w, http.StatusOK, dto.InventoryResponse{
		Items:  items,
		Totals: totals,
		Count:  len(items),
	})
}
