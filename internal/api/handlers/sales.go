package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/eshaffer321/tcg-inventory-backend/internal/api/dto"
	"github.com/eshaffer321/tcg-inventory-backend/internal/application/service"
	"github.com/eshaffer321/tcg-inventory-backend/internal/domain/allocator"
	"github.com/eshaffer321/tcg-inventory-backend/internal/domain/ledger"
	"github.com/eshaffer321/tcg-inventory-backend/internal/domain/sale"
)

// SalesHandler handles pending and sold sale endpoints.
type SalesHandler struct {
	Base
	sales *service.SalesService
}

func NewSalesHandler(sales *service.SalesService) *SalesHandler {
	return &SalesHandler{sales: sales}
}

// ListPending handles GET /api/pending-sales.
func (h *SalesHandler) ListPending(w http.ResponseWriter, r *http.Request) {
	items, err := h.sales.ListPending()
	if err != nil {
		h.WriteError(w, http.StatusInternalServerError, dto.InternalError("failed to load pending sales"))
		return
	}
	h.WriteJSON(w, http.StatusOK, dto.SaleListResponse{Sales: items, Count: len(items)})
}

// ListSold handles GET /api/sold-items.
func (h *SalesHandler) ListSold(w http.ResponseWriter, r *http.Request) {
	items, err := h.sales.ListSold()
	if err != nil {
		h.WriteError(w, http.StatusInternalServerError, dto.InternalError("failed to load sold items"))
		return
	}
	h.WriteJSON(w, http.StatusOK, dto.SaleListResponse{Sales: items, Count: len(items)})
}

// CreatePending handles POST /api/pending-sales. The new sale is
// reconciled against inventory before it is stored.
func (h *SalesHandler) CreatePending(w http.ResponseWriter, r *http.Request) {
	var req dto.PendingSaleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.WriteError(w, http.StatusBadRequest, dto.BadRequestError("invalid request body"))
		return
	}
	if req.Name == "" {
		h.WriteError(w, http.StatusBadRequest, dto.ValidationError("name is required"))
		return
	}
	if req.Qty < 0 {
		h.WriteError(w, http.StatusBadRequest, dto.ValidationError("qty must not be negative"))
		return
	}

	qty := req.Qty
	if qty == 0 {
		qty = 1
	}
	rec := sale.Record{
		Name:       req.Name,
		Qty:        qty,
		Condition:  req.Condition,
		SoldPrice:  req.SoldPrice,
		Cost:       req.Cost,
		Platform:   sale.ParsePlatform(req.Platform),
		OrderID:    req.OrderID,
		OrderTotal: req.OrderTotal,
		SoldDate:   req.SoldDate,
		SetName:    req.SetName,
		CardNumber: req.CardNumber,
	}

	added, err := h.sales.AddPending(rec)
	if err != nil {
		h.WriteError(w, http.StatusInternalServerError, dto.InternalError("failed to save pending sale"))
		return
	}
	h.WriteJSON(w, http.StatusCreated, added)
}

// UpdatePending handles PUT /api/pending-sales/{id}.
func (h *SalesHandler) UpdatePending(w http.ResponseWriter, r *http.Request) {
	id, ok := h.saleID(w, r)
	if !ok {
		return
	}

	var req dto.UpdatePendingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.WriteError(w, http.StatusBadRequest, dto.BadRequestError("invalid request body"))
		return
	}
	if req.Qty != nil && *req.Qty < 0 {
		h.WriteError(w, http.StatusBadRequest, dto.ValidationError("qty must not be negative"))
		return
	}

	update := ledger.Update{
		Name:      req.Name,
		Qty:       req.Qty,
		SoldPrice: req.SoldPrice,
		Cost:      req.Cost,
		SoldDate:  req.SoldDate,
	}
	if req.Platform != nil {
		platform := sale.ParsePlatform(*req.Platform)
		update.Platform = &platform
	}

	updated, err := h.sales.UpdatePending(id, update)
	if err != nil {
		h.writeLedgerError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, updated)
}

// DeletePending handles DELETE /api/pending-sales/{id}.
func (h *SalesHandler) DeletePending(w http.ResponseWriter, r *http.Request) {
	id, ok := h.saleID(w, r)
	if !ok {
		return
	}
	if err := h.sales.DeletePending(id); err != nil {
		h.writeLedgerError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, dto.MessageResponse{Message: "pending sale deleted"})
}

// Confirm handles POST /api/pending-sales/{id}/confirm.
func (h *SalesHandler) Confirm(w http.ResponseWriter, r *http.Request) {
	id, ok := h.saleID(w, r)
	if !ok {
		return
	}

	req := dto.ConfirmSaleRequest{UpdateInventory: true}
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			h.WriteError(w, http.StatusBadRequest, dto.BadRequestError("invalid request body"))
			return
		}
	}

	confirmed, err := h.sales.Confirm(id, req.UpdateInventory)
	if err != nil {
		h.writeLedgerError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, confirmed)
}

// MatchAll handles POST /api/pending-sales/match. It re-runs reconciliation
// over every unmatched pending sale.
func (h *SalesHandler) MatchAll(w http.ResponseWriter, r *http.Request) {
	sales, newMatches, err := h.sales.MatchAll()
	if err != nil {
		h.WriteError(w, http.StatusInternalServerError, dto.InternalError("failed to match pending sales"))
		return
	}
	h.WriteJSON(w, http.StatusOK, dto.MatchResponse{
		Sales:      sales,
		NewMatches: newMatches,
		Count:      len(sales),
	})
}

// AllocateOrder handles POST /api/orders/{orderID}/allocate.
func (h *SalesHandler) AllocateOrder(w http.ResponseWriter, r *http.Request) {
	orderID := chi.URLParam(r, "orderID")
	if orderID == "" {
		h.WriteError(w, http.StatusBadRequest, dto.BadRequestError("order id is required"))
		return
	}

	items, err := h.sales.AllocateOrder(orderID)
	if err != nil {
		switch {
		case errors.Is(err, ledger.ErrNotFound):
			h.WriteError(w, http.StatusNotFound, dto.NotFoundError("order"))
		case errors.Is(err, allocator.ErrNoOrderTotal), errors.Is(err, allocator.ErrNoItems):
			h.WriteError(w, http.StatusBadRequest, dto.BadRequestError(err.Error()))
		default:
			h.WriteError(w, http.StatusInternalServerError, dto.InternalError("failed to allocate order"))
		}
		return
	}
	h.WriteJSON(w, http.StatusOK, dto.AllocateResponse{
		OrderID: orderID,
		Items:   items,
		Count:   len(items),
	})
}

func (h *SalesHandler) saleID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		h.WriteError(w, http.StatusBadRequest, dto.BadRequestError("invalid sale id"))
		return 0, false
	}
	return id, true
}

func (h *SalesHandler) writeLedgerError(w http.ResponseWriter, err error) {
	if errors.Is(err, ledger.ErrNotFound) {
		h.WriteError(w, http.StatusNotFound, dto.NotFoundError("pending sale"))
		return
	}
	h.WriteError(w, http.StatusInternalServerError, dto.InternalError("failed to update pending sale"))
}
