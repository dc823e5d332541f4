package handlers_test

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eshaffer321/tcg-inventory-backend/internal/api/dto"
	"github.com/eshaffer321/tcg-inventory-backend/internal/api/handlers"
	"github.com/eshaffer321/tcg-inventory-backend/internal/application/service"
	"github.com/eshaffer321/tcg-inventory-backend/internal/domain/card"
	"github.com/eshaffer321/tcg-inventory-backend/internal/domain/sale"
	"github.com/eshaffer321/tcg-inventory-backend/internal/infrastructure/storage"
)

func newSalesHandler(t *testing.T) (*handlers.SalesHandler, *storage.MockRepository) {
	t.Helper()
	repo := storage.NewMockRepository()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return handlers.NewSalesHandler(service.NewSalesService(repo, logger)), repo
}

func TestSalesHandler_ListPending(t *testing.T) {
	handler, repo := newSalesHandler(t)
	require.NoError(t, repo.SavePendingSales([]sale.Record{
		{ID: 1, Name: "Mew ex #151/165", Qty: 1, Platform: sale.PlatformTCGPlayer},
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/pending-sales", nil)
	rec := httptest.NewRecorder()

	handler.ListPending(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var response dto.SaleListResponse
	err := json.NewDecoder(rec.Body).Decode(&response)
	require.NoError(t, err)

	assert.Equal(t, 1, response.Count)
	assert.Equal(t, "Mew ex #151/165", response.Sales[0].Name)
}

func TestSalesHandler_CreatePending(t *testing.T) {
	t.Run("creates and reconciles against inventory", func(t *testing.T) {
		handler, repo := newSalesHandler(t)
		require.NoError(t, repo.ReplaceInventory([]card.Record{
			{Name: "Mew ex #151/165", CardNumber: "151/165", Qty: 2, Market: 6.50},
		}))

		body := `{"name":"Mew ex #151/165","qty":1,"sold_price":5.99,"platform":"TCGplayer"}`
		req := httptest.NewRequest(http.MethodPost, "/api/pending-sales", strings.NewReader(body))
		rec := httptest.NewRecorder()

		handler.CreatePending(rec, req)

		assert.Equal(t, http.StatusCreated, rec.Code)

		var created sale.Record
		err := json.NewDecoder(rec.Body).Decode(&created)
		require.NoError(t, err)

		assert.Equal(t, int64(1), created.ID)
		assert.Equal(t, sale.PlatformTCGPlayer, created.Platform)
		assert.True(t, created.Matched)
		assert.InDelta(t, 6.50, created.Market, 0.001)
	})

	t.Run("defaults qty to one", func(t *testing.T) {
		handler, _ := newSalesHandler(t)

		body := `{"name":"Pikachu","sold_price":1.00}`
		req := httptest.NewRequest(http.MethodPost, "/api/pending-sales", strings.NewReader(body))
		rec := httptest.NewRecorder()

		handler.CreatePending(rec, req)

		assert.Equal(t, http.StatusCreated, rec.Code)

		var created sale.Record
		err := json.NewDecoder(rec.Body).Decode(&created)
		require.NoError(t, err)
		assert.Equal(t, 1, created.Qty)
	})

	t.Run("rejects missing name", func(t *testing.T) {
		handler, _ := newSalesHandler(t)

		req := httptest.NewRequest(http.MethodPost, "/api/pending-sales", strings.NewReader(`{"qty":1}`))
		rec := httptest.NewRecorder()

		handler.CreatePending(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)

		var response dto.APIError
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&response))
		assert.Equal(t, dto.ErrCodeValidation, response.Code)
	})

	t.Run("rejects malformed body", func(t *testing.T) {
		handler, _ := newSalesHandler(t)

		req := httptest.NewRequest(http.MethodPost, "/api/pending-sales", strings.NewReader("{not json"))
		rec := httptest.NewRecorder()

		handler.CreatePending(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestSalesHandler_UpdatePending(t *testing.T) {
	t.Run("applies partial update", func(t *testing.T) {
		handler, repo := newSalesHandler(t)
		require.NoError(t, repo.SavePendingSales([]sale.Record{
			{ID: 1, Name: "Mew ex #151/165", Qty: 1, SoldPrice: 5.99},
		}))

		body := `{"sold_price":6.49,"platform":"ebay"}`
		req := httptest.NewRequest(http.MethodPut, "/api/pending-sales/1", strings.NewReader(body))
		req = req.WithContext(setChiURLParam(req.Context(), "id", "1"))
		rec := httptest.NewRecorder()

		handler.UpdatePending(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)

		var updated sale.Record
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&updated))
		assert.InDelta(t, 6.49, updated.SoldPrice, 0.001)
		assert.Equal(t, sale.PlatformEBay, updated.Platform)
		assert.Equal(t, "Mew ex #151/165", updated.Name)
	})

	t.Run("unknown id returns 404", func(t *testing.T) {
		handler, _ := newSalesHandler(t)

		req := httptest.NewRequest(http.MethodPut, "/api/pending-sales/99", strings.NewReader(`{"qty":2}`))
		req = req.WithContext(setChiURLParam(req.Context(), "id", "99"))
		rec := httptest.NewRecorder()

		handler.UpdatePending(rec, req)

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("invalid id returns 400", func(t *testing.T) {
		handler, _ := newSalesHandler(t)

		req := httptest.NewRequest(http.MethodPut, "/api/pending-sales/abc", strings.NewReader(`{}`))
		req = req.WithContext(setChiURLParam(req.Context(), "id", "abc"))
		rec := httptest.NewRecorder()

		handler.UpdatePending(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestSalesHandler_DeletePending(t *testing.T) {
	handler, repo := newSalesHandler(t)
	require.NoError(t, repo.SavePendingSales([]sale.Record{
		{ID: 1, Name: "Mew ex #151/165", Qty: 1},
	}))

	req := httptest.NewRequest(http.MethodDelete, "/api/pending-sales/1", nil)
	req = req.WithContext(setChiURLParam(req.Context(), "id", "1"))
	rec := httptest.NewRecorder()

	handler.DeletePending(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	pending, err := repo.GetPendingSales()
	require.NoError(t, err)
	assert.Empty(t, pending)
}

func TestSalesHandler_Confirm(t *testing.T) {
	t.Run("moves sale to sold ledger", func(t *testing.T) {
		handler, repo := newSalesHandler(t)
		require.NoError(t, repo.SavePendingSales([]sale.Record{
			{ID: 1, Name: "Mew ex #151/165", Qty: 1, SoldPrice: 5.99, Cost: 2.00, OrderID: "ORD-1"},
		}))

		req := httptest.NewRequest(http.MethodPost, "/api/pending-sales/1/confirm",
			strings.NewReader(`{"update_inventory":false}`))
		req = req.WithContext(setChiURLParam(req.Context(), "id", "1"))
		rec := httptest.NewRecorder()

		handler.Confirm(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)

		var confirmed sale.Record
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&confirmed))
		assert.True(t, confirmed.Confirmed)
		assert.InDelta(t, 3.99, confirmed.Profit, 0.001)

		sold, err := repo.GetSoldItems()
		require.NoError(t, err)
		assert.Len(t, sold, 1)
	})

	t.Run("empty body defaults to inventory update", func(t *testing.T) {
		handler, repo := newSalesHandler(t)
		require.NoError(t, repo.ReplaceInventory([]card.Record{
			{Name: "Mew ex #151/165", CardNumber: "151/165", Qty: 2},
		}))
		require.NoError(t, repo.SavePendingSales([]sale.Record{
			{ID: 1, Name: "Mew ex #151/165", Qty: 1, SoldPrice: 5.99},
		}))

		req := httptest.NewRequest(http.MethodPost, "/api/pending-sales/1/confirm", nil)
		req = req.WithContext(setChiURLParam(req.Context(), "id", "1"))
		rec := httptest.NewRecorder()

		handler.Confirm(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)

		items, err := repo.GetInventory()
		require.NoError(t, err)
		require.Len(t, items, 1)
		assert.Equal(t, 1, items[0].Qty)
	})

	t.Run("unknown id returns 404", func(t *testing.T) {
		handler, _ := newSalesHandler(t)

		req := httptest.NewRequest(http.MethodPost, "/api/pending-sales/42/confirm", nil)
		req = req.WithContext(setChiURLParam(req.Context(), "id", "42"))
		rec := httptest.NewRecorder()

		handler.Confirm(rec, req)

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestSalesHandler_MatchAll(t *testing.T) {
	handler, repo := newSalesHandler(t)
	require.NoError(t, repo.ReplaceInventory([]card.Record{
		{Name: "Mew ex #151/165", CardNumber: "151/165", Qty: 2, Market: 6.50},
	}))
	require.NoError(t, repo.SavePendingSales([]sale.Record{
		{ID: 1, Name: "Mew ex #151/165", Qty: 1},
		{ID: 2, Name: "Something Unrelated Entirely", Qty: 1},
	}))

	req := httptest.NewRequest(http.MethodPost, "/api/pending-sales/match", nil)
	rec := httptest.NewRecorder()

	handler.MatchAll(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var response dto.MatchResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&response))
	assert.Equal(t, 2, response.Count)
	assert.Equal(t, 1, response.NewMatches)
}

func TestSalesHandler_AllocateOrder(t *testing.T) {
	t.Run("allocates order total across items", func(t *testing.T) {
		handler, repo := newSalesHandler(t)
		require.NoError(t, repo.SavePendingSales([]sale.Record{
			{ID: 1, Name: "Mew ex #151/165", Qty: 1, OrderID: "ORD-1", OrderTotal: 10.00, Market: 3.00},
			{ID: 2, Name: "Pikachu #25/102", Qty: 1, OrderID: "ORD-1", OrderTotal: 10.00, Market: 7.00},
		}))

		req := httptest.NewRequest(http.MethodPost, "/api/orders/ORD-1/allocate", nil)
		req = req.WithContext(setChiURLParam(req.Context(), "orderID", "ORD-1"))
		rec := httptest.NewRecorder()

		handler.AllocateOrder(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)

		var response dto.AllocateResponse
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&response))
		assert.Equal(t, "ORD-1", response.OrderID)
		require.Len(t, response.Items, 2)
		assert.InDelta(t, 3.00, response.Items[0].SoldPrice, 0.001)
		assert.InDelta(t, 7.00, response.Items[1].SoldPrice, 0.001)
	})

	t.Run("unknown order returns 404", func(t *testing.T) {
		handler, _ := newSalesHandler(t)

		req := httptest.NewRequest(http.MethodPost, "/api/orders/NOPE/allocate", nil)
		req = req.WithContext(setChiURLParam(req.Context(), "orderID", "NOPE"))
		rec := httptest.NewRecorder()

		handler.AllocateOrder(rec, req)

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("order without total returns 400", func(t *testing.T) {
		handler, repo := newSalesHandler(t)
		require.NoError(t, repo.SavePendingSales([]sale.Record{
			{ID: 1, Name: "Mew ex #151/165", Qty: 1, OrderID: "ORD-2"},
		}))

		req := httptest.NewRequest(http.MethodPost, "/api/orders/ORD-2/allocate", nil)
		req = req.WithContext(setChiURLParam(req.Context(), "orderID", "ORD-2"))
		rec := httptest.NewRecorder()

		handler.AllocateOrder(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}
