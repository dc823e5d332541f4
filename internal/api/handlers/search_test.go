package handlers_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eshaffer321/tcg-inventory-backend/internal/adapters/providers"
	"github.com/eshaffer321/tcg-inventory-backend/internal/adapters/providers/tcgplayer"
	"github.com/eshaffer321/tcg-inventory-backend/internal/api/dto"
	"github.com/eshaffer321/tcg-inventory-backend/internal/api/handlers"
)

type fakeSearcher struct {
	results   []providers.ProductResult
	err       error
	lastGame  string
	lastQuery string
	calls     int
}

func (f *fakeSearcher) SearchProducts(_ context.Context, game, query string) ([]providers.ProductResult, error) {
	f.calls++
	f.lastGame = game
	f.lastQuery = query
	return f.results, f.err
}

func TestSearchHandler(t *testing.T) {
	t.Run("returns results and caches repeats", func(t *testing.T) {
		searcher := &fakeSearcher{results: []providers.ProductResult{
			{ProductID: "517003", Name: "Mew ex", Market: 6.50},
		}}
		handler := handlers.NewSearchHandler(tcgplayer.NewSearchCache(searcher))

		req := httptest.NewRequest(http.MethodGet, "/api/search-products?q=mew+ex", nil)
		rec := httptest.NewRecorder()
		handler.Search(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)

		var response dto.SearchResponse
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&response))
		assert.Equal(t, 1, response.Count)
		assert.False(t, response.Cached)
		assert.Equal(t, "517003", response.Results[0].ProductID)

		// Same query again comes from the cache.
		rec = httptest.NewRecorder()
		handler.Search(rec, httptest.NewRequest(http.MethodGet, "/api/search-products?q=mew+ex", nil))

		require.NoError(t, json.NewDecoder(rec.Body).Decode(&response))
		assert.True(t, response.Cached)
		assert.Equal(t, 1, searcher.calls)
	})

	t.Run("defaults game to pokemon", func(t *testing.T) {
		searcher := &fakeSearcher{}
		handler := handlers.NewSearchHandler(tcgplayer.NewSearchCache(searcher))

		rec := httptest.NewRecorder()
		handler.Search(rec, httptest.NewRequest(http.MethodGet, "/api/search-products?q=charizard", nil))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "pokemon", searcher.lastGame)
		assert.Equal(t, "charizard", searcher.lastQuery)
	})

	t.Run("missing query returns 400", func(t *testing.T) {
		handler := handlers.NewSearchHandler(tcgplayer.NewSearchCache(&fakeSearcher{}))

		rec := httptest.NewRecorder()
		handler.Search(rec, httptest.NewRequest(http.MethodGet, "/api/search-products", nil))

		assert.Equal(t, http.StatusBadRequest, rec.Code)

		var response dto.APIError
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&response))
		assert.Equal(t, dto.ErrCodeValidation, response.Code)
	})

	t.Run("upstream failure returns 502", func(t *testing.T) {
		searcher := &fakeSearcher{err: errors.New("scraper down")}
		handler := handlers.NewSearchHandler(tcgplayer.NewSearchCache(searcher))

		rec := httptest.NewRecorder()
		handler.Search(rec, httptest.NewRequest(http.MethodGet, "/api/search-products?q=mew", nil))

		assert.Equal(t, http.StatusBadGateway, rec.Code)
	})
}
