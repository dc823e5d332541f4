package handlers

import (
	"net/http"
	"strings"

	"github.com/eshaffer321/tcg-inventory-backend/internal/adapters/providers/tcgplayer"
	"github.com/eshaffer321/tcg-inventory-backend/internal/api/dto"
)

// SearchHandler serves marketplace product search with a short-lived
// result cache in front of the upstream searcher.
type SearchHandler struct {
	Base
	cache *tcgplayer.SearchCache
}

func NewSearchHandler(cache *tcgplayer.SearchCache) *SearchHandler {
	return &SearchHandler{cache: cache}
}

// Search handles GET /api/search-products?q=&game=.
func (h *SearchHandler) Search(w http.ResponseWriter, r *http.Request) {
	query := strings.TrimSpace(r.URL.Query().Get("q"))
	if query == "" {
		h.WriteError(w, http.StatusBadRequest, dto.ValidationError("q is required"))
		return
	}
	game := strings.TrimSpace(r.URL.Query().Get("game"))
	if game == "" {
		game = "pokemon"
	}

	results, cached, err := h.cache.Search(r.Context(), game, query)
	if err != nil {
		h.WriteError(w, http.StatusBadGateway, dto.NewAPIError(dto.ErrCodeInternalError, "product search failed"))
		return
	}
	h.WriteJSON(w, http.StatusOK, dto.SearchResponse{
		Results: results,
		Cached:  cached,
		Count:   len(results),
	})
}
