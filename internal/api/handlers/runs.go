package handlers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/eshaffer321/tcg-inventory-backend/internal/api/dto"
	"github.com/eshaffer321/tcg-inventory-backend/internal/infrastructure/storage"
)

// RunsHandler serves the sync run history.
type RunsHandler struct {
	Base
	storage storage.Repository
}

func NewRunsHandler(store storage.Repository) *RunsHandler {
	return &RunsHandler{storage: store}
}

// List handles GET /api/runs.
func (h *RunsHandler) List(w http.ResponseWriter, r *http.Request) {
	limit := ParseIntParam(r, "limit", 20)
	if limit <= 0 || limit > 100 {
		limit = 20
	}

	runs, err := h.storage.ListSyncRuns(limit)
	if err != nil {
		h.WriteError(w, http.StatusInternalServerError, dto.InternalError("failed to load sync runs"))
		return
	}
	h.WriteJSON(w, http.StatusOK, dto.SyncRunListResponse{Runs: runs, Count: len(runs)})
}

// Get handles GET /api/runs/{id}.
func (h *RunsHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		h.WriteError(w, http.StatusBadRequest, dto.BadRequestError("invalid run id"))
		return
	}

	run, err := h.storage.GetSyncRun(id)
	if err != nil {
		h.WriteError(w, http.StatusInternalServerError, dto.InternalError("failed to load sync run"))
		return
	}
	if run == nil {
		h.WriteError(w, http.StatusNotFound, dto.NotFoundError("sync run"))
		return
	}
	h.WriteJSON(w, http.StatusOK, run)
}
