package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/eshaffer321/tcg-inventory-backend/internal/api/dto"
	"github.com/eshaffer321/tcg-inventory-backend/internal/application/service"
)

// SyncHandler handles sync trigger and job status endpoints.
type SyncHandler struct {
	Base
	syncService *service.SyncService
}

func NewSyncHandler(syncService *service.SyncService) *SyncHandler {
	return &SyncHandler{syncService: syncService}
}

// Start handles POST /api/sync. An empty body starts a live sync.
func (h *SyncHandler) Start(w http.ResponseWriter, r *http.Request) {
	var req dto.StartSyncRequest
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			h.WriteError(w, http.StatusBadRequest, dto.BadRequestError("invalid request body"))
			return
		}
	}

	jobID, err := h.syncService.StartSync(r.Context(), req.DryRun)
	if err != nil {
		var cooldownErr *service.CooldownError
		switch {
		case errors.As(err, &cooldownErr):
			h.WriteError(w, http.StatusTooManyRequests,
				dto.CooldownError(cooldownErr.Error(), cooldownErr.RemainingSeconds()))
		case errors.Is(err, service.ErrSyncRunning):
			h.WriteError(w, http.StatusConflict,
				dto.NewAPIError(dto.ErrCodeConflict, "a sync is already running"))
		default:
			h.WriteError(w, http.StatusInternalServerError, dto.InternalError("failed to start sync"))
		}
		return
	}

	h.WriteJSON(w, http.StatusAccepted, dto.StartSyncResponse{
		JobID:  jobID,
		Status: string(service.StatusPending),
	})
}

// List handles GET /api/sync. With ?active=true only running and
// pending jobs are returned.
func (h *SyncHandler) List(w http.ResponseWriter, r *http.Request) {
	var jobs []*service.SyncJob
	if ParseBoolParam(r, "active", false) {
		jobs = h.syncService.ListActiveSyncJobs()
	} else {
		jobs = h.syncService.ListAllSyncJobs()
	}

	resp := dto.SyncJobListResponse{Jobs: make([]dto.SyncJobResponse, 0, len(jobs))}
	for _, job := range jobs {
		resp.Jobs = append(resp.Jobs, toSyncJobResponse(job))
	}
	resp.Count = len(resp.Jobs)
	h.WriteJSON(w, http.StatusOK, resp)
}

// Get handles GET /api/sync/{jobId}.
func (h *SyncHandler) Get(w http.ResponseWriter, r *http.Request) {
	jobID := chi.URLParam(r, "jobId")
	job, err := h.syncService.GetSyncJob(jobID)
	if err != nil {
		h.WriteError(w, http.StatusNotFound, dto.NotFoundError("sync job"))
		return
	}
	h.WriteJSON(w, http.StatusOK, toSyncJobResponse(job))
}

// Cancel handles DELETE /api/sync/{jobId}.
func (h *SyncHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	jobID := chi.URLParam(r, "jobId")
	if err := h.syncService.CancelSync(jobID); err != nil {
		h.WriteError(w, http.StatusNotFound, dto.NewAPIError(dto.ErrCodeNotFound, err.Error()))
		return
	}
	h.WriteJSON(w, http.StatusOK, dto.MessageResponse{Message: "sync job cancelled"})
}

func toSyncJobResponse(job *service.SyncJob) dto.SyncJobResponse {
	resp := dto.SyncJobResponse{
		JobID:     job.ID,
		Status:    string(job.Status),
		DryRun:    job.DryRun,
		StartedAt: job.StartedAt.Format(time.RFC3339),
		Progress: dto.SyncProgressResponse{
			CurrentPhase:  job.Progress.CurrentPhase,
			ItemsFound:    job.Progress.ItemsFound,
			SalesDetected: job.Progress.SalesDetected,
			LastUpdate:    job.Progress.LastUpdate.Format(time.RFC3339),
		},
	}
	if job.CompletedAt != nil {
		completed := job.CompletedAt.Format(time.RFC3339)
		resp.CompletedAt = &completed
	}
	if job.Result != nil {
		resp.Result = &dto.SyncResultResponse{
			RunID:         job.Result.RunID,
			ItemsFound:    job.Result.ItemsFound,
			SalesDetected: job.Result.SalesDetected,
			PriceChanges:  job.Result.PriceChanges,
			TotalValue:    job.Result.TotalValue,
		}
	}
	if job.Error != nil {
		errMsg := job.Error.Error()
		resp.Error = &errMsg
	}
	return resp
}
