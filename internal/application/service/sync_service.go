package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	appsync "github.com/eshaffer321/tcg-inventory-backend/internal/application/sync"
	"github.com/eshaffer321/tcg-inventory-backend/internal/infrastructure/config"
)

// SyncStatus represents the current state of a sync job.
type SyncStatus string

const (
	StatusPending   SyncStatus = "pending"
	StatusRunning   SyncStatus = "running"
	StatusCompleted SyncStatus = "completed"
	StatusFailed    SyncStatus = "failed"
	StatusCancelled SyncStatus = "cancelled"
)

// ErrSyncRunning is returned when a sync is started while another is
// still in flight.
var ErrSyncRunning = errors.New("sync already running")

// CooldownError is returned when a sync is requested too soon after
// the previous one started.
type CooldownError struct {
	Remaining time.Duration
}

func (e *CooldownError) Error() string {
	return fmt.Sprintf("sync on cooldown, retry in %ds", e.RemainingSeconds())
}

// RemainingSeconds rounds the remaining cooldown up to whole seconds.
func (e *CooldownError) RemainingSeconds() int {
	return int((e.Remaining + time.Second - 1) / time.Second)
}

// SyncProgress holds real-time progress information.
type SyncProgress struct {
	CurrentPhase  string
	ItemsFound    int
	SalesDetected int
	LastUpdate    time.Time
}

// SyncJob represents a running or completed sync job.
type SyncJob struct {
	ID          string
	Status      SyncStatus
	DryRun      bool
	StartedAt   time.Time
	CompletedAt *time.Time
	Progress    SyncProgress
	Result      *appsync.Result
	Error       error
	cancelFunc  context.CancelFunc
}

// SyncService manages background sync jobs. Only one sync runs at a
// time, and a new sync is rejected while the cooldown window since the
// previous start is still open.
type SyncService struct {
	cfg          *config.Config
	orchestrator *appsync.Orchestrator
	logger       *slog.Logger

	jobs      map[string]*SyncJob
	jobsMutex sync.RWMutex

	runLock sync.Mutex

	lastStartMu sync.Mutex
	lastStart   time.Time

	now func() time.Time
}

// NewSyncService creates a new sync service.
func NewSyncService(cfg *config.Config, orchestrator *appsync.Orchestrator, logger *slog.Logger) *SyncService {
	return &SyncService{
		cfg:          cfg,
		orchestrator: orchestrator,
		logger:       logger,
		jobs:         make(map[string]*SyncJob),
		now:          time.Now,
	}
}

// StartSync starts a new sync job asynchronously.
// The passed context is NOT used as the parent for the background job;
// jobs run under context.Background() so they survive the HTTP request
// that started them. Use CancelSync to cancel a running job.
func (s *SyncService) StartSync(_ context.Context, dryRun bool) (string, error) {
	if err := s.checkCooldown(); err != nil {
		return "", err
	}

	if !s.runLock.TryLock() {
		return "", ErrSyncRunning
	}

	s.lastStartMu.Lock()
	s.lastStart = s.now()
	s.lastStartMu.Unlock()

	jobID := uuid.NewString()
	jobCtx, cancel := context.WithCancel(context.Background())

	job := &SyncJob{
		ID:         jobID,
		Status:     StatusPending,
		DryRun:     dryRun,
		StartedAt:  s.now(),
		cancelFunc: cancel,
		Progress:   SyncProgress{CurrentPhase: "pending", LastUpdate: s.now()},
	}

	s.jobsMutex.Lock()
	s.jobs[jobID] = job
	s.jobsMutex.Unlock()

	go s.runSyncJob(jobCtx, job)

	s.logger.Info("sync job started", "job_id", jobID, "dry_run", dryRun)
	return jobID, nil
}

// CooldownRemaining returns how long until the next sync is allowed,
// zero when no cooldown is active.
func (s *SyncService) CooldownRemaining() time.Duration {
	s.lastStartMu.Lock()
	defer s.lastStartMu.Unlock()

	if s.lastStart.IsZero() {
		return 0
	}

	cooldown := time.Duration(s.cfg.Store.CooldownSeconds) * time.Second
	elapsed := s.now().Sub(s.lastStart)
	if elapsed >= cooldown {
		return 0
	}
	return cooldown - elapsed
}

func (s *SyncService) checkCooldown() error {
	if remaining := s.CooldownRemaining(); remaining > 0 {
		return &CooldownError{Remaining: remaining}
	}
	return nil
}

// GetSyncJob retrieves a sync job by ID.
func (s *SyncService) GetSyncJob(jobID string) (*SyncJob, error) {
	s.jobsMutex.RLock()
	defer s.jobsMutex.RUnlock()

	job, exists := s.jobs[jobID]
	if !exists {
		return nil, fmt.Errorf("job not found: %s", jobID)
	}
	return job, nil
}

// ListActiveSyncJobs returns all running or pending jobs.
func (s *SyncService) ListActiveSyncJobs() []*SyncJob {
	s.jobsMutex.RLock()
	defer s.jobsMutex.RUnlock()

	var active []*SyncJob
	for _, job := range s.jobs {
		if job.Status == StatusPending || job.Status == StatusRunning {
			active = append(active, job)
		}
	}
	return active
}

// ListAllSyncJobs returns all jobs (for debugging/monitoring).
func (s *SyncService) ListAllSyncJobs() []*SyncJob {
	s.jobsMutex.RLock()
	defer s.jobsMutex.RUnlock()

	jobs := make([]*SyncJob, 0, len(s.jobs))
	for _, job := range s.jobs {
		jobs = append(jobs, job)
	}
	return jobs
}

// CancelSync cancels a running sync job.
func (s *SyncService) CancelSync(jobID string) error {
	s.jobsMutex.Lock()
	defer s.jobsMutex.Unlock()

	job, exists := s.jobs[jobID]
	if !exists {
		return fmt.Errorf("job not found: %s", jobID)
	}

	if job.Status != StatusPending && job.Status != StatusRunning {
		return fmt.Errorf("job cannot be cancelled: status=%s", job.Status)
	}

	job.cancelFunc()
	job.Status = StatusCancelled
	now := s.now()
	job.CompletedAt = &now
	job.Progress.CurrentPhase = "cancelled"
	job.Progress.LastUpdate = now

	s.logger.Info("sync job cancelled", "job_id", jobID)
	return nil
}

// runSyncJob executes the sync job in a background goroutine.
func (s *SyncService) runSyncJob(ctx context.Context, job *SyncJob) {
	defer s.runLock.Unlock()

	s.updateJobStatus(job.ID, StatusRunning, "initializing")

	result, err := s.orchestrator.Run(ctx, appsync.Options{
		DryRun: job.DryRun,
		ProgressCallback: func(update appsync.ProgressUpdate) {
			s.updateJobProgress(job.ID, update)
		},
	})

	if err != nil {
		if ctx.Err() == context.Canceled {
			// Already marked as cancelled in CancelSync
			return
		}
		s.failJob(job.ID, err)
		return
	}

	s.completeJob(job.ID, result)
}

func (s *SyncService) updateJobStatus(jobID string, status SyncStatus, phase string) {
	s.jobsMutex.Lock()
	defer s.jobsMutex.Unlock()

	if job, exists := s.jobs[jobID]; exists {
		job.Status = status
		job.Progress.CurrentPhase = phase
		job.Progress.LastUpdate = s.now()
	}
}

func (s *SyncService) updateJobProgress(jobID string, update appsync.ProgressUpdate) {
	s.jobsMutex.Lock()
	defer s.jobsMutex.Unlock()

	if job, exists := s.jobs[jobID]; exists {
		job.Progress.CurrentPhase = update.Phase
		job.Progress.ItemsFound = update.ItemsFound
		job.Progress.SalesDetected = update.SalesDetected
		job.Progress.LastUpdate = s.now()
	}
}

func (s *SyncService) completeJob(jobID string, result *appsync.Result) {
	s.jobsMutex.Lock()
	defer s.jobsMutex.Unlock()

	if job, exists := s.jobs[jobID]; exists {
		now := s.now()
		job.Status = StatusCompleted
		job.CompletedAt = &now
		job.Result = result
		job.Progress.CurrentPhase = "completed"
		job.Progress.ItemsFound = result.ItemsFound
		job.Progress.SalesDetected = result.SalesDetected
		job.Progress.LastUpdate = now

		s.logger.Info("sync job completed",
			"job_id", jobID,
			"items", result.ItemsFound,
			"sales", result.SalesDetected,
			"price_changes", result.PriceChanges,
		)
	}
}

func (s *SyncService) failJob(jobID string, err error) {
	s.jobsMutex.Lock()
	defer s.jobsMutex.Unlock()

	if job, exists := s.jobs[jobID]; exists {
		now := s.now()
		job.Status = StatusFailed
		job.CompletedAt = &now
		job.Error = err
		job.Progress.CurrentPhase = "failed"
		job.Progress.LastUpdate = now

		s.logger.Error("sync job failed", "job_id", jobID, "error", err)
	}
}

// CleanupOldJobs removes finished jobs older than maxAge.
func (s *SyncService) CleanupOldJobs(maxAge time.Duration) int {
	s.jobsMutex.Lock()
	defer s.jobsMutex.Unlock()

	cutoff := s.now().Add(-maxAge)
	removed := 0

	for id, job := range s.jobs {
		switch job.Status {
		case StatusCompleted, StatusFailed, StatusCancelled:
			if job.CompletedAt != nil && job.CompletedAt.Before(cutoff) {
				delete(s.jobs, id)
				removed++
			}
		}
	}

	if removed > 0 {
		s.logger.Debug("cleaned up old sync jobs", "removed", removed)
	}
	return removed
}
