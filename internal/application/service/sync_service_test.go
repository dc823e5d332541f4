package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eshaffer321/tcg-inventory-backend/internal/adapters/providers"
	appsync "github.com/eshaffer321/tcg-inventory-backend/internal/application/sync"
	"github.com/eshaffer321/tcg-inventory-backend/internal/domain/card"
	"github.com/eshaffer321/tcg-inventory-backend/internal/infrastructure/config"
	"github.com/eshaffer321/tcg-inventory-backend/internal/infrastructure/storage"
)

type fakeProvider struct {
	items []card.Record
	err   error
}

func (p *fakeProvider) Name() string { return "fake" }

func (p *fakeProvider) FetchInventory(_ context.Context) ([]card.Record, error) {
	return p.items, p.err
}

type blockingProvider struct {
	release chan struct{}
}

func (p *blockingProvider) Name() string { return "blocking" }

func (p *blockingProvider) FetchInventory(ctx context.Context) ([]card.Record, error) {
	select {
	case <-p.release:
		return nil, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.Store.CooldownSeconds = 60
	return cfg
}

func newTestSyncService(t *testing.T, provider providers.InventoryProvider) *SyncService {
	t.Helper()

	repo := storage.NewMockRepository()
	orch := appsync.NewOrchestrator(provider, nil, repo, nil, testLogger())
	return NewSyncService(testConfig(), orch, testLogger())
}

func waitForStatus(t *testing.T, svc *SyncService, jobID string, want SyncStatus) {
	t.Helper()

	require.Eventually(t, func() bool {
		job, err := svc.GetSyncJob(jobID)
		return err == nil && job.Status == want
	}, 2*time.Second, 5*time.Millisecond)
}

func TestStartSync_RunsToCompletion(t *testing.T) {
	svc := newTestSyncService(t, &fakeProvider{items: []card.Record{{Name: "A", Price: 1, Qty: 1}}})

	jobID, err := svc.StartSync(context.Background(), false)
	require.NoError(t, err)
	require.NotEmpty(t, jobID)

	waitForStatus(t, svc, jobID, StatusCompleted)

	job, err := svc.GetSyncJob(jobID)
	require.NoError(t, err)
	require.NotNil(t, job.Result)
	assert.Equal(t, 1, job.Result.ItemsFound)
	assert.Equal(t, "completed", job.Progress.CurrentPhase)
	assert.NotNil(t, job.CompletedAt)
}

func TestStartSync_CooldownRejectsSecondSync(t *testing.T) {
	svc := newTestSyncService(t, &fakeProvider{})

	current := time.Now()
	svc.now = func() time.Time { return current }

	jobID, err := svc.StartSync(context.Background(), false)
	require.NoError(t, err)
	waitForStatus(t, svc, jobID, StatusCompleted)

	_, err = svc.StartSync(context.Background(), false)
	require.Error(t, err)

	var cooldownErr *CooldownError
	require.ErrorAs(t, err, &cooldownErr)
	assert.Equal(t, 60, cooldownErr.RemainingSeconds())

	// Past the window the next sync is accepted again.
	current = current.Add(61 * time.Second)
	_, err = svc.StartSync(context.Background(), false)
	assert.NoError(t, err)
}

func TestStartSync_RejectsConcurrentSync(t *testing.T) {
	provider := &blockingProvider{release: make(chan struct{})}
	svc := newTestSyncService(t, provider)

	current := time.Now()
	svc.now = func() time.Time { return current }

	jobID, err := svc.StartSync(context.Background(), false)
	require.NoError(t, err)
	waitForStatus(t, svc, jobID, StatusRunning)

	// Move past the cooldown so only the run lock can reject.
	current = current.Add(61 * time.Second)

	_, err = svc.StartSync(context.Background(), false)
	assert.ErrorIs(t, err, ErrSyncRunning)

	close(provider.release)
	waitForStatus(t, svc, jobID, StatusCompleted)
}

func TestStartSync_FailedProvider(t *testing.T) {
	svc := newTestSyncService(t, &fakeProvider{err: errors.New("storefront unreachable")})

	jobID, err := svc.StartSync(context.Background(), false)
	require.NoError(t, err)

	waitForStatus(t, svc, jobID, StatusFailed)

	job, err := svc.GetSyncJob(jobID)
	require.NoError(t, err)
	require.Error(t, job.Error)
	assert.Contains(t, job.Error.Error(), "storefront unreachable")
}

func TestCancelSync(t *testing.T) {
	provider := &blockingProvider{release: make(chan struct{})}
	svc := newTestSyncService(t, provider)

	jobID, err := svc.StartSync(context.Background(), false)
	require.NoError(t, err)
	waitForStatus(t, svc, jobID, StatusRunning)

	require.NoError(t, svc.CancelSync(jobID))

	job, err := svc.GetSyncJob(jobID)
	require.NoError(t, err)
	assert.Equal(t, StatusCancelled, job.Status)

	// Cancelling twice is rejected.
	assert.Error(t, svc.CancelSync(jobID))
}

func TestCancelSync_UnknownJob(t *testing.T) {
	svc := newTestSyncService(t, &fakeProvider{})
	assert.Error(t, svc.CancelSync("no-such-job"))
}

func TestGetSyncJob_UnknownJob(t *testing.T) {
	svc := newTestSyncService(t, &fakeProvider{})
	_, err := svc.GetSyncJob("no-such-job")
	assert.Error(t, err)
}

func TestListActiveSyncJobs(t *testing.T) {
	provider := &blockingProvider{release: make(chan struct{})}
	svc := newTestSyncService(t, provider)

	jobID, err := svc.StartSync(context.Background(), false)
	require.NoError(t, err)
	waitForStatus(t, svc, jobID, StatusRunning)

	active := svc.ListActiveSyncJobs()
	require.Len(t, active, 1)
	assert.Equal(t, jobID, active[0].ID)

	close(provider.release)
	waitForStatus(t, svc, jobID, StatusCompleted)

	assert.Empty(t, svc.ListActiveSyncJobs())
	assert.Len(t, svc.ListAllSyncJobs(), 1)
}

func TestCleanupOldJobs(t *testing.T) {
	svc := newTestSyncService(t, &fakeProvider{})

	jobID, err := svc.StartSync(context.Background(), false)
	require.NoError(t, err)
	waitForStatus(t, svc, jobID, StatusCompleted)

	// Too young to clean.
	assert.Equal(t, 0, svc.CleanupOldJobs(time.Hour))

	svc.now = func() time.Time { return time.Now().Add(25 * time.Hour) }
	assert.Equal(t, 1, svc.CleanupOldJobs(24*time.Hour))
	assert.Empty(t, svc.ListAllSyncJobs())
}
