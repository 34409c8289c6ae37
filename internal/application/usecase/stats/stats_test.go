package stats

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/niyatisanja0206/resume-builder/adapters/event"
	"github.com/niyatisanja0206/resume-builder/internal/domain/resume"
	"github.com/niyatisanja0206/resume-builder/pkg/logger"
)

// fakeStatsRepo stubs only the repository methods the stats use cases
// touch; anything else panics via the nil embedded interface.
type fakeStatsRepo struct {
	resume.Repository

	mu             sync.Mutex
	stats          resume.Stats
	statsCalls     int
	incrementCalls int
	incrementErr   error
	lastID         *uuid.UUID
}

func (f *fakeStatsRepo) StatsByUser(ctx context.Context, userEmail string) (*resume.Stats, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.statsCalls++
	copied := f.stats
	return &copied, nil
}

func (f *fakeStatsRepo) IncrementDownloadCount(ctx context.Context, userEmail string, id *uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.incrementCalls++
	f.lastID = id
	if f.incrementErr != nil {
		return f.incrementErr
	}
	f.stats.ResumeDownloaded++
	return nil
}

type memStatsCache struct {
	mu      sync.Mutex
	entries map[string]*resume.Stats
	deletes int
}

func newMemStatsCache() *memStatsCache {
	return &memStatsCache{entries: make(map[string]*resume.Stats)}
}

func (c *memStatsCache) Get(ctx context.Context, userEmail string) (*resume.Stats, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.entries[userEmail], nil
}

func (c *memStatsCache) Set(ctx context.Context, userEmail string, s *resume.Stats) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[userEmail] = s
	return nil
}

func (c *memStatsCache) Delete(ctx context.Context, userEmail string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, userEmail)
	c.deletes++
	return nil
}

type capturePublisher struct {
	mu       sync.Mutex
	payloads []event.DownloadEventPayload
	err      error
}

func (p *capturePublisher) PublishDownloadEvent(ctx context.Context, payload event.DownloadEventPayload) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.payloads = append(p.payloads, payload)
	return p.err
}

func TestGetStats_ReadsThroughAndPopulatesCache(t *testing.T) {
	repo := &fakeStatsRepo{stats: resume.Stats{NoOfResumes: 2, ResumeDownloaded: 5}}
	cache := newMemStatsCache()
	uc := NewGetStatsUseCase(repo, cache, logger.NewNop())

	got, err := uc.Execute(context.Background(), "dana@b.com")
	require.NoError(t, err)
	assert.Equal(t, 2, got.NoOfResumes)
	assert.Equal(t, 5, got.ResumeDownloaded)
	assert.Equal(t, 1, repo.statsCalls)

	_, err = uc.Execute(context.Background(), "dana@b.com")
	require.NoError(t, err)
	assert.Equal(t, 1, repo.statsCalls)
}

func TestIncrementDownload_CompletedMovesCounterAndInvalidates(t *testing.T) {
	repo := &fakeStatsRepo{}
	cache := newMemStatsCache()
	publisher := &capturePublisher{}
	uc := NewIncrementDownloadUseCase(repo, cache, publisher, logger.NewNop())

	id := uuid.New()
	err := uc.Execute(context.Background(), IncrementDownloadInput{
		UserEmail:  "dana@b.com",
		ResumeID:   &id,
		TemplateID: "classic",
		Completed:  true,
	})

	require.NoError(t, err)
	assert.Equal(t, 1, repo.incrementCalls)
	require.NotNil(t, repo.lastID)
	assert.Equal(t, id, *repo.lastID)
	assert.Equal(t, 1, cache.deletes)

	require.Len(t, publisher.payloads, 1)
	assert.True(t, publisher.payloads[0].Completed)
	assert.Equal(t, "classic", publisher.payloads[0].TemplateID)
}

func TestIncrementDownload_AttemptPublishesWithoutCounting(t *testing.T) {
	repo := &fakeStatsRepo{}
	cache := newMemStatsCache()
	publisher := &capturePublisher{}
	uc := NewIncrementDownloadUseCase(repo, cache, publisher, logger.NewNop())

	err := uc.Execute(context.Background(), IncrementDownloadInput{
		UserEmail:  "dana@b.com",
		TemplateID: "modern",
		Completed:  false,
	})

	require.NoError(t, err)
	assert.Zero(t, repo.incrementCalls)
	assert.Zero(t, cache.deletes)
	require.Len(t, publisher.payloads, 1)
	assert.False(t, publisher.payloads[0].Completed)
}

func TestIncrementDownload_PublisherFailureIsBestEffort(t *testing.T) {
	repo := &fakeStatsRepo{}
	uc := NewIncrementDownloadUseCase(repo, newMemStatsCache(), &capturePublisher{err: errors.New("broker down")}, logger.NewNop())

	err := uc.Execute(context.Background(), IncrementDownloadInput{
		UserEmail: "dana@b.com",
		Completed: true,
	})

	assert.NoError(t, err)
	assert.Equal(t, 1, repo.incrementCalls)
}

func TestIncrementDownload_StoreFailurePropagates(t *testing.T) {
	repo := &fakeStatsRepo{incrementErr: errors.New("write timeout")}
	uc := NewIncrementDownloadUseCase(repo, newMemStatsCache(), &capturePublisher{}, logger.NewNop())

	err := uc.Execute(context.Background(), IncrementDownloadInput{
		UserEmail: "dana@b.com",
		Completed: true,
	})

	assert.Error(t, err)
}

func TestIncrementDownload_NilPublisher(t *testing.T) {
	repo := &fakeStatsRepo{}
	uc := NewIncrementDownloadUseCase(repo, newMemStatsCache(), nil, logger.NewNop())

	err := uc.Execute(context.Background(), IncrementDownloadInput{
		UserEmail: "dana@b.com",
		Completed: true,
	})

	assert.NoError(t, err)
}
