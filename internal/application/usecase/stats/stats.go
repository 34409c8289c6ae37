package stats

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/niyatisanja0206/resume-builder/adapters/event"
	"github.com/niyatisanja0206/resume-builder/internal/domain/resume"
	"github.com/niyatisanja0206/resume-builder/pkg/logger"
)

// Cache is the short-TTL cache in front of the statistics view.
type Cache interface {
	Get(ctx context.Context, userEmail string) (*resume.Stats, error)
	Set(ctx context.Context, userEmail string, s *resume.Stats) error
	Delete(ctx context.Context, userEmail string) error
}

type DownloadPublisher interface {
	PublishDownloadEvent(ctx context.Context, payload event.DownloadEventPayload) error
}

type GetStatsUseCase struct {
	resumeRepo resume.Repository
	cache      Cache
	logger     logger.Logger
}

func NewGetStatsUseCase(repo resume.Repository, cache Cache, log logger.Logger) *GetStatsUseCase {
	return &GetStatsUseCase{resumeRepo: repo, cache: cache, logger: log}
}

func (uc *GetStatsUseCase) Execute(ctx context.Context, userEmail string) (*resume.Stats, error) {
	if cached, err := uc.cache.Get(ctx, userEmail); err == nil && cached != nil {
		return cached, nil
	}

	stats, err := uc.resumeRepo.StatsByUser(ctx, userEmail)
	if err != nil {
		return nil, err
	}

	if err := uc.cache.Set(ctx, userEmail, stats); err != nil {
		uc.logger.Warn("failed to populate stats cache", zap.String("user", userEmail), zap.Error(err))
	}
	return stats, nil
}

// IncrementDownloadUseCase records a completed or attempted download.
// Only completions move the document's download counter; attempts from a
// degraded export still publish an event so the funnel stays observable.
type IncrementDownloadUseCase struct {
	resumeRepo resume.Repository
	cache      Cache
	publisher  DownloadPublisher
	logger     logger.Logger
}

func NewIncrementDownloadUseCase(repo resume.Repository, cache Cache, publisher DownloadPublisher, log logger.Logger) *IncrementDownloadUseCase {
	return &IncrementDownloadUseCase{
		resumeRepo: repo,
		cache:      cache,
		publisher:  publisher,
		logger:     log,
	}
}

type IncrementDownloadInput struct {
	UserEmail  string
	ResumeID   *uuid.UUID
	TemplateID string
	Completed  bool
}

func (uc *IncrementDownloadUseCase) Execute(ctx context.Context, input IncrementDownloadInput) error {
	if input.Completed {
		if err := uc.resumeRepo.IncrementDownloadCount(ctx, input.UserEmail, input.ResumeID); err != nil {
			return err
		}
		if err := uc.cache.Delete(ctx, input.UserEmail); err != nil {
			uc.logger.Warn("failed to invalidate stats cache", zap.String("user", input.UserEmail), zap.Error(err))
		}
	}

	if uc.publisher != nil {
		payload := event.DownloadEventPayload{
			UserEmail:  input.UserEmail,
			ResumeID:   input.ResumeID,
			TemplateID: input.TemplateID,
			Completed:  input.Completed,
		}
		if err := uc.publisher.PublishDownloadEvent(ctx, payload); err != nil {
			// Best effort: the download itself must not fail on a broker
			// hiccup.
			uc.logger.Warn("failed to publish download event", zap.String("user", input.UserEmail), zap.Error(err))
		}
	}
	return nil
}
