package resume

import (
	"context"

	"go.uber.org/zap"

	"github.com/niyatisanja0206/resume-builder/internal/domain/resume"
	"github.com/niyatisanja0206/resume-builder/internal/domain/session"
	"github.com/niyatisanja0206/resume-builder/pkg/logger"
)

type NewResumeUseCase struct {
	resumeRepo resume.Repository
	sessions   session.Store
	resolver   *ResolveUseCase
	statsCache StatsInvalidator
	logger     logger.Logger
}

func NewNewResumeUseCase(
	repo resume.Repository,
	sessions session.Store,
	resolver *ResolveUseCase,
	statsCache StatsInvalidator,
	log logger.Logger,
) *NewResumeUseCase {
	return &NewResumeUseCase{
		resumeRepo: repo,
		sessions:   sessions,
		resolver:   resolver,
		statsCache: statsCache,
		logger:     log,
	}
}

type NewResumeInput struct {
	UserEmail string
	Title     string
}

type NewResumeOutput struct {
	Resume *resume.Resume
}

// Execute allocates a fresh draft and makes it the active selection.
func (uc *NewResumeUseCase) Execute(ctx context.Context, input NewResumeInput) (*NewResumeOutput, error) {
	title := input.Title
	if title == "" {
		title = defaultResumeTitle
	}

	created, err := uc.resumeRepo.Create(ctx, input.UserEmail, title)
	if err != nil {
		return nil, err
	}

	id := created.ID
	if err := uc.sessions.SetSelection(ctx, input.UserEmail, session.Selection{ResumeID: &id, IsNew: true}); err != nil {
		return nil, err
	}

	if err := uc.resolver.MarkStale(ctx, input.UserEmail, &id); err != nil {
		uc.logger.Warn("failed to invalidate resume cache after create", zap.Error(err))
	}
	if err := uc.statsCache.Delete(ctx, input.UserEmail); err != nil {
		uc.logger.Warn("failed to invalidate stats cache after create", zap.Error(err))
	}

	return &NewResumeOutput{Resume: created}, nil
}
