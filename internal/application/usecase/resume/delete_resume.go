package resume

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/niyatisanja0206/resume-builder/internal/domain/resume"
	"github.com/niyatisanja0206/resume-builder/internal/domain/session"
	"github.com/niyatisanja0206/resume-builder/pkg/logger"
)

type DeleteResumeUseCase struct {
	resumeRepo resume.Repository
	sessions   session.Store
	resolver   *ResolveUseCase
	statsCache StatsInvalidator
	logger     logger.Logger
}

func NewDeleteResumeUseCase(
	repo resume.Repository,
	sessions session.Store,
	resolver *ResolveUseCase,
	statsCache StatsInvalidator,
	log logger.Logger,
) *DeleteResumeUseCase {
	return &DeleteResumeUseCase{
		resumeRepo: repo,
		sessions:   sessions,
		resolver:   resolver,
		statsCache: statsCache,
		logger:     log,
	}
}

type DeleteResumeInput struct {
	UserEmail string
	ResumeID  uuid.UUID
}

func (uc *DeleteResumeUseCase) Execute(ctx context.Context, input DeleteResumeInput) error {
	if err := uc.resumeRepo.Delete(ctx, input.ResumeID, input.UserEmail); err != nil {
		return err
	}

	// If the deleted document was the active selection, drop it so later
	// saves do not target a ghost id.
	sel, err := uc.sessions.GetSelection(ctx, input.UserEmail)
	if err == nil && sel.ResumeID != nil && *sel.ResumeID == input.ResumeID {
		if err := uc.sessions.ClearSelection(ctx, input.UserEmail); err != nil {
			uc.logger.Warn("failed to clear selection after delete", zap.Error(err))
		}
	}

	if err := uc.resolver.MarkStale(ctx, input.UserEmail, &input.ResumeID); err != nil {
		uc.logger.Warn("failed to invalidate resume cache after delete", zap.Error(err))
	}
	if err := uc.statsCache.Delete(ctx, input.UserEmail); err != nil {
		uc.logger.Warn("failed to invalidate stats cache after delete", zap.Error(err))
	}
	return nil
}
