package auth

import (
	"context"

	"go.uber.org/zap"

	"github.com/niyatisanja0206/resume-builder/internal/domain/resume"
	"github.com/niyatisanja0206/resume-builder/internal/domain/session"
	"github.com/niyatisanja0206/resume-builder/internal/domain/user"
	"github.com/niyatisanja0206/resume-builder/pkg/apperror"
	"github.com/niyatisanja0206/resume-builder/pkg/logger"
)

// ConfirmDeletePhrase must be sent verbatim with an account deletion.
// The destructive call is refused without it.
const ConfirmDeletePhrase = "DELETE"

type DeleteAccountUseCase struct {
	userRepo   user.Repository
	resumeRepo resume.Repository
	sessions   session.Store
	logger     logger.Logger
}

func NewDeleteAccountUseCase(
	userRepo user.Repository,
	resumeRepo resume.Repository,
	sessions session.Store,
	log logger.Logger,
) *DeleteAccountUseCase {
	return &DeleteAccountUseCase{
		userRepo:   userRepo,
		resumeRepo: resumeRepo,
		sessions:   sessions,
		logger:     log,
	}
}

type DeleteAccountInput struct {
	UserEmail string
	Confirm   string
}

func (uc *DeleteAccountUseCase) Execute(ctx context.Context, input DeleteAccountInput) error {
	if input.Confirm != ConfirmDeletePhrase {
		return apperror.NewInvalidInput("account deletion requires confirmation", nil)
	}

	if err := uc.resumeRepo.DeleteAllByUser(ctx, input.UserEmail); err != nil {
		return err
	}
	if err := uc.userRepo.Delete(ctx, input.UserEmail); err != nil {
		return err
	}
	if err := uc.sessions.Purge(ctx, input.UserEmail); err != nil {
		uc.logger.Warn("account deleted but session purge failed", zap.String("user", input.UserEmail), zap.Error(err))
	}

	uc.logger.Info("account deleted", zap.String("user", input.UserEmail))
	return nil
}
