package auth

import (
	"context"

	"go.uber.org/zap"

	"github.com/niyatisanja0206/resume-builder/internal/domain/session"
	"github.com/niyatisanja0206/resume-builder/pkg/logger"
)

// LogoutUseCase drops the user's whole session footprint: active resume
// selection and draft cache entries go together. The bearer token itself
// simply expires; there is no server-side token registry.
type LogoutUseCase struct {
	sessions session.Store
	logger   logger.Logger
}

func NewLogoutUseCase(sessions session.Store, log logger.Logger) *LogoutUseCase {
	return &LogoutUseCase{sessions: sessions, logger: log}
}

func (uc *LogoutUseCase) Execute(ctx context.Context, userEmail string) error {
	if err := uc.sessions.Purge(ctx, userEmail); err != nil {
		uc.logger.Error("failed to purge session state on logout", err, zap.String("user", userEmail))
		return err
	}
	return nil
}
