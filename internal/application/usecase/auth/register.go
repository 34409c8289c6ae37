package auth

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/niyatisanja0206/resume-builder/internal/domain/user"
	"github.com/niyatisanja0206/resume-builder/pkg/apperror"
	"github.com/niyatisanja0206/resume-builder/pkg/auth"
	"github.com/niyatisanja0206/resume-builder/pkg/logger"
)

type RegisterUseCase struct {
	userRepo user.Repository
	jwtSvc   *auth.JWTService
	logger   logger.Logger
}

func NewRegisterUseCase(repo user.Repository, jwtSvc *auth.JWTService, log logger.Logger) *RegisterUseCase {
	return &RegisterUseCase{
		userRepo: repo,
		jwtSvc:   jwtSvc,
		logger:   log,
	}
}

type RegisterInput struct {
	Email    string
	Password string
	Name     string
}

type RegisterOutput struct {
	AccessToken string
	User        *user.User
}

func (uc *RegisterUseCase) Execute(ctx context.Context, input RegisterInput) (*RegisterOutput, error) {
	email := strings.TrimSpace(strings.ToLower(input.Email))
	if email == "" || !strings.Contains(email, "@") {
		return nil, apperror.NewInvalidInput("a valid email is required", nil)
	}
	if len(input.Password) < 8 {
		return nil, apperror.NewInvalidInput("password must be at least 8 characters", nil)
	}

	hash, err := auth.HashPassword(input.Password)
	if err != nil {
		return nil, apperror.NewInternal("failed to hash password", err)
	}

	u := &user.User{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: hash,
	}
	if input.Name != "" {
		name := input.Name
		u.Name = &name
	}

	if err := uc.userRepo.Create(ctx, u); err != nil {
		return nil, err
	}

	token, err := uc.jwtSvc.GenerateToken(u.ID, u.Email)
	if err != nil {
		return nil, apperror.NewInternal("failed to generate token", err)
	}

	return &RegisterOutput{AccessToken: token, User: u}, nil
}
