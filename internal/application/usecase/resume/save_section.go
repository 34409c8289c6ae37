package resume

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/niyatisanja0206/resume-builder/internal/domain/resume"
	"github.com/niyatisanja0206/resume-builder/internal/domain/session"
	"github.com/niyatisanja0206/resume-builder/pkg/apperror"
	"github.com/niyatisanja0206/resume-builder/pkg/logger"
)

const defaultResumeTitle = "Untitled Resume"

// SaveSectionUseCase commits one section of a resume. The per-user lock
// serializes the "which resume id is active" resolution, so two sections
// saved concurrently before either response lands still target a single
// draft instead of each creating one.
type SaveSectionUseCase struct {
	resumeRepo resume.Repository
	sessions   session.Store
	resolver   *ResolveUseCase
	statsCache StatsInvalidator
	logger     logger.Logger

	mu        sync.Mutex
	userLocks map[string]*sync.Mutex
}

func NewSaveSectionUseCase(
	repo resume.Repository,
	sessions session.Store,
	resolver *ResolveUseCase,
	statsCache StatsInvalidator,
	log logger.Logger,
) *SaveSectionUseCase {
	return &SaveSectionUseCase{
		resumeRepo: repo,
		sessions:   sessions,
		resolver:   resolver,
		statsCache: statsCache,
		logger:     log,
		userLocks:  make(map[string]*sync.Mutex),
	}
}

func (uc *SaveSectionUseCase) userLock(email string) *sync.Mutex {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	l, ok := uc.userLocks[email]
	if !ok {
		l = &sync.Mutex{}
		uc.userLocks[email] = l
	}
	return l
}

type SaveSectionInput struct {
	UserEmail string
	Section   resume.SectionName
	Data      json.RawMessage
	// ResumeID, when set by the caller, pins the target document and
	// supersedes the stored active selection.
	ResumeID *uuid.UUID
}

type SaveSectionOutput struct {
	ResumeID uuid.UUID
	Created  bool
}

// Execute is a single attempt: no retry, and a failed save leaves the
// active selection, the cached view, and the draft cache untouched.
func (uc *SaveSectionUseCase) Execute(ctx context.Context, input SaveSectionInput) (*SaveSectionOutput, error) {
	if input.UserEmail == "" {
		return nil, apperror.NewUnauthorized("no user for save", nil)
	}

	name, err := resume.ParseSectionName(string(input.Section))
	if err != nil {
		return nil, apperror.NewInvalidInput("unknown resume section", err)
	}
	if err := resume.ValidateSection(name, input.Data); err != nil {
		return nil, apperror.NewInvalidInput(err.Error(), err)
	}

	lock := uc.userLock(input.UserEmail)
	lock.Lock()
	defer lock.Unlock()

	targetID, created, err := uc.resolveTargetID(ctx, input)
	if err != nil {
		return nil, err
	}

	if err := uc.resumeRepo.SaveSection(ctx, targetID, input.UserEmail, name, input.Data); err != nil {
		return nil, err
	}

	// Ordering below is deliberate: the new active selection must be
	// persisted before any dependent read can observe the returned id.
	sel := session.Selection{ResumeID: &targetID}
	if err := uc.sessions.SetSelection(ctx, input.UserEmail, sel); err != nil {
		uc.logger.Error("saved section but failed to persist active selection", err,
			zap.String("user", input.UserEmail),
			zap.String("resume_id", targetID.String()))
		return nil, err
	}

	uc.resolver.OnSectionSaved(ctx, input.UserEmail, targetID, name, input.Data)

	if err := uc.statsCache.Delete(ctx, input.UserEmail); err != nil {
		uc.logger.Warn("failed to invalidate stats cache", zap.String("user", input.UserEmail), zap.Error(err))
	}

	// The draft entry is consumed by the save; dropping it is advisory.
	if err := uc.sessions.RemoveDraft(ctx, input.UserEmail, name); err != nil {
		uc.logger.Warn("failed to clear draft entry", zap.String("section", string(name)), zap.Error(err))
	}

	return &SaveSectionOutput{ResumeID: targetID, Created: created}, nil
}

// resolveTargetID holds the creation policy enforcing "at most one draft
// per user": explicit id, then active selection, then the user's current
// draft, and only when none of those exist a fresh document.
func (uc *SaveSectionUseCase) resolveTargetID(ctx context.Context, input SaveSectionInput) (uuid.UUID, bool, error) {
	if input.ResumeID != nil {
		return *input.ResumeID, false, nil
	}

	sel, err := uc.sessions.GetSelection(ctx, input.UserEmail)
	if err != nil {
		return uuid.Nil, false, err
	}
	if sel.ResumeID != nil {
		return *sel.ResumeID, false, nil
	}

	draft, err := uc.resumeRepo.FindCurrentDraft(ctx, input.UserEmail)
	if err == nil {
		return draft.ID, false, nil
	}
	if !apperror.IsNotFound(err) {
		return uuid.Nil, false, err
	}

	created, err := uc.resumeRepo.Create(ctx, input.UserEmail, defaultResumeTitle)
	if err != nil {
		return uuid.Nil, false, err
	}
	return created.ID, true, nil
}
