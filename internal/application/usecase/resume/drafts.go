package resume

import (
	"context"
	"encoding/json"

	"github.com/niyatisanja0206/resume-builder/internal/domain/resume"
	"github.com/niyatisanja0206/resume-builder/internal/domain/session"
	"github.com/niyatisanja0206/resume-builder/pkg/apperror"
)

// DraftUseCase stages unsaved form state per section. Entries never
// expire on their own: they are consumed by a successful save of that
// section or purged wholesale.
type DraftUseCase struct {
	sessions session.Store
}

func NewDraftUseCase(sessions session.Store) *DraftUseCase {
	return &DraftUseCase{sessions: sessions}
}

func (uc *DraftUseCase) Put(ctx context.Context, userEmail, sectionName string, data json.RawMessage) error {
	name, err := resume.ParseSectionName(sectionName)
	if err != nil {
		return apperror.NewInvalidInput("unknown resume section", err)
	}
	if !json.Valid(data) {
		return apperror.NewInvalidInput("draft payload is not valid JSON", nil)
	}
	return uc.sessions.PutDraft(ctx, userEmail, name, data)
}

func (uc *DraftUseCase) Get(ctx context.Context, userEmail, sectionName string) (json.RawMessage, error) {
	name, err := resume.ParseSectionName(sectionName)
	if err != nil {
		return nil, apperror.NewInvalidInput("unknown resume section", err)
	}
	return uc.sessions.GetDraft(ctx, userEmail, name)
}

// PurgeTemporaryUseCase drops all unsaved state for a user: every draft
// entry plus the active selection.
type PurgeTemporaryUseCase struct {
	sessions session.Store
}

func NewPurgeTemporaryUseCase(sessions session.Store) *PurgeTemporaryUseCase {
	return &PurgeTemporaryUseCase{sessions: sessions}
}

func (uc *PurgeTemporaryUseCase) Execute(ctx context.Context, userEmail string) error {
	if userEmail == "" {
		return apperror.NewInvalidInput("userEmail is required", nil)
	}
	return uc.sessions.Purge(ctx, userEmail)
}
