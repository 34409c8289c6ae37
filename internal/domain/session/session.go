package session

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"

	"github.com/niyatisanja0206/resume-builder/internal/domain/resume"
)

// Selection is the client's notion of which resume id subsequent reads and
// writes apply to. It is transient: cleared on logout, set on explicit edit
// or create, superseded whenever a save allocates a new id.
type Selection struct {
	ResumeID *uuid.UUID `json:"resume_id"`
	IsNew    bool       `json:"is_new"`
}

// Store holds all per-user session state outside the durable store: the
// active selection plus the per-section draft cache. Everything here is
// advisory and is purged together on logout.
type Store interface {
	GetSelection(ctx context.Context, userEmail string) (Selection, error)
	SetSelection(ctx context.Context, userEmail string, sel Selection) error
	ClearSelection(ctx context.Context, userEmail string) error

	// PutDraft stores unsaved form state for one section. Drafts have no
	// expiry; they live until consumed by a save or purged.
	PutDraft(ctx context.Context, userEmail string, name resume.SectionName, data json.RawMessage) error
	// GetDraft returns nil data when no draft exists for the section.
	GetDraft(ctx context.Context, userEmail string, name resume.SectionName) (json.RawMessage, error)
	AllDrafts(ctx context.Context, userEmail string) (map[resume.SectionName]json.RawMessage, error)
	RemoveDraft(ctx context.Context, userEmail string, name resume.SectionName) error

	// Purge drops every session entry for the user: selection and drafts.
	Purge(ctx context.Context, userEmail string) error
}
