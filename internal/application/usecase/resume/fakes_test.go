package resume

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/niyatisanja0206/resume-builder/internal/domain/resume"
	"github.com/niyatisanja0206/resume-builder/internal/domain/session"
	"github.com/niyatisanja0206/resume-builder/pkg/apperror"
)

func selectionFor(id uuid.UUID) session.Selection {
	return session.Selection{ResumeID: &id}
}

// fakeRepo is an in-memory resume.Repository. Error fields, when set,
// override the happy path for the matching method.
type fakeRepo struct {
	mu      sync.Mutex
	docs    map[uuid.UUID]*resume.Resume
	created []uuid.UUID

	findByIDCalls     int
	findCurrentCalls  int
	saveSectionCalls  int
	createCalls       int

	findErr   error
	saveErr   error
	createErr error

	// fetchGate, when set, is closed-waited inside Find* so tests can
	// hold a fetch open while other goroutines pile up behind it.
	fetchGate chan struct{}
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{docs: make(map[uuid.UUID]*resume.Resume)}
}

func (f *fakeRepo) put(doc *resume.Resume) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.docs[doc.ID] = doc
}

func (f *fakeRepo) gate() {
	f.mu.Lock()
	gate := f.fetchGate
	f.mu.Unlock()
	if gate != nil {
		<-gate
	}
}

func (f *fakeRepo) Create(ctx context.Context, userEmail, title string) (*resume.Resume, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.createCalls++
	if f.createErr != nil {
		return nil, f.createErr
	}
	doc := &resume.Resume{
		ID:        uuid.New(),
		UserEmail: userEmail,
		Title:     title,
		Status:    resume.StatusDraft,
		CreatedAt: time.Now().UTC(),
		UpdatedAt: time.Now().UTC(),
	}
	f.docs[doc.ID] = doc
	f.created = append(f.created, doc.ID)
	return doc, nil
}

func (f *fakeRepo) FindByID(ctx context.Context, id uuid.UUID, userEmail string) (*resume.Resume, error) {
	f.gate()
	f.mu.Lock()
	defer f.mu.Unlock()
	f.findByIDCalls++
	if f.findErr != nil {
		return nil, f.findErr
	}
	doc, ok := f.docs[id]
	if !ok || doc.UserEmail != userEmail {
		return nil, apperror.NewNotFound("resume", id.String())
	}
	copied := *doc
	return &copied, nil
}

func (f *fakeRepo) FindCurrentDraft(ctx context.Context, userEmail string) (*resume.Resume, error) {
	f.gate()
	f.mu.Lock()
	defer f.mu.Unlock()
	f.findCurrentCalls++
	if f.findErr != nil {
		return nil, f.findErr
	}
	var latest *resume.Resume
	for _, doc := range f.docs {
		if doc.UserEmail != userEmail || doc.Status != resume.StatusDraft {
			continue
		}
		if latest == nil || doc.UpdatedAt.After(latest.UpdatedAt) {
			latest = doc
		}
	}
	if latest == nil {
		return nil, apperror.NewNotFound("resume", userEmail)
	}
	copied := *latest
	return &copied, nil
}

func (f *fakeRepo) SaveSection(ctx context.Context, id uuid.UUID, userEmail string, name resume.SectionName, data json.RawMessage) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.saveSectionCalls++
	if f.saveErr != nil {
		return f.saveErr
	}
	doc, ok := f.docs[id]
	if !ok || doc.UserEmail != userEmail {
		return apperror.NewNotFound("resume", id.String())
	}
	return doc.ApplySection(name, data)
}

func (f *fakeRepo) ListByUser(ctx context.Context, userEmail string) ([]*resume.Resume, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]*resume.Resume, 0)
	for _, doc := range f.docs {
		if doc.UserEmail == userEmail {
			copied := *doc
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (f *fakeRepo) Delete(ctx context.Context, id uuid.UUID, userEmail string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	doc, ok := f.docs[id]
	if !ok || doc.UserEmail != userEmail {
		return apperror.NewNotFound("resume", id.String())
	}
	delete(f.docs, id)
	return nil
}

func (f *fakeRepo) DeleteAllByUser(ctx context.Context, userEmail string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for id, doc := range f.docs {
		if doc.UserEmail == userEmail {
			delete(f.docs, id)
		}
	}
	return nil
}

func (f *fakeRepo) IncrementDownloadCount(ctx context.Context, userEmail string, id *uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if id != nil {
		if doc, ok := f.docs[*id]; ok {
			doc.DownloadCount++
		}
		return nil
	}
	for _, doc := range f.docs {
		if doc.UserEmail == userEmail {
			doc.DownloadCount++
			return nil
		}
	}
	return nil
}

func (f *fakeRepo) StatsByUser(ctx context.Context, userEmail string) (*resume.Stats, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	stats := &resume.Stats{}
	for _, doc := range f.docs {
		if doc.UserEmail == userEmail {
			stats.NoOfResumes++
			stats.ResumeDownloaded += doc.DownloadCount
		}
	}
	return stats, nil
}

// fakeSessions is an in-memory session.Store.
type fakeSessions struct {
	mu         sync.Mutex
	selections map[string]session.Selection
	drafts     map[string]map[resume.SectionName]json.RawMessage

	selectionErr error
}

func newFakeSessions() *fakeSessions {
	return &fakeSessions{
		selections: make(map[string]session.Selection),
		drafts:     make(map[string]map[resume.SectionName]json.RawMessage),
	}
}

func (f *fakeSessions) GetSelection(ctx context.Context, userEmail string) (session.Selection, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.selectionErr != nil {
		return session.Selection{}, f.selectionErr
	}
	return f.selections[userEmail], nil
}

func (f *fakeSessions) SetSelection(ctx context.Context, userEmail string, sel session.Selection) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.selectionErr != nil {
		return f.selectionErr
	}
	f.selections[userEmail] = sel
	return nil
}

func (f *fakeSessions) ClearSelection(ctx context.Context, userEmail string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.selections, userEmail)
	return nil
}

func (f *fakeSessions) PutDraft(ctx context.Context, userEmail string, name resume.SectionName, data json.RawMessage) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.drafts[userEmail] == nil {
		f.drafts[userEmail] = make(map[resume.SectionName]json.RawMessage)
	}
	f.drafts[userEmail][name] = data
	return nil
}

func (f *fakeSessions) GetDraft(ctx context.Context, userEmail string, name resume.SectionName) (json.RawMessage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.drafts[userEmail][name], nil
}

func (f *fakeSessions) AllDrafts(ctx context.Context, userEmail string) (map[resume.SectionName]json.RawMessage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make(map[resume.SectionName]json.RawMessage, len(f.drafts[userEmail]))
	for name, data := range f.drafts[userEmail] {
		out[name] = data
	}
	return out, nil
}

func (f *fakeSessions) RemoveDraft(ctx context.Context, userEmail string, name resume.SectionName) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.drafts[userEmail], name)
	return nil
}

func (f *fakeSessions) Purge(ctx context.Context, userEmail string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.selections, userEmail)
	delete(f.drafts, userEmail)
	return nil
}

// fakeDocCache is an in-memory DocumentCache.
type fakeDocCache struct {
	mu   sync.Mutex
	docs map[string]*resume.Resume
}

func newFakeDocCache() *fakeDocCache {
	return &fakeDocCache{docs: make(map[string]*resume.Resume)}
}

func (f *fakeDocCache) Get(ctx context.Context, key string) (*resume.Resume, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	doc, ok := f.docs[key]
	if !ok {
		return nil, nil
	}
	copied := *doc
	return &copied, nil
}

func (f *fakeDocCache) Set(ctx context.Context, key string, doc *resume.Resume) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	copied := *doc
	f.docs[key] = &copied
	return nil
}

func (f *fakeDocCache) Delete(ctx context.Context, keys ...string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, key := range keys {
		delete(f.docs, key)
	}
	return nil
}

type fakeStatsCache struct {
	mu      sync.Mutex
	deletes []string
}

func (f *fakeStatsCache) Delete(ctx context.Context, userEmail string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deletes = append(f.deletes, userEmail)
	return nil
}
