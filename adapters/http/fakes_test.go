package http

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/niyatisanja0206/resume-builder/adapters/event"
	"github.com/niyatisanja0206/resume-builder/internal/domain/resume"
	"github.com/niyatisanja0206/resume-builder/internal/domain/session"
	"github.com/niyatisanja0206/resume-builder/internal/domain/user"
	"github.com/niyatisanja0206/resume-builder/pkg/apperror"
)

type memResumeRepo struct {
	mu   sync.Mutex
	docs map[uuid.UUID]*resume.Resume
}

func newMemResumeRepo() *memResumeRepo {
	return &memResumeRepo{docs: make(map[uuid.UUID]*resume.Resume)}
}

func (m *memResumeRepo) Create(ctx context.Context, userEmail, title string) (*resume.Resume, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	doc := &resume.Resume{
		ID:        uuid.New(),
		UserEmail: userEmail,
		Title:     title,
		Status:    resume.StatusDraft,
		CreatedAt: time.Now().UTC(),
		UpdatedAt: time.Now().UTC(),
	}
	m.docs[doc.ID] = doc
	return doc, nil
}

func (m *memResumeRepo) FindByID(ctx context.Context, id uuid.UUID, userEmail string) (*resume.Resume, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	doc, ok := m.docs[id]
	if !ok || doc.UserEmail != userEmail {
		return nil, apperror.NewNotFound("resume", id.String())
	}
	copied := *doc
	return &copied, nil
}

func (m *memResumeRepo) FindCurrentDraft(ctx context.Context, userEmail string) (*resume.Resume, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var latest *resume.Resume
	for _, doc := range m.docs {
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

func (m *memResumeRepo) SaveSection(ctx context.Context, id uuid.UUID, userEmail string, name resume.SectionName, data json.RawMessage) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	doc, ok := m.docs[id]
	if !ok || doc.UserEmail != userEmail {
		return apperror.NewNotFound("resume", id.String())
	}
	return doc.ApplySection(name, data)
}

func (m *memResumeRepo) ListByUser(ctx context.Context, userEmail string) ([]*resume.Resume, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*resume.Resume, 0)
	for _, doc := range m.docs {
		if doc.UserEmail == userEmail {
			copied := *doc
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (m *memResumeRepo) Delete(ctx context.Context, id uuid.UUID, userEmail string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	doc, ok := m.docs[id]
	if !ok || doc.UserEmail != userEmail {
		return apperror.NewNotFound("resume", id.String())
	}
	delete(m.docs, id)
	return nil
}

func (m *memResumeRepo) DeleteAllByUser(ctx context.Context, userEmail string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, doc := range m.docs {
		if doc.UserEmail == userEmail {
			delete(m.docs, id)
		}
	}
	return nil
}

func (m *memResumeRepo) IncrementDownloadCount(ctx context.Context, userEmail string, id *uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if id != nil {
		if doc, ok := m.docs[*id]; ok {
			doc.DownloadCount++
		}
		return nil
	}
	for _, doc := range m.docs {
		if doc.UserEmail == userEmail {
			doc.DownloadCount++
			return nil
		}
	}
	return nil
}

func (m *memResumeRepo) StatsByUser(ctx context.Context, userEmail string) (*resume.Stats, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	stats := &resume.Stats{}
	for _, doc := range m.docs {
		if doc.UserEmail == userEmail {
			stats.NoOfResumes++
			stats.ResumeDownloaded += doc.DownloadCount
		}
	}
	return stats, nil
}

type memUserRepo struct {
	mu    sync.Mutex
	users map[string]*user.User
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{users: make(map[string]*user.User)}
}

func (m *memUserRepo) Create(ctx context.Context, u *user.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.users[u.Email]; exists {
		return apperror.NewConflict("user", "email", u.Email)
	}
	m.users[u.Email] = u
	return nil
}

func (m *memUserRepo) FindByEmail(ctx context.Context, email string) (*user.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[email]
	if !ok {
		return nil, apperror.NewNotFound("user", email)
	}
	return u, nil
}

func (m *memUserRepo) Delete(ctx context.Context, email string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.users, email)
	return nil
}

type memSessionStore struct {
	mu         sync.Mutex
	selections map[string]session.Selection
	drafts     map[string]map[resume.SectionName]json.RawMessage
}

func newMemSessionStore() *memSessionStore {
	return &memSessionStore{
		selections: make(map[string]session.Selection),
		drafts:     make(map[string]map[resume.SectionName]json.RawMessage),
	}
}

func (m *memSessionStore) GetSelection(ctx context.Context, userEmail string) (session.Selection, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.selections[userEmail], nil
}

func (m *memSessionStore) SetSelection(ctx context.Context, userEmail string, sel session.Selection) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.selections[userEmail] = sel
	return nil
}

func (m *memSessionStore) ClearSelection(ctx context.Context, userEmail string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.selections, userEmail)
	return nil
}

func (m *memSessionStore) PutDraft(ctx context.Context, userEmail string, name resume.SectionName, data json.RawMessage) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.drafts[userEmail] == nil {
		m.drafts[userEmail] = make(map[resume.SectionName]json.RawMessage)
	}
	m.drafts[userEmail][name] = data
	return nil
}

func (m *memSessionStore) GetDraft(ctx context.Context, userEmail string, name resume.SectionName) (json.RawMessage, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.drafts[userEmail][name], nil
}

func (m *memSessionStore) AllDrafts(ctx context.Context, userEmail string) (map[resume.SectionName]json.RawMessage, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(map[resume.SectionName]json.RawMessage, len(m.drafts[userEmail]))
	for name, data := range m.drafts[userEmail] {
		out[name] = data
	}
	return out, nil
}

func (m *memSessionStore) RemoveDraft(ctx context.Context, userEmail string, name resume.SectionName) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.drafts[userEmail], name)
	return nil
}

func (m *memSessionStore) Purge(ctx context.Context, userEmail string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.selections, userEmail)
	delete(m.drafts, userEmail)
	return nil
}

type memDocCache struct {
	mu   sync.Mutex
	docs map[string]*resume.Resume
}

func newMemDocCache() *memDocCache {
	return &memDocCache{docs: make(map[string]*resume.Resume)}
}

func (m *memDocCache) Get(ctx context.Context, key string) (*resume.Resume, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	doc, ok := m.docs[key]
	if !ok {
		return nil, nil
	}
	copied := *doc
	return &copied, nil
}

func (m *memDocCache) Set(ctx context.Context, key string, doc *resume.Resume) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	copied := *doc
	m.docs[key] = &copied
	return nil
}

func (m *memDocCache) Delete(ctx context.Context, keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, key := range keys {
		delete(m.docs, key)
	}
	return nil
}

type memStatsCache struct {
	mu      sync.Mutex
	entries map[string]*resume.Stats
}

func newMemStatsCache() *memStatsCache {
	return &memStatsCache{entries: make(map[string]*resume.Stats)}
}

func (m *memStatsCache) Get(ctx context.Context, userEmail string) (*resume.Stats, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.entries[userEmail], nil
}

func (m *memStatsCache) Set(ctx context.Context, userEmail string, s *resume.Stats) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[userEmail] = s
	return nil
}

func (m *memStatsCache) Delete(ctx context.Context, userEmail string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.entries, userEmail)
	return nil
}

type memPublisher struct {
	mu       sync.Mutex
	payloads []event.DownloadEventPayload
}

func (m *memPublisher) PublishDownloadEvent(ctx context.Context, payload event.DownloadEventPayload) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.payloads = append(m.payloads, payload)
	return nil
}
