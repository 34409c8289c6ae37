package resume

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/niyatisanja0206/resume-builder/internal/domain/resume"
	"github.com/niyatisanja0206/resume-builder/internal/domain/session"
	"github.com/niyatisanja0206/resume-builder/pkg/apperror"
	"github.com/niyatisanja0206/resume-builder/pkg/logger"
)

type fetchState int

const (
	stateStale fetchState = iota
	stateFetching
	stateFresh
)

// cacheEntry tracks the freshness state machine for one resolver key:
// Stale -> Fetching -> Fresh, and Fresh -> Stale on any successful write
// to that document. Concurrent resolves for the same key coalesce on the
// in-flight fetch instead of racing to the store.
type cacheEntry struct {
	state fetchState
	done  chan struct{}
	doc   *resume.Resume
	err   error
}

type ResolveUseCase struct {
	resumeRepo resume.Repository
	sessions   session.Store
	cache      DocumentCache
	logger     logger.Logger

	mu      sync.Mutex
	entries map[string]*cacheEntry
}

func NewResolveUseCase(repo resume.Repository, sessions session.Store, cache DocumentCache, log logger.Logger) *ResolveUseCase {
	return &ResolveUseCase{
		resumeRepo: repo,
		sessions:   sessions,
		cache:      cache,
		logger:     log,
		entries:    make(map[string]*cacheEntry),
	}
}

func documentKey(email string, id uuid.UUID) string {
	return fmt.Sprintf("resume:%s:%s", email, id)
}

func currentKey(email string) string {
	return fmt.Sprintf("resume:%s:current", email)
}

func resolveKey(email string, sel session.Selection) string {
	if sel.ResumeID != nil {
		return documentKey(email, *sel.ResumeID)
	}
	return currentKey(email)
}

// Resolve determines the active resume document for a user.
//
// An empty email short-circuits to nil without touching the store. A
// not-found answer from the store is not an error: it means "no resume
// yet" and, when unsaved drafts exist, yields a transient document
// assembled from them (advisory only, never cached as durable truth).
// Transport failures propagate unchanged.
func (u *ResolveUseCase) Resolve(ctx context.Context, userEmail string, sel session.Selection) (*resume.Resume, error) {
	if userEmail == "" {
		return nil, nil
	}

	key := resolveKey(userEmail, sel)

	u.mu.Lock()
	e, ok := u.entries[key]
	if !ok {
		e = &cacheEntry{state: stateStale}
		u.entries[key] = e
	}

	if e.state == stateFetching {
		done := e.done
		u.mu.Unlock()
		select {
		case <-done:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
		u.mu.Lock()
		doc, err := e.doc, e.err
		u.mu.Unlock()
		return doc, err
	}

	if e.state == stateFresh {
		u.mu.Unlock()
		doc, err := u.cache.Get(ctx, key)
		if err != nil {
			u.logger.Warn("resume cache read failed, falling back to store", zap.Error(err))
		}
		if doc != nil {
			return doc, nil
		}
		// TTL lapsed underneath us; fall through to a fresh fetch.
		u.mu.Lock()
		if e.state == stateFetching {
			// Someone else started the fetch meanwhile.
			done := e.done
			u.mu.Unlock()
			select {
			case <-done:
			case <-ctx.Done():
				return nil, ctx.Err()
			}
			u.mu.Lock()
			doc, err := e.doc, e.err
			u.mu.Unlock()
			return doc, err
		}
	}

	e.state = stateFetching
	e.done = make(chan struct{})
	u.mu.Unlock()

	doc, err := u.fetch(ctx, userEmail, sel)

	u.mu.Lock()
	e.doc, e.err = doc, err
	if err != nil {
		e.state = stateStale
	} else {
		e.state = stateFresh
	}
	close(e.done)
	u.mu.Unlock()

	if err == nil && doc != nil && doc.ID != uuid.Nil {
		if cacheErr := u.cache.Set(ctx, key, doc); cacheErr != nil {
			u.logger.Warn("failed to populate resume cache", zap.Error(cacheErr))
		}
	}
	return doc, err
}

func (u *ResolveUseCase) fetch(ctx context.Context, userEmail string, sel session.Selection) (*resume.Resume, error) {
	if sel.ResumeID != nil {
		doc, err := u.resumeRepo.FindByID(ctx, *sel.ResumeID, userEmail)
		if err != nil {
			if apperror.IsNotFound(err) {
				return nil, nil
			}
			return nil, err
		}
		return doc, nil
	}

	doc, err := u.resumeRepo.FindCurrentDraft(ctx, userEmail)
	if err == nil {
		return doc, nil
	}
	if !apperror.IsNotFound(err) {
		return nil, err
	}

	return u.assembleFromDrafts(ctx, userEmail)
}

// assembleFromDrafts builds an unsaved preview document from cached form
// state. The result has no id; the store remains the owner of durable
// truth and wins as soon as anything is persisted.
func (u *ResolveUseCase) assembleFromDrafts(ctx context.Context, userEmail string) (*resume.Resume, error) {
	drafts, err := u.sessions.AllDrafts(ctx, userEmail)
	if err != nil {
		u.logger.Warn("failed to read draft cache", zap.String("user", userEmail), zap.Error(err))
		return nil, nil
	}
	if len(drafts) == 0 {
		return nil, nil
	}

	doc := &resume.Resume{
		UserEmail: userEmail,
		Status:    resume.StatusDraft,
	}
	for name, data := range drafts {
		if err := doc.ApplySection(name, data); err != nil {
			u.logger.Warn("skipping corrupt draft entry",
				zap.String("user", userEmail),
				zap.String("section", string(name)),
				zap.Error(err))
		}
	}
	return doc, nil
}

// MarkStale flips the freshness state for the document and the user's
// "current" key and drops the shared cache entries, so the next resolve
// reads through to the store.
func (u *ResolveUseCase) MarkStale(ctx context.Context, userEmail string, id *uuid.UUID) error {
	keys := []string{currentKey(userEmail)}
	if id != nil {
		keys = append(keys, documentKey(userEmail, *id))
	}

	u.mu.Lock()
	for _, key := range keys {
		if e, ok := u.entries[key]; ok && e.state == stateFresh {
			e.state = stateStale
		}
	}
	u.mu.Unlock()

	return u.cache.Delete(ctx, keys...)
}

// OnSectionSaved is the resolver's half of a successful section write:
// the cached view is optimistically overlaid with the saved section (so
// readers between the write and the next read-through see the new data),
// and the freshness state flips Fresh -> Stale so the next resolve reads
// through to the store. Cached entries that cannot be patched are dropped
// instead.
func (u *ResolveUseCase) OnSectionSaved(ctx context.Context, userEmail string, id uuid.UUID, name resume.SectionName, data []byte) {
	keys := []string{documentKey(userEmail, id), currentKey(userEmail)}

	for _, key := range keys {
		doc, err := u.cache.Get(ctx, key)
		patched := false
		if err == nil && doc != nil && doc.ID == id {
			if err := doc.ApplySection(name, data); err != nil {
				u.logger.Warn("optimistic patch failed", zap.String("key", key), zap.Error(err))
			} else if err := u.cache.Set(ctx, key, doc); err != nil {
				u.logger.Warn("failed to write patched document", zap.String("key", key), zap.Error(err))
			} else {
				patched = true
			}
		}
		if !patched {
			if err := u.cache.Delete(ctx, key); err != nil {
				u.logger.Warn("failed to invalidate resume cache", zap.String("key", key), zap.Error(err))
			}
		}
	}

	u.mu.Lock()
	for _, key := range keys {
		if e, ok := u.entries[key]; ok && e.state == stateFresh {
			e.state = stateStale
		}
	}
	u.mu.Unlock()
}
