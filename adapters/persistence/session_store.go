package persistence

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/niyatisanja0206/resume-builder/internal/domain/resume"
	"github.com/niyatisanja0206/resume-builder/internal/domain/session"
	"github.com/niyatisanja0206/resume-builder/pkg/apperror"
)

// redisSessionStore keeps per-user transient state in Redis: the active
// resume selection under one key, drafts as a hash with one field per
// section. Drafts carry no TTL; they live until consumed or purged.
type redisSessionStore struct {
	rdb *redis.Client
}

func NewRedisSessionStore(rdb *redis.Client) session.Store {
	return &redisSessionStore{rdb: rdb}
}

func selectionKey(email string) string { return fmt.Sprintf("session:%s:selection", email) }
func draftKey(email string) string     { return fmt.Sprintf("draft:%s", email) }

func (s *redisSessionStore) GetSelection(ctx context.Context, userEmail string) (session.Selection, error) {
	val, err := s.rdb.Get(ctx, selectionKey(userEmail)).Result()
	if errors.Is(err, redis.Nil) {
		return session.Selection{}, nil
	}
	if err != nil {
		return session.Selection{}, apperror.NewInternal("failed to read active selection", err)
	}

	var sel session.Selection
	if err := json.Unmarshal([]byte(val), &sel); err != nil {
		return session.Selection{}, apperror.NewInternal("corrupt active selection entry", err)
	}
	return sel, nil
}

func (s *redisSessionStore) SetSelection(ctx context.Context, userEmail string, sel session.Selection) error {
	raw, err := json.Marshal(sel)
	if err != nil {
		return apperror.NewInternal("failed to encode active selection", err)
	}
	if err := s.rdb.Set(ctx, selectionKey(userEmail), raw, 0).Err(); err != nil {
		return apperror.NewInternal("failed to store active selection", err)
	}
	return nil
}

func (s *redisSessionStore) ClearSelection(ctx context.Context, userEmail string) error {
	if err := s.rdb.Del(ctx, selectionKey(userEmail)).Err(); err != nil {
		return apperror.NewInternal("failed to clear active selection", err)
	}
	return nil
}

func (s *redisSessionStore) PutDraft(ctx context.Context, userEmail string, name resume.SectionName, data json.RawMessage) error {
	if err := s.rdb.HSet(ctx, draftKey(userEmail), string(name), []byte(data)).Err(); err != nil {
		return apperror.NewInternal("failed to store draft entry", err)
	}
	return nil
}

func (s *redisSessionStore) GetDraft(ctx context.Context, userEmail string, name resume.SectionName) (json.RawMessage, error) {
	val, err := s.rdb.HGet(ctx, draftKey(userEmail), string(name)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, apperror.NewInternal("failed to read draft entry", err)
	}
	return json.RawMessage(val), nil
}

func (s *redisSessionStore) AllDrafts(ctx context.Context, userEmail string) (map[resume.SectionName]json.RawMessage, error) {
	vals, err := s.rdb.HGetAll(ctx, draftKey(userEmail)).Result()
	if err != nil {
		return nil, apperror.NewInternal("failed to read drafts", err)
	}

	drafts := make(map[resume.SectionName]json.RawMessage, len(vals))
	for field, val := range vals {
		name, err := resume.ParseSectionName(field)
		if err != nil {
			continue
		}
		drafts[name] = json.RawMessage(val)
	}
	return drafts, nil
}

func (s *redisSessionStore) RemoveDraft(ctx context.Context, userEmail string, name resume.SectionName) error {
	if err := s.rdb.HDel(ctx, draftKey(userEmail), string(name)).Err(); err != nil {
		return apperror.NewInternal("failed to remove draft entry", err)
	}
	return nil
}

func (s *redisSessionStore) Purge(ctx context.Context, userEmail string) error {
	if err := s.rdb.Del(ctx, selectionKey(userEmail), draftKey(userEmail)).Err(); err != nil {
		return apperror.NewInternal("failed to purge session state", err)
	}
	return nil
}
