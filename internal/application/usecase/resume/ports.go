package resume

import (
	"context"

	"github.com/niyatisanja0206/resume-builder/internal/domain/resume"
)

// DocumentCache is the shared cache behind the resolver. Get returns
// (nil, nil) on a miss; entries expire on their own bounded TTL.
type DocumentCache interface {
	Get(ctx context.Context, key string) (*resume.Resume, error)
	Set(ctx context.Context, key string, r *resume.Resume) error
	Delete(ctx context.Context, keys ...string) error
}

// StatsInvalidator drops the cached user-statistics view. Successful
// section writes go through it so resume counts stay consistent.
type StatsInvalidator interface {
	Delete(ctx context.Context, userEmail string) error
}
