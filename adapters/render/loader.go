package render

import (
	"sync"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/niyatisanja0206/resume-builder/pkg/logger"
)

type State int32

const (
	StateIdle State = iota
	StateLoading
	StateReady
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateLoading:
		return "loading"
	case StateReady:
		return "ready"
	case StateFailed:
		return "failed"
	}
	return "unknown"
}

// Loader lazily constructs the heavy PDF engine and degrades to the
// fallback when construction fails.
//
// State machine: Idle -> Loading -> {Ready, Failed}. Ready is sticky for
// the loader's lifetime. Failed stays failed until a user-triggered Retry
// re-enters Loading.
type Loader struct {
	mu       sync.Mutex
	state    atomic.Int32
	factory  func() (Engine, error)
	primary  Engine
	fallback Engine
	lastErr  error
	logger   logger.Logger
}

func NewLoader(factory func() (Engine, error), fallback Engine, log logger.Logger) *Loader {
	l := &Loader{factory: factory, fallback: fallback, logger: log}
	l.state.Store(int32(StateIdle))
	return l
}

func (l *Loader) State() State {
	return State(l.state.Load())
}

// Err returns the construction error from the last failed load attempt.
func (l *Loader) Err() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.lastErr
}

// Engine returns the active engine, loading the primary on first use.
// Once Failed, the fallback is served without re-probing; recovery is
// explicit via Retry.
func (l *Loader) Engine() Engine {
	l.mu.Lock()
	defer l.mu.Unlock()

	switch l.State() {
	case StateReady:
		return l.primary
	case StateFailed:
		return l.fallback
	}

	return l.load()
}

// Retry re-enters Loading from Failed. A no-op in any other state.
func (l *Loader) Retry() Engine {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.State() != StateFailed {
		if l.State() == StateReady {
			return l.primary
		}
		return l.load()
	}
	return l.load()
}

// load runs under l.mu.
func (l *Loader) load() Engine {
	l.state.Store(int32(StateLoading))

	engine, err := l.factory()
	if err != nil {
		l.lastErr = err
		l.state.Store(int32(StateFailed))
		l.logger.Warn("pdf engine unavailable, serving fallback renderer", zap.Error(err))
		return l.fallback
	}

	l.primary = engine
	l.lastErr = nil
	l.state.Store(int32(StateReady))
	l.logger.Info("pdf engine ready")
	return l.primary
}
