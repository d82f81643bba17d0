package session

import (
	"context"
	"sync"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/LachieKelly/casino/internal/engine"
	"github.com/LachieKelly/casino/internal/ledger"
)

// Registry hands out one Controller per username, creating sessions
// lazily on first sight.
type Registry struct {
	mu       sync.Mutex
	sessions map[string]*Controller

	remote       ledger.Remote
	rec          Recorder
	src          engine.Source
	log          *zap.Logger
	startBalance decimal.Decimal
}

// NewRegistry creates a session registry. remote may be nil for offline
// play; startBalance seeds new sessions when the remote store is absent
// or unreachable.
func NewRegistry(remote ledger.Remote, rec Recorder, src engine.Source, startBalance decimal.Decimal, log *zap.Logger) *Registry {
	if log == nil {
		log = zap.NewNop()
	}
	return &Registry{
		sessions:     make(map[string]*Controller),
		remote:       remote,
		rec:          rec,
		src:          src,
		log:          log,
		startBalance: startBalance,
	}
}

// Get returns the session for user, creating it if needed. A new
// session's balance is pulled from the remote store straight away; if
// that fails the configured starting balance stands until the next
// reconciliation.
func (r *Registry) Get(ctx context.Context, user string) *Controller {
	r.mu.Lock()
	defer r.mu.Unlock()

	if c, ok := r.sessions[user]; ok {
		return c
	}
	lgr := ledger.New(user, r.startBalance, r.remote, r.log)
	if r.remote != nil {
		lgr.Sync(ctx)
	}
	c := NewController(user, lgr, r.src, r.rec, r.log)
	r.sessions[user] = c
	r.log.Info("session created", zap.String("user", user))
	return c
}

// Len returns the number of live sessions.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}
