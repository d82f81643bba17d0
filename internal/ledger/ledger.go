// Package ledger holds the authoritative local balance for one user and
// keeps it reconciled with the remote balance store.
//
// Debits and credits apply optimistically to the local value, then
// reconcile synchronously: the store's reply overwrites the local balance
// wholesale, so transient drift is corrected on every transaction. A
// failed reconciliation degrades silently to the optimistic local value;
// availability wins over strict consistency, and gameplay never blocks on
// the store.
package ledger

import (
	"context"
	"sync"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Remote is the balance store seen from the ledger: exactly the two
// operations the store exposes.
type Remote interface {
	Fetch(ctx context.Context, username string) (decimal.Decimal, error)
	ApplyDelta(ctx context.Context, username string, delta decimal.Decimal) (decimal.Decimal, error)
}

// Ledger is the single writer for one user's balance. The mutex is held
// across reconciliation so successive debits and credits for the same user
// serialize; a stale store reply can never overwrite a newer local value.
type Ledger struct {
	mu      sync.Mutex
	user    string
	balance decimal.Decimal
	remote  Remote
	log     *zap.Logger
}

// New creates a ledger for user starting at the given local balance.
// remote may be nil for a purely offline ledger (tests).
func New(user string, start decimal.Decimal, remote Remote, log *zap.Logger) *Ledger {
	if log == nil {
		log = zap.NewNop()
	}
	return &Ledger{user: user, balance: start, remote: remote, log: log}
}

// Balance returns the current local balance.
func (l *Ledger) Balance() decimal.Decimal {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.balance
}

// Sync fetches the authoritative balance from the store and overwrites the
// local value. On failure the local value stands.
func (l *Ledger) Sync(ctx context.Context) decimal.Decimal {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.remote == nil {
		return l.balance
	}
	server, err := l.remote.Fetch(ctx, l.user)
	if err != nil {
		l.log.Warn("balance fetch failed, keeping local value",
			zap.String("user", l.user), zap.Error(err))
		return l.balance
	}
	l.balance = server
	return l.balance
}

// Debit removes amount from the balance and reconciles. Returns the
// resulting balance.
func (l *Ledger) Debit(ctx context.Context, amount decimal.Decimal) decimal.Decimal {
	return l.apply(ctx, amount.Neg())
}

// Credit adds amount to the balance and reconciles. Returns the resulting
// balance.
func (l *Ledger) Credit(ctx context.Context, amount decimal.Decimal) decimal.Decimal {
	return l.apply(ctx, amount)
}

func (l *Ledger) apply(ctx context.Context, delta decimal.Decimal) decimal.Decimal {
	l.mu.Lock()
	defer l.mu.Unlock()

	// Optimistic local update first so the caller always sees the effect.
	l.balance = l.balance.Add(delta)

	if l.remote == nil {
		return l.balance
	}
	server, err := l.remote.ApplyDelta(ctx, l.user, delta)
	if err != nil {
		l.log.Warn("balance reconciliation failed, keeping optimistic value",
			zap.String("user", l.user),
			zap.String("delta", delta.String()),
			zap.Error(err))
		return l.balance
	}

	// The store's reply is authoritative; overwrite, never accumulate.
	l.balance = server
	return l.balance
}
