package ledger

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
)

// fakeRemote scripts the balance store. Each call records the delta it
// received and pops the next scripted reply.
type fakeRemote struct {
	deltas  []decimal.Decimal
	replies []reply
}

type reply struct {
	balance decimal.Decimal
	err     error
}

func (f *fakeRemote) Fetch(ctx context.Context, username string) (decimal.Decimal, error) {
	return f.pop()
}

func (f *fakeRemote) ApplyDelta(ctx context.Context, username string, delta decimal.Decimal) (decimal.Decimal, error) {
	f.deltas = append(f.deltas, delta)
	return f.pop()
}

func (f *fakeRemote) pop() (decimal.Decimal, error) {
	if len(f.replies) == 0 {
		return decimal.Zero, errors.New("no scripted reply")
	}
	r := f.replies[0]
	f.replies = f.replies[1:]
	return r.balance, r.err
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestDebitReconcilesToServerValue(t *testing.T) {
	// The server reply is authoritative even when it disagrees with the
	// optimistic local arithmetic.
	remote := &fakeRemote{replies: []reply{{balance: dec("87.50")}}}
	l := New("lachie", dec("100"), remote, nil)

	got := l.Debit(context.Background(), dec("10"))
	if !got.Equal(dec("87.50")) {
		t.Errorf("Debit returned %s, want server value 87.50", got)
	}
	if !l.Balance().Equal(dec("87.50")) {
		t.Errorf("Balance() = %s, want 87.50", l.Balance())
	}
	if len(remote.deltas) != 1 || !remote.deltas[0].Equal(dec("-10")) {
		t.Errorf("remote saw deltas %v, want [-10]", remote.deltas)
	}
}

func TestCreditSendsPositiveDelta(t *testing.T) {
	remote := &fakeRemote{replies: []reply{{balance: dec("135")}}}
	l := New("lachie", dec("100"), remote, nil)

	l.Credit(context.Background(), dec("35"))
	if len(remote.deltas) != 1 || !remote.deltas[0].Equal(dec("35")) {
		t.Errorf("remote saw deltas %v, want [35]", remote.deltas)
	}
}

func TestFailedReconciliationKeepsOptimisticValue(t *testing.T) {
	remote := &fakeRemote{replies: []reply{{err: errors.New("store down")}}}
	l := New("lachie", dec("100"), remote, nil)

	got := l.Debit(context.Background(), dec("10"))
	if !got.Equal(dec("90")) {
		t.Errorf("Debit on failure returned %s, want optimistic 90", got)
	}
}

func TestSyncOverwritesLocal(t *testing.T) {
	remote := &fakeRemote{replies: []reply{{balance: dec("42")}}}
	l := New("lachie", dec("100"), remote, nil)

	if got := l.Sync(context.Background()); !got.Equal(dec("42")) {
		t.Errorf("Sync = %s, want 42", got)
	}
}

func TestSyncFailureKeepsLocal(t *testing.T) {
	remote := &fakeRemote{replies: []reply{{err: errors.New("store down")}}}
	l := New("lachie", dec("100"), remote, nil)

	if got := l.Sync(context.Background()); !got.Equal(dec("100")) {
		t.Errorf("Sync on failure = %s, want local 100", got)
	}
}

func TestOfflineLedger(t *testing.T) {
	l := New("lachie", dec("100"), nil, nil)
	ctx := context.Background()

	l.Debit(ctx, dec("10"))
	l.Credit(ctx, dec("5.50"))
	if got := l.Balance(); !got.Equal(dec("95.50")) {
		t.Errorf("offline balance = %s, want 95.50", got)
	}
	if got := l.Sync(ctx); !got.Equal(dec("95.50")) {
		t.Errorf("offline Sync = %s, want 95.50", got)
	}
}

func TestSequentialTransactionsSerialize(t *testing.T) {
	remote := &fakeRemote{replies: []reply{
		{balance: dec("90")},
		{balance: dec("125")},
	}}
	l := New("lachie", dec("100"), remote, nil)
	ctx := context.Background()

	l.Debit(ctx, dec("10"))
	l.Credit(ctx, dec("35"))

	if len(remote.deltas) != 2 {
		t.Fatalf("remote saw %d deltas, want 2", len(remote.deltas))
	}
	if !remote.deltas[0].Equal(dec("-10")) || !remote.deltas[1].Equal(dec("35")) {
		t.Errorf("deltas = %v, want [-10 35]", remote.deltas)
	}
	if !l.Balance().Equal(dec("125")) {
		t.Errorf("final balance = %s, want 125", l.Balance())
	}
}
