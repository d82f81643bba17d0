// Package session owns the per-user gameplay loop: game selection, bet
// intake, driving the active engine, and moving money at the right
// moments. A controller serializes everything for its user, so the
// debit-once / credit-once round invariants hold no matter how requests
// interleave.
package session

import (
	"context"
	"errors"
	"sync"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/LachieKelly/casino/internal/bet"
	"github.com/LachieKelly/casino/internal/engine"
	"github.com/LachieKelly/casino/internal/games"
	"github.com/LachieKelly/casino/internal/ledger"
	"github.com/LachieKelly/casino/internal/store"
)

var (
	ErrNoGame  = errors.New("session: no game selected")
	ErrNoRound = errors.New("session: no round in progress")
)

// runTickCap bounds a headless run so a stuck engine cannot spin forever.
// The slowest legitimate round is a horse race crawling at minimum speed,
// roughly 1600 ticks.
const runTickCap = 5000

// Recorder journals settled rounds. Implemented by store.SQLiteDB.
type Recorder interface {
	SaveRound(ctx context.Context, round *store.Round) error
}

// Controller runs one user's session. Selecting a game discards any
// engine (and any unresolved round) for the previous one; an abandoned
// round's stake stays debited.
type Controller struct {
	mu     sync.Mutex
	user   string
	ledger *ledger.Ledger
	src    engine.Source
	rec    Recorder
	log    *zap.Logger

	eng    games.Engine
	stake  decimal.Decimal
	active bool
}

// NewController creates a session controller for user. rec may be nil to
// skip journaling; log may be nil.
func NewController(user string, lgr *ledger.Ledger, src engine.Source, rec Recorder, log *zap.Logger) *Controller {
	if log == nil {
		log = zap.NewNop()
	}
	return &Controller{user: user, ledger: lgr, src: src, rec: rec, log: log}
}

// User returns the session owner.
func (c *Controller) User() string { return c.user }

// Game returns the currently selected game kind, or "" if none.
func (c *Controller) Game() games.Kind {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.eng == nil {
		return ""
	}
	return c.eng.Kind()
}

// Balance returns the user's current local balance.
func (c *Controller) Balance() decimal.Decimal { return c.ledger.Balance() }

// SyncBalance refreshes the local balance from the remote store.
func (c *Controller) SyncBalance(ctx context.Context) decimal.Decimal {
	return c.ledger.Sync(ctx)
}

// Select switches to a game, creating a fresh engine. Any round in flight
// is dropped; its stake is already spent and is not refunded. Re-selecting
// the current game resets it the same way.
func (c *Controller) Select(kind games.Kind) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	eng, err := games.New(kind, c.src)
	if err != nil {
		return err
	}
	if c.active {
		c.log.Info("abandoning unresolved round",
			zap.String("user", c.user),
			zap.String("game", string(c.eng.Kind())),
			zap.String("stake", c.stake.String()))
	}
	c.eng = eng
	c.active = false
	return nil
}

// Place validates the wager, debits the stake, and starts a round on the
// selected game. The returned events are the round's opening narrative; a
// round can settle within Place (blackjack natural 21).
func (c *Controller) Place(ctx context.Context, rawStake string, sel games.Selection) ([]games.Event, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.eng == nil {
		return nil, ErrNoGame
	}
	if c.active {
		return nil, games.ErrRoundInProgress
	}
	kind := c.eng.Kind()

	stake, err := bet.ParseStake(rawStake)
	if err != nil {
		return nil, err
	}
	if err := bet.Validate(stake, c.ledger.Balance(),
		games.NeedsSelection(kind), games.HasSelection(sel)); err != nil {
		return nil, err
	}
	if err := games.ValidateSelection(kind, sel); err != nil {
		return nil, err
	}

	// All checks passed; from here the stake is committed.
	c.ledger.Debit(ctx, stake)
	events, err := c.eng.Start(stake, sel)
	if err != nil {
		// Start cannot legitimately fail after validation; undo the
		// debit rather than eat the player's money.
		c.ledger.Credit(ctx, stake)
		return nil, err
	}
	c.stake = stake
	c.active = true

	events = c.observe(ctx, events)
	return events, nil
}

// Move routes one player input or timer tick to the active round.
func (c *Controller) Move(ctx context.Context, in games.Input) ([]games.Event, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.advance(ctx, in)
}

// Run drives the active round with timer ticks until it settles or the
// engine starts waiting for player input.
func (c *Controller) Run(ctx context.Context) ([]games.Event, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var all []games.Event
	for i := 0; i < runTickCap; i++ {
		if !c.active {
			break
		}
		events, err := c.advance(ctx, games.Tick{})
		if errors.Is(err, games.ErrBadInput) {
			// The engine wants a player decision, not a tick.
			break
		}
		if err != nil {
			return all, err
		}
		all = append(all, events...)
	}
	return all, nil
}

func (c *Controller) advance(ctx context.Context, in games.Input) ([]games.Event, error) {
	if c.eng == nil {
		return nil, ErrNoGame
	}
	if !c.active {
		return nil, ErrNoRound
	}
	events, err := c.eng.Advance(in)
	if err != nil {
		return nil, err
	}
	return c.observe(ctx, events), nil
}

// observe applies event credits as they are seen and settles the round
// once the engine reports terminal.
func (c *Controller) observe(ctx context.Context, events []games.Event) []games.Event {
	for _, ev := range events {
		if ev.Credit.IsPositive() {
			c.ledger.Credit(ctx, ev.Credit)
		}
	}
	if c.active && c.eng.Terminal() {
		c.settle(ctx)
	}
	return events
}

// settle credits the payout exactly once and journals the round.
func (c *Controller) settle(ctx context.Context) {
	res, ok := c.eng.Resolution()
	if !ok {
		return
	}
	c.active = false
	if res.Payout.IsPositive() {
		c.ledger.Credit(ctx, res.Payout)
	}
	c.log.Info("round settled",
		zap.String("user", c.user),
		zap.String("game", string(c.eng.Kind())),
		zap.String("stake", c.stake.String()),
		zap.String("payout", res.Payout.String()),
		zap.Bool("win", res.Win))

	if c.rec == nil {
		return
	}
	round := &store.Round{
		Username: c.user,
		Game:     string(c.eng.Kind()),
		Stake:    c.stake,
		Payout:   res.Payout,
		Win:      res.Win,
		Detail:   res.Detail,
	}
	if err := c.rec.SaveRound(ctx, round); err != nil {
		c.log.Warn("failed to journal round",
			zap.String("user", c.user), zap.Error(err))
	}
}

// Resolution exposes the last round's resolution once settled.
func (c *Controller) Resolution() (games.Resolution, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.eng == nil {
		return games.Resolution{}, false
	}
	return c.eng.Resolution()
}
