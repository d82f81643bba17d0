// Package games implements the wager resolution engines: one state machine
// per game type, each consuming an RNG source and producing a Resolution.
//
// Engines are headless. Start validates the selection and performs the
// round's setup draws; Advance performs exactly one logic step (a timer
// tick or a player input) and returns the narrative events it produced.
// Presentation timing is entirely the caller's concern: a round can be
// driven to completion in a tight loop for tests or spaced out by a ticker
// for display.
package games

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/LachieKelly/casino/internal/engine"
)

// Kind identifies a game type.
type Kind string

const (
	KindRoulette  Kind = "roulette"
	KindHorse     Kind = "horse"
	KindBugs      Kind = "bugs"
	KindShell     Kind = "shell"
	KindBlackjack Kind = "blackjack"
	KindSlots     Kind = "slots"
	KindMines     Kind = "mines"
)

// Kinds returns all game kinds in menu order.
func Kinds() []Kind {
	return []Kind{
		KindRoulette, KindHorse, KindBugs, KindShell,
		KindBlackjack, KindSlots, KindMines,
	}
}

var (
	ErrUnknownGame     = errors.New("games: unknown game")
	ErrBadSelection    = errors.New("games: selection does not fit game")
	ErrNotStarted      = errors.New("games: round not started")
	ErrRoundInProgress = errors.New("games: round already in progress")
	ErrRoundOver       = errors.New("games: round already settled")
	ErrBadInput        = errors.New("games: input not valid in current state")
)

// Selection is the player's pick for a round. It is a sealed tagged union;
// each game accepts exactly one concrete type.
type Selection interface{ isSelection() }

// NoSelection is used by games that auto-deal (slots, blackjack, mines).
type NoSelection struct{}

// RouletteBets carries one or more simultaneous bet tokens.
type RouletteBets struct{ Tokens []Token }

// HorsePick selects a competitor by index.
type HorsePick struct{ Horse int }

// BugPick selects a combatant by index.
type BugPick struct{ Bug int }

// ShellBet carries the difficulty multiplier; the cup pick arrives later
// as a Pick input once shuffling has finished.
type ShellBet struct{ Multiplier int }

func (NoSelection) isSelection()  {}
func (RouletteBets) isSelection() {}
func (HorsePick) isSelection()    {}
func (BugPick) isSelection()      {}
func (ShellBet) isSelection()     {}

// HasSelection reports whether sel carries an actual pick.
func HasSelection(sel Selection) bool {
	if sel == nil {
		return false
	}
	_, none := sel.(NoSelection)
	return !none
}

// NeedsSelection reports whether a game requires a selection at intake.
// Mines takes its picks as Reveal inputs after the round starts.
func NeedsSelection(kind Kind) bool {
	switch kind {
	case KindSlots, KindBlackjack, KindMines:
		return false
	}
	return true
}

// Input is a player intent or timer tick routed to the active engine.
type Input interface{ isInput() }

// Tick advances a phased round by one logic step.
type Tick struct{}

// Hit draws one card into the blackjack player hand.
type Hit struct{}

// Stand ends the blackjack player turn.
type Stand struct{}

// Reveal uncovers one mines cell.
type Reveal struct{ Row, Col int }

// Pick chooses a shell-game cup by element index.
type Pick struct{ Cup int }

func (Tick) isInput()   {}
func (Hit) isInput()    {}
func (Stand) isInput()  {}
func (Reveal) isInput() {}
func (Pick) isInput()   {}

// EventKind classifies a narrative event.
type EventKind string

const (
	// EventNarrate is flavor text with no balance effect.
	EventNarrate EventKind = "narrate"
	// EventOutcome announces an RNG-determined truth (pocket, winner, reel).
	EventOutcome EventKind = "outcome"
	// EventBonus carries an immediate mid-round credit (mines row/column).
	EventBonus EventKind = "bonus"
	// EventSettled closes the round.
	EventSettled EventKind = "settled"
)

// Event is one entry in a round's ordered display sequence. Credit is
// non-zero only for EventBonus; the session controller applies it to the
// ledger as soon as the event is observed.
type Event struct {
	Kind   EventKind       `json:"kind"`
	Text   string          `json:"text"`
	Credit decimal.Decimal `json:"credit"`
}

func narrate(format string, args ...any) Event {
	return Event{Kind: EventNarrate, Text: fmt.Sprintf(format, args...)}
}

func outcome(format string, args ...any) Event {
	return Event{Kind: EventOutcome, Text: fmt.Sprintf(format, args...)}
}

// Resolution is the computed payout and terminal summary of a round.
// Payout is the total amount returned to the player (stake included where
// the law says so); zero means total loss.
type Resolution struct {
	Payout decimal.Decimal `json:"payout"`
	Win    bool            `json:"win"`
	Detail string          `json:"detail"`
}

// Engine is the capability interface every game implements.
type Engine interface {
	// Kind identifies the game.
	Kind() Kind

	// Start validates the selection, records the stake, performs the
	// round's setup draws, and returns the opening events. The stake must
	// already be debited; Start never touches a balance. A round can be
	// terminal immediately after Start (blackjack natural 21).
	Start(stake decimal.Decimal, sel Selection) ([]Event, error)

	// Advance performs one logic step and returns the events it produced.
	Advance(in Input) ([]Event, error)

	// Terminal reports whether the round has settled.
	Terminal() bool

	// Resolution returns the round's resolution once terminal.
	Resolution() (Resolution, bool)
}

// New creates an idle engine for the given game kind.
func New(kind Kind, src engine.Source) (Engine, error) {
	switch kind {
	case KindRoulette:
		return newRoulette(src), nil
	case KindHorse:
		return newHorseRace(src), nil
	case KindBugs:
		return newBugFight(src), nil
	case KindShell:
		return newShellGame(src), nil
	case KindBlackjack:
		return newBlackjack(src), nil
	case KindSlots:
		return newSlots(src), nil
	case KindMines:
		return newMines(src), nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownGame, kind)
}

// ValidateSelection checks that sel fits the game's intake contract
// without constructing an engine. The session controller calls this before
// debiting so a rejection can never follow a balance mutation.
func ValidateSelection(kind Kind, sel Selection) error {
	switch kind {
	case KindRoulette:
		bets, ok := sel.(RouletteBets)
		if !ok || len(bets.Tokens) == 0 {
			return ErrBadSelection
		}
		for _, tok := range bets.Tokens {
			if !tok.Valid() {
				return fmt.Errorf("%w: unknown token %q", ErrBadSelection, tok)
			}
		}
	case KindHorse:
		pick, ok := sel.(HorsePick)
		if !ok || pick.Horse < 0 || pick.Horse >= len(horseRoster) {
			return ErrBadSelection
		}
	case KindBugs:
		pick, ok := sel.(BugPick)
		if !ok || pick.Bug < 0 || pick.Bug >= len(bugRoster) {
			return ErrBadSelection
		}
	case KindShell:
		b, ok := sel.(ShellBet)
		if !ok {
			return ErrBadSelection
		}
		if _, ok := shellDurations[b.Multiplier]; !ok {
			return fmt.Errorf("%w: multiplier %d", ErrBadSelection, b.Multiplier)
		}
	case KindSlots, KindBlackjack, KindMines:
		if HasSelection(sel) {
			return ErrBadSelection
		}
	default:
		return fmt.Errorf("%w: %q", ErrUnknownGame, kind)
	}
	return nil
}
