package games

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/LachieKelly/casino/internal/engine"
)

// Shuffle duration in milliseconds per difficulty multiplier. Higher
// multipliers buy longer, harder-to-track shuffles.
var shellDurations = map[int]int{
	2: 6000,
	3: 12000,
	4: 20000,
	5: 30000,
}

// ShellMultipliers returns the selectable difficulty multipliers in
// ascending order.
func ShellMultipliers() []int { return []int{2, 3, 4, 5} }

// shellSwapCount converts a shuffle duration into a number of discrete
// swaps, one per logic tick.
func shellSwapCount(ms int) int {
	n := (ms + 399) / 400
	if n < 6 {
		n = 6
	}
	return n
}

type shellState int

const (
	shellIdle shellState = iota
	shellShuffling
	shellAwaiting
	shellSettled
)

// shellGame hides a ball under one of three cups and swaps cup positions
// for a number of ticks before accepting the player's pick. The ball is
// bound to its cup, not to a table position, so the winning pick is the
// ball's cup no matter how the positions were permuted.
type shellGame struct {
	src        engine.Source
	state      shellState
	stake      decimal.Decimal
	multiplier int
	ball       int    // cup holding the ball
	slots      [3]int // cup occupying each table position
	swapsLeft  int
	res        Resolution
}

func newShellGame(src engine.Source) *shellGame { return &shellGame{src: src} }

func (s *shellGame) Kind() Kind { return KindShell }

func (s *shellGame) Start(stake decimal.Decimal, sel Selection) ([]Event, error) {
	if s.state == shellShuffling || s.state == shellAwaiting {
		return nil, ErrRoundInProgress
	}
	if err := ValidateSelection(KindShell, sel); err != nil {
		return nil, err
	}
	bet := sel.(ShellBet)
	s.stake = stake
	s.multiplier = bet.Multiplier
	s.ball = engine.Intn(s.src, 3)
	s.slots = [3]int{0, 1, 2}
	s.swapsLeft = shellSwapCount(shellDurations[bet.Multiplier])
	s.res = Resolution{}
	s.state = shellShuffling
	return []Event{narrate("The ball goes under cup %d. Watch closely...", s.ball+1)}, nil
}

func (s *shellGame) Advance(in Input) ([]Event, error) {
	switch s.state {
	case shellIdle:
		return nil, ErrNotStarted
	case shellSettled:
		return nil, ErrRoundOver
	case shellShuffling:
		if _, ok := in.(Tick); !ok && in != nil {
			return nil, ErrBadInput
		}
		return s.swap(), nil
	case shellAwaiting:
		pick, ok := in.(Pick)
		if !ok {
			return nil, ErrBadInput
		}
		if pick.Cup < 0 || pick.Cup > 2 {
			return nil, fmt.Errorf("%w: cup %d", ErrBadInput, pick.Cup)
		}
		return s.settle(pick.Cup), nil
	}
	return nil, ErrBadInput
}

// swap exchanges two distinct table positions. The ball travels with its
// cup automatically since only the position assignment changes.
func (s *shellGame) swap() []Event {
	i := engine.Intn(s.src, 3)
	j := engine.Intn(s.src, 2)
	if j >= i {
		j++
	}
	s.slots[i], s.slots[j] = s.slots[j], s.slots[i]

	events := []Event{narrate("Cups %d and %d swap", i+1, j+1)}
	s.swapsLeft--
	if s.swapsLeft == 0 {
		s.state = shellAwaiting
		events = append(events, narrate("Where's the ball? Pick a cup."))
	}
	return events
}

func (s *shellGame) settle(cup int) []Event {
	events := []Event{outcome("The ball was under cup %d", s.ball+1)}
	if cup == s.ball {
		s.res = Resolution{
			Payout: s.stake.Mul(decimal.NewFromInt(int64(s.multiplier))),
			Win:    true,
			Detail: fmt.Sprintf("found the ball at %dx", s.multiplier),
		}
		events = append(events, Event{Kind: EventSettled,
			Text: fmt.Sprintf("You found it! Won %s", s.res.Payout.StringFixed(2))})
	} else {
		s.res = Resolution{
			Payout: decimal.Zero,
			Detail: fmt.Sprintf("picked cup %d, ball under cup %d", cup+1, s.ball+1),
		}
		events = append(events, Event{Kind: EventSettled,
			Text: fmt.Sprintf("Wrong cup. You lost %s", s.stake.StringFixed(2))})
	}
	s.state = shellSettled
	return events
}

func (s *shellGame) Terminal() bool { return s.state == shellSettled }

func (s *shellGame) Resolution() (Resolution, bool) {
	if s.state != shellSettled {
		return Resolution{}, false
	}
	return s.res, true
}
