package games

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/LachieKelly/casino/internal/engine"
)

// Reel alphabet. Every symbol is drawn with equal probability; the tier
// table below is what makes the top symbols "rare" in payout terms.
var slotSymbols = []string{"7️⃣", "💎", "🔔", "🍒", "🍋", "🍉", "⭐", "🍀"}

// Triple-match multipliers. Symbols not listed pay the base triple rate.
var slotTiers = map[string]int64{
	"7️⃣": 100,
	"💎":   50,
	"🔔":   25,
}

const (
	slotBaseTripleMult = 10
	slotSpinTicks      = 12
)

var slotPairMult = decimal.RequireFromString("0.33")

type slotsState int

const (
	slotsIdle slotsState = iota
	slotsSpinning
	slotsSettled
)

// slots redraws all three reels on every spin tick; only the final tick's
// faces count as the outcome.
type slots struct {
	src   engine.Source
	state slotsState
	stake decimal.Decimal
	reels [3]string
	tick  int
	res   Resolution
}

func newSlots(src engine.Source) *slots { return &slots{src: src} }

func (s *slots) Kind() Kind { return KindSlots }

func (s *slots) Start(stake decimal.Decimal, sel Selection) ([]Event, error) {
	if s.state == slotsSpinning {
		return nil, ErrRoundInProgress
	}
	if err := ValidateSelection(KindSlots, sel); err != nil {
		return nil, err
	}
	s.stake = stake
	s.tick = 0
	s.res = Resolution{}
	s.state = slotsSpinning
	return []Event{narrate("The reels start spinning...")}, nil
}

func (s *slots) Advance(in Input) ([]Event, error) {
	if s.state == slotsIdle {
		return nil, ErrNotStarted
	}
	if s.state == slotsSettled {
		return nil, ErrRoundOver
	}
	if _, ok := in.(Tick); !ok && in != nil {
		return nil, ErrBadInput
	}

	s.tick++
	for i := range s.reels {
		s.reels[i] = slotSymbols[engine.Intn(s.src, len(slotSymbols))]
	}
	face := fmt.Sprintf("[ %s | %s | %s ]", s.reels[0], s.reels[1], s.reels[2])
	if s.tick < slotSpinTicks {
		return []Event{narrate("%s", face)}, nil
	}

	events := []Event{outcome("%s", face)}
	payout, detail := s.evaluate()
	s.res = Resolution{Payout: payout, Win: payout.IsPositive(), Detail: detail}
	if payout.IsPositive() {
		events = append(events, Event{Kind: EventSettled,
			Text: fmt.Sprintf("%s! You won %s", detail, payout.StringFixed(2))})
	} else {
		events = append(events, Event{Kind: EventSettled,
			Text: fmt.Sprintf("No match. You lost %s", s.stake.StringFixed(2))})
	}
	s.state = slotsSettled
	return events, nil
}

// evaluate applies the payout law to the final reel faces: a triple pays
// its symbol's tier multiplier plus the stake back, any pair pays a small
// consolation plus the stake back, no match pays nothing.
func (s *slots) evaluate() (decimal.Decimal, string) {
	a, b, c := s.reels[0], s.reels[1], s.reels[2]
	switch {
	case a == b && b == c:
		mult := slotTiers[a]
		if mult == 0 {
			mult = slotBaseTripleMult
		}
		payout := s.stake.Mul(decimal.NewFromInt(mult)).Add(s.stake)
		return payout, fmt.Sprintf("Triple %s at %dx", a, mult)
	case a == b || b == c || a == c:
		return s.stake.Mul(slotPairMult).Add(s.stake), "Pair"
	}
	return decimal.Zero, "no match"
}

func (s *slots) Terminal() bool { return s.state == slotsSettled }

func (s *slots) Resolution() (Resolution, bool) {
	if s.state != slotsSettled {
		return Resolution{}, false
	}
	return s.res, true
}
