package games

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/LachieKelly/casino/internal/engine"
)

// HorseInfo describes one competitor on the card.
type HorseInfo struct {
	Name string  `json:"name"`
	Odds float64 `json:"odds"`
}

var horseRoster = []HorseInfo{
	{Name: "Thunder Bolt", Odds: 2.5},
	{Name: "Lightning Strike", Odds: 3.0},
	{Name: "Storm Chaser", Odds: 4.0},
	{Name: "Wind Runner", Odds: 5.0},
}

// HorseRoster returns the fixed competitor card.
func HorseRoster() []HorseInfo { return horseRoster }

// Race tuning. Track units are abstract; only ratios matter.
const (
	raceTrackLength = 480.0
	raceTickStep    = 3.0
	raceTotalTicks  = 160 // basis for boost-phase progress
	raceJitterSpan  = 0.3 // uniform in [-0.15, 0.15)
	raceMinSpeed    = 0.1

	boostMultiplier = 2.5

	comebackMultiplier    = 1.8
	comebackBurstTicks    = 30
	comebackCooldownTicks = 60
	comebackLagThreshold  = 40.0
	comebackFatigue       = 0.92
	comebackFloorSpeed    = 0.12
)

// Trailing horses are far more likely to trigger a comeback than leaders.
var comebackChanceByRank = [4]float64{0.05, 0.2, 0.6, 0.85}

type boostPhase int

const (
	boostNone boostPhase = iota
	boostStart
	boostMiddle
	boostEnd
)

// active reports whether the phase window covers the given race progress.
func (p boostPhase) active(progress float64) bool {
	switch p {
	case boostStart:
		return progress < 0.3
	case boostMiddle:
		return progress >= 0.3 && progress < 0.6
	case boostEnd:
		return progress >= 0.6
	}
	return false
}

type horseRunner struct {
	pos          float64
	speed        float64
	base         float64
	boost        boostPhase
	boosted      bool
	comebackUsed bool
}

type raceState int

const (
	raceIdle raceState = iota
	raceRunning
	raceSettled
)

// horseRace simulates a 4-horse race as discrete serialized ticks.
type horseRace struct {
	src          engine.Source
	state        raceState
	stake        decimal.Decimal
	pick         int
	horses       [4]horseRunner
	tick         int
	burstHorse   int // index of the horse in an active comeback, -1 if none
	burstLeft    int
	lastComeback int // tick of the most recent comeback trigger
	order        []int
	res          Resolution
}

func newHorseRace(src engine.Source) *horseRace {
	return &horseRace{src: src, burstHorse: -1, lastComeback: -comebackCooldownTicks}
}

func (h *horseRace) Kind() Kind { return KindHorse }

// Start draws each competitor's base speed uniformly from [0.5, 1.0) and
// independently schedules a speed-boost phase (30/30/20/20% for
// start/middle/end/none).
func (h *horseRace) Start(stake decimal.Decimal, sel Selection) ([]Event, error) {
	if h.state == raceRunning {
		return nil, ErrRoundInProgress
	}
	if err := ValidateSelection(KindHorse, sel); err != nil {
		return nil, err
	}
	h.stake = stake
	h.pick = sel.(HorsePick).Horse
	h.tick = 0
	h.burstHorse = -1
	h.burstLeft = 0
	h.lastComeback = -comebackCooldownTicks
	h.order = nil
	h.res = Resolution{}

	for i := range h.horses {
		base := 0.5 + h.src.Float64()*0.5
		h.horses[i] = horseRunner{speed: base, base: base}
	}
	for i := range h.horses {
		f := h.src.Float64()
		switch {
		case f < 0.3:
			h.horses[i].boost = boostStart
		case f < 0.6:
			h.horses[i].boost = boostMiddle
		case f < 0.8:
			h.horses[i].boost = boostEnd
		default:
			h.horses[i].boost = boostNone
		}
	}
	h.state = raceRunning
	return []Event{narrate("And they're off! You backed %s.", horseRoster[h.pick].Name)}, nil
}

// Advance runs one race tick. The terminal check only happens at the end
// of a tick, never mid-tick.
func (h *horseRace) Advance(in Input) ([]Event, error) {
	if h.state == raceIdle {
		return nil, ErrNotStarted
	}
	if h.state == raceSettled {
		return nil, ErrRoundOver
	}
	if _, ok := in.(Tick); !ok && in != nil {
		return nil, ErrBadInput
	}

	h.tick++
	progress := float64(h.tick) / raceTotalTicks
	leader := h.leaderPos()
	ranking := h.ranking()

	var events []Event
	for i := range h.horses {
		hr := &h.horses[i]

		// A trailing horse may erupt into a one-time comeback burst,
		// rate-limited and mutually exclusive across competitors.
		rank := ranking[i]
		canTrigger := !hr.comebackUsed &&
			h.burstHorse < 0 &&
			h.tick-h.lastComeback >= comebackCooldownTicks &&
			leader-hr.pos > comebackLagThreshold
		if canTrigger && h.src.Float64() < comebackChanceByRank[rank-1] {
			hr.comebackUsed = true
			hr.speed *= comebackMultiplier
			h.burstHorse = i
			h.burstLeft = comebackBurstTicks
			h.lastComeback = h.tick
			events = append(events, narrate("%s surges from the back!", horseRoster[i].Name))
		}

		cur := hr.speed
		if hr.boost != boostNone && !hr.boosted && hr.boost.active(progress) {
			cur *= boostMultiplier
			hr.boosted = true
			events = append(events, narrate("%s hits a burst of speed!", horseRoster[i].Name))
		}

		cur += engine.Jitter(h.src, raceJitterSpan)
		if cur < raceMinSpeed {
			cur = raceMinSpeed
		}
		hr.pos += cur * raceTickStep
		if hr.pos > raceTrackLength {
			hr.pos = raceTrackLength
		}
	}

	// Wind down an active comeback burst; the horse tires slightly after.
	if h.burstHorse >= 0 {
		h.burstLeft--
		if h.burstLeft <= 0 {
			hr := &h.horses[h.burstHorse]
			hr.speed = hr.base * comebackFatigue
			if hr.speed < comebackFloorSpeed {
				hr.speed = comebackFloorSpeed
			}
			h.burstHorse = -1
		}
	}

	for i := range h.horses {
		if h.horses[i].pos >= raceTrackLength {
			return append(events, h.finish()...), nil
		}
	}
	return events, nil
}

// leaderPos returns the leading displacement.
func (h *horseRace) leaderPos() float64 {
	max := h.horses[0].pos
	for _, hr := range h.horses[1:] {
		if hr.pos > max {
			max = hr.pos
		}
	}
	return max
}

// ranking returns each horse's current 1-based rank by displacement,
// ties broken by stable input order.
func (h *horseRace) ranking() [4]int {
	idx := []int{0, 1, 2, 3}
	sort.SliceStable(idx, func(a, b int) bool {
		return h.horses[idx[a]].pos > h.horses[idx[b]].pos
	})
	var ranks [4]int
	for place, i := range idx {
		ranks[i] = place + 1
	}
	return ranks
}

// finish ranks the field, computes the payout, and settles the round.
// Payout law: 1st pays stake*odds plus the stake back, 2nd refunds half
// the stake, 3rd is a pure break-even (nothing returned, the debit
// stands), 4th is a total loss.
func (h *horseRace) finish() []Event {
	idx := []int{0, 1, 2, 3}
	sort.SliceStable(idx, func(a, b int) bool {
		return h.horses[idx[a]].pos > h.horses[idx[b]].pos
	})
	h.order = idx

	place := 0
	for p, i := range idx {
		if i == h.pick {
			place = p + 1
			break
		}
	}

	winner := horseRoster[idx[0]].Name
	events := []Event{outcome("%s wins!", winner)}

	switch place {
	case 1:
		odds := decimal.NewFromFloat(horseRoster[h.pick].Odds)
		h.res = Resolution{
			Payout: h.stake.Mul(odds).Add(h.stake),
			Win:    true,
			Detail: fmt.Sprintf("%s finished 1st", horseRoster[h.pick].Name),
		}
		events = append(events, Event{Kind: EventSettled,
			Text: fmt.Sprintf("1st place! You earned %s", h.res.Payout.StringFixed(2))})
	case 2:
		h.res = Resolution{
			Payout: h.stake.Mul(decimal.RequireFromString("0.5")),
			Win:    true,
			Detail: fmt.Sprintf("%s finished 2nd", horseRoster[h.pick].Name),
		}
		events = append(events, Event{Kind: EventSettled,
			Text: fmt.Sprintf("2nd place! You got back %s", h.res.Payout.StringFixed(2))})
	case 3:
		h.res = Resolution{
			Payout: decimal.Zero,
			Detail: fmt.Sprintf("%s finished 3rd, break even", horseRoster[h.pick].Name),
		}
		events = append(events, Event{Kind: EventSettled, Text: "3rd place. You broke even."})
	default:
		h.res = Resolution{
			Payout: decimal.Zero,
			Detail: fmt.Sprintf("%s finished last", horseRoster[h.pick].Name),
		}
		events = append(events, Event{Kind: EventSettled,
			Text: fmt.Sprintf("Last place. You lost %s", h.stake.StringFixed(2))})
	}
	h.state = raceSettled
	return events
}

func (h *horseRace) Terminal() bool { return h.state == raceSettled }

func (h *horseRace) Resolution() (Resolution, bool) {
	if h.state != raceSettled {
		return Resolution{}, false
	}
	return h.res, true
}

// FinishOrder returns competitor indices in finishing order once settled.
func (h *horseRace) FinishOrder() []int { return h.order }
