package games

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/LachieKelly/casino/internal/engine"
)

// BugInfo describes one combatant in the pit.
type BugInfo struct {
	Name string  `json:"name"`
	Odds float64 `json:"odds"`
}

var bugRoster = []BugInfo{
	{Name: "Scarlet Stinger", Odds: 2.0},
	{Name: "Rock Beetle", Odds: 3.0},
	{Name: "Spiky Ant", Odds: 4.0},
	{Name: "Striped Mantis", Odds: 5.0},
}

// BugRoster returns the fixed combatant card.
func BugRoster() []BugInfo { return bugRoster }

var bugActions = []string{
	"dashes forward",
	"lands a heavy strike",
	"dodges nimbly",
	"counterattacks",
	"finds an opening",
	"stumbles",
	"blocks the assault",
	"pushes back",
	"gets pinned briefly",
	"erupts in a fury",
}

type bugState int

const (
	bugIdle bugState = iota
	bugFighting
	bugSettled
)

// bugFight narrates a battle whose winner is drawn up front, weighted
// inversely to the posted odds. Each tick emits one action line; the
// losers are eliminated in a pre-shuffled order before the final tick.
type bugFight struct {
	src    engine.Source
	state  bugState
	stake  decimal.Decimal
	pick   int
	winner int
	deaths []int // elimination order, losers only
	alive  [4]bool
	budget int // total narration ticks for the fight
	tick   int
	res    Resolution
}

func newBugFight(src engine.Source) *bugFight { return &bugFight{src: src} }

func (b *bugFight) Kind() Kind { return KindBugs }

func (b *bugFight) Start(stake decimal.Decimal, sel Selection) ([]Event, error) {
	if b.state == bugFighting {
		return nil, ErrRoundInProgress
	}
	if err := ValidateSelection(KindBugs, sel); err != nil {
		return nil, err
	}
	b.stake = stake
	b.pick = sel.(BugPick).Bug
	b.tick = 0
	b.res = Resolution{}

	weights := make([]float64, len(bugRoster))
	for i, bug := range bugRoster {
		weights[i] = 1 / bug.Odds
	}
	b.winner = engine.WeightedIndex(b.src, weights)

	b.deaths = b.deaths[:0]
	for i := range bugRoster {
		b.alive[i] = true
		if i != b.winner {
			b.deaths = append(b.deaths, i)
		}
	}
	engine.Shuffle(b.src, len(b.deaths), func(i, j int) {
		b.deaths[i], b.deaths[j] = b.deaths[j], b.deaths[i]
	})

	b.budget = 6 + engine.Intn(b.src, 4)
	b.state = bugFighting
	return []Event{narrate("The pit opens! You backed %s.", bugRoster[b.pick].Name)}, nil
}

func (b *bugFight) Advance(in Input) ([]Event, error) {
	if b.state == bugIdle {
		return nil, ErrNotStarted
	}
	if b.state == bugSettled {
		return nil, ErrRoundOver
	}
	if _, ok := in.(Tick); !ok && in != nil {
		return nil, ErrBadInput
	}

	b.tick++
	events := []Event{b.action()}

	// Eliminations begin midway through the fight, one per tick, leaving
	// every loser down before the budget runs out.
	deathStart := b.budget / 2
	if deathStart < 2 {
		deathStart = 2
	}
	if b.tick >= deathStart && len(b.deaths) > 0 {
		dead := b.deaths[0]
		b.deaths = b.deaths[1:]
		b.alive[dead] = false
		events = append(events, narrate("%s is down!", bugRoster[dead].Name))
	}

	if b.tick >= b.budget && len(b.deaths) == 0 {
		events = append(events, b.finish()...)
	}
	return events, nil
}

// action narrates one random alive combatant performing a random move.
func (b *bugFight) action() Event {
	var alive []int
	for i, up := range b.alive {
		if up {
			alive = append(alive, i)
		}
	}
	actor := alive[engine.Intn(b.src, len(alive))]
	verb := bugActions[engine.Intn(b.src, len(bugActions))]
	return narrate("%s %s!", bugRoster[actor].Name, verb)
}

func (b *bugFight) finish() []Event {
	winner := bugRoster[b.winner]
	events := []Event{outcome("%s wins the fight!", winner.Name)}

	if b.pick == b.winner {
		odds := decimal.NewFromFloat(winner.Odds)
		b.res = Resolution{
			Payout: b.stake.Mul(odds).Add(b.stake),
			Win:    true,
			Detail: fmt.Sprintf("%s won at %.1fx", winner.Name, winner.Odds),
		}
		events = append(events, Event{Kind: EventSettled,
			Text: fmt.Sprintf("You won %s!", b.res.Payout.StringFixed(2))})
	} else {
		b.res = Resolution{
			Payout: decimal.Zero,
			Detail: fmt.Sprintf("%s lost to %s", bugRoster[b.pick].Name, winner.Name),
		}
		events = append(events, Event{Kind: EventSettled,
			Text: fmt.Sprintf("You lost %s", b.stake.StringFixed(2))})
	}
	b.state = bugSettled
	return events
}

func (b *bugFight) Terminal() bool { return b.state == bugSettled }

func (b *bugFight) Resolution() (Resolution, bool) {
	if b.state != bugSettled {
		return Resolution{}, false
	}
	return b.res, true
}
