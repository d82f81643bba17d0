package games

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/LachieKelly/casino/internal/engine"
)

// scriptedFight pins the winner to Striped-free index 1 (Rock Beetle) and
// the budget to 6 ticks: one winner draw, two death-shuffle draws, one
// budget draw, then two draws (actor, verb) per tick.
func scriptedFight(pick int) *bugFight {
	floats := []float64{0.45, 0.5, 0.5, 0.0}
	for i := 0; i < 12; i++ {
		floats = append(floats, 0.0)
	}
	b := newBugFight(engine.NewFixed(floats...))
	return bugFightStarted(b, pick)
}

func bugFightStarted(b *bugFight, pick int) *bugFight {
	if _, err := b.Start(decimal.NewFromInt(10), BugPick{Bug: pick}); err != nil {
		panic(err)
	}
	return b
}

func driveFight(t *testing.T, b *bugFight) []Event {
	t.Helper()
	var all []Event
	for i := 0; i < 100; i++ {
		if b.Terminal() {
			return all
		}
		events, err := b.Advance(Tick{})
		if err != nil {
			t.Fatalf("Advance tick %d: %v", i, err)
		}
		all = append(all, events...)
	}
	t.Fatal("fight never finished")
	return nil
}

func TestBugFightLosingPick(t *testing.T) {
	b := scriptedFight(0)
	events := driveFight(t, b)

	if b.winner != 1 {
		t.Fatalf("scripted winner = %d, want 1", b.winner)
	}
	res, ok := b.Resolution()
	if !ok {
		t.Fatal("fight did not settle")
	}
	if !res.Payout.IsZero() || res.Win {
		t.Errorf("losing pick resolution = %+v, want total loss", res)
	}

	downs := 0
	for _, ev := range events {
		if strings.Contains(ev.Text, "is down!") {
			downs++
		}
	}
	if downs != 3 {
		t.Errorf("eliminations = %d, want 3", downs)
	}
}

func TestBugFightWinningPick(t *testing.T) {
	// Rock Beetle wins at 3.0x: 10*3 + 10 = 40.
	b := scriptedFight(1)
	driveFight(t, b)

	res, _ := b.Resolution()
	if got := res.Payout.StringFixed(2); got != "40.00" {
		t.Errorf("payout = %s, want 40.00", got)
	}
	if !res.Win {
		t.Error("winning pick should report a win")
	}
}

func TestBugFightAllLosersDownBeforeSettle(t *testing.T) {
	b := newBugFight(engine.NewSeeded("server", "client", 5))
	bugFightStarted(b, 2)
	driveFight(t, b)

	alive := 0
	for i, up := range b.alive {
		if up {
			alive++
			if i != b.winner {
				t.Errorf("loser %d still alive at settle", i)
			}
		}
	}
	if alive != 1 {
		t.Errorf("%d combatants alive at settle, want 1", alive)
	}
}

func TestBugFightSelectionValidation(t *testing.T) {
	b := newBugFight(engine.Const(0.5))
	stake := decimal.NewFromInt(10)

	if _, err := b.Start(stake, BugPick{Bug: len(bugRoster)}); err == nil {
		t.Error("out-of-range bug index accepted")
	}
	if _, err := b.Start(stake, HorsePick{Horse: 0}); err == nil {
		t.Error("wrong selection type accepted")
	}
}
