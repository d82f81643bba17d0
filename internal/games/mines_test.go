package games

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/LachieKelly/casino/internal/engine"
)

// minesWithBombAt starts a round with the bomb pinned to one cell.
func minesWithBombAt(t *testing.T, row, col int) *mines {
	t.Helper()
	cell := row*minesGridSize + col
	m := newMines(engine.NewFixed((float64(cell) + 0.5) / 25))
	if _, err := m.Start(decimal.NewFromInt(10), nil); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if m.bombRow != row || m.bombCol != col {
		t.Fatalf("bomb at (%d,%d), want (%d,%d)", m.bombRow, m.bombCol, row, col)
	}
	return m
}

func bonusCredits(events []Event) []decimal.Decimal {
	var credits []decimal.Decimal
	for _, ev := range events {
		if ev.Kind == EventBonus {
			credits = append(credits, ev.Credit)
		}
	}
	return credits
}

func TestMinesRowBonusPaidOncePerRow(t *testing.T) {
	m := minesWithBombAt(t, 4, 4)

	// Reveal row 0 left to right; only the fifth cell completes it.
	for col := 0; col < 4; col++ {
		events, err := m.Advance(Reveal{Row: 0, Col: col})
		if err != nil {
			t.Fatalf("reveal (0,%d): %v", col, err)
		}
		if n := len(bonusCredits(events)); n != 0 {
			t.Errorf("bonus after %d cells of row 0, want none", col+1)
		}
	}
	events, err := m.Advance(Reveal{Row: 0, Col: 4})
	if err != nil {
		t.Fatalf("reveal (0,4): %v", err)
	}
	credits := bonusCredits(events)
	if len(credits) != 1 {
		t.Fatalf("bonuses on row completion = %d, want 1", len(credits))
	}
	if got := credits[0].StringFixed(2); got != "0.80" {
		t.Errorf("row bonus = %s, want 0.80 (stake x 0.08)", got)
	}

	// Re-revealing a cell in the completed row is a no-op.
	again, err := m.Advance(Reveal{Row: 0, Col: 4})
	if err != nil {
		t.Fatalf("repeat reveal: %v", err)
	}
	if len(again) != 0 {
		t.Errorf("repeat reveal produced %d events, want none", len(again))
	}
}

func TestMinesColumnBonusPaidOnce(t *testing.T) {
	m := minesWithBombAt(t, 4, 4)

	var credits []decimal.Decimal
	for row := 0; row < 5; row++ {
		events, err := m.Advance(Reveal{Row: row, Col: 0})
		if err != nil {
			t.Fatalf("reveal (%d,0): %v", row, err)
		}
		credits = append(credits, bonusCredits(events)...)
	}
	if len(credits) != 1 {
		t.Errorf("column bonuses = %d, want exactly 1", len(credits))
	}
}

func TestMinesBombEndsRoundLost(t *testing.T) {
	m := minesWithBombAt(t, 2, 3)

	// A few safe reveals first; hitting the bomb still loses everything.
	for _, cell := range [][2]int{{0, 0}, {0, 1}, {1, 1}} {
		if _, err := m.Advance(Reveal{Row: cell[0], Col: cell[1]}); err != nil {
			t.Fatalf("reveal %v: %v", cell, err)
		}
	}
	events, err := m.Advance(Reveal{Row: 2, Col: 3})
	if err != nil {
		t.Fatalf("bomb reveal: %v", err)
	}
	if !m.Terminal() {
		t.Fatal("bomb did not end the round")
	}
	res, _ := m.Resolution()
	if !res.Payout.IsZero() || res.Win {
		t.Errorf("bomb resolution = %+v, want Lost with zero payout", res)
	}
	if events[0].Kind != EventOutcome {
		t.Errorf("bomb event kind = %q, want outcome", events[0].Kind)
	}

	if _, err := m.Advance(Reveal{Row: 0, Col: 2}); err != ErrRoundOver {
		t.Errorf("reveal after loss error = %v, want ErrRoundOver", err)
	}
}

func TestMinesFullClearWinsFlatPayout(t *testing.T) {
	m := minesWithBombAt(t, 4, 4)

	totalBonus := decimal.Zero
	for row := 0; row < 5; row++ {
		for col := 0; col < 5; col++ {
			if row == 4 && col == 4 {
				continue
			}
			events, err := m.Advance(Reveal{Row: row, Col: col})
			if err != nil {
				t.Fatalf("reveal (%d,%d): %v", row, col, err)
			}
			for _, c := range bonusCredits(events) {
				totalBonus = totalBonus.Add(c)
			}
		}
	}

	if !m.Terminal() {
		t.Fatal("clearing all safe cells did not settle")
	}
	res, _ := m.Resolution()
	if got := res.Payout.StringFixed(2); got != "50.00" {
		t.Errorf("win payout = %s, want flat 50.00 regardless of bonuses", got)
	}
	if !res.Win {
		t.Error("full clear should report a win")
	}

	// Rows 0-3 and columns 0-3 complete; the bomb's own row and column
	// never do. 8 bonuses at 0.80 each.
	if got := totalBonus.StringFixed(2); got != "6.40" {
		t.Errorf("total bonuses = %s, want 6.40", got)
	}
}

func TestMinesRejectsOutOfRangeAndWrongInput(t *testing.T) {
	m := minesWithBombAt(t, 0, 0)

	if _, err := m.Advance(Reveal{Row: 5, Col: 0}); err == nil {
		t.Error("out-of-range row accepted")
	}
	if _, err := m.Advance(Reveal{Row: 0, Col: -1}); err == nil {
		t.Error("negative column accepted")
	}
	if _, err := m.Advance(Tick{}); err != ErrBadInput {
		t.Errorf("tick error = %v, want ErrBadInput", err)
	}
}
