package games

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/LachieKelly/casino/internal/engine"
)

func TestSlotsEvaluate(t *testing.T) {
	tests := []struct {
		name  string
		reels [3]string
		want  string
	}{
		{name: "jackpot triple", reels: [3]string{"7️⃣", "7️⃣", "7️⃣"}, want: "1010"},
		{name: "second tier triple", reels: [3]string{"💎", "💎", "💎"}, want: "510"},
		{name: "third tier triple", reels: [3]string{"🔔", "🔔", "🔔"}, want: "260"},
		{name: "base triple", reels: [3]string{"🍒", "🍒", "🍒"}, want: "110"},
		{name: "leading pair", reels: [3]string{"🍋", "🍋", "⭐"}, want: "13.3"},
		{name: "trailing pair", reels: [3]string{"⭐", "🍋", "🍋"}, want: "13.3"},
		{name: "outer pair", reels: [3]string{"🍋", "⭐", "🍋"}, want: "13.3"},
		{name: "no match", reels: [3]string{"🍒", "🍋", "⭐"}, want: "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := &slots{stake: decimal.NewFromInt(10), reels: tt.reels}
			got, _ := s.evaluate()
			if got.String() != tt.want {
				t.Errorf("evaluate(%v) = %s, want %s", tt.reels, got, tt.want)
			}
		})
	}
}

func TestSlotsSpinSettlesOnFinalTick(t *testing.T) {
	s := newSlots(engine.NewSeeded("server", "client", 21))
	if _, err := s.Start(decimal.NewFromInt(10), NoSelection{}); err != nil {
		t.Fatalf("Start: %v", err)
	}

	for i := 1; i < slotSpinTicks; i++ {
		events, err := s.Advance(Tick{})
		if err != nil {
			t.Fatalf("tick %d: %v", i, err)
		}
		if s.Terminal() {
			t.Fatalf("settled early on tick %d", i)
		}
		for _, ev := range events {
			if ev.Kind != EventNarrate {
				t.Errorf("mid-spin event kind = %q, want narrate", ev.Kind)
			}
		}
	}

	events, err := s.Advance(Tick{})
	if err != nil {
		t.Fatalf("final tick: %v", err)
	}
	if !s.Terminal() {
		t.Fatal("final tick did not settle")
	}
	if events[0].Kind != EventOutcome {
		t.Errorf("final tick first event kind = %q, want outcome", events[0].Kind)
	}

	// The resolution must be derived from the final faces alone.
	res, ok := s.Resolution()
	if !ok {
		t.Fatal("no resolution after settle")
	}
	want, _ := (&slots{stake: decimal.NewFromInt(10), reels: s.reels}).evaluate()
	if !res.Payout.Equal(want) {
		t.Errorf("payout = %s, want %s from final reels %v", res.Payout, want, s.reels)
	}
}

func TestSlotsRejectsSelection(t *testing.T) {
	s := newSlots(engine.Const(0.5))
	if _, err := s.Start(decimal.NewFromInt(1), BugPick{Bug: 0}); err == nil {
		t.Error("selection accepted by auto-deal game")
	}
}
