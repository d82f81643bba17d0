package games

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/LachieKelly/casino/internal/engine"
)

// deterministicRace builds a running race with fixed base speeds, no
// boosts, comebacks spent, and a constant midpoint source so jitter is
// exactly zero every tick.
func deterministicRace(pick int, bases [4]float64) *horseRace {
	h := newHorseRace(engine.Const(0.5))
	h.state = raceRunning
	h.stake = decimal.NewFromInt(10)
	h.pick = pick
	for i, base := range bases {
		h.horses[i] = horseRunner{
			speed:        base,
			base:         base,
			boost:        boostNone,
			comebackUsed: true,
		}
	}
	return h
}

func driveRace(t *testing.T, h *horseRace) {
	t.Helper()
	for i := 0; i < 10000; i++ {
		if h.Terminal() {
			return
		}
		if _, err := h.Advance(Tick{}); err != nil {
			t.Fatalf("Advance tick %d: %v", i, err)
		}
	}
	t.Fatal("race never finished")
}

func TestHorseDeterministicFinishOrder(t *testing.T) {
	h := deterministicRace(0, [4]float64{1.0, 0.9, 0.8, 0.7})
	driveRace(t, h)

	want := []int{0, 1, 2, 3}
	got := h.FinishOrder()
	if len(got) != len(want) {
		t.Fatalf("finish order %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("finish order %v, want %v", got, want)
		}
	}
}

func TestHorseWinPayout(t *testing.T) {
	// Thunder Bolt at 2.5x odds, stake 10: 10*2.5 + 10 = 35.00.
	h := deterministicRace(0, [4]float64{1.0, 0.9, 0.8, 0.7})
	driveRace(t, h)

	res, ok := h.Resolution()
	if !ok {
		t.Fatal("race did not settle")
	}
	if got := res.Payout.StringFixed(2); got != "35.00" {
		t.Errorf("payout = %s, want 35.00", got)
	}
	if !res.Win {
		t.Error("first place should report a win")
	}
}

func TestHorseSecondPlaceRefundsHalf(t *testing.T) {
	h := deterministicRace(1, [4]float64{1.0, 0.9, 0.8, 0.7})
	driveRace(t, h)

	res, _ := h.Resolution()
	if got := res.Payout.StringFixed(2); got != "5.00" {
		t.Errorf("payout = %s, want 5.00", got)
	}
	if !res.Win {
		t.Error("second place should report a win")
	}
}

func TestHorseThirdPlaceBreaksEvenWithNoRefund(t *testing.T) {
	// "Break even" is user-facing text only; the debited stake stands and
	// nothing comes back.
	h := deterministicRace(2, [4]float64{1.0, 0.9, 0.8, 0.7})
	driveRace(t, h)

	res, _ := h.Resolution()
	if !res.Payout.IsZero() {
		t.Errorf("payout = %s, want 0", res.Payout)
	}
	if res.Win {
		t.Error("third place is not a win")
	}
}

func TestHorseLastPlaceLoses(t *testing.T) {
	h := deterministicRace(3, [4]float64{1.0, 0.9, 0.8, 0.7})
	driveRace(t, h)

	res, _ := h.Resolution()
	if !res.Payout.IsZero() || res.Win {
		t.Errorf("last place resolution = %+v, want total loss", res)
	}
}

func TestHorseStartValidation(t *testing.T) {
	h := newHorseRace(engine.Const(0.5))
	stake := decimal.NewFromInt(10)

	if _, err := h.Start(stake, HorsePick{Horse: -1}); err == nil {
		t.Error("negative horse index accepted")
	}
	if _, err := h.Start(stake, HorsePick{Horse: len(horseRoster)}); err == nil {
		t.Error("out-of-range horse index accepted")
	}
	if _, err := h.Start(stake, NoSelection{}); err == nil {
		t.Error("missing pick accepted")
	}
	if _, err := h.Start(stake, HorsePick{Horse: 0}); err != nil {
		t.Errorf("valid pick rejected: %v", err)
	}
}

func TestHorseSeededRaceSettles(t *testing.T) {
	h := newHorseRace(engine.NewSeeded("server", "client", 11))
	if _, err := h.Start(decimal.NewFromInt(5), HorsePick{Horse: 2}); err != nil {
		t.Fatalf("Start: %v", err)
	}
	driveRace(t, h)

	res, ok := h.Resolution()
	if !ok {
		t.Fatal("race did not settle")
	}
	if res.Payout.IsNegative() {
		t.Errorf("negative payout %s", res.Payout)
	}
	if len(h.FinishOrder()) != 4 {
		t.Errorf("finish order %v, want 4 entries", h.FinishOrder())
	}
}
