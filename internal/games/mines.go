package games

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/LachieKelly/casino/internal/engine"
)

const (
	minesGridSize  = 5
	minesBombCount = 1
)

var (
	minesLineBonus = decimal.RequireFromString("0.08")
	minesWinPayout = decimal.NewFromInt(5)
)

type minesState int

const (
	minesNotStarted minesState = iota
	minesInProgress
	minesWon
	minesLost
)

// mines is a 5x5 reveal game with a single hidden bomb. Completing a full
// row or column pays an immediate bonus credit; clearing every safe cell
// wins a flat multiple of the stake. The bonuses and the win payout stack.
type mines struct {
	src      engine.Source
	state    minesState
	stake    decimal.Decimal
	bombRow  int
	bombCol  int
	revealed [minesGridSize][minesGridSize]bool
	safeLeft int
	rowPaid  [minesGridSize]bool
	colPaid  [minesGridSize]bool
	res      Resolution
}

func newMines(src engine.Source) *mines { return &mines{src: src} }

func (m *mines) Kind() Kind { return KindMines }

func (m *mines) Start(stake decimal.Decimal, sel Selection) ([]Event, error) {
	if m.state == minesInProgress {
		return nil, ErrRoundInProgress
	}
	if err := ValidateSelection(KindMines, sel); err != nil {
		return nil, err
	}
	m.stake = stake
	m.res = Resolution{}
	m.revealed = [minesGridSize][minesGridSize]bool{}
	m.rowPaid = [minesGridSize]bool{}
	m.colPaid = [minesGridSize]bool{}

	cell := engine.Intn(m.src, minesGridSize*minesGridSize)
	m.bombRow = cell / minesGridSize
	m.bombCol = cell % minesGridSize
	m.safeLeft = minesGridSize*minesGridSize - minesBombCount
	m.state = minesInProgress
	return []Event{narrate("%dx%d grid set, one bomb hidden. Pick a cell.",
		minesGridSize, minesGridSize)}, nil
}

func (m *mines) Advance(in Input) ([]Event, error) {
	if m.state == minesNotStarted {
		return nil, ErrNotStarted
	}
	if m.state == minesWon || m.state == minesLost {
		return nil, ErrRoundOver
	}
	rev, ok := in.(Reveal)
	if !ok {
		return nil, ErrBadInput
	}
	if rev.Row < 0 || rev.Row >= minesGridSize || rev.Col < 0 || rev.Col >= minesGridSize {
		return nil, fmt.Errorf("%w: cell (%d,%d)", ErrBadInput, rev.Row, rev.Col)
	}
	if m.revealed[rev.Row][rev.Col] {
		return nil, nil
	}

	if rev.Row == m.bombRow && rev.Col == m.bombCol {
		m.revealed[rev.Row][rev.Col] = true
		m.state = minesLost
		m.res = Resolution{
			Payout: decimal.Zero,
			Detail: fmt.Sprintf("hit the bomb at (%d,%d)", rev.Row, rev.Col),
		}
		return []Event{
			outcome("Boom! Bomb at (%d,%d)", rev.Row, rev.Col),
			{Kind: EventSettled, Text: fmt.Sprintf("You lost %s", m.stake.StringFixed(2))},
		}, nil
	}

	m.revealed[rev.Row][rev.Col] = true
	m.safeLeft--
	events := []Event{narrate("Safe at (%d,%d), %d to go", rev.Row, rev.Col, m.safeLeft)}

	// Line bonuses pay out the moment a full row or column is uncovered,
	// at most once each.
	if !m.rowPaid[rev.Row] && m.lineRevealed(rev.Row, true) {
		m.rowPaid[rev.Row] = true
		bonus := m.stake.Mul(minesLineBonus)
		events = append(events, Event{Kind: EventBonus,
			Text:   fmt.Sprintf("Row %d cleared! Bonus %s", rev.Row, bonus.StringFixed(2)),
			Credit: bonus})
	}
	if !m.colPaid[rev.Col] && m.lineRevealed(rev.Col, false) {
		m.colPaid[rev.Col] = true
		bonus := m.stake.Mul(minesLineBonus)
		events = append(events, Event{Kind: EventBonus,
			Text:   fmt.Sprintf("Column %d cleared! Bonus %s", rev.Col, bonus.StringFixed(2)),
			Credit: bonus})
	}

	if m.safeLeft == 0 {
		m.state = minesWon
		m.res = Resolution{
			Payout: m.stake.Mul(minesWinPayout),
			Win:    true,
			Detail: "cleared every safe cell",
		}
		events = append(events, Event{Kind: EventSettled,
			Text: fmt.Sprintf("Board cleared! You won %s", m.res.Payout.StringFixed(2))})
	}
	return events, nil
}

// lineRevealed reports whether every cell in the line is open. The bomb
// cell can never be opened safely, so the bomb's own row and column never
// pay a bonus.
func (m *mines) lineRevealed(n int, row bool) bool {
	for i := 0; i < minesGridSize; i++ {
		r, c := n, i
		if !row {
			r, c = i, n
		}
		if !m.revealed[r][c] {
			return false
		}
	}
	return true
}

func (m *mines) Terminal() bool { return m.state == minesWon || m.state == minesLost }

func (m *mines) Resolution() (Resolution, bool) {
	if !m.Terminal() {
		return Resolution{}, false
	}
	return m.res, true
}
