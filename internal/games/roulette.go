package games

import (
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/LachieKelly/casino/internal/engine"
)

// Token is one selectable bet unit on the roulette table: a straight
// number ("0", "00", "1".."36"), a color, a parity, a range, or a dozen.
type Token string

const (
	TokenRed    Token = "red"
	TokenBlack  Token = "black"
	TokenEven   Token = "even"
	TokenOdd    Token = "odd"
	TokenLow    Token = "1-18"
	TokenHigh   Token = "19-36"
	TokenDozen1 Token = "1-12"
	TokenDozen2 Token = "13-24"
	TokenDozen3 Token = "25-36"
)

// American wheel pocket order. The wheel layout only affects display; every
// pocket is drawn with equal probability.
var wheelPockets = []string{
	"0", "28", "9", "26", "30", "11", "7", "20", "32", "17", "5", "22",
	"34", "15", "3", "24", "36", "13", "1", "00", "27", "10", "25", "29",
	"12", "8", "19", "31", "18", "6", "21", "33", "16", "4", "23", "35",
	"14", "2",
}

var redPockets = map[int]bool{
	1: true, 3: true, 5: true, 7: true, 9: true,
	12: true, 14: true, 16: true, 18: true, 19: true,
	21: true, 23: true, 25: true, 27: true, 30: true,
	32: true, 34: true, 36: true,
}

// Valid reports whether the token names a real bet.
func (t Token) Valid() bool {
	switch t {
	case TokenRed, TokenBlack, TokenEven, TokenOdd,
		TokenLow, TokenHigh, TokenDozen1, TokenDozen2, TokenDozen3:
		return true
	case "0", "00":
		return true
	}
	n, err := strconv.Atoi(string(t))
	return err == nil && n >= 1 && n <= 36
}

// matches reports whether the token wins against the given pocket label.
func (t Token) matches(pocket string) bool {
	n, numeric := pocketNumber(pocket)
	switch t {
	case TokenRed:
		return numeric && redPockets[n]
	case TokenBlack:
		return numeric && !redPockets[n]
	case TokenEven:
		return numeric && n%2 == 0
	case TokenOdd:
		return numeric && n%2 == 1
	case TokenLow:
		return numeric && n >= 1 && n <= 18
	case TokenHigh:
		return numeric && n >= 19 && n <= 36
	case TokenDozen1:
		return numeric && n >= 1 && n <= 12
	case TokenDozen2:
		return numeric && n >= 13 && n <= 24
	case TokenDozen3:
		return numeric && n >= 25 && n <= 36
	}
	return string(t) == pocket
}

// pocketNumber parses a pocket label; "0" and "00" are not numeric for
// outside-bet purposes.
func pocketNumber(pocket string) (int, bool) {
	if pocket == "0" || pocket == "00" {
		return 0, false
	}
	n, err := strconv.Atoi(pocket)
	if err != nil {
		return 0, false
	}
	return n, true
}

// PocketColor returns "Red", "Black", or "Green" for a pocket label.
func PocketColor(pocket string) string {
	n, numeric := pocketNumber(pocket)
	if !numeric {
		return "Green"
	}
	if redPockets[n] {
		return "Red"
	}
	return "Black"
}

// TokenPayout is the total amount returned for a winning token: straight
// numbers (including 0/00) pay 35:1 plus the returned stake, even-money
// tokens pay 1:1, dozens pay 2:1. A token that does not match the pocket
// returns zero. Every token is evaluated against the round's single shared
// stake.
func TokenPayout(tok Token, pocket string, stake decimal.Decimal) decimal.Decimal {
	if !tok.matches(pocket) {
		return decimal.Zero
	}
	switch tok {
	case TokenRed, TokenBlack, TokenEven, TokenOdd, TokenLow, TokenHigh:
		return stake.Mul(decimal.NewFromInt(2))
	case TokenDozen1, TokenDozen2, TokenDozen3:
		return stake.Mul(decimal.NewFromInt(3))
	}
	// Straight number match, 0 and 00 included.
	return stake.Mul(decimal.NewFromInt(36))
}

type rouletteState int

const (
	rouletteIdle rouletteState = iota
	rouletteSpinning
	rouletteSettled
)

// roulette is the single-shot roulette engine: Idle -> Spinning -> Settled.
type roulette struct {
	src    engine.Source
	state  rouletteState
	stake  decimal.Decimal
	tokens []Token
	pocket string
	res    Resolution
}

func newRoulette(src engine.Source) *roulette { return &roulette{src: src} }

func (r *roulette) Kind() Kind { return KindRoulette }

// Start draws the winning pocket immediately; the visual delay before the
// result is shown is not a correctness boundary.
func (r *roulette) Start(stake decimal.Decimal, sel Selection) ([]Event, error) {
	if r.state == rouletteSpinning {
		return nil, ErrRoundInProgress
	}
	if err := ValidateSelection(KindRoulette, sel); err != nil {
		return nil, err
	}
	bets := sel.(RouletteBets)
	r.stake = stake
	r.tokens = bets.Tokens
	r.pocket = wheelPockets[engine.Intn(r.src, len(wheelPockets))]
	r.state = rouletteSpinning
	r.res = Resolution{}
	return []Event{narrate("No more bets. The wheel spins...")}, nil
}

func (r *roulette) Advance(in Input) ([]Event, error) {
	if r.state == rouletteIdle {
		return nil, ErrNotStarted
	}
	if r.state == rouletteSettled {
		return nil, ErrRoundOver
	}
	if _, ok := in.(Tick); !ok && in != nil {
		return nil, ErrBadInput
	}

	events := []Event{
		outcome("Spun: %s (%s)", r.pocket, PocketColor(r.pocket)),
	}

	total := decimal.Zero
	for _, tok := range r.tokens {
		payout := TokenPayout(tok, r.pocket, r.stake)
		if payout.IsPositive() {
			total = total.Add(payout)
			events = append(events, narrate("%s pays %s", tok, payout.StringFixed(2)))
		}
	}

	r.res = Resolution{Payout: total, Win: total.IsPositive()}
	if total.IsPositive() {
		r.res.Detail = "winning pocket " + r.pocket
		events = append(events, Event{Kind: EventSettled,
			Text: "Total won: " + total.StringFixed(2)})
	} else {
		r.res.Detail = "no matching tokens"
		events = append(events, Event{Kind: EventSettled,
			Text: "You lost " + r.stake.StringFixed(2)})
	}
	r.state = rouletteSettled
	return events, nil
}

func (r *roulette) Terminal() bool { return r.state == rouletteSettled }

func (r *roulette) Resolution() (Resolution, bool) {
	if r.state != rouletteSettled {
		return Resolution{}, false
	}
	return r.res, true
}
