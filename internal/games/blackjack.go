package games

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/LachieKelly/casino/internal/engine"
)

type blackjackState int

const (
	bjIdle blackjackState = iota
	bjPlayerTurn
	bjSettled
)

// blackjack is a single-hand game against a dealer who stands on 17.
// Every deal starts from a freshly shuffled 52-card deck; draw reshuffles
// mid-hand if the deck somehow runs out.
type blackjack struct {
	src    engine.Source
	state  blackjackState
	stake  decimal.Decimal
	deck   []card
	pos    int
	player []card
	dealer []card
	res    Resolution
}

func newBlackjack(src engine.Source) *blackjack { return &blackjack{src: src} }

func (b *blackjack) Kind() Kind { return KindBlackjack }

func (b *blackjack) draw() card {
	if b.pos >= len(b.deck) {
		b.deck = newDeck(b.src)
		b.pos = 0
	}
	c := b.deck[b.pos]
	b.pos++
	return c
}

// Start builds a fresh shuffled deck and deals. A natural 21 stands
// immediately, so the round can be terminal as soon as Start returns.
func (b *blackjack) Start(stake decimal.Decimal, sel Selection) ([]Event, error) {
	if b.state == bjPlayerTurn {
		return nil, ErrRoundInProgress
	}
	if err := ValidateSelection(KindBlackjack, sel); err != nil {
		return nil, err
	}
	b.deck = newDeck(b.src)
	b.pos = 0
	return b.deal(stake), nil
}

// deal hands out player, dealer, player, dealer. If either hand opens at
// exactly 21 the round resolves as an immediate stand.
func (b *blackjack) deal(stake decimal.Decimal) []Event {
	b.stake = stake
	b.res = Resolution{}

	b.player = []card{}
	b.dealer = []card{}
	b.player = append(b.player, b.draw())
	b.dealer = append(b.dealer, b.draw())
	b.player = append(b.player, b.draw())
	b.dealer = append(b.dealer, b.draw())

	b.state = bjPlayerTurn
	events := []Event{
		narrate("Your hand: %s (%d)", handString(b.player), handValue(b.player)),
		narrate("Dealer shows: %s", b.dealer[0]),
	}
	if handValue(b.player) == 21 || handValue(b.dealer) == 21 {
		if handValue(b.player) == 21 {
			events = append(events, narrate("Blackjack!"))
		}
		events = append(events, b.settle()...)
	}
	return events
}

func (b *blackjack) Advance(in Input) ([]Event, error) {
	if b.state == bjIdle {
		return nil, ErrNotStarted
	}
	if b.state == bjSettled {
		return nil, ErrRoundOver
	}

	switch in.(type) {
	case Hit:
		c := b.draw()
		b.player = append(b.player, c)
		total := handValue(b.player)
		events := []Event{narrate("You draw %s (%d)", c, total)}
		if total > 21 {
			events = append(events, b.settle()...)
		} else if total == 21 {
			// Nothing to gain from another card; stand automatically.
			events = append(events, b.settle()...)
		}
		return events, nil
	case Stand:
		return b.settle(), nil
	}
	return nil, ErrBadInput
}

// settle plays out the dealer hand if the player has not busted, then
// applies the payout law: win pays double the stake, push refunds it,
// anything else forfeits it.
func (b *blackjack) settle() []Event {
	playerTotal := handValue(b.player)
	var events []Event

	dealerTotal := handValue(b.dealer)
	if playerTotal <= 21 {
		for dealerTotal < 17 {
			c := b.draw()
			b.dealer = append(b.dealer, c)
			dealerTotal = handValue(b.dealer)
			events = append(events, narrate("Dealer draws %s (%d)", c, dealerTotal))
		}
	}
	events = append(events, outcome("You: %s (%d). Dealer: %s (%d)",
		handString(b.player), playerTotal, handString(b.dealer), dealerTotal))

	switch {
	case playerTotal > 21:
		b.res = Resolution{Payout: decimal.Zero,
			Detail: fmt.Sprintf("bust at %d", playerTotal)}
		events = append(events, Event{Kind: EventSettled,
			Text: fmt.Sprintf("Bust! You lost %s", b.stake.StringFixed(2))})
	case dealerTotal > 21:
		b.res = Resolution{Payout: b.stake.Mul(decimal.NewFromInt(2)), Win: true,
			Detail: fmt.Sprintf("dealer bust at %d", dealerTotal)}
		events = append(events, Event{Kind: EventSettled,
			Text: fmt.Sprintf("Dealer busts! You won %s", b.res.Payout.StringFixed(2))})
	case playerTotal > dealerTotal:
		b.res = Resolution{Payout: b.stake.Mul(decimal.NewFromInt(2)), Win: true,
			Detail: fmt.Sprintf("%d beats %d", playerTotal, dealerTotal)}
		events = append(events, Event{Kind: EventSettled,
			Text: fmt.Sprintf("You won %s!", b.res.Payout.StringFixed(2))})
	case playerTotal == dealerTotal:
		b.res = Resolution{Payout: b.stake,
			Detail: fmt.Sprintf("push at %d", playerTotal)}
		events = append(events, Event{Kind: EventSettled,
			Text: "Push. Your stake is returned."})
	default:
		b.res = Resolution{Payout: decimal.Zero,
			Detail: fmt.Sprintf("%d loses to %d", playerTotal, dealerTotal)}
		events = append(events, Event{Kind: EventSettled,
			Text: fmt.Sprintf("Dealer wins. You lost %s", b.stake.StringFixed(2))})
	}
	b.state = bjSettled
	return events
}

func (b *blackjack) Terminal() bool { return b.state == bjSettled }

func (b *blackjack) Resolution() (Resolution, bool) {
	if b.state != bjSettled {
		return Resolution{}, false
	}
	return b.res, true
}
