package store

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// DB is the round journal interface
type DB interface {
	Close() error
	Migrate() error
	SaveRound(ctx context.Context, round *Round) error
	ListRounds(ctx context.Context, query RoundsQuery) (*RoundsList, error)
	UserSummary(ctx context.Context, username string) (*Summary, error)
}

// RoundsQuery represents query parameters for listing rounds
type RoundsQuery struct {
	Username string `json:"username,omitempty"`
	Game     string `json:"game,omitempty"`
	Page     int    `json:"page"`
	PerPage  int    `json:"perPage"`
}

// RoundsList represents a paginated rounds response
type RoundsList struct {
	Rounds     []Round `json:"rounds"`
	TotalCount int     `json:"totalCount"`
	Page       int     `json:"page"`
	PerPage    int     `json:"perPage"`
	TotalPages int     `json:"totalPages"`
}

// Round is one settled wager. Stake and Payout are stored as exact
// decimal strings, never as floats.
type Round struct {
	ID        string          `json:"id" db:"id"`
	Username  string          `json:"username" db:"username"`
	Game      string          `json:"game" db:"game"`
	Stake     decimal.Decimal `json:"stake" db:"stake"`
	Payout    decimal.Decimal `json:"payout" db:"payout"`
	Win       bool            `json:"win" db:"win"`
	Detail    string          `json:"detail" db:"detail"`
	CreatedAt time.Time       `json:"created_at" db:"created_at"`
}

// Summary aggregates one user's journal
type Summary struct {
	Username string          `json:"username"`
	Rounds   int             `json:"rounds"`
	Wins     int             `json:"wins"`
	Wagered  decimal.Decimal `json:"wagered"`
	Returned decimal.Decimal `json:"returned"`
}
