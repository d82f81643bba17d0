package store

import (
	"context"
	"database/sql"
	"embed"
	"fmt"

	"github.com/google/uuid"
	"github.com/pressly/goose/v3"
	"github.com/shopspring/decimal"
	_ "modernc.org/sqlite"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// SQLiteDB implements the DB interface using SQLite
type SQLiteDB struct {
	db *sql.DB
}

// NewSQLiteDB creates a new SQLite database connection
func NewSQLiteDB(path string) (*SQLiteDB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Enable WAL mode for better concurrency
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
	}
	if _, err := db.Exec("PRAGMA busy_timeout=5000"); err != nil {
		return nil, fmt.Errorf("failed to set busy timeout: %w", err)
	}

	return &SQLiteDB{db: db}, nil
}

// Close closes the database connection
func (s *SQLiteDB) Close() error {
	return s.db.Close()
}

// Migrate applies the embedded schema migrations
func (s *SQLiteDB) Migrate() error {
	goose.SetBaseFS(migrationsFS)
	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("failed to set migration dialect: %w", err)
	}
	if err := goose.Up(s.db, "migrations"); err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}
	return nil
}

// SaveRound journals one settled round
func (s *SQLiteDB) SaveRound(ctx context.Context, round *Round) error {
	if round.ID == "" {
		round.ID = uuid.New().String()
	}

	winInt := 0
	if round.Win {
		winInt = 1
	}

	query := `INSERT INTO rounds (id, username, game, stake, payout, win, detail)
		VALUES (?, ?, ?, ?, ?, ?, ?)`
	_, err := s.db.ExecContext(ctx, query,
		round.ID, round.Username, round.Game,
		round.Stake.String(), round.Payout.String(), winInt, round.Detail,
	)
	return err
}

// ListRounds retrieves rounds with pagination and filtering, newest first
func (s *SQLiteDB) ListRounds(ctx context.Context, query RoundsQuery) (*RoundsList, error) {
	whereClause := ""
	args := []interface{}{}

	switch {
	case query.Username != "" && query.Game != "":
		whereClause = "WHERE username = ? AND game = ?"
		args = append(args, query.Username, query.Game)
	case query.Username != "":
		whereClause = "WHERE username = ?"
		args = append(args, query.Username)
	case query.Game != "":
		whereClause = "WHERE game = ?"
		args = append(args, query.Game)
	}

	countQuery := "SELECT COUNT(*) FROM rounds " + whereClause
	var totalCount int
	if err := s.db.QueryRowContext(ctx, countQuery, args...).Scan(&totalCount); err != nil {
		return nil, fmt.Errorf("failed to get total count: %w", err)
	}

	if query.PerPage <= 0 {
		query.PerPage = 50
	}
	if query.Page <= 0 {
		query.Page = 1
	}
	totalPages := (totalCount + query.PerPage - 1) / query.PerPage
	offset := (query.Page - 1) * query.PerPage

	mainQuery := `SELECT id, username, game, stake, payout, win, detail, created_at
		FROM rounds ` + whereClause + `
		ORDER BY created_at DESC, id
		LIMIT ? OFFSET ?`
	args = append(args, query.PerPage, offset)

	rows, err := s.db.QueryContext(ctx, mainQuery, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query rounds: %w", err)
	}
	defer rows.Close()

	var rounds []Round
	for rows.Next() {
		round, err := scanRound(rows)
		if err != nil {
			return nil, err
		}
		rounds = append(rounds, round)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rounds: %w", err)
	}

	return &RoundsList{
		Rounds:     rounds,
		TotalCount: totalCount,
		Page:       query.Page,
		PerPage:    query.PerPage,
		TotalPages: totalPages,
	}, nil
}

func scanRound(rows *sql.Rows) (Round, error) {
	var round Round
	var stake, payout string
	var winInt int
	err := rows.Scan(&round.ID, &round.Username, &round.Game,
		&stake, &payout, &winInt, &round.Detail, &round.CreatedAt)
	if err != nil {
		return Round{}, fmt.Errorf("failed to scan round: %w", err)
	}
	round.Stake, err = decimal.NewFromString(stake)
	if err != nil {
		return Round{}, fmt.Errorf("corrupt stake %q: %w", stake, err)
	}
	round.Payout, err = decimal.NewFromString(payout)
	if err != nil {
		return Round{}, fmt.Errorf("corrupt payout %q: %w", payout, err)
	}
	round.Win = winInt == 1
	return round, nil
}

// UserSummary aggregates one user's journal. Totals are summed in Go so
// the decimal amounts never pass through SQLite float arithmetic.
func (s *SQLiteDB) UserSummary(ctx context.Context, username string) (*Summary, error) {
	query := `SELECT stake, payout, win FROM rounds WHERE username = ?`
	rows, err := s.db.QueryContext(ctx, query, username)
	if err != nil {
		return nil, fmt.Errorf("failed to query summary: %w", err)
	}
	defer rows.Close()

	summary := &Summary{
		Username: username,
		Wagered:  decimal.Zero,
		Returned: decimal.Zero,
	}
	for rows.Next() {
		var stake, payout string
		var winInt int
		if err := rows.Scan(&stake, &payout, &winInt); err != nil {
			return nil, fmt.Errorf("failed to scan summary row: %w", err)
		}
		st, err := decimal.NewFromString(stake)
		if err != nil {
			return nil, fmt.Errorf("corrupt stake %q: %w", stake, err)
		}
		po, err := decimal.NewFromString(payout)
		if err != nil {
			return nil, fmt.Errorf("corrupt payout %q: %w", payout, err)
		}
		summary.Rounds++
		if winInt == 1 {
			summary.Wins++
		}
		summary.Wagered = summary.Wagered.Add(st)
		summary.Returned = summary.Returned.Add(po)
	}
	return summary, rows.Err()
}
