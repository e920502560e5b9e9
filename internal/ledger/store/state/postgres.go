package state

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"coverledger/internal/ledger/models"
	"coverledger/pkg/sentinel"
)

// Postgres holds the ledger state in a single-row table (id = 1). Ensure
// seeds the row; Execute locks it FOR UPDATE for atomic read-modify-write.
type Postgres struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *Postgres {
	return &Postgres{db: db}
}

// Ensure inserts the bootstrap row if it does not exist yet. An existing row
// wins: the administrator may have been handed over since first boot.
func (s *Postgres) Ensure(ctx context.Context, administrator string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO ledger_state (id, administrator, premiums_collected, claims_paid)
		VALUES (1, $1, 0, 0)
		ON CONFLICT (id) DO NOTHING
	`, administrator)
	if err != nil {
		return fmt.Errorf("seed ledger state: %w", err)
	}
	return nil
}

func (s *Postgres) Get(ctx context.Context) (*models.LedgerState, error) {
	return scanState(s.db.QueryRowContext(ctx, selectState))
}

func (s *Postgres) Execute(ctx context.Context, validate func(*models.LedgerState) error, apply func(*models.LedgerState)) (*models.LedgerState, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin state update: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	st, err := scanState(tx.QueryRowContext(ctx, selectState+` FOR UPDATE`))
	if err != nil {
		return nil, err
	}
	if err := validate(st); err != nil {
		return nil, err
	}
	apply(st)

	_, err = tx.ExecContext(ctx,
		`UPDATE ledger_state SET administrator = $1, premiums_collected = $2, claims_paid = $3 WHERE id = 1`,
		st.Administrator, st.PremiumsCollected, st.ClaimsPaid,
	)
	if err != nil {
		return nil, fmt.Errorf("update ledger state: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit state update: %w", err)
	}
	return st, nil
}

const selectState = `
	SELECT administrator, premiums_collected, claims_paid
	FROM ledger_state
	WHERE id = 1`

func scanState(row *sql.Row) (*models.LedgerState, error) {
	var st models.LedgerState
	err := row.Scan(&st.Administrator, &st.PremiumsCollected, &st.ClaimsPaid)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("select ledger state: %w", err)
	}
	return &st, nil
}
