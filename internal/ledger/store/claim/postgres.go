package claim

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"coverledger/internal/ledger/models"
	"coverledger/pkg/sentinel"
)

// Postgres stores claims in the claims table.
type Postgres struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *Postgres {
	return &Postgres{db: db}
}

func (s *Postgres) Create(ctx context.Context, c *models.Claim) (uint64, error) {
	query := `
		INSERT INTO claims (policy_id, amount, description, status, processed, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`
	var id uint64
	err := s.db.QueryRowContext(ctx, query,
		c.PolicyID, c.Amount, c.Description, string(c.Status), c.Processed, c.CreatedAt, c.UpdatedAt,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("insert claim: %w", err)
	}
	return id, nil
}

func (s *Postgres) FindByID(ctx context.Context, id uint64) (*models.Claim, error) {
	return scanClaim(s.db.QueryRowContext(ctx, selectClaim+` WHERE id = $1`, id))
}

// Execute atomically validates and mutates a claim using a transaction with
// SELECT ... FOR UPDATE, the row-lock equivalent of the in-memory store's
// mutex hold.
func (s *Postgres) Execute(ctx context.Context, id uint64, validate func(*models.Claim) error, apply func(*models.Claim)) (*models.Claim, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin claim update: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	c, err := scanClaim(tx.QueryRowContext(ctx, selectClaim+` WHERE id = $1 FOR UPDATE`, id))
	if err != nil {
		return nil, err
	}
	if err := validate(c); err != nil {
		return nil, err
	}
	apply(c)

	_, err = tx.ExecContext(ctx,
		`UPDATE claims SET status = $1, processed = $2, updated_at = $3 WHERE id = $4`,
		string(c.Status), c.Processed, c.UpdatedAt, c.ID,
	)
	if err != nil {
		return nil, fmt.Errorf("update claim: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit claim update: %w", err)
	}
	return c, nil
}

const selectClaim = `
	SELECT id, policy_id, amount, description, status, processed, created_at, updated_at
	FROM claims`

func scanClaim(row *sql.Row) (*models.Claim, error) {
	var c models.Claim
	var status string
	err := row.Scan(&c.ID, &c.PolicyID, &c.Amount, &c.Description, &status, &c.Processed, &c.CreatedAt, &c.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("select claim: %w", err)
	}
	c.Status = models.ClaimStatus(status)
	return &c, nil
}
