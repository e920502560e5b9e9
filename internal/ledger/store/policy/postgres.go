package policy

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"coverledger/internal/ledger/models"
	"coverledger/pkg/sentinel"
)

// Postgres stores policies in the policies table. IDs come from the table's
// BIGSERIAL sequence, which gives the same strictly-increasing, never-reused
// guarantee the in-memory counter does.
type Postgres struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *Postgres {
	return &Postgres{db: db}
}

func (s *Postgres) Create(ctx context.Context, p *models.Policy) (uint64, error) {
	query := `
		INSERT INTO policies (owner, coverage_amount, premium_amount, start_height, end_height, active, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`
	var id uint64
	err := s.db.QueryRowContext(ctx, query,
		p.Owner, p.Coverage, p.Premium, p.StartHeight, p.EndHeight, p.Active, p.CreatedAt,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("insert policy: %w", err)
	}
	return id, nil
}

func (s *Postgres) FindByID(ctx context.Context, id uint64) (*models.Policy, error) {
	query := `
		SELECT id, owner, coverage_amount, premium_amount, start_height, end_height, active, created_at
		FROM policies
		WHERE id = $1
	`
	var p models.Policy
	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&p.ID, &p.Owner, &p.Coverage, &p.Premium, &p.StartHeight, &p.EndHeight, &p.Active, &p.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("select policy: %w", err)
	}
	return &p, nil
}
