package repository

import (
	"context"

	sq "github.com/Masterminds/squirrel"

	"github.com/ridwanfathin/nfe-ingestion-service/internal/domain"
)

// PostgresRecipientRepository implements RecipientRepository using PostgreSQL
type PostgresRecipientRepository struct {
	db Querier
}

// NewPostgresRecipientRepository creates a new PostgreSQL recipient repository
func NewPostgresRecipientRepository(db Querier) *PostgresRecipientRepository {
	return &PostgresRecipientRepository{db: db}
}

// FindByTaxID retrieves a recipient by taxpayer id
func (r *PostgresRecipientRepository) FindByTaxID(ctx context.Context, taxID string) (*domain.Recipient, error) {
	const op = "find recipient"

	query, args, err := psql.Select("tax_id", "status", "created_at").
		From("recipients").
		Where(sq.Eq{"tax_id": taxID}).
		ToSql()
	if err != nil {
		return nil, &RepositoryError{Op: op, Err: err}
	}

	var rec domain.Recipient
	if err := r.db.QueryRow(ctx, query, args...).Scan(&rec.TaxID, &rec.Status, &rec.CreatedAt); err != nil {
		return nil, mapError(op, err)
	}
	return &rec, nil
}

// CreatePlaceholder registers a taxpayer that has no profile yet
func (r *PostgresRecipientRepository) CreatePlaceholder(ctx context.Context, taxID string) (*domain.Recipient, error) {
	const op = "create placeholder recipient"

	query, args, err := psql.Insert("recipients").
		Columns("tax_id", "status").
		Values(taxID, string(domain.RecipientPlaceholder)).
		Suffix("RETURNING tax_id, status, created_at").
		ToSql()
	if err != nil {
		return nil, &RepositoryError{Op: op, Err: err}
	}

	var rec domain.Recipient
	if err := r.db.QueryRow(ctx, query, args...).Scan(&rec.TaxID, &rec.Status, &rec.CreatedAt); err != nil {
		return nil, mapError(op, err)
	}
	return &rec, nil
}
