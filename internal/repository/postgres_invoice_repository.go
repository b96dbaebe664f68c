package repository

import (
	"context"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ridwanfathin/nfe-ingestion-service/internal/domain"
)

const invoicesTable = "invoices"

var invoiceColumns = []string{
	"id",
	"access_key",
	"issue_date",
	"total_value::text AS total_value",
	"document_number",
	"issuer_name",
	"owner_id",
	"created_at",
}

// invoiceRow mirrors the invoices table. total_value is read as text so the
// decimal keeps its exact scale.
type invoiceRow struct {
	ID             uuid.UUID `db:"id"`
	AccessKey      string    `db:"access_key"`
	IssueDate      time.Time `db:"issue_date"`
	TotalValue     string    `db:"total_value"`
	DocumentNumber string    `db:"document_number"`
	IssuerName     string    `db:"issuer_name"`
	OwnerID        string    `db:"owner_id"`
	CreatedAt      time.Time `db:"created_at"`
}

func (r invoiceRow) toDomain() (domain.Invoice, error) {
	total, err := decimal.NewFromString(r.TotalValue)
	if err != nil {
		return domain.Invoice{}, fmt.Errorf("invoice %s: total_value %q: %w", r.ID, r.TotalValue, err)
	}
	return domain.Invoice{
		ID:             r.ID,
		AccessKey:      r.AccessKey,
		IssueDate:      r.IssueDate,
		TotalValue:     total,
		DocumentNumber: r.DocumentNumber,
		IssuerName:     r.IssuerName,
		OwnerID:        r.OwnerID,
		CreatedAt:      r.CreatedAt,
	}, nil
}

func rowsToDomain(rows []invoiceRow) ([]domain.Invoice, error) {
	out := make([]domain.Invoice, 0, len(rows))
	for _, row := range rows {
		inv, err := row.toDomain()
		if err != nil {
			return nil, err
		}
		out = append(out, inv)
	}
	return out, nil
}

// PostgresInvoiceRepository implements InvoiceRepository using PostgreSQL
type PostgresInvoiceRepository struct {
	db Querier
}

// NewPostgresInvoiceRepository creates a new PostgreSQL invoice repository
func NewPostgresInvoiceRepository(db Querier) *PostgresInvoiceRepository {
	return &PostgresInvoiceRepository{db: db}
}

// FindByAccessKey retrieves the invoice registered under accessKey
func (r *PostgresInvoiceRepository) FindByAccessKey(ctx context.Context, accessKey string) (*domain.Invoice, error) {
	const op = "find invoice by access key"

	query, args, err := psql.Select(invoiceColumns...).
		From(invoicesTable).
		Where(sq.Eq{"access_key": accessKey}).
		ToSql()
	if err != nil {
		return nil, &RepositoryError{Op: op, Err: err}
	}

	var row invoiceRow
	if err := pgxscan.Get(ctx, r.db, &row, query, args...); err != nil {
		return nil, mapError(op, err)
	}

	inv, err := row.toDomain()
	if err != nil {
		return nil, &RepositoryError{Op: op, Err: err}
	}
	return &inv, nil
}

// Insert stores a new invoice. The access_key unique constraint turns a
// concurrent duplicate into domain.ErrAlreadyExists.
func (r *PostgresInvoiceRepository) Insert(ctx context.Context, invoice *domain.Invoice) error {
	const op = "insert invoice"

	query, args, err := psql.Insert(invoicesTable).
		Columns("id", "access_key", "issue_date", "total_value", "document_number", "issuer_name", "owner_id").
		Values(
			invoice.ID,
			invoice.AccessKey,
			invoice.IssueDate,
			invoice.TotalValue.StringFixed(2),
			invoice.DocumentNumber,
			invoice.IssuerName,
			invoice.OwnerID,
		).
		Suffix("RETURNING created_at").
		ToSql()
	if err != nil {
		return &RepositoryError{Op: op, Err: err}
	}

	if err := r.db.QueryRow(ctx, query, args...).Scan(&invoice.CreatedAt); err != nil {
		return mapError(op, err)
	}
	return nil
}

// FindByOwnerPaged retrieves one page of the owner's invoices
func (r *PostgresInvoiceRepository) FindByOwnerPaged(ctx context.Context, ownerID string, page domain.PageRequest) ([]domain.Invoice, error) {
	const op = "list invoices by owner"

	query, args, err := psql.Select(invoiceColumns...).
		From(invoicesTable).
		Where(sq.Eq{"owner_id": ownerID}).
		OrderBy("issue_date DESC", "id ASC").
		Limit(uint64(page.PageSize)).
		Offset(uint64(page.Offset())).
		ToSql()
	if err != nil {
		return nil, &RepositoryError{Op: op, Err: err}
	}

	var rows []invoiceRow
	if err := pgxscan.Select(ctx, r.db, &rows, query, args...); err != nil {
		return nil, mapError(op, err)
	}

	invoices, err := rowsToDomain(rows)
	if err != nil {
		return nil, &RepositoryError{Op: op, Err: err}
	}
	return invoices, nil
}

// CountByOwner counts the owner's invoices
func (r *PostgresInvoiceRepository) CountByOwner(ctx context.Context, ownerID string) (int, error) {
	return r.count(ctx, "count invoices by owner", "COUNT(*)", ownerID)
}

// CountIssuersByOwner counts the owner's distinct issuer names
func (r *PostgresInvoiceRepository) CountIssuersByOwner(ctx context.Context, ownerID string) (int, error) {
	return r.count(ctx, "count issuers by owner", "COUNT(DISTINCT issuer_name)", ownerID)
}

func (r *PostgresInvoiceRepository) count(ctx context.Context, op, expr, ownerID string) (int, error) {
	query, args, err := psql.Select(expr).
		From(invoicesTable).
		Where(sq.Eq{"owner_id": ownerID}).
		ToSql()
	if err != nil {
		return 0, &RepositoryError{Op: op, Err: err}
	}

	var total int
	if err := r.db.QueryRow(ctx, query, args...).Scan(&total); err != nil {
		return 0, mapError(op, err)
	}
	return total, nil
}

// FindIssuersByOwnerPaged retrieves one page of issuer group headers.
// Names are compared byte-wise so grouping and ordering stay case-sensitive
// whatever the database collation.
func (r *PostgresInvoiceRepository) FindIssuersByOwnerPaged(ctx context.Context, ownerID string, page domain.PageRequest) ([]domain.IssuerSummary, error) {
	const op = "list issuers by owner"

	query, args, err := psql.Select("issuer_name", "MAX(issue_date) AS latest_issue_date").
		From(invoicesTable).
		Where(sq.Eq{"owner_id": ownerID}).
		GroupBy("issuer_name").
		OrderBy("latest_issue_date DESC", `issuer_name COLLATE "C" ASC`).
		Limit(uint64(page.PageSize)).
		Offset(uint64(page.Offset())).
		ToSql()
	if err != nil {
		return nil, &RepositoryError{Op: op, Err: err}
	}

	var issuers []domain.IssuerSummary
	if err := pgxscan.Select(ctx, r.db, &issuers, query, args...); err != nil {
		return nil, mapError(op, err)
	}
	return issuers, nil
}

// FindByOwnerAndIssuers retrieves the newest perIssuer invoices of the owner
// from each of the given issuers
func (r *PostgresInvoiceRepository) FindByOwnerAndIssuers(ctx context.Context, ownerID string, issuers []string, perIssuer int) ([]domain.Invoice, error) {
	const op = "list invoices by issuers"

	if len(issuers) == 0 || perIssuer < 1 {
		return []domain.Invoice{}, nil
	}

	ranked := sq.Select("*", "row_number() OVER (PARTITION BY issuer_name ORDER BY issue_date DESC, id ASC) AS member_rank").
		From(invoicesTable).
		Where(sq.Eq{"owner_id": ownerID, "issuer_name": issuers})

	query, args, err := psql.Select(invoiceColumns...).
		FromSelect(ranked, "ranked").
		Where(sq.LtOrEq{"member_rank": perIssuer}).
		OrderBy("issue_date DESC", "id ASC").
		ToSql()
	if err != nil {
		return nil, &RepositoryError{Op: op, Err: err}
	}

	var rows []invoiceRow
	if err := pgxscan.Select(ctx, r.db, &rows, query, args...); err != nil {
		return nil, mapError(op, err)
	}

	invoices, err := rowsToDomain(rows)
	if err != nil {
		return nil, &RepositoryError{Op: op, Err: err}
	}
	return invoices, nil
}

// ListIDs pages through invoice ids in id order for reconciliation
func (r *PostgresInvoiceRepository) ListIDs(ctx context.Context, after uuid.UUID, limit int) ([]uuid.UUID, error) {
	const op = "list invoice ids"

	query, args, err := psql.Select("id").
		From(invoicesTable).
		Where(sq.Gt{"id": after}).
		OrderBy("id ASC").
		Limit(uint64(limit)).
		ToSql()
	if err != nil {
		return nil, &RepositoryError{Op: op, Err: err}
	}

	var ids []uuid.UUID
	if err := pgxscan.Select(ctx, r.db, &ids, query, args...); err != nil {
		return nil, mapError(op, err)
	}
	return ids, nil
}
