package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/ridwanfathin/nfe-ingestion-service/internal/domain"
)

// RepositoryError represents an error that occurred within a repository
type RepositoryError struct {
	// Op is the operation that failed
	Op string

	// Err is the underlying error
	Err error
}

// Error returns a string representation of the error
func (e *RepositoryError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	}
	return e.Op
}

func (e *RepositoryError) Unwrap() error { return e.Err }

// mapError converts pgx/pgconn errors to domain errors. Context errors are
// kept as they are so callers can tell a timeout from a failure.
func mapError(op string, err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return &RepositoryError{Op: op, Err: err}
	}

	if errors.Is(err, pgx.ErrNoRows) {
		return &RepositoryError{Op: op, Err: domain.ErrNotFound}
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505": // unique_violation
			return &RepositoryError{Op: op, Err: fmt.Errorf("%w: %s", domain.ErrAlreadyExists, pgErr.ConstraintName)}
		case "23503": // foreign_key_violation
			return &RepositoryError{Op: op, Err: fmt.Errorf("%w: %s", domain.ErrNotFound, pgErr.ConstraintName)}
		case "23514": // check_violation
			return &RepositoryError{Op: op, Err: fmt.Errorf("%w: %s", domain.ErrValidation, pgErr.ConstraintName)}
		case "22001", "22003": // string_data_right_truncation, numeric_value_out_of_range
			return &RepositoryError{Op: op, Err: fmt.Errorf("%w: %s", domain.ErrValidation, pgErr.ColumnName)}
		}
	}

	return &RepositoryError{Op: op, Err: err}
}

// checkContext fails fast when ctx is already done.
func checkContext(ctx context.Context, op string) error {
	select {
	case <-ctx.Done():
		return &RepositoryError{Op: op, Err: ctx.Err()}
	default:
		return nil
	}
}
