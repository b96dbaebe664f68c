package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/ridwanfathin/nfe-ingestion-service/internal/domain"
)

// InvoiceRepository defines the interface for invoice metadata storage.
// Implementations must enforce access key uniqueness themselves: Insert
// reports a duplicate with domain.ErrAlreadyExists even when the caller
// checked FindByAccessKey first.
type InvoiceRepository interface {
	// FindByAccessKey returns domain.ErrNotFound when no invoice has the key
	FindByAccessKey(ctx context.Context, accessKey string) (*domain.Invoice, error)

	// Insert stores a new invoice and fills CreatedAt
	Insert(ctx context.Context, invoice *domain.Invoice) error

	// FindByOwnerPaged returns one page of the owner's invoices, newest issue date first
	FindByOwnerPaged(ctx context.Context, ownerID string, page domain.PageRequest) ([]domain.Invoice, error)

	// CountByOwner counts all invoices of the owner
	CountByOwner(ctx context.Context, ownerID string) (int, error)

	// CountIssuersByOwner counts the distinct issuer names among the owner's invoices
	CountIssuersByOwner(ctx context.Context, ownerID string) (int, error)

	// FindIssuersByOwnerPaged returns one page of issuer groups, ordered by
	// their latest issue date descending and then by name
	FindIssuersByOwnerPaged(ctx context.Context, ownerID string, page domain.PageRequest) ([]domain.IssuerSummary, error)

	// FindByOwnerAndIssuers returns at most perIssuer of the newest invoices
	// the owner holds from each of the given issuers, newest issue date first
	FindByOwnerAndIssuers(ctx context.Context, ownerID string, issuers []string, perIssuer int) ([]domain.Invoice, error)

	// ListIDs returns up to limit invoice ids greater than after, in id order
	ListIDs(ctx context.Context, after uuid.UUID, limit int) ([]uuid.UUID, error)
}
