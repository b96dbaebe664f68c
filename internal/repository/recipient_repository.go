package repository

import (
	"context"

	"github.com/ridwanfathin/nfe-ingestion-service/internal/domain"
)

// RecipientRepository is the slice of the user subsystem ingestion depends on.
type RecipientRepository interface {
	// FindByTaxID returns domain.ErrNotFound for an unknown taxpayer
	FindByTaxID(ctx context.Context, taxID string) (*domain.Recipient, error)

	// CreatePlaceholder returns domain.ErrAlreadyExists when the taxpayer
	// was registered concurrently
	CreatePlaceholder(ctx context.Context, taxID string) (*domain.Recipient, error)
}
