package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/ridwanfathin/nfe-ingestion-service/internal/domain"
	"github.com/ridwanfathin/nfe-ingestion-service/internal/repository"
)

// RecipientResolver finds the recipient an invoice is addressed to, creating
// a placeholder for taxpayers that never registered.
type RecipientResolver interface {
	Resolve(ctx context.Context, taxID string) (*domain.Recipient, error)
}

// RecipientResolverImpl implements RecipientResolver over a RecipientRepository
type RecipientResolverImpl struct {
	repo    repository.RecipientRepository
	timeout time.Duration
	log     *slog.Logger
}

// NewRecipientResolver creates a new RecipientResolver
func NewRecipientResolver(repo repository.RecipientRepository, timeout time.Duration, log *slog.Logger) RecipientResolver {
	if timeout <= 0 {
		timeout = DefaultOptions().StoreTimeout
	}
	return &RecipientResolverImpl{
		repo:    repo,
		timeout: timeout,
		log:     log.With("service", "recipient_resolver"),
	}
}

// Resolve is find-or-create. Losing a creation race to another request is
// success: the winner's record is read back.
func (s *RecipientResolverImpl) Resolve(ctx context.Context, taxID string) (*domain.Recipient, error) {
	rec, err := s.find(ctx, taxID)
	if err == nil {
		return rec, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, domain.NewDependencyError("recipient", "find", err)
	}

	callCtx, cancel := context.WithTimeout(ctx, s.timeout)
	rec, err = s.repo.CreatePlaceholder(callCtx, taxID)
	cancel()

	switch {
	case err == nil:
		s.log.InfoContext(ctx, "placeholder recipient created", slog.String("tax_id", taxID))
		return rec, nil
	case errors.Is(err, domain.ErrAlreadyExists):
		s.log.DebugContext(ctx, "recipient created concurrently", slog.String("tax_id", taxID))
	default:
		return nil, domain.NewDependencyError("recipient", "create_placeholder", err)
	}

	rec, err = s.find(ctx, taxID)
	if err != nil {
		return nil, domain.NewDependencyError("recipient", "find", err)
	}
	return rec, nil
}

func (s *RecipientResolverImpl) find(ctx context.Context, taxID string) (*domain.Recipient, error) {
	callCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	return s.repo.FindByTaxID(callCtx, taxID)
}
