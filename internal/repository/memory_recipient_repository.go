package repository

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/ridwanfathin/nfe-ingestion-service/internal/domain"
)

// MemoryRecipientRepository implements RecipientRepository in process memory
type MemoryRecipientRepository struct {
	mutex      sync.RWMutex
	recipients map[string]domain.Recipient
}

// NewMemoryRecipientRepository creates an empty in-memory recipient repository
func NewMemoryRecipientRepository() *MemoryRecipientRepository {
	return &MemoryRecipientRepository{
		recipients: make(map[string]domain.Recipient),
	}
}

// FindByTaxID retrieves a recipient by taxpayer id
func (r *MemoryRecipientRepository) FindByTaxID(ctx context.Context, taxID string) (*domain.Recipient, error) {
	const op = "find recipient"
	if err := checkContext(ctx, op); err != nil {
		return nil, err
	}

	r.mutex.RLock()
	defer r.mutex.RUnlock()

	rec, ok := r.recipients[taxID]
	if !ok {
		return nil, &RepositoryError{Op: op, Err: domain.ErrNotFound}
	}
	return &rec, nil
}

// CreatePlaceholder registers a taxpayer that has no profile yet
func (r *MemoryRecipientRepository) CreatePlaceholder(ctx context.Context, taxID string) (*domain.Recipient, error) {
	const op = "create placeholder recipient"
	if err := checkContext(ctx, op); err != nil {
		return nil, err
	}

	r.mutex.Lock()
	defer r.mutex.Unlock()

	if _, ok := r.recipients[taxID]; ok {
		return nil, &RepositoryError{Op: op, Err: fmt.Errorf("%w: recipient %s", domain.ErrAlreadyExists, taxID)}
	}

	rec := domain.Recipient{
		TaxID:     taxID,
		Status:    domain.RecipientPlaceholder,
		CreatedAt: time.Now().UTC(),
	}
	r.recipients[taxID] = rec
	return &rec, nil
}

func (r *MemoryRecipientRepository) exists(taxID string) bool {
	r.mutex.RLock()
	defer r.mutex.RUnlock()
	_, ok := r.recipients[taxID]
	return ok
}
