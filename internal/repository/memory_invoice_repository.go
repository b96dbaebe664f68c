package repository

import (
	"bytes"
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ridwanfathin/nfe-ingestion-service/internal/domain"
)

// MemoryInvoiceRepository implements InvoiceRepository in process memory.
// It enforces access key uniqueness and owner existence under its lock the
// same way the database constraints do.
type MemoryInvoiceRepository struct {
	mutex      sync.RWMutex
	invoices   map[uuid.UUID]domain.Invoice
	byKey      map[string]uuid.UUID
	recipients *MemoryRecipientRepository
	now        func() time.Time
}

// NewMemoryInvoiceRepository creates an empty in-memory invoice repository.
// When recipients is not nil, Insert rejects unknown owners.
func NewMemoryInvoiceRepository(recipients *MemoryRecipientRepository) *MemoryInvoiceRepository {
	return &MemoryInvoiceRepository{
		invoices:   make(map[uuid.UUID]domain.Invoice),
		byKey:      make(map[string]uuid.UUID),
		recipients: recipients,
		now:        time.Now,
	}
}

// FindByAccessKey retrieves the invoice registered under accessKey
func (r *MemoryInvoiceRepository) FindByAccessKey(ctx context.Context, accessKey string) (*domain.Invoice, error) {
	const op = "find invoice by access key"
	if err := checkContext(ctx, op); err != nil {
		return nil, err
	}

	r.mutex.RLock()
	defer r.mutex.RUnlock()

	id, ok := r.byKey[accessKey]
	if !ok {
		return nil, &RepositoryError{Op: op, Err: domain.ErrNotFound}
	}
	inv := r.invoices[id]
	return &inv, nil
}

// Insert stores a new invoice
func (r *MemoryInvoiceRepository) Insert(ctx context.Context, invoice *domain.Invoice) error {
	const op = "insert invoice"
	if err := checkContext(ctx, op); err != nil {
		return err
	}

	if r.recipients != nil && !r.recipients.exists(invoice.OwnerID) {
		return &RepositoryError{Op: op, Err: fmt.Errorf("%w: owner %s", domain.ErrNotFound, invoice.OwnerID)}
	}

	r.mutex.Lock()
	defer r.mutex.Unlock()

	if _, ok := r.byKey[invoice.AccessKey]; ok {
		return &RepositoryError{Op: op, Err: fmt.Errorf("%w: access key %s", domain.ErrAlreadyExists, invoice.AccessKey)}
	}
	if _, ok := r.invoices[invoice.ID]; ok {
		return &RepositoryError{Op: op, Err: fmt.Errorf("%w: id %s", domain.ErrAlreadyExists, invoice.ID)}
	}

	invoice.CreatedAt = r.now().UTC()
	r.invoices[invoice.ID] = *invoice
	r.byKey[invoice.AccessKey] = invoice.ID
	return nil
}

// FindByOwnerPaged retrieves one page of the owner's invoices
func (r *MemoryInvoiceRepository) FindByOwnerPaged(ctx context.Context, ownerID string, page domain.PageRequest) ([]domain.Invoice, error) {
	if err := checkContext(ctx, "list invoices by owner"); err != nil {
		return nil, err
	}

	owned := r.filter(func(inv domain.Invoice) bool { return inv.OwnerID == ownerID })
	return paginate(owned, page), nil
}

// CountByOwner counts the owner's invoices
func (r *MemoryInvoiceRepository) CountByOwner(ctx context.Context, ownerID string) (int, error) {
	if err := checkContext(ctx, "count invoices by owner"); err != nil {
		return 0, err
	}
	return len(r.filter(func(inv domain.Invoice) bool { return inv.OwnerID == ownerID })), nil
}

// CountIssuersByOwner counts the owner's distinct issuer names
func (r *MemoryInvoiceRepository) CountIssuersByOwner(ctx context.Context, ownerID string) (int, error) {
	if err := checkContext(ctx, "count issuers by owner"); err != nil {
		return 0, err
	}
	return len(r.issuers(ownerID)), nil
}

// FindIssuersByOwnerPaged retrieves one page of issuer group headers
func (r *MemoryInvoiceRepository) FindIssuersByOwnerPaged(ctx context.Context, ownerID string, page domain.PageRequest) ([]domain.IssuerSummary, error) {
	if err := checkContext(ctx, "list issuers by owner"); err != nil {
		return nil, err
	}
	return paginate(r.issuers(ownerID), page), nil
}

// FindByOwnerAndIssuers retrieves the newest perIssuer invoices of the owner
// from each of the given issuers
func (r *MemoryInvoiceRepository) FindByOwnerAndIssuers(ctx context.Context, ownerID string, issuers []string, perIssuer int) ([]domain.Invoice, error) {
	if err := checkContext(ctx, "list invoices by issuers"); err != nil {
		return nil, err
	}

	wanted := make(map[string]struct{}, len(issuers))
	for _, name := range issuers {
		wanted[name] = struct{}{}
	}
	matched := r.filter(func(inv domain.Invoice) bool {
		_, ok := wanted[inv.IssuerName]
		return inv.OwnerID == ownerID && ok
	})

	kept := make(map[string]int, len(wanted))
	out := matched[:0]
	for _, inv := range matched {
		if kept[inv.IssuerName] < perIssuer {
			kept[inv.IssuerName]++
			out = append(out, inv)
		}
	}
	return out, nil
}

// ListIDs pages through invoice ids in id order
func (r *MemoryInvoiceRepository) ListIDs(ctx context.Context, after uuid.UUID, limit int) ([]uuid.UUID, error) {
	if err := checkContext(ctx, "list invoice ids"); err != nil {
		return nil, err
	}

	r.mutex.RLock()
	ids := make([]uuid.UUID, 0, len(r.invoices))
	for id := range r.invoices {
		if bytes.Compare(id[:], after[:]) > 0 {
			ids = append(ids, id)
		}
	}
	r.mutex.RUnlock()

	sort.Slice(ids, func(i, j int) bool { return bytes.Compare(ids[i][:], ids[j][:]) < 0 })
	if limit >= 0 && len(ids) > limit {
		ids = ids[:limit]
	}
	return ids, nil
}

// filter returns matching invoices ordered by issue date descending, then id.
func (r *MemoryInvoiceRepository) filter(match func(domain.Invoice) bool) []domain.Invoice {
	r.mutex.RLock()
	out := make([]domain.Invoice, 0)
	for _, inv := range r.invoices {
		if match(inv) {
			out = append(out, inv)
		}
	}
	r.mutex.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if !out[i].IssueDate.Equal(out[j].IssueDate) {
			return out[i].IssueDate.After(out[j].IssueDate)
		}
		return bytes.Compare(out[i].ID[:], out[j].ID[:]) < 0
	})
	return out
}

// issuers returns the owner's issuer groups ordered by latest issue date
// descending, then by name.
func (r *MemoryInvoiceRepository) issuers(ownerID string) []domain.IssuerSummary {
	latest := make(map[string]time.Time)
	for _, inv := range r.filter(func(inv domain.Invoice) bool { return inv.OwnerID == ownerID }) {
		if cur, ok := latest[inv.IssuerName]; !ok || inv.IssueDate.After(cur) {
			latest[inv.IssuerName] = inv.IssueDate
		}
	}

	out := make([]domain.IssuerSummary, 0, len(latest))
	for name, at := range latest {
		out = append(out, domain.IssuerSummary{IssuerName: name, LatestIssueDate: at})
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].LatestIssueDate.Equal(out[j].LatestIssueDate) {
			return out[i].LatestIssueDate.After(out[j].LatestIssueDate)
		}
		return out[i].IssuerName < out[j].IssuerName
	})
	return out
}

func paginate[T any](items []T, page domain.PageRequest) []T {
	start := page.Offset()
	if start >= len(items) {
		return []T{}
	}
	end := start + page.PageSize
	if end > len(items) {
		end = len(items)
	}
	return items[start:end]
}
