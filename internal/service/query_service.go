package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/ridwanfathin/nfe-ingestion-service/internal/domain"
	"github.com/ridwanfathin/nfe-ingestion-service/internal/repository"
	"github.com/ridwanfathin/nfe-ingestion-service/internal/storage"
)

// DocumentReadError is the per-item marker set when a raw document could
// not be attached to its invoice.
const DocumentReadError = "failed to read invoice document"

// QueryService serves an owner's invoices back, paginated or grouped by issuer.
// It never writes.
type QueryService interface {
	ListByOwner(ctx context.Context, ownerID string, page domain.PageRequest) (*domain.InvoicePage, error)
	GroupByIssuer(ctx context.Context, ownerID string, page domain.PageRequest) (*domain.IssuerGroupPage, error)
}

// QueryServiceImpl implements the QueryService interface
type QueryServiceImpl struct {
	invoices   repository.InvoiceRepository
	recipients repository.RecipientRepository
	blobs      storage.BlobStore
	opts       Options
	log        *slog.Logger
}

// NewQueryService creates a new QueryService
func NewQueryService(
	invoices repository.InvoiceRepository,
	recipients repository.RecipientRepository,
	blobs storage.BlobStore,
	opts Options,
	log *slog.Logger,
) QueryService {
	return &QueryServiceImpl{
		invoices:   invoices,
		recipients: recipients,
		blobs:      blobs,
		opts:       opts.withDefaults(),
		log:        log.With("service", "query"),
	}
}

// ListByOwner returns one page of the owner's invoices, newest issue date
// first, each with its raw document attached.
func (s *QueryServiceImpl) ListByOwner(ctx context.Context, ownerID string, page domain.PageRequest) (*domain.InvoicePage, error) {
	page = s.normalize(page, s.opts.DefaultPageSize)
	if err := s.ensureOwner(ctx, ownerID); err != nil {
		return nil, err
	}

	total, err := call(ctx, s.opts.StoreTimeout, func(ctx context.Context) (int, error) {
		return s.invoices.CountByOwner(ctx, ownerID)
	})
	if err != nil {
		return nil, domain.NewDependencyError("invoice", "count_by_owner", err)
	}

	invoices, err := call(ctx, s.opts.StoreTimeout, func(ctx context.Context) ([]domain.Invoice, error) {
		return s.invoices.FindByOwnerPaged(ctx, ownerID, page)
	})
	if err != nil {
		return nil, domain.NewDependencyError("invoice", "find_by_owner", err)
	}

	items, err := s.enrich(ctx, invoices)
	if err != nil {
		return nil, err
	}

	return &domain.InvoicePage{
		Items:    items,
		Total:    total,
		Page:     page.Page,
		LastPage: domain.LastPage(total, page.PageSize),
	}, nil
}

// GroupByIssuer paginates the owner's issuer groups. Groups are keyed by the
// exact issuer name and ordered by their newest invoice; members are newest
// first and capped at MaxPageSize per group.
func (s *QueryServiceImpl) GroupByIssuer(ctx context.Context, ownerID string, page domain.PageRequest) (*domain.IssuerGroupPage, error) {
	page = s.normalize(page, s.opts.DefaultGroupedPageSize)
	if err := s.ensureOwner(ctx, ownerID); err != nil {
		return nil, err
	}

	total, err := call(ctx, s.opts.StoreTimeout, func(ctx context.Context) (int, error) {
		return s.invoices.CountIssuersByOwner(ctx, ownerID)
	})
	if err != nil {
		return nil, domain.NewDependencyError("invoice", "count_issuers", err)
	}

	summaries, err := call(ctx, s.opts.StoreTimeout, func(ctx context.Context) ([]domain.IssuerSummary, error) {
		return s.invoices.FindIssuersByOwnerPaged(ctx, ownerID, page)
	})
	if err != nil {
		return nil, domain.NewDependencyError("invoice", "find_issuers", err)
	}

	names := make([]string, 0, len(summaries))
	for _, sum := range summaries {
		names = append(names, sum.IssuerName)
	}

	members, err := call(ctx, s.opts.StoreTimeout, func(ctx context.Context) ([]domain.Invoice, error) {
		return s.invoices.FindByOwnerAndIssuers(ctx, ownerID, names, s.opts.MaxPageSize)
	})
	if err != nil {
		return nil, domain.NewDependencyError("invoice", "find_by_issuers", err)
	}

	byIssuer := make(map[string][]domain.Invoice, len(names))
	for _, inv := range members {
		byIssuer[inv.IssuerName] = append(byIssuer[inv.IssuerName], inv)
	}

	groups := make([]domain.IssuerGroup, 0, len(names))
	for _, name := range names {
		groups = append(groups, domain.IssuerGroup{IssuerName: name, Invoices: byIssuer[name]})
	}

	return &domain.IssuerGroupPage{
		Groups:   groups,
		Total:    total,
		Page:     page.Page,
		LastPage: domain.LastPage(total, page.PageSize),
	}, nil
}

func (s *QueryServiceImpl) normalize(page domain.PageRequest, defaultSize int) domain.PageRequest {
	if page.Page < 1 {
		page.Page = 1
	}
	if page.PageSize < 1 {
		page.PageSize = defaultSize
	}
	if page.PageSize > s.opts.MaxPageSize {
		page.PageSize = s.opts.MaxPageSize
	}
	return page
}

func (s *QueryServiceImpl) ensureOwner(ctx context.Context, ownerID string) error {
	if ownerID == "" {
		return domain.NewValidationError("ownerId", "is required")
	}

	_, err := call(ctx, s.opts.StoreTimeout, func(ctx context.Context) (*domain.Recipient, error) {
		return s.recipients.FindByTaxID(ctx, ownerID)
	})
	switch {
	case err == nil:
		return nil
	case errors.Is(err, domain.ErrNotFound):
		return fmt.Errorf("owner %s: %w", ownerID, domain.ErrNotFound)
	default:
		return domain.NewDependencyError("recipient", "find", err)
	}
}

// enrich reads every invoice's document concurrently. A failed read marks
// that item only; the page is still returned.
func (s *QueryServiceImpl) enrich(ctx context.Context, invoices []domain.Invoice) ([]domain.EnrichedInvoice, error) {
	items := make([]domain.EnrichedInvoice, len(invoices))

	var g errgroup.Group
	g.SetLimit(s.opts.EnrichConcurrency)

	for i := range invoices {
		items[i].Invoice = invoices[i]
		g.Go(func() error {
			content, err := call(ctx, s.opts.StoreTimeout, func(ctx context.Context) ([]byte, error) {
				return s.blobs.Get(ctx, invoices[i].ID)
			})
			if err != nil {
				s.log.WarnContext(ctx, "invoice document unavailable",
					slog.String("invoice_id", invoices[i].ID.String()),
					slog.Any("error", err))
				items[i].Error = DocumentReadError
				return nil
			}
			items[i].Content = content
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, domain.NewDependencyError("blob", "get", err)
	}
	return items, nil
}

// call runs fn with its own store timeout.
func call[T any](ctx context.Context, timeout time.Duration, fn func(context.Context) (T, error)) (T, error) {
	callCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	return fn(callCtx)
}
