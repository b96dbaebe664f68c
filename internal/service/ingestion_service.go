package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/ridwanfathin/nfe-ingestion-service/internal/domain"
	"github.com/ridwanfathin/nfe-ingestion-service/internal/nfe"
	"github.com/ridwanfathin/nfe-ingestion-service/internal/repository"
	"github.com/ridwanfathin/nfe-ingestion-service/internal/storage"
)

// IngestionService turns uploaded NF-e documents into stored invoices
type IngestionService interface {
	// Ingest parses, validates and stores one document. Errors match
	// domain.ErrValidation, domain.ErrConflict or domain.ErrDependency.
	Ingest(ctx context.Context, raw []byte) (*domain.Invoice, error)
}

// IngestionServiceImpl implements the IngestionService interface
type IngestionServiceImpl struct {
	invoices   repository.InvoiceRepository
	blobs      storage.BlobStore
	recipients RecipientResolver
	timeout    time.Duration
	workerPool chan struct{}
	now        func() time.Time
	newID      func() uuid.UUID
	log        *slog.Logger
}

// NewIngestionService creates a new IngestionService
func NewIngestionService(
	invoices repository.InvoiceRepository,
	blobs storage.BlobStore,
	recipients RecipientResolver,
	opts Options,
	log *slog.Logger,
) IngestionService {
	opts = opts.withDefaults()
	return &IngestionServiceImpl{
		invoices:   invoices,
		blobs:      blobs,
		recipients: recipients,
		timeout:    opts.StoreTimeout,
		workerPool: make(chan struct{}, opts.MaxWorkers),
		now:        time.Now,
		newID:      uuid.New,
		log:        log.With("service", "ingestion"),
	}
}

// Ingest stores the metadata row before the blob. The two writes are not
// atomic: when the blob write fails the row stays, its enrichment reports an
// error and the reconcile job flags it.
func (s *IngestionServiceImpl) Ingest(ctx context.Context, raw []byte) (*domain.Invoice, error) {
	select {
	case s.workerPool <- struct{}{}:
		defer func() { <-s.workerPool }()
	case <-ctx.Done():
		return nil, domain.NewDependencyError("ingestion", "acquire_worker", ctx.Err())
	}

	doc, err := nfe.Decode(raw)
	if err != nil {
		return nil, err
	}
	fields := nfe.Extract(doc)

	if err := validateFields(fields); err != nil {
		return nil, err
	}

	if err := s.ensureNew(ctx, fields.AccessKey); err != nil {
		return nil, err
	}

	owner, err := s.recipients.Resolve(ctx, fields.RecipientTaxID)
	if err != nil {
		return nil, err
	}

	invoice := s.buildInvoice(fields, owner)
	log := s.log.With(
		slog.String("invoice_id", invoice.ID.String()),
		slog.String("access_key", invoice.AccessKey),
	)

	callCtx, cancel := context.WithTimeout(ctx, s.timeout)
	err = s.invoices.Insert(callCtx, invoice)
	cancel()
	if errors.Is(err, domain.ErrAlreadyExists) {
		log.InfoContext(ctx, "duplicate access key rejected by store")
		return nil, conflict(invoice.AccessKey)
	}
	if errors.Is(err, domain.ErrValidation) {
		log.WarnContext(ctx, "invoice row rejected by store", slog.Any("error", err))
		return nil, domain.NewValidationError("file", "invoice fields exceed storage limits")
	}
	if err != nil {
		return nil, domain.NewDependencyError("invoice", "insert", err)
	}

	callCtx, cancel = context.WithTimeout(ctx, s.timeout)
	err = s.blobs.Put(callCtx, invoice.ID, raw)
	cancel()
	if err != nil {
		log.ErrorContext(ctx, "document blob write failed, invoice row kept without blob", slog.Any("error", err))
		return nil, domain.NewDependencyError("blob", "put", err)
	}

	log.InfoContext(ctx, "invoice ingested", slog.String("owner_id", invoice.OwnerID))
	return invoice, nil
}

// validateFields checks the mandatory fields and the bounds the invoice and
// recipient tables enforce.
func validateFields(fields nfe.FieldSet) error {
	switch {
	case fields.RecipientTaxID == "":
		return domain.NewValidationError("recipientTaxId", "recipient taxpayer id (dest/CPF or dest/CNPJ) not found in document")
	case len(fields.RecipientTaxID) > domain.MaxTaxIDLength || !isDigits(fields.RecipientTaxID):
		return domain.NewValidationError("recipientTaxId",
			fmt.Sprintf("recipient taxpayer id must be at most %d digits", domain.MaxTaxIDLength))
	case fields.AccessKey == "":
		return domain.NewValidationError("accessKey", "access key (infNFe Id) not found in document")
	case len(fields.AccessKey) > domain.MaxAccessKeyLength:
		return domain.NewValidationError("accessKey",
			fmt.Sprintf("access key must be at most %d characters", domain.MaxAccessKeyLength))
	}
	return nil
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// ensureNew is the fast-path duplicate check. The unique constraint behind
// Insert still decides races.
func (s *IngestionServiceImpl) ensureNew(ctx context.Context, accessKey string) error {
	callCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	_, err := s.invoices.FindByAccessKey(callCtx, accessKey)
	switch {
	case err == nil:
		return conflict(accessKey)
	case errors.Is(err, domain.ErrNotFound):
		return nil
	default:
		return domain.NewDependencyError("invoice", "find_by_access_key", err)
	}
}

func (s *IngestionServiceImpl) buildInvoice(fields nfe.FieldSet, owner *domain.Recipient) *domain.Invoice {
	issued, ok := parseIssueDate(fields.IssueDate)
	if !ok {
		issued = s.now()
	}
	total, _ := parseTotal(fields.TotalValue)

	return &domain.Invoice{
		ID:             s.newID(),
		AccessKey:      fields.AccessKey,
		IssueDate:      issued,
		TotalValue:     total,
		DocumentNumber: fields.DocumentNumber,
		IssuerName:     fields.IssuerName,
		OwnerID:        owner.TaxID,
	}
}

func conflict(accessKey string) error {
	return fmt.Errorf("access key %s: %w", accessKey, domain.ErrConflict)
}
