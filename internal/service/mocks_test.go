package service

import (
	"context"
	"io"
	"log/slog"

	"github.com/google/uuid"

	"github.com/ridwanfathin/nfe-ingestion-service/internal/domain"
	"github.com/ridwanfathin/nfe-ingestion-service/internal/repository"
	"github.com/ridwanfathin/nfe-ingestion-service/internal/storage"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// blobStoreMock overrides single BlobStore calls and delegates the rest.
type blobStoreMock struct {
	storage.BlobStore
	PutFunc    func(ctx context.Context, id uuid.UUID, data []byte) error
	GetFunc    func(ctx context.Context, id uuid.UUID) ([]byte, error)
	DeleteFunc func(ctx context.Context, id uuid.UUID) error
}

func (m *blobStoreMock) Put(ctx context.Context, id uuid.UUID, data []byte) error {
	if m.PutFunc != nil {
		return m.PutFunc(ctx, id, data)
	}
	return m.BlobStore.Put(ctx, id, data)
}

func (m *blobStoreMock) Get(ctx context.Context, id uuid.UUID) ([]byte, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, id)
	}
	return m.BlobStore.Get(ctx, id)
}

func (m *blobStoreMock) Delete(ctx context.Context, id uuid.UUID) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	return m.BlobStore.Delete(ctx, id)
}

// invoiceRepositoryMock overrides single InvoiceRepository calls and
// delegates the rest.
type invoiceRepositoryMock struct {
	repository.InvoiceRepository
	FindByAccessKeyFunc func(ctx context.Context, accessKey string) (*domain.Invoice, error)
	InsertFunc          func(ctx context.Context, invoice *domain.Invoice) error
	CountByOwnerFunc    func(ctx context.Context, ownerID string) (int, error)
	ListIDsFunc         func(ctx context.Context, after uuid.UUID, limit int) ([]uuid.UUID, error)
}

func (m *invoiceRepositoryMock) FindByAccessKey(ctx context.Context, accessKey string) (*domain.Invoice, error) {
	if m.FindByAccessKeyFunc != nil {
		return m.FindByAccessKeyFunc(ctx, accessKey)
	}
	return m.InvoiceRepository.FindByAccessKey(ctx, accessKey)
}

func (m *invoiceRepositoryMock) Insert(ctx context.Context, invoice *domain.Invoice) error {
	if m.InsertFunc != nil {
		return m.InsertFunc(ctx, invoice)
	}
	return m.InvoiceRepository.Insert(ctx, invoice)
}

func (m *invoiceRepositoryMock) CountByOwner(ctx context.Context, ownerID string) (int, error) {
	if m.CountByOwnerFunc != nil {
		return m.CountByOwnerFunc(ctx, ownerID)
	}
	return m.InvoiceRepository.CountByOwner(ctx, ownerID)
}

func (m *invoiceRepositoryMock) ListIDs(ctx context.Context, after uuid.UUID, limit int) ([]uuid.UUID, error) {
	if m.ListIDsFunc != nil {
		return m.ListIDsFunc(ctx, after, limit)
	}
	return m.InvoiceRepository.ListIDs(ctx, after, limit)
}

// recipientRepositoryMock is a hand-written RecipientRepository mock.
type recipientRepositoryMock struct {
	FindByTaxIDFunc       func(ctx context.Context, taxID string) (*domain.Recipient, error)
	CreatePlaceholderFunc func(ctx context.Context, taxID string) (*domain.Recipient, error)

	findCalls   int
	createCalls int
}

func (m *recipientRepositoryMock) FindByTaxID(ctx context.Context, taxID string) (*domain.Recipient, error) {
	m.findCalls++
	return m.FindByTaxIDFunc(ctx, taxID)
}

func (m *recipientRepositoryMock) CreatePlaceholder(ctx context.Context, taxID string) (*domain.Recipient, error) {
	m.createCalls++
	return m.CreatePlaceholderFunc(ctx, taxID)
}
