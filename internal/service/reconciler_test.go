package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ridwanfathin/nfe-ingestion-service/internal/domain"
)

func TestReconciler_ConsistentStores(t *testing.T) {
	env := newTestEnv(t)
	ingestAll(t, env,
		nfeDoc{TaxID: "111", ID: "NFe1", IssueDate: "2024-01-01"},
		nfeDoc{TaxID: "111", ID: "NFe2", IssueDate: "2024-01-02"},
	)

	report, err := NewReconciler(env.invoices, env.blobs, time.Second, discardLogger()).
		Run(context.Background(), ReconcileOptions{})
	require.NoError(t, err)
	assert.True(t, report.Consistent())
	assert.Equal(t, 2, report.InvoicesScanned)
	assert.Equal(t, 2, report.BlobsScanned)
}

func TestReconciler_FindsMissingAndOrphans(t *testing.T) {
	env := newTestEnv(t)
	invs := ingestAll(t, env,
		nfeDoc{TaxID: "111", ID: "NFe1", IssueDate: "2024-01-01"},
		nfeDoc{TaxID: "111", ID: "NFe2", IssueDate: "2024-01-02"},
		nfeDoc{TaxID: "111", ID: "NFe3", IssueDate: "2024-01-03"},
	)
	require.NoError(t, env.blobs.Delete(context.Background(), invs[1].ID))

	orphan := uuid.New()
	require.NoError(t, env.blobs.Put(context.Background(), orphan, []byte("<NFe/>")))

	reconciler := NewReconciler(env.invoices, env.blobs, time.Second, discardLogger())

	// Small batches walk the keyset pagination.
	report, err := reconciler.Run(context.Background(), ReconcileOptions{BatchSize: 1})
	require.NoError(t, err)
	assert.False(t, report.Consistent())
	assert.Equal(t, 3, report.InvoicesScanned)
	assert.Equal(t, 3, report.BlobsScanned)
	assert.Equal(t, []uuid.UUID{invs[1].ID}, report.MissingBlobs)
	assert.Equal(t, []uuid.UUID{orphan}, report.OrphanBlobs)
	assert.Empty(t, report.DeletedBlobs)

	_, err = env.blobs.Get(context.Background(), orphan)
	require.NoError(t, err, "orphans are kept unless deletion is requested")

	report, err = reconciler.Run(context.Background(), ReconcileOptions{DeleteOrphanBlobs: true})
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{orphan}, report.DeletedBlobs)

	_, err = env.blobs.Get(context.Background(), orphan)
	assert.True(t, errors.Is(err, domain.ErrNotFound))
	assert.Equal(t, 2, env.blobs.Len())
}

func TestReconciler_ListFailure(t *testing.T) {
	env := newTestEnv(t)
	invoices := &invoiceRepositoryMock{
		InvoiceRepository: env.invoices,
		ListIDsFunc: func(ctx context.Context, after uuid.UUID, limit int) ([]uuid.UUID, error) {
			return nil, errors.New("relation does not exist")
		},
	}

	_, err := NewReconciler(invoices, env.blobs, time.Second, discardLogger()).
		Run(context.Background(), ReconcileOptions{})
	var depErr *domain.DependencyError
	require.True(t, errors.As(err, &depErr))
	assert.Equal(t, "invoice", depErr.Store)
	assert.Equal(t, "list_ids", depErr.Op)
}

func TestReconciler_DeleteFailureReturnsPartialReport(t *testing.T) {
	env := newTestEnv(t)
	orphan := uuid.New()
	require.NoError(t, env.blobs.Put(context.Background(), orphan, []byte("<NFe/>")))

	blobs := &blobStoreMock{
		BlobStore: env.blobs,
		DeleteFunc: func(ctx context.Context, id uuid.UUID) error {
			return errors.New("access denied")
		},
	}

	report, err := NewReconciler(env.invoices, blobs, time.Second, discardLogger()).
		Run(context.Background(), ReconcileOptions{DeleteOrphanBlobs: true})
	assert.True(t, errors.Is(err, domain.ErrDependency))
	require.NotNil(t, report)
	assert.Equal(t, []uuid.UUID{orphan}, report.OrphanBlobs)
	assert.Empty(t, report.DeletedBlobs)
}
