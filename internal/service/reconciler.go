package service

import (
	"bytes"
	"context"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/ridwanfathin/nfe-ingestion-service/internal/domain"
	"github.com/ridwanfathin/nfe-ingestion-service/internal/repository"
	"github.com/ridwanfathin/nfe-ingestion-service/internal/storage"
)

const defaultReconcileBatch = 500

// ReconcileOptions controls one reconciliation run.
type ReconcileOptions struct {
	// DeleteOrphanBlobs removes blobs that have no invoice row.
	DeleteOrphanBlobs bool
	// BatchSize is the number of invoice ids read per query.
	BatchSize int
	// Concurrency caps parallel blob deletions.
	Concurrency int
}

// ReconcileReport lists the inconsistencies a run found.
type ReconcileReport struct {
	InvoicesScanned int
	BlobsScanned    int
	// MissingBlobs are invoice rows without a document. They are only flagged:
	// the document cannot be recovered here.
	MissingBlobs []uuid.UUID
	// OrphanBlobs are documents without an invoice row.
	OrphanBlobs  []uuid.UUID
	DeletedBlobs []uuid.UUID
}

// Consistent reports whether the run found nothing to flag.
func (r *ReconcileReport) Consistent() bool {
	return len(r.MissingBlobs) == 0 && len(r.OrphanBlobs) == 0
}

// Reconciler compares the invoice store with the blob store. It is an
// operator job run out of band, not part of request handling.
type Reconciler struct {
	invoices repository.InvoiceRepository
	blobs    storage.BlobStore
	timeout  time.Duration
	log      *slog.Logger
}

// NewReconciler creates a new Reconciler
func NewReconciler(invoices repository.InvoiceRepository, blobs storage.BlobStore, timeout time.Duration, log *slog.Logger) *Reconciler {
	if timeout <= 0 {
		timeout = DefaultOptions().StoreTimeout
	}
	return &Reconciler{
		invoices: invoices,
		blobs:    blobs,
		timeout:  timeout,
		log:      log.With("service", "reconciler"),
	}
}

// Run lists blobs before rows. Rows are written before their blob, so every
// blob listed already has its row unless the row was deleted since; a
// document being ingested during the run can at worst show up as missing.
func (r *Reconciler) Run(ctx context.Context, opts ReconcileOptions) (*ReconcileReport, error) {
	if opts.BatchSize <= 0 {
		opts.BatchSize = defaultReconcileBatch
	}
	if opts.Concurrency <= 0 {
		opts.Concurrency = 4
	}

	report := &ReconcileReport{}

	blobIDs := make(map[uuid.UUID]struct{})
	err := r.blobs.List(ctx, func(id uuid.UUID) error {
		blobIDs[id] = struct{}{}
		return nil
	})
	if err != nil {
		return nil, domain.NewDependencyError("blob", "list", err)
	}
	report.BlobsScanned = len(blobIDs)

	rowIDs := make(map[uuid.UUID]struct{})
	after := uuid.Nil
	for {
		ids, err := call(ctx, r.timeout, func(ctx context.Context) ([]uuid.UUID, error) {
			return r.invoices.ListIDs(ctx, after, opts.BatchSize)
		})
		if err != nil {
			return nil, domain.NewDependencyError("invoice", "list_ids", err)
		}
		for _, id := range ids {
			rowIDs[id] = struct{}{}
			if _, ok := blobIDs[id]; !ok {
				report.MissingBlobs = append(report.MissingBlobs, id)
			}
		}
		if len(ids) < opts.BatchSize {
			break
		}
		after = ids[len(ids)-1]
	}
	report.InvoicesScanned = len(rowIDs)

	for id := range blobIDs {
		if _, ok := rowIDs[id]; !ok {
			report.OrphanBlobs = append(report.OrphanBlobs, id)
		}
	}
	sort.Slice(report.OrphanBlobs, func(i, j int) bool {
		return bytes.Compare(report.OrphanBlobs[i][:], report.OrphanBlobs[j][:]) < 0
	})

	for _, id := range report.MissingBlobs {
		r.log.WarnContext(ctx, "invoice row without document", slog.String("invoice_id", id.String()))
	}

	if opts.DeleteOrphanBlobs && len(report.OrphanBlobs) > 0 {
		deleted, err := r.deleteOrphans(ctx, report.OrphanBlobs, opts.Concurrency)
		report.DeletedBlobs = deleted
		if err != nil {
			return report, domain.NewDependencyError("blob", "delete", err)
		}
	}

	r.log.InfoContext(ctx, "reconciliation finished",
		slog.Int("invoices", report.InvoicesScanned),
		slog.Int("blobs", report.BlobsScanned),
		slog.Int("missing_blobs", len(report.MissingBlobs)),
		slog.Int("orphan_blobs", len(report.OrphanBlobs)),
		slog.Int("deleted_blobs", len(report.DeletedBlobs)))

	return report, nil
}

func (r *Reconciler) deleteOrphans(ctx context.Context, ids []uuid.UUID, concurrency int) ([]uuid.UUID, error) {
	var (
		mu      sync.Mutex
		deleted []uuid.UUID
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)
	for _, id := range ids {
		g.Go(func() error {
			_, err := call(gctx, r.timeout, func(ctx context.Context) (struct{}, error) {
				return struct{}{}, r.blobs.Delete(ctx, id)
			})
			if err != nil {
				return err
			}
			r.log.InfoContext(ctx, "orphan document deleted", slog.String("invoice_id", id.String()))
			mu.Lock()
			deleted = append(deleted, id)
			mu.Unlock()
			return nil
		})
	}
	err := g.Wait()
	return deleted, err
}
