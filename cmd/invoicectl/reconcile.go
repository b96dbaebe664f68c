package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/ridwanfathin/nfe-ingestion-service/internal/app"
	"github.com/ridwanfathin/nfe-ingestion-service/internal/service"
)

var errInconsistent = errors.New("stores are inconsistent")

func newReconcileCmd(e *env) *cobra.Command {
	var (
		opts   service.ReconcileOptions
		asJSON bool
		strict bool
	)

	cmd := &cobra.Command{
		Use:   "reconcile",
		Short: "Compare invoice rows with stored documents",
		Long: `Lists invoice rows whose XML document is missing and documents that have
no invoice row. Missing documents are only reported. Orphan documents are
deleted when --delete-orphans is set.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			stores, err := app.OpenStores(ctx, e.cfg, e.log)
			if err != nil {
				return err
			}
			defer stores.Close()

			reconciler := service.NewReconciler(stores.Invoices, stores.Blobs, e.cfg.Ingestion.StoreTimeout, e.log)
			report, runErr := reconciler.Run(ctx, opts)
			if report != nil {
				if err := printReport(cmd.OutOrStdout(), report, asJSON); err != nil {
					return err
				}
			}
			if runErr != nil {
				return runErr
			}
			if strict && !report.Consistent() {
				return errInconsistent
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&opts.DeleteOrphanBlobs, "delete-orphans", false, "delete documents that have no invoice row")
	cmd.Flags().IntVar(&opts.BatchSize, "batch-size", 500, "invoice ids read per query")
	cmd.Flags().IntVar(&opts.Concurrency, "concurrency", 4, "parallel deletions")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the report as JSON")
	cmd.Flags().BoolVar(&strict, "strict", false, "exit non-zero when inconsistencies are found")

	return cmd
}

type reportJSON struct {
	InvoicesScanned int      `json:"invoicesScanned"`
	BlobsScanned    int      `json:"blobsScanned"`
	MissingBlobs    []string `json:"missingBlobs"`
	OrphanBlobs     []string `json:"orphanBlobs"`
	DeletedBlobs    []string `json:"deletedBlobs"`
}

func printReport(w io.Writer, r *service.ReconcileReport, asJSON bool) error {
	out := reportJSON{
		InvoicesScanned: r.InvoicesScanned,
		BlobsScanned:    r.BlobsScanned,
		MissingBlobs:    idStrings(r.MissingBlobs),
		OrphanBlobs:     idStrings(r.OrphanBlobs),
		DeletedBlobs:    idStrings(r.DeletedBlobs),
	}

	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	}

	fmt.Fprintf(w, "invoices scanned: %d\n", out.InvoicesScanned)
	fmt.Fprintf(w, "blobs scanned:    %d\n", out.BlobsScanned)
	for _, id := range out.MissingBlobs {
		fmt.Fprintf(w, "missing document: %s\n", id)
	}
	for _, id := range out.OrphanBlobs {
		fmt.Fprintf(w, "orphan document:  %s\n", id)
	}
	for _, id := range out.DeletedBlobs {
		fmt.Fprintf(w, "deleted:          %s\n", id)
	}
	if r.Consistent() {
		fmt.Fprintln(w, "stores are consistent")
	}
	return nil
}

func idStrings(ids []uuid.UUID) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = id.String()
	}
	return out
}
