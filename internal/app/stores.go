package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ridwanfathin/nfe-ingestion-service/internal/config"
	"github.com/ridwanfathin/nfe-ingestion-service/internal/database"
	"github.com/ridwanfathin/nfe-ingestion-service/internal/handler"
	"github.com/ridwanfathin/nfe-ingestion-service/internal/repository"
	"github.com/ridwanfathin/nfe-ingestion-service/internal/service"
	"github.com/ridwanfathin/nfe-ingestion-service/internal/storage"
)

// Stores holds the configured invoice, recipient and blob stores.
type Stores struct {
	Invoices   repository.InvoiceRepository
	Recipients repository.RecipientRepository
	Blobs      storage.BlobStore

	db *database.PostgresDB
}

// OpenStores builds the stores selected by REPOSITORY_DRIVER and
// BLOB_STORAGE_DRIVER.
func OpenStores(ctx context.Context, cfg *config.Config, log *slog.Logger) (*Stores, error) {
	s := &Stores{}

	switch cfg.Database.Driver {
	case "postgres":
		db, err := database.NewPostgresDB(ctx, cfg.Database)
		if err != nil {
			return nil, err
		}
		s.db = db
		s.Invoices = repository.NewPostgresInvoiceRepository(db.GetPool())
		s.Recipients = repository.NewPostgresRecipientRepository(db.GetPool())
	case "memory":
		log.Warn("using in-memory repositories, data is lost on exit")
		recipients := repository.NewMemoryRecipientRepository()
		s.Recipients = recipients
		s.Invoices = repository.NewMemoryInvoiceRepository(recipients)
	default:
		return nil, fmt.Errorf("unknown repository driver %q", cfg.Database.Driver)
	}

	blobs, err := openBlobStore(cfg.Storage)
	if err != nil {
		s.Close()
		return nil, err
	}
	s.Blobs = blobs

	log.Info("stores ready",
		slog.String("repository_driver", cfg.Database.Driver),
		slog.String("blob_storage_driver", cfg.Storage.Driver))
	return s, nil
}

func openBlobStore(cfg config.StorageConfig) (storage.BlobStore, error) {
	switch cfg.Driver {
	case "fs":
		return storage.NewFSBlobStore(cfg.BaseDir)
	case "s3":
		return storage.NewS3BlobStore(storage.S3Config{
			Endpoint:        cfg.S3Endpoint,
			AccessKeyID:     cfg.S3AccessKey,
			AccessKeySecret: cfg.S3SecretKey,
			Bucket:          cfg.S3Bucket,
			Region:          cfg.S3Region,
			Prefix:          cfg.S3Prefix,
			ForcePathStyle:  cfg.S3PathStyle,
		})
	case "memory":
		return storage.NewMemoryBlobStore(), nil
	default:
		return nil, fmt.Errorf("unknown blob storage driver %q", cfg.Driver)
	}
}

// HealthChecks returns the dependencies the readiness probe pings.
func (s *Stores) HealthChecks() map[string]handler.Pinger {
	checks := map[string]handler.Pinger{"blob_store": s.Blobs}
	if s.db != nil {
		checks["database"] = s.db
	}
	return checks
}

// Close releases the database pool, if any.
func (s *Stores) Close() {
	if s.db != nil {
		s.db.Close()
	}
}

// ServiceOptions maps the ingestion settings onto service options.
func ServiceOptions(cfg config.IngestionConfig) service.Options {
	return service.Options{
		StoreTimeout:           cfg.StoreTimeout,
		MaxWorkers:             cfg.MaxWorkers,
		DefaultPageSize:        cfg.DefaultPageSize,
		DefaultGroupedPageSize: cfg.DefaultGroupedPageSize,
		MaxPageSize:            cfg.MaxPageSize,
		EnrichConcurrency:      cfg.EnrichConcurrency,
	}
}
