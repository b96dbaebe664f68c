package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/ridwanfathin/nfe-ingestion-service/internal/app"
	"github.com/ridwanfathin/nfe-ingestion-service/internal/config"
	"github.com/ridwanfathin/nfe-ingestion-service/internal/handler"
	"github.com/ridwanfathin/nfe-ingestion-service/internal/logging"
	"github.com/ridwanfathin/nfe-ingestion-service/internal/server"
	"github.com/ridwanfathin/nfe-ingestion-service/internal/service"

	_ "github.com/ridwanfathin/nfe-ingestion-service/docs"
)

// @title NF-e Ingestion Service API
// @version 1.0
// @description Ingests NF-e fiscal XML documents and serves them back to their recipients.
// @BasePath /
func main() {
	if err := run(); err != nil {
		slog.Error("server stopped", slog.Any("error", err))
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}

	log := logging.NewLogger(cfg.Log, os.Stdout)
	log.Info("configuration loaded",
		slog.Int("port", cfg.Server.Port),
		slog.String("repository_driver", cfg.Database.Driver),
		slog.String("blob_storage_driver", cfg.Storage.Driver))

	ctx := context.Background()
	stores, err := app.OpenStores(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer stores.Close()

	opts := app.ServiceOptions(cfg.Ingestion)
	resolver := service.NewRecipientResolver(stores.Recipients, opts.StoreTimeout, log)
	ingestion := service.NewIngestionService(stores.Invoices, stores.Blobs, resolver, opts, log)
	query := service.NewQueryService(stores.Invoices, stores.Recipients, stores.Blobs, opts, log)

	invoiceHandler := handler.NewInvoiceHandler(ingestion, query, cfg.Server.MaxUploadBytes, opts.MaxPageSize, log)
	healthHandler := handler.NewHealthHandler(stores.HealthChecks(), opts.StoreTimeout, log)

	return server.NewServer(cfg, log, invoiceHandler, healthHandler).Start(ctx)
}
