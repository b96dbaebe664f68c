package config

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

var (
	repositoryDrivers = []string{"postgres", "memory"}
	storageDrivers    = []string{"fs", "s3", "memory"}
	logLevels         = []string{"debug", "info", "warn", "error"}
	logFormats        = []string{"json", "text"}
)

// Validate checks cross-field constraints that env tags cannot express.
func (c *Config) Validate() error {
	var errs []error

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Errorf("PORT must be in 1..65535, got %d", c.Server.Port))
	}
	if c.Server.MaxUploadBytes <= 0 {
		errs = append(errs, errors.New("MAX_UPLOAD_BYTES must be positive"))
	}

	if !slices.Contains(repositoryDrivers, c.Database.Driver) {
		errs = append(errs, fmt.Errorf("REPOSITORY_DRIVER must be one of %s", strings.Join(repositoryDrivers, ", ")))
	}
	if c.Database.Driver == "postgres" && c.Database.DSN == "" {
		errs = append(errs, errors.New("POSTGRES_DB_URL is required for the postgres driver"))
	}
	if c.Database.MinConns > c.Database.MaxConns {
		errs = append(errs, errors.New("DATABASE_MIN_CONNS must not exceed DATABASE_MAX_CONNS"))
	}

	if !slices.Contains(storageDrivers, c.Storage.Driver) {
		errs = append(errs, fmt.Errorf("BLOB_STORAGE_DRIVER must be one of %s", strings.Join(storageDrivers, ", ")))
	}
	if c.Storage.Driver == "fs" && c.Storage.BaseDir == "" {
		errs = append(errs, errors.New("BLOB_STORAGE_DIR is required for the fs driver"))
	}
	if c.Storage.Driver == "s3" && c.Storage.S3Bucket == "" {
		errs = append(errs, errors.New("S3_BUCKET is required for the s3 driver"))
	}

	ing := c.Ingestion
	if ing.StoreTimeout <= 0 {
		errs = append(errs, errors.New("STORE_CALL_TIMEOUT must be positive"))
	}
	if ing.MaxWorkers < 1 {
		errs = append(errs, errors.New("MAX_WORKERS must be at least 1"))
	}
	if ing.MaxPageSize < 1 {
		errs = append(errs, errors.New("MAX_PAGE_SIZE must be at least 1"))
	}
	if ing.DefaultPageSize < 1 || ing.DefaultPageSize > ing.MaxPageSize {
		errs = append(errs, errors.New("DEFAULT_PAGE_SIZE must be in 1..MAX_PAGE_SIZE"))
	}
	if ing.DefaultGroupedPageSize < 1 || ing.DefaultGroupedPageSize > ing.MaxPageSize {
		errs = append(errs, errors.New("DEFAULT_GROUPED_PAGE_SIZE must be in 1..MAX_PAGE_SIZE"))
	}
	if ing.EnrichConcurrency < 1 {
		errs = append(errs, errors.New("ENRICH_CONCURRENCY must be at least 1"))
	}

	if !slices.Contains(logLevels, strings.ToLower(c.Log.Level)) {
		errs = append(errs, fmt.Errorf("LOG_LEVEL must be one of %s", strings.Join(logLevels, ", ")))
	}
	if !slices.Contains(logFormats, strings.ToLower(c.Log.Format)) {
		errs = append(errs, fmt.Errorf("LOG_FORMAT must be one of %s", strings.Join(logFormats, ", ")))
	}

	return errors.Join(errs...)
}
