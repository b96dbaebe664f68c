package service

import "time"

// Options tunes the ingestion and query services.
type Options struct {
	// StoreTimeout bounds each call to an external store.
	StoreTimeout time.Duration
	// MaxWorkers caps concurrent ingestions in this process.
	MaxWorkers int
	// DefaultPageSize applies when a caller asks for no page size.
	DefaultPageSize int
	// DefaultGroupedPageSize is DefaultPageSize for issuer groups.
	DefaultGroupedPageSize int
	// MaxPageSize caps any requested page size.
	MaxPageSize int
	// EnrichConcurrency caps parallel blob reads while enriching a page.
	EnrichConcurrency int
}

// DefaultOptions returns the values used when configuration is silent.
func DefaultOptions() Options {
	return Options{
		StoreTimeout:           5 * time.Second,
		MaxWorkers:             16,
		DefaultPageSize:        20,
		DefaultGroupedPageSize: 10,
		MaxPageSize:            100,
		EnrichConcurrency:      8,
	}
}

func (o Options) withDefaults() Options {
	def := DefaultOptions()
	if o.StoreTimeout <= 0 {
		o.StoreTimeout = def.StoreTimeout
	}
	if o.MaxWorkers <= 0 {
		o.MaxWorkers = def.MaxWorkers
	}
	if o.MaxPageSize <= 0 {
		o.MaxPageSize = def.MaxPageSize
	}
	if o.DefaultPageSize <= 0 {
		o.DefaultPageSize = min(def.DefaultPageSize, o.MaxPageSize)
	}
	if o.DefaultGroupedPageSize <= 0 {
		o.DefaultGroupedPageSize = min(def.DefaultGroupedPageSize, o.MaxPageSize)
	}
	if o.EnrichConcurrency <= 0 {
		o.EnrichConcurrency = def.EnrichConcurrency
	}
	return o
}
