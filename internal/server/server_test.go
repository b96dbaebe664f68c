package server

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ridwanfathin/nfe-ingestion-service/internal/config"
	"github.com/ridwanfathin/nfe-ingestion-service/internal/handler"
	"github.com/ridwanfathin/nfe-ingestion-service/internal/middleware"
	"github.com/ridwanfathin/nfe-ingestion-service/internal/repository"
	"github.com/ridwanfathin/nfe-ingestion-service/internal/service"
	"github.com/ridwanfathin/nfe-ingestion-service/internal/storage"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	cfg := &config.Config{
		Server: config.ServerConfig{Port: 0, GinMode: "test"},
		CORS:   config.CORSConfig{AllowedOrigins: "*", AllowedMethods: "GET,POST", MaxAge: 60},
	}

	recipients := repository.NewMemoryRecipientRepository()
	invoices := repository.NewMemoryInvoiceRepository(recipients)
	blobs := storage.NewMemoryBlobStore()
	opts := service.DefaultOptions()

	ingestion := service.NewIngestionService(invoices, blobs,
		service.NewRecipientResolver(recipients, opts.StoreTimeout, log), opts, log)
	query := service.NewQueryService(invoices, recipients, blobs, opts, log)

	return NewServer(cfg, log,
		handler.NewInvoiceHandler(ingestion, query, 0, opts.MaxPageSize, log),
		handler.NewHealthHandler(map[string]handler.Pinger{"blob_store": blobs}, 0, log))
}

func TestServerRoutes(t *testing.T) {
	srv := newTestServer(t)

	tests := []struct {
		method string
		path   string
		status int
	}{
		{http.MethodGet, "/health", http.StatusOK},
		{http.MethodGet, "/ready", http.StatusOK},
		{http.MethodGet, "/api-docs", http.StatusFound},
		{http.MethodGet, "/v1/invoices?ownerId=111", http.StatusNotFound},
		{http.MethodGet, "/v1/invoices/grouped", http.StatusBadRequest},
		{http.MethodPost, "/v1/invoices", http.StatusBadRequest},
		{http.MethodGet, "/v1/unknown", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			w := httptest.NewRecorder()
			srv.Handler().ServeHTTP(w, httptest.NewRequest(tt.method, tt.path, nil))
			assert.Equal(t, tt.status, w.Code)
			assert.NotEmpty(t, w.Header().Get(middleware.RequestIDHeader))
		})
	}
}

func TestServerErrorShape(t *testing.T) {
	srv := newTestServer(t)

	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/v1/invoices?ownerId=111", nil))

	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "Not Found", body["status"])
	assert.Equal(t, handler.CodeNotFound, body["code"])
}

func TestServerStartStopsOnContext(t *testing.T) {
	srv := newTestServer(t)
	srv.httpServer.Addr = "127.0.0.1:0"
	srv.config.ShutdownTimeout = time.Second

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.NoError(t, srv.Start(ctx))
}
