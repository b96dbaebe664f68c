package handler

import (
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ridwanfathin/nfe-ingestion-service/internal/model"
	"github.com/ridwanfathin/nfe-ingestion-service/internal/service"
)

// multipartOverhead is the room left for multipart headers and boundaries
// on top of the file size limit.
const multipartOverhead = 64 << 10

// InvoiceHandler handles HTTP requests for NF-e invoices
type InvoiceHandler struct {
	ingestion      service.IngestionService
	query          service.QueryService
	maxUploadBytes int64
	maxPageSize    int
	log            *slog.Logger
}

// NewInvoiceHandler creates a new invoice handler
func NewInvoiceHandler(
	ingestion service.IngestionService,
	query service.QueryService,
	maxUploadBytes int64,
	maxPageSize int,
	log *slog.Logger,
) *InvoiceHandler {
	if maxUploadBytes <= 0 {
		maxUploadBytes = 10 * 1024 * 1024 // 10MB default
	}
	if maxPageSize <= 0 {
		maxPageSize = 100
	}
	return &InvoiceHandler{
		ingestion:      ingestion,
		query:          query,
		maxUploadBytes: maxUploadBytes,
		maxPageSize:    maxPageSize,
		log:            log.With("handler", "invoice"),
	}
}

// RegisterRoutes registers the handler's routes with the given router
func (h *InvoiceHandler) RegisterRoutes(router gin.IRouter) {
	v1 := router.Group("/v1")
	v1.POST("/invoices", h.UploadInvoice)
	v1.GET("/invoices", h.ListInvoices)
	v1.GET("/invoices/grouped", h.ListInvoicesGrouped)
}

// UploadInvoice handles the upload of one NF-e XML document
// @Summary Upload an NF-e invoice
// @Description Parse an NF-e XML document, register its recipient if unknown and store the invoice
// @Tags invoices
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "NF-e XML document"
// @Success 200 {object} model.InvoiceResponse "Invoice stored"
// @Failure 400 {object} model.ErrorResponse "Invalid document (VALIDATION_FAILED) or duplicate access key (INVOICE_ALREADY_REGISTERED)"
// @Failure 413 {object} model.ErrorResponse "File too large"
// @Failure 500 {object} model.ErrorResponse "Storage dependency failure"
// @Router /v1/invoices [post]
func (h *InvoiceHandler) UploadInvoice(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxUploadBytes+multipartOverhead)

	file, header, err := c.Request.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			respondWithError(c, http.StatusRequestEntityTooLarge, CodePayloadTooLarge, MsgFileTooLarge)
			return
		}
		respondBadRequest(c, CodeValidationFailed, MsgInvalidDocument,
			model.ErrorDetail{Field: "file", Message: "no file provided"})
		return
	}
	defer file.Close()

	if header.Size > h.maxUploadBytes {
		respondWithError(c, http.StatusRequestEntityTooLarge, CodePayloadTooLarge, MsgFileTooLarge)
		return
	}

	raw, err := io.ReadAll(file)
	if err != nil {
		respondBadRequest(c, CodeValidationFailed, MsgInvalidDocument,
			model.ErrorDetail{Field: "file", Message: "could not read uploaded file"})
		return
	}

	h.log.DebugContext(c.Request.Context(), "invoice upload received",
		slog.String("filename", header.Filename),
		slog.Int("bytes", len(raw)))

	invoice, err := h.ingestion.Ingest(c.Request.Context(), raw)
	if err != nil {
		respondServiceError(c, h.log, err)
		return
	}

	respondOK(c, model.NewInvoiceResponse(invoice))
}

// ListInvoices handles a request for one page of an owner's invoices
// @Summary List an owner's invoices
// @Description Invoices ordered by issue date, newest first, each with its raw XML document
// @Tags invoices
// @Produce json
// @Param ownerId query string true "Recipient taxpayer id (CPF or CNPJ)"
// @Param page query int false "Page number" default(1)
// @Param pageSize query int false "Page size" default(20)
// @Success 200 {object} model.InvoiceListResponse
// @Failure 400 {object} model.ErrorResponse "Invalid query parameters"
// @Failure 404 {object} model.ErrorResponse "Unknown owner"
// @Failure 500 {object} model.ErrorResponse "Storage dependency failure"
// @Router /v1/invoices [get]
func (h *InvoiceHandler) ListInvoices(c *gin.Context) {
	ownerID, page, details := parsePageQuery(c, h.maxPageSize)
	if len(details) > 0 {
		respondBadRequest(c, CodeInvalidQueryParams, MsgInvalidQueryParams, details...)
		return
	}

	result, err := h.query.ListByOwner(c.Request.Context(), ownerID, page)
	if err != nil {
		respondServiceError(c, h.log, err)
		return
	}

	respondOK(c, model.NewInvoiceListResponse(result))
}

// ListInvoicesGrouped handles a request for an owner's invoices grouped by issuer
// @Summary List an owner's invoices grouped by issuer
// @Description Issuer groups ordered by their most recent invoice; pagination applies to groups
// @Tags invoices
// @Produce json
// @Param ownerId query string true "Recipient taxpayer id (CPF or CNPJ)"
// @Param page query int false "Page number" default(1)
// @Param pageSize query int false "Groups per page" default(10)
// @Success 200 {object} model.GroupedInvoiceResponse
// @Failure 400 {object} model.ErrorResponse "Invalid query parameters"
// @Failure 404 {object} model.ErrorResponse "Unknown owner"
// @Failure 500 {object} model.ErrorResponse "Storage dependency failure"
// @Router /v1/invoices/grouped [get]
func (h *InvoiceHandler) ListInvoicesGrouped(c *gin.Context) {
	ownerID, page, details := parsePageQuery(c, h.maxPageSize)
	if len(details) > 0 {
		respondBadRequest(c, CodeInvalidQueryParams, MsgInvalidQueryParams, details...)
		return
	}

	result, err := h.query.GroupByIssuer(c.Request.Context(), ownerID, page)
	if err != nil {
		respondServiceError(c, h.log, err)
		return
	}

	respondOK(c, model.NewGroupedInvoiceResponse(result))
}
