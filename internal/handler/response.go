package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ridwanfathin/nfe-ingestion-service/internal/domain"
	"github.com/ridwanfathin/nfe-ingestion-service/internal/model"
)

// Error codes returned in ErrorResponse.Code
const (
	CodeValidationFailed   = "VALIDATION_FAILED"
	CodeAlreadyRegistered  = "INVOICE_ALREADY_REGISTERED"
	CodeNotFound           = "NOT_FOUND"
	CodePayloadTooLarge    = "PAYLOAD_TOO_LARGE"
	CodeDependencyFailure  = "DEPENDENCY_FAILURE"
	CodeInternalError      = "INTERNAL_ERROR"
	CodeInvalidQueryParams = "INVALID_QUERY_PARAMS"
)

// Common error messages
const (
	MsgInvalidDocument    = "Invalid invoice document"
	MsgAlreadyRegistered  = "Invoice already registered"
	MsgOwnerNotFound      = "Owner not found"
	MsgFileTooLarge       = "File size exceeds limit"
	MsgDependencyFailure  = "A storage dependency is unavailable, retry later"
	MsgInternalServer     = "Internal server error"
	MsgInvalidQueryParams = "Invalid query parameters"
)

// respondWithError sends a standardized error response
func respondWithError(c *gin.Context, statusCode int, code, message string, details ...model.ErrorDetail) {
	c.JSON(statusCode, model.ErrorResponse{
		Status:  http.StatusText(statusCode),
		Code:    code,
		Message: message,
		Details: details,
	})
}

// respondBadRequest sends a 400 Bad Request response
func respondBadRequest(c *gin.Context, code, message string, details ...model.ErrorDetail) {
	respondWithError(c, http.StatusBadRequest, code, message, details...)
}

// respondOK sends a 200 OK response with data
func respondOK(c *gin.Context, data any) {
	c.JSON(http.StatusOK, data)
}

// respondServiceError maps a service error onto the HTTP error contract.
// Conflicts share 400 with validation failures but carry their own code so
// clients can tell a resubmission from a broken file. A DependencyError is
// always a 500 whatever its cause; causes are logged, never returned.
func respondServiceError(c *gin.Context, log *slog.Logger, err error) {
	var vErr *domain.ValidationError
	var depErr *domain.DependencyError

	switch {
	case errors.As(err, &depErr):
		log.ErrorContext(c.Request.Context(), "dependency failure",
			slog.String("store", depErr.Store),
			slog.String("op", depErr.Op),
			slog.Any("error", depErr.Err))
		respondWithError(c, http.StatusInternalServerError, CodeDependencyFailure, MsgDependencyFailure)
	case errors.As(err, &vErr):
		respondBadRequest(c, CodeValidationFailed, MsgInvalidDocument, fieldDetails(vErr)...)
	case errors.Is(err, domain.ErrValidation):
		respondBadRequest(c, CodeValidationFailed, err.Error())
	case errors.Is(err, domain.ErrConflict):
		respondBadRequest(c, CodeAlreadyRegistered, MsgAlreadyRegistered)
	case errors.Is(err, domain.ErrNotFound):
		respondWithError(c, http.StatusNotFound, CodeNotFound, MsgOwnerNotFound)
	default:
		log.ErrorContext(c.Request.Context(), "unhandled error", slog.Any("error", err))
		respondWithError(c, http.StatusInternalServerError, CodeInternalError, MsgInternalServer)
	}
	_ = c.Error(err)
}

func fieldDetails(vErr *domain.ValidationError) []model.ErrorDetail {
	details := make([]model.ErrorDetail, 0, len(vErr.Errors))
	for _, fe := range vErr.Errors {
		details = append(details, model.ErrorDetail{Field: fe.Field, Message: fe.Message})
	}
	return details
}
