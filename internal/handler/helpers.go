package handler

import (
	"fmt"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/ridwanfathin/nfe-ingestion-service/internal/domain"
	"github.com/ridwanfathin/nfe-ingestion-service/internal/model"
)

// getQueryInt retrieves an integer query parameter with a default value
func getQueryInt(c *gin.Context, paramName string, defaultValue int) (int, error) {
	valueStr := c.Query(paramName)
	if valueStr == "" {
		return defaultValue, nil
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return 0, fmt.Errorf("must be an integer")
	}

	return value, nil
}

// parsePageQuery reads ownerId, page and pageSize. A missing pageSize is
// left at zero so the service applies its default.
func parsePageQuery(c *gin.Context, maxPageSize int) (string, domain.PageRequest, []model.ErrorDetail) {
	var details []model.ErrorDetail

	ownerID := c.Query("ownerId")
	if ownerID == "" {
		details = append(details, model.ErrorDetail{Field: "ownerId", Message: "is required"})
	}

	page, err := getQueryInt(c, "page", 1)
	switch {
	case err != nil:
		details = append(details, model.ErrorDetail{Field: "page", Message: err.Error()})
	case page < 1:
		details = append(details, model.ErrorDetail{Field: "page", Message: "must be greater than 0"})
	}

	pageSize, err := getQueryInt(c, "pageSize", 0)
	switch {
	case err != nil:
		details = append(details, model.ErrorDetail{Field: "pageSize", Message: err.Error()})
	case c.Query("pageSize") != "" && (pageSize < 1 || pageSize > maxPageSize):
		details = append(details, model.ErrorDetail{
			Field:   "pageSize",
			Message: fmt.Sprintf("must be between 1 and %d", maxPageSize),
		})
	}

	return ownerID, domain.PageRequest{Page: page, PageSize: pageSize}, details
}
