package model

// ErrorResponse represents an error response
type ErrorResponse struct {
	Status  string        `json:"status"            example:"Bad Request"`
	Code    string        `json:"code"              example:"VALIDATION_FAILED"`
	Message string        `json:"message"           example:"Invalid invoice document"`
	Details []ErrorDetail `json:"details,omitempty"`
}

// ErrorDetail represents detailed error information
type ErrorDetail struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// HealthResponse reports service and dependency status
type HealthResponse struct {
	Status string            `json:"status"           example:"ok"`
	Checks map[string]string `json:"checks,omitempty"`
}
