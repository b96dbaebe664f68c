// Package docs registers the Swagger 2.0 document served under /api-docs.
// Keep it in step with the handler annotations (swag init -g cmd/server/main.go).
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {},
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/health": {
            "get": {
                "produces": ["application/json"],
                "tags": ["health"],
                "summary": "Liveness probe",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/model.HealthResponse"}}
                }
            }
        },
        "/ready": {
            "get": {
                "produces": ["application/json"],
                "tags": ["health"],
                "summary": "Readiness probe",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/model.HealthResponse"}},
                    "503": {"description": "Service Unavailable", "schema": {"$ref": "#/definitions/model.HealthResponse"}}
                }
            }
        },
        "/v1/invoices": {
            "get": {
                "description": "Invoices ordered by issue date, newest first, each with its raw XML document",
                "produces": ["application/json"],
                "tags": ["invoices"],
                "summary": "List an owner's invoices",
                "parameters": [
                    {"type": "string", "description": "Recipient taxpayer id (CPF or CNPJ)", "name": "ownerId", "in": "query", "required": true},
                    {"type": "integer", "default": 1, "description": "Page number", "name": "page", "in": "query"},
                    {"type": "integer", "default": 20, "description": "Page size", "name": "pageSize", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/model.InvoiceListResponse"}},
                    "400": {"description": "Invalid query parameters", "schema": {"$ref": "#/definitions/model.ErrorResponse"}},
                    "404": {"description": "Unknown owner", "schema": {"$ref": "#/definitions/model.ErrorResponse"}},
                    "500": {"description": "Storage dependency failure", "schema": {"$ref": "#/definitions/model.ErrorResponse"}}
                }
            },
            "post": {
                "description": "Parse an NF-e XML document, register its recipient if unknown and store the invoice",
                "consumes": ["multipart/form-data"],
                "produces": ["application/json"],
                "tags": ["invoices"],
                "summary": "Upload an NF-e invoice",
                "parameters": [
                    {"type": "file", "description": "NF-e XML document", "name": "file", "in": "formData", "required": true}
                ],
                "responses": {
                    "200": {"description": "Invoice stored", "schema": {"$ref": "#/definitions/model.InvoiceResponse"}},
                    "400": {"description": "Invalid document (VALIDATION_FAILED) or duplicate access key (INVOICE_ALREADY_REGISTERED)", "schema": {"$ref": "#/definitions/model.ErrorResponse"}},
                    "413": {"description": "File too large", "schema": {"$ref": "#/definitions/model.ErrorResponse"}},
                    "500": {"description": "Storage dependency failure", "schema": {"$ref": "#/definitions/model.ErrorResponse"}}
                }
            }
        },
        "/v1/invoices/grouped": {
            "get": {
                "description": "Issuer groups ordered by their most recent invoice; pagination applies to groups",
                "produces": ["application/json"],
                "tags": ["invoices"],
                "summary": "List an owner's invoices grouped by issuer",
                "parameters": [
                    {"type": "string", "description": "Recipient taxpayer id (CPF or CNPJ)", "name": "ownerId", "in": "query", "required": true},
                    {"type": "integer", "default": 1, "description": "Page number", "name": "page", "in": "query"},
                    {"type": "integer", "default": 10, "description": "Groups per page", "name": "pageSize", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/model.GroupedInvoiceResponse"}},
                    "400": {"description": "Invalid query parameters", "schema": {"$ref": "#/definitions/model.ErrorResponse"}},
                    "404": {"description": "Unknown owner", "schema": {"$ref": "#/definitions/model.ErrorResponse"}},
                    "500": {"description": "Storage dependency failure", "schema": {"$ref": "#/definitions/model.ErrorResponse"}}
                }
            }
        }
    },
    "definitions": {
        "model.ErrorDetail": {
            "type": "object",
            "properties": {
                "field": {"type": "string"},
                "message": {"type": "string"}
            }
        },
        "model.ErrorResponse": {
            "type": "object",
            "properties": {
                "code": {"type": "string", "example": "VALIDATION_FAILED"},
                "details": {"type": "array", "items": {"$ref": "#/definitions/model.ErrorDetail"}},
                "message": {"type": "string", "example": "Invalid invoice document"},
                "status": {"type": "string", "example": "Bad Request"}
            }
        },
        "model.HealthResponse": {
            "type": "object",
            "properties": {
                "checks": {"type": "object", "additionalProperties": {"type": "string"}},
                "status": {"type": "string", "example": "ok"}
            }
        },
        "model.InvoiceResponse": {
            "type": "object",
            "properties": {
                "accessKey": {"type": "string", "example": "ABC123"},
                "createdAt": {"type": "string"},
                "documentNumber": {"type": "string", "example": "1001"},
                "id": {"type": "string", "example": "7a3c9a0e-2f7b-4d0c-9a57-3c6f0f3c1b2a"},
                "issueDate": {"type": "string", "example": "2024-01-05T00:00:00Z"},
                "issuerName": {"type": "string", "example": "ACME"},
                "ownerId": {"type": "string", "example": "111"},
                "totalValue": {"type": "string", "example": "150.00"}
            }
        },
        "model.EnrichedInvoiceResponse": {
            "type": "object",
            "properties": {
                "accessKey": {"type": "string", "example": "ABC123"},
                "content": {"type": "string"},
                "createdAt": {"type": "string"},
                "documentNumber": {"type": "string", "example": "1001"},
                "error": {"type": "string"},
                "id": {"type": "string"},
                "issueDate": {"type": "string"},
                "issuerName": {"type": "string", "example": "ACME"},
                "ownerId": {"type": "string", "example": "111"},
                "totalValue": {"type": "string", "example": "150.00"}
            }
        },
        "model.InvoiceListResponse": {
            "type": "object",
            "properties": {
                "data": {"type": "array", "items": {"$ref": "#/definitions/model.EnrichedInvoiceResponse"}},
                "lastPage": {"type": "integer", "example": 1},
                "page": {"type": "integer", "example": 1},
                "total": {"type": "integer", "example": 3}
            }
        },
        "model.IssuerGroupResponse": {
            "type": "object",
            "properties": {
                "invoices": {"type": "array", "items": {"$ref": "#/definitions/model.InvoiceResponse"}},
                "issuerName": {"type": "string", "example": "ACME"}
            }
        },
        "model.GroupedInvoiceResponse": {
            "type": "object",
            "properties": {
                "data": {"type": "array", "items": {"$ref": "#/definitions/model.IssuerGroupResponse"}},
                "lastPage": {"type": "integer", "example": 1},
                "page": {"type": "integer", "example": 1},
                "total": {"type": "integer", "example": 2}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "NF-e Ingestion Service API",
	Description:      "Ingests NF-e fiscal XML documents and serves them back to their recipients.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
