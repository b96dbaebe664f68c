package model

import (
	"time"

	"github.com/ridwanfathin/nfe-ingestion-service/internal/domain"
)

// InvoiceResponse is the stored metadata of one invoice
type InvoiceResponse struct {
	ID             string    `json:"id"             example:"7a3c9a0e-2f7b-4d0c-9a57-3c6f0f3c1b2a"`
	AccessKey      string    `json:"accessKey"      example:"ABC123"`
	IssueDate      time.Time `json:"issueDate"      example:"2024-01-05T00:00:00Z"`
	TotalValue     string    `json:"totalValue"     example:"150.00"`
	DocumentNumber string    `json:"documentNumber" example:"1001"`
	IssuerName     string    `json:"issuerName"     example:"ACME"`
	OwnerID        string    `json:"ownerId"        example:"111"`
	CreatedAt      time.Time `json:"createdAt"`
}

// EnrichedInvoiceResponse is an invoice with its raw XML document. Error is
// set, and Content empty, when the document could not be read.
type EnrichedInvoiceResponse struct {
	InvoiceResponse
	Content string `json:"content,omitempty"`
	Error   string `json:"error,omitempty"`
}

// InvoiceListResponse is one page of an owner's invoices
type InvoiceListResponse struct {
	Data     []EnrichedInvoiceResponse `json:"data"`
	Total    int                       `json:"total"    example:"3"`
	Page     int                       `json:"page"     example:"1"`
	LastPage int                       `json:"lastPage" example:"1"`
}

// IssuerGroupResponse holds the invoices of one issuer
type IssuerGroupResponse struct {
	IssuerName string            `json:"issuerName" example:"ACME"`
	Invoices   []InvoiceResponse `json:"invoices"`
}

// GroupedInvoiceResponse is one page of issuer groups. Total counts groups.
type GroupedInvoiceResponse struct {
	Data     []IssuerGroupResponse `json:"data"`
	Total    int                   `json:"total"    example:"2"`
	Page     int                   `json:"page"     example:"1"`
	LastPage int                   `json:"lastPage" example:"1"`
}

// NewInvoiceResponse converts a domain Invoice to its response form
func NewInvoiceResponse(inv *domain.Invoice) InvoiceResponse {
	return InvoiceResponse{
		ID:             inv.ID.String(),
		AccessKey:      inv.AccessKey,
		IssueDate:      inv.IssueDate,
		TotalValue:     inv.TotalValue.StringFixed(2),
		DocumentNumber: inv.DocumentNumber,
		IssuerName:     inv.IssuerName,
		OwnerID:        inv.OwnerID,
		CreatedAt:      inv.CreatedAt,
	}
}

// NewInvoiceListResponse converts a domain InvoicePage
func NewInvoiceListResponse(page *domain.InvoicePage) InvoiceListResponse {
	data := make([]EnrichedInvoiceResponse, len(page.Items))
	for i := range page.Items {
		item := &page.Items[i]
		data[i] = EnrichedInvoiceResponse{
			InvoiceResponse: NewInvoiceResponse(&item.Invoice),
			Content:         string(item.Content),
			Error:           item.Error,
		}
	}
	return InvoiceListResponse{
		Data:     data,
		Total:    page.Total,
		Page:     page.Page,
		LastPage: page.LastPage,
	}
}

// NewGroupedInvoiceResponse converts a domain IssuerGroupPage
func NewGroupedInvoiceResponse(page *domain.IssuerGroupPage) GroupedInvoiceResponse {
	data := make([]IssuerGroupResponse, len(page.Groups))
	for i, g := range page.Groups {
		invoices := make([]InvoiceResponse, len(g.Invoices))
		for j := range g.Invoices {
			invoices[j] = NewInvoiceResponse(&g.Invoices[j])
		}
		data[i] = IssuerGroupResponse{IssuerName: g.IssuerName, Invoices: invoices}
	}
	return GroupedInvoiceResponse{
		Data:     data,
		Total:    page.Total,
		Page:     page.Page,
		LastPage: page.LastPage,
	}
}
