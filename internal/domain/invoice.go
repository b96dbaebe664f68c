package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AccessKeyPrefix is the literal that precedes the access key in the
// identity attribute of an NF-e document.
const AccessKeyPrefix = "NFe"

// MaxAccessKeyLength bounds the stored access key (invoices.access_key).
const MaxAccessKeyLength = 64

// MaxTotalValue is the largest total that fits NUMERIC(15,2).
var MaxTotalValue = decimal.RequireFromString("9999999999999.99")

// Invoice is the metadata row kept for every ingested NF-e document. The raw
// document lives in the blob store under ID.
type Invoice struct {
	ID             uuid.UUID       `db:"id"`
	AccessKey      string          `db:"access_key"`
	IssueDate      time.Time       `db:"issue_date"`
	TotalValue     decimal.Decimal `db:"total_value"`
	DocumentNumber string          `db:"document_number"`
	IssuerName     string          `db:"issuer_name"`
	OwnerID        string          `db:"owner_id"`
	CreatedAt      time.Time       `db:"created_at"`
}

// EnrichedInvoice is an invoice with its raw document attached. When the
// document could not be read, Content is nil and Error explains why.
type EnrichedInvoice struct {
	Invoice
	Content []byte
	Error   string
}

// IssuerSummary is one issuer group header: its name and the most recent
// issue date among its invoices.
type IssuerSummary struct {
	IssuerName      string    `db:"issuer_name"`
	LatestIssueDate time.Time `db:"latest_issue_date"`
}

// IssuerGroup holds all invoices of one owner issued by the same issuer.
type IssuerGroup struct {
	IssuerName string
	Invoices   []Invoice
}
