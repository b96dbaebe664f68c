package domain

import "time"

// RecipientStatus tracks whether a recipient finished registration.
type RecipientStatus string

const (
	RecipientPlaceholder RecipientStatus = "placeholder"
	RecipientComplete    RecipientStatus = "complete"
)

// MaxTaxIDLength bounds a taxpayer id: 11 digits for a CPF, 14 for a CNPJ.
const MaxTaxIDLength = 14

// Recipient is the taxpayer an invoice is addressed to, identified by its
// taxpayer id (CPF or CNPJ digits).
type Recipient struct {
	TaxID     string          `db:"tax_id"`
	Status    RecipientStatus `db:"status"`
	CreatedAt time.Time       `db:"created_at"`
}

// IsPlaceholder reports whether the recipient was created by ingestion and
// has no profile yet.
func (r *Recipient) IsPlaceholder() bool {
	return r.Status == RecipientPlaceholder
}
