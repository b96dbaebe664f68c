package domain

// PageRequest selects one page of a result set. Page is 1-based.
type PageRequest struct {
	Page     int
	PageSize int
}

// Offset returns the number of entries preceding the page.
func (p PageRequest) Offset() int {
	return (p.Page - 1) * p.PageSize
}

// LastPage returns ceil(total/pageSize). An empty result has no pages.
func LastPage(total, pageSize int) int {
	if pageSize <= 0 || total <= 0 {
		return 0
	}
	return (total + pageSize - 1) / pageSize
}

// InvoicePage is a page of an owner's invoices, newest first.
type InvoicePage struct {
	Items    []EnrichedInvoice
	Total    int
	Page     int
	LastPage int
}

// IssuerGroupPage is a page of issuer groups. Total counts groups, not invoices.
type IssuerGroupPage struct {
	Groups   []IssuerGroup
	Total    int
	Page     int
	LastPage int
}
