package nfe

import (
	"strings"

	"github.com/ridwanfathin/nfe-ingestion-service/internal/domain"
)

// FieldSet holds the fiscal fields read from a document. Every field is a
// raw string; an empty string means the document does not carry it.
type FieldSet struct {
	RecipientTaxID string
	AccessKey      string
	IssueDate      string
	TotalValue     string
	DocumentNumber string
	IssuerName     string
}

// Documents come either inside the authorization envelope (nfeProc) or bare.
var invoiceRoots = [][]string{
	{"nfeProc", "NFe", "infNFe"},
	{"NFe", "infNFe"},
}

// Extract reads the fiscal fields from doc. It never fails; missing fields
// are left empty.
func Extract(doc Document) FieldSet {
	return FieldSet{
		RecipientTaxID: lookupInvoice(doc, []string{"dest", "CPF"}, []string{"dest", "CNPJ"}),
		AccessKey:      accessKey(doc),
		IssueDate:      lookupInvoice(doc, []string{"ide", "dhEmi"}, []string{"ide", "dEmi"}),
		TotalValue:     lookupInvoice(doc, []string{"total", "ICMSTot", "vNF"}),
		DocumentNumber: lookupInvoice(doc, []string{"ide", "nNF"}),
		IssuerName:     lookupInvoice(doc, []string{"emit", "xFant"}, []string{"emit", "xNome"}),
	}
}

// lookupInvoice tries each candidate path in order, each one first under the
// envelope and then bare.
func lookupInvoice(doc Document, candidates ...[]string) string {
	for _, rel := range candidates {
		for _, root := range invoiceRoots {
			path := make([]string, 0, len(root)+len(rel))
			path = append(append(path, root...), rel...)
			if v, ok := doc.Lookup(path...); ok {
				return v
			}
		}
	}
	return ""
}

func accessKey(doc Document) string {
	id := lookupInvoice(doc, []string{"-Id"})
	return strings.TrimSpace(strings.TrimPrefix(id, domain.AccessKeyPrefix))
}
