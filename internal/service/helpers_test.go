package service

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/ridwanfathin/nfe-ingestion-service/internal/repository"
	"github.com/ridwanfathin/nfe-ingestion-service/internal/storage"
)

// nfeDoc describes the fields written into a generated NF-e document. Empty
// fields are left out of the XML.
type nfeDoc struct {
	TaxID     string
	ID        string
	IssueDate string
	Value     string
	Issuer    string
	Number    string
	Bare      bool
}

func (d nfeDoc) xml() []byte {
	var b strings.Builder
	b.WriteString(`<?xml version="1.0" encoding="UTF-8"?>`)
	if !d.Bare {
		b.WriteString(`<nfeProc xmlns="http://www.portalfiscal.inf.br/nfe" versao="4.00">`)
	}
	b.WriteString(`<NFe xmlns="http://www.portalfiscal.inf.br/nfe">`)
	if d.ID != "" {
		fmt.Fprintf(&b, `<infNFe Id="%s" versao="4.00">`, d.ID)
	} else {
		b.WriteString(`<infNFe versao="4.00">`)
	}
	b.WriteString(`<ide>`)
	if d.Number != "" {
		fmt.Fprintf(&b, `<nNF>%s</nNF>`, d.Number)
	}
	if d.IssueDate != "" {
		fmt.Fprintf(&b, `<dhEmi>%s</dhEmi>`, d.IssueDate)
	}
	b.WriteString(`</ide>`)
	if d.Issuer != "" {
		fmt.Fprintf(&b, `<emit><xFant>%s</xFant></emit>`, d.Issuer)
	}
	if d.TaxID != "" {
		fmt.Fprintf(&b, `<dest><CPF>%s</CPF></dest>`, d.TaxID)
	}
	if d.Value != "" {
		fmt.Fprintf(&b, `<total><ICMSTot><vNF>%s</vNF></ICMSTot></total>`, d.Value)
	}
	b.WriteString(`</infNFe></NFe>`)
	if !d.Bare {
		b.WriteString(`</nfeProc>`)
	}
	return []byte(b.String())
}

// scenarioDoc is the reference upload used across the tests.
func scenarioDoc() nfeDoc {
	return nfeDoc{TaxID: "111", ID: "NFeABC123", IssueDate: "2024-01-05", Value: "150.00", Issuer: "ACME", Number: "1001"}
}

type testEnv struct {
	recipients *repository.MemoryRecipientRepository
	invoices   *repository.MemoryInvoiceRepository
	blobs      *storage.MemoryBlobStore
	opts       Options
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	recipients := repository.NewMemoryRecipientRepository()
	return &testEnv{
		recipients: recipients,
		invoices:   repository.NewMemoryInvoiceRepository(recipients),
		blobs:      storage.NewMemoryBlobStore(),
		opts: Options{
			StoreTimeout:           time.Second,
			MaxWorkers:             4,
			DefaultPageSize:        20,
			DefaultGroupedPageSize: 10,
			MaxPageSize:            100,
			EnrichConcurrency:      4,
		},
	}
}

func (e *testEnv) resolver() RecipientResolver {
	return NewRecipientResolver(e.recipients, e.opts.StoreTimeout, discardLogger())
}

func (e *testEnv) ingestion() IngestionService {
	return e.ingestionWith(e.invoices, e.blobs)
}

func (e *testEnv) ingestionWith(invoices repository.InvoiceRepository, blobs storage.BlobStore) IngestionService {
	return NewIngestionService(invoices, blobs, e.resolver(), e.opts, discardLogger())
}

func (e *testEnv) query() QueryService {
	return e.queryWith(e.blobs)
}

func (e *testEnv) queryWith(blobs storage.BlobStore) QueryService {
	return NewQueryService(e.invoices, e.recipients, blobs, e.opts, discardLogger())
}
