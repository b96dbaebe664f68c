package integration

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"math/rand"
	"mime/multipart"
	"net/http"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestInvoice represents an invoice in the API
type TestInvoice struct {
	ID             string `json:"id"`
	AccessKey      string `json:"accessKey"`
	IssueDate      string `json:"issueDate"`
	TotalValue     string `json:"totalValue"`
	DocumentNumber string `json:"documentNumber"`
	IssuerName     string `json:"issuerName"`
	OwnerID        string `json:"ownerId"`
	Content        string `json:"content,omitempty"`
	Error          string `json:"error,omitempty"`
}

// TestInvoiceListResponse represents the response from GET /invoices
type TestInvoiceListResponse struct {
	Data     []TestInvoice `json:"data"`
	Total    int           `json:"total"`
	Page     int           `json:"page"`
	LastPage int           `json:"lastPage"`
}

// TestGroupedResponse represents the response from GET /invoices/grouped
type TestGroupedResponse struct {
	Data []struct {
		IssuerName string        `json:"issuerName"`
		Invoices   []TestInvoice `json:"invoices"`
	} `json:"data"`
	Total    int `json:"total"`
	Page     int `json:"page"`
	LastPage int `json:"lastPage"`
}

// TestErrorResponse represents an API error
type TestErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func nfeDocument(taxID, accessKey, issued, value, issuer string) []byte {
	return []byte(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<nfeProc xmlns="http://www.portalfiscal.inf.br/nfe" versao="4.00">
  <NFe>
    <infNFe Id="NFe%s" versao="4.00">
      <ide><nNF>1</nNF><dhEmi>%s</dhEmi></ide>
      <emit><xFant>%s</xFant></emit>
      <dest><CPF>%s</CPF></dest>
      <total><ICMSTot><vNF>%s</vNF></ICMSTot></total>
    </infNFe>
  </NFe>
</nfeProc>`, accessKey, issued, issuer, taxID, value))
}

func upload(t *testing.T, client *http.Client, baseURL string, doc []byte) (*http.Response, []byte) {
	t.Helper()
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	part, err := w.CreateFormFile("file", "nfe.xml")
	require.NoError(t, err)
	_, err = part.Write(doc)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req, err := http.NewRequest(http.MethodPost, baseURL+"/invoices", &body)
	require.NoError(t, err)
	req.Header.Set("Content-Type", w.FormDataContentType())

	resp, err := client.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, data
}

func get(t *testing.T, client *http.Client, url string, out any) int {
	t.Helper()
	resp, err := client.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()
	if out != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}

// TestInvoiceAPI runs against a live server (API_BASE_URL)
func TestInvoiceAPI(t *testing.T) {
	baseURL := os.Getenv("API_BASE_URL")
	if baseURL == "" {
		baseURL = "http://localhost:8080/v1"
	}

	client := &http.Client{Timeout: 10 * time.Second}
	probe, err := client.Get(baseURL + "/invoices")
	if err != nil {
		t.Skipf("API not reachable at %s: %v", baseURL, err)
	}
	probe.Body.Close()

	// Fresh identities per run so the test can be repeated against one database.
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	taxID := fmt.Sprintf("%011d", rng.Int63n(1e11))
	keyPrefix := fmt.Sprintf("IT%d", time.Now().UnixNano())

	t.Run("UploadInvoice", func(t *testing.T) {
		resp, data := upload(t, client, baseURL, nfeDocument(taxID, keyPrefix+"A", "2024-01-05", "150.00", "ACME"))
		require.Equal(t, http.StatusOK, resp.StatusCode, string(data))

		var inv TestInvoice
		require.NoError(t, json.Unmarshal(data, &inv))
		assert.NotEmpty(t, inv.ID)
		assert.Equal(t, keyPrefix+"A", inv.AccessKey)
		assert.Equal(t, taxID, inv.OwnerID)
		assert.Equal(t, "150.00", inv.TotalValue)
	})

	t.Run("DuplicateUpload", func(t *testing.T) {
		resp, data := upload(t, client, baseURL, nfeDocument(taxID, keyPrefix+"A", "2024-01-05", "150.00", "ACME"))
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

		var apiErr TestErrorResponse
		require.NoError(t, json.Unmarshal(data, &apiErr))
		assert.Equal(t, "INVOICE_ALREADY_REGISTERED", apiErr.Code)
	})

	t.Run("InvalidDocument", func(t *testing.T) {
		resp, data := upload(t, client, baseURL, []byte("not xml"))
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

		var apiErr TestErrorResponse
		require.NoError(t, json.Unmarshal(data, &apiErr))
		assert.Equal(t, "VALIDATION_FAILED", apiErr.Code)
	})

	t.Run("ListInvoices", func(t *testing.T) {
		for _, d := range []struct{ key, issued, issuer string }{
			{"B", "2024-03-01", "ACME"},
			{"C", "2024-02-10", "Beta"},
		} {
			resp, data := upload(t, client, baseURL, nfeDocument(taxID, keyPrefix+d.key, d.issued, "10.00", d.issuer))
			require.Equal(t, http.StatusOK, resp.StatusCode, string(data))
		}

		var list TestInvoiceListResponse
		status := get(t, client, fmt.Sprintf("%s/invoices?ownerId=%s&page=1&pageSize=10", baseURL, taxID), &list)
		require.Equal(t, http.StatusOK, status)
		assert.Equal(t, 3, list.Total)
		assert.Equal(t, 1, list.LastPage)
		require.Len(t, list.Data, 3)
		assert.Equal(t, keyPrefix+"B", list.Data[0].AccessKey)
		assert.Equal(t, keyPrefix+"C", list.Data[1].AccessKey)
		assert.Equal(t, keyPrefix+"A", list.Data[2].AccessKey)
		for _, inv := range list.Data {
			assert.Empty(t, inv.Error)
			assert.Contains(t, inv.Content, "NFe"+inv.AccessKey)
		}
	})

	t.Run("ListInvoicesGrouped", func(t *testing.T) {
		var grouped TestGroupedResponse
		status := get(t, client, fmt.Sprintf("%s/invoices/grouped?ownerId=%s", baseURL, taxID), &grouped)
		require.Equal(t, http.StatusOK, status)
		assert.Equal(t, 2, grouped.Total)
		require.Len(t, grouped.Data, 2)
		assert.Equal(t, "ACME", grouped.Data[0].IssuerName)
		assert.Len(t, grouped.Data[0].Invoices, 2)
	})

	t.Run("UnknownOwner", func(t *testing.T) {
		var apiErr TestErrorResponse
		status := get(t, client, baseURL+"/invoices?ownerId=00000000000000", &apiErr)
		assert.Equal(t, http.StatusNotFound, status)
		assert.Equal(t, "NOT_FOUND", apiErr.Code)
	})
}
