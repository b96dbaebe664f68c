package service

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ridwanfathin/nfe-ingestion-service/internal/domain"
)

// Issue date layouts seen in NF-e: dhEmi (3.10 and 4.00, with offset),
// dhEmi without offset from some emitters, and dEmi (2.00).
var issueDateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// parseIssueDate returns false when s is empty or in no known layout.
func parseIssueDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range issueDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// parseTotal reads a monetary value with two decimal places. A lone comma
// is accepted as the decimal separator. Values outside NUMERIC(15,2) are
// treated as absent.
func parseTotal(s string) (decimal.Decimal, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, false
	}
	if !strings.Contains(s, ".") && strings.Count(s, ",") == 1 {
		s = strings.Replace(s, ",", ".", 1)
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, false
	}
	d = d.Round(2)
	if d.Abs().GreaterThan(domain.MaxTotalValue) {
		return decimal.Zero, false
	}
	return d, true
}
