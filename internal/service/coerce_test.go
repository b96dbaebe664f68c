package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseIssueDate(t *testing.T) {
	tests := []struct {
		in     string
		want   time.Time
		wantOK bool
	}{
		{"2024-01-05T10:30:00-03:00", time.Date(2024, 1, 5, 13, 30, 0, 0, time.UTC), true},
		{"2024-01-05T10:30:00", time.Date(2024, 1, 5, 10, 30, 0, 0, time.UTC), true},
		{"2024-01-05", time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC), true},
		{" 2024-01-05 ", time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC), true},
		{"05/01/2024", time.Time{}, false},
		{"", time.Time{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := parseIssueDate(tt.in)
			assert.Equal(t, tt.wantOK, ok)
			assert.True(t, tt.want.Equal(got), "got %s", got)
		})
	}
}

func TestParseTotal(t *testing.T) {
	tests := []struct {
		in     string
		want   string
		wantOK bool
	}{
		{"150.00", "150", true},
		{"150", "150", true},
		{"1234,56", "1234.56", true},
		{"0.005", "0.01", true},
		{"9999999999999.99", "9999999999999.99", true},
		{"10000000000000", "0", false},
		{"1e20", "0", false},
		{"1,234,56", "0", false},
		{"abc", "0", false},
		{"", "0", false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := parseTotal(tt.in)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got.String())
		})
	}
}
