package http

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestFormatReais(t *testing.T) {
	tests := []struct {
		cents int64
		want  string
	}{
		{0, "R$ 0,00"},
		{5, "R$ 0,05"},
		{15050, "R$ 150,50"},
		{-2500, "-R$ 25,00"},
	}
	for _, tt := range tests {
		if got := formatReais(tt.cents); got != tt.want {
			t.Errorf("formatReais(%d) = %q, want %q", tt.cents, got, tt.want)
		}
	}
}

func TestParseYearMonth(t *testing.T) {
	r := httptest.NewRequest("GET", "/api/dues?month=3&year=2024", nil)
	month, year := parseYearMonth(r)
	if month != 3 || year != 2024 {
		t.Errorf("parseYearMonth() = %d/%d, want 3/2024", month, year)
	}

	now := time.Now()
	r = httptest.NewRequest("GET", "/api/dues?month=abc", nil)
	month, year = parseYearMonth(r)
	if month != int(now.Month()) || year != now.Year() {
		t.Errorf("parseYearMonth() defaults = %d/%d", month, year)
	}
}

func TestSanitizeInput(t *testing.T) {
	if got := sanitizeInput("  ana\x00souza\x07  "); got != "anasouza" {
		t.Errorf("sanitizeInput() = %q", got)
	}
	if got := sanitizeInput("linha\num\ttab"); got != "linha\num\ttab" {
		t.Errorf("sanitizeInput() stripped allowed whitespace: %q", got)
	}
}

func TestGenerateRequestID(t *testing.T) {
	a, b := generateRequestID(), generateRequestID()
	if !strings.HasPrefix(a, "req_") || a == b {
		t.Errorf("generateRequestID() = %q, %q", a, b)
	}
}
