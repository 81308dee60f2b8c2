package middleware

import "testing"

func TestNormalizePath(t *testing.T) {
	tests := []struct {
		path     string
		expected string
	}{
		{"/api/v1/accounts/1234567890/balance", "/api/v1/accounts/:id/balance"},
		{"/api/v1/accounts/1234567890/transactions", "/api/v1/accounts/:id/transactions"},
		{"/api/v1/transfers", "/api/v1/transfers"},
		{"/api/v1/profile", "/api/v1/profile"},
		{"/health", "/health"},
		{"/api/v1/accounts/", "/api/v1/accounts/"},
	}

	for _, tt := range tests {
		if got := normalizePath(tt.path); got != tt.expected {
			t.Errorf("normalizePath(%q) = %q, want %q", tt.path, got, tt.expected)
		}
	}
}
