package domain_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/iho/gobank/internal/domain"
)

func TestValidateAccountNumber(t *testing.T) {
	tests := []struct {
		name    string
		account string
		wantErr error
	}{
		{name: "valid ten digits", account: "1234567890"},
		{name: "empty", account: "", wantErr: domain.ErrMissingField},
		{name: "too short", account: "123456789", wantErr: domain.ErrInvalidAccountNumber},
		{name: "too long", account: "12345678901", wantErr: domain.ErrInvalidAccountNumber},
		{name: "letters", account: "12345abcde", wantErr: domain.ErrInvalidAccountNumber},
		{name: "spaces", account: "123 456 78", wantErr: domain.ErrInvalidAccountNumber},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := domain.ValidateAccountNumber(tt.account)
			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestValidateTransferAmount(t *testing.T) {
	tests := []struct {
		name    string
		amount  decimal.Decimal
		wantErr error
	}{
		{name: "positive amount", amount: decimal.NewFromInt(100)},
		{name: "at the ceiling", amount: decimal.NewFromInt(50000)},
		{name: "zero", amount: decimal.Zero, wantErr: domain.ErrInvalidAmount},
		{name: "negative", amount: decimal.NewFromInt(-1), wantErr: domain.ErrInvalidAmount},
		{name: "over the ceiling", amount: decimal.NewFromInt(50001), wantErr: domain.ErrAmountTooLarge},
		{name: "fractionally over", amount: decimal.RequireFromString("50000.01"), wantErr: domain.ErrAmountTooLarge},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := domain.ValidateTransferAmount(tt.amount)
			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestTruncateDescription(t *testing.T) {
	if got := domain.TruncateDescription("  rent  "); got != "rent" {
		t.Errorf("expected trimmed description, got %q", got)
	}
	long := strings.Repeat("a", 150)
	if got := domain.TruncateDescription(long); len(got) != domain.MaxDescriptionLength {
		t.Errorf("expected %d chars, got %d", domain.MaxDescriptionLength, len(got))
	}
	if got := domain.TruncateDescription(""); got != "" {
		t.Errorf("expected empty, got %q", got)
	}
}

func TestValidateName(t *testing.T) {
	for _, good := range []string{"Ada", "O'Brien", "Anne-Marie", "José"} {
		if err := domain.ValidateName(good); err != nil {
			t.Errorf("ValidateName(%q): unexpected error %v", good, err)
		}
	}
	for _, bad := range []string{"", "  ", "<script>", "Bob1", strings.Repeat("a", 60)} {
		if err := domain.ValidateName(bad); err == nil {
			t.Errorf("ValidateName(%q): expected error", bad)
		}
	}
}

func TestValidateEmail(t *testing.T) {
	for _, good := range []string{"ada@example.com", "a.b+c@sub.domain.org"} {
		if err := domain.ValidateEmail(good); err != nil {
			t.Errorf("ValidateEmail(%q): unexpected error %v", good, err)
		}
	}
	for _, bad := range []string{"", "not-an-email", "a@b", "@example.com"} {
		if err := domain.ValidateEmail(bad); err == nil {
			t.Errorf("ValidateEmail(%q): expected error", bad)
		}
	}
}

func TestValidatePhoneNumber(t *testing.T) {
	for _, good := range []string{"+14155550100", "0791234567", "+44 20 7946 0958"} {
		if err := domain.ValidatePhoneNumber(good); err != nil {
			t.Errorf("ValidatePhoneNumber(%q): unexpected error %v", good, err)
		}
	}
	for _, bad := range []string{"", "call me", "123", "+1-415-555"} {
		if err := domain.ValidatePhoneNumber(bad); err == nil {
			t.Errorf("ValidatePhoneNumber(%q): expected error", bad)
		}
	}
}

func TestValidateTierLimit(t *testing.T) {
	tests := []struct {
		name    string
		tier    domain.UserTier
		txType  domain.TransactionType
		amount  int64
		wantErr bool
	}{
		{name: "standard transfer within limit", tier: domain.TierStandard, txType: domain.TransactionTypeTransfer, amount: 5000},
		{name: "standard transfer over limit", tier: domain.TierStandard, txType: domain.TransactionTypeTransfer, amount: 5001, wantErr: true},
		{name: "premium transfer within limit", tier: domain.TierPremium, txType: domain.TransactionTypeTransfer, amount: 25000},
		{name: "corporate payment within limit", tier: domain.TierCorporate, txType: domain.TransactionTypePayment, amount: 200000},
		{name: "standard withdrawal over limit", tier: domain.TierStandard, txType: domain.TransactionTypeWithdrawal, amount: 1500, wantErr: true},
		{name: "unknown tier falls back to standard", tier: "vip", txType: domain.TransactionTypeTransfer, amount: 5001, wantErr: true},
		{name: "unknown type uses conservative default", tier: domain.TierStandard, txType: "wire", amount: 600, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := domain.ValidateTierLimit(tt.tier, tt.txType, decimal.NewFromInt(tt.amount))
			if tt.wantErr && !errors.Is(err, domain.ErrAmountTooLarge) {
				t.Fatalf("expected ErrAmountTooLarge, got %v", err)
			}
			if !tt.wantErr && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}
