package domain_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/gobank/internal/domain"
)

func txAt(ts int64, amount int64, to string) *domain.Transaction {
	return &domain.Transaction{
		ID:          "tx",
		Type:        domain.TransactionTypeTransfer,
		Amount:      decimal.NewFromInt(amount),
		FromAccount: "1234567890",
		ToAccount:   to,
		Timestamp:   ts,
	}
}

// noonUTC is a timestamp at 12:00 UTC, outside the unusual-hour window.
var noonUTC = time.Date(2024, 1, 15, 12, 0, 0, 0, time.UTC).Unix()

func TestAssessTransaction_CleanHistory(t *testing.T) {
	history := []*domain.Transaction{
		txAt(noonUTC-3600, 100, "2222222222"),
		txAt(noonUTC-7200, 120, "2222222222"),
	}
	got := domain.AssessTransaction(txAt(noonUTC, 110, "2222222222"), history)

	if got.Score != 0 {
		t.Errorf("expected score 0, got %d (flags %v)", got.Score, got.Flags)
	}
	if got.RiskLevel != domain.RiskLow {
		t.Errorf("expected low risk, got %q", got.RiskLevel)
	}
	if got.RequiresAdditionalAuth {
		t.Error("no step-up auth expected on a clean transaction")
	}
}

func TestAssessTransaction_RapidFire(t *testing.T) {
	// Six transactions within the five-minute window.
	var history []*domain.Transaction
	for i := int64(0); i < 6; i++ {
		history = append(history, txAt(noonUTC-240+i, 50, "2222222222"))
	}
	got := domain.AssessTransaction(txAt(noonUTC, 50, "2222222222"), history)

	if !hasFlag(got.Flags, domain.FlagMultipleTransactions) {
		t.Fatalf("expected rate flag, got %v", got.Flags)
	}
	if got.Score < 30 {
		t.Errorf("expected score >= 30, got %d", got.Score)
	}
	if got.RiskLevel == domain.RiskLow {
		t.Errorf("expected at least medium risk, got %q", got.RiskLevel)
	}
}

func TestAssessTransaction_LargeAmount(t *testing.T) {
	history := []*domain.Transaction{
		txAt(noonUTC-86400, 100, "2222222222"),
		txAt(noonUTC-90000, 100, "2222222222"),
	}
	// Mean is 100; anything over 1000 is ten times the baseline.
	got := domain.AssessTransaction(txAt(noonUTC, 1500, "2222222222"), history)

	if !hasFlag(got.Flags, domain.FlagUnusuallyLargeAmount) {
		t.Fatalf("expected large-amount flag, got %v", got.Flags)
	}
	if got.Score != 25 {
		t.Errorf("expected score 25, got %d", got.Score)
	}
	if got.RiskLevel != domain.RiskMedium {
		t.Errorf("expected medium risk at 25, got %q", got.RiskLevel)
	}
}

func TestAssessTransaction_EmptyHistorySkipsBaseline(t *testing.T) {
	got := domain.AssessTransaction(txAt(noonUTC, 45000, "2222222222"), nil)

	if hasFlag(got.Flags, domain.FlagUnusuallyLargeAmount) {
		t.Error("no baseline flag without history")
	}
	// New recipient still fires: nothing in (empty) history matches.
	if !hasFlag(got.Flags, domain.FlagNewRecipientAccount) {
		t.Errorf("expected new-recipient flag, got %v", got.Flags)
	}
}

func TestAssessTransaction_UnusualHour(t *testing.T) {
	threeAM := time.Date(2024, 1, 15, 3, 0, 0, 0, time.UTC).Unix()
	got := domain.AssessTransaction(txAt(threeAM, 100, "2222222222"), []*domain.Transaction{
		txAt(threeAM-86400, 100, "2222222222"),
	})

	if !hasFlag(got.Flags, domain.FlagUnusualHour) {
		t.Fatalf("expected unusual-hour flag, got %v", got.Flags)
	}
	if got.Score != 10 {
		t.Errorf("expected score 10, got %d", got.Score)
	}
}

func TestAssessTransaction_NewRecipient(t *testing.T) {
	history := []*domain.Transaction{
		txAt(noonUTC-86400, 100, "3333333333"),
	}
	got := domain.AssessTransaction(txAt(noonUTC, 100, "4444444444"), history)

	if !hasFlag(got.Flags, domain.FlagNewRecipientAccount) {
		t.Fatalf("expected new-recipient flag, got %v", got.Flags)
	}
	if got.Score != 15 {
		t.Errorf("expected score 15, got %d", got.Score)
	}
}

func TestAssessTransaction_StepUpAuthThreshold(t *testing.T) {
	// Burst to a known recipient in the afternoon: exactly the rate flag
	// (30), below step-up. Adding the new-recipient flag (15) crosses 40.
	var history []*domain.Transaction
	for i := int64(0); i < 6; i++ {
		history = append(history, txAt(noonUTC-60+i, 50, "2222222222"))
	}

	known := domain.AssessTransaction(txAt(noonUTC, 50, "2222222222"), history)
	if known.RequiresAdditionalAuth {
		t.Errorf("score %d should not require step-up auth", known.Score)
	}

	unknown := domain.AssessTransaction(txAt(noonUTC, 50, "5555555555"), history)
	if !unknown.RequiresAdditionalAuth {
		t.Errorf("score %d should require step-up auth", unknown.Score)
	}
	if unknown.RiskLevel != domain.RiskMedium {
		t.Errorf("expected medium risk at 45, got %q", unknown.RiskLevel)
	}
}

func TestAssessTransaction_HighRisk(t *testing.T) {
	threeAM := time.Date(2024, 1, 15, 3, 0, 0, 0, time.UTC).Unix()
	var history []*domain.Transaction
	for i := int64(0); i < 6; i++ {
		history = append(history, txAt(threeAM-120+i, 50, "2222222222"))
	}
	// Rate (30) + hour (10) + new recipient (15) = 55.
	got := domain.AssessTransaction(txAt(threeAM, 50, "9999999999"), history)

	if got.RiskLevel != domain.RiskHigh {
		t.Errorf("expected high risk, got %q (score %d)", got.RiskLevel, got.Score)
	}
	if !got.RequiresAdditionalAuth {
		t.Error("expected step-up auth at high risk")
	}
}

func hasFlag(flags []string, want string) bool {
	for _, f := range flags {
		if f == want {
			return true
		}
	}
	return false
}
