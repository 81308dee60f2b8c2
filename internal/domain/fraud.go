package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// RiskLevel classifies a suspicion score.
type RiskLevel string

const (
	RiskLow    RiskLevel = "low"
	RiskMedium RiskLevel = "medium"
	RiskHigh   RiskLevel = "high"
)

// Fraud flags attached to an assessment.
const (
	FlagMultipleTransactions = "multiple_transactions_short_time"
	FlagUnusuallyLargeAmount = "unusually_large_amount"
	FlagUnusualHour          = "unusual_hour"
	FlagNewRecipientAccount  = "new_recipient_account"
)

const (
	rateWindow        = 5 * time.Minute
	rateWindowCount   = 10
	baselineCount     = 20
	recipientCount    = 50
	highRiskScore     = 50
	mediumRiskScore   = 25
	additionalAuthMin = 40
)

// FraudAssessment is the advisory output of the suspicion heuristic. It
// recommends, but never enforces, additional authentication.
type FraudAssessment struct {
	Score                  int       `json:"suspicion_score"`
	RiskLevel              RiskLevel `json:"risk_level"`
	Flags                  []string  `json:"flags"`
	RequiresAdditionalAuth bool      `json:"requires_additional_auth"`
}

// AssessTransaction scores tx against the user's recent history, ordered
// newest first. The heuristic is additive over bounded windows: the last 10
// transactions for rate, the last 20 for the amount baseline, the last 50
// for recipient novelty. It has no side effects.
func AssessTransaction(tx *Transaction, history []*Transaction) FraudAssessment {
	score := 0
	var flags []string

	// Burst of transactions shortly before this one.
	recent := 0
	for _, h := range firstN(history, rateWindowCount) {
		if tx.Timestamp-h.Timestamp < int64(rateWindow.Seconds()) {
			recent++
		}
	}
	if recent >= 5 {
		score += 30
		flags = append(flags, FlagMultipleTransactions)
	}

	// Amount far above the recent baseline.
	if len(history) > 0 {
		baseline := firstN(history, baselineCount)
		sum := decimal.Zero
		for _, h := range baseline {
			sum = sum.Add(h.Amount)
		}
		mean := sum.Div(decimal.NewFromInt(int64(len(baseline))))
		if tx.Amount.GreaterThan(mean.Mul(decimal.NewFromInt(10))) {
			score += 25
			flags = append(flags, FlagUnusuallyLargeAmount)
		}
	}

	// Nighttime activity, evaluated in UTC.
	hour := time.Unix(tx.Timestamp, 0).UTC().Hour()
	if hour < 6 || hour > 23 {
		score += 10
		flags = append(flags, FlagUnusualHour)
	}

	// Destination never seen in recent history.
	if tx.ToAccount != "" {
		known := false
		for _, h := range firstN(history, recipientCount) {
			if h.ToAccount == tx.ToAccount {
				known = true
				break
			}
		}
		if !known {
			score += 15
			flags = append(flags, FlagNewRecipientAccount)
		}
	}

	level := RiskLow
	switch {
	case score >= highRiskScore:
		level = RiskHigh
	case score >= mediumRiskScore:
		level = RiskMedium
	}

	return FraudAssessment{
		Score:                  score,
		RiskLevel:              level,
		Flags:                  flags,
		RequiresAdditionalAuth: score >= additionalAuthMin,
	}
}

func firstN(history []*Transaction, n int) []*Transaction {
	if len(history) < n {
		return history
	}
	return history[:n]
}
