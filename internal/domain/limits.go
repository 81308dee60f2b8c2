package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// TransactionLimits bound a single transaction and a day's total for one
// transaction type.
type TransactionLimits struct {
	Single decimal.Decimal
	Daily  decimal.Decimal
}

func limits(single, daily int64) TransactionLimits {
	return TransactionLimits{
		Single: decimal.NewFromInt(single),
		Daily:  decimal.NewFromInt(daily),
	}
}

// tierLimits holds per-tier, per-type limits. Unknown tiers fall back to
// standard; unknown types to a conservative default.
var tierLimits = map[UserTier]map[TransactionType]TransactionLimits{
	TierStandard: {
		TransactionTypeTransfer:   limits(5000, 10000),
		TransactionTypeWithdrawal: limits(1000, 5000),
		TransactionTypePayment:    limits(3000, 15000),
	},
	TierPremium: {
		TransactionTypeTransfer:   limits(25000, 50000),
		TransactionTypeWithdrawal: limits(5000, 10000),
		TransactionTypePayment:    limits(15000, 75000),
	},
	TierCorporate: {
		TransactionTypeTransfer:   limits(100000, 500000),
		TransactionTypeWithdrawal: limits(25000, 50000),
		TransactionTypePayment:    limits(200000, 1000000),
	},
}

var defaultLimits = limits(500, 1000)

// LimitsFor returns the limits for a tier and transaction type.
func LimitsFor(tier UserTier, txType TransactionType) TransactionLimits {
	byType, ok := tierLimits[tier]
	if !ok {
		byType = tierLimits[TierStandard]
	}
	l, ok := byType[txType]
	if !ok {
		return defaultLimits
	}
	return l
}

// ValidateTierLimit checks an amount against the single-transaction limit of
// the user's tier.
func ValidateTierLimit(tier UserTier, txType TransactionType, amount decimal.Decimal) error {
	l := LimitsFor(tier, txType)
	if amount.GreaterThan(l.Single) {
		return fmt.Errorf("%w: %s tier single-transaction limit is %s", ErrAmountTooLarge, tier, l.Single)
	}
	return nil
}
