package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// AccountType classifies an account.
type AccountType string

const (
	AccountTypeChecking AccountType = "checking"
	AccountTypeSavings  AccountType = "savings"
	AccountTypeCredit   AccountType = "credit"
)

// AccountStatus is the lifecycle state of an account.
type AccountStatus string

const (
	AccountStatusActive AccountStatus = "active"
	AccountStatusFrozen AccountStatus = "frozen"
	AccountStatusClosed AccountStatus = "closed"
)

// Account represents a customer account as known to the core banking system.
// The available balance never exceeds the ledger balance outside an in-flight
// debit.
type Account struct {
	ID               string
	UserID           string
	Type             AccountType
	Balance          decimal.Decimal
	AvailableBalance decimal.Decimal
	Currency         string
	Status           AccountStatus
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// ApplyDeposit returns the balances after a deposit. Deposits increase both
// the ledger and available balance.
func (a *Account) ApplyDeposit(amount decimal.Decimal) (balance, available decimal.Decimal) {
	return a.Balance.Add(amount), a.AvailableBalance.Add(amount)
}

// ApplyDebit returns the balances after a withdrawal or outgoing transfer.
// Debits decrease both the ledger and available balance.
func (a *Account) ApplyDebit(amount decimal.Decimal) (balance, available decimal.Decimal) {
	return a.Balance.Sub(amount), a.AvailableBalance.Sub(amount)
}

// CanDebit checks whether the available balance covers amount.
func (a *Account) CanDebit(amount decimal.Decimal) bool {
	return a.AvailableBalance.GreaterThanOrEqual(amount)
}

// BalanceInfo is the authoritative balance view returned by the core banking
// gateway and cached by the balance service.
type BalanceInfo struct {
	AccountID        string
	Balance          decimal.Decimal
	AvailableBalance decimal.Decimal
	Currency         string
	AccountType      AccountType
	UpdatedAt        time.Time
}
