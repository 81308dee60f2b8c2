package domain

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// Validation errors
var (
	ErrInvalidAccountNumber = errors.New("invalid account number format")
	ErrAmountTooLarge       = errors.New("amount exceeds maximum allowed")
	ErrMissingField         = errors.New("required field missing")
	ErrInvalidName          = errors.New("invalid name")
	ErrInvalidEmail         = errors.New("invalid email format")
	ErrInvalidPhoneNumber   = errors.New("invalid phone number format")
)

// Validation constants
const (
	MaxDescriptionLength = 100
	MaxNameLength        = 50

	// MaxTransferAmount is the absolute per-transaction ceiling, before
	// tier limits.
	MaxTransferAmount = 50000
)

var (
	accountNumberRegex = regexp.MustCompile(`^[0-9]{10}$`)
	emailRegex         = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	phoneRegex         = regexp.MustCompile(`^\+?[0-9]{7,15}$`)
	nameRegex          = regexp.MustCompile(`^[a-zA-ZÀ-ÿ' -]+$`)
)

// ValidateAccountNumber checks the configured account number format: exactly
// ten digits.
func ValidateAccountNumber(account string) error {
	if account == "" {
		return fmt.Errorf("%w: account number", ErrMissingField)
	}
	if !accountNumberRegex.MatchString(account) {
		return fmt.Errorf("%w: %s", ErrInvalidAccountNumber, MaskAccountNumber(account))
	}
	return nil
}

// ValidateTransferAmount checks the amount against zero and the absolute
// ceiling.
func ValidateTransferAmount(amount decimal.Decimal) error {
	if amount.LessThanOrEqual(decimal.Zero) {
		return ErrInvalidAmount
	}
	if amount.GreaterThan(decimal.NewFromInt(MaxTransferAmount)) {
		return fmt.Errorf("%w: maximum is %d", ErrAmountTooLarge, MaxTransferAmount)
	}
	return nil
}

// TruncateDescription bounds a free-form description.
func TruncateDescription(description string) string {
	description = strings.TrimSpace(description)
	if len(description) > MaxDescriptionLength {
		return description[:MaxDescriptionLength]
	}
	return description
}

// ValidateName validates a first or last name.
func ValidateName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" || len(name) > MaxNameLength {
		return ErrInvalidName
	}
	if !nameRegex.MatchString(name) {
		return fmt.Errorf("%w: contains forbidden characters", ErrInvalidName)
	}
	return nil
}

// ValidateEmail validates email format.
func ValidateEmail(email string) error {
	if !emailRegex.MatchString(strings.TrimSpace(strings.ToLower(email))) {
		return ErrInvalidEmail
	}
	return nil
}

// ValidatePhoneNumber validates an international phone number.
func ValidatePhoneNumber(phone string) error {
	if !phoneRegex.MatchString(strings.ReplaceAll(phone, " ", "")) {
		return ErrInvalidPhoneNumber
	}
	return nil
}
