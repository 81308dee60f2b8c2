package domain

import "errors"

var (
	// Request errors
	ErrInvalidRequest = errors.New("invalid request")
	ErrForbidden      = errors.New("account access denied")

	// Transfer errors
	ErrInsufficientFunds = errors.New("insufficient available balance")
	ErrSameAccount       = errors.New("cannot transfer to same account")
	ErrInvalidAmount     = errors.New("amount must be positive")

	// Upstream errors
	ErrUpstreamUnavailable = errors.New("core banking system unavailable")
	ErrUpstreamRejected    = errors.New("core banking system rejected transaction")

	// Lookup errors
	ErrAccountNotFound     = errors.New("account not found")
	ErrProfileNotFound     = errors.New("user profile not found")
	ErrTransactionNotFound = errors.New("transaction not found")

	// Cache errors
	ErrCacheMiss = errors.New("cache entry not found")
)
