package usecase

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	// DefaultGatewayTimeout bounds a single core banking call. Expiry is
	// surfaced as upstream-unavailable.
	DefaultGatewayTimeout = 5 * time.Second

	// FraudHistoryLimit is how many recent cached transactions feed the
	// suspicion heuristic.
	FraudHistoryLimit = 50
)

// LargeTransactionThreshold triggers a security alert from the processor.
var LargeTransactionThreshold = decimal.NewFromInt(10000)
