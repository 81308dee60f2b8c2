package usecase

import "time"

// Clock overrides for deterministic tests.

func SetBalanceClock(uc *BalanceUseCase, now func() time.Time) { uc.now = now }
func SetTransactionsClock(uc *TransactionsUseCase, now func() time.Time) { uc.now = now }
func SetTransferClock(uc *TransferUseCase, now func() time.Time) { uc.now = now }
func SetProcessorClock(p *TransactionProcessor, now func() time.Time) { p.now = now }
func SetProfileClock(uc *ProfileUseCase, now func() time.Time) { uc.now = now }
