package usecases

import "time"

const (
	// DefaultCommissionRate is the platform fee percentage applied to the
	// final job amount of credit-accessed leads.
	DefaultCommissionRate = 5.0

	// CommissionDueDays is how long a contractor has to pay a commission
	// after the customer confirms completion.
	CommissionDueDays = 7

	// DefaultMaxContractors caps how many contractors may buy access to a
	// single job unless the job overrides it.
	DefaultMaxContractors = 5

	// MaxContractorsCeiling bounds per-job cap overrides.
	MaxContractorsCeiling = 10

	// CreditResetInterval is the minimum age of a contractor's last reset
	// before the weekly sweep refills their balance.
	CreditResetInterval = 7 * 24 * time.Hour

	// OverdueSweepBatchSize limits how many pending commissions one sweep
	// pass transitions.
	OverdueSweepBatchSize = 100

	// Currency is the platform settlement currency.
	Currency = "EUR"
)
