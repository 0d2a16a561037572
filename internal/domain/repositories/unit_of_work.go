package repositories

import (
	"context"
)

// UnitOfWork defines the interface for atomic operations. Every multi-row
// financial or capacity mutation runs inside a single Do scope; capacity and
// balance checks are re-evaluated inside the same transaction that writes.
type UnitOfWork interface {
	// Do executes the given function within a transaction scope
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}
