package ports

import "context"

// UnitOfWork wraps a function in one atomic storage transaction. When fn
// returns an error every pending write from that invocation is discarded,
// leaving the store exactly as it was beforehand.
type UnitOfWork interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
}
