package trackable

import (
	"context"
)

type skipCleanKey struct{}

// WithSkipClean marks the context so Tx.Commit leaves flushed models dirty.
// Use it when the caller checkpoints models itself, e.g. after an outer
// transaction commits.
func WithSkipClean(ctx context.Context) context.Context {
	return context.WithValue(ctx, skipCleanKey{}, true)
}

func extractSkipClean(ctx context.Context) bool {
	if v, ok := ctx.Value(skipCleanKey{}).(bool); ok {
		return v
	}
	return false
}
