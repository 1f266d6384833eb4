package port

import "context"

type CacheRepository interface {
	// SetIdempotency sets a key for idempotency check, returns false if already exists
	SetIdempotency(ctx context.Context, key string) (bool, error)

	// SetItemTotal publishes the market-wide quantity of an item
	SetItemTotal(ctx context.Context, itemID string, quantity int) error
}
