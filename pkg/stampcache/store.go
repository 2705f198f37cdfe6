package stampcache

import (
	"context"
	"time"
)

// Store is a byte-valued cache. A ttl of zero stores without expiry.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Put(ctx context.Context, key string, value []byte, ttl time.Duration) error
}
