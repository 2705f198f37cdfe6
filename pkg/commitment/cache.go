package commitment

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/forecast-stamps/verifier-go/pkg/hashing"
	"github.com/forecast-stamps/verifier-go/pkg/proof"
	"github.com/forecast-stamps/verifier-go/pkg/stampcache"
)

type CacheConfig struct {
	TTL    time.Duration
	Logger *zerolog.Logger
}

type cachingSource struct {
	source CommitmentSource
	store  stampcache.Store
	ttl    time.Duration
	logger zerolog.Logger
}

// WithCache serves repeated requests from store. Only successful responses
// are stored. Store failures are logged as warnings and fall back to source.
func WithCache(source CommitmentSource, store stampcache.Store, config CacheConfig) CommitmentSource {
	logger := zerolog.Nop()
	if config.Logger != nil {
		logger = *config.Logger
	}
	return &cachingSource{source: source, store: store, ttl: config.TTL, logger: logger}
}

func (c *cachingSource) FetchRootForDate(ctx context.Context, date time.Time) (Stamp, error) {
	key := "stamp:" + date.UTC().Format(TimestampLayout)
	var stamp Stamp
	if c.load(ctx, key, &stamp) {
		return stamp, nil
	}

	stamp, err := c.source.FetchRootForDate(ctx, date)
	if err != nil {
		return Stamp{}, err
	}
	c.save(ctx, key, stamp)
	return stamp, nil
}

func (c *cachingSource) FetchPredictionForDate(
	ctx context.Context,
	questionID int64,
	timestamp string,
	predictionType hashing.PredictionType,
) (json.RawMessage, error) {
	key := fmt.Sprintf("prediction:%d:%s:%s", questionID, predictionType, timestamp)
	if cached, ok := c.loadRaw(ctx, key); ok {
		return json.RawMessage(cached), nil
	}

	value, err := c.source.FetchPredictionForDate(ctx, questionID, timestamp, predictionType)
	if err != nil {
		return nil, err
	}
	c.put(ctx, key, value)
	return value, nil
}

func (c *cachingSource) FetchAuditTrail(ctx context.Context, root hashing.Hash, leaf hashing.Hash) (proof.AuditTrail, error) {
	key := fmt.Sprintf("trail:%s:%s", root, leaf)
	if cached, ok := c.loadRaw(ctx, key); ok {
		trail, err := proof.ParseAuditTrail(cached)
		if err == nil {
			return trail, nil
		}
		c.logger.Warn().Err(err).Str("key", key).Msg("discarding unreadable cached audit trail")
	}

	trail, err := c.source.FetchAuditTrail(ctx, root, leaf)
	if err != nil {
		return proof.AuditTrail{}, err
	}
	c.save(ctx, key, trail)
	return trail, nil
}

func (c *cachingSource) load(ctx context.Context, key string, target any) bool {
	cached, ok := c.loadRaw(ctx, key)
	if !ok {
		return false
	}
	if err := json.Unmarshal(cached, target); err != nil {
		c.logger.Warn().Err(err).Str("key", key).Msg("discarding unreadable cache entry")
		return false
	}
	return true
}

func (c *cachingSource) loadRaw(ctx context.Context, key string) ([]byte, bool) {
	cached, ok, err := c.store.Get(ctx, key)
	if err != nil {
		c.logger.Warn().Err(err).Str("key", key).Msg("cache read failed")
		return nil, false
	}
	return cached, ok
}

func (c *cachingSource) save(ctx context.Context, key string, value any) {
	encoded, err := json.Marshal(value)
	if err != nil {
		c.logger.Warn().Err(err).Str("key", key).Msg("cache encode failed")
		return
	}
	c.put(ctx, key, encoded)
}

func (c *cachingSource) put(ctx context.Context, key string, value []byte) {
	if err := c.store.Put(ctx, key, value, c.ttl); err != nil {
		c.logger.Warn().Err(err).Str("key", key).Msg("cache write failed")
	}
}
