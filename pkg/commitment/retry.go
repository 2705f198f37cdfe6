package commitment

import (
	"context"
	"encoding/json"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/rs/zerolog"

	"github.com/forecast-stamps/verifier-go/pkg/hashing"
	"github.com/forecast-stamps/verifier-go/pkg/proof"
)

const (
	DefaultMaxRetries      = 3
	defaultInitialInterval = 250 * time.Millisecond
	defaultMaxInterval     = 5 * time.Second
)

type RetryConfig struct {
	MaxRetries      uint64
	InitialInterval time.Duration
	MaxInterval     time.Duration
	Logger          *zerolog.Logger
}

type retryingSource struct {
	source CommitmentSource
	config RetryConfig
	logger zerolog.Logger
}

// WithRetry retries transient transport failures of source with exponential
// backoff. Any other error is returned on first occurrence.
func WithRetry(source CommitmentSource, config RetryConfig) CommitmentSource {
	if config.MaxRetries == 0 {
		config.MaxRetries = DefaultMaxRetries
	}
	if config.InitialInterval <= 0 {
		config.InitialInterval = defaultInitialInterval
	}
	if config.MaxInterval <= 0 {
		config.MaxInterval = defaultMaxInterval
	}
	logger := zerolog.Nop()
	if config.Logger != nil {
		logger = *config.Logger
	}
	return &retryingSource{source: source, config: config, logger: logger}
}

func (r *retryingSource) FetchRootForDate(ctx context.Context, date time.Time) (Stamp, error) {
	var stamp Stamp
	err := r.retry(ctx, "stamp", func() error {
		var err error
		stamp, err = r.source.FetchRootForDate(ctx, date)
		return err
	})
	return stamp, err
}

func (r *retryingSource) FetchPredictionForDate(
	ctx context.Context,
	questionID int64,
	timestamp string,
	predictionType hashing.PredictionType,
) (json.RawMessage, error) {
	var value json.RawMessage
	err := r.retry(ctx, "prediction", func() error {
		var err error
		value, err = r.source.FetchPredictionForDate(ctx, questionID, timestamp, predictionType)
		return err
	})
	return value, err
}

func (r *retryingSource) FetchAuditTrail(ctx context.Context, root hashing.Hash, leaf hashing.Hash) (proof.AuditTrail, error) {
	var trail proof.AuditTrail
	err := r.retry(ctx, "audit_trail", func() error {
		var err error
		trail, err = r.source.FetchAuditTrail(ctx, root, leaf)
		return err
	})
	return trail, err
}

func (r *retryingSource) retry(ctx context.Context, operation string, call func() error) error {
	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = r.config.InitialInterval
	policy.MaxInterval = r.config.MaxInterval
	policy.MaxElapsedTime = 0

	var strategy backoff.BackOff = backoff.WithMaxRetries(policy, r.config.MaxRetries)
	strategy = backoff.WithContext(strategy, ctx)

	return backoff.RetryNotify(
		func() error {
			err := call()
			if err == nil {
				return nil
			}
			if !IsRetryable(err) {
				return backoff.Permanent(err)
			}
			return err
		},
		strategy,
		func(err error, wait time.Duration) {
			r.logger.Warn().Err(err).Str("operation", operation).Dur("wait", wait).Msg("retrying commitment request")
		},
	)
}
