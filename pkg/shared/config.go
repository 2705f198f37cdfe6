package shared

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/forecast-stamps/verifier-go/pkg/hashing"
)

const (
	DefaultHTTPTimeout = 30 * time.Second
	DefaultRetryMax    = 3
	DefaultCacheTTL    = 24 * time.Hour
)

// Config is the verifier configuration assembled from the environment.
type Config struct {
	BaseURL         string
	PredictionType  hashing.PredictionType
	APIKey          string
	HTTPTimeout     time.Duration
	RetryMax        uint64
	RedisAddr       string
	CacheTTL        time.Duration
	AnchorTopicID   string
	AnchorPublicKey string
	RequireAnchor   bool
	MirrorBaseURL   string
	Network         string
	LogLevel        zerolog.Level
}

// AnchorEnabled reports whether an anchor topic is configured.
func (c Config) AnchorEnabled() bool {
	return c.AnchorTopicID != ""
}

// ConfigFromEnv reads Config from the environment after loading the nearest
// .env file. Unset variables take their defaults; malformed ones are errors.
func ConfigFromEnv() (Config, error) {
	loadDotEnvIfPresent()

	config := Config{
		BaseURL:         envValue("VERIFIER_BASE_URL"),
		PredictionType:  hashing.PredictionCommunity,
		APIKey:          envValue("VERIFIER_API_KEY"),
		HTTPTimeout:     DefaultHTTPTimeout,
		RetryMax:        DefaultRetryMax,
		RedisAddr:       envValue("VERIFIER_REDIS_ADDR"),
		CacheTTL:        DefaultCacheTTL,
		AnchorTopicID:   envValue("VERIFIER_ANCHOR_TOPIC_ID"),
		AnchorPublicKey: envValue("VERIFIER_ANCHOR_PUBLIC_KEY"),
		MirrorBaseURL:   envValue("VERIFIER_MIRROR_BASE_URL"),
		LogLevel:        zerolog.WarnLevel,
	}

	if raw := envValue("VERIFIER_PREDICTION_TYPE"); raw != "" {
		predictionType, err := hashing.ParsePredictionType(raw)
		if err != nil {
			return Config{}, fmt.Errorf("VERIFIER_PREDICTION_TYPE: %w", err)
		}
		config.PredictionType = predictionType
	}

	network, err := NormalizeNetwork(envValue("HEDERA_NETWORK"))
	if err != nil {
		return Config{}, fmt.Errorf("HEDERA_NETWORK: %w", err)
	}
	config.Network = network

	if config.HTTPTimeout, err = envDuration("VERIFIER_HTTP_TIMEOUT", config.HTTPTimeout); err != nil {
		return Config{}, err
	}
	if config.CacheTTL, err = envDuration("VERIFIER_CACHE_TTL", config.CacheTTL); err != nil {
		return Config{}, err
	}

	if raw := envValue("VERIFIER_RETRY_MAX"); raw != "" {
		retries, parseErr := strconv.ParseUint(raw, 10, 32)
		if parseErr != nil {
			return Config{}, fmt.Errorf("VERIFIER_RETRY_MAX: must be a non-negative integer: %w", parseErr)
		}
		config.RetryMax = retries
	}

	if raw := envValue("VERIFIER_REQUIRE_ANCHOR"); raw != "" {
		required, parseErr := strconv.ParseBool(raw)
		if parseErr != nil {
			return Config{}, fmt.Errorf("VERIFIER_REQUIRE_ANCHOR: %w", parseErr)
		}
		config.RequireAnchor = required
	}

	if raw := envValue("VERIFIER_LOG_LEVEL"); raw != "" {
		level, parseErr := zerolog.ParseLevel(strings.ToLower(raw))
		if parseErr != nil {
			return Config{}, fmt.Errorf("VERIFIER_LOG_LEVEL: %w", parseErr)
		}
		config.LogLevel = level
	}

	return config, nil
}

func envValue(key string) string {
	return strings.TrimSpace(os.Getenv(key))
}

func envDuration(key string, fallback time.Duration) (time.Duration, error) {
	raw := envValue(key)
	if raw == "" {
		return fallback, nil
	}
	duration, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	if duration <= 0 {
		return 0, fmt.Errorf("%s: must be positive", key)
	}
	return duration, nil
}
