package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// EnvPrefix namespaces every environment variable the config reads.
const EnvPrefix = "WIKICURIOUS_"

// envDTO mirrors the overridable fields. Pointers stay nil for unset
// variables so defaults and file values survive.
type envDTO struct {
	LegacyAPI              *string        `env:"LEGACY_API"`
	RESTAPI                *string        `env:"REST_API"`
	Maxlag                 *int           `env:"MAXLAG"`
	UserAgent              *string        `env:"USER_AGENT"`
	Timeout                *time.Duration `env:"TIMEOUT"`
	GatewayURL             *string        `env:"GATEWAY_URL"`
	MaxAttempt             *int           `env:"MAX_ATTEMPT"`
	BackoffInitialDuration *time.Duration `env:"BACKOFF_INITIAL"`
	BackoffMultiplier      *float64       `env:"BACKOFF_MULTIPLIER"`
	BackoffMaxDuration     *time.Duration `env:"BACKOFF_MAX"`
	Jitter                 *time.Duration `env:"JITTER"`
	DefaultRetryAfter      *time.Duration `env:"DEFAULT_RETRY_AFTER"`
	OverloadWait           *time.Duration `env:"OVERLOAD_WAIT"`
	RateLimitCeiling       *int           `env:"RATE_LIMIT_CEILING"`
	RateLimitWindow        *time.Duration `env:"RATE_LIMIT_WINDOW"`
	ListenAddr             *string        `env:"LISTEN"`
	InboundRate            *float64       `env:"INBOUND_RATE"`
	InboundBurst           *int           `env:"INBOUND_BURST"`
	BatchConcurrency       *int           `env:"BATCH_CONCURRENCY"`
	MaxSearchResults       *int           `env:"MAX_SEARCH_RESULTS"`
	SummaryCacheSize       *int           `env:"SUMMARY_CACHE_SIZE"`
	StoreBackend           *string        `env:"STORE"`
	StorePath              *string        `env:"STORE_PATH"`
	StoreKey               *string        `env:"STORE_KEY"`
	RedisURL               *string        `env:"REDIS_URL"`
	RedisPrefix            *string        `env:"REDIS_PREFIX"`
	OutputDir              *string        `env:"OUTPUT_DIR"`
	LogLevel               *string        `env:"LOG_LEVEL"`
	LogFormat              *string        `env:"LOG_FORMAT"`
}

// WithEnv overlays WIKICURIOUS_* variables. A nil environment reads the
// process environment. Parse failures surface from Build.
func (c *Config) WithEnv(environment map[string]string) *Config {
	var dto envDTO
	opts := env.Options{Prefix: EnvPrefix}
	if environment != nil {
		opts.Environment = environment
	}
	if err := env.ParseWithOptions(&dto, opts); err != nil {
		c.fail(fmt.Errorf("%w: %s", ErrEnvParsingFail, err.Error()))
		return c
	}

	if dto.LegacyAPI != nil {
		c.setURL(&c.legacyAPI, EnvPrefix+"LEGACY_API", *dto.LegacyAPI)
	}
	if dto.RESTAPI != nil {
		c.setURL(&c.restAPI, EnvPrefix+"REST_API", *dto.RESTAPI)
	}
	setIf(&c.maxlag, dto.Maxlag)
	setIf(&c.userAgent, dto.UserAgent)
	setIf(&c.timeout, dto.Timeout)
	setIf(&c.gatewayURL, dto.GatewayURL)
	setIf(&c.maxAttempt, dto.MaxAttempt)
	setIf(&c.backoffInitialDuration, dto.BackoffInitialDuration)
	setIf(&c.backoffMultiplier, dto.BackoffMultiplier)
	setIf(&c.backoffMaxDuration, dto.BackoffMaxDuration)
	setIf(&c.jitter, dto.Jitter)
	setIf(&c.defaultRetryAfter, dto.DefaultRetryAfter)
	setIf(&c.overloadWait, dto.OverloadWait)
	setIf(&c.rateLimitCeiling, dto.RateLimitCeiling)
	setIf(&c.rateLimitWindow, dto.RateLimitWindow)
	setIf(&c.listenAddr, dto.ListenAddr)
	setIf(&c.inboundRate, dto.InboundRate)
	setIf(&c.inboundBurst, dto.InboundBurst)
	setIf(&c.batchConcurrency, dto.BatchConcurrency)
	setIf(&c.maxSearchResults, dto.MaxSearchResults)
	setIf(&c.summaryCacheSize, dto.SummaryCacheSize)
	if dto.StoreBackend != nil {
		c.WithStoreBackend(*dto.StoreBackend)
	}
	setIf(&c.storePath, dto.StorePath)
	setIf(&c.storeKey, dto.StoreKey)
	setIf(&c.redisURL, dto.RedisURL)
	setIf(&c.redisPrefix, dto.RedisPrefix)
	setIf(&c.outputDir, dto.OutputDir)
	if dto.LogLevel != nil {
		c.setLogLevel(*dto.LogLevel)
	}
	setIf(&c.logFormat, dto.LogFormat)
	return c
}

func setIf[T any](target *T, value *T) {
	if value != nil {
		*target = *value
	}
}
