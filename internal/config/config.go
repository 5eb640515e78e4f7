package config

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/rohmanhakim/wikicurious/internal/storage/kv"
)

type Config struct {
	//===============
	// Upstream
	//===============
	// Legacy action API script, used for search
	legacyAPI url.URL
	// REST API root, used for summary and related
	restAPI url.URL
	// Replication lag in seconds above which the legacy API refuses requests
	maxlag int
	// User agent sent upstream. Wikimedia asks for a contact in it
	userAgent string
	// Maximum time of a single upstream request
	timeout time.Duration
	// When set, client commands go through a running gateway at this URL
	// instead of calling upstream in-process
	gatewayURL string

	//===============
	// Retry
	//===============
	// maximum attempts per request, the first included
	maxAttempt int
	// initial delay for backoff
	backoffInitialDuration time.Duration
	// multiplier during exponential backoff
	backoffMultiplier float64
	// capped maximum delay for backoff to stop exponential multiplication
	backoffMaxDuration time.Duration
	// Randomized variation added on top of each backoff delay
	jitter time.Duration
	// Controls the random number generator
	randomSeed int64
	// Wait after a 429 that carries no usable Retry-After
	defaultRetryAfter time.Duration
	// Wait after a maxlag refusal
	overloadWait time.Duration

	//===============
	// Outbound rate limit
	//===============
	rateLimitCeiling int
	rateLimitWindow  time.Duration

	//===============
	// Serve
	//===============
	listenAddr string
	// Requests per second per client on the public routes. Zero disables it
	inboundRate  float64
	inboundBurst int

	//===============
	// Browsing
	//===============
	// Concurrent summary fetches for batch lookups
	batchConcurrency int
	// Legacy search hits resolved into summaries
	maxSearchResults int
	// Summary cache capacity. Zero keeps every entry for the process lifetime
	summaryCacheSize int

	//===============
	// Saved list store
	//===============
	storeBackend kv.Backend
	storePath    string
	storeKey     string
	redisURL     string
	redisPrefix  string

	//===============
	// Output
	//===============
	// Directory receiving exports
	outputDir string

	//===============
	// Logging
	//===============
	logLevel  slog.Level
	logFormat string

	// first error met while applying a file or environment overlay
	err error
}

// Duration accepts either a Go duration string ("1.5s") or nanoseconds.
type Duration time.Duration

func (d *Duration) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		parsed, err := time.ParseDuration(s)
		if err != nil {
			return err
		}
		*d = Duration(parsed)
		return nil
	}
	var n int64
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("duration must be a string or an integer: %s", string(data))
	}
	*d = Duration(n)
	return nil
}

type configDTO struct {
	LegacyAPI              string   `json:"legacyApi,omitempty"`
	RESTAPI                string   `json:"restApi,omitempty"`
	Maxlag                 int      `json:"maxlag,omitempty"`
	UserAgent              string   `json:"userAgent,omitempty"`
	Timeout                Duration `json:"timeout,omitempty"`
	GatewayURL             string   `json:"gatewayUrl,omitempty"`
	MaxAttempt             int      `json:"maxAttempt,omitempty"`
	BackoffInitialDuration Duration `json:"backoffInitialDuration,omitempty"`
	BackoffMultiplier      float64  `json:"backoffMultiplier,omitempty"`
	BackoffMaxDuration     Duration `json:"backoffMaxDuration,omitempty"`
	Jitter                 Duration `json:"jitter,omitempty"`
	RandomSeed             int64    `json:"randomSeed,omitempty"`
	DefaultRetryAfter      Duration `json:"defaultRetryAfter,omitempty"`
	OverloadWait           Duration `json:"overloadWait,omitempty"`
	RateLimitCeiling       int      `json:"rateLimitCeiling,omitempty"`
	RateLimitWindow        Duration `json:"rateLimitWindow,omitempty"`
	ListenAddr             string   `json:"listenAddr,omitempty"`
	InboundRate            float64  `json:"inboundRate,omitempty"`
	InboundBurst           int      `json:"inboundBurst,omitempty"`
	BatchConcurrency       int      `json:"batchConcurrency,omitempty"`
	MaxSearchResults       int      `json:"maxSearchResults,omitempty"`
	SummaryCacheSize       int      `json:"summaryCacheSize,omitempty"`
	StoreBackend           string   `json:"storeBackend,omitempty"`
	StorePath              string   `json:"storePath,omitempty"`
	StoreKey               string   `json:"storeKey,omitempty"`
	RedisURL               string   `json:"redisUrl,omitempty"`
	RedisPrefix            string   `json:"redisPrefix,omitempty"`
	OutputDir              string   `json:"outputDir,omitempty"`
	LogLevel               string   `json:"logLevel,omitempty"`
	LogFormat              string   `json:"logFormat,omitempty"`
}

// apply overrides only the fields the file actually set.
func (c *Config) apply(dto configDTO) {
	if dto.LegacyAPI != "" {
		c.setURL(&c.legacyAPI, "legacyApi", dto.LegacyAPI)
	}
	if dto.RESTAPI != "" {
		c.setURL(&c.restAPI, "restApi", dto.RESTAPI)
	}
	if dto.Maxlag != 0 {
		c.maxlag = dto.Maxlag
	}
	if dto.UserAgent != "" {
		c.userAgent = dto.UserAgent
	}
	if dto.Timeout != 0 {
		c.timeout = time.Duration(dto.Timeout)
	}
	if dto.GatewayURL != "" {
		c.gatewayURL = dto.GatewayURL
	}
	if dto.MaxAttempt != 0 {
		c.maxAttempt = dto.MaxAttempt
	}
	if dto.BackoffInitialDuration != 0 {
		c.backoffInitialDuration = time.Duration(dto.BackoffInitialDuration)
	}
	if dto.BackoffMultiplier != 0 {
		c.backoffMultiplier = dto.BackoffMultiplier
	}
	if dto.BackoffMaxDuration != 0 {
		c.backoffMaxDuration = time.Duration(dto.BackoffMaxDuration)
	}
	if dto.Jitter != 0 {
		c.jitter = time.Duration(dto.Jitter)
	}
	if dto.RandomSeed != 0 {
		c.randomSeed = dto.RandomSeed
	}
	if dto.DefaultRetryAfter != 0 {
		c.defaultRetryAfter = time.Duration(dto.DefaultRetryAfter)
	}
	if dto.OverloadWait != 0 {
		c.overloadWait = time.Duration(dto.OverloadWait)
	}
	if dto.RateLimitCeiling != 0 {
		c.rateLimitCeiling = dto.RateLimitCeiling
	}
	if dto.RateLimitWindow != 0 {
		c.rateLimitWindow = time.Duration(dto.RateLimitWindow)
	}
	if dto.ListenAddr != "" {
		c.listenAddr = dto.ListenAddr
	}
	if dto.InboundRate != 0 {
		c.inboundRate = dto.InboundRate
	}
	if dto.InboundBurst != 0 {
		c.inboundBurst = dto.InboundBurst
	}
	if dto.BatchConcurrency != 0 {
		c.batchConcurrency = dto.BatchConcurrency
	}
	if dto.MaxSearchResults != 0 {
		c.maxSearchResults = dto.MaxSearchResults
	}
	if dto.SummaryCacheSize != 0 {
		c.summaryCacheSize = dto.SummaryCacheSize
	}
	if dto.StoreBackend != "" {
		c.storeBackend = kv.Backend(dto.StoreBackend)
	}
	if dto.StorePath != "" {
		c.storePath = dto.StorePath
	}
	if dto.StoreKey != "" {
		c.storeKey = dto.StoreKey
	}
	if dto.RedisURL != "" {
		c.redisURL = dto.RedisURL
	}
	if dto.RedisPrefix != "" {
		c.redisPrefix = dto.RedisPrefix
	}
	if dto.OutputDir != "" {
		c.outputDir = dto.OutputDir
	}
	if dto.LogLevel != "" {
		c.setLogLevel(dto.LogLevel)
	}
	if dto.LogFormat != "" {
		c.logFormat = dto.LogFormat
	}
}

// WithConfigFile loads a JSON config file over the defaults.
func WithConfigFile(path string) (Config, error) {
	return WithDefault().LoadFile(path).Build()
}

// LoadFile overlays a JSON config file. Fields absent from the file keep
// their current value. Failures surface from Build.
func (c *Config) LoadFile(path string) *Config {
	_, err := os.Stat(path)
	if err != nil {
		c.fail(fmt.Errorf("%w: %s", ErrFileDoesNotExist, err.Error()))
		return c
	}
	configContent, err := os.ReadFile(path)
	if err != nil {
		c.fail(fmt.Errorf("%w: %s", ErrReadConfigFail, err.Error()))
		return c
	}
	cfgDTO := configDTO{}

	err = json.Unmarshal(configContent, &cfgDTO)
	if err != nil {
		c.fail(fmt.Errorf("%w: %s", ErrConfigParsingFail, err.Error()))
		return c
	}

	c.apply(cfgDTO)
	return c
}

// WithDefault creates a Config holding the default value of every field.
func WithDefault() *Config {
	defaultConfig := Config{
		legacyAPI:              mustParseURL("https://en.wikipedia.org/w/api.php"),
		restAPI:                mustParseURL("https://en.wikipedia.org/api/rest_v1"),
		maxlag:                 5,
		userAgent:              "wikicurious/1.0 (https://github.com/rohmanhakim/wikicurious)",
		timeout:                0,
		maxAttempt:             3,
		backoffInitialDuration: time.Second,
		backoffMultiplier:      2.0,
		backoffMaxDuration:     10 * time.Second,
		jitter:                 0,
		randomSeed:             time.Now().UnixNano(),
		defaultRetryAfter:      5 * time.Second,
		overloadWait:           5 * time.Second,
		rateLimitCeiling:       50,
		rateLimitWindow:        time.Second,
		listenAddr:             ":8080",
		inboundRate:            0,
		inboundBurst:           20,
		batchConcurrency:       8,
		maxSearchResults:       6,
		summaryCacheSize:       0,
		storeBackend:           kv.BackendFile,
		storePath:              "wikicurious-store.json",
		storeKey:               "savedArticles",
		redisURL:               "redis://localhost:6379/0",
		redisPrefix:            "wikicurious:",
		outputDir:              "output",
		logLevel:               slog.LevelInfo,
		logFormat:              "text",
	}
	return &defaultConfig
}

func mustParseURL(raw string) url.URL {
	u, err := url.Parse(raw)
	if err != nil {
		panic(err)
	}
	return *u
}

func (c *Config) setURL(target *url.URL, field string, raw string) {
	u, err := url.Parse(raw)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		c.fail(fmt.Errorf("%w: %s must be an absolute http(s) URL, got %q", ErrInvalidConfig, field, raw))
		return
	}
	*target = *u
}

func (c *Config) setLogLevel(raw string) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(raw)); err != nil {
		c.fail(fmt.Errorf("%w: logLevel %q", ErrInvalidConfig, raw))
		return
	}
	c.logLevel = level
}

func (c *Config) fail(err error) {
	if c.err == nil {
		c.err = err
	}
}

func (c *Config) WithLegacyAPI(raw string) *Config {
	c.setURL(&c.legacyAPI, "legacyApi", raw)
	return c
}

func (c *Config) WithRESTAPI(raw string) *Config {
	c.setURL(&c.restAPI, "restApi", raw)
	return c
}

func (c *Config) WithMaxlag(seconds int) *Config {
	c.maxlag = seconds
	return c
}

func (c *Config) WithUserAgent(agent string) *Config {
	c.userAgent = agent
	return c
}

func (c *Config) WithTimeout(timeout time.Duration) *Config {
	c.timeout = timeout
	return c
}

func (c *Config) WithGatewayURL(raw string) *Config {
	c.gatewayURL = raw
	return c
}

func (c *Config) WithMaxAttempt(attempts int) *Config {
	c.maxAttempt = attempts
	return c
}

func (c *Config) WithBackoffInitialDuration(duration time.Duration) *Config {
	c.backoffInitialDuration = duration
	return c
}

func (c *Config) WithBackoffMultiplier(multiplier float64) *Config {
	c.backoffMultiplier = multiplier
	return c
}

func (c *Config) WithBackoffMaxDuration(duration time.Duration) *Config {
	c.backoffMaxDuration = duration
	return c
}

func (c *Config) WithJitter(jitter time.Duration) *Config {
	c.jitter = jitter
	return c
}

func (c *Config) WithRandomSeed(seed int64) *Config {
	c.randomSeed = seed
	return c
}

func (c *Config) WithDefaultRetryAfter(wait time.Duration) *Config {
	c.defaultRetryAfter = wait
	return c
}

func (c *Config) WithOverloadWait(wait time.Duration) *Config {
	c.overloadWait = wait
	return c
}

func (c *Config) WithRateLimit(ceiling int, window time.Duration) *Config {
	c.rateLimitCeiling = ceiling
	c.rateLimitWindow = window
	return c
}

func (c *Config) WithListenAddr(addr string) *Config {
	c.listenAddr = addr
	return c
}

func (c *Config) WithInboundRate(perSecond float64, burst int) *Config {
	c.inboundRate = perSecond
	c.inboundBurst = burst
	return c
}

func (c *Config) WithBatchConcurrency(n int) *Config {
	c.batchConcurrency = n
	return c
}

func (c *Config) WithMaxSearchResults(n int) *Config {
	c.maxSearchResults = n
	return c
}

func (c *Config) WithSummaryCacheSize(n int) *Config {
	c.summaryCacheSize = n
	return c
}

func (c *Config) WithStoreBackend(backend string) *Config {
	c.storeBackend = kv.Backend(backend)
	return c
}

func (c *Config) WithStorePath(path string) *Config {
	c.storePath = path
	return c
}

func (c *Config) WithStoreKey(key string) *Config {
	c.storeKey = key
	return c
}

func (c *Config) WithRedisURL(raw string) *Config {
	c.redisURL = raw
	return c
}

func (c *Config) WithRedisPrefix(prefix string) *Config {
	c.redisPrefix = prefix
	return c
}

func (c *Config) WithOutputDir(outputDir string) *Config {
	c.outputDir = outputDir
	return c
}

func (c *Config) WithLogLevel(level string) *Config {
	c.setLogLevel(level)
	return c
}

func (c *Config) WithLogFormat(format string) *Config {
	c.logFormat = format
	return c
}

func (c *Config) Build() (Config, error) {
	if c.err != nil {
		return Config{}, c.err
	}
	var problems []string
	if c.maxAttempt < 1 {
		problems = append(problems, "maxAttempt must be at least 1")
	}
	if c.backoffMultiplier < 1 {
		problems = append(problems, "backoffMultiplier must be at least 1")
	}
	if c.rateLimitCeiling < 1 || c.rateLimitWindow <= 0 {
		problems = append(problems, "rate limit needs a positive ceiling and window")
	}
	if c.maxlag < 0 {
		problems = append(problems, "maxlag cannot be negative")
	}
	if c.inboundRate < 0 {
		problems = append(problems, "inboundRate cannot be negative")
	}
	if c.summaryCacheSize < 0 {
		problems = append(problems, "summaryCacheSize cannot be negative")
	}
	if _, ok := kv.ParseBackend(string(c.storeBackend)); !ok {
		problems = append(problems, fmt.Sprintf("storeBackend %q is not one of file, sqlite, redis", c.storeBackend))
	}
	if c.storeBackend != kv.BackendRedis && strings.TrimSpace(c.storePath) == "" {
		problems = append(problems, "storePath is required for file and sqlite stores")
	}
	if c.logFormat != "text" && c.logFormat != "json" {
		problems = append(problems, fmt.Sprintf("logFormat %q is not one of text, json", c.logFormat))
	}
	if c.gatewayURL != "" {
		if u, err := url.Parse(c.gatewayURL); err != nil || u.Host == "" {
			problems = append(problems, fmt.Sprintf("gatewayUrl %q is not an absolute URL", c.gatewayURL))
		}
	}
	if len(problems) > 0 {
		return Config{}, fmt.Errorf("%w: %s", ErrInvalidConfig, strings.Join(problems, "; "))
	}
	return *c, nil
}

func (c Config) LegacyAPI() url.URL {
	return c.legacyAPI
}

func (c Config) RESTAPI() url.URL {
	return c.restAPI
}

func (c Config) Maxlag() int {
	return c.maxlag
}

func (c Config) UserAgent() string {
	return c.userAgent
}

func (c Config) Timeout() time.Duration {
	return c.timeout
}

func (c Config) GatewayURL() string {
	return c.gatewayURL
}

func (c Config) MaxAttempt() int {
	return c.maxAttempt
}

func (c Config) BackoffInitialDuration() time.Duration {
	return c.backoffInitialDuration
}

func (c Config) BackoffMultiplier() float64 {
	return c.backoffMultiplier
}

func (c Config) BackoffMaxDuration() time.Duration {
	return c.backoffMaxDuration
}

func (c Config) Jitter() time.Duration {
	return c.jitter
}

func (c Config) RandomSeed() int64 {
	return c.randomSeed
}

func (c Config) DefaultRetryAfter() time.Duration {
	return c.defaultRetryAfter
}

func (c Config) OverloadWait() time.Duration {
	return c.overloadWait
}

func (c Config) RateLimitCeiling() int {
	return c.rateLimitCeiling
}

func (c Config) RateLimitWindow() time.Duration {
	return c.rateLimitWindow
}

func (c Config) ListenAddr() string {
	return c.listenAddr
}

func (c Config) InboundRate() float64 {
	return c.inboundRate
}

func (c Config) InboundBurst() int {
	return c.inboundBurst
}

func (c Config) BatchConcurrency() int {
	return c.batchConcurrency
}

func (c Config) MaxSearchResults() int {
	return c.maxSearchResults
}

func (c Config) SummaryCacheSize() int {
	return c.summaryCacheSize
}

func (c Config) StoreBackend() kv.Backend {
	return c.storeBackend
}

func (c Config) StorePath() string {
	return c.storePath
}

func (c Config) StoreKey() string {
	return c.storeKey
}

func (c Config) RedisURL() string {
	return c.redisURL
}

func (c Config) RedisPrefix() string {
	return c.redisPrefix
}

func (c Config) OutputDir() string {
	return c.outputDir
}

func (c Config) LogLevel() slog.Level {
	return c.logLevel
}

func (c Config) LogFormat() string {
	return c.logFormat
}
