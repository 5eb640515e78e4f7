package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"

	"github.com/rohmanhakim/wikicurious/internal/cache"
	"github.com/rohmanhakim/wikicurious/internal/config"
	"github.com/rohmanhakim/wikicurious/internal/explore"
	"github.com/rohmanhakim/wikicurious/internal/fetcher"
	"github.com/rohmanhakim/wikicurious/internal/gateway"
	"github.com/rohmanhakim/wikicurious/internal/metadata"
	"github.com/rohmanhakim/wikicurious/internal/saved"
	"github.com/rohmanhakim/wikicurious/internal/storage"
	"github.com/rohmanhakim/wikicurious/internal/storage/kv"
	"github.com/rohmanhakim/wikicurious/internal/topic"
	"github.com/rohmanhakim/wikicurious/pkg/limiter"
	"github.com/rohmanhakim/wikicurious/pkg/retry"
	"github.com/rohmanhakim/wikicurious/pkg/timeutil"
	"github.com/spf13/cobra"
)

/*
app is the object graph every command runs against.

  - One limiter and one gateway per process.
  - Browsing goes through one summary cache, backed either by the
    in-process gateway or by a remote gateway when --gateway-url is set.
  - The saved list store is only opened by commands that need it.
*/
type app struct {
	cfg       config.Config
	logger    *slog.Logger
	recorder  *metadata.Recorder
	gateway   *gateway.Gateway
	source    topic.Source
	summaries *topic.SummaryCache
	store     kv.Store
	saved     *saved.Manager
	explorer  *explore.Explorer
	sink      storage.LocalSink
}

func newApp(ctx context.Context, cfg config.Config, logger *slog.Logger, withSaved bool) (*app, error) {
	recorder := metadata.NewRecorder("wikicurious", logger)

	rateLimiter := limiter.NewSlidingWindowLimiter(cfg.RateLimitCeiling(), cfg.RateLimitWindow())
	wikiFetcher := fetcher.NewWikiFetcher(recorder, rateLimiter, cfg.UserAgent())
	wikiFetcher.SetTimeout(cfg.Timeout())
	wikiFetcher.SetWaits(cfg.DefaultRetryAfter(), cfg.OverloadWait())

	endpoints := gateway.NewEndpoints(cfg.LegacyAPI(), cfg.RESTAPI(), cfg.Maxlag())
	retryParam := retry.NewRetryParam(
		cfg.Jitter(),
		cfg.RandomSeed(),
		cfg.MaxAttempt(),
		timeutil.NewBackoffParam(
			cfg.BackoffInitialDuration(),
			cfg.BackoffMultiplier(),
			cfg.BackoffMaxDuration(),
		),
	)
	gw := gateway.NewGateway(wikiFetcher, endpoints, retryParam, recorder)

	var source topic.Source = topic.NewGatewaySource(gw)
	if cfg.GatewayURL() != "" {
		endpoint, err := url.Parse(cfg.GatewayURL())
		if err != nil {
			return nil, fmt.Errorf("gateway url: %w", err)
		}
		source = topic.NewHTTPSource(*endpoint, nil)
	}

	entries, err := cache.New[topic.Summary](cfg.SummaryCacheSize())
	if err != nil {
		return nil, fmt.Errorf("summary cache: %w", err)
	}
	summaries := topic.NewSummaryCache(source, entries, recorder, cfg.BatchConcurrency())

	a := &app{
		cfg:       cfg,
		logger:    logger,
		recorder:  recorder,
		gateway:   gw,
		source:    source,
		summaries: summaries,
		sink:      storage.NewLocalSink(recorder),
	}

	var savedList explore.SavedList = emptySaved{}
	if withSaved {
		store, err := kv.Open(ctx, kv.Options{
			Backend:     cfg.StoreBackend(),
			Path:        cfg.StorePath(),
			RedisURL:    cfg.RedisURL(),
			RedisPrefix: cfg.RedisPrefix(),
		})
		if err != nil {
			return nil, fmt.Errorf("open %s store: %w", cfg.StoreBackend(), err)
		}
		a.store = store
		a.saved = saved.NewManager(store, cfg.StoreKey(), recorder, logger)
		savedList = a.saved
	}
	a.explorer = explore.NewExplorer(summaries, source, savedList, cfg.MaxSearchResults(), logger)
	return a, nil
}

func (a *app) Close() error {
	if a.store == nil {
		return nil
	}
	return a.store.Close()
}

// emptySaved stands in for the saved list in commands that never open the
// store.
type emptySaved struct{}

func (emptySaved) Titles(ctx context.Context) []string { return nil }

func (emptySaved) IsSaved(ctx context.Context, title string) bool { return false }

// runWithApp loads the config, builds the app and hands it to run. The
// store is closed when run returns.
func runWithApp(cmd *cobra.Command, withSaved bool, run func(ctx context.Context, a *app) error) error {
	cfg, err := InitConfigWithError()
	if err != nil {
		return err
	}
	logger := newLogger(cmd.ErrOrStderr(), cfg)

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	a, err := newApp(ctx, cfg, logger, withSaved)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := a.Close(); cerr != nil {
			logger.Warn("closing store failed", slog.String("error", cerr.Error()))
		}
	}()
	return run(ctx, a)
}
