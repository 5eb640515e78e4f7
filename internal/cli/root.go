package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/rohmanhakim/wikicurious/internal/config"
	"github.com/spf13/cobra"
)

var (
	cfgFile      string
	gatewayURL   string
	storeBackend string
	storePath    string
	redisURL     string
	userAgent    string
	logLevel     string
	logFormat    string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "wikicurious",
	Short: "Explore Wikipedia topics from the terminal.",
	Long: `wikicurious is a small Wikipedia explorer. It serves a cached,
rate-limited gateway over the Wikipedia APIs and browses article summaries,
related pages, curated journeys and a saved reading list.

Every browsing command goes through the same summary cache and upstream
rate limit, either in-process or against a running "wikicurious serve".`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config-file", "", "config file path (e.g., /home/myuser/wikicurious.json)")
	rootCmd.PersistentFlags().StringVar(&gatewayURL, "gateway-url", "", "use a running gateway (e.g., http://localhost:8080/api/wikipedia) instead of an in-process one")
	rootCmd.PersistentFlags().StringVar(&storeBackend, "store", "", "saved list backend: file, sqlite or redis")
	rootCmd.PersistentFlags().StringVar(&storePath, "store-path", "", "store file for the file and sqlite backends")
	rootCmd.PersistentFlags().StringVar(&redisURL, "redis-url", "", "redis URL for the redis backend")
	rootCmd.PersistentFlags().StringVar(&userAgent, "user-agent", "", "user agent string for Wikipedia requests")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level: debug, info, warn or error")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "", "log format: text or json")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(summaryCmd)
	rootCmd.AddCommand(relatedCmd)
	rootCmd.AddCommand(searchCmd)
	rootCmd.AddCommand(articleCmd)
	rootCmd.AddCommand(journeyCmd)
	rootCmd.AddCommand(saveCmd)
	rootCmd.AddCommand(savedCmd)
	rootCmd.AddCommand(versionCmd)
}

// RootCommand exposes the command tree so tests can drive it end to end.
func RootCommand() *cobra.Command {
	return rootCmd
}

// InitConfigWithError layers the config sources in order: defaults, the
// config file, WIKICURIOUS_* environment variables, then CLI flags.
func InitConfigWithError() (config.Config, error) {
	configBuilder := config.WithDefault()

	if cfgFile != "" {
		configBuilder = configBuilder.LoadFile(cfgFile)
	}

	configBuilder = configBuilder.WithEnv(nil)

	// Override with CLI flag values where provided
	if gatewayURL != "" {
		configBuilder = configBuilder.WithGatewayURL(gatewayURL)
	}

	if storeBackend != "" {
		configBuilder = configBuilder.WithStoreBackend(storeBackend)
	}

	if storePath != "" {
		configBuilder = configBuilder.WithStorePath(storePath)
	}

	if redisURL != "" {
		configBuilder = configBuilder.WithRedisURL(redisURL)
	}

	if userAgent != "" {
		configBuilder = configBuilder.WithUserAgent(userAgent)
	}

	if logLevel != "" {
		configBuilder = configBuilder.WithLogLevel(logLevel)
	}

	if logFormat != "" {
		configBuilder = configBuilder.WithLogFormat(logFormat)
	}

	if listenAddr != "" {
		configBuilder = configBuilder.WithListenAddr(listenAddr)
	}

	if inboundRate > 0 {
		burst := inboundBurst
		if burst <= 0 {
			burst = configBuilder.InboundBurst()
		}
		configBuilder = configBuilder.WithInboundRate(inboundRate, burst)
	}

	if exportOutputDir != "" {
		configBuilder = configBuilder.WithOutputDir(exportOutputDir)
	}

	cfg, err := configBuilder.Build()
	if err != nil {
		return config.Config{}, fmt.Errorf("error initializing config: %w", err)
	}
	return cfg, nil
}

func newLogger(w io.Writer, cfg config.Config) *slog.Logger {
	opts := &slog.HandlerOptions{Level: cfg.LogLevel()}
	if cfg.LogFormat() == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

func ResetFlags() {
	cfgFile = ""
	gatewayURL = ""
	storeBackend = ""
	storePath = ""
	redisURL = ""
	userAgent = ""
	logLevel = ""
	logFormat = ""
	listenAddr = ""
	inboundRate = 0
	inboundBurst = 0
	exportOutputDir = ""
	exportFormat = formatMarkdown
	exportRich = false
	searchRaw = false
}

// Test helper functions to set flag values from tests
func SetConfigFileForTest(path string) {
	cfgFile = path
}

func SetGatewayURLForTest(raw string) {
	gatewayURL = raw
}

func SetStoreBackendForTest(backend string) {
	storeBackend = backend
}

func SetStorePathForTest(path string) {
	storePath = path
}

func SetRedisURLForTest(raw string) {
	redisURL = raw
}

func SetUserAgentForTest(agent string) {
	userAgent = agent
}

func SetLogLevelForTest(level string) {
	logLevel = level
}

func SetLogFormatForTest(format string) {
	logFormat = format
}

func SetListenAddrForTest(addr string) {
	listenAddr = addr
}

func SetInboundRateForTest(perSecond float64, burst int) {
	inboundRate = perSecond
	inboundBurst = burst
}

func SetOutputDirForTest(dir string) {
	exportOutputDir = dir
}
