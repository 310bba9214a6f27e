package main

import (
	"context"
	"fmt"
	"os"

	"github.com/jonathan/jobhunt-tracker/internal/cache"
	"github.com/jonathan/jobhunt-tracker/internal/config"
	"github.com/jonathan/jobhunt-tracker/internal/db"
	"github.com/jonathan/jobhunt-tracker/internal/fetch"
	"github.com/jonathan/jobhunt-tracker/internal/gateway"
	"github.com/jonathan/jobhunt-tracker/internal/llm"
	"github.com/jonathan/jobhunt-tracker/internal/logging"
	"github.com/jonathan/jobhunt-tracker/internal/server"
	"github.com/spf13/cobra"
)

var (
	servePort int
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the REST API server",
	Long:  `Start an HTTP server that exposes the company tracker, schedule and drafting endpoints.`,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "Port to listen on (defaults to PORT or 8080)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if servePort != 0 {
		cfg.Port = servePort
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	if err := cfg.RequireServe(); err != nil {
		return err
	}

	log, err := logging.New(logging.Config{Level: cfg.LogLevel})
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	ctx := cmd.Context()

	store, err := db.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer store.Close()

	gw, closeGateway, err := buildGateway(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer closeGateway()

	auth, err := config.NewAuthConfig()
	if err != nil {
		return fmt.Errorf("failed to load auth config: %w", err)
	}

	log.Info("starting jobhunt",
		logging.Int("port", cfg.Port),
		logging.Bool("use_browser", cfg.UseBrowser),
		logging.Bool("lookup_cache", cfg.RedisURL != ""),
	)

	srv, err := server.New(server.Config{
		Port:    cfg.Port,
		Store:   store,
		Gateway: gw,
		Auth:    auth,
		Logger:  log,
	})
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	return srv.Start()
}

// buildGateway wires the model client, page fetcher, prober and optional
// Redis cache. The returned func releases the cache connection.
func buildGateway(ctx context.Context, cfg config.Config, log logging.Logger) (*gateway.Gateway, func(), error) {
	client, err := llm.NewClient(ctx, llm.ConfigFromEnv(os.Getenv), cfg.APIKey)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create LLM client: %w", err)
	}

	fetcher := fetch.NewPageFetcher(log)
	fetcher.Options.Timeout = cfg.FetchTimeout.Std()
	if cfg.UseBrowser {
		fetcher.Render = fetch.ChromeRenderer(fetch.DefaultBrowserTimeout, log)
	}

	opts := []gateway.Option{
		gateway.WithLogger(log),
		gateway.WithFetcher(fetcher),
		gateway.WithProber(fetch.NewProber(cfg.ProbeTimeout.Std())),
	}

	closer := func() {}
	if cfg.RedisURL != "" {
		c, err := cache.NewRedis(cfg.RedisURL)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to connect to redis: %w", err)
		}
		opts = append(opts, gateway.WithCache(c, cfg.LookupCacheTTL.Std()))
		closer = func() {
			if err := c.Close(); err != nil {
				log.Warn("failed to close cache", logging.Err(err))
			}
		}
	} else {
		log.Info("REDIS_URL not set, company lookups are not cached")
	}

	return gateway.New(client, opts...), closer, nil
}
