// Catalog-server is a reference implementation of the product catalog API.
//
// It serves the /products REST contract from an in-memory or SQLite store,
// publishes every change on a websocket feed, and can announce itself over
// mDNS so clients on the local network find it without configuration.
//
// Usage:
//
//	catalog-server serve [flags]
//
// Every flag can also be set through a CATALOG_* environment variable.
// See 'catalog-server serve --help' for available options.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/muurk/catalog/internal/discovery"
	"github.com/muurk/catalog/internal/logging"
	"github.com/muurk/catalog/internal/server"
	"github.com/muurk/catalog/internal/store"
	"github.com/muurk/catalog/internal/version"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "catalog-server",
	Short: "Product Catalog API Server",
	Long: `A standalone server for the product catalog REST API.

Serves GET/POST /products, GET/PUT/DELETE /products/{id},
GET /products/search?name= and a websocket change feed at /products/events.

Note: For browsing and editing products, use the 'catalog' client.`,
	Version:       version.Version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(versionCmd)
}

// v holds the serve configuration: defaults, CATALOG_* environment, flags
var v = viper.New()

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the product API server",
	Long: `Start the product API server.

Products live in memory unless --store names a SQLite database file. The
demo collection is loaded into an empty store with --seed. With --advertise
the server registers a _catalog._tcp mDNS service that 'catalog scan' finds.

Every flag has an environment variable: --port is CATALOG_PORT,
--tls-cert is CATALOG_TLS_CERT, and so on.`,
	Example: `  # In-memory store with demo data
  catalog-server serve --seed

  # Persistent store, announced on the local network
  catalog-server serve --store ./catalog.db --advertise --instance office

  # HTTPS with JSON logs
  catalog-server serve --tls-cert cert.pem --tls-key key.pem --log-format json

  # Configure through the environment
  CATALOG_PORT=8080 CATALOG_STORE=/var/lib/catalog.db catalog-server serve`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	flags := serveCmd.Flags()
	flags.String("host", "", "Listen address (empty = all interfaces)")
	flags.Int("port", 3000, "Listen port")
	flags.String("store", "memory", `Product store: "memory" or a SQLite database path`)
	flags.Bool("seed", false, "Load demo products into an empty store")
	flags.String("tls-cert", "", "TLS certificate file (serves HTTPS together with --tls-key)")
	flags.String("tls-key", "", "TLS private key file")
	flags.Bool("advertise", false, "Announce the server over mDNS")
	flags.String("instance", "catalog", "mDNS instance name")
	flags.String("log-level", "info", "Log level (debug, info, warn, error)")
	flags.String("log-format", "console", "Log format (console, json)")
	flags.String("shutdown-timeout", "10s", "Grace period for in-flight requests on shutdown")

	for key, flag := range map[string]string{
		"host":             "host",
		"port":             "port",
		"store":            "store",
		"seed":             "seed",
		"tls_cert":         "tls-cert",
		"tls_key":          "tls-key",
		"advertise":        "advertise",
		"instance":         "instance",
		"log_level":        "log-level",
		"log_format":       "log-format",
		"shutdown_timeout": "shutdown-timeout",
	} {
		_ = v.BindPFlag(key, flags.Lookup(flag))
	}
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := server.LoadConfig(v)
	if err != nil {
		return err
	}

	if err := logging.InitializeWithOptions(logging.Options{
		Level:      cfg.LogLevel,
		OutputPath: "stderr",
		JSON:       cfg.LogFormat == "json",
	}); err != nil {
		return err
	}
	defer logging.Sync()

	ctx := cmd.Context()

	st, err := store.Open(cfg.Store)
	if err != nil {
		return fmt.Errorf("failed to open store: %w", err)
	}
	defer func() {
		if err := st.Close(); err != nil {
			logging.Warn("Failed to close store", zap.Error(err))
		}
	}()

	if cfg.Seed {
		n, err := store.Seed(ctx, st, store.DefaultSeed())
		if err != nil {
			return fmt.Errorf("failed to seed store: %w", err)
		}
		logging.Info("Seeded store", zap.Int("products", n))
	}

	srv, err := server.New(cfg, st)
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}
	if err := srv.Listen(); err != nil {
		return err
	}

	logging.Info("Product API ready",
		zap.String("url", srv.BaseURL()),
		zap.String("store", cfg.Store),
		zap.String("version", version.Full()))

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return srv.Run(gctx)
	})

	if cfg.Advertise {
		ad, err := discovery.Advertise(cfg.Instance, srv.Port(), version.Version)
		if err != nil {
			// The API still works; clients just need --api
			logging.Warn("mDNS advertisement failed", zap.Error(err))
		} else {
			g.Go(func() error {
				<-gctx.Done()
				ad.Shutdown()
				return nil
			})
		}
	}

	return g.Wait()
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "catalog-server %s\n", version.Full())
	},
}
