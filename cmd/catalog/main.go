// Catalog is a terminal client for a remote product catalog API.
//
// It lists, searches, creates, updates and deletes products on a server that
// speaks the /products REST contract, either interactively through a
// full-screen terminal UI or through scriptable subcommands.
//
// Usage:
//
//	catalog [command] [flags]
//
// Running without arguments launches the interactive UI.
// See 'catalog --help' for available commands.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/muurk/catalog/internal/catalog"
	"github.com/muurk/catalog/internal/config"
	"github.com/muurk/catalog/internal/logging"
	"github.com/muurk/catalog/internal/tui"
	"github.com/muurk/catalog/internal/version"
)

// defaultLogFile is created in the config directory when the UI logs
const defaultLogFile = "catalog.log"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()

	if err != nil {
		// Failures already rendered as a result box only need the exit code
		if !errors.Is(err, errReported) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Product Catalog Client",
	Long: `A terminal client for a remote product catalog API.

Lists, searches, creates, updates and deletes products on any server that
serves the /products REST contract. The API is found through --api, the
saved configuration, or mDNS discovery on the local network.

If no command is specified, the interactive UI will launch automatically.`,
	Example: `  # Launch the interactive UI against a known server
  catalog --api http://localhost:3000

  # Save the server once, then just run catalog
  catalog config set-api http://localhost:3000
  catalog`,
	Version:           version.Version,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: loadRegistry,
	RunE:              runUI,
}

func init() {
	// Disable automatic completion command generation
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	rootCmd.AddCommand(versionCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "catalog %s\n", version.Full())
	},
}

// runUI launches the full-screen catalog
func runUI(cmd *cobra.Command, args []string) error {
	if err := initUILogging(); err != nil {
		return err
	}
	defer logging.Sync()

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	client, base, err := newClient(ctx, cmd)
	if err != nil {
		return err
	}

	ctrl := catalog.NewController(client, catalog.Options{
		PreserveFilter: registry.Preferences.PreserveFilter,
	})

	opts := tui.Options{
		Controller: ctrl,
		API:        base,
	}
	if registry.Preferences.LiveUpdates {
		opts.Events = client
	}

	logging.Info("Starting catalog UI", zap.String("api", base), zap.String("version", version.Version))

	program := tea.NewProgram(tui.New(ctx, opts), tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("UI error: %w", err)
	}
	return nil
}

// initUILogging sends log output to a file; the UI owns the terminal
func initUILogging() error {
	path := registry.Preferences.LogFile
	if path == "" {
		if env := os.Getenv(logging.LogFileEnvVar); env != "" {
			path = env
		} else {
			dir, err := config.GetConfigDir()
			if err != nil {
				return err
			}
			if err := os.MkdirAll(dir, 0700); err != nil {
				return fmt.Errorf("failed to create config directory: %w", err)
			}
			path = filepath.Join(dir, defaultLogFile)
		}
	}

	return logging.InitializeWithOptions(logging.Options{
		Level:      registry.Preferences.LogLevel,
		OutputPath: path,
	})
}
