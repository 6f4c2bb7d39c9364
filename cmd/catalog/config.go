package main

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/muurk/catalog/internal/config"
	"github.com/muurk/catalog/internal/productapi"
	"github.com/muurk/catalog/internal/ui"
)

var skipCheck bool

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetAPICmd)
	configCmd.AddCommand(configPathCmd)
	rootCmd.AddCommand(configCmd)

	configSetAPICmd.Flags().BoolVar(&skipCheck, "no-check", false, "Save without checking that the API answers")
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show or change the client configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the current configuration",
	Args:  cobra.NoArgs,
	RunE:  runConfigShow,
}

var configSetAPICmd = &cobra.Command{
	Use:   "set-api <url>",
	Short: "Set the default product API",
	Example: `  catalog config set-api http://localhost:3000

  # Save a server that is not running yet
  catalog config set-api http://catalog.lan:3000 --no-check`,
	Args: cobra.ExactArgs(1),
	RunE: runConfigSetAPI,
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the config file location",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := registryPath()
		if err != nil {
			return err
		}
		newPrinter(cmd).Println(path)
		return nil
	},
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	p := newPrinter(cmd)
	if format == ui.FormatJSON {
		return p.PrintJSON(registry)
	}

	path, err := registryPath()
	if err != nil {
		return err
	}

	api := registry.API.BaseURL
	if api == "" {
		api = "(not set)"
	}
	prefs := registry.Preferences

	result := ui.NewSuccessResult("Configuration").SetWidth(p.Width()).
		AddDetail("File", path).
		AddDetail("API", api).
		AddDetail("Timeout", registry.Timeout().String()).
		AddDetail("Retries", strconv.Itoa(registry.API.Retries)).
		AddDetail("Preserve filter", strconv.FormatBool(prefs.PreserveFilter)).
		AddDetail("Auto discover", strconv.FormatBool(prefs.AutoDiscover)).
		AddDetail("Discover timeout", registry.DiscoverTimeout().String()).
		AddDetail("Live updates", strconv.FormatBool(prefs.LiveUpdates))
	if prefs.LogLevel != "" {
		result.AddDetail("Log level", prefs.LogLevel)
	}
	if prefs.LogFile != "" {
		result.AddDetail("Log file", prefs.LogFile)
	}

	instances := make([]string, 0, len(registry.Servers))
	for instance := range registry.Servers {
		instances = append(instances, instance)
	}
	sort.Strings(instances)
	for _, instance := range instances {
		result.AddDetail("Server", describeServer(instance, registry.Servers[instance]))
	}

	p.Println(result.Render())
	return nil
}

func describeServer(instance string, server *config.Server) string {
	name := instance
	if server.Nickname != "" {
		name = fmt.Sprintf("%s (%s)", server.Nickname, instance)
	}
	if server.Version != "" {
		return fmt.Sprintf("%s %s [%s]", name, server.URL, server.Version)
	}
	return fmt.Sprintf("%s %s", name, server.URL)
}

func runConfigSetAPI(cmd *cobra.Command, args []string) error {
	if err := registry.SetBaseURL(args[0]); err != nil {
		return err
	}
	base := productapi.NormalizeBaseURL(registry.API.BaseURL)
	registry.API.BaseURL = base

	if !skipCheck {
		client := productapi.NewClient(base)
		client.SetTimeout(registry.Timeout())
		if err := client.Ping(cmd.Context()); err != nil {
			return reportAPIError(cmd, "Product API not reachable", err)
		}
	}

	if err := saveRegistry(); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}

	newPrinter(cmd).PrintSuccess("Default API saved", ui.Detail{Key: "API", Value: base})
	return nil
}

func registryPath() (string, error) {
	if configPath != "" {
		return configPath, nil
	}
	return config.GetConfigPath()
}
