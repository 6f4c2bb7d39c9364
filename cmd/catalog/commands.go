package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/muurk/catalog/internal/catalog"
	"github.com/muurk/catalog/internal/config"
	"github.com/muurk/catalog/internal/discovery"
	"github.com/muurk/catalog/internal/logging"
	"github.com/muurk/catalog/internal/productapi"
	"github.com/muurk/catalog/internal/ui"
)

// errReported marks a failure that was already printed as a result box
var errReported = errors.New("command failed")

// Global flags
var (
	apiURL         string
	timeoutSeconds int
	outputFormat   string
	configPath     string
)

// Product command flags
var (
	productName        string
	productDescription string
	productPrice       string
	assumeYes          bool
	discoverTimeout    int
	saveDiscovered     bool
)

// Set by loadRegistry before any command runs
var (
	registry *config.Registry
	format   ui.Format
)

func init() {
	rootCmd.PersistentFlags().StringVar(&apiURL, "api", "", "Product API base URL (skips config and discovery)")
	rootCmd.PersistentFlags().IntVar(&timeoutSeconds, "timeout", 0, "Request timeout in seconds (default from config)")
	rootCmd.PersistentFlags().StringVar(&outputFormat, "format", string(ui.FormatTable), "Output format (table, compact, json)")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default is the OS config directory)")

	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(searchCmd)
	rootCmd.AddCommand(addCmd)
	rootCmd.AddCommand(updateCmd)
	rootCmd.AddCommand(deleteCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(scanCmd)
}

// loadRegistry reads the config file and validates the global flags
func loadRegistry(cmd *cobra.Command, args []string) error {
	var err error
	if configPath != "" {
		registry, err = config.LoadFrom(configPath)
	} else {
		registry, err = config.Load()
	}
	if err != nil {
		return err
	}

	format, err = ui.ParseFormat(outputFormat)
	if err != nil {
		return err
	}
	if timeoutSeconds < 0 {
		return fmt.Errorf("--timeout must not be negative")
	}

	// Subcommands stay silent unless CATALOG_LOG_LEVEL is set
	return logging.InitializeFromEnv()
}

func saveRegistry() error {
	if configPath != "" {
		return registry.SaveTo(configPath)
	}
	return registry.Save()
}

// listCmd prints the whole collection
var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List all products",
	Example: `  # Table output
  catalog list

  # One product per line
  catalog list --format compact

  # JSON for scripting
  catalog list --format json | jq '.[].name'`,
	Args: cobra.NoArgs,
	RunE: runList,
}

func runList(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	client, _, err := newClient(ctx, cmd)
	if err != nil {
		return err
	}

	listing, err := catalog.NewController(client, catalog.DefaultOptions()).LoadAll(ctx)
	if err != nil {
		return reportAPIError(cmd, "Could not load products", err)
	}
	return newPrinter(cmd).PrintProducts(listing.Products, format)
}

// searchCmd runs the same query the UI search box does
var searchCmd = &cobra.Command{
	Use:   "search <term>",
	Short: "Search products by id or name",
	Long: `Search the catalog.

A term that is a whole number is looked up as a product id first; when no
product has that id, the term is searched as a name. Name search is a
case-insensitive substring match done by the server.`,
	Example: `  # By name
  catalog search mug

  # By id, falling back to names containing "42"
  catalog search 42`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSearch,
}

func runSearch(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	client, _, err := newClient(ctx, cmd)
	if err != nil {
		return err
	}

	term := strings.Join(args, " ")
	listing, err := catalog.NewController(client, catalog.DefaultOptions()).Search(ctx, term)
	if err != nil {
		return reportAPIError(cmd, "Search failed", err)
	}
	return newPrinter(cmd).PrintProducts(listing.Products, format)
}

// addCmd creates a product
var addCmd = &cobra.Command{
	Use:   "add",
	Short: "Create a product",
	Example: `  catalog add --name "Coffee Mug" --price 12.50
  catalog add --name "Desk Lamp" --description "LED, warm white" --price 34.99`,
	Args: cobra.NoArgs,
	RunE: runAdd,
}

// updateCmd changes the fields given on the command line
var updateCmd = &cobra.Command{
	Use:   "update <id>",
	Short: "Update a product",
	Long: `Update a product by id.

Only the fields passed as flags change; the others keep their current value.
Nothing is sent when the result equals the stored product.`,
	Example: `  # New price only
  catalog update 3 --price 15.00

  # Clear the description
  catalog update 3 --description ""`,
	Args: cobra.ExactArgs(1),
	RunE: runUpdate,
}

func init() {
	for _, c := range []*cobra.Command{addCmd, updateCmd} {
		c.Flags().StringVar(&productName, "name", "", "Product name")
		c.Flags().StringVar(&productDescription, "description", "", "Product description")
		c.Flags().StringVar(&productPrice, "price", "", "Price, e.g. 12.50")
	}
	_ = addCmd.MarkFlagRequired("name")
	_ = addCmd.MarkFlagRequired("price")
}

func runAdd(cmd *cobra.Command, args []string) error {
	draft, err := productapi.ParseDraft(productName, productDescription, productPrice)
	if err != nil {
		return reportAPIError(cmd, "Invalid product", err)
	}

	ctx := cmd.Context()
	client, _, err := newClient(ctx, cmd)
	if err != nil {
		return err
	}

	created, err := client.CreateProduct(ctx, draft)
	if err != nil {
		return reportAPIError(cmd, "Could not create product", err)
	}

	p := newPrinter(cmd)
	if format == ui.FormatJSON {
		return p.PrintJSON(created)
	}
	p.PrintSuccess("Product created", productDetails(*created)...)
	return nil
}

func runUpdate(cmd *cobra.Command, args []string) error {
	id, err := parseProductID(args[0])
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	client, _, err := newClient(ctx, cmd)
	if err != nil {
		return err
	}

	current, err := fetchProduct(ctx, client, id)
	if err != nil {
		return reportAPIError(cmd, "Could not load product", err)
	}

	fields := catalog.FieldsOf(current)
	if cmd.Flags().Changed("name") {
		fields.Name = productName
	}
	if cmd.Flags().Changed("description") {
		fields.Description = productDescription
	}
	if cmd.Flags().Changed("price") {
		fields.Price = productPrice
	}

	draft, err := fields.Draft()
	if err != nil {
		return reportAPIError(cmd, "Invalid product", err)
	}

	p := newPrinter(cmd)
	changes := productapi.FormatDelta(current, draft)
	if len(changes) == 0 {
		if format == ui.FormatJSON {
			return p.PrintJSON(current)
		}
		p.PrintWarning("Nothing to update", ui.Detail{Key: "Product", Value: current.String()})
		return nil
	}

	updated, err := client.UpdateProduct(ctx, id, draft)
	if err != nil {
		return reportAPIError(cmd, "Could not update product", err)
	}

	if format == ui.FormatJSON {
		return p.PrintJSON(updated)
	}
	details := []ui.Detail{{Key: "ID", Value: strconv.FormatInt(id, 10)}}
	for _, change := range changes {
		details = append(details, ui.Detail{Key: "Changed", Value: change})
	}
	p.PrintSuccess("Product updated", details...)
	return nil
}

// deleteCmd removes a product after confirmation
var deleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a product",
	Example: `  # Asks for confirmation
  catalog delete 3

  # No prompt, for scripts
  catalog delete 3 --yes`,
	Args: cobra.ExactArgs(1),
	RunE: runDelete,
}

func init() {
	deleteCmd.Flags().BoolVarP(&assumeYes, "yes", "y", false, "Skip the confirmation prompt")
}

func runDelete(cmd *cobra.Command, args []string) error {
	id, err := parseProductID(args[0])
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	client, _, err := newClient(ctx, cmd)
	if err != nil {
		return err
	}

	if !assumeYes {
		current, err := fetchProduct(ctx, client, id)
		if err != nil {
			return reportAPIError(cmd, "Could not load product", err)
		}
		confirmed := ui.Confirm(cmd.InOrStdin(), cmd.OutOrStdout(),
			fmt.Sprintf("Delete product #%d", id),
			[]string{current.String(), "This cannot be undone"})
		if !confirmed {
			return nil
		}
	}

	result, err := client.DeleteProduct(ctx, id)
	if err != nil {
		return reportAPIError(cmd, "Could not delete product", err)
	}

	p := newPrinter(cmd)
	if format == ui.FormatJSON {
		return p.PrintJSON(result)
	}
	details := []ui.Detail{{Key: "ID", Value: strconv.FormatInt(id, 10)}}
	if result.Message != "" {
		details = append(details, ui.Detail{Key: "Server", Value: result.Message})
	}
	p.PrintSuccess("Product deleted", details...)
	return nil
}

// watchCmd follows the change feed
var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Print product changes as they happen",
	Long: `Follow the product API change feed.

Every create, update and delete made by any client is printed as it happens.
Press Ctrl+C to stop.`,
	Example: `  catalog watch
  catalog watch --format json`,
	Args: cobra.NoArgs,
	RunE: runWatch,
}

func runWatch(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	client, base, err := newClient(ctx, cmd)
	if err != nil {
		return err
	}

	p := newPrinter(cmd)
	if format != ui.FormatJSON {
		p.PrintHeader("Product Feed", "catalog watch", ui.Detail{Key: "API", Value: base})
	}

	err = client.Watch(ctx, func(ev productapi.Event) {
		if format == ui.FormatJSON {
			_ = p.PrintJSON(ev)
			return
		}
		p.Println(formatEvent(ev))
	})
	if err != nil {
		return reportAPIError(cmd, "Change feed stopped", err)
	}
	return nil
}

func formatEvent(ev productapi.Event) string {
	at := ev.At
	if at.IsZero() {
		at = time.Now()
	}
	return fmt.Sprintf("%s  %-7s  %s", at.Local().Format("15:04:05"), ev.Type, ev.Product.String())
}

// scanCmd discovers product API servers on the network
var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Scan for product API servers on the network",
	Long: `Scan for product API servers using mDNS/DNS-SD discovery.

Servers started with 'catalog-server serve --advertise' announce themselves
on the local network. Every server found is remembered in the config file.`,
	Example: `  # Scan with the configured timeout
  catalog scan

  # Longer scan, and use the server if exactly one is found
  catalog scan --discover-timeout 10 --save`,
	Args: cobra.NoArgs,
	RunE: runScan,
}

func init() {
	scanCmd.Flags().IntVar(&discoverTimeout, "discover-timeout", 0, "Scan timeout in seconds (default from config)")
	scanCmd.Flags().BoolVar(&saveDiscovered, "save", false, "Save the server as the default API when exactly one is found")
}

func runScan(cmd *cobra.Command, args []string) error {
	timeout := registry.DiscoverTimeout()
	if discoverTimeout > 0 {
		timeout = time.Duration(discoverTimeout) * time.Second
	}

	p := newPrinter(cmd)
	if format != ui.FormatJSON {
		p.PrintHeader("Product Servers", "catalog scan", ui.Detail{Key: "Timeout", Value: timeout.String()})
	}

	servers, err := discovery.ScanWithTimeout(cmd.Context(), timeout)
	if err != nil {
		return fmt.Errorf("scan failed: %w", err)
	}

	if format == ui.FormatJSON {
		if servers == nil {
			servers = []*discovery.Server{}
		}
		if err := p.PrintJSON(servers); err != nil {
			return err
		}
	}

	if len(servers) == 0 {
		if format != ui.FormatJSON {
			p.PrintError("No product servers found", nil, []string{
				"Start a server with 'catalog-server serve --advertise'",
				"Check that multicast traffic is allowed on this network",
				"Try a longer --discover-timeout",
				"Use --api to give the URL directly",
			})
		}
		return nil
	}

	for _, server := range servers {
		registry.RememberServer(server.Instance, server.BaseURL(), server.Version())
	}
	if saveDiscovered && len(servers) == 1 {
		if err := registry.SetBaseURL(servers[0].BaseURL()); err != nil {
			return err
		}
	}
	if err := saveRegistry(); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}

	if format == ui.FormatJSON {
		return nil
	}

	p.Println(fmt.Sprintf("Found %d server(s):", len(servers)))
	p.Newline()
	for i, server := range servers {
		p.Println(fmt.Sprintf("%d. %s", i+1, server.Instance))
		p.Println(fmt.Sprintf("   URL:      %s", server.BaseURL()))
		p.Println(fmt.Sprintf("   Host:     %s", server.Hostname))
		if v := server.Version(); v != "" {
			p.Println(fmt.Sprintf("   Version:  %s", v))
		}
		p.Newline()
	}

	if saveDiscovered && len(servers) == 1 {
		p.PrintSuccess("Default API saved", ui.Detail{Key: "API", Value: registry.API.BaseURL})
	} else {
		p.Println(ui.MutedStyle.Render("Use 'catalog config set-api <url>' to choose the default server"))
	}
	return nil
}

// newClient resolves the API and builds a client with the configured options
func newClient(ctx context.Context, cmd *cobra.Command) (*productapi.Client, string, error) {
	base, err := resolveAPI(ctx, cmd.ErrOrStderr())
	if err != nil {
		return nil, "", err
	}

	client := productapi.NewClient(base)
	timeout := registry.Timeout()
	if timeoutSeconds > 0 {
		timeout = time.Duration(timeoutSeconds) * time.Second
	}
	client.SetTimeout(timeout)
	client.SetRetry(registry.API.Retries, productapi.DefaultRetryDelay)

	return client, client.BaseURL, nil
}

// resolveAPI picks the API base URL: --api, then the config file, then a
// single server found through discovery. Progress goes to status so JSON
// output on stdout stays clean.
func resolveAPI(ctx context.Context, status io.Writer) (string, error) {
	if apiURL != "" {
		return apiURL, nil
	}
	if registry.API.BaseURL != "" {
		return registry.API.BaseURL, nil
	}
	if !registry.Preferences.AutoDiscover {
		return "", fmt.Errorf("no product API configured. Use --api or 'catalog config set-api <url>'")
	}

	fmt.Fprintln(status, "No product API configured, attempting auto-discovery...")
	servers, err := discovery.ScanWithTimeout(ctx, registry.DiscoverTimeout())
	if err != nil {
		return "", fmt.Errorf("discovery failed: %w", err)
	}

	if len(servers) == 0 {
		return "", fmt.Errorf("no product API found. Use --api flag to specify the URL manually")
	}

	if len(servers) > 1 {
		fmt.Fprintf(status, "Found %d servers:\n", len(servers))
		for i, server := range servers {
			fmt.Fprintf(status, "%d. %s\n", i+1, server)
		}
		return "", fmt.Errorf("multiple servers found. Use --api flag to specify which one")
	}

	server := servers[0]
	fmt.Fprintf(status, "Found server: %s\n\n", server)

	registry.RememberServer(server.Instance, server.BaseURL(), server.Version())
	if err := saveRegistry(); err != nil {
		logging.Warn("Failed to remember discovered server", zap.Error(err))
	}
	return server.BaseURL(), nil
}

// fetchProduct loads one product by id; an empty answer is a not-found error
func fetchProduct(ctx context.Context, client *productapi.Client, id int64) (productapi.Product, error) {
	products, err := client.GetProduct(ctx, id)
	if err != nil {
		return productapi.Product{}, err
	}
	if len(products) == 0 {
		return productapi.Product{}, productapi.NewNotFoundError(fmt.Sprintf("product %d not found", id))
	}
	return products[0], nil
}

func parseProductID(arg string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(arg), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid product id %q", arg)
	}
	return id, nil
}

func productDetails(product productapi.Product) []ui.Detail {
	details := []ui.Detail{
		{Key: "ID", Value: strconv.FormatInt(product.ID, 10)},
		{Key: "Name", Value: product.Name},
	}
	if product.Description != "" {
		details = append(details, ui.Detail{Key: "Description", Value: product.Description})
	}
	return append(details, ui.Detail{Key: "Price", Value: productapi.FormatPrice(product.Price)})
}

func newPrinter(cmd *cobra.Command) *ui.Printer {
	return ui.NewPrinter(cmd.OutOrStdout())
}

// reportAPIError renders err as a failure box. JSON output gets the plain
// error on stderr instead.
func reportAPIError(cmd *cobra.Command, title string, err error) error {
	if format == ui.FormatJSON {
		return fmt.Errorf("%s: %w", strings.ToLower(title), err)
	}
	newPrinter(cmd).PrintAPIError(title, err)
	return errReported
}
