// Package config provides user configuration management for the catalog client.
//
// The YAML file holds the product API base URL and request options, UI
// preferences and product API servers seen through mDNS discovery.
//
// # Configuration File Location
//
//   - Linux: $XDG_CONFIG_HOME/catalog/config.yaml or $HOME/.config/catalog/config.yaml
//   - macOS: $HOME/.config/catalog/config.yaml
//   - Windows: %LOCALAPPDATA%\catalog\config.yaml
//
// # Usage Example
//
//	registry, err := config.Load()
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	if err := registry.SetBaseURL("http://localhost:3000"); err != nil {
//	    log.Fatal(err)
//	}
//
//	// Save changes atomically
//	if err := registry.Save(); err != nil {
//	    log.Fatal(err)
//	}
//
// The reference server does not read this file; it is configured through
// flags and CATALOG_* environment variables.
package config
