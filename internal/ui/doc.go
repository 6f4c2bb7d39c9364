// Package ui renders the styled output of the catalog CLI commands.
//
// Unlike the interactive TUI, these components print once and return. They
// use lipgloss for styling and size themselves to the terminal width
// reported by golang.org/x/term (clamped to 60..100 columns).
//
// # Components
//
//   - Header: command banner with ordered parameters (watch, scan)
//   - Result: success, failure and warning boxes
//   - Printer: writes headers, results and product listings to an io.Writer
//   - Confirm: yes/no prompt in a warning box (delete)
//
// # Product Output
//
// PrintProducts supports three formats selected by --format:
//
//	table    bordered table with ID, NAME, DESCRIPTION and PRICE columns
//	compact  one "#3 Mug - $12.50" line per product
//	json     the API representation, prices as JSON numbers
//
// An empty listing prints "No products found" in table and compact formats
// and [] as JSON.
//
// # Logging Integration
//
// This package expects logging to be controlled via the CATALOG_LOG_LEVEL
// environment variable. When unset or empty, zap logging is silent, allowing
// the curated output to be displayed cleanly.
package ui
