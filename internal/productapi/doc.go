// Package productapi is the client for the remote product REST API.
//
// The API exposes a single collection:
//
//	GET    /products                 list all products
//	GET    /products/{id}            zero or one product, as a JSON array
//	GET    /products/search?name=    products whose name contains the term
//	POST   /products                 create from {name, description, price}
//	PUT    /products/{id}            replace with {name, description, price}
//	DELETE /products/{id}            delete, answers with an acknowledgement
//	GET    /products/events          websocket change feed (optional)
//
// # Basic Usage
//
//	client := productapi.NewClient("http://localhost:3000")
//	products, err := client.ListProducts(ctx)
//	if err != nil {
//	    fmt.Println(productapi.GetShortErrorMessage(err))
//	}
//
// # Errors
//
// Every failure is an *APIError carrying an ErrorType (network, timeout,
// connection refused, DNS, HTTP, not found, parse, validation). Use the IsX
// helpers rather than comparing types, since callers wrap errors with %w.
// GetShortErrorMessage and GetTroubleshootingHint produce text suitable for
// the terminal UI.
//
// # Retries
//
// Reads can be retried with exponential backoff (SetRetry). Writes are never
// retried: a create that timed out may still have happened, and the list
// reload that follows every mutation is the source of truth.
//
// # Prices
//
// Prices are shopspring/decimal values encoded as JSON numbers. Draft.Equal
// compares them numerically.
package productapi
