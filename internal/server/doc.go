// Package server implements the reference product API.
//
// It serves the collection that internal/productapi consumes:
//
//	GET    /products                 all products, ordered by id
//	GET    /products/{id}            [] or [product]
//	GET    /products/search?name=    case-insensitive substring match on name
//	POST   /products                 201 with the created product
//	PUT    /products/{id}            200 with the updated product, 404 if unknown
//	DELETE /products/{id}            {"message": "Product deleted", "id": id}
//	GET    /products/events          websocket feed of created/updated/deleted events
//	GET    /healthz                  liveness
//
// Invalid bodies answer 400 with {"error": "VALIDATION_ERROR", "message": ..., "field": ...}.
//
// Every response carries X-Request-ID: the client's value when it sent one,
// a fresh UUID otherwise. Requests are logged through internal/logging.
//
// Products live in a store.Store: in memory by default, or in SQLite.
// Configuration comes from flags and CATALOG_* environment variables (see
// LoadConfig).
package server
