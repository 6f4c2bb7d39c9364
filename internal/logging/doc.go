// Package logging provides structured logging for the catalog client and the
// reference server.
//
// It wraps a package-level zap logger with convenience functions. The logger is
// silent until initialized with a level, so CLI commands print nothing but their
// own output unless CATALOG_LOG_LEVEL is set:
//
//	CATALOG_LOG_LEVEL=debug CATALOG_LOG_FILE=/tmp/catalog.log catalog
//
// The interactive UI always logs to a file because stdout belongs to the
// terminal renderer.
//
// Domain helpers:
//
//	logging.LogAPIRequest(requestID, "GET", url)
//	logging.LogAPIResponse(requestID, resp.StatusCode, body)
//	logging.LogHTTPRequest(remoteAddr, requestID, method, path, status, bytes)
//	logging.LogWebSocketMessage(remoteAddr, "sent", websocket.TextMessage, payload)
//
// All functions are safe for concurrent use.
package logging
