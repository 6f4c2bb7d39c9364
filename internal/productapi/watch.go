package productapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/muurk/catalog/internal/logging"
	"github.com/muurk/catalog/internal/version"
)

// EventsPath is the websocket change feed under the API base URL
const EventsPath = ProductsPath + "/events"

// EventsURL returns the websocket URL of the change feed (ws:// or wss://)
func (c *Client) EventsURL() (string, error) {
	u, err := url.Parse(c.BaseURL)
	if err != nil {
		return "", fmt.Errorf("invalid base URL %q: %w", c.BaseURL, err)
	}

	switch u.Scheme {
	case "http":
		u.Scheme = "ws"
	case "https":
		u.Scheme = "wss"
	case "ws", "wss":
	default:
		return "", fmt.Errorf("unsupported URL scheme %q", u.Scheme)
	}

	u.Path += EventsPath
	return u.String(), nil
}

// Events connects to the change feed and returns a channel of events.
// The channel is closed when ctx is canceled or the connection drops.
// Not every product API offers a feed; a failed dial is returned as an error.
func (c *Client) Events(ctx context.Context) (<-chan Event, error) {
	endpoint, err := c.EventsURL()
	if err != nil {
		return nil, err
	}

	header := http.Header{}
	header.Set("User-Agent", version.UserAgent())
	header.Set(RequestIDHeader, c.requestID())

	dialer := websocket.Dialer{
		Proxy:            http.ProxyFromEnvironment,
		HandshakeTimeout: c.HTTPClient.Timeout,
	}

	conn, resp, err := dialer.DialContext(ctx, endpoint, header)
	if err != nil {
		if resp != nil {
			_ = resp.Body.Close()
			if err := checkStatus(resp.StatusCode, nil); err != nil {
				return nil, err
			}
		}
		return nil, NewNetworkError("failed to connect to event feed", err)
	}

	events := make(chan Event)
	done := make(chan struct{})

	// Unblock ReadMessage when the caller goes away.
	go func() {
		select {
		case <-ctx.Done():
		case <-done:
		}
		_ = conn.Close()
	}()

	go func() {
		defer close(events)
		defer close(done)

		remote := conn.RemoteAddr().String()
		for {
			msgType, data, err := conn.ReadMessage()
			if err != nil {
				if ctx.Err() == nil {
					logging.Debug("Event feed closed", zap.String("remote_addr", remote), zap.Error(err))
				}
				return
			}
			logging.LogWebSocketMessage(remote, "received", msgType, data)

			var ev Event
			if err := json.Unmarshal(data, &ev); err != nil {
				logging.Warn("Ignoring malformed event", zap.Error(err))
				continue
			}

			select {
			case events <- ev:
			case <-ctx.Done():
				return
			}
		}
	}()

	return events, nil
}

// Watch calls handle for every event until ctx is canceled or the feed closes.
// It returns nil when ctx was canceled and a network error when the feed dropped.
func (c *Client) Watch(ctx context.Context, handle func(Event)) error {
	events, err := c.Events(ctx)
	if err != nil {
		return err
	}

	for ev := range events {
		handle(ev)
	}

	if ctx.Err() != nil {
		return nil
	}
	return NewNetworkError("event feed closed by server", nil)
}
