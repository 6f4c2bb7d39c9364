package productapi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

func TestEventsURL(t *testing.T) {
	tests := []struct {
		base    string
		want    string
		wantErr bool
	}{
		{base: "http://localhost:3000", want: "ws://localhost:3000/products/events"},
		{base: "https://api.example.com/v1", want: "wss://api.example.com/v1/products/events"},
		{base: "ftp://example.com", wantErr: true},
	}

	for _, tt := range tests {
		got, err := NewClient(tt.base).EventsURL()
		if tt.wantErr {
			if err == nil {
				t.Errorf("EventsURL(%q) should fail", tt.base)
			}
			continue
		}
		if err != nil {
			t.Errorf("EventsURL(%q) error = %v", tt.base, err)
			continue
		}
		if got != tt.want {
			t.Errorf("EventsURL(%q) = %q, want %q", tt.base, got, tt.want)
		}
	}
}

func TestWatch_DeliversEvents(t *testing.T) {
	upgrader := websocket.Upgrader{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/products/events" {
			http.NotFound(w, r)
			return
		}
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			t.Errorf("Upgrade() error = %v", err)
			return
		}
		defer conn.Close()

		conn.WriteMessage(websocket.TextMessage, []byte(`{"type":"created","product":{"id":1,"name":"Mug","price":3}}`))
		conn.WriteMessage(websocket.TextMessage, []byte(`not json`))
		conn.WriteMessage(websocket.TextMessage, []byte(`{"type":"deleted","product":{"id":1}}`))
		conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	}))
	defer server.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var got []Event
	err := NewClient(server.URL).Watch(ctx, func(ev Event) {
		got = append(got, ev)
	})

	if !IsNetworkError(err) {
		t.Errorf("Watch() error = %v, want network error when the server closes the feed", err)
	}
	if len(got) != 2 {
		t.Fatalf("Watch() delivered %d events, want 2 (malformed message skipped)", len(got))
	}
	if got[0].Type != EventCreated || got[0].Product.Name != "Mug" {
		t.Errorf("first event = %+v", got[0])
	}
	if got[1].Type != EventDeleted {
		t.Errorf("second event = %+v", got[1])
	}
}

func TestEvents_NoFeed(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer server.Close()

	_, err := NewClient(server.URL).Events(context.Background())
	if !IsNotFound(err) {
		t.Errorf("Events() error = %v, want not found", err)
	}
}
