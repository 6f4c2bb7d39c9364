package productapi

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/url"
	"strings"
	"syscall"
	"testing"
)

func TestErrorType_String(t *testing.T) {
	tests := []struct {
		et   ErrorType
		want string
	}{
		{ErrTypeNetwork, "Network Error"},
		{ErrTypeHTTP, "HTTP Error"},
		{ErrTypeNotFound, "Not Found"},
		{ErrTypeParse, "Parse Error"},
		{ErrTypeValidation, "Validation Error"},
		{ErrTypeTimeout, "Timeout"},
		{ErrTypeConnectionRefused, "Connection Refused"},
		{ErrTypeDNS, "DNS Error"},
		{ErrTypeCanceled, "Canceled"},
		{ErrorType(99), "ErrorType(99)"},
	}

	for _, tt := range tests {
		if got := tt.et.String(); got != tt.want {
			t.Errorf("ErrorType(%d).String() = %q, want %q", tt.et, got, tt.want)
		}
	}
}

func TestAPIError_ErrorAndUnwrap(t *testing.T) {
	cause := errors.New("boom")
	err := NewParseError("bad body", cause)

	if !strings.Contains(err.Error(), "Parse Error: bad body") {
		t.Errorf("Error() = %q", err.Error())
	}
	if !errors.Is(err, cause) {
		t.Error("errors.Is should find the underlying cause")
	}

	plain := NewValidationError("name is required")
	if plain.Error() != "Validation Error: name is required" {
		t.Errorf("Error() = %q", plain.Error())
	}
}

func TestClassifyNetworkError(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		wantType  ErrorType
		wantSub   NetworkErrorSubtype
		retryable bool
	}{
		{
			name:      "connection refused",
			err:       &net.OpError{Op: "dial", Err: syscall.ECONNREFUSED},
			wantType:  ErrTypeConnectionRefused,
			wantSub:   NetworkErrorConnectionRefused,
			retryable: true,
		},
		{
			name:      "host unreachable",
			err:       &net.OpError{Op: "dial", Err: syscall.EHOSTUNREACH},
			wantType:  ErrTypeNetwork,
			wantSub:   NetworkErrorHostUnreachable,
			retryable: true,
		},
		{
			name:     "dns",
			err:      &net.DNSError{Name: "catalog.invalid", Err: "no such host"},
			wantType: ErrTypeDNS,
			wantSub:  NetworkErrorDNS,
		},
		{
			name:      "deadline",
			err:       &url.Error{Op: "Get", URL: "http://x", Err: context.DeadlineExceeded},
			wantType:  ErrTypeTimeout,
			wantSub:   NetworkErrorTimeout,
			retryable: true,
		},
		{
			name:     "canceled",
			err:      fmt.Errorf("wrapped: %w", context.Canceled),
			wantType: ErrTypeCanceled,
		},
		{
			name:      "url error around refused dial",
			err:       &url.Error{Op: "Get", URL: "http://x", Err: &net.OpError{Op: "dial", Err: syscall.ECONNREFUSED}},
			wantType:  ErrTypeConnectionRefused,
			wantSub:   NetworkErrorConnectionRefused,
			retryable: true,
		},
		{
			name:      "generic",
			err:       errors.New("connection reset"),
			wantType:  ErrTypeNetwork,
			wantSub:   NetworkErrorGeneral,
			retryable: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ClassifyNetworkError(tt.err, "localhost:3000")
			if got.Type != tt.wantType {
				t.Errorf("Type = %v, want %v", got.Type, tt.wantType)
			}
			if got.NetworkSubtype != tt.wantSub {
				t.Errorf("NetworkSubtype = %v, want %v", got.NetworkSubtype, tt.wantSub)
			}
			if got.Retryable != tt.retryable {
				t.Errorf("Retryable = %v, want %v", got.Retryable, tt.retryable)
			}
			if got.Endpoint != "localhost:3000" {
				t.Errorf("Endpoint = %q, want localhost:3000", got.Endpoint)
			}
		})
	}

	if ClassifyNetworkError(nil, "") != nil {
		t.Error("ClassifyNetworkError(nil) should return nil")
	}
}

func TestIsHelpers_SeeThroughWrapping(t *testing.T) {
	wrapped := fmt.Errorf("reload after delete: %w", NewNotFoundError("gone"))

	if !IsNotFound(wrapped) {
		t.Error("IsNotFound should unwrap")
	}
	if IsValidationError(wrapped) || IsNetworkError(wrapped) || IsHTTPError(wrapped) || IsParseError(wrapped) {
		t.Error("only IsNotFound should match")
	}
	if IsRetryable(errors.New("plain")) {
		t.Error("unknown errors are not retryable")
	}
}

func TestNewHTTPError_Retryable(t *testing.T) {
	if !NewHTTPError(503, "unavailable").Retryable {
		t.Error("5xx should be retryable")
	}
	if NewHTTPError(409, "conflict").Retryable {
		t.Error("4xx should not be retryable")
	}
}

func TestGetShortErrorMessage(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{&APIError{Type: ErrTypeTimeout}, "Product API not responding (timeout)"},
		{&APIError{Type: ErrTypeConnectionRefused}, "Product API refused connection - is the server running?"},
		{&APIError{Type: ErrTypeNetwork, NetworkSubtype: NetworkErrorHostUnreachable}, "API host unreachable - check network connection"},
		{NewHTTPError(500, "x"), "Product API error (HTTP 500)"},
		{NewNotFoundError("x"), "Product not found"},
		{NewFieldValidationError("price", "price is required"), "price is required"},
		{errors.New("plain"), "plain"},
	}

	for _, tt := range tests {
		if got := GetShortErrorMessage(tt.err); got != tt.want {
			t.Errorf("GetShortErrorMessage(%v) = %q, want %q", tt.err, got, tt.want)
		}
	}
}

func TestGetTroubleshootingHint(t *testing.T) {
	hint := GetTroubleshootingHint(&APIError{Type: ErrTypeConnectionRefused})
	if !strings.Contains(hint, "catalog-server serve") {
		t.Errorf("connection refused hint should mention the reference server, got %q", hint)
	}

	if got := GetTroubleshootingHint(errors.New("x")); got != "An unexpected error occurred. Please try again." {
		t.Errorf("hint for unknown error = %q", got)
	}

	if got := GetTroubleshootingHint(NewHTTPError(502, "bad gateway")); !strings.Contains(got, "HTTP 502") {
		t.Errorf("HTTP hint = %q", got)
	}
}
