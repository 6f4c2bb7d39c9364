package discovery

import (
	"fmt"
	"net"
	"strconv"
	"strings"
	"time"
)

// Server represents a product API discovered on the network
type Server struct {
	// Instance is the mDNS instance name (e.g., "catalog-dev")
	Instance string

	// Hostname is the mDNS hostname (e.g., "devbox.local.")
	Hostname string

	// IP is the advertised address, IPv4 preferred
	IP string

	// Port is the HTTP port
	Port int

	// Metadata contains the mDNS TXT record data
	// Common fields: "path=/products", "version=1.0.0"
	Metadata map[string]string

	// DiscoveredAt is when the server was discovered
	DiscoveredAt time.Time
}

// String returns a human-readable string representation of the server
func (s *Server) String() string {
	if v := s.Version(); v != "" {
		return fmt.Sprintf("%s (%s) at %s [%s]", s.Instance, s.Hostname, s.BaseURL(), v)
	}
	return fmt.Sprintf("%s (%s) at %s", s.Instance, s.Hostname, s.BaseURL())
}

// BaseURL returns the API base URL. A TXT "path" other than /products is
// treated as a prefix in front of the products collection.
func (s *Server) BaseURL() string {
	base := "http://" + net.JoinHostPort(s.IP, strconv.Itoa(s.Port))

	path := strings.TrimSuffix(s.GetMetadata("path"), "/")
	path = strings.TrimSuffix(path, "/products")
	if path != "" && !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return base + path
}

// Version returns the advertised server version, if any
func (s *Server) Version() string {
	return s.GetMetadata("version")
}

// GetMetadata retrieves a metadata value by key, or returns empty string if not found
func (s *Server) GetMetadata(key string) string {
	if s.Metadata == nil {
		return ""
	}
	return s.Metadata[key]
}
