package discovery

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/grandcat/zeroconf"
	"go.uber.org/zap"

	"github.com/muurk/catalog/internal/logging"
)

const (
	// ServiceType is the mDNS service type product API servers advertise
	ServiceType = "_catalog._tcp"

	// ServiceDomain is the mDNS domain (typically "local.")
	ServiceDomain = "local."

	// DefaultScanTimeout is the default timeout for server discovery
	DefaultScanTimeout = 3 * time.Second

	// DefaultPort is used when an advertisement carries no port
	DefaultPort = 3000
)

// Scanner handles mDNS server discovery
type Scanner struct {
	// Timeout is the maximum time to wait for advertisements
	Timeout time.Duration
}

// NewScanner creates a new mDNS scanner with default settings
func NewScanner() *Scanner {
	return &Scanner{
		Timeout: DefaultScanTimeout,
	}
}

// Scan collects every server that answers within the timeout
func (s *Scanner) Scan(ctx context.Context) ([]*Server, error) {
	ctx, cancel := context.WithTimeout(ctx, s.Timeout)
	defer cancel()

	var (
		mu      sync.Mutex
		servers = make([]*Server, 0)
		seen    = make(map[string]bool)
	)

	err := s.browse(ctx, func(server *Server) bool {
		mu.Lock()
		defer mu.Unlock()
		if !seen[server.Instance] {
			seen[server.Instance] = true
			servers = append(servers, server)
		}
		return true
	})
	if err != nil {
		return nil, err
	}

	<-ctx.Done()

	mu.Lock()
	defer mu.Unlock()
	return append([]*Server(nil), servers...), nil
}

// Find waits for the server with the given instance name
func (s *Scanner) Find(ctx context.Context, instance string) (*Server, error) {
	ctx, cancel := context.WithTimeout(ctx, s.Timeout)
	defer cancel()

	found := make(chan *Server, 1)
	err := s.browse(ctx, func(server *Server) bool {
		if server.Instance != instance {
			return true
		}
		select {
		case found <- server:
		default:
		}
		return false
	})
	if err != nil {
		return nil, err
	}

	select {
	case server := <-found:
		return server, nil
	case <-ctx.Done():
		return nil, fmt.Errorf("server %q not found within %s", instance, s.Timeout)
	}
}

// browse feeds parsed entries to handle until it returns false or ctx ends
func (s *Scanner) browse(ctx context.Context, handle func(*Server) bool) error {
	resolver, err := zeroconf.NewResolver(nil)
	if err != nil {
		return fmt.Errorf("failed to create mDNS resolver: %w", err)
	}

	entries := make(chan *zeroconf.ServiceEntry)
	go func() {
		// Keep draining after handle declines so the resolver never blocks
		done := false
		for {
			select {
			case <-ctx.Done():
				return
			case entry, ok := <-entries:
				if !ok {
					return
				}
				server := s.parseServiceEntry(entry)
				if server == nil || done {
					continue
				}
				logging.Debug("Discovered product API", zap.String("instance", server.Instance), zap.String("url", server.BaseURL()))
				done = !handle(server)
			}
		}
	}()

	if err := resolver.Browse(ctx, ServiceType, ServiceDomain, entries); err != nil {
		return fmt.Errorf("failed to browse for mDNS services: %w", err)
	}
	return nil
}

// parseServiceEntry converts a zeroconf service entry to a Server.
// Returns nil if the entry has no usable address.
func (s *Scanner) parseServiceEntry(entry *zeroconf.ServiceEntry) *Server {
	if entry == nil || entry.Instance == "" {
		return nil
	}

	// Prefer IPv4
	var ip string
	for _, addr := range entry.AddrIPv4 {
		ip = addr.String()
		break
	}
	if ip == "" && len(entry.AddrIPv6) > 0 {
		ip = entry.AddrIPv6[0].String()
	}
	if ip == "" {
		return nil
	}

	port := entry.Port
	if port == 0 {
		port = DefaultPort
	}

	return &Server{
		Instance:     entry.Instance,
		Hostname:     entry.HostName,
		IP:           ip,
		Port:         port,
		Metadata:     parseTXT(entry.Text),
		DiscoveredAt: time.Now(),
	}
}

// parseTXT splits "key=value" TXT records; a bare key maps to ""
func parseTXT(records []string) map[string]string {
	metadata := make(map[string]string, len(records))
	for _, txt := range records {
		parts := strings.SplitN(txt, "=", 2)
		if len(parts) == 2 {
			metadata[parts[0]] = parts[1]
		} else {
			metadata[parts[0]] = ""
		}
	}
	return metadata
}

// QuickScan performs a scan with the default timeout
func QuickScan(ctx context.Context) ([]*Server, error) {
	return NewScanner().Scan(ctx)
}

// ScanWithTimeout is a convenience function to scan with a custom timeout
func ScanWithTimeout(ctx context.Context, timeout time.Duration) ([]*Server, error) {
	scanner := NewScanner()
	scanner.Timeout = timeout
	return scanner.Scan(ctx)
}
