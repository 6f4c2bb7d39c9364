package discovery

import (
	"net"
	"testing"
	"time"

	"github.com/grandcat/zeroconf"
)

func TestScanner_parseServiceEntry(t *testing.T) {
	scanner := NewScanner()

	entry := func(instance string) *zeroconf.ServiceEntry {
		return zeroconf.NewServiceEntry(instance, ServiceType, ServiceDomain)
	}

	tests := []struct {
		name     string
		entry    *zeroconf.ServiceEntry
		setup    func(*zeroconf.ServiceEntry)
		wantNil  bool
		wantIP   string
		wantPort int
	}{
		{
			name:  "IPv4 server",
			entry: entry("catalog-dev"),
			setup: func(e *zeroconf.ServiceEntry) {
				e.HostName = "devbox.local."
				e.Port = 3000
				e.AddrIPv4 = []net.IP{net.ParseIP("192.168.4.16")}
				e.Text = []string{"path=/products", "version=1.0.0"}
			},
			wantIP:   "192.168.4.16",
			wantPort: 3000,
		},
		{
			name:  "no port falls back to default",
			entry: entry("catalog-dev"),
			setup: func(e *zeroconf.ServiceEntry) {
				e.AddrIPv4 = []net.IP{net.ParseIP("10.0.0.5")}
			},
			wantIP:   "10.0.0.5",
			wantPort: DefaultPort,
		},
		{
			name:  "IPv6 only",
			entry: entry("catalog-v6"),
			setup: func(e *zeroconf.ServiceEntry) {
				e.Port = 8080
				e.AddrIPv6 = []net.IP{net.ParseIP("fe80::1")}
			},
			wantIP:   "fe80::1",
			wantPort: 8080,
		},
		{
			name:  "prefers IPv4",
			entry: entry("catalog-dual"),
			setup: func(e *zeroconf.ServiceEntry) {
				e.Port = 3000
				e.AddrIPv4 = []net.IP{net.ParseIP("192.168.1.50")}
				e.AddrIPv6 = []net.IP{net.ParseIP("fe80::2")}
			},
			wantIP:   "192.168.1.50",
			wantPort: 3000,
		},
		{
			name:    "no address",
			entry:   entry("catalog-dev"),
			setup:   func(e *zeroconf.ServiceEntry) { e.Port = 3000 },
			wantNil: true,
		},
		{
			name:    "no instance",
			entry:   entry(""),
			setup:   func(e *zeroconf.ServiceEntry) { e.AddrIPv4 = []net.IP{net.ParseIP("10.0.0.1")} },
			wantNil: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setup(tt.entry)
			server := scanner.parseServiceEntry(tt.entry)

			if tt.wantNil {
				if server != nil {
					t.Errorf("parseServiceEntry() = %v, want nil", server)
				}
				return
			}
			if server == nil {
				t.Fatal("parseServiceEntry() = nil, want server")
			}

			if server.IP != tt.wantIP {
				t.Errorf("server.IP = %v, want %v", server.IP, tt.wantIP)
			}
			if server.Port != tt.wantPort {
				t.Errorf("server.Port = %v, want %v", server.Port, tt.wantPort)
			}
			if server.Instance != tt.entry.Instance {
				t.Errorf("server.Instance = %v, want %v", server.Instance, tt.entry.Instance)
			}
			if time.Since(server.DiscoveredAt) > time.Second {
				t.Errorf("server.DiscoveredAt is not recent: %v", server.DiscoveredAt)
			}
		})
	}

	if scanner.parseServiceEntry(nil) != nil {
		t.Error("parseServiceEntry(nil) should return nil")
	}
}

func TestParseTXT(t *testing.T) {
	got := parseTXT([]string{"path=/products", "version=1.0", "flag", "eq=a=b"})

	want := map[string]string{
		"path":    "/products",
		"version": "1.0",
		"flag":    "",
		"eq":      "a=b",
	}
	if len(got) != len(want) {
		t.Errorf("parseTXT() has %d entries, want %d", len(got), len(want))
	}
	for key, value := range want {
		if got[key] != value {
			t.Errorf("parseTXT()[%q] = %q, want %q", key, got[key], value)
		}
	}
}

func TestNewScanner(t *testing.T) {
	scanner := NewScanner()
	if scanner.Timeout != DefaultScanTimeout {
		t.Errorf("scanner.Timeout = %v, want %v", scanner.Timeout, DefaultScanTimeout)
	}
}

func TestAdvertiseText(t *testing.T) {
	got := AdvertiseText("1.2.3")
	if len(got) != 2 || got[0] != "path=/products" || got[1] != "version=1.2.3" {
		t.Errorf("AdvertiseText() = %v", got)
	}
	if got := AdvertiseText(""); len(got) != 1 {
		t.Errorf("AdvertiseText(\"\") = %v, want path only", got)
	}
}

func TestAdvertise_Validation(t *testing.T) {
	if _, err := Advertise("", 3000, ""); err == nil {
		t.Error("empty instance should be rejected")
	}
	if _, err := Advertise("catalog", 0, ""); err == nil {
		t.Error("port 0 should be rejected")
	}

	var a *Advertisement
	a.Shutdown() // nil-safe
}

// Live mDNS browsing needs multicast and is exercised manually with
// `catalog scan` against `catalog-server serve --advertise`.
