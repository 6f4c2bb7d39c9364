package config

import (
	"fmt"
	"strings"
	"time"
)

// CurrentVersion is the config file format version
const CurrentVersion = 1

// Registry represents the entire user configuration file.
// It stores the product API connection, preferences and servers seen on the
// local network.
type Registry struct {
	Version     int                `yaml:"version"`
	API         *APIConfig         `yaml:"api,omitempty"`
	Preferences *Preferences       `yaml:"preferences,omitempty"`
	Servers     map[string]*Server `yaml:"servers,omitempty"` // Keyed by mDNS instance name
}

// APIConfig describes how to reach the product API.
type APIConfig struct {
	BaseURL string `yaml:"base_url,omitempty"` // e.g. http://localhost:3000
	Timeout int    `yaml:"timeout"`            // Request timeout in seconds
	Retries int    `yaml:"retries"`            // Retries for reads; writes are never retried
}

// Preferences represents application-wide user preferences.
type Preferences struct {
	PreserveFilter  bool   `yaml:"preserve_filter"`     // Keep the active search after add/update/delete
	AutoDiscover    bool   `yaml:"auto_discover"`       // Browse mDNS when no API URL is configured
	DiscoverTimeout int    `yaml:"discover_timeout"`    // mDNS discovery timeout in seconds
	LiveUpdates     bool   `yaml:"live_updates"`        // Follow the API change feed in the TUI
	LogLevel        string `yaml:"log_level,omitempty"` // debug, info, warn, error
	LogFile         string `yaml:"log_file,omitempty"`  // Log destination while the TUI owns the terminal
}

// Server is a product API seen through discovery.
type Server struct {
	Nickname string    `yaml:"nickname,omitempty"`
	URL      string    `yaml:"url"`
	Version  string    `yaml:"version,omitempty"`
	LastSeen time.Time `yaml:"last_seen,omitempty"`
}

// Default values for a new registry.
const (
	DefaultTimeout         = 10
	DefaultRetries         = 0
	DefaultDiscoverTimeout = 3
)

func defaultAPI() *APIConfig {
	return &APIConfig{
		Timeout: DefaultTimeout,
		Retries: DefaultRetries,
	}
}

func defaultPreferences() *Preferences {
	return &Preferences{
		PreserveFilter:  true,
		AutoDiscover:    true,
		DiscoverTimeout: DefaultDiscoverTimeout,
		LiveUpdates:     true,
	}
}

// NewRegistry creates a new Registry with default values.
func NewRegistry() *Registry {
	return &Registry{
		Version:     CurrentVersion,
		API:         defaultAPI(),
		Preferences: defaultPreferences(),
		Servers:     make(map[string]*Server),
	}
}

// fillDefaults initializes sections missing from a loaded file.
func (r *Registry) fillDefaults() {
	if r.API == nil {
		r.API = defaultAPI()
	}
	if r.API.Timeout <= 0 {
		r.API.Timeout = DefaultTimeout
	}
	if r.API.Retries < 0 {
		r.API.Retries = 0
	}
	if r.Preferences == nil {
		r.Preferences = defaultPreferences()
	}
	if r.Preferences.DiscoverTimeout <= 0 {
		r.Preferences.DiscoverTimeout = DefaultDiscoverTimeout
	}
	if r.Servers == nil {
		r.Servers = make(map[string]*Server)
	}
}

// Timeout returns the request timeout as a duration.
func (r *Registry) Timeout() time.Duration {
	return time.Duration(r.API.Timeout) * time.Second
}

// DiscoverTimeout returns the mDNS browse timeout as a duration.
func (r *Registry) DiscoverTimeout() time.Duration {
	return time.Duration(r.Preferences.DiscoverTimeout) * time.Second
}

// SetBaseURL validates and stores the product API URL.
func (r *Registry) SetBaseURL(raw string) error {
	raw = strings.TrimSpace(raw)
	if !strings.HasPrefix(raw, "http://") && !strings.HasPrefix(raw, "https://") {
		return fmt.Errorf("API URL must start with http:// or https://, got %q", raw)
	}
	r.API.BaseURL = strings.TrimRight(raw, "/")
	return nil
}

// EnsureServer ensures a server entry exists in the registry.
func (r *Registry) EnsureServer(instance string) *Server {
	if r.Servers == nil {
		r.Servers = make(map[string]*Server)
	}

	if server, exists := r.Servers[instance]; exists {
		return server
	}

	server := &Server{}
	r.Servers[instance] = server
	return server
}

// RememberServer records a discovered server's URL and version.
func (r *Registry) RememberServer(instance, url, version string) {
	server := r.EnsureServer(instance)
	server.URL = url
	server.Version = version
	server.LastSeen = time.Now()
}

// SetServerNickname sets a user-friendly nickname for a server.
func (r *Registry) SetServerNickname(instance, nickname string) {
	r.EnsureServer(instance).Nickname = nickname
}
