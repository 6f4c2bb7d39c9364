package discovery

import (
	"fmt"

	"github.com/grandcat/zeroconf"
	"go.uber.org/zap"

	"github.com/muurk/catalog/internal/logging"
)

// Advertisement is a registered mDNS service. Call Shutdown to withdraw it.
type Advertisement struct {
	server *zeroconf.Server
}

// AdvertiseText builds the TXT records for a product API
func AdvertiseText(version string) []string {
	text := []string{"path=/products"}
	if version != "" {
		text = append(text, "version="+version)
	}
	return text
}

// Advertise announces a product API on port under the given instance name
func Advertise(instance string, port int, version string) (*Advertisement, error) {
	if instance == "" {
		return nil, fmt.Errorf("instance name is required")
	}
	if port <= 0 || port > 65535 {
		return nil, fmt.Errorf("invalid port %d", port)
	}

	server, err := zeroconf.Register(instance, ServiceType, ServiceDomain, port, AdvertiseText(version), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to register mDNS service: %w", err)
	}

	logging.Info("Advertising product API",
		zap.String("instance", instance),
		zap.String("service", ServiceType),
		zap.Int("port", port))

	return &Advertisement{server: server}, nil
}

// Shutdown withdraws the advertisement
func (a *Advertisement) Shutdown() {
	if a == nil || a.server == nil {
		return
	}
	a.server.Shutdown()
}
