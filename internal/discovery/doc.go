// Package discovery finds product API servers on the local network over
// multicast DNS, and lets the reference server announce itself.
//
// Servers advertise the "_catalog._tcp" service type with TXT records
// "path=/products" and "version=<server version>".
//
// # Usage Example
//
//	servers, err := discovery.ScanWithTimeout(ctx, 3*time.Second)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for _, server := range servers {
//	    fmt.Println(server.Instance, server.BaseURL())
//	}
//
// # Network Requirements
//
//   - Requires multicast support on the network interface
//   - Servers must be on the same local network segment
//   - Firewall must allow mDNS (UDP port 5353)
package discovery
