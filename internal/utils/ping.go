package utils

import (
	"fmt"
	"net"
	"net/url"
	"time"
)

// defaultPorts by URL scheme
var defaultPorts = map[string]string{
	"http":  "80",
	"https": "443",
	"redis": "6379",
}

// PingService checks if a service is reachable by opening a TCP connection
func PingService(serviceURL string, timeout time.Duration) error {
	parsedURL, err := url.Parse(serviceURL)
	if err != nil {
		return fmt.Errorf("invalid URL: %w", err)
	}

	host := parsedURL.Hostname()
	port := parsedURL.Port()
	if port == "" {
		port = defaultPorts[parsedURL.Scheme]
		if port == "" {
			port = "80"
		}
	}

	address := net.JoinHostPort(host, port)

	conn, err := net.DialTimeout("tcp", address, timeout)
	if err != nil {
		return fmt.Errorf("failed to connect to %s: %w", address, err)
	}
	defer conn.Close()

	return nil
}
