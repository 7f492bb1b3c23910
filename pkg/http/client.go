package http

import (
	"crypto/tls"
	"net"
	"net/http"
	"time"
)

// HTTPClientConfig holds transport tuning for outbound API clients
type HTTPClientConfig struct {
	// Connection pooling
	MaxIdleConns        int           // Total idle connections across all hosts
	MaxIdleConnsPerHost int           // Idle connections per host
	MaxConnsPerHost     int           // Maximum connections per host (including active)
	IdleConnTimeout     time.Duration // How long idle connections stay alive

	// Connection establishment
	DialTimeout         time.Duration // TCP connection timeout
	TLSHandshakeTimeout time.Duration // TLS handshake timeout
	KeepAlive           time.Duration

	// ResponseHeaderTimeout bounds the wait for response headers. Zero means
	// the request runs until its context is canceled.
	ResponseHeaderTimeout time.Duration

	DisableKeepAlives  bool
	DisableCompression bool

	// TLS
	InsecureSkipVerify bool
	MinTLSVersion      uint16
}

// AccountingClientConfig returns the transport preset for the accounting API.
// The API is a single host serving small JSON bodies. No response timeout is
// set: callers bound each call through its context.
func AccountingClientConfig() *HTTPClientConfig {
	return &HTTPClientConfig{
		MaxIdleConns:        10,
		MaxIdleConnsPerHost: 10,
		MaxConnsPerHost:     20,
		IdleConnTimeout:     90 * time.Second,

		DialTimeout:         10 * time.Second,
		TLSHandshakeTimeout: 10 * time.Second,
		KeepAlive:           60 * time.Second,

		ResponseHeaderTimeout: 0,

		DisableKeepAlives:  false,
		DisableCompression: false, // JSON compresses well

		InsecureSkipVerify: false,
		MinTLSVersion:      tls.VersionTLS12,
	}
}

// DefaultClientConfig returns a balanced configuration for general use
func DefaultClientConfig() *HTTPClientConfig {
	return &HTTPClientConfig{
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 10,
		MaxConnsPerHost:     50,
		IdleConnTimeout:     90 * time.Second,

		DialTimeout:         10 * time.Second,
		TLSHandshakeTimeout: 10 * time.Second,
		KeepAlive:           60 * time.Second,

		ResponseHeaderTimeout: 30 * time.Second,

		MinTLSVersion: tls.VersionTLS12,
	}
}

// ConfigForPreset maps a preset name to its configuration.
// Unknown names fall back to the accounting preset.
func ConfigForPreset(name string) *HTTPClientConfig {
	switch name {
	case "default":
		return DefaultClientConfig()
	default:
		return AccountingClientConfig()
	}
}

// NewHTTPClient creates an HTTP client with the given configuration.
// timeout is the overall per-request limit; zero disables it.
func NewHTTPClient(cfg *HTTPClientConfig, timeout time.Duration) *http.Client {
	dialer := &net.Dialer{
		Timeout:   cfg.DialTimeout,
		KeepAlive: cfg.KeepAlive,
	}

	transport := &http.Transport{
		Proxy:       http.ProxyFromEnvironment,
		DialContext: dialer.DialContext,

		MaxIdleConns:        cfg.MaxIdleConns,
		MaxIdleConnsPerHost: cfg.MaxIdleConnsPerHost,
		MaxConnsPerHost:     cfg.MaxConnsPerHost,
		IdleConnTimeout:     cfg.IdleConnTimeout,

		TLSHandshakeTimeout:   cfg.TLSHandshakeTimeout,
		ResponseHeaderTimeout: cfg.ResponseHeaderTimeout,

		DisableKeepAlives:  cfg.DisableKeepAlives,
		DisableCompression: cfg.DisableCompression,

		TLSClientConfig: &tls.Config{
			InsecureSkipVerify: cfg.InsecureSkipVerify,
			MinVersion:         cfg.MinTLSVersion,
		},

		ForceAttemptHTTP2: true,
	}

	return &http.Client{
		Transport: transport,
		Timeout:   timeout,
	}
}
