// Package api provides the HTTP layer shared by all service calls.
//
// This package implements:
//   - Connection pooling for HTTP performance
//   - Shared client instance to reuse connections
//   - Per-service endpoint construction
package api

import (
	"net/http"
	"time"
)

// sharedClient is the singleton HTTP client used throughout the application.
//
// Thread-safety:
//   - http.Client is safe for concurrent use by multiple goroutines
//   - No additional locking needed
//
// Why singleton:
//   - Connection pool is shared across all requests
//   - Avoids creating multiple connection pools
var sharedClient *http.Client

func init() {
	sharedClient = NewHTTPClient(30 * time.Second)
}

// GetHTTPClient returns the shared HTTP client instance.
//
// This client should be used for all service requests to benefit from
// connection pooling and reuse.
func GetHTTPClient() *http.Client {
	return sharedClient
}

// NewHTTPClient creates a new HTTP client with connection pooling.
//
// Connection pool configuration:
//   - MaxIdleConns: 100 total idle connections across all hosts
//   - MaxIdleConnsPerHost: 10, so one service cannot monopolize the pool
//   - IdleConnTimeout: 90 seconds before an idle connection is closed
//   - Keep-alives enabled for connection reuse across fetch cycles
//
// Parameters:
//   - timeout: Maximum time for a complete request (including reading response)
func NewHTTPClient(timeout time.Duration) *http.Client {
	return &http.Client{
		Timeout: timeout,
		Transport: &http.Transport{
			MaxIdleConns:        100,
			MaxIdleConnsPerHost: 10,
			IdleConnTimeout:     90 * time.Second,
			DisableKeepAlives:   false,
			MaxConnsPerHost:     0,
			DisableCompression:  false,
			ForceAttemptHTTP2:   true,
		},
	}
}

// SetHTTPClient allows overriding the shared client (useful for testing).
func SetHTTPClient(client *http.Client) {
	sharedClient = client
}
