// ABOUTME: HTTP transport for backend calls with request logging and correlation IDs
// ABOUTME: Optionally tunnels through an SSH+SOCKS5 jump host

package client

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
)

// loggingTransport tags each outgoing request with an X-Request-ID and logs
// its outcome at debug level.
type loggingTransport struct {
	next http.RoundTripper
}

func (t *loggingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	start := time.Now()
	requestID := req.Header.Get("X-Request-ID")
	if requestID == "" {
		requestID = uuid.NewString()
		// RoundTrippers must not modify the caller's request
		req = req.Clone(req.Context())
		req.Header.Set("X-Request-ID", requestID)
	}

	slog.Debug("Request started",
		"request_id", requestID,
		"method", req.Method,
		"path", req.URL.Path,
	)

	resp, err := t.next.RoundTrip(req)
	if err != nil {
		slog.Debug("Request failed",
			"request_id", requestID,
			"method", req.Method,
			"path", req.URL.Path,
			"error", err,
			"latency_ms", time.Since(start).Milliseconds(),
		)
		return nil, err
	}

	slog.Debug("Request completed",
		"request_id", requestID,
		"method", req.Method,
		"path", req.URL.Path,
		"status", resp.StatusCode,
		"latency_ms", time.Since(start).Milliseconds(),
	)
	return resp, nil
}

// NewHTTPClient builds the http.Client shared by the credential store and the
// API client. allProxy may be empty or ssh+socks5://user@host:port?private-key=/path.
func NewHTTPClient(timeout time.Duration, allProxy string) (*http.Client, error) {
	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.TLSHandshakeTimeout = 30 * time.Second

	if allProxy != "" {
		dial, err := newSOCKS5DialContext(allProxy)
		if err != nil {
			return nil, fmt.Errorf("invalid KOST_ALL_PROXY: %w", err)
		}
		transport.Proxy = nil
		transport.DialContext = dial
	}

	return &http.Client{
		Timeout:   timeout,
		Transport: &loggingTransport{next: transport},
	}, nil
}
