// ABOUTME: Single-flight coordinator for access token refresh
// ABOUTME: Runs at most one refresh at a time and queues requests that hit 401 meanwhile

package client

import (
	"context"
	"log/slog"
	"sync"
)

// TokenSource supplies the bearer token and renews it.
// auth.Store implements it.
type TokenSource interface {
	AccessToken() string
	// Refresh exchanges the refresh credential for a new access token.
	// On failure the session is cleared and false is returned.
	Refresh(ctx context.Context) bool
}

type refreshState int

const (
	stateIdle refreshState = iota
	stateRefreshing
)

// Coordinator serializes token refreshes. The first request to see a 401
// runs the refresh; requests that see a 401 while it is running wait for its
// outcome instead of starting their own.
type Coordinator struct {
	tokens    TokenSource
	onExpired func()

	mu      sync.Mutex
	state   refreshState
	waiters []chan bool
}

// NewCoordinator returns an idle coordinator. onExpired, if set, is called
// once for every refresh that fails.
func NewCoordinator(tokens TokenSource, onExpired func()) *Coordinator {
	return &Coordinator{
		tokens:    tokens,
		onExpired: onExpired,
	}
}

// Renew is called by a request that was rejected with 401 after being sent
// with sentToken. It returns the token to replay the request with, or
// ErrSessionExpired when the session cannot be renewed. A canceled ctx stops
// the wait but not a refresh already running for other requests.
func (c *Coordinator) Renew(ctx context.Context, sentToken string) (string, error) {
	c.mu.Lock()

	if c.state == stateRefreshing {
		done := make(chan bool, 1)
		c.waiters = append(c.waiters, done)
		queued := len(c.waiters)
		c.mu.Unlock()

		slog.Debug("Waiting for token refresh", "queued", queued)
		select {
		case ok := <-done:
			if !ok {
				return "", ErrSessionExpired
			}
			return c.tokens.AccessToken(), nil
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}

	// The token changed since this request went out: another request already
	// renewed it, or the session was cleared by a failed refresh or logout.
	// A request sent without a token has no session to renew.
	if current := c.tokens.AccessToken(); current != sentToken || sentToken == "" {
		c.mu.Unlock()
		if current == "" {
			return "", ErrSessionExpired
		}
		return current, nil
	}

	c.state = stateRefreshing
	c.mu.Unlock()

	ok := false
	defer c.settle(&ok)

	slog.Debug("Refreshing access token")
	ok = c.tokens.Refresh(ctx)
	if !ok {
		return "", ErrSessionExpired
	}
	return c.tokens.AccessToken(), nil
}

// settle returns the coordinator to idle and releases the queue in arrival
// order. It runs even if Refresh panics, in which case waiters fail.
func (c *Coordinator) settle(ok *bool) {
	c.mu.Lock()
	waiters := c.waiters
	c.waiters = nil
	c.state = stateIdle
	c.mu.Unlock()

	for _, w := range waiters {
		w <- *ok
	}

	if !*ok {
		slog.Info("Token refresh failed, session expired", "released", len(waiters))
		if c.onExpired != nil {
			c.onExpired()
		}
	}
}

// Refreshing reports whether a refresh is in flight
func (c *Coordinator) Refreshing() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state == stateRefreshing
}
