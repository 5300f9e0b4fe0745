// ABOUTME: Per-invocation wiring of config, credential store and API client
// ABOUTME: Maps session expiry and backend failures to exit codes

package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/sultankost/kost/internal/auth"
	"github.com/sultankost/kost/internal/cache"
	"github.com/sultankost/kost/internal/client"
	"github.com/sultankost/kost/internal/config"
	"github.com/sultankost/kost/internal/logger"
)

var errNotLoggedIn = errors.New("not logged in")

// env bundles what a command needs to talk to the backend
type env struct {
	cfg     *config.Config
	store   *auth.Store
	api     *client.Client
	expired atomic.Bool

	// expiredCh receives a value when a refresh fails; the TUI listens on it
	expiredCh chan struct{}
}

// newEnv loads configuration, restores the saved session and builds the API
// client. Logs go to stderr so stdout stays parseable with --json.
func newEnv(ctx context.Context) (*env, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	// The --api-url flag wins over KOST_API_URL
	if cfg.APIURL, err = config.NormalizeAPIURL(GetAPIURL()); err != nil {
		return nil, err
	}

	logger.Init(os.Stderr, cfg.LogLevel, cfg.LogFormat)

	httpClient, err := client.NewHTTPClient(time.Duration(cfg.Timeout)*time.Second, cfg.AllProxy)
	if err != nil {
		return nil, err
	}

	e := &env{cfg: cfg, expiredCh: make(chan struct{}, 1)}
	e.store = auth.NewStore(cfg.APIURL,
		auth.WithHTTPClient(httpClient),
		auth.WithSessionFile(auth.NewSessionFile(cfg.ConfigDir)),
	)
	e.store.InitSession(ctx)

	e.api = client.New(cfg.APIURL, e.store,
		client.WithHTTPClient(httpClient),
		client.WithCache(cache.New(time.Duration(cfg.CacheTTL)*time.Second)),
		client.WithSessionExpiredHook(e.sessionExpired),
	)
	return e, nil
}

func (e *env) sessionExpired() {
	e.expired.Store(true)
	select {
	case e.expiredCh <- struct{}{}:
	default:
	}
}

// authenticated is newEnv for commands that need a logged-in session
func authenticated(ctx context.Context) (*env, error) {
	e, err := newEnv(ctx)
	if err != nil {
		return nil, err
	}
	if !e.store.IsAuthenticated() {
		return nil, errNotLoggedIn
	}
	return e, nil
}

// fail prints err and returns the matching exit code. e may be nil.
func fail(w io.Writer, e *env, err error) int {
	switch {
	case errors.Is(err, errNotLoggedIn):
		fmt.Fprintln(w, "Error: not logged in. Run 'kost login' first.")
		return exitSessionExpired
	case errors.Is(err, client.ErrSessionExpired), e != nil && e.expired.Load():
		fmt.Fprintln(w, "Error: session expired. Run 'kost login' to sign in again.")
		return exitSessionExpired
	}

	var apiErr *client.APIError
	if errors.As(err, &apiErr) {
		fmt.Fprintf(w, "Error: %s\n", apiErr.Message())
		return exitError
	}
	fmt.Fprintf(w, "Error: %v\n", err)
	return exitError
}

// printJSON writes v as indented JSON
func printJSON(w io.Writer, v interface{}) int {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fail(w, nil, err)
	}
	fmt.Fprintln(w, string(data))
	return exitOK
}

// parseID reads a positive numeric resource id argument
func parseID(arg string) (int, error) {
	id, err := strconv.Atoi(arg)
	if err != nil || id < 1 {
		return 0, fmt.Errorf("invalid id %q", arg)
	}
	return id, nil
}
