// ABOUTME: Credential store owning the current session
// ABOUTME: Login, registration, logout, token refresh and profile fetch against the backend

package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/sultankost/kost/internal/apierr"
)

const (
	pathLogin        = "auth/login/"
	pathRegistration = "auth/registration/"
	pathLogout       = "auth/logout/"
	pathRefresh      = "auth/token/refresh/"
	pathUser         = "auth/user/"

	// logoutTimeout bounds the best-effort backend notification on logout
	logoutTimeout = 5 * time.Second
	// refreshTimeout bounds a token exchange that no longer follows its caller
	refreshTimeout = 30 * time.Second
	maxAuthBody   = 64 << 10
)

// Credentials for Login. Exactly one of Username or Email is expected.
type Credentials struct {
	Username string `json:"username,omitempty"`
	Email    string `json:"email,omitempty"`
	Password string `json:"password"`
}

// RegisterData for Register
type RegisterData struct {
	Username  string `json:"username"`
	Email     string `json:"email"`
	Password1 string `json:"password1"`
	Password2 string `json:"password2"`
}

// tokenResponse covers login, registration and refresh bodies
type tokenResponse struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

// Store owns the session. All session mutations go through its methods.
// It is safe for concurrent use.
type Store struct {
	baseURL    string
	httpClient *http.Client
	file       *SessionFile
	now        func() time.Time

	mu      sync.RWMutex
	session Session

	userGroup singleflight.Group
}

type Option func(*Store)

// WithHTTPClient sets the client used for auth calls
func WithHTTPClient(c *http.Client) Option {
	return func(s *Store) {
		if c != nil {
			s.httpClient = c
		}
	}
}

// WithSessionFile persists tokens so a later process can restore the session
func WithSessionFile(f *SessionFile) Option {
	return func(s *Store) {
		s.file = f
	}
}

// NewStore creates a store talking to the API rooted at baseURL.
// The session starts empty; call InitSession to restore a persisted one.
func NewStore(baseURL string, opts ...Option) *Store {
	if !strings.HasSuffix(baseURL, "/") {
		baseURL += "/"
	}
	s := &Store{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		now: time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Session returns a snapshot of the current session
func (s *Store) Session() Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sess := s.session
	if sess.User != nil {
		u := *sess.User
		sess.User = &u
	}
	return sess
}

func (s *Store) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.session.IsAuthenticated()
}

// AccessToken returns the current access token, empty when unauthenticated
func (s *Store) AccessToken() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.session.AccessToken
}

// User returns the cached profile, nil when not fetched
func (s *Store) User() *User {
	return s.Session().User
}

// Login exchanges credentials for tokens and then fetches the profile
func (s *Store) Login(ctx context.Context, creds Credentials) Result {
	status, body, err := s.send(ctx, http.MethodPost, pathLogin, creds, "")
	if err != nil {
		slog.Warn("Login request failed", "error", err)
		return failure(NetworkOrServerError, DefaultLoginMessage)
	}
	if !isSuccess(status) {
		return failure(loginErrorKind(status), messageOr(body, DefaultLoginMessage))
	}

	var tokens tokenResponse
	if err := json.Unmarshal(body, &tokens); err != nil || tokens.Access == "" {
		slog.Warn("Login response carried no access token", "status", status)
		return failure(NetworkOrServerError, DefaultLoginMessage)
	}

	s.storeTokens(tokens.Access, tokens.Refresh)
	s.FetchUser(ctx)

	slog.Info("Login succeeded", "user", s.User().DisplayName())
	return success()
}

// Register creates an account. When the backend answers with tokens the new
// account is logged in right away.
func (s *Store) Register(ctx context.Context, data RegisterData) Result {
	status, body, err := s.send(ctx, http.MethodPost, pathRegistration, data, "")
	if err != nil {
		slog.Warn("Registration request failed", "error", err)
		return failure(NetworkOrServerError, DefaultRegisterMessage)
	}
	if !isSuccess(status) {
		kind := NetworkOrServerError
		if status == http.StatusBadRequest {
			kind = ValidationFailed
		}
		msg := apierr.Decode(body).FirstMessage()
		if msg == "" {
			msg = DefaultRegisterMessage
		}
		return failure(kind, msg)
	}

	var tokens tokenResponse
	if err := json.Unmarshal(body, &tokens); err == nil && tokens.Access != "" {
		s.storeTokens(tokens.Access, tokens.Refresh)
		s.FetchUser(ctx)
	}
	return success()
}

// Logout tells the backend to blacklist the refresh token and clears the
// local session. Backend failures are ignored.
func (s *Store) Logout(ctx context.Context) {
	sess := s.Session()

	if sess.IsAuthenticated() || sess.RefreshToken != "" {
		notifyCtx, cancel := context.WithTimeout(ctx, logoutTimeout)
		var payload interface{} = struct{}{}
		if sess.RefreshToken != "" {
			payload = map[string]string{"refresh": sess.RefreshToken}
		}
		if status, _, err := s.send(notifyCtx, http.MethodPost, pathLogout, payload, sess.AccessToken); err != nil {
			slog.Debug("Logout notification failed", "error", err)
		} else if !isSuccess(status) {
			slog.Debug("Logout notification rejected", "status", status)
		}
		cancel()
	}

	s.clear()
	slog.Info("Logged out")
}

// Refresh exchanges the refresh token for a new access token. On any failure
// the whole session is cleared and false is returned. The exchange is not
// canceled with ctx: other requests may be waiting on its outcome, and a
// caller giving up says nothing about the refresh token.
func (s *Store) Refresh(ctx context.Context) bool {
	s.mu.RLock()
	refresh := s.session.RefreshToken
	s.mu.RUnlock()

	if refresh == "" {
		slog.Debug("No refresh token, clearing session")
		s.clear()
		return false
	}

	exchangeCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), refreshTimeout)
	defer cancel()

	status, body, err := s.send(exchangeCtx, http.MethodPost, pathRefresh, map[string]string{"refresh": refresh}, "")
	if err != nil {
		slog.Warn("Token refresh failed", "error", err)
		s.clear()
		return false
	}
	if !isSuccess(status) {
		slog.Info("Token refresh rejected", "status", status)
		s.clear()
		return false
	}

	var tokens tokenResponse
	if err := json.Unmarshal(body, &tokens); err != nil || tokens.Access == "" {
		slog.Warn("Token refresh response carried no access token")
		s.clear()
		return false
	}

	if tokens.Refresh == "" {
		tokens.Refresh = refresh
	}
	s.storeTokens(tokens.Access, tokens.Refresh)
	slog.Debug("Access token refreshed")
	return true
}

// FetchUser loads the profile for the current token. Any failure leaves the
// profile nil. Concurrent callers share one request.
func (s *Store) FetchUser(ctx context.Context) *User {
	v, _, _ := s.userGroup.Do("user", func() (interface{}, error) {
		return s.fetchUser(ctx), nil
	})
	u, _ := v.(*User)
	return u
}

func (s *Store) fetchUser(ctx context.Context) *User {
	token := s.AccessToken()
	if token == "" {
		return nil
	}

	var user *User
	status, body, err := s.send(ctx, http.MethodGet, pathUser, nil, token)
	switch {
	case err != nil:
		slog.Debug("Profile fetch failed", "error", err)
	case !isSuccess(status):
		slog.Debug("Profile fetch rejected", "status", status)
	default:
		var u User
		if err := json.Unmarshal(body, &u); err != nil {
			slog.Debug("Profile response invalid", "error", err)
		} else {
			user = &u
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	// A concurrent login, refresh or logout owns the session now
	if s.session.AccessToken != token {
		return s.session.User
	}
	s.session.User = user
	return user
}

// InitSession restores a persisted session. Without stored tokens the
// session stays empty. A stored access token is validated by fetching the
// profile; if that fails a refresh is attempted once.
func (s *Store) InitSession(ctx context.Context) {
	access, refresh, err := s.file.Load()
	if err != nil {
		slog.Warn("Could not read session file", "path", s.file.Path(), "error", err)
		return
	}
	if access == "" {
		return
	}

	s.mu.Lock()
	s.session = Session{AccessToken: access, RefreshToken: refresh}
	s.mu.Unlock()

	// Skip the round trip when the token says it is already expired
	if !Expired(access, s.now()) && s.FetchUser(ctx) != nil {
		return
	}

	if s.Refresh(ctx) {
		s.FetchUser(ctx)
	}
}

// CaptureSocialCallback stores tokens delivered by the OAuth redirect exactly
// as a successful login would, then fetches the profile.
func (s *Store) CaptureSocialCallback(ctx context.Context, access, refresh string) Result {
	if access == "" {
		return failure(InvalidCredentials, MissingSocialToken)
	}
	s.storeTokens(access, refresh)
	s.FetchUser(ctx)
	return success()
}

// TokenExpiry returns when the current access token expires, if it says
func (s *Store) TokenExpiry() (time.Time, bool) {
	return ExpiresAt(s.AccessToken())
}

// storeTokens replaces both tokens. The cached profile is dropped when the
// access token changes hands.
func (s *Store) storeTokens(access, refresh string) {
	s.mu.Lock()
	if s.session.AccessToken != access {
		s.session.User = nil
	}
	s.session.AccessToken = access
	s.session.RefreshToken = refresh
	s.mu.Unlock()

	if err := s.file.Save(access, refresh); err != nil {
		slog.Warn("Could not persist session", "path", s.file.Path(), "error", err)
	}
}

func (s *Store) clear() {
	s.mu.Lock()
	s.session = Session{}
	s.mu.Unlock()

	if err := s.file.Clear(); err != nil {
		slog.Warn("Could not remove session file", "path", s.file.Path(), "error", err)
	}
}

// send performs one auth call and returns status and body
func (s *Store) send(ctx context.Context, method, path string, payload interface{}, token string) (int, []byte, error) {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return 0, nil, fmt.Errorf("failed to marshal request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, s.baseURL+path, body)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return 0, nil, ctx.Err()
		}
		return 0, nil, fmt.Errorf("cannot connect to backend at %s: %w", s.baseURL, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxAuthBody))
	if err != nil {
		return resp.StatusCode, nil, fmt.Errorf("failed to read response: %w", err)
	}
	return resp.StatusCode, data, nil
}

func isSuccess(status int) bool {
	return status >= 200 && status < 300
}

func loginErrorKind(status int) ErrorKind {
	if status == http.StatusBadRequest || status == http.StatusUnauthorized || status == http.StatusForbidden {
		return InvalidCredentials
	}
	return NetworkOrServerError
}

// messageOr decodes a backend error body, falling back to def
func messageOr(body []byte, def string) string {
	if msg := apierr.Decode(body).Message(); msg != "" {
		return msg
	}
	return def
}
