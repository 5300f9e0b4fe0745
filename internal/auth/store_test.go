// ABOUTME: Tests for the credential store against a fake backend
// ABOUTME: Covers login errors, registration, logout, refresh rotation and session restore

package auth

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

// fakeBackend mimics the auth endpoints of the kost API
type fakeBackend struct {
	mu sync.Mutex

	validAccess  string
	validRefresh string

	loginStatus int
	loginBody   string

	registerStatus int
	registerBody   string

	refreshStatus int
	refreshBody   string

	logoutStatus int
	logoutBodies []string

	userCalls    int32
	refreshCalls int32

	// refreshGate, when set, holds refresh requests until closed. Each
	// held request is announced on refreshSeen first.
	refreshGate chan struct{}
	refreshSeen chan struct{}
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{
		validAccess:    "access-1",
		validRefresh:   "refresh-1",
		loginStatus:    http.StatusOK,
		loginBody:      `{"access":"access-1","refresh":"refresh-1"}`,
		registerStatus: http.StatusCreated,
		registerBody:   `{"detail":"Verification e-mail sent."}`,
		refreshStatus:  http.StatusOK,
		refreshBody:    `{"access":"access-2"}`,
		logoutStatus:   http.StatusOK,
	}
}

func (b *fakeBackend) server(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/auth/token/refresh/" && b.refreshGate != nil {
			b.refreshSeen <- struct{}{}
			<-b.refreshGate
		}

		b.mu.Lock()
		defer b.mu.Unlock()

		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/api/auth/login/":
			w.WriteHeader(b.loginStatus)
			w.Write([]byte(b.loginBody))
		case "/api/auth/registration/":
			w.WriteHeader(b.registerStatus)
			w.Write([]byte(b.registerBody))
		case "/api/auth/token/refresh/":
			atomic.AddInt32(&b.refreshCalls, 1)
			var body map[string]string
			json.NewDecoder(r.Body).Decode(&body)
			if body["refresh"] != b.validRefresh {
				w.WriteHeader(http.StatusUnauthorized)
				w.Write([]byte(`{"detail":"Token is invalid or expired","code":"token_not_valid"}`))
				return
			}
			w.WriteHeader(b.refreshStatus)
			w.Write([]byte(b.refreshBody))
			var tokens tokenResponse
			if json.Unmarshal([]byte(b.refreshBody), &tokens) == nil && tokens.Access != "" {
				b.validAccess = tokens.Access
			}
		case "/api/auth/logout/":
			data, _ := io.ReadAll(r.Body)
			b.logoutBodies = append(b.logoutBodies, string(data))
			w.WriteHeader(b.logoutStatus)
			w.Write([]byte(`{"detail":"Successfully logged out."}`))
		case "/api/auth/user/":
			atomic.AddInt32(&b.userCalls, 1)
			if r.Header.Get("Authorization") != "Bearer "+b.validAccess {
				w.WriteHeader(http.StatusUnauthorized)
				w.Write([]byte(`{"detail":"Given token not valid for any token type"}`))
				return
			}
			w.Write([]byte(`{"pk":7,"username":"ibu_kos","email":"kos@example.com","first_name":"Sri","last_name":"Wahyuni"}`))
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func newTestStore(t *testing.T, srv *httptest.Server, file *SessionFile) *Store {
	t.Helper()
	return NewStore(srv.URL+"/api/", WithHTTPClient(srv.Client()), WithSessionFile(file))
}

func TestLogin_Success(t *testing.T) {
	b := newFakeBackend()
	srv := b.server(t)
	file := NewSessionFile(t.TempDir())
	s := newTestStore(t, srv, file)

	res := s.Login(context.Background(), Credentials{Username: "ibu_kos", Password: "rahasia"})
	if !res.OK {
		t.Fatalf("expected login to succeed, got %+v", res)
	}
	if !s.IsAuthenticated() {
		t.Error("expected authenticated session")
	}
	if got := s.User().DisplayName(); got != "Sri" {
		t.Errorf("expected display name Sri, got %q", got)
	}

	access, refresh, err := file.Load()
	if err != nil {
		t.Fatalf("unexpected error loading session file: %v", err)
	}
	if access != "access-1" || refresh != "refresh-1" {
		t.Errorf("expected persisted tokens, got %q / %q", access, refresh)
	}
}

func TestLogin_InvalidCredentials(t *testing.T) {
	b := newFakeBackend()
	b.loginStatus = http.StatusBadRequest
	b.loginBody = `{"non_field_errors":["invalid credentials"]}`
	srv := b.server(t)
	s := newTestStore(t, srv, nil)

	res := s.Login(context.Background(), Credentials{Username: "x", Password: "wrong"})
	if res.OK {
		t.Fatal("expected login to fail")
	}
	if res.Message != "invalid credentials" {
		t.Errorf("expected backend message, got %q", res.Message)
	}
	if res.Kind != InvalidCredentials {
		t.Errorf("expected InvalidCredentials, got %v", res.Kind)
	}
	if s.IsAuthenticated() {
		t.Error("expected session to stay unauthenticated")
	}
}

func TestLogin_ErrorMessages(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		body     string
		expected string
		kind     ErrorKind
	}{
		{"detail", http.StatusUnauthorized, `{"detail":"No active account found"}`, "No active account found", InvalidCredentials},
		{"unrecognized body", http.StatusBadRequest, `<html>oops</html>`, DefaultLoginMessage, InvalidCredentials},
		{"server error", http.StatusInternalServerError, `{"detail":"Server down"}`, "Server down", NetworkOrServerError},
		{"success without token", http.StatusOK, `{}`, DefaultLoginMessage, NetworkOrServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := newFakeBackend()
			b.loginStatus = tt.status
			b.loginBody = tt.body
			s := newTestStore(t, b.server(t), nil)

			res := s.Login(context.Background(), Credentials{Email: "a@b.c", Password: "p"})
			if res.OK {
				t.Fatal("expected failure")
			}
			if res.Message != tt.expected {
				t.Errorf("expected message %q, got %q", tt.expected, res.Message)
			}
			if res.Kind != tt.kind {
				t.Errorf("expected kind %v, got %v", tt.kind, res.Kind)
			}
		})
	}
}

func TestLogin_NetworkFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	s := NewStore(url + "/api/")
	res := s.Login(context.Background(), Credentials{Username: "x", Password: "y"})
	if res.OK {
		t.Fatal("expected failure")
	}
	if res.Kind != NetworkOrServerError || res.Message != DefaultLoginMessage {
		t.Errorf("expected network failure with default message, got %+v", res)
	}
}

func TestRegister_ValidationError(t *testing.T) {
	b := newFakeBackend()
	b.registerStatus = http.StatusBadRequest
	b.registerBody = `{"username":["A user with that username already exists."],"password1":["This password is too short."]}`
	s := newTestStore(t, b.server(t), nil)

	res := s.Register(context.Background(), RegisterData{Username: "ibu_kos", Email: "a@b.c", Password1: "x", Password2: "x"})
	if res.OK {
		t.Fatal("expected failure")
	}
	if res.Kind != ValidationFailed {
		t.Errorf("expected ValidationFailed, got %v", res.Kind)
	}
	if res.Message != "A user with that username already exists." {
		t.Errorf("expected first flagged field message, got %q", res.Message)
	}
}

func TestRegister_FirstEmittedFieldWins(t *testing.T) {
	b := newFakeBackend()
	b.registerStatus = http.StatusBadRequest
	b.registerBody = `{"password1":["This password is too short."],"non_field_errors":["The two password fields didn't match."]}`
	s := newTestStore(t, b.server(t), nil)

	res := s.Register(context.Background(), RegisterData{Username: "ibu_kos", Email: "a@b.c", Password1: "x", Password2: "y"})
	if res.Message != "This password is too short." {
		t.Errorf("expected the first field the backend emitted, got %q", res.Message)
	}
}

func TestRegister_DefaultMessage(t *testing.T) {
	b := newFakeBackend()
	b.registerStatus = http.StatusBadRequest
	b.registerBody = `{}`
	s := newTestStore(t, b.server(t), nil)

	res := s.Register(context.Background(), RegisterData{})
	if res.Message != DefaultRegisterMessage {
		t.Errorf("expected default message, got %q", res.Message)
	}
}

func TestRegister_WithoutTokensStaysLoggedOut(t *testing.T) {
	b := newFakeBackend()
	s := newTestStore(t, b.server(t), nil)

	res := s.Register(context.Background(), RegisterData{Username: "baru", Email: "b@c.d", Password1: "pw", Password2: "pw"})
	if !res.OK {
		t.Fatalf("expected success, got %+v", res)
	}
	if s.IsAuthenticated() {
		t.Error("expected no session when backend returns no tokens")
	}
}

func TestRegister_WithTokensLogsIn(t *testing.T) {
	b := newFakeBackend()
	b.registerBody = `{"access":"access-1","refresh":"refresh-1"}`
	s := newTestStore(t, b.server(t), nil)

	res := s.Register(context.Background(), RegisterData{Username: "ibu_kos", Email: "a@b.c", Password1: "pw", Password2: "pw"})
	if !res.OK {
		t.Fatalf("expected success, got %+v", res)
	}
	if !s.IsAuthenticated() || s.User() == nil {
		t.Error("expected implicit login with profile")
	}
}

func TestLogout_ClearsEvenWhenBackendFails(t *testing.T) {
	b := newFakeBackend()
	b.logoutStatus = http.StatusInternalServerError
	file := NewSessionFile(t.TempDir())
	s := newTestStore(t, b.server(t), file)

	s.Login(context.Background(), Credentials{Username: "ibu_kos", Password: "pw"})
	s.Logout(context.Background())

	if s.IsAuthenticated() {
		t.Error("expected session cleared")
	}
	if s.User() != nil {
		t.Error("expected user cleared")
	}
	if access, _, _ := file.Load(); access != "" {
		t.Error("expected session file removed")
	}
	if len(b.logoutBodies) != 1 || !strings.Contains(b.logoutBodies[0], "refresh-1") {
		t.Errorf("expected logout to send the refresh token, got %v", b.logoutBodies)
	}
}

func TestLogout_ClearsWhenBackendUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	s := NewStore(url + "/api/")
	s.storeTokens("access-1", "refresh-1")

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	s.Logout(ctx)

	if s.IsAuthenticated() {
		t.Error("expected session cleared")
	}
}

func TestRefresh_KeepsRefreshTokenWhenNotRotated(t *testing.T) {
	b := newFakeBackend()
	s := newTestStore(t, b.server(t), nil)
	s.storeTokens("access-1", "refresh-1")

	if !s.Refresh(context.Background()) {
		t.Fatal("expected refresh to succeed")
	}
	sess := s.Session()
	if sess.AccessToken != "access-2" {
		t.Errorf("expected new access token, got %q", sess.AccessToken)
	}
	if sess.RefreshToken != "refresh-1" {
		t.Errorf("expected refresh token kept, got %q", sess.RefreshToken)
	}
}

func TestRefresh_RotatesRefreshToken(t *testing.T) {
	b := newFakeBackend()
	b.refreshBody = `{"access":"access-2","refresh":"refresh-2"}`
	s := newTestStore(t, b.server(t), nil)
	s.storeTokens("access-1", "refresh-1")

	if !s.Refresh(context.Background()) {
		t.Fatal("expected refresh to succeed")
	}
	if got := s.Session().RefreshToken; got != "refresh-2" {
		t.Errorf("expected rotated refresh token, got %q", got)
	}
}

func TestRefresh_FailureClearsSession(t *testing.T) {
	b := newFakeBackend()
	file := NewSessionFile(t.TempDir())
	s := newTestStore(t, b.server(t), file)
	s.storeTokens("access-1", "stale-refresh")

	if s.Refresh(context.Background()) {
		t.Fatal("expected refresh to fail")
	}
	if s.IsAuthenticated() {
		t.Error("expected session cleared")
	}
	if access, _, _ := file.Load(); access != "" {
		t.Error("expected session file cleared")
	}
}

func TestRefresh_OutlivesCanceledCaller(t *testing.T) {
	b := newFakeBackend()
	b.refreshGate = make(chan struct{})
	b.refreshSeen = make(chan struct{}, 1)
	file := NewSessionFile(t.TempDir())
	s := newTestStore(t, b.server(t), file)
	s.storeTokens("access-1", "refresh-1")

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan bool, 1)
	go func() { done <- s.Refresh(ctx) }()

	<-b.refreshSeen
	cancel()
	close(b.refreshGate)

	if !<-done {
		t.Fatal("expected refresh to complete after the caller gave up")
	}
	if got := s.AccessToken(); got != "access-2" {
		t.Errorf("expected access-2, got %q", got)
	}
	access, refresh, _ := file.Load()
	if access != "access-2" || refresh != "refresh-1" {
		t.Errorf("expected session file kept with new access token, got %q/%q", access, refresh)
	}
}

func TestRefresh_NoRefreshToken(t *testing.T) {
	b := newFakeBackend()
	s := newTestStore(t, b.server(t), nil)
	s.storeTokens("access-1", "")

	if s.Refresh(context.Background()) {
		t.Fatal("expected refresh to fail without a refresh token")
	}
	if atomic.LoadInt32(&b.refreshCalls) != 0 {
		t.Error("expected no backend call without a refresh token")
	}
	if s.IsAuthenticated() {
		t.Error("expected session cleared")
	}
}

func TestFetchUser_FailureSetsNil(t *testing.T) {
	b := newFakeBackend()
	s := newTestStore(t, b.server(t), nil)
	s.storeTokens("access-1", "refresh-1")
	if s.FetchUser(context.Background()) == nil {
		t.Fatal("expected profile")
	}

	s.storeTokens("bogus", "refresh-1")
	if u := s.FetchUser(context.Background()); u != nil {
		t.Errorf("expected nil user, got %+v", u)
	}
	if !s.IsAuthenticated() {
		t.Error("profile failure must not clear the session")
	}
}

func TestFetchUser_ConcurrentCallsShareRequest(t *testing.T) {
	release := make(chan struct{})
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		<-release
		w.Write([]byte(`{"pk":1,"username":"a"}`))
	}))
	defer srv.Close()

	s := NewStore(srv.URL+"/api/", WithHTTPClient(srv.Client()))
	s.storeTokens("t", "r")

	var wg sync.WaitGroup
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.FetchUser(context.Background())
		}()
	}
	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	if got := atomic.LoadInt32(&calls); got != 1 {
		t.Errorf("expected 1 profile request, got %d", got)
	}
}

func TestInitSession_FreshProcess(t *testing.T) {
	b := newFakeBackend()
	s := newTestStore(t, b.server(t), NewSessionFile(t.TempDir()))

	s.InitSession(context.Background())

	if s.IsAuthenticated() {
		t.Error("expected unauthenticated session")
	}
	if atomic.LoadInt32(&b.userCalls) != 0 || atomic.LoadInt32(&b.refreshCalls) != 0 {
		t.Error("expected no backend calls without stored tokens")
	}
}

func TestInitSession_ValidToken(t *testing.T) {
	b := newFakeBackend()
	file := NewSessionFile(t.TempDir())
	file.Save("access-1", "refresh-1")
	s := newTestStore(t, b.server(t), file)

	s.InitSession(context.Background())

	if !s.IsAuthenticated() || s.User() == nil {
		t.Fatal("expected restored session with profile")
	}
	if atomic.LoadInt32(&b.refreshCalls) != 0 {
		t.Error("expected no refresh for a valid token")
	}
}

func TestInitSession_ExpiredTokenRefreshes(t *testing.T) {
	b := newFakeBackend()
	file := NewSessionFile(t.TempDir())
	file.Save("old-access", "refresh-1")
	s := newTestStore(t, b.server(t), file)

	s.InitSession(context.Background())

	sess := s.Session()
	if sess.AccessToken != "access-2" {
		t.Errorf("expected refreshed access token, got %q", sess.AccessToken)
	}
	if sess.User == nil {
		t.Error("expected profile after refresh")
	}
}

func TestInitSession_RefreshFails(t *testing.T) {
	b := newFakeBackend()
	file := NewSessionFile(t.TempDir())
	file.Save("old-access", "old-refresh")
	s := newTestStore(t, b.server(t), file)

	s.InitSession(context.Background())

	if s.IsAuthenticated() {
		t.Error("expected session cleared when refresh fails")
	}
}

func TestCaptureSocialCallback(t *testing.T) {
	b := newFakeBackend()
	s := newTestStore(t, b.server(t), nil)

	res := s.CaptureSocialCallback(context.Background(), "access-1", "")
	if !res.OK {
		t.Fatalf("expected success, got %+v", res)
	}
	if !s.IsAuthenticated() {
		t.Error("expected authenticated session")
	}
	if s.User() == nil {
		t.Error("expected profile after capture")
	}
}

func TestCaptureSocialCallback_MissingToken(t *testing.T) {
	s := NewStore("http://127.0.0.1:1/api/")

	res := s.CaptureSocialCallback(context.Background(), "", "")
	if res.OK || res.Message != MissingSocialToken {
		t.Errorf("expected missing token failure, got %+v", res)
	}
}

func TestCaptureSocialCallback_ReplacesPreviousRefreshToken(t *testing.T) {
	b := newFakeBackend()
	s := newTestStore(t, b.server(t), nil)
	s.storeTokens("someone-else", "their-refresh")

	s.CaptureSocialCallback(context.Background(), "access-1", "")

	if got := s.Session().RefreshToken; got != "" {
		t.Errorf("expected previous refresh token dropped, got %q", got)
	}
}
