package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/hitoshi/supavacation/internal/model"
)

// --- モック定義 ---

type mockAuthService struct {
	requestSignInFn  func(ctx context.Context, identifier string) error
	verifySignInFn   func(ctx context.Context, rawToken string) (*model.Session, error)
	logoutFn         func(ctx context.Context, sessionID string) error
	getCurrentUserFn func(ctx context.Context, sessionID string) (*model.User, error)
}

func (m *mockAuthService) RequestSignIn(ctx context.Context, identifier string) error {
	if m.requestSignInFn != nil {
		return m.requestSignInFn(ctx, identifier)
	}
	return nil
}

func (m *mockAuthService) VerifySignIn(ctx context.Context, rawToken string) (*model.Session, error) {
	if m.verifySignInFn != nil {
		return m.verifySignInFn(ctx, rawToken)
	}
	return nil, nil
}

func (m *mockAuthService) Logout(ctx context.Context, sessionID string) error {
	if m.logoutFn != nil {
		return m.logoutFn(ctx, sessionID)
	}
	return nil
}

func (m *mockAuthService) GetCurrentUser(ctx context.Context, sessionID string) (*model.User, error) {
	if m.getCurrentUserFn != nil {
		return m.getCurrentUserFn(ctx, sessionID)
	}
	return nil, nil
}

var _ AuthServiceInterface = (*mockAuthService)(nil)

func testAuthConfig() AuthHandlerConfig {
	return AuthHandlerConfig{
		BaseURL:       "http://localhost:3000",
		CookieDomain:  "",
		CookieSecure:  false,
		SessionMaxAge: 86400,
	}
}

// --- Signin ---

func TestAuthHandler_Signin_Success(t *testing.T) {
	var requested string
	svc := &mockAuthService{
		requestSignInFn: func(ctx context.Context, identifier string) error {
			requested = identifier
			return nil
		},
	}
	h := NewAuthHandler(svc, testAuthConfig())

	req := httptest.NewRequest(http.MethodPost, "/auth/signin", strings.NewReader(`{"email":"guest@example.com"}`))
	w := httptest.NewRecorder()

	h.Signin(w, req)

	resp := w.Result()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want %d", resp.StatusCode, http.StatusOK)
	}
	if requested != "guest@example.com" {
		t.Errorf("requested identifier = %q", requested)
	}
}

func TestAuthHandler_Signin_InvalidEmail_Returns400(t *testing.T) {
	svc := &mockAuthService{
		requestSignInFn: func(ctx context.Context, identifier string) error {
			return model.NewInvalidEmailError(identifier)
		},
	}
	h := NewAuthHandler(svc, testAuthConfig())

	req := httptest.NewRequest(http.MethodPost, "/auth/signin", strings.NewReader(`{"email":"not-an-email"}`))
	w := httptest.NewRecorder()

	h.Signin(w, req)

	resp := w.Result()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", resp.StatusCode, http.StatusBadRequest)
	}
}

func TestAuthHandler_Signin_MalformedBody_Returns400(t *testing.T) {
	h := NewAuthHandler(&mockAuthService{}, testAuthConfig())

	req := httptest.NewRequest(http.MethodPost, "/auth/signin", strings.NewReader("{bad"))
	w := httptest.NewRecorder()

	h.Signin(w, req)

	if w.Result().StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", w.Result().StatusCode, http.StatusBadRequest)
	}
}

func TestAuthHandler_Signin_ServiceError_Returns500(t *testing.T) {
	svc := &mockAuthService{
		requestSignInFn: func(ctx context.Context, identifier string) error {
			return errors.New("db error")
		},
	}
	h := NewAuthHandler(svc, testAuthConfig())

	req := httptest.NewRequest(http.MethodPost, "/auth/signin", strings.NewReader(`{"email":"guest@example.com"}`))
	w := httptest.NewRecorder()

	h.Signin(w, req)

	if w.Result().StatusCode != http.StatusInternalServerError {
		t.Fatalf("status = %d, want %d", w.Result().StatusCode, http.StatusInternalServerError)
	}
}

// --- Callback ---

func TestAuthHandler_Callback_Success_SetsCookieAndRedirects(t *testing.T) {
	svc := &mockAuthService{
		verifySignInFn: func(ctx context.Context, rawToken string) (*model.Session, error) {
			if rawToken != "raw-token-abc" {
				t.Errorf("rawToken = %q", rawToken)
			}
			return &model.Session{
				ID:        "session-id-abc",
				UserID:    "user-id-123",
				ExpiresAt: time.Now().Add(24 * time.Hour),
			}, nil
		},
	}
	h := NewAuthHandler(svc, testAuthConfig())

	req := httptest.NewRequest(http.MethodGet, "/auth/callback?token=raw-token-abc&email=guest%40example.com", nil)
	w := httptest.NewRecorder()

	h.Callback(w, req)

	resp := w.Result()

	// リダイレクトされること
	if resp.StatusCode != http.StatusTemporaryRedirect {
		t.Errorf("status = %d, want %d", resp.StatusCode, http.StatusTemporaryRedirect)
	}

	// BaseURLにリダイレクトされること
	if location := resp.Header.Get("Location"); location != "http://localhost:3000" {
		t.Errorf("Location = %q, want %q", location, "http://localhost:3000")
	}

	// セッションCookieが設定されること
	var sessionCookie *http.Cookie
	for _, c := range resp.Cookies() {
		if c.Name == sessionCookieName {
			sessionCookie = c
		}
	}
	if sessionCookie == nil {
		t.Fatal("expected session cookie to be set")
	}
	if sessionCookie.Value != "session-id-abc" {
		t.Errorf("cookie value = %q", sessionCookie.Value)
	}
	if !sessionCookie.HttpOnly {
		t.Error("session cookie should be HTTP only")
	}
}

func TestAuthHandler_Callback_InvalidToken_RedirectsToErrorPage(t *testing.T) {
	svc := &mockAuthService{
		verifySignInFn: func(ctx context.Context, rawToken string) (*model.Session, error) {
			return nil, model.NewTokenExpiredError()
		},
	}
	h := NewAuthHandler(svc, testAuthConfig())

	req := httptest.NewRequest(http.MethodGet, "/auth/callback?token=expired-token", nil)
	w := httptest.NewRecorder()

	h.Callback(w, req)

	resp := w.Result()

	// 失敗時もアプリケーションルートへリダイレクトすること
	if resp.StatusCode != http.StatusTemporaryRedirect {
		t.Errorf("status = %d, want %d", resp.StatusCode, http.StatusTemporaryRedirect)
	}
	location := resp.Header.Get("Location")
	if !strings.HasPrefix(location, "http://localhost:3000/") {
		t.Errorf("Location = %q, should point to application root", location)
	}
	if !strings.Contains(location, "error=Verification") {
		t.Errorf("Location = %q, should carry error query", location)
	}

	// セッションCookieは設定されないこと
	for _, c := range resp.Cookies() {
		if c.Name == sessionCookieName {
			t.Error("session cookie must not be set on failure")
		}
	}
}

// --- Logout ---

func TestAuthHandler_Logout_ClearsCookieAndRedirects(t *testing.T) {
	var loggedOut string
	svc := &mockAuthService{
		logoutFn: func(ctx context.Context, sessionID string) error {
			loggedOut = sessionID
			return nil
		},
	}
	h := NewAuthHandler(svc, testAuthConfig())

	req := httptest.NewRequest(http.MethodPost, "/auth/logout", nil)
	req.AddCookie(&http.Cookie{Name: sessionCookieName, Value: "session-id-abc"})
	w := httptest.NewRecorder()

	h.Logout(w, req)

	resp := w.Result()
	if resp.StatusCode != http.StatusTemporaryRedirect {
		t.Errorf("status = %d, want %d", resp.StatusCode, http.StatusTemporaryRedirect)
	}
	if loggedOut != "session-id-abc" {
		t.Errorf("logged out session = %q", loggedOut)
	}

	// Cookieがクリアされること（MaxAge < 0）
	var cleared bool
	for _, c := range resp.Cookies() {
		if c.Name == sessionCookieName && c.MaxAge < 0 {
			cleared = true
		}
	}
	if !cleared {
		t.Error("expected session cookie to be cleared")
	}
}

func TestAuthHandler_Logout_NoCookie_StillRedirects(t *testing.T) {
	h := NewAuthHandler(&mockAuthService{}, testAuthConfig())

	req := httptest.NewRequest(http.MethodPost, "/auth/logout", nil)
	w := httptest.NewRecorder()

	h.Logout(w, req)

	if w.Result().StatusCode != http.StatusTemporaryRedirect {
		t.Errorf("status = %d, want %d", w.Result().StatusCode, http.StatusTemporaryRedirect)
	}
}

// --- Me ---

func TestAuthHandler_Me_ReturnsCurrentUser(t *testing.T) {
	svc := &mockAuthService{
		getCurrentUserFn: func(ctx context.Context, sessionID string) (*model.User, error) {
			return &model.User{ID: "user-1", Email: "guest@example.com", Name: "Guest"}, nil
		},
	}
	h := NewAuthHandler(svc, testAuthConfig())

	req := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
	req.AddCookie(&http.Cookie{Name: sessionCookieName, Value: "session-id-abc"})
	w := httptest.NewRecorder()

	h.Me(w, req)

	resp := w.Result()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want %d", resp.StatusCode, http.StatusOK)
	}

	var body map[string]interface{}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode body: %v", err)
	}
	if body["email"] != "guest@example.com" {
		t.Errorf("email = %v", body["email"])
	}
}

func TestAuthHandler_Me_NoCookie_Returns401(t *testing.T) {
	h := NewAuthHandler(&mockAuthService{}, testAuthConfig())

	req := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
	w := httptest.NewRecorder()

	h.Me(w, req)

	resp := w.Result()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("status = %d, want %d", resp.StatusCode, http.StatusUnauthorized)
	}
	if got := decodeMessage(t, resp); got != "Unauthorized." {
		t.Errorf("message = %q, want %q", got, "Unauthorized.")
	}
}

func TestAuthHandler_Me_InvalidSession_Returns401(t *testing.T) {
	svc := &mockAuthService{
		getCurrentUserFn: func(ctx context.Context, sessionID string) (*model.User, error) {
			return nil, errors.New("session not found or expired")
		},
	}
	h := NewAuthHandler(svc, testAuthConfig())

	req := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
	req.AddCookie(&http.Cookie{Name: sessionCookieName, Value: "stale-session"})
	w := httptest.NewRecorder()

	h.Me(w, req)

	if w.Result().StatusCode != http.StatusUnauthorized {
		t.Fatalf("status = %d, want %d", w.Result().StatusCode, http.StatusUnauthorized)
	}
}
