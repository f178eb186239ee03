package auth

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/dmordi/habari-blog-be/internal/models"
)

type fakeUserLoader struct {
	user  models.User
	err   error
	calls int
}

func (f *fakeUserLoader) GetUserByID(id string) (models.User, error) {
	f.calls++
	if f.err != nil {
		return models.User{}, f.err
	}
	return f.user, nil
}

func runGuard(t *testing.T, loader *fakeUserLoader, authHeader string) (*httptest.ResponseRecorder, bool) {
	t.Helper()

	ts := newTestTokenService(time.Hour, time.Hour)
	handlerCalled := false
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		handlerCalled = true
		user, ok := UserFromContext(r.Context())
		if !ok {
			t.Fatal("expected user in context")
		}
		if user.PasswordHash != "" {
			t.Fatal("password hash must be stripped from the authenticated context")
		}
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()
	Middleware(ts, loader)(next).ServeHTTP(rec, req)
	return rec, handlerCalled
}

func TestMiddleware_NoHeader(t *testing.T) {
	t.Parallel()

	loader := &fakeUserLoader{}
	rec, called := runGuard(t, loader, "")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
	if called {
		t.Fatal("handler must not run without a token")
	}
	if loader.calls != 0 {
		t.Fatal("no store access may happen without a token")
	}
}

func TestMiddleware_BadScheme(t *testing.T) {
	t.Parallel()

	loader := &fakeUserLoader{}
	rec, called := runGuard(t, loader, "Basic dXNlcjpwYXNz")
	if rec.Code != http.StatusUnauthorized || called || loader.calls != 0 {
		t.Fatalf("expected rejected request with no store access, got code=%d called=%v calls=%d",
			rec.Code, called, loader.calls)
	}
}

func TestMiddleware_ExpiredToken(t *testing.T) {
	t.Parallel()

	expired := NewTokenService("test-secret", -time.Second, time.Hour)
	tok, err := expired.IssueSession(models.User{ID: "u1", Email: "a@b.c"})
	if err != nil {
		t.Fatalf("IssueSession error: %v", err)
	}

	loader := &fakeUserLoader{}
	rec, called := runGuard(t, loader, "Bearer "+tok)
	if rec.Code != http.StatusUnauthorized || called {
		t.Fatalf("expected 401 without handler run, got code=%d called=%v", rec.Code, called)
	}
	if !strings.Contains(rec.Body.String(), "token expired") {
		t.Fatalf("expiry must surface distinctly, got body %q", rec.Body.String())
	}
}

func TestMiddleware_DeletedUser(t *testing.T) {
	t.Parallel()

	ts := newTestTokenService(time.Hour, time.Hour)
	tok, err := ts.IssueSession(models.User{ID: "gone", Email: "a@b.c"})
	if err != nil {
		t.Fatalf("IssueSession error: %v", err)
	}

	loader := &fakeUserLoader{err: fmt.Errorf("user not found")}
	rec, called := runGuard(t, loader, "Bearer "+tok)
	if rec.Code != http.StatusUnauthorized || called {
		t.Fatalf("expected 401 without handler run, got code=%d called=%v", rec.Code, called)
	}
	if loader.calls != 1 {
		t.Fatalf("expected exactly one store read, got %d", loader.calls)
	}
}

func TestMiddleware_ResetTokenRejected(t *testing.T) {
	t.Parallel()

	ts := newTestTokenService(time.Hour, time.Hour)
	tok, err := ts.IssueReset("a@b.c")
	if err != nil {
		t.Fatalf("IssueReset error: %v", err)
	}

	loader := &fakeUserLoader{}
	rec, called := runGuard(t, loader, "Bearer "+tok)
	if rec.Code != http.StatusUnauthorized || called || loader.calls != 0 {
		t.Fatalf("reset token must not authenticate, got code=%d called=%v calls=%d",
			rec.Code, called, loader.calls)
	}
}

func TestMiddleware_Success(t *testing.T) {
	t.Parallel()

	ts := newTestTokenService(time.Hour, time.Hour)
	user := models.User{ID: "u1", Username: "dan", Email: "a@b.c", PasswordHash: "secret-hash"}
	tok, err := ts.IssueSession(user)
	if err != nil {
		t.Fatalf("IssueSession error: %v", err)
	}

	loader := &fakeUserLoader{user: user}
	rec, called := runGuard(t, loader, "Bearer "+tok)
	if rec.Code != http.StatusOK || !called {
		t.Fatalf("expected authenticated request to pass, got code=%d called=%v", rec.Code, called)
	}
	if loader.calls != 1 {
		t.Fatalf("expected exactly one store read, got %d", loader.calls)
	}
}
