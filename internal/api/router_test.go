package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/dmordi/habari-blog-be/internal/auth"
	"github.com/dmordi/habari-blog-be/internal/config"
	"github.com/dmordi/habari-blog-be/internal/database"
	"github.com/dmordi/habari-blog-be/internal/models"
	"github.com/dmordi/habari-blog-be/internal/rate"
	"github.com/dmordi/habari-blog-be/internal/services"
)

// captureMailer records the last reset mail instead of sending it.
type captureMailer struct {
	to   string
	link string
}

func (m *captureMailer) SendPasswordReset(to, link string) error {
	m.to = to
	m.link = link
	return nil
}

func newTestServer(t *testing.T) (http.Handler, *captureMailer) {
	t.Helper()

	db, err := database.New(fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name()))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, database.Migrate(db))

	cfg := &config.Config{
		AllowedOrigin:  "*",
		BaseURL:        "http://localhost:3000",
		HabariSenderID: "100010",
	}
	mailer := &captureMailer{}

	router := NewRouter(
		cfg,
		auth.NewTokenService("router-test-secret", time.Hour, time.Hour),
		mailer,
		rate.NewMemory(),
		services.NewUserService(db),
		services.NewPostService(db),
		services.NewCategoryService(db),
		services.NewCommentService(db),
		services.NewSubscriptionService(db),
		services.NewContactService(db),
		services.NewHabariService(db),
	)
	return router, mailer
}

func doJSON(t *testing.T, h http.Handler, method, target, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func registerAndLogin(t *testing.T, h http.Handler, username, email string) (token, userID string) {
	t.Helper()

	rec := doJSON(t, h, http.MethodPost, "/api/auth/register", "", map[string]string{
		"username": username,
		"email":    email,
		"password": "hunter22",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = doJSON(t, h, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email":    email,
		"password": "hunter22",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var out struct {
		Token string      `json:"token"`
		User  models.User `json:"user"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	require.NotEmpty(t, out.Token)
	return out.Token, out.User.ID
}

func TestRouter_RegisterLoginCreatePost(t *testing.T) {
	t.Parallel()

	h, _ := newTestServer(t)
	token, userID := registerAndLogin(t, h, "dan", "dan@example.com")

	rec := doJSON(t, h, http.MethodPost, "/api/posts/", token, map[string]any{
		"title":       "First post",
		"description": "Hello world",
		"categories":  []string{"tech"},
		"tags":        []string{"go"},
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var created models.Post
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	require.Equal(t, userID, created.AuthorID)

	// Reading the post back requires no token.
	rec = doJSON(t, h, http.MethodGet, "/api/posts/"+created.ID, "", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var got models.Post
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Equal(t, "First post", got.Title)
	require.Equal(t, []string{"tech"}, got.Categories)
}

func TestRouter_DuplicateRegistration(t *testing.T) {
	t.Parallel()

	h, _ := newTestServer(t)

	payload := map[string]string{
		"username": "dan",
		"email":    "dan@example.com",
		"password": "hunter22",
	}
	rec := doJSON(t, h, http.MethodPost, "/api/auth/register", "", payload)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doJSON(t, h, http.MethodPost, "/api/auth/register", "", payload)
	require.Equal(t, http.StatusConflict, rec.Code, rec.Body.String())
}

func TestRouter_GuardRejectsAnonymousWrites(t *testing.T) {
	t.Parallel()

	h, _ := newTestServer(t)

	rec := doJSON(t, h, http.MethodPost, "/api/posts/", "", map[string]any{
		"title":       "no token",
		"description": "x",
	})
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = doJSON(t, h, http.MethodGet, "/api/users/some-id", "", nil)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRouter_ForeignUserCannotModifyPost(t *testing.T) {
	t.Parallel()

	h, _ := newTestServer(t)
	ownerToken, _ := registerAndLogin(t, h, "dan", "dan@example.com")
	otherToken, _ := registerAndLogin(t, h, "ada", "ada@example.com")

	rec := doJSON(t, h, http.MethodPost, "/api/posts/", ownerToken, map[string]any{
		"title":       "owned",
		"description": "body",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	var post models.Post
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &post))

	rec = doJSON(t, h, http.MethodPut, "/api/posts/"+post.ID, otherToken, map[string]any{
		"title":       "stolen",
		"description": "body",
	})
	require.Equal(t, http.StatusForbidden, rec.Code, rec.Body.String())

	rec = doJSON(t, h, http.MethodDelete, "/api/posts/"+post.ID, otherToken, nil)
	require.Equal(t, http.StatusForbidden, rec.Code)

	// The post survives untouched.
	rec = doJSON(t, h, http.MethodGet, "/api/posts/"+post.ID, "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var unchanged models.Post
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &unchanged))
	require.Equal(t, "owned", unchanged.Title)

	// The owner can still delete it.
	rec = doJSON(t, h, http.MethodDelete, "/api/posts/"+post.ID, ownerToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestRouter_CommentFlow(t *testing.T) {
	t.Parallel()

	h, _ := newTestServer(t)
	token, _ := registerAndLogin(t, h, "dan", "dan@example.com")

	rec := doJSON(t, h, http.MethodPost, "/api/posts/", token, map[string]any{
		"title":       "discussed",
		"description": "body",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	var post models.Post
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &post))

	rec = doJSON(t, h, http.MethodPost, "/api/posts/"+post.ID+"/comments", token, map[string]any{
		"body": "nice post",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var comment models.Comment
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &comment))

	rec = doJSON(t, h, http.MethodGet, "/api/posts/"+post.ID+"/comments", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var comments []models.Comment
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &comments))
	require.Len(t, comments, 1)
	require.Equal(t, "nice post", comments[0].Body)

	// A second account cannot edit someone else's comment.
	otherToken, _ := registerAndLogin(t, h, "ada", "ada@example.com")
	rec = doJSON(t, h, http.MethodPut, "/api/comments/"+comment.ID, otherToken, map[string]any{
		"body": "rewritten",
	})
	require.Equal(t, http.StatusForbidden, rec.Code)

	rec = doJSON(t, h, http.MethodDelete, "/api/comments/"+comment.ID, token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestRouter_HabariSenderContract(t *testing.T) {
	t.Parallel()

	h, _ := newTestServer(t)

	notification := map[string]string{
		"transactionid": "tx-1",
		"terminalid":    "term-1",
		"merchantid":    "m-1",
		"merchantname":  "Example Merchant",
		"pan":           "1234567890123456",
		"tokentype":     "example",
	}
	send := func(sender string, set bool) *httptest.ResponseRecorder {
		var buf bytes.Buffer
		require.NoError(t, json.NewEncoder(&buf).Encode(notification))
		req := httptest.NewRequest(http.MethodPost, "/api/habari/", &buf)
		req.Header.Set("Content-Type", "application/json")
		if set {
			req.Header.Set("Sender", sender)
		}
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec
	}

	rec := send("", false)
	require.Equal(t, http.StatusInternalServerError, rec.Code, rec.Body.String())

	rec = send("999999", true)
	require.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())

	rec = send("100010", true)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	require.Contains(t, rec.Header().Get("Content-Type"), "text/plain")
	require.NotEmpty(t, rec.Body.String())

	// The stored notification is listable, again only with the right header.
	listReq := httptest.NewRequest(http.MethodGet, "/api/habari/", nil)
	listReq.Header.Set("Sender", "100010")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, listReq)
	require.Equal(t, http.StatusOK, rec.Code)
	var stored []models.HabariNotification
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &stored))
	require.Len(t, stored, 1)
	require.Equal(t, "tx-1", stored[0].TransactionID)
}

func TestRouter_PasswordResetFlow(t *testing.T) {
	t.Parallel()

	h, mailer := newTestServer(t)
	registerAndLogin(t, h, "dan", "dan@example.com")

	rec := doJSON(t, h, http.MethodPost, "/api/auth/forgot-password", "", map[string]string{
		"email": "dan@example.com",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	require.Equal(t, "dan@example.com", mailer.to)

	token := mailer.link[strings.LastIndex(mailer.link, "/")+1:]
	require.NotEmpty(t, token)

	rec = doJSON(t, h, http.MethodPost, "/api/auth/reset-password", "", map[string]string{
		"token":    token,
		"password": "new-password",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = doJSON(t, h, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email":    "dan@example.com",
		"password": "hunter22",
	})
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = doJSON(t, h, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email":    "dan@example.com",
		"password": "new-password",
	})
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestRouter_ForgotPasswordUnknownEmail(t *testing.T) {
	t.Parallel()

	h, mailer := newTestServer(t)

	rec := doJSON(t, h, http.MethodPost, "/api/auth/forgot-password", "", map[string]string{
		"email": "nobody@example.com",
	})
	require.Equal(t, http.StatusNotFound, rec.Code)
	require.Empty(t, mailer.to)
}

func TestRouter_SessionTokenCannotResetPassword(t *testing.T) {
	t.Parallel()

	h, _ := newTestServer(t)
	token, _ := registerAndLogin(t, h, "dan", "dan@example.com")

	rec := doJSON(t, h, http.MethodPost, "/api/auth/reset-password", "", map[string]string{
		"token":    token,
		"password": "new-password",
	})
	require.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())
}

func TestRouter_AuthRateLimit(t *testing.T) {
	t.Parallel()

	h, _ := newTestServer(t)

	body := map[string]string{"email": "dan@example.com", "password": "hunter22"}
	for i := 0; i < authRateLimit; i++ {
		rec := doJSON(t, h, http.MethodPost, "/api/auth/login", "", body)
		require.NotEqual(t, http.StatusTooManyRequests, rec.Code, "request %d should pass the limiter", i+1)
	}

	rec := doJSON(t, h, http.MethodPost, "/api/auth/login", "", body)
	require.Equal(t, http.StatusTooManyRequests, rec.Code)
	require.NotEmpty(t, rec.Header().Get("Retry-After"))

	// Endpoints outside the auth group are not limited.
	rec = doJSON(t, h, http.MethodGet, "/api/posts/", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestRouter_SubscriptionAndContact(t *testing.T) {
	t.Parallel()

	h, _ := newTestServer(t)

	rec := doJSON(t, h, http.MethodPost, "/api/emails/", "", map[string]string{
		"name":  "Dan",
		"email": "dan@example.com",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = doJSON(t, h, http.MethodPost, "/api/contactus/", "", map[string]string{
		"firstName":   "Dan",
		"lastName":    "Mordi",
		"email":       "dan@example.com",
		"phoneNumber": "08012345678",
		"message":     "Hello there",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = doJSON(t, h, http.MethodPost, "/api/emails/", "", map[string]string{
		"name":  "Dan",
		"email": "not-an-email",
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)
}
