package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/dmordi/habari-blog-be/internal/models"
)

// Token verification failure kinds. Callers collapse all of them into a
// single unauthenticated outcome; the distinction exists for logging and so
// expiry can surface its own message to the client.
var (
	ErrTokenExpired   = errors.New("token expired")
	ErrTokenMalformed = errors.New("token malformed")
	ErrTokenInvalid   = errors.New("token invalid")
)

// Token usage namespaces. A reset token never authenticates a request and a
// session token never resets a password.
const (
	UseSession       = "session"
	UsePasswordReset = "password_reset"
)

// Claims defines the JWT claims structure.
type Claims struct {
	UserID string `json:"userId,omitempty"`
	Email  string `json:"email"`
	Use    string `json:"use"`
	jwt.RegisteredClaims
}

// TokenService issues and verifies signed identity tokens. The secret is
// fixed at construction and never changes for the life of the process.
type TokenService struct {
	secret     []byte
	sessionTTL time.Duration
	resetTTL   time.Duration
}

// NewTokenService creates a TokenService keyed by secret.
func NewTokenService(secret string, sessionTTL, resetTTL time.Duration) *TokenService {
	return &TokenService{
		secret:     []byte(secret),
		sessionTTL: sessionTTL,
		resetTTL:   resetTTL,
	}
}

// IssueSession creates a session token asserting the user's identity.
func (t *TokenService) IssueSession(user models.User) (string, error) {
	return t.sign(Claims{
		UserID: user.ID,
		Email:  user.Email,
		Use:    UseSession,
	}, t.sessionTTL)
}

// IssueReset creates a single-purpose password reset token. It carries only
// the email claim and cannot be used to authenticate requests.
func (t *TokenService) IssueReset(email string) (string, error) {
	return t.sign(Claims{
		Email: email,
		Use:   UsePasswordReset,
	}, t.resetTTL)
}

func (t *TokenService) sign(claims Claims, ttl time.Duration) (string, error) {
	now := time.Now()
	claims.RegisteredClaims = jwt.RegisteredClaims{
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(t.secret)
}

// Verify parses and validates a token string, requiring the given usage
// namespace. It returns ErrTokenExpired, ErrTokenMalformed, or
// ErrTokenInvalid; a token minted for another usage verifies as invalid.
func (t *TokenService) Verify(tokenStr, use string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		return t.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, ErrTokenExpired
		case errors.Is(err, jwt.ErrTokenMalformed):
			return nil, ErrTokenMalformed
		default:
			return nil, ErrTokenInvalid
		}
	}
	if !token.Valid || claims.Use != use {
		return nil, ErrTokenInvalid
	}
	return claims, nil
}
