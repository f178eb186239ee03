package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
	"github.com/rs/zerolog/log"

	"github.com/dmordi/habari-blog-be/internal/auth"
	"github.com/dmordi/habari-blog-be/internal/mail"
	"github.com/dmordi/habari-blog-be/internal/services"
)

// AuthHandler handles registration, login, and the password reset flow.
type AuthHandler struct {
	users   services.UserServiceProvider
	tokens  *auth.TokenService
	mailer  mail.Mailer
	baseURL string
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(users services.UserServiceProvider, tokens *auth.TokenService, mailer mail.Mailer, baseURL string) *AuthHandler {
	return &AuthHandler{users: users, tokens: tokens, mailer: mailer, baseURL: baseURL}
}

// RegisterPayload defines the structure for registration requests.
type RegisterPayload struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Validate runs the registration validation rules.
func (p RegisterPayload) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.Username, validation.Required, validation.Length(3, 50)),
		validation.Field(&p.Email, validation.Required, is.Email),
		validation.Field(&p.Password, validation.Required, validation.Length(6, 72)),
	)
}

// LoginPayload defines the structure for login requests.
type LoginPayload struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Validate runs the login validation rules.
func (p LoginPayload) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.Email, validation.Required, is.Email),
		validation.Field(&p.Password, validation.Required),
	)
}

// Register handles new user registration.
//
//	@Summary	Register a new user
//	@Tags		auth
//	@Accept		json
//	@Param		user	body		RegisterPayload	true	"Registration data"
//	@Success	201		{object}	models.User
//	@Failure	409		{object}	map[string]string	"Username or email taken"
//	@Router		/api/auth/register [post]
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var payload RegisterPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := payload.Validate(); err != nil {
		writeError(w, err)
		return
	}

	user, err := h.users.Register(payload.Username, payload.Email, payload.Password)
	if err != nil {
		log.Warn().Err(err).Str("email", payload.Email).Msg("Failed to register user")
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, user)
}

// Login handles user authentication and session token issuance.
//
//	@Summary	Log in with email and password
//	@Tags		auth
//	@Accept		json
//	@Param		credentials	body		LoginPayload	true	"Credentials"
//	@Success	200			{object}	map[string]any	"Token and user"
//	@Failure	401			{object}	map[string]string
//	@Router		/api/auth/login [post]
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var payload LoginPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := payload.Validate(); err != nil {
		writeError(w, err)
		return
	}

	user, err := h.users.Authenticate(payload.Email, payload.Password)
	if err != nil {
		log.Warn().Str("email", payload.Email).Msg("Failed authentication attempt")
		writeError(w, err)
		return
	}

	token, err := h.tokens.IssueSession(user)
	if err != nil {
		log.Error().Err(err).Str("user_id", user.ID).Msg("Failed to issue session token")
		writeMessage(w, http.StatusInternalServerError, "failed to issue token")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"token": token,
		"user":  user,
	})
}

// ForgotPasswordPayload defines the structure for reset initiation requests.
type ForgotPasswordPayload struct {
	Email string `json:"email"`
}

// Validate runs the reset initiation validation rules.
func (p ForgotPasswordPayload) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.Email, validation.Required, is.Email),
	)
}

// ForgotPassword issues a reset token and mails the reset link.
//
//	@Summary	Initiate password reset
//	@Tags		auth
//	@Accept		json
//	@Param		email	body		ForgotPasswordPayload	true	"Account email"
//	@Success	200		{object}	map[string]string
//	@Failure	404		{object}	map[string]string	"Email not found"
//	@Router		/api/auth/forgot-password [post]
func (h *AuthHandler) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	var payload ForgotPasswordPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := payload.Validate(); err != nil {
		writeError(w, err)
		return
	}

	user, err := h.users.GetUserByEmail(payload.Email)
	if err != nil {
		writeError(w, err)
		return
	}

	token, err := h.tokens.IssueReset(user.Email)
	if err != nil {
		log.Error().Err(err).Str("email", user.Email).Msg("Failed to issue reset token")
		writeMessage(w, http.StatusInternalServerError, "failed to issue reset token")
		return
	}

	resetLink := h.baseURL + "/reset-password/" + token
	if err := h.mailer.SendPasswordReset(user.Email, resetLink); err != nil {
		log.Error().Err(err).Str("email", user.Email).Msg("Failed to send password reset mail")
		writeMessage(w, http.StatusInternalServerError, "error sending password reset email")
		return
	}

	writeMessage(w, http.StatusOK, "password reset email sent")
}

// ResetPasswordPayload defines the structure for reset completion requests.
type ResetPasswordPayload struct {
	Token    string `json:"token"`
	Password string `json:"password"`
}

// Validate runs the reset completion validation rules.
func (p ResetPasswordPayload) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.Token, validation.Required),
		validation.Field(&p.Password, validation.Required, validation.Length(6, 72)),
	)
}

// ResetPassword verifies a reset token and sets the new password.
//
//	@Summary	Complete password reset
//	@Tags		auth
//	@Accept		json
//	@Param		resetData	body		ResetPasswordPayload	true	"Reset token and new password"
//	@Success	200			{object}	map[string]string
//	@Failure	400			{object}	map[string]string	"Invalid or expired token"
//	@Router		/api/auth/reset-password [post]
func (h *AuthHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var payload ResetPasswordPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := payload.Validate(); err != nil {
		writeError(w, err)
		return
	}

	claims, err := h.tokens.Verify(payload.Token, auth.UsePasswordReset)
	if err != nil {
		if errors.Is(err, auth.ErrTokenExpired) {
			writeMessage(w, http.StatusBadRequest, "token expired")
			return
		}
		writeMessage(w, http.StatusBadRequest, "invalid or expired token")
		return
	}

	if err := h.users.ResetPassword(claims.Email, payload.Password); err != nil {
		writeError(w, err)
		return
	}

	writeMessage(w, http.StatusOK, "password updated successfully")
}
