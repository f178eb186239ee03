package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
	"github.com/rs/zerolog/log"

	"github.com/dmordi/habari-blog-be/internal/apperr"
	"github.com/dmordi/habari-blog-be/internal/auth"
	"github.com/dmordi/habari-blog-be/internal/services"
)

// UserHandler handles HTTP requests for user accounts. All routes sit
// behind the auth guard; mutations are additionally restricted to the
// account owner.
type UserHandler struct {
	service services.UserServiceProvider
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(service services.UserServiceProvider) *UserHandler {
	return &UserHandler{service: service}
}

// Get handles retrieving a user by their ID.
//
//	@Summary	Get a user
//	@Tags		users
//	@Param		id	path		string	true	"User ID"
//	@Success	200	{object}	models.User
//	@Failure	404	{object}	map[string]string
//	@Security	BearerAuth
//	@Router		/api/users/{id} [get]
func (h *UserHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	user, err := h.service.GetUserByID(id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

// UpdateUserPayload defines the structure for profile update requests.
// Empty fields keep their current value.
type UpdateUserPayload struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Validate runs the profile update validation rules.
func (p UpdateUserPayload) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.Username, validation.Length(3, 50)),
		validation.Field(&p.Email, is.Email),
		validation.Field(&p.Password, validation.Length(6, 72)),
	)
}

// Update handles updating a user's own profile.
//
//	@Summary	Update a user profile
//	@Tags		users
//	@Accept		json
//	@Param		id		path		string				true	"User ID"
//	@Param		user	body		UpdateUserPayload	true	"Fields to update"
//	@Success	200		{object}	models.User
//	@Failure	403		{object}	map[string]string	"Not the account owner"
//	@Security	BearerAuth
//	@Router		/api/users/{id} [put]
func (h *UserHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	identity, ok := auth.UserFromContext(r.Context())
	if !ok {
		writeMessage(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	if identity.ID != id {
		writeError(w, fmt.Errorf("you can only update your own profile: %w", apperr.ErrForbidden))
		return
	}

	var payload UpdateUserPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := payload.Validate(); err != nil {
		writeError(w, err)
		return
	}

	user, err := h.service.UpdateProfile(id, payload.Username, payload.Email, payload.Password)
	if err != nil {
		log.Warn().Err(err).Str("user_id", id).Msg("Failed to update user")
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

// Delete handles the permanent deletion of a user's own account. Authored
// posts and comments are removed with it.
//
//	@Summary	Delete a user account
//	@Tags		users
//	@Param		id	path		string	true	"User ID"
//	@Success	200	{object}	map[string]string
//	@Failure	403	{object}	map[string]string	"Not the account owner"
//	@Security	BearerAuth
//	@Router		/api/users/{id} [delete]
func (h *UserHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	identity, ok := auth.UserFromContext(r.Context())
	if !ok {
		writeMessage(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	if identity.ID != id {
		writeError(w, fmt.Errorf("you can only delete your own account: %w", apperr.ErrForbidden))
		return
	}

	if err := h.service.DeleteUser(id); err != nil {
		log.Error().Err(err).Str("user_id", id).Msg("Failed to delete user")
		writeError(w, err)
		return
	}
	writeMessage(w, http.StatusOK, "user has been deleted")
}
