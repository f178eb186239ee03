package handlers

import (
	"encoding/json"
	"net/http"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
	"github.com/rs/zerolog/log"

	"github.com/dmordi/habari-blog-be/internal/models"
	"github.com/dmordi/habari-blog-be/internal/services"
)

// SubscriptionHandler handles HTTP requests for newsletter signups.
type SubscriptionHandler struct {
	service services.SubscriptionServiceProvider
}

// NewSubscriptionHandler creates a new SubscriptionHandler.
func NewSubscriptionHandler(service services.SubscriptionServiceProvider) *SubscriptionHandler {
	return &SubscriptionHandler{service: service}
}

// SubscriptionPayload defines the structure for signup requests.
type SubscriptionPayload struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Validate runs the signup validation rules.
func (p SubscriptionPayload) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.Email, validation.Required, is.Email),
	)
}

// Create handles a newsletter signup.
//
//	@Summary	Subscribe with an email
//	@Tags		emails
//	@Accept		json
//	@Param		email	body		SubscriptionPayload	true	"Signup data"
//	@Success	201		{object}	models.Subscription
//	@Router		/api/emails [post]
func (h *SubscriptionHandler) Create(w http.ResponseWriter, r *http.Request) {
	var payload SubscriptionPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := payload.Validate(); err != nil {
		writeError(w, err)
		return
	}

	sub, err := h.service.CreateSubscription(payload.Name, payload.Email)
	if err != nil {
		log.Error().Err(err).Msg("Failed to create subscription")
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, sub)
}

// GetAll handles listing all signups.
//
//	@Summary	List subscriptions
//	@Tags		emails
//	@Success	200	{array}	models.Subscription
//	@Router		/api/emails [get]
func (h *SubscriptionHandler) GetAll(w http.ResponseWriter, r *http.Request) {
	subs, err := h.service.GetAllSubscriptions()
	if err != nil {
		log.Error().Err(err).Msg("Failed to retrieve subscriptions")
		writeError(w, err)
		return
	}
	if subs == nil {
		subs = []models.Subscription{}
	}
	writeJSON(w, http.StatusOK, subs)
}
