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

// ContactHandler handles HTTP requests for contact form submissions.
type ContactHandler struct {
	service services.ContactServiceProvider
}

// NewContactHandler creates a new ContactHandler.
func NewContactHandler(service services.ContactServiceProvider) *ContactHandler {
	return &ContactHandler{service: service}
}

// ContactPayload defines the structure for contact form submissions.
type ContactPayload struct {
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	Email       string `json:"email"`
	PhoneNumber string `json:"phoneNumber"`
	Message     string `json:"message"`
}

// Validate runs the contact form validation rules.
func (p ContactPayload) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.FirstName, validation.Required, validation.Length(1, 100)),
		validation.Field(&p.LastName, validation.Required, validation.Length(1, 100)),
		validation.Field(&p.Email, validation.Required, is.Email),
		validation.Field(&p.PhoneNumber, validation.Required, validation.Length(5, 20)),
		validation.Field(&p.Message, validation.Required),
	)
}

// Create handles a contact form submission.
//
//	@Summary	Submit a contact form
//	@Tags		contactus
//	@Accept		json
//	@Param		contact	body		ContactPayload	true	"Contact data"
//	@Success	201		{object}	models.ContactMessage
//	@Router		/api/contactus [post]
func (h *ContactHandler) Create(w http.ResponseWriter, r *http.Request) {
	var payload ContactPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := payload.Validate(); err != nil {
		writeError(w, err)
		return
	}

	msg, err := h.service.CreateMessage(models.ContactMessage{
		FirstName:   payload.FirstName,
		LastName:    payload.LastName,
		Email:       payload.Email,
		PhoneNumber: payload.PhoneNumber,
		Message:     payload.Message,
	})
	if err != nil {
		log.Error().Err(err).Msg("Failed to create contact message")
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, msg)
}

// GetAll handles listing all contact form submissions.
//
//	@Summary	List contact form submissions
//	@Tags		contactus
//	@Success	200	{array}	models.ContactMessage
//	@Router		/api/contactus [get]
func (h *ContactHandler) GetAll(w http.ResponseWriter, r *http.Request) {
	msgs, err := h.service.GetAllMessages()
	if err != nil {
		log.Error().Err(err).Msg("Failed to retrieve contact messages")
		writeError(w, err)
		return
	}
	if msgs == nil {
		msgs = []models.ContactMessage{}
	}
	writeJSON(w, http.StatusOK, msgs)
}
