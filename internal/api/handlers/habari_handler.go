package handlers

import (
	"encoding/json"
	"math/rand"
	"net/http"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/rs/zerolog/log"

	"github.com/dmordi/habari-blog-be/internal/models"
	"github.com/dmordi/habari-blog-be/internal/services"
)

// HabariHandler receives transaction notifications from the Habari payment
// gateway. The gateway authenticates itself with a fixed Sender header and
// expects a plain-text acknowledgement body.
type HabariHandler struct {
	service  services.HabariServiceProvider
	senderID string
}

// NewHabariHandler creates a new HabariHandler expecting the given sender ID.
func NewHabariHandler(service services.HabariServiceProvider, senderID string) *HabariHandler {
	return &HabariHandler{service: service, senderID: senderID}
}

// HabariPayload defines the structure of a gateway notification.
type HabariPayload struct {
	TransactionID string `json:"transactionid"`
	TerminalID    string `json:"terminalid"`
	MerchantID    string `json:"merchantid"`
	MerchantName  string `json:"merchantname"`
	PAN           string `json:"pan"`
	TokenType     string `json:"tokentype"`
}

// Validate runs the notification validation rules.
func (p HabariPayload) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.TransactionID, validation.Required),
		validation.Field(&p.TerminalID, validation.Required),
		validation.Field(&p.MerchantID, validation.Required),
		validation.Field(&p.MerchantName, validation.Required),
		validation.Field(&p.PAN, validation.Required),
		validation.Field(&p.TokenType, validation.Required),
	)
}

// checkSender validates the gateway's Sender header. A missing header is a
// 500 to the gateway's contract, a wrong value a 400.
func (h *HabariHandler) checkSender(w http.ResponseWriter, r *http.Request) bool {
	sender := r.Header.Get("Sender")
	if strings.TrimSpace(sender) == "" {
		writeMessage(w, http.StatusInternalServerError, "Sender header is required and cannot be empty")
		return false
	}
	if sender != h.senderID {
		writeMessage(w, http.StatusBadRequest, "Invalid Sender header value")
		return false
	}
	return true
}

// acknowledgements are the plain-text bodies the gateway accepts; one is
// picked at random per notification.
var acknowledgements = []string{
	"Lorem ipsum dolor sit amet, consectetur adipiscing elit.",
	"Sed do eiusmod tempor incididunt ut labore et dolore magna aliqua.",
	"Ut enim ad minim veniam, quis nostrud exercitation ullamco laboris.",
	"Duis aute irure dolor in reprehenderit in voluptate velit esse cillum dolore eu fugiat nulla pariatur.",
}

// Receive handles an inbound gateway notification.
//
//	@Summary	Receive a Habari gateway notification
//	@Tags		habari
//	@Accept		json
//	@Produce	plain
//	@Param		Sender	header		string			true	"Gateway sender ID"
//	@Param		habari	body		HabariPayload	true	"Notification data"
//	@Success	200		{string}	string
//	@Failure	400		{object}	map[string]string	"Invalid sender or payload"
//	@Router		/api/habari [post]
func (h *HabariHandler) Receive(w http.ResponseWriter, r *http.Request) {
	if !h.checkSender(w, r) {
		return
	}

	var payload HabariPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := payload.Validate(); err != nil {
		writeError(w, err)
		return
	}

	_, err := h.service.CreateNotification(models.HabariNotification{
		TransactionID: payload.TransactionID,
		TerminalID:    payload.TerminalID,
		MerchantID:    payload.MerchantID,
		MerchantName:  payload.MerchantName,
		PAN:           payload.PAN,
		TokenType:     payload.TokenType,
	})
	if err != nil {
		log.Error().Err(err).Str("transaction_id", payload.TransactionID).Msg("Failed to store habari notification")
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(acknowledgements[rand.Intn(len(acknowledgements))]))
}

// GetAll handles listing all stored gateway notifications.
//
//	@Summary	List Habari notifications
//	@Tags		habari
//	@Param		Sender	header	string	true	"Gateway sender ID"
//	@Success	200		{array}	models.HabariNotification
//	@Router		/api/habari [get]
func (h *HabariHandler) GetAll(w http.ResponseWriter, r *http.Request) {
	if !h.checkSender(w, r) {
		return
	}

	ns, err := h.service.GetAllNotifications()
	if err != nil {
		log.Error().Err(err).Msg("Failed to retrieve habari notifications")
		writeError(w, err)
		return
	}
	if ns == nil {
		ns = []models.HabariNotification{}
	}
	writeJSON(w, http.StatusOK, ns)
}
