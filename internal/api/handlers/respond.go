package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/rs/zerolog/log"

	"github.com/dmordi/habari-blog-be/internal/apperr"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeMessage(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"message": message})
}

// writeError maps taxonomy errors to their HTTP status codes. Anything
// outside the taxonomy is logged and becomes an opaque 500.
func writeError(w http.ResponseWriter, err error) {
	var vErrs validation.Errors
	if errors.As(err, &vErrs) {
		writeMessage(w, http.StatusBadRequest, vErrs.Error())
		return
	}

	switch {
	case errors.Is(err, apperr.ErrValidation):
		writeMessage(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, apperr.ErrUnauthorized):
		writeMessage(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, apperr.ErrForbidden):
		writeMessage(w, http.StatusForbidden, err.Error())
	case errors.Is(err, apperr.ErrNotFound):
		writeMessage(w, http.StatusNotFound, err.Error())
	case errors.Is(err, apperr.ErrConflict):
		writeMessage(w, http.StatusConflict, err.Error())
	default:
		log.Error().Err(err).Msg("Unexpected error")
		writeMessage(w, http.StatusInternalServerError, "internal server error")
	}
}
