package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/inkeep/intelligent-support-form/internal/schema"
	"github.com/inkeep/intelligent-support-form/internal/service"
)

const maxBodyBytes = 1 << 20

// TicketErrorResponse is the body of every failed ticket submission
type TicketErrorResponse struct {
	Success bool               `json:"success"`
	Message string             `json:"message,omitempty"`
	Errors  schema.FieldErrors `json:"errors,omitempty"`
	Details json.RawMessage    `json:"details,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}

// writeSubmitError maps a ticket submission failure to its status and body
func writeSubmitError(w http.ResponseWriter, err error) {
	var verr *schema.ValidationError
	var uerr *service.UpstreamError
	switch {
	case errors.As(err, &verr):
		writeJSON(w, http.StatusBadRequest, TicketErrorResponse{Errors: verr.Fields})
	case errors.Is(err, service.ErrMissingConfiguration):
		writeJSON(w, http.StatusInternalServerError, TicketErrorResponse{Message: "Server configuration error"})
	case errors.As(err, &uerr):
		writeJSON(w, http.StatusBadGateway, TicketErrorResponse{
			Message: "Failed to create ticket in Zendesk",
			Details: uerr.Details,
		})
	default:
		writeJSON(w, http.StatusInternalServerError, TicketErrorResponse{Message: "Internal server error"})
	}
}

// writeSessionError maps session flow errors to HTTP statuses
func writeSessionError(w http.ResponseWriter, err error) {
	var verr *schema.ValidationError
	switch {
	case errors.As(err, &verr):
		writeJSON(w, http.StatusBadRequest, map[string]interface{}{"errors": verr.Fields})
	case errors.Is(err, service.ErrSessionNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrSessionBusy),
		errors.Is(err, service.ErrFormNotOpen),
		errors.Is(err, service.ErrNoAnswerShown):
		writeError(w, http.StatusConflict, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}
