package handler

import (
	"errors"
	"io"
	"net/http"

	"github.com/inkeep/intelligent-support-form/internal/model"
	"github.com/inkeep/intelligent-support-form/internal/schema"
	"github.com/inkeep/intelligent-support-form/internal/service"
	"github.com/inkeep/intelligent-support-form/internal/transport/rest/middleware"
)

// SessionHandler handles the support form flow
type SessionHandler struct {
	sessionSvc *service.SessionService
}

// NewSessionHandler creates a new session handler
func NewSessionHandler(sessionSvc *service.SessionService) *SessionHandler {
	return &SessionHandler{sessionSvc: sessionSvc}
}

// DraftResponse carries the session and, once Next was clicked, the
// current field errors
type DraftResponse struct {
	Session *model.Session     `json:"session"`
	Errors  schema.FieldErrors `json:"errors,omitempty"`
}

// SubmitResponse is returned when the session draft became a ticket
type SubmitResponse struct {
	Success          bool           `json:"success"`
	Message          string         `json:"message"`
	UpstreamTicketID int64          `json:"upstreamTicketId"`
	Session          *model.Session `json:"session"`
}

// Start handles POST /v1/sessions
// @Summary Start a support form session
// @Produce json
// @Success 201 {object} model.StartSessionResponse
// @Router /v1/sessions [post]
func (h *SessionHandler) Start(w http.ResponseWriter, r *http.Request) {
	resp, err := h.sessionSvc.Start(r.Context())
	if err != nil {
		writeSessionError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

// Get handles GET /v1/sessions/current
func (h *SessionHandler) Get(w http.ResponseWriter, r *http.Request) {
	session, err := h.sessionSvc.Get(r.Context(), middleware.GetSessionID(r.Context()))
	if err != nil {
		writeSessionError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, session)
}

// UpdateDraft handles PUT /v1/sessions/current/draft
// @Summary Merge edits into the ticket draft
// @Accept json
// @Produce json
// @Param patch body model.DraftPatch true "Changed fields"
// @Success 200 {object} DraftResponse
// @Failure 400 {object} map[string]interface{}
// @Router /v1/sessions/current/draft [put]
func (h *SessionHandler) UpdateDraft(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	patch, fieldErrs := schema.ParseDraftPatch(body)
	if !fieldErrs.Empty() {
		writeSessionError(w, &schema.ValidationError{Fields: fieldErrs})
		return
	}

	session, errs, err := h.sessionSvc.UpdateDraft(r.Context(), middleware.GetSessionID(r.Context()), patch)
	if err != nil {
		writeSessionError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, DraftResponse{Session: session, Errors: errs})
}

// Next handles POST /v1/sessions/current/next
// @Summary Ask the AI responders and pick the next view
// @Produce json
// @Success 200 {object} model.Session
// @Failure 400 {object} map[string]interface{}
// @Failure 409 {object} map[string]string
// @Router /v1/sessions/current/next [post]
func (h *SessionHandler) Next(w http.ResponseWriter, r *http.Request) {
	session, err := h.sessionSvc.Next(r.Context(), middleware.GetSessionID(r.Context()))
	if err != nil {
		writeSessionError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, session)
}

// Escalate handles POST /v1/sessions/current/escalate
func (h *SessionHandler) Escalate(w http.ResponseWriter, r *http.Request) {
	session, err := h.sessionSvc.EscalateToHuman(r.Context(), middleware.GetSessionID(r.Context()))
	if err != nil {
		writeSessionError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, session)
}

// Submit handles POST /v1/sessions/current/ticket
// @Summary Submit the session draft as a ticket
// @Produce json
// @Success 201 {object} SubmitResponse
// @Failure 400 {object} TicketErrorResponse
// @Failure 409 {object} map[string]string
// @Failure 500 {object} TicketErrorResponse
// @Failure 502 {object} TicketErrorResponse
// @Router /v1/sessions/current/ticket [post]
func (h *SessionHandler) Submit(w http.ResponseWriter, r *http.Request) {
	session, record, err := h.sessionSvc.Submit(r.Context(), middleware.GetSessionID(r.Context()))
	switch {
	case err == nil:
	case isSessionFlowError(err):
		writeSessionError(w, err)
		return
	default:
		writeSubmitError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, SubmitResponse{
		Success:          true,
		Message:          "Ticket created successfully",
		UpstreamTicketID: record.UpstreamTicketID,
		Session:          session,
	})
}

// Archived handles GET /v1/sessions/current/archive
// @Summary Read the current session after it ended
// @Produce json
// @Success 200 {object} model.Session
// @Failure 404 {object} map[string]string
// @Router /v1/sessions/current/archive [get]
func (h *SessionHandler) Archived(w http.ResponseWriter, r *http.Request) {
	session, err := h.sessionSvc.Archived(r.Context(), middleware.GetSessionID(r.Context()))
	if err != nil {
		writeSessionError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, session)
}

// End handles DELETE /v1/sessions/current
func (h *SessionHandler) End(w http.ResponseWriter, r *http.Request) {
	if err := h.sessionSvc.End(r.Context(), middleware.GetSessionID(r.Context())); err != nil {
		writeSessionError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func isSessionFlowError(err error) bool {
	return errors.Is(err, service.ErrSessionNotFound) || errors.Is(err, service.ErrFormNotOpen)
}
