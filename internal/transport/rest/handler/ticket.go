package handler

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/inkeep/intelligent-support-form/internal/model"
	"github.com/inkeep/intelligent-support-form/internal/schema"
	"github.com/inkeep/intelligent-support-form/internal/service"
	"github.com/inkeep/intelligent-support-form/internal/transport/rest/middleware"
)

// TicketHandler handles the ticket creation boundary
type TicketHandler struct {
	ticketSvc *service.TicketService
	log       *slog.Logger
}

// NewTicketHandler creates a new ticket handler
func NewTicketHandler(ticketSvc *service.TicketService, log *slog.Logger) *TicketHandler {
	return &TicketHandler{
		ticketSvc: ticketSvc,
		log:       log.With("component", "ticket_handler"),
	}
}

// TicketCreatedResponse is returned with 201
type TicketCreatedResponse struct {
	Success          bool              `json:"success"`
	Message          string            `json:"message"`
	Ticket           model.TicketDraft `json:"ticket"`
	UpstreamTicketID int64             `json:"upstreamTicketId"`
}

// Create handles POST /v1/tickets
// @Summary Create a support ticket
// @Accept json
// @Produce json
// @Param ticket body model.TicketDraft true "Ticket draft"
// @Success 201 {object} TicketCreatedResponse
// @Failure 400 {object} TicketErrorResponse
// @Failure 500 {object} TicketErrorResponse
// @Failure 502 {object} TicketErrorResponse
// @Router /v1/tickets [post]
func (h *TicketHandler) Create(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		errs := schema.FieldErrors{}
		errs.Add(schema.FormErrorsKey, "Request body too large or unreadable")
		writeJSON(w, http.StatusBadRequest, TicketErrorResponse{Errors: errs})
		return
	}

	record, err := h.ticketSvc.CreateFromJSON(r.Context(), body)
	if err != nil {
		h.log.Warn("ticket creation failed", slog.Any("err", err))
		writeSubmitError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, TicketCreatedResponse{
		Success:          true,
		Message:          "Ticket created successfully",
		Ticket:           record.Ticket,
		UpstreamTicketID: record.UpstreamTicketID,
	})
}

// ListForSession handles GET /v1/sessions/current/tickets
// @Summary List tickets created by the current session
// @Produce json
// @Success 200 {array} model.TicketRecord
// @Router /v1/sessions/current/tickets [get]
func (h *TicketHandler) ListForSession(w http.ResponseWriter, r *http.Request) {
	records, err := h.ticketSvc.ListForSession(r.Context(), middleware.GetSessionID(r.Context()))
	if err != nil {
		h.log.Error("listing tickets failed", slog.Any("err", err))
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	writeJSON(w, http.StatusOK, records)
}

// GetForSession handles GET /v1/sessions/current/tickets/{ticketId}
// @Summary Get a ticket created by the current session
// @Produce json
// @Param ticketId path int true "Helpdesk ticket id"
// @Success 200 {object} model.TicketRecord
// @Failure 404 {object} map[string]string
// @Router /v1/sessions/current/tickets/{ticketId} [get]
func (h *TicketHandler) GetForSession(w http.ResponseWriter, r *http.Request) {
	upstreamID, err := strconv.ParseInt(mux.Vars(r)["ticketId"], 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid ticket id")
		return
	}

	record, err := h.ticketSvc.GetForSession(r.Context(), middleware.GetSessionID(r.Context()), upstreamID)
	switch {
	case errors.Is(err, service.ErrTicketNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case err != nil:
		h.log.Error("loading ticket failed", slog.Any("err", err))
		writeError(w, http.StatusInternalServerError, "internal server error")
	default:
		writeJSON(w, http.StatusOK, record)
	}
}
