package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/inkeep/intelligent-support-form/internal/config"
	"github.com/inkeep/intelligent-support-form/internal/events"
	"github.com/inkeep/intelligent-support-form/internal/model"
	"github.com/inkeep/intelligent-support-form/internal/repository"
	"github.com/inkeep/intelligent-support-form/internal/schema"
)

// ErrMissingConfiguration means a helpdesk credential is not set. Callers
// show a generic message; the missing key is only logged.
var ErrMissingConfiguration = errors.New("server configuration error")

var ErrTicketNotFound = errors.New("ticket not found")

// Upstream priority scale
var zendeskPriority = map[model.Priority]int{
	model.PriorityUrgent: 4,
	model.PriorityHigh:   3,
	model.PriorityMedium: 2,
	model.PriorityLow:    1,
}

// TicketService is the ticket creation boundary
type TicketService struct {
	cfg       config.ZendeskConfig
	client    *ZendeskClient
	tickets   repository.TicketRepo // nil disables records
	publisher events.Publisher
	log       *slog.Logger
}

// NewTicketService creates a ticket service. tickets may be nil.
func NewTicketService(cfg config.ZendeskConfig, client *ZendeskClient, tickets repository.TicketRepo, publisher events.Publisher, log *slog.Logger) *TicketService {
	if publisher == nil {
		publisher = events.Discard()
	}
	return &TicketService{
		cfg:       cfg,
		client:    client,
		tickets:   tickets,
		publisher: publisher,
		log:       log.With("component", "tickets"),
	}
}

// CreateFromJSON parses a raw request body and submits it
func (s *TicketService) CreateFromJSON(ctx context.Context, raw []byte) (*model.TicketRecord, error) {
	draft, errs := schema.ParseTicket(raw)
	if !errs.Empty() {
		return nil, &schema.ValidationError{Fields: errs}
	}
	return s.Submit(ctx, "", draft)
}

// Submit validates draft and creates it upstream. On validation failure it
// returns a *schema.ValidationError and makes no upstream call.
func (s *TicketService) Submit(ctx context.Context, sessionID string, draft model.TicketDraft) (*model.TicketRecord, error) {
	validated, err := schema.Validate(draft)
	if err != nil {
		return nil, err
	}

	if !s.cfg.Complete() {
		s.log.Error("missing helpdesk configuration",
			slog.Bool("subdomain", s.cfg.Subdomain != ""),
			slog.Bool("email", s.cfg.Email != ""),
			slog.Bool("api_token", s.cfg.APIToken != ""))
		return nil, ErrMissingConfiguration
	}

	upstreamID, err := s.client.CreateTicket(ctx, s.toZendesk(validated))
	if err != nil {
		return nil, err
	}

	record := &model.TicketRecord{
		ID:               uuid.New().String(),
		SessionID:        sessionID,
		UpstreamTicketID: upstreamID,
		Ticket:           validated,
		CreatedAt:        time.Now().UTC(),
	}
	s.record(ctx, record)
	return record, nil
}

// ListForSession returns the tickets a session created, oldest first. Without
// a record store the list is empty.
func (s *TicketService) ListForSession(ctx context.Context, sessionID string) ([]*model.TicketRecord, error) {
	if s.tickets == nil {
		return []*model.TicketRecord{}, nil
	}
	records, err := s.tickets.ListBySession(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to list tickets: %w", err)
	}
	if records == nil {
		records = []*model.TicketRecord{}
	}
	return records, nil
}

// GetForSession looks a ticket up by its helpdesk id. Tickets created by
// another session are reported as not found.
func (s *TicketService) GetForSession(ctx context.Context, sessionID string, upstreamID int64) (*model.TicketRecord, error) {
	if s.tickets == nil {
		return nil, ErrTicketNotFound
	}
	record, err := s.tickets.GetByUpstreamID(ctx, upstreamID)
	if err != nil {
		return nil, fmt.Errorf("failed to load ticket: %w", err)
	}
	if record == nil || record.SessionID != sessionID {
		return nil, ErrTicketNotFound
	}
	return record, nil
}

func (s *TicketService) toZendesk(d model.TicketDraft) ZendeskTicket {
	priority, ok := zendeskPriority[d.Priority]
	if !ok {
		priority = 2
	}
	ticket := ZendeskTicket{
		Subject:   d.Subject,
		Comment:   ZendeskComment{Body: d.Message},
		Priority:  priority,
		Requester: ZendeskRequester{Name: d.Name, Email: d.Email},
		CustomFields: []ZendeskCustomField{
			{ID: s.cfg.TicketTypeFieldID, Value: string(d.TicketType)},
		},
	}
	if d.OrganizationID != nil && *d.OrganizationID > 0 {
		ticket.OrganizationID = *d.OrganizationID
	}
	return ticket
}

// record stores and announces a created ticket. The ticket already exists
// upstream, so failures here are logged only.
func (s *TicketService) record(ctx context.Context, record *model.TicketRecord) {
	ctx = context.WithoutCancel(ctx)
	if s.tickets != nil {
		if err := s.tickets.Save(ctx, record); err != nil {
			s.log.Warn("failed to save ticket record", slog.Int64("ticket_id", record.UpstreamTicketID), slog.Any("err", err))
		}
	}

	ev := events.New(events.TicketCreated, record.ID, record)
	ev.SessionID = record.SessionID
	if err := s.publisher.Publish(ctx, ev); err != nil {
		s.log.Warn("failed to publish ticket event", slog.Any("err", err))
	}
}
