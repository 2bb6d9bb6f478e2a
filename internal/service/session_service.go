package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/inkeep/intelligent-support-form/internal/cache"
	"github.com/inkeep/intelligent-support-form/internal/events"
	"github.com/inkeep/intelligent-support-form/internal/model"
	"github.com/inkeep/intelligent-support-form/internal/repository"
	"github.com/inkeep/intelligent-support-form/internal/schema"
)

var (
	ErrSessionNotFound = errors.New("session not found")
	ErrSessionBusy     = errors.New("an arbitration or submission is already in progress")
	ErrFormNotOpen     = errors.New("ticket form is not open")
	ErrNoAnswerShown   = errors.New("no automated answer to escalate")
)

// initialFields are checked before the first arbitration
var initialFields = []string{"name", "email", "message"}

// Arbiter runs one arbitration round
type Arbiter interface {
	Arbitrate(ctx context.Context, message string, conv *model.ConversationState) model.Outcome
	EscalateToHuman(o model.Outcome) model.Outcome
}

// TicketSubmitter creates a ticket from a draft
type TicketSubmitter interface {
	Submit(ctx context.Context, sessionID string, draft model.TicketDraft) (*model.TicketRecord, error)
}

// SessionService drives the support form: draft edits, arbitration,
// escalation and submission
type SessionService struct {
	sessions    cache.SessionCache
	archive     repository.SessionRepo // nil disables archiving
	arbiter     Arbiter
	tickets     TicketSubmitter
	authSvc     *AuthService
	publisher   events.Publisher
	broadcaster Broadcaster
	log         *slog.Logger
	now         func() time.Time
}

// NewSessionService creates a new session service
func NewSessionService(
	sessions cache.SessionCache,
	archive repository.SessionRepo,
	arbiter Arbiter,
	tickets TicketSubmitter,
	authSvc *AuthService,
	publisher events.Publisher,
	log *slog.Logger,
) *SessionService {
	if publisher == nil {
		publisher = events.Discard()
	}
	return &SessionService{
		sessions:    sessions,
		archive:     archive,
		arbiter:     arbiter,
		tickets:     tickets,
		authSvc:     authSvc,
		publisher:   publisher,
		broadcaster: noopBroadcaster{},
		log:         log.With("component", "sessions"),
		now:         func() time.Time { return time.Now().UTC() },
	}
}

// SetBroadcaster sets the broadcaster for WebSocket events
func (s *SessionService) SetBroadcaster(b Broadcaster) {
	s.broadcaster = b
}

// Start opens a session with a default draft and returns its token
func (s *SessionService) Start(ctx context.Context) (*model.StartSessionResponse, error) {
	session := model.NewSession(uuid.New().String(), s.now())
	if err := s.sessions.Set(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to store session: %w", err)
	}

	token, err := s.authSvc.GenerateSessionToken(session.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to sign session token: %w", err)
	}

	s.log.Info("session started", slog.String("session_id", session.ID))
	return &model.StartSessionResponse{
		SessionID: session.ID,
		Token:     token,
		Session:   session,
	}, nil
}

// Get returns the current snapshot of a session
func (s *SessionService) Get(ctx context.Context, id string) (*model.Session, error) {
	session, err := s.sessions.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load session: %w", err)
	}
	if session == nil {
		return nil, ErrSessionNotFound
	}
	return session, nil
}

// UpdateDraft merges user edits into the draft. Once Next has been clicked
// the draft is re-validated on every change and the field errors returned.
func (s *SessionService) UpdateDraft(ctx context.Context, id string, patch model.DraftPatch) (*model.Session, schema.FieldErrors, error) {
	session, err := s.Get(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	patch.Apply(&session.Draft)
	if session.View == model.ViewSubmitted {
		session.View = model.ViewInitial
		session.Acknowledgement = nil
	}
	if err := s.save(ctx, session); err != nil {
		return nil, nil, err
	}
	s.broadcaster.BroadcastToSession(id, MsgSessionUpdated, session)

	errs := schema.FieldErrors{}
	if session.NextClicked {
		_, errs = schema.ValidateDraft(session.Draft)
		if session.View != model.ViewEscalation {
			errs = errs.Only(initialFields...)
		}
	}
	return session, errs, nil
}

// Next validates the initial fields and runs one arbitration. While it runs
// the session is busy: another Next or a Submit gets ErrSessionBusy.
func (s *SessionService) Next(ctx context.Context, id string) (*model.Session, error) {
	// Responder calls outlive the request: a client disconnect must not cancel them.
	runCtx := context.WithoutCancel(ctx)
	release, err := s.lock(runCtx, id)
	if err != nil {
		return nil, err
	}
	defer release()

	session, err := s.Get(runCtx, id)
	if err != nil {
		return nil, err
	}

	session.NextClicked = true
	_, errs := schema.ValidateDraft(session.Draft)
	if errs = errs.Only(initialFields...); !errs.Empty() {
		if err := s.save(runCtx, session); err != nil {
			return nil, err
		}
		return nil, &schema.ValidationError{Fields: errs}
	}

	if err := s.save(runCtx, session); err != nil {
		return nil, err
	}
	s.broadcaster.BroadcastToSession(id, MsgArbitrationStarted, nil)

	conv := session.Conversation
	outcome := s.arbiter.Arbitrate(runCtx, session.Draft.Message, &conv)

	// Reload so draft edits made while the responders ran are kept
	latest, err := s.Get(runCtx, id)
	if err != nil {
		return nil, err
	}
	latest.Conversation = conv
	latest.NextClicked = true
	latest.Draft.ApplyPrefill(outcome.Prefill)
	latest.Outcome = &outcome
	latest.Caption = outcome.Caption
	latest.Acknowledgement = nil
	if outcome.IsConfident() {
		latest.View = model.ViewConfident
	} else {
		latest.View = model.ViewEscalation
	}
	if err := s.save(runCtx, latest); err != nil {
		return nil, err
	}

	s.broadcaster.BroadcastToSession(id, MsgArbitrationCompleted, outcome)
	s.publish(runCtx, id, events.ArbitrationCompleted, outcome)
	return latest, nil
}

// EscalateToHuman swaps a confident answer for the ticket form, keeping
// whatever the draft was prefilled with
func (s *SessionService) EscalateToHuman(ctx context.Context, id string) (*model.Session, error) {
	session, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if session.View != model.ViewConfident || session.Outcome == nil {
		return nil, ErrNoAnswerShown
	}

	outcome := s.arbiter.EscalateToHuman(*session.Outcome)
	session.Outcome = &outcome
	session.Caption = outcome.Caption
	session.View = model.ViewEscalation
	if err := s.save(ctx, session); err != nil {
		return nil, err
	}

	s.broadcaster.BroadcastToSession(id, MsgSessionUpdated, session)
	s.publish(ctx, id, events.SessionEscalated, outcome)
	return session, nil
}

// Submit sends the session draft through the ticket boundary. On success the
// draft is reset to defaults and the acknowledgement is shown. It holds the
// same busy flag as Next, so one draft yields at most one ticket.
func (s *SessionService) Submit(ctx context.Context, id string) (*model.Session, *model.TicketRecord, error) {
	release, err := s.lock(context.WithoutCancel(ctx), id)
	if err != nil {
		return nil, nil, err
	}
	defer release()

	session, err := s.Get(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	if session.View != model.ViewEscalation {
		return nil, nil, ErrFormNotOpen
	}

	record, err := s.tickets.Submit(ctx, id, session.Draft)
	if err != nil {
		return nil, nil, err
	}

	session.Draft = model.NewTicketDraft()
	session.View = model.ViewSubmitted
	session.NextClicked = false
	session.Outcome = nil
	session.Caption = nil
	session.LastTicketID = record.UpstreamTicketID
	session.Acknowledgement = &model.Acknowledgement{
		Title:   "Thank you!",
		Message: "We'll be in touch soon.",
	}
	if err := s.save(context.WithoutCancel(ctx), session); err != nil {
		return nil, nil, err
	}

	s.broadcaster.BroadcastToSession(id, MsgTicketSubmitted, record)
	return session, record, nil
}

// Archived returns an ended session from the archive
func (s *SessionService) Archived(ctx context.Context, id string) (*model.Session, error) {
	if s.archive == nil {
		return nil, ErrSessionNotFound
	}
	session, err := s.archive.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load archived session: %w", err)
	}
	if session == nil {
		return nil, ErrSessionNotFound
	}
	return session, nil
}

// End archives the session and drops its live state
func (s *SessionService) End(ctx context.Context, id string) error {
	session, err := s.Get(ctx, id)
	if err != nil {
		return err
	}

	ended := s.now()
	session.EndedAt = &ended
	if s.archive != nil {
		if err := s.archive.Archive(ctx, session); err != nil {
			s.log.Warn("failed to archive session", slog.String("session_id", id), slog.Any("err", err))
		}
	}

	if err := s.sessions.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	s.broadcaster.DisconnectSession(id)
	s.log.Info("session ended", slog.String("session_id", id))
	return nil
}

// lock marks the session busy. The returned func releases it, and only
// while this caller still owns the flag.
func (s *SessionService) lock(ctx context.Context, id string) (func(), error) {
	token, ok, err := s.sessions.AcquireLock(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to acquire session lock: %w", err)
	}
	if !ok {
		return nil, ErrSessionBusy
	}
	return func() {
		if err := s.sessions.ReleaseLock(ctx, id, token); err != nil {
			s.log.Warn("failed to release session lock", slog.String("session_id", id), slog.Any("err", err))
		}
	}, nil
}

func (s *SessionService) save(ctx context.Context, session *model.Session) error {
	session.UpdatedAt = s.now()
	if err := s.sessions.Set(ctx, session); err != nil {
		return fmt.Errorf("failed to store session: %w", err)
	}
	return nil
}

func (s *SessionService) publish(ctx context.Context, sessionID, eventType string, data any) {
	ev := events.New(eventType, sessionID, data)
	ev.SessionID = sessionID
	if err := s.publisher.Publish(ctx, ev); err != nil {
		s.log.Warn("failed to publish event", slog.String("type", eventType), slog.Any("err", err))
	}
}
