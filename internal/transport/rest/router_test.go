package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/inkeep/intelligent-support-form/internal/cache"
	"github.com/inkeep/intelligent-support-form/internal/config"
	"github.com/inkeep/intelligent-support-form/internal/events"
	"github.com/inkeep/intelligent-support-form/internal/model"
	"github.com/inkeep/intelligent-support-form/internal/service"
	"github.com/inkeep/intelligent-support-form/internal/transport/ws"
	"github.com/tidwall/gjson"
)

var discardLog = slog.New(slog.NewTextHandler(io.Discard, nil))

type stubArbiter struct {
	outcome model.Outcome
}

func (s stubArbiter) Arbitrate(ctx context.Context, message string, conv *model.ConversationState) model.Outcome {
	return s.outcome
}

func (s stubArbiter) EscalateToHuman(o model.Outcome) model.Outcome {
	o.Kind = model.OutcomeEscalate
	return o
}

type memoryTickets struct {
	mu      sync.Mutex
	records []*model.TicketRecord
}

func (m *memoryTickets) Save(ctx context.Context, r *model.TicketRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records = append(m.records, r)
	return nil
}

func (m *memoryTickets) GetByUpstreamID(ctx context.Context, id int64) (*model.TicketRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.records {
		if r.UpstreamTicketID == id {
			return r, nil
		}
	}
	return nil, nil
}

func (m *memoryTickets) ListBySession(ctx context.Context, sessionID string) ([]*model.TicketRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*model.TicketRecord
	for _, r := range m.records {
		if r.SessionID == sessionID {
			out = append(out, r)
		}
	}
	return out, nil
}

type memoryArchive struct {
	mu       sync.Mutex
	sessions map[string]*model.Session
}

func (m *memoryArchive) Archive(ctx context.Context, s *model.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[s.ID] = s
	return nil
}

func (m *memoryArchive) GetByID(ctx context.Context, id string) (*model.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sessions[id], nil
}

type testEnv struct {
	handler      http.Handler
	zendeskCalls int
}

// newTestEnv wires the router against a fake helpdesk answering with
// zendeskStatus/zendeskBody. Empty zendeskBody leaves the helpdesk unconfigured.
func newTestEnv(t *testing.T, outcome model.Outcome, zendeskStatus int, zendeskBody string) *testEnv {
	t.Helper()
	env := &testEnv{}

	zd := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		env.zendeskCalls++
		w.WriteHeader(zendeskStatus)
		_, _ = io.WriteString(w, zendeskBody)
	}))
	t.Cleanup(zd.Close)

	zcfg := config.ZendeskConfig{TicketTypeFieldID: "custom_field_123", BaseURL: zd.URL}
	if zendeskBody != "" {
		zcfg.Subdomain, zcfg.Email, zcfg.APIToken = "acme", "agent@acme.com", "tok"
	}

	auth := service.NewAuthService("secret", time.Hour)
	archive := &memoryArchive{sessions: map[string]*model.Session{}}
	tickets := service.NewTicketService(zcfg, service.NewZendeskClient(zcfg, discardLog), &memoryTickets{}, events.Discard(), discardLog)
	sessions := service.NewSessionService(cache.NewMemorySessionCache(time.Hour, time.Hour), archive, stubArbiter{outcome: outcome}, tickets, auth, events.Discard(), discardLog)
	hub := ws.NewHub(discardLog)
	sessions.SetBroadcaster(hub)

	env.handler = NewRouter(&Container{
		AuthService:    auth,
		SessionService: sessions,
		TicketService:  tickets,
		WSHub:          hub,
		CORS:           config.CORSConfig{AllowedOrigins: "*", AllowedMethods: "GET, POST", AllowedHeaders: "Content-Type, Authorization"},
		Log:            discardLog,
	})
	return env
}

func (e *testEnv) do(t *testing.T, method, path, token, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.handler.ServeHTTP(rec, req)
	return rec
}

const validTicket = `{"name":"Ada","email":"ada@example.com","message":"My key broke","priority":"high"}`

func TestCreateTicket_Created(t *testing.T) {
	env := newTestEnv(t, model.Outcome{}, http.StatusCreated, `{"ticket":{"id":555}}`)
	rec := env.do(t, "POST", "/v1/tickets", "", validTicket)

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body)
	}
	body := gjson.Parse(rec.Body.String())
	if !body.Get("success").Bool() || body.Get("upstreamTicketId").Int() != 555 {
		t.Errorf("body = %s", rec.Body)
	}
	if body.Get("ticket.subject").String() != "General Inquiry" || body.Get("ticket.priority").String() != "high" {
		t.Errorf("ticket = %s", body.Get("ticket").Raw)
	}
}

func TestCreateTicket_ValidationErrors(t *testing.T) {
	env := newTestEnv(t, model.Outcome{}, http.StatusCreated, `{"ticket":{"id":1}}`)
	rec := env.do(t, "POST", "/v1/tickets", "", `{"name":"","email":"","message":"hi","priority":"critical"}`)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", rec.Code)
	}
	var body struct {
		Success bool                `json:"success"`
		Errors  map[string][]string `json:"errors"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	want := map[string][]string{
		"name":     {"Please enter your name."},
		"email":    {"Please enter your email.", "Please enter a valid email."},
		"priority": {"Invalid enum value. Expected 'urgent' | 'high' | 'medium' | 'low', received 'critical'"},
	}
	if diff := cmp.Diff(want, body.Errors); diff != "" {
		t.Errorf("errors (-want +got):\n%s", diff)
	}
	if env.zendeskCalls != 0 {
		t.Error("helpdesk called on invalid input")
	}
}

func TestCreateTicket_InvalidJSON(t *testing.T) {
	env := newTestEnv(t, model.Outcome{}, http.StatusCreated, `{"ticket":{"id":1}}`)
	rec := env.do(t, "POST", "/v1/tickets", "", `{not json`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", rec.Code)
	}
	if !gjson.Get(rec.Body.String(), "errors._errors").IsArray() {
		t.Errorf("body = %s", rec.Body)
	}
}

func TestCreateTicket_MissingConfiguration(t *testing.T) {
	env := newTestEnv(t, model.Outcome{}, http.StatusCreated, "")
	rec := env.do(t, "POST", "/v1/tickets", "", validTicket)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d", rec.Code)
	}
	if got := gjson.Get(rec.Body.String(), "message").String(); got != "Server configuration error" {
		t.Errorf("message = %q", got)
	}
	if strings.Contains(rec.Body.String(), "ZENDESK") {
		t.Error("response must not name the missing credential")
	}
}

func TestCreateTicket_UpstreamRejected(t *testing.T) {
	env := newTestEnv(t, model.Outcome{}, http.StatusUnprocessableEntity, `{"error":"RecordInvalid"}`)
	rec := env.do(t, "POST", "/v1/tickets", "", validTicket)

	if rec.Code != http.StatusBadGateway {
		t.Fatalf("status = %d", rec.Code)
	}
	body := gjson.Parse(rec.Body.String())
	if body.Get("success").Bool() || body.Get("details.error").String() != "RecordInvalid" {
		t.Errorf("body = %s", rec.Body)
	}
}

func TestSessionFlow(t *testing.T) {
	outcome := model.Outcome{
		Kind:    model.OutcomeEscalate,
		Caption: &model.Caption{Instruction: "confirm"},
		Prefill: &model.ContextPrefill{SubjectLine: "Key broke", Priority: model.PriorityHigh, TicketType: model.TicketReportBug},
	}
	env := newTestEnv(t, outcome, http.StatusCreated, `{"ticket":{"id":77}}`)

	rec := env.do(t, "POST", "/v1/sessions", "", "")
	if rec.Code != http.StatusCreated {
		t.Fatalf("start: %d %s", rec.Code, rec.Body)
	}
	token := gjson.Get(rec.Body.String(), "token").String()

	if rec := env.do(t, "GET", "/v1/sessions/current", "", ""); rec.Code != http.StatusUnauthorized {
		t.Fatalf("no token: status = %d", rec.Code)
	}

	rec = env.do(t, "POST", "/v1/sessions/current/next", token, "")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("next on empty draft: %d", rec.Code)
	}

	rec = env.do(t, "PUT", "/v1/sessions/current/draft", token, `{"name":"Ada","email":"ada@example.com","message":"My key broke"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("draft: %d %s", rec.Code, rec.Body)
	}
	if gjson.Get(rec.Body.String(), "errors").Exists() {
		t.Errorf("draft is valid, errors = %s", gjson.Get(rec.Body.String(), "errors").Raw)
	}

	rec = env.do(t, "POST", "/v1/sessions/current/next", token, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("next: %d %s", rec.Code, rec.Body)
	}
	snap := gjson.Parse(rec.Body.String())
	if snap.Get("view").String() != "escalation" || snap.Get("draft.subject").String() != "Key broke" {
		t.Errorf("snapshot = %s", rec.Body)
	}

	if rec := env.do(t, "POST", "/v1/sessions/current/escalate", token, ""); rec.Code != http.StatusConflict {
		t.Errorf("escalate from escalation view: status = %d", rec.Code)
	}

	rec = env.do(t, "POST", "/v1/sessions/current/ticket", token, "")
	if rec.Code != http.StatusCreated {
		t.Fatalf("submit: %d %s", rec.Code, rec.Body)
	}
	body := gjson.Parse(rec.Body.String())
	if body.Get("upstreamTicketId").Int() != 77 || body.Get("session.acknowledgement.title").String() != "Thank you!" {
		t.Errorf("submit body = %s", rec.Body)
	}
	if body.Get("session.draft.subject").String() != model.DefaultSubject {
		t.Errorf("draft not reset: %s", body.Get("session.draft").Raw)
	}

	if rec := env.do(t, "POST", "/v1/sessions/current/ticket", token, ""); rec.Code != http.StatusConflict {
		t.Errorf("second submit: status = %d", rec.Code)
	}

	rec = env.do(t, "GET", "/v1/sessions/current/tickets", token, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("list tickets: %d %s", rec.Code, rec.Body)
	}
	if ids := gjson.Get(rec.Body.String(), "#.upstreamTicketId").Array(); len(ids) != 1 || ids[0].Int() != 77 {
		t.Errorf("tickets = %s", rec.Body)
	}
	rec = env.do(t, "GET", "/v1/sessions/current/tickets/77", token, "")
	if rec.Code != http.StatusOK || gjson.Get(rec.Body.String(), "ticket.subject").String() != "Key broke" {
		t.Errorf("get ticket: %d %s", rec.Code, rec.Body)
	}
	if rec := env.do(t, "GET", "/v1/sessions/current/tickets/78", token, ""); rec.Code != http.StatusNotFound {
		t.Errorf("unknown ticket: status = %d", rec.Code)
	}
	if rec := env.do(t, "GET", "/v1/sessions/current/archive", token, ""); rec.Code != http.StatusNotFound {
		t.Errorf("archive before end: status = %d", rec.Code)
	}

	if rec := env.do(t, "DELETE", "/v1/sessions/current", token, ""); rec.Code != http.StatusNoContent {
		t.Fatalf("end: status = %d", rec.Code)
	}
	if rec := env.do(t, "GET", "/v1/sessions/current", token, ""); rec.Code != http.StatusNotFound {
		t.Errorf("get after end: status = %d", rec.Code)
	}
	rec = env.do(t, "GET", "/v1/sessions/current/archive", token, "")
	if rec.Code != http.StatusOK || gjson.Get(rec.Body.String(), "endedAt").String() == "" {
		t.Errorf("archive after end: %d %s", rec.Code, rec.Body)
	}
}

func TestTicketsAreScopedToSession(t *testing.T) {
	env := newTestEnv(t, model.Outcome{Kind: model.OutcomeEscalate}, http.StatusCreated, `{"ticket":{"id":90}}`)

	owner := env.startFilled(t)
	if rec := env.do(t, "POST", "/v1/sessions/current/next", owner, ""); rec.Code != http.StatusOK {
		t.Fatalf("next: %d %s", rec.Code, rec.Body)
	}
	if rec := env.do(t, "POST", "/v1/sessions/current/ticket", owner, ""); rec.Code != http.StatusCreated {
		t.Fatalf("submit: %d %s", rec.Code, rec.Body)
	}

	other := env.startFilled(t)
	if rec := env.do(t, "GET", "/v1/sessions/current/tickets/90", other, ""); rec.Code != http.StatusNotFound {
		t.Errorf("foreign ticket: status = %d", rec.Code)
	}
	rec := env.do(t, "GET", "/v1/sessions/current/tickets", other, "")
	if rec.Code != http.StatusOK || strings.TrimSpace(rec.Body.String()) != "[]" {
		t.Errorf("other session tickets: %d %s", rec.Code, rec.Body)
	}
}

func (e *testEnv) startFilled(t *testing.T) string {
	t.Helper()
	rec := e.do(t, "POST", "/v1/sessions", "", "")
	if rec.Code != http.StatusCreated {
		t.Fatalf("start: %d %s", rec.Code, rec.Body)
	}
	token := gjson.Get(rec.Body.String(), "token").String()
	if rec := e.do(t, "PUT", "/v1/sessions/current/draft", token, `{"name":"Ada","email":"ada@example.com","message":"help"}`); rec.Code != http.StatusOK {
		t.Fatalf("draft: %d %s", rec.Code, rec.Body)
	}
	return token
}

func TestHealthAndDocs(t *testing.T) {
	env := newTestEnv(t, model.Outcome{}, http.StatusCreated, `{}`)

	if rec := env.do(t, "GET", "/health", "", ""); rec.Code != http.StatusOK {
		t.Errorf("health: %d", rec.Code)
	}

	rec := env.do(t, "GET", "/swagger/doc.json", "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("doc: %d", rec.Code)
	}
	if !gjson.Valid(rec.Body.String()) || !gjson.Get(rec.Body.String(), `paths./v1/tickets`).Exists() {
		t.Errorf("doc = %.200s", rec.Body)
	}
}

func TestCORSPreflight(t *testing.T) {
	env := newTestEnv(t, model.Outcome{}, http.StatusCreated, `{}`)
	req := httptest.NewRequest("OPTIONS", "/v1/sessions/current/next", bytes.NewReader(nil))
	rec := httptest.NewRecorder()
	env.handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("preflight status = %d", rec.Code)
	}
	if rec.Header().Get("Access-Control-Allow-Origin") != "*" {
		t.Errorf("headers = %v", rec.Header())
	}
}

func TestUpdateDraft_FieldTypeErrors(t *testing.T) {
	env := newTestEnv(t, model.Outcome{}, http.StatusCreated, `{}`)
	token := env.startFilled(t)

	rec := env.do(t, "PUT", "/v1/sessions/current/draft", token, `{"name":123,"organizationId":9223372036854775808}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body)
	}
	body := gjson.Parse(rec.Body.String())
	if got := body.Get("errors.name.0").String(); got != "Expected string, received number" {
		t.Errorf("name error = %q", got)
	}
	if !body.Get("errors.organizationId").IsArray() {
		t.Errorf("organizationId error missing: %s", rec.Body)
	}

	// the rejected patch left the draft alone
	rec = env.do(t, "GET", "/v1/sessions/current", token, "")
	if got := gjson.Get(rec.Body.String(), "draft.name").String(); got != "Ada" {
		t.Errorf("draft.name = %q", got)
	}

	rec = env.do(t, "PUT", "/v1/sessions/current/draft", token, `not json`)
	if rec.Code != http.StatusBadRequest || !gjson.Get(rec.Body.String(), "errors._errors").IsArray() {
		t.Errorf("invalid json: %d %s", rec.Code, rec.Body)
	}
}
