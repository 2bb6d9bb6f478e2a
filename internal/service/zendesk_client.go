package service

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/inkeep/intelligent-support-form/internal/config"
	"github.com/tidwall/gjson"
)

// ZendeskTicket is the ticket body of the create-ticket call
type ZendeskTicket struct {
	Subject        string               `json:"subject"`
	Comment        ZendeskComment       `json:"comment"`
	Priority       int                  `json:"priority"`
	Requester      ZendeskRequester     `json:"requester"`
	CustomFields   []ZendeskCustomField `json:"custom_fields"`
	OrganizationID int64                `json:"organization_id,omitempty"`
}

type ZendeskComment struct {
	Body string `json:"body"`
}

type ZendeskRequester struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

type ZendeskCustomField struct {
	ID    string `json:"id"`
	Value string `json:"value"`
}

// UpstreamError is returned when the helpdesk answers with a non-2xx status
type UpstreamError struct {
	StatusCode int
	Details    json.RawMessage
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("helpdesk rejected ticket: status %d", e.StatusCode)
}

// ZendeskClient wraps the helpdesk ticket API
type ZendeskClient struct {
	baseURL    string
	email      string
	apiToken   string
	httpClient *http.Client
	log        *slog.Logger
}

// NewZendeskClient creates a helpdesk client. BaseURL, when set, replaces
// the subdomain-derived API root.
func NewZendeskClient(cfg config.ZendeskConfig, log *slog.Logger) *ZendeskClient {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = fmt.Sprintf("https://%s.zendesk.com/api/v2", cfg.Subdomain)
	}
	return &ZendeskClient{
		baseURL:  strings.TrimSuffix(baseURL, "/"),
		email:    cfg.Email,
		apiToken: cfg.APIToken,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		log: log.With("component", "zendesk"),
	}
}

func (c *ZendeskClient) authorization() string {
	creds := c.email + "/token:" + c.apiToken
	return "Basic " + base64.StdEncoding.EncodeToString([]byte(creds))
}

// CreateTicket makes exactly one create call and returns the upstream ticket id.
// No retries: a retried create can open duplicate tickets.
func (c *ZendeskClient) CreateTicket(ctx context.Context, ticket ZendeskTicket) (int64, error) {
	body, err := json.Marshal(map[string]ZendeskTicket{"ticket": ticket})
	if err != nil {
		return 0, fmt.Errorf("encode ticket: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/tickets.json", bytes.NewReader(body))
	if err != nil {
		return 0, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", c.authorization())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("create ticket request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, fmt.Errorf("read ticket response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.log.Error("helpdesk API error", slog.Int("status", resp.StatusCode), slog.String("body", string(respBody)))
		return 0, &UpstreamError{StatusCode: resp.StatusCode, Details: rawDetails(respBody)}
	}

	id := gjson.GetBytes(respBody, "ticket.id").Int()
	c.log.Info("ticket created", slog.Int64("ticket_id", id))
	return id, nil
}

// rawDetails keeps a JSON error body as-is and wraps anything else as a string
func rawDetails(body []byte) json.RawMessage {
	if len(bytes.TrimSpace(body)) > 0 && gjson.ValidBytes(body) {
		return json.RawMessage(body)
	}
	quoted, _ := json.Marshal(string(body))
	return quoted
}
