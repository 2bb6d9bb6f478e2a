package responder

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/inkeep/intelligent-support-form/internal/config"
	"github.com/inkeep/intelligent-support-form/internal/model"
	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"github.com/openai/openai-go/v3/shared"
)

const contextInstruction = "You are a helpful assistant that helps the user create a support ticket. " +
	"Based on the user's message, provide an appropriate subject line, priority, and ticket type. " +
	`Respond with a JSON object {"subjectLine": string, "priority": one of "urgent", "high", "medium", "low", ` +
	`"ticketType": one of "talk_to_sales", "issue_in_production", "issue_in_development", "report_bug", ` +
	`"onboarding_help", "account_management", "feature_request"}.`

// Context calls the context-mode model in JSON output mode
type Context struct {
	api     openai.Client
	model   string
	enabled bool
	log     *slog.Logger
}

// NewContext creates the context responder
func NewContext(cfg *config.AIConfig, log *slog.Logger, opts ...option.RequestOption) *Context {
	return &Context{
		api:     newAPIClient(cfg, opts...),
		model:   cfg.Models.Context,
		enabled: cfg.IsEnabled(),
		log:     log.With("component", "context-responder"),
	}
}

// Respond implements ContextResponder
func (c *Context) Respond(ctx context.Context, message string, history *model.Transcript) (*ContextResult, error) {
	if !c.enabled {
		return nil, ErrNotConfigured
	}

	msgs := toParams(history.Messages())
	msgs = append(msgs, openai.SystemMessage(contextInstruction), openai.UserMessage(message))

	completion, err := c.api.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model:    openai.ChatModel(c.model),
		Messages: msgs,
		ResponseFormat: openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONObject: &shared.ResponseFormatJSONObjectParam{},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("context completion: %w", err)
	}
	if len(completion.Choices) == 0 {
		return nil, ErrEmptyCompletion
	}

	prefill, err := decodePrefill(completion.Choices[0].Message.Content)
	if err != nil {
		return nil, err
	}

	serialized, err := json.Marshal(prefill)
	if err != nil {
		return nil, err
	}
	history.Append(model.RoleAssistant, string(serialized))

	c.log.Debug("context response",
		slog.String("priority", string(prefill.Priority)),
		slog.String("ticketType", string(prefill.TicketType)))
	return &ContextResult{ResponseObject: prefill}, nil
}
