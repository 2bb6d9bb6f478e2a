package responder

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/inkeep/intelligent-support-form/internal/config"
	"github.com/inkeep/intelligent-support-form/internal/model"
	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
)

// QA calls the QA-mode model with the two side-channel tools declared
type QA struct {
	api     openai.Client
	model   string
	enabled bool
	log     *slog.Logger
}

// NewQA creates the QA responder
func NewQA(cfg *config.AIConfig, log *slog.Logger, opts ...option.RequestOption) *QA {
	return &QA{
		api:     newAPIClient(cfg, opts...),
		model:   cfg.Models.QA,
		enabled: cfg.IsEnabled(),
		log:     log.With("component", "qa-responder"),
	}
}

// Respond implements QAResponder
func (q *QA) Respond(ctx context.Context, message string, history *model.Transcript) (*QAResult, error) {
	history.Append(model.RoleUser, message)

	if !q.enabled {
		return nil, ErrNotConfigured
	}

	completion, err := q.api.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model:    openai.ChatModel(q.model),
		Messages: toParams(history.Messages()),
		Tools:    qaTools,
		ToolChoice: openai.ChatCompletionToolChoiceOptionUnionParam{
			OfAuto: openai.String("auto"),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("qa completion: %w", err)
	}
	if len(completion.Choices) == 0 {
		return nil, ErrEmptyCompletion
	}

	msg := completion.Choices[0].Message
	history.Append(model.RoleAssistant, msg.Content)

	result := &QAResult{Text: msg.Content}
	for _, call := range msg.ToolCalls {
		args := call.Function.Arguments
		switch call.Function.Name {
		case toolAIAnnotations:
			a, err := decodeAnnotations(args)
			if err != nil {
				q.log.Warn("dropping ai annotations", slog.Any("err", err))
				continue
			}
			result.Annotations = a
		case toolRecordsConsidered:
			records, err := decodeRecords(args)
			if err != nil {
				q.log.Warn("dropping records considered", slog.Any("err", err))
				continue
			}
			result.Records = records
		case toolLinks:
			if result.Records != nil {
				continue
			}
			records, err := decodeLinks(args)
			if err != nil {
				q.log.Warn("dropping links", slog.Any("err", err))
				continue
			}
			result.Records = records
		default:
			q.log.Debug("ignoring unknown tool call", slog.String("tool", call.Function.Name))
		}
	}

	q.log.Debug("qa response",
		slog.String("confidence", result.Confidence().String()),
		slog.Int("records", len(result.Records)),
		slog.Int("history", history.Len()))
	return result, nil
}
