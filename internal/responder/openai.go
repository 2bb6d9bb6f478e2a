package responder

import (
	"net/http"
	"strings"

	"github.com/inkeep/intelligent-support-form/internal/config"
	"github.com/inkeep/intelligent-support-form/internal/model"
	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
)

// newAPIClient builds an OpenAI-compatible client for the configured base URL.
// Extra options come last so callers (and tests) can override anything.
func newAPIClient(cfg *config.AIConfig, extra ...option.RequestOption) openai.Client {
	baseURL := cfg.BaseURL
	if !strings.HasSuffix(baseURL, "/") {
		baseURL += "/"
	}
	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithBaseURL(baseURL),
		option.WithHTTPClient(&http.Client{Timeout: cfg.Timeout()}),
		option.WithMaxRetries(cfg.MaxRetries),
	}
	opts = append(opts, extra...)
	return openai.NewClient(opts...)
}

// toParams converts a transcript into chat messages, dropping tool entries
func toParams(msgs []model.Message) []openai.ChatCompletionMessageParamUnion {
	out := make([]openai.ChatCompletionMessageParamUnion, 0, len(msgs))
	for _, m := range msgs {
		switch m.Role {
		case model.RoleUser:
			out = append(out, openai.UserMessage(m.Content))
		case model.RoleAssistant:
			out = append(out, openai.AssistantMessage(m.Content))
		case model.RoleSystem:
			out = append(out, openai.SystemMessage(m.Content))
		}
	}
	return out
}
