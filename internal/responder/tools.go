package responder

import (
	"encoding/json"
	"fmt"

	"github.com/inkeep/intelligent-support-form/internal/model"
	"github.com/openai/openai-go/v3"
	"github.com/tidwall/gjson"
)

const (
	toolRecordsConsidered = "provideRecordsConsidered"
	toolAIAnnotations     = "provideAIAnnotations"
	toolLinks             = "provideLinks" // older QA models still call this one
)

var recordSchema = map[string]any{
	"type": "object",
	"properties": map[string]any{
		"type":  map[string]any{"type": "string"},
		"url":   map[string]any{"type": "string"},
		"title": map[string]any{"type": "string"},
		"breadcrumbs": map[string]any{
			"type":  []string{"array", "null"},
			"items": map[string]any{"type": "string"},
		},
	},
	"required":             []string{"type", "url", "title"},
	"additionalProperties": true,
}

var qaTools = []openai.ChatCompletionToolUnionParam{
	openai.ChatCompletionFunctionTool(openai.FunctionDefinitionParam{
		Name:        toolRecordsConsidered,
		Description: openai.String("Report the source records considered while answering."),
		Parameters: openai.FunctionParameters{
			"type": "object",
			"properties": map[string]any{
				"recordsConsidered": map[string]any{
					"type":  "array",
					"items": recordSchema,
				},
			},
			"required": []string{"recordsConsidered"},
		},
	}),
	openai.ChatCompletionFunctionTool(openai.FunctionDefinitionParam{
		Name:        toolAIAnnotations,
		Description: openai.String("Annotate the answer with how confident the model is."),
		Parameters: openai.FunctionParameters{
			"type": "object",
			"properties": map[string]any{
				"aiAnnotations": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"answerConfidence": map[string]any{
							"anyOf": []any{
								map[string]any{
									"type": "string",
									"enum": []string{"very_confident", "somewhat_confident", "not_confident", "no_sources", "other"},
								},
								map[string]any{"type": "string"},
							},
						},
					},
					"required":             []string{"answerConfidence"},
					"additionalProperties": true,
				},
			},
			"required": []string{"aiAnnotations"},
		},
	}),
}

// decodeAnnotations validates a provideAIAnnotations payload
func decodeAnnotations(args string) (*model.AIAnnotations, error) {
	v := gjson.Get(args, "aiAnnotations")
	if !v.IsObject() {
		return nil, fmt.Errorf("%w: aiAnnotations must be an object", ErrSchemaMismatch)
	}
	if c := v.Get("answerConfidence"); c.Type != gjson.String {
		return nil, fmt.Errorf("%w: answerConfidence must be a string", ErrSchemaMismatch)
	}
	var a model.AIAnnotations
	if err := json.Unmarshal([]byte(v.Raw), &a); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSchemaMismatch, err)
	}
	return &a, nil
}

// decodeRecords validates a provideRecordsConsidered payload
func decodeRecords(args string) ([]model.RecordConsidered, error) {
	list := gjson.Get(args, "recordsConsidered")
	if !list.IsArray() {
		return nil, fmt.Errorf("%w: recordsConsidered must be an array", ErrSchemaMismatch)
	}
	var records []model.RecordConsidered
	for i, item := range list.Array() {
		if err := checkRecord(item, true); err != nil {
			return nil, fmt.Errorf("%w: record %d: %v", ErrSchemaMismatch, i, err)
		}
		var r model.RecordConsidered
		if err := json.Unmarshal([]byte(item.Raw), &r); err != nil {
			return nil, fmt.Errorf("%w: record %d: %v", ErrSchemaMismatch, i, err)
		}
		records = append(records, r)
	}
	return records, nil
}

// decodeLinks maps a legacy provideLinks payload onto records. Links only
// guarantee a url; type and title may be missing.
func decodeLinks(args string) ([]model.RecordConsidered, error) {
	list := gjson.Get(args, "links")
	if !list.IsArray() {
		return nil, fmt.Errorf("%w: links must be an array", ErrSchemaMismatch)
	}
	var records []model.RecordConsidered
	for i, item := range list.Array() {
		if err := checkRecord(item, false); err != nil {
			return nil, fmt.Errorf("%w: link %d: %v", ErrSchemaMismatch, i, err)
		}
		var r model.RecordConsidered
		if err := json.Unmarshal([]byte(item.Raw), &r); err != nil {
			return nil, fmt.Errorf("%w: link %d: %v", ErrSchemaMismatch, i, err)
		}
		if r.Title == "" {
			r.Title = item.Get("label").String()
		}
		if r.Title == "" {
			r.Title = r.URL
		}
		records = append(records, r)
	}
	return records, nil
}

func checkRecord(item gjson.Result, strict bool) error {
	if !item.IsObject() {
		return fmt.Errorf("not an object")
	}
	required := []string{"url"}
	if strict {
		required = []string{"type", "url", "title"}
	}
	for _, field := range required {
		if item.Get(field).Type != gjson.String {
			return fmt.Errorf("%s must be a string", field)
		}
	}
	for _, field := range []string{"type", "title"} {
		if v := item.Get(field); v.Exists() && v.Type != gjson.String {
			return fmt.Errorf("%s must be a string", field)
		}
	}
	if crumbs := item.Get("breadcrumbs"); crumbs.Exists() && crumbs.Type != gjson.Null {
		if !crumbs.IsArray() {
			return fmt.Errorf("breadcrumbs must be an array")
		}
		for _, c := range crumbs.Array() {
			if c.Type != gjson.String {
				return fmt.Errorf("breadcrumbs must hold strings")
			}
		}
	}
	return nil
}

// decodePrefill enforces the ContextPrefill shape on the context model output
func decodePrefill(content string) (model.ContextPrefill, error) {
	var p model.ContextPrefill
	if !gjson.Valid(content) {
		return p, fmt.Errorf("%w: output is not JSON", ErrSchemaMismatch)
	}
	root := gjson.Parse(content)
	for _, field := range []string{"subjectLine", "priority", "ticketType"} {
		if root.Get(field).Type != gjson.String {
			return p, fmt.Errorf("%w: %s must be a string", ErrSchemaMismatch, field)
		}
	}
	p.SubjectLine = root.Get("subjectLine").String()
	p.Priority = model.Priority(root.Get("priority").String())
	p.TicketType = model.TicketType(root.Get("ticketType").String())
	if !p.Priority.Valid() {
		return p, fmt.Errorf("%w: unknown priority %q", ErrSchemaMismatch, p.Priority)
	}
	if !p.TicketType.Valid() {
		return p, fmt.Errorf("%w: unknown ticketType %q", ErrSchemaMismatch, p.TicketType)
	}
	return p, nil
}
