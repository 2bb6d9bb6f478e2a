// Package responder holds the two AI calls consulted for every support
// question: the QA responder, which tries to answer it, and the context
// responder, which infers ticket metadata from it.
package responder

import (
	"context"
	"errors"

	"github.com/inkeep/intelligent-support-form/internal/model"
)

var (
	ErrNotConfigured   = errors.New("ai provider not configured")
	ErrEmptyCompletion = errors.New("completion returned no choices")
	ErrSchemaMismatch  = errors.New("structured output does not match schema")
)

// QAResult is what the QA responder produced for one message
type QAResult struct {
	Annotations *model.AIAnnotations     `json:"aiAnnotations,omitempty"` // nil when the model sent none
	Text        string                   `json:"text"`
	Records     []model.RecordConsidered `json:"recordsConsidered,omitempty"`
}

// Confidence returns the annotated confidence, or an unrecognized empty
// value when the model did not annotate its answer.
func (r *QAResult) Confidence() model.AnswerConfidence {
	if r.Annotations == nil {
		return model.ParseAnswerConfidence("")
	}
	return r.Annotations.AnswerConfidence
}

// ContextResult is the ticket prefill inferred for one message
type ContextResult struct {
	ResponseObject model.ContextPrefill `json:"responseObject"`
}

// QAResponder answers a question. It appends the user message to history
// before the model call and the assistant answer after it.
type QAResponder interface {
	Respond(ctx context.Context, message string, history *model.Transcript) (*QAResult, error)
}

// ContextResponder infers a ticket prefill. On success it appends the
// serialized prefill to history as one assistant entry.
type ContextResponder interface {
	Respond(ctx context.Context, message string, history *model.Transcript) (*ContextResult, error)
}
