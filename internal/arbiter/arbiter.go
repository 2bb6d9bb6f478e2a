// Package arbiter decides, for one support question, whether the automated
// answer is good enough to show or whether the visitor should be handed to
// the ticket form.
//
// Both responders run concurrently and settle independently: a failing or
// panicking responder never cancels or hides the other one's result, and
// every combination of outcomes maps to a defined model.Outcome.
package arbiter

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/inkeep/intelligent-support-form/internal/model"
	"github.com/inkeep/intelligent-support-form/internal/responder"
	"golang.org/x/sync/errgroup"
)

// Arbitrator combines the QA and context responders into one outcome
type Arbitrator struct {
	qa       responder.QAResponder
	context  responder.ContextResponder
	captions Captions
	log      *slog.Logger
}

// New creates an arbitrator. botName labels AI-authored captions.
func New(qa responder.QAResponder, ctxResponder responder.ContextResponder, botName string, log *slog.Logger) *Arbitrator {
	return &Arbitrator{
		qa:       qa,
		context:  ctxResponder,
		captions: Captions{BotName: botName},
		log:      log.With("component", "arbiter"),
	}
}

type settled[T any] struct {
	value *T
	err   error
}

func (s settled[T]) ok() bool {
	return s.err == nil && s.value != nil
}

// Arbitrate runs both responders against conv and returns the next UI state.
// It never fails: responder errors degrade to escalation. conv is updated with
// whatever each responder appended to its own history.
func (a *Arbitrator) Arbitrate(ctx context.Context, message string, conv *model.ConversationState) model.Outcome {
	qaHistory := model.NewTranscript(conv.QAModeMessages)
	contextHistory := model.NewTranscript(conv.ContextModeMessages)

	var qa settled[responder.QAResult]
	var prefill settled[responder.ContextResult]

	// Each goroutine reports through its own slot and returns nil, so Wait
	// only joins; it never short-circuits.
	var g errgroup.Group
	g.Go(func() error {
		qa = settle(func() (*responder.QAResult, error) {
			return a.qa.Respond(ctx, message, qaHistory)
		})
		return nil
	})
	g.Go(func() error {
		prefill = settle(func() (*responder.ContextResult, error) {
			return a.context.Respond(ctx, message, contextHistory)
		})
		return nil
	})
	_ = g.Wait()

	conv.QAModeMessages = qaHistory.Messages()
	conv.ContextModeMessages = contextHistory.Messages()

	if qa.err != nil {
		a.log.Warn("qa responder failed", slog.Any("err", qa.err))
	}
	if prefill.err != nil {
		a.log.Warn("context responder failed", slog.Any("err", prefill.err))
	}

	var out model.Outcome
	switch {
	case qa.ok() && prefill.ok():
		out = a.decide(qa.value)
		p := prefill.value.ResponseObject
		out.Prefill = &p
	case qa.ok():
		out = a.decide(qa.value)
	case prefill.ok():
		out = a.escalateDefault()
		p := prefill.value.ResponseObject
		out.Prefill = &p
	default:
		out = a.escalateDefault()
	}

	out.QAStatus = status(qa.ok())
	out.ContextStatus = status(prefill.ok())

	a.log.Info("arbitration settled",
		slog.String("kind", string(out.Kind)),
		slog.String("qa", string(out.QAStatus)),
		slog.String("context", string(out.ContextStatus)),
		slog.String("confidence", out.Confidence),
		slog.Bool("prefill", out.Prefill != nil))
	return out
}

// decide applies the confidence gate to a successful QA result
func (a *Arbitrator) decide(res *responder.QAResult) model.Outcome {
	confidence := res.Confidence()
	if Confident(confidence, res.Text, res.Records) {
		return model.Outcome{
			Kind:       model.OutcomeConfident,
			Answer:     res.Text,
			Records:    res.Records,
			Confidence: confidence.String(),
		}
	}
	return model.Outcome{
		Kind:       model.OutcomeEscalate,
		Caption:    a.captions.NotFound(res.Records),
		Confidence: confidence.String(),
	}
}

func (a *Arbitrator) escalateDefault() model.Outcome {
	return model.Outcome{
		Kind:    model.OutcomeEscalate,
		Caption: a.captions.Default(),
	}
}

// EscalateToHuman turns a confident outcome into an escalation the visitor
// asked for. The prefill is kept.
func (a *Arbitrator) EscalateToHuman(o model.Outcome) model.Outcome {
	o.Kind = model.OutcomeEscalate
	o.Caption = a.captions.Acknowledged()
	return o
}

// Confident is the gate for showing an automated answer: the model must be
// very or somewhat confident, the answer non-empty and at least one record cited.
func Confident(c model.AnswerConfidence, answer string, records []model.RecordConsidered) bool {
	return c.Confident() && answer != "" && len(records) > 0
}

// settle runs fn and converts a panic into an error
func settle[T any](fn func() (*T, error)) (s settled[T]) {
	defer func() {
		if r := recover(); r != nil {
			s = settled[T]{err: fmt.Errorf("responder panic: %v", r)}
		}
	}()
	v, err := fn()
	if err == nil && v == nil {
		err = fmt.Errorf("responder returned no result")
	}
	return settled[T]{value: v, err: err}
}

func status(ok bool) model.CallStatus {
	if ok {
		return model.CallFulfilled
	}
	return model.CallRejected
}
