package events

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/segmentio/kafka-go"
)

type fakeWriter struct {
	msgs []kafka.Message
	err  error
}

func (w *fakeWriter) WriteMessages(ctx context.Context, msgs ...kafka.Message) error {
	if w.err != nil {
		return w.err
	}
	w.msgs = append(w.msgs, msgs...)
	return nil
}

func (w *fakeWriter) Close() error { return nil }

func TestKafkaPublisher_Publish(t *testing.T) {
	w := &fakeWriter{}
	p := &KafkaPublisher{writer: w, log: slog.New(slog.NewTextHandler(io.Discard, nil))}

	ev := New(TicketCreated, "ticket-1", map[string]int64{"upstreamTicketId": 42})
	ev.SessionID = "s1"
	if err := p.Publish(context.Background(), ev); err != nil {
		t.Fatalf("Publish: %v", err)
	}

	if len(w.msgs) != 1 {
		t.Fatalf("wrote %d messages, want 1", len(w.msgs))
	}
	msg := w.msgs[0]
	if string(msg.Key) != "ticket-1" {
		t.Errorf("key = %q", msg.Key)
	}
	if len(msg.Headers) != 1 || string(msg.Headers[0].Value) != TicketCreated {
		t.Errorf("headers = %+v", msg.Headers)
	}

	var body struct {
		Type      string           `json:"type"`
		SessionID string           `json:"sessionId"`
		Data      map[string]int64 `json:"data"`
	}
	if err := json.Unmarshal(msg.Value, &body); err != nil {
		t.Fatalf("value is not JSON: %v", err)
	}
	if body.Type != TicketCreated || body.SessionID != "s1" || body.Data["upstreamTicketId"] != 42 {
		t.Errorf("body = %+v", body)
	}
}

func TestKafkaPublisher_WriteError(t *testing.T) {
	w := &fakeWriter{err: errors.New("broker down")}
	p := &KafkaPublisher{writer: w, log: slog.New(slog.NewTextHandler(io.Discard, nil))}
	if err := p.Publish(context.Background(), New(SessionEscalated, "s1", nil)); err == nil {
		t.Fatal("expected an error")
	}
}

func TestDiscard(t *testing.T) {
	p := Discard()
	if err := p.Publish(context.Background(), New(ArbitrationCompleted, "s1", nil)); err != nil {
		t.Fatal(err)
	}
	if err := p.Close(); err != nil {
		t.Fatal(err)
	}
}
