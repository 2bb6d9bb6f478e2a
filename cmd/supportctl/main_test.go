package main

import (
	"bytes"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/tidwall/gjson"
)

func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(io.Discard)
	root.SetIn(strings.NewReader(stdin))
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestValidate_Valid(t *testing.T) {
	out, err := run(t, `{"name":" Ada ","email":"ada@example.com","message":"help","unknown":1}`, "validate")
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if gjson.Get(out, "name").String() != "Ada" || gjson.Get(out, "subject").String() != "General Inquiry" {
		t.Errorf("output = %s", out)
	}
	if gjson.Get(out, "unknown").Exists() {
		t.Error("unknown keys must be dropped")
	}
}

func TestValidate_InvalidFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ticket.json")
	if err := os.WriteFile(path, []byte(`{"name":"Ada","email":"ada@","message":""}`), 0644); err != nil {
		t.Fatal(err)
	}
	out, err := run(t, "", "validate", "-f", path)
	if !errors.Is(err, errInvalidTicket) {
		t.Fatalf("err = %v", err)
	}
	if gjson.Get(out, "errors.email.0").String() != "Please enter a valid email." {
		t.Errorf("output = %s", out)
	}
	if gjson.Get(out, "errors.message.0").String() != "Please enter a message." {
		t.Errorf("output = %s", out)
	}
}

func TestSubmit(t *testing.T) {
	zd := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
		_, _ = io.WriteString(w, `{"ticket":{"id":4242}}`)
	}))
	defer zd.Close()

	t.Setenv("SUPPORT_FORM_CONFIG", filepath.Join(t.TempDir(), "missing.yaml"))
	t.Setenv("ZENDESK_SUBDOMAIN", "acme")
	t.Setenv("ZENDESK_EMAIL", "agent@acme.com")
	t.Setenv("ZENDESK_API_TOKEN", "tok")
	t.Setenv("ZENDESK_BASE_URL", zd.URL)
	t.Setenv("LOG_LEVEL", "error")

	out, err := run(t, `{"name":"Ada","email":"ada@example.com","message":"help"}`, "submit")
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if gjson.Get(out, "upstreamTicketId").Int() != 4242 {
		t.Errorf("output = %s", out)
	}
}

func TestAsk_WithoutAPIKeyEscalates(t *testing.T) {
	t.Setenv("SUPPORT_FORM_CONFIG", filepath.Join(t.TempDir(), "missing.yaml"))
	t.Setenv("INKEEP_API_KEY", "")
	t.Setenv("LOG_LEVEL", "error")

	out, err := run(t, "", "ask", "how do I reset my", "API key?")
	if err != nil {
		t.Fatalf("ask: %v", err)
	}
	if gjson.Get(out, "outcome.kind").String() != "escalate" {
		t.Errorf("output = %s", out)
	}
	if gjson.Get(out, "conversation.qaModeMessages.0.content").String() != "how do I reset my API key?" {
		t.Errorf("qa history = %s", gjson.Get(out, "conversation.qaModeMessages").Raw)
	}
}
