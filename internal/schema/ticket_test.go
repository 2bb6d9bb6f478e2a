package schema

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/inkeep/intelligent-support-form/internal/model"
)

func TestParseTicket_AppliesDefaults(t *testing.T) {
	draft, errs := ParseTicket([]byte(`{"name":"  Ada ","email":"ada@example.com","message":" help ","extra":true}`))
	if !errs.Empty() {
		t.Fatalf("unexpected errors: %v", errs)
	}
	want := model.TicketDraft{
		Name:       "Ada",
		Email:      "ada@example.com",
		Message:    "help",
		Subject:    model.DefaultSubject,
		Priority:   model.PriorityMedium,
		TicketType: model.TicketIssueInProduction,
	}
	if diff := cmp.Diff(want, draft); diff != "" {
		t.Errorf("draft mismatch (-want +got):\n%s", diff)
	}
}

func TestParseTicket_FullDraft(t *testing.T) {
	raw := `{"name":"Ada","email":"ada@example.com","message":"m","subject":"API key reset","priority":"low","ticketType":"report_bug","organizationId":42}`
	draft, errs := ParseTicket([]byte(raw))
	if !errs.Empty() {
		t.Fatalf("unexpected errors: %v", errs)
	}
	if draft.OrganizationID == nil || *draft.OrganizationID != 42 {
		t.Fatalf("organizationId = %v, want 42", draft.OrganizationID)
	}
	if draft.Priority != model.PriorityLow || draft.TicketType != model.TicketReportBug {
		t.Fatalf("enums not kept: %+v", draft)
	}
}

func TestParseTicket_Errors(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want FieldErrors
	}{
		{
			name: "missing required",
			raw:  `{}`,
			want: FieldErrors{"name": {"Required"}, "email": {"Required"}, "message": {"Required"}},
		},
		{
			name: "blank after trim",
			raw:  `{"name":"  ","email":"","message":"\n"}`,
			want: FieldErrors{
				"name":    {"Please enter your name."},
				"email":   {"Please enter your email.", "Please enter a valid email."},
				"message": {"Please enter a message."},
			},
		},
		{
			name: "bad email and enum",
			raw:  `{"name":"a","email":"not-an-email","message":"m","ticketType":"refund"}`,
			want: FieldErrors{
				"email":      {"Please enter a valid email."},
				"ticketType": {"Invalid enum value. Expected 'talk_to_sales' | 'issue_in_production' | 'issue_in_development' | 'report_bug' | 'onboarding_help' | 'account_management' | 'feature_request', received 'refund'"},
			},
		},
		{
			name: "wrong types",
			raw:  `{"name":1,"email":"a@b.co","message":"m","priority":3,"organizationId":"7"}`,
			want: FieldErrors{
				"name":           {"Expected string, received number"},
				"priority":       {"Expected 'urgent' | 'high' | 'medium' | 'low', received number"},
				"organizationId": {"Expected number, received string"},
			},
		},
		{
			name: "fractional organization",
			raw:  `{"name":"a","email":"a@b.co","message":"m","organizationId":1.5}`,
			want: FieldErrors{"organizationId": {"Expected integer, received float"}},
		},
		{
			name: "negative organization",
			raw:  `{"name":"a","email":"a@b.co","message":"m","organizationId":-5}`,
			want: FieldErrors{"organizationId": {"Number must be greater than or equal to 0"}},
		},
		{
			name: "organization beyond int64",
			raw:  `{"name":"a","email":"a@b.co","message":"m","organizationId":9223372036854775808}`,
			want: FieldErrors{"organizationId": {"Number must be less than or equal to 9223372036854775807"}},
		},
		{
			name: "organization in exponent form beyond int64",
			raw:  `{"name":"a","email":"a@b.co","message":"m","organizationId":1e20}`,
			want: FieldErrors{"organizationId": {"Number must be less than or equal to 9223372036854775807"}},
		},
		{
			name: "not an object",
			raw:  `[1,2]`,
			want: FieldErrors{FormErrorsKey: {"Expected object, received array"}},
		},
		{
			name: "not json",
			raw:  `{"name":`,
			want: FieldErrors{FormErrorsKey: {"Invalid JSON"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, errs := ParseTicket([]byte(tt.raw))
			if diff := cmp.Diff(tt.want, errs); diff != "" {
				t.Errorf("errors mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestParseTicket_OrganizationID(t *testing.T) {
	tests := map[string]int64{
		`0`:                   0,
		`42`:                  42,
		`5e2`:                 500,
		`7.0`:                 7,
		`9223372036854775807`: 9223372036854775807,
	}
	for raw, want := range tests {
		draft, errs := ParseTicket([]byte(`{"name":"a","email":"a@b.co","message":"m","organizationId":` + raw + `}`))
		if !errs.Empty() {
			t.Errorf("%s: unexpected errors %v", raw, errs)
			continue
		}
		if draft.OrganizationID == nil || *draft.OrganizationID != want {
			t.Errorf("%s: OrganizationID = %v, want %d", raw, draft.OrganizationID, want)
		}
	}
}

func TestParseDraftPatch(t *testing.T) {
	patch, errs := ParseDraftPatch([]byte(`{"name":"Ada","priority":"high","organizationId":12,"extra":true}`))
	if !errs.Empty() {
		t.Fatalf("unexpected errors: %v", errs)
	}
	if patch.Name == nil || *patch.Name != "Ada" || patch.Email != nil {
		t.Errorf("name/email = %v/%v", patch.Name, patch.Email)
	}
	if patch.Priority == nil || *patch.Priority != model.PriorityHigh {
		t.Errorf("priority = %v", patch.Priority)
	}
	if patch.OrganizationID == nil || *patch.OrganizationID != 12 {
		t.Errorf("organizationId = %v", patch.OrganizationID)
	}

	tests := []struct {
		name string
		raw  string
		want FieldErrors
	}{
		{
			name: "wrong types",
			raw:  `{"name":123,"message":null,"ticketType":false,"organizationId":"7"}`,
			want: FieldErrors{
				"name":           {"Expected string, received number"},
				"message":        {"Expected string, received null"},
				"ticketType":     {"Expected 'talk_to_sales' | 'issue_in_production' | 'issue_in_development' | 'report_bug' | 'onboarding_help' | 'account_management' | 'feature_request', received boolean"},
				"organizationId": {"Expected number, received string"},
			},
		},
		{
			name: "organization beyond int64",
			raw:  `{"organizationId":1e20}`,
			want: FieldErrors{"organizationId": {"Number must be less than or equal to 9223372036854775807"}},
		},
		{
			name: "not an object",
			raw:  `"Ada"`,
			want: FieldErrors{FormErrorsKey: {"Expected object, received string"}},
		},
		{
			name: "not json",
			raw:  `{"name":`,
			want: FieldErrors{FormErrorsKey: {"Invalid JSON"}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, errs := ParseDraftPatch([]byte(tt.raw))
			if diff := cmp.Diff(tt.want, errs); diff != "" {
				t.Errorf("errors mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestValidEmail(t *testing.T) {
	valid := []string{"a@b.co", "first.last+tag@sub.example.org", "o'neil@example.com"}
	invalid := []string{"", "a@b", ".a@b.co", "a..b@c.co", "a.@b.co", "a@-b.co", "a@b.c"}
	for _, s := range valid {
		if !validEmail(s) {
			t.Errorf("validEmail(%q) = false, want true", s)
		}
	}
	for _, s := range invalid {
		if validEmail(s) {
			t.Errorf("validEmail(%q) = true, want false", s)
		}
	}
}

// A draft accepted through the JSON boundary must be accepted as a typed
// draft too, with the same field identifiers on rejection.
func TestSchemaParity(t *testing.T) {
	raws := []string{
		`{"name":"Ada","email":"ada@example.com","message":"m"}`,
		`{"name":"","email":"ada@example.com","message":"m"}`,
		`{"name":"Ada","email":"nope","message":"m"}`,
		`{"name":"Ada","email":"ada@example.com","message":"m","ticketType":"other"}`,
		`{"name":"Ada","email":"ada@example.com","message":"m","organizationId":-5}`,
	}
	for _, raw := range raws {
		parsed, jsonErrs := ParseTicket([]byte(raw))
		_, typedErrs := ValidateDraft(parsed)
		if diff := cmp.Diff(jsonErrs.Fields(), typedErrs.Fields()); diff != "" {
			t.Errorf("%s: field mismatch (-json +typed):\n%s", raw, diff)
		}
	}
}

func TestValidate_ReturnsValidationError(t *testing.T) {
	_, err := Validate(model.NewTicketDraft())
	verr, ok := err.(*ValidationError)
	if !ok {
		t.Fatalf("err = %T, want *ValidationError", err)
	}
	if diff := cmp.Diff([]string{"email", "message", "name"}, verr.Fields.Fields()); diff != "" {
		t.Errorf("fields mismatch:\n%s", diff)
	}
}
