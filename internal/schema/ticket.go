// Package schema is the single ticket validator used by every entry point:
// the CLI, session drafts and the ticket creation endpoint all call it, so a
// draft accepted by one is accepted by all.
package schema

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/inkeep/intelligent-support-form/internal/model"
	"github.com/tidwall/gjson"
)

const (
	msgName         = "Please enter your name."
	msgEmail        = "Please enter your email."
	msgEmailInvalid = "Please enter a valid email."
	msgMessage      = "Please enter a message."
	msgRequired     = "Required"
	msgOrgNegative  = "Number must be greater than or equal to 0"
	msgOrgTooLarge  = "Number must be less than or equal to 9223372036854775807"
)

// Same shape as the form's email rule: no leading dot, no "..", a local
// part that ends on a word character, and a dotted domain with a TLD of 2+ letters.
var emailPattern = regexp.MustCompile(`(?i)^[a-z0-9_'+\-.]*[a-z0-9_+\-]@([a-z0-9][a-z0-9\-]*\.)+[a-z]{2,}$`)

func validEmail(s string) bool {
	if strings.HasPrefix(s, ".") || strings.Contains(s, "..") {
		return false
	}
	return emailPattern.MatchString(s)
}

// ParseTicket decodes a raw JSON ticket, applies defaults to absent optional
// fields, drops unknown keys and validates the result.
func ParseTicket(raw []byte) (model.TicketDraft, FieldErrors) {
	errs := FieldErrors{}
	draft := model.NewTicketDraft()

	if !gjson.ValidBytes(raw) {
		errs.Add(FormErrorsKey, "Invalid JSON")
		return draft, errs
	}
	root := gjson.ParseBytes(raw)
	if !root.IsObject() {
		errs.Add(FormErrorsKey, "Expected object, received "+typeName(root))
		return draft, errs
	}

	typeFailed := map[string]bool{}
	str := func(field string, required bool, dst *string) {
		v := root.Get(field)
		switch {
		case !v.Exists() && required:
			errs.Add(field, msgRequired)
			typeFailed[field] = true
		case !v.Exists():
		case v.Type != gjson.String:
			errs.Add(field, "Expected string, received "+typeName(v))
			typeFailed[field] = true
		default:
			*dst = v.String()
		}
	}

	str("name", true, &draft.Name)
	str("email", true, &draft.Email)
	str("message", true, &draft.Message)
	str("subject", false, &draft.Subject)

	if v := root.Get("priority"); v.Exists() {
		if v.Type != gjson.String {
			errs.Add("priority", fmt.Sprintf("Expected %s, received %s", enumList(priorityNames()), typeName(v)))
			typeFailed["priority"] = true
		} else {
			draft.Priority = model.Priority(v.String())
		}
	}
	if v := root.Get("ticketType"); v.Exists() {
		if v.Type != gjson.String {
			errs.Add("ticketType", fmt.Sprintf("Expected %s, received %s", enumList(ticketTypeNames()), typeName(v)))
			typeFailed["ticketType"] = true
		} else {
			draft.TicketType = model.TicketType(v.String())
		}
	}

	if v := root.Get("organizationId"); v.Exists() {
		if id, msg := organizationID(v); msg != "" {
			errs.Add("organizationId", msg)
			typeFailed["organizationId"] = true
		} else {
			draft.OrganizationID = &id
		}
	}

	normalized, contentErrs := ValidateDraft(draft)
	for field, msgs := range contentErrs {
		if typeFailed[field] {
			continue
		}
		for _, m := range msgs {
			errs.Add(field, m)
		}
	}
	return normalized, errs
}

// ParseDraftPatch decodes a partial draft edit. Only present fields are set;
// each one must carry the JSON type ParseTicket expects for it. Content rules
// (non-empty, email shape, enums) are left to ValidateDraft.
func ParseDraftPatch(raw []byte) (model.DraftPatch, FieldErrors) {
	var patch model.DraftPatch
	errs := FieldErrors{}

	if !gjson.ValidBytes(raw) {
		errs.Add(FormErrorsKey, "Invalid JSON")
		return patch, errs
	}
	root := gjson.ParseBytes(raw)
	if !root.IsObject() {
		errs.Add(FormErrorsKey, "Expected object, received "+typeName(root))
		return patch, errs
	}

	str := func(field string) *string {
		v := root.Get(field)
		if !v.Exists() {
			return nil
		}
		if v.Type != gjson.String {
			errs.Add(field, "Expected string, received "+typeName(v))
			return nil
		}
		s := v.String()
		return &s
	}

	patch.Name = str("name")
	patch.Email = str("email")
	patch.Message = str("message")
	patch.Subject = str("subject")
	if v := root.Get("priority"); v.Exists() {
		if v.Type != gjson.String {
			errs.Add("priority", fmt.Sprintf("Expected %s, received %s", enumList(priorityNames()), typeName(v)))
		} else {
			p := model.Priority(v.String())
			patch.Priority = &p
		}
	}
	if v := root.Get("ticketType"); v.Exists() {
		if v.Type != gjson.String {
			errs.Add("ticketType", fmt.Sprintf("Expected %s, received %s", enumList(ticketTypeNames()), typeName(v)))
		} else {
			tt := model.TicketType(v.String())
			patch.TicketType = &tt
		}
	}
	if v := root.Get("organizationId"); v.Exists() {
		if id, msg := organizationID(v); msg != "" {
			errs.Add("organizationId", msg)
		} else {
			patch.OrganizationID = &id
		}
	}
	return patch, errs
}

// organizationID reads an integer id that fits in int64. A non-empty msg
// reports why v was rejected.
func organizationID(v gjson.Result) (int64, string) {
	if v.Type != gjson.Number {
		return 0, "Expected number, received " + typeName(v)
	}
	if v.Num != math.Trunc(v.Num) {
		return 0, "Expected integer, received float"
	}
	if id, err := strconv.ParseInt(v.Raw, 10, 64); err == nil {
		return id, ""
	}
	// Exponent forms such as 5e2 are integral but not plain digits
	if v.Num >= -math.MaxInt64 && v.Num < math.MaxInt64 {
		return int64(v.Num), ""
	}
	if v.Num < 0 {
		return 0, msgOrgNegative
	}
	return 0, msgOrgTooLarge
}

// ValidateDraft checks a typed draft and returns it with name, email and
// message trimmed.
func ValidateDraft(d model.TicketDraft) (model.TicketDraft, FieldErrors) {
	errs := FieldErrors{}

	d.Name = strings.TrimSpace(d.Name)
	if d.Name == "" {
		errs.Add("name", msgName)
	}

	d.Email = strings.TrimSpace(d.Email)
	if d.Email == "" {
		errs.Add("email", msgEmail)
	}
	if !validEmail(d.Email) {
		errs.Add("email", msgEmailInvalid)
	}

	d.Message = strings.TrimSpace(d.Message)
	if d.Message == "" {
		errs.Add("message", msgMessage)
	}

	if !d.Priority.Valid() {
		errs.Add("priority", invalidEnum(priorityNames(), string(d.Priority)))
	}
	if !d.TicketType.Valid() {
		errs.Add("ticketType", invalidEnum(ticketTypeNames(), string(d.TicketType)))
	}
	if d.OrganizationID != nil && *d.OrganizationID < 0 {
		errs.Add("organizationId", msgOrgNegative)
	}
	return d, errs
}

// Validate is ValidateDraft reporting failures as a *ValidationError
func Validate(d model.TicketDraft) (model.TicketDraft, error) {
	normalized, errs := ValidateDraft(d)
	if !errs.Empty() {
		return d, &ValidationError{Fields: errs}
	}
	return normalized, nil
}

func invalidEnum(options []string, got string) string {
	return fmt.Sprintf("Invalid enum value. Expected %s, received '%s'", enumList(options), got)
}

func enumList(options []string) string {
	quoted := make([]string, len(options))
	for i, o := range options {
		quoted[i] = "'" + o + "'"
	}
	return strings.Join(quoted, " | ")
}

func priorityNames() []string {
	names := make([]string, len(model.Priorities))
	for i, p := range model.Priorities {
		names[i] = string(p)
	}
	return names
}

func ticketTypeNames() []string {
	names := make([]string, len(model.TicketTypes))
	for i, t := range model.TicketTypes {
		names[i] = string(t)
	}
	return names
}

func typeName(v gjson.Result) string {
	switch v.Type {
	case gjson.Null:
		return "null"
	case gjson.False, gjson.True:
		return "boolean"
	case gjson.Number:
		return "number"
	case gjson.String:
		return "string"
	}
	if v.IsArray() {
		return "array"
	}
	return "object"
}
