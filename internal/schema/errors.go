package schema

import (
	"sort"
	"strings"
)

// FormErrorsKey holds errors that belong to the payload as a whole
const FormErrorsKey = "_errors"

// FieldErrors maps a ticket field to its validation messages, in check order
type FieldErrors map[string][]string

// Add appends msg to the messages of field
func (e FieldErrors) Add(field, msg string) {
	e[field] = append(e[field], msg)
}

// Empty reports whether no field failed
func (e FieldErrors) Empty() bool {
	return len(e) == 0
}

// Fields returns the failing field names, sorted
func (e FieldErrors) Fields() []string {
	names := make([]string, 0, len(e))
	for name := range e {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Only keeps the errors of the named fields
func (e FieldErrors) Only(fields ...string) FieldErrors {
	out := FieldErrors{}
	for _, f := range fields {
		if msgs, ok := e[f]; ok {
			out[f] = msgs
		}
	}
	return out
}

// ValidationError is returned when a ticket draft fails the schema
type ValidationError struct {
	Fields FieldErrors
}

func (e *ValidationError) Error() string {
	return "invalid ticket: " + strings.Join(e.Fields.Fields(), ", ")
}
