package model

// OutcomeKind is the next UI state chosen by an arbitration
type OutcomeKind string

const (
	OutcomeConfident OutcomeKind = "confident"
	OutcomeEscalate  OutcomeKind = "escalate"
)

// CallStatus records how one responder call settled
type CallStatus string

const (
	CallFulfilled CallStatus = "fulfilled"
	CallRejected  CallStatus = "rejected"
)

// Caption is the presentational content shown above the escalation form
type Caption struct {
	BotName     string             `json:"botName,omitempty"`
	Intro       string             `json:"intro,omitempty"`
	Sources     []RecordConsidered `json:"sources,omitempty"` // informational only
	Instruction string             `json:"instruction,omitempty"`
}

// Outcome is the result of one arbitration.
//
// Confident outcomes carry Answer and Records; Escalate outcomes carry a
// Caption. Prefill is set whenever the context responder succeeded,
// whichever kind was chosen.
type Outcome struct {
	Kind          OutcomeKind        `json:"kind"`
	Answer        string             `json:"answer,omitempty"`
	Records       []RecordConsidered `json:"records,omitempty"`
	Caption       *Caption           `json:"caption,omitempty"`
	Prefill       *ContextPrefill    `json:"prefill,omitempty"`
	Confidence    string             `json:"confidence,omitempty"`
	QAStatus      CallStatus         `json:"qaStatus"`
	ContextStatus CallStatus         `json:"contextStatus"`
}

// IsConfident reports whether the outcome shows an automated answer
func (o Outcome) IsConfident() bool {
	return o.Kind == OutcomeConfident
}
