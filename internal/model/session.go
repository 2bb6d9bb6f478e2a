package model

import "time"

// ViewState is what the support form currently shows
type ViewState string

const (
	ViewInitial    ViewState = "initial"    // name/email/message, Next not clicked yet
	ViewConfident  ViewState = "confident"  // automated answer shown
	ViewEscalation ViewState = "escalation" // ticket form open
	ViewSubmitted  ViewState = "submitted"
)

// Acknowledgement is shown once a ticket has been created
type Acknowledgement struct {
	Title   string `json:"title"`
	Message string `json:"message"`
}

// Session is one visitor's pass through the support form
type Session struct {
	ID              string            `json:"id" bson:"_id,omitempty"`
	View            ViewState         `json:"view" bson:"view"`
	Draft           TicketDraft       `json:"draft" bson:"draft"`
	Conversation    ConversationState `json:"conversation" bson:"conversation"`
	Outcome         *Outcome          `json:"outcome,omitempty" bson:"-"`
	Caption         *Caption          `json:"caption,omitempty" bson:"-"`
	NextClicked     bool              `json:"nextClicked" bson:"nextClicked"`
	Acknowledgement *Acknowledgement  `json:"acknowledgement,omitempty" bson:"-"`
	LastTicketID    int64             `json:"lastTicketId,omitempty" bson:"lastTicketId,omitempty"`
	CreatedAt       time.Time         `json:"createdAt" bson:"createdAt"`
	UpdatedAt       time.Time         `json:"updatedAt" bson:"updatedAt"`
	EndedAt         *time.Time        `json:"endedAt,omitempty" bson:"endedAt,omitempty"`
}

// NewSession starts a session with an empty transcript and a default draft
func NewSession(id string, now time.Time) *Session {
	return &Session{
		ID:    id,
		View:  ViewInitial,
		Draft: NewTicketDraft(),
		Conversation: ConversationState{
			QAModeMessages:      []Message{},
			ContextModeMessages: []Message{},
		},
		CreatedAt: now,
		UpdatedAt: now,
	}
}
