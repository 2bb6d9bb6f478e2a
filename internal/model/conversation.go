package model

// Role tags a message in a responder transcript
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleTool      Role = "tool"
)

// Message is one role-tagged transcript entry
type Message struct {
	Role    Role   `json:"role" bson:"role"`
	Content string `json:"content" bson:"content"`
}

// Transcript is an append-only message history owned by one responder
type Transcript struct {
	messages []Message
}

// NewTranscript copies msgs into a fresh transcript
func NewTranscript(msgs []Message) *Transcript {
	t := &Transcript{}
	t.messages = append(t.messages, msgs...)
	return t
}

// Append adds a message at the end of the transcript
func (t *Transcript) Append(role Role, content string) {
	t.messages = append(t.messages, Message{Role: role, Content: content})
}

// Messages returns a copy of the history
func (t *Transcript) Messages() []Message {
	out := make([]Message, len(t.messages))
	copy(out, t.messages)
	return out
}

// Len is the number of entries recorded so far
func (t *Transcript) Len() int {
	return len(t.messages)
}

// ConversationState is the per-session history for both responders.
// Each field is only ever written by its own responder.
type ConversationState struct {
	QAModeMessages      []Message `json:"qaModeMessages" bson:"qaModeMessages"`
	ContextModeMessages []Message `json:"contextModeMessages" bson:"contextModeMessages"`
}
