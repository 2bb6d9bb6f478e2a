package service

// Websocket message types
const (
	MsgSessionUpdated       = "session_updated"
	MsgArbitrationStarted   = "arbitration_started"
	MsgArbitrationCompleted = "arbitration_completed"
	MsgTicketSubmitted      = "ticket_submitted"
)

// Broadcaster interface for WebSocket broadcasting (avoids import cycle)
type Broadcaster interface {
	BroadcastToSession(sessionID string, msgType string, payload interface{})
	DisconnectSession(sessionID string)
}

type noopBroadcaster struct{}

func (noopBroadcaster) BroadcastToSession(string, string, interface{}) {}
func (noopBroadcaster) DisconnectSession(string)                       {}
