package model

import "time"

// TicketRecord is the local audit copy of a ticket created upstream
type TicketRecord struct {
	ID               string      `json:"id" bson:"_id"`
	SessionID        string      `json:"sessionId,omitempty" bson:"sessionId,omitempty"`
	UpstreamTicketID int64       `json:"upstreamTicketId" bson:"upstreamTicketId"`
	Ticket           TicketDraft `json:"ticket" bson:"ticket"`
	CreatedAt        time.Time   `json:"createdAt" bson:"createdAt"`
}
