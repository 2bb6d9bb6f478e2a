package model

// Priority is the urgency a requester assigns to a ticket
type Priority string

const (
	PriorityUrgent Priority = "urgent"
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// Priorities lists every priority in display order
var Priorities = []Priority{PriorityUrgent, PriorityHigh, PriorityMedium, PriorityLow}

// Valid reports whether p is one of the known priorities
func (p Priority) Valid() bool {
	for _, known := range Priorities {
		if p == known {
			return true
		}
	}
	return false
}

// TicketType routes a ticket to the right support queue
type TicketType string

const (
	TicketTalkToSales        TicketType = "talk_to_sales"
	TicketIssueInProduction  TicketType = "issue_in_production"
	TicketIssueInDevelopment TicketType = "issue_in_development"
	TicketReportBug          TicketType = "report_bug"
	TicketOnboardingHelp     TicketType = "onboarding_help"
	TicketAccountManagement  TicketType = "account_management"
	TicketFeatureRequest     TicketType = "feature_request"
)

// TicketTypes lists every ticket type in display order
var TicketTypes = []TicketType{
	TicketTalkToSales,
	TicketIssueInProduction,
	TicketIssueInDevelopment,
	TicketReportBug,
	TicketOnboardingHelp,
	TicketAccountManagement,
	TicketFeatureRequest,
}

// Valid reports whether t is one of the known ticket types
func (t TicketType) Valid() bool {
	for _, known := range TicketTypes {
		if t == known {
			return true
		}
	}
	return false
}

const (
	DefaultSubject    = "General Inquiry"
	DefaultPriority   = PriorityMedium
	DefaultTicketType = TicketIssueInProduction
)

// TicketDraft is the mutable state of the support form
type TicketDraft struct {
	Name           string     `json:"name" bson:"name"`
	Email          string     `json:"email" bson:"email"`
	Message        string     `json:"message" bson:"message"`
	Subject        string     `json:"subject" bson:"subject"`
	Priority       Priority   `json:"priority" bson:"priority"`
	TicketType     TicketType `json:"ticketType" bson:"ticketType"`
	OrganizationID *int64     `json:"organizationId,omitempty" bson:"organizationId,omitempty"`
}

// NewTicketDraft returns a draft with the form defaults applied
func NewTicketDraft() TicketDraft {
	return TicketDraft{
		Subject:    DefaultSubject,
		Priority:   DefaultPriority,
		TicketType: DefaultTicketType,
	}
}

// ApplyPrefill overwrites the inferred fields of the draft
func (d *TicketDraft) ApplyPrefill(p *ContextPrefill) {
	if p == nil {
		return
	}
	d.Subject = p.SubjectLine
	d.Priority = p.Priority
	d.TicketType = p.TicketType
}

// DraftPatch carries user edits; nil fields are left untouched
type DraftPatch struct {
	Name           *string     `json:"name,omitempty"`
	Email          *string     `json:"email,omitempty"`
	Message        *string     `json:"message,omitempty"`
	Subject        *string     `json:"subject,omitempty"`
	Priority       *Priority   `json:"priority,omitempty"`
	TicketType     *TicketType `json:"ticketType,omitempty"`
	OrganizationID *int64      `json:"organizationId,omitempty"`
}

// Apply merges the patch into d
func (p DraftPatch) Apply(d *TicketDraft) {
	if p.Name != nil {
		d.Name = *p.Name
	}
	if p.Email != nil {
		d.Email = *p.Email
	}
	if p.Message != nil {
		d.Message = *p.Message
	}
	if p.Subject != nil {
		d.Subject = *p.Subject
	}
	if p.Priority != nil {
		d.Priority = *p.Priority
	}
	if p.TicketType != nil {
		d.TicketType = *p.TicketType
	}
	if p.OrganizationID != nil {
		id := *p.OrganizationID
		d.OrganizationID = &id
	}
}
