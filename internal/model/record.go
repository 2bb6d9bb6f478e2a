package model

import "encoding/json"

// RecordConsidered is a source document the QA model consulted
type RecordConsidered struct {
	Type        string                     `json:"type" bson:"type"`
	URL         string                     `json:"url" bson:"url"`
	Title       string                     `json:"title" bson:"title"`
	Breadcrumbs []string                   `json:"breadcrumbs,omitempty" bson:"breadcrumbs,omitempty"`
	Extra       map[string]json.RawMessage `json:"-" bson:"-"` // passthrough keys, preserved as received
}

func (r RecordConsidered) MarshalJSON() ([]byte, error) {
	type plain RecordConsidered
	base, err := json.Marshal(plain(r))
	if err != nil {
		return nil, err
	}
	return mergeExtras(base, r.Extra)
}

func (r *RecordConsidered) UnmarshalJSON(data []byte) error {
	type plain RecordConsidered
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	p.Extra = splitExtras(data, "type", "url", "title", "breadcrumbs")
	*r = RecordConsidered(p)
	return nil
}

// ContextPrefill is the ticket metadata inferred by the context responder
type ContextPrefill struct {
	SubjectLine string     `json:"subjectLine" bson:"subjectLine"`
	Priority    Priority   `json:"priority" bson:"priority"`
	TicketType  TicketType `json:"ticketType" bson:"ticketType"`
}
