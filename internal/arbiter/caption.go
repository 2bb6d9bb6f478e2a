package arbiter

import "github.com/inkeep/intelligent-support-form/internal/model"

const (
	instructionSubmit = "To finish submitting a support ticket, confirm the fields below and click Submit."
	introNotFound     = "I wasn't able to find a direct answer to your question, but here's some helpful sources:"
	introAcknowledged = "Understood. Please confirm the below information:"
)

// Captions builds the content shown above the escalation form
type Captions struct {
	BotName string
}

// Default is used when no AI content is available to show
func (c Captions) Default() *model.Caption {
	return &model.Caption{Instruction: instructionSubmit}
}

// NotFound is used when the QA answer was not good enough. Records, when
// present, are listed as sources considered.
func (c Captions) NotFound(records []model.RecordConsidered) *model.Caption {
	caption := &model.Caption{
		BotName:     c.BotName,
		Instruction: instructionSubmit,
	}
	if len(records) > 0 {
		caption.Intro = introNotFound
		caption.Sources = records
	}
	return caption
}

// Acknowledged is used when the visitor escalates a confident answer
func (c Captions) Acknowledged() *model.Caption {
	return &model.Caption{
		BotName: c.BotName,
		Intro:   introAcknowledged,
	}
}
