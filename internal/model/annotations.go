package model

import (
	"encoding/json"
	"fmt"
)

// ConfidenceLevel is the closed set of confidence values the QA model emits
type ConfidenceLevel string

const (
	ConfidenceVeryConfident     ConfidenceLevel = "very_confident"
	ConfidenceSomewhatConfident ConfidenceLevel = "somewhat_confident"
	ConfidenceNotConfident      ConfidenceLevel = "not_confident"
	ConfidenceNoSources         ConfidenceLevel = "no_sources"
	ConfidenceOther             ConfidenceLevel = "other"
	ConfidenceUnrecognized      ConfidenceLevel = "unrecognized" // Raw holds what the model sent
)

var knownConfidence = map[ConfidenceLevel]bool{
	ConfidenceVeryConfident:     true,
	ConfidenceSomewhatConfident: true,
	ConfidenceNotConfident:      true,
	ConfidenceNoSources:         true,
	ConfidenceOther:             true,
}

// AnswerConfidence is a known confidence level, or the raw string of one
// this build does not know about yet.
type AnswerConfidence struct {
	Level ConfidenceLevel
	Raw   string
}

// ParseAnswerConfidence never fails: unknown strings become ConfidenceUnrecognized
func ParseAnswerConfidence(s string) AnswerConfidence {
	if knownConfidence[ConfidenceLevel(s)] {
		return AnswerConfidence{Level: ConfidenceLevel(s), Raw: s}
	}
	return AnswerConfidence{Level: ConfidenceUnrecognized, Raw: s}
}

// Confident is true only for very_confident and somewhat_confident.
// Unrecognized values rank with the least confident known ones.
func (c AnswerConfidence) Confident() bool {
	return c.Level == ConfidenceVeryConfident || c.Level == ConfidenceSomewhatConfident
}

func (c AnswerConfidence) String() string {
	if c.Level == ConfidenceUnrecognized || c.Level == "" {
		return c.Raw
	}
	return string(c.Level)
}

func (c AnswerConfidence) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.String())
}

func (c *AnswerConfidence) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("answerConfidence: %w", err)
	}
	*c = ParseAnswerConfidence(s)
	return nil
}

// AIAnnotations is the side-channel metadata the QA model may attach to an answer
type AIAnnotations struct {
	AnswerConfidence AnswerConfidence           `json:"answerConfidence"`
	Extra            map[string]json.RawMessage `json:"-"` // passthrough keys, not interpreted
}

func (a AIAnnotations) MarshalJSON() ([]byte, error) {
	type plain AIAnnotations
	base, err := json.Marshal(plain(a))
	if err != nil {
		return nil, err
	}
	return mergeExtras(base, a.Extra)
}

func (a *AIAnnotations) UnmarshalJSON(data []byte) error {
	type plain AIAnnotations
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	p.Extra = splitExtras(data, "answerConfidence")
	*a = AIAnnotations(p)
	return nil
}
