package a2a

import (
	"encoding/json"
	"strings"
)

// Outcome is the classification of a final agent answer.
type Outcome int

const (
	// OutcomeCompleted means the answer satisfies the request.
	OutcomeCompleted Outcome = iota
	// OutcomeInputRequired means the agent asked the user a question.
	OutcomeInputRequired
	// OutcomeFailed means the agent reported that it could not proceed.
	OutcomeFailed
)

func (o Outcome) String() string {
	switch o {
	case OutcomeInputRequired:
		return "input_required"
	case OutcomeFailed:
		return "error"
	default:
		return "completed"
	}
}

// Verdict is a classified answer. Text is what the client sees.
type Verdict struct {
	Outcome Outcome
	Text    string
}

// Classifier decides how a final answer ends the task.
type Classifier interface {
	Classify(content string) Verdict
}

// ClassifierFunc adapts a function to Classifier.
type ClassifierFunc func(content string) Verdict

// Classify calls f.
func (f ClassifierFunc) Classify(content string) Verdict { return f(content) }

// structuredReply is the JSON object the system prompt asks for.
type structuredReply struct {
	Status  *string `json:"status"`
	Message string  `json:"message"`
}

// StructuredClassifier reads a {"status","message"} object from the answer.
// It reports false when the answer carries no recognizable status.
type StructuredClassifier struct{}

// Parse classifies content if it holds a structured reply.
func (StructuredClassifier) Parse(content string) (Verdict, bool) {
	raw := extractJSONObject(content)
	if raw == "" {
		return Verdict{}, false
	}

	var reply structuredReply
	if err := json.Unmarshal([]byte(raw), &reply); err != nil || reply.Status == nil {
		return Verdict{}, false
	}

	text := strings.TrimSpace(reply.Message)
	if text == "" {
		text = strings.TrimSpace(content)
	}

	switch strings.ToLower(strings.TrimSpace(*reply.Status)) {
	case "completed", "complete":
		return Verdict{Outcome: OutcomeCompleted, Text: text}, true
	case "input_required", "input-required":
		return Verdict{Outcome: OutcomeInputRequired, Text: text}, true
	case "error", "failed":
		return Verdict{Outcome: OutcomeFailed, Text: text}, true
	default:
		return Verdict{}, false
	}
}

// Classify returns a completed verdict for unstructured answers.
func (c StructuredClassifier) Classify(content string) Verdict {
	if v, ok := c.Parse(content); ok {
		return v
	}
	return Verdict{Outcome: OutcomeCompleted, Text: strings.TrimSpace(content)}
}

// DefaultClarificationPhrases signal that the agent is asking for input.
var DefaultClarificationPhrases = []string{
	"could you clarify",
	"can you clarify",
	"please clarify",
	"could you provide more",
	"can you provide more",
	"please provide more",
	"could you specify",
	"can you specify",
	"please specify",
	"need more information",
	"need more details",
	"could you give more context",
	"can you give more context",
	"please give more context",
	"what do you mean",
	"which topic",
	"which field",
}

// KeywordClassifier marks an answer input-required when it contains one of
// Phrases, case-insensitively.
type KeywordClassifier struct {
	Phrases []string
}

// Classify implements Classifier.
func (c KeywordClassifier) Classify(content string) Verdict {
	phrases := c.Phrases
	if phrases == nil {
		phrases = DefaultClarificationPhrases
	}

	text := strings.TrimSpace(content)
	lower := strings.ToLower(text)
	for _, p := range phrases {
		if p != "" && strings.Contains(lower, strings.ToLower(p)) {
			return Verdict{Outcome: OutcomeInputRequired, Text: text}
		}
	}
	return Verdict{Outcome: OutcomeCompleted, Text: text}
}

// DefaultClassifier prefers a structured status and falls back to
// clarification phrases for engines that answer in plain text.
type DefaultClassifier struct {
	Structured StructuredClassifier
	Keywords   KeywordClassifier
}

// Classify implements Classifier.
func (c DefaultClassifier) Classify(content string) Verdict {
	if v, ok := c.Structured.Parse(content); ok {
		return v
	}
	return c.Keywords.Classify(content)
}

// extractJSONObject returns the outermost {...} span of s, tolerating
// code fences and surrounding prose.
func extractJSONObject(s string) string {
	start := strings.IndexByte(s, '{')
	end := strings.LastIndexByte(s, '}')
	if start < 0 || end <= start {
		return ""
	}
	return s[start : end+1]
}

var (
	_ Classifier = StructuredClassifier{}
	_ Classifier = KeywordClassifier{}
	_ Classifier = DefaultClassifier{}
)
