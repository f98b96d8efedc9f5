// Package answer holds the structured answer outcome.
package answer

import "strings"

// Kind classifies a generated answer.
type Kind string

const (
	// KindAnswered marks an answer grounded in the provided evidence.
	KindAnswered Kind = "answered"
	// KindInsufficient marks a reply admitting the evidence was not enough.
	KindInsufficient Kind = "insufficient"
)

// Outcome is a classified answer. Callers branch on Kind instead of
// substring-matching the text.
type Outcome struct {
	Kind Kind
	Text string
}

// Model replies admitting insufficiency, matched case-insensitively.
var insufficiencyFingerprints = []string{
	"do not have enough information",
	"cannot answer",
	"don't have information",
	"no information available",
}

// Classify wraps a completion text into an Outcome.
func Classify(text string) Outcome {
	lower := strings.ToLower(text)
	for _, fp := range insufficiencyFingerprints {
		if strings.Contains(lower, fp) {
			return Outcome{Kind: KindInsufficient, Text: text}
		}
	}
	return Outcome{Kind: KindAnswered, Text: text}
}
