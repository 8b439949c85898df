package workflow

import (
	"github.com/aaronshtein1/AHS-Signatures/internal/engine"
)

// Signature kinds accepted in a submission.
const (
	SignatureKindDrawn = "drawn"
	SignatureKindTyped = "typed"
)

// SignerSubmission is one signer's contribution: the signature text, an
// optional date string, and any named field values they filled in.
type SignerSubmission struct {
	Role          string            `json:"role"`
	SignatureText string            `json:"signature_text"`
	SignatureKind string            `json:"signature_kind,omitempty"`
	DateText      string            `json:"date_text,omitempty"`
	FieldValues   map[string]string `json:"field_values,omitempty"`
}

// BuildValueMap folds one or more signer submissions into the value map the
// stamper consumes. Later submissions win on key collisions, matching the
// sequential signing order the surrounding workflow enforces.
func BuildValueMap(submissions []SignerSubmission) engine.ValueMap {
	values := make(engine.ValueMap)
	for _, sub := range submissions {
		if sub.SignatureText != "" {
			values["sig:"+sub.Role] = sub.SignatureText
		}
		if sub.DateText != "" {
			values["date:"+sub.Role] = sub.DateText
		}
		for field, value := range sub.FieldValues {
			values["text:"+field] = value
		}
	}
	return values
}
