// Package workflow holds the collaborators that sit between the stamping
// engine and the signing workflow proper: deriving recipient roles from a
// parsed placeholder list and assembling the value map from signer
// submissions. Routing, authentication, persistence and delivery live
// outside this repository.
package workflow

import (
	"github.com/aaronshtein1/AHS-Signatures/internal/engine"
)

// DeriveRoles collects the distinct signature/date roles from a placeholder
// list, in first-seen order. TEXT placeholders carry field names rather
// than recipient roles and do not contribute.
func DeriveRoles(placeholders []engine.Placeholder) []string {
	seen := make(map[string]bool)
	var roles []string
	for _, p := range placeholders {
		if p.Type == engine.TypeText || p.Role == "" {
			continue
		}
		if !seen[p.Role] {
			seen[p.Role] = true
			roles = append(roles, p.Role)
		}
	}
	return roles
}
