package workflow

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/aaronshtein1/AHS-Signatures/internal/engine"
)

func TestDeriveRolesFirstSeenOrder(t *testing.T) {
	placeholders := []engine.Placeholder{
		{Type: engine.TypeSignature, Role: "signer2"},
		{Type: engine.TypeDate, Role: "signer1"},
		{Type: engine.TypeSignature, Role: "signer2"},
		{Type: engine.TypeSignature, Role: "signer1"},
	}
	assert.Equal(t, []string{"signer2", "signer1"}, DeriveRoles(placeholders))
}

func TestDeriveRolesSkipsTextFields(t *testing.T) {
	placeholders := []engine.Placeholder{
		{Type: engine.TypeText, Role: engine.RoleAny, FieldName: "firm"},
		{Type: engine.TypeText, Role: engine.RoleAny, FieldName: "memo"},
		{Type: engine.TypeSignature, Role: "employee"},
	}
	assert.Equal(t, []string{"employee"}, DeriveRoles(placeholders))
}

func TestDeriveRolesEmpty(t *testing.T) {
	assert.Empty(t, DeriveRoles(nil))
}
