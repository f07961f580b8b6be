package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type nameInput struct {
	Name string `validate:"required,nametoken"`
}

func TestNameTokenRule(t *testing.T) {
	valid := []string{"create_role", "view_permissions", "export_orders", "a", "role2", "x_1_y"}
	for _, name := range valid {
		assert.NoError(t, Validate.Struct(nameInput{Name: name}), name)
	}

	invalid := []string{"", "Create_Role", "create role", "create-role", "rôle", "role!", " create_role"}
	for _, name := range invalid {
		assert.Error(t, Validate.Struct(nameInput{Name: name}), name)
	}
}

func TestGenerateTempPassword(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 32; i++ {
		password := GenerateTempPassword()
		assert.Len(t, password, 12)
		for _, r := range password {
			assert.Contains(t, passwordAlphabet, string(r))
		}
		seen[password] = true
	}
	// Collisions across 32 draws would mean the generator is broken
	assert.Greater(t, len(seen), 30)
}

func TestGenerateUUID(t *testing.T) {
	a := GenerateUUID()
	b := GenerateUUID()

	assert.Len(t, a, 36)
	assert.NotEqual(t, a, b)
}
