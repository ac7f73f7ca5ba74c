package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPermissionLabel(t *testing.T) {
	t.Run("prefers the display name", func(t *testing.T) {
		p := Permission{Name: "Users.Create", DisplayName: "Create users"}
		assert.Equal(t, "Create users", p.Label())
	})

	t.Run("falls back to the name suffix", func(t *testing.T) {
		p := Permission{Name: "Users.Create"}
		assert.Equal(t, "Create", p.Label())
	})

	t.Run("keeps everything after the first dot", func(t *testing.T) {
		p := Permission{Name: "Reports.Payroll.Export"}
		assert.Equal(t, "Payroll.Export", p.Label())
	})

	t.Run("uses the full name when it has no dot", func(t *testing.T) {
		p := Permission{Name: "Dashboard"}
		assert.Equal(t, "Dashboard", p.Label())
	})
}

func TestPermissionQualifiedLabel(t *testing.T) {
	p := Permission{Name: "Users.Create", Category: "Users", PermissionType: "Write"}
	assert.Equal(t, "Users:Write:Users.Create", p.QualifiedLabel())
}

func TestSelectedPermissionIDs(t *testing.T) {
	rp := RolePermissions{
		CurrentPermissions: []Permission{{ID: 4}, {ID: 9}},
	}
	assert.Equal(t, []int{4, 9}, rp.SelectedPermissionIDs())

	assert.Empty(t, RolePermissions{}.SelectedPermissionIDs())
}
