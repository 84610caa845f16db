package constants

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHasRequiredRole(t *testing.T) {
	cases := []struct {
		name     string
		actor    RoleSet
		required RoleSet
		want     bool
	}{
		{"empty requirement", NewRoleSet(), NewRoleSet(), true},
		{"any of", NewRoleSet(RoleAdmin), PrivilegedRoles, true},
		{"none held", NewRoleSet(), PrivilegedRoles, false},
		{"different role", NewRoleSet(RolePireps), NewRoleSet(RoleOwner), false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, HasRequiredRole(tc.actor, tc.required))
		})
	}
}

func TestParseRoleSet_SkipsUnknown(t *testing.T) {
	set := ParseRoleSet([]string{" Admin ", "pilot", "pireps", ""})

	assert.Equal(t, []Role{RoleAdmin, RolePireps}, set.Slice())
}

func TestParseRole(t *testing.T) {
	role, err := ParseRole("OWNER")
	assert.NoError(t, err)
	assert.Equal(t, RoleOwner, role)

	_, err = ParseRole("god")
	assert.Error(t, err)
}
