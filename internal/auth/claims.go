package auth

import "infinite-experiment/flightlog/internal/constants"

// UserClaims describes the authenticated actor of a request
type UserClaims interface {
	UserID() string
	Roles() constants.RoleSet
	HasRole(required ...constants.Role) bool
}

// JWTClaims are decoded from a bearer token
type JWTClaims struct {
	PilotID string
	RoleSet constants.RoleSet
	TokenID string
}

func (c *JWTClaims) UserID() string { return c.PilotID }
func (c *JWTClaims) Roles() constants.RoleSet { return c.RoleSet }

// HasRole reports whether the pilot holds any of the required roles
func (c *JWTClaims) HasRole(required ...constants.Role) bool {
	return constants.HasRequiredRole(c.RoleSet, constants.NewRoleSet(required...))
}
