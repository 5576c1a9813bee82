// Copyright (c) 2026 Pet Clinic Backend contributors. All rights reserved.

package sec

// # Account Roles

// AccountRole represents the authorization level granted to an account.
//
// The string values are lowercase because they travel verbatim inside the
// "role" token claim.
type AccountRole string

const (
	// Unrestricted access to clinic administration
	RoleAdmin AccountRole = "admin"

	// Default role for registered pet owners
	RoleUser AccountRole = "user"
)

// IsValid reports whether the role is one of the known account roles.
func (r AccountRole) IsValid() bool {
	return r == RoleAdmin || r == RoleUser
}

// # Role Hierarchy

// AtLeast checks if the current role meets or exceeds the required target role.
func (r AccountRole) AtLeast(target AccountRole) bool {
	return r.level() >= target.level()
}

// level maps a role to a numeric hierarchy level for comparison logic.
func (r AccountRole) level() int {

	// Linear scale (10-40) allows for future intermediate roles
	switch r {
	case RoleAdmin:
		return 40
	case RoleUser:
		return 10
	default:
		return 0
	}
}
