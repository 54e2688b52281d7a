// models/user.go
package models

import (
	"strings"
	"time"

	"assetdesk/store"
)

// Roles.
const (
	RoleAdmin       = "admin"
	RoleTechnician  = "technician"
	RoleViewer      = "viewer"
	RoleSandboxUser = "sandbox_user"
)

type UserProfile struct {
	UID          string    `bson:"_id,omitempty" json:"uid"`
	Email        string    `bson:"email" json:"email"`
	Role         string    `bson:"role" json:"role"`
	DisplayName  string    `bson:"displayName,omitempty" json:"displayName,omitempty"`
	PasswordHash string    `bson:"passwordHash" json:"-"`
	CreatedAt    time.Time `bson:"createdAt" json:"createdAt"`
}

// NormalizeRole folds any stored role value onto the four valid roles.
func NormalizeRole(role string) string {
	switch strings.ToLower(strings.TrimSpace(role)) {
	case RoleAdmin:
		return RoleAdmin
	case RoleTechnician:
		return RoleTechnician
	case RoleSandboxUser:
		return RoleSandboxUser
	default:
		return RoleViewer
	}
}

// EnvForRole enforces the environment auto-switch invariant: a sandbox_user
// session always runs against the sandbox namespace, every other role against
// live. Derived from the role on every request, never taken from the client.
func EnvForRole(role string) store.Environment {
	if NormalizeRole(role) == RoleSandboxUser {
		return store.EnvSandbox
	}
	return store.EnvLive
}

// Actor identifies who is performing a workflow operation.
type Actor struct {
	UID   string
	Name  string
	Email string
	Role  string
}

// CanManageInventory reports whether this actor's signature is allowed to
// trigger the inventory-mutating side of a handover completion.
func (a Actor) CanManageInventory() bool {
	switch NormalizeRole(a.Role) {
	case RoleAdmin, RoleTechnician, RoleSandboxUser:
		return true
	}
	return false
}

// DisplayNameOrEmail is what audit rows record as performedBy.
func (a Actor) DisplayNameOrEmail() string {
	if a.Name != "" {
		return a.Name
	}
	if a.Email != "" {
		return a.Email
	}
	return "system"
}
