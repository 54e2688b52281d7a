package models

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"assetdesk/store"
)

func TestNormalizeRole(t *testing.T) {
	assert.Equal(t, RoleAdmin, NormalizeRole("admin"))
	assert.Equal(t, RoleTechnician, NormalizeRole("technician"))
	assert.Equal(t, RoleSandboxUser, NormalizeRole("sandbox_user"))
	assert.Equal(t, RoleViewer, NormalizeRole("viewer"))
	// anything unknown folds to viewer
	assert.Equal(t, RoleViewer, NormalizeRole(""))
	assert.Equal(t, RoleViewer, NormalizeRole("superuser"))
}

func TestEnvForRole(t *testing.T) {
	assert.Equal(t, store.EnvSandbox, EnvForRole(RoleSandboxUser))
	assert.Equal(t, store.EnvLive, EnvForRole(RoleAdmin))
	assert.Equal(t, store.EnvLive, EnvForRole(RoleTechnician))
	assert.Equal(t, store.EnvLive, EnvForRole(RoleViewer))
	assert.Equal(t, store.EnvLive, EnvForRole("anything-else"))
}

func TestActorCanManageInventory(t *testing.T) {
	assert.True(t, Actor{Role: RoleAdmin}.CanManageInventory())
	assert.True(t, Actor{Role: RoleTechnician}.CanManageInventory())
	assert.True(t, Actor{Role: RoleSandboxUser}.CanManageInventory())
	assert.False(t, Actor{Role: RoleViewer}.CanManageInventory())
	assert.False(t, Actor{Role: ""}.CanManageInventory())
}

func TestDisplayNameOrEmail(t *testing.T) {
	assert.Equal(t, "Dana", Actor{Name: "Dana", Email: "d@x.test"}.DisplayNameOrEmail())
	assert.Equal(t, "d@x.test", Actor{Email: "d@x.test"}.DisplayNameOrEmail())
}
