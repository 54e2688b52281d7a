// handlers/services.go
package handlers

import (
	"net/http"

	"assetdesk/mailer"
	"assetdesk/masterdata"
	"assetdesk/middleware"
	"assetdesk/models"
	"assetdesk/registry"
	"assetdesk/store"
	"assetdesk/workflow"
)

var (
	dataStore store.Store
	assets    *registry.Registry
	engine    *workflow.Engine
	master    *masterdata.Service
	mail      *mailer.Mailer
)

func InitServices(s store.Store, m *mailer.Mailer) {
	dataStore = s
	assets = registry.New(s)
	engine = workflow.NewEngine(s)
	master = masterdata.New(s)
	mail = m
}

// requestEnv returns the environment the auth middleware derived from the
// caller's role.
func requestEnv(r *http.Request) store.Environment {
	if env, ok := r.Context().Value(middleware.CtxEnv).(store.Environment); ok {
		return env
	}
	return store.EnvLive
}

// publicEnv resolves the namespace for unauthenticated surfaces from an
// explicit query parameter, defaulting to live.
func publicEnv(r *http.Request) store.Environment {
	return store.ParseEnvironment(r.URL.Query().Get("env"))
}

func requestActor(r *http.Request) models.Actor {
	uid, _ := r.Context().Value(middleware.CtxUserID).(string)
	name, _ := r.Context().Value(middleware.CtxUserName).(string)
	email, _ := r.Context().Value(middleware.CtxUserMail).(string)
	role, _ := r.Context().Value(middleware.CtxUserRole).(string)
	return models.Actor{UID: uid, Name: name, Email: email, Role: role}
}

// canEditInventory guards every mutating asset/workflow endpoint; viewers
// are read-only.
func canEditInventory(actor models.Actor) bool {
	return actor.CanManageInventory()
}

func isAdmin(actor models.Actor) bool {
	return models.NormalizeRole(actor.Role) == models.RoleAdmin
}
