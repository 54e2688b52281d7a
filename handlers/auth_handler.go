// handlers/auth_handler.go
package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"assetdesk/apperr"
	"assetdesk/config"
	"assetdesk/models"
	"assetdesk/store"
	"assetdesk/utils"
)

// bootstrapRole decides the role for a profile that has none yet: the
// reserved admin address (exact match, or suffix match when the pattern
// starts with "@") becomes admin, everyone else a viewer.
func bootstrapRole(email string) string {
	pattern := strings.ToLower(config.AdminEmailPattern)
	email = strings.ToLower(strings.TrimSpace(email))
	if strings.HasPrefix(pattern, "@") {
		if strings.HasSuffix(email, pattern) {
			return models.RoleAdmin
		}
	} else if email == pattern {
		return models.RoleAdmin
	}
	return models.RoleViewer
}

func findUserByEmail(ctx context.Context, env store.Environment, email string) (models.UserProfile, error) {
	docs, err := dataStore.Query(ctx, env, models.ColUsers, store.Doc{"email": email}, &store.QueryOptions{Limit: 1})
	if err != nil {
		return models.UserProfile{}, err
	}
	if len(docs) == 0 {
		return models.UserProfile{}, apperr.NotFound("user %s", email)
	}
	var user models.UserProfile
	if err := store.Decode(docs[0], &user); err != nil {
		return models.UserProfile{}, err
	}
	return user, nil
}

// Login authenticates against the live users collection; the session
// environment is then derived from the resolved role, so a sandbox_user
// lands in the sandbox namespace no matter what the client asked for.
func Login(w http.ResponseWriter, r *http.Request) {
	var creds struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid payload")
		return
	}

	creds.Email = strings.ToLower(strings.TrimSpace(creds.Email))
	if creds.Email == "" || !strings.Contains(creds.Email, "@") {
		utils.RespondWithError(w, http.StatusBadRequest, "Valid email required")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	user, err := findUserByEmail(ctx, store.EnvLive, creds.Email)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			// burn the same time as a real check
			_ = utils.CheckPasswordHash("dummy_password", "$2a$14$dummyhashdummyhashdummyhaeWx1P3C")
			utils.RespondWithError(w, http.StatusUnauthorized, apperr.ErrBadCredentials.Error())
			return
		}
		log.Printf("login: user lookup failed: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Authentication service unavailable")
		return
	}

	if !utils.CheckPasswordHash(creds.Password, user.PasswordHash) {
		utils.RespondWithError(w, http.StatusUnauthorized, apperr.ErrBadCredentials.Error())
		return
	}

	// Lazy profile bootstrap: a credential that was provisioned without a
	// role gets one on first sign-in.
	if user.Role == "" {
		user.Role = bootstrapRole(user.Email)
		if err := dataStore.Update(ctx, store.EnvLive, models.ColUsers, user.UID, store.Doc{"role": user.Role}); err != nil {
			log.Printf("login: role bootstrap for %s failed: %v", user.Email, err)
		}
	}
	role := models.NormalizeRole(user.Role)

	token, err := utils.GenerateJWT(user.UID, user.DisplayName, user.Email, role)
	if err != nil {
		log.Printf("login: JWT generation failed: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to generate authentication token")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, map[string]interface{}{
		"token": token,
		"user": map[string]interface{}{
			"uid":         user.UID,
			"email":       user.Email,
			"displayName": user.DisplayName,
			"role":        role,
		},
		// the client reloads into this namespace when it differs from the
		// one it is currently rendering
		"environment": models.EnvForRole(role),
	})
}

// GetCurrentUser returns the profile for the bearer token.
func GetCurrentUser(w http.ResponseWriter, r *http.Request) {
	actor := requestActor(r)
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	doc, err := dataStore.Get(ctx, store.EnvLive, models.ColUsers, actor.UID)
	if err != nil {
		utils.RespondWithError(w, apperr.HTTPStatus(err), "user not found")
		return
	}
	var user models.UserProfile
	if err := store.Decode(doc, &user); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "failed to decode user")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, map[string]interface{}{
		"uid":         user.UID,
		"email":       user.Email,
		"displayName": user.DisplayName,
		"role":        models.NormalizeRole(user.Role),
		"environment": models.EnvForRole(user.Role),
	})
}

// EnsureBootstrapUser seeds the very first admin credential on an empty
// database, from BOOTSTRAP_EMAIL / BOOTSTRAP_PASSWORD.
func EnsureBootstrapUser(ctx context.Context) {
	if config.BootstrapEmail == "" || config.BootstrapPassword == "" {
		return
	}
	if _, err := findUserByEmail(ctx, store.EnvLive, config.BootstrapEmail); err == nil {
		return
	}

	hash, err := utils.HashPassword(config.BootstrapPassword)
	if err != nil {
		log.Printf("bootstrap: hashing failed: %v", err)
		return
	}
	user := models.UserProfile{
		UID:          uuid.NewString(),
		Email:        strings.ToLower(config.BootstrapEmail),
		Role:         bootstrapRole(config.BootstrapEmail),
		DisplayName:  "Administrator",
		PasswordHash: hash,
		CreatedAt:    time.Now().UTC(),
	}
	doc, err := store.Encode(user)
	if err != nil {
		log.Printf("bootstrap: encode failed: %v", err)
		return
	}
	if err := dataStore.Set(ctx, store.EnvLive, models.ColUsers, user.UID, doc); err != nil {
		log.Printf("bootstrap: seed user failed: %v", err)
		return
	}
	log.Printf("bootstrap: seeded %s user %s", user.Role, user.Email)
}
