// handlers/user_handler.go
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
	"github.com/gorilla/mux"

	"assetdesk/apperr"
	"assetdesk/models"
	"assetdesk/store"
	"assetdesk/utils"
)

// ListUsers returns every profile, admin only. Password hashes never leave
// the model (json:"-").
func ListUsers(w http.ResponseWriter, r *http.Request) {
	if !isAdmin(requestActor(r)) {
		utils.RespondWithError(w, http.StatusForbidden, "admin role required")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	docs, err := dataStore.Query(ctx, store.EnvLive, models.ColUsers, nil, &store.QueryOptions{SortField: "email"})
	if err != nil {
		log.Printf("list users failed: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "failed to fetch users")
		return
	}

	users := make([]models.UserProfile, 0, len(docs))
	for _, doc := range docs {
		var u models.UserProfile
		if err := store.Decode(doc, &u); err != nil {
			utils.RespondWithError(w, http.StatusInternalServerError, "failed to decode users")
			return
		}
		u.Role = models.NormalizeRole(u.Role)
		users = append(users, u)
	}
	utils.RespondWithJSON(w, http.StatusOK, users)
}

type createUserRequest struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	Role        string `json:"role"`
	DisplayName string `json:"displayName,omitempty"`
}

// CreateUser provisions a credential plus profile for someone else. The
// caller's own session is untouched.
func CreateUser(w http.ResponseWriter, r *http.Request) {
	if !isAdmin(requestActor(r)) {
		utils.RespondWithError(w, http.StatusForbidden, "admin role required")
		return
	}

	var req createUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Email == "" || !strings.Contains(req.Email, "@") {
		utils.RespondWithError(w, http.StatusBadRequest, "valid email required")
		return
	}
	if len(req.Password) < 6 {
		utils.RespondWithError(w, http.StatusBadRequest, "password must be at least 6 characters")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	if _, err := findUserByEmail(ctx, store.EnvLive, req.Email); err == nil {
		utils.RespondWithError(w, http.StatusConflict, apperr.ErrEmailInUse.Error())
		return
	} else if !errors.Is(err, apperr.ErrNotFound) {
		log.Printf("create user: lookup failed: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "failed to verify email")
		return
	}

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "failed to hash password")
		return
	}

	user := models.UserProfile{
		UID:          uuid.NewString(),
		Email:        req.Email,
		Role:         models.NormalizeRole(req.Role),
		DisplayName:  req.DisplayName,
		PasswordHash: hash,
		CreatedAt:    time.Now().UTC(),
	}
	doc, err := store.Encode(user)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "failed to encode user")
		return
	}
	if err := dataStore.Set(ctx, store.EnvLive, models.ColUsers, user.UID, doc); err != nil {
		log.Printf("create user failed: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "failed to create user")
		return
	}

	utils.RespondWithJSON(w, http.StatusCreated, map[string]interface{}{
		"uid":         user.UID,
		"email":       user.Email,
		"role":        user.Role,
		"displayName": user.DisplayName,
	})
}

// UpdateUserRole merge-patches the role. There is deliberately no
// self-demotion guard at this layer; the UI prevents it.
func UpdateUserRole(w http.ResponseWriter, r *http.Request) {
	if !isAdmin(requestActor(r)) {
		utils.RespondWithError(w, http.StatusForbidden, "admin role required")
		return
	}

	uid := mux.Vars(r)["id"]
	if uid == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "user id required")
		return
	}

	var req struct {
		Role string `json:"role"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid payload")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	role := models.NormalizeRole(req.Role)
	if err := dataStore.Update(ctx, store.EnvLive, models.ColUsers, uid, store.Doc{"role": role}); err != nil {
		utils.RespondWithError(w, apperr.HTTPStatus(err), "failed to update role")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, map[string]string{"uid": uid, "role": role})
}
