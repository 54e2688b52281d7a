package middleware

import (
	"context"
	"net/http"
	"strings"

	"assetdesk/models"
	"assetdesk/utils"
)

// Context keys set for authenticated requests.
const (
	CtxUserID   = "userID"
	CtxUserName = "userName"
	CtxUserMail = "userEmail"
	CtxUserRole = "userRole"
	CtxEnv      = "env"
)

// AuthMiddleware validates the bearer token and threads the actor plus the
// environment derived from their role through the request context. The
// environment is recomputed from the role claim on every request; it is
// never accepted from the client.
func AuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Skip authentication for WebSocket upgrade requests
		if r.Header.Get("Upgrade") == "websocket" {
			next.ServeHTTP(w, r)
			return
		}

		authHeader := r.Header.Get("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			utils.RespondWithError(w, http.StatusUnauthorized, "Missing or invalid Authorization header")
			return
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		claims, err := utils.ValidateJWT(tokenString)
		if err != nil || claims == nil {
			utils.RespondWithError(w, http.StatusUnauthorized, "Invalid or expired token")
			return
		}

		role := models.NormalizeRole(claims.Role)
		ctx := context.WithValue(r.Context(), CtxUserID, claims.UserID)
		ctx = context.WithValue(ctx, CtxUserName, claims.Name)
		ctx = context.WithValue(ctx, CtxUserMail, claims.Email)
		ctx = context.WithValue(ctx, CtxUserRole, role)
		ctx = context.WithValue(ctx, CtxEnv, models.EnvForRole(role))

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
