package middleware

import (
	"context"
	"net/http"

	"github.com/Wafi-Ahmad/Hirehub/internal/models"
	"github.com/Wafi-Ahmad/Hirehub/internal/utils"
)

const userIDKey contextKey = "user_id"

// RequireAuth validates the Bearer token and stores the caller's user ID in
// the request context. Quiz routes are always user-scoped.
func RequireAuth(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, err := utils.VerifyToken(r, secret)
			if err != nil {
				utils.JSON(w, http.StatusUnauthorized, models.ErrorResponse{
					Code:    "unauthorized",
					Message: err.Error(),
				})
				return
			}
			userID, err := utils.GetUserIDFromClaims(claims)
			if err != nil {
				utils.JSON(w, http.StatusUnauthorized, models.ErrorResponse{
					Code:    "unauthorized",
					Message: err.Error(),
				})
				return
			}
			ctx := context.WithValue(r.Context(), userIDKey, userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// UserID returns the authenticated user's ID from the request context.
func UserID(r *http.Request) string {
	id, _ := r.Context().Value(userIDKey).(string)
	return id
}
