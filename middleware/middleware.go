package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/ars-patel/TaskHub-Backend/logging"
	"github.com/ars-patel/TaskHub-Backend/models"
	"github.com/ars-patel/TaskHub-Backend/utils"
)

type contextKey string

const userContextKey contextKey = "authUser"

// UserLoader resolves a token's subject to a full user record.
type UserLoader interface {
	GetUserByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
}

// JWTAuth validates the bearer token, loads the authenticated user and stores
// it on the request context for the handlers downstream.
func JWTAuth(users UserLoader) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				logging.Logger.Warnf("Event ID: AUTH_MISSING_HEADER, Description: Authorization header missing for %s %s", r.Method, r.URL.Path)
				unauthorized(w, "Authorization header missing")
				return
			}

			tokenStr := strings.TrimPrefix(authHeader, "Bearer ")
			claims, err := utils.ValidateToken(tokenStr)
			if err != nil {
				logging.Logger.Warnf("Event ID: AUTH_INVALID_TOKEN, Description: Invalid token for %s %s: %v", r.Method, r.URL.Path, err)
				unauthorized(w, "Invalid token")
				return
			}

			userID, err := primitive.ObjectIDFromHex(claims.ID)
			if err != nil {
				unauthorized(w, "Invalid token")
				return
			}

			user, err := users.GetUserByID(r.Context(), userID)
			if err != nil {
				logging.Logger.Warnf("Event ID: AUTH_UNKNOWN_USER, Description: Token subject %s not found", claims.ID)
				unauthorized(w, "Invalid token")
				return
			}

			ctx := context.WithValue(r.Context(), userContextKey, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// UserFromContext returns the authenticated user placed by JWTAuth.
func UserFromContext(ctx context.Context) (*models.User, bool) {
	user, ok := ctx.Value(userContextKey).(*models.User)
	return user, ok
}

// WithUser is a test helper that injects a user the same way JWTAuth does.
func WithUser(ctx context.Context, user *models.User) context.Context {
	return context.WithValue(ctx, userContextKey, user)
}

func unauthorized(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	json.NewEncoder(w).Encode(map[string]string{"message": message})
}
