package middleware

import (
	"clementus360/task-manager/config"
	"clementus360/task-manager/supabase"
	"clementus360/task-manager/types"
	"context"
	"encoding/json"
	"net/http"
)

// TokenValidator resolves a bearer token to the user it was issued to.
type TokenValidator interface {
	ValidateToken(token string) (types.User, error)
}

type contextKey int

const (
	userKey contextKey = iota
	tokenKey
)

// AuthMiddleware rejects requests without a valid bearer token and stores the
// caller and token on the request context.
func AuthMiddleware(validator TokenValidator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, err := supabase.BearerToken(r.Header.Get("Authorization"))
			if err != nil {
				unauthorized(w, "Authentication required", err.Error())
				return
			}

			user, err := validator.ValidateToken(token)
			if err != nil {
				config.Logger.Warn("Auth validation error: ", err)
				unauthorized(w, "Invalid or expired token", "")
				return
			}

			next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), user, token)))
		})
	}
}

// UserFromContext returns the authenticated caller.
func UserFromContext(ctx context.Context) (types.User, bool) {
	user, ok := ctx.Value(userKey).(types.User)
	return user, ok
}

// TokenFromContext returns the caller's bearer token.
func TokenFromContext(ctx context.Context) string {
	token, _ := ctx.Value(tokenKey).(string)
	return token
}

// WithUser attaches an authenticated caller to ctx.
func WithUser(ctx context.Context, user types.User, token string) context.Context {
	ctx = context.WithValue(ctx, userKey, user)
	return context.WithValue(ctx, tokenKey, token)
}

func unauthorized(w http.ResponseWriter, message, details string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	json.NewEncoder(w).Encode(types.ErrorResponse{Error: message, Details: details})
}
