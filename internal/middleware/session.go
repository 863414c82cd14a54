package middleware

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/classiflow/classiflow-go/internal/crypto"
	"github.com/classiflow/classiflow-go/internal/session"
)

type contextKey string

const userIDKey contextKey = "userID"

// RequireSession returns middleware that verifies the session cookie and
// injects the token's user id into the request context. Profile fields are
// never taken from the token; handlers re-resolve the user from the store.
func RequireSession(cookies *session.CookieManager, codec *crypto.TokenCodec) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := cookies.Read(r)
			if token == "" {
				writeJSONError(w, http.StatusUnauthorized, "unauthorized")
				return
			}

			claims, err := codec.Verify(token)
			if err != nil {
				writeJSONError(w, http.StatusUnauthorized, "invalid or expired session")
				return
			}

			ctx := context.WithValue(r.Context(), userIDKey, claims.UserID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// UserIDFromContext extracts the authenticated user ID from the request context.
func UserIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(userIDKey).(string)
	return id, ok
}

func writeJSONError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
