package httptransport

import (
	"context"
	"net/http"
	"strings"

	"verivote/internal/roster"
	"verivote/internal/token"
)

type contextKey struct{}

var claimsKey contextKey

// requireRole validates the bearer token and gates the route on the account
// role. Claims are stored in the request context for handlers.
func (h *Handler) requireRole(role roster.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw, ok := bearerToken(r)
			if !ok {
				writeError(w, token.ErrInvalid)
				return
			}
			claims, err := h.tokens.Validate(raw)
			if err != nil {
				writeError(w, err)
				return
			}
			if claims.Role != role {
				writeJSON(w, http.StatusForbidden, errorResponse{
					Error:       "forbidden",
					Description: "insufficient role",
				})
				return
			}
			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), claimsKey, claims)))
		})
	}
}

func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	raw, ok := strings.CutPrefix(header, "Bearer ")
	if !ok || raw == "" {
		return "", false
	}
	return raw, true
}

func claimsFrom(ctx context.Context) *token.Claims {
	claims, _ := ctx.Value(claimsKey).(*token.Claims)
	return claims
}
