package httpapi

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"homeflow/api/internal/models"
	"homeflow/api/internal/store"
)

type contextKey int

const userContextKey contextKey = iota

// requireUser resolves the bearer token to a user record and attaches it to
// the request context. Every workflow, document, and upload route goes
// through here.
func (h *Handler) requireUser(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token := bearerToken(r.Header.Get("Authorization"))
		if token == "" {
			writeError(w, http.StatusUnauthorized, "unauthorized", "missing or malformed bearer token")
			return
		}

		userID, err := h.tokens.Resolve(token)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "unauthorized", "invalid token")
			return
		}

		user, err := h.store.GetUser(r.Context(), userID)
		if err != nil {
			if errors.Is(err, store.ErrUserNotFound) {
				writeError(w, http.StatusUnauthorized, "unauthorized", "invalid token")
				return
			}
			writeError(w, http.StatusInternalServerError, "internal_error", "internal server error")
			return
		}

		next(w, r.WithContext(context.WithValue(r.Context(), userContextKey, user)))
	}
}

func userFrom(ctx context.Context) (models.User, bool) {
	user, ok := ctx.Value(userContextKey).(models.User)
	return user, ok
}

// bearerToken extracts the token from an "Authorization: Bearer <token>"
// header. The header must split into exactly two space-separated parts.
func bearerToken(header string) string {
	if header == "" {
		return ""
	}
	parts := strings.Split(header, " ")
	if len(parts) != 2 {
		return ""
	}
	if parts[0] != "Bearer" {
		return ""
	}
	return parts[1]
}
