package api

import (
	"context"
	"net/http"
	"strings"
)

type contextKey string

const userIDKey contextKey = "user_id"

// requireAuth resolves the acting user from the bearer token via the
// identity provider and stores the resolved id on the request context.
// Handlers read it once with currentUser and pass it on explicitly.
func (s *Server) requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			writeError(w, http.StatusUnauthorized, "missing bearer token")
			return
		}

		userID, err := s.identity.Verify(r.Context(), token)
		if err != nil {
			s.respondError(w, "verify token", err)
			return
		}

		ctx := context.WithValue(r.Context(), userIDKey, userID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// currentUser returns the user id resolved by requireAuth.
func currentUser(r *http.Request) string {
	userID, _ := r.Context().Value(userIDKey).(string)
	return userID
}
