package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/tonearc/tonearc/internal/identity"
	"github.com/tonearc/tonearc/internal/store"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

// respondError maps store and identity error kinds to HTTP statuses,
// preserving the kind end-to-end instead of collapsing everything into
// a generic internal error.
func (s *Server) respondError(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		writeError(w, http.StatusNotFound, "not found")
	case errors.Is(err, store.ErrConflict), errors.Is(err, identity.ErrAlreadyRegistered):
		writeError(w, http.StatusConflict, "already exists")
	case errors.Is(err, identity.ErrInvalidCredentials):
		writeError(w, http.StatusUnauthorized, "invalid credentials")
	case errors.Is(err, identity.ErrInvalidToken):
		writeError(w, http.StatusUnauthorized, "invalid token")
	default:
		s.logger.Error("internal error", "op", op, "err", err)
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}
