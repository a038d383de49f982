package server

import (
	"errors"
	"net/http"

	"github.com/google/uuid"

	"github.com/metricdeck/metricdeck/internal/analytics"
)

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if _, err := uuid.Parse(id); err != nil {
		writeError(w, http.StatusBadRequest, "invalid session id")
		return
	}

	detail, err := analytics.BuildSessionDetail(r.Context(), s.src, id)
	if err != nil {
		if handleContextError(w, err) {
			return
		}
		if errors.Is(err, analytics.ErrSessionNotFound) {
			writeError(w, http.StatusNotFound, "session not found")
			return
		}
		writeFetchError(w, "loading session detail", err)
		return
	}
	writeJSON(w, http.StatusOK, detail)
}
