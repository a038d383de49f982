package server

import "net/http"

func (s *Server) handleListUsers(w http.ResponseWriter, r *http.Request) {
	dr, ok := parseDateRange(w, r)
	if !ok {
		return
	}
	search := r.URL.Query().Get("search")

	if err := s.dash.RefreshUsers(r.Context(), dr, search); err != nil {
		if handleContextError(w, err) {
			return
		}
		writeFetchError(w, "loading users", err)
		return
	}
	writeJSON(w, http.StatusOK, s.dash.Users.Snapshot())
}
