package httpapi

import (
	"net/http"

	"stagehand/internal/app"
	"stagehand/internal/logging"
)

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	sess, err := s.sessions.Issue()
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, sess)
}

// requireSession resolves the bearer token to a session ID, writing a 401 when
// it is missing or invalid.
func (s *Server) requireSession(w http.ResponseWriter, r *http.Request) (string, *http.Request, bool) {
	token := parseBearerToken(r.Header.Get("Authorization"))
	if token == "" {
		writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "missing bearer token"})
		return "", r, false
	}
	return s.verify(w, r, token)
}

// optionalSession is requireSession for endpoints that also work anonymously.
func (s *Server) optionalSession(w http.ResponseWriter, r *http.Request) (string, *http.Request, bool) {
	token := parseBearerToken(r.Header.Get("Authorization"))
	if token == "" {
		return "", r, true
	}
	return s.verify(w, r, token)
}

func (s *Server) verify(w http.ResponseWriter, r *http.Request, token string) (string, *http.Request, bool) {
	id, err := s.sessions.Verify(token)
	if err != nil {
		writeError(w, r, app.ErrUnauthorized)
		return "", r, false
	}
	return id, r.WithContext(logging.WithSessionID(r.Context(), id)), true
}
