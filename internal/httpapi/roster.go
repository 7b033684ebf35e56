package httpapi

import (
	"net/http"

	"stagehand/internal/models"
)

func (s *Server) handleListRoster(w http.ResponseWriter, r *http.Request) {
	sessionID, r, ok := s.requireSession(w, r)
	if !ok {
		return
	}

	members, err := s.rosters.List(r.Context(), sessionID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, struct {
		Members []models.BandMember `json:"members"`
	}{Members: members})
}

func (s *Server) handleAddRosterMember(w http.ResponseWriter, r *http.Request) {
	sessionID, r, ok := s.requireSession(w, r)
	if !ok {
		return
	}

	var member models.BandMember
	if !decodeJSON(w, r, &member) {
		return
	}

	created, err := s.rosters.Add(r.Context(), sessionID, member)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) handleUpdateRosterMember(w http.ResponseWriter, r *http.Request) {
	sessionID, r, ok := s.requireSession(w, r)
	if !ok {
		return
	}

	var member models.BandMember
	if !decodeJSON(w, r, &member) {
		return
	}

	updated, err := s.rosters.Update(r.Context(), sessionID, r.PathValue("id"), member)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (s *Server) handleDeleteRosterMember(w http.ResponseWriter, r *http.Request) {
	sessionID, r, ok := s.requireSession(w, r)
	if !ok {
		return
	}

	if err := s.rosters.Delete(r.Context(), sessionID, r.PathValue("id")); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
