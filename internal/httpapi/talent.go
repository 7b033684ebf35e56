package httpapi

import (
	"net/http"

	"stagehand/internal/app/talent"
	"stagehand/internal/models"
)

func (s *Server) handleListTalent(w http.ResponseWriter, r *http.Request) {
	profiles, err := s.talent.Directory(r.Context(), models.TalentRole(r.URL.Query().Get("role")))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, struct {
		Talent []models.TalentProfile `json:"talent"`
	}{Talent: profiles})
}

func (s *Server) handleGetTalent(w http.ResponseWriter, r *http.Request) {
	p, err := s.talent.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (s *Server) handleAddTalent(w http.ResponseWriter, r *http.Request) {
	var p models.TalentProfile
	if !decodeJSON(w, r, &p) {
		return
	}

	created, err := s.talent.Add(r.Context(), p)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) handleTalentNeeds(w http.ResponseWriter, r *http.Request) {
	var req talent.NeedsRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	needs, err := s.talent.Needs(r.Context(), req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, struct {
		Needs []models.TalentNeed `json:"needs"`
	}{Needs: needs})
}

func (s *Server) handleTalentRecommendations(w http.ResponseWriter, r *http.Request) {
	var req talent.RecommendRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	recs, err := s.talent.Recommend(r.Context(), req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, struct {
		Recommendations []models.TalentRecommendation `json:"recommendations"`
	}{Recommendations: recs})
}
