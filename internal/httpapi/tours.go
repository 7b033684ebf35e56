package httpapi

import (
	"net/http"
	"strconv"

	"stagehand/internal/app/tours"
	"stagehand/internal/models"
)

func (s *Server) handleTourBudget(w http.ResponseWriter, r *http.Request) {
	sessionID, r, ok := s.optionalSession(w, r)
	if !ok {
		return
	}

	var req tours.BudgetRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	budget, err := s.tours.Budget(r.Context(), sessionID, req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, budget)
}

func (s *Server) handlePayRecommendation(w http.ResponseWriter, r *http.Request) {
	var req tours.PayRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	members, err := s.tours.PayRecommendation(r.Context(), req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, struct {
		Members []models.BandMember `json:"members"`
	}{Members: members})
}

func (s *Server) handleMusicianRate(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	q := tours.RateQuery{
		Tier:         models.Tier(query.Get("tier")),
		Role:         query.Get("role"),
		IsCoreMember: query.Get("core") == "true",
	}
	if raw := query.Get("shows"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid shows parameter"})
			return
		}
		q.TourLength = n
	}

	rate, err := s.tours.MusicianRate(r.Context(), q)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, struct {
		Role        string  `json:"role"`
		Tier        string  `json:"tier"`
		RatePerShow float64 `json:"rate_per_show"`
	}{Role: q.Role, Tier: string(q.Tier), RatePerShow: rate})
}
