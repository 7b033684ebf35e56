package httpapi

import (
	"net/http"
	"strconv"

	"stagehand/internal/app/venues"
	"stagehand/internal/models"
	"stagehand/internal/venuematch"
)

type venueRecommendationRequest struct {
	venuematch.Criteria
	Limit int `json:"limit,omitempty"`
}

func (s *Server) handleListVenues(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	filter := models.VenueFilter{
		City:  query.Get("city"),
		State: query.Get("state"),
	}
	if tier := query.Get("tier"); tier != "" {
		t := models.Tier(tier)
		filter.Tier = &t
	}

	list, err := s.venues.List(r.Context(), filter)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, struct {
		Venues []models.Venue `json:"venues"`
	}{Venues: list})
}

func (s *Server) handleGetVenue(w http.ResponseWriter, r *http.Request) {
	venue, err := s.venues.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, venue)
}

func (s *Server) handleRecommendVenues(w http.ResponseWriter, r *http.Request) {
	var req venueRecommendationRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if raw := r.URL.Query().Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid limit parameter"})
			return
		}
		req.Limit = limit
	}

	recs, err := s.venues.Recommend(r.Context(), venues.RecommendRequest{Criteria: req.Criteria, Limit: req.Limit})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, struct {
		Recommendations []venuematch.Recommendation `json:"recommendations"`
	}{Recommendations: recs})
}
