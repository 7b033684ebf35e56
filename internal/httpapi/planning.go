package httpapi

import (
	"net/http"

	"stagehand/internal/models"
)

type budgetSummaryRequest struct {
	Project models.ProjectConfig `json:"project"`
	Items   []models.BudgetItem  `json:"items"`
}

type merchRequest struct {
	Counts map[string]int `json:"counts"`
	Total  int            `json:"total"`
}

type merchResponse struct {
	Sizes map[string]int `json:"sizes"`
	Total int            `json:"total"`
}

func (s *Server) handleStage(w http.ResponseWriter, r *http.Request) {
	var scores models.StageScores
	if !decodeJSON(w, r, &scores) {
		return
	}

	res, err := s.planning.Stage(r.Context(), scores)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleBudgetSummary(w http.ResponseWriter, r *http.Request) {
	var req budgetSummaryRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	summary, err := s.planning.BudgetSummary(r.Context(), req.Project, req.Items)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

func (s *Server) handleMerchRebalance(w http.ResponseWriter, r *http.Request) {
	var req merchRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	sizes, err := s.planning.Rebalance(r.Context(), req.Counts, req.Total)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, merchResponse{Sizes: sizes, Total: req.Total})
}
