package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"stagehand/internal/app"
	"stagehand/internal/app/planning"
	"stagehand/internal/app/talent"
	"stagehand/internal/app/tours"
	"stagehand/internal/app/venues"
	"stagehand/internal/budget"
	"stagehand/internal/logging"
	"stagehand/internal/models"
	"stagehand/internal/session"
	"stagehand/internal/venuematch"
)

// maxBodyBytes caps request bodies.
const maxBodyBytes = 1 << 20

// SessionService issues and verifies planning session tokens.
type SessionService interface {
	Issue() (session.Session, error)
	Verify(token string) (string, error)
}

// PlanningService covers the stateless calculators.
type PlanningService interface {
	Stage(ctx context.Context, scores models.StageScores) (planning.StageResult, error)
	BudgetSummary(ctx context.Context, project models.ProjectConfig, items []models.BudgetItem) (budget.Summary, error)
	Rebalance(ctx context.Context, counts map[string]int, total int) (map[string]int, error)
}

// VenueService describes venue directory workflows.
type VenueService interface {
	List(ctx context.Context, filter models.VenueFilter) ([]models.Venue, error)
	Get(ctx context.Context, id string) (models.Venue, error)
	Recommend(ctx context.Context, req venues.RecommendRequest) ([]venuematch.Recommendation, error)
}

// RosterService manages session-scoped band rosters.
type RosterService interface {
	List(ctx context.Context, sessionID string) ([]models.BandMember, error)
	Add(ctx context.Context, sessionID string, member models.BandMember) (models.BandMember, error)
	Update(ctx context.Context, sessionID, id string, member models.BandMember) (models.BandMember, error)
	Delete(ctx context.Context, sessionID, id string) error
}

// TourService projects tour economics.
type TourService interface {
	Budget(ctx context.Context, sessionID string, req tours.BudgetRequest) (models.TourBudget, error)
	PayRecommendation(ctx context.Context, req tours.PayRequest) ([]models.BandMember, error)
	MusicianRate(ctx context.Context, q tours.RateQuery) (float64, error)
}

// TalentService coordinates the talent directory and recommendations.
type TalentService interface {
	Directory(ctx context.Context, role models.TalentRole) ([]models.TalentProfile, error)
	Get(ctx context.Context, id string) (models.TalentProfile, error)
	Add(ctx context.Context, p models.TalentProfile) (models.TalentProfile, error)
	Needs(ctx context.Context, req talent.NeedsRequest) ([]models.TalentNeed, error)
	Recommend(ctx context.Context, req talent.RecommendRequest) ([]models.TalentRecommendation, error)
}

// Server wires HTTP handlers to the underlying services.
type Server struct {
	sessions SessionService
	planning PlanningService
	venues   VenueService
	rosters  RosterService
	tours    TourService
	talent   TalentService
}

// New configures a Server with the given services.
func New(
	sessions SessionService,
	planning PlanningService,
	venues VenueService,
	rosters RosterService,
	tours TourService,
	talent TalentService,
) *Server {
	return &Server{
		sessions: sessions,
		planning: planning,
		venues:   venues,
		rosters:  rosters,
		tours:    tours,
		talent:   talent,
	}
}

// Routes exposes the planning API.
func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	mux.HandleFunc("POST /api/v1/sessions", s.handleCreateSession)

	// Calculators
	mux.HandleFunc("POST /api/v1/stage", s.handleStage)
	mux.HandleFunc("POST /api/v1/budget/summary", s.handleBudgetSummary)
	mux.HandleFunc("POST /api/v1/merch/rebalance", s.handleMerchRebalance)

	// Venue routes
	mux.HandleFunc("GET /api/v1/venues", s.handleListVenues)
	mux.HandleFunc("GET /api/v1/venues/{id}", s.handleGetVenue)
	mux.HandleFunc("POST /api/v1/venues/recommendations", s.handleRecommendVenues)

	// Roster routes
	mux.HandleFunc("GET /api/v1/roster", s.handleListRoster)
	mux.HandleFunc("POST /api/v1/roster", s.handleAddRosterMember)
	mux.HandleFunc("PUT /api/v1/roster/{id}", s.handleUpdateRosterMember)
	mux.HandleFunc("DELETE /api/v1/roster/{id}", s.handleDeleteRosterMember)

	// Tour routes
	mux.HandleFunc("POST /api/v1/tour/budget", s.handleTourBudget)
	mux.HandleFunc("POST /api/v1/tour/pay-recommendation", s.handlePayRecommendation)
	mux.HandleFunc("GET /api/v1/tour/musician-rate", s.handleMusicianRate)

	// Talent routes
	mux.HandleFunc("GET /api/v1/talent", s.handleListTalent)
	mux.HandleFunc("POST /api/v1/talent", s.handleAddTalent)
	mux.HandleFunc("GET /api/v1/talent/{id}", s.handleGetTalent)
	mux.HandleFunc("POST /api/v1/talent/needs", s.handleTalentNeeds)
	mux.HandleFunc("POST /api/v1/talent/recommendations", s.handleTalentRecommendations)

	return mux
}

type errorResponse struct {
	Error string `json:"error"`
}

// decodeJSON reads a bounded JSON body into target.
func decodeJSON(w http.ResponseWriter, r *http.Request, target any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(target); err != nil && !errors.Is(err, io.EOF) {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON payload"})
		return false
	}
	return true
}

// writeError maps service errors to status codes. Unexpected errors are logged
// and hidden from the client.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, app.ErrInvalidInput):
		status = http.StatusBadRequest
	case errors.Is(err, app.ErrUnauthorized), errors.Is(err, session.ErrUnauthorized):
		status = http.StatusUnauthorized
	case errors.Is(err, app.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, app.ErrConflict):
		status = http.StatusConflict
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		status = http.StatusServiceUnavailable
	}

	msg := err.Error()
	if status == http.StatusInternalServerError {
		logging.FromContext(r.Context()).Error().Err(err).Str("path", r.URL.Path).Msg("request failed")
		msg = "internal server error"
	}
	writeJSON(w, status, errorResponse{Error: msg})
}

func parseBearerToken(header string) string {
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 {
		return ""
	}
	if !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload != nil {
		_ = json.NewEncoder(w).Encode(payload)
	}
}
