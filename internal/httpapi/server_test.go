package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"stagehand/internal/app/planning"
	"stagehand/internal/app/rosters"
	"stagehand/internal/app/talent"
	"stagehand/internal/app/tours"
	"stagehand/internal/app/venues"
	"stagehand/internal/kv"
	"stagehand/internal/models"
	"stagehand/internal/reference"
	"stagehand/internal/session"
	"stagehand/internal/venuematch"
)

type failingVenues struct{}

func (failingVenues) List(context.Context, models.VenueFilter) ([]models.Venue, error) {
	return nil, errors.New("connection reset by peer")
}

func (failingVenues) Get(context.Context, string) (models.Venue, error) {
	return models.Venue{}, errors.New("connection reset by peer")
}

func (failingVenues) Recommend(context.Context, venues.RecommendRequest) ([]venuematch.Recommendation, error) {
	return nil, errors.New("connection reset by peer")
}

func newTestServer(t *testing.T) *Server {
	t.Helper()

	tables := reference.Default()
	sessions, err := session.NewManager("test-secret-0123456789", time.Hour)
	if err != nil {
		t.Fatalf("NewManager: %v", err)
	}
	venueSvc := venues.New(venues.NewMemoryStore(tables.Venues), venuematch.DefaultRules())
	rosterSvc := rosters.New(kv.NewMemory(), time.Hour)

	return New(
		sessions,
		planning.New(),
		venueSvc,
		rosterSvc,
		tours.New(venueSvc, rosterSvc, tables, tours.DefaultOptions()),
		talent.New(talent.NewMemoryStore(tables.Talent), nil, false),
	)
}

func do(t *testing.T, h http.Handler, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func decode[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	if err := json.Unmarshal(rr.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode %q: %v", rr.Body.String(), err)
	}
	return out
}

func TestHealth(t *testing.T) {
	rr := do(t, newTestServer(t).Routes(), http.MethodGet, "/health", "", nil)
	if rr.Code != http.StatusOK || rr.Body.String() != "OK" {
		t.Fatalf("unexpected health response %d %q", rr.Code, rr.Body.String())
	}
}

func TestStage(t *testing.T) {
	h := newTestServer(t).Routes()
	rr := do(t, h, http.MethodPost, "/api/v1/stage", "", models.StageScores{Craft: 5, Catalog: 5, Brand: 4, Team: 4, Audience: 4, Ops: 4})
	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rr.Code, rr.Body.String())
	}
	res := decode[planning.StageResult](t, rr)
	if res.Stage != models.StageBreakout {
		t.Fatalf("expected Breakout, got %q", res.Stage)
	}
}

func TestInvalidJSON(t *testing.T) {
	h := newTestServer(t).Routes()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/stage", strings.NewReader("{nope"))
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", rr.Code)
	}
	if got := decode[errorResponse](t, rr).Error; got != "invalid JSON payload" {
		t.Fatalf("unexpected error %q", got)
	}
}

func TestVenueEndpoints(t *testing.T) {
	h := newTestServer(t).Routes()

	rr := do(t, h, http.MethodGet, "/api/v1/venues?city=nashville&tier=club", "", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("list: expected status 200, got %d", rr.Code)
	}
	list := decode[struct {
		Venues []models.Venue `json:"venues"`
	}](t, rr)
	if len(list.Venues) == 0 {
		t.Fatalf("expected nashville clubs")
	}
	for _, v := range list.Venues {
		if v.City != "Nashville" || v.Tier != models.TierClub {
			t.Fatalf("filter leaked %#v", v)
		}
	}

	if rr := do(t, h, http.MethodGet, "/api/v1/venues/lantern-room-nash", "", nil); rr.Code != http.StatusOK {
		t.Fatalf("get: expected status 200, got %d", rr.Code)
	}
	if rr := do(t, h, http.MethodGet, "/api/v1/venues/nowhere", "", nil); rr.Code != http.StatusNotFound {
		t.Fatalf("get missing: expected status 404, got %d", rr.Code)
	}
	if rr := do(t, h, http.MethodGet, "/api/v1/venues?tier=stadium", "", nil); rr.Code != http.StatusBadRequest {
		t.Fatalf("bad tier: expected status 400, got %d", rr.Code)
	}

	rr = do(t, h, http.MethodPost, "/api/v1/venues/recommendations?limit=2", "", map[string]any{
		"stage":           "Emerging",
		"estimatedDraw":   80,
		"preferredGenres": []string{"rock"},
	})
	if rr.Code != http.StatusOK {
		t.Fatalf("recommend: expected status 200, got %d: %s", rr.Code, rr.Body.String())
	}
	recs := decode[struct {
		Recommendations []venuematch.Recommendation `json:"recommendations"`
	}](t, rr)
	if len(recs.Recommendations) == 0 || len(recs.Recommendations) > 2 {
		t.Fatalf("expected 1-2 recommendations, got %d", len(recs.Recommendations))
	}

	rr = do(t, h, http.MethodPost, "/api/v1/venues/recommendations", "", map[string]any{"stage": "Legend", "estimatedDraw": 80})
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("bad stage: expected status 400, got %d", rr.Code)
	}
}

func TestRosterRequiresSession(t *testing.T) {
	h := newTestServer(t).Routes()

	if rr := do(t, h, http.MethodGet, "/api/v1/roster", "", nil); rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected status 401, got %d", rr.Code)
	}
	if rr := do(t, h, http.MethodGet, "/api/v1/roster", "garbage", nil); rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected status 401 for bad token, got %d", rr.Code)
	}
}

func TestSessionRosterAndTourBudget(t *testing.T) {
	h := newTestServer(t).Routes()

	rr := do(t, h, http.MethodPost, "/api/v1/sessions", "", nil)
	if rr.Code != http.StatusCreated {
		t.Fatalf("session: expected status 201, got %d", rr.Code)
	}
	sess := decode[session.Session](t, rr)
	if sess.Token == "" || sess.ID == "" {
		t.Fatalf("incomplete session %#v", sess)
	}

	rr = do(t, h, http.MethodPost, "/api/v1/roster", sess.Token, models.BandMember{Name: "Kit", Role: "Drummer", IsCoreMember: true})
	if rr.Code != http.StatusCreated {
		t.Fatalf("add: expected status 201, got %d: %s", rr.Code, rr.Body.String())
	}
	kit := decode[models.BandMember](t, rr)

	rr = do(t, h, http.MethodPost, "/api/v1/roster", sess.Token, models.BandMember{Name: "Jo", Role: "Guitar", RatePerShow: 200})
	if rr.Code != http.StatusCreated {
		t.Fatalf("add: expected status 201, got %d", rr.Code)
	}

	kit.RatePerShow = 250
	if rr := do(t, h, http.MethodPut, "/api/v1/roster/"+kit.ID, sess.Token, kit); rr.Code != http.StatusOK {
		t.Fatalf("update: expected status 200, got %d", rr.Code)
	}
	if rr := do(t, h, http.MethodPut, "/api/v1/roster/unknown", sess.Token, kit); rr.Code != http.StatusNotFound {
		t.Fatalf("update unknown: expected status 404, got %d", rr.Code)
	}

	body := tours.BudgetRequest{Shows: []tours.ShowRequest{{VenueID: "lantern-room-nash", ExpectedAttendance: heads(100), TicketPrice: 15, DealStructure: models.DealFlatFee, Guarantee: ptr(500)}}}
	rr = do(t, h, http.MethodPost, "/api/v1/tour/budget", sess.Token, body)
	if rr.Code != http.StatusOK {
		t.Fatalf("budget: expected status 200, got %d: %s", rr.Code, rr.Body.String())
	}
	budget := decode[models.TourBudget](t, rr)
	if len(budget.Members) != 2 {
		t.Fatalf("expected the session roster, got %d members", len(budget.Members))
	}
	if budget.TotalRevenue != 500 || budget.TotalMusicianPay != 450 {
		t.Fatalf("unexpected totals revenue=%v pay=%v", budget.TotalRevenue, budget.TotalMusicianPay)
	}

	// Without a token the roster is not consulted.
	rr = do(t, h, http.MethodPost, "/api/v1/tour/budget", "", body)
	if rr.Code != http.StatusOK {
		t.Fatalf("anonymous budget: expected status 200, got %d", rr.Code)
	}
	if anon := decode[models.TourBudget](t, rr); len(anon.Members) != 0 {
		t.Fatalf("anonymous budget used a roster: %#v", anon.Members)
	}

	if rr := do(t, h, http.MethodDelete, "/api/v1/roster/"+kit.ID, sess.Token, nil); rr.Code != http.StatusNoContent {
		t.Fatalf("delete: expected status 204, got %d", rr.Code)
	}
	rr = do(t, h, http.MethodGet, "/api/v1/roster", sess.Token, nil)
	list := decode[struct {
		Members []models.BandMember `json:"members"`
	}](t, rr)
	if len(list.Members) != 1 || list.Members[0].Name != "Jo" {
		t.Fatalf("unexpected roster after delete: %#v", list.Members)
	}
}

func TestTourBudgetUnknownVenue(t *testing.T) {
	h := newTestServer(t).Routes()
	rr := do(t, h, http.MethodPost, "/api/v1/tour/budget", "", tours.BudgetRequest{Shows: []tours.ShowRequest{{VenueID: "nowhere"}}})
	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d", rr.Code)
	}
}

func TestPayRecommendationAndRate(t *testing.T) {
	h := newTestServer(t).Routes()

	rr := do(t, h, http.MethodPost, "/api/v1/tour/pay-recommendation", "", tours.PayRequest{
		Members:       []models.BandMember{{Name: "Ren", Role: "Bandleader", IsCoreMember: true}, {Name: "Kit", Role: "Drummer", IsCoreMember: true}},
		TotalRevenue:  1000,
		TotalExpenses: 0,
	})
	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rr.Code)
	}
	out := decode[struct {
		Members []models.BandMember `json:"members"`
	}](t, rr)
	if out.Members[0].TotalPay != 300 || out.Members[1].TotalPay != 700 {
		t.Fatalf("unexpected split %#v", out.Members)
	}

	if rr := do(t, h, http.MethodGet, "/api/v1/tour/musician-rate?tier=club&role=Drummer&shows=3&core=true", "", nil); rr.Code != http.StatusOK {
		t.Fatalf("rate: expected status 200, got %d", rr.Code)
	}
	if rr := do(t, h, http.MethodGet, "/api/v1/tour/musician-rate?tier=club&shows=x", "", nil); rr.Code != http.StatusBadRequest {
		t.Fatalf("rate: expected status 400, got %d", rr.Code)
	}
}

func TestTalentEndpoints(t *testing.T) {
	h := newTestServer(t).Routes()

	rr := do(t, h, http.MethodGet, "/api/v1/talent?role=Mixer", "", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("list: expected status 200, got %d", rr.Code)
	}
	list := decode[struct {
		Talent []models.TalentProfile `json:"talent"`
	}](t, rr)
	for _, p := range list.Talent {
		if !p.HasRole(models.RoleMixer) {
			t.Fatalf("role filter leaked %q", p.Name)
		}
	}

	rr = do(t, h, http.MethodPost, "/api/v1/talent", "", models.TalentProfile{Name: "Sam", Roles: []models.TalentRole{models.RolePublicist}})
	if rr.Code != http.StatusCreated {
		t.Fatalf("add: expected status 201, got %d: %s", rr.Code, rr.Body.String())
	}
	created := decode[models.TalentProfile](t, rr)
	if rr := do(t, h, http.MethodGet, "/api/v1/talent/"+created.ID, "", nil); rr.Code != http.StatusOK {
		t.Fatalf("get: expected status 200, got %d", rr.Code)
	}
	if rr := do(t, h, http.MethodPost, "/api/v1/talent", "", models.TalentProfile{Name: "No role"}); rr.Code != http.StatusBadRequest {
		t.Fatalf("add invalid: expected status 400, got %d", rr.Code)
	}

	needsReq := talent.NeedsRequest{
		Artist:  models.ArtistProfile{ArtistName: "The Ramblers", Genres: "rock"},
		Project: models.ProjectConfig{Units: 6},
	}
	rr = do(t, h, http.MethodPost, "/api/v1/talent/needs", "", needsReq)
	if rr.Code != http.StatusOK {
		t.Fatalf("needs: expected status 200, got %d", rr.Code)
	}
	needs := decode[struct {
		Needs []models.TalentNeed `json:"needs"`
	}](t, rr)
	if len(needs.Needs) != 6 || needs.Needs[0].Role != models.RoleSongwriter || needs.Needs[0].Count != 2 {
		t.Fatalf("unexpected needs %#v", needs.Needs)
	}

	rr = do(t, h, http.MethodPost, "/api/v1/talent/recommendations", "", talent.RecommendRequest{NeedsRequest: needsReq, Limit: 2})
	if rr.Code != http.StatusOK {
		t.Fatalf("recommend: expected status 200, got %d", rr.Code)
	}
	recs := decode[struct {
		Recommendations []models.TalentRecommendation `json:"recommendations"`
	}](t, rr)
	if len(recs.Recommendations) != 6 {
		t.Fatalf("expected one recommendation per need, got %d", len(recs.Recommendations))
	}
	for _, rec := range recs.Recommendations {
		if len(rec.Candidates) > 2 {
			t.Fatalf("limit ignored for %s", rec.Need.Role)
		}
	}
}

func TestBudgetAndMerch(t *testing.T) {
	h := newTestServer(t).Routes()

	rr := do(t, h, http.MethodPost, "/api/v1/budget/summary", "", map[string]any{
		"project": models.ProjectConfig{Units: 2},
		"items":   []models.BudgetItem{{Category: "Mastering", Qty: 2, UnitCost: 100, Phase: models.PhasePostProduction, Required: true}},
	})
	if rr.Code != http.StatusOK {
		t.Fatalf("summary: expected status 200, got %d", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), `"costPerUnit":100`) {
		t.Fatalf("unexpected summary %s", rr.Body.String())
	}

	rr = do(t, h, http.MethodPost, "/api/v1/merch/rebalance", "", merchRequest{Counts: map[string]int{"S": 1, "M": 2, "L": 1}, Total: 10})
	if rr.Code != http.StatusOK {
		t.Fatalf("merch: expected status 200, got %d", rr.Code)
	}
	out := decode[merchResponse](t, rr)
	sum := 0
	for _, n := range out.Sizes {
		sum += n
	}
	if sum != 10 {
		t.Fatalf("sizes sum to %d, want 10", sum)
	}

	if rr := do(t, h, http.MethodPost, "/api/v1/merch/rebalance", "", merchRequest{Total: -1}); rr.Code != http.StatusBadRequest {
		t.Fatalf("negative total: expected status 400, got %d", rr.Code)
	}
}

func TestUnexpectedErrorsAreHidden(t *testing.T) {
	srv := newTestServer(t)
	srv.venues = failingVenues{}

	rr := do(t, srv.Routes(), http.MethodGet, "/api/v1/venues", "", nil)
	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("expected status 500, got %d", rr.Code)
	}
	if got := decode[errorResponse](t, rr).Error; got != "internal server error" {
		t.Fatalf("leaked error %q", got)
	}
}

func TestParseBearerToken(t *testing.T) {
	tests := []struct {
		header string
		want   string
	}{
		{header: "", want: ""},
		{header: "Bearer abc", want: "abc"},
		{header: "bearer  abc ", want: "abc"},
		{header: "Basic abc", want: ""},
		{header: "Bearer", want: ""},
	}
	for _, tc := range tests {
		if got := parseBearerToken(tc.header); got != tc.want {
			t.Fatalf("parseBearerToken(%q) = %q, want %q", tc.header, got, tc.want)
		}
	}
}

func ptr(v float64) *float64 { return &v }

func heads(n int) *int { return &n }
