package tours

import (
	"context"
	"fmt"
	"strings"

	"stagehand/internal/app"
	"stagehand/internal/models"
	"stagehand/internal/reference"
	"stagehand/internal/tourbudget"
)

// MaxShows bounds a single projection.
const MaxShows = 200

// Distance strategies accepted by BudgetRequest.
const (
	DistanceFixed = "fixed"
	DistanceState = "state"
)

// VenueLookup resolves venue IDs.
type VenueLookup interface {
	Get(ctx context.Context, id string) (models.Venue, error)
}

// RosterLister returns the band attached to a planning session.
type RosterLister interface {
	List(ctx context.Context, sessionID string) ([]models.BandMember, error)
}

// ShowRequest is one planned show referencing a venue by ID. Omitting
// ExpectedAttendance estimates it from capacity.
type ShowRequest struct {
	VenueID            string               `json:"venue_id" yaml:"venue_id"`
	ExpectedAttendance *int                 `json:"expected_attendance,omitempty" yaml:"expected_attendance,omitempty"`
	TicketPrice        float64              `json:"ticket_price" yaml:"ticket_price"`
	DealStructure      models.DealStructure `json:"deal_structure" yaml:"deal_structure"`
	Guarantee          *float64             `json:"guarantee,omitempty" yaml:"guarantee,omitempty"`
	DoorSplit          *float64             `json:"door_split,omitempty" yaml:"door_split,omitempty"`
}

// BudgetRequest asks for a tour projection. Nil Members means the session roster.
type BudgetRequest struct {
	Shows    []ShowRequest       `json:"shows" yaml:"shows"`
	Members  []models.BandMember `json:"members,omitempty" yaml:"members,omitempty"`
	Distance string              `json:"distance,omitempty" yaml:"distance,omitempty"`
}

// PayRequest asks for a profit-sharing split. A nil LeaderPct uses the
// configured default.
type PayRequest struct {
	Members       []models.BandMember `json:"members"`
	TotalRevenue  float64             `json:"total_revenue"`
	TotalExpenses float64             `json:"total_expenses"`
	LeaderPct     *float64            `json:"leader_pct,omitempty"`
}

// RateQuery asks for the market fee of one player.
type RateQuery struct {
	Tier         models.Tier
	TourLength   int
	Role         string
	IsCoreMember bool
}

// Service projects tour economics.
type Service interface {
	Budget(ctx context.Context, sessionID string, req BudgetRequest) (models.TourBudget, error)
	PayRecommendation(ctx context.Context, req PayRequest) ([]models.BandMember, error)
	MusicianRate(ctx context.Context, q RateQuery) (float64, error)
}

// Options tunes the service.
type Options struct {
	LeaderPct     float64
	StateDistance tourbudget.StateDistance
}

// DefaultOptions mirrors the planning defaults.
func DefaultOptions() Options {
	return Options{
		LeaderPct:     30,
		StateDistance: tourbudget.StateDistance{SameState: 150, CrossState: 400},
	}
}

type service struct {
	venues  VenueLookup
	rosters RosterLister
	tables  reference.Tables
	opts    Options
}

// New constructs a tour Service. rosters may be nil when sessions are not
// used.
func New(venues VenueLookup, rosters RosterLister, tables reference.Tables, opts Options) Service {
	return &service{venues: venues, rosters: rosters, tables: tables, opts: opts}
}

func (s *service) Budget(ctx context.Context, sessionID string, req BudgetRequest) (models.TourBudget, error) {
	if err := ctx.Err(); err != nil {
		return models.TourBudget{}, err
	}
	if len(req.Shows) > MaxShows {
		return models.TourBudget{}, fmt.Errorf("%w: at most %d shows", app.ErrInvalidInput, MaxShows)
	}

	gen := tourbudget.NewGenerator(s.tables.ExpenseStandards, s.tables.MusicianRates)
	switch strings.ToLower(strings.TrimSpace(req.Distance)) {
	case "", DistanceFixed:
	case DistanceState:
		gen.Distance = s.opts.StateDistance
	default:
		return models.TourBudget{}, fmt.Errorf("%w: unknown distance strategy %q", app.ErrInvalidInput, req.Distance)
	}

	inputs := make([]tourbudget.ShowInput, 0, len(req.Shows))
	for i, show := range req.Shows {
		if err := validateShow(show); err != nil {
			return models.TourBudget{}, fmt.Errorf("show %d: %w", i+1, err)
		}
		venue, err := s.venues.Get(ctx, show.VenueID)
		if err != nil {
			return models.TourBudget{}, fmt.Errorf("show %d: %w", i+1, err)
		}
		inputs = append(inputs, tourbudget.ShowInput{
			Venue:              venue,
			ExpectedAttendance: show.ExpectedAttendance,
			TicketPrice:        show.TicketPrice,
			DealStructure:      show.DealStructure,
			Guarantee:          show.Guarantee,
			DoorSplit:          show.DoorSplit,
		})
	}

	members := req.Members
	if members == nil && sessionID != "" && s.rosters != nil {
		roster, err := s.rosters.List(ctx, sessionID)
		if err != nil {
			return models.TourBudget{}, err
		}
		members = roster
	}
	for _, m := range members {
		if m.RatePerShow < 0 {
			return models.TourBudget{}, fmt.Errorf("%w: member %q has a negative rate", app.ErrInvalidInput, m.Name)
		}
	}

	return gen.Generate(inputs, members), nil
}

func (s *service) PayRecommendation(ctx context.Context, req PayRequest) ([]models.BandMember, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	pct := s.opts.LeaderPct
	if req.LeaderPct != nil {
		pct = *req.LeaderPct
	}
	if pct < 0 || pct > 100 {
		return nil, fmt.Errorf("%w: leader percentage must be between 0 and 100", app.ErrInvalidInput)
	}
	if req.TotalRevenue < 0 || req.TotalExpenses < 0 {
		return nil, fmt.Errorf("%w: totals must not be negative", app.ErrInvalidInput)
	}
	return tourbudget.RecommendBandPay(req.Members, req.TotalRevenue, req.TotalExpenses, pct), nil
}

func (s *service) MusicianRate(ctx context.Context, q RateQuery) (float64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if !q.Tier.Valid() {
		return 0, fmt.Errorf("%w: unknown tier %q", app.ErrInvalidInput, q.Tier)
	}
	if q.TourLength < 0 {
		return 0, fmt.Errorf("%w: tour length must not be negative", app.ErrInvalidInput)
	}
	return tourbudget.MusicianPay(s.tables.MusicianRates, q.Tier, q.TourLength, q.Role, q.IsCoreMember), nil
}

func validateShow(show ShowRequest) error {
	switch show.DealStructure {
	case "", models.DealGuarantee, models.DealDoorSplit, models.DealGuaranteePlus, models.DealFlatFee:
	default:
		return fmt.Errorf("%w: unknown deal structure %q", app.ErrInvalidInput, show.DealStructure)
	}
	switch {
	case strings.TrimSpace(show.VenueID) == "":
		return fmt.Errorf("%w: venue_id is required", app.ErrInvalidInput)
	case show.ExpectedAttendance != nil && *show.ExpectedAttendance < 0:
		return fmt.Errorf("%w: attendance must not be negative", app.ErrInvalidInput)
	case show.TicketPrice < 0:
		return fmt.Errorf("%w: ticket price must not be negative", app.ErrInvalidInput)
	case show.Guarantee != nil && *show.Guarantee < 0:
		return fmt.Errorf("%w: guarantee must not be negative", app.ErrInvalidInput)
	case show.DoorSplit != nil && (*show.DoorSplit < 0 || *show.DoorSplit > 100):
		return fmt.Errorf("%w: door split must be between 0 and 100", app.ErrInvalidInput)
	}
	return nil
}
