package tours

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stagehand/internal/app"
	"stagehand/internal/models"
	"stagehand/internal/reference"
)

type stubVenues map[string]models.Venue

func (s stubVenues) Get(_ context.Context, id string) (models.Venue, error) {
	v, ok := s[id]
	if !ok {
		return models.Venue{}, fmt.Errorf("%w: venue %q", app.ErrNotFound, id)
	}
	return v, nil
}

type stubRoster struct {
	members   []models.BandMember
	sessionID string
}

func (s *stubRoster) List(_ context.Context, sessionID string) ([]models.BandMember, error) {
	s.sessionID = sessionID
	return s.members, nil
}

func testTables() reference.Tables {
	var t reference.Tables
	t.ExpenseStandards.PerDiem.Regional = 25
	t.ExpenseStandards.PerDiem.National = 35
	t.ExpenseStandards.Hotel.Budget = 90
	t.ExpenseStandards.Hotel.Mid = 140
	t.ExpenseStandards.Hotel.Comfort = 220
	t.ExpenseStandards.Transport.GasPerMile = 0.25
	t.ExpenseStandards.Transport.VanRentalDaily = 110
	t.ExpenseStandards.Production.BacklineRental = 250
	t.ExpenseStandards.Production.MerchTableFee = 50
	t.MusicianRates = []models.MusicianRole{
		{Role: "Drummer", RateType: models.RatePerShow, RateMin: 150, RateMax: 400},
	}
	return t
}

func testVenues() stubVenues {
	return stubVenues{
		"club":  {ID: "club", City: "Nashville", State: "TN", Tier: models.TierClub, Capacity: 200, DoorSplitPercentage: 70, GuaranteeMin: 300, AvgTicketPrice: 15},
		"club2": {ID: "club2", City: "Memphis", State: "TN", Tier: models.TierClub, Capacity: 200, GuaranteeMin: 300, AvgTicketPrice: 15},
	}
}

func roster() []models.BandMember {
	return []models.BandMember{
		{Name: "Ren", Role: "Bandleader", IsCoreMember: true},
		{Name: "Kit", Role: "Drummer", IsCoreMember: true},
		{Name: "Jo", Role: "Session Guitarist", RatePerShow: 200},
	}
}

func TestBudgetUsesSessionRoster(t *testing.T) {
	r := &stubRoster{members: roster()}
	svc := New(testVenues(), r, testTables(), DefaultOptions())

	budget, err := svc.Budget(context.Background(), "session-1", BudgetRequest{
		Shows: []ShowRequest{{VenueID: "club", ExpectedAttendance: heads(150), TicketPrice: 20, DealStructure: models.DealDoorSplit}},
	})
	require.NoError(t, err)
	assert.Equal(t, "session-1", r.sessionID)

	require.Len(t, budget.Members, 3)
	assert.Equal(t, 2100.0, budget.TotalRevenue)
	assert.Equal(t, 125.0, budget.TotalExpenses)
	assert.Equal(t, 563.0, budget.TotalMusicianPay)
	assert.Equal(t, 1412.0, budget.NetProfit)
}

func TestBudgetExplicitMembersWin(t *testing.T) {
	r := &stubRoster{members: roster()}
	svc := New(testVenues(), r, testTables(), DefaultOptions())

	budget, err := svc.Budget(context.Background(), "session-1", BudgetRequest{
		Shows:   []ShowRequest{{VenueID: "club", ExpectedAttendance: heads(150), TicketPrice: 20, DealStructure: models.DealDoorSplit}},
		Members: []models.BandMember{},
	})
	require.NoError(t, err)
	assert.Empty(t, r.sessionID)
	assert.Empty(t, budget.Members)
	assert.Equal(t, 75.0, budget.TotalExpenses) // a solo act still eats
}

func TestBudgetZeroAttendanceIsNotDefaulted(t *testing.T) {
	svc := New(testVenues(), nil, testTables(), DefaultOptions())

	budget, err := svc.Budget(context.Background(), "", BudgetRequest{
		Shows: []ShowRequest{
			{VenueID: "club", ExpectedAttendance: heads(0), TicketPrice: 20, DealStructure: models.DealDoorSplit},
			{VenueID: "club", TicketPrice: 20, DealStructure: models.DealDoorSplit},
		},
	})
	require.NoError(t, err)
	require.Len(t, budget.Shows, 2)
	assert.Equal(t, 0, budget.Shows[0].ExpectedAttendance)
	assert.Equal(t, 0.0, budget.Shows[0].ProjectedRevenue)
	assert.Equal(t, 140, budget.Shows[1].ExpectedAttendance)
	assert.Equal(t, 1960.0, budget.Shows[1].ProjectedRevenue)
}

func TestBudgetStateDistance(t *testing.T) {
	svc := New(testVenues(), nil, testTables(), DefaultOptions())

	budget, err := svc.Budget(context.Background(), "", BudgetRequest{
		Shows:    []ShowRequest{{VenueID: "club"}, {VenueID: "club2"}},
		Distance: "state",
	})
	require.NoError(t, err)
	require.Len(t, budget.Shows, 2)
	assert.Equal(t, 150.0, budget.Shows[1].DistanceMiles)
}

func TestBudgetErrors(t *testing.T) {
	svc := New(testVenues(), nil, testTables(), DefaultOptions())

	tests := []struct {
		name    string
		req     BudgetRequest
		wantErr error
	}{
		{name: "unknown venue", req: BudgetRequest{Shows: []ShowRequest{{VenueID: "nowhere"}}}, wantErr: app.ErrNotFound},
		{name: "missing venue", req: BudgetRequest{Shows: []ShowRequest{{}}}, wantErr: app.ErrInvalidInput},
		{name: "bad deal", req: BudgetRequest{Shows: []ShowRequest{{VenueID: "club", DealStructure: "barter"}}}, wantErr: app.ErrInvalidInput},
		{name: "negative attendance", req: BudgetRequest{Shows: []ShowRequest{{VenueID: "club", ExpectedAttendance: heads(-1)}}}, wantErr: app.ErrInvalidInput},
		{name: "bad split", req: BudgetRequest{Shows: []ShowRequest{{VenueID: "club", DoorSplit: ptr(120)}}}, wantErr: app.ErrInvalidInput},
		{name: "bad distance", req: BudgetRequest{Distance: "teleport"}, wantErr: app.ErrInvalidInput},
		{name: "negative member rate", req: BudgetRequest{Members: []models.BandMember{{Name: "X", RatePerShow: -5}}}, wantErr: app.ErrInvalidInput},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Budget(context.Background(), "", tc.req)
			require.ErrorIs(t, err, tc.wantErr)
		})
	}
}

func TestBudgetEmptyTour(t *testing.T) {
	svc := New(testVenues(), nil, testTables(), DefaultOptions())
	budget, err := svc.Budget(context.Background(), "", BudgetRequest{})
	require.NoError(t, err)
	assert.Zero(t, budget.NetProfit)
	assert.Zero(t, budget.ProfitMargin)
}

func TestPayRecommendation(t *testing.T) {
	svc := New(testVenues(), nil, testTables(), DefaultOptions())
	members := []models.BandMember{
		{Name: "Ren", Role: "Bandleader", IsCoreMember: true},
		{Name: "Kit", Role: "Drummer", IsCoreMember: true},
	}

	out, err := svc.PayRecommendation(context.Background(), PayRequest{Members: members, TotalRevenue: 10000, TotalExpenses: 2000})
	require.NoError(t, err)
	assert.Equal(t, 2400.0, out[0].TotalPay)
	assert.Equal(t, 5600.0, out[1].TotalPay)
	assert.Zero(t, members[0].TotalPay, "input must not be modified")

	out, err = svc.PayRecommendation(context.Background(), PayRequest{Members: members, TotalRevenue: 10000, TotalExpenses: 2000, LeaderPct: ptr(50)})
	require.NoError(t, err)
	assert.Equal(t, 4000.0, out[0].TotalPay)

	_, err = svc.PayRecommendation(context.Background(), PayRequest{Members: members, LeaderPct: ptr(101)})
	require.ErrorIs(t, err, app.ErrInvalidInput)
}

func TestMusicianRate(t *testing.T) {
	svc := New(testVenues(), nil, testTables(), DefaultOptions())

	rate, err := svc.MusicianRate(context.Background(), RateQuery{Tier: models.TierClub, TourLength: 1, Role: "drummer", IsCoreMember: true})
	require.NoError(t, err)
	assert.Equal(t, 213.0, rate)

	_, err = svc.MusicianRate(context.Background(), RateQuery{Tier: "stadium"})
	require.ErrorIs(t, err, app.ErrInvalidInput)
}

func ptr(v float64) *float64 { return &v }

func heads(n int) *int { return &n }
