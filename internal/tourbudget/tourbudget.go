// Package tourbudget projects a tour P&L from selected venues and a band roster.
package tourbudget

import (
	"fmt"
	"math"

	"stagehand/internal/models"
)

const (
	// DefaultFillRate estimates attendance when the caller omits it.
	DefaultFillRate = 0.7
	// DefaultGuaranteePlusSplit is the door percentage used by guarantee-plus deals without one.
	DefaultGuaranteePlusSplit = 85
)

// ShowInput is one selected venue with the caller's per-show assumptions.
// A nil ExpectedAttendance means DefaultFillRate of capacity; an explicit 0 is
// an empty room.
type ShowInput struct {
	Venue              models.Venue
	ExpectedAttendance *int
	TicketPrice        float64
	DealStructure      models.DealStructure
	Guarantee          *float64
	DoorSplit          *float64
}

// Generator builds tour budgets from the expense standards and rate bands.
type Generator struct {
	Standards models.TourExpenseStandards
	Rates     []models.MusicianRole
	Distance  DistanceEstimator
}

// NewGenerator returns a Generator using the fixed 250 mile leg estimate.
func NewGenerator(standards models.TourExpenseStandards, rates []models.MusicianRole) *Generator {
	return &Generator{
		Standards: standards,
		Rates:     rates,
		Distance:  FixedDistance(DefaultLegMiles),
	}
}

// Generate projects every show in order and aggregates the tour. It never fails:
// missing inputs fall back to venue defaults and no shows yield a zeroed budget.
func (g *Generator) Generate(inputs []ShowInput, members []models.BandMember) models.TourBudget {
	bandSize := len(members)
	if bandSize < 1 {
		bandSize = 1
	}

	shows := make([]models.TourShow, 0, len(inputs))
	for i, in := range inputs {
		miles := 0.0
		if i > 0 {
			miles = math.Max(0, g.distance().Miles(inputs[i-1].Venue, in.Venue))
		}
		shows = append(shows, g.buildShow(in, i, miles, bandSize))
	}

	return Aggregate(shows, ApplyMemberPay(g.Rates, members, shows))
}

// MusicianPay estimates a per-show fee using the generator's rate table.
func (g *Generator) MusicianPay(tier models.Tier, tourLength int, role string, isCoreMember bool) float64 {
	return MusicianPay(g.Rates, tier, tourLength, role, isCoreMember)
}

func (g *Generator) distance() DistanceEstimator {
	if g.Distance == nil {
		return FixedDistance(DefaultLegMiles)
	}
	return g.Distance
}

func (g *Generator) buildShow(in ShowInput, index int, miles float64, bandSize int) models.TourShow {
	venue := in.Venue

	var attendance int
	if in.ExpectedAttendance != nil {
		attendance = max(0, *in.ExpectedAttendance)
	} else {
		attendance = int(math.Round(float64(venue.Capacity) * DefaultFillRate))
	}

	price := in.TicketPrice
	if price <= 0 {
		price = venue.AvgTicketPrice
	}
	price = math.Max(0, price)

	deal := in.DealStructure
	if deal == "" {
		deal = models.DealGuaranteePlus
	}

	show := models.TourShow{
		VenueID:            venue.ID,
		VenueName:          venue.Name,
		VenueTier:          venue.Tier,
		ExpectedAttendance: attendance,
		TicketPrice:        price,
		DealStructure:      deal,
		Guarantee:          in.Guarantee,
		DoorSplit:          in.DoorSplit,
		DistanceMiles:      miles,
	}

	show.ProjectedRevenue = roundCents(revenue(in, venue, deal, attendance, price))
	show.Expenses = g.expenses(venue, index > 0, miles, bandSize)
	for _, e := range show.Expenses {
		show.TotalExpenses += e.Amount
	}
	show.TotalExpenses = roundCents(show.TotalExpenses)
	show.NetProfit = show.ProjectedRevenue - show.TotalExpenses

	return show
}

func revenue(in ShowInput, venue models.Venue, deal models.DealStructure, attendance int, price float64) float64 {
	guarantee := venue.GuaranteeMin
	if in.Guarantee != nil {
		guarantee = *in.Guarantee
	}
	guarantee = math.Max(0, guarantee)

	gross := float64(attendance) * price

	switch deal {
	case models.DealGuarantee, models.DealFlatFee:
		return guarantee
	case models.DealDoorSplit:
		split := venue.DoorSplitPercentage
		if in.DoorSplit != nil {
			split = *in.DoorSplit
		}
		return gross * clampPct(split) / 100
	case models.DealGuaranteePlus:
		split := float64(DefaultGuaranteePlusSplit)
		if in.DoorSplit != nil {
			split = *in.DoorSplit
		}
		return math.Max(guarantee, gross*clampPct(split)/100)
	default:
		return 0
	}
}

// expenses generates the show's costs. Every show after the first is a travel
// day that needs a hotel.
func (g *Generator) expenses(venue models.Venue, requiresHotel bool, miles float64, bandSize int) []models.TourExpense {
	s := g.Standards
	var out []models.TourExpense

	if miles > 0 {
		out = append(out,
			models.TourExpense{
				Category:    models.ExpenseTransport,
				Description: fmt.Sprintf("Gas (%.0f mi)", miles),
				Amount:      roundCents(miles * s.Transport.GasPerMile),
			},
			models.TourExpense{
				Category:    models.ExpenseTransport,
				Description: "Van rental",
				Amount:      roundCents(s.Transport.VanRentalDaily),
			},
		)
	}

	if requiresHotel {
		rooms := int(math.Ceil(float64(bandSize) / 2))
		rate, label := s.Hotel.Budget, "budget"
		switch venue.Tier {
		case models.TierArena, models.TierTheater:
			rate, label = s.Hotel.Comfort, "comfort"
		case models.TierMidSize:
			rate, label = s.Hotel.Mid, "mid"
		}
		out = append(out, models.TourExpense{
			Category:    models.ExpenseLodging,
			Description: fmt.Sprintf("Hotel, %d %s rooms", rooms, label),
			Amount:      roundCents(float64(rooms) * rate),
		})
	}

	perDiem, label := s.PerDiem.Regional, "regional"
	if requiresHotel {
		perDiem, label = s.PerDiem.National, "national"
	}
	out = append(out, models.TourExpense{
		Category:    models.ExpensePerDiem,
		Description: fmt.Sprintf("Per diem (%s) x %d", label, bandSize),
		Amount:      roundCents(perDiem * float64(bandSize)),
	})

	switch venue.Tier {
	case models.TierMidSize, models.TierTheater, models.TierArena:
		out = append(out, models.TourExpense{
			Category:    models.ExpenseProduction,
			Description: "Backline rental",
			Amount:      roundCents(s.Production.BacklineRental),
		})
	}

	out = append(out, models.TourExpense{
		Category:    models.ExpenseMerch,
		Description: "Merch table fee",
		Amount:      roundCents(s.Production.MerchTableFee),
	})

	for i := range out {
		out[i].Amount = math.Max(0, out[i].Amount)
	}
	return out
}

// Aggregate totals shows and member pay into the tour P&L.
// NetProfit is always TotalRevenue - TotalExpenses - TotalMusicianPay.
func Aggregate(shows []models.TourShow, members []models.BandMember) models.TourBudget {
	budget := models.TourBudget{
		Shows:              shows,
		Members:            members,
		ExpensesByCategory: make(map[models.ExpenseCategory]float64),
	}
	if budget.Shows == nil {
		budget.Shows = []models.TourShow{}
	}
	if budget.Members == nil {
		budget.Members = []models.BandMember{}
	}

	for _, show := range shows {
		budget.TotalRevenue += show.ProjectedRevenue
		budget.TotalExpenses += show.TotalExpenses
		for _, e := range show.Expenses {
			budget.ExpensesByCategory[e.Category] = roundCents(budget.ExpensesByCategory[e.Category] + e.Amount)
		}
	}
	for _, m := range members {
		budget.TotalMusicianPay += m.TotalPay
	}

	budget.TotalRevenue = roundCents(budget.TotalRevenue)
	budget.TotalExpenses = roundCents(budget.TotalExpenses)
	budget.TotalMusicianPay = roundCents(budget.TotalMusicianPay)
	budget.NetProfit = budget.TotalRevenue - budget.TotalExpenses - budget.TotalMusicianPay
	if budget.TotalRevenue != 0 {
		budget.ProfitMargin = budget.NetProfit / budget.TotalRevenue * 100
	}

	return budget
}

func clampPct(v float64) float64 {
	return math.Max(0, math.Min(100, v))
}

func roundCents(v float64) float64 {
	return math.Round(v*100) / 100
}
