package tourbudget

import (
	"math"
	"strings"

	"stagehand/internal/models"
)

// FallbackRate is the per-show base for roles missing from the rate table.
const FallbackRate = 150

const (
	lowestMultiplier  = 0.5
	highestMultiplier = 1.3
	nonCorePremium    = 1.10
)

var tierMultipliers = map[models.Tier]float64{
	models.TierDiveBar:  0.5,
	models.TierClub:     0.7,
	models.TierMidSize:  0.9,
	models.TierTheater:  1.1,
	models.TierArena:    1.3,
	models.TierFestival: 0.9,
}

// TierMultiplier returns the pay multiplier for a tier. Unknown tiers sit mid-band.
func TierMultiplier(tier models.Tier) float64 {
	if m, ok := tierMultipliers[tier]; ok {
		return m
	}
	return 0.9
}

// MusicianPay estimates a per-show fee for role at tier.
//
// The role's band is found by case-insensitive substring match. The tier
// multiplier picks a point inside [RateMin, RateMax]; dive bars pay the bottom
// of the band and arenas the top. Long tours earn a small discount and hired
// (non-core) players a 10% premium.
func MusicianPay(rates []models.MusicianRole, tier models.Tier, tourLength int, role string, isCoreMember bool) float64 {
	base := float64(FallbackRate)
	if band, ok := findBand(rates, role); ok {
		position := (TierMultiplier(tier) - lowestMultiplier) / (highestMultiplier - lowestMultiplier)
		// Rounded so 0.7 - 0.5 lands exactly on a quarter.
		position = math.Round(math.Max(0, math.Min(1, position))*1e6) / 1e6
		base = perShow(band.RateMin, band.RateType) + (perShow(band.RateMax, band.RateType)-perShow(band.RateMin, band.RateType))*position
	}

	switch {
	case tourLength >= 20:
		base *= 0.95
	case tourLength >= 10:
		base *= 0.98
	}

	if !isCoreMember {
		base *= nonCorePremium
	}

	if base < 0 {
		return 0
	}
	return math.Round(base)
}

func findBand(rates []models.MusicianRole, role string) (models.MusicianRole, bool) {
	needle := strings.ToLower(strings.TrimSpace(role))
	if needle == "" {
		return models.MusicianRole{}, false
	}
	for _, band := range rates {
		name := strings.ToLower(strings.TrimSpace(band.Role))
		if name == "" {
			continue
		}
		if strings.Contains(needle, name) || strings.Contains(name, needle) {
			return band, true
		}
	}
	return models.MusicianRole{}, false
}

// perShow normalizes weekly and monthly quotes to a single show (5 and 20 shows).
func perShow(amount float64, rateType models.RateType) float64 {
	switch rateType {
	case models.RateWeekly:
		return amount / 5
	case models.RateMonthly:
		return amount / 20
	default:
		return amount
	}
}

// ApplyMemberPay recomputes show counts and pay for every member against the
// shows. A member's own RatePerShow wins over the market estimate.
func ApplyMemberPay(rates []models.MusicianRole, members []models.BandMember, shows []models.TourShow) []models.BandMember {
	out := make([]models.BandMember, len(members))
	for i, m := range members {
		m.TotalShows = len(shows)
		m.TotalPay = 0
		for _, show := range shows {
			if m.RatePerShow > 0 {
				m.TotalPay += m.RatePerShow
				continue
			}
			m.TotalPay += MusicianPay(rates, show.VenueTier, len(shows), m.Role, m.IsCoreMember)
		}
		m.TotalPay = roundCents(m.TotalPay)
		out[i] = m
	}
	return out
}

// RecommendBandPay profit-shares the tour among core members.
//
// The leader takes leaderPct of the positive operating profit. Hired players
// keep rate × shows. What is left is split equally among the other core
// members. The result depends only on the inputs, so repeated calls agree.
func RecommendBandPay(members []models.BandMember, totalRevenue, totalExpenses, leaderPct float64) []models.BandMember {
	out := make([]models.BandMember, len(members))
	copy(out, members)

	pool := math.Max(0, totalRevenue-totalExpenses)
	leaderPct = math.Max(0, math.Min(100, leaderPct))
	leader := findLeader(out)

	hired := 0.0
	var others []int
	for i := range out {
		switch {
		case !out[i].IsCoreMember:
			if out[i].RatePerShow > 0 {
				out[i].TotalPay = roundCents(out[i].RatePerShow * float64(out[i].TotalShows))
			}
			hired += out[i].TotalPay
		case i != leader:
			others = append(others, i)
		}
	}

	leaderPay := 0.0
	if leader >= 0 {
		leaderPay = roundCents(pool * leaderPct / 100)
		out[leader].TotalPay = leaderPay
	}

	remaining := math.Max(0, pool-leaderPay-hired)
	if len(others) > 0 {
		share := roundCents(remaining / float64(len(others)))
		for _, i := range others {
			out[i].TotalPay = share
		}
	}

	return out
}

// findLeader returns the first core member whose role mentions "leader", else
// the first core member, else -1.
func findLeader(members []models.BandMember) int {
	first := -1
	for i, m := range members {
		if !m.IsCoreMember {
			continue
		}
		if strings.Contains(strings.ToLower(m.Role), "leader") {
			return i
		}
		if first < 0 {
			first = i
		}
	}
	return first
}
