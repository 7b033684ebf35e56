package talentmatch

import (
	"math"
	"sort"
	"strings"

	"stagehand/internal/models"
)

// DefaultLimit is the number of candidates returned per need.
const DefaultLimit = 5

const (
	genreWeight         = 0.5
	ratingWeight        = 0.3
	affordabilityWeight = 0.2
	// neutralAffordability is used when the budget gives no ceiling.
	neutralAffordability = 0.5
)

// Options tunes Recommend.
type Options struct {
	Limit int
	// StrictCeiling drops the fallback to every role match when the budget
	// ceiling filters everyone out.
	StrictCeiling bool
}

// Recommend ranks directory talent for each need. Candidates must list the
// role and, when the budget yields a ceiling, have a best rate at or below it.
// Unless opts.StrictCeiling is set, a need whose ceiling excludes everyone falls
// back to all role matches so the list is never empty while anyone has the role.
func Recommend(directory []models.TalentProfile, needs []models.TalentNeed, artist models.ArtistProfile, items []models.BudgetItem, units int, opts Options) []models.TalentRecommendation {
	limit := opts.Limit
	if limit <= 0 {
		limit = DefaultLimit
	}
	genres := artist.GenreList()

	out := make([]models.TalentRecommendation, 0, len(needs))
	for _, need := range needs {
		rec := models.TalentRecommendation{Need: need, Candidates: []models.TalentCandidate{}}

		var role []models.TalentProfile
		for _, p := range directory {
			if p.HasRole(need.Role) {
				role = append(role, p)
			}
		}

		ceiling, hasCeiling := CeilingFor(need.Role, items, units)
		pool := role
		if hasCeiling {
			c := ceiling
			rec.Ceiling = &c

			var affordable []models.TalentProfile
			for _, p := range role {
				if p.BestRate() <= ceiling {
					affordable = append(affordable, p)
				}
			}
			pool = affordable
			if len(affordable) == 0 && len(role) > 0 && !opts.StrictCeiling {
				pool = role
				rec.Fallback = true
			}
		}

		candidates := make([]models.TalentCandidate, 0, len(pool))
		for _, p := range pool {
			candidates = append(candidates, score(p, genres, ceiling, hasCeiling))
		}
		sort.SliceStable(candidates, func(i, j int) bool {
			return candidates[i].Score > candidates[j].Score
		})
		if len(candidates) > limit {
			candidates = candidates[:limit]
		}
		rec.Candidates = candidates

		out = append(out, rec)
	}
	return out
}

func score(p models.TalentProfile, artistGenres []string, ceiling float64, hasCeiling bool) models.TalentCandidate {
	rate := p.BestRate()

	affordability := neutralAffordability
	if hasCeiling {
		affordability = math.Max(0, math.Min(1, (ceiling-rate)/ceiling))
	}

	rating := 0.0
	if p.Rating != nil {
		rating = math.Max(0, math.Min(5, *p.Rating))
	}

	match := genresOverlap(p.Genres, artistGenres)
	genre := 0.0
	if match {
		genre = 1
	}

	return models.TalentCandidate{
		Profile:       p,
		Score:         genreWeight*genre + ratingWeight*(rating/5) + affordabilityWeight*affordability,
		GenreMatch:    match,
		Rate:          rate,
		Affordability: affordability,
	}
}

func genresOverlap(talent, artist []string) bool {
	for _, a := range artist {
		a = strings.ToLower(strings.TrimSpace(a))
		if a == "" {
			continue
		}
		for _, t := range talent {
			t = strings.ToLower(strings.TrimSpace(t))
			if t == "" {
				continue
			}
			if strings.Contains(t, a) || strings.Contains(a, t) {
				return true
			}
		}
	}
	return false
}
