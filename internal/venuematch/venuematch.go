// Package venuematch ranks directory venues against an artist's stage, draw and genres.
package venuematch

import (
	"fmt"
	"sort"
	"strings"

	"stagehand/internal/models"
)

// Criteria describes the artist being matched.
type Criteria struct {
	Stage           models.Stage `json:"stage"`
	EstimatedDraw   int          `json:"estimatedDraw"`
	PreferredGenres []string     `json:"preferredGenres"`
	TargetCities    []string     `json:"targetCities,omitempty"`
}

// FillBand awards Bonus when Low <= fill rate <= High (or Low < fill when LowExclusive).
type FillBand struct {
	Low          float64
	High         float64
	LowExclusive bool
	Bonus        float64
}

// Rules is the injected matching policy.
type Rules struct {
	StageTiers    map[models.Stage][]models.Tier
	MinFill       float64
	MaxFill       float64
	GenreBonus    float64
	FillBands     []FillBand
	GrowthDivisor float64
	GrowthWeight  float64
}

// DefaultRules returns the standard stage-to-tier table and scoring weights.
func DefaultRules() Rules {
	return Rules{
		StageTiers: map[models.Stage][]models.Tier{
			models.StageEmerging:    {models.TierDiveBar, models.TierClub},
			models.StageDeveloping:  {models.TierClub, models.TierMidSize},
			models.StageEstablished: {models.TierMidSize, models.TierTheater, models.TierFestival},
			models.StageBreakout:    {models.TierTheater, models.TierArena, models.TierFestival},
		},
		MinFill:    0.5,
		MaxFill:    1.2,
		GenreBonus: 10,
		FillBands: []FillBand{
			{Low: 0.8, High: 1.0, Bonus: 15},
			{Low: 0.6, High: 0.8, Bonus: 10},
			{Low: 1.0, High: 1.2, LowExclusive: true, Bonus: 5},
		},
		GrowthDivisor: 10000,
		GrowthWeight:  5,
	}
}

// Recommendation is a scored venue.
type Recommendation struct {
	Venue      models.Venue `json:"venue"`
	Score      float64      `json:"score"`
	FillRate   float64      `json:"fillRate"`
	GenreMatch bool         `json:"genreMatch"`
	Reasons    []string     `json:"reasons"`
}

// AllowedTiers returns the tiers open to a stage under rules.
func (r Rules) AllowedTiers(stage models.Stage) []models.Tier {
	return r.StageTiers[stage]
}

// Match filters and ranks venues. Ties keep directory order. An empty result is
// a valid answer when nothing fits the draw window.
func Match(venues []models.Venue, criteria Criteria, rules Rules) []Recommendation {
	allowed := make(map[models.Tier]bool)
	for _, tier := range rules.AllowedTiers(criteria.Stage) {
		allowed[tier] = true
	}

	cities := make(map[string]bool, len(criteria.TargetCities))
	for _, c := range criteria.TargetCities {
		if trimmed := strings.TrimSpace(c); trimmed != "" {
			cities[strings.ToLower(trimmed)] = true
		}
	}

	recs := make([]Recommendation, 0)
	for _, venue := range venues {
		if !allowed[venue.Tier] || venue.Capacity <= 0 {
			continue
		}

		draw := float64(criteria.EstimatedDraw)
		capacity := float64(venue.Capacity)
		if draw < rules.MinFill*capacity || draw > rules.MaxFill*capacity {
			continue
		}

		if len(cities) > 0 && !cities[strings.ToLower(strings.TrimSpace(venue.City))] {
			continue
		}

		recs = append(recs, score(venue, criteria, rules))
	}

	sort.SliceStable(recs, func(i, j int) bool {
		return recs[i].Score > recs[j].Score
	})

	return recs
}

func score(venue models.Venue, criteria Criteria, rules Rules) Recommendation {
	rec := Recommendation{Venue: venue}

	if genreMatches(criteria.PreferredGenres, venue.Genres) {
		rec.GenreMatch = true
		rec.Score += rules.GenreBonus
		rec.Reasons = append(rec.Reasons, "books your genre")
	}

	rec.FillRate = float64(criteria.EstimatedDraw) / float64(venue.Capacity)
	for _, band := range rules.FillBands {
		if inBand(rec.FillRate, band) {
			rec.Score += band.Bonus
			rec.Reasons = append(rec.Reasons, fmt.Sprintf("expected %.0f%% full", rec.FillRate*100))
			break
		}
	}

	if rules.GrowthDivisor > 0 {
		rec.Score += float64(venue.Capacity) / rules.GrowthDivisor * rules.GrowthWeight
	}

	return rec
}

func inBand(fill float64, band FillBand) bool {
	if band.LowExclusive {
		return fill > band.Low && fill <= band.High
	}
	return fill >= band.Low && fill <= band.High
}

// genreMatches is a case-insensitive substring match in either direction.
func genreMatches(preferred, venueGenres []string) bool {
	for _, p := range preferred {
		p = strings.ToLower(strings.TrimSpace(p))
		if p == "" {
			continue
		}
		for _, g := range venueGenres {
			g = strings.ToLower(strings.TrimSpace(g))
			if g == "" {
				continue
			}
			if strings.Contains(g, p) || strings.Contains(p, g) {
				return true
			}
		}
	}
	return false
}
