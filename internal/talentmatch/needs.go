// Package talentmatch derives the roles a release needs and ranks directory
// talent against them.
package talentmatch

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"unicode"

	"stagehand/internal/models"
)

// roleKeywords ties a role to the budget categories that pay for it. A keyword
// of three or more letters matches any word it prefixes; shorter keywords must
// match a whole word.
var roleKeywords = map[models.TalentRole][]string{
	models.RoleSongwriter:        {"songwrit", "cowrit", "writing"},
	models.RoleProducer:          {"producer", "producing"},
	models.RoleMixer:             {"mix"},
	models.RoleMasteringEngineer: {"master"},
	models.RoleSessionDrummer:    {"drum"},
	models.RoleSessionGuitarist:  {"guitar"},
	models.RoleVocalProducer:     {"vocal"},
	models.RoleLiveMD:            {"rehearsal", "md", "musical"},
	models.RoleVideographer:      {"video"},
	models.RoleGraphicDesigner:   {"artwork", "design", "graphic"},
	models.RolePhotographer:      {"photo"},
	models.RolePublicist:         {"pr", "public"},
}

// budgetDrivenRoles are added when the budget carries a matching category.
var budgetDrivenRoles = []struct {
	role      models.TalentRole
	when      models.Phase
	rationale string
}{
	{models.RoleVideographer, models.PhaseProduction, "Budget includes video production"},
	{models.RoleGraphicDesigner, models.PhaseRelease, "Budget includes artwork or design"},
	{models.RolePhotographer, models.PhaseRelease, "Budget includes photography"},
	{models.RolePublicist, models.PhasePromotion, "Budget includes PR or publicity"},
}

// InferNeeds lists the roles the project needs, one entry per role, ordered by
// phase. Rules are fixed; the result depends only on the inputs.
func InferNeeds(artist models.ArtistProfile, project models.ProjectConfig, items []models.BudgetItem) []models.TalentNeed {
	units := project.Units
	if units < 1 {
		units = 1
	}

	needs := []models.TalentNeed{
		{
			Role:      models.RoleSongwriter,
			Count:     int(math.Ceil(float64(units) / 3)),
			When:      models.PhaseDiscovery,
			Rationale: fmt.Sprintf("Co-writes to develop %d song(s)", units),
		},
		{
			Role:      models.RoleProducer,
			Count:     1,
			When:      models.PhasePreProduction,
			Rationale: "Arrangement and pre-production direction",
		},
		{
			Role:      models.RoleMixer,
			Count:     units,
			When:      models.PhasePostProduction,
			Rationale: "One mix per song",
		},
		{
			Role:      models.RoleMasteringEngineer,
			Count:     units,
			When:      models.PhasePostProduction,
			Rationale: "One master per song",
		},
	}

	genres := strings.ToLower(artist.Genres)
	if strings.Contains(genres, "rock") {
		needs = append(needs,
			models.TalentNeed{Role: models.RoleSessionDrummer, Count: 1, When: models.PhaseProduction, Rationale: "Live drums for a rock record"},
			models.TalentNeed{Role: models.RoleSessionGuitarist, Count: 1, When: models.PhaseProduction, Rationale: "Guitar overdubs for a rock record"},
		)
	}
	if strings.Contains(genres, "pop") || strings.Contains(genres, "r&b") {
		needs = append(needs, models.TalentNeed{Role: models.RoleVocalProducer, Count: 1, When: models.PhaseProduction, Rationale: "Vocal production for pop/R&B"})
	}

	for _, market := range project.TargetMarkets {
		if strings.EqualFold(strings.TrimSpace(market), "live") {
			needs = append(needs, models.TalentNeed{Role: models.RoleLiveMD, Count: 1, When: models.PhasePromotion, Rationale: "Live show preparation for release shows"})
			break
		}
	}

	for _, rule := range budgetDrivenRoles {
		for _, item := range items {
			if categoryMatches(rule.role, item.Category) {
				needs = append(needs, models.TalentNeed{Role: rule.role, Count: 1, When: rule.when, Rationale: rule.rationale})
				break
			}
		}
	}

	return orderNeeds(needs)
}

// orderNeeds keeps the first need per role and sorts by phase, stable.
func orderNeeds(needs []models.TalentNeed) []models.TalentNeed {
	seen := make(map[models.TalentRole]bool, len(needs))
	out := make([]models.TalentNeed, 0, len(needs))
	for _, n := range needs {
		if seen[n.Role] {
			continue
		}
		seen[n.Role] = true
		out = append(out, n)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return models.PhaseIndex(out[i].When) < models.PhaseIndex(out[j].When)
	})
	return out
}

// CeilingFor derives a max-per-song rate for role from the budget lines that pay
// for it. ok is false when no line matches or the lines total nothing.
func CeilingFor(role models.TalentRole, items []models.BudgetItem, units int) (ceiling float64, ok bool) {
	if units < 1 {
		units = 1
	}
	total := 0.0
	matched := false
	for _, item := range items {
		if categoryMatches(role, item.Category) {
			matched = true
			total += item.Total()
		}
	}
	if !matched || total <= 0 {
		return 0, false
	}
	return total / float64(units), true
}

func categoryMatches(role models.TalentRole, category string) bool {
	keywords := roleKeywords[role]
	if len(keywords) == 0 {
		return false
	}
	words := strings.FieldsFunc(strings.ToLower(category), func(r rune) bool {
		return !unicode.IsLetter(r)
	})
	for _, word := range words {
		for _, kw := range keywords {
			if word == kw || (len(kw) >= 3 && strings.HasPrefix(word, kw)) {
				return true
			}
		}
	}
	return false
}
