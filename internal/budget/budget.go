// Package budget summarizes a production and release budget by phase.
package budget

import (
	"math"

	"stagehand/internal/models"
)

// PhaseTotal is the spend planned for one phase.
type PhaseTotal struct {
	Phase    models.Phase `json:"phase"`
	Total    float64      `json:"total"`
	Required float64      `json:"required"`
	Optional float64      `json:"optional"`
	Items    int          `json:"items"`
}

// Summary is the budget rolled up for display.
type Summary struct {
	Phases        []PhaseTotal `json:"phases"`
	Total         float64      `json:"total"`
	RequiredTotal float64      `json:"requiredTotal"`
	OptionalTotal float64      `json:"optionalTotal"`
	GrantOffset   float64      `json:"grantOffset"`
	OutOfPocket   float64      `json:"outOfPocket"`
	CostPerUnit   float64      `json:"costPerUnit"`
}

// Summarize totals items per phase in PhaseOrder. Phases nobody budgeted for
// are omitted; unknown phases follow the known ones in order of appearance.
// A grant offsets spend up to the total, never below zero out of pocket.
func Summarize(project models.ProjectConfig, items []models.BudgetItem) Summary {
	byPhase := make(map[models.Phase]*PhaseTotal)
	var unknown []models.Phase

	var s Summary
	for _, item := range items {
		pt, ok := byPhase[item.Phase]
		if !ok {
			pt = &PhaseTotal{Phase: item.Phase}
			byPhase[item.Phase] = pt
			if models.PhaseIndex(item.Phase) == len(models.PhaseOrder) {
				unknown = append(unknown, item.Phase)
			}
		}

		amount := item.Total()
		pt.Total += amount
		pt.Items++
		if item.Required {
			pt.Required += amount
			s.RequiredTotal += amount
		} else {
			pt.Optional += amount
			s.OptionalTotal += amount
		}
		s.Total += amount
	}

	s.Phases = make([]PhaseTotal, 0, len(byPhase))
	for _, phase := range append(append([]models.Phase{}, models.PhaseOrder...), unknown...) {
		pt, ok := byPhase[phase]
		if !ok {
			continue
		}
		pt.Total = roundCents(pt.Total)
		pt.Required = roundCents(pt.Required)
		pt.Optional = roundCents(pt.Optional)
		s.Phases = append(s.Phases, *pt)
	}

	s.Total = roundCents(s.Total)
	s.RequiredTotal = roundCents(s.RequiredTotal)
	s.OptionalTotal = roundCents(s.OptionalTotal)

	if project.HasGrant {
		s.GrantOffset = roundCents(math.Min(math.Max(0, project.GrantAmount), s.Total))
	}
	s.OutOfPocket = roundCents(s.Total - s.GrantOffset)

	units := project.Units
	if units < 1 {
		units = 1
	}
	s.CostPerUnit = roundCents(s.Total / float64(units))

	return s
}

func roundCents(v float64) float64 {
	return math.Round(v*100) / 100
}
