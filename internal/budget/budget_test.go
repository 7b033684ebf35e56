package budget

import (
	"testing"

	"stagehand/internal/models"
)

func TestSummarize(t *testing.T) {
	items := []models.BudgetItem{
		{Category: "PR Campaign", Qty: 1, UnitCost: 1500, Phase: models.PhasePromotion},
		{Category: "Mixing", Qty: 4, UnitCost: 250, Phase: models.PhasePostProduction, Required: true},
		{Category: "Studio days", Qty: 3, UnitCost: 600, Phase: models.PhaseProduction, Required: true},
		{Category: "Mastering", Qty: 4, UnitCost: 100, Phase: models.PhasePostProduction, Required: true},
		{Category: "Merch", Qty: 1, UnitCost: 200, Phase: "Tour"},
		{Category: "Refund", Qty: 1, UnitCost: -500, Phase: models.PhaseProduction},
	}

	tests := []struct {
		name        string
		project     models.ProjectConfig
		wantGrant   float64
		wantPocket  float64
		wantPerUnit float64
	}{
		{name: "no grant", project: models.ProjectConfig{Units: 4}, wantGrant: 0, wantPocket: 4900, wantPerUnit: 1225},
		{name: "partial grant", project: models.ProjectConfig{Units: 4, HasGrant: true, GrantAmount: 1000}, wantGrant: 1000, wantPocket: 3900, wantPerUnit: 1225},
		{name: "grant exceeds spend", project: models.ProjectConfig{Units: 4, HasGrant: true, GrantAmount: 10000}, wantGrant: 4900, wantPocket: 0, wantPerUnit: 1225},
		{name: "grant amount without flag", project: models.ProjectConfig{GrantAmount: 1000}, wantGrant: 0, wantPocket: 4900, wantPerUnit: 4900},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			s := Summarize(tc.project, items)

			if s.Total != 4900 {
				t.Fatalf("Total = %v, want 4900", s.Total)
			}
			if s.RequiredTotal != 3200 || s.OptionalTotal != 1700 {
				t.Fatalf("required/optional = %v/%v, want 3200/1700", s.RequiredTotal, s.OptionalTotal)
			}
			if s.GrantOffset != tc.wantGrant {
				t.Fatalf("GrantOffset = %v, want %v", s.GrantOffset, tc.wantGrant)
			}
			if s.OutOfPocket != tc.wantPocket {
				t.Fatalf("OutOfPocket = %v, want %v", s.OutOfPocket, tc.wantPocket)
			}
			if s.CostPerUnit != tc.wantPerUnit {
				t.Fatalf("CostPerUnit = %v, want %v", s.CostPerUnit, tc.wantPerUnit)
			}

			want := []models.Phase{models.PhaseProduction, models.PhasePostProduction, models.PhasePromotion, "Tour"}
			if len(s.Phases) != len(want) {
				t.Fatalf("got %d phases, want %d", len(s.Phases), len(want))
			}
			for i, phase := range want {
				if s.Phases[i].Phase != phase {
					t.Fatalf("phase %d = %s, want %s", i, s.Phases[i].Phase, phase)
				}
			}
			if s.Phases[1].Total != 1400 || s.Phases[1].Items != 2 {
				t.Fatalf("post-production = %+v", s.Phases[1])
			}
		})
	}
}

func TestSummarizeEmpty(t *testing.T) {
	s := Summarize(models.ProjectConfig{HasGrant: true, GrantAmount: 500}, nil)
	if s.Phases == nil || len(s.Phases) != 0 {
		t.Fatalf("Phases = %#v, want empty slice", s.Phases)
	}
	if s.Total != 0 || s.GrantOffset != 0 || s.OutOfPocket != 0 || s.CostPerUnit != 0 {
		t.Fatalf("unexpected non-zero summary %+v", s)
	}
}
