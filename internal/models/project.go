package models

// Phase is a production/release project phase
type Phase string

const (
	PhaseDiscovery      Phase = "Discovery"
	PhasePreProduction  Phase = "Pre-Production"
	PhaseProduction     Phase = "Production"
	PhasePostProduction Phase = "Post-Production"
	PhaseRelease        Phase = "Release"
	PhasePromotion      Phase = "Promotion"
)

// PhaseOrder is the canonical order of project phases
var PhaseOrder = []Phase{
	PhaseDiscovery,
	PhasePreProduction,
	PhaseProduction,
	PhasePostProduction,
	PhaseRelease,
	PhasePromotion,
}

// PhaseIndex returns the position of p in PhaseOrder, or len(PhaseOrder) when unknown.
func PhaseIndex(p Phase) int {
	for i, known := range PhaseOrder {
		if known == p {
			return i
		}
	}
	return len(PhaseOrder)
}

// ProjectConfig describes the release being planned
type ProjectConfig struct {
	ProjectType   string   `json:"projectType" yaml:"projectType"` // single, EP, album
	Units         int      `json:"units" yaml:"units"`             // songs in the project
	StartWeeks    int      `json:"startWeeks" yaml:"startWeeks"`
	TargetWeeks   int      `json:"targetWeeks" yaml:"targetWeeks"`
	HasGrant      bool     `json:"hasGrant" yaml:"hasGrant"`
	GrantAmount   float64  `json:"grantAmount" yaml:"grantAmount"`
	TargetMarkets []string `json:"targetMarkets" yaml:"targetMarkets"`
}

// BudgetItem is one line of the production/release budget
type BudgetItem struct {
	Category string  `json:"category" yaml:"category"`
	Qty      int     `json:"qty" yaml:"qty"`
	UnitCost float64 `json:"unitCost" yaml:"unitCost"`
	Phase    Phase   `json:"phase" yaml:"phase"`
	Required bool    `json:"required" yaml:"required"`
}

// Total is qty × unit cost, clamped at zero
func (b BudgetItem) Total() float64 {
	total := float64(b.Qty) * b.UnitCost
	if total < 0 {
		return 0
	}
	return total
}
