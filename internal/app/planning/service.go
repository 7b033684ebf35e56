package planning

import (
	"context"
	"fmt"

	"stagehand/internal/app"
	"stagehand/internal/budget"
	"stagehand/internal/merch"
	"stagehand/internal/models"
	"stagehand/internal/stage"
)

// MaxMerchUnits bounds a single merch rebalance.
const MaxMerchUnits = 1_000_000

// StageResult is the classifier output with its guidance.
type StageResult struct {
	Stage    models.Stage `json:"stage"`
	Average  float64      `json:"average"`
	Guidance string       `json:"guidance"`
}

// Service exposes the stateless planning calculations.
type Service interface {
	Stage(ctx context.Context, scores models.StageScores) (StageResult, error)
	BudgetSummary(ctx context.Context, project models.ProjectConfig, items []models.BudgetItem) (budget.Summary, error)
	Rebalance(ctx context.Context, counts map[string]int, total int) (map[string]int, error)
}

type service struct{}

// New constructs a planning Service.
func New() Service {
	return &service{}
}

func (s *service) Stage(ctx context.Context, scores models.StageScores) (StageResult, error) {
	if err := ctx.Err(); err != nil {
		return StageResult{}, err
	}
	st := stage.FromScores(scores)
	return StageResult{Stage: st, Average: stage.Average(scores), Guidance: stage.Describe(st)}, nil
}

func (s *service) BudgetSummary(ctx context.Context, project models.ProjectConfig, items []models.BudgetItem) (budget.Summary, error) {
	if err := ctx.Err(); err != nil {
		return budget.Summary{}, err
	}
	if project.Units < 0 {
		return budget.Summary{}, fmt.Errorf("%w: units must not be negative", app.ErrInvalidInput)
	}
	if project.GrantAmount < 0 {
		return budget.Summary{}, fmt.Errorf("%w: grant amount must not be negative", app.ErrInvalidInput)
	}
	for i, item := range items {
		if item.Qty < 0 {
			return budget.Summary{}, fmt.Errorf("%w: item %d has a negative quantity", app.ErrInvalidInput, i+1)
		}
	}
	return budget.Summarize(project, items), nil
}

func (s *service) Rebalance(ctx context.Context, counts map[string]int, total int) (map[string]int, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if total < 0 || total > MaxMerchUnits {
		return nil, fmt.Errorf("%w: total must be between 0 and %d", app.ErrInvalidInput, MaxMerchUnits)
	}
	return merch.Rebalance(counts, total), nil
}
