package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"stagehand/internal/app/tours"
	"stagehand/internal/models"
)

// Plan is the offline planning input shared by every subcommand.
type Plan struct {
	Artist        models.ArtistProfile `json:"artist" yaml:"artist"`
	Project       models.ProjectConfig `json:"project" yaml:"project"`
	Items         []models.BudgetItem  `json:"items" yaml:"items"`
	EstimatedDraw int                  `json:"estimatedDraw" yaml:"estimatedDraw"`
	TargetCities  []string             `json:"targetCities" yaml:"targetCities"`
	Tour          tours.BudgetRequest  `json:"tour" yaml:"tour"`
	Merch         MerchPlan            `json:"merch" yaml:"merch"`
}

// MerchPlan is a size history and the quantity to order.
type MerchPlan struct {
	Counts map[string]int `json:"counts" yaml:"counts"`
	Total  int            `json:"total" yaml:"total"`
}

// loadPlan decodes a YAML or JSON plan, chosen by file extension.
func loadPlan(path string) (Plan, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Plan{}, fmt.Errorf("read plan: %w", err)
	}

	var plan Plan
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		err = json.Unmarshal(raw, &plan)
	default:
		err = yaml.Unmarshal(raw, &plan)
	}
	if err != nil {
		return Plan{}, fmt.Errorf("decode plan %s: %w", path, err)
	}
	return plan, nil
}
