// Package reference holds the immutable lookup tables the planning engines score against.
//
// Tables are plain values. Callers load them once (embedded defaults, an override
// directory, or the database) and pass them into the engines explicitly.
package reference

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"stagehand/internal/models"
)

//go:embed data/*.yaml
var defaultData embed.FS

const (
	venuesFile    = "venues.yaml"
	ratesFile     = "musician_rates.yaml"
	standardsFile = "expense_standards.yaml"
	talentFile    = "talent.yaml"
)

// Tables bundles every reference table.
type Tables struct {
	Venues           []models.Venue
	MusicianRates    []models.MusicianRole
	ExpenseStandards models.TourExpenseStandards
	Talent           []models.TalentProfile
}

// Default parses the embedded tables. The embedded data is validated by tests, so
// a failure here is a build defect.
func Default() Tables {
	tables, err := load(defaultData, "data")
	if err != nil {
		panic(fmt.Sprintf("reference: embedded tables: %v", err))
	}
	return tables
}

// LoadDir starts from the embedded tables and replaces each table whose file is
// present in dir.
func LoadDir(dir string) (Tables, error) {
	tables := Default()
	if strings.TrimSpace(dir) == "" {
		return tables, nil
	}

	info, err := os.Stat(dir)
	if err != nil {
		return Tables{}, fmt.Errorf("load reference dir: %w", err)
	}
	if !info.IsDir() {
		return Tables{}, fmt.Errorf("load reference dir: %s is not a directory", dir)
	}

	overrides, err := load(os.DirFS(dir), ".")
	if err != nil {
		return Tables{}, fmt.Errorf("load reference dir %s: %w", dir, err)
	}

	if overrides.Venues != nil {
		tables.Venues = overrides.Venues
	}
	if overrides.MusicianRates != nil {
		tables.MusicianRates = overrides.MusicianRates
	}
	if overrides.ExpenseStandards != (models.TourExpenseStandards{}) {
		tables.ExpenseStandards = overrides.ExpenseStandards
	}
	if overrides.Talent != nil {
		tables.Talent = overrides.Talent
	}

	if err := tables.Validate(); err != nil {
		return Tables{}, err
	}
	return tables, nil
}

// load decodes whichever table files exist under root. Missing files leave the
// corresponding table zero.
func load(fsys fs.FS, root string) (Tables, error) {
	var tables Tables

	if err := decodeFile(fsys, root, venuesFile, &tables.Venues); err != nil {
		return Tables{}, err
	}
	if err := decodeFile(fsys, root, ratesFile, &tables.MusicianRates); err != nil {
		return Tables{}, err
	}
	if err := decodeFile(fsys, root, standardsFile, &tables.ExpenseStandards); err != nil {
		return Tables{}, err
	}
	if err := decodeFile(fsys, root, talentFile, &tables.Talent); err != nil {
		return Tables{}, err
	}

	return tables, nil
}

func decodeFile(fsys fs.FS, root, name string, target any) error {
	data, err := fs.ReadFile(fsys, filepath.ToSlash(filepath.Join(root, name)))
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("read %s: %w", name, err)
	}
	if err := yaml.Unmarshal(data, target); err != nil {
		return fmt.Errorf("parse %s: %w", name, err)
	}
	return nil
}

// Validate checks the tables for values the engines cannot score sensibly.
func (t Tables) Validate() error {
	var problems []string

	seenVenues := make(map[string]bool, len(t.Venues))
	for _, v := range t.Venues {
		switch {
		case v.ID == "":
			problems = append(problems, fmt.Sprintf("venue %q has no id", v.Name))
		case seenVenues[v.ID]:
			problems = append(problems, fmt.Sprintf("duplicate venue id %q", v.ID))
		}
		seenVenues[v.ID] = true

		if !v.Tier.Valid() {
			problems = append(problems, fmt.Sprintf("venue %q has unknown tier %q", v.ID, v.Tier))
		}
		if v.Capacity <= 0 {
			problems = append(problems, fmt.Sprintf("venue %q capacity must be positive", v.ID))
		}
		if v.DoorSplitPercentage < 0 || v.DoorSplitPercentage > 100 {
			problems = append(problems, fmt.Sprintf("venue %q door split must be 0-100", v.ID))
		}
		if v.GuaranteeMin > v.GuaranteeMax {
			problems = append(problems, fmt.Sprintf("venue %q guarantee_min exceeds guarantee_max", v.ID))
		}
	}

	for _, r := range t.MusicianRates {
		if r.RateMin > r.RateMax {
			problems = append(problems, fmt.Sprintf("rate band %q min exceeds max", r.Role))
		}
	}

	seenTalent := make(map[string]bool, len(t.Talent))
	for _, p := range t.Talent {
		if p.ID == "" || seenTalent[p.ID] {
			problems = append(problems, fmt.Sprintf("talent %q has a missing or duplicate id", p.Name))
		}
		seenTalent[p.ID] = true
		if p.Rating != nil && (*p.Rating < 0 || *p.Rating > 5) {
			problems = append(problems, fmt.Sprintf("talent %q rating must be 0-5", p.ID))
		}
	}

	if len(problems) > 0 {
		return fmt.Errorf("reference tables invalid:\n  - %s", strings.Join(problems, "\n  - "))
	}
	return nil
}

// VenueIndex maps venue IDs to venues.
func (t Tables) VenueIndex() map[string]models.Venue {
	index := make(map[string]models.Venue, len(t.Venues))
	for _, v := range t.Venues {
		index[v.ID] = v
	}
	return index
}
