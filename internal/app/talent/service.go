package talent

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"stagehand/internal/app"
	"stagehand/internal/models"
	"stagehand/internal/store"
	"stagehand/internal/talentmatch"
	"stagehand/internal/talentsource"
)

// Store defines persistence for the talent directory.
type Store interface {
	ListTalent(ctx context.Context) ([]models.TalentProfile, error)
	GetTalent(ctx context.Context, id string) (models.TalentProfile, error)
	CreateTalent(ctx context.Context, p models.TalentProfile) error
}

// Lookup finds talent outside the directory. It never fails; a source that
// cannot answer contributes nothing.
type Lookup interface {
	Lookup(ctx context.Context, q talentsource.Query) []models.TalentProfile
}

// NeedsRequest carries the planning context needs are inferred from.
type NeedsRequest struct {
	Artist  models.ArtistProfile `json:"artist" yaml:"artist"`
	Project models.ProjectConfig `json:"project" yaml:"project"`
	Items   []models.BudgetItem  `json:"items" yaml:"items"`
}

// RecommendRequest asks for candidates. Needs are inferred when omitted and a
// nil StrictCeiling uses the configured default.
type RecommendRequest struct {
	NeedsRequest  `yaml:",inline"`
	Needs         []models.TalentNeed `json:"needs,omitempty" yaml:"needs,omitempty"`
	Limit         int                 `json:"limit,omitempty" yaml:"limit,omitempty"`
	StrictCeiling *bool               `json:"strictCeiling,omitempty" yaml:"strictCeiling,omitempty"`
}

// Service coordinates the talent directory and recommendations.
type Service interface {
	Directory(ctx context.Context, role models.TalentRole) ([]models.TalentProfile, error)
	Get(ctx context.Context, id string) (models.TalentProfile, error)
	Add(ctx context.Context, p models.TalentProfile) (models.TalentProfile, error)
	Needs(ctx context.Context, req NeedsRequest) ([]models.TalentNeed, error)
	Recommend(ctx context.Context, req RecommendRequest) ([]models.TalentRecommendation, error)
}

type service struct {
	store         Store
	external      Lookup
	strictCeiling bool
}

// New constructs a talent Service. external may be nil.
func New(store Store, external Lookup, strictCeiling bool) Service {
	return &service{store: store, external: external, strictCeiling: strictCeiling}
}

func (s *service) Directory(ctx context.Context, role models.TalentRole) ([]models.TalentProfile, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	all, err := s.store.ListTalent(ctx)
	if err != nil {
		return nil, err
	}
	if role == "" {
		return all, nil
	}

	profiles := make([]models.TalentProfile, 0, len(all))
	for _, p := range all {
		if p.HasRole(role) {
			profiles = append(profiles, p)
		}
	}
	return profiles, nil
}

func (s *service) Get(ctx context.Context, id string) (models.TalentProfile, error) {
	if err := ctx.Err(); err != nil {
		return models.TalentProfile{}, err
	}

	p, err := s.store.GetTalent(ctx, id)
	if errors.Is(err, store.ErrTalentNotFound) {
		return models.TalentProfile{}, fmt.Errorf("%w: talent %q", app.ErrNotFound, id)
	}
	return p, err
}

func (s *service) Add(ctx context.Context, p models.TalentProfile) (models.TalentProfile, error) {
	if err := ctx.Err(); err != nil {
		return models.TalentProfile{}, err
	}
	if err := validateProfile(p); err != nil {
		return models.TalentProfile{}, err
	}

	p.Name = strings.TrimSpace(p.Name)
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	if p.Genres == nil {
		p.Genres = []string{}
	}
	if p.Portfolio == nil {
		p.Portfolio = []models.PortfolioLink{}
	}

	if err := s.store.CreateTalent(ctx, p); err != nil {
		if errors.Is(err, store.ErrConflict) {
			return models.TalentProfile{}, fmt.Errorf("%w: talent %q already exists", app.ErrConflict, p.ID)
		}
		return models.TalentProfile{}, err
	}
	return p, nil
}

func (s *service) Needs(ctx context.Context, req NeedsRequest) ([]models.TalentNeed, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if req.Project.Units < 0 {
		return nil, fmt.Errorf("%w: units must not be negative", app.ErrInvalidInput)
	}
	return talentmatch.InferNeeds(req.Artist, req.Project, req.Items), nil
}

func (s *service) Recommend(ctx context.Context, req RecommendRequest) ([]models.TalentRecommendation, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if req.Limit < 0 {
		return nil, fmt.Errorf("%w: limit must not be negative", app.ErrInvalidInput)
	}

	needs := req.Needs
	if needs == nil {
		inferred, err := s.Needs(ctx, req.NeedsRequest)
		if err != nil {
			return nil, err
		}
		needs = inferred
	}

	directory, err := s.store.ListTalent(ctx)
	if err != nil {
		return nil, err
	}
	directory = s.withExternal(ctx, directory, needs, req)

	opts := talentmatch.Options{Limit: req.Limit, StrictCeiling: s.strictCeiling}
	if req.StrictCeiling != nil {
		opts.StrictCeiling = *req.StrictCeiling
	}
	return talentmatch.Recommend(directory, needs, req.Artist, req.Items, req.Project.Units, opts), nil
}

// withExternal merges external results for each needed role behind the
// directory entries.
func (s *service) withExternal(ctx context.Context, directory []models.TalentProfile, needs []models.TalentNeed, req RecommendRequest) []models.TalentProfile {
	if s.external == nil {
		return directory
	}

	genre := ""
	if genres := req.Artist.GenreList(); len(genres) > 0 {
		genre = genres[0]
	}

	seen := make(map[models.TalentRole]bool, len(needs))
	for _, need := range needs {
		if seen[need.Role] {
			continue
		}
		seen[need.Role] = true
		found := s.external.Lookup(ctx, talentsource.Query{Role: need.Role, Genre: genre, Limit: req.Limit})
		directory = talentsource.Merge(directory, found)
	}
	return directory
}

func validateProfile(p models.TalentProfile) error {
	switch {
	case strings.TrimSpace(p.Name) == "":
		return fmt.Errorf("%w: name is required", app.ErrInvalidInput)
	case len(p.Roles) == 0:
		return fmt.Errorf("%w: at least one role is required", app.ErrInvalidInput)
	case p.Rating != nil && (*p.Rating < 0 || *p.Rating > 5):
		return fmt.Errorf("%w: rating must be between 0 and 5", app.ErrInvalidInput)
	}
	for _, rate := range []*float64{p.PerSongRate, p.DayRate, p.HourlyRate} {
		if rate != nil && *rate < 0 {
			return fmt.Errorf("%w: rates must not be negative", app.ErrInvalidInput)
		}
	}
	return nil
}
