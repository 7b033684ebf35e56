package venues

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"stagehand/internal/app"
	"stagehand/internal/models"
	"stagehand/internal/store"
	"stagehand/internal/venuematch"
)

// Store defines the venue reads the service needs.
type Store interface {
	ListVenues(ctx context.Context) ([]models.Venue, error)
	GetVenue(ctx context.Context, id string) (models.Venue, error)
}

// RecommendRequest asks for venues suited to an artist.
type RecommendRequest struct {
	Criteria venuematch.Criteria
	Limit    int
}

// Service coordinates venue lookups and matching.
type Service interface {
	List(ctx context.Context, filter models.VenueFilter) ([]models.Venue, error)
	Get(ctx context.Context, id string) (models.Venue, error)
	Recommend(ctx context.Context, req RecommendRequest) ([]venuematch.Recommendation, error)
}

type service struct {
	store Store
	rules venuematch.Rules
}

// New constructs a venue Service that matches with rules.
func New(store Store, rules venuematch.Rules) Service {
	return &service{store: store, rules: rules}
}

func (s *service) List(ctx context.Context, filter models.VenueFilter) ([]models.Venue, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if filter.Tier != nil && !filter.Tier.Valid() {
		return nil, fmt.Errorf("%w: unknown tier %q", app.ErrInvalidInput, *filter.Tier)
	}

	all, err := s.store.ListVenues(ctx)
	if err != nil {
		return nil, err
	}

	city := strings.TrimSpace(filter.City)
	state := strings.TrimSpace(filter.State)
	venues := make([]models.Venue, 0, len(all))
	for _, v := range all {
		if filter.Tier != nil && v.Tier != *filter.Tier {
			continue
		}
		if city != "" && !strings.EqualFold(v.City, city) {
			continue
		}
		if state != "" && !strings.EqualFold(v.State, state) {
			continue
		}
		venues = append(venues, v)
	}
	return venues, nil
}

func (s *service) Get(ctx context.Context, id string) (models.Venue, error) {
	if err := ctx.Err(); err != nil {
		return models.Venue{}, err
	}

	venue, err := s.store.GetVenue(ctx, id)
	if errors.Is(err, store.ErrVenueNotFound) {
		return models.Venue{}, fmt.Errorf("%w: venue %q", app.ErrNotFound, id)
	}
	return venue, err
}

func (s *service) Recommend(ctx context.Context, req RecommendRequest) ([]venuematch.Recommendation, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	stage, ok := models.ParseStage(string(req.Criteria.Stage))
	if !ok {
		return nil, fmt.Errorf("%w: unknown stage %q", app.ErrInvalidInput, req.Criteria.Stage)
	}
	if req.Criteria.EstimatedDraw <= 0 {
		return nil, fmt.Errorf("%w: estimated draw must be positive", app.ErrInvalidInput)
	}
	if req.Limit < 0 {
		return nil, fmt.Errorf("%w: limit must not be negative", app.ErrInvalidInput)
	}

	all, err := s.store.ListVenues(ctx)
	if err != nil {
		return nil, err
	}

	criteria := req.Criteria
	criteria.Stage = stage
	recs := venuematch.Match(all, criteria, s.rules)
	if req.Limit > 0 && len(recs) > req.Limit {
		recs = recs[:req.Limit]
	}
	return recs, nil
}

// MemoryStore serves a fixed venue table.
type MemoryStore struct {
	mu     sync.RWMutex
	venues []models.Venue
}

// NewMemoryStore copies venues into a MemoryStore.
func NewMemoryStore(venues []models.Venue) *MemoryStore {
	return &MemoryStore{venues: append([]models.Venue(nil), venues...)}
}

// ListVenues returns every venue in table order.
func (m *MemoryStore) ListVenues(ctx context.Context) ([]models.Venue, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]models.Venue(nil), m.venues...), nil
}

// GetVenue returns the venue with id or store.ErrVenueNotFound.
func (m *MemoryStore) GetVenue(ctx context.Context, id string) (models.Venue, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, v := range m.venues {
		if v.ID == id {
			return v, nil
		}
	}
	return models.Venue{}, store.ErrVenueNotFound
}
