package rosters

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"stagehand/internal/app"
	"stagehand/internal/kv"
	"stagehand/internal/models"
)

// MaxMembers bounds a single roster.
const MaxMembers = 50

// Service manages the band roster attached to a planning session.
type Service interface {
	List(ctx context.Context, sessionID string) ([]models.BandMember, error)
	Add(ctx context.Context, sessionID string, member models.BandMember) (models.BandMember, error)
	Update(ctx context.Context, sessionID, id string, member models.BandMember) (models.BandMember, error)
	Delete(ctx context.Context, sessionID, id string) error
}

type service struct {
	store kv.Store
	ttl   time.Duration
	// serializes read-modify-write of a roster within this process
	mu sync.Mutex
}

// New constructs a roster Service persisting rosters in store. Rosters expire
// ttl after their last change; zero keeps them until removed.
func New(store kv.Store, ttl time.Duration) Service {
	return &service{store: store, ttl: ttl}
}

func key(sessionID string) string {
	return "roster:" + sessionID
}

func (s *service) List(ctx context.Context, sessionID string) ([]models.BandMember, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if sessionID == "" {
		return nil, app.ErrUnauthorized
	}
	return s.load(ctx, sessionID)
}

func (s *service) Add(ctx context.Context, sessionID string, member models.BandMember) (models.BandMember, error) {
	if err := ctx.Err(); err != nil {
		return models.BandMember{}, err
	}
	if sessionID == "" {
		return models.BandMember{}, app.ErrUnauthorized
	}
	member, err := normalize(member)
	if err != nil {
		return models.BandMember{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	members, err := s.load(ctx, sessionID)
	if err != nil {
		return models.BandMember{}, err
	}
	if len(members) >= MaxMembers {
		return models.BandMember{}, fmt.Errorf("%w: roster is limited to %d members", app.ErrInvalidInput, MaxMembers)
	}

	member.ID = uuid.NewString()
	members = append(members, member)
	if err := s.save(ctx, sessionID, members); err != nil {
		return models.BandMember{}, err
	}
	return member, nil
}

func (s *service) Update(ctx context.Context, sessionID, id string, member models.BandMember) (models.BandMember, error) {
	if err := ctx.Err(); err != nil {
		return models.BandMember{}, err
	}
	if sessionID == "" {
		return models.BandMember{}, app.ErrUnauthorized
	}
	member, err := normalize(member)
	if err != nil {
		return models.BandMember{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	members, err := s.load(ctx, sessionID)
	if err != nil {
		return models.BandMember{}, err
	}
	idx := indexOf(members, id)
	if idx < 0 {
		return models.BandMember{}, fmt.Errorf("%w: band member %q", app.ErrNotFound, id)
	}

	member.ID = id
	members[idx] = member
	if err := s.save(ctx, sessionID, members); err != nil {
		return models.BandMember{}, err
	}
	return member, nil
}

func (s *service) Delete(ctx context.Context, sessionID, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if sessionID == "" {
		return app.ErrUnauthorized
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	members, err := s.load(ctx, sessionID)
	if err != nil {
		return err
	}
	idx := indexOf(members, id)
	if idx < 0 {
		return fmt.Errorf("%w: band member %q", app.ErrNotFound, id)
	}

	members = append(members[:idx], members[idx+1:]...)
	if len(members) == 0 {
		return s.store.Remove(ctx, key(sessionID))
	}
	return s.save(ctx, sessionID, members)
}

func (s *service) load(ctx context.Context, sessionID string) ([]models.BandMember, error) {
	var members []models.BandMember
	err := kv.GetJSON(ctx, s.store, key(sessionID), &members)
	switch {
	case errors.Is(err, kv.ErrNotFound):
		return []models.BandMember{}, nil
	case err != nil:
		return nil, fmt.Errorf("load roster: %w", err)
	}
	if members == nil {
		members = []models.BandMember{}
	}
	return members, nil
}

func (s *service) save(ctx context.Context, sessionID string, members []models.BandMember) error {
	if err := kv.SetJSON(ctx, s.store, key(sessionID), members, s.ttl); err != nil {
		return fmt.Errorf("save roster: %w", err)
	}
	return nil
}

func normalize(m models.BandMember) (models.BandMember, error) {
	m.Name = strings.TrimSpace(m.Name)
	m.Role = strings.TrimSpace(m.Role)
	switch {
	case m.Name == "":
		return m, fmt.Errorf("%w: name is required", app.ErrInvalidInput)
	case m.Role == "":
		return m, fmt.Errorf("%w: role is required", app.ErrInvalidInput)
	case m.RatePerShow < 0:
		return m, fmt.Errorf("%w: rate per show must not be negative", app.ErrInvalidInput)
	}
	// Totals are computed per tour and never stored.
	m.TotalShows = 0
	m.TotalPay = 0
	return m, nil
}

func indexOf(members []models.BandMember, id string) int {
	for i, m := range members {
		if m.ID == id {
			return i
		}
	}
	return -1
}
