package venues

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stagehand/internal/app"
	"stagehand/internal/models"
	"stagehand/internal/venuematch"
)

func testVenues() []models.Venue {
	return []models.Venue{
		{ID: "lantern", Name: "The Lantern", City: "Nashville", State: "TN", Tier: models.TierClub, Capacity: 110, Genres: []string{"rock"}},
		{ID: "tap", Name: "Corner Tap", City: "Denver", State: "CO", Tier: models.TierDiveBar, Capacity: 90, Genres: []string{"folk"}},
		{ID: "ryman", Name: "Ryman", City: "Nashville", State: "TN", Tier: models.TierTheater, Capacity: 2360},
	}
}

func TestList(t *testing.T) {
	svc := New(NewMemoryStore(testVenues()), venuematch.DefaultRules())
	club := models.TierClub

	tests := []struct {
		name   string
		filter models.VenueFilter
		want   []string
	}{
		{name: "all", want: []string{"lantern", "tap", "ryman"}},
		{name: "city", filter: models.VenueFilter{City: "nashville"}, want: []string{"lantern", "ryman"}},
		{name: "tier", filter: models.VenueFilter{Tier: &club}, want: []string{"lantern"}},
		{name: "state and tier", filter: models.VenueFilter{State: "CO", Tier: &club}, want: []string{}},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			got, err := svc.List(context.Background(), tc.filter)
			require.NoError(t, err)
			ids := make([]string, 0, len(got))
			for _, v := range got {
				ids = append(ids, v.ID)
			}
			assert.Equal(t, tc.want, ids)
		})
	}
}

func TestListRejectsUnknownTier(t *testing.T) {
	svc := New(NewMemoryStore(testVenues()), venuematch.DefaultRules())
	bogus := models.Tier("stadium")
	_, err := svc.List(context.Background(), models.VenueFilter{Tier: &bogus})
	require.ErrorIs(t, err, app.ErrInvalidInput)
}

func TestGet(t *testing.T) {
	svc := New(NewMemoryStore(testVenues()), venuematch.DefaultRules())

	v, err := svc.Get(context.Background(), "tap")
	require.NoError(t, err)
	assert.Equal(t, "Corner Tap", v.Name)

	_, err = svc.Get(context.Background(), "missing")
	require.ErrorIs(t, err, app.ErrNotFound)
}

func TestRecommend(t *testing.T) {
	svc := New(NewMemoryStore(testVenues()), venuematch.DefaultRules())

	recs, err := svc.Recommend(context.Background(), RecommendRequest{
		Criteria: venuematch.Criteria{Stage: "emerging", EstimatedDraw: 80, PreferredGenres: []string{"rock"}},
	})
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Equal(t, "lantern", recs[0].Venue.ID)
	assert.True(t, recs[0].GenreMatch)

	recs, err = svc.Recommend(context.Background(), RecommendRequest{
		Criteria: venuematch.Criteria{Stage: models.StageEmerging, EstimatedDraw: 80},
		Limit:    1,
	})
	require.NoError(t, err)
	assert.Len(t, recs, 1)
}

func TestRecommendValidation(t *testing.T) {
	svc := New(NewMemoryStore(testVenues()), venuematch.DefaultRules())

	tests := []struct {
		name string
		req  RecommendRequest
	}{
		{name: "unknown stage", req: RecommendRequest{Criteria: venuematch.Criteria{Stage: "superstar", EstimatedDraw: 100}}},
		{name: "zero draw", req: RecommendRequest{Criteria: venuematch.Criteria{Stage: models.StageEmerging}}},
		{name: "negative limit", req: RecommendRequest{Criteria: venuematch.Criteria{Stage: models.StageEmerging, EstimatedDraw: 10}, Limit: -1}},
	}
	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Recommend(context.Background(), tc.req)
			require.True(t, errors.Is(err, app.ErrInvalidInput), "got %v", err)
		})
	}
}

func TestCanceledContext(t *testing.T) {
	svc := New(NewMemoryStore(testVenues()), venuematch.DefaultRules())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := svc.List(ctx, models.VenueFilter{})
	require.ErrorIs(t, err, context.Canceled)
}
