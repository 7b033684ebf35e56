package venuematch

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stagehand/internal/models"
	"stagehand/internal/reference"
)

func venue(id string, tier models.Tier, capacity int, city string, genres ...string) models.Venue {
	return models.Venue{ID: id, Name: id, Tier: tier, Capacity: capacity, City: city, Genres: genres}
}

func TestMatchEmergingRockScenario(t *testing.T) {
	tables := reference.Default()
	criteria := Criteria{
		Stage:           models.StageEmerging,
		EstimatedDraw:   100,
		PreferredGenres: []string{"rock"},
	}

	recs := Match(tables.Venues, criteria, DefaultRules())
	require.NotEmpty(t, recs)

	for _, rec := range recs {
		assert.Contains(t, []models.Tier{models.TierDiveBar, models.TierClub}, rec.Venue.Tier)
		assert.GreaterOrEqual(t, float64(rec.Venue.Capacity), 100/1.2)
		assert.LessOrEqual(t, rec.Venue.Capacity, 200)
	}

	top := recs[0]
	require.True(t, top.GenreMatch)
	require.Equal(t, "lantern-room-nash", top.Venue.ID)

	// No other genre match sits closer to a full room.
	for _, rec := range recs[1:] {
		if rec.GenreMatch {
			assert.Greater(t, absDiff(rec.FillRate, 1), absDiff(top.FillRate, 1))
		}
	}
}

func TestMatchNeverLeavesTierOrDrawWindow(t *testing.T) {
	tables := reference.Default()
	rules := DefaultRules()

	for _, stage := range models.Stages {
		for _, draw := range []int{10, 60, 100, 250, 700, 1500, 4000, 12000} {
			recs := Match(tables.Venues, Criteria{Stage: stage, EstimatedDraw: draw}, rules)
			allowed := rules.AllowedTiers(stage)
			for _, rec := range recs {
				require.Contains(t, allowed, rec.Venue.Tier, "stage %s draw %d", stage, draw)
				fill := float64(draw) / float64(rec.Venue.Capacity)
				require.GreaterOrEqual(t, fill, 0.5)
				require.LessOrEqual(t, fill, 1.2)
			}
		}
	}
}

func TestMatchScoring(t *testing.T) {
	venues := []models.Venue{
		venue("full", models.TierClub, 100, "Austin", "Jazz"),          // fill 1.0 → +15
		venue("low", models.TierClub, 160, "Austin", "rock"),           // fill .625 → +10, +10 genre
		venue("over", models.TierClub, 90, "Austin"),                   // fill 1.11 → +5
		venue("edge-low", models.TierClub, 200, "Austin", "Hard Rock"), // fill .5 → 0, +10 genre
	}

	recs := Match(venues, Criteria{Stage: models.StageEmerging, EstimatedDraw: 100, PreferredGenres: []string{"ROCK"}}, DefaultRules())
	require.Len(t, recs, 4)

	got := map[string]float64{}
	for _, rec := range recs {
		got[rec.Venue.ID] = rec.Score
	}
	assert.InDelta(t, 15+0.05, got["full"], 1e-9)
	assert.InDelta(t, 20+0.08, got["low"], 1e-9)
	assert.InDelta(t, 5+0.045, got["over"], 1e-9)
	assert.InDelta(t, 10+0.1, got["edge-low"], 1e-9)

	assert.Equal(t, []string{"low", "full", "edge-low", "over"}, ids(recs))
}

func TestMatchStableOnTies(t *testing.T) {
	venues := []models.Venue{
		venue("a", models.TierClub, 100, "X"),
		venue("b", models.TierClub, 100, "Y"),
		venue("c", models.TierClub, 100, "Z"),
	}
	recs := Match(venues, Criteria{Stage: models.StageEmerging, EstimatedDraw: 90}, DefaultRules())
	assert.Equal(t, []string{"a", "b", "c"}, ids(recs))
}

func TestMatchTargetCities(t *testing.T) {
	venues := []models.Venue{
		venue("austin", models.TierClub, 100, "Austin"),
		venue("denver", models.TierClub, 100, "Denver"),
		venue("denver-arena", models.TierArena, 100, "Denver"),
	}
	recs := Match(venues, Criteria{Stage: models.StageEmerging, EstimatedDraw: 90, TargetCities: []string{" denver "}}, DefaultRules())
	assert.Equal(t, []string{"denver"}, ids(recs))
}

func TestMatchEmptyWhenNothingFits(t *testing.T) {
	recs := Match(reference.Default().Venues, Criteria{Stage: models.StageEmerging, EstimatedDraw: 5000}, DefaultRules())
	require.NotNil(t, recs)
	require.Empty(t, recs)
}

func TestMatchUnknownStage(t *testing.T) {
	recs := Match(reference.Default().Venues, Criteria{Stage: "Legend", EstimatedDraw: 100}, DefaultRules())
	require.Empty(t, recs)
}

func ids(recs []Recommendation) []string {
	out := make([]string, 0, len(recs))
	for _, r := range recs {
		out = append(out, r.Venue.ID)
	}
	return out
}

func absDiff(a, b float64) float64 {
	if a > b {
		return a - b
	}
	return b - a
}
