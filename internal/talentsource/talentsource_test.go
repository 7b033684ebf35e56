package talentsource

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stagehand/internal/kv"
	"stagehand/internal/models"
)

const mbBody = `{
  "artists": [
    {"id": "a1", "name": "Rae Fontaine", "type": "Person", "score": 100, "country": "US",
     "area": {"name": "Memphis"}, "tags": [{"name": "soul", "count": 3}, {"name": " ", "count": 1}]},
    {"id": "a2", "name": "Old Timer", "type": "Person", "score": 90, "life-span": {"ended": true}},
    {"id": "a3", "name": "Nova", "type": "Person", "score": 80, "country": "GB", "tags": []}
  ]
}`

func TestMusicBrainzSearch(t *testing.T) {
	var gotQuery, gotAgent string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/ws/2/artist" {
			http.NotFound(w, r)
			return
		}
		gotQuery = r.URL.Query().Get("query")
		gotAgent = r.Header.Get("User-Agent")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(mbBody))
	}))
	defer srv.Close()

	c := NewMusicBrainzClient(srv.URL+"/", "stagehand-test/1.0 (ops@example.com)")
	got, err := c.Search(context.Background(), Query{Role: models.RoleVocalProducer, Genre: "soul", Limit: 5})
	require.NoError(t, err)

	assert.Equal(t, `tag:"soul" AND type:person`, gotQuery)
	assert.Equal(t, "stagehand-test/1.0 (ops@example.com)", gotAgent)

	require.Len(t, got, 2)
	assert.Equal(t, "mb:a1", got[0].ID)
	assert.Equal(t, "Memphis", got[0].Location)
	assert.Equal(t, []string{"soul"}, got[0].Genres)
	assert.Equal(t, []models.TalentRole{models.RoleVocalProducer}, got[0].Roles)
	assert.Equal(t, "GB", got[1].Location)
	assert.Equal(t, "musicbrainz", got[1].Source)
}

func TestMusicBrainzErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "slow down", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	c := NewMusicBrainzClient(srv.URL, "ua")
	_, err := c.Search(context.Background(), Query{Genre: "rock"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "503")

	got, err := c.Search(context.Background(), Query{Genre: "  "})
	require.NoError(t, err)
	assert.Empty(t, got)
}

type stubSource struct {
	name    string
	results []models.TalentProfile
	err     error
	calls   atomic.Int32
}

func (s *stubSource) Name() string { return s.name }

func (s *stubSource) Search(context.Context, Query) ([]models.TalentProfile, error) {
	s.calls.Add(1)
	if s.err != nil {
		return nil, s.err
	}
	return append([]models.TalentProfile(nil), s.results...), nil
}

func TestAggregatorMergesInSourceOrder(t *testing.T) {
	first := &stubSource{name: "first", results: []models.TalentProfile{{ID: "x"}, {ID: "y"}}}
	second := &stubSource{name: "second", results: []models.TalentProfile{{ID: "y"}, {ID: "z"}}}

	agg := NewAggregator(kv.NewMemory(), zerolog.Nop(), first, second)
	got := agg.Lookup(context.Background(), Query{Role: models.RoleMixer, Genre: "rock"})

	require.Len(t, got, 3)
	assert.Equal(t, "x", got[0].ID)
	assert.Equal(t, "first", got[1].Source)
	assert.Equal(t, "z", got[2].ID)
	assert.Equal(t, "second", got[2].Source)
}

func TestAggregatorFallsBackToCache(t *testing.T) {
	cache := kv.NewMemory()
	src := &stubSource{name: "flaky", results: []models.TalentProfile{{ID: "cached"}}}
	agg := NewAggregator(cache, zerolog.Nop(), src)
	q := Query{Role: models.RoleMixer, Genre: "Rock"}

	require.Len(t, agg.Lookup(context.Background(), q), 1)

	src.err = errors.New("connection reset")
	got := agg.Lookup(context.Background(), q)
	require.Len(t, got, 1)
	assert.Equal(t, "cached", got[0].ID)
	assert.Equal(t, int32(2), src.calls.Load(), "no retries")

	other := agg.Lookup(context.Background(), Query{Role: models.RolePublicist, Genre: "rock"})
	assert.NotNil(t, other)
	assert.Empty(t, other)
}

func TestAggregatorWithoutSources(t *testing.T) {
	var agg *Aggregator
	assert.Empty(t, agg.Lookup(context.Background(), Query{}))

	agg = NewAggregator(nil, zerolog.Nop(), &stubSource{name: "down", err: errors.New("down")})
	assert.Empty(t, agg.Lookup(context.Background(), Query{}))
}

func TestMerge(t *testing.T) {
	base := []models.TalentProfile{{ID: "t-001"}}
	got := Merge(base, []models.TalentProfile{{ID: "t-001"}, {ID: ""}, {ID: "mb:1"}, {ID: "mb:1"}})

	ids := make([]string, 0, len(got))
	for _, p := range got {
		ids = append(ids, p.ID)
	}
	assert.Equal(t, "t-001,mb:1", strings.Join(ids, ","))
}
