// Package talentsource extends the talent directory with profiles found on
// external services.
package talentsource

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"stagehand/internal/kv"
	"stagehand/internal/models"
)

// DefaultCacheTTL bounds how long a source's last good answer is reused.
const DefaultCacheTTL = 6 * time.Hour

// Query describes the talent being looked for.
type Query struct {
	Role  models.TalentRole
	Genre string
	Limit int
}

// Source is an external talent lookup.
type Source interface {
	Name() string
	Search(ctx context.Context, q Query) ([]models.TalentProfile, error)
}

// Aggregator queries every source concurrently. A failing source is logged and
// replaced by its cached answer, or nothing. Sources are never retried.
type Aggregator struct {
	sources []Source
	cache   kv.Store
	ttl     time.Duration
	log     zerolog.Logger
}

// NewAggregator wires sources to a cache. cache may be nil.
func NewAggregator(cache kv.Store, log zerolog.Logger, sources ...Source) *Aggregator {
	return &Aggregator{sources: sources, cache: cache, ttl: DefaultCacheTTL, log: log}
}

// Lookup returns the merged results of every source in registration order.
func (a *Aggregator) Lookup(ctx context.Context, q Query) []models.TalentProfile {
	if a == nil || len(a.sources) == 0 {
		return []models.TalentProfile{}
	}

	perSource := make([][]models.TalentProfile, len(a.sources))

	var wg sync.WaitGroup
	var mu sync.Mutex
	for i, src := range a.sources {
		wg.Add(1)
		go func(i int, src Source) {
			defer wg.Done()
			found := a.lookupOne(ctx, src, q)

			mu.Lock()
			perSource[i] = found
			mu.Unlock()
		}(i, src)
	}
	wg.Wait()

	out := []models.TalentProfile{}
	for _, found := range perSource {
		out = Merge(out, found)
	}
	return out
}

func (a *Aggregator) lookupOne(ctx context.Context, src Source, q Query) []models.TalentProfile {
	key := cacheKey(src.Name(), q)

	found, err := src.Search(ctx, q)
	if err == nil {
		for i := range found {
			if found[i].Source == "" {
				found[i].Source = src.Name()
			}
		}
		if a.cache != nil {
			if err := kv.SetJSON(ctx, a.cache, key, found, a.ttl); err != nil {
				a.log.Warn().Err(err).Str("source", src.Name()).Msg("cache talent source result")
			}
		}
		return found
	}

	a.log.Warn().Err(err).Str("source", src.Name()).Str("role", string(q.Role)).Msg("talent source lookup failed")

	if a.cache == nil {
		return nil
	}
	var cached []models.TalentProfile
	if err := kv.GetJSON(context.WithoutCancel(ctx), a.cache, key, &cached); err != nil {
		return nil
	}
	return cached
}

func cacheKey(source string, q Query) string {
	return fmt.Sprintf("talentsource:%s:%s:%s:%d", source, strings.ToLower(string(q.Role)), strings.ToLower(strings.TrimSpace(q.Genre)), q.Limit)
}

// Merge appends extra profiles whose IDs are not already in base.
func Merge(base, extra []models.TalentProfile) []models.TalentProfile {
	seen := make(map[string]bool, len(base)+len(extra))
	out := make([]models.TalentProfile, 0, len(base)+len(extra))
	for _, p := range base {
		seen[p.ID] = true
		out = append(out, p)
	}
	for _, p := range extra {
		if p.ID == "" || seen[p.ID] {
			continue
		}
		seen[p.ID] = true
		out = append(out, p)
	}
	return out
}
