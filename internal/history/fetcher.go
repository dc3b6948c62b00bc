package history

import (
	"context"
	"log"
	"sync"

	"github.com/tunneldash/tunneldash/internal/core"
)

// CachingFetcher wraps the live panel fetcher: every successful response is
// written to the store, and when the panel is unreachable the last cached
// window is served instead so the dashboard stays useful offline.
type CachingFetcher struct {
	fetcher core.UsageFetcher
	store   *Store

	mu           sync.Mutex
	lastEntities map[core.Scope][]core.KnownEntity
}

func NewCachingFetcher(fetcher core.UsageFetcher, store *Store) *CachingFetcher {
	return &CachingFetcher{
		fetcher:      fetcher,
		store:        store,
		lastEntities: make(map[core.Scope][]core.KnownEntity),
	}
}

func (f *CachingFetcher) FetchUsage(ctx context.Context, scope core.Scope, qr core.QueryRange) (core.Stats, error) {
	stats, err := f.fetcher.FetchUsage(ctx, scope, qr)
	if err != nil {
		cached, loadErr := f.store.Load(ctx, scope, qr)
		if loadErr != nil || statsEmpty(cached) {
			return nil, err // the live error wins when the cache has nothing
		}
		log.Printf("history: serving cached usage after fetch error: %v", err)
		return cached, nil
	}

	if saveErr := f.store.Save(ctx, scope, stats); saveErr != nil {
		log.Printf("history: caching usage: %v", saveErr)
	}
	return stats, nil
}

// ListEntities delegates to the panel and remembers the last successful list
// per scope, since entity metadata is not persisted alongside usage points.
func (f *CachingFetcher) ListEntities(ctx context.Context, scope core.Scope) ([]core.KnownEntity, error) {
	entities, err := f.fetcher.ListEntities(ctx, scope)
	if err != nil {
		f.mu.Lock()
		cached, ok := f.lastEntities[scope]
		f.mu.Unlock()
		if !ok {
			return nil, err
		}
		return cached, nil
	}

	f.mu.Lock()
	f.lastEntities[scope] = entities
	f.mu.Unlock()
	return entities, nil
}

func statsEmpty(stats core.Stats) bool {
	switch s := stats.(type) {
	case core.PerEntityStats:
		return s.Empty()
	case core.AggregateStats:
		return len(s.Points) == 0
	default:
		return true
	}
}
