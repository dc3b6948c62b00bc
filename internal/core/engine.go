package core

import (
	"context"
	"log"
	"sync"
	"time"
)

// UsageFetcher is the external fetch layer: the panel API client, the demo
// data source, or the offline history cache.
type UsageFetcher interface {
	FetchUsage(ctx context.Context, scope Scope, qr QueryRange) (Stats, error)
	ListEntities(ctx context.Context, scope Scope) ([]KnownEntity, error)
}

// UsageUpdate is one delivered refresh result.
type UsageUpdate struct {
	Generation uint64
	Selection  Selection
	Scope      Scope
	Range      QueryRange
	Entities   []KnownEntity
	Rows       []ChartRow
	TotalGB    float64
	Err        error
}

// Engine runs the periodic fetch-and-normalize loop. Every selection or scope
// change bumps a generation counter; a fetch that completes after its
// generation was superseded is discarded, so a stale response can never
// overwrite a newer selection's rows.
type Engine struct {
	mu         sync.Mutex
	fetcher    UsageFetcher
	interval   time.Duration
	timeout    time.Duration
	locale     Locale
	selection  Selection
	scope      Scope
	generation uint64
	onUpdate   func(UsageUpdate)
	now        func() time.Time
}

func NewEngine(fetcher UsageFetcher, interval time.Duration, loc Locale) *Engine {
	return &Engine{
		fetcher:  fetcher,
		interval: interval,
		timeout:  10 * time.Second,
		locale:   loc,
		scope:    ScopeNodes,
		selection: Selection{
			Shortcut: Shortcut24h,
		},
		now: time.Now,
	}
}

func (e *Engine) OnUpdate(fn func(UsageUpdate)) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.onUpdate = fn
}

// SetSelection changes the active range and invalidates in-flight fetches.
func (e *Engine) SetSelection(sel Selection) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.selection = sel
	e.generation++
}

// SetScope switches the entity dimension and invalidates in-flight fetches.
func (e *Engine) SetScope(scope Scope) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.scope = scope
	e.generation++
}

func (e *Engine) Selection() Selection {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.selection
}

func (e *Engine) Scope() Scope {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.scope
}

// Refresh performs one fetch-and-normalize pass for the current selection.
// The result is dropped if the selection changed while the fetch was in
// flight.
func (e *Engine) Refresh(ctx context.Context) {
	e.mu.Lock()
	gen := e.generation
	sel := e.selection
	scope := e.scope
	e.mu.Unlock()

	update := UsageUpdate{Generation: gen, Selection: sel, Scope: scope}

	qr, err := ResolveRange(sel, e.now())
	if err != nil {
		update.Err = err
		e.deliver(gen, update)
		return
	}
	update.Range = qr

	fetchCtx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	entities, err := e.fetcher.ListEntities(fetchCtx, scope)
	if err != nil {
		update.Err = err
		e.deliver(gen, update)
		return
	}
	stats, err := e.fetcher.FetchUsage(fetchCtx, scope, qr)
	if err != nil {
		update.Err = err
		e.deliver(gen, update)
		return
	}

	update.Entities = entities
	update.Rows = Normalize(qr, stats, entities, e.locale)
	update.TotalGB = TotalUsageGB(update.Rows)
	e.deliver(gen, update)
}

func (e *Engine) deliver(gen uint64, update UsageUpdate) {
	e.mu.Lock()
	stale := gen != e.generation
	fn := e.onUpdate
	e.mu.Unlock()

	if stale {
		log.Printf("engine: dropping stale result for generation %d", gen)
		return
	}
	if fn != nil {
		fn(update)
	}
}

// Run refreshes immediately, then on every tick until the context ends.
func (e *Engine) Run(ctx context.Context) {
	e.Refresh(ctx)

	ticker := time.NewTicker(e.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Println("engine: context cancelled, stopping refresh loop")
			return
		case <-ticker.C:
			e.Refresh(ctx)
		}
	}
}
