// Package frecency reorders search results by how frequently and how
// recently a user selected each result for a query, or a query it prefixes.
//
// History lives in a Snapshot persisted through a Gateway under one namespace
// key. Record reloads the snapshot, applies the selection, evicts the least
// recently selected id once RecentSelectionsLimit ids are tracked, and
// persists the result. Rank scores results against the in-memory snapshot:
//
//	f, err := frecency.New(ctx, gw, frecency.Config{Key: "docs"}, frecency.ByField[Doc]("_id"))
//	...
//	ordered := f.Rank("appl", serverResults)
//	err = f.Record(ctx, "appl", ordered[0].ID)
package frecency

import (
	"context"
	"log/slog"
	"sync"
	"time"

	apperrors "github.com/Adithya-Monish-Kumar-K/search-frecency/pkg/errors"
	"github.com/Adithya-Monish-Kumar-K/search-frecency/pkg/metrics"
)

const (
	DefaultTimestampsLimit       = 10
	DefaultRecentSelectionsLimit = 100
)

// Config controls one namespace. Zero limits take their defaults.
type Config struct {
	Key                   string
	TimestampsLimit       int
	RecentSelectionsLimit int
	Retention             Retention
}

// EventSink receives a SelectionEvent after every persisted selection.
type EventSink interface {
	Track(event any)
}

// SelectionEvent describes one persisted selection.
type SelectionEvent struct {
	Namespace string    `json:"namespace"`
	Query     string    `json:"query"`
	ID        string    `json:"id"`
	Evicted   []string  `json:"evicted,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// PartitionKey keeps one namespace's events in order on a single partition.
func (e SelectionEvent) PartitionKey() string {
	return e.Namespace
}

// Option configures a Frecency.
type Option func(*options)

type options struct {
	clock   func() time.Time
	logger  *slog.Logger
	metrics *metrics.Metrics
	events  EventSink
}

// WithClock replaces time.Now as the source of selection and scoring time.
func WithClock(clock func() time.Time) Option {
	return func(o *options) { o.clock = clock }
}

// WithLogger sets the logger. The default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) { o.logger = logger }
}

// WithMetrics reports recording, persistence and ranking to m.
func WithMetrics(m *metrics.Metrics) Option {
	return func(o *options) { o.metrics = m }
}

// WithEventSink emits a SelectionEvent to sink after every persisted selection.
func WithEventSink(sink EventSink) Option {
	return func(o *options) { o.events = sink }
}

// Frecency ranks results of type T for one namespace.
type Frecency[T any] struct {
	namespace string
	store     *Store
	recorder  recorder
	idOf      func(T) string
	clock     func() time.Time
	logger    *slog.Logger
	metrics   *metrics.Metrics
	events    EventSink

	mu       sync.RWMutex
	snapshot *Snapshot
}

// New builds a ranker for cfg.Key and loads its current snapshot.
func New[T any](ctx context.Context, gateway Gateway, cfg Config, ids IDExtractor[T], opts ...Option) (*Frecency[T], error) {
	o := options{clock: time.Now, logger: slog.Default()}
	for _, opt := range opts {
		opt(&o)
	}
	if cfg.Retention != RetainNewest && cfg.Retention != DropOldest {
		return nil, apperrors.Newf(apperrors.ErrConfiguration, "frecency.New", "unknown retention %d", int(cfg.Retention))
	}
	if cfg.TimestampsLimit <= 0 {
		cfg.TimestampsLimit = DefaultTimestampsLimit
	}
	if cfg.RecentSelectionsLimit <= 0 {
		cfg.RecentSelectionsLimit = DefaultRecentSelectionsLimit
	}

	store, err := NewStore(cfg.Key, gateway, o.metrics, o.logger)
	if err != nil {
		return nil, err
	}
	idOf, err := ids.resolve()
	if err != nil {
		return nil, err
	}

	f := &Frecency[T]{
		namespace: cfg.Key,
		store:     store,
		recorder: recorder{
			timestampsLimit:       cfg.TimestampsLimit,
			recentSelectionsLimit: cfg.RecentSelectionsLimit,
			retention:             cfg.Retention,
		},
		idOf:    idOf,
		clock:   o.clock,
		logger:  o.logger.With("component", "frecency", "namespace", cfg.Key),
		metrics: o.metrics,
		events:  o.events,
	}
	f.snapshot = store.Load(ctx)
	return f, nil
}

// Record registers that id was selected for query and persists the result.
// Empty query or id is a no-op. Storage read and write errors are returned
// unchanged; nothing is persisted after a failed read and the in-memory
// snapshot is left untouched.
func (f *Frecency[T]) Record(ctx context.Context, query, id string) error {
	if query == "" || id == "" {
		f.metrics.ObserveIgnored()
		return nil
	}

	unlock := f.store.lock()
	defer unlock()

	now := f.clock()
	// Reload to pick up selections persisted by other writers.
	snap, err := f.store.read(ctx)
	if err != nil {
		f.logger.Error("snapshot read failed, selection not recorded", "error", err, "query", query, "id", id)
		return err
	}
	victims := f.recorder.record(snap, query, id, now.UnixMilli())
	if err := f.store.Persist(ctx, snap); err != nil {
		return err
	}

	f.mu.Lock()
	f.snapshot = snap
	f.mu.Unlock()

	f.metrics.ObserveSelection(len(victims) > 0)
	if len(victims) > 0 {
		f.logger.Debug("evicted least recent selections", "evicted", victims, "tracked", len(snap.RecentSelections))
	}
	if f.events != nil {
		f.events.Track(SelectionEvent{
			Namespace: f.namespace,
			Query:     query,
			ID:        id,
			Evicted:   victims,
			Timestamp: now.UTC(),
		})
	}
	return nil
}

// Rank returns a new slice of results ordered by frecency for query. Results
// without history keep their original order after the scored ones.
func (f *Frecency[T]) Rank(query string, results []T) []T {
	start := time.Now()
	snap := f.current()
	ranked, scored := rank(snap, query, results, f.idOf, f.clock().UnixMilli())
	f.metrics.ObserveRank(start, scored, len(results)-scored)
	return ranked
}

// Score returns the current frecency score of id for query.
func (f *Frecency[T]) Score(query, id string) float64 {
	return Score(f.current(), id, query, f.clock().UnixMilli())
}

// Refresh reloads the in-memory snapshot from storage.
func (f *Frecency[T]) Refresh(ctx context.Context) {
	snap := f.store.LoadShared(ctx)
	f.mu.Lock()
	f.snapshot = snap
	f.mu.Unlock()
}

// Snapshot returns a copy of the in-memory snapshot.
func (f *Frecency[T]) Snapshot() *Snapshot {
	return f.current().Clone()
}

// current returns the published snapshot. Published snapshots are never
// mutated, so callers may read it without holding f.mu.
func (f *Frecency[T]) current() *Snapshot {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.snapshot
}
