package frecency

import (
	"context"
	"log/slog"
	"sync"

	apperrors "github.com/Adithya-Monish-Kumar-K/search-frecency/pkg/errors"
	"github.com/Adithya-Monish-Kumar-K/search-frecency/pkg/metrics"
	"golang.org/x/sync/singleflight"
)

const keyPrefix = "frecency_"

// Gateway is the key-value collaborator snapshots are persisted through.
// Get reports ok=false when nothing is stored under key.
type Gateway interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
}

// Store loads and persists the snapshot of one namespace.
type Store struct {
	key     string
	gateway Gateway
	group   singleflight.Group
	logger  *slog.Logger
	metrics *metrics.Metrics
}

// NewStore creates a Store for namespace. The snapshot is kept under
// "frecency_<namespace>".
func NewStore(namespace string, gateway Gateway, m *metrics.Metrics, logger *slog.Logger) (*Store, error) {
	if namespace == "" {
		return nil, apperrors.New(apperrors.ErrConfiguration, "frecency.NewStore", "key is required")
	}
	if gateway == nil {
		return nil, apperrors.New(apperrors.ErrConfiguration, "frecency.NewStore", "gateway is required")
	}
	if logger == nil {
		logger = slog.Default()
	}
	key := keyPrefix + namespace
	return &Store{
		key:     key,
		gateway: gateway,
		logger:  logger.With("component", "frecency-store", "key", key),
		metrics: m,
	}, nil
}

// Key returns the storage key of the namespace.
func (s *Store) Key() string {
	return s.key
}

// Load returns the stored snapshot. Absent, unreadable or corrupt data yields
// an empty snapshot; those failures are logged, never returned.
func (s *Store) Load(ctx context.Context) *Snapshot {
	snap, err := s.read(ctx)
	if err != nil {
		s.logger.Warn("snapshot read failed, starting empty", "error", err)
		return NewSnapshot()
	}
	return snap
}

// read is Load that reports gateway read errors. Corrupt or absent data is
// still an empty snapshot. Writers use it so a failed read never gets
// persisted over the stored history.
func (s *Store) read(ctx context.Context) (*Snapshot, error) {
	data, ok, err := s.gateway.Get(ctx, s.key)
	if err != nil {
		s.metrics.ObserveLoad(metrics.LoadError)
		return nil, err
	}
	if !ok || data == "" {
		s.metrics.ObserveLoad(metrics.LoadEmpty)
		return NewSnapshot(), nil
	}
	snap, err := Decode([]byte(data))
	if err != nil {
		s.logger.Warn("snapshot corrupt, starting empty", "error", err, "size", len(data))
		s.metrics.ObserveLoad(metrics.LoadCorrupt)
		return NewSnapshot(), nil
	}
	s.metrics.ObserveLoad(metrics.LoadStored)
	return snap, nil
}

// LoadShared is Load with concurrent callers sharing one gateway read. The
// result may be shared and must not be mutated.
func (s *Store) LoadShared(ctx context.Context) *Snapshot {
	v, _, _ := s.group.Do(s.key, func() (interface{}, error) {
		return s.Load(ctx), nil
	})
	return v.(*Snapshot)
}

// Persist writes snap under the namespace key. Gateway errors are returned
// as-is.
func (s *Store) Persist(ctx context.Context, snap *Snapshot) error {
	data, err := snap.Encode()
	if err != nil {
		s.metrics.ObservePersist(0, err)
		return err
	}
	if err := s.gateway.Set(ctx, s.key, string(data)); err != nil {
		s.logger.Error("snapshot write failed", "error", err, "size", len(data))
		s.metrics.ObservePersist(0, err)
		return err
	}
	s.metrics.ObservePersist(len(data), nil)
	return nil
}

// lock serializes load-mutate-persist sections on one storage key within the
// process, across every Store sharing that key. Entries are reference
// counted and dropped once no caller holds or waits on the key.
func (s *Store) lock() (unlock func()) {
	namespaceLocks.mu.Lock()
	l, ok := namespaceLocks.keys[s.key]
	if !ok {
		l = &keyLock{}
		namespaceLocks.keys[s.key] = l
	}
	l.refs++
	namespaceLocks.mu.Unlock()

	l.mu.Lock()
	return func() {
		l.mu.Unlock()
		namespaceLocks.mu.Lock()
		if l.refs--; l.refs == 0 {
			delete(namespaceLocks.keys, s.key)
		}
		namespaceLocks.mu.Unlock()
	}
}

type keyLock struct {
	mu   sync.Mutex
	refs int
}

var namespaceLocks = struct {
	mu   sync.Mutex
	keys map[string]*keyLock
}{keys: make(map[string]*keyLock)}
