package frecency

import (
	"context"
	"errors"
	"sync"
	"testing"
)

const now = int64(1_700_000_000_000)

type mapGateway struct {
	mu      sync.Mutex
	data    map[string]string
	getErr  error
	// getFailures fails that many reads with errTimeout before recovering.
	getFailures int
	setErr  error
	sets    int
	lastKey string
}

func newMapGateway() *mapGateway {
	return &mapGateway{data: make(map[string]string)}
}

func (g *mapGateway) Get(_ context.Context, key string) (string, bool, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.getErr != nil {
		return "", false, g.getErr
	}
	if g.getFailures > 0 {
		g.getFailures--
		return "", false, errTimeout
	}
	v, ok := g.data[key]
	return v, ok, nil
}

func (g *mapGateway) Set(_ context.Context, key, value string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.setErr != nil {
		return g.setErr
	}
	g.sets++
	g.lastKey = key
	g.data[key] = value
	return nil
}

var (
	errQuota   = errors.New("quota exceeded")
	errTimeout = errors.New("i/o timeout")
)

func newRecorder(limit int) recorder {
	return recorder{
		timestampsLimit:       DefaultTimestampsLimit,
		recentSelectionsLimit: limit,
		retention:             RetainNewest,
	}
}

// checkInvariants asserts the cross-reference invariants of a snapshot.
func checkInvariants(t *testing.T, s *Snapshot, limit int) {
	t.Helper()
	if len(s.RecentSelections) > limit {
		t.Fatalf("recent selections %d exceed limit %d", len(s.RecentSelections), limit)
	}
	seen := make(map[string]bool)
	for _, id := range s.RecentSelections {
		if seen[id] {
			t.Fatalf("duplicate recent selection %q", id)
		}
		seen[id] = true
		if _, ok := s.Selections[id]; !ok {
			t.Fatalf("recent selection %q has no id history", id)
		}
	}
	for id, entry := range s.Selections {
		for q := range entry.Queries {
			if s.Queries.find(q, id) == nil {
				t.Fatalf("id %q lists query %q without a query entry", id, q)
			}
		}
	}
	for _, q := range s.Queries.keys {
		if len(s.Queries.entries[q]) == 0 {
			t.Fatalf("query %q kept with no entries", q)
		}
	}
}
