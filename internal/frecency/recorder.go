package frecency

import (
	"fmt"

	apperrors "github.com/Adithya-Monish-Kumar-K/search-frecency/pkg/errors"
)

// Retention decides which timestamps survive once a result is selected again.
type Retention int

const (
	// RetainNewest keeps the newest TimestampsLimit timestamps.
	RetainNewest Retention = iota
	// DropOldest always discards the earliest timestamp after appending and
	// keeps at most TimestampsLimit. Histories written this way never hold
	// more than one timestamp; it exists for data shared with older clients.
	DropOldest
)

func (r Retention) String() string {
	switch r {
	case RetainNewest:
		return "newest"
	case DropOldest:
		return "legacy"
	default:
		return fmt.Sprintf("Retention(%d)", int(r))
	}
}

// ParseRetention maps a config value to a Retention. Empty means RetainNewest.
func ParseRetention(s string) (Retention, error) {
	switch s {
	case "", "newest":
		return RetainNewest, nil
	case "legacy":
		return DropOldest, nil
	default:
		return RetainNewest, apperrors.Newf(apperrors.ErrConfiguration, "frecency.ParseRetention", "unknown retention %q", s)
	}
}

func (r Retention) trim(ts []int64, limit int) []int64 {
	switch r {
	case DropOldest:
		end := limit + 1
		if end > len(ts) {
			end = len(ts)
		}
		if end < 1 {
			return []int64{}
		}
		return copyTimestamps(ts[1:end])
	default:
		if len(ts) <= limit {
			return ts
		}
		return copyTimestamps(ts[len(ts)-limit:])
	}
}

func copyTimestamps(ts []int64) []int64 {
	out := make([]int64, len(ts))
	copy(out, ts)
	return out
}

type recorder struct {
	timestampsLimit       int
	recentSelectionsLimit int
	retention             Retention
}

// record applies one selection to s and enforces the tracked-id bound. It
// returns the evicted ids, if any.
func (r recorder) record(s *Snapshot, query, id string, now int64) (victims []string) {
	if query == "" || id == "" {
		return nil
	}
	r.updateByQuery(s, query, id, now)
	r.updateByID(s, query, id, now)
	return touch(s, id, r.recentSelectionsLimit)
}

func (r recorder) updateByQuery(s *Snapshot, query, id string, now int64) {
	entry := s.Queries.find(query, id)
	if entry == nil {
		s.Queries.append(query, &QueryEntry{
			ID:            id,
			TimesSelected: 1,
			SelectedAt:    []int64{now},
		})
		return
	}
	entry.TimesSelected++
	entry.SelectedAt = r.retention.trim(append(entry.SelectedAt, now), r.timestampsLimit)
}

func (r recorder) updateByID(s *Snapshot, query, id string, now int64) {
	entry, ok := s.Selections[id]
	if !ok {
		s.Selections[id] = &IDEntry{
			TimesSelected: 1,
			SelectedAt:    []int64{now},
			Queries:       map[string]bool{query: true},
		}
		return
	}
	entry.TimesSelected++
	entry.SelectedAt = r.retention.trim(append(entry.SelectedAt, now), r.timestampsLimit)
	entry.Queries[query] = true
}
