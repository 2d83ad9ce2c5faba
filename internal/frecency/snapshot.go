package frecency

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// QueryEntry is the history of one result id under one query.
type QueryEntry struct {
	ID            string  `json:"id"`
	TimesSelected int     `json:"timesSelected"`
	SelectedAt    []int64 `json:"selectedAt"`
}

// IDEntry is the history of one result id across every query.
type IDEntry struct {
	TimesSelected int             `json:"timesSelected"`
	SelectedAt    []int64         `json:"selectedAt"`
	Queries       map[string]bool `json:"queries"`
}

// Snapshot is the complete frecency dataset for one namespace.
type Snapshot struct {
	Queries          QueryHistory        `json:"queries"`
	Selections       map[string]*IDEntry `json:"selections"`
	RecentSelections []string            `json:"recentSelections"`
}

// NewSnapshot returns an empty snapshot.
func NewSnapshot() *Snapshot {
	s := &Snapshot{}
	s.normalize()
	return s
}

func (s *Snapshot) normalize() {
	if s.Queries.entries == nil {
		s.Queries.entries = make(map[string][]*QueryEntry)
	}
	if s.Queries.keys == nil {
		s.Queries.keys = []string{}
	}
	if s.Selections == nil {
		s.Selections = make(map[string]*IDEntry)
	}
	for id, entry := range s.Selections {
		if entry == nil {
			delete(s.Selections, id)
			continue
		}
		if entry.Queries == nil {
			entry.Queries = make(map[string]bool)
		}
		for q := range entry.Queries {
			if s.Queries.find(q, id) == nil {
				delete(entry.Queries, q)
			}
		}
	}
	if s.RecentSelections == nil {
		s.RecentSelections = []string{}
	}
}

// Clone returns a deep copy of s.
func (s *Snapshot) Clone() *Snapshot {
	out := NewSnapshot()
	for _, q := range s.Queries.keys {
		entries := s.Queries.entries[q]
		copied := make([]*QueryEntry, len(entries))
		for i, e := range entries {
			copied[i] = &QueryEntry{
				ID:            e.ID,
				TimesSelected: e.TimesSelected,
				SelectedAt:    copyTimestamps(e.SelectedAt),
			}
		}
		out.Queries.set(q, copied)
	}
	for id, e := range s.Selections {
		queries := make(map[string]bool, len(e.Queries))
		for q := range e.Queries {
			queries[q] = true
		}
		out.Selections[id] = &IDEntry{
			TimesSelected: e.TimesSelected,
			SelectedAt:    copyTimestamps(e.SelectedAt),
			Queries:       queries,
		}
	}
	out.RecentSelections = append(out.RecentSelections, s.RecentSelections...)
	return out
}

// Encode serializes the snapshot in its storage format.
func (s *Snapshot) Encode() ([]byte, error) {
	return json.Marshal(s)
}

// Decode parses a stored snapshot. Missing or null members decode to empty
// collections.
func Decode(data []byte) (*Snapshot, error) {
	s := &Snapshot{}
	if err := json.Unmarshal(data, s); err != nil {
		return nil, err
	}
	s.normalize()
	return s, nil
}

// QueryHistory maps a query to its entries and remembers the order in which
// queries were first recorded.
type QueryHistory struct {
	keys    []string
	entries map[string][]*QueryEntry
}

// Keys returns the queries in first-recorded order.
func (h *QueryHistory) Keys() []string {
	return append([]string(nil), h.keys...)
}

// Get returns the entries recorded under query.
func (h *QueryHistory) Get(query string) []*QueryEntry {
	return h.entries[query]
}

func (h *QueryHistory) Len() int {
	return len(h.keys)
}

// find returns the entry for id under query, or nil.
func (h *QueryHistory) find(query, id string) *QueryEntry {
	for _, e := range h.entries[query] {
		if e.ID == id {
			return e
		}
	}
	return nil
}

func (h *QueryHistory) append(query string, entry *QueryEntry) {
	if _, ok := h.entries[query]; !ok {
		h.keys = append(h.keys, query)
	}
	h.entries[query] = append(h.entries[query], entry)
}

func (h *QueryHistory) set(query string, entries []*QueryEntry) {
	if _, ok := h.entries[query]; !ok {
		h.keys = append(h.keys, query)
	}
	h.entries[query] = entries
}

func (h *QueryHistory) delete(query string) {
	if _, ok := h.entries[query]; !ok {
		return
	}
	delete(h.entries, query)
	for i, k := range h.keys {
		if k == query {
			h.keys = append(h.keys[:i], h.keys[i+1:]...)
			break
		}
	}
}

// MarshalJSON writes queries as a JSON object in first-recorded order.
func (h QueryHistory) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, q := range h.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(q)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		entries := h.entries[q]
		if entries == nil {
			entries = []*QueryEntry{}
		}
		val, err := json.Marshal(entries)
		if err != nil {
			return nil, err
		}
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON reads a JSON object, keeping the document's key order.
func (h *QueryHistory) UnmarshalJSON(data []byte) error {
	h.keys = []string{}
	h.entries = make(map[string][]*QueryEntry)
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		return nil
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("queries: expected object, got %v", tok)
	}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		query, ok := tok.(string)
		if !ok {
			return fmt.Errorf("queries: expected key, got %v", tok)
		}
		var entries []*QueryEntry
		if err := dec.Decode(&entries); err != nil {
			return fmt.Errorf("queries[%q]: %w", query, err)
		}
		kept := entries[:0]
		for _, e := range entries {
			if e != nil {
				kept = append(kept, e)
			}
		}
		if len(kept) == 0 {
			h.delete(query)
			continue
		}
		if _, seen := h.entries[query]; !seen {
			h.keys = append(h.keys, query)
		}
		h.entries[query] = kept
	}
	_, err = dec.Token()
	return err
}
