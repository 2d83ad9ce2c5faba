package frecency

// touch moves id to the front of the recent-selection list. While the list is
// longer than limit, the least recently selected id is dropped and every
// trace of it is purged from s. Victims are returned oldest first.
//
// A stored list can only exceed limit by one after a new id is inserted,
// unless the limit was lowered since the snapshot was written.
func touch(s *Snapshot, id string, limit int) (victims []string) {
	if limit < 1 {
		limit = 1
	}

	recent := s.RecentSelections
	found := false
	for i, existing := range recent {
		if existing == id {
			copy(recent[1:i+1], recent[:i])
			recent[0] = id
			found = true
			break
		}
	}
	if !found {
		recent = append([]string{id}, recent...)
	}

	for len(recent) > limit {
		victim := recent[len(recent)-1]
		recent = recent[:len(recent)-1]
		purge(s, victim)
		victims = append(victims, victim)
	}
	s.RecentSelections = recent
	return victims
}

// purge removes victim from the id history and from every query it was
// selected under.
func purge(s *Snapshot, victim string) {
	entry, ok := s.Selections[victim]
	if !ok {
		return
	}
	delete(s.Selections, victim)

	for query := range entry.Queries {
		entries := s.Queries.Get(query)
		if entries == nil {
			continue
		}
		kept := make([]*QueryEntry, 0, len(entries))
		for _, e := range entries {
			if e.ID != victim {
				kept = append(kept, e)
			}
		}
		if len(kept) == 0 {
			s.Queries.delete(query)
			continue
		}
		s.Queries.set(query, kept)
	}
}
