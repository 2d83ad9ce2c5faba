package frecency

import (
	"strings"
)

const (
	hour = int64(60 * 60 * 1000)
	day  = 24 * hour

	prefixWeight = 0.7
	globalWeight = 0.5
)

// Score returns the frecency score of id for query at now (epoch ms). An exact
// query match wins over a prefix match, which wins over the id's global
// history; the latter two are scaled down. Zero means no history matched.
func Score(s *Snapshot, id, query string, now int64) float64 {
	if e := s.Queries.find(query, id); e != nil {
		return decay(e.SelectedAt, e.TimesSelected, now)
	}

	prefix := strings.ToLower(query)
	for _, q := range s.Queries.keys {
		if !strings.HasPrefix(strings.ToLower(q), prefix) {
			continue
		}
		if e := s.Queries.find(q, id); e != nil {
			return prefixWeight * decay(e.SelectedAt, e.TimesSelected, now)
		}
	}

	if e, ok := s.Selections[id]; ok {
		return globalWeight * decay(e.SelectedAt, e.TimesSelected, now)
	}
	return 0
}

// decay averages a time-bucketed weight over the timestamps and scales it by
// the total selection count.
func decay(timestamps []int64, timesSelected int, now int64) float64 {
	if len(timestamps) == 0 {
		return 0
	}
	var total float64
	for _, ts := range timestamps {
		total += bucketWeight(now - ts)
	}
	return float64(timesSelected) * (total / float64(len(timestamps)))
}

func bucketWeight(age int64) float64 {
	switch {
	case age <= 3*hour:
		return 100
	case age <= day:
		return 80
	case age <= 3*day:
		return 60
	case age <= 7*day:
		return 30
	case age <= 14*day:
		return 10
	default:
		return 0
	}
}
