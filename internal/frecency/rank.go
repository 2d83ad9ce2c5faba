package frecency

import (
	"sort"
)

type scoredResult[T any] struct {
	result T
	score  float64
}

// Rank returns a new slice with results that have history ordered by
// descending score, followed by the rest in their original order. Equal
// scores keep their original relative order.
func Rank[T any](s *Snapshot, query string, results []T, idOf func(T) string, now int64) []T {
	ranked, _ := rank(s, query, results, idOf, now)
	return ranked
}

func rank[T any](s *Snapshot, query string, results []T, idOf func(T) string, now int64) ([]T, int) {
	scored := make([]scoredResult[T], 0, len(results))
	unscored := make([]T, 0, len(results))
	for _, r := range results {
		score := Score(s, idOf(r), query, now)
		if score > 0 {
			scored = append(scored, scoredResult[T]{result: r, score: score})
			continue
		}
		unscored = append(unscored, r)
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].score > scored[j].score
	})

	out := make([]T, 0, len(results))
	for _, sr := range scored {
		out = append(out, sr.result)
	}
	return append(out, unscored...), len(scored)
}
