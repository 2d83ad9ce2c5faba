package frecency

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTouchMovesExistingToFront(t *testing.T) {
	s := NewSnapshot()
	r := newRecorder(3)
	r.record(s, "q", "a", now)
	r.record(s, "q", "b", now)
	r.record(s, "q", "c", now)
	require.Equal(t, []string{"c", "b", "a"}, s.RecentSelections)

	victims := r.record(s, "q", "a", now)
	require.Empty(t, victims)
	require.Equal(t, []string{"a", "c", "b"}, s.RecentSelections)
	require.Len(t, s.Selections, 3)
}

func TestEvictionWithLimitOne(t *testing.T) {
	s := NewSnapshot()
	r := newRecorder(1)
	r.record(s, "q1", "a", now)
	victims := r.record(s, "q2", "b", now+1)

	require.Equal(t, []string{"a"}, victims)
	require.Equal(t, []string{"b"}, s.RecentSelections)
	require.NotContains(t, s.Selections, "a")
	require.Nil(t, s.Queries.Get("q1"))
	require.Equal(t, []string{"q2"}, s.Queries.Keys())
	checkInvariants(t, s, 1)
}

func TestEvictionPurgesSharedQueries(t *testing.T) {
	s := NewSnapshot()
	r := newRecorder(2)
	r.record(s, "apple", "a", now)
	r.record(s, "apricot", "a", now)
	r.record(s, "apple", "b", now)
	victims := r.record(s, "banana", "c", now)

	require.Equal(t, []string{"a"}, victims)
	require.Equal(t, []string{"c", "b"}, s.RecentSelections)
	require.Nil(t, s.Queries.Get("apricot"))
	require.Len(t, s.Queries.Get("apple"), 1)
	require.Equal(t, "b", s.Queries.Get("apple")[0].ID)
	require.Equal(t, []string{"apple", "banana"}, s.Queries.Keys())
	checkInvariants(t, s, 2)
}

func TestEvictionVictimWithoutHistory(t *testing.T) {
	s := NewSnapshot()
	s.RecentSelections = []string{"ghost"}
	victims := touch(s, "a", 1)

	require.Equal(t, []string{"ghost"}, victims)
	require.Equal(t, []string{"a"}, s.RecentSelections)
}

func TestTouchShrinksAfterLimitLowered(t *testing.T) {
	s := NewSnapshot()
	r := newRecorder(5)
	for _, id := range []string{"a", "b", "c", "d", "e"} {
		r.record(s, "q-"+id, id, now)
	}

	victims := newRecorder(2).record(s, "q-c", "c", now)
	require.Equal(t, []string{"a", "b", "d"}, victims)
	require.Equal(t, []string{"c", "e"}, s.RecentSelections)
	require.Equal(t, []string{"q-c", "q-e"}, s.Queries.Keys())
	checkInvariants(t, s, 2)
}

func TestEvictionInvariantsHoldForRandomSelections(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for _, limit := range []int{1, 3, 10} {
		t.Run(fmt.Sprintf("limit_%d", limit), func(t *testing.T) {
			s := NewSnapshot()
			r := recorder{timestampsLimit: 4, recentSelectionsLimit: limit, retention: RetainNewest}
			for i := 0; i < 500; i++ {
				query := fmt.Sprintf("q%d", rng.Intn(8))
				id := fmt.Sprintf("id%d", rng.Intn(20))
				victims := r.record(s, query, id, now+int64(i))
				require.Equal(t, id, s.RecentSelections[0])
				for _, v := range victims {
					require.NotContains(t, s.Selections, v)
					for _, q := range s.Queries.keys {
						require.Nil(t, s.Queries.find(q, v), "victim %s still under %s", v, q)
					}
				}
				checkInvariants(t, s, limit)
			}
		})
	}
}
