package frecency

import (
	"fmt"
	"testing"
)

// BenchmarkRank measures scoring and reordering against a full history for
// result lists of varying size.
func BenchmarkRank(b *testing.B) {
	s := NewSnapshot()
	r := newRecorder(DefaultRecentSelectionsLimit)
	for i := 0; i < 1000; i++ {
		r.record(s, fmt.Sprintf("query %d", i%50), fmt.Sprintf("doc-%d", i%150), now-int64(i)*hour)
	}

	for _, size := range []int{10, 100, 1000} {
		b.Run(fmt.Sprintf("results_%d", size), func(b *testing.B) {
			results := make([]result, size)
			for i := range results {
				results[i] = result{ID: fmt.Sprintf("doc-%d", i)}
			}
			b.ReportAllocs()
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				ranked := Rank(s, "query 1", results, resultID, now)
				_ = ranked
			}
		})
	}
}

// BenchmarkRecord measures one selection including eviction at capacity.
func BenchmarkRecord(b *testing.B) {
	s := NewSnapshot()
	r := newRecorder(DefaultRecentSelectionsLimit)
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		r.record(s, fmt.Sprintf("query %d", i%40), fmt.Sprintf("doc-%d", i%250), now+int64(i))
	}
}

// BenchmarkSnapshotCodec measures encoding and decoding a full snapshot.
func BenchmarkSnapshotCodec(b *testing.B) {
	s := NewSnapshot()
	r := newRecorder(DefaultRecentSelectionsLimit)
	for i := 0; i < 2000; i++ {
		r.record(s, fmt.Sprintf("query %d", i%60), fmt.Sprintf("doc-%d", i%100), now+int64(i))
	}
	data, err := s.Encode()
	if err != nil {
		b.Fatal(err)
	}

	b.Run("encode", func(b *testing.B) {
		b.ReportAllocs()
		for i := 0; i < b.N; i++ {
			if _, err := s.Encode(); err != nil {
				b.Fatal(err)
			}
		}
	})
	b.Run("decode", func(b *testing.B) {
		b.SetBytes(int64(len(data)))
		b.ReportAllocs()
		for i := 0; i < b.N; i++ {
			if _, err := Decode(data); err != nil {
				b.Fatal(err)
			}
		}
	})
}
