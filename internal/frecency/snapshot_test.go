package frecency

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSnapshotRoundTrip(t *testing.T) {
	r := newRecorder(10)
	s := NewSnapshot()
	r.record(s, "zebra", "1", now)
	r.record(s, "apples", "42", now+1)
	r.record(s, "apples", "42", now+2)
	r.record(s, "apples", "7", now+3)

	data, err := s.Encode()
	require.NoError(t, err)

	got, err := Decode(data)
	require.NoError(t, err)
	require.Equal(t, s, got)
	require.Equal(t, []string{"zebra", "apples"}, got.Queries.Keys())
}

func TestSnapshotWireFormat(t *testing.T) {
	s := NewSnapshot()
	newRecorder(10).record(s, "apples", "42", now)

	data, err := s.Encode()
	require.NoError(t, err)
	require.JSONEq(t, `{
		"queries": {"apples": [{"id": "42", "timesSelected": 1, "selectedAt": [1700000000000]}]},
		"selections": {"42": {"timesSelected": 1, "selectedAt": [1700000000000], "queries": {"apples": true}}},
		"recentSelections": ["42"]
	}`, string(data))
}

func TestDecodeKeepsDocumentKeyOrder(t *testing.T) {
	data := `{"queries":{"b":[{"id":"1","timesSelected":1,"selectedAt":[1]}],"a":[{"id":"2","timesSelected":1,"selectedAt":[1]}],"c":[]},"selections":{},"recentSelections":[]}`
	s, err := Decode([]byte(data))
	require.NoError(t, err)
	require.Equal(t, []string{"b", "a"}, s.Queries.Keys())

	out, err := s.Encode()
	require.NoError(t, err)
	require.Contains(t, string(out), `{"b":[`)
	require.NotContains(t, string(out), `"c"`)
}

func TestDecodeDropsEmptyQueries(t *testing.T) {
	data := `{"queries":{"c":[],"d":[null],"a":[{"id":"1","timesSelected":1,"selectedAt":[1]}]},` +
		`"selections":{"1":{"timesSelected":1,"selectedAt":[1],"queries":{"a":true,"c":true,"d":true}}},` +
		`"recentSelections":["1"]}`
	s, err := Decode([]byte(data))
	require.NoError(t, err)
	require.Equal(t, []string{"a"}, s.Queries.Keys())
	require.Equal(t, map[string]bool{"a": true}, s.Selections["1"].Queries)
	checkInvariants(t, s, 10)
}

func TestDecodeNullMembers(t *testing.T) {
	s, err := Decode([]byte(`{"queries":null,"selections":{"x":{"timesSelected":1,"selectedAt":[1]}},"recentSelections":null}`))
	require.NoError(t, err)
	require.Equal(t, 0, s.Queries.Len())
	require.NotNil(t, s.Selections["x"].Queries)
	require.Empty(t, s.RecentSelections)

	s, err = Decode([]byte(`{}`))
	require.NoError(t, err)
	require.Equal(t, NewSnapshot(), s)
}

func TestDecodeRejectsMalformed(t *testing.T) {
	for _, data := range []string{
		`not json`,
		`{"queries":[]}`,
		`{"queries":{"a":"b"}}`,
		`{"recentSelections":"x"}`,
		`{"queries":{"a":[{"id":"1"}]`,
	} {
		_, err := Decode([]byte(data))
		require.Error(t, err, data)
	}
}

func TestCloneIsIndependent(t *testing.T) {
	r := newRecorder(10)
	s := NewSnapshot()
	r.record(s, "apples", "42", now)

	c := s.Clone()
	require.Equal(t, s, c)

	r.record(c, "apples", "42", now+1)
	r.record(c, "pears", "9", now+2)

	require.Equal(t, 1, s.Queries.Get("apples")[0].TimesSelected)
	require.Len(t, s.Queries.Get("apples")[0].SelectedAt, 1)
	require.Nil(t, s.Queries.Get("pears"))
	require.Equal(t, []string{"42"}, s.RecentSelections)
	require.Len(t, s.Selections["42"].Queries, 1)
}
