package gobypb

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTooManyHitsEntryRoundTrip(t *testing.T) {
	e := &TooManyHitsEntry{QueryIndex: 7, AlignedLength: 36, NumberOfHits: 250}
	b, err := e.Marshal()
	require.NoError(t, err)
	got := &TooManyHitsEntry{}
	require.NoError(t, got.Unmarshal(b))
	require.Equal(t, e, got)
}

func TestTooManyHitsCollectionRoundTrip(t *testing.T) {
	c := &TooManyHitsCollection{}
	e1 := c.AppendRecord()
	e1.QueryIndex, e1.AlignedLength, e1.NumberOfHits = 1, 36, 200
	e2 := c.AppendRecord()
	e2.QueryIndex, e2.AlignedLength, e2.NumberOfHits = 2, 36, 400

	require.Equal(t, 2, c.Len())
	require.Equal(t, e1, c.RecordAt(0))

	b, err := c.Marshal()
	require.NoError(t, err)
	got := &TooManyHitsCollection{}
	require.NoError(t, got.Unmarshal(b))
	require.Equal(t, c.Entries, got.Entries)

	c.Reset()
	require.Equal(t, 0, c.Len())
}
