package gobypb

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestReadEntryMarshalUnmarshalRoundTrip(t *testing.T) {
	entry := &ReadEntry{
		ReadIndex:      5,
		ReadLength:     4,
		Sequence:       []byte("ACGT"),
		HasSequence:    true,
		QualityScores:  []byte("IIII"),
		HasQuality:     true,
		ReadIdentifier: "read-5",
		HasIdentifier:  true,
		Description:    "sample read",
		HasDescription: true,
	}
	b, err := entry.Marshal()
	require.NoError(t, err)

	got := &ReadEntry{}
	require.NoError(t, got.Unmarshal(b))
	require.Equal(t, entry, got)
}

func TestReadEntryOptionalFieldsOmittedWhenAbsent(t *testing.T) {
	entry := &ReadEntry{ReadIndex: 1, ReadLength: 0}
	b, err := entry.Marshal()
	require.NoError(t, err)

	got := &ReadEntry{}
	require.NoError(t, got.Unmarshal(b))
	require.False(t, got.HasSequence)
	require.False(t, got.HasQuality)
	require.False(t, got.HasIdentifier)
	require.False(t, got.HasDescription)
}

func TestReadCollectionMarshalUnmarshalRoundTrip(t *testing.T) {
	c := &ReadCollection{}
	e1 := c.AppendRecord()
	e1.ReadIndex = 0
	e1.Sequence, e1.HasSequence = []byte("AC"), true

	e2 := c.AppendRecord()
	e2.ReadIndex = 1
	e2.Sequence, e2.HasSequence = []byte("GT"), true

	require.Equal(t, 2, c.Len())
	require.Equal(t, e1, c.RecordAt(0))

	b, err := c.Marshal()
	require.NoError(t, err)

	got := &ReadCollection{}
	require.NoError(t, got.Unmarshal(b))
	require.Equal(t, c.Reads, got.Reads)
}

func TestReadCollectionReset(t *testing.T) {
	c := &ReadCollection{}
	c.AppendRecord()
	c.AppendRecord()
	require.Equal(t, 2, c.Len())
	c.Reset()
	require.Equal(t, 0, c.Len())
}
