package reads

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestWriteReadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	basename := dir + "/sample"

	w, err := Create(basename, 2) // force a chunk boundary mid-stream
	require.NoError(t, err)

	require.NoError(t, w.AppendEntry(0, 4))
	require.NoError(t, w.SetSequence([]byte("ACGT")))
	require.NoError(t, w.SetQualityScores([]byte{30, 31, 32, 33}))
	require.NoError(t, w.SetIdentifier("read-0"))

	require.NoError(t, w.AppendEntry(1, 3))
	require.NoError(t, w.SetSequence([]byte("TTT")))
	require.NoError(t, w.SetDescription("a short read"))

	require.NoError(t, w.AppendEntry(2, 5))
	require.NoError(t, w.SetSequence([]byte("GGCCA")))

	require.NoError(t, w.Close())

	r, err := Open(basename)
	require.NoError(t, err)
	defer r.Close()

	var got []string
	for {
		e, ok, err := r.Next()
		require.NoError(t, err)
		if !ok {
			break
		}
		got = append(got, string(e.Sequence))
	}
	require.NoError(t, r.Err())
	require.Equal(t, []string{"ACGT", "TTT", "GGCCA"}, got)
}

func TestReaderOnEmptyStream(t *testing.T) {
	dir := t.TempDir()
	basename := dir + "/empty"

	w, err := Create(basename, 10)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	r, err := Open(basename)
	require.NoError(t, err)
	defer r.Close()

	_, ok, err := r.Next()
	require.NoError(t, err)
	require.False(t, ok)
	require.NoError(t, r.Err())
}

func TestSetterWithoutActiveEntryFails(t *testing.T) {
	dir := t.TempDir()
	basename := dir + "/noentry"

	w, err := Create(basename, 10)
	require.NoError(t, err)
	defer w.Close()

	err = w.SetSequence([]byte("ACGT"))
	require.Error(t, err)
}
