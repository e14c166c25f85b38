package sam

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseMD(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want []mdToken
	}{
		{"pure match", "8", []mdToken{{Kind: mdMatch, Length: 8}}},
		{"match mismatch match", "2A2", []mdToken{
			{Kind: mdMatch, Length: 2}, {Kind: mdMismatch, Length: 1, Bases: "A"}, {Kind: mdMatch, Length: 2},
		}},
		{"deletion run", "3^AC3", []mdToken{
			{Kind: mdMatch, Length: 3}, {Kind: mdDeletion, Length: 2, Bases: "AC"}, {Kind: mdMatch, Length: 3},
		}},
		{"leading zero match omitted", "0A3", []mdToken{
			{Kind: mdMismatch, Length: 1, Bases: "A"}, {Kind: mdMatch, Length: 3},
		}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got, err := parseMD(c.in)
			require.NoError(t, err)
			require.Equal(t, c.want, got)
		})
	}
}

func TestParseMDErrors(t *testing.T) {
	cases := []string{"^", "3^", "3a3", "3#3"}
	for _, in := range cases {
		t.Run(in, func(t *testing.T) {
			_, err := parseMD(in)
			require.Error(t, err)
		})
	}
}

func TestMDWalkerMatchAndMismatch(t *testing.T) {
	w, err := newMDWalker("2A2")
	require.NoError(t, err)

	b, err := w.nextMatchOrMismatch('G')
	require.NoError(t, err)
	require.Equal(t, byte('G'), b)

	b, err = w.nextMatchOrMismatch('C')
	require.NoError(t, err)
	require.Equal(t, byte('C'), b)

	b, err = w.nextMatchOrMismatch('T')
	require.NoError(t, err)
	require.Equal(t, byte('A'), b)

	b, err = w.nextMatchOrMismatch('A')
	require.NoError(t, err)
	require.Equal(t, byte('A'), b)

	b, err = w.nextMatchOrMismatch('T')
	require.NoError(t, err)
	require.Equal(t, byte('T'), b)

	require.True(t, w.exhausted())
}

func TestMDWalkerDeletion(t *testing.T) {
	w, err := newMDWalker("3^AC3")
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		_, err := w.nextMatchOrMismatch('X')
		require.NoError(t, err)
	}

	bases, err := w.nextDeletion(2)
	require.NoError(t, err)
	require.Equal(t, "AC", bases)

	for i := 0; i < 3; i++ {
		_, err := w.nextMatchOrMismatch('X')
		require.NoError(t, err)
	}
	require.True(t, w.exhausted())
}

func TestMDWalkerDeletionLengthMismatch(t *testing.T) {
	w, err := newMDWalker("^AC")
	require.NoError(t, err)
	_, err = w.nextDeletion(3)
	require.Error(t, err)
}
