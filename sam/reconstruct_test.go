package sam

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/gitter-badger/goby"
)

type recordedVariation struct {
	readIndex, refPosition uint32
	from, to               byte
	hasQual                bool
	qualChar               byte
}

type recordingSink struct {
	variations []recordedVariation
}

func (s *recordingSink) AddSequenceVariation(readIndex, refPosition uint32, refChar, readChar byte, hasQual bool, qualChar byte) error {
	s.variations = append(s.variations, recordedVariation{readIndex, refPosition, refChar, readChar, hasQual, qualChar})
	return nil
}

func TestConstructRefAndQuerySingleSubstitution(t *testing.T) {
	h := NewSamHelper()
	require.NoError(t, h.SetCigar("5M"))
	h.SetMD("2A2")
	h.SetQuery([]byte("ACGGT"), []byte("IIIII"), false)

	rec, err := h.ConstructRefAndQuery()
	require.NoError(t, err)
	require.Equal(t, "ACAGT", string(rec.ConstructedRef()))
	require.Equal(t, "ACGGT", string(rec.ConstructedQuery()))

	sink := &recordingSink{}
	matches, subs, inserts, deletes, err := rec.OutputSequenceVariations(sink)
	require.NoError(t, err)
	require.Equal(t, 4, matches)
	require.Equal(t, 1, subs)
	require.Equal(t, 0, inserts)
	require.Equal(t, 0, deletes)

	require.Len(t, sink.variations, 1)
	require.Equal(t, recordedVariation{readIndex: 2, refPosition: 2, from: 'A', to: 'G', hasQual: true, qualChar: 'I'}, sink.variations[0])
}

// recordingSink does not coalesce, so this checks that the deletion
// run's two records carry consecutive read indices, which is what lets
// a coalescing sink such as alignments.Writer merge them into one.
func TestConstructRefAndQueryDeletionRunCoalesces(t *testing.T) {
	h := NewSamHelper()
	require.NoError(t, h.SetCigar("3M2D3M"))
	h.SetMD("3^AC3")
	h.SetQuery([]byte("GGGTTT"), []byte("IIIIII"), false)

	rec, err := h.ConstructRefAndQuery()
	require.NoError(t, err)
	require.Equal(t, "GGGACTTT", string(rec.ConstructedRef()))
	require.Equal(t, "GGG--TTT", string(rec.ConstructedQuery()))

	sink := &recordingSink{}
	matches, subs, inserts, deletes, err := rec.OutputSequenceVariations(sink)
	require.NoError(t, err)
	require.Equal(t, 6, matches)
	require.Equal(t, 0, subs)
	require.Equal(t, 0, inserts)
	require.Equal(t, 2, deletes)
	require.Len(t, sink.variations, 2)
	require.Equal(t, uint32(3), sink.variations[0].readIndex)
	require.Equal(t, uint32(4), sink.variations[1].readIndex)
}

// As above for an insertion run: two records with consecutive read
// indices, left for the sink to coalesce.
func TestConstructRefAndQueryInsertionCoalesces(t *testing.T) {
	h := NewSamHelper()
	require.NoError(t, h.SetCigar("3M2I3M"))
	h.SetMD("6")
	h.SetQuery([]byte("GGGACTTT"), []byte("IIIIIIII"), false)

	rec, err := h.ConstructRefAndQuery()
	require.NoError(t, err)
	require.Equal(t, "GGG--TTT", string(rec.ConstructedRef()))
	require.Equal(t, "GGGACTTT", string(rec.ConstructedQuery()))

	sink := &recordingSink{}
	_, _, inserts, _, err := rec.OutputSequenceVariations(sink)
	require.NoError(t, err)
	require.Equal(t, 2, inserts)
	require.Len(t, sink.variations, 2)
	require.Equal(t, uint32(3), sink.variations[0].readIndex)
	require.Equal(t, uint32(4), sink.variations[1].readIndex)
}

func TestConstructRefAndQueryCigar4M1I3M(t *testing.T) {
	// Counts hand-verified for this cigar+MD pair.
	h := NewSamHelper()
	require.NoError(t, h.SetCigar("4M1I3M"))
	h.SetMD("3C3")
	h.SetQuery([]byte("ACGTAAGTT"), []byte("IIIIIIIII"), false)

	rec, err := h.ConstructRefAndQuery()
	require.NoError(t, err)
	require.Equal(t, "ACGC-AGT", string(rec.ConstructedRef()))
	require.Equal(t, "ACGTAAGT", string(rec.ConstructedQuery()))

	sink := &recordingSink{}
	matches, subs, inserts, deletes, err := rec.OutputSequenceVariations(sink)
	require.NoError(t, err)
	require.Equal(t, 6, matches)
	require.Equal(t, 1, subs)
	require.Equal(t, 1, inserts)
	require.Equal(t, 0, deletes)
}

func TestConstructRefAndQueryReverseStrandKeepsMonotonicReadIndex(t *testing.T) {
	h := NewSamHelper()
	require.NoError(t, h.SetCigar("4M"))
	h.SetMD("1A2")
	// Forward-strand query "ACGG"; reverse-complemented for reconstruction
	// is "CCGT".
	h.SetQuery([]byte("ACGG"), []byte("IIII"), true)

	rec, err := h.ConstructRefAndQuery()
	require.NoError(t, err)
	require.Equal(t, "CAGT", string(rec.ConstructedRef()))
	require.Equal(t, "CCGT", string(rec.ConstructedQuery()))

	sink := &recordingSink{}
	_, subs, _, _, err := rec.OutputSequenceVariations(sink)
	require.NoError(t, err)
	require.Equal(t, 1, subs)
	require.Len(t, sink.variations, 1)
	// Working-orientation position 1 (0-based) maps back to original
	// read position len(query)-1-1 = 2.
	require.EqualValues(t, 2, sink.variations[0].readIndex)
}

func TestConstructRefAndQueryReverseStrandMultipleVariationsStayOrdered(t *testing.T) {
	h := NewSamHelper()
	require.NoError(t, h.SetCigar("4M"))
	h.SetMD("0A0A0A0A")
	h.SetQuery([]byte("ACGT"), []byte("IIII"), true)

	rec, err := h.ConstructRefAndQuery()
	require.NoError(t, err)

	// The working query is "ACGT" (the reverse complement of "ACGT") and
	// the MD reference bases are all 'A', so position 0 is a match and
	// only the other three positions are substitutions.
	sink := &recordingSink{}
	_, subs, _, _, err := rec.OutputSequenceVariations(sink)
	require.NoError(t, err)
	require.Equal(t, 3, subs)

	var lastIdx uint32
	for i, v := range sink.variations {
		if i > 0 {
			require.Greaterf(t, v.readIndex, lastIdx, "variation %d out of order", i)
		}
		lastIdx = v.readIndex
	}
}

func TestCigarMDMismatchErrors(t *testing.T) {
	h := NewSamHelper()
	require.NoError(t, h.SetCigar("5M"))
	h.SetMD("3") // too short: only covers 3 of 5 ref-consuming bases
	h.SetQuery([]byte("ACGGT"), []byte("IIIII"), false)

	_, err := h.ConstructRefAndQuery()
	require.Error(t, err)
	var samErr *goby.SamReconstructError
	require.ErrorAs(t, err, &samErr)
}
