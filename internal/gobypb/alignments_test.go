package gobypb

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSoftClipRoundTrip(t *testing.T) {
	sc := &SoftClip{Start: 1, Size: 3, Bases: []byte("ACG"), Qualities: []byte("III")}
	b, err := sc.Marshal()
	require.NoError(t, err)
	got := &SoftClip{}
	require.NoError(t, got.Unmarshal(b))
	require.Equal(t, sc, got)
}

func TestPlacedUnmappedRoundTrip(t *testing.T) {
	pu := &PlacedUnmapped{Sequence: []byte("ACGT"), Qualities: []byte("IIII"), ReverseComplemented: true}
	b, err := pu.Marshal()
	require.NoError(t, err)
	got := &PlacedUnmapped{}
	require.NoError(t, got.Unmarshal(b))
	require.Equal(t, pu, got)
}

func TestPairInfoRoundTrip(t *testing.T) {
	p := &PairInfo{Flags: 1, TargetIndex: 2, Position: 300, FragmentIndex: 1}
	b, err := p.Marshal()
	require.NoError(t, err)
	got := &PairInfo{}
	require.NoError(t, got.Unmarshal(b))
	require.Equal(t, p, got)
}

func TestSpliceInfoRoundTrip(t *testing.T) {
	s := &SpliceInfo{
		ForwardFlags: 1, ForwardTargetIndex: 2, ForwardPosition: 100,
		BackwardFlags: 3, BackwardTargetIndex: 4, BackwardPosition: 500,
	}
	b, err := s.Marshal()
	require.NoError(t, err)
	got := &SpliceInfo{}
	require.NoError(t, got.Unmarshal(b))
	require.Equal(t, s, got)
}

func TestSequenceVariationRoundTrip(t *testing.T) {
	v := &SequenceVariation{ReadIndex: 3, RefPosition: 3, From: "AC", To: "--", HasQual: false}
	b, err := v.Marshal()
	require.NoError(t, err)
	got := &SequenceVariation{}
	require.NoError(t, got.Unmarshal(b))
	require.Equal(t, v, got)
}

func TestSequenceVariationWithQualRoundTrip(t *testing.T) {
	v := &SequenceVariation{ReadIndex: 2, RefPosition: 2, From: "A", To: "G", HasQual: true, QualChars: []byte("I")}
	b, err := v.Marshal()
	require.NoError(t, err)
	got := &SequenceVariation{}
	require.NoError(t, got.Unmarshal(b))
	require.Equal(t, v, got)
}

func TestAlignmentEntryRoundTripFullyPopulated(t *testing.T) {
	e := &AlignmentEntry{
		QueryIndex: 10, HasQueryIndex: true,
		TargetIndex: 2, HasTargetIndex: true,
		Position: 1000, HasPosition: true,
		MatchingReverseStrand:    true,
		QueryPosition:            0,
		HasQueryPosition:         true,
		Score:                    97.5,
		HasScore:                 true,
		NumberOfMismatches:       1,
		HasNumberOfMismatches:    true,
		NumberOfIndels:           1,
		HasNumberOfIndels:        true,
		QueryAlignedLength:       36,
		HasQueryAlignedLength:    true,
		TargetAlignedLength:      36,
		HasTargetAlignedLength:   true,
		QueryLength:              36,
		HasQueryLength:           true,
		MappingQuality:           60,
		HasMappingQuality:        true,
		SoftClippedLeft:          &SoftClip{Start: 0, Size: 2, Bases: []byte("AC"), Qualities: []byte("II")},
		SoftClippedRight:         &SoftClip{Start: 34, Size: 2, Bases: []byte("GT"), Qualities: []byte("II")},
		PlacedUnmapped:           nil,
		Pair:                     &PairInfo{Flags: 1, TargetIndex: 2, Position: 2000, FragmentIndex: 1},
		Splice:                   nil,
		Multiplicity:             1,
		HasMultiplicity:          true,
		Ambiguity:                0,
		HasAmbiguity:             true,
		QueryIndexOccurrences:    1,
		HasQueryIndexOccurrences: true,
		SequenceVariations: []*SequenceVariation{
			{ReadIndex: 3, RefPosition: 3, From: "AC", To: "--"},
			{ReadIndex: 10, RefPosition: 10, From: "A", To: "G"},
		},
		FragmentIndex: 1, HasFragmentIndex: true,
		InsertSize: -150, HasInsertSize: true,
	}

	b, err := e.Marshal()
	require.NoError(t, err)
	got := &AlignmentEntry{}
	require.NoError(t, got.Unmarshal(b))
	require.Equal(t, e, got)
}

func TestAlignmentEntryOptionalFieldsAbsent(t *testing.T) {
	e := &AlignmentEntry{MatchingReverseStrand: false}
	b, err := e.Marshal()
	require.NoError(t, err)
	got := &AlignmentEntry{}
	require.NoError(t, got.Unmarshal(b))
	require.False(t, got.HasQueryIndex)
	require.False(t, got.HasTargetIndex)
	require.False(t, got.HasPosition)
	require.Nil(t, got.SoftClippedLeft)
	require.Nil(t, got.Pair)
	require.Empty(t, got.SequenceVariations)
}

func TestAlignmentCollectionRoundTrip(t *testing.T) {
	c := &AlignmentCollection{}
	e1 := c.AppendRecord()
	e1.QueryIndex, e1.HasQueryIndex = 1, true
	e2 := c.AppendRecord()
	e2.QueryIndex, e2.HasQueryIndex = 2, true

	require.Equal(t, 2, c.Len())
	require.Equal(t, e1, c.RecordAt(0))

	b, err := c.Marshal()
	require.NoError(t, err)
	got := &AlignmentCollection{}
	require.NoError(t, got.Unmarshal(b))
	require.Equal(t, c.Alignments, got.Alignments)

	c.Reset()
	require.Equal(t, 0, c.Len())
}
