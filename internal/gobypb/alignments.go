package gobypb

import (
	"math"

	"google.golang.org/protobuf/encoding/protowire"
)

// SoftClip describes bases trimmed from one end of an alignment.
type SoftClip struct {
	Start     uint32
	Size      uint32
	Bases     []byte
	Qualities []byte
}

const (
	softClipStart     protowire.Number = 1
	softClipSize      protowire.Number = 2
	softClipBases     protowire.Number = 3
	softClipQualities protowire.Number = 4
)

func (s *SoftClip) Marshal() ([]byte, error) {
	var b []byte
	b = appendUint32Field(b, softClipStart, s.Start)
	b = appendUint32Field(b, softClipSize, s.Size)
	b = appendBytesField(b, softClipBases, s.Bases)
	b = appendBytesField(b, softClipQualities, s.Qualities)
	return b, nil
}

func (s *SoftClip) Unmarshal(data []byte) error {
	*s = SoftClip{}
	return consumeFields(data, func(num protowire.Number, typ protowire.Type, v []byte) int {
		switch num {
		case softClipStart:
			val, n := protowire.ConsumeVarint(v)
			s.Start = uint32(val)
			return n
		case softClipSize:
			val, n := protowire.ConsumeVarint(v)
			s.Size = uint32(val)
			return n
		case softClipBases:
			val, n := protowire.ConsumeBytes(v)
			s.Bases = append([]byte(nil), val...)
			return n
		case softClipQualities:
			val, n := protowire.ConsumeBytes(v)
			s.Qualities = append([]byte(nil), val...)
			return n
		default:
			return skipField(num, typ, v)
		}
	})
}

// PlacedUnmapped captures a read that could be placed near its mate
// but did not itself align.
type PlacedUnmapped struct {
	Sequence            []byte
	Qualities           []byte
	ReverseComplemented bool
}

const (
	placedUnmappedSequence            protowire.Number = 1
	placedUnmappedQualities           protowire.Number = 2
	placedUnmappedReverseComplemented protowire.Number = 3
)

func (p *PlacedUnmapped) Marshal() ([]byte, error) {
	var b []byte
	b = appendBytesField(b, placedUnmappedSequence, p.Sequence)
	b = appendBytesField(b, placedUnmappedQualities, p.Qualities)
	b = appendBoolField(b, placedUnmappedReverseComplemented, p.ReverseComplemented)
	return b, nil
}

func (p *PlacedUnmapped) Unmarshal(data []byte) error {
	*p = PlacedUnmapped{}
	return consumeFields(data, func(num protowire.Number, typ protowire.Type, v []byte) int {
		switch num {
		case placedUnmappedSequence:
			val, n := protowire.ConsumeBytes(v)
			p.Sequence = append([]byte(nil), val...)
			return n
		case placedUnmappedQualities:
			val, n := protowire.ConsumeBytes(v)
			p.Qualities = append([]byte(nil), val...)
			return n
		case placedUnmappedReverseComplemented:
			val, n := protowire.ConsumeVarint(v)
			p.ReverseComplemented = val != 0
			return n
		default:
			return skipField(num, typ, v)
		}
	})
}

// PairInfo links an entry to its mate in a paired-end alignment.
type PairInfo struct {
	Flags         uint32
	TargetIndex   uint32
	Position      uint32
	FragmentIndex uint32
}

const (
	pairInfoFlags         protowire.Number = 1
	pairInfoTargetIndex   protowire.Number = 2
	pairInfoPosition      protowire.Number = 3
	pairInfoFragmentIndex protowire.Number = 4
)

func (p *PairInfo) Marshal() ([]byte, error) {
	var b []byte
	b = appendUint32Field(b, pairInfoFlags, p.Flags)
	b = appendUint32Field(b, pairInfoTargetIndex, p.TargetIndex)
	b = appendUint32Field(b, pairInfoPosition, p.Position)
	b = appendUint32Field(b, pairInfoFragmentIndex, p.FragmentIndex)
	return b, nil
}

func (p *PairInfo) Unmarshal(data []byte) error {
	*p = PairInfo{}
	return consumeFields(data, func(num protowire.Number, typ protowire.Type, v []byte) int {
		switch num {
		case pairInfoFlags:
			val, n := protowire.ConsumeVarint(v)
			p.Flags = uint32(val)
			return n
		case pairInfoTargetIndex:
			val, n := protowire.ConsumeVarint(v)
			p.TargetIndex = uint32(val)
			return n
		case pairInfoPosition:
			val, n := protowire.ConsumeVarint(v)
			p.Position = uint32(val)
			return n
		case pairInfoFragmentIndex:
			val, n := protowire.ConsumeVarint(v)
			p.FragmentIndex = uint32(val)
			return n
		default:
			return skipField(num, typ, v)
		}
	})
}

// SpliceInfo links an entry to the two sides of a spliced alignment.
type SpliceInfo struct {
	ForwardFlags        uint32
	ForwardTargetIndex  uint32
	ForwardPosition     uint32
	BackwardFlags       uint32
	BackwardTargetIndex uint32
	BackwardPosition    uint32
}

const (
	spliceInfoForwardFlags        protowire.Number = 1
	spliceInfoForwardTargetIndex  protowire.Number = 2
	spliceInfoForwardPosition     protowire.Number = 3
	spliceInfoBackwardFlags       protowire.Number = 4
	spliceInfoBackwardTargetIndex protowire.Number = 5
	spliceInfoBackwardPosition    protowire.Number = 6
)

func (s *SpliceInfo) Marshal() ([]byte, error) {
	var b []byte
	b = appendUint32Field(b, spliceInfoForwardFlags, s.ForwardFlags)
	b = appendUint32Field(b, spliceInfoForwardTargetIndex, s.ForwardTargetIndex)
	b = appendUint32Field(b, spliceInfoForwardPosition, s.ForwardPosition)
	b = appendUint32Field(b, spliceInfoBackwardFlags, s.BackwardFlags)
	b = appendUint32Field(b, spliceInfoBackwardTargetIndex, s.BackwardTargetIndex)
	b = appendUint32Field(b, spliceInfoBackwardPosition, s.BackwardPosition)
	return b, nil
}

func (s *SpliceInfo) Unmarshal(data []byte) error {
	*s = SpliceInfo{}
	return consumeFields(data, func(num protowire.Number, typ protowire.Type, v []byte) int {
		switch num {
		case spliceInfoForwardFlags:
			val, n := protowire.ConsumeVarint(v)
			s.ForwardFlags = uint32(val)
			return n
		case spliceInfoForwardTargetIndex:
			val, n := protowire.ConsumeVarint(v)
			s.ForwardTargetIndex = uint32(val)
			return n
		case spliceInfoForwardPosition:
			val, n := protowire.ConsumeVarint(v)
			s.ForwardPosition = uint32(val)
			return n
		case spliceInfoBackwardFlags:
			val, n := protowire.ConsumeVarint(v)
			s.BackwardFlags = uint32(val)
			return n
		case spliceInfoBackwardTargetIndex:
			val, n := protowire.ConsumeVarint(v)
			s.BackwardTargetIndex = uint32(val)
			return n
		case spliceInfoBackwardPosition:
			val, n := protowire.ConsumeVarint(v)
			s.BackwardPosition = uint32(val)
			return n
		default:
			return skipField(num, typ, v)
		}
	})
}

// SequenceVariation is a single difference, or a coalesced run of
// adjacent differences, between a read and its target.
type SequenceVariation struct {
	ReadIndex   uint32
	RefPosition uint32
	From        string
	To          string
	HasQual     bool
	QualChars   []byte
}

const (
	seqVarReadIndex   protowire.Number = 1
	seqVarRefPosition protowire.Number = 2
	seqVarFrom        protowire.Number = 3
	seqVarTo          protowire.Number = 4
	seqVarQualChars   protowire.Number = 5
)

func (v *SequenceVariation) Marshal() ([]byte, error) {
	var b []byte
	b = appendUint32Field(b, seqVarReadIndex, v.ReadIndex)
	b = appendUint32Field(b, seqVarRefPosition, v.RefPosition)
	b = appendStringField(b, seqVarFrom, v.From)
	b = appendStringField(b, seqVarTo, v.To)
	if v.HasQual {
		b = appendBytesField(b, seqVarQualChars, v.QualChars)
	}
	return b, nil
}

func (v *SequenceVariation) Unmarshal(data []byte) error {
	*v = SequenceVariation{}
	return consumeFields(data, func(num protowire.Number, typ protowire.Type, val []byte) int {
		switch num {
		case seqVarReadIndex:
			x, n := protowire.ConsumeVarint(val)
			v.ReadIndex = uint32(x)
			return n
		case seqVarRefPosition:
			x, n := protowire.ConsumeVarint(val)
			v.RefPosition = uint32(x)
			return n
		case seqVarFrom:
			s, n := protowire.ConsumeString(val)
			v.From = s
			return n
		case seqVarTo:
			s, n := protowire.ConsumeString(val)
			v.To = s
			return n
		case seqVarQualChars:
			x, n := protowire.ConsumeBytes(val)
			v.QualChars = append([]byte(nil), x...)
			v.HasQual = true
			return n
		default:
			return skipField(num, typ, val)
		}
	})
}

// AlignmentEntry is one read's mapping onto a target, with scalar
// placement fields and a nested sequence-variation list. Most scalar
// fields are optional; Has* flags record presence so that
// round-tripping preserves the presence bits.
type AlignmentEntry struct {
	QueryIndex     uint32
	HasQueryIndex  bool
	TargetIndex    uint32
	HasTargetIndex bool
	Position       uint32
	HasPosition    bool

	MatchingReverseStrand bool

	QueryPosition    uint32
	HasQueryPosition bool

	Score    float64
	HasScore bool

	NumberOfMismatches    uint32
	HasNumberOfMismatches bool
	NumberOfIndels        uint32
	HasNumberOfIndels     bool

	QueryAlignedLength     uint32
	HasQueryAlignedLength  bool
	TargetAlignedLength    uint32
	HasTargetAlignedLength bool
	QueryLength            uint32
	HasQueryLength         bool

	MappingQuality    uint32
	HasMappingQuality bool

	SoftClippedLeft  *SoftClip
	SoftClippedRight *SoftClip
	PlacedUnmapped   *PlacedUnmapped
	Pair             *PairInfo
	Splice           *SpliceInfo

	Multiplicity    uint32
	HasMultiplicity bool
	Ambiguity       uint32
	HasAmbiguity    bool

	QueryIndexOccurrences    uint32
	HasQueryIndexOccurrences bool

	SequenceVariations []*SequenceVariation

	FragmentIndex    uint32
	HasFragmentIndex bool
	InsertSize       int32
	HasInsertSize    bool
}

const (
	alignQueryIndex            protowire.Number = 1
	alignTargetIndex           protowire.Number = 2
	alignPosition              protowire.Number = 3
	alignMatchingReverseStrand protowire.Number = 4
	alignQueryPosition         protowire.Number = 5
	alignScore                 protowire.Number = 6
	alignNumberOfMismatches    protowire.Number = 7
	alignNumberOfIndels        protowire.Number = 8
	alignQueryAlignedLength    protowire.Number = 9
	alignTargetAlignedLength   protowire.Number = 10
	alignQueryLength           protowire.Number = 11
	alignMappingQuality        protowire.Number = 12
	alignSoftClippedLeft       protowire.Number = 13
	alignSoftClippedRight      protowire.Number = 14
	alignPlacedUnmapped        protowire.Number = 15
	alignPairInfo              protowire.Number = 16
	alignSpliceInfo            protowire.Number = 17
	alignMultiplicity          protowire.Number = 18
	alignAmbiguity             protowire.Number = 19
	alignQueryIndexOccurrences protowire.Number = 20
	alignSequenceVariations    protowire.Number = 21
	alignFragmentIndex         protowire.Number = 22
	alignInsertSize            protowire.Number = 23
)

func (e *AlignmentEntry) Marshal() ([]byte, error) {
	var b []byte
	var err error
	if e.HasQueryIndex {
		b = appendUint32Field(b, alignQueryIndex, e.QueryIndex)
	}
	if e.HasTargetIndex {
		b = appendUint32Field(b, alignTargetIndex, e.TargetIndex)
	}
	if e.HasPosition {
		b = appendUint32Field(b, alignPosition, e.Position)
	}
	b = appendBoolField(b, alignMatchingReverseStrand, e.MatchingReverseStrand)
	if e.HasQueryPosition {
		b = appendUint32Field(b, alignQueryPosition, e.QueryPosition)
	}
	if e.HasScore {
		b = appendDoubleField(b, alignScore, e.Score)
	}
	if e.HasNumberOfMismatches {
		b = appendUint32Field(b, alignNumberOfMismatches, e.NumberOfMismatches)
	}
	if e.HasNumberOfIndels {
		b = appendUint32Field(b, alignNumberOfIndels, e.NumberOfIndels)
	}
	if e.HasQueryAlignedLength {
		b = appendUint32Field(b, alignQueryAlignedLength, e.QueryAlignedLength)
	}
	if e.HasTargetAlignedLength {
		b = appendUint32Field(b, alignTargetAlignedLength, e.TargetAlignedLength)
	}
	if e.HasQueryLength {
		b = appendUint32Field(b, alignQueryLength, e.QueryLength)
	}
	if e.HasMappingQuality {
		b = appendUint32Field(b, alignMappingQuality, e.MappingQuality)
	}
	if e.SoftClippedLeft != nil {
		b, err = appendMessageField(b, alignSoftClippedLeft, e.SoftClippedLeft)
		if err != nil {
			return nil, err
		}
	}
	if e.SoftClippedRight != nil {
		b, err = appendMessageField(b, alignSoftClippedRight, e.SoftClippedRight)
		if err != nil {
			return nil, err
		}
	}
	if e.PlacedUnmapped != nil {
		b, err = appendMessageField(b, alignPlacedUnmapped, e.PlacedUnmapped)
		if err != nil {
			return nil, err
		}
	}
	if e.Pair != nil {
		b, err = appendMessageField(b, alignPairInfo, e.Pair)
		if err != nil {
			return nil, err
		}
	}
	if e.Splice != nil {
		b, err = appendMessageField(b, alignSpliceInfo, e.Splice)
		if err != nil {
			return nil, err
		}
	}
	if e.HasMultiplicity {
		b = appendUint32Field(b, alignMultiplicity, e.Multiplicity)
	}
	if e.HasAmbiguity {
		b = appendUint32Field(b, alignAmbiguity, e.Ambiguity)
	}
	if e.HasQueryIndexOccurrences {
		b = appendUint32Field(b, alignQueryIndexOccurrences, e.QueryIndexOccurrences)
	}
	for _, sv := range e.SequenceVariations {
		b, err = appendMessageField(b, alignSequenceVariations, sv)
		if err != nil {
			return nil, err
		}
	}
	if e.HasFragmentIndex {
		b = appendUint32Field(b, alignFragmentIndex, e.FragmentIndex)
	}
	if e.HasInsertSize {
		b = appendInt32Field(b, alignInsertSize, e.InsertSize)
	}
	return b, nil
}

func (e *AlignmentEntry) Unmarshal(data []byte) error {
	*e = AlignmentEntry{}
	return consumeFields(data, func(num protowire.Number, typ protowire.Type, v []byte) int {
		switch num {
		case alignQueryIndex:
			x, n := protowire.ConsumeVarint(v)
			e.QueryIndex, e.HasQueryIndex = uint32(x), true
			return n
		case alignTargetIndex:
			x, n := protowire.ConsumeVarint(v)
			e.TargetIndex, e.HasTargetIndex = uint32(x), true
			return n
		case alignPosition:
			x, n := protowire.ConsumeVarint(v)
			e.Position, e.HasPosition = uint32(x), true
			return n
		case alignMatchingReverseStrand:
			x, n := protowire.ConsumeVarint(v)
			e.MatchingReverseStrand = x != 0
			return n
		case alignQueryPosition:
			x, n := protowire.ConsumeVarint(v)
			e.QueryPosition, e.HasQueryPosition = uint32(x), true
			return n
		case alignScore:
			x, n := protowire.ConsumeFixed64(v)
			e.Score, e.HasScore = math.Float64frombits(x), true
			return n
		case alignNumberOfMismatches:
			x, n := protowire.ConsumeVarint(v)
			e.NumberOfMismatches, e.HasNumberOfMismatches = uint32(x), true
			return n
		case alignNumberOfIndels:
			x, n := protowire.ConsumeVarint(v)
			e.NumberOfIndels, e.HasNumberOfIndels = uint32(x), true
			return n
		case alignQueryAlignedLength:
			x, n := protowire.ConsumeVarint(v)
			e.QueryAlignedLength, e.HasQueryAlignedLength = uint32(x), true
			return n
		case alignTargetAlignedLength:
			x, n := protowire.ConsumeVarint(v)
			e.TargetAlignedLength, e.HasTargetAlignedLength = uint32(x), true
			return n
		case alignQueryLength:
			x, n := protowire.ConsumeVarint(v)
			e.QueryLength, e.HasQueryLength = uint32(x), true
			return n
		case alignMappingQuality:
			x, n := protowire.ConsumeVarint(v)
			e.MappingQuality, e.HasMappingQuality = uint32(x), true
			return n
		case alignSoftClippedLeft:
			x, n := protowire.ConsumeBytes(v)
			if n < 0 {
				return n
			}
			sc := &SoftClip{}
			if err := sc.Unmarshal(x); err != nil {
				return -1
			}
			e.SoftClippedLeft = sc
			return n
		case alignSoftClippedRight:
			x, n := protowire.ConsumeBytes(v)
			if n < 0 {
				return n
			}
			sc := &SoftClip{}
			if err := sc.Unmarshal(x); err != nil {
				return -1
			}
			e.SoftClippedRight = sc
			return n
		case alignPlacedUnmapped:
			x, n := protowire.ConsumeBytes(v)
			if n < 0 {
				return n
			}
			pu := &PlacedUnmapped{}
			if err := pu.Unmarshal(x); err != nil {
				return -1
			}
			e.PlacedUnmapped = pu
			return n
		case alignPairInfo:
			x, n := protowire.ConsumeBytes(v)
			if n < 0 {
				return n
			}
			pi := &PairInfo{}
			if err := pi.Unmarshal(x); err != nil {
				return -1
			}
			e.Pair = pi
			return n
		case alignSpliceInfo:
			x, n := protowire.ConsumeBytes(v)
			if n < 0 {
				return n
			}
			si := &SpliceInfo{}
			if err := si.Unmarshal(x); err != nil {
				return -1
			}
			e.Splice = si
			return n
		case alignMultiplicity:
			x, n := protowire.ConsumeVarint(v)
			e.Multiplicity, e.HasMultiplicity = uint32(x), true
			return n
		case alignAmbiguity:
			x, n := protowire.ConsumeVarint(v)
			e.Ambiguity, e.HasAmbiguity = uint32(x), true
			return n
		case alignQueryIndexOccurrences:
			x, n := protowire.ConsumeVarint(v)
			e.QueryIndexOccurrences, e.HasQueryIndexOccurrences = uint32(x), true
			return n
		case alignSequenceVariations:
			x, n := protowire.ConsumeBytes(v)
			if n < 0 {
				return n
			}
			sv := &SequenceVariation{}
			if err := sv.Unmarshal(x); err != nil {
				return -1
			}
			e.SequenceVariations = append(e.SequenceVariations, sv)
			return n
		case alignFragmentIndex:
			x, n := protowire.ConsumeVarint(v)
			e.FragmentIndex, e.HasFragmentIndex = uint32(x), true
			return n
		case alignInsertSize:
			x, n := protowire.ConsumeVarint(v)
			e.InsertSize, e.HasInsertSize = int32(protowire.DecodeZigZag(x)), true
			return n
		default:
			return skipField(num, typ, v)
		}
	})
}

// AlignmentCollection is the chunk payload message for .entries
// streams.
type AlignmentCollection struct {
	Alignments []*AlignmentEntry
}

func (c *AlignmentCollection) Len() int { return len(c.Alignments) }

func (c *AlignmentCollection) RecordAt(i int) *AlignmentEntry { return c.Alignments[i] }

func (c *AlignmentCollection) AppendRecord() *AlignmentEntry {
	e := &AlignmentEntry{}
	c.Alignments = append(c.Alignments, e)
	return e
}

func (c *AlignmentCollection) Reset() {
	c.Alignments = c.Alignments[:0]
}

func (c *AlignmentCollection) Marshal() ([]byte, error) {
	var b []byte
	var err error
	for _, e := range c.Alignments {
		b, err = appendMessageField(b, 1, e)
		if err != nil {
			return nil, err
		}
	}
	return b, nil
}

func (c *AlignmentCollection) Unmarshal(data []byte) error {
	c.Alignments = nil
	return consumeFields(data, func(num protowire.Number, typ protowire.Type, v []byte) int {
		if num == 1 && typ == protowire.BytesType {
			val, n := protowire.ConsumeBytes(v)
			if n < 0 {
				return n
			}
			e := &AlignmentEntry{}
			if err := e.Unmarshal(val); err != nil {
				return -1
			}
			c.Alignments = append(c.Alignments, e)
			return n
		}
		return skipField(num, typ, v)
	})
}
