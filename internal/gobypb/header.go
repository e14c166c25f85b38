package gobypb

import (
	"math"

	"google.golang.org/protobuf/encoding/protowire"
)

// TargetEntry names one reference sequence an alignment may map onto,
// with an optional translation from the aligner's own target index to
// this writer's goby target index.
type TargetEntry struct {
	Index              uint32
	Name               string
	Length             uint32
	HasTranslatedIndex bool
	TranslatedIndex    uint32
}

const (
	targetIndex           protowire.Number = 1
	targetName            protowire.Number = 2
	targetLength          protowire.Number = 3
	targetTranslatedIndex protowire.Number = 4
)

func (t *TargetEntry) Marshal() ([]byte, error) {
	var b []byte
	b = appendUint32Field(b, targetIndex, t.Index)
	b = appendStringField(b, targetName, t.Name)
	b = appendUint32Field(b, targetLength, t.Length)
	if t.HasTranslatedIndex {
		b = appendUint32Field(b, targetTranslatedIndex, t.TranslatedIndex)
	}
	return b, nil
}

func (t *TargetEntry) Unmarshal(data []byte) error {
	*t = TargetEntry{}
	return consumeFields(data, func(num protowire.Number, typ protowire.Type, v []byte) int {
		switch num {
		case targetIndex:
			x, n := protowire.ConsumeVarint(v)
			t.Index = uint32(x)
			return n
		case targetName:
			s, n := protowire.ConsumeString(v)
			t.Name = s
			return n
		case targetLength:
			x, n := protowire.ConsumeVarint(v)
			t.Length = uint32(x)
			return n
		case targetTranslatedIndex:
			x, n := protowire.ConsumeVarint(v)
			t.TranslatedIndex, t.HasTranslatedIndex = uint32(x), true
			return n
		default:
			return skipField(num, typ, v)
		}
	})
}

// StatisticKind tags which value field of Statistic is populated.
type StatisticKind int

const (
	StatisticString StatisticKind = iota
	StatisticInt
	StatisticDouble
)

// Statistic is one free-form (description, value) pair attached to an
// alignment header.
type Statistic struct {
	Description string
	Kind        StatisticKind
	StringValue string
	IntValue    int64
	DoubleValue float64
}

const (
	statDescription protowire.Number = 1
	statKind        protowire.Number = 2
	statStringValue protowire.Number = 3
	statIntValue    protowire.Number = 4
	statDoubleValue protowire.Number = 5
)

func (s *Statistic) Marshal() ([]byte, error) {
	var b []byte
	b = appendStringField(b, statDescription, s.Description)
	b = appendUint32Field(b, statKind, uint32(s.Kind))
	switch s.Kind {
	case StatisticString:
		b = appendStringField(b, statStringValue, s.StringValue)
	case StatisticInt:
		b = appendInt64Field(b, statIntValue, s.IntValue)
	case StatisticDouble:
		b = appendDoubleField(b, statDoubleValue, s.DoubleValue)
	}
	return b, nil
}

func (s *Statistic) Unmarshal(data []byte) error {
	*s = Statistic{}
	return consumeFields(data, func(num protowire.Number, typ protowire.Type, v []byte) int {
		switch num {
		case statDescription:
			x, n := protowire.ConsumeString(v)
			s.Description = x
			return n
		case statKind:
			x, n := protowire.ConsumeVarint(v)
			s.Kind = StatisticKind(x)
			return n
		case statStringValue:
			x, n := protowire.ConsumeString(v)
			s.StringValue = x
			return n
		case statIntValue:
			x, n := protowire.ConsumeVarint(v)
			s.IntValue = protowire.DecodeZigZag(x)
			return n
		case statDoubleValue:
			x, n := protowire.ConsumeFixed64(v)
			s.DoubleValue = math.Float64frombits(x)
			return n
		default:
			return skipField(num, typ, v)
		}
	})
}

// AlignmentHeader is the sidecar written once to basename.header on
// finalize.
type AlignmentHeader struct {
	AlignerName    string
	AlignerVersion string

	QualityAdjustment int32
	Sorted            bool
	Indexed           bool

	Targets    []*TargetEntry
	Statistics []*Statistic

	SmallestQueryIndex uint32
	LargestQueryIndex  uint32

	NumberOfAlignedReads uint32
	NumberOfReads        uint32

	QueryIndexOccurrencesStoredInEntries bool
}

const (
	headerAlignerName                          protowire.Number = 1
	headerAlignerVersion                       protowire.Number = 2
	headerQualityAdjustment                    protowire.Number = 3
	headerSorted                               protowire.Number = 4
	headerIndexed                              protowire.Number = 5
	headerTargets                              protowire.Number = 6
	headerStatistics                           protowire.Number = 7
	headerSmallestQueryIndex                   protowire.Number = 8
	headerLargestQueryIndex                    protowire.Number = 9
	headerNumberOfAlignedReads                 protowire.Number = 10
	headerNumberOfReads                        protowire.Number = 11
	headerQueryIndexOccurrencesStoredInEntries protowire.Number = 12
)

func (h *AlignmentHeader) Marshal() ([]byte, error) {
	var b []byte
	var err error
	b = appendStringField(b, headerAlignerName, h.AlignerName)
	b = appendStringField(b, headerAlignerVersion, h.AlignerVersion)
	b = appendInt32Field(b, headerQualityAdjustment, h.QualityAdjustment)
	b = appendBoolField(b, headerSorted, h.Sorted)
	b = appendBoolField(b, headerIndexed, h.Indexed)
	for _, t := range h.Targets {
		b, err = appendMessageField(b, headerTargets, t)
		if err != nil {
			return nil, err
		}
	}
	for _, s := range h.Statistics {
		b, err = appendMessageField(b, headerStatistics, s)
		if err != nil {
			return nil, err
		}
	}
	b = appendUint32Field(b, headerSmallestQueryIndex, h.SmallestQueryIndex)
	b = appendUint32Field(b, headerLargestQueryIndex, h.LargestQueryIndex)
	b = appendUint32Field(b, headerNumberOfAlignedReads, h.NumberOfAlignedReads)
	b = appendUint32Field(b, headerNumberOfReads, h.NumberOfReads)
	b = appendBoolField(b, headerQueryIndexOccurrencesStoredInEntries, h.QueryIndexOccurrencesStoredInEntries)
	return b, nil
}

func (h *AlignmentHeader) Unmarshal(data []byte) error {
	*h = AlignmentHeader{}
	return consumeFields(data, func(num protowire.Number, typ protowire.Type, v []byte) int {
		switch num {
		case headerAlignerName:
			x, n := protowire.ConsumeString(v)
			h.AlignerName = x
			return n
		case headerAlignerVersion:
			x, n := protowire.ConsumeString(v)
			h.AlignerVersion = x
			return n
		case headerQualityAdjustment:
			x, n := protowire.ConsumeVarint(v)
			h.QualityAdjustment = int32(protowire.DecodeZigZag(x))
			return n
		case headerSorted:
			x, n := protowire.ConsumeVarint(v)
			h.Sorted = x != 0
			return n
		case headerIndexed:
			x, n := protowire.ConsumeVarint(v)
			h.Indexed = x != 0
			return n
		case headerTargets:
			x, n := protowire.ConsumeBytes(v)
			if n < 0 {
				return n
			}
			t := &TargetEntry{}
			if err := t.Unmarshal(x); err != nil {
				return -1
			}
			h.Targets = append(h.Targets, t)
			return n
		case headerStatistics:
			x, n := protowire.ConsumeBytes(v)
			if n < 0 {
				return n
			}
			s := &Statistic{}
			if err := s.Unmarshal(x); err != nil {
				return -1
			}
			h.Statistics = append(h.Statistics, s)
			return n
		case headerSmallestQueryIndex:
			x, n := protowire.ConsumeVarint(v)
			h.SmallestQueryIndex = uint32(x)
			return n
		case headerLargestQueryIndex:
			x, n := protowire.ConsumeVarint(v)
			h.LargestQueryIndex = uint32(x)
			return n
		case headerNumberOfAlignedReads:
			x, n := protowire.ConsumeVarint(v)
			h.NumberOfAlignedReads = uint32(x)
			return n
		case headerNumberOfReads:
			x, n := protowire.ConsumeVarint(v)
			h.NumberOfReads = uint32(x)
			return n
		case headerQueryIndexOccurrencesStoredInEntries:
			x, n := protowire.ConsumeVarint(v)
			h.QueryIndexOccurrencesStoredInEntries = x != 0
			return n
		default:
			return skipField(num, typ, v)
		}
	})
}
