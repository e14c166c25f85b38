package gobypb

import "google.golang.org/protobuf/encoding/protowire"

// TooManyHitsEntry records one query whose hit count exceeded the
// aligner's reporting threshold.
type TooManyHitsEntry struct {
	QueryIndex    uint32
	AlignedLength uint32
	NumberOfHits  uint32
}

const (
	tmhQueryIndex    protowire.Number = 1
	tmhAlignedLength protowire.Number = 2
	tmhNumberOfHits  protowire.Number = 3
)

func (t *TooManyHitsEntry) Marshal() ([]byte, error) {
	var b []byte
	b = appendUint32Field(b, tmhQueryIndex, t.QueryIndex)
	b = appendUint32Field(b, tmhAlignedLength, t.AlignedLength)
	b = appendUint32Field(b, tmhNumberOfHits, t.NumberOfHits)
	return b, nil
}

func (t *TooManyHitsEntry) Unmarshal(data []byte) error {
	*t = TooManyHitsEntry{}
	return consumeFields(data, func(num protowire.Number, typ protowire.Type, v []byte) int {
		switch num {
		case tmhQueryIndex:
			x, n := protowire.ConsumeVarint(v)
			t.QueryIndex = uint32(x)
			return n
		case tmhAlignedLength:
			x, n := protowire.ConsumeVarint(v)
			t.AlignedLength = uint32(x)
			return n
		case tmhNumberOfHits:
			x, n := protowire.ConsumeVarint(v)
			t.NumberOfHits = uint32(x)
			return n
		default:
			return skipField(num, typ, v)
		}
	})
}

// TooManyHitsCollection is the chunk payload message for .tmh streams.
type TooManyHitsCollection struct {
	Entries []*TooManyHitsEntry
}

func (c *TooManyHitsCollection) Len() int { return len(c.Entries) }

func (c *TooManyHitsCollection) RecordAt(i int) *TooManyHitsEntry { return c.Entries[i] }

func (c *TooManyHitsCollection) AppendRecord() *TooManyHitsEntry {
	e := &TooManyHitsEntry{}
	c.Entries = append(c.Entries, e)
	return e
}

func (c *TooManyHitsCollection) Reset() {
	c.Entries = c.Entries[:0]
}

func (c *TooManyHitsCollection) Marshal() ([]byte, error) {
	var b []byte
	var err error
	for _, e := range c.Entries {
		b, err = appendMessageField(b, 1, e)
		if err != nil {
			return nil, err
		}
	}
	return b, nil
}

func (c *TooManyHitsCollection) Unmarshal(data []byte) error {
	c.Entries = nil
	return consumeFields(data, func(num protowire.Number, typ protowire.Type, v []byte) int {
		if num == 1 && typ == protowire.BytesType {
			val, n := protowire.ConsumeBytes(v)
			if n < 0 {
				return n
			}
			e := &TooManyHitsEntry{}
			if err := e.Unmarshal(val); err != nil {
				return -1
			}
			c.Entries = append(c.Entries, e)
			return n
		}
		return skipField(num, typ, v)
	})
}
