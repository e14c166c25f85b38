package gobypb

import "google.golang.org/protobuf/encoding/protowire"

// Field numbers for ReadEntry.
const (
	readEntryReadIndex      protowire.Number = 1
	readEntryReadLength     protowire.Number = 2
	readEntrySequence       protowire.Number = 3
	readEntryQualityScores  protowire.Number = 4
	readEntryReadIdentifier protowire.Number = 5
	readEntryDescription    protowire.Number = 6
)

// ReadEntry is one sequencing read.
type ReadEntry struct {
	ReadIndex  uint32
	ReadLength uint32

	Sequence       []byte
	HasSequence    bool
	QualityScores  []byte
	HasQuality     bool
	ReadIdentifier string
	HasIdentifier  bool
	Description    string
	HasDescription bool
}

// Marshal serializes e to its protobuf wire form.
func (e *ReadEntry) Marshal() ([]byte, error) {
	var b []byte
	b = appendUint32Field(b, readEntryReadIndex, e.ReadIndex)
	b = appendUint32Field(b, readEntryReadLength, e.ReadLength)
	if e.HasSequence {
		b = appendBytesField(b, readEntrySequence, e.Sequence)
	}
	if e.HasQuality {
		b = appendBytesField(b, readEntryQualityScores, e.QualityScores)
	}
	if e.HasIdentifier {
		b = appendStringField(b, readEntryReadIdentifier, e.ReadIdentifier)
	}
	if e.HasDescription {
		b = appendStringField(b, readEntryDescription, e.Description)
	}
	return b, nil
}

// Unmarshal parses e from its protobuf wire form.
func (e *ReadEntry) Unmarshal(data []byte) error {
	*e = ReadEntry{}
	return consumeFields(data, func(num protowire.Number, typ protowire.Type, v []byte) int {
		switch {
		case num == readEntryReadIndex && typ == protowire.VarintType:
			val, n := protowire.ConsumeVarint(v)
			e.ReadIndex = uint32(val)
			return n
		case num == readEntryReadLength && typ == protowire.VarintType:
			val, n := protowire.ConsumeVarint(v)
			e.ReadLength = uint32(val)
			return n
		case num == readEntrySequence && typ == protowire.BytesType:
			val, n := protowire.ConsumeBytes(v)
			e.Sequence = append([]byte(nil), val...)
			e.HasSequence = true
			return n
		case num == readEntryQualityScores && typ == protowire.BytesType:
			val, n := protowire.ConsumeBytes(v)
			e.QualityScores = append([]byte(nil), val...)
			e.HasQuality = true
			return n
		case num == readEntryReadIdentifier && typ == protowire.BytesType:
			val, n := protowire.ConsumeString(v)
			e.ReadIdentifier = val
			e.HasIdentifier = true
			return n
		case num == readEntryDescription && typ == protowire.BytesType:
			val, n := protowire.ConsumeString(v)
			e.Description = val
			e.HasDescription = true
			return n
		default:
			return skipField(num, typ, v)
		}
	})
}

// ReadCollection is the chunk payload message for .compact-reads
// streams.
type ReadCollection struct {
	Reads []*ReadEntry
}

// Len reports the number of reads in the collection.
func (c *ReadCollection) Len() int { return len(c.Reads) }

// RecordAt returns the read at index i.
func (c *ReadCollection) RecordAt(i int) *ReadEntry { return c.Reads[i] }

// AppendRecord appends and returns a fresh, blank read entry.
func (c *ReadCollection) AppendRecord() *ReadEntry {
	e := &ReadEntry{}
	c.Reads = append(c.Reads, e)
	return e
}

// Reset empties the collection for reuse by a chunk writer.
func (c *ReadCollection) Reset() {
	c.Reads = c.Reads[:0]
}

// Marshal serializes the collection to its protobuf wire form.
func (c *ReadCollection) Marshal() ([]byte, error) {
	var b []byte
	var err error
	for _, e := range c.Reads {
		b, err = appendMessageField(b, 1, e)
		if err != nil {
			return nil, err
		}
	}
	return b, nil
}

// Unmarshal parses the collection from its protobuf wire form.
func (c *ReadCollection) Unmarshal(data []byte) error {
	c.Reads = nil
	return consumeFields(data, func(num protowire.Number, typ protowire.Type, v []byte) int {
		if num == 1 && typ == protowire.BytesType {
			val, n := protowire.ConsumeBytes(v)
			if n < 0 {
				return n
			}
			e := &ReadEntry{}
			if err := e.Unmarshal(val); err != nil {
				return -1
			}
			c.Reads = append(c.Reads, e)
			return n
		}
		return skipField(num, typ, v)
	})
}
