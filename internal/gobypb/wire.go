// Package gobypb holds hand-written protobuf-wire-compatible message
// structs for the record collections and sidecar files this module
// reads and writes. There is no .proto source or generated code here:
// each message implements Marshal/Unmarshal directly against
// google.golang.org/protobuf/encoding/protowire, the same low-level
// wire package the generated code itself is built on.
package gobypb

import (
	"fmt"
	"math"

	"google.golang.org/protobuf/encoding/protowire"
)

func appendVarintField(b []byte, num protowire.Number, v uint64) []byte {
	b = protowire.AppendTag(b, num, protowire.VarintType)
	return protowire.AppendVarint(b, v)
}

func appendUint32Field(b []byte, num protowire.Number, v uint32) []byte {
	return appendVarintField(b, num, uint64(v))
}

func appendBoolField(b []byte, num protowire.Number, v bool) []byte {
	var x uint64
	if v {
		x = 1
	}
	return appendVarintField(b, num, x)
}

func appendInt32Field(b []byte, num protowire.Number, v int32) []byte {
	return appendVarintField(b, num, protowire.EncodeZigZag(int64(v)))
}

func appendInt64Field(b []byte, num protowire.Number, v int64) []byte {
	return appendVarintField(b, num, protowire.EncodeZigZag(v))
}

func appendDoubleField(b []byte, num protowire.Number, v float64) []byte {
	b = protowire.AppendTag(b, num, protowire.Fixed64Type)
	return protowire.AppendFixed64(b, math.Float64bits(v))
}

func appendBytesField(b []byte, num protowire.Number, v []byte) []byte {
	b = protowire.AppendTag(b, num, protowire.BytesType)
	return protowire.AppendBytes(b, v)
}

func appendStringField(b []byte, num protowire.Number, v string) []byte {
	return appendBytesField(b, num, []byte(v))
}

type marshaler interface {
	Marshal() ([]byte, error)
}

func appendMessageField(b []byte, num protowire.Number, m marshaler) ([]byte, error) {
	sub, err := m.Marshal()
	if err != nil {
		return nil, err
	}
	return appendBytesField(b, num, sub), nil
}

// fieldVisitor is invoked once per wire field encountered during
// decode, with v holding exactly the bytes of that field's value (not
// including the tag). It returns the number of bytes of v it consumed,
// or a negative protowire.ParseError on failure.
type fieldVisitor func(num protowire.Number, typ protowire.Type, v []byte) int

// consumeFields walks b tag-by-tag, dispatching each field to visit.
func consumeFields(b []byte, visit fieldVisitor) error {
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return protowire.ParseError(n)
		}
		b = b[n:]
		m := visit(num, typ, b)
		if m < 0 {
			return fmt.Errorf("gobypb: malformed field %d (wire type %d): %w", num, typ, protowire.ParseError(m))
		}
		b = b[m:]
	}
	return nil
}

// skipField consumes and discards a field of unknown number.
func skipField(num protowire.Number, typ protowire.Type, b []byte) int {
	return protowire.ConsumeFieldValue(num, typ, b)
}
