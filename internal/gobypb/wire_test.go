package gobypb

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
	"google.golang.org/protobuf/encoding/protowire"
)

func TestAppendFieldHelpersRoundTrip(t *testing.T) {
	b := appendUint32Field(nil, 1, 42)
	b = appendBoolField(b, 2, true)
	b = appendInt32Field(b, 3, -7)
	b = appendInt64Field(b, 4, -9000)
	b = appendDoubleField(b, 5, 3.5)
	b = appendStringField(b, 6, "hello")

	var gotUint32 uint32
	var gotBool bool
	var gotInt32 int32
	var gotInt64 int64
	var gotDouble float64
	var gotString string

	err := consumeFields(b, func(num protowire.Number, typ protowire.Type, v []byte) int {
		switch num {
		case 1:
			x, n := protowire.ConsumeVarint(v)
			gotUint32 = uint32(x)
			return n
		case 2:
			x, n := protowire.ConsumeVarint(v)
			gotBool = x != 0
			return n
		case 3:
			x, n := protowire.ConsumeVarint(v)
			gotInt32 = int32(protowire.DecodeZigZag(x))
			return n
		case 4:
			x, n := protowire.ConsumeVarint(v)
			gotInt64 = protowire.DecodeZigZag(x)
			return n
		case 5:
			x, n := protowire.ConsumeFixed64(v)
			gotDouble = math.Float64frombits(x)
			return n
		case 6:
			s, n := protowire.ConsumeString(v)
			gotString = s
			return n
		default:
			return skipField(num, typ, v)
		}
	})
	require.NoError(t, err)
	require.Equal(t, uint32(42), gotUint32)
	require.True(t, gotBool)
	require.Equal(t, int32(-7), gotInt32)
	require.Equal(t, int64(-9000), gotInt64)
	require.Equal(t, 3.5, gotDouble)
	require.Equal(t, "hello", gotString)
}

func TestSkipFieldAdvancesPastUnknownFields(t *testing.T) {
	b := appendUint32Field(nil, 99, 7)
	b = appendStringField(b, 1, "kept")

	var got string
	err := consumeFields(b, func(num protowire.Number, typ protowire.Type, v []byte) int {
		if num == 1 {
			s, n := protowire.ConsumeString(v)
			got = s
			return n
		}
		return skipField(num, typ, v)
	})
	require.NoError(t, err)
	require.Equal(t, "kept", got)
}

func TestConsumeFieldsErrorsOnTruncatedTag(t *testing.T) {
	err := consumeFields([]byte{0xff}, func(num protowire.Number, typ protowire.Type, v []byte) int {
		return skipField(num, typ, v)
	})
	require.Error(t, err)
}

func TestAppendMessageField(t *testing.T) {
	entry := &TooManyHitsEntry{QueryIndex: 3, AlignedLength: 10, NumberOfHits: 99}
	b, err := appendMessageField(nil, 1, entry)
	require.NoError(t, err)
	require.NotEmpty(t, b)
}
