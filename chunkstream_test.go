package goby

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeChunks(t *testing.T, payloads ...[]byte) *bytes.Reader {
	t.Helper()
	var buf bytes.Buffer
	fw := NewFramingWriter(&buf)
	for _, p := range payloads {
		_, err := fw.EmitChunk(p)
		require.NoError(t, err)
	}
	require.NoError(t, fw.Finalize())
	return bytes.NewReader(buf.Bytes())
}

func TestScanIndex(t *testing.T) {
	r := writeChunks(t, []byte("aaaa"), []byte("bb"), []byte("ccccccc"))
	chunks, err := ScanIndex(r)
	require.NoError(t, err)
	require.Len(t, chunks, 3)
	require.EqualValues(t, 4, chunks[0].Length)
	require.EqualValues(t, 2, chunks[1].Length)
	require.EqualValues(t, 7, chunks[2].Length)

	for i, want := range [][]byte{[]byte("aaaa"), []byte("bb"), []byte("ccccccc")} {
		got, err := ReadChunkPayload(r, chunks[i])
		require.NoError(t, err)
		require.Equal(t, want, got)
	}
}

func TestScanIndexEmpty(t *testing.T) {
	r := writeChunks(t)
	chunks, err := ScanIndex(r)
	require.NoError(t, err)
	require.Empty(t, chunks)
}

func TestScanIndexTruncated(t *testing.T) {
	var buf bytes.Buffer
	fw := NewFramingWriter(&buf)
	_, err := fw.EmitChunk([]byte("hello"))
	require.NoError(t, err)
	_, err = fw.EmitChunk([]byte("world"))
	require.NoError(t, err)
	// No Finalize(), and the second chunk's payload is cut short: the
	// first chunk must survive the scan, the second must not.
	truncated := buf.Bytes()[:len(buf.Bytes())-2]
	r := bytes.NewReader(truncated)

	chunks, err := ScanIndex(r)
	require.Error(t, err)
	require.True(t, IsCorrupt(err))
	require.Len(t, chunks, 1)
	payload, err := ReadChunkPayload(r, chunks[0])
	require.NoError(t, err)
	require.Equal(t, []byte("hello"), payload)
}

func TestStreamSizeIdentity(t *testing.T) {
	payloads := [][]byte{[]byte("aaaa"), []byte("bb"), []byte("ccccccc")}
	var buf bytes.Buffer
	fw := NewFramingWriter(&buf)
	for _, p := range payloads {
		_, err := fw.EmitChunk(p)
		require.NoError(t, err)
	}
	require.NoError(t, fw.Finalize())

	chunks, err := ScanIndex(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)

	var sum int64
	for _, c := range chunks {
		sum += int64(c.Length)
	}
	framing := int64(len(chunks)+1) * (8 + 4)
	require.EqualValues(t, buf.Len(), sum+framing)
	require.EqualValues(t, buf.Len(), fw.Size())
}

func TestScanIndexAtResumesAtChunkBoundary(t *testing.T) {
	r := writeChunks(t, []byte("aaaa"), []byte("bb"))
	all, err := ScanIndex(r)
	require.NoError(t, err)
	require.Len(t, all, 2)

	// Resume scanning from the start of the second chunk's framing,
	// i.e. 8 (delimiter) + 4 (length) + 4 (first payload) bytes in.
	resumeOffset := int64(8 + 4 + 4)
	resumed, err := ScanIndexAt(r, resumeOffset, SeekBegin)
	require.NoError(t, err)
	require.Len(t, resumed, 1)
	require.Equal(t, all[1], resumed[0])

	// The same boundary expressed relative to the end of the file:
	// the second chunk's framing (12) + payload (2) + terminator (12).
	fromEnd, err := ScanIndexAt(r, -(12 + 2 + 12), SeekEnd)
	require.NoError(t, err)
	require.Len(t, fromEnd, 1)
	require.Equal(t, all[1], fromEnd[0])
}

func TestGzipRoundTrip(t *testing.T) {
	payload := []byte("some data to compress, repeated repeated repeated")
	compressed, err := gzipCompress(payload)
	require.NoError(t, err)
	decompressed, err := gzipDecompress(compressed)
	require.NoError(t, err)
	require.Equal(t, payload, decompressed)
}
