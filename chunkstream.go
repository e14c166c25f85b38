package goby

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/klauspost/compress/gzip"
)

// MessageChunk records the location of one compressed chunk payload
// within a chunk stream.
type MessageChunk struct {
	// Position is the byte offset at which the compressed payload
	// begins (i.e. immediately after the delimiter and length prefix).
	Position int64
	// Length is the compressed payload's byte count.
	Length int32
}

// SeekOrigin selects the reference point for a restartable index scan.
type SeekOrigin int

const (
	// SeekBegin measures the offset from the start of the file.
	SeekBegin SeekOrigin = iota
	// SeekEnd measures the offset from the end of the file (offset is
	// typically zero or negative).
	SeekEnd
)

// FramingWriter implements the writer side of the chunk stream:
// delimiter, big-endian int32 length, payload, repeated, terminated by
// a zero-length record.
type FramingWriter struct {
	w    io.Writer
	size int64
}

// NewFramingWriter wraps w for chunk emission.
func NewFramingWriter(w io.Writer) *FramingWriter {
	return &FramingWriter{w: w}
}

// Size returns the number of bytes written so far.
func (fw *FramingWriter) Size() int64 {
	return fw.size
}

// EmitChunk appends delimiter || big-endian-int32(len(payload)) ||
// payload to the output and returns the byte offset at which the
// payload begins. payload must already be gzip-compressed; EmitChunk
// performs no compression itself (chunk_writer.go owns that).
func (fw *FramingWriter) EmitChunk(payload []byte) (position int64, err error) {
	if len(payload) == 0 {
		return 0, errors.New("goby: cannot emit an empty chunk payload")
	}
	if err := fw.writeDelimiterAndLength(int32(len(payload))); err != nil {
		return 0, err
	}
	position = fw.size
	n, err := fw.w.Write(payload)
	fw.size += int64(n)
	if err != nil {
		return 0, &ChunkError{Offset: position, Kind: ChunkErrIO, Err: err}
	}
	return position, nil
}

// Finalize appends the zero-length terminator record. It must be
// called exactly once, after the last EmitChunk.
func (fw *FramingWriter) Finalize() error {
	return fw.writeDelimiterAndLength(0)
}

func (fw *FramingWriter) writeDelimiterAndLength(length int32) error {
	n, err := fw.w.Write(Delimiter[:])
	fw.size += int64(n)
	if err != nil {
		return &ChunkError{Offset: fw.size, Kind: ChunkErrIO, Err: err}
	}
	var lenBuf [4]byte
	binary.BigEndian.PutUint32(lenBuf[:], uint32(length))
	n, err = fw.w.Write(lenBuf[:])
	fw.size += int64(n)
	if err != nil {
		return &ChunkError{Offset: fw.size, Kind: ChunkErrIO, Err: err}
	}
	return nil
}

// ScanIndex walks r from the start, recording the offset and length of
// every chunk, and stops at the terminator. It is the reader-side
// counterpart of FramingWriter.
//
// On a truncated stream, ScanIndex returns the chunks it was able to
// locate together with a non-nil *ChunkError identifying the offset at
// which truncation was detected; callers should treat the returned
// slice as usable regardless.
func ScanIndex(r io.ReadSeeker) ([]MessageChunk, error) {
	return ScanIndexAt(r, 0, SeekBegin)
}

// ScanIndexAt is the restartable-seek variant of ScanIndex: it resumes
// index construction from the given offset and origin, supporting
// resume at a chunk boundary.
func ScanIndexAt(r io.ReadSeeker, offset int64, origin SeekOrigin) ([]MessageChunk, error) {
	fileSize, err := r.Seek(0, io.SeekEnd)
	if err != nil {
		return nil, err
	}
	var start int64
	switch origin {
	case SeekBegin:
		start = offset
	case SeekEnd:
		start = fileSize + offset
	default:
		return nil, fmt.Errorf("goby: unknown seek origin %d", origin)
	}
	return scanIndexFrom(r, start, fileSize)
}

func scanIndexFrom(r io.ReadSeeker, start, fileSize int64) ([]MessageChunk, error) {
	if _, err := r.Seek(start, io.SeekStart); err != nil {
		return nil, err
	}
	var chunks []MessageChunk
	var delim [8]byte
	var lenBuf [4]byte
	offset := start
	for {
		if offset >= fileSize {
			return chunks, &ChunkError{Offset: offset, Kind: ChunkErrCorrupt, Err: ErrTruncated}
		}
		if _, err := io.ReadFull(r, delim[:]); err != nil {
			return chunks, &ChunkError{Offset: offset, Kind: ChunkErrCorrupt, Err: ErrTruncated}
		}
		offset += int64(len(delim))

		if _, err := io.ReadFull(r, lenBuf[:]); err != nil {
			return chunks, &ChunkError{Offset: offset, Kind: ChunkErrCorrupt, Err: ErrTruncated}
		}
		offset += int64(len(lenBuf))

		length := int32(binary.BigEndian.Uint32(lenBuf[:]))
		if length == 0 {
			return chunks, nil
		}
		if length < 0 || offset+int64(length) > fileSize {
			return chunks, &ChunkError{
				Offset: offset,
				Kind:   ChunkErrCorrupt,
				Err:    fmt.Errorf("chunk length %d exceeds remaining file bounds", length),
			}
		}
		chunks = append(chunks, MessageChunk{Position: offset, Length: length})
		if _, err := r.Seek(int64(length), io.SeekCurrent); err != nil {
			return chunks, &ChunkError{Offset: offset, Kind: ChunkErrIO, Err: err}
		}
		offset += int64(length)
	}
}

// gzipCompress compresses data into a standalone gzip stream.
func gzipCompress(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	if _, err := gz.Write(data); err != nil {
		_ = gz.Close()
		return nil, err
	}
	if err := gz.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// gzipDecompress fully decompresses a gzip stream, assembling whatever
// number of segments the underlying reader yields.
func gzipDecompress(data []byte) ([]byte, error) {
	gz, err := gzip.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	defer gz.Close()
	out, err := io.ReadAll(gz)
	if err != nil {
		return nil, err
	}
	return out, nil
}

// ReadChunkPayload seeks r to chunk.Position and reads chunk.Length
// compressed bytes into a fresh buffer.
func ReadChunkPayload(r io.ReadSeeker, chunk MessageChunk) ([]byte, error) {
	if _, err := r.Seek(chunk.Position, io.SeekStart); err != nil {
		return nil, &ChunkError{Offset: chunk.Position, Kind: ChunkErrIO, Err: err}
	}
	buf := make([]byte, chunk.Length)
	if _, err := io.ReadFull(r, buf); err != nil {
		return nil, &ChunkError{Offset: chunk.Position, Kind: ChunkErrIO, Err: err}
	}
	return buf, nil
}
