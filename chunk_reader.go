package goby

import "io"

// Collection is implemented by a record-collection message so the
// generic chunk reader can parse a chunk's decompressed payload into
// it.
type Collection interface {
	Unmarshal(data []byte) error
}

// ChunkReader is a lazy forward iterator over the record-collections
// held in a chunk stream. Construction scans the file once to build
// the chunk index; dereferencing (Current) always reparses, with no
// caching across Advance.
type ChunkReader[T Collection] struct {
	filename      string
	r             io.ReadSeeker
	chunks        []MessageChunk
	cursor        int
	scanErr       error
	newCollection func() T
}

// NewChunkReader builds a ChunkReader by scanning r from the start.
// newCollection must return a fresh zero-value collection each call.
func NewChunkReader[T Collection](filename string, r io.ReadSeeker, newCollection func() T) (*ChunkReader[T], error) {
	chunks, err := ScanIndex(r)
	return newChunkReaderFrom(filename, r, newCollection, chunks, err)
}

// NewChunkReaderAt resumes index construction from offset/origin, so
// iteration can restart at a previously recorded chunk boundary.
func NewChunkReaderAt[T Collection](
	filename string,
	r io.ReadSeeker,
	offset int64,
	origin SeekOrigin,
	newCollection func() T,
) (*ChunkReader[T], error) {
	chunks, err := ScanIndexAt(r, offset, origin)
	return newChunkReaderFrom(filename, r, newCollection, chunks, err)
}

func newChunkReaderFrom[T Collection](
	filename string,
	r io.ReadSeeker,
	newCollection func() T,
	chunks []MessageChunk,
	scanErr error,
) (*ChunkReader[T], error) {
	if scanErr != nil && !IsCorrupt(scanErr) {
		// A genuine I/O failure while building the index is fatal; a
		// detected truncation is not: the caller still gets to read
		// the chunks that were found.
		return nil, scanErr
	}
	return &ChunkReader[T]{
		filename:      filename,
		r:             r,
		chunks:        chunks,
		newCollection: newCollection,
		scanErr:       scanErr,
	}, nil
}

// Len returns the number of chunks found in the stream.
func (cr *ChunkReader[T]) Len() int {
	return len(cr.chunks)
}

// Cursor returns the current chunk index.
func (cr *ChunkReader[T]) Cursor() int {
	return cr.cursor
}

// Filename returns the name the reader was constructed with.
func (cr *ChunkReader[T]) Filename() string {
	return cr.filename
}

// AtEnd reports whether the cursor has advanced past the last chunk.
func (cr *ChunkReader[T]) AtEnd() bool {
	return cr.cursor >= len(cr.chunks)
}

// Advance moves the chunk cursor forward by one.
func (cr *ChunkReader[T]) Advance() {
	if cr.cursor < len(cr.chunks) {
		cr.cursor++
	}
}

// Current reads, decompresses, and parses the chunk at the cursor. A
// past-end dereference is a defined terminal condition and yields an
// empty default collection rather than an error.
func (cr *ChunkReader[T]) Current() (T, error) {
	if cr.AtEnd() {
		return cr.newCollection(), nil
	}
	chunk := cr.chunks[cr.cursor]
	raw, err := ReadChunkPayload(cr.r, chunk)
	if err != nil {
		var zero T
		return zero, err
	}
	decompressed, err := gzipDecompress(raw)
	if err != nil {
		var zero T
		return zero, &ChunkError{Offset: chunk.Position, Kind: ChunkErrCorrupt, Err: err}
	}
	coll := cr.newCollection()
	if err := coll.Unmarshal(decompressed); err != nil {
		var zero T
		return zero, &ChunkError{Offset: chunk.Position, Kind: ChunkErrCorrupt, Err: err}
	}
	return coll, nil
}

// Equal reports whether two readers reference the same filename and
// chunk cursor.
func (cr *ChunkReader[T]) Equal(other *ChunkReader[T]) bool {
	return cr.filename == other.filename && cr.cursor == other.cursor
}

// Err returns the truncation error detected while scanning the index,
// if the stream ended without its terminator record. A nil return
// means the stream was well-formed.
func (cr *ChunkReader[T]) Err() error {
	return cr.scanErr
}
