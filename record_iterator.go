package goby

import "errors"

// ErrRecordIteratorAtEnd is returned by Current when the iterator has
// been advanced past the last record in the stream.
var ErrRecordIteratorAtEnd = errors.New("goby: record iterator is at end")

// RecordHolder is implemented by a record-collection so RecordIterator
// can flatten it into individual records.
type RecordHolder[R any] interface {
	Collection
	Len() int
	RecordAt(i int) R
}

// RecordIterator flattens the collections produced by a ChunkReader
// into a single sequence of records, advancing across chunk boundaries
// transparently.
type RecordIterator[T RecordHolder[R], R any] struct {
	cr          *ChunkReader[T]
	recordIndex int
	collection  T
}

// NewRecordIterator wraps cr for per-record iteration, positioned at
// the first record of the first chunk.
func NewRecordIterator[T RecordHolder[R], R any](cr *ChunkReader[T]) (*RecordIterator[T, R], error) {
	ri := &RecordIterator[T, R]{cr: cr}
	if err := ri.load(); err != nil {
		return nil, err
	}
	return ri, nil
}

func (ri *RecordIterator[T, R]) load() error {
	coll, err := ri.cr.Current()
	if err != nil {
		return err
	}
	ri.collection = coll
	return nil
}

// AtEnd reports whether iteration is exhausted: the underlying chunk
// iterator is at end and the record index is zero.
func (ri *RecordIterator[T, R]) AtEnd() bool {
	return ri.cr.AtEnd() && ri.recordIndex == 0
}

// Current returns the record at the iterator's position.
func (ri *RecordIterator[T, R]) Current() (R, error) {
	var zero R
	if ri.AtEnd() {
		return zero, ErrRecordIteratorAtEnd
	}
	return ri.collection.RecordAt(ri.recordIndex), nil
}

// Advance moves to the next record, crossing into the next chunk once
// the current collection is exhausted.
func (ri *RecordIterator[T, R]) Advance() error {
	ri.recordIndex++
	if ri.recordIndex >= ri.collection.Len() {
		ri.cr.Advance()
		ri.recordIndex = 0
		if err := ri.load(); err != nil {
			return err
		}
	}
	return nil
}

// Err returns any truncation error recorded by the underlying chunk
// reader.
func (ri *RecordIterator[T, R]) Err() error {
	return ri.cr.Err()
}

// Equal reports whether two iterators reference the same filename,
// chunk position, and record index.
func (ri *RecordIterator[T, R]) Equal(other *RecordIterator[T, R]) bool {
	return ri.cr.Equal(other.cr) && ri.recordIndex == other.recordIndex
}
