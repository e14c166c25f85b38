// Package reads implements the basename.compact-reads chunked stream:
// a sequence of sequencing reads, each with an index, length, and
// optional sequence/quality/identifier/description fields, built on
// the package-level generic chunk writer and reader.
package reads

import (
	"os"

	"github.com/gitter-badger/goby"
	"github.com/gitter-badger/goby/internal/gobypb"
)

const suffix = ".compact-reads"

func newCollection() *gobypb.ReadCollection { return &gobypb.ReadCollection{} }

// Writer appends reads to a basename.compact-reads file.
type Writer struct {
	f       *os.File
	cw      *goby.ChunkWriter[*gobypb.ReadCollection, *gobypb.ReadEntry]
	current *gobypb.ReadEntry
}

// Create opens basename.compact-reads for writing. entriesPerChunk <=
// 0 selects goby.DefaultEntriesPerChunk.
func Create(basename string, entriesPerChunk int) (*Writer, error) {
	f, err := os.Create(goby.TrimKnownSuffix(basename) + suffix)
	if err != nil {
		return nil, err
	}
	cw := goby.NewChunkWriter[*gobypb.ReadCollection, *gobypb.ReadEntry](f, newCollection, entriesPerChunk)
	return &Writer{f: f, cw: cw}, nil
}

// AppendEntry commits any entry under construction and begins a new
// one with the given index and length.
func (w *Writer) AppendEntry(readIndex, readLength uint32) error {
	e, err := w.cw.AppendRecord()
	if err != nil {
		return err
	}
	e.ReadIndex = readIndex
	e.ReadLength = readLength
	w.current = e
	return nil
}

// SetSequence attaches the read's bases to the entry under
// construction.
func (w *Writer) SetSequence(seq []byte) error {
	if w.current == nil {
		return goby.ErrNoActiveEntry
	}
	w.current.Sequence = append([]byte(nil), seq...)
	w.current.HasSequence = true
	return nil
}

// SetQualityScores attaches per-base quality values to the entry under
// construction.
func (w *Writer) SetQualityScores(quality []byte) error {
	if w.current == nil {
		return goby.ErrNoActiveEntry
	}
	w.current.QualityScores = append([]byte(nil), quality...)
	w.current.HasQuality = true
	return nil
}

// SetIdentifier attaches a free-form read identifier.
func (w *Writer) SetIdentifier(id string) error {
	if w.current == nil {
		return goby.ErrNoActiveEntry
	}
	w.current.ReadIdentifier = id
	w.current.HasIdentifier = true
	return nil
}

// SetDescription attaches a free-form read description.
func (w *Writer) SetDescription(description string) error {
	if w.current == nil {
		return goby.ErrNoActiveEntry
	}
	w.current.Description = description
	w.current.HasDescription = true
	return nil
}

// Flush force-emits the current chunk even if under threshold.
func (w *Writer) Flush() error {
	return w.cw.Flush()
}

// Close flushes any pending reads, finalizes the chunk stream, and
// closes the underlying file.
func (w *Writer) Close() error {
	if err := w.cw.Close(); err != nil {
		_ = w.f.Close()
		return err
	}
	return w.f.Close()
}

// Reader iterates the reads in a basename.compact-reads file.
type Reader struct {
	f  *os.File
	ri *goby.RecordIterator[*gobypb.ReadCollection, *gobypb.ReadEntry]
}

// Open opens basename.compact-reads for reading.
func Open(basename string) (*Reader, error) {
	name := goby.TrimKnownSuffix(basename) + suffix
	f, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	cr, err := goby.NewChunkReader[*gobypb.ReadCollection](name, f, newCollection)
	if err != nil {
		_ = f.Close()
		return nil, err
	}
	ri, err := goby.NewRecordIterator[*gobypb.ReadCollection, *gobypb.ReadEntry](cr)
	if err != nil {
		_ = f.Close()
		return nil, err
	}
	return &Reader{f: f, ri: ri}, nil
}

// Next returns the next read, or ok == false once iteration is
// exhausted.
func (r *Reader) Next() (entry *gobypb.ReadEntry, ok bool, err error) {
	if r.ri.AtEnd() {
		return nil, false, nil
	}
	entry, err = r.ri.Current()
	if err != nil {
		return nil, false, err
	}
	if err = r.ri.Advance(); err != nil {
		return nil, false, err
	}
	return entry, true, nil
}

// Err returns any truncation error encountered while scanning the
// file's chunk index.
func (r *Reader) Err() error {
	return r.ri.Err()
}

// Close releases the underlying file.
func (r *Reader) Close() error {
	return r.f.Close()
}
