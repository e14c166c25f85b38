package alignments

import (
	"os"

	"github.com/gitter-badger/goby"
	"github.com/gitter-badger/goby/internal/gobypb"
)

// Reader iterates the alignment entries in a basename.entries file.
type Reader struct {
	f  *os.File
	ri *goby.RecordIterator[*gobypb.AlignmentCollection, *gobypb.AlignmentEntry]
}

// Open opens basename.entries for reading.
func Open(basename string) (*Reader, error) {
	name := goby.TrimKnownSuffix(basename) + entriesSuffix
	f, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	cr, err := goby.NewChunkReader[*gobypb.AlignmentCollection](name, f, newAlignmentCollection)
	if err != nil {
		_ = f.Close()
		return nil, err
	}
	ri, err := goby.NewRecordIterator[*gobypb.AlignmentCollection, *gobypb.AlignmentEntry](cr)
	if err != nil {
		_ = f.Close()
		return nil, err
	}
	return &Reader{f: f, ri: ri}, nil
}

// Next returns the next alignment entry, or ok == false once iteration
// is exhausted.
func (r *Reader) Next() (entry *gobypb.AlignmentEntry, ok bool, err error) {
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
