package alignments

import (
	"os"

	"github.com/gitter-badger/goby"
	"github.com/gitter-badger/goby/internal/gobypb"
)

const tmhSuffix = ".tmh"

func newTMHCollection() *gobypb.TooManyHitsCollection { return &gobypb.TooManyHitsCollection{} }

// tmhWriter appends too-many-hits records to basename.tmh, reusing the
// generic chunk writer.
type tmhWriter struct {
	f  *os.File
	cw *goby.ChunkWriter[*gobypb.TooManyHitsCollection, *gobypb.TooManyHitsEntry]
}

func createTMHWriter(basename string, entriesPerChunk int) (*tmhWriter, error) {
	f, err := os.Create(goby.TrimKnownSuffix(basename) + tmhSuffix)
	if err != nil {
		return nil, err
	}
	cw := goby.NewChunkWriter[*gobypb.TooManyHitsCollection, *gobypb.TooManyHitsEntry](f, newTMHCollection, entriesPerChunk)
	return &tmhWriter{f: f, cw: cw}, nil
}

// append appends one too-many-hits record.
func (t *tmhWriter) append(queryIndex, alignedLength, numberOfHits uint32) error {
	e, err := t.cw.AppendRecord()
	if err != nil {
		return err
	}
	e.QueryIndex = queryIndex
	e.AlignedLength = alignedLength
	e.NumberOfHits = numberOfHits
	return nil
}

func (t *tmhWriter) close() error {
	if err := t.cw.Close(); err != nil {
		_ = t.f.Close()
		return err
	}
	return t.f.Close()
}

// TooManyHitsReader iterates the basename.tmh sidecar.
type TooManyHitsReader struct {
	f  *os.File
	ri *goby.RecordIterator[*gobypb.TooManyHitsCollection, *gobypb.TooManyHitsEntry]
}

// OpenTooManyHits opens basename.tmh for reading.
func OpenTooManyHits(basename string) (*TooManyHitsReader, error) {
	name := goby.TrimKnownSuffix(basename) + tmhSuffix
	f, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	cr, err := goby.NewChunkReader[*gobypb.TooManyHitsCollection](name, f, newTMHCollection)
	if err != nil {
		_ = f.Close()
		return nil, err
	}
	ri, err := goby.NewRecordIterator[*gobypb.TooManyHitsCollection, *gobypb.TooManyHitsEntry](cr)
	if err != nil {
		_ = f.Close()
		return nil, err
	}
	return &TooManyHitsReader{f: f, ri: ri}, nil
}

// Next returns the next too-many-hits record, or ok == false once
// iteration is exhausted.
func (r *TooManyHitsReader) Next() (entry *gobypb.TooManyHitsEntry, ok bool, err error) {
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
func (r *TooManyHitsReader) Err() error { return r.ri.Err() }

// Close releases the underlying file.
func (r *TooManyHitsReader) Close() error { return r.f.Close() }
