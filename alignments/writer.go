package alignments

import (
	"os"

	"github.com/gitter-badger/goby"
	"github.com/gitter-badger/goby/internal/gobypb"
)

// WriterOptions configures a Writer. Zero values select the library's
// defaults.
type WriterOptions struct {
	// EntriesPerChunk caps the number of alignment entries accumulated
	// before an automatic chunk flush. <= 0 selects
	// goby.DefaultEntriesPerChunk.
	EntriesPerChunk int
	// Sorted marks the header as position-sorted.
	Sorted bool
	// Indexed marks the header as having a companion index.
	Indexed bool
	// QualityAdjustment is the integer offset subtracted from quality
	// scores on encode.
	QualityAdjustment int32
	// StoreQueryIndexOccurrencesInEntries, when true, materializes a
	// per-entry occurrence count for each entry's query index.
	StoreQueryIndexOccurrencesInEntries bool
}

func newAlignmentCollection() *gobypb.AlignmentCollection { return &gobypb.AlignmentCollection{} }

// Writer builds alignment entries incrementally: it accumulates
// per-entry field settings, tracks sequence-variation coalescing,
// observes query indices, and flushes committed entries into the
// underlying chunk writer.
type Writer struct {
	basename string
	opts     WriterOptions

	f   *os.File
	cw  *goby.ChunkWriter[*gobypb.AlignmentCollection, *gobypb.AlignmentEntry]
	tmh *tmhWriter

	header *Header

	current                *gobypb.AlignmentEntry
	currentVariation       *gobypb.SequenceVariation
	lastSeqVarReadIndex    uint32
	hasLastSeqVarReadIndex bool

	smallestQueryIndex uint32
	largestQueryIndex  uint32
	hasAnyQueryIndex   bool

	numberOfAlignedReads uint32

	queryIndexOccurrences map[uint32]uint32
}

// Create opens basename.entries (and its basename.tmh sidecar) for
// writing.
func Create(basename string, opts WriterOptions) (*Writer, error) {
	f, err := os.Create(goby.TrimKnownSuffix(basename) + entriesSuffix)
	if err != nil {
		return nil, err
	}
	cw := goby.NewChunkWriter[*gobypb.AlignmentCollection, *gobypb.AlignmentEntry](f, newAlignmentCollection, opts.EntriesPerChunk)
	tmh, err := createTMHWriter(basename, opts.EntriesPerChunk)
	if err != nil {
		_ = f.Close()
		return nil, err
	}

	header := NewHeader()
	header.SetQualityAdjustment(opts.QualityAdjustment)
	header.SetSorted(opts.Sorted)
	header.SetIndexed(opts.Indexed)
	header.SetQueryIndexOccurrencesStoredInEntries(opts.StoreQueryIndexOccurrencesInEntries)

	return &Writer{
		basename:              goby.TrimKnownSuffix(basename),
		opts:                  opts,
		f:                     f,
		cw:                    cw,
		tmh:                   tmh,
		header:                header,
		queryIndexOccurrences: make(map[uint32]uint32),
	}, nil
}

// Header returns the writer's sidecar header for aligner metadata,
// target table, and statistics setters.
func (w *Writer) Header() *Header { return w.header }

// AppendEntry commits any previous entry to the underlying chunk writer
// and returns a fresh slot for the caller's per-entry setters.
func (w *Writer) AppendEntry() (*gobypb.AlignmentEntry, error) {
	e, err := w.cw.AppendRecord()
	if err != nil {
		return nil, err
	}
	w.current = e
	w.currentVariation = nil
	w.hasLastSeqVarReadIndex = false
	w.numberOfAlignedReads++
	return e, nil
}

func (w *Writer) requireEntry() error {
	if w.current == nil {
		return goby.ErrNoActiveEntry
	}
	return nil
}

// ObserveQueryIndex updates the running smallest/largest query index
// and, if WriterOptions.StoreQueryIndexOccurrencesInEntries is set, the
// per-query occurrence count. It operates on the writer, not the
// current entry, so callers may observe indices for reads that never
// produce an entry.
func (w *Writer) ObserveQueryIndex(queryIndex uint32) {
	if !w.hasAnyQueryIndex || queryIndex < w.smallestQueryIndex {
		w.smallestQueryIndex = queryIndex
	}
	if !w.hasAnyQueryIndex || queryIndex > w.largestQueryIndex {
		w.largestQueryIndex = queryIndex
	}
	w.hasAnyQueryIndex = true
	w.header.observeQueryIndex(queryIndex)
	if w.opts.StoreQueryIndexOccurrencesInEntries {
		w.queryIndexOccurrences[queryIndex]++
	}
}

// SetQueryIndex sets the current entry's query index and observes it.
func (w *Writer) SetQueryIndex(value uint32) error {
	if err := w.requireEntry(); err != nil {
		return err
	}
	w.current.QueryIndex, w.current.HasQueryIndex = value, true
	w.ObserveQueryIndex(value)
	if w.opts.StoreQueryIndexOccurrencesInEntries {
		w.current.QueryIndexOccurrences = w.queryIndexOccurrences[value]
		w.current.HasQueryIndexOccurrences = true
	}
	return nil
}

// SetTargetIndex sets the reference sequence this entry maps onto.
func (w *Writer) SetTargetIndex(value uint32) error {
	if err := w.requireEntry(); err != nil {
		return err
	}
	w.current.TargetIndex, w.current.HasTargetIndex = value, true
	return nil
}

// SetPosition sets the zero-based reference position of the alignment.
func (w *Writer) SetPosition(value uint32) error {
	if err := w.requireEntry(); err != nil {
		return err
	}
	w.current.Position, w.current.HasPosition = value, true
	return nil
}

// SetMatchingReverseStrand records whether the read matched the
// reverse strand.
func (w *Writer) SetMatchingReverseStrand(value bool) error {
	if err := w.requireEntry(); err != nil {
		return err
	}
	w.current.MatchingReverseStrand = value
	return nil
}

// SetQueryPosition sets the zero-based start position within the query.
func (w *Writer) SetQueryPosition(value uint32) error {
	if err := w.requireEntry(); err != nil {
		return err
	}
	w.current.QueryPosition, w.current.HasQueryPosition = value, true
	return nil
}

// SetScore sets the alignment score.
func (w *Writer) SetScore(value float64) error {
	if err := w.requireEntry(); err != nil {
		return err
	}
	w.current.Score, w.current.HasScore = value, true
	return nil
}

// SetNumberOfMismatches sets the mismatch count.
func (w *Writer) SetNumberOfMismatches(value uint32) error {
	if err := w.requireEntry(); err != nil {
		return err
	}
	w.current.NumberOfMismatches, w.current.HasNumberOfMismatches = value, true
	return nil
}

// SetNumberOfIndels sets the indel count.
func (w *Writer) SetNumberOfIndels(value uint32) error {
	if err := w.requireEntry(); err != nil {
		return err
	}
	w.current.NumberOfIndels, w.current.HasNumberOfIndels = value, true
	return nil
}

// SetQueryAlignedLength sets the number of query bases consumed by the
// alignment. It must not exceed QueryLength when that is set.
func (w *Writer) SetQueryAlignedLength(value uint32) error {
	if err := w.requireEntry(); err != nil {
		return err
	}
	if w.current.HasQueryLength && value > w.current.QueryLength {
		return &goby.InvalidArgumentError{Field: "query_aligned_length", Value: value}
	}
	w.current.QueryAlignedLength, w.current.HasQueryAlignedLength = value, true
	return nil
}

// SetTargetAlignedLength sets the number of reference bases consumed by
// the alignment.
func (w *Writer) SetTargetAlignedLength(value uint32) error {
	if err := w.requireEntry(); err != nil {
		return err
	}
	w.current.TargetAlignedLength, w.current.HasTargetAlignedLength = value, true
	return nil
}

// SetQueryLength sets the full length of the query read.
func (w *Writer) SetQueryLength(value uint32) error {
	if err := w.requireEntry(); err != nil {
		return err
	}
	w.current.QueryLength, w.current.HasQueryLength = value, true
	return nil
}

// SetMappingQuality sets the aligner's mapping quality score.
func (w *Writer) SetMappingQuality(value uint32) error {
	if err := w.requireEntry(); err != nil {
		return err
	}
	w.current.MappingQuality, w.current.HasMappingQuality = value, true
	return nil
}

// SetSoftClippedLeft attaches bases trimmed from the left end of the
// query.
func (w *Writer) SetSoftClippedLeft(start, size int, query, quality []byte) error {
	if err := w.requireEntry(); err != nil {
		return err
	}
	w.current.SoftClippedLeft = &gobypb.SoftClip{
		Start: uint32(start), Size: uint32(size),
		Bases: append([]byte(nil), query...), Qualities: append([]byte(nil), quality...),
	}
	return nil
}

// SetSoftClippedRight attaches bases trimmed from the right end of the
// query.
func (w *Writer) SetSoftClippedRight(start, size int, query, quality []byte) error {
	if err := w.requireEntry(); err != nil {
		return err
	}
	w.current.SoftClippedRight = &gobypb.SoftClip{
		Start: uint32(start), Size: uint32(size),
		Bases: append([]byte(nil), query...), Qualities: append([]byte(nil), quality...),
	}
	return nil
}

// SetPlacedUnmapped captures a read that could be placed near its mate
// but did not itself align. When reverseStrand is true, sequence is
// stored reverse-complemented and quality reversed.
func (w *Writer) SetPlacedUnmapped(sequence, quality []byte, reverseStrand bool) error {
	if err := w.requireEntry(); err != nil {
		return err
	}
	seq, qual := sequence, quality
	if reverseStrand {
		seq = goby.ReverseComplement(sequence)
		qual = goby.Reverse(quality)
	}
	w.current.PlacedUnmapped = &gobypb.PlacedUnmapped{
		Sequence:            append([]byte(nil), seq...),
		Qualities:           append([]byte(nil), qual...),
		ReverseComplemented: reverseStrand,
	}
	return nil
}

// SetMultiplicity sets how many equally-good placements this read has.
func (w *Writer) SetMultiplicity(value uint32) error {
	if err := w.requireEntry(); err != nil {
		return err
	}
	w.current.Multiplicity, w.current.HasMultiplicity = value, true
	return nil
}

// SetAmbiguity sets the ambiguity count for this alignment.
func (w *Writer) SetAmbiguity(value uint32) error {
	if err := w.requireEntry(); err != nil {
		return err
	}
	w.current.Ambiguity, w.current.HasAmbiguity = value, true
	return nil
}

// SetFragmentIndex sets the fragment index within a multi-fragment read.
func (w *Writer) SetFragmentIndex(value uint32) error {
	if err := w.requireEntry(); err != nil {
		return err
	}
	w.current.FragmentIndex, w.current.HasFragmentIndex = value, true
	return nil
}

// SetInsertSize sets the insert size for a paired alignment.
func (w *Writer) SetInsertSize(value int32) error {
	if err := w.requireEntry(); err != nil {
		return err
	}
	w.current.InsertSize, w.current.HasInsertSize = value, true
	return nil
}

// SetPairInfo links this entry to its mate.
func (w *Writer) SetPairInfo(flags, targetIndex, position, fragmentIndex uint32) error {
	if err := w.requireEntry(); err != nil {
		return err
	}
	w.current.Pair = &gobypb.PairInfo{
		Flags: flags, TargetIndex: targetIndex, Position: position, FragmentIndex: fragmentIndex,
	}
	return nil
}

// SetSpliceInfo links this entry to the two sides of a spliced
// alignment.
func (w *Writer) SetSpliceInfo(forwardFlags, forwardTargetIndex, forwardPosition, backwardFlags, backwardTargetIndex, backwardPosition uint32) error {
	if err := w.requireEntry(); err != nil {
		return err
	}
	w.current.Splice = &gobypb.SpliceInfo{
		ForwardFlags: forwardFlags, ForwardTargetIndex: forwardTargetIndex, ForwardPosition: forwardPosition,
		BackwardFlags: backwardFlags, BackwardTargetIndex: backwardTargetIndex, BackwardPosition: backwardPosition,
	}
	return nil
}

// AddSequenceVariation records a difference between the read and the
// target at readIndex/refPosition, coalescing with the previous
// variation on this entry when they form an adjacent insertion or
// deletion run: a new variation extends the previous one iff its
// readIndex is exactly one past the last, and both are insertions
// (ref == '-') or both are deletions (read == '-'). Otherwise a new
// variation is created. An insertion followed by a deletion at the
// next readIndex never coalesces; it stays as two records.
//
// WriterOptions.QualityAdjustment is subtracted from qualChar before it
// is stored.
func (w *Writer) AddSequenceVariation(readIndex, refPosition uint32, refChar, readChar byte, hasQual bool, qualChar byte) error {
	if err := w.requireEntry(); err != nil {
		return err
	}
	if w.hasLastSeqVarReadIndex && readIndex < w.lastSeqVarReadIndex {
		return goby.ErrNonMonotonicVariation
	}

	isInsertion := refChar == '-'
	isDeletion := readChar == '-'

	if hasQual {
		qualChar = byte(int32(qualChar) - w.opts.QualityAdjustment)
	}

	if w.canCoalesce(readIndex, isInsertion, isDeletion) {
		cv := w.currentVariation
		cv.From += string(refChar)
		cv.To += string(readChar)
		if cv.HasQual || hasQual {
			cv.HasQual = true
			fill := qualChar
			if !hasQual {
				fill = goby.NoQual
			}
			cv.QualChars = append(cv.QualChars, fill)
		}
	} else {
		sv := &gobypb.SequenceVariation{
			ReadIndex:   readIndex,
			RefPosition: refPosition,
			From:        string(refChar),
			To:          string(readChar),
		}
		if hasQual {
			sv.HasQual = true
			sv.QualChars = []byte{qualChar}
		}
		w.current.SequenceVariations = append(w.current.SequenceVariations, sv)
		w.currentVariation = sv
	}

	w.lastSeqVarReadIndex, w.hasLastSeqVarReadIndex = readIndex, true
	return nil
}

func (w *Writer) canCoalesce(readIndex uint32, isInsertion, isDeletion bool) bool {
	if w.currentVariation == nil || !w.hasLastSeqVarReadIndex {
		return false
	}
	if readIndex != w.lastSeqVarReadIndex+1 {
		return false
	}
	prevIsInsertion := w.currentVariation.From[len(w.currentVariation.From)-1] == '-'
	prevIsDeletion := w.currentVariation.To[len(w.currentVariation.To)-1] == '-'
	return (isInsertion && prevIsInsertion) || (isDeletion && prevIsDeletion)
}

// AppendTooManyHits records a query whose hit count exceeded the
// aligner's reporting threshold.
func (w *Writer) AppendTooManyHits(queryIndex, alignedLength, numberOfHits uint32) error {
	return w.tmh.append(queryIndex, alignedLength, numberOfHits)
}

// Flush force-emits the current chunk even if under threshold.
func (w *Writer) Flush() error {
	return w.cw.Flush()
}

// Finished flushes the trailing partial collection, finalizes the
// chunk stream, and writes the header and too-many-hits sidecars.
func (w *Writer) Finished(numberOfReads uint32) error {
	closeErr := w.cw.Close()
	tmhErr := w.tmh.close()
	fErr := w.f.Close()
	if closeErr != nil {
		return closeErr
	}
	if tmhErr != nil {
		return tmhErr
	}
	if fErr != nil {
		return fErr
	}

	h := w.header
	h.pb.SmallestQueryIndex = w.smallestQueryIndex
	h.pb.LargestQueryIndex = w.largestQueryIndex
	h.pb.NumberOfAlignedReads = w.numberOfAlignedReads
	h.pb.NumberOfReads = numberOfReads
	return h.Write(w.basename)
}
