package sam

import (
	"fmt"
	"strings"

	"github.com/gitter-badger/goby"
)

// VariationSink receives one sequence-variation record per differing
// reconstructed position; any coalescing is up to the sink. A
// *alignments.Writer satisfies this interface; passing it to
// Reconstruction.OutputSequenceVariations lets the SAM helper feed
// variations through the same adjacency-coalescing rule the writer
// applies to every other source of variations.
type VariationSink interface {
	AddSequenceVariation(readIndex, refPosition uint32, refChar, readChar byte, hasQual bool, qualChar byte) error
}

// Reconstruction holds the three equal-length, gap-annotated strings
// produced by ConstructRefAndQuery, plus the per-position read/ref
// coordinates needed to emit correctly ordered sequence variations.
type Reconstruction struct {
	Ref, Query, Qual []byte

	// readPos[i] is the working-read index of position i of
	// Ref/Query/Qual: the working-read offset of the first aligned base
	// (so a leading soft clip offsets it) plus i. refPos[i] is the
	// reference coordinate of position i, relative to the start of the
	// aligned span.
	readPos, refPos []uint32

	reverseStrand bool
	// originalQueryLength is the length of the query as given to
	// SetQuery, before any strand-driven reverse-complementing.
	originalQueryLength int
}

// ConstructedRef returns the gap-annotated reference string.
func (r *Reconstruction) ConstructedRef() []byte { return r.Ref }

// ConstructedQuery returns the gap-annotated query string.
func (r *Reconstruction) ConstructedQuery() []byte { return r.Query }

// ConstructedQual returns the gap-annotated quality string, using
// goby.NoQual where no quality value applies.
func (r *Reconstruction) ConstructedQual() []byte { return r.Qual }

// String renders a three-line ref/query/qual dump for debugging.
func (r *Reconstruction) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "ref:   %s\n", r.Ref)
	fmt.Fprintf(&b, "query: %s\n", r.Query)
	fmt.Fprintf(&b, "qual:  %s\n", qualString(r.Qual))
	return b.String()
}

func qualString(q []byte) string {
	out := make([]byte, len(q))
	for i, b := range q {
		if b == goby.NoQual {
			out[i] = '.'
		} else {
			out[i] = b
		}
	}
	return string(out)
}

// SamHelper reconstructs reference/query/quality strings from a CIGAR,
// an MD tag, and a read's bases/qualities. A single instance is reused
// across entries via Reset.
type SamHelper struct {
	cigar    []CigarSegment
	cigarStr string
	md       string

	sourceQuery []byte
	sourceQual  []byte
	query       []byte
	qual        []byte
	reverse     bool

	result *Reconstruction
}

// NewSamHelper returns an empty helper.
func NewSamHelper() *SamHelper {
	return &SamHelper{}
}

// Reset clears the helper for reuse on a new entry.
func (s *SamHelper) Reset() {
	*s = SamHelper{}
}

// AddCigarItem appends one CIGAR segment, for callers building a CIGAR
// incrementally rather than parsing a string.
func (s *SamHelper) AddCigarItem(length int, op byte) {
	s.cigar = append(s.cigar, CigarSegment{Length: length, Op: op})
	s.cigarStr = ""
}

// SetCigar parses and stores a CIGAR string.
func (s *SamHelper) SetCigar(cigar string) error {
	segs, err := ParseCigar(cigar)
	if err != nil {
		return err
	}
	s.cigar = segs
	s.cigarStr = cigar
	return nil
}

// CigarStr returns the CIGAR string, reconstructing it from segments
// added via AddCigarItem if SetCigar was never called.
func (s *SamHelper) CigarStr() string {
	if s.cigarStr == "" && len(s.cigar) > 0 {
		s.cigarStr = FormatCigar(s.cigar)
	}
	return s.cigarStr
}

// SetMD stores the MD tag.
func (s *SamHelper) SetMD(md string) {
	s.md = md
}

// SetQuery stores the read's forward-strand-relative bases and
// qualities. When reverseStrand is true, the working copy used by
// ConstructRefAndQuery is reverse-complemented/reversed immediately;
// SourceQuery/SourceQual still return the bases exactly as given.
func (s *SamHelper) SetQuery(reads, qual []byte, reverseStrand bool) {
	s.sourceQuery = append([]byte(nil), reads...)
	s.sourceQual = append([]byte(nil), qual...)
	s.reverse = reverseStrand
	if reverseStrand {
		s.query = goby.ReverseComplement(reads)
		s.qual = goby.Reverse(qual)
	} else {
		s.query = append([]byte(nil), reads...)
		s.qual = append([]byte(nil), qual...)
	}
}

// SourceQuery returns the read bases exactly as given to SetQuery.
func (s *SamHelper) SourceQuery() []byte { return s.sourceQuery }

// SourceQual returns the read qualities exactly as given to SetQuery.
func (s *SamHelper) SourceQual() []byte { return s.sourceQual }

// ConstructRefAndQuery walks the CIGAR and MD in lock-step, producing
// three equal-length strings over the aligned span. The result is
// cached and also retrievable via ConstructedRef/ConstructedQuery/
// ConstructedQual.
func (s *SamHelper) ConstructRefAndQuery() (*Reconstruction, error) {
	walker, err := newMDWalker(s.md)
	if err != nil {
		return nil, err
	}

	var ref, query, qual []byte
	var readPos, refPos []uint32
	qPos := 0
	var refCursor uint32
	// readCursor is the position within the reconstructed span, seeded
	// from qPos on first use (so a leading soft clip still offsets it
	// correctly) and then incremented once per reconstructed position
	// regardless of operation kind. A deletion run doesn't advance qPos
	// (nothing in the read is consumed), but the read index must still
	// advance through it one-per-base or multi-base deletion runs could
	// never coalesce into one variation.
	readCursor := -1

	for segIdx, seg := range s.cigar {
		switch seg.Op {
		case CigarMatch, CigarSeqMatch, CigarSeqMismatch:
			for k := 0; k < seg.Length; k++ {
				if readCursor < 0 {
					readCursor = qPos
				}
				qb, qq := s.queryBaseAt(qPos)
				rb, err := walker.nextMatchOrMismatch(qb)
				if err != nil {
					return nil, &goby.SamReconstructError{CigarIndex: segIdx, MDCursor: walker.cursor, Err: err}
				}
				ref = append(ref, rb)
				query = append(query, qb)
				qual = append(qual, qq)
				readPos = append(readPos, uint32(readCursor))
				refPos = append(refPos, refCursor)
				qPos++
				refCursor++
				readCursor++
			}
		case CigarInsertion:
			for k := 0; k < seg.Length; k++ {
				if readCursor < 0 {
					readCursor = qPos
				}
				qb, qq := s.queryBaseAt(qPos)
				ref = append(ref, '-')
				query = append(query, qb)
				qual = append(qual, qq)
				readPos = append(readPos, uint32(readCursor))
				refPos = append(refPos, refCursor)
				qPos++
				readCursor++
			}
		case CigarDeletion:
			bases, err := walker.nextDeletion(seg.Length)
			if err != nil {
				return nil, &goby.SamReconstructError{CigarIndex: segIdx, MDCursor: walker.cursor, Err: err}
			}
			if readCursor < 0 {
				readCursor = qPos
			}
			for k := 0; k < seg.Length; k++ {
				ref = append(ref, bases[k])
				query = append(query, '-')
				qual = append(qual, goby.NoQual)
				readPos = append(readPos, uint32(readCursor))
				refPos = append(refPos, refCursor)
				refCursor++
				readCursor++
			}
		case CigarSkip:
			// not emitted; ref-consuming in SAM at large but absent from
			// the MD string, so the walker is left untouched.
		case CigarSoftClip:
			qPos += seg.Length
		case CigarHardClip, CigarPadding:
			// no-op
		default:
			return nil, &goby.SamReconstructError{
				CigarIndex: segIdx, MDCursor: walker.cursor,
				Err: fmt.Errorf("unrecognized cigar operation %q", seg.Op),
			}
		}
	}

	if !walker.exhausted() {
		return nil, &goby.SamReconstructError{
			CigarIndex: len(s.cigar), MDCursor: walker.cursor,
			Err: fmt.Errorf("md string has unconsumed tokens after walking cigar"),
		}
	}

	s.result = &Reconstruction{
		Ref: ref, Query: query, Qual: qual,
		readPos: readPos, refPos: refPos,
		reverseStrand:       s.reverse,
		originalQueryLength: len(s.sourceQuery),
	}
	return s.result, nil
}

func (s *SamHelper) queryBaseAt(pos int) (base, qual byte) {
	base = s.query[pos]
	qual = goby.NoQual
	if pos < len(s.qual) {
		qual = s.qual[pos]
	}
	return base, qual
}

// ConstructedRef returns the last reconstruction's reference string, or
// nil if ConstructRefAndQuery has not been called.
func (s *SamHelper) ConstructedRef() []byte {
	if s.result == nil {
		return nil
	}
	return s.result.Ref
}

// ConstructedQuery returns the last reconstruction's query string.
func (s *SamHelper) ConstructedQuery() []byte {
	if s.result == nil {
		return nil
	}
	return s.result.Query
}

// ConstructedQual returns the last reconstruction's quality string.
func (s *SamHelper) ConstructedQual() []byte {
	if s.result == nil {
		return nil
	}
	return s.result.Qual
}

// OutputSequenceVariations iterates the reconstructed ref/query/qual
// strings, emitting a SequenceVariation to sink wherever ref and query
// diverge, and returns the match/substitution/insertion/deletion
// counts.
//
// On a reverse-strand reconstruction, positions are visited back to
// front so that emitted read indices, translated back to the original
// un-reversed read's coordinates, still increase monotonically. That
// keeps the sink's adjacency-coalescing rule working for insertion and
// deletion runs regardless of strand.
func (r *Reconstruction) OutputSequenceVariations(sink VariationSink) (matches, subs, inserts, deletes int, err error) {
	n := len(r.Ref)
	step := 1
	start, end := 0, n
	if r.reverseStrand {
		step = -1
		start, end = n-1, -1
	}

	for i := start; i != end; i += step {
		refBase, queryBase := r.Ref[i], r.Query[i]
		qualByte := goby.NoQual
		if i < len(r.Qual) {
			qualByte = r.Qual[i]
		}
		readIndex := r.readPos[i]
		if r.reverseStrand {
			readIndex = uint32(r.originalQueryLength-1) - readIndex
		}
		refPosition := r.refPos[i]

		switch {
		case refBase == '-':
			if err := sink.AddSequenceVariation(readIndex, refPosition, refBase, queryBase, qualByte != goby.NoQual, qualByte); err != nil {
				return matches, subs, inserts, deletes, err
			}
			inserts++
		case queryBase == '-':
			if err := sink.AddSequenceVariation(readIndex, refPosition, refBase, queryBase, false, 0); err != nil {
				return matches, subs, inserts, deletes, err
			}
			deletes++
		case refBase != queryBase:
			if err := sink.AddSequenceVariation(readIndex, refPosition, refBase, queryBase, qualByte != goby.NoQual, qualByte); err != nil {
				return matches, subs, inserts, deletes, err
			}
			subs++
		default:
			matches++
		}
	}
	return matches, subs, inserts, deletes, nil
}
