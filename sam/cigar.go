// Package sam reconstructs alignments from SAM fields: given a CIGAR
// string, an MD tag, and a read's sequence/quality, it rebuilds
// gap-annotated reference and query strings and emits
// sequence-variation records.
package sam

import (
	"fmt"
	"strconv"
)

// CigarSegment is one (length, operation) pair of a CIGAR string.
type CigarSegment struct {
	Length int
	Op     byte
}

// Recognized CIGAR operations.
const (
	CigarMatch       = 'M'
	CigarInsertion   = 'I'
	CigarDeletion    = 'D'
	CigarSkip        = 'N'
	CigarSoftClip    = 'S'
	CigarHardClip    = 'H'
	CigarPadding     = 'P'
	CigarSeqMatch    = '='
	CigarSeqMismatch = 'X'
)

// RefConsuming reports whether op advances the reference walker (and
// therefore must be matched against the MD string).
func RefConsuming(op byte) bool {
	switch op {
	case CigarMatch, CigarDeletion, CigarSeqMatch, CigarSeqMismatch:
		return true
	default:
		return false
	}
}

// QueryConsuming reports whether op advances the query (read) cursor.
func QueryConsuming(op byte) bool {
	switch op {
	case CigarMatch, CigarInsertion, CigarSoftClip, CigarSeqMatch, CigarSeqMismatch:
		return true
	default:
		return false
	}
}

// ParseCigar parses a CIGAR string such as "4M1I3M" into its segments.
// An empty string is an error.
func ParseCigar(cigar string) ([]CigarSegment, error) {
	if cigar == "" {
		return nil, fmt.Errorf("sam: empty cigar")
	}
	var segs []CigarSegment
	i := 0
	for i < len(cigar) {
		j := i
		for j < len(cigar) && cigar[j] >= '0' && cigar[j] <= '9' {
			j++
		}
		if j == i {
			return nil, fmt.Errorf("sam: cigar %q: expected length at offset %d", cigar, i)
		}
		length, err := strconv.Atoi(cigar[i:j])
		if err != nil {
			return nil, fmt.Errorf("sam: cigar %q: %w", cigar, err)
		}
		if j >= len(cigar) {
			return nil, fmt.Errorf("sam: cigar %q: missing operation after length", cigar)
		}
		op := cigar[j]
		switch op {
		case CigarMatch, CigarInsertion, CigarDeletion, CigarSkip, CigarSoftClip, CigarHardClip, CigarPadding, CigarSeqMatch, CigarSeqMismatch:
		default:
			return nil, fmt.Errorf("sam: cigar %q: unrecognized operation %q", cigar, op)
		}
		segs = append(segs, CigarSegment{Length: length, Op: op})
		i = j + 1
	}
	return segs, nil
}

// FormatCigar renders segs back to its string form.
func FormatCigar(segs []CigarSegment) string {
	var b []byte
	for _, s := range segs {
		b = strconv.AppendInt(b, int64(s.Length), 10)
		b = append(b, s.Op)
	}
	return string(b)
}
