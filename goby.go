// Package goby implements the chunked, length-framed, gzip-compressed
// container format used to store high-throughput sequencing reads and
// alignment results.
//
// A file is a sequence of independently decodable message chunks: each
// chunk holds a bounded, gzip-compressed collection of records. The
// reads package and the alignments package build record-specific
// readers and writers on top of the generic chunk stream implemented
// here.
package goby

import "strings"

// Delimiter is the fixed 8-byte tag that precedes every chunk length in
// the stream. Readers skip it unconditionally; it exists to give a
// cheap, format-stable resynchronization point and room for a future
// magic/version tag.
var Delimiter = [8]byte{0x67, 0x6f, 0x62, 0x79, 0xfe, 0xed, 0xfa, 0xce}

// NoQual is the sentinel byte meaning "no quality value here", used in
// reconstructed qualities and in sequence-variation quality bytes.
const NoQual byte = 0x00

// DefaultEntriesPerChunk is the number of records a chunk writer
// accumulates before an automatic flush, absent an explicit override.
const DefaultEntriesPerChunk = 10000

// knownSuffixes lists the basename suffixes that basename-taking
// constructors strip.
var knownSuffixes = []string{
	".compact-reads",
	".entries",
	".header",
	".tmh",
	".stats",
}

// TrimKnownSuffix strips a single trailing goby file extension from
// name, if present, so that callers may pass either a basename or a
// concrete file path to the writer/reader constructors.
func TrimKnownSuffix(name string) string {
	for _, suffix := range knownSuffixes {
		if strings.HasSuffix(name, suffix) {
			return strings.TrimSuffix(name, suffix)
		}
	}
	return name
}

// complementCode maps a forward-strand base byte to its complement,
// including IUPAC ambiguity codes. Initialized once, read-only
// afterwards.
var complementCode = buildComplementCode()

func buildComplementCode() [256]byte {
	var table [256]byte
	for i := range table {
		table[i] = byte(i)
	}
	pairs := "ACGTUMRWSYKVHDBNacgtumrwsykvhdbn" +
		"TGCAAKYWSRMBDHVNtgcaakywsrmbdhvn"
	half := len(pairs) / 2
	for i := 0; i < half; i++ {
		table[pairs[i]] = pairs[half+i]
	}
	table['-'] = '-'
	return table
}

// ComplementBase returns the complement of a single base byte, passing
// through any byte with no defined complement (e.g. '-' gap markers)
// unchanged.
func ComplementBase(b byte) byte {
	return complementCode[b]
}

// ReverseComplement returns the reverse complement of seq.
func ReverseComplement(seq []byte) []byte {
	out := make([]byte, len(seq))
	n := len(seq)
	for i, b := range seq {
		out[n-1-i] = ComplementBase(b)
	}
	return out
}

// Reverse returns a reversed copy of b (used for quality strings, which
// have no complement operation, only reversal).
func Reverse(b []byte) []byte {
	out := make([]byte, len(b))
	n := len(b)
	for i, c := range b {
		out[n-1-i] = c
	}
	return out
}
