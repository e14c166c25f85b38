// Package alignments implements the basename.entries chunked stream of
// alignment records, the basename.header sidecar, the basename.tmh
// too-many-hits sidecar, and the optional basename.stats text file.
package alignments

import (
	"bufio"
	"fmt"
	"os"
	"sort"

	"github.com/bits-and-blooms/bitset"

	"github.com/gitter-badger/goby"
	"github.com/gitter-badger/goby/internal/gobypb"
)

const (
	entriesSuffix = ".entries"
	headerSuffix  = ".header"
	statsSuffix   = ".stats"
)

// Header accumulates the writer-only sidecar state: aligner metadata,
// target table, statistics, and query-index bookkeeping. It is mutated
// throughout the writer's life and serialized once on Writer.Finished.
type Header struct {
	pb gobypb.AlignmentHeader

	targetIndexByName map[string]uint32
	queryIndexByName  map[string]uint32

	// observedQueryIndices records which query indices have been seen.
	// Per-entry occurrence counts are kept separately, by Writer.
	observedQueryIndices *bitset.BitSet
}

// NewHeader returns a Header with no targets, statistics, or aligner
// metadata set.
func NewHeader() *Header {
	return &Header{
		targetIndexByName:    make(map[string]uint32),
		queryIndexByName:     make(map[string]uint32),
		observedQueryIndices: bitset.New(0),
	}
}

// SetAlignerName records the name of the aligner that produced this
// file.
func (h *Header) SetAlignerName(name string) { h.pb.AlignerName = name }

// SetAlignerVersion records the aligner's version string.
func (h *Header) SetAlignerVersion(version string) { h.pb.AlignerVersion = version }

// SetQualityAdjustment sets the integer offset subtracted from quality
// scores on encode.
func (h *Header) SetQualityAdjustment(offset int32) { h.pb.QualityAdjustment = offset }

// SetSorted marks the header as position-sorted.
func (h *Header) SetSorted(sorted bool) { h.pb.Sorted = sorted }

// SetIndexed marks the header as having a companion index.
func (h *Header) SetIndexed(indexed bool) { h.pb.Indexed = indexed }

// SetQueryIndexOccurrencesStoredInEntries toggles whether per-entry
// occurrence counts are materialized.
func (h *Header) SetQueryIndexOccurrencesStoredInEntries(value bool) {
	h.pb.QueryIndexOccurrencesStoredInEntries = value
}

// AddTarget registers a reference sequence by index, name, and length.
func (h *Header) AddTarget(index uint32, name string, length uint32) {
	h.pb.Targets = append(h.pb.Targets, &gobypb.TargetEntry{
		Index:  index,
		Name:   name,
		Length: length,
	})
	h.targetIndexByName[name] = index
}

// AddTargetWithTranslation registers a target the same way as AddTarget,
// while also recording the aligner-native target index, for aligners
// that number references differently than goby.
func (h *Header) AddTargetWithTranslation(gobyTargetIndex, alignerTargetIndex uint32, name string, length uint32) {
	h.pb.Targets = append(h.pb.Targets, &gobypb.TargetEntry{
		Index:              gobyTargetIndex,
		Name:               name,
		Length:             length,
		HasTranslatedIndex: true,
		TranslatedIndex:    alignerTargetIndex,
	})
	h.targetIndexByName[name] = gobyTargetIndex
}

// IsTargetIdentifierRegistered reports whether name has a registered
// target index.
func (h *Header) IsTargetIdentifierRegistered(name string) bool {
	_, ok := h.targetIndexByName[name]
	return ok
}

// TargetIndexForIdentifier returns the index registered for name. The
// second return value is false if name has no registered target.
func (h *Header) TargetIndexForIdentifier(name string) (uint32, bool) {
	idx, ok := h.targetIndexByName[name]
	return idx, ok
}

// AddQueryIdentifier assigns identifier the query index equal to the
// number of identifiers registered so far, and returns it. The index is
// not checked against indices registered with
// AddQueryIdentifierWithIndex.
func (h *Header) AddQueryIdentifier(identifier string) uint32 {
	idx := uint32(len(h.queryIndexByName))
	h.queryIndexByName[identifier] = idx
	return idx
}

// AddQueryIdentifierWithIndex registers identifier at an explicit query
// index.
func (h *Header) AddQueryIdentifierWithIndex(identifier string, index uint32) {
	h.queryIndexByName[identifier] = index
}

// QueryIndexForIdentifier looks up a previously registered query index.
func (h *Header) QueryIndexForIdentifier(identifier string) (uint32, bool) {
	idx, ok := h.queryIndexByName[identifier]
	return idx, ok
}

// AddStatisticStr attaches a free-form string statistic.
func (h *Header) AddStatisticStr(description, value string) {
	h.pb.Statistics = append(h.pb.Statistics, &gobypb.Statistic{
		Description: description,
		Kind:        gobypb.StatisticString,
		StringValue: value,
	})
}

// AddStatisticInt attaches a free-form integer statistic.
func (h *Header) AddStatisticInt(description string, value int64) {
	h.pb.Statistics = append(h.pb.Statistics, &gobypb.Statistic{
		Description: description,
		Kind:        gobypb.StatisticInt,
		IntValue:    value,
	})
}

// AddStatisticDouble attaches a free-form floating-point statistic.
func (h *Header) AddStatisticDouble(description string, value float64) {
	h.pb.Statistics = append(h.pb.Statistics, &gobypb.Statistic{
		Description: description,
		Kind:        gobypb.StatisticDouble,
		DoubleValue: value,
	})
}

// observeQueryIndex records in the observed-index bitmap that
// queryIndex was seen. The bitset grows automatically to accommodate
// queryIndex.
func (h *Header) observeQueryIndex(queryIndex uint32) {
	h.observedQueryIndices.Set(uint(queryIndex))
}

// hasObserved reports whether queryIndex has been recorded by
// observeQueryIndex.
func (h *Header) hasObserved(queryIndex uint32) bool {
	return h.observedQueryIndices.Test(uint(queryIndex))
}

// Write serializes the header to basename.header.
func (h *Header) Write(basename string) error {
	data, err := h.pb.Marshal()
	if err != nil {
		return err
	}
	name := goby.TrimKnownSuffix(basename) + headerSuffix
	return os.WriteFile(name, data, 0o644)
}

// OpenHeader reads and parses a basename.header sidecar.
func OpenHeader(basename string) (*Header, error) {
	name := goby.TrimKnownSuffix(basename) + headerSuffix
	data, err := os.ReadFile(name)
	if err != nil {
		return nil, err
	}
	h := NewHeader()
	if err := h.pb.Unmarshal(data); err != nil {
		return nil, &goby.ChunkError{Kind: goby.ChunkErrCorrupt, Err: err}
	}
	return h, nil
}

// PB exposes the underlying wire message for read-only inspection
// (aligner metadata, target table, statistics, counts) by callers such
// as cmd/goby's info report.
func (h *Header) PB() *gobypb.AlignmentHeader { return &h.pb }

// WriteStats writes the optional basename.stats text file: one
// key=value line per statistic plus the header's numeric summary
// fields, sorted by key for reproducible output.
func WriteStats(basename string, h *Header) error {
	name := goby.TrimKnownSuffix(basename) + statsSuffix
	f, err := os.Create(name)
	if err != nil {
		return err
	}
	defer f.Close()

	lines := make([]string, 0, len(h.pb.Statistics)+4)
	for _, s := range h.pb.Statistics {
		switch s.Kind {
		case gobypb.StatisticString:
			lines = append(lines, fmt.Sprintf("%s=%s", s.Description, s.StringValue))
		case gobypb.StatisticInt:
			lines = append(lines, fmt.Sprintf("%s=%d", s.Description, s.IntValue))
		case gobypb.StatisticDouble:
			lines = append(lines, fmt.Sprintf("%s=%g", s.Description, s.DoubleValue))
		}
	}
	lines = append(lines,
		fmt.Sprintf("numberOfAlignedReads=%d", h.pb.NumberOfAlignedReads),
		fmt.Sprintf("numberOfReads=%d", h.pb.NumberOfReads),
		fmt.Sprintf("smallestQueryIndex=%d", h.pb.SmallestQueryIndex),
		fmt.Sprintf("largestQueryIndex=%d", h.pb.LargestQueryIndex),
	)
	sort.Strings(lines)

	w := bufio.NewWriter(f)
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return w.Flush()
}
