package cmd

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/gitter-badger/goby/alignments"
	"github.com/gitter-badger/goby/internal/gobypb"
)

var catFormatJSON bool

type catEntry struct {
	QueryIndex  uint32 `json:"query_index"`
	TargetIndex uint32 `json:"target_index"`
	Position    uint32 `json:"position"`
	Reverse     bool   `json:"reverse_strand"`
	Score       float64 `json:"score,omitempty"`
	Variations  int    `json:"variations"`
}

func catTextRow(w io.Writer, e *gobypb.AlignmentEntry) error {
	strand := "+"
	if e.MatchingReverseStrand {
		strand = "-"
	}
	_, err := fmt.Fprintf(w, "%d\t%d\t%d\t%s\t%d\n",
		e.QueryIndex, e.TargetIndex, e.Position, strand, len(e.SequenceVariations))
	return err
}

func catJSONRow(enc *json.Encoder, e *gobypb.AlignmentEntry) error {
	return enc.Encode(catEntry{
		QueryIndex:  e.QueryIndex,
		TargetIndex: e.TargetIndex,
		Position:    e.Position,
		Reverse:     e.MatchingReverseStrand,
		Score:       e.Score,
		Variations:  len(e.SequenceVariations),
	})
}

var catCmd = &cobra.Command{
	Use:   "cat <basename>",
	Short: "Print every alignment entry in a goby container, one line per entry.",
	Args:  cobra.ExactArgs(1),
	Run: func(_ *cobra.Command, args []string) {
		r, err := alignments.Open(args[0])
		if err != nil {
			die("failed to open entries: %s", err)
		}
		defer r.Close()

		w := bufio.NewWriter(os.Stdout)
		defer w.Flush()
		enc := json.NewEncoder(w)

		for {
			entry, ok, err := r.Next()
			if err != nil {
				die("failed to read entry: %s", err)
			}
			if !ok {
				break
			}
			if catFormatJSON {
				err = catJSONRow(enc, entry)
			} else {
				err = catTextRow(w, entry)
			}
			if err != nil {
				die("failed to write entry: %s", err)
			}
		}
		if err := r.Err(); err != nil {
			die("container is truncated: %s", err)
		}
	},
}

func init() {
	catCmd.PersistentFlags().BoolVar(&catFormatJSON, "json", false, "Output one JSON object per entry instead of a tab-separated summary.")
	rootCmd.AddCommand(catCmd)
}
