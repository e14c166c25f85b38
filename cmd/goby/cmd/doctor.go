package cmd

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/gitter-badger/goby"
	"github.com/gitter-badger/goby/alignments"
)

type gobyDoctor struct {
	basename string
	errors   int
	warnings int
}

func (d *gobyDoctor) warn(format string, v ...any) {
	d.warnings++
	color.Yellow(format, v...)
}

func (d *gobyDoctor) error(format string, v ...any) {
	d.errors++
	color.Red(format, v...)
}

func (d *gobyDoctor) fatal(v ...any) {
	color.Set(color.FgRed)
	fmt.Println(v...)
	color.Unset()
	os.Exit(1)
}

// examineEntries walks the .entries chunk index directly (rather than
// through the record iterator) so a truncated or corrupt chunk is
// reported instead of silently stopping iteration.
func (d *gobyDoctor) examineEntries() {
	name := goby.TrimKnownSuffix(d.basename) + ".entries"
	f, err := os.Open(name)
	if err != nil {
		d.fatal(err)
	}
	defer f.Close()

	chunks, scanErr := goby.ScanIndex(f)
	if scanErr != nil {
		d.error("chunk index scan stopped early: %s", scanErr)
	}
	if len(chunks) == 0 {
		d.warn("%s contains no chunks", name)
		return
	}

	var largestSeen uint32
	var smallestSeen uint32
	haveAny := false

	for i, c := range chunks {
		if c.Length <= 0 {
			d.error("chunk %d: non-positive compressed length %d", i, c.Length)
		}
	}

	r, err := alignments.Open(d.basename)
	if err != nil {
		d.fatal(err)
	}
	defer r.Close()

	count := 0
	for {
		entry, ok, err := r.Next()
		if err != nil {
			d.error("entry %d: %s", count, err)
			break
		}
		if !ok {
			break
		}
		if entry.HasQueryIndex {
			if !haveAny || entry.QueryIndex < smallestSeen {
				smallestSeen = entry.QueryIndex
			}
			if !haveAny || entry.QueryIndex > largestSeen {
				largestSeen = entry.QueryIndex
			}
			haveAny = true
		}
		var lastReadIndex uint32
		hasLast := false
		for _, v := range entry.SequenceVariations {
			if hasLast && v.ReadIndex < lastReadIndex {
				d.error("entry %d: sequence variations are not in non-decreasing read_index order", count)
				break
			}
			lastReadIndex, hasLast = v.ReadIndex, true
		}
		count++
	}
	if err := r.Err(); err != nil {
		d.error("entries file is truncated: %s", err)
	}

	h, err := alignments.OpenHeader(d.basename)
	if err != nil {
		d.warn("no header sidecar found: %s", err)
		return
	}
	pb := h.PB()
	if haveAny {
		if pb.SmallestQueryIndex != smallestSeen {
			d.error("header smallest_query_index %d does not match observed minimum %d", pb.SmallestQueryIndex, smallestSeen)
		}
		if pb.LargestQueryIndex != largestSeen {
			d.error("header largest_query_index %d does not match observed maximum %d", pb.LargestQueryIndex, largestSeen)
		}
	}
	if int(pb.NumberOfAlignedReads) != count {
		d.error("header number_of_aligned_reads %d does not match %d entries actually present", pb.NumberOfAlignedReads, count)
	}
	if pb.AlignerName == "" {
		d.warn("header aligner_name field is empty. It's good practice to record which aligner produced this file.")
	}
}

var doctorCmd = &cobra.Command{
	Use:   "doctor <basename>",
	Short: "Check a goby alignment container for structural problems.",
	Args:  cobra.ExactArgs(1),
	Run: func(_ *cobra.Command, args []string) {
		d := &gobyDoctor{basename: args[0]}
		d.examineEntries()
		if d.errors > 0 {
			fmt.Printf("Found %d errors, %d warnings\n", d.errors, d.warnings)
			os.Exit(1)
		}
		fmt.Printf("Found %d warnings, no errors\n", d.warnings)
	},
}

func init() {
	rootCmd.AddCommand(doctorCmd)
}
