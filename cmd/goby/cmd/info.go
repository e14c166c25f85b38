package cmd

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/gitter-badger/goby/alignments"
	"github.com/gitter-badger/goby/internal/gobypb"
)

func addRow(rows [][]string, field string, value string, args ...any) [][]string {
	return append(rows, []string{field, fmt.Sprintf(value, args...)})
}

func printSummaryRows(w io.Writer, rows [][]string) error {
	buf := &bytes.Buffer{}
	tw := tablewriter.NewWriter(buf)
	tw.SetBorder(false)
	tw.SetAutoWrapText(false)
	tw.SetAlignment(tablewriter.ALIGN_LEFT)
	tw.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	tw.SetColumnSeparator("")
	tw.AppendBulk(rows)
	tw.Render()
	scanner := bufio.NewScanner(buf)
	for scanner.Scan() {
		fmt.Fprintln(w, strings.TrimLeft(scanner.Text(), " "))
	}
	return scanner.Err()
}

func printInfo(w io.Writer, h *gobypb.AlignmentHeader) error {
	rows := [][]string{}
	rows = addRow(rows, "aligner:", "%s %s", h.AlignerName, h.AlignerVersion)
	rows = addRow(rows, "sorted:", "%t", h.Sorted)
	rows = addRow(rows, "indexed:", "%t", h.Indexed)
	rows = addRow(rows, "quality adjustment:", "%d", h.QualityAdjustment)
	rows = addRow(rows, "reads:", "%d", h.NumberOfReads)
	rows = addRow(rows, "aligned reads:", "%d", h.NumberOfAlignedReads)
	rows = addRow(rows, "query index range:", "[%d, %d]", h.SmallestQueryIndex, h.LargestQueryIndex)
	if err := printSummaryRows(w, rows); err != nil {
		return err
	}

	if len(h.Targets) > 0 {
		fmt.Fprintf(w, "targets:\n")
		targets := append([]*gobypb.TargetEntry(nil), h.Targets...)
		sort.Slice(targets, func(i, j int) bool { return targets[i].Index < targets[j].Index })
		for _, t := range targets {
			fmt.Fprintf(w, "\t(%d) %s [%d bases]\n", t.Index, t.Name, t.Length)
		}
	}

	if len(h.Statistics) > 0 {
		fmt.Fprintf(w, "statistics:\n")
		for _, s := range h.Statistics {
			switch s.Kind {
			case gobypb.StatisticString:
				fmt.Fprintf(w, "\t%s: %s\n", s.Description, s.StringValue)
			case gobypb.StatisticInt:
				fmt.Fprintf(w, "\t%s: %d\n", s.Description, s.IntValue)
			case gobypb.StatisticDouble:
				fmt.Fprintf(w, "\t%s: %g\n", s.Description, s.DoubleValue)
			}
		}
	}
	return nil
}

var infoCmd = &cobra.Command{
	Use:   "info <basename>",
	Short: "Print summary information about a goby alignment container's header sidecar.",
	Args:  cobra.ExactArgs(1),
	Run: func(_ *cobra.Command, args []string) {
		h, err := alignments.OpenHeader(args[0])
		if err != nil {
			die("failed to open header: %s", err)
		}
		if err := printInfo(os.Stdout, h.PB()); err != nil {
			die("failed to print info: %s", err)
		}
	},
}

func init() {
	rootCmd.AddCommand(infoCmd)
}
