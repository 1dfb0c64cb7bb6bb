package indexer

import (
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"media-catalog/internal/logging"
)

// ExtensionCount is one row of the extension tally.
type ExtensionCount struct {
	Extension string
	Count     int
}

// SortedCounts returns the extension tally ordered by descending count, then
// by extension.
func (r Report) SortedCounts() []ExtensionCount {
	out := make([]ExtensionCount, 0, len(r.ExtensionCounts))
	for ext, n := range r.ExtensionCounts {
		out = append(out, ExtensionCount{Extension: ext, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Extension < out[j].Extension
	})
	return out
}

func logReport(r Report) {
	logging.Info("Run %s finished in %v: %d files processed, %d extraction failures, %d already cataloged",
		r.RunID, r.Duration.Round(time.Millisecond), r.FilesProcessed, r.ExtractionFailures, r.InsertConflicts)
	if r.Cancelled {
		logging.Warn("Run %s was cancelled before all files were processed", r.RunID)
	}
	for _, c := range r.SortedCounts() {
		logging.Info("  %-8s %d", displayExtension(c.Extension), c.Count)
	}
}

// RenderReport formats r as a summary table followed by the extension tally.
func RenderReport(r Report) string {
	summary := table.NewWriter()
	summary.SetStyle(table.StyleRounded)
	summary.AppendHeader(table.Row{"Run", "Files", "Extraction failures", "Already cataloged", "Duration"})
	summary.AppendRow(table.Row{
		r.RunID,
		r.FilesProcessed,
		r.ExtractionFailures,
		r.InsertConflicts,
		r.Duration.Round(time.Millisecond).String(),
	})
	summary.SetColumnConfigs([]table.ColumnConfig{
		{Number: 2, Align: text.AlignRight, AlignHeader: text.AlignLeft},
		{Number: 3, Align: text.AlignRight, AlignHeader: text.AlignLeft},
		{Number: 4, Align: text.AlignRight, AlignHeader: text.AlignLeft},
	})

	counts := table.NewWriter()
	counts.SetStyle(table.StyleRounded)
	counts.AppendHeader(table.Row{"Extension", "Count"})
	for _, c := range r.SortedCounts() {
		counts.AppendRow(table.Row{displayExtension(c.Extension), strconv.Itoa(c.Count)})
	}
	counts.SetColumnConfigs([]table.ColumnConfig{
		{Number: 2, Align: text.AlignRight, AlignHeader: text.AlignLeft},
	})

	out := summary.Render() + "\n" + counts.Render()
	if r.Cancelled {
		out += "\n" + fmt.Sprintf("run cancelled after %d files", r.FilesProcessed)
	}
	return out
}

func displayExtension(ext string) string {
	if ext == "" {
		return "(none)"
	}
	return ext
}
