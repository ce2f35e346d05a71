package build

import (
	"strings"

	"github.com/mtarasov/projmap/internal/types"
)

const (
	processedSectionHeader = "Processed Files:"
	excludedSectionHeader  = "Excluded:"
	skippedSectionHeader   = "Skipped Files:"
	noSkippedFilesLine     = "No files were skipped during processing"
)

// RenderScanLog produces the human-readable processing log for one scan:
// which files were aggregated, which paths the exclusion rules removed, and
// which entries were skipped or failed. Sections appear in a fixed order so
// the log is deterministic for a given ScanResult.
func RenderScanLog(result *types.ScanResult) string {
	var builder strings.Builder

	builder.WriteString(processedSectionHeader + "\n")
	for _, record := range result.Records {
		if record.Error == "" {
			builder.WriteString(record.Path + "\n")
		}
	}

	builder.WriteString("\n" + excludedSectionHeader + "\n")
	for _, event := range result.Events {
		if event.Category == types.EventSkippedExcluded {
			builder.WriteString(event.Path + "\n")
		}
	}

	builder.WriteString("\n" + skippedSectionHeader + "\n")
	skippedCount := 0
	for _, event := range result.Events {
		if event.Category == types.EventSkippedExcluded {
			continue
		}
		builder.WriteString(event.Path + ": " + event.Detail + "\n")
		skippedCount++
	}
	if skippedCount == 0 {
		builder.WriteString(noSkippedFilesLine + "\n")
	}

	return builder.String()
}
