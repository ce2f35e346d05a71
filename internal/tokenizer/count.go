package tokenizer

import (
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/mtarasov/projmap/internal/types"
)

// CountRecords computes token counts for every successfully read record,
// in parallel with a bounded worker count. Results are keyed by record index,
// never by completion order, so the output is deterministic regardless of
// scheduling. Errored records count as zero.
func CountRecords(counter Counter, records []types.TextFileRecord) ([]int, error) {
	counts := make([]int, len(records))
	var group errgroup.Group
	group.SetLimit(runtime.NumCPU())

	for recordIndex := range records {
		if records[recordIndex].Error != "" {
			continue
		}
		recordIndex := recordIndex
		group.Go(func() error {
			tokenCount, countError := counter.CountString(records[recordIndex].Content)
			if countError != nil {
				return countError
			}
			counts[recordIndex] = tokenCount
			return nil
		})
	}

	if waitError := group.Wait(); waitError != nil {
		return nil, waitError
	}
	return counts, nil
}

// TotalTokens sums a slice of per-record counts.
func TotalTokens(counts []int) int {
	total := 0
	for _, countValue := range counts {
		total += countValue
	}
	return total
}
