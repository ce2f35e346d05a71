package tokenizer_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/mtarasov/projmap/internal/tokenizer"
	"github.com/mtarasov/projmap/internal/types"
)

type wordCounter struct {
	failOn string
}

func (counter wordCounter) Name() string {
	return "word-counter"
}

func (counter wordCounter) CountString(content string) (int, error) {
	if counter.failOn != "" && strings.Contains(content, counter.failOn) {
		return 0, errors.New("counting failed")
	}
	return len(strings.Fields(content)), nil
}

func TestCountRecordsKeysResultsByRecordIndex(t *testing.T) {
	records := []types.TextFileRecord{
		{Path: "a.txt", Content: "one two three"},
		{Path: "b.txt", Content: "four"},
		{Path: "c.txt", Content: "five six"},
	}

	counts, countError := tokenizer.CountRecords(wordCounter{}, records)
	if countError != nil {
		t.Fatalf("CountRecords error: %v", countError)
	}
	expectedCounts := []int{3, 1, 2}
	if len(counts) != len(expectedCounts) {
		t.Fatalf("expected %d counts, got %d", len(expectedCounts), len(counts))
	}
	for countIndex, expectedCount := range expectedCounts {
		if counts[countIndex] != expectedCount {
			t.Fatalf("count[%d]: expected %d, got %d", countIndex, expectedCount, counts[countIndex])
		}
	}
}

func TestCountRecordsSkipsErroredRecords(t *testing.T) {
	records := []types.TextFileRecord{
		{Path: "readable.txt", Content: "alpha beta"},
		{Path: "broken.txt", Content: "", Error: "permission denied"},
	}

	counts, countError := tokenizer.CountRecords(wordCounter{}, records)
	if countError != nil {
		t.Fatalf("CountRecords error: %v", countError)
	}
	if counts[0] != 2 {
		t.Fatalf("expected 2 tokens for readable record, got %d", counts[0])
	}
	if counts[1] != 0 {
		t.Fatalf("errored record must count zero tokens, got %d", counts[1])
	}
}

func TestCountRecordsPropagatesCounterFailure(t *testing.T) {
	records := []types.TextFileRecord{
		{Path: "a.txt", Content: "fine"},
		{Path: "b.txt", Content: "poison"},
	}

	if _, countError := tokenizer.CountRecords(wordCounter{failOn: "poison"}, records); countError == nil {
		t.Fatal("expected counter failure to propagate")
	}
}

func TestCountRecordsIsDeterministicAcrossRuns(t *testing.T) {
	records := make([]types.TextFileRecord, 64)
	for recordIndex := range records {
		records[recordIndex] = types.TextFileRecord{
			Path:    "file.txt",
			Content: strings.Repeat("word ", recordIndex+1),
		}
	}

	firstCounts, firstError := tokenizer.CountRecords(wordCounter{}, records)
	if firstError != nil {
		t.Fatalf("first run error: %v", firstError)
	}
	secondCounts, secondError := tokenizer.CountRecords(wordCounter{}, records)
	if secondError != nil {
		t.Fatalf("second run error: %v", secondError)
	}
	for recordIndex := range records {
		if firstCounts[recordIndex] != recordIndex+1 {
			t.Fatalf("count[%d]: expected %d, got %d", recordIndex, recordIndex+1, firstCounts[recordIndex])
		}
		if firstCounts[recordIndex] != secondCounts[recordIndex] {
			t.Fatalf("runs disagree at index %d: %d vs %d", recordIndex, firstCounts[recordIndex], secondCounts[recordIndex])
		}
	}
}

func TestTotalTokens(t *testing.T) {
	if total := tokenizer.TotalTokens([]int{3, 1, 2}); total != 6 {
		t.Fatalf("expected total 6, got %d", total)
	}
	if total := tokenizer.TotalTokens(nil); total != 0 {
		t.Fatalf("expected total 0 for nil counts, got %d", total)
	}
}
