package build_test

import (
	"strings"
	"testing"

	"github.com/mtarasov/projmap/internal/build"
	"github.com/mtarasov/projmap/internal/types"
)

func TestRenderConcatenation(t *testing.T) {
	records := []types.TextFileRecord{
		{Path: "/proj/a.txt", Content: "hello"},
		{Path: "/proj/b.txt", Content: "line\n"},
		{Path: "/proj/broken.txt", Error: "permission denied"},
	}

	rendered := build.RenderConcatenation(records)

	expected := "--- File: /proj/a.txt ---\nhello\n\n" +
		"--- File: /proj/b.txt ---\nline\n\n" +
		"--- File: /proj/broken.txt ---\n[error: permission denied]\n\n"
	if rendered != expected {
		t.Fatalf("unexpected output:\n%q\nwant:\n%q", rendered, expected)
	}

	// Every record appears exactly once, errored ones included.
	if strings.Count(rendered, "--- File: ") != len(records) {
		t.Fatalf("expected %d blocks", len(records))
	}
}

func TestWriteConcatenationCountsBlocks(t *testing.T) {
	records := []types.TextFileRecord{
		{Path: "one", Content: "1"},
		{Path: "two", Error: "boom"},
	}
	var builder strings.Builder
	blocksWritten, writeError := build.WriteConcatenation(&builder, records)
	if writeError != nil {
		t.Fatalf("WriteConcatenation error: %v", writeError)
	}
	if blocksWritten != 2 {
		t.Fatalf("expected 2 blocks, got %d", blocksWritten)
	}
}

func TestRenderConcatenationIsDeterministic(t *testing.T) {
	records := []types.TextFileRecord{
		{Path: "x", Content: "alpha"},
		{Path: "y", Content: "beta"},
	}
	if build.RenderConcatenation(records) != build.RenderConcatenation(records) {
		t.Fatalf("identical input must produce identical output")
	}
}

func TestRenderConcatenationEmptyInput(t *testing.T) {
	if build.RenderConcatenation(nil) != "" {
		t.Fatalf("no records should produce empty output")
	}
}
