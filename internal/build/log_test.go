package build_test

import (
	"strings"
	"testing"

	"github.com/mtarasov/projmap/internal/build"
	"github.com/mtarasov/projmap/internal/types"
)

func TestRenderScanLog(t *testing.T) {
	result := &types.ScanResult{
		Records: []types.TextFileRecord{
			{Path: "/proj/a.txt", Content: "hello"},
			{Path: "/proj/broken.txt", Error: "permission denied"},
		},
		Events: []types.LogEvent{
			{Path: "/proj/node_modules", Category: types.EventSkippedExcluded, Detail: "directory name matches exclusion set"},
			{Path: "/proj/b.bin", Category: types.EventSkippedBinary, Detail: "content classified as binary"},
			{Path: "/proj/broken.txt", Category: types.EventError, Detail: "permission denied"},
		},
	}

	rendered := build.RenderScanLog(result)

	if !strings.Contains(rendered, "Processed Files:\n/proj/a.txt\n") {
		t.Fatalf("missing processed section:\n%s", rendered)
	}
	if strings.Contains(rendered, "Processed Files:\n/proj/broken.txt") {
		t.Fatalf("errored record listed as processed:\n%s", rendered)
	}
	if !strings.Contains(rendered, "Excluded:\n/proj/node_modules\n") {
		t.Fatalf("missing excluded section:\n%s", rendered)
	}
	if !strings.Contains(rendered, "/proj/b.bin: content classified as binary") {
		t.Fatalf("missing skipped entry:\n%s", rendered)
	}
}

func TestRenderScanLogWithoutSkips(t *testing.T) {
	result := &types.ScanResult{
		Records: []types.TextFileRecord{{Path: "/proj/a.txt", Content: "hello"}},
	}
	rendered := build.RenderScanLog(result)
	if !strings.Contains(rendered, "No files were skipped during processing") {
		t.Fatalf("missing empty-skip marker:\n%s", rendered)
	}
}
