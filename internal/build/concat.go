// Package build turns a ScanResult into its derived artifacts: the
// concatenated text blob, the structured project document, and the scan log.
// Every builder is a pure function of its input; none touches the file
// system.
package build

import (
	"fmt"
	"io"
	"strings"

	"github.com/mtarasov/projmap/internal/types"
)

const (
	// fileHeaderFormat is the fixed, parseable marker that opens every block
	// in the concatenation artifact.
	fileHeaderFormat = "--- File: %s ---\n"
	// readErrorFormat is emitted in place of content for records whose file
	// could not be read or decoded. Errored records are never dropped: every
	// discovered text-eligible file appears in the output.
	readErrorFormat = "[error: %s]\n"
	// blockSeparator closes every block.
	blockSeparator = "\n"
)

// WriteConcatenation emits one header+content+separator block per record, in
// input order, and returns the number of blocks written. The output is a pure
// function of the record sequence.
func WriteConcatenation(writer io.Writer, records []types.TextFileRecord) (int, error) {
	blocksWritten := 0
	for _, record := range records {
		if _, writeError := fmt.Fprintf(writer, fileHeaderFormat, record.Path); writeError != nil {
			return blocksWritten, writeError
		}
		if record.Error != "" {
			if _, writeError := fmt.Fprintf(writer, readErrorFormat, record.Error); writeError != nil {
				return blocksWritten, writeError
			}
		} else {
			if _, writeError := io.WriteString(writer, record.Content); writeError != nil {
				return blocksWritten, writeError
			}
			if !strings.HasSuffix(record.Content, "\n") {
				if _, writeError := io.WriteString(writer, "\n"); writeError != nil {
					return blocksWritten, writeError
				}
			}
		}
		if _, writeError := io.WriteString(writer, blockSeparator); writeError != nil {
			return blocksWritten, writeError
		}
		blocksWritten++
	}
	return blocksWritten, nil
}

// RenderConcatenation returns the concatenation artifact as a single string.
func RenderConcatenation(records []types.TextFileRecord) string {
	var builder strings.Builder
	_, _ = WriteConcatenation(&builder, records)
	return builder.String()
}
