// Package types defines every cross-package data structure used by the projmap CLI.
package types

import "encoding/xml"

const (
	KindDirectory = "directory"
	KindFile      = "file"

	CommandStructure = "structure"
	CommandConcat    = "concat"
	CommandTree      = "tree"

	FormatRaw  = "raw"
	FormatJSON = "json"
	FormatXML  = "xml"
)

// ValidatedPath is an absolute input path that already passed existence checks.
type ValidatedPath struct {
	AbsolutePath string
	IsDir        bool
}

// TreeNode represents one file-system entry discovered by a scan.
//
// A node owns its children; the graph is a strict tree built once per scan and
// never mutated afterwards. The serialized field names are a public contract
// consumed by external viewers.
type TreeNode struct {
	XMLName     xml.Name    `json:"-" xml:"node"`
	Path        string      `json:"path" xml:"path,attr"`
	Kind        string      `json:"kind" xml:"kind,attr"`
	Name        string      `json:"name" xml:"name,attr"`
	SizeBytes   int64       `json:"size" xml:"size,attr"`
	Created     string      `json:"created,omitempty" xml:"created,attr,omitempty"`
	Modified    string      `json:"modified,omitempty" xml:"modified,attr,omitempty"`
	FolderCount int         `json:"folder_count,omitempty" xml:"folder_count,attr,omitempty"`
	FileCount   int         `json:"file_count,omitempty" xml:"file_count,attr,omitempty"`
	Excluded    bool        `json:"excluded,omitempty" xml:"excluded,attr,omitempty"`
	Binary      bool        `json:"binary,omitempty" xml:"binary,attr,omitempty"`
	ReadError   string      `json:"error,omitempty" xml:"error,attr,omitempty"`
	Children    []*TreeNode `json:"children,omitempty" xml:"children>node,omitempty"`
}

// IsDirectory reports whether the node represents a directory entry.
func (node *TreeNode) IsDirectory() bool {
	return node.Kind == KindDirectory
}

// TextFileRecord is one text-eligible file collected for concatenation, in
// discovery order. A record with a non-empty Error was discovered but could
// not be read or decoded; it still occupies its slot in the sequence.
type TextFileRecord struct {
	Path    string `json:"path" xml:"path,attr"`
	Content string `json:"content,omitempty" xml:"content,omitempty"`
	Error   string `json:"error,omitempty" xml:"error,attr,omitempty"`
}

// EventCategory classifies a structured scan log event.
type EventCategory string

const (
	EventSkippedBinary   EventCategory = "skipped-binary"
	EventSkippedExcluded EventCategory = "skipped-excluded"
	EventError           EventCategory = "error"
)

// LogEvent is one structured skip/error notice emitted during a scan. The
// walker accumulates events instead of writing to any process-wide log; the
// caller renders them however it wishes.
type LogEvent struct {
	Path     string        `json:"path" xml:"path,attr"`
	Category EventCategory `json:"category" xml:"category,attr"`
	Detail   string        `json:"detail,omitempty" xml:"detail,omitempty"`
}

// ScanStats summarizes one walker invocation.
type ScanStats struct {
	FilesProcessed  int `json:"filesProcessed" xml:"filesProcessed,attr"`
	SkippedBinary   int `json:"skippedBinary" xml:"skippedBinary,attr"`
	SkippedExcluded int `json:"skippedExcluded" xml:"skippedExcluded,attr"`
	Errored         int `json:"errored" xml:"errored,attr"`
}

// ScanResult is the complete, immutable output of one scan: the node graph,
// the ordered text-file records, aggregate statistics, and the event log.
// Cancelled marks a partial result produced by cooperative cancellation.
type ScanResult struct {
	Root      *TreeNode        `json:"root" xml:"root"`
	Records   []TextFileRecord `json:"records,omitempty" xml:"records>record,omitempty"`
	Stats     ScanStats        `json:"stats" xml:"stats"`
	Events    []LogEvent       `json:"events,omitempty" xml:"events>event,omitempty"`
	Cancelled bool             `json:"cancelled,omitempty" xml:"cancelled,attr,omitempty"`
}
