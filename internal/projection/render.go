package projection

import (
	"fmt"
	"io"
	"strings"

	"github.com/mtarasov/projmap/internal/types"
	"github.com/mtarasov/projmap/internal/utils"
)

const (
	treeBranchConnector = "├── "
	treeLastConnector   = "└── "
	treeBranchPadding   = "│   "
	treeLastPadding     = "    "

	directorySuffix = "/"

	binaryMarker   = " [binary]"
	excludedMarker = " [excluded]"
	errorMarker    = " [unreadable]"

	directoryCountsFormat = " (%d files)"
	fileSizeFormat        = " (%s)"
)

// RenderASCII renders the currently visible projection as an indented text
// tree, one line per visible node. The output is a pure function of the
// (graph, filter, expand-state) triple: identical inputs produce
// byte-identical text.
func (view *Projection) RenderASCII() string {
	var builder strings.Builder
	view.WriteASCII(&builder)
	return builder.String()
}

// WriteASCII streams the ASCII rendering to the provided writer.
func (view *Projection) WriteASCII(writer io.Writer) {
	if view.root == nil || !view.IsVisible(view.root) {
		return
	}
	fmt.Fprintf(writer, "%s\n", view.nodeLabel(view.root))
	view.writeChildren(writer, view.root, 1, "")
}

func (view *Projection) writeChildren(writer io.Writer, directoryNode *types.TreeNode, depth int, prefix string) {
	if !view.IsExpanded(directoryNode.Path, depth-1) {
		return
	}
	visibleChildren := make([]*types.TreeNode, 0, len(directoryNode.Children))
	for _, childNode := range directoryNode.Children {
		if view.IsVisible(childNode) {
			visibleChildren = append(visibleChildren, childNode)
		}
	}
	for childIndex, childNode := range visibleChildren {
		isLastChild := childIndex == len(visibleChildren)-1
		connector := treeBranchConnector
		childPrefix := prefix + treeBranchPadding
		if isLastChild {
			connector = treeLastConnector
			childPrefix = prefix + treeLastPadding
		}
		fmt.Fprintf(writer, "%s%s%s\n", prefix, connector, view.nodeLabel(childNode))
		if childNode.IsDirectory() {
			view.writeChildren(writer, childNode, depth+1, childPrefix)
		}
	}
}

// nodeLabel formats one line of the export: directories carry a trailing
// separator to distinguish them from files, with optional count annotations
// and state markers.
func (view *Projection) nodeLabel(node *types.TreeNode) string {
	label := node.Name
	if node.IsDirectory() {
		label += directorySuffix
		if view.showCounts && !node.Excluded {
			label += fmt.Sprintf(directoryCountsFormat, countFiles(node))
		}
	} else if view.showCounts && !node.Excluded {
		label += fmt.Sprintf(fileSizeFormat, utils.FormatFileSize(node.SizeBytes))
	}
	if node.Excluded {
		label += excludedMarker
	}
	if node.Binary {
		label += binaryMarker
	}
	if node.ReadError != "" {
		label += errorMarker
	}
	return label
}

// countFiles returns the recursive number of non-excluded file descendants.
func countFiles(node *types.TreeNode) int {
	total := 0
	for _, childNode := range node.Children {
		if childNode.Excluded {
			continue
		}
		if childNode.IsDirectory() {
			total += countFiles(childNode)
			continue
		}
		total++
	}
	return total
}
