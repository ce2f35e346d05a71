// Package projection provides a read-only, filterable view over one scan's
// node graph: name and extension filters, per-node expand/collapse state, an
// excluded-visibility toggle, and an ASCII renderer for the visible slice.
// The underlying TreeNode graph is never mutated; every operation is pure
// view state.
package projection

import (
	"path/filepath"
	"strings"

	"github.com/mtarasov/projmap/internal/types"
)

// ExpandAllDepth makes every directory expanded by default.
const ExpandAllDepth = -1

// Options configures the initial view state.
type Options struct {
	// DefaultExpandDepth expands directories shallower than this depth and
	// collapses deeper ones. ExpandAllDepth expands everything.
	DefaultExpandDepth int
	// ShowExcluded controls whether excluded nodes are visible initially.
	ShowExcluded bool
	// ShowCounts annotates directories with their recursive file counts in
	// the ASCII export.
	ShowCounts bool
}

// Projection is a view over one root TreeNode. It holds all mutable display
// state itself so a re-scan can carry the state over by path-matching against
// a fresh graph.
type Projection struct {
	root               *types.TreeNode
	nameFilter         string
	extensionFilter    map[string]struct{}
	expandedOverrides  map[string]bool
	defaultExpandDepth int
	showExcluded       bool
	showCounts         bool
}

// New constructs a Projection over the provided root node.
func New(root *types.TreeNode, options Options) *Projection {
	return &Projection{
		root:               root,
		expandedOverrides:  map[string]bool{},
		defaultExpandDepth: options.DefaultExpandDepth,
		showExcluded:       options.ShowExcluded,
		showCounts:         options.ShowCounts,
	}
}

// Root returns the unmodified node graph underlying the view.
func (view *Projection) Root() *types.TreeNode {
	return view.root
}

// SetFilter installs a name-substring filter (case-insensitive) and an
// extension set filter (exact membership, e.g. ".py"). Empty values clear the
// respective predicate.
func (view *Projection) SetFilter(nameSubstring string, extensions []string) {
	view.nameFilter = strings.ToLower(strings.TrimSpace(nameSubstring))
	if len(extensions) == 0 {
		view.extensionFilter = nil
		return
	}
	extensionSet := make(map[string]struct{}, len(extensions))
	for _, extensionValue := range extensions {
		normalized := strings.ToLower(strings.TrimSpace(extensionValue))
		if normalized == "" {
			continue
		}
		if !strings.HasPrefix(normalized, ".") {
			normalized = "." + normalized
		}
		extensionSet[normalized] = struct{}{}
	}
	if len(extensionSet) == 0 {
		view.extensionFilter = nil
		return
	}
	view.extensionFilter = extensionSet
}

// ClearFilter removes both filter predicates.
func (view *Projection) ClearFilter() {
	view.nameFilter = ""
	view.extensionFilter = nil
}

// SetShowExcluded toggles visibility of excluded nodes. Excluded nodes carry
// no children by construction, so enabling them reveals only the flagged
// entries themselves.
func (view *Projection) SetShowExcluded(showExcluded bool) {
	view.showExcluded = showExcluded
}

// SetExpanded records explicit expand state for one directory path.
func (view *Projection) SetExpanded(path string, expanded bool) {
	view.expandedOverrides[path] = expanded
}

// ExpandAll expands every directory, discarding per-node overrides.
func (view *Projection) ExpandAll() {
	view.expandedOverrides = map[string]bool{}
	view.defaultExpandDepth = ExpandAllDepth
}

// CollapseAll collapses every non-root directory, discarding per-node
// overrides. The root itself stays open so the view never collapses to
// nothing.
func (view *Projection) CollapseAll() {
	view.expandedOverrides = map[string]bool{}
	view.defaultExpandDepth = 0
}

// CollapseToTopLevel collapses only the root's immediate subdirectories.
// Deeper per-node state is preserved, so re-expanding a top-level directory
// restores the prior shape of its subtree instead of resetting it.
func (view *Projection) CollapseToTopLevel() {
	if view.root == nil {
		return
	}
	for _, childNode := range view.root.Children {
		if childNode.IsDirectory() {
			view.expandedOverrides[childNode.Path] = false
		}
	}
}

// IsExpanded reports the effective expand state for a directory at the given
// depth below the root (the root is depth zero and always expanded).
func (view *Projection) IsExpanded(path string, depth int) bool {
	if depth == 0 {
		return true
	}
	if overrideValue, hasOverride := view.expandedOverrides[path]; hasOverride {
		return overrideValue
	}
	if view.defaultExpandDepth == ExpandAllDepth {
		return true
	}
	return depth < view.defaultExpandDepth
}

// IsVisible reports whether the node survives the excluded toggle and the
// active filters. A directory is visible when it or any eligible descendant
// matches.
func (view *Projection) IsVisible(node *types.TreeNode) bool {
	if node == nil {
		return false
	}
	if node.Excluded && !view.showExcluded {
		return false
	}
	if !view.hasFilter() {
		return true
	}
	return view.subtreeMatches(node)
}

// VisibleNodes returns the visible slice of the graph in display order,
// honoring both filters and expand state.
func (view *Projection) VisibleNodes() []*types.TreeNode {
	var visibleNodes []*types.TreeNode
	view.collectVisible(view.root, 0, &visibleNodes)
	return visibleNodes
}

func (view *Projection) collectVisible(node *types.TreeNode, depth int, accumulator *[]*types.TreeNode) {
	if !view.IsVisible(node) {
		return
	}
	*accumulator = append(*accumulator, node)
	if !node.IsDirectory() || !view.IsExpanded(node.Path, depth) {
		return
	}
	for _, childNode := range node.Children {
		view.collectVisible(childNode, depth+1, accumulator)
	}
}

func (view *Projection) hasFilter() bool {
	return view.nameFilter != "" || len(view.extensionFilter) > 0
}

// nodeMatches evaluates the filter predicate against a single node. With an
// extension filter active, directories can only become visible through a
// matching descendant.
func (view *Projection) nodeMatches(node *types.TreeNode) bool {
	if view.nameFilter != "" && !strings.Contains(strings.ToLower(node.Name), view.nameFilter) {
		return false
	}
	if len(view.extensionFilter) > 0 {
		if node.IsDirectory() {
			return false
		}
		extensionValue := strings.ToLower(filepath.Ext(node.Name))
		if _, extensionMatched := view.extensionFilter[extensionValue]; !extensionMatched {
			return false
		}
	}
	return view.nameFilter != "" || len(view.extensionFilter) > 0
}

// subtreeMatches reports whether the node or any eligible descendant matches
// the active filters.
func (view *Projection) subtreeMatches(node *types.TreeNode) bool {
	if node.Excluded && !view.showExcluded {
		return false
	}
	if view.nodeMatches(node) {
		return true
	}
	for _, childNode := range node.Children {
		if view.subtreeMatches(childNode) {
			return true
		}
	}
	return false
}
