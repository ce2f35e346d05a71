// Package scan implements the directory walker: one invocation traverses a
// root, classifies every entry, and produces an immutable ScanResult holding
// the node graph, the ordered text-file records, statistics, and the
// structured event log.
package scan

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/mtarasov/projmap/internal/classify"
	"github.com/mtarasov/projmap/internal/types"
	"github.com/mtarasov/projmap/internal/utils"
)

const (
	// errorRootPathFormat reports a root that cannot be used for a scan.
	errorRootPathFormat = "scanning root %s: %w"
	// errorRootNotDirectoryFormat reports a root path that is not a directory.
	errorRootNotDirectoryFormat = "scanning root %s: not a directory"

	// detailCycle marks a traversal loop caused by symbolic links.
	detailCycle = "filesystem cycle detected"
	// detailExcludedDirectory explains a skipped-excluded directory event.
	detailExcludedDirectory = "directory name matches exclusion set"
	// detailExcludedFile explains a skipped-excluded file event.
	detailExcludedFile = "file name matches exclusion pattern"
	// detailBinary explains a skipped-binary event.
	detailBinary = "content classified as binary"
	// detailInvalidEncoding marks a text-classified file whose full content
	// failed to decode as UTF-8.
	detailInvalidEncoding = "content is not valid UTF-8"
)

// Walker traverses directory trees using a fixed classification Config.
// A Walker carries no per-scan state; each Scan call owns its accumulator.
type Walker struct {
	Config classify.Config
}

// NewWalker constructs a Walker with the provided classification Config.
func NewWalker(configuration classify.Config) *Walker {
	return &Walker{Config: configuration}
}

// Scan traverses rootPath and returns the complete result of the walk. The
// only fatal condition is a root that does not exist, cannot be read, or is
// not a directory; every deeper failure is recorded per entry and the scan
// continues. Cancellation through the context is cooperative: the walker
// checks between directory-level steps and returns a valid partial result
// with the Cancelled flag set.
func (walker *Walker) Scan(ctx context.Context, rootPath string) (*types.ScanResult, error) {
	absoluteRootPath, absolutePathError := filepath.Abs(rootPath)
	if absolutePathError != nil {
		return nil, fmt.Errorf(errorRootPathFormat, rootPath, absolutePathError)
	}
	cleanedRootPath := filepath.Clean(absoluteRootPath)

	rootInfo, rootStatError := os.Stat(cleanedRootPath)
	if rootStatError != nil {
		return nil, fmt.Errorf(errorRootPathFormat, rootPath, rootStatError)
	}
	if !rootInfo.IsDir() {
		return nil, fmt.Errorf(errorRootNotDirectoryFormat, rootPath)
	}
	if _, readProbeError := os.ReadDir(cleanedRootPath); readProbeError != nil {
		return nil, fmt.Errorf(errorRootPathFormat, rootPath, readProbeError)
	}

	rootNode := walker.newDirectoryNode(cleanedRootPath, rootInfo)
	result := &types.ScanResult{Root: rootNode}

	visitedDirectories := map[string]struct{}{}
	if canonicalRoot, canonicalError := filepath.EvalSymlinks(cleanedRootPath); canonicalError == nil {
		visitedDirectories[canonicalRoot] = struct{}{}
	}

	walker.walkDirectory(ctx, rootNode, visitedDirectories, result)
	return result, nil
}

// walkDirectory lists, classifies, and recurses into one directory, merging
// records, events, and statistics into the shared accumulator. The node's
// aggregates are computed after all children exist and never touched again.
func (walker *Walker) walkDirectory(ctx context.Context, directoryNode *types.TreeNode, visitedDirectories map[string]struct{}, result *types.ScanResult) {
	if scanCancelled(ctx, result) {
		return
	}

	directoryEntries, readDirectoryError := os.ReadDir(directoryNode.Path)
	if readDirectoryError != nil {
		walker.recordEntryError(directoryNode, result, readDirectoryError)
		return
	}
	sortEntries(directoryEntries)

	for _, directoryEntry := range directoryEntries {
		childPath := filepath.Join(directoryNode.Path, directoryEntry.Name())

		isDirectory, entryInfo, resolveError := resolveEntry(childPath, directoryEntry)
		if resolveError != nil {
			// The target could not be stated; fall back to the lstat-level kind
			// so a vanished directory is not reported as a file.
			entryKind := types.KindFile
			if directoryEntry.IsDir() {
				entryKind = types.KindDirectory
			}
			childNode := &types.TreeNode{Path: childPath, Kind: entryKind, Name: directoryEntry.Name()}
			walker.recordEntryError(childNode, result, resolveError)
			directoryNode.Children = append(directoryNode.Children, childNode)
			continue
		}

		if isDirectory {
			if scanCancelled(ctx, result) {
				break
			}
			directoryNode.Children = append(directoryNode.Children, walker.walkChildDirectory(ctx, childPath, directoryEntry.Name(), entryInfo, visitedDirectories, result))
			continue
		}
		directoryNode.Children = append(directoryNode.Children, walker.visitFile(childPath, directoryEntry.Name(), entryInfo, result))
	}

	applyAggregates(directoryNode)
}

// walkChildDirectory materializes one subdirectory node, honoring exclusion
// and the cycle guard before recursing.
func (walker *Walker) walkChildDirectory(ctx context.Context, childPath string, childName string, entryInfo os.FileInfo, visitedDirectories map[string]struct{}, result *types.ScanResult) *types.TreeNode {
	childNode := walker.newDirectoryNode(childPath, entryInfo)

	if walker.Config.IsExcludedDirectory(childName) {
		childNode.Excluded = true
		result.Stats.SkippedExcluded++
		result.Events = append(result.Events, types.LogEvent{
			Path:     childPath,
			Category: types.EventSkippedExcluded,
			Detail:   detailExcludedDirectory,
		})
		return childNode
	}

	canonicalPath, canonicalError := filepath.EvalSymlinks(childPath)
	if canonicalError != nil {
		walker.recordEntryError(childNode, result, canonicalError)
		return childNode
	}
	if _, alreadyVisited := visitedDirectories[canonicalPath]; alreadyVisited {
		childNode.ReadError = detailCycle
		result.Stats.Errored++
		result.Events = append(result.Events, types.LogEvent{
			Path:     childPath,
			Category: types.EventError,
			Detail:   detailCycle,
		})
		return childNode
	}
	visitedDirectories[canonicalPath] = struct{}{}

	walker.walkDirectory(ctx, childNode, visitedDirectories, result)
	return childNode
}

// visitFile classifies a single file entry, materializes its node, and
// appends a TextFileRecord when the file is text-eligible.
func (walker *Walker) visitFile(childPath string, childName string, entryInfo os.FileInfo, result *types.ScanResult) *types.TreeNode {
	childNode := walker.newFileNode(childPath, childName, entryInfo)

	if walker.Config.IsExcludedFile(childName) {
		childNode.Excluded = true
		result.Stats.SkippedExcluded++
		result.Events = append(result.Events, types.LogEvent{
			Path:     childPath,
			Category: types.EventSkippedExcluded,
			Detail:   detailExcludedFile,
		})
		return childNode
	}

	if walker.Config.IsFileBinary(childPath) {
		childNode.Binary = true
		result.Stats.SkippedBinary++
		result.Events = append(result.Events, types.LogEvent{
			Path:     childPath,
			Category: types.EventSkippedBinary,
			Detail:   detailBinary,
		})
		return childNode
	}

	fileBytes, fileReadError := os.ReadFile(childPath)
	if fileReadError != nil {
		walker.recordEntryError(childNode, result, fileReadError)
		result.Records = append(result.Records, types.TextFileRecord{Path: childPath, Error: fileReadError.Error()})
		return childNode
	}
	if !utf8.Valid(fileBytes) {
		// Sniffing saw a text-looking prefix but the full content failed to
		// decode. Kept distinct from skipped-binary in the statistics.
		childNode.ReadError = detailInvalidEncoding
		result.Stats.Errored++
		result.Events = append(result.Events, types.LogEvent{
			Path:     childPath,
			Category: types.EventError,
			Detail:   detailInvalidEncoding,
		})
		result.Records = append(result.Records, types.TextFileRecord{Path: childPath, Error: detailInvalidEncoding})
		return childNode
	}

	result.Stats.FilesProcessed++
	result.Records = append(result.Records, types.TextFileRecord{Path: childPath, Content: string(fileBytes)})
	return childNode
}

// newDirectoryNode materializes a directory node with its timestamps.
func (walker *Walker) newDirectoryNode(path string, info os.FileInfo) *types.TreeNode {
	node := &types.TreeNode{
		Path: path,
		Kind: types.KindDirectory,
		Name: filepath.Base(path),
	}
	if info != nil {
		node.Modified = utils.FormatTimestamp(info.ModTime())
		if creationTime, creationAvailable := utils.CreationTime(info); creationAvailable {
			node.Created = utils.FormatTimestamp(creationTime)
		}
	}
	return node
}

// newFileNode materializes a file node with its size and timestamps.
func (walker *Walker) newFileNode(path string, name string, info os.FileInfo) *types.TreeNode {
	node := &types.TreeNode{
		Path: path,
		Kind: types.KindFile,
		Name: name,
	}
	if info != nil {
		node.SizeBytes = info.Size()
		node.Modified = utils.FormatTimestamp(info.ModTime())
		if creationTime, creationAvailable := utils.CreationTime(info); creationAvailable {
			node.Created = utils.FormatTimestamp(creationTime)
		}
	}
	return node
}

// recordEntryError flags a node with a per-entry failure and logs the event.
// Per-entry failures never abort the scan.
func (walker *Walker) recordEntryError(node *types.TreeNode, result *types.ScanResult, entryError error) {
	node.ReadError = entryError.Error()
	result.Stats.Errored++
	result.Events = append(result.Events, types.LogEvent{
		Path:     node.Path,
		Category: types.EventError,
		Detail:   entryError.Error(),
	})
}

// scanCancelled checks the context and marks the result once cancellation is
// observed. A cancelled scan remains a valid, inspectable partial result.
func scanCancelled(ctx context.Context, result *types.ScanResult) bool {
	if result.Cancelled {
		return true
	}
	select {
	case <-ctx.Done():
		result.Cancelled = true
		return true
	default:
		return false
	}
}

// sortEntries orders directory entries case-insensitively by name with a
// byte-order tie break, directories and files interleaved. This ordering is a
// public contract: it drives both the concatenation order and the default
// display order, keeping repeated scans byte-identical across platforms.
func sortEntries(directoryEntries []os.DirEntry) {
	sort.SliceStable(directoryEntries, func(firstIndex, secondIndex int) bool {
		firstName := directoryEntries[firstIndex].Name()
		secondName := directoryEntries[secondIndex].Name()
		firstFolded := strings.ToLower(firstName)
		secondFolded := strings.ToLower(secondName)
		if firstFolded == secondFolded {
			return firstName < secondName
		}
		return firstFolded < secondFolded
	})
}

// resolveEntry determines whether a directory entry is a directory, following
// symbolic links so linked directories participate in traversal (and in the
// cycle guard).
func resolveEntry(childPath string, directoryEntry os.DirEntry) (bool, os.FileInfo, error) {
	if directoryEntry.Type()&fs.ModeSymlink != 0 {
		targetInfo, statError := os.Stat(childPath)
		if statError != nil {
			return false, nil, statError
		}
		return targetInfo.IsDir(), targetInfo, nil
	}
	entryInfo, infoError := directoryEntry.Info()
	if infoError != nil {
		return false, nil, infoError
	}
	return directoryEntry.IsDir(), entryInfo, nil
}

// applyAggregates computes a directory's size and counts from its children.
// Excluded children never contribute; binary files do. The values are stored
// once and the node is treated as immutable afterwards.
func applyAggregates(directoryNode *types.TreeNode) {
	var totalBytes int64
	var directFiles int
	var directFolders int
	for _, childNode := range directoryNode.Children {
		if childNode.Excluded {
			continue
		}
		if childNode.IsDirectory() {
			directFolders++
		} else {
			directFiles++
		}
		totalBytes += childNode.SizeBytes
	}
	directoryNode.SizeBytes = totalBytes
	directoryNode.FileCount = directFiles
	directoryNode.FolderCount = directFolders
}
