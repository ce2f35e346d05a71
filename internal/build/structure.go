package build

import (
	"encoding/json"
	"encoding/xml"

	"github.com/mtarasov/projmap/internal/types"
)

const (
	indentPrefix = ""
	indentSpacer = "  "

	xmlHeader = xml.Header
)

// RenderStructureJSON serializes the node graph into the structured project
// document. The projection is lossless: parsing the document back yields an
// equal graph, and excluded directories appear as flagged leaves rather than
// being omitted, so a consumer can re-enable them without rescanning.
func RenderStructureJSON(root *types.TreeNode) (string, error) {
	encoded, jsonEncodeError := json.MarshalIndent(root, indentPrefix, indentSpacer)
	if jsonEncodeError != nil {
		return "", jsonEncodeError
	}
	return string(encoded), nil
}

// ParseStructureJSON is the inverse of RenderStructureJSON.
func ParseStructureJSON(document []byte) (*types.TreeNode, error) {
	var root types.TreeNode
	if jsonDecodeError := json.Unmarshal(document, &root); jsonDecodeError != nil {
		return nil, jsonDecodeError
	}
	return &root, nil
}

// RenderStructureXML serializes the node graph as an XML document.
func RenderStructureXML(root *types.TreeNode) (string, error) {
	encoded, xmlMarshalError := xml.MarshalIndent(root, indentPrefix, indentSpacer)
	if xmlMarshalError != nil {
		return "", xmlMarshalError
	}
	return xmlHeader + string(encoded), nil
}
