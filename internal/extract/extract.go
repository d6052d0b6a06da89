// Package extract recovers a markdown outline from markmap HTML exports.
package extract

import (
	"strings"

	"github.com/gerunddev/marky/internal/convert"
	"github.com/gerunddev/marky/internal/tree"
)

// placeholderContent marks the synthetic root of an empty export
const placeholderContent = "Empty Mindmap"

// exportNode is the markmap JSON node shape
type exportNode struct {
	Content  string         `json:"content"`
	Children []*exportNode  `json:"children"`
	Payload  map[string]any `json:"payload,omitempty"`
}

// Result holds a successful extraction
type Result struct {
	Strategy Strategy
	Roots    tree.Forest
	Markdown string
}

// Extract runs each strategy in order and converts the first recovered
// tree. When every strategy fails the error is an *ExtractionError.
func Extract(doc string) (*Result, error) {
	for _, s := range strategies {
		root, ok := s.find(doc)
		if !ok {
			continue
		}
		roots := toForest(root)
		return &Result{
			Strategy: s.name,
			Roots:    roots,
			Markdown: convert.Serialize(roots),
		}, nil
	}
	return nil, &ExtractionError{Diagnostics: diagnose(doc)}
}

// ExtractMarkdown returns only the markdown of a successful extraction
func ExtractMarkdown(doc string) (string, error) {
	result, err := Extract(doc)
	if err != nil {
		return "", err
	}
	return result.Markdown, nil
}

// toForest converts exported JSON into tree nodes. Hidden nodes (blank or
// the empty placeholder) are dropped and their children take their place.
func toForest(root *exportNode) tree.Forest {
	var ids tree.IDGenerator
	return convertNodes(&ids, []*exportNode{root}, 1)
}

func convertNodes(ids *tree.IDGenerator, nodes []*exportNode, level int) tree.Forest {
	var out tree.Forest
	for _, n := range nodes {
		if n == nil {
			continue
		}
		text := convert.Sanitize(n.Content)
		if hidden(text) {
			out = append(out, convertNodes(ids, n.Children, level)...)
			continue
		}

		node := tree.NewNode(ids.Next(), text, level)
		for _, child := range convertNodes(ids, n.Children, level+1) {
			node.AddChild(child)
		}
		out = append(out, node)
	}
	return out
}

func hidden(text string) bool {
	trimmed := strings.TrimSpace(text)
	return trimmed == "" || trimmed == placeholderContent
}
