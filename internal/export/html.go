// Package export renders a forest as a standalone markmap HTML page.
package export

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"html/template"
	"regexp"
	"strings"

	"github.com/gerunddev/marky/internal/convert"
	"github.com/gerunddev/marky/internal/tree"
)

const (
	DefaultTitle = "Markmap"

	// emptyContent is the placeholder root for an empty forest. Extraction
	// hides it again.
	emptyContent = "Empty Mindmap"
)

// Assets loaded by the exported page
var (
	Scripts = []string{
		"https://cdn.jsdelivr.net/npm/d3@7.9.0/dist/d3.min.js",
		"https://cdn.jsdelivr.net/npm/markmap-view@0.18.12/dist/browser/index.js",
	}
	ToolbarCSS = "https://cdn.jsdelivr.net/npm/markmap-toolbar@0.18.12/dist/style.css"
)

//go:embed template.html
var pageHTML string

var page = template.Must(template.New("markmap").Parse(pageHTML))

var (
	codeSpanPattern = regexp.MustCompile("`([^`]*)`")
	textEscaper     = strings.NewReplacer(
		"<", "&lt;",
		">", "&gt;",
		`"`, "&quot;",
		"'", "&apos;",
	)
)

// PureNode is the markmap JSON node shape
type PureNode struct {
	Content  string      `json:"content"`
	Children []*PureNode `json:"children"`
	Payload  *Payload    `json:"payload,omitempty"`
}

// Payload carries per-node view state
type Payload struct {
	Fold int `json:"fold"`
}

// Options configures HTML
type Options struct {
	Title   string
	Markmap *convert.MarkmapOptions
}

// pageData feeds template.html
type pageData struct {
	Title      string
	Scripts    []string
	ToolbarCSS string
	Options    template.JS
	Root       template.JS
}

// ToPureNode converts the forest to a single markmap root.
// Several roots are wrapped in a root with empty content.
func ToPureNode(forest tree.Forest) *PureNode {
	switch len(forest) {
	case 0:
		return &PureNode{Content: emptyContent, Children: []*PureNode{}}
	case 1:
		return pureNode(forest[0])
	}

	wrapper := &PureNode{Children: make([]*PureNode, 0, len(forest))}
	for _, root := range forest {
		wrapper.Children = append(wrapper.Children, pureNode(root))
	}
	return wrapper
}

func pureNode(n *tree.Node) *PureNode {
	p := &PureNode{
		Content:  EscapeText(n.Text),
		Children: make([]*PureNode, 0, len(n.Children)),
		Payload:  &Payload{Fold: 0},
	}
	for _, child := range n.Children {
		p.Children = append(p.Children, pureNode(child))
	}
	return p
}

// EscapeText prepares node text for markmap, which renders content as HTML.
// Only the entities the extraction sanitizer decodes are produced, and
// inline code spans become <code> elements.
func EscapeText(text string) string {
	escaped := textEscaper.Replace(text)
	return codeSpanPattern.ReplaceAllString(escaped, "<code>$1</code>")
}

// HTML renders the forest as a complete markmap page
func HTML(forest tree.Forest, opts Options) (string, error) {
	root, err := json.Marshal(ToPureNode(forest))
	if err != nil {
		return "", fmt.Errorf("failed to encode mindmap: %w", err)
	}

	jsonOptions := []byte("{}")
	if opts.Markmap != nil {
		jsonOptions, err = json.Marshal(opts.Markmap)
		if err != nil {
			return "", fmt.Errorf("failed to encode markmap options: %w", err)
		}
	}

	title := opts.Title
	if title == "" {
		title = DefaultTitle
	}

	var buf bytes.Buffer
	err = page.Execute(&buf, pageData{
		Title:      title,
		Scripts:    Scripts,
		ToolbarCSS: ToolbarCSS,
		Options:    template.JS(jsonOptions),
		Root:       template.JS(root),
	})
	if err != nil {
		return "", fmt.Errorf("failed to render page: %w", err)
	}
	return buf.String(), nil
}

// Document renders a parsed markdown document, taking the title and
// markmap options from its front matter when present
func Document(doc convert.Document, opts Options) (string, error) {
	if fm := doc.FrontMatter; fm != nil {
		if fm.Title != "" {
			opts.Title = fm.Title
		}
		if fm.Markmap != nil {
			opts.Markmap = fm.Markmap
		}
	}
	return HTML(doc.Roots, opts)
}
