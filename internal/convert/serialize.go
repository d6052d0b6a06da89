package convert

import (
	"strings"

	"github.com/gerunddev/marky/internal/tree"
)

// HeadingDepths is the number of structural depths emitted as headings.
// markmap renders deeper header nesting poorly, so everything below
// becomes an indented list.
const HeadingDepths = 3

// Option configures Serialize
type Option func(*serializeOptions)

type serializeOptions struct {
	frontMatter *FrontMatter
	skipEmpty   bool
}

// WithFrontMatter emits fm once before all roots
func WithFrontMatter(fm *FrontMatter) Option {
	return func(o *serializeOptions) {
		o.frontMatter = fm
	}
}

// WithSkipEmpty omits nodes with blank text. Their children are
// emitted at the omitted node's depth.
func WithSkipEmpty() Option {
	return func(o *serializeOptions) {
		o.skipEmpty = true
	}
}

// Serialize converts a forest back into markdown
func Serialize(forest tree.Forest, opts ...Option) string {
	var o serializeOptions
	for _, opt := range opts {
		opt(&o)
	}

	var md strings.Builder
	md.WriteString(o.frontMatter.Render())
	for _, root := range forest {
		writeNode(&md, root, 0, &o)
	}
	return md.String()
}

func writeNode(md *strings.Builder, n *tree.Node, depth int, o *serializeOptions) {
	childDepth := depth
	if !o.skipEmpty || strings.TrimSpace(n.Text) != "" {
		md.WriteString(FormatLine(depth, n.Text))
		childDepth = depth + 1
	}

	for _, child := range n.Children {
		writeNode(md, child, childDepth, o)
	}
}

// FormatLine renders one node at the given structural depth.
// Depths 0-2 become headings (a blank line follows depth 2), deeper
// nodes become list items indented two spaces per level below 3.
// Continuation lines of multi-line text follow verbatim.
func FormatLine(depth int, text string) string {
	first, rest, _ := strings.Cut(text, "\n")

	var prefix string
	if depth < HeadingDepths {
		prefix = strings.Repeat("#", depth+1) + " "
	} else {
		prefix = strings.Repeat("  ", depth-HeadingDepths) + "- "
	}

	var b strings.Builder
	b.WriteString(strings.TrimRight(prefix+first, " "))
	b.WriteString("\n")
	if rest != "" {
		b.WriteString(rest)
		b.WriteString("\n")
	}
	if depth == HeadingDepths-1 {
		b.WriteString("\n")
	}
	return b.String()
}
