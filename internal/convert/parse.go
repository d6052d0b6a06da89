package convert

import (
	"regexp"
	"strings"

	"github.com/gerunddev/marky/internal/tree"
)

// listItemPattern matches "- item", "* item", "+ item" and "1. item" with any
// indentation. A bare marker is an item with empty text.
var listItemPattern = regexp.MustCompile(`^(\s*)([-*+]|\d+\.)(?:\s+(.*))?$`)

// Document is a parsed markdown document
type Document struct {
	FrontMatter *FrontMatter
	Roots       tree.Forest
}

// Parse converts markdown into a forest of nodes.
// Only headings and list items create nodes; other lines become
// continuation text of the last node. Parse never fails.
func Parse(markdown string) tree.Forest {
	return ParseDocument(markdown).Roots
}

// ParseDocument parses markdown and decodes a leading front matter block
func ParseDocument(markdown string) Document {
	lines := strings.Split(strings.ReplaceAll(markdown, "\r\n", "\n"), "\n")
	frontMatter, body := extractFrontMatter(lines)

	p := &parser{}
	for _, line := range body {
		p.line(line)
	}

	return Document{
		FrontMatter: frontMatter,
		Roots:       p.roots,
	}
}

type stackEntry struct {
	node    *tree.Node
	heading bool
}

// parser resolves nesting with an explicit stack of open ancestors
type parser struct {
	ids     tree.IDGenerator
	roots   tree.Forest
	stack   []stackEntry
	current *tree.Node
	fence   string
}

func (p *parser) line(raw string) {
	raw = strings.TrimRight(raw, " \t\r")
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return
	}

	// Fenced code is opaque: kept verbatim as text of the current node
	if p.fence != "" {
		p.appendText(raw)
		if strings.HasPrefix(trimmed, p.fence) {
			p.fence = ""
		}
		return
	}
	if marker := fenceMarker(trimmed); marker != "" {
		p.fence = marker
		p.appendText(raw)
		return
	}

	if level, text, ok := parseHeading(trimmed); ok {
		p.heading(level, text)
		return
	}

	if m := listItemPattern.FindStringSubmatch(raw); m != nil {
		p.listItem(len(m[1]), strings.TrimSpace(m[3]))
		return
	}

	p.appendText(trimmed)
}

func (p *parser) heading(level int, text string) {
	node := tree.NewNode(p.ids.Next(), text, level)

	if level == 1 {
		p.roots = append(p.roots, node)
		p.stack = []stackEntry{{node: node, heading: true}}
		p.current = node
		return
	}

	p.popTo(level)
	if len(p.stack) == 0 {
		// Orphan heading with no open ancestor
		return
	}
	p.top().AddChild(node)
	p.stack = append(p.stack, stackEntry{node: node, heading: true})
	p.current = node
}

// listItem attaches an item below the most recent open node. Its level is
// the indentation depth (indent/2) offset by the nearest open heading's
// level plus one, so items under "## B" start at level 3 and
// the serializer can emit them back at the same depth.
func (p *parser) listItem(indent int, text string) {
	level := p.headingLevel() + indent/2 + 1
	node := tree.NewNode(p.ids.Next(), text, level)

	p.popTo(level)
	if len(p.stack) == 0 {
		p.roots = append(p.roots, node)
	} else {
		p.top().AddChild(node)
	}
	p.stack = append(p.stack, stackEntry{node: node})
	p.current = node
}

func (p *parser) appendText(text string) {
	if p.current == nil {
		return
	}
	if p.current.Text == "" {
		p.current.Text = text
		return
	}
	p.current.Text += "\n" + text
}

// popTo pops every open ancestor whose level is >= level
func (p *parser) popTo(level int) {
	for len(p.stack) > 0 && p.top().Level >= level {
		p.stack = p.stack[:len(p.stack)-1]
	}
}

func (p *parser) top() *tree.Node {
	return p.stack[len(p.stack)-1].node
}

// headingLevel returns the level of the nearest open heading, 0 if none
func (p *parser) headingLevel() int {
	for i := len(p.stack) - 1; i >= 0; i-- {
		if p.stack[i].heading {
			return p.stack[i].node.Level
		}
	}
	return 0
}

// parseHeading recognizes "#", "## text", ... A run of '#' must be
// followed by whitespace or the end of the line.
func parseHeading(trimmed string) (int, string, bool) {
	hashes := countLeadingChars(trimmed, '#')
	if hashes == 0 {
		return 0, "", false
	}

	rest := trimmed[hashes:]
	if rest != "" && rest[0] != ' ' && rest[0] != '\t' {
		return 0, "", false
	}

	return hashes, strings.TrimSpace(rest), true
}

func fenceMarker(trimmed string) string {
	for _, marker := range []string{"```", "~~~"} {
		if strings.HasPrefix(trimmed, marker) {
			return marker
		}
	}
	return ""
}

func countLeadingChars(s string, ch rune) int {
	count := 0
	for _, c := range s {
		if c != ch {
			break
		}
		count++
	}
	return count
}
