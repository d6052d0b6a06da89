package convert

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gerunddev/marky/internal/tree"
)

func TestParseHeadingLevels(t *testing.T) {
	roots := Parse("# A\n## B\n### C")

	require.Len(t, roots, 1)
	a := roots[0]
	assert.Equal(t, "A", a.Text)
	assert.Equal(t, 1, a.Level)
	require.Len(t, a.Children, 1)

	b := a.Children[0]
	assert.Equal(t, "B", b.Text)
	assert.Equal(t, 2, b.Level)
	require.Len(t, b.Children, 1)

	c := b.Children[0]
	assert.Equal(t, "C", c.Text)
	assert.Equal(t, 3, c.Level)
	assert.Empty(t, c.Children)
}

func TestParseSiblingHeadings(t *testing.T) {
	roots := Parse("# A\n## B\n## C")

	require.Len(t, roots, 1)
	require.Len(t, roots[0].Children, 2)
	assert.Equal(t, "B", roots[0].Children[0].Text)
	assert.Equal(t, "C", roots[0].Children[1].Text)
	assert.Empty(t, roots[0].Children[0].Children)
}

func TestParseOrphanHeadingDropped(t *testing.T) {
	roots := Parse("## Orphan\n# Root")

	require.Len(t, roots, 1)
	assert.Equal(t, "Root", roots[0].Text)
	assert.Empty(t, roots[0].Children)
}

func TestParseListIndentation(t *testing.T) {
	roots := Parse("- top\n    - deep")

	require.Len(t, roots, 1)
	top := roots[0]
	assert.Equal(t, 1, top.Level)
	require.Len(t, top.Children, 1)
	assert.Equal(t, "deep", top.Children[0].Text)
	assert.Equal(t, 3, top.Children[0].Level)
}

func TestParseListUnderHeading(t *testing.T) {
	roots := Parse("# A\n- x\n  - y\n- z\n## B\n* w")

	require.Len(t, roots, 1)
	a := roots[0]
	require.Len(t, a.Children, 3)

	x, z, b := a.Children[0], a.Children[1], a.Children[2]
	assert.Equal(t, "x", x.Text)
	assert.Equal(t, 2, x.Level)
	require.Len(t, x.Children, 1)
	assert.Equal(t, "y", x.Children[0].Text)
	assert.Equal(t, 3, x.Children[0].Level)

	assert.Equal(t, "z", z.Text)
	assert.Empty(t, z.Children)

	assert.Equal(t, "B", b.Text)
	require.Len(t, b.Children, 1)
	assert.Equal(t, "w", b.Children[0].Text)
	assert.Equal(t, 3, b.Children[0].Level)
}

func TestParseNumberedItems(t *testing.T) {
	roots := Parse("# Steps\n1. one\n2. two\n   + detail")

	require.Len(t, roots, 1)
	steps := roots[0].Children
	require.Len(t, steps, 2)
	assert.Equal(t, "one", steps[0].Text)
	assert.Equal(t, "two", steps[1].Text)
	require.Len(t, steps[1].Children, 1)
	assert.Equal(t, "detail", steps[1].Children[0].Text)
}

func TestParseContinuationText(t *testing.T) {
	roots := Parse("ignored before any node\n# A\nfirst line\n\n  second line\n## B")

	require.Len(t, roots, 1)
	assert.Equal(t, "A\nfirst line\nsecond line", roots[0].Text)
	require.Len(t, roots[0].Children, 1)
	assert.Equal(t, "B", roots[0].Children[0].Text)
}

func TestParseLenientLines(t *testing.T) {
	tests := []struct {
		name     string
		markdown string
		want     []tree.Entry
	}{
		{
			name:     "empty input",
			markdown: "",
			want:     nil,
		},
		{
			name:     "heading without text",
			markdown: "#\n## child",
			want:     []tree.Entry{{Text: "", Depth: 0}, {Text: "child", Depth: 1}},
		},
		{
			name:     "hashtag is not a heading",
			markdown: "# A\n#hashtag",
			want:     []tree.Entry{{Text: "A\n#hashtag", Depth: 0}},
		},
		{
			name:     "emphasis is not a list item",
			markdown: "# A\n**bold** move",
			want:     []tree.Entry{{Text: "A\n**bold** move", Depth: 0}},
		},
		{
			name:     "bare marker is an empty item",
			markdown: "# A\n-",
			want:     []tree.Entry{{Text: "A", Depth: 0}, {Text: "", Depth: 1}},
		},
		{
			name:     "list item without heading becomes root",
			markdown: "- one\n- two",
			want:     []tree.Entry{{Text: "one", Depth: 0}, {Text: "two", Depth: 0}},
		},
		{
			name:     "crlf line endings",
			markdown: "# A\r\n## B\r\n",
			want:     []tree.Entry{{Text: "A", Depth: 0}, {Text: "B", Depth: 1}},
		},
		{
			name:     "shallower heading after deep list",
			markdown: "# A\n## B\n- x\n    - y\n### C",
			want: []tree.Entry{
				{Text: "A", Depth: 0},
				{Text: "B", Depth: 1},
				{Text: "x", Depth: 2},
				{Text: "y", Depth: 3},
				{Text: "C", Depth: 2},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tree.Outline(Parse(tt.markdown)))
		})
	}
}

func TestParseFencedCodeIsOpaque(t *testing.T) {
	roots := Parse("# Setup\n```bash\n# install deps\n- not an item\n```\n## Next")

	require.Len(t, roots, 1)
	assert.Equal(t, "Setup\n```bash\n# install deps\n- not an item\n```", roots[0].Text)
	require.Len(t, roots[0].Children, 1)
	assert.Equal(t, "Next", roots[0].Children[0].Text)
}

func TestParseChildLevelAboveParent(t *testing.T) {
	roots := Parse("# A\n### skipped two\n- x\n      - far\n## B\n1. n")

	tree.Walk(roots, func(n *tree.Node, _ int) bool {
		for _, child := range n.Children {
			assert.Greater(t, child.Level, n.Level, "%q under %q", child.Text, n.Text)
		}
		return true
	})
}

func TestParseIDsUnique(t *testing.T) {
	roots := Parse("# A\n## B\n- c\n- d\n# E")

	seen := map[string]bool{}
	tree.Walk(roots, func(n *tree.Node, _ int) bool {
		assert.False(t, seen[n.ID], "duplicate id %s", n.ID)
		seen[n.ID] = true
		return true
	})
	assert.Len(t, seen, 5)
}

func TestParseDocumentFrontMatter(t *testing.T) {
	md := "---\ntitle: Plan\nmarkmap:\n  colorFreezeLevel: 2\n  maxWidth: 300\n---\n\n# A\n## B"

	doc := ParseDocument(md)

	require.NotNil(t, doc.FrontMatter)
	assert.Equal(t, "Plan", doc.FrontMatter.Title)
	require.NotNil(t, doc.FrontMatter.Markmap)
	assert.Equal(t, 2, doc.FrontMatter.Markmap.ColorFreezeLevel)
	assert.Equal(t, 300, doc.FrontMatter.Markmap.MaxWidth)
	assert.Equal(t, []tree.Entry{{Text: "A", Depth: 0}, {Text: "B", Depth: 1}}, tree.Outline(doc.Roots))
}

func TestParseDocumentWithoutFrontMatter(t *testing.T) {
	doc := ParseDocument("# A\n---\nnot yaml")

	assert.Nil(t, doc.FrontMatter)
	require.Len(t, doc.Roots, 1)
	assert.Equal(t, "A\n---\nnot yaml", doc.Roots[0].Text)
}

func TestParseDocumentLeadingRuleKeepsHeadings(t *testing.T) {
	doc := ParseDocument("---\n# Intro\n---\n# Next")

	assert.Nil(t, doc.FrontMatter)
	require.Len(t, doc.Roots, 2)
	assert.Equal(t, "Intro\n---", doc.Roots[0].Text)
	assert.Equal(t, "Next", doc.Roots[1].Text)
}

func TestParseDocumentScalarBlockIsNotFrontMatter(t *testing.T) {
	doc := ParseDocument("---\njust a line\n---\n# A")

	assert.Nil(t, doc.FrontMatter)
	require.Len(t, doc.Roots, 1)
	assert.Equal(t, "A", doc.Roots[0].Text)
}
