// Package diff shows how a document changes when it is normalized
// through a parse/serialize round trip.
package diff

import (
	"fmt"

	"github.com/charmbracelet/glamour"
	"github.com/hexops/gotextdiff"
	"github.com/hexops/gotextdiff/myers"
	"github.com/hexops/gotextdiff/span"

	"github.com/gerunddev/marky/internal/convert"
)

// wordWrap is the glamour wrap width for rendered diffs
const wordWrap = 120

// Normalize returns the canonical form of a markdown mindmap.
// Front matter is kept.
func Normalize(md string) string {
	doc := convert.ParseDocument(md)
	return convert.Serialize(doc.Roots, convert.WithFrontMatter(doc.FrontMatter))
}

// Unified returns a unified diff from before to after, or "" when they are equal
func Unified(name, before, after string) string {
	if before == after {
		return ""
	}
	edits := myers.ComputeEdits(span.URIFromPath(name), before, after)
	return fmt.Sprint(gotextdiff.ToUnified(name, name+" (normalized)", before, edits))
}

// Check diffs a document against its normalized form
func Check(name, md string) string {
	return Unified(name, md, Normalize(md))
}

// Render wraps a unified diff in a diff code fence and renders it for the
// terminal. The plain fenced diff is returned if glamour fails.
func Render(unified string) string {
	if unified == "" {
		return ""
	}

	fenced := fmt.Sprintf("```diff\n%s```\n", unified)

	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(wordWrap),
	)
	if err != nil {
		return fenced
	}

	rendered, err := renderer.Render(fenced)
	if err != nil {
		return fenced
	}
	return rendered
}

// Preview renders markdown for the terminal, falling back to the source
func Preview(md string) string {
	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(wordWrap),
	)
	if err != nil {
		return md
	}

	rendered, err := renderer.Render(md)
	if err != nil {
		return md
	}
	return rendered
}
