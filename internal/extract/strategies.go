package extract

import (
	"encoding/json"
	"regexp"
	"strings"

	"golang.org/x/net/html"
)

// Strategy names the technique that recovered the tree
type Strategy string

const (
	DirectAssignment  Strategy = "direct-assignment"
	NestedCall        Strategy = "nested-call"
	FactoryCall       Strategy = "factory-call"
	StringifyVariable Strategy = "stringify-variable"
	ScriptScan        Strategy = "script-scan"
)

const (
	directMarker  = "const root = "
	nestedMarker  = "((b,L,T,D)=>{"
	factoryMarker = "window.mm = markmap.Markmap.create"

	// factoryWindow bounds how far past the factory marker arguments are read
	factoryWindow = 200
)

var (
	nestedDataPattern = regexp.MustCompile(`\(\(\)\s*=>\s*window\.markmap\s*,\s*null\s*,`)
	factoryPattern    = regexp.MustCompile(`create\([^,]+,\s*([^,)]+)\)`)
	stringifyPattern  = regexp.MustCompile(`JSON\.stringify\(([^)]+)\)`)
	candidatePattern  = regexp.MustCompile(`\{[^{}]*"content"[^{}]*\}`)
)

// strategy tries to recover the root node from a document.
// A false return means try the next strategy.
type strategy struct {
	name Strategy
	find func(doc string) (*exportNode, bool)
}

// strategies run in order; the first success wins
var strategies = []strategy{
	{DirectAssignment, findDirectAssignment},
	{NestedCall, findNestedCall},
	{FactoryCall, findFactoryCall},
	{StringifyVariable, findStringifyVariable},
	{ScriptScan, findScriptScan},
}

// findDirectAssignment reads `const root = {...}`
func findDirectAssignment(doc string) (*exportNode, bool) {
	idx := strings.Index(doc, directMarker)
	if idx < 0 {
		return nil, false
	}
	literal, ok := extractObject(doc, idx+len(directMarker))
	if !ok {
		return nil, false
	}
	return decodeNode(literal)
}

// findNestedCall reads the data argument of the markmap-cli autoloader,
// `((b,L,T,D)=>{...})(()=>window.markmap,null,{...},null)`
func findNestedCall(doc string) (*exportNode, bool) {
	idx := strings.Index(doc, nestedMarker)
	if idx < 0 {
		return nil, false
	}
	end, ok := parenScanner.match(doc, idx)
	if !ok {
		return nil, false
	}

	rest := doc[end:]
	loc := nestedDataPattern.FindStringIndex(rest)
	if loc == nil {
		return nil, false
	}
	brace := strings.IndexByte(rest[loc[1]:], '{')
	if brace < 0 {
		return nil, false
	}
	literal, ok := extractObject(rest, loc[1]+brace)
	if !ok {
		return nil, false
	}
	return decodeNode(literal)
}

// findFactoryCall reads an inline second argument of Markmap.create
func findFactoryCall(doc string) (*exportNode, bool) {
	idx := strings.Index(doc, factoryMarker)
	if idx < 0 {
		return nil, false
	}
	window := doc[idx:min(len(doc), idx+factoryWindow)]
	m := factoryPattern.FindStringSubmatch(window)
	if m == nil {
		return nil, false
	}
	return decodeNode(strings.TrimSpace(m[1]))
}

// findStringifyVariable follows JSON.stringify(name) back to `const name = {...};`
func findStringifyVariable(doc string) (*exportNode, bool) {
	m := stringifyPattern.FindStringSubmatch(doc)
	if m == nil {
		return nil, false
	}
	name := strings.TrimSpace(m[1])
	if name == "" {
		return nil, false
	}

	decl := regexp.MustCompile(`const\s+` + regexp.QuoteMeta(name) + `\s*=\s*(\{[^;]+\});`)
	dm := decl.FindStringSubmatch(doc)
	if dm == nil {
		return nil, false
	}
	return decodeNode(dm[1])
}

// findScriptScan looks through inline scripts for a flat object with
// non-empty content and a children key
func findScriptScan(doc string) (*exportNode, bool) {
	for _, script := range inlineScripts(doc) {
		for _, candidate := range candidatePattern.FindAllString(script, -1) {
			var probe struct {
				Content  string          `json:"content"`
				Children json.RawMessage `json:"children"`
			}
			if err := json.Unmarshal([]byte(candidate), &probe); err != nil {
				continue
			}
			if probe.Content == "" || len(probe.Children) == 0 || string(probe.Children) == "null" {
				continue
			}
			if node, ok := decodeNode(candidate); ok {
				return node, true
			}
		}
	}
	return nil, false
}

// inlineScripts returns the bodies of every <script> element
func inlineScripts(doc string) []string {
	z := html.NewTokenizer(strings.NewReader(doc))
	var scripts []string
	inScript := false

	for {
		switch z.Next() {
		case html.ErrorToken:
			return scripts
		case html.StartTagToken:
			name, _ := z.TagName()
			inScript = string(name) == "script"
		case html.TextToken:
			if inScript {
				scripts = append(scripts, string(z.Text()))
			}
		case html.EndTagToken, html.SelfClosingTagToken:
			inScript = false
		}
	}
}

func decodeNode(literal string) (*exportNode, bool) {
	var node exportNode
	if err := json.Unmarshal([]byte(literal), &node); err != nil {
		return nil, false
	}
	return &node, true
}
