package commands

import (
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/gerunddev/marky/internal/convert"
	"github.com/gerunddev/marky/internal/diff"
	"github.com/gerunddev/marky/internal/export"
	"github.com/gerunddev/marky/internal/extract"
	"github.com/gerunddev/marky/internal/styles"
	"github.com/gerunddev/marky/internal/tree"
)

// ErrNotNormalized is returned by check when the document differs from its
// normalized form
var ErrNotNormalized = errors.New("markdown is not in normalized form")

// loadForest reads a markdown or HTML input and returns its tree.
// HTML inputs go through extraction.
func (a *App) loadForest(cmd *cobra.Command, args []string) (string, convert.Document, error) {
	name, content, err := readInput(cmd, args)
	if err != nil {
		return "", convert.Document{}, err
	}

	if !isHTML(name) {
		return name, convert.ParseDocument(content), nil
	}

	result, err := a.extract(name, content)
	if err != nil {
		return "", convert.Document{}, err
	}
	return name, convert.Document{Roots: result.Roots}, nil
}

// extract runs extraction and logs the outcome
func (a *App) extract(name, content string) (*extract.Result, error) {
	result, err := extract.Extract(content)
	if err != nil {
		var extractErr *extract.ExtractionError
		if errors.As(err, &extractErr) {
			a.Log.ExtractionFailed(name, extractErr.Diagnostics)
		}
		return nil, err
	}
	a.Log.ExtractionSucceeded(name, result.Strategy, tree.Count(result.Roots))
	return result, nil
}

// outline renders the forest as an indented list of node texts
func outline(forest tree.Forest) string {
	var b strings.Builder
	tree.Walk(forest, func(n *tree.Node, depth int) bool {
		first, _, _ := strings.Cut(n.Text, "\n")
		b.WriteString(strings.Repeat("  ", depth))
		b.WriteString(first)
		b.WriteString("\n")
		return true
	})
	return b.String()
}

func NewParseCmd(app *App) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "parse [file]",
		Short: "Parse markdown or a markmap page into a tree",
		Long: `Parse a markdown outline (or extract a markmap HTML page) and print the
resulting tree.

Examples:
  marky parse notes.md
  marky parse notes.md --json
  cat notes.md | marky parse -`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, doc, err := app.loadForest(cmd, args)
			if err != nil {
				return err
			}

			if !jsonOutput {
				return writeOutput(cmd, "", outline(doc.Roots))
			}

			roots := doc.Roots
			if roots == nil {
				roots = tree.Forest{}
			}
			data, err := json.MarshalIndent(roots, "", "  ")
			if err != nil {
				return fmt.Errorf("failed to marshal tree: %w", err)
			}
			return writeOutput(cmd, "", string(data)+"\n")
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "print the tree as JSON")

	return cmd
}

func NewFormatCmd(app *App) *cobra.Command {
	var (
		output      string
		frontMatter bool
		skipEmpty   bool
	)

	cmd := &cobra.Command{
		Use:   "format [file]",
		Short: "Rewrite markdown in normalized mindmap form",
		Long: `Parse the input and serialize it again: the first three levels become
headings and deeper levels become indented list items.

Examples:
  marky format notes.md
  marky format notes.md -o notes.md
  marky format page.html --front-matter`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name, doc, err := app.loadForest(cmd, args)
			if err != nil {
				return err
			}

			fm := doc.FrontMatter
			if frontMatter && fm == nil {
				fm = &convert.FrontMatter{
					Title:   baseTitle(name),
					Markmap: app.Config.MarkmapOptions(),
				}
			}

			opts := []convert.Option{convert.WithFrontMatter(fm)}
			if skipEmpty {
				opts = append(opts, convert.WithSkipEmpty())
			}

			return writeOutput(cmd, output, convert.Serialize(doc.Roots, opts...))
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "write to file instead of stdout")
	cmd.Flags().BoolVar(&frontMatter, "front-matter", false, "add a markmap front matter block when missing")
	cmd.Flags().BoolVar(&skipEmpty, "skip-empty", false, "omit nodes with blank text")

	return cmd
}

func NewExtractCmd(app *App) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "extract [file.html]",
		Short: "Recover markdown from a markmap HTML page",
		Long: `Find the mindmap data embedded in a markmap HTML page and print it as
markdown. Several embedding styles are recognized; when none matches the
error describes what the page contains.

Examples:
  marky extract mindmap.html
  marky extract mindmap.html -o mindmap.md`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name, content, err := readInput(cmd, args)
			if err != nil {
				return err
			}

			result, err := app.extract(name, content)
			if err != nil {
				return err
			}

			return writeOutput(cmd, output, result.Markdown)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "write to file instead of stdout")

	return cmd
}

func NewExportCmd(app *App) *cobra.Command {
	var (
		output string
		title  string
	)

	cmd := &cobra.Command{
		Use:   "export [file.md]",
		Short: "Export markdown as a standalone markmap HTML page",
		Long: `Render the input as a self-contained HTML page that draws the mindmap
with markmap. A file input is written next to itself with an .html
extension unless -o is given; stdin is written to stdout.

Examples:
  marky export notes.md
  marky export notes.md -o site/index.html --title "My Notes"`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name, doc, err := app.loadForest(cmd, args)
			if err != nil {
				return err
			}

			opts := export.Options{
				Title:   app.Config.Export.Title,
				Markmap: app.Config.MarkmapOptions(),
			}
			if t := baseTitle(name); t != "" {
				opts.Title = t
			}
			if title != "" {
				opts.Title = title
				if doc.FrontMatter != nil {
					doc.FrontMatter.Title = ""
				}
			}

			page, err := export.Document(doc, opts)
			if err != nil {
				return err
			}

			if output == "" && name != "stdin" && !isHTML(name) {
				output = strings.TrimSuffix(name, filepath.Ext(name)) + ".html"
			}
			if err := writeOutput(cmd, output, page); err != nil {
				return err
			}

			if output != "" && output != stdinName {
				app.Log.Converted(name, output, tree.Count(doc.Roots))
				fmt.Fprintln(cmd.ErrOrStderr(), styles.SuccessStyle.Render("✓ Exported "+output))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (- for stdout)")
	cmd.Flags().StringVar(&title, "title", "", "page title")

	return cmd
}

func NewCheckCmd(app *App) *cobra.Command {
	var plain bool

	cmd := &cobra.Command{
		Use:   "check [file.md]",
		Short: "Show how formatting would change a markdown mindmap",
		Long: `Compare the input with its normalized form and print a unified diff.
Exits with an error when the two differ.

Examples:
  marky check notes.md
  marky check notes.md --plain`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name, content, err := readInput(cmd, args)
			if err != nil {
				return err
			}

			unified := diff.Check(name, content)
			if unified == "" {
				fmt.Fprintln(cmd.OutOrStdout(), styles.SuccessStyle.Render("✓ "+name+" is already normalized"))
				return nil
			}

			if plain {
				fmt.Fprint(cmd.OutOrStdout(), unified)
			} else {
				fmt.Fprint(cmd.OutOrStdout(), diff.Render(unified))
			}
			return ErrNotNormalized
		},
	}

	cmd.Flags().BoolVar(&plain, "plain", false, "print the diff without terminal rendering")

	return cmd
}

func NewPreviewCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "preview [file]",
		Short: "Render a mindmap as markdown in the terminal",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, doc, err := app.loadForest(cmd, args)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), diff.Preview(convert.Serialize(doc.Roots)))
			return nil
		},
	}

	return cmd
}
