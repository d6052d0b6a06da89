package commands

import (
	"github.com/spf13/cobra"

	"github.com/gerunddev/marky/internal/tui"
)

func NewBrowseCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "browse [file]",
		Short: "Browse a mindmap as a collapsible tree",
		Long: `Open an interactive tree view of a markdown outline or markmap HTML page.

Keys:
  ↑/k ↓/j   move
  enter     toggle the selected node
  l/h       expand/collapse
  E/C       expand/collapse everything
  q         quit`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name, doc, err := app.loadForest(cmd, args)
			if err != nil {
				return err
			}

			title := name
			if fm := doc.FrontMatter; fm != nil && fm.Title != "" {
				title = fm.Title
			}
			return tui.Browse(title, doc.Roots)
		},
	}

	return cmd
}
