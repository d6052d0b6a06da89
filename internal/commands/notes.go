package commands

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/gerunddev/marky/internal/notes"
	"github.com/gerunddev/marky/internal/styles"
	"github.com/gerunddev/marky/internal/tui"
)

// store opens the configured notes file
func (a *App) store() (*notes.Store, error) {
	s, err := notes.Open(a.Config.NotesFile)
	if err != nil {
		return nil, fmt.Errorf("error opening notes: %w", err)
	}
	return s, nil
}

// printNotes writes one line per note
func printNotes(w io.Writer, list []notes.Note) {
	if len(list) == 0 {
		fmt.Fprintln(w, styles.DimStyle.Render("No notes"))
		return
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for _, n := range list {
		star := " "
		if n.IsFavorite {
			star = "★"
		}
		fmt.Fprintf(tw, "%s\t%s %s\t%s\t%s\n", n.ID, star, n.Title, n.Workspace, n.UpdatedAt.Format("2006-01-02 15:04"))
	}
	_ = tw.Flush()
}

func NewNotesCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "notes",
		Short: "Manage stored mindmap notes",
		Long: `Manage mindmap notes kept in the notes file. Notes belong to a workspace;
deleting a note moves it to the trash until it is restored or purged.`,
	}

	cmd.AddCommand(newNotesListCmd(app))
	cmd.AddCommand(newNotesNewCmd(app))
	cmd.AddCommand(newNotesShowCmd(app))
	cmd.AddCommand(newNotesEditCmd(app))
	cmd.AddCommand(newNotesRemoveCmd(app))
	cmd.AddCommand(newNotesRestoreCmd(app))
	cmd.AddCommand(newNotesPurgeCmd(app))
	cmd.AddCommand(newNotesSearchCmd(app))
	cmd.AddCommand(newNotesExportCmd(app))
	cmd.AddCommand(newNotesImportCmd(app))
	cmd.AddCommand(newWorkspacesCmd(app))

	return cmd
}

func newNotesListCmd(app *App) *cobra.Command {
	var (
		workspace string
		deleted   bool
		favorites bool
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List notes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := app.store()
			if err != nil {
				return err
			}

			var list []notes.Note
			switch {
			case deleted:
				list = s.DeletedNotes()
			case favorites:
				list = s.Favorites()
			case workspace != "":
				list = s.NotesByWorkspace(workspace)
			default:
				list = s.ActiveNotes()
			}

			printNotes(cmd.OutOrStdout(), list)
			return nil
		},
	}

	cmd.Flags().StringVarP(&workspace, "workspace", "w", "", "only notes in this workspace")
	cmd.Flags().BoolVar(&deleted, "deleted", false, "list notes in the trash")
	cmd.Flags().BoolVar(&favorites, "favorites", false, "list favorite notes")

	return cmd
}

func newNotesNewCmd(app *App) *cobra.Command {
	var (
		file      string
		workspace string
		favorite  bool
		color     string
	)

	cmd := &cobra.Command{
		Use:   "new <title>",
		Short: "Create a note",
		Long: `Create a note. The content is read from --file, or from stdin when the
file is "-".

Examples:
  marky notes new "Go roadmap" --file roadmap.md
  marky ai create "go roadmap" | marky notes new "Go roadmap" --file -`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var content string
			if file != "" {
				_, c, err := readInput(cmd, []string{file})
				if err != nil {
					return err
				}
				content = c
			}

			s, err := app.store()
			if err != nil {
				return err
			}

			note, err := s.CreateNote(notes.NoteInput{
				Title:      strings.Join(args, " "),
				Content:    content,
				Workspace:  workspace,
				IsFavorite: favorite,
				Color:      color,
			})
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), note.ID)
			return nil
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "markdown content file (- for stdin)")
	cmd.Flags().StringVarP(&workspace, "workspace", "w", "", "workspace ID (default personal)")
	cmd.Flags().BoolVar(&favorite, "favorite", false, "mark as favorite")
	cmd.Flags().StringVar(&color, "color", "", "note color")

	return cmd
}

func newNotesShowCmd(app *App) *cobra.Command {
	var browse bool

	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Print a note's markdown",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := app.store()
			if err != nil {
				return err
			}

			note, err := s.GetNote(args[0])
			if err != nil {
				return err
			}

			if browse {
				return tui.Browse(note.Title, note.Tree())
			}
			return writeOutput(cmd, "", note.Content)
		},
	}

	cmd.Flags().BoolVarP(&browse, "browse", "b", false, "open the note in the tree browser")

	return cmd
}

func newNotesEditCmd(app *App) *cobra.Command {
	var (
		title     string
		file      string
		workspace string
		favorite  bool
		color     string
	)

	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Change a note",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var u notes.NoteUpdate
			flags := cmd.Flags()
			if flags.Changed("title") {
				u.Title = &title
			}
			if flags.Changed("file") {
				_, content, err := readInput(cmd, []string{file})
				if err != nil {
					return err
				}
				u.Content = &content
			}
			if flags.Changed("workspace") {
				u.Workspace = &workspace
			}
			if flags.Changed("favorite") {
				u.IsFavorite = &favorite
			}
			if flags.Changed("color") {
				u.Color = &color
			}

			s, err := app.store()
			if err != nil {
				return err
			}
			if _, err := s.UpdateNote(args[0], u); err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), styles.SuccessStyle.Render("✓ Updated "+args[0]))
			return nil
		},
	}

	cmd.Flags().StringVarP(&title, "title", "t", "", "new title")
	cmd.Flags().StringVarP(&file, "file", "f", "", "new markdown content file (- for stdin)")
	cmd.Flags().StringVarP(&workspace, "workspace", "w", "", "move to workspace")
	cmd.Flags().BoolVar(&favorite, "favorite", false, "set or clear the favorite flag")
	cmd.Flags().StringVar(&color, "color", "", "note color")

	return cmd
}

// newNoteActionCmd builds a command that applies fn to one note ID
func newNoteActionCmd(app *App, use, short, done string, fn func(*notes.Store, string) error) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <id>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := app.store()
			if err != nil {
				return err
			}
			if err := fn(s, args[0]); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), styles.SuccessStyle.Render("✓ "+done+" "+args[0]))
			return nil
		},
	}
}

func newNotesRemoveCmd(app *App) *cobra.Command {
	return newNoteActionCmd(app, "rm", "Move a note to the trash", "Deleted", (*notes.Store).DeleteNote)
}

func newNotesRestoreCmd(app *App) *cobra.Command {
	return newNoteActionCmd(app, "restore", "Restore a note from the trash", "Restored", (*notes.Store).RestoreNote)
}

func newNotesPurgeCmd(app *App) *cobra.Command {
	return newNoteActionCmd(app, "purge", "Delete a note permanently", "Purged", (*notes.Store).PurgeNote)
}

func newNotesSearchCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "search <query>",
		Short: "Search note titles and content",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := app.store()
			if err != nil {
				return err
			}
			printNotes(cmd.OutOrStdout(), s.Search(strings.Join(args, " ")))
			return nil
		},
	}
}

func newNotesExportCmd(app *App) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export all notes and workspaces as JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := app.store()
			if err != nil {
				return err
			}
			data, err := s.Export()
			if err != nil {
				return err
			}
			return writeOutput(cmd, output, string(data)+"\n")
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "write to file instead of stdout")

	return cmd
}

func newNotesImportCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file.json>",
		Short: "Replace notes and workspaces with an export",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, data, err := readInput(cmd, args)
			if err != nil {
				return err
			}

			s, err := app.store()
			if err != nil {
				return err
			}
			if err := s.Import([]byte(data)); err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), styles.SuccessStyle.Render(fmt.Sprintf("✓ Imported %d notes", len(s.Notes()))))
			return nil
		},
	}
}

func newWorkspacesCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "workspaces",
		Short: "List and manage workspaces",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := app.store()
			if err != nil {
				return err
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			for _, w := range s.Workspaces() {
				fmt.Fprintf(tw, "%s\t%s\t%d notes\n", w.ID, w.Name, len(s.NotesByWorkspace(w.ID)))
			}
			return tw.Flush()
		},
	}

	var color string
	addCmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Create a workspace",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := app.store()
			if err != nil {
				return err
			}
			w, err := s.CreateWorkspace(notes.WorkspaceInput{Name: strings.Join(args, " "), Color: color})
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), w.ID)
			return nil
		},
	}
	addCmd.Flags().StringVar(&color, "color", "", "workspace color")

	rmCmd := &cobra.Command{
		Use:   "rm <id>",
		Short: "Delete a workspace",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := app.store()
			if err != nil {
				return err
			}
			if err := s.DeleteWorkspace(args[0]); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), styles.SuccessStyle.Render("✓ Deleted workspace "+args[0]))
			return nil
		},
	}

	cmd.AddCommand(addCmd, rmCmd)
	return cmd
}
