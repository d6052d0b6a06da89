package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/gerunddev/marky/internal/export"
	"github.com/gerunddev/marky/internal/state"
	"github.com/gerunddev/marky/internal/styles"
	"github.com/gerunddev/marky/internal/tui"
	"github.com/gerunddev/marky/internal/watch"
)

// dashboardLogLines is the number of log lines shown on the dashboard
const dashboardLogLines = 10

func NewWatchCmd(app *App) *cobra.Command {
	var (
		interval  time.Duration
		once      bool
		dashboard bool
	)

	cmd := &cobra.Command{
		Use:   "watch <file-or-dir>...",
		Short: "Keep exported pages in step with their sources",
		Long: `Poll markdown and markmap HTML sources and convert them whenever they
change. Markdown files are exported to .html next to themselves and HTML
files are extracted to .md. Directories contribute their markdown files.

Examples:
  marky watch notes/
  marky watch plan.md --interval 5s
  marky watch notes/ --dashboard
  marky watch notes/ --once`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if interval == 0 {
				interval = app.Config.WatchInterval
			}

			log := app.FileLogger(cmd.ErrOrStderr())
			if dashboard {
				log = app.FileLogger()
			}

			w, err := watch.New(args, interval, app.Config.StateFile, log)
			if err != nil {
				return err
			}
			w.Export = export.Options{Markmap: app.Config.MarkmapOptions()}

			if once {
				result, err := w.Once()
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), styles.SuccessStyle.Render("✓ "+result.String()))
				for _, err := range result.Errors {
					fmt.Fprintln(cmd.OutOrStdout(), styles.ErrorStyle.Render("  ✗ "+err.Error()))
				}
				return nil
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			if dashboard {
				return runDashboard(ctx, app, w)
			}
			return w.Run(ctx, nil)
		},
	}

	cmd.Flags().DurationVarP(&interval, "interval", "i", 0, "poll interval (default from config)")
	cmd.Flags().BoolVar(&once, "once", false, "convert changed sources once and exit")
	cmd.Flags().BoolVar(&dashboard, "dashboard", false, "show a live dashboard")

	return cmd
}

// runDashboard runs the watch loop in the background and the dashboard in the
// foreground until the user quits or ctx is done
func runDashboard(ctx context.Context, app *App, w *watch.Watcher) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	p := tea.NewProgram(tui.InitWatchModel(), tea.WithContext(ctx))

	data := &tui.WatchData{
		Sources:   w.Sources,
		Interval:  w.Interval,
		StartTime: time.Now(),
	}

	done := make(chan error, 1)
	go func() {
		done <- w.Run(ctx, func(result *watch.Result, err error) {
			snapshot := *data
			snapshot.Passes++
			if result != nil {
				snapshot.LastResult = result
				snapshot.Converted += len(result.Processed)
			}
			if app.Config.LogFile != "" {
				snapshot.LogLines, _, _ = ParseLogFile(app.Config.LogFile, dashboardLogLines)
			}
			*data = snapshot

			p.Send(tui.WatchMsg{Data: &snapshot, Err: err})
		})
	}()

	_, err := p.Run()
	interrupted := ctx.Err() != nil
	cancel()
	<-done

	if err != nil && !interrupted {
		return fmt.Errorf("dashboard failed: %w", err)
	}
	return nil
}

func NewStatusCmd(app *App) *cobra.Command {
	var plain bool

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show the files tracked by watch",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := state.Load(app.Config.StateFile)
			if err != nil {
				app.Log.StateError("load", err)
				return fmt.Errorf("error loading state: %w", err)
			}

			files := tui.TrackedFiles(st)
			if !plain {
				_, err := tea.NewProgram(tui.InitStatusModel(app.Config.StateFile, files)).Run()
				return err
			}

			for _, f := range files {
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%s\n", f.Status, f.Source, f.Output)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&plain, "plain", false, "print tab separated lines instead of the table")

	return cmd
}
