// Package commands wires the marky CLI.
package commands

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/gerunddev/marky/internal/config"
	"github.com/gerunddev/marky/internal/logger"
)

// App carries what every subcommand needs. It is filled in by the root
// command's PersistentPreRunE.
type App struct {
	ConfigFile string
	Verbose    bool

	Config *config.Config
	Log    *logger.Logger

	cleanup []func()
}

// NewRootCmd creates the marky command tree
func NewRootCmd(version string) *cobra.Command {
	app := &App{}

	rootCmd := &cobra.Command{
		Use:   "marky",
		Short: "Convert between markdown and markmap mindmaps",
		Long: `marky turns markdown outlines into mindmap trees and back.

It parses headings and lists into a tree, exports standalone markmap HTML
pages, extracts the tree back out of such pages, and keeps exported pages
in step with their sources.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return app.init(cmd.ErrOrStderr())
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			app.Close()
		},
	}

	rootCmd.PersistentFlags().StringVarP(&app.ConfigFile, "config", "c", "", fmt.Sprintf("config file (default %s)", config.ConfigPath()))
	rootCmd.PersistentFlags().BoolVarP(&app.Verbose, "verbose", "v", false, "enable debug logging")

	rootCmd.AddCommand(NewParseCmd(app))
	rootCmd.AddCommand(NewFormatCmd(app))
	rootCmd.AddCommand(NewExtractCmd(app))
	rootCmd.AddCommand(NewExportCmd(app))
	rootCmd.AddCommand(NewCheckCmd(app))
	rootCmd.AddCommand(NewPreviewCmd(app))
	rootCmd.AddCommand(NewBrowseCmd(app))
	rootCmd.AddCommand(NewWatchCmd(app))
	rootCmd.AddCommand(NewStatusCmd(app))
	rootCmd.AddCommand(NewConfigCmd(app))
	rootCmd.AddCommand(NewAICmd(app))
	rootCmd.AddCommand(NewNotesCmd(app))
	rootCmd.AddCommand(NewVersionCmd(version))

	return rootCmd
}

// init loads the configuration and creates the stderr logger
func (a *App) init(stderr io.Writer) error {
	cfg, err := config.Load(a.ConfigFile)
	if err != nil {
		return fmt.Errorf("error loading config: %w", err)
	}
	a.Config = cfg

	level := log.WarnLevel
	if a.Verbose {
		level = log.DebugLevel
	}
	a.Log = logger.NewWithLevel(stderr, level)
	a.Log.ConfigLoaded(a.ConfigFile, cfg.WatchInterval, cfg.AI.Model)
	return nil
}

// FileLogger returns a logger that appends to the configured log file,
// also writing to extra when given. Without a log file only extra is used.
func (a *App) FileLogger(extra ...io.Writer) *logger.Logger {
	level := logger.ParseLevel(a.Config.LogLevel)
	if a.Verbose {
		level = log.DebugLevel
	}

	writers := append([]io.Writer{}, extra...)
	if a.Config.LogFile != "" {
		if err := os.MkdirAll(filepath.Dir(a.Config.LogFile), 0755); err == nil {
			f, err := os.OpenFile(a.Config.LogFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
			if err == nil {
				a.cleanup = append(a.cleanup, func() { f.Close() })
				writers = append(writers, f)
			}
		}
	}

	if len(writers) == 0 {
		return logger.Discard()
	}
	return logger.NewMultiLogger(level, writers...)
}

// Close releases files opened by the app
func (a *App) Close() {
	for _, fn := range a.cleanup {
		fn()
	}
	a.cleanup = nil
}
