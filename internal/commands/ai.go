package commands

import (
	"context"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/gerunddev/marky/internal/ai"
	"github.com/gerunddev/marky/internal/tui"
)

// aiIdentifier is the rate limit bucket used by the CLI
const aiIdentifier = "cli"

// aiFlags are shared by every ai subcommand
type aiFlags struct {
	output    string
	model     string
	noSpinner bool
}

func (f *aiFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.output, "output", "o", "", "write to file instead of stdout")
	cmd.Flags().StringVar(&f.model, "model", "", "model to use (default from config)")
	cmd.Flags().BoolVar(&f.noSpinner, "no-spinner", false, "do not show progress")
}

// service builds the AI service from the configuration
func (a *App) service(model string) *ai.Service {
	if model == "" {
		model = a.Config.AI.Model
	}

	client := ai.NewOpenRouterClient(ai.ClientOptions{
		APIKey:   a.Config.AI.APIKey,
		Model:    model,
		Endpoint: a.Config.AI.Endpoint,
	})
	limited := &ai.RateLimited{
		Completer:  client,
		Limiter:    ai.NewLimiter(a.Config.AI.RequestsPerMinute),
		Identifier: aiIdentifier,
	}
	return ai.NewService(limited, client.Model(), a.Log)
}

// runAI runs fn, with a spinner when stdout is a terminal, and writes the
// resulting markdown
func runAI(cmd *cobra.Command, flags *aiFlags, status string, fn func(ctx context.Context) (string, error)) error {
	ctx := cmd.Context()

	var (
		md  string
		err error
	)
	if !flags.noSpinner && flags.output != "" && isatty.IsTerminal(os.Stdout.Fd()) {
		md, err = tui.RunTask(status, func() (string, error) {
			return fn(ctx)
		})
	} else {
		md, err = fn(ctx)
	}
	if err != nil {
		return err
	}

	return writeOutput(cmd, flags.output, md)
}

func NewAICmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ai",
		Short: "Generate and rework mindmaps with an AI model",
		Long: `Generate and rework mindmaps through an OpenAI-compatible chat endpoint
(OpenRouter by default). Set ai.api_key in the config file, MARKY_AI_API_KEY
or OPENROUTER_API_KEY. Replies are normalized to the mindmap format.`,
	}

	cmd.AddCommand(newAICreateCmd(app))
	cmd.AddCommand(newAIConvertCmd(app))
	cmd.AddCommand(newAIImproveCmd(app))
	cmd.AddCommand(newAISuggestCmd(app))

	return cmd
}

func newAICreateCmd(app *App) *cobra.Command {
	var flags aiFlags

	cmd := &cobra.Command{
		Use:   "create <request>",
		Short: "Create a mindmap from a description",
		Long: `Create a mindmap from a description.

Examples:
  marky ai create "learning plan for Go concurrency"
  marky ai create kubernetes basics -o k8s.md`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			request := strings.Join(args, " ")
			svc := app.service(flags.model)
			return runAI(cmd, &flags, "Generating mindmap", func(ctx context.Context) (string, error) {
				return svc.Create(ctx, request)
			})
		},
	}
	flags.register(cmd)

	return cmd
}

func newAIConvertCmd(app *App) *cobra.Command {
	var flags aiFlags

	cmd := &cobra.Command{
		Use:   "convert [file]",
		Short: "Turn free text into a mindmap",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, text, err := readInput(cmd, args)
			if err != nil {
				return err
			}
			svc := app.service(flags.model)
			return runAI(cmd, &flags, "Converting text", func(ctx context.Context) (string, error) {
				return svc.ConvertText(ctx, text)
			})
		},
	}
	flags.register(cmd)

	return cmd
}

func newAIImproveCmd(app *App) *cobra.Command {
	var flags aiFlags

	cmd := &cobra.Command{
		Use:   "improve [file.md]",
		Short: "Reorganize and expand an existing mindmap",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, md, err := readInput(cmd, args)
			if err != nil {
				return err
			}
			svc := app.service(flags.model)
			return runAI(cmd, &flags, "Improving mindmap", func(ctx context.Context) (string, error) {
				return svc.Improve(ctx, md)
			})
		},
	}
	flags.register(cmd)

	return cmd
}

func newAISuggestCmd(app *App) *cobra.Command {
	var flags aiFlags

	cmd := &cobra.Command{
		Use:   "suggest [file.md]",
		Short: "Suggest new branches for a mindmap",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, md, err := readInput(cmd, args)
			if err != nil {
				return err
			}
			svc := app.service(flags.model)
			return runAI(cmd, &flags, "Suggesting branches", func(ctx context.Context) (string, error) {
				return svc.Suggest(ctx, md)
			})
		},
	}
	flags.register(cmd)

	return cmd
}
