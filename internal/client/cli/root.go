package cli

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/dmitrijs2005/knowledgekeeper/internal/client/config"
	"github.com/spf13/cobra"
)

var (
	Version   = "0.1.0"
	BuildTime = "dev"
)

const appName = "kkcli"

// reported marks an error that has already been shown to the user.
type reported struct{ error }

func (r reported) Unwrap() error { return r.error }

// Run builds the command tree, executes it with args and returns the
// process exit code.
func Run(ctx context.Context, args []string, in io.Reader, out, errOut io.Writer) int {
	var app *App
	root := newRootCommand(&app, in, out, errOut)
	root.SetArgs(args)

	err := root.ExecuteContext(ctx)
	if app != nil {
		_ = app.Close()
	}
	if err == nil {
		return 0
	}
	var r reported
	if !errors.As(err, &r) {
		fmt.Fprintf(errOut, "Error: %v\n", err)
	}
	return 1
}

func newRootCommand(app **App, in io.Reader, out, errOut io.Writer) *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "Command-line client for the KnowledgeKeeper knowledge base",
		Long: `kkcli manages a KnowledgeKeeper knowledge base: records, uploaded
documents, the assistant chat and system prompts.

Run without a command to start the interactive shell.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(cmd.Flags())
			if err != nil {
				return err
			}
			a, err := NewApp(cmd.Context(), cfg, in, out, errOut)
			if err != nil {
				return err
			}
			*app = a
			return nil
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return (*app).REPL(cmd.Context())
		},
	}
	root.SetIn(in)
	root.SetOut(out)
	root.SetErr(errOut)
	config.BindFlags(root.PersistentFlags())

	for _, c := range commandTable {
		root.AddCommand(&cobra.Command{
			Use:   c.usageLine(),
			Short: c.short,
			Args:  cobra.MinimumNArgs(c.minArgs),
			RunE: func(cmd *cobra.Command, args []string) error {
				if err := (*app).exec(cmd.Context(), c.name, args); err != nil {
					return reported{err}
				}
				return nil
			},
		})
	}

	root.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print version information",
		// No config or database is needed to print the version.
		PersistentPreRunE: func(*cobra.Command, []string) error { return nil },
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "%s version %s (build: %s)\n", appName, Version, BuildTime)
		},
	})

	return root
}
