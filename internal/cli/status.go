package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jh3/pomo/internal/tmux"
)

func newStatusCmd(a *app) *cobra.Command {
	var tmuxSnippet bool

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Rewrite the status file once and print it",
		Long: `Rewrite the status file from the running session and print the line.
The file is left empty when no session is running.

Use --tmux to print a status-right value that shows the status file.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := a.cfg.Pomodoro.StatusPath
			if tmuxSnippet {
				fmt.Fprintf(cmd.OutOrStdout(), "set -g status-right '%s'\n", tmux.StatusRightSnippet(path))
				return nil
			}

			line, err := a.projector().Update(a.now())
			if err != nil {
				return err
			}
			if line == "" {
				fmt.Fprintln(cmd.OutOrStdout(), "No active session")
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), line)
			return nil
		},
	}

	cmd.Flags().BoolVar(&tmuxSnippet, "tmux", false, "print a tmux status-right setting for the status file")
	return cmd
}
