package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jh3/pomo/internal/query"
	"github.com/jh3/pomo/internal/ui"
)

func newPickCmd(a *app) *cobra.Command {
	var search string

	cmd := &cobra.Command{
		Use:   "pick",
		Short: "Fuzzy-find a session and print its details",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sessions, err := a.engine().Find(search)
			if err != nil {
				return fmt.Errorf("error loading sessions: %w", err)
			}

			// newest first, like a shell history
			query.SortByStart(sessions)
			for i, j := 0, len(sessions)-1; i < j; i, j = i+1, j-1 {
				sessions[i], sessions[j] = sessions[j], sessions[i]
			}

			now := a.now()
			selected, err := ui.SelectSession(sessions, now)
			if err != nil {
				return err
			}
			if selected == nil {
				return nil
			}

			fmt.Fprint(cmd.OutOrStdout(), ui.FormatPreview(*selected, now))
			return nil
		},
	}

	cmd.Flags().StringVarP(&search, "search", "s", "", "pre-filter sessions by description (case-insensitive)")
	return cmd
}
