package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

func newStartCmd(a *app) *cobra.Command {
	var (
		minutes     int
		description string
	)

	cmd := &cobra.Command{
		Use:   "start",
		Short: "Start a new session",
		Long: `Record a new session starting now.

Examples:
  pomo start                          # 25 minutes, no description
  pomo start -t 50 -d "Write report"  # 50 minute session`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if minutes == 0 {
				minutes = a.cfg.Pomodoro.DefaultDuration
			}
			if minutes < 0 {
				return fmt.Errorf("duration must be positive, got %d", minutes)
			}

			dir := a.cfg.Pomodoro.SessionDir
			if err := os.MkdirAll(dir, 0755); err != nil {
				return fmt.Errorf("failed to create session directory: %w", err)
			}

			sess, err := a.store().Create(description, time.Duration(minutes)*time.Minute)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Starting session: %s for %d minutes\n", sess.Description, minutes)
			fmt.Fprintf(out, "Ends at %s\n", sess.End().Local().Format("15:04:05"))

			if _, err := a.projector().Update(a.now()); err != nil {
				log.Warn().Err(err).Msg("Failed to update status file")
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&minutes, "duration", "t", 0, "duration in minutes (default from config, 25)")
	cmd.Flags().StringVarP(&description, "description", "d", "no description", "description of this session")
	return cmd
}
