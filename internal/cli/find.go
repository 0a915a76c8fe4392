package cli

import (
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/jh3/pomo/internal/query"
	"github.com/jh3/pomo/internal/session"
	"github.com/jh3/pomo/internal/ui"
)

const dateLayout = "2006-01-02"

// outputFlags are shared by every listing command
type outputFlags struct {
	search string
	export bool
}

func (f *outputFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.search, "search", "s", "", "only sessions whose description contains this text (case-insensitive)")
	cmd.Flags().BoolVarP(&f.export, "export", "e", false, "print a plain ASCII table with totals")
}

func (f *outputFlags) print(w io.Writer, sessions []session.Session) error {
	if f.export {
		return ui.Export(w, sessions)
	}
	if err := ui.RenderTable(w, sessions); err != nil {
		return err
	}
	_, err := fmt.Fprintln(w, ui.Summary(sessions))
	return err
}

func newShowCmd(a *app) *cobra.Command {
	var out outputFlags
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show all sessions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sessions, err := a.engine().Find(out.search)
			if err != nil {
				return fmt.Errorf("error loading sessions: %w", err)
			}
			return out.print(cmd.OutOrStdout(), sessions)
		},
	}
	out.register(cmd)
	return cmd
}

func newActiveCmd(a *app) *cobra.Command {
	var out outputFlags
	cmd := &cobra.Command{
		Use:   "active",
		Short: "Show running sessions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sessions, err := a.engine().Active(a.now())
			if err != nil {
				return fmt.Errorf("error loading sessions: %w", err)
			}
			return out.print(cmd.OutOrStdout(), query.Filter(sessions, query.Contains(out.search)))
		},
	}
	out.register(cmd)
	return cmd
}

func newTodayCmd(a *app) *cobra.Command {
	var out outputFlags
	cmd := &cobra.Command{
		Use:     "today",
		Aliases: []string{"find-session-from-today"},
		Short:   "Show sessions from today (local time)",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.findIn(cmd, query.Today(a.now().Local()), out)
		},
	}
	out.register(cmd)
	return cmd
}

func newYesterdayCmd(a *app) *cobra.Command {
	var out outputFlags
	cmd := &cobra.Command{
		Use:     "yesterday",
		Aliases: []string{"find-session-from-yesterday"},
		Short:   "Show sessions from yesterday (local time)",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.findIn(cmd, query.Yesterday(a.now().Local()), out)
		},
	}
	out.register(cmd)
	return cmd
}

func newRangeCmd(a *app) *cobra.Command {
	var out outputFlags
	cmd := &cobra.Command{
		Use:     "range <start> <end>",
		Aliases: []string{"find-sessions-in-range"},
		Short:   "Show sessions overlapping a time range",
		Long: `Show sessions overlapping [start, end).

Bounds are UTC and use "YYYY-MM-DD HH:MM:SS" or "YYYY-MM-DD" (midnight).

Examples:
  pomo range 2024-01-10 2024-01-11
  pomo range "2024-01-10 08:00:00" "2024-01-10 12:00:00" -s report`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			start, err := parseBound(args[0])
			if err != nil {
				return fmt.Errorf("failed to parse start date: %w", err)
			}
			end, err := parseBound(args[1])
			if err != nil {
				return fmt.Errorf("failed to parse end date: %w", err)
			}
			if end.Before(start) {
				return fmt.Errorf("end %s is before start %s", args[1], args[0])
			}
			return a.findIn(cmd, query.Range{Start: start, End: end}, out)
		},
	}
	out.register(cmd)
	return cmd
}

func (a *app) findIn(cmd *cobra.Command, r query.Range, out outputFlags) error {
	sessions, err := a.engine().FindIn(r, out.search)
	if err != nil {
		return fmt.Errorf("error finding sessions: %w", err)
	}
	return out.print(cmd.OutOrStdout(), sessions)
}

// parseBound accepts a full timestamp or a bare date, both in UTC
func parseBound(s string) (time.Time, error) {
	if len(s) == len(dateLayout) {
		t, err := time.ParseInLocation(dateLayout, s, time.UTC)
		if err != nil {
			return time.Time{}, fmt.Errorf("%w: %q", session.ErrMalformedTimestamp, s)
		}
		return t, nil
	}
	return session.ParseTimestamp(s)
}
