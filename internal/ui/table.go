package ui

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/jh3/pomo/internal/query"
	"github.com/jh3/pomo/internal/session"
)

// Styles
var (
	headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	borderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

// RenderTable writes sessions as a bordered table sorted by start
func RenderTable(w io.Writer, sessions []session.Session) error {
	sorted := sortedCopy(sessions)

	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(borderStyle).
		Headers("Description", "Duration", "Start Time").
		StyleFunc(func(row, col int) lipgloss.Style {
			// row 0 is the header, data rows start at 1
			if row == 0 {
				return headerStyle
			}
			return cellStyle
		})

	for _, s := range sorted {
		t.Row(
			s.Description,
			fmt.Sprintf("%d min", int64(s.Duration/time.Minute)),
			s.Start.Format(session.TimestampLayout),
		)
	}

	_, err := fmt.Fprintln(w, t.Render())
	return err
}

// Export writes sessions as a plain ASCII table with a total row
func Export(w io.Writer, sessions []session.Session) error {
	sorted := sortedCopy(sessions)

	var b strings.Builder
	b.WriteString("|   No   |         Start         |   Duration   |     Description    |\n")
	b.WriteString("|--------|-----------------------|--------------|--------------------|\n")

	for i, s := range sorted {
		secs := int64(s.Duration / time.Second)
		b.WriteString(fmt.Sprintf("| %6d | %21s | %12s | %-18s |\n",
			i+1,
			s.Start.Format(session.TimestampLayout),
			fmt.Sprintf("%02d:%02d", secs/60, secs%60),
			s.Description))
	}

	totalMinutes := int64(query.TotalDuration(sorted) / time.Minute)
	b.WriteString(fmt.Sprintf("| Total  |          --           | %12s |      --------      |\n",
		fmt.Sprintf("%02d:%02d", totalMinutes/60, totalMinutes%60)))

	_, err := io.WriteString(w, b.String())
	return err
}

// Summary renders a one-line count and total for a listing
func Summary(sessions []session.Session) string {
	total := query.TotalDuration(sessions)
	return dimStyle.Render(fmt.Sprintf("%d sessions, %s planned", len(sessions), total.Round(time.Minute)))
}

func sortedCopy(sessions []session.Session) []session.Session {
	sorted := make([]session.Session, len(sessions))
	copy(sorted, sessions)
	query.SortByStart(sorted)
	return sorted
}
