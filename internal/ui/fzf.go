package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/koki-develop/go-fzf"

	"github.com/jh3/pomo/internal/session"
)

// SelectSession presents an interactive fuzzy finder over sessions.
// It returns nil when the user cancels.
func SelectSession(sessions []session.Session, now time.Time) (*session.Session, error) {
	if len(sessions) == 0 {
		return nil, fmt.Errorf("no sessions found")
	}

	f, err := fzf.New(
		fzf.WithPrompt("Sessions > "),
		fzf.WithInputPosition(fzf.InputPositionTop),
		fzf.WithLimit(1),
	)
	if err != nil {
		return nil, err
	}

	idxs, err := f.Find(
		sessions,
		func(i int) string {
			return FormatSessionLine(sessions[i])
		},
		fzf.WithPreviewWindow(func(i, w, h int) string {
			if i < 0 || i >= len(sessions) {
				return ""
			}
			return FormatPreview(sessions[i], now)
		}),
	)
	if err != nil {
		return nil, err
	}
	if len(idxs) == 0 {
		return nil, nil
	}

	return &sessions[idxs[0]], nil
}

// FormatSessionLine renders the single-line picker entry for s
func FormatSessionLine(s session.Session) string {
	return fmt.Sprintf("%s  %6s  %s",
		s.Start.Local().Format("2006-01-02 15:04"),
		FormatClock(s.Duration),
		s.Description)
}

// FormatPreview renders the detail pane for s
func FormatPreview(s session.Session, now time.Time) string {
	var b strings.Builder

	b.WriteString("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━\n")
	b.WriteString(fmt.Sprintf("%s\n", s.Description))
	b.WriteString("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━\n\n")

	b.WriteString(fmt.Sprintf("Start:    %s UTC\n", session.FormatTimestamp(s.Start)))
	b.WriteString(fmt.Sprintf("End:      %s UTC\n", session.FormatTimestamp(s.End())))
	b.WriteString(fmt.Sprintf("Duration: %s\n", FormatClock(s.Duration)))

	if s.ActiveAt(now) {
		b.WriteString(fmt.Sprintf("Elapsed:  %s (running)\n", FormatClock(clamp(s.Elapsed(now), 0, s.Duration))))
	}
	b.WriteString(fmt.Sprintf("File:     %s\n", session.FileName(s.Start)))

	return b.String()
}
