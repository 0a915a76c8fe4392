package tmux

import (
	"os"

	"github.com/GianlucaP106/gotmux/gotmux"
)

// Runner executes a raw tmux command
type Runner interface {
	Command(args ...string) (string, error)
}

// Manager handles tmux operations
type Manager struct {
	tmux Runner
}

// New creates a tmux manager for the default server
func New() (*Manager, error) {
	t, err := gotmux.DefaultTmux()
	if err != nil {
		return nil, err
	}
	return &Manager{tmux: t}, nil
}

// NewWithRunner creates a manager over an existing runner
func NewWithRunner(r Runner) *Manager {
	return &Manager{tmux: r}
}

// IsInsideTmux checks if we're running inside tmux
func IsInsideTmux() bool {
	return os.Getenv("TMUX") != ""
}

// RefreshStatus redraws the status line of attached clients so a
// status-right reading the status file picks up the new content
func (m *Manager) RefreshStatus() error {
	_, err := m.tmux.Command("refresh-client", "-S")
	return err
}

// StatusRightSnippet returns a status-right value that displays path
func StatusRightSnippet(path string) string {
	return "#(cat " + path + ")"
}
