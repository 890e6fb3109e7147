package message

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// SessionExpired is broadcast by the transport layer after a 401 wiped
// the session. Every page answers it by resetting to the home page
// logged out, the terminal equivalent of the hard redirect to /.
type SessionExpired struct{}

// ResetMsg clears a page's transient info line.
type ResetMsg struct{}

// StartupDone signals that the once-per-process session check finished.
type StartupDone struct{}

func SendTimedMessage(msg tea.Msg, t time.Duration) func() tea.Msg {
	return func() tea.Msg {
		timer := time.NewTimer(t)
		<-timer.C

		return msg
	}
}
