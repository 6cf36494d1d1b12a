// Package tui renders live integrity verification progress from a progrock tape.
package tui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/vito/progrock"
)

// TapeSource yields progrock updates in order. Read fails once the recording
// has ended.
type TapeSource interface {
	Read() (*progrock.StatusUpdate, error)
}

type (
	tapeUpdateMsg struct{ update *progrock.StatusUpdate }
	tapeEndedMsg  struct{}
)

// nextUpdate blocks on the tape and delivers one update to the model.
func nextUpdate(tape TapeSource) tea.Cmd {
	return func() tea.Msg {
		update, err := tape.Read()
		if err != nil {
			return tapeEndedMsg{}
		}
		return tapeUpdateMsg{update: update}
	}
}
