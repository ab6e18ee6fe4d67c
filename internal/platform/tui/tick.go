// Package tui provides the Bubble Tea host for Bubble Pop: the terminal
// game loop, mouse input mapping and the high-score table, served locally
// or over SSH.
package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/bubble-pop/internal/bubble"
)

// TickMsg triggers a repaint. The session is driven by its own runner;
// frames only sample snapshots.
type TickMsg time.Time

// sessionEndedMsg carries the committed result of a session.
type sessionEndedMsg struct {
	session *bubble.Session
	result  bubble.Result
}

// tickCmd returns a Bubble Tea command that sends tick messages at the specified rate.
func tickCmd(fps int) tea.Cmd {
	if fps <= 0 {
		fps = 30
	}
	interval := time.Second / time.Duration(fps)
	return tea.Tick(interval, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

// waitForEnd blocks until the session commits its score.
func waitForEnd(s *bubble.Session) tea.Cmd {
	return func() tea.Msg {
		<-s.Done()
		res, _ := s.Result()
		return sessionEndedMsg{session: s, result: res}
	}
}
