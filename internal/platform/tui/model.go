package tui

import (
	"context"
	"fmt"
	"io"
	"math"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/bubble-pop/internal/bubble"
	"github.com/vovakirdan/bubble-pop/internal/config"
	"github.com/vovakirdan/bubble-pop/internal/core"
	"github.com/vovakirdan/bubble-pop/internal/storage"
)

// Field units per terminal cell. Cells are roughly twice as tall as wide,
// so a row covers twice the field distance of a column.
const (
	unitsPerCol = 10.0
	unitsPerRow = 20.0
	hudRows     = 1 // Status line above the field
	footerRows  = 1 // Help line below the field
)

// Env bundles the collaborators a game model needs. It is shared by every
// model a host creates.
type Env struct {
	Store    storage.Leaderboard
	Settings bubble.SettingsSource
	Tuning   config.Tuning
	Observer bubble.Observer
	Logger   *log.Logger
	FPS      int   // Repaint rate
	Seed     int64 // 0 seeds each session from the clock
}

// Model is the Bubble Tea model for one player's games.
type Model struct {
	ctx        context.Context
	env        Env
	player     string
	screen     *core.Screen
	width      int
	height     int
	session    *bubble.Session
	cancel     context.CancelFunc
	result     *bubble.Result
	games      int
	keys       GameKeyMap
	help       help.Model
	scoreboard ScoreboardModel
	showScores bool
	quitting   bool
}

// NewModel creates a model and starts the first session. Cancelling ctx
// aborts whichever session is running.
func NewModel(ctx context.Context, env Env, player string, width, height int) (Model, error) {
	if env.Tuning.Validate() != nil {
		env.Tuning = config.DefaultTuning()
	}
	if env.Logger == nil {
		env.Logger = log.New(io.Discard)
	}

	m := Model{
		ctx:    ctx,
		env:    env,
		player: player,
		width:  width,
		height: height,
		screen: core.NewScreen(width, max(height-footerRows, 1)),
		keys:   DefaultGameKeyMap(),
		help:   help.New(),
	}
	m.help.Width = width
	m.scoreboard = NewScoreboardModel(env.Store, width, height)

	if err := m.startSession(); err != nil {
		return Model{}, err
	}
	return m, nil
}

// startSession creates a fresh session sized to the terminal and starts
// its runner.
func (m *Model) startSession() error {
	seed := m.env.Seed
	if seed != 0 {
		seed += int64(m.games)
	}

	s, err := bubble.NewSession(m.player, m.env.Settings, m.env.Store, bubble.Options{
		Tuning:   m.env.Tuning,
		Seed:     seed,
		Logger:   m.env.Logger,
		Observer: m.env.Observer,
	})
	if err != nil {
		return err
	}
	s.FieldSizeChanged(fieldSize(m.width, m.height))

	ctx, cancel := context.WithCancel(m.ctx)
	bubble.NewRunner(s, nil).Start(ctx)

	m.session = s
	m.cancel = cancel
	m.result = nil
	m.games++
	m.showScores = false
	m.keys.setGameOver(false)
	return nil
}

// fieldSize converts a terminal size to field units.
func fieldSize(width, height int) (float64, float64) {
	rows := max(height-hudRows-footerRows, 0)
	return float64(width) * unitsPerCol, float64(rows) * unitsPerRow
}

// cellToField maps a terminal cell to the field point at its center.
func cellToField(x, y, height int) (core.Point, bool) {
	row := y - hudRows
	if x < 0 || row < 0 || row >= height-hudRows-footerRows {
		return core.Point{}, false
	}
	return core.Pt((float64(x)+0.5)*unitsPerCol, (float64(row)+0.5)*unitsPerRow), true
}

// Init starts the repaint loop and waits for the session to end.
func (m Model) Init() tea.Cmd {
	return tea.Batch(tickCmd(m.env.FPS), waitForEnd(m.session))
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		return m.handleMouse(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.screen.Resize(msg.Width, max(msg.Height-footerRows, 1))
		m.session.FieldSizeChanged(fieldSize(msg.Width, msg.Height))
		m.help.Width = msg.Width
		m.scoreboard.resize(msg.Width, msg.Height)
		return m, nil

	case sessionEndedMsg:
		// A restarted model may still receive the previous session's result
		if msg.session != m.session {
			return m, nil
		}
		res := msg.result
		m.result = &res
		m.keys.setGameOver(true)
		m.scoreboard.Reload()
		m.scoreboard.Highlight(res.Player, res.Score)
		return m, nil

	case TickMsg:
		return m, tickCmd(m.env.FPS)
	}

	return m, nil
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.showScores {
		next, cmd := m.scoreboard.Update(msg)
		m.scoreboard = next.(ScoreboardModel)
		if m.scoreboard.IsQuitting() {
			return m.quit()
		}
		if m.scoreboard.IsGoingBack() {
			m.scoreboard.goingBack = false
			m.showScores = false
		}
		return m, cmd
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m.quit()

	case key.Matches(msg, m.keys.Restart):
		m.cancel()
		if err := m.startSession(); err != nil {
			m.env.Logger.Error("cannot restart session", "err", err)
			return m, nil
		}
		return m, waitForEnd(m.session)

	case key.Matches(msg, m.keys.Scores):
		m.showScores = true
		return m, nil

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	}

	return m, nil
}

// quit commits the running session, if any, before exiting.
func (m Model) quit() (tea.Model, tea.Cmd) {
	m.quitting = true
	m.session.Abort()
	m.cancel()
	return m, tea.Quit
}

// handleMouse pops the bubble under a left click.
func (m Model) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if m.showScores || msg.Action != tea.MouseActionPress || msg.Button != tea.MouseButtonLeft {
		return m, nil
	}
	p, ok := cellToField(msg.X, msg.Y, m.height)
	if !ok {
		return m, nil
	}
	// Misses and clicks outside Running are expected; nothing to report
	m.session.PopAtPoint(p) //nolint:errcheck
	return m, nil
}

// Session returns the current session.
func (m Model) Session() *bubble.Session {
	return m.session
}

// View renders the current state to a string for display.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if m.showScores {
		return m.scoreboard.View()
	}

	snap := m.session.Snapshot()
	m.screen.Clear()
	m.drawHUD(snap)
	m.drawField(snap)

	switch {
	case snap.Status == bubble.StatusCountingDown:
		m.drawCountdown(snap)
	case m.result != nil:
		m.drawGameOver(*m.result)
	}

	helpStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	return RenderScreen(m.screen) + "\n" + helpStyle.Render(m.help.View(m.keys))
}

func (m Model) drawHUD(snap bubble.Snapshot) {
	left := fmt.Sprintf(" %s  Score: %d", snap.Player, snap.Score)
	right := fmt.Sprintf("High: %d  Time: %2ds ", snap.HighScore, snap.Remaining)
	m.screen.DrawTextColored(0, 0, left, core.ColorBrightWhite)

	timeColor := core.ColorGray
	if snap.Status == bubble.StatusRunning && snap.Remaining <= 5 {
		timeColor = core.ColorRed
	}
	m.screen.DrawTextColored(m.screen.Width()-len([]rune(right)), 0, right, timeColor)
}

func (m Model) drawField(snap bubble.Snapshot) {
	for _, b := range snap.Popping {
		m.drawBubble(b, '*')
	}
	for _, b := range snap.Bubbles {
		glyph := '●'
		if b.State == bubble.StateEntrance {
			glyph = '○'
		}
		m.drawBubble(b, glyph)
	}

	for _, ind := range snap.Indicators {
		c := core.ColorBrightWhite
		switch {
		case ind.Opacity < 0.4:
			c = core.ColorGray
		case ind.Bonus:
			c = core.ColorYellow
		}
		x := int(math.Round(ind.X/unitsPerCol)) - len(ind.Text)/2
		y := int(math.Round(ind.Y/unitsPerRow)) + hudRows
		if y >= hudRows {
			m.screen.DrawTextColored(x, y, ind.Text, c)
		}
	}
}

func (m Model) drawBubble(b bubble.BubbleView, glyph rune) {
	m.screen.FillEllipse(
		b.X/unitsPerCol,
		b.Y/unitsPerRow+hudRows,
		b.Radius/unitsPerCol,
		b.Radius/unitsPerRow,
		glyph,
		b.Tier.Color(),
	)
}

func (m Model) drawCountdown(snap bubble.Snapshot) {
	mid := m.screen.Height() / 2
	m.screen.DrawTextCentered(mid-1, "GET READY")
	m.screen.DrawTextCentered(mid+1, fmt.Sprintf("%d", core.Clamp(snap.Countdown, 1, m.env.Tuning.Session.CountdownTicks)))
}

func (m Model) drawGameOver(res bubble.Result) {
	lines := []string{
		"GAME OVER",
		"",
		fmt.Sprintf("Score: %d", res.Score),
		fmt.Sprintf("Bubbles popped: %d", res.Pops),
	}
	if res.NewHighScore {
		lines = append(lines, "", "NEW HIGH SCORE!")
	}
	if !res.Saved {
		lines = append(lines, "", "(score could not be saved)")
	}

	boxW := 30
	boxH := len(lines) + 2
	box := core.NewRect((m.screen.Width()-boxW)/2, (m.screen.Height()-boxH)/2, boxW, boxH)
	m.screen.DrawRect(box, ' ')
	m.screen.DrawBox(box)
	for i, line := range lines {
		m.screen.DrawTextCentered(box.Y+1+i, line)
	}
}

// Run starts a local Bubble Tea program for player.
func Run(env Env, player string, width, height int) error {
	model, err := NewModel(context.Background(), env, player, width, height)
	if err != nil {
		return err
	}

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)

	_, err = p.Run()
	return err
}
