package main

import (
	"os"
	"os/user"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/bubble-pop/internal/platform/tui"
)

var flagPlayer string

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Play in this terminal",
	Long: `Start a Bubble Pop session in this terminal.

A short countdown precedes each session. Click bubbles with the mouse to pop
them before the timer runs out; bubbles that drift off the top are lost.

Points:
  red 1, pink 2, green 5, blue 8, black 10
  Popping the same color again doubles the multiplier (up to x8).

Controls:
  Mouse      - Pop a bubble
  R          - Play again (after game over)
  Tab        - High scores (after game over)
  ?          - More keys
  Q/Ctrl+C   - Quit (the current score is still saved)

Examples:
  bubblepop play
  bubblepop play --player alice
  bubblepop play --seed 42 --config ./my-tuning.yaml`,
	Args: cobra.NoArgs,
	RunE: runPlay,
}

func init() {
	playCmd.Flags().StringVar(&flagPlayer, "player", "", "Player name (default: current user)")
}

func runPlay(_ *cobra.Command, _ []string) error {
	player := flagPlayer
	if player == "" {
		player = defaultPlayer()
	}

	a, err := newApp(appOptions{prefix: "bubblepop", quietStderr: true})
	if err != nil {
		return err
	}
	defer a.Close()

	width, height := 80, 24 // Defaults
	if w, h, termErr := term.GetSize(int(os.Stdout.Fd())); termErr == nil {
		width = w
		height = h
	}

	return tui.Run(a.tuiEnv(), player, width, height)
}

func defaultPlayer() string {
	if u, err := user.Current(); err == nil && u.Username != "" {
		return u.Username
	}
	return "player"
}
