package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/bubble-pop/internal/platform/tui"
	"github.com/vovakirdan/bubble-pop/internal/storage"
)

var (
	flagInteractive bool
	flagStats       bool
	flagClear       bool
)

var scoresCmd = &cobra.Command{
	Use:   "scores",
	Short: "Show the high-score table",
	Long: `Display the top 10 scores, highest first. Equal scores keep the order
in which they were set.

Examples:
  bubblepop scores
  bubblepop scores --interactive
  bubblepop scores --stats
  bubblepop scores --redis redis://localhost:6379/0`,
	Args: cobra.NoArgs,
	RunE: runScores,
}

func init() {
	scoresCmd.Flags().BoolVarP(&flagInteractive, "interactive", "i", false, "Browse the table in a full-screen view")
	scoresCmd.Flags().BoolVar(&flagStats, "stats", false, "Also show per-player statistics from the play history")
	scoresCmd.Flags().BoolVar(&flagClear, "clear", false, "Delete every local high score")
}

func runScores(_ *cobra.Command, _ []string) error {
	a, err := newApp(appOptions{prefix: "bubblepop"})
	if err != nil {
		return err
	}
	defer a.Close()

	if a.board == nil {
		return errors.New("no score store available")
	}

	if flagClear {
		if a.local == nil {
			return errors.New("scores database is not available")
		}
		if err := a.local.Clear(); err != nil {
			return err
		}
		fmt.Println("High scores cleared.")
		return nil
	}

	if flagInteractive {
		width, height := 80, 24
		if w, h, termErr := term.GetSize(int(os.Stdout.Fd())); termErr == nil {
			width, height = w, h
		}
		return tui.RunScoreboard(a.board, width, height)
	}

	records, err := a.board.All()
	if err != nil {
		return err
	}
	printScores(os.Stdout, records)

	if flagStats {
		if a.local == nil {
			return errors.New("play history is not available")
		}
		stats, err := a.local.AllPlayerStats()
		if err != nil {
			return err
		}
		fmt.Println()
		printStats(os.Stdout, stats)
	}
	return nil
}

func printScores(w io.Writer, records []storage.ScoreRecord) {
	fmt.Fprintln(w, "High Scores - Bubble Pop")
	fmt.Fprintln(w)

	if len(records) == 0 {
		fmt.Fprintln(w, "No scores recorded yet.")
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Play 'bubblepop play' to set the first high score!")
		return
	}

	fmt.Fprintf(w, "  %-4s  %-16s  %-8s  %s\n", "Rank", "Player", "Score", "Date")
	fmt.Fprintf(w, "  %-4s  %-16s  %-8s  %s\n", "----", "------", "-----", "----")
	for i, r := range records {
		fmt.Fprintf(w, "  %-4d  %-16s  %-8d  %s\n", i+1, r.PlayerName, r.Score, r.CreatedAt.Format("2006-01-02 15:04"))
	}

	fmt.Fprintln(w)
	fmt.Fprintf(w, "Best: %d (%s)\n", records[0].Score, records[0].PlayerName)
}

func printStats(w io.Writer, stats []storage.PlayerStats) {
	fmt.Fprintln(w, "Players")
	fmt.Fprintln(w)

	if len(stats) == 0 {
		fmt.Fprintln(w, "No plays recorded yet.")
		return
	}

	fmt.Fprintf(w, "  %-16s  %-5s  %-6s  %-7s  %-6s  %s\n", "Player", "Plays", "Best", "Average", "Pops", "Last played")
	for _, st := range stats {
		fmt.Fprintf(w, "  %-16s  %-5d  %-6d  %-7.1f  %-6d  %s\n",
			st.Player, st.Plays, st.BestScore, st.AvgScore, st.TotalPops, st.LastPlayed.Format("2006-01-02 15:04"))
	}
}
