// bubblepop is a timed bubble-popping game for the terminal and the browser.
//
// Usage:
//
//	bubblepop play           - Play in this terminal (click bubbles to pop them)
//	bubblepop scores         - Show the high-score table
//	bubblepop settings       - Show or change duration and bubble count
//	bubblepop serve          - Start SSH server for remote play
//	bubblepop web            - Start HTTP/WebSocket server
//
// Global flags:
//
//	--fps <rate>        - Repaint rate (default: 30)
//	--seed <value>      - RNG seed for reproducible sessions
//	--db <path>         - Scores database (default: ~/.bubblepop/scores.db)
//	--settings <path>   - Settings file (default: ~/.bubblepop/settings.yaml)
//	--config <path>     - Engine tuning YAML
//	--redis <url>       - Use a shared Redis leaderboard instead of SQLite
//	--log-level <lvl>   - debug, info, warn or error
//
// Every global flag may also be set through a BUBBLEPOP_* environment
// variable (for example BUBBLEPOP_DB), optionally from a .env file.
package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

var (
	// Global flags
	flagFPS          int
	flagSeed         int64
	flagDBPath       string
	flagSettingsPath string
	flagConfig       string
	flagRedisURL     string
	flagLogLevel     string
	flagLogFile      string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "bubblepop",
	Short: "Bubble Pop - pop drifting bubbles before time runs out",
	Long: `Bubble Pop is a timed arcade game. Colored bubbles drift up the field;
click them to score. Rarer colors are worth more, and popping the same color
in a row multiplies the points.

Available commands:
  play      - Play in this terminal
  scores    - View high scores
  settings  - Show or change game settings
  serve     - Start SSH server for remote play
  web       - Start HTTP/WebSocket server

Examples:
  bubblepop play --player alice
  bubblepop settings --duration 30 --max-bubbles 10
  bubblepop serve --ssh :2222
  bubblepop web --addr :8080 --redis redis://localhost:6379/0`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: applyEnv,
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.IntVar(&flagFPS, "fps", 30, "Repaint rate (frames per second)")
	pf.Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	pf.StringVar(&flagDBPath, "db", "~/.bubblepop/scores.db", "Path to scores database")
	pf.StringVar(&flagSettingsPath, "settings", "~/.bubblepop/settings.yaml", "Path to settings file")
	pf.StringVar(&flagConfig, "config", "", "Path to custom tuning YAML")
	pf.StringVar(&flagRedisURL, "redis", "", "Redis URL for a shared leaderboard")
	pf.StringVar(&flagLogLevel, "log-level", "info", "Log level: debug, info, warn, error")
	pf.StringVar(&flagLogFile, "log-file", "", "Write logs to this file instead of stderr")

	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(scoresCmd)
	rootCmd.AddCommand(settingsCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(webCmd)
}

// envName maps a flag name to its environment variable: --log-level
// becomes BUBBLEPOP_LOG_LEVEL.
func envName(flag string) string {
	return "BUBBLEPOP_" + strings.ToUpper(strings.ReplaceAll(flag, "-", "_"))
}

// applyEnv loads an optional .env file and fills every flag the user did
// not set on the command line from its BUBBLEPOP_* variable.
func applyEnv(cmd *cobra.Command, _ []string) error {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("cannot load .env: %w", err)
	}

	var firstErr error
	cmd.Flags().VisitAll(func(f *pflag.Flag) {
		if f.Changed || firstErr != nil {
			return
		}
		if v, ok := os.LookupEnv(envName(f.Name)); ok {
			if err := cmd.Flags().Set(f.Name, v); err != nil {
				firstErr = fmt.Errorf("invalid %s: %w", envName(f.Name), err)
			}
		}
	})
	return firstErr
}
