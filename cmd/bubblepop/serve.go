package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/bubble-pop/internal/platform/tui"
)

var (
	flagSSHAddr     string
	flagHostKey     string
	flagIdleTimeout int
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the Bubble Pop SSH server",
	Long: `Start an SSH server that allows users to connect and play.

Each SSH connection plays under its SSH user name. Scores go to the shared
leaderboard (SQLite by default, Redis with --redis). Closing the connection
mid-session still saves the score.

Host key handling:
  - If --host-key is provided, uses that key file
  - Otherwise, auto-generates a key at ~/.bubblepop/host_key

Examples:
  bubblepop serve                           # Listen on :23234 with auto-generated key
  bubblepop serve --ssh :2222               # Listen on port 2222
  bubblepop serve --host-key ./my_host_key  # Use specific host key

Users can connect with:
  ssh -t localhost -p 23234`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&flagSSHAddr, "ssh", ":23234", "SSH server address (host:port)")
	serveCmd.Flags().StringVar(&flagHostKey, "host-key", "", "Path to host key file (auto-generated if not specified)")
	serveCmd.Flags().IntVar(&flagIdleTimeout, "idle-timeout", 30, "Idle timeout in minutes before disconnecting")
}

func runServe(_ *cobra.Command, _ []string) error {
	a, err := newApp(appOptions{prefix: "bubblepop-ssh"})
	if err != nil {
		return err
	}
	defer a.Close()

	cfg := tui.DefaultSSHServerConfig()
	cfg.Address = flagSSHAddr
	cfg.HostKeyPath = flagHostKey
	cfg.IdleTimeout = time.Duration(flagIdleTimeout) * time.Minute

	server, err := tui.NewSSHServer(cfg, a.tuiEnv())
	if err != nil {
		return err
	}

	fmt.Printf("Starting Bubble Pop SSH server on %s\n", cfg.Address)
	fmt.Println("Press Ctrl+C to stop")

	return server.ListenAndServe(context.Background())
}
