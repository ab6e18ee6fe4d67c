package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/bubble-pop/internal/platform/web"
)

var (
	flagWebAddr       string
	flagAllowedOrigin string
	flagFrameMillis   int
)

var webCmd = &cobra.Command{
	Use:   "web",
	Short: "Start the HTTP/WebSocket server",
	Long: `Serve Bubble Pop to browser clients.

Endpoints:
  GET  /api/scores            Ranked high scores
  GET  /api/settings          Current settings
  PUT  /api/settings          Update settings (JSON body)
  GET  /ws?player=NAME        One game session per WebSocket
  GET  /metrics               Prometheus metrics
  GET  /healthz               Liveness check

WebSocket messages from the client:
  {"type":"resize","width":W,"height":H}
  {"type":"pop","id":"..."}  or  {"type":"pop","x":X,"y":Y}
  {"type":"abort"}

The server streams {"type":"snapshot",...} frames; the last one carries the
committed result.

Examples:
  bubblepop web
  bubblepop web --addr :9090 --origin https://example.com`,
	Args: cobra.NoArgs,
	RunE: runWeb,
}

func init() {
	webCmd.Flags().StringVar(&flagWebAddr, "addr", ":8080", "HTTP listen address")
	webCmd.Flags().StringVar(&flagAllowedOrigin, "origin", "", "Only accept WebSocket upgrades from this Origin")
	webCmd.Flags().IntVar(&flagFrameMillis, "frame-ms", 50, "Snapshot interval per connection in milliseconds")
}

func runWeb(_ *cobra.Command, _ []string) error {
	a, err := newApp(appOptions{prefix: "bubblepop-web", metrics: true})
	if err != nil {
		return err
	}
	defer a.Close()

	deps := a.webDeps()
	deps.AllowedOrigin = flagAllowedOrigin
	deps.FrameInterval = time.Duration(flagFrameMillis) * time.Millisecond

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Printf("Starting Bubble Pop web server on %s\n", flagWebAddr)
	fmt.Println("Press Ctrl+C to stop")

	return web.NewServer(flagWebAddr, deps).ListenAndServe(ctx)
}
