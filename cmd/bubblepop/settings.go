package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/bubble-pop/internal/config"
)

var (
	flagDuration   int
	flagMaxBubbles int
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Show or change game settings",
	Long: fmt.Sprintf(`Show the stored settings, or update them with flags.

Settings are read when a session's countdown completes, so a change made
while someone is counting down applies to their session.

Ranges:
  --duration      %d-%d seconds (in steps of %d in the game menus)
  --max-bubbles   %d-%d bubbles on the field

Examples:
  bubblepop settings
  bubblepop settings --duration 30
  bubblepop settings --duration 45 --max-bubbles 10`,
		config.MinDurationSeconds, config.MaxDurationSeconds, config.DurationStep,
		config.MinMaxBubbles, config.MaxMaxBubbles),
	Args: cobra.NoArgs,
	RunE: runSettings,
}

func init() {
	settingsCmd.Flags().IntVar(&flagDuration, "duration", 0, "Session duration in seconds")
	settingsCmd.Flags().IntVar(&flagMaxBubbles, "max-bubbles", 0, "Maximum bubbles on the field")
}

func runSettings(cmd *cobra.Command, _ []string) error {
	store, err := config.NewSettingsStore(flagSettingsPath)
	if err != nil {
		return err
	}

	current, err := store.Load()
	if err != nil {
		return err
	}

	durationSet := cmd.Flags().Changed("duration")
	bubblesSet := cmd.Flags().Changed("max-bubbles")
	if durationSet || bubblesSet {
		if durationSet {
			current.DurationSeconds = flagDuration
		}
		if bubblesSet {
			current.MaxBubbles = flagMaxBubbles
		}
		if err := store.Set(current); err != nil {
			return err
		}
		fmt.Println("Settings saved.")
	}

	fmt.Printf("Settings (%s)\n", store.Path())
	fmt.Printf("  Duration:     %d seconds\n", current.DurationSeconds)
	fmt.Printf("  Max bubbles:  %d\n", current.MaxBubbles)
	return nil
}
