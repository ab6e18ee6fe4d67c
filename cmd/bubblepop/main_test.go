package main

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/bubble-pop/internal/storage"
)

func TestEnvName(t *testing.T) {
	tests := []struct {
		flag string
		want string
	}{
		{"db", "BUBBLEPOP_DB"},
		{"log-level", "BUBBLEPOP_LOG_LEVEL"},
		{"max-bubbles", "BUBBLEPOP_MAX_BUBBLES"},
	}

	for _, tt := range tests {
		if got := envName(tt.flag); got != tt.want {
			t.Errorf("envName(%q) = %q, want %q", tt.flag, got, tt.want)
		}
	}
}

func TestApplyEnvFillsUnsetFlags(t *testing.T) {
	t.Chdir(t.TempDir()) // No .env here
	t.Setenv("BUBBLEPOP_NAME", "from-env")
	t.Setenv("BUBBLEPOP_COUNT", "7")

	var name string
	var count int
	cmd := &cobra.Command{Use: "test"}
	cmd.Flags().StringVar(&name, "name", "default", "")
	cmd.Flags().IntVar(&count, "count", 1, "")
	if err := cmd.Flags().Set("count", "3"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	if err := applyEnv(cmd, nil); err != nil {
		t.Fatalf("applyEnv failed: %v", err)
	}
	if name != "from-env" {
		t.Errorf("name = %q, want from-env", name)
	}
	if count != 3 {
		t.Errorf("count = %d, want 3 (command line wins)", count)
	}
}

func TestApplyEnvRejectsBadValue(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("BUBBLEPOP_COUNT", "many")

	var count int
	cmd := &cobra.Command{Use: "test"}
	cmd.Flags().IntVar(&count, "count", 1, "")

	if err := applyEnv(cmd, nil); err == nil {
		t.Fatal("expected error for non-numeric value")
	}
}

func TestPrintScores(t *testing.T) {
	var buf bytes.Buffer
	printScores(&buf, nil)
	if !strings.Contains(buf.String(), "No scores recorded yet.") {
		t.Errorf("empty output = %q", buf.String())
	}

	buf.Reset()
	now := time.Date(2026, 1, 2, 15, 4, 0, 0, time.UTC)
	printScores(&buf, []storage.ScoreRecord{
		{PlayerName: "bob", Score: 30, CreatedAt: now},
		{PlayerName: "alice", Score: 10, CreatedAt: now},
	})
	out := buf.String()
	if !strings.Contains(out, "Best: 30 (bob)") {
		t.Errorf("output should name the best score:\n%s", out)
	}
	if strings.Index(out, "bob") > strings.Index(out, "alice") {
		t.Errorf("bob should be listed before alice:\n%s", out)
	}
}
