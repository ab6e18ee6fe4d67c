package main

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/bubble-pop/internal/bubble"
	"github.com/vovakirdan/bubble-pop/internal/config"
	"github.com/vovakirdan/bubble-pop/internal/metrics"
	"github.com/vovakirdan/bubble-pop/internal/platform/tui"
	"github.com/vovakirdan/bubble-pop/internal/platform/web"
	"github.com/vovakirdan/bubble-pop/internal/storage"
)

// app holds the collaborators built from the global flags.
type app struct {
	logger   *log.Logger
	logFile  *os.File
	tuning   config.Tuning
	settings *config.SettingsStore
	local    *storage.Store      // Scores and play history; nil if it could not be opened
	redis    *storage.RedisStore // Shared leaderboard when --redis is set
	board    storage.Leaderboard // Whichever of redis or local ranks scores
	metrics  *metrics.Collector  // nil unless a server asked for it
}

// appOptions choose what newApp builds.
type appOptions struct {
	prefix      string // Log prefix
	quietStderr bool   // Discard logs unless --log-file is set (full-screen hosts)
	metrics     bool
}

// newApp builds the logger, tuning, settings and stores. A missing local
// database is logged, not fatal, so the game still plays.
func newApp(opts appOptions) (*app, error) {
	a := &app{}

	logger, logFile, err := newLogger(opts)
	if err != nil {
		return nil, err
	}
	a.logger = logger
	a.logFile = logFile

	a.tuning, err = config.LoadTuning(flagConfig)
	if err != nil {
		a.Close()
		return nil, err
	}

	a.settings, err = config.NewSettingsStore(flagSettingsPath)
	if err != nil {
		a.Close()
		return nil, err
	}
	if _, err := a.settings.Load(); err != nil {
		a.logger.Warn("using default settings", "err", err)
	}

	a.local, err = storage.Open(flagDBPath)
	if err != nil {
		a.logger.Warn("could not open scores database", "path", flagDBPath, "err", err)
		a.local = nil
	}

	if flagRedisURL != "" {
		a.redis, err = storage.OpenRedis(flagRedisURL)
		if err != nil {
			a.Close()
			return nil, err
		}
		a.board = a.redis
	} else if a.local != nil {
		a.board = a.local
	}

	if opts.metrics {
		a.metrics = metrics.New()
	}
	return a, nil
}

func newLogger(opts appOptions) (*log.Logger, *os.File, error) {
	level, err := log.ParseLevel(flagLogLevel)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid log level %q", flagLogLevel)
	}

	var (
		w    io.Writer = os.Stderr
		file *os.File
	)
	switch {
	case flagLogFile != "":
		path, err := config.ExpandHome(flagLogFile)
		if err != nil {
			return nil, nil, err
		}
		file, err = os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("cannot open log file: %w", err)
		}
		w = file
	case opts.quietStderr:
		w = io.Discard
	}

	logger := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		Prefix:          opts.prefix,
		Level:           level,
	})
	return logger, file, nil
}

// observer fans session events out to the metrics collector and the play
// history, whichever exist.
func (a *app) observer() bubble.Observer {
	var obs []bubble.Observer
	if a.metrics != nil {
		obs = append(obs, a.metrics)
	}
	if a.local != nil {
		obs = append(obs, storage.NewPlayLog(a.local, a.logger))
	}
	return bubble.Observers(obs...)
}

// tuiEnv returns the environment shared by terminal models.
func (a *app) tuiEnv() tui.Env {
	return tui.Env{
		Store:    a.board,
		Settings: a.settings,
		Tuning:   a.tuning,
		Observer: a.observer(),
		Logger:   a.logger,
		FPS:      flagFPS,
		Seed:     flagSeed,
	}
}

// webDeps returns the dependencies for the HTTP host.
func (a *app) webDeps() web.Deps {
	deps := web.Deps{
		Store:    a.board,
		Settings: a.settings,
		Tuning:   a.tuning,
		Observer: a.observer(),
		Logger:   a.logger,
		Seed:     flagSeed,
	}
	if a.metrics != nil {
		deps.Metrics = a.metrics.Handler()
	}
	return deps
}

// Close releases the stores and log file.
func (a *app) Close() {
	if a.local != nil {
		a.local.Close()
	}
	if a.redis != nil {
		a.redis.Close()
	}
	if a.logFile != nil {
		a.logFile.Close()
	}
}
