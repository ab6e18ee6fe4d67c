// Package web serves Bubble Pop over HTTP: a JSON API for scores and
// settings, a WebSocket per game session and Prometheus metrics.
package web

import (
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"

	"github.com/vovakirdan/bubble-pop/internal/bubble"
	"github.com/vovakirdan/bubble-pop/internal/config"
	"github.com/vovakirdan/bubble-pop/internal/storage"
)

// SettingsStore reads and persists player settings.
type SettingsStore interface {
	Get() config.Settings
	Set(config.Settings) error
}

// Deps are the collaborators shared by every request.
type Deps struct {
	Store    storage.Leaderboard
	Settings SettingsStore
	Tuning   config.Tuning
	Observer bubble.Observer
	Metrics  http.Handler // Served at /metrics when set
	Logger   *log.Logger
	Seed     int64 // 0 seeds each session from the clock

	// AllowedOrigin restricts WebSocket upgrades to one Origin. Empty allows any.
	AllowedOrigin string
	// FrameInterval is how often a connected client receives a snapshot.
	FrameInterval time.Duration
}

// Server is the HTTP host.
type Server struct {
	deps   Deps
	router *gin.Engine
	http   *http.Server
	logger *log.Logger
}

// NewServer builds the router for deps. Call ListenAndServe to start it.
func NewServer(addr string, deps Deps) *Server {
	if deps.Logger == nil {
		deps.Logger = log.New(io.Discard)
	}
	if deps.Tuning.Validate() != nil {
		deps.Tuning = config.DefaultTuning()
	}
	if deps.FrameInterval <= 0 {
		deps.FrameInterval = 50 * time.Millisecond
	}

	s := &Server{deps: deps, logger: deps.Logger}
	s.router = s.routes()
	s.http = &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

func (s *Server) routes() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery(), s.requestLogger())

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api")
	api.GET("/scores", s.getScores)
	api.GET("/settings", s.getSettings)
	api.PUT("/settings", s.putSettings)

	r.GET("/ws", s.handleWS)

	if s.deps.Metrics != nil {
		r.GET("/metrics", gin.WrapH(s.deps.Metrics))
	}
	return r
}

// Handler returns the HTTP handler, for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.router
}

// requestLogger logs each request with charmbracelet/log.
func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.logger.Debug("request",
			"method", c.Request.Method,
			"path", c.FullPath(),
			"status", c.Writer.Status(),
			"elapsed", time.Since(start),
		)
	}
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	s.logger.Info("starting web server", "address", s.http.Addr)

	errCh := make(chan error, 1)
	go func() {
		if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return s.http.Shutdown(shutdownCtx)
}

type scoreEntry struct {
	Rank      int       `json:"rank"`
	Player    string    `json:"player"`
	Score     int       `json:"score"`
	CreatedAt time.Time `json:"created_at"`
}

func (s *Server) getScores(c *gin.Context) {
	if s.deps.Store == nil {
		c.JSON(http.StatusOK, gin.H{"scores": []scoreEntry{}})
		return
	}

	records, err := s.deps.Store.All()
	if err != nil {
		s.logger.Error("cannot load scores", "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load scores"})
		return
	}

	entries := make([]scoreEntry, len(records))
	for i, r := range records {
		entries[i] = scoreEntry{Rank: i + 1, Player: r.PlayerName, Score: r.Score, CreatedAt: r.CreatedAt}
	}
	c.JSON(http.StatusOK, gin.H{"scores": entries})
}

func (s *Server) getSettings(c *gin.Context) {
	c.JSON(http.StatusOK, s.currentSettings())
}

func (s *Server) currentSettings() config.Settings {
	if s.deps.Settings == nil {
		return config.DefaultSettings()
	}
	return s.deps.Settings.Get()
}

func (s *Server) putSettings(c *gin.Context) {
	if s.deps.Settings == nil {
		c.JSON(http.StatusNotImplemented, gin.H{"error": "settings are read-only"})
		return
	}

	var v config.Settings
	if err := c.ShouldBindJSON(&v); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid JSON body"})
		return
	}

	if err := s.deps.Settings.Set(v); err != nil {
		if errors.Is(err, config.ErrInvalidSettings) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		s.logger.Error("cannot save settings", "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save settings"})
		return
	}
	c.JSON(http.StatusOK, v)
}
