package bubble

import (
	"io"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/bubble-pop/internal/config"
	"github.com/vovakirdan/bubble-pop/internal/core"
)

// Indicator geometry in field units.
const (
	indicatorLift = 10  // Spawn distance above the popped bubble's top
	indicatorRise = 1.5 // Upward drift per drift tick
)

// SettingsSource supplies the player settings. Get may do I/O and is never
// called with the session lock held.
type SettingsSource interface {
	Get() config.Settings
}

// ScoreRecorder is the part of the high-score store a session needs.
type ScoreRecorder interface {
	Record(player string, score int) error
	TopScore() (int, error)
}

// Options configure a session.
type Options struct {
	Tuning   config.Tuning
	Seed     int64       // 0 means seed from the clock
	Logger   *log.Logger // nil discards
	Observer Observer    // nil ignores events
}

type indicator struct {
	pos    core.Point
	points int
	bonus  bool
	age    int
}

type poppingBubble struct {
	bubble Bubble
	age    int
}

// Session is one play from countdown to score commit.
//
// All mutating entry points are serialized by a single mutex, so second
// ticks, drift ticks, pops and resizes may arrive from different
// goroutines. Once the status becomes Ended every tick and pop is a no-op.
type Session struct {
	mu sync.Mutex

	player   string
	source   SettingsSource
	initial  config.Settings // Read at construction, used if the pre-start read is skipped
	settings config.Settings // Captured when the countdown completes
	store    ScoreRecorder
	tuning   config.Tuning
	ramp     SpeedRamp
	field    *Field
	size     core.Size

	status     Status
	countdown  int
	remaining  int
	score      int
	pops       int
	streak     Streak
	highScore  int
	indicators []indicator
	popping    []poppingBubble
	startedAt  time.Time
	reason     EndReason

	stoppers   []func()
	finished   bool
	result     *Result
	finishOnce sync.Once
	done       chan struct{}

	logger   *log.Logger
	observer Observer
}

// NewSession creates a session in the CountingDown state.
// The player name is trimmed and must not be empty.
func NewSession(player string, settings SettingsSource, store ScoreRecorder, opts Options) (*Session, error) {
	player = strings.TrimSpace(player)
	if player == "" {
		return nil, ErrEmptyPlayer
	}

	if err := opts.Tuning.Validate(); err != nil {
		opts.Tuning = config.DefaultTuning()
	}
	if opts.Seed == 0 {
		opts.Seed = time.Now().UnixNano()
	}
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard)
	}
	if opts.Observer == nil {
		opts.Observer = nopObserver{}
	}

	s := &Session{
		player:    player,
		source:    settings,
		initial:   readSettings(settings, opts.Logger),
		store:     store,
		tuning:    opts.Tuning,
		ramp:      SpeedRamp{Base: opts.Tuning.Motion.BaseSpeed, MaxMultiplier: opts.Tuning.Motion.MaxMultiplier},
		field:     NewField(rand.New(rand.NewSource(opts.Seed)), opts.Tuning.Bubbles),
		status:    StatusCountingDown,
		countdown: opts.Tuning.Session.CountdownTicks,
		done:      make(chan struct{}),
		logger:    opts.Logger,
		observer:  opts.Observer,
	}

	if store != nil {
		top, err := store.TopScore()
		if err != nil {
			s.logger.Warn("cannot load high score", "err", err)
		}
		s.highScore = top
	}

	return s, nil
}

// readSettings fetches settings and repairs out-of-range values.
func readSettings(src SettingsSource, logger *log.Logger) config.Settings {
	if src == nil {
		return config.DefaultSettings()
	}
	v := src.Get()
	if err := v.Validate(); err != nil {
		logger.Warn("settings out of range, normalizing", "err", err)
		v = v.Normalize()
	}
	return v
}

// Player returns the trimmed player name.
func (s *Session) Player() string {
	return s.player
}

// SecondTick advances the one-second game clock.
// While counting down it decrements the countdown and starts the round when
// it reaches zero. While running it decrements the remaining time and
// either refreshes the field or ends the session on timeout.
func (s *Session) SecondTick() {
	// Read settings before the transition tick without holding the lock
	var fresh *config.Settings
	if s.aboutToStart() {
		v := readSettings(s.source, s.logger)
		fresh = &v
	}

	s.mu.Lock()
	switch s.status {
	case StatusCountingDown:
		if s.countdown > 0 {
			s.countdown--
		}
		if s.countdown > 0 {
			s.mu.Unlock()
			return
		}
		settings := s.initial
		if fresh != nil {
			settings = *fresh
		}
		s.startLocked(settings)
		s.mu.Unlock()
		s.logger.Info("session started", "player", s.player,
			"duration", settings.DurationSeconds, "max_bubbles", settings.MaxBubbles)
		s.observer.SessionStarted(s.player)

	case StatusRunning:
		s.remaining--
		if s.remaining > 0 {
			s.field.Refresh(s.size, s.settings.MaxBubbles)
			s.mu.Unlock()
			return
		}
		s.remaining = 0
		s.endLocked(EndTimeout)
		s.mu.Unlock()
		s.finish()

	default:
		s.mu.Unlock()
	}
}

func (s *Session) aboutToStart() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status == StatusCountingDown && s.countdown <= 1
}

// startLocked captures the settings and enters Running.
func (s *Session) startLocked(settings config.Settings) {
	s.settings = settings
	s.score = 0
	s.pops = 0
	s.streak = Streak{}
	s.remaining = settings.DurationSeconds
	s.startedAt = time.Now()
	s.status = StatusRunning
	s.field.Refresh(s.size, settings.MaxBubbles)
}

// DriftTick moves bubbles at the current speed and ages the presentation
// state. It does nothing unless the session is running.
func (s *Session) DriftTick() {
	s.mu.Lock()
	if s.status != StatusRunning {
		s.mu.Unlock()
		return
	}

	speed := s.ramp.At(s.settings.DurationSeconds, s.remaining)
	culled := s.field.Advance(speed, s.size)
	s.ageEffectsLocked()
	s.mu.Unlock()

	if len(culled) > 0 {
		s.observer.BubblesCulled(len(culled))
	}
}

func (s *Session) ageEffectsLocked() {
	indicators := s.indicators[:0]
	for _, ind := range s.indicators {
		ind.age++
		ind.pos.Y -= indicatorRise
		if ind.age < s.tuning.Session.IndicatorTicks {
			indicators = append(indicators, ind)
		}
	}
	s.indicators = indicators

	popping := s.popping[:0]
	for _, p := range s.popping {
		p.age++
		if p.age < s.tuning.Session.PoppingTicks {
			popping = append(popping, p)
		}
	}
	s.popping = popping
}

// PopAt pops the bubble with the given id and returns the points earned.
// It returns ErrInvalidState unless the session is running, and ErrNotFound
// if the bubble is already gone; in both cases nothing changes.
func (s *Session) PopAt(id string) (int, error) {
	s.mu.Lock()
	if s.status != StatusRunning {
		s.mu.Unlock()
		return 0, ErrInvalidState
	}

	b, err := s.field.Pop(id)
	if err != nil {
		s.mu.Unlock()
		return 0, err
	}

	points, bonus := s.scoreLocked(b)
	s.mu.Unlock()

	s.observer.BubblePopped(b.Tier, points, bonus)
	return points, nil
}

// PopAtPoint pops the topmost bubble under p.
func (s *Session) PopAtPoint(p core.Point) (int, error) {
	s.mu.Lock()
	if s.status != StatusRunning {
		s.mu.Unlock()
		return 0, ErrInvalidState
	}

	hit, ok := s.field.At(p)
	if !ok {
		s.mu.Unlock()
		return 0, ErrNotFound
	}
	b, err := s.field.Pop(hit.ID)
	if err != nil {
		s.mu.Unlock()
		return 0, err
	}

	points, bonus := s.scoreLocked(b)
	s.mu.Unlock()

	s.observer.BubblePopped(b.Tier, points, bonus)
	return points, nil
}

// scoreLocked applies the scoring rules for a popped bubble and queues its
// exit animation and indicator.
func (s *Session) scoreLocked(b Bubble) (int, bool) {
	bonus := s.streak.HasLast && s.streak.Last == b.Tier
	points, next := Score(s.streak, b.Tier)
	s.streak = next
	s.score += points
	s.pops++

	s.popping = append(s.popping, poppingBubble{bubble: b})
	s.indicators = append(s.indicators, indicator{
		pos:    core.Pt(b.Pos.X, b.Pos.Y-b.Radius-indicatorLift),
		points: points,
		bonus:  bonus,
	})
	return points, bonus
}

// FieldSizeChanged records the host viewport in field units. Later ticks
// use the new size; live bubbles are not moved.
func (s *Session) FieldSizeChanged(w, h float64) {
	s.mu.Lock()
	s.size = core.Size{W: w, H: h}
	s.mu.Unlock()
}

// Abort ends the session early. The score is committed exactly as on
// timeout. Aborting an ended session is a no-op.
func (s *Session) Abort() {
	s.mu.Lock()
	ended := s.endLocked(EndAborted)
	s.mu.Unlock()
	if ended {
		s.finish()
	}
}

// endLocked moves the session to Ended. It reports false if it already was.
func (s *Session) endLocked(reason EndReason) bool {
	if s.status == StatusEnded {
		return false
	}
	s.status = StatusEnded
	s.reason = reason
	s.field.Clear()
	s.indicators = nil
	s.popping = nil
	return true
}

// OnEnd registers a function to run when the session ends, before the score
// is committed. If the session has already finished, stop runs immediately.
func (s *Session) OnEnd(stop func()) {
	s.mu.Lock()
	if s.finished {
		s.mu.Unlock()
		stop()
		return
	}
	s.stoppers = append(s.stoppers, stop)
	s.mu.Unlock()
}

// finish stops the triggers, commits the score and publishes the result.
// It runs at most once and never with the lock held.
func (s *Session) finish() {
	s.finishOnce.Do(func() {
		s.mu.Lock()
		s.finished = true
		stoppers := s.stoppers
		s.stoppers = nil
		score := s.score
		pops := s.pops
		reason := s.reason
		highScore := s.highScore
		started := !s.startedAt.IsZero()
		var elapsed time.Duration
		if started {
			elapsed = time.Since(s.startedAt)
		}
		s.mu.Unlock()

		for _, stop := range stoppers {
			stop()
		}

		saved := false
		if s.store != nil {
			if err := s.store.Record(s.player, score); err != nil {
				s.logger.Error("cannot save score", "player", s.player, "score", score, "err", err)
			} else {
				saved = true
			}
		}

		result := Result{
			Player:       s.player,
			Score:        score,
			Pops:         pops,
			Duration:     elapsed,
			Reason:       reason,
			Started:      started,
			Saved:        saved,
			NewHighScore: score > highScore,
		}

		s.mu.Lock()
		s.result = &result
		s.mu.Unlock()

		s.logger.Info("session ended", "player", s.player, "score", score,
			"pops", pops, "reason", reason, "saved", saved)
		s.observer.SessionEnded(result)
		close(s.done)
	})
}

// Done is closed after the score has been committed.
func (s *Session) Done() <-chan struct{} {
	return s.done
}

// Result returns the terminal result. ok is false until Done is closed.
func (s *Session) Result() (Result, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.result == nil {
		return Result{}, false
	}
	return *s.result, true
}

// Status returns the current lifecycle state.
func (s *Session) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

// Score returns the current score.
func (s *Session) Score() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.score
}

// Snapshot returns a read-only copy of the session for presentation.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := Snapshot{
		Status:    s.status,
		Player:    s.player,
		Score:     s.score,
		HighScore: max(s.highScore, s.score),
		Remaining: s.remaining,
		Countdown: s.countdown,
		Width:     s.size.W,
		Height:    s.size.H,
	}
	if s.status == StatusCountingDown {
		snap.Remaining = s.initial.DurationSeconds
	}

	live := s.field.Bubbles()
	snap.Bubbles = make([]BubbleView, 0, len(live))
	for _, b := range live {
		state := StateSteady
		if b.Age < s.tuning.Bubbles.EntranceTicks {
			state = StateEntrance
		}
		snap.Bubbles = append(snap.Bubbles, viewOf(b, state))
	}

	snap.Popping = make([]BubbleView, 0, len(s.popping))
	for _, p := range s.popping {
		snap.Popping = append(snap.Popping, viewOf(p.bubble, StatePopping))
	}

	snap.Indicators = make([]IndicatorView, 0, len(s.indicators))
	for _, ind := range s.indicators {
		opacity := 1.0
		if n := s.tuning.Session.IndicatorTicks; n > 0 {
			opacity = core.ClampF(1-float64(ind.age)/float64(n), 0, 1)
		}
		snap.Indicators = append(snap.Indicators, IndicatorView{
			X:       ind.pos.X,
			Y:       ind.pos.Y,
			Text:    indicatorText(ind.points),
			Bonus:   ind.bonus,
			Opacity: opacity,
		})
	}

	if s.result != nil {
		r := *s.result
		snap.Result = &r
	}
	return snap
}
