package bubble

import (
	"context"
	"time"
)

// Runner wires a session to a scheduler: a one-second trigger for the game
// clock and a faster one for drift.
type Runner struct {
	session *Session
	sched   Scheduler
	second  time.Duration
	drift   time.Duration
}

// NewRunner creates a runner using the session's tuned cadences.
func NewRunner(session *Session, sched Scheduler) *Runner {
	if sched == nil {
		sched = TickerScheduler{}
	}
	return &Runner{
		session: session,
		sched:   sched,
		second:  session.tuning.Motion.SecondInterval(),
		drift:   session.tuning.Motion.DriftInterval(),
	}
}

// Session returns the driven session.
func (r *Runner) Session() *Session {
	return r.session
}

// Start registers both triggers and returns immediately. The triggers are
// stopped when the session ends. Cancelling ctx aborts the session.
func (r *Runner) Start(ctx context.Context) {
	s := r.session
	s.OnEnd(r.sched.Every(r.second, s.SecondTick))
	s.OnEnd(r.sched.Every(r.drift, s.DriftTick))

	go func() {
		select {
		case <-ctx.Done():
			s.Abort()
		case <-s.Done():
		}
	}()
}

// Run starts the session and blocks until its score is committed.
func (r *Runner) Run(ctx context.Context) Result {
	r.Start(ctx)
	<-r.session.Done()
	res, _ := r.session.Result()
	return res
}
