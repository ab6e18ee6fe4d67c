package storage

import (
	"io"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/bubble-pop/internal/bubble"
)

// PlayLog saves every ended session to the play history.
// It implements bubble.Observer; events other than SessionEnded are ignored.
type PlayLog struct {
	store  *Store
	logger *log.Logger
}

var _ bubble.Observer = (*PlayLog)(nil)

// NewPlayLog creates a play log writing to store. A nil logger discards.
func NewPlayLog(store *Store, logger *log.Logger) *PlayLog {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &PlayLog{store: store, logger: logger}
}

func (p *PlayLog) SessionStarted(string) {}
func (p *PlayLog) BubblePopped(bubble.Tier, int, bool) {}
func (p *PlayLog) BubblesCulled(int) {}

// SessionEnded appends the result. Failures are logged, never returned.
func (p *PlayLog) SessionEnded(r bubble.Result) {
	_, err := p.store.SavePlay(Play{
		Player:       r.Player,
		Score:        r.Score,
		Pops:         r.Pops,
		EndReason:    string(r.Reason),
		DurationSecs: int(r.Duration.Seconds()),
	})
	if err != nil {
		p.logger.Error("cannot save play", "player", r.Player, "err", err)
	}
}
