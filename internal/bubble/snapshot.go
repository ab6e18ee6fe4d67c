package bubble

import (
	"fmt"
	"time"
)

// Status is the session's lifecycle state.
type Status int

const (
	StatusCountingDown Status = iota
	StatusRunning
	StatusEnded
)

func (s Status) String() string {
	switch s {
	case StatusCountingDown:
		return "counting_down"
	case StatusRunning:
		return "running"
	case StatusEnded:
		return "ended"
	default:
		return "unknown"
	}
}

// MarshalText encodes the status by name.
func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText decodes a status name.
func (s *Status) UnmarshalText(text []byte) error {
	for _, v := range []Status{StatusCountingDown, StatusRunning, StatusEnded} {
		if v.String() == string(text) {
			*s = v
			return nil
		}
	}
	return fmt.Errorf("bubble: unknown status %q", text)
}

// MarshalText encodes the tier by color name.
func (t Tier) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// UnmarshalText decodes a color name.
func (t *Tier) UnmarshalText(text []byte) error {
	for _, v := range Tiers {
		if v.String() == string(text) {
			*t = v
			return nil
		}
	}
	return fmt.Errorf("bubble: unknown tier %q", text)
}

// EndReason tells why a session ended.
type EndReason string

const (
	EndTimeout EndReason = "timeout"
	EndAborted EndReason = "aborted"
)

// BubbleState is the presentation phase of a bubble.
type BubbleState string

const (
	StateEntrance BubbleState = "entrance"
	StateSteady   BubbleState = "steady"
	StatePopping  BubbleState = "popping"
)

// Result is the terminal outcome of a session.
type Result struct {
	Player       string        `json:"player"`
	Score        int           `json:"score"`
	Pops         int           `json:"pops"`
	Duration     time.Duration `json:"duration"`
	Reason       EndReason     `json:"reason"`
	Started      bool          `json:"started"` // False when aborted during the countdown
	Saved        bool          `json:"saved"`   // False when the score store rejected the record
	NewHighScore bool          `json:"new_high_score"`
}

// BubbleView is a read-only copy of a bubble for presentation.
type BubbleView struct {
	ID     string      `json:"id"`
	X      float64     `json:"x"`
	Y      float64     `json:"y"`
	Radius float64     `json:"radius"`
	Tier   Tier        `json:"tier"`
	Points int         `json:"points"`
	State  BubbleState `json:"state"`
}

// IndicatorView is a floating "+N" label shown after a pop.
type IndicatorView struct {
	X       float64 `json:"x"`
	Y       float64 `json:"y"`
	Text    string  `json:"text"`
	Bonus   bool    `json:"bonus"`
	Opacity float64 `json:"opacity"` // 1 when spawned, fading to 0
}

// Snapshot is a consistent copy of session state. Hosts render it and
// never mutate the session through it.
type Snapshot struct {
	Status     Status          `json:"status"`
	Player     string          `json:"player"`
	Score      int             `json:"score"`
	HighScore  int             `json:"high_score"`
	Remaining  int             `json:"remaining"`
	Countdown  int             `json:"countdown"`
	Width      float64         `json:"width"`
	Height     float64         `json:"height"`
	Bubbles    []BubbleView    `json:"bubbles"`
	Popping    []BubbleView    `json:"popping"`
	Indicators []IndicatorView `json:"indicators"`
	Result     *Result         `json:"result,omitempty"` // Set once the score is committed
}

func viewOf(b Bubble, state BubbleState) BubbleView {
	return BubbleView{
		ID:     b.ID,
		X:      b.Pos.X,
		Y:      b.Pos.Y,
		Radius: b.Radius,
		Tier:   b.Tier,
		Points: b.Points(),
		State:  state,
	}
}

func indicatorText(points int) string {
	return fmt.Sprintf("+%d", points)
}
