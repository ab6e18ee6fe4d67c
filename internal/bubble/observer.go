package bubble

// Observer receives session events. Implementations must be safe for
// concurrent use; events are delivered outside the session lock.
type Observer interface {
	SessionStarted(player string)
	BubblePopped(tier Tier, points int, bonus bool)
	BubblesCulled(n int)
	SessionEnded(r Result)
}

type nopObserver struct{}

func (nopObserver) SessionStarted(string) {}
func (nopObserver) BubblePopped(Tier, int, bool) {}
func (nopObserver) BubblesCulled(int) {}
func (nopObserver) SessionEnded(Result) {}

// Observers fans events out to every non-nil observer in order.
func Observers(obs ...Observer) Observer {
	var list multiObserver
	for _, o := range obs {
		if o != nil {
			list = append(list, o)
		}
	}
	if len(list) == 0 {
		return nopObserver{}
	}
	return list
}

type multiObserver []Observer

func (m multiObserver) SessionStarted(player string) {
	for _, o := range m {
		o.SessionStarted(player)
	}
}

func (m multiObserver) BubblePopped(tier Tier, points int, bonus bool) {
	for _, o := range m {
		o.BubblePopped(tier, points, bonus)
	}
}

func (m multiObserver) BubblesCulled(n int) {
	for _, o := range m {
		o.BubblesCulled(n)
	}
}

func (m multiObserver) SessionEnded(r Result) {
	for _, o := range m {
		o.SessionEnded(r)
	}
}
