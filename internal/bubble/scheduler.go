package bubble

import (
	"sync"
	"time"
)

// Scheduler runs a callback periodically. Every returns a function that
// stops the trigger; calling it more than once is safe and it must not
// block waiting for an in-flight callback.
type Scheduler interface {
	Every(interval time.Duration, fn func()) (stop func())
}

// TickerScheduler drives each trigger from its own time.Ticker goroutine.
type TickerScheduler struct{}

// Every starts a goroutine calling fn on every tick until stopped.
func (TickerScheduler) Every(interval time.Duration, fn func()) func() {
	ticker := time.NewTicker(interval)
	quit := make(chan struct{})

	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-quit:
				return
			case <-ticker.C:
				// A stop racing with a tick wins
				select {
				case <-quit:
					return
				default:
				}
				fn()
			}
		}
	}()

	var once sync.Once
	return func() {
		once.Do(func() { close(quit) })
	}
}
