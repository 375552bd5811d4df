package clock

import "time"

// Clock provides time operations that can be mocked for testing
type Clock interface {
	// Now returns the current time
	Now() time.Time

	// NewTicker returns a ticker firing every d. The tick scheduler drives
	// its loop off this so tests can fire ticks deterministically.
	NewTicker(d time.Duration) Ticker
}

// Ticker is a stoppable tick source handed out by a Clock
type Ticker interface {
	// Chan returns the channel ticks are delivered on
	Chan() <-chan time.Time

	// Stop shuts the ticker down. It does not close the channel.
	Stop()
}

// RealClock implements Clock using the system clock
type RealClock struct{}

// New creates a new RealClock
func New() *RealClock {
	return &RealClock{}
}

// Now returns the current time
func (c *RealClock) Now() time.Time {
	return time.Now()
}

// NewTicker returns a ticker backed by time.NewTicker
func (c *RealClock) NewTicker(d time.Duration) Ticker {
	return &realTicker{ticker: time.NewTicker(d)}
}

type realTicker struct {
	ticker *time.Ticker
}

func (t *realTicker) Chan() <-chan time.Time {
	return t.ticker.C
}

func (t *realTicker) Stop() {
	t.ticker.Stop()
}
