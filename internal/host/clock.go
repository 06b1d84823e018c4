package host

import "time"

type Ticker interface {
	C() <-chan time.Time
	// Stop is idempotent.
	Stop()
}

type Clock interface {
	NewTicker(d time.Duration) Ticker
}

type systemClock struct{}

type systemTicker struct {
	*time.Ticker
}

func (t systemTicker) C() <-chan time.Time {
	return t.Ticker.C
}

func (systemClock) NewTicker(d time.Duration) Ticker {
	return systemTicker{time.NewTicker(d)}
}

// SystemClock ticks in real time.
var SystemClock Clock = systemClock{}
