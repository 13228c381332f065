package services

import (
	"sync"
	"time"

	"launchpad/internal/greeting"
	"launchpad/internal/infrastructure/logging"
	"launchpad/internal/types"
)

const (
	DateLayout = "Monday, 02 January 2006"
	TimeLayout = "03:04:05 PM"
)

// FormatTick renders the date, 12-hour time and salutation for t
func FormatTick(t time.Time) types.ClockTick {
	return types.ClockTick{
		Date:     t.Format(DateLayout),
		Time:     t.Format(TimeLayout),
		Greeting: greeting.For(t.Hour()),
	}
}

// Clock emits a ClockTick once per interval until stopped
type Clock struct {
	mu       sync.Mutex
	interval time.Duration
	now      func() time.Time
	onTick   func(types.ClockTick)
	stop     chan struct{}
	done     chan struct{}
	logger   logging.Logger
}

// NewClock creates a one-second clock that calls onTick from its own goroutine
func NewClock(onTick func(types.ClockTick), logger logging.Logger) *Clock {
	if logger == nil {
		logger = logging.NewDefaultLogger()
	}
	return &Clock{
		interval: time.Second,
		now:      time.Now,
		onTick:   onTick,
		logger:   logger,
	}
}

// Now formats the current instant
func (c *Clock) Now() types.ClockTick {
	return FormatTick(c.now())
}

// Start begins ticking; the first tick fires immediately. Calling Start on a running clock does nothing.
func (c *Clock) Start() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.stop != nil {
		return
	}
	c.stop = make(chan struct{})
	c.done = make(chan struct{})
	go c.loop(c.stop, c.done)

	c.logger.Debug("Clock started", "interval", c.interval.String())
}

// Stop halts the clock and waits for the loop to exit. It is safe to call repeatedly.
func (c *Clock) Stop() {
	c.mu.Lock()
	stop, done := c.stop, c.done
	c.stop, c.done = nil, nil
	c.mu.Unlock()

	if stop == nil {
		return
	}
	close(stop)
	<-done

	c.logger.Debug("Clock stopped")
}

// Running reports whether the loop is active
func (c *Clock) Running() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stop != nil
}

func (c *Clock) loop(stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)

	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	c.emit()
	for {
		select {
		case <-ticker.C:
			c.emit()
		case <-stop:
			return
		}
	}
}

func (c *Clock) emit() {
	if c.onTick != nil {
		c.onTick(c.Now())
	}
}
