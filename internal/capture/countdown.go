package capture

import (
	"sync"
	"time"
)

// Countdown ticks down from a fixed number of units and fires onExpire when
// it reaches zero. Stopping cancels the timer goroutine; a stopped countdown
// never fires again.
type Countdown struct {
	units     int
	interval  time.Duration
	onTick    func(remaining int)
	onExpire  func()
	stop      chan struct{}
	done      chan struct{}
	startOnce sync.Once
	stopOnce  sync.Once
}

// NewCountdown creates a countdown of units ticks, one every interval.
// onTick and onExpire may be nil.
func NewCountdown(units int, interval time.Duration, onTick func(remaining int), onExpire func()) *Countdown {
	return &Countdown{
		units:    units,
		interval: interval,
		onTick:   onTick,
		onExpire: onExpire,
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
}

// Start launches the timer goroutine. Subsequent calls are no-ops.
func (c *Countdown) Start() {
	c.startOnce.Do(func() {
		go c.run()
	})
}

func (c *Countdown) run() {
	defer close(c.done)
	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	remaining := c.units
	for {
		select {
		case <-c.stop:
			return
		case <-ticker.C:
			remaining--
			if c.onTick != nil {
				c.onTick(remaining)
			}
			if remaining <= 0 {
				if c.onExpire != nil {
					c.onExpire()
				}
				return
			}
		}
	}
}

// Stop cancels the countdown. Safe to call multiple times and concurrently
// with expiry; it never blocks.
func (c *Countdown) Stop() {
	c.stopOnce.Do(func() {
		close(c.stop)
	})
}

// Done is closed when the timer goroutine has exited, whether by expiry or
// cancellation.
func (c *Countdown) Done() <-chan struct{} {
	return c.done
}
