// Package capture coordinates the countdown timer, the media recorder, and
// the speech transcriber that together produce one answer to one interview
// question.
package capture

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/mkarvonen/prepdeck/internal/errors"
)

// DefaultUnits is the answer time budget in countdown ticks.
const DefaultUnits = 30

// Config wires a Capture. Source and Transcriber are both optional: without
// a source the capture is audio/text only, without a transcriber it degrades
// to a transcript-less recording.
type Config struct {
	// Units is the countdown length in ticks; 0 means DefaultUnits.
	Units int
	// Interval is the tick length; 0 means one second.
	Interval time.Duration
	// Source is the media device stream for video mode.
	Source MediaSource
	// Transcriber supplies speech fragments.
	Transcriber Transcriber
	// OnTick is called with the remaining units after every tick.
	OnTick func(remaining int)
	// OnStop is called exactly once per cycle when capture stops; auto is
	// true when the countdown expired rather than the user stopping.
	OnStop func(auto bool)
	Logger *slog.Logger
}

// Capture runs the per-question answer cycle: Start resets the transcript
// and chunk buffer and kicks off all three mechanisms; Stop (or countdown
// expiry, whichever comes first) freezes the transcript and clip for reading.
// A Capture is reused across questions; only one cycle is active at a time.
type Capture struct {
	mu  sync.Mutex
	cfg Config

	recorder     *Recorder
	countdown    *Countdown
	unsubscribe  func()
	transcribing bool
	active       bool
	fragments    []string
	clip         []byte
}

func New(cfg Config) *Capture {
	if cfg.Units <= 0 {
		cfg.Units = DefaultUnits
	}
	if cfg.Interval <= 0 {
		cfg.Interval = time.Second
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	cfg.Logger = cfg.Logger.With("source", "Capture")
	return &Capture{
		cfg:      cfg,
		recorder: NewRecorder(cfg.Logger),
	}
}

// Start begins a capture cycle and returns immediately; the countdown,
// recorder, and transcriber all run in the background. Starting while a
// cycle is already active is tolerated and logged. A device failure aborts
// the start with ErrDevice and leaves the capture inactive so the user can
// retry.
func (c *Capture) Start(ctx context.Context) error {
	c.mu.Lock()
	if c.active {
		c.mu.Unlock()
		c.cfg.Logger.DebugContext(ctx, "capture already running")
		return nil
	}
	c.fragments = nil
	c.clip = nil
	c.mu.Unlock()

	var unsubscribe func()
	transcribing := false
	if c.cfg.Transcriber != nil {
		unsubscribe = c.cfg.Transcriber.Subscribe(c.onFragment)
		if err := c.cfg.Transcriber.Start(); err != nil {
			unsubscribe()
			unsubscribe = nil
			if !errors.Is(err, ErrSpeechUnsupported) {
				return err
			}
			// No speech support: continue without a transcript.
			c.cfg.Logger.WarnContext(ctx, "speech recognition unavailable, capturing without transcript")
		} else {
			transcribing = true
		}
	}

	if c.cfg.Source != nil {
		if err := c.recorder.Start(ctx, c.cfg.Source); err != nil {
			if unsubscribe != nil {
				unsubscribe()
			}
			if transcribing {
				c.cfg.Transcriber.Stop()
			}
			return err
		}
	}

	countdown := NewCountdown(c.cfg.Units, c.cfg.Interval, c.cfg.OnTick, func() {
		c.halt(true)
	})

	c.mu.Lock()
	c.active = true
	c.countdown = countdown
	c.unsubscribe = unsubscribe
	c.transcribing = transcribing
	c.mu.Unlock()

	countdown.Start()
	return nil
}

// Stop ends the active cycle. The transcript and clip stay readable until the
// next Start. Stopping twice, or stopping after the countdown already fired,
// is a no-op.
func (c *Capture) Stop() {
	c.halt(false)
}

// halt is the single stop path; the countdown expiry and a manual stop race
// here and the first one wins.
func (c *Capture) halt(auto bool) {
	c.mu.Lock()
	if !c.active {
		c.mu.Unlock()
		return
	}
	c.active = false
	countdown := c.countdown
	unsubscribe := c.unsubscribe
	transcribing := c.transcribing
	c.countdown = nil
	c.unsubscribe = nil
	c.transcribing = false
	c.mu.Unlock()

	countdown.Stop()
	if unsubscribe != nil {
		unsubscribe()
	}
	if transcribing {
		c.cfg.Transcriber.Stop()
	}
	clip := c.recorder.Stop()

	c.mu.Lock()
	c.clip = clip
	c.mu.Unlock()

	if c.cfg.OnStop != nil {
		c.cfg.OnStop(auto)
	}
}

// onFragment appends finalized fragments that arrive before the effective
// stop instant; anything later is discarded.
func (c *Capture) onFragment(fragment Fragment) {
	if !fragment.Final {
		return
	}
	text := strings.TrimSpace(fragment.Text)
	if text == "" {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.active {
		return
	}
	c.fragments = append(c.fragments, text)
}

// Transcript returns the accumulated answer text: the fragments received
// before stop, in arrival order, single-spaced.
func (c *Capture) Transcript() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return strings.Join(c.fragments, " ")
}

// Clip returns the recorded media, nil when no source was configured or the
// cycle is still running.
func (c *Capture) Clip() []byte {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.clip
}

// Active reports whether a capture cycle is running.
func (c *Capture) Active() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.active
}

