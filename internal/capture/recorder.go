package capture

import (
	"bytes"
	"context"
	"log/slog"
	"sync"

	"github.com/mkarvonen/prepdeck/internal/errors"
)

// ErrDevice marks a media device that could not be opened, typically because
// the user denied camera or microphone permission.
var ErrDevice = errors.NewSentinel("media device unavailable")

// MediaSource abstracts the device stream. Open returns a channel of media
// chunks and a release function; calling release must make the source close
// the chunk channel and free the device.
type MediaSource interface {
	Open(ctx context.Context) (chunks <-chan []byte, release func(), err error)
}

type recorderState int

const (
	recorderIdle recorderState = iota
	recorderRecording
)

// Recorder drains a media source into an in-memory chunk buffer. Starting
// while already recording and stopping while idle are both no-ops.
type Recorder struct {
	mu      sync.Mutex
	logger  *slog.Logger
	state   recorderState
	chunks  [][]byte
	release func()
	drained chan struct{}
}

func NewRecorder(logger *slog.Logger) *Recorder {
	return &Recorder{logger: logger.With("source", "Recorder")}
}

// Start opens the source and begins buffering chunks. Permission failures
// surface as ErrDevice.
func (r *Recorder) Start(ctx context.Context, source MediaSource) error {
	r.mu.Lock()
	if r.state == recorderRecording {
		r.mu.Unlock()
		r.logger.DebugContext(ctx, "recorder already recording")
		return nil
	}
	r.chunks = nil
	r.mu.Unlock()

	// Open may block on a permission prompt, so the lock is not held here.
	chunks, release, err := source.Open(ctx)
	if err != nil {
		return errors.Wrap(errors.Join(ErrDevice, err), "open media source")
	}

	drained := make(chan struct{})
	r.mu.Lock()
	r.state = recorderRecording
	r.release = release
	r.drained = drained
	r.mu.Unlock()

	go func() {
		defer close(drained)
		// Everything the source delivers before it closes the stream belongs
		// to this clip; releasing the source is what ends the stream.
		var buffered [][]byte
		for chunk := range chunks {
			buffered = append(buffered, chunk)
		}
		r.mu.Lock()
		r.chunks = buffered
		r.mu.Unlock()
	}()

	return nil
}

// Stop releases the device and returns the recorded chunks concatenated into
// a single clip. Stopping an idle recorder returns nil.
func (r *Recorder) Stop() []byte {
	r.mu.Lock()
	if r.state != recorderRecording {
		r.mu.Unlock()
		return nil
	}
	r.state = recorderIdle
	release := r.release
	drained := r.drained
	r.release = nil
	r.drained = nil
	r.mu.Unlock()

	// Releasing closes the chunk channel; wait for the drain goroutine so no
	// buffer mutation races with the concatenation below.
	release()
	<-drained

	r.mu.Lock()
	defer r.mu.Unlock()
	return bytes.Join(r.chunks, nil)
}

// Recording reports whether a capture is in progress.
func (r *Recorder) Recording() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state == recorderRecording
}
