package capture

import (
	"bufio"
	"io"
	"sync"

	"github.com/mkarvonen/prepdeck/internal/errors"
)

// ErrSpeechUnsupported signals that no speech recognition backend is
// available. Capture treats this as a degraded mode, not a failure.
var ErrSpeechUnsupported = errors.NewSentinel("speech recognition not supported")

// Fragment is one piece of transcribed speech. Only final fragments become
// part of the answer text; interim results are suppressed.
type Fragment struct {
	Text  string
	Final bool
}

// Transcriber is a cancellable speech recognition stream. Implementations
// must tolerate Start while running (treat as already running) and Stop while
// stopped (no-op). Subscribe registers a fragment callback and returns its
// unsubscribe function; after unsubscribing no further callbacks arrive.
type Transcriber interface {
	Start() error
	Stop()
	Subscribe(onFragment func(Fragment)) (unsubscribe func())
}

// ReaderTranscriber turns lines read from an io.Reader into final fragments.
// It backs the text-mode rehearsal loop in the CLI and doubles as a reference
// Transcriber implementation.
type ReaderTranscriber struct {
	mu          sync.Mutex
	reader      io.Reader
	running     bool
	stop        chan struct{}
	done        chan struct{}
	doneOnce    sync.Once
	subscribers map[int]func(Fragment)
	nextID      int
}

func NewReaderTranscriber(reader io.Reader) *ReaderTranscriber {
	return &ReaderTranscriber{
		reader:      reader,
		done:        make(chan struct{}),
		subscribers: map[int]func(Fragment){},
	}
}

// Done returns a channel that closes when the underlying reader is exhausted.
func (t *ReaderTranscriber) Done() <-chan struct{} {
	return t.done
}

// Start begins reading lines and emitting them as final fragments. A second
// Start while running is treated as already running.
func (t *ReaderTranscriber) Start() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.running {
		return nil
	}
	t.running = true
	t.stop = make(chan struct{})

	scanner := bufio.NewScanner(t.reader)
	stop := t.stop
	go func() {
		defer t.doneOnce.Do(func() { close(t.done) })
		for scanner.Scan() {
			select {
			case <-stop:
				return
			default:
			}
			t.emit(Fragment{Text: scanner.Text(), Final: true})
		}
	}()
	return nil
}

// Stop halts fragment emission. Stopping twice is a no-op.
func (t *ReaderTranscriber) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.running {
		return
	}
	t.running = false
	close(t.stop)
}

// Subscribe registers a fragment callback.
func (t *ReaderTranscriber) Subscribe(onFragment func(Fragment)) func() {
	t.mu.Lock()
	defer t.mu.Unlock()
	id := t.nextID
	t.nextID++
	t.subscribers[id] = onFragment
	return func() {
		t.mu.Lock()
		defer t.mu.Unlock()
		delete(t.subscribers, id)
	}
}

func (t *ReaderTranscriber) emit(fragment Fragment) {
	t.mu.Lock()
	callbacks := make([]func(Fragment), 0, len(t.subscribers))
	for _, callback := range t.subscribers {
		callbacks = append(callbacks, callback)
	}
	t.mu.Unlock()
	for _, callback := range callbacks {
		callback(fragment)
	}
}
