package relayclient

import (
	"context"
	"errors"
	"sync"
	"time"
)

// ErrCompletionTimeout is delivered when a login does not finish in time.
var ErrCompletionTimeout = errors.New("relayclient: login did not complete in time")

// CompletionProbe checks whether a pending login has finished.
// It returns (nil, nil) while the login is still in progress.
type CompletionProbe func(ctx context.Context) (*AuthResult, error)

// CompletionEvent is the single outcome of a watched login.
type CompletionEvent struct {
	Result *AuthResult
	Err    error
}

// CompletionWatcher polls a probe until a pending login finishes, the
// timeout elapses, or the watcher is cancelled. Exactly one event is
// delivered on Done.
type CompletionWatcher struct {
	probe    CompletionProbe
	interval time.Duration
	timeout  time.Duration

	once   sync.Once
	cancel chan struct{}
	events chan CompletionEvent
}

// NewCompletionWatcher creates a watcher with the standard one second
// poll interval and five minute timeout.
func NewCompletionWatcher(probe CompletionProbe) *CompletionWatcher {
	return &CompletionWatcher{
		probe:    probe,
		interval: time.Second,
		timeout:  5 * time.Minute,
		cancel:   make(chan struct{}),
		events:   make(chan CompletionEvent, 1),
	}
}

// Start launches the poll loop and returns the event channel.
func (w *CompletionWatcher) Start() <-chan CompletionEvent {
	go w.loop()
	return w.events
}

// Done returns the event channel.
func (w *CompletionWatcher) Done() <-chan CompletionEvent {
	return w.events
}

// Cancel stops the watcher. Safe to call more than once; no event is
// delivered after cancellation unless one was already queued.
func (w *CompletionWatcher) Cancel() {
	w.once.Do(func() {
		close(w.cancel)
	})
}

func (w *CompletionWatcher) loop() {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	deadline := time.NewTimer(w.timeout)
	defer deadline.Stop()

	for {
		select {
		case <-w.cancel:
			return
		case <-deadline.C:
			w.deliver(CompletionEvent{Err: ErrCompletionTimeout})
			return
		case <-ticker.C:
			ctx, cancel := context.WithTimeout(context.Background(), w.interval)
			result, err := w.probe(ctx)
			cancel()

			if err != nil {
				w.deliver(CompletionEvent{Err: err})
				return
			}
			if result != nil {
				w.deliver(CompletionEvent{Result: result})
				return
			}
		}
	}
}

func (w *CompletionWatcher) deliver(ev CompletionEvent) {
	select {
	case w.events <- ev:
	default:
	}
}
