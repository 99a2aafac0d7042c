package relayclient

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"
)

func TestCompletionWatcher_DeliversResult(t *testing.T) {
	var calls atomic.Int32
	watcher := NewCompletionWatcher(func(ctx context.Context) (*AuthResult, error) {
		if calls.Add(1) < 3 {
			return nil, nil
		}
		return &AuthResult{Token: "done"}, nil
	})
	watcher.interval = 5 * time.Millisecond

	select {
	case ev := <-watcher.Start():
		if ev.Err != nil {
			t.Fatalf("unexpected error: %v", ev.Err)
		}
		if ev.Result.Token != "done" {
			t.Errorf("token = %q", ev.Result.Token)
		}
	case <-time.After(time.Second):
		t.Fatal("no event delivered")
	}

	if calls.Load() != 3 {
		t.Errorf("probe calls = %d, want 3", calls.Load())
	}
}

func TestCompletionWatcher_Timeout(t *testing.T) {
	watcher := NewCompletionWatcher(func(ctx context.Context) (*AuthResult, error) {
		return nil, nil
	})
	watcher.interval = 5 * time.Millisecond
	watcher.timeout = 20 * time.Millisecond

	select {
	case ev := <-watcher.Start():
		if !errors.Is(ev.Err, ErrCompletionTimeout) {
			t.Fatalf("err = %v", ev.Err)
		}
	case <-time.After(time.Second):
		t.Fatal("no event delivered")
	}
}

func TestCompletionWatcher_ProbeError(t *testing.T) {
	probeErr := errors.New("boom")
	watcher := NewCompletionWatcher(func(ctx context.Context) (*AuthResult, error) {
		return nil, probeErr
	})
	watcher.interval = 5 * time.Millisecond

	ev := <-watcher.Start()
	if !errors.Is(ev.Err, probeErr) {
		t.Fatalf("err = %v", ev.Err)
	}
}

func TestCompletionWatcher_CancelIsIdempotent(t *testing.T) {
	watcher := NewCompletionWatcher(func(ctx context.Context) (*AuthResult, error) {
		return nil, nil
	})
	watcher.interval = 5 * time.Millisecond
	watcher.Start()

	watcher.Cancel()
	watcher.Cancel()

	select {
	case ev := <-watcher.Done():
		t.Fatalf("unexpected event after cancel: %+v", ev)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestMonitor_GoesOfflineAfterThreeFailures(t *testing.T) {
	var transitions atomic.Int32
	client := NewClient("http://127.0.0.1:0", "")
	monitor := NewMonitor(client, 5*time.Millisecond, func(online bool) {
		transitions.Add(1)
	})

	monitor.Start()
	defer monitor.Stop()

	deadline := time.Now().Add(2 * time.Second)
	for monitor.Online() && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}

	if monitor.Online() {
		t.Fatal("monitor still online against unreachable server")
	}
	if transitions.Load() == 0 {
		t.Error("no transition callback fired")
	}
}
