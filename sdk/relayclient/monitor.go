package relayclient

import (
	"context"
	"sync"
	"time"
)

const offlineThreshold = 3

// Monitor polls the server's health endpoint and tracks availability.
// The server is reported offline after three consecutive failed probes,
// and back online after a single success.
type Monitor struct {
	client   *Client
	interval time.Duration

	mu       sync.Mutex
	failures int
	online   bool
	onChange func(online bool)

	stopOnce sync.Once
	stop     chan struct{}
	done     chan struct{}
}

// NewMonitor creates a health monitor. The callback may be nil; it is
// invoked on every availability transition.
func NewMonitor(client *Client, interval time.Duration, onChange func(online bool)) *Monitor {
	if interval <= 0 {
		interval = 30 * time.Second
	}
	return &Monitor{
		client:   client,
		interval: interval,
		online:   true,
		onChange: onChange,
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
}

// Start launches the probe loop. It returns immediately.
func (m *Monitor) Start() {
	go m.loop()
}

// Stop halts the probe loop and waits for it to exit. Safe to call
// more than once.
func (m *Monitor) Stop() {
	m.stopOnce.Do(func() {
		close(m.stop)
	})
	<-m.done
}

// Online reports the last known availability.
func (m *Monitor) Online() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.online
}

func (m *Monitor) loop() {
	defer close(m.done)

	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	for {
		select {
		case <-m.stop:
			return
		case <-ticker.C:
			m.probe()
		}
	}
}

func (m *Monitor) probe() {
	ctx, cancel := context.WithTimeout(context.Background(), m.interval)
	defer cancel()

	err := m.client.Health(ctx)

	m.mu.Lock()
	wasOnline := m.online
	if err != nil {
		m.failures++
		if m.failures >= offlineThreshold {
			m.online = false
		}
	} else {
		m.failures = 0
		m.online = true
	}
	nowOnline := m.online
	callback := m.onChange
	m.mu.Unlock()

	if callback != nil && wasOnline != nowOnline {
		callback(nowOnline)
	}
}
