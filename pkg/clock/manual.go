package clock

import (
	"sort"
	"sync"
	"time"
)

// Manual is a Clock whose time only moves when Advance is called.
// Due callbacks run synchronously inside Advance, in schedule order,
// which makes frame-by-frame animation tests deterministic.
type Manual struct {
	mu     sync.Mutex
	now    time.Time
	seq    int
	timers []*manualTimer
}

type manualTimer struct {
	clock   *Manual
	at      time.Time
	seq     int
	fn      func()
	stopped bool
	fired   bool
}

func NewManual(start time.Time) *Manual {
	return &Manual{now: start}
}

func (m *Manual) Now() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.now
}

func (m *Manual) AfterFunc(d time.Duration, fn func()) Timer {
	m.mu.Lock()
	defer m.mu.Unlock()

	t := &manualTimer{
		clock: m,
		at:    m.now.Add(d),
		seq:   m.seq,
		fn:    fn,
	}
	m.seq++
	m.timers = append(m.timers, t)
	return t
}

// Advance moves the clock forward by d and fires every timer that becomes
// due, earliest first. A callback may schedule new timers; those fire too
// if they fall inside the advanced window.
func (m *Manual) Advance(d time.Duration) {
	m.mu.Lock()
	deadline := m.now.Add(d)
	m.mu.Unlock()

	for {
		t := m.nextDue(deadline)
		if t == nil {
			break
		}
		m.mu.Lock()
		if m.now.Before(t.at) {
			m.now = t.at
		}
		t.fired = true
		m.mu.Unlock()
		t.fn()
	}

	m.mu.Lock()
	m.now = deadline
	m.mu.Unlock()
}

func (m *Manual) nextDue(deadline time.Time) *manualTimer {
	m.mu.Lock()
	defer m.mu.Unlock()

	pending := make([]*manualTimer, 0, len(m.timers))
	for _, t := range m.timers {
		if !t.stopped && !t.fired && !t.at.After(deadline) {
			pending = append(pending, t)
		}
	}
	if len(pending) == 0 {
		return nil
	}
	sort.Slice(pending, func(i, j int) bool {
		if pending[i].at.Equal(pending[j].at) {
			return pending[i].seq < pending[j].seq
		}
		return pending[i].at.Before(pending[j].at)
	})
	return pending[0]
}

func (t *manualTimer) Stop() bool {
	t.clock.mu.Lock()
	defer t.clock.mu.Unlock()

	if t.stopped || t.fired {
		return false
	}
	t.stopped = true
	return true
}
