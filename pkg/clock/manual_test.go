package clock

import (
	"testing"
	"time"
)

func TestManualAdvanceFiresDueTimers(t *testing.T) {
	m := NewManual(time.Unix(0, 0))

	fired := []string{}
	m.AfterFunc(10*time.Millisecond, func() { fired = append(fired, "a") })
	m.AfterFunc(30*time.Millisecond, func() { fired = append(fired, "b") })

	m.Advance(15 * time.Millisecond)
	if len(fired) != 1 || fired[0] != "a" {
		t.Fatalf("after 15ms fired = %v, want [a]", fired)
	}

	m.Advance(20 * time.Millisecond)
	if len(fired) != 2 || fired[1] != "b" {
		t.Fatalf("after 35ms fired = %v, want [a b]", fired)
	}
}

func TestManualRescheduleFromCallback(t *testing.T) {
	m := NewManual(time.Unix(0, 0))

	var ticks int
	var tick func()
	tick = func() {
		ticks++
		if ticks < 5 {
			m.AfterFunc(10*time.Millisecond, tick)
		}
	}
	m.AfterFunc(10*time.Millisecond, tick)

	m.Advance(50 * time.Millisecond)
	if ticks != 5 {
		t.Fatalf("ticks = %d, want 5 (self-rescheduling chain)", ticks)
	}
}

func TestManualStop(t *testing.T) {
	m := NewManual(time.Unix(0, 0))

	fired := false
	timer := m.AfterFunc(10*time.Millisecond, func() { fired = true })

	if !timer.Stop() {
		t.Fatal("Stop on a pending timer must report true")
	}
	if timer.Stop() {
		t.Fatal("second Stop must report false")
	}

	m.Advance(time.Second)
	if fired {
		t.Fatal("stopped timer must not fire")
	}
}

func TestManualNow(t *testing.T) {
	start := time.Unix(100, 0)
	m := NewManual(start)

	m.Advance(2 * time.Second)
	if got := m.Now(); !got.Equal(start.Add(2 * time.Second)) {
		t.Fatalf("Now = %v, want %v", got, start.Add(2*time.Second))
	}
}
