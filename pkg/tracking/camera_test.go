package tracking

import (
	"testing"
	"time"
)

func TestCameraThrottlerFirstCallMoves(t *testing.T) {
	c := NewCameraThrottler(2 * time.Second)
	if !c.ShouldMoveCamera(time.Unix(0, 0)) {
		t.Fatal("first call must move the camera")
	}
}

func TestCameraThrottlerInterval(t *testing.T) {
	c := NewCameraThrottler(2 * time.Second)
	start := time.Unix(0, 0)

	c.ShouldMoveCamera(start)
	if c.ShouldMoveCamera(start.Add(500 * time.Millisecond)) {
		t.Fatal("call inside the throttle interval must not move the camera")
	}
	if c.ShouldMoveCamera(start.Add(1999 * time.Millisecond)) {
		t.Fatal("call just inside the interval must not move the camera")
	}
	if !c.ShouldMoveCamera(start.Add(2 * time.Second)) {
		t.Fatal("call at exactly the interval must move the camera")
	}
}

func TestCameraThrottlerUpperBound(t *testing.T) {
	// over T seconds of continuous fixes, at most floor(T/interval)+1 moves
	c := NewCameraThrottler(2 * time.Second)
	start := time.Unix(0, 0)

	moves := 0
	// ~8 Hz for 10 seconds
	for i := 0; i <= 80; i++ {
		if c.ShouldMoveCamera(start.Add(time.Duration(i) * 125 * time.Millisecond)) {
			moves++
		}
	}
	if max := 10/2 + 1; moves > max {
		t.Fatalf("camera moved %d times over 10s, want at most %d", moves, max)
	}
	if moves == 0 {
		t.Fatal("camera never moved")
	}
}
