package tracking

import (
	"math"
	"testing"

	"github.com/lifeline-ops/ambutrack/pkg/geo"
)

func TestBearingDefaultsNorth(t *testing.T) {
	b := NewBearingTracker()
	if b.Bearing() != 0 {
		t.Fatal("initial bearing must be 0 (north)")
	}
	if got := b.Update(geo.NewCoordinate(0, 0)); got != 0 {
		t.Fatalf("first target must keep the default bearing, got %v", got)
	}
}

func TestBearingFollowsMovement(t *testing.T) {
	b := NewBearingTracker()
	b.Update(geo.NewCoordinate(0, 0))

	got := b.Update(geo.NewCoordinate(0, 0.001))
	if math.Abs(got-90.0) > 1e-6 {
		t.Fatalf("bearing = %v, want 90 (due east)", got)
	}

	got = b.Update(geo.NewCoordinate(0.001, 0.001))
	if math.Abs(got-0.0) > 1e-3 {
		t.Fatalf("bearing = %v, want ~0 (due north)", got)
	}
}

func TestBearingHeldWhenStationary(t *testing.T) {
	b := NewBearingTracker()
	b.Update(geo.NewCoordinate(0, 0))
	b.Update(geo.NewCoordinate(0, 0.001)) // heading east

	// sub-epsilon wiggle while stopped must not flick the marker
	got := b.Update(geo.NewCoordinate(0, 0.001+1e-9))
	if math.Abs(got-90.0) > 1e-6 {
		t.Fatalf("stationary update changed bearing to %v, want 90 held", got)
	}
}
