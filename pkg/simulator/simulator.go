// Package simulator plays a waypoint route back as a stream of GPS fixes,
// standing in for a live device feed during demos and tests.
package simulator

import (
	"sync"
	"time"

	"github.com/lifeline-ops/ambutrack/pkg/clock"
	"github.com/lifeline-ops/ambutrack/pkg/geo"
	"github.com/lifeline-ops/ambutrack/pkg/util"
	"go.uber.org/zap"
)

const (
	defaultSpeedKmh     = 40.0
	defaultStepInterval = 125 * time.Millisecond

	// arrivalRadiusMeters ends a non-looping run once the vehicle is
	// within this distance of the final waypoint.
	arrivalRadiusMeters = 100.0
)

// Sink receives each simulated fix, typically
// (*tracking.Controller).UpdatePosition.
type Sink func(geo.Coordinate)

type Options struct {
	SpeedKmh     float64
	StepInterval time.Duration
	// Loop wraps from the last waypoint back to the first instead of
	// stopping on arrival.
	Loop bool
	// OnArrive runs once when a non-looping run reaches its destination.
	OnArrive func()
}

func (o Options) withDefaults() Options {
	if o.SpeedKmh <= 0 {
		o.SpeedKmh = defaultSpeedKmh
	}
	if o.StepInterval <= 0 {
		o.StepInterval = defaultStepInterval
	}
	return o
}

// State is a point-in-time snapshot of a simulation run.
type State struct {
	Position         geo.Coordinate `json:"position"`
	SpeedKmh         float64        `json:"speed_kmh"`
	RouteIndex       int            `json:"route_index"`
	Running          bool           `json:"is_running"`
	DistanceTraveled float64        `json:"distance_traveled_meters"`
}

// Simulator advances a vehicle along a route at a fixed speed, emitting a
// fix every step interval. Position within a segment is spherically
// interpolated, so long segments still produce smooth tracks.
type Simulator struct {
	mu  sync.Mutex
	log *zap.Logger
	clk clock.Clock

	route []geo.Coordinate
	opts  Options

	idx              int
	segmentProgress  float64 // meters advanced into the current segment
	distanceTraveled float64
	position         geo.Coordinate

	running bool
	timer   clock.Timer
	sink    Sink
}

func New(route []geo.Coordinate, opts Options, clk clock.Clock, log *zap.Logger) (*Simulator, error) {
	if len(route) < 2 {
		return nil, util.WrapErrorf(nil, util.ErrBadParamInput,
			"route needs at least 2 waypoints, got %d", len(route))
	}
	var totalLength float64
	for i, wp := range route {
		if !wp.Valid() {
			return nil, util.WrapErrorf(nil, util.ErrBadParamInput,
				"route waypoint %d out of range: %v", i, wp)
		}
		if i > 0 {
			totalLength += geo.HaversineDistance(route[i-1], wp)
		}
	}
	if totalLength <= 0 {
		return nil, util.WrapErrorf(nil, util.ErrBadParamInput, "route has zero length")
	}

	return &Simulator{
		log:      log,
		clk:      clk,
		route:    route,
		opts:     opts.withDefaults(),
		position: route[0],
	}, nil
}

// Start begins emitting fixes into sink, starting at the first waypoint
// immediately. Starting an already running simulator is a conflict.
func (s *Simulator) Start(sink Sink) error {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return util.WrapErrorf(nil, util.ErrConflict, "simulation already running")
	}

	s.running = true
	s.sink = sink
	s.idx = 0
	s.segmentProgress = 0
	s.distanceTraveled = 0
	s.position = s.route[0]
	s.timer = s.clk.AfterFunc(s.opts.StepInterval, s.tick)
	s.mu.Unlock()

	s.log.Info("route simulation started",
		zap.Int("waypoints", len(s.route)),
		zap.Float64("speed_kmh", s.opts.SpeedKmh),
		zap.Duration("step", s.opts.StepInterval))

	sink(s.route[0])
	return nil
}

// Stop halts the run. Safe to call repeatedly; a tick that already fired
// observes the stopped flag and does nothing.
func (s *Simulator) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopLocked()
}

func (s *Simulator) stopLocked() {
	if !s.running {
		return
	}
	s.running = false
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
}

func (s *Simulator) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

func (s *Simulator) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	speed := s.opts.SpeedKmh
	if !s.running {
		speed = 0
	}
	return State{
		Position:         s.position,
		SpeedKmh:         speed,
		RouteIndex:       s.idx,
		Running:          s.running,
		DistanceTraveled: s.distanceTraveled,
	}
}

func (s *Simulator) tick() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}

	stepMeters := util.KmhToMeterPerSecond(s.opts.SpeedKmh) * s.opts.StepInterval.Seconds()
	s.distanceTraveled += stepMeters
	s.segmentProgress += stepMeters

	pos, arrived := s.advanceLocked()
	s.position = pos

	var onArrive func()
	if arrived {
		s.stopLocked()
		onArrive = s.opts.OnArrive
	} else {
		s.timer = s.clk.AfterFunc(s.opts.StepInterval, s.tick)
	}
	sink := s.sink
	s.mu.Unlock()

	sink(pos)
	if arrived {
		s.log.Info("route simulation arrived at destination",
			zap.Float64("distance_traveled_meters", s.distanceTraveled))
		if onArrive != nil {
			onArrive()
		}
	}
}

// advanceLocked consumes segmentProgress, hopping waypoints until the
// remaining progress fits inside the current segment, then interpolates.
func (s *Simulator) advanceLocked() (geo.Coordinate, bool) {
	last := len(s.route) - 1

	for {
		next := s.idx + 1
		if next > last {
			if !s.opts.Loop {
				return s.route[last], true
			}
			next = 0
		}

		from, to := s.route[s.idx], s.route[next]
		segmentLength := geo.HaversineDistance(from, to)
		if segmentLength <= 0 {
			s.idx = next
			continue
		}

		if s.segmentProgress < segmentLength {
			pos := geo.InterpolateAlongSegment(from, to, s.segmentProgress/segmentLength)
			if !s.opts.Loop &&
				geo.HaversineDistance(pos, s.route[last]) < arrivalRadiusMeters {
				return s.route[last], true
			}
			return pos, false
		}

		s.segmentProgress -= segmentLength
		s.idx = next
	}
}
