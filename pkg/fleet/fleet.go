// Package fleet tracks many vehicles at once: one tracking controller (and
// optionally one route simulator) per vehicle id, plus a spatial index of
// live display positions for viewport queries.
package fleet

import (
	"sync"

	"github.com/lifeline-ops/ambutrack/pkg/clock"
	"github.com/lifeline-ops/ambutrack/pkg/geo"
	"github.com/lifeline-ops/ambutrack/pkg/simulator"
	"github.com/lifeline-ops/ambutrack/pkg/tracking"
	"github.com/lifeline-ops/ambutrack/pkg/util"
	"github.com/tidwall/rtree"
	"go.uber.org/zap"
)

// Snapshot is one vehicle's externally visible state.
type Snapshot struct {
	VehicleID  string           `json:"vehicle_id"`
	Position   geo.Coordinate   `json:"position"`
	Bearing    float64          `json:"bearing"`
	Simulation *simulator.State `json:"simulation,omitempty"`
}

type vehicle struct {
	id         string
	controller *tracking.Controller
	sim        *simulator.Simulator

	mu        sync.Mutex
	indexed   bool
	indexedAt geo.Coordinate

	camSeq  int
	camSubs map[int]tracking.CameraFunc
}

// Manager owns the per-vehicle controllers. Controllers are created lazily
// on the first fix or simulation start and live until Remove or Dispose.
type Manager struct {
	mu       sync.RWMutex
	log      *zap.Logger
	clk      clock.Clock
	cfg      tracking.Config
	vehicles map[string]*vehicle
	index    rtree.RTreeG[string]
	disposed bool
}

func NewManager(cfg tracking.Config, clk clock.Clock, log *zap.Logger) *Manager {
	return &Manager{
		log:      log,
		clk:      clk,
		cfg:      cfg,
		vehicles: make(map[string]*vehicle),
	}
}

// ensureVehicle returns the vehicle for id, creating its controller seeded
// at initial if it does not exist yet.
func (m *Manager) ensureVehicle(id string, initial geo.Coordinate) (*vehicle, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.disposed {
		return nil, util.WrapErrorf(nil, util.ErrConflict, "fleet manager is disposed")
	}
	if v, ok := m.vehicles[id]; ok {
		return v, nil
	}

	v := &vehicle{
		id:         id,
		controller: tracking.NewController(initial, m.cfg, m.clk, m.log),
		camSubs:    make(map[int]tracking.CameraFunc),
	}
	v.controller.Subscribe(func(s tracking.DisplayState) {
		m.reindex(v, s.Position)
	})
	v.controller.OnCameraMove(func(p geo.Coordinate) {
		v.fanOutCamera(p)
	})
	m.vehicles[id] = v
	m.log.Info("tracking new vehicle", zap.String("vehicle_id", id))
	return v, nil
}

func (m *Manager) vehicle(id string) (*vehicle, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.vehicles[id]
	if !ok {
		return nil, util.WrapErrorf(nil, util.ErrNotFound, "vehicle %q is not tracked", id)
	}
	return v, nil
}

// reindex moves the vehicle's point in the spatial index. Called from the
// controller's observer, so never while the manager lock is held.
func (m *Manager) reindex(v *vehicle, pos geo.Coordinate) {
	// lock order is always vehicle then manager
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.indexed && v.indexedAt == pos {
		return
	}

	m.mu.Lock()
	if v.indexed {
		m.index.Delete(pointOf(v.indexedAt), pointOf(v.indexedAt), v.id)
	}
	m.index.Insert(pointOf(pos), pointOf(pos), v.id)
	m.mu.Unlock()

	v.indexed = true
	v.indexedAt = pos
}

func pointOf(c geo.Coordinate) [2]float64 {
	return [2]float64{c.Lat, c.Lon}
}

func (v *vehicle) fanOutCamera(p geo.Coordinate) {
	v.mu.Lock()
	subs := make([]tracking.CameraFunc, 0, len(v.camSubs))
	for _, fn := range v.camSubs {
		subs = append(subs, fn)
	}
	v.mu.Unlock()

	for _, fn := range subs {
		fn(p)
	}
}

// PushFix feeds one live device fix for id, creating the vehicle on its
// first fix.
func (m *Manager) PushFix(id string, fix geo.Coordinate) error {
	if !fix.Valid() {
		return util.WrapErrorf(nil, util.ErrBadParamInput, "fix out of range: %v", fix)
	}
	v, err := m.ensureVehicle(id, fix)
	if err != nil {
		return err
	}
	v.controller.UpdatePosition(fix)
	return nil
}

// StartSimulation starts (or replaces) the route simulation for id. The
// vehicle's controller is created at the route start if absent.
func (m *Manager) StartSimulation(id string, route []geo.Coordinate, opts simulator.Options) error {
	if len(route) == 0 {
		return util.WrapErrorf(nil, util.ErrBadParamInput, "route has no waypoints")
	}
	v, err := m.ensureVehicle(id, route[0])
	if err != nil {
		return err
	}

	sim, err := simulator.New(route, opts, m.clk, m.log)
	if err != nil {
		return err
	}

	m.mu.Lock()
	old := v.sim
	v.sim = sim
	m.mu.Unlock()
	if old != nil {
		old.Stop()
	}

	return sim.Start(v.controller.UpdatePosition)
}

// StopSimulation halts the running simulation for id, if any.
func (m *Manager) StopSimulation(id string) error {
	v, err := m.vehicle(id)
	if err != nil {
		return err
	}

	m.mu.RLock()
	sim := v.sim
	m.mu.RUnlock()
	if sim == nil {
		return util.WrapErrorf(nil, util.ErrNotFound, "vehicle %q has no simulation", id)
	}
	sim.Stop()
	return nil
}

// State returns the vehicle's current snapshot.
func (m *Manager) State(id string) (Snapshot, error) {
	v, err := m.vehicle(id)
	if err != nil {
		return Snapshot{}, err
	}
	return m.snapshot(v), nil
}

func (m *Manager) snapshot(v *vehicle) Snapshot {
	s := v.controller.State()
	snap := Snapshot{
		VehicleID: v.id,
		Position:  s.Position,
		Bearing:   s.Bearing,
	}

	m.mu.RLock()
	sim := v.sim
	m.mu.RUnlock()
	if sim != nil {
		st := sim.State()
		snap.Simulation = &st
	}
	return snap
}

// Within returns snapshots of every vehicle whose display position lies in
// the bounding box.
func (m *Manager) Within(minLat, minLon, maxLat, maxLon float64) []Snapshot {
	m.mu.RLock()
	ids := make([]string, 0, len(m.vehicles))
	m.index.Search([2]float64{minLat, minLon}, [2]float64{maxLat, maxLon},
		func(_, _ [2]float64, id string) bool {
			ids = append(ids, id)
			return true
		})
	m.mu.RUnlock()

	out := make([]Snapshot, 0, len(ids))
	for _, id := range ids {
		v, err := m.vehicle(id)
		if err != nil {
			continue
		}
		out = append(out, m.snapshot(v))
	}
	return out
}

// Subscribe attaches an observer to the vehicle's display state.
func (m *Manager) Subscribe(id string, fn tracking.Observer) (func(), error) {
	v, err := m.vehicle(id)
	if err != nil {
		return nil, err
	}
	return v.controller.Subscribe(fn), nil
}

// SubscribeCamera attaches an observer to the vehicle's throttled camera
// recenter signal.
func (m *Manager) SubscribeCamera(id string, fn tracking.CameraFunc) (func(), error) {
	v, err := m.vehicle(id)
	if err != nil {
		return nil, err
	}

	v.mu.Lock()
	subID := v.camSeq
	v.camSeq++
	v.camSubs[subID] = fn
	v.mu.Unlock()

	return func() {
		v.mu.Lock()
		delete(v.camSubs, subID)
		v.mu.Unlock()
	}, nil
}

// Remove stops and disposes one vehicle.
func (m *Manager) Remove(id string) error {
	m.mu.Lock()
	v, ok := m.vehicles[id]
	if !ok {
		m.mu.Unlock()
		return util.WrapErrorf(nil, util.ErrNotFound, "vehicle %q is not tracked", id)
	}
	delete(m.vehicles, id)
	sim := v.sim
	m.mu.Unlock()

	if sim != nil {
		sim.Stop()
	}
	// disposing first guarantees no further reindex callbacks for v
	v.controller.Dispose()

	v.mu.Lock()
	wasIndexed, at := v.indexed, v.indexedAt
	v.indexed = false
	v.mu.Unlock()

	if wasIndexed {
		m.mu.Lock()
		m.index.Delete(pointOf(at), pointOf(at), v.id)
		m.mu.Unlock()
	}
	return nil
}

// Dispose stops every simulation and disposes every controller. Idempotent.
func (m *Manager) Dispose() {
	m.mu.Lock()
	if m.disposed {
		m.mu.Unlock()
		return
	}
	m.disposed = true
	vehicles := make([]*vehicle, 0, len(m.vehicles))
	for _, v := range m.vehicles {
		vehicles = append(vehicles, v)
	}
	m.vehicles = map[string]*vehicle{}
	m.mu.Unlock()

	for _, v := range vehicles {
		if v.sim != nil {
			v.sim.Stop()
		}
		v.controller.Dispose()
	}
	m.log.Info("fleet manager disposed", zap.Int("vehicles", len(vehicles)))
}
