package service

import (
	"fmt"
	"math"
	"sync"
	"time"

	"bookride/internal/domain"
	"bookride/internal/geo"
)

const (
	// turnLookaheadPoints bounds how far ahead the simulator scans for the
	// next maneuver.
	turnLookaheadPoints = 20

	feetPerMile = 5280
)

// TickSnapshot is the simulator state emitted on every tick.
type TickSnapshot struct {
	Position       domain.SimulatedPosition
	RemainingMiles float64
	EtaMinutes     int
	NextTurn       *domain.TurnInstruction
	Done           bool
}

// SimulationSession advances a simulated vehicle along one phase route. One
// session exists per active tracking phase; it is destroyed on phase change
// or trip reset and never shared across phases. When the index reaches the
// last route point the session holds position and stops ticking; it never
// transitions trip state on its own.
type SimulationSession struct {
	route       []domain.Coordinate
	key         string
	step        int
	interval    time.Duration
	maxSpeedMph float64
	onTick      func(TickSnapshot)

	mu          sync.Mutex
	idx         int
	prev        domain.Coordinate
	cur         domain.Coordinate
	prevHeading float64
	heading     float64
	speedMph    float64
	lastTickAt  time.Time
	done        bool

	stop     chan struct{}
	stopOnce sync.Once
}

// NewSimulationSession builds a session over the given phase route. step is
// the number of route points advanced per tick and onTick is invoked once at
// seed time and then on every tick; it must not call back into the session.
func NewSimulationSession(route []domain.Coordinate, step int, interval time.Duration, maxSpeedMph float64, onTick func(TickSnapshot)) *SimulationSession {
	if step < 1 {
		step = 1
	}
	s := &SimulationSession{
		route:       route,
		key:         RouteKey(route),
		step:        step,
		interval:    interval,
		maxSpeedMph: maxSpeedMph,
		onTick:      onTick,
		stop:        make(chan struct{}),
	}
	if len(route) < 2 {
		s.done = true
	}
	return s
}

// RouteKey derives a content key over a route's endpoints and length, so
// logically identical routes do not restart a running simulation.
func RouteKey(route []domain.Coordinate) string {
	if len(route) == 0 {
		return "empty"
	}
	first := route[0]
	last := route[len(route)-1]
	return fmt.Sprintf("%.5f,%.5f|%.5f,%.5f|%d", first.Lat, first.Lng, last.Lat, last.Lng, len(route))
}

// Key returns the session's route content key.
func (s *SimulationSession) Key() string {
	return s.key
}

// Start seeds the position at route index 0, emits the initial snapshot and
// begins ticking in a background goroutine.
func (s *SimulationSession) Start() {
	s.mu.Lock()
	if len(s.route) > 0 {
		s.idx = 0
		s.cur = s.route[0]
		s.prev = s.cur
		s.heading = s.initialHeadingLocked()
		s.prevHeading = s.heading
	}
	s.lastTickAt = time.Now()
	seed := s.snapshotLocked()
	s.mu.Unlock()

	if s.onTick != nil {
		s.onTick(seed)
	}
	if seed.Done {
		return
	}

	go s.run()
}

// Stop cancels the pending tick timer. It does not wait for an in-flight
// tick; callers discard late snapshots by session identity.
func (s *SimulationSession) Stop() {
	s.stopOnce.Do(func() {
		close(s.stop)
	})
}

// Snapshot returns the current simulator state.
func (s *SimulationSession) Snapshot() TickSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// RenderedAt returns the eased position and heading for presentation
// smoothing: an ease-in-out interpolation between the previous and current
// tick position, with the heading eased across the shortest angular path.
func (s *SimulationSession) RenderedAt(now time.Time) (domain.Coordinate, float64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.interval <= 0 || s.lastTickAt.IsZero() {
		return s.cur, s.heading
	}

	f := float64(now.Sub(s.lastTickAt)) / float64(s.interval)
	if f < 0 {
		f = 0
	}
	if f > 1 {
		f = 1
	}
	e := easeInOut(f)

	pos := geo.Interpolate(s.prev, s.cur, e)
	heading := s.prevHeading + geo.WrapDelta(s.heading-s.prevHeading)*e
	heading = math.Mod(heading+360, 360)
	return pos, heading
}

func (s *SimulationSession) run() {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-s.stop:
			return
		case <-ticker.C:
			snap := s.advance()
			if s.onTick != nil {
				s.onTick(snap)
			}
			if snap.Done {
				return
			}
		}
	}
}

// advance moves the route index forward by the configured step, clamped to
// the last point, and recomputes the derived values.
func (s *SimulationSession) advance() TickSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.done {
		return s.snapshotLocked()
	}

	next := s.idx + s.step
	if next > len(s.route)-1 {
		next = len(s.route) - 1
	}

	from := s.route[s.idx]
	to := s.route[next]

	speed := 0.0
	if hours := s.interval.Hours(); hours > 0 {
		speed = geo.Distance(from, to) / hours
	}
	// Dense or sparse polyline points can make per-tick distances absurd.
	if speed > s.maxSpeedMph {
		speed = s.maxSpeedMph
	}

	s.prev = s.cur
	s.prevHeading = s.heading
	if from != to {
		s.heading = geo.Bearing(from, to)
	}
	s.cur = to
	s.idx = next
	s.speedMph = speed
	s.lastTickAt = time.Now()
	s.done = next == len(s.route)-1

	return s.snapshotLocked()
}

func (s *SimulationSession) snapshotLocked() TickSnapshot {
	remaining := geo.PathDistance(s.route, s.idx)

	eta := 0
	if remaining > 0 {
		effective := s.speedMph
		if effective <= 0 {
			effective = s.maxSpeedMph / 2
		}
		eta = int(math.Ceil(remaining / effective * 60))
		if eta < 1 {
			eta = 1
		}
	}

	return TickSnapshot{
		Position: domain.SimulatedPosition{
			Coordinate: s.cur,
			RouteIndex: s.idx,
			Heading:    s.heading,
			SpeedMph:   s.speedMph,
		},
		RemainingMiles: remaining,
		EtaMinutes:     eta,
		NextTurn:       s.nextTurnLocked(),
		Done:           s.done,
	}
}

// nextTurnLocked scans up to turnLookaheadPoints ahead for the first
// maneuver other than "continue" and reports its distance in feet.
func (s *SimulationSession) nextTurnLocked() *domain.TurnInstruction {
	distance := 0.0
	limit := s.idx + turnLookaheadPoints
	for v := s.idx + 1; v < len(s.route)-1 && v <= limit; v++ {
		distance += geo.Distance(s.route[v-1], s.route[v])

		if s.route[v-1] == s.route[v] || s.route[v] == s.route[v+1] {
			continue
		}
		before := geo.Bearing(s.route[v-1], s.route[v])
		after := geo.Bearing(s.route[v], s.route[v+1])
		if m := geo.TurnDirection(before, after); m != geo.ManeuverContinue {
			return &domain.TurnInstruction{
				Maneuver:     string(m),
				DistanceFeet: int(math.Round(distance * feetPerMile)),
			}
		}
	}
	return nil
}

// initialHeadingLocked points toward the first subsequent route point that
// differs from the start.
func (s *SimulationSession) initialHeadingLocked() float64 {
	for _, p := range s.route[1:] {
		if p != s.route[0] {
			return geo.Bearing(s.route[0], p)
		}
	}
	return 0
}

func easeInOut(t float64) float64 {
	if t < 0.5 {
		return 2 * t * t
	}
	return 1 - math.Pow(-2*t+2, 2)/2
}
