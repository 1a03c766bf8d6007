package service

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"bookride/internal/domain"
	"bookride/internal/fare"
	"bookride/internal/geo"
	"bookride/internal/repository"
)

// Matcher is the driver matching collaborator boundary. Release returns a
// matched driver to the pool once the assignment ends, so the geo index
// never accumulates stale entries.
type Matcher interface {
	Match(ctx context.Context, pickup domain.Coordinate) (*MatchResult, error)
	Release(ctx context.Context, driverID string, at domain.Coordinate) error
}

// SimTuning carries the simulator knobs a session needs.
type SimTuning struct {
	TickInterval        time.Duration
	PickupStep          int
	DropoffStep         int
	MaxSpeedMph         float64
	InteractionDebounce time.Duration
	FollowResumeDelay   time.Duration
}

// DefaultSimTuning mirrors the production defaults.
func DefaultSimTuning() SimTuning {
	return SimTuning{
		TickInterval:        3 * time.Second,
		PickupStep:          2,
		DropoffStep:         3,
		MaxSpeedMph:         65,
		InteractionDebounce: 500 * time.Millisecond,
		FollowResumeDelay:   5 * time.Second,
	}
}

// SessionDeps are the collaborators a trip session calls on transitions.
// Records may be nil (history disabled); Notifier failures never block or
// revert a transition.
type SessionDeps struct {
	Matcher  Matcher
	Notifier Notifier
	Records  repository.TripRecordRepository
	Sim      SimTuning
}

// CategoryQuote pairs a vehicle category with its fare for the active route.
type CategoryQuote struct {
	Category domain.VehicleCategoryConfig `json:"category"`
	Fare     domain.FareBreakdown         `json:"fare"`
}

// SessionSnapshot is a point-in-time view of a trip session.
type SessionSnapshot struct {
	ID               string                   `json:"id"`
	Status           domain.RideStatus        `json:"status"`
	Phase            domain.TrackingPhase     `json:"phase,omitempty"`
	Pickup           domain.Coordinate        `json:"pickup"`
	Dropoff          domain.Coordinate        `json:"dropoff"`
	Candidates       []domain.RouteCandidate  `json:"candidates"`
	ActiveRouteID    string                   `json:"active_route_id,omitempty"`
	Category         string                   `json:"category"`
	Fare             *domain.FareBreakdown    `json:"fare,omitempty"`
	CategoryQuotes   []CategoryQuote          `json:"category_quotes,omitempty"`
	Promo            *domain.Promotion        `json:"promo,omitempty"`
	Driver           *domain.DriverAssignment `json:"driver,omitempty"`
	Position         *domain.TrackedPosition  `json:"position,omitempty"`
	FollowSuppressed bool                     `json:"follow_suppressed"`
}

// TripSession owns one booking flow: the ride status state machine, the
// route selection, the applied promotion and the per-phase position
// simulator. All state is guarded by mu; collaborator calls happen outside
// the lock with the state re-checked afterwards, so a stale event (a double
// click, a cancel racing a match) can never corrupt the session.
type TripSession struct {
	id      string
	pickup  domain.Coordinate
	dropoff domain.Coordinate
	deps    SessionDeps
	gate    *InteractionGate

	mu              sync.Mutex
	status          domain.RideStatus
	phase           domain.TrackingPhase
	routes          RouteSelection
	categoryID      string
	promo           *domain.Promotion
	driver          *domain.DriverAssignment
	matchedDriverID string
	matchedStart    domain.Coordinate
	sim             *SimulationSession
	cancelling      bool
	live            *domain.LivePosition
	liveAt          time.Time
	startedAt       time.Time
	recordSaved     bool

	subMu   sync.Mutex
	subs    map[int]chan domain.TrackedPosition
	nextSub int
}

// NewTripSession creates a session in SELECTING.
func NewTripSession(id string, pickup, dropoff domain.Coordinate, deps SessionDeps) *TripSession {
	return &TripSession{
		id:         id,
		pickup:     pickup,
		dropoff:    dropoff,
		deps:       deps,
		gate:       NewInteractionGate(deps.Sim.InteractionDebounce, deps.Sim.FollowResumeDelay),
		status:     domain.StatusSelecting,
		categoryID: domain.DefaultCategoryID,
		subs:       make(map[int]chan domain.TrackedPosition),
	}
}

// ID returns the session id.
func (s *TripSession) ID() string {
	return s.id
}

// SetCandidates installs a new candidate route set. Only legal while
// selecting.
func (s *TripSession) SetCandidates(candidates []domain.RouteCandidate) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.status != domain.StatusSelecting {
		return s.rejectLocked("set candidates")
	}
	s.routes.SetCandidates(candidates)
	return nil
}

// SelectRoute switches the active route candidate.
func (s *TripSession) SelectRoute(routeID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.status != domain.StatusSelecting {
		return s.rejectLocked("select route")
	}
	return s.routes.Select(routeID)
}

// SetCategory switches the vehicle category.
func (s *TripSession) SetCategory(categoryID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.status != domain.StatusSelecting {
		return s.rejectLocked("set category")
	}
	if _, ok := domain.CategoryByID(categoryID); !ok {
		return ErrUnknownCategory
	}
	s.categoryID = categoryID
	return nil
}

// ApplyPromo applies a promotion, replacing any applied one.
func (s *TripSession) ApplyPromo(promo *domain.Promotion) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.status != domain.StatusSelecting {
		return s.rejectLocked("apply promo")
	}
	s.promo = promo
	return nil
}

// ClearPromo removes the applied promotion.
func (s *TripSession) ClearPromo() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.status != domain.StatusSelecting {
		return s.rejectLocked("clear promo")
	}
	s.promo = nil
	return nil
}

// Confirm moves SELECTING -> CONFIRMING. An active route is required.
func (s *TripSession) Confirm() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.status != domain.StatusSelecting {
		return s.rejectLocked("confirm")
	}
	if s.routes.Active() == nil {
		return ErrNoActiveRoute
	}
	s.status = domain.StatusConfirming
	return nil
}

// Dispatch moves CONFIRMING -> SEARCHING_DRIVER.
func (s *TripSession) Dispatch() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.status != domain.StatusConfirming {
		return s.rejectLocked("dispatch")
	}
	s.status = domain.StatusSearchingDriver
	return nil
}

// Match moves SEARCHING_DRIVER -> DRIVER_ASSIGNED. The driver matching
// collaborator runs outside the lock; if the session left SEARCHING_DRIVER
// meanwhile (a cancel racing the match), the result is discarded.
func (s *TripSession) Match(ctx context.Context) error {
	s.mu.Lock()
	if s.status != domain.StatusSearchingDriver {
		defer s.mu.Unlock()
		return s.rejectLocked("match")
	}
	s.mu.Unlock()

	result, err := s.deps.Matcher.Match(ctx, s.pickup)
	if err != nil {
		return err
	}

	s.mu.Lock()
	if s.status != domain.StatusSearchingDriver {
		err := s.rejectLocked("match")
		s.mu.Unlock()
		// The discarded driver was already registered by the matcher.
		s.releaseDriver(ctx, result.DriverID, result.StartPoint)
		return err
	}
	s.status = domain.StatusDriverAssigned
	s.phase = domain.PhaseEnRouteToPickup
	s.driver = result.Driver
	s.matchedDriverID = result.DriverID
	s.matchedStart = result.StartPoint
	sim := s.ensurePhaseRouteLocked(result.DriverRoute, s.deps.Sim.PickupStep)
	s.mu.Unlock()

	if sim != nil {
		sim.Start()
	}
	if s.deps.Notifier != nil {
		if err := s.deps.Notifier.DriverAssigned(ctx, s.id, result.Driver); err != nil {
			log.Printf("session %s: driver assigned notification failed: %v", s.id, err)
		}
	}
	return nil
}

// StartTrip moves DRIVER_ASSIGNED -> TRIP_IN_PROGRESS. The already-known
// pickup-to-dropoff polyline becomes the active phase route.
func (s *TripSession) StartTrip(ctx context.Context) error {
	s.mu.Lock()
	if s.status != domain.StatusDriverAssigned {
		defer s.mu.Unlock()
		return s.rejectLocked("start trip")
	}

	route := s.tripRouteLocked()
	s.status = domain.StatusTripInProgress
	s.phase = domain.PhaseEnRouteToDropoff
	s.startedAt = time.Now()
	s.live = nil
	sim := s.ensurePhaseRouteLocked(route, s.deps.Sim.DropoffStep)
	s.mu.Unlock()

	if sim != nil {
		sim.Start()
	}
	if s.deps.Notifier != nil {
		if err := s.deps.Notifier.TripStarted(ctx, s.id); err != nil {
			log.Printf("session %s: trip started notification failed: %v", s.id, err)
		}
	}
	return nil
}

// CompleteTrip moves TRIP_IN_PROGRESS -> TRIP_COMPLETED.
func (s *TripSession) CompleteTrip(ctx context.Context) error {
	s.mu.Lock()
	if s.status != domain.StatusTripInProgress {
		defer s.mu.Unlock()
		return s.rejectLocked("complete trip")
	}

	s.status = domain.StatusTripCompleted
	s.phase = domain.PhaseCompleted
	s.stopSimLocked()
	record := s.buildRecordLocked("")
	breakdown := s.fareLocked()
	driverID, driverAt := s.takeMatchedDriverLocked()
	s.mu.Unlock()

	s.releaseDriver(ctx, driverID, driverAt)

	if s.deps.Notifier != nil {
		var final domain.Cents
		if breakdown != nil {
			final = breakdown.FinalFare
		}
		if err := s.deps.Notifier.TripCompleted(ctx, s.id, final); err != nil {
			log.Printf("session %s: trip completed notification failed: %v", s.id, err)
		}
	}
	s.persistRecord(ctx, record)
	return nil
}

// Cancel applies the cancel event: SEARCHING_DRIVER falls back to SELECTING,
// DRIVER_ASSIGNED terminates in TRIP_CANCELLED. While a cancellation's side
// effects are still running, further cancels are no-ops, so a double click
// fires exactly one cancellation.
func (s *TripSession) Cancel(ctx context.Context, reason string) error {
	s.mu.Lock()
	if s.cancelling {
		s.mu.Unlock()
		return nil
	}

	switch s.status {
	case domain.StatusSearchingDriver:
		s.status = domain.StatusSelecting
		s.phase = domain.PhaseNone
		s.mu.Unlock()
		return nil

	case domain.StatusDriverAssigned:
		s.cancelling = true
		s.status = domain.StatusTripCancelled
		s.phase = domain.PhaseCancelled
		s.stopSimLocked()
		record := s.buildRecordLocked(reason)
		driverID, driverAt := s.takeMatchedDriverLocked()
		s.mu.Unlock()

		s.releaseDriver(ctx, driverID, driverAt)
		if s.deps.Notifier != nil {
			if err := s.deps.Notifier.TripCancelled(ctx, s.id, reason); err != nil {
				log.Printf("session %s: trip cancelled notification failed: %v", s.id, err)
			}
		}
		s.persistRecord(ctx, record)

		s.mu.Lock()
		s.cancelling = false
		s.mu.Unlock()
		return nil

	default:
		defer s.mu.Unlock()
		return s.rejectLocked("cancel")
	}
}

// Reset moves a terminal session back to SELECTING, clearing all dependent
// state. Route candidates survive so the user can re-book the same pair.
func (s *TripSession) Reset() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.status.Terminal() {
		return s.rejectLocked("reset")
	}

	s.status = domain.StatusSelecting
	s.phase = domain.PhaseNone
	s.driver = nil
	s.promo = nil
	s.live = nil
	s.liveAt = time.Time{}
	s.startedAt = time.Time{}
	s.recordSaved = false
	s.stopSimLocked()
	return nil
}

// Interaction records a map interaction signal. The return value reports
// whether the signal produced a new suppression event or was coalesced.
func (s *TripSession) Interaction(now time.Time) bool {
	return s.gate.Signal(now)
}

// IngestLive accepts one live driver feed update. Live values supersede the
// simulator per tick; when the feed goes stale the simulator takes over
// again.
func (s *TripSession) IngestLive(update domain.LivePosition) error {
	s.mu.Lock()
	if !s.trackingLocked() {
		s.mu.Unlock()
		return ErrNotTracking
	}
	s.live = &update
	s.liveAt = time.Now()
	tracked := s.trackedLocked(time.Now())
	s.mu.Unlock()

	if tracked != nil {
		s.broadcast(*tracked)
	}
	return nil
}

// Position returns the current tracked position while a vehicle is moving.
func (s *TripSession) Position(now time.Time) (domain.TrackedPosition, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.trackingLocked() {
		return domain.TrackedPosition{}, ErrNotTracking
	}
	tracked := s.trackedLocked(now)
	if tracked == nil {
		return domain.TrackedPosition{}, ErrNotTracking
	}
	return *tracked, nil
}

// Snapshot returns a point-in-time view of the whole session.
func (s *TripSession) Snapshot(now time.Time) SessionSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := SessionSnapshot{
		ID:               s.id,
		Status:           s.status,
		Phase:            s.phase,
		Pickup:           s.pickup,
		Dropoff:          s.dropoff,
		Candidates:       s.routes.Candidates(),
		Category:         s.categoryID,
		Promo:            s.promo,
		Driver:           s.driver,
		FollowSuppressed: s.gate.Suppressed(now),
	}

	if active := s.routes.Active(); active != nil {
		snap.ActiveRouteID = active.ID
		for _, category := range domain.VehicleCategories() {
			snap.CategoryQuotes = append(snap.CategoryQuotes, CategoryQuote{
				Category: category,
				Fare:     fare.Quote(*active, category, s.promo),
			})
		}
	}
	snap.Fare = s.fareLocked()

	if s.trackingLocked() {
		snap.Position = s.trackedLocked(now)
	}
	return snap
}

// Subscribe registers a tick listener. The returned cancel function must be
// called when the consumer goes away.
func (s *TripSession) Subscribe() (<-chan domain.TrackedPosition, func()) {
	s.subMu.Lock()
	defer s.subMu.Unlock()

	id := s.nextSub
	s.nextSub++
	ch := make(chan domain.TrackedPosition, 8)
	s.subs[id] = ch

	return ch, func() {
		s.subMu.Lock()
		defer s.subMu.Unlock()
		if _, ok := s.subs[id]; ok {
			delete(s.subs, id)
			close(ch)
		}
	}
}

// Close tears the session down, stopping any running simulation and
// releasing a still-held driver.
func (s *TripSession) Close() {
	s.mu.Lock()
	s.stopSimLocked()
	driverID, driverAt := s.takeMatchedDriverLocked()
	s.mu.Unlock()
	s.releaseDriver(context.Background(), driverID, driverAt)
}

// --- internals ---

// rejectLocked logs and rejects an event that is illegal in the current
// state, leaving the state unchanged.
func (s *TripSession) rejectLocked(event string) error {
	log.Printf("session %s: rejected %q in state %s", s.id, event, s.status)
	return ErrInvalidTransition
}

// takeMatchedDriverLocked hands out the registered driver id and start point
// exactly once, so the geo index entry is released by a single caller.
func (s *TripSession) takeMatchedDriverLocked() (string, domain.Coordinate) {
	id, at := s.matchedDriverID, s.matchedStart
	s.matchedDriverID = ""
	return id, at
}

// releaseDriver returns a matched driver to the pool. Index errors are
// logged, never surfaced.
func (s *TripSession) releaseDriver(ctx context.Context, driverID string, at domain.Coordinate) {
	if driverID == "" || s.deps.Matcher == nil {
		return
	}
	if err := s.deps.Matcher.Release(ctx, driverID, at); err != nil {
		log.Printf("session %s: driver release failed: %v", s.id, err)
	}
}

func (s *TripSession) trackingLocked() bool {
	return s.phase == domain.PhaseEnRouteToPickup || s.phase == domain.PhaseEnRouteToDropoff
}

// ensurePhaseRouteLocked installs a simulation session for the given phase
// route. A route with the same content key as the running simulation keeps
// the current run: logically identical routes must not restart tracking.
// The returned session, if non-nil, must be started after the lock is
// released.
func (s *TripSession) ensurePhaseRouteLocked(route []domain.Coordinate, step int) *SimulationSession {
	if s.sim != nil && s.sim.Key() == RouteKey(route) {
		return nil
	}
	s.stopSimLocked()

	var sim *SimulationSession
	sim = NewSimulationSession(route, step, s.deps.Sim.TickInterval, s.deps.Sim.MaxSpeedMph, func(snap TickSnapshot) {
		s.handleTick(sim, snap)
	})
	s.sim = sim
	return sim
}

func (s *TripSession) stopSimLocked() {
	if s.sim != nil {
		s.sim.Stop()
		s.sim = nil
	}
}

// handleTick publishes one simulator tick. Ticks from a superseded
// simulation (phase switched, trip reset) are dropped by identity.
func (s *TripSession) handleTick(sim *SimulationSession, snap TickSnapshot) {
	s.mu.Lock()
	if s.sim != sim || !s.trackingLocked() {
		s.mu.Unlock()
		return
	}
	tracked := s.trackedLocked(time.Now())
	s.mu.Unlock()

	if tracked != nil {
		s.broadcast(*tracked)
	}
}

// trackedLocked builds the tagged position union: a fresh live feed update
// supersedes the simulator; otherwise the eased simulator state is used.
func (s *TripSession) trackedLocked(now time.Time) *domain.TrackedPosition {
	if s.live != nil && now.Sub(s.liveAt) < 2*s.deps.Sim.TickInterval {
		tracked := &domain.TrackedPosition{
			Source:         domain.SourceLive,
			Coordinate:     s.live.Coordinate,
			Heading:        s.live.Heading,
			SpeedMph:       s.live.SpeedMph,
			RemainingMiles: s.live.RemainingMiles,
			EtaMinutes:     s.live.EtaMinutes,
		}
		// Feed gaps in the derived values fall back to the simulator.
		if s.sim != nil && (tracked.RemainingMiles == 0 || tracked.EtaMinutes == 0) {
			snap := s.sim.Snapshot()
			if tracked.RemainingMiles == 0 {
				tracked.RemainingMiles = snap.RemainingMiles
			}
			if tracked.EtaMinutes == 0 {
				tracked.EtaMinutes = snap.EtaMinutes
			}
		}
		return tracked
	}

	if s.sim == nil {
		return nil
	}
	snap := s.sim.Snapshot()
	coord, heading := s.sim.RenderedAt(now)
	return &domain.TrackedPosition{
		Source:         domain.SourceSimulated,
		Coordinate:     coord,
		Heading:        heading,
		SpeedMph:       snap.Position.SpeedMph,
		RouteIndex:     snap.Position.RouteIndex,
		RemainingMiles: snap.RemainingMiles,
		EtaMinutes:     snap.EtaMinutes,
		NextTurn:       snap.NextTurn,
	}
}

func (s *TripSession) broadcast(tracked domain.TrackedPosition) {
	s.subMu.Lock()
	defer s.subMu.Unlock()
	for _, ch := range s.subs {
		select {
		case ch <- tracked:
		default:
			// Slow consumer: drop rather than stall the tick loop.
		}
	}
}

// tripRouteLocked decodes the active candidate's polyline, degrading to a
// two-point pickup-dropoff line when the polyline is absent or malformed.
func (s *TripSession) tripRouteLocked() []domain.Coordinate {
	if active := s.routes.Active(); active != nil {
		if points := geo.DecodePolyline(active.Polyline); len(points) >= 2 {
			return points
		}
	}
	return []domain.Coordinate{s.pickup, s.dropoff}
}

func (s *TripSession) fareLocked() *domain.FareBreakdown {
	active := s.routes.Active()
	if active == nil {
		return nil
	}
	category, ok := domain.CategoryByID(s.categoryID)
	if !ok {
		return nil
	}
	breakdown := fare.Quote(*active, category, s.promo)
	return &breakdown
}

// buildRecordLocked assembles the persisted outcome of a terminal session.
func (s *TripSession) buildRecordLocked(cancelReason string) *domain.TripRecord {
	if s.recordSaved {
		return nil
	}
	s.recordSaved = true

	record := &domain.TripRecord{
		ID:              uuid.New().String(),
		SessionID:       s.id,
		Status:          s.status,
		Pickup:          s.pickup,
		Dropoff:         s.dropoff,
		VehicleCategory: s.categoryID,
		CancelReason:    cancelReason,
		StartedAt:       s.startedAt,
		EndedAt:         time.Now(),
		CreatedAt:       time.Now(),
	}
	if active := s.routes.Active(); active != nil {
		record.RouteSummary = active.Summary
		record.DistanceMiles = active.DistanceMiles
		record.DurationSeconds = active.DurationSeconds
	}
	if s.driver != nil {
		record.DriverName = s.driver.Name
		record.PlateNumber = s.driver.PlateNumber
	}
	if s.promo != nil {
		record.PromoCode = s.promo.Code
	}
	if breakdown := s.fareLocked(); breakdown != nil {
		record.OriginalFare = breakdown.OriginalFare
		record.DiscountAmount = breakdown.DiscountAmount
		record.FinalFare = breakdown.FinalFare
	}
	return record
}

func (s *TripSession) persistRecord(ctx context.Context, record *domain.TripRecord) {
	if record == nil || s.deps.Records == nil {
		return
	}
	if err := s.deps.Records.Create(ctx, record); err != nil {
		log.Printf("session %s: failed to persist trip record: %v", s.id, err)
	}
}
