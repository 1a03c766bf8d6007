package tests

import (
	"context"
	"sort"
	"sync"
	"sync/atomic"

	"bookride/internal/domain"
	"bookride/internal/geo"
	internalRedis "bookride/internal/redis"
	"bookride/internal/repository"
	"bookride/internal/service"
)

// ──────────────────────────────────────────────
// MOCK MATCHER
// ──────────────────────────────────────────────

// MockMatcher is a mock implementation of service.Matcher.
type MockMatcher struct {
	Result *service.MatchResult

	// Counters for verification
	MatchCallCount   int32
	ReleaseCallCount int32

	// Error injection
	MatchError   error
	ReleaseError error

	mu             sync.Mutex
	lastReleasedID string
}

// NewMockMatcher creates a mock matcher with a plausible default result.
func NewMockMatcher(pickup domain.Coordinate) *MockMatcher {
	start := domain.Coordinate{Lat: pickup.Lat + 0.01, Lng: pickup.Lng + 0.01}
	return &MockMatcher{
		Result: &service.MatchResult{
			DriverID:   "driver-1",
			StartPoint: start,
			Driver: &domain.DriverAssignment{
				Name:             "Marcus Webb",
				Rating:           4.9,
				VehicleModel:     "Toyota Camry",
				VehicleColor:     "Silver",
				PlateNumber:      "8XKT412",
				AvatarInitials:   "MW",
				PickupEtaMinutes: 3,
			},
			DriverRoute: []domain.Coordinate{start, pickup},
		},
	}
}

func (m *MockMatcher) Match(ctx context.Context, pickup domain.Coordinate) (*service.MatchResult, error) {
	atomic.AddInt32(&m.MatchCallCount, 1)
	if m.MatchError != nil {
		return nil, m.MatchError
	}
	return m.Result, nil
}

func (m *MockMatcher) Release(ctx context.Context, driverID string, at domain.Coordinate) error {
	atomic.AddInt32(&m.ReleaseCallCount, 1)
	m.mu.Lock()
	m.lastReleasedID = driverID
	m.mu.Unlock()
	return m.ReleaseError
}

// LastReleasedDriverID returns the driver id from the most recent release.
func (m *MockMatcher) LastReleasedDriverID() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastReleasedID
}

// ──────────────────────────────────────────────
// MOCK NOTIFIER
// ──────────────────────────────────────────────

// MockNotifier is a mock implementation of service.Notifier.
type MockNotifier struct {
	// Counters for verification
	DriverAssignedCallCount int32
	TripStartedCallCount    int32
	TripCompletedCallCount  int32
	TripCancelledCallCount  int32

	// CancelGate, when set, blocks TripCancelled until the channel is
	// closed. Used to hold a cancellation's side effect open.
	CancelGate chan struct{}

	// Error injection
	NotifyError error

	mu        sync.Mutex
	lastFare  domain.Cents
	lastCause string
}

// NewMockNotifier creates a new mock notifier.
func NewMockNotifier() *MockNotifier {
	return &MockNotifier{}
}

func (m *MockNotifier) DriverAssigned(ctx context.Context, sessionID string, driver *domain.DriverAssignment) error {
	atomic.AddInt32(&m.DriverAssignedCallCount, 1)
	return m.NotifyError
}

func (m *MockNotifier) TripStarted(ctx context.Context, sessionID string) error {
	atomic.AddInt32(&m.TripStartedCallCount, 1)
	return m.NotifyError
}

func (m *MockNotifier) TripCompleted(ctx context.Context, sessionID string, finalFare domain.Cents) error {
	atomic.AddInt32(&m.TripCompletedCallCount, 1)
	m.mu.Lock()
	m.lastFare = finalFare
	m.mu.Unlock()
	return m.NotifyError
}

func (m *MockNotifier) TripCancelled(ctx context.Context, sessionID string, reason string) error {
	if m.CancelGate != nil {
		<-m.CancelGate
	}
	atomic.AddInt32(&m.TripCancelledCallCount, 1)
	m.mu.Lock()
	m.lastCause = reason
	m.mu.Unlock()
	return m.NotifyError
}

// LastFinalFare returns the fare from the most recent completion notice.
func (m *MockNotifier) LastFinalFare() domain.Cents {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastFare
}

// LastCancelReason returns the reason from the most recent cancellation.
func (m *MockNotifier) LastCancelReason() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastCause
}

// ──────────────────────────────────────────────
// MOCK TRIP RECORD REPOSITORY
// ──────────────────────────────────────────────

// MockTripRecordRepository is a mock implementation of TripRecordRepository.
type MockTripRecordRepository struct {
	mu      sync.RWMutex
	records map[string]*domain.TripRecord

	// Counters for verification
	CreateCallCount int32

	// Error injection
	CreateError error
}

// NewMockTripRecordRepository creates a new mock trip record repository.
func NewMockTripRecordRepository() *MockTripRecordRepository {
	return &MockTripRecordRepository{
		records: make(map[string]*domain.TripRecord),
	}
}

func (m *MockTripRecordRepository) Create(ctx context.Context, record *domain.TripRecord) error {
	atomic.AddInt32(&m.CreateCallCount, 1)
	if m.CreateError != nil {
		return m.CreateError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records[record.ID] = record
	return nil
}

func (m *MockTripRecordRepository) GetByID(ctx context.Context, id string) (*domain.TripRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	record, ok := m.records[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copy := *record
	return &copy, nil
}

func (m *MockTripRecordRepository) GetAll(ctx context.Context) ([]*domain.TripRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*domain.TripRecord, 0, len(m.records))
	for _, record := range m.records {
		copy := *record
		out = append(out, &copy)
	}
	return out, nil
}

// CountRecords returns the number of stored records.
func (m *MockTripRecordRepository) CountRecords() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.records)
}

// ──────────────────────────────────────────────
// MOCK DRIVER LOCATION STORE
// ──────────────────────────────────────────────

// MockDriverLocationStore is an in-memory implementation of
// redis.DriverLocationStoreInterface.
type MockDriverLocationStore struct {
	mu      sync.RWMutex
	entries map[string]internalRedis.DriverLocation

	// Counters for verification
	RegisterCallCount int32
	NearbyCallCount   int32
	RemoveCallCount   int32

	// Error injection
	RegisterError error
	NearbyError   error
	RemoveError   error
}

// NewMockDriverLocationStore creates a new mock driver location store.
func NewMockDriverLocationStore() *MockDriverLocationStore {
	return &MockDriverLocationStore{
		entries: make(map[string]internalRedis.DriverLocation),
	}
}

func (m *MockDriverLocationStore) Register(ctx context.Context, driverID string, lat, lng float64) error {
	atomic.AddInt32(&m.RegisterCallCount, 1)
	if m.RegisterError != nil {
		return m.RegisterError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[driverID] = internalRedis.DriverLocation{DriverID: driverID, Lat: lat, Lng: lng}
	return nil
}

func (m *MockDriverLocationStore) Nearby(ctx context.Context, lat, lng, radiusMiles float64) ([]internalRedis.DriverLocation, error) {
	atomic.AddInt32(&m.NearbyCallCount, 1)
	if m.NearbyError != nil {
		return nil, m.NearbyError
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	center := domain.Coordinate{Lat: lat, Lng: lng}
	var found []internalRedis.DriverLocation
	for _, entry := range m.entries {
		if geo.Distance(center, domain.Coordinate{Lat: entry.Lat, Lng: entry.Lng}) <= radiusMiles {
			found = append(found, entry)
		}
	}
	sort.Slice(found, func(i, j int) bool {
		di := geo.Distance(center, domain.Coordinate{Lat: found[i].Lat, Lng: found[i].Lng})
		dj := geo.Distance(center, domain.Coordinate{Lat: found[j].Lat, Lng: found[j].Lng})
		return di < dj
	})
	return found, nil
}

func (m *MockDriverLocationStore) Remove(ctx context.Context, driverID string, lat, lng float64) error {
	atomic.AddInt32(&m.RemoveCallCount, 1)
	if m.RemoveError != nil {
		return m.RemoveError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.entries, driverID)
	return nil
}

// CountEntries returns the number of indexed drivers.
func (m *MockDriverLocationStore) CountEntries() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}

// ──────────────────────────────────────────────
// MOCK ROUTER
// ──────────────────────────────────────────────

// MockRouter is a mock implementation of routing.Router.
type MockRouter struct {
	Candidates []domain.RouteCandidate

	// Counters for verification
	RouteCallCount int32

	// Error injection
	RouteError error
}

func (m *MockRouter) Route(ctx context.Context, origin, destination domain.Coordinate) ([]domain.RouteCandidate, error) {
	atomic.AddInt32(&m.RouteCallCount, 1)
	if m.RouteError != nil {
		return nil, m.RouteError
	}
	return m.Candidates, nil
}
