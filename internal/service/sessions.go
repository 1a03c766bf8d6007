package service

import (
	"context"
	"log"
	"sync"

	"github.com/google/uuid"

	"bookride/internal/domain"
	"bookride/internal/routing"
)

// SessionService owns the in-memory registry of trip sessions and the
// collaborators injected into each one.
type SessionService struct {
	router routing.Router
	promos *PromotionService
	deps   SessionDeps

	mu       sync.RWMutex
	sessions map[string]*TripSession
}

// NewSessionService wires the session registry. router may be nil, in which
// case straight-line routing is used.
func NewSessionService(router routing.Router, promos *PromotionService, deps SessionDeps) *SessionService {
	if router == nil {
		router = routing.StraightLineRouter{}
	}
	return &SessionService{
		router:   router,
		promos:   promos,
		deps:     deps,
		sessions: make(map[string]*TripSession),
	}
}

// Create validates the pickup/dropoff pair, fetches route candidates and
// registers a new session with the default promotion pre-applied.
func (s *SessionService) Create(ctx context.Context, pickup, dropoff domain.Coordinate) (*TripSession, error) {
	if !pickup.IsValid() {
		return nil, ErrMissingPickup
	}
	if !dropoff.IsValid() {
		return nil, ErrMissingDropoff
	}

	candidates, err := s.router.Route(ctx, pickup, dropoff)
	if err != nil || len(candidates) == 0 {
		// Routing is best effort: degrade to a straight line rather
		// than refuse the booking.
		log.Printf("routing failed for (%f,%f)->(%f,%f), using straight line: %v",
			pickup.Lat, pickup.Lng, dropoff.Lat, dropoff.Lng, err)
		candidates = []domain.RouteCandidate{routing.StraightLineCandidate(pickup, dropoff)}
	}

	sess := NewTripSession(uuid.New().String(), pickup, dropoff, s.deps)
	if err := sess.SetCandidates(candidates); err != nil {
		return nil, err
	}
	s.applyDefaultPromo(ctx, sess)

	s.mu.Lock()
	s.sessions[sess.ID()] = sess
	s.mu.Unlock()
	return sess, nil
}

// Get looks a session up by id.
func (s *SessionService) Get(id string) (*TripSession, error) {
	s.mu.RLock()
	sess, ok := s.sessions[id]
	s.mu.RUnlock()
	if !ok {
		return nil, ErrSessionNotFound
	}
	return sess, nil
}

// Reset returns a terminal session to SELECTING and re-applies the default
// promotion, matching a fresh booking flow.
func (s *SessionService) Reset(ctx context.Context, id string) error {
	sess, err := s.Get(id)
	if err != nil {
		return err
	}
	if err := sess.Reset(); err != nil {
		return err
	}
	s.applyDefaultPromo(ctx, sess)
	return nil
}

// Shutdown stops every running simulation.
func (s *SessionService) Shutdown() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, sess := range s.sessions {
		sess.Close()
	}
}

func (s *SessionService) applyDefaultPromo(ctx context.Context, sess *TripSession) {
	if s.promos == nil {
		return
	}
	if promo := s.promos.Default(ctx); promo != nil {
		if err := sess.ApplyPromo(promo); err != nil {
			log.Printf("session %s: default promo not applied: %v", sess.ID(), err)
		}
	}
}
