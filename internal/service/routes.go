package service

import "bookride/internal/domain"

// RouteSelection holds the candidate routes for a pickup/dropoff pair and
// tracks which one is active. It is not safe for concurrent use on its own;
// the owning session serializes access.
type RouteSelection struct {
	candidates []domain.RouteCandidate
	activeID   string
}

// SetCandidates replaces the candidate set. The first candidate becomes
// active: the routing collaborator returns its preferred route first.
func (s *RouteSelection) SetCandidates(candidates []domain.RouteCandidate) {
	s.candidates = candidates
	s.activeID = ""
	if len(candidates) > 0 {
		s.activeID = candidates[0].ID
	}
}

// Select makes the candidate with the given id active. Switching is a pure
// pointer change; consumers recompute fares from the new active route.
func (s *RouteSelection) Select(id string) error {
	for _, c := range s.candidates {
		if c.ID == id {
			s.activeID = id
			return nil
		}
	}
	return ErrUnknownRoute
}

// Active returns the active candidate, or nil when there are no candidates.
func (s *RouteSelection) Active() *domain.RouteCandidate {
	for i := range s.candidates {
		if s.candidates[i].ID == s.activeID {
			c := s.candidates[i]
			return &c
		}
	}
	return nil
}

// Candidates returns a copy of the candidate set.
func (s *RouteSelection) Candidates() []domain.RouteCandidate {
	out := make([]domain.RouteCandidate, len(s.candidates))
	copy(out, s.candidates)
	return out
}
