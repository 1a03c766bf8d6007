package tests

import (
	"testing"
	"time"

	"bookride/internal/domain"
	"bookride/internal/service"
)

// eastboundRoute builds n equally spaced points along the equator.
func eastboundRoute(n int) []domain.Coordinate {
	route := make([]domain.Coordinate, n)
	for i := range route {
		route[i] = domain.Coordinate{Lat: 0, Lng: float64(i) * 0.001}
	}
	return route
}

func collectTicks(t *testing.T, route []domain.Coordinate, step int, interval time.Duration) []service.TickSnapshot {
	t.Helper()

	ticks := make(chan service.TickSnapshot, 64)
	sim := service.NewSimulationSession(route, step, interval, 65, func(snap service.TickSnapshot) {
		ticks <- snap
	})
	sim.Start()
	defer sim.Stop()

	var got []service.TickSnapshot
	deadline := time.After(5 * time.Second)
	for {
		select {
		case snap := <-ticks:
			got = append(got, snap)
			if snap.Done {
				return got
			}
		case <-deadline:
			t.Fatalf("simulation never finished; collected %d ticks", len(got))
		}
	}
}

func TestSimulation_TerminatesAtFinalIndex(t *testing.T) {
	t.Parallel()

	route := eastboundRoute(7)
	got := collectTicks(t, route, 3, 10*time.Millisecond)

	// Seed at 0, then 3, then clamped to 6.
	if len(got) != 3 {
		t.Fatalf("tick count = %d, want 3", len(got))
	}
	if got[0].Position.RouteIndex != 0 {
		t.Errorf("seed index = %d, want 0", got[0].Position.RouteIndex)
	}
	final := got[len(got)-1]
	if final.Position.RouteIndex != len(route)-1 {
		t.Errorf("final index = %d, want %d", final.Position.RouteIndex, len(route)-1)
	}
	if final.RemainingMiles != 0 {
		t.Errorf("final remaining = %f, want 0", final.RemainingMiles)
	}
	if final.EtaMinutes != 0 {
		t.Errorf("final eta = %d, want 0", final.EtaMinutes)
	}
	if final.Position.Coordinate != route[len(route)-1] {
		t.Errorf("final position = %+v, want %+v", final.Position.Coordinate, route[len(route)-1])
	}
}

func TestSimulation_StepNeverOvershoots(t *testing.T) {
	t.Parallel()

	// Step larger than the remaining points clamps to the last index.
	route := eastboundRoute(4)
	got := collectTicks(t, route, 10, 10*time.Millisecond)

	final := got[len(got)-1]
	if final.Position.RouteIndex != 3 {
		t.Errorf("final index = %d, want 3", final.Position.RouteIndex)
	}
}

func TestSimulation_DegenerateRouteIsDone(t *testing.T) {
	t.Parallel()

	var seed *service.TickSnapshot
	sim := service.NewSimulationSession([]domain.Coordinate{{Lat: 1, Lng: 1}}, 2, time.Hour, 65, func(snap service.TickSnapshot) {
		s := snap
		seed = &s
	})
	sim.Start()
	defer sim.Stop()

	if seed == nil {
		t.Fatal("no seed snapshot emitted")
	}
	if !seed.Done {
		t.Error("single-point route should be done at seed time")
	}
}

func TestSimulation_SpeedClampedToMaximum(t *testing.T) {
	t.Parallel()

	// A full degree of longitude per 10ms tick is far beyond any road speed.
	route := []domain.Coordinate{
		{Lat: 0, Lng: 0},
		{Lat: 0, Lng: 1},
		{Lat: 0, Lng: 2},
	}
	got := collectTicks(t, route, 1, 10*time.Millisecond)

	for _, snap := range got[1:] {
		if snap.Position.SpeedMph > 65 {
			t.Errorf("speed = %f, want clamped to 65", snap.Position.SpeedMph)
		}
	}
}

func TestSimulation_ReportsUpcomingTurn(t *testing.T) {
	t.Parallel()

	// East along the equator, then a hard left turn to the north.
	route := []domain.Coordinate{
		{Lat: 0, Lng: 0},
		{Lat: 0, Lng: 0.005},
		{Lat: 0, Lng: 0.01},
		{Lat: 0.005, Lng: 0.01},
		{Lat: 0.01, Lng: 0.01},
	}

	var seed *service.TickSnapshot
	sim := service.NewSimulationSession(route, 1, time.Hour, 65, func(snap service.TickSnapshot) {
		if seed == nil {
			s := snap
			seed = &s
		}
	})
	sim.Start()
	defer sim.Stop()

	if seed == nil || seed.NextTurn == nil {
		t.Fatalf("no upcoming turn reported in seed snapshot: %+v", seed)
	}
	if seed.NextTurn.Maneuver != "left" {
		t.Errorf("maneuver = %s, want left", seed.NextTurn.Maneuver)
	}
	if seed.NextTurn.DistanceFeet <= 0 {
		t.Errorf("turn distance = %d, want > 0", seed.NextTurn.DistanceFeet)
	}
}

func TestSimulation_StraightRouteHasNoTurn(t *testing.T) {
	t.Parallel()

	var seed *service.TickSnapshot
	sim := service.NewSimulationSession(eastboundRoute(10), 1, time.Hour, 65, func(snap service.TickSnapshot) {
		if seed == nil {
			s := snap
			seed = &s
		}
	})
	sim.Start()
	defer sim.Stop()

	if seed == nil {
		t.Fatal("no seed snapshot emitted")
	}
	if seed.NextTurn != nil {
		t.Errorf("straight route reported turn %+v", seed.NextTurn)
	}
}

func TestRouteKey_ContentDerived(t *testing.T) {
	t.Parallel()

	a := eastboundRoute(10)
	b := eastboundRoute(10)
	if service.RouteKey(a) != service.RouteKey(b) {
		t.Error("identical routes produced different keys")
	}

	if service.RouteKey(a) == service.RouteKey(eastboundRoute(11)) {
		t.Error("routes of different length share a key")
	}

	shifted := eastboundRoute(10)
	shifted[len(shifted)-1].Lat = 0.5
	if service.RouteKey(a) == service.RouteKey(shifted) {
		t.Error("routes with different endpoints share a key")
	}

	if service.RouteKey(nil) != service.RouteKey([]domain.Coordinate{}) {
		t.Error("empty route keys differ")
	}
}
