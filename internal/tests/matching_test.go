package tests

import (
	"context"
	"errors"
	"math"
	"testing"

	"bookride/internal/domain"
	"bookride/internal/geo"
	"bookride/internal/service"
)

func TestMatching_FallbackLegWhenRoutingFails(t *testing.T) {
	t.Parallel()

	router := &MockRouter{RouteError: errors.New("provider down")}
	matching := service.NewMatchingService(router, nil)

	result, err := matching.Match(context.Background(), testPickup)
	if err != nil {
		t.Fatalf("match: %v", err)
	}

	if len(result.DriverRoute) != 2 {
		t.Fatalf("fallback leg has %d points, want 2", len(result.DriverRoute))
	}
	if result.DriverRoute[0] != result.StartPoint {
		t.Errorf("leg start = %+v, want %+v", result.DriverRoute[0], result.StartPoint)
	}
	if result.DriverRoute[1] != testPickup {
		t.Errorf("leg end = %+v, want pickup %+v", result.DriverRoute[1], testPickup)
	}

	// Two minutes per straight-line mile, never below one minute.
	miles := geo.Distance(result.StartPoint, testPickup)
	wantEta := int(math.Ceil(miles * 2))
	if wantEta < 1 {
		wantEta = 1
	}
	if result.Driver.PickupEtaMinutes != wantEta {
		t.Errorf("pickup eta = %d, want %d", result.Driver.PickupEtaMinutes, wantEta)
	}
}

func TestMatching_UsesRoutedLeg(t *testing.T) {
	t.Parallel()

	legPoints := []domain.Coordinate{
		{Lat: 40.7200, Lng: -74.0100},
		{Lat: 40.7160, Lng: -74.0080},
		{Lat: 40.7128, Lng: -74.0060},
	}
	router := &MockRouter{
		Candidates: []domain.RouteCandidate{{
			ID:                       "leg-1",
			Polyline:                 geo.EncodePolyline(legPoints),
			DurationSeconds:          300,
			DurationInTrafficSeconds: 240,
		}},
	}
	matching := service.NewMatchingService(router, nil)

	result, err := matching.Match(context.Background(), testPickup)
	if err != nil {
		t.Fatalf("match: %v", err)
	}

	if len(result.DriverRoute) != len(legPoints) {
		t.Fatalf("routed leg has %d points, want %d", len(result.DriverRoute), len(legPoints))
	}
	// ceil(240/60) = 4, from the traffic-aware duration.
	if result.Driver.PickupEtaMinutes != 4 {
		t.Errorf("pickup eta = %d, want 4", result.Driver.PickupEtaMinutes)
	}
}

func TestMatching_DriverFieldsPopulated(t *testing.T) {
	t.Parallel()

	matching := service.NewMatchingService(nil, nil)

	result, err := matching.Match(context.Background(), testPickup)
	if err != nil {
		t.Fatalf("match: %v", err)
	}

	driver := result.Driver
	if driver == nil {
		t.Fatal("no driver assignment")
	}
	if driver.Name == "" || driver.PlateNumber == "" || driver.VehicleModel == "" {
		t.Errorf("incomplete driver profile: %+v", driver)
	}
	if driver.Rating < 4.0 || driver.Rating > 5.0 {
		t.Errorf("rating = %f, want within [4.0, 5.0]", driver.Rating)
	}
	if driver.AvatarInitials == "" {
		t.Errorf("missing avatar initials")
	}
	if result.DriverID == "" {
		t.Errorf("missing driver id")
	}
}

func TestMatching_RegistersAndReleasesDriver(t *testing.T) {
	t.Parallel()

	store := NewMockDriverLocationStore()
	matching := service.NewMatchingService(nil, store)
	ctx := context.Background()

	result, err := matching.Match(ctx, testPickup)
	if err != nil {
		t.Fatalf("match: %v", err)
	}
	if store.CountEntries() != 1 {
		t.Fatalf("indexed drivers after match = %d, want 1", store.CountEntries())
	}

	if err := matching.Release(ctx, result.DriverID, result.StartPoint); err != nil {
		t.Fatalf("release: %v", err)
	}
	if store.CountEntries() != 0 {
		t.Errorf("indexed drivers after release = %d, want 0", store.CountEntries())
	}
	if store.RemoveCallCount != 1 {
		t.Errorf("remove calls = %d, want 1", store.RemoveCallCount)
	}
}

func TestMatching_ReusesIndexedDriver(t *testing.T) {
	t.Parallel()

	store := NewMockDriverLocationStore()
	ctx := context.Background()

	// An idle driver already sits one mile north of the pickup.
	idleAt := domain.Coordinate{Lat: testPickup.Lat + 1.0/69.0, Lng: testPickup.Lng}
	if err := store.Register(ctx, "idle-1", idleAt.Lat, idleAt.Lng); err != nil {
		t.Fatal(err)
	}

	matching := service.NewMatchingService(nil, store)
	result, err := matching.Match(ctx, testPickup)
	if err != nil {
		t.Fatalf("match: %v", err)
	}

	if result.DriverID != "idle-1" {
		t.Errorf("driver id = %q, want the indexed idle-1", result.DriverID)
	}
	if result.StartPoint != idleAt {
		t.Errorf("start point = %+v, want the indexed %+v", result.StartPoint, idleAt)
	}
	if store.CountEntries() != 1 {
		t.Errorf("indexed drivers = %d, want still 1", store.CountEntries())
	}
}

func TestMatching_IndexLookupFailureDegrades(t *testing.T) {
	t.Parallel()

	store := NewMockDriverLocationStore()
	store.NearbyError = errors.New("redis down")
	matching := service.NewMatchingService(nil, store)

	result, err := matching.Match(context.Background(), testPickup)
	if err != nil {
		t.Fatalf("match: %v", err)
	}
	if result.DriverID == "" || result.Driver == nil {
		t.Errorf("degraded match incomplete: %+v", result)
	}
}

func TestMatching_StartPointNearPickup(t *testing.T) {
	t.Parallel()

	matching := service.NewMatchingService(nil, nil)

	// The synthesized start point lands 0.6-1.4 miles out; allow slack for
	// the flat-earth degree conversion.
	for i := 0; i < 20; i++ {
		result, err := matching.Match(context.Background(), testPickup)
		if err != nil {
			t.Fatalf("match: %v", err)
		}
		miles := geo.Distance(result.StartPoint, testPickup)
		if miles < 0.4 || miles > 1.7 {
			t.Errorf("start point %f miles from pickup, want roughly 0.6-1.4", miles)
		}
	}
}
