package service

import (
	"context"
	"log"
	"time"

	"bookride/internal/domain"
	"bookride/internal/messaging"
)

// Notifier receives trip lifecycle notifications. Implementations must never
// block or fail a state transition; errors are for the caller's log only.
type Notifier interface {
	DriverAssigned(ctx context.Context, sessionID string, driver *domain.DriverAssignment) error
	TripStarted(ctx context.Context, sessionID string) error
	TripCompleted(ctx context.Context, sessionID string, finalFare domain.Cents) error
	TripCancelled(ctx context.Context, sessionID string, reason string) error
}

// EventPublisher is the subset of the RabbitMQ publisher the notification
// service needs.
type EventPublisher interface {
	Publish(ctx context.Context, routingKey string, event messaging.TripEvent) error
}

// NotificationService logs trip notifications and, when a publisher is
// configured, mirrors them onto the event exchange.
type NotificationService struct {
	publisher EventPublisher
}

// NewNotificationService creates a new NotificationService. publisher may be
// nil, in which case notifications only log.
func NewNotificationService(publisher EventPublisher) *NotificationService {
	return &NotificationService{publisher: publisher}
}

var _ Notifier = (*NotificationService)(nil)

// DriverAssigned announces the assigned driver to the rider.
func (s *NotificationService) DriverAssigned(ctx context.Context, sessionID string, driver *domain.DriverAssignment) error {
	log.Printf("[NOTIFICATION] session=%s driver %s assigned, pickup ETA %d min", sessionID, driver.Name, driver.PickupEtaMinutes)
	return s.publish(ctx, messaging.RouteDriverAssigned, sessionID, map[string]any{
		"driver_name":        driver.Name,
		"plate_number":       driver.PlateNumber,
		"pickup_eta_minutes": driver.PickupEtaMinutes,
	})
}

// TripStarted announces that the trip is underway.
func (s *NotificationService) TripStarted(ctx context.Context, sessionID string) error {
	log.Printf("[NOTIFICATION] session=%s trip started", sessionID)
	return s.publish(ctx, messaging.RouteTripStarted, sessionID, nil)
}

// TripCompleted announces arrival and the final fare.
func (s *NotificationService) TripCompleted(ctx context.Context, sessionID string, finalFare domain.Cents) error {
	log.Printf("[NOTIFICATION] session=%s trip completed, fare %s", sessionID, finalFare)
	return s.publish(ctx, messaging.RouteTripCompleted, sessionID, map[string]any{
		"final_fare": finalFare,
	})
}

// TripCancelled announces a cancellation.
func (s *NotificationService) TripCancelled(ctx context.Context, sessionID string, reason string) error {
	log.Printf("[NOTIFICATION] session=%s trip cancelled (%s)", sessionID, reason)
	return s.publish(ctx, messaging.RouteTripCancelled, sessionID, map[string]any{
		"reason": reason,
	})
}

func (s *NotificationService) publish(ctx context.Context, routingKey, sessionID string, data map[string]any) error {
	if s.publisher == nil {
		return nil
	}
	return s.publisher.Publish(ctx, routingKey, messaging.TripEvent{
		SessionID: sessionID,
		Type:      routingKey,
		At:        time.Now(),
		Data:      data,
	})
}
