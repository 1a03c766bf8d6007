package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"bookride/internal/domain"
	"bookride/internal/repository"
)

// TripHandler serves the persisted trip history.
type TripHandler struct {
	records repository.TripRecordRepository
}

// NewTripHandler creates a new TripHandler.
func NewTripHandler(records repository.TripRecordRepository) *TripHandler {
	return &TripHandler{records: records}
}

// TripRecordResponse is the HTTP shape of a persisted trip outcome.
type TripRecordResponse struct {
	ID              string  `json:"id"`
	SessionID       string  `json:"session_id"`
	Status          string  `json:"status"`
	PickupLat       float64 `json:"pickup_lat"`
	PickupLng       float64 `json:"pickup_lng"`
	DropoffLat      float64 `json:"dropoff_lat"`
	DropoffLng      float64 `json:"dropoff_lng"`
	RouteSummary    string  `json:"route_summary,omitempty"`
	DistanceMiles   float64 `json:"distance_miles"`
	DurationSeconds int     `json:"duration_seconds"`
	VehicleCategory string  `json:"vehicle_category"`
	DriverName      string  `json:"driver_name,omitempty"`
	PlateNumber     string  `json:"plate_number,omitempty"`
	PromoCode       string  `json:"promo_code,omitempty"`
	OriginalFare    int64   `json:"original_fare"`
	DiscountAmount  int64   `json:"discount_amount"`
	FinalFare       int64   `json:"final_fare"`
	CancelReason    string  `json:"cancel_reason,omitempty"`
	StartedAt       string  `json:"started_at,omitempty"`
	EndedAt         string  `json:"ended_at"`
}

// GetAll handles GET /v1/trips
func (h *TripHandler) GetAll(c *gin.Context) {
	records, err := h.records.GetAll(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	out := make([]TripRecordResponse, 0, len(records))
	for _, record := range records {
		out = append(out, toTripRecordResponse(record))
	}
	respondJSON(c, http.StatusOK, out)
}

// GetTrip handles GET /v1/trips/:id
func (h *TripHandler) GetTrip(c *gin.Context) {
	record, err := h.records.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	respondJSON(c, http.StatusOK, toTripRecordResponse(record))
}

func toTripRecordResponse(record *domain.TripRecord) TripRecordResponse {
	resp := TripRecordResponse{
		ID:              record.ID,
		SessionID:       record.SessionID,
		Status:          string(record.Status),
		PickupLat:       record.Pickup.Lat,
		PickupLng:       record.Pickup.Lng,
		DropoffLat:      record.Dropoff.Lat,
		DropoffLng:      record.Dropoff.Lng,
		RouteSummary:    record.RouteSummary,
		DistanceMiles:   record.DistanceMiles,
		DurationSeconds: record.DurationSeconds,
		VehicleCategory: record.VehicleCategory,
		DriverName:      record.DriverName,
		PlateNumber:     record.PlateNumber,
		PromoCode:       record.PromoCode,
		OriginalFare:    int64(record.OriginalFare),
		DiscountAmount:  int64(record.DiscountAmount),
		FinalFare:       int64(record.FinalFare),
		CancelReason:    record.CancelReason,
		EndedAt:         record.EndedAt.Format(time.RFC3339),
	}
	if !record.StartedAt.IsZero() {
		resp.StartedAt = record.StartedAt.Format(time.RFC3339)
	}
	return resp
}
