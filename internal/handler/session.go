package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"bookride/internal/domain"
	"bookride/internal/service"
)

// SessionHandler handles HTTP requests for trip sessions.
type SessionHandler struct {
	sessions *service.SessionService
	promos   *service.PromotionService
}

// NewSessionHandler creates a new SessionHandler.
func NewSessionHandler(sessions *service.SessionService, promos *service.PromotionService) *SessionHandler {
	return &SessionHandler{
		sessions: sessions,
		promos:   promos,
	}
}

// CreateSessionRequest is the HTTP request body for creating a session.
type CreateSessionRequest struct {
	PickupLat  float64 `json:"pickup_lat"`
	PickupLng  float64 `json:"pickup_lng"`
	DropoffLat float64 `json:"dropoff_lat"`
	DropoffLng float64 `json:"dropoff_lng"`
}

// SelectRouteRequest is the HTTP request body for switching the active route.
type SelectRouteRequest struct {
	RouteID string `json:"route_id"`
}

// SelectCategoryRequest is the HTTP request body for switching the vehicle
// category.
type SelectCategoryRequest struct {
	CategoryID string `json:"category_id"`
}

// ApplyPromoRequest is the HTTP request body for applying a promotion.
type ApplyPromoRequest struct {
	Code string `json:"code"`
}

// CancelSessionRequest is the HTTP request body for cancelling.
type CancelSessionRequest struct {
	Reason string `json:"reason,omitempty"`
}

// CreateSession handles POST /v1/sessions
func (h *SessionHandler) CreateSession(c *gin.Context) {
	var req CreateSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	sess, err := h.sessions.Create(c.Request.Context(),
		domain.Coordinate{Lat: req.PickupLat, Lng: req.PickupLng},
		domain.Coordinate{Lat: req.DropoffLat, Lng: req.DropoffLng},
	)
	if err != nil {
		respondError(c, err)
		return
	}
	respondJSON(c, http.StatusCreated, sess.Snapshot(time.Now()))
}

// GetSession handles GET /v1/sessions/:id
func (h *SessionHandler) GetSession(c *gin.Context) {
	sess, err := h.sessions.Get(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	respondJSON(c, http.StatusOK, sess.Snapshot(time.Now()))
}

// SelectRoute handles POST /v1/sessions/:id/route
func (h *SessionHandler) SelectRoute(c *gin.Context) {
	var req SelectRouteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}
	h.apply(c, func(sess *service.TripSession) error {
		return sess.SelectRoute(req.RouteID)
	})
}

// SelectCategory handles POST /v1/sessions/:id/category
func (h *SessionHandler) SelectCategory(c *gin.Context) {
	var req SelectCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}
	h.apply(c, func(sess *service.TripSession) error {
		return sess.SetCategory(req.CategoryID)
	})
}

// ApplyPromo handles POST /v1/sessions/:id/promo
func (h *SessionHandler) ApplyPromo(c *gin.Context) {
	var req ApplyPromoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	promo, err := h.promos.ByCode(c.Request.Context(), req.Code)
	if err != nil {
		respondError(c, err)
		return
	}
	h.apply(c, func(sess *service.TripSession) error {
		return sess.ApplyPromo(promo)
	})
}

// ClearPromo handles DELETE /v1/sessions/:id/promo
func (h *SessionHandler) ClearPromo(c *gin.Context) {
	h.apply(c, func(sess *service.TripSession) error {
		return sess.ClearPromo()
	})
}

// Confirm handles POST /v1/sessions/:id/confirm
func (h *SessionHandler) Confirm(c *gin.Context) {
	h.apply(c, func(sess *service.TripSession) error {
		return sess.Confirm()
	})
}

// Dispatch handles POST /v1/sessions/:id/dispatch
func (h *SessionHandler) Dispatch(c *gin.Context) {
	h.apply(c, func(sess *service.TripSession) error {
		return sess.Dispatch()
	})
}

// Match handles POST /v1/sessions/:id/match
func (h *SessionHandler) Match(c *gin.Context) {
	h.apply(c, func(sess *service.TripSession) error {
		return sess.Match(c.Request.Context())
	})
}

// StartTrip handles POST /v1/sessions/:id/start
func (h *SessionHandler) StartTrip(c *gin.Context) {
	h.apply(c, func(sess *service.TripSession) error {
		return sess.StartTrip(c.Request.Context())
	})
}

// CompleteTrip handles POST /v1/sessions/:id/complete
func (h *SessionHandler) CompleteTrip(c *gin.Context) {
	h.apply(c, func(sess *service.TripSession) error {
		return sess.CompleteTrip(c.Request.Context())
	})
}

// Cancel handles POST /v1/sessions/:id/cancel
func (h *SessionHandler) Cancel(c *gin.Context) {
	var req CancelSessionRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
			return
		}
	}
	h.apply(c, func(sess *service.TripSession) error {
		return sess.Cancel(c.Request.Context(), req.Reason)
	})
}

// Reset handles POST /v1/sessions/:id/reset
func (h *SessionHandler) Reset(c *gin.Context) {
	sess, err := h.sessions.Get(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	if err := h.sessions.Reset(c.Request.Context(), sess.ID()); err != nil {
		respondError(c, err)
		return
	}
	respondJSON(c, http.StatusOK, sess.Snapshot(time.Now()))
}

// Interaction handles POST /v1/sessions/:id/interaction
func (h *SessionHandler) Interaction(c *gin.Context) {
	sess, err := h.sessions.Get(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	accepted := sess.Interaction(time.Now())
	respondJSON(c, http.StatusOK, gin.H{"accepted": accepted})
}

// IngestFeed handles POST /v1/sessions/:id/feed
func (h *SessionHandler) IngestFeed(c *gin.Context) {
	var update domain.LivePosition
	if err := c.ShouldBindJSON(&update); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}
	h.apply(c, func(sess *service.TripSession) error {
		return sess.IngestLive(update)
	})
}

// GetPosition handles GET /v1/sessions/:id/position
func (h *SessionHandler) GetPosition(c *gin.Context) {
	sess, err := h.sessions.Get(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	position, err := sess.Position(time.Now())
	if err != nil {
		respondError(c, err)
		return
	}
	respondJSON(c, http.StatusOK, position)
}

// apply runs a session mutation and responds with the updated snapshot.
func (h *SessionHandler) apply(c *gin.Context, fn func(*service.TripSession) error) {
	sess, err := h.sessions.Get(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	if err := fn(sess); err != nil {
		respondError(c, err)
		return
	}
	respondJSON(c, http.StatusOK, sess.Snapshot(time.Now()))
}
