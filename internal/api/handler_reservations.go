package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"laundry-reservation/internal/reservation"
)

type createReservationRequest struct {
	MachineID string `json:"machineId" binding:"required"`
}

// GetMyReservation returns the signed-in user's reservation, or null.
func (h *Handler) GetMyReservation(c *gin.Context) {
	if h.store.CurrentUser() == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "로그인이 필요합니다."})
		return
	}
	c.JSON(http.StatusOK, gin.H{"reservation": h.store.CurrentReservation()})
}

// CreateReservation reserves a machine for the signed-in user.
func (h *Handler) CreateReservation(c *gin.Context) {
	var req createReservationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	r, err := h.store.CreateReservation(c.Request.Context(), req.MachineID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"reservation": r})
}

// ConfirmReservation confirms the signed-in user's reservation.
func (h *Handler) ConfirmReservation(c *gin.Context) {
	if !h.ownsReservation(c) {
		return
	}
	if err := h.store.ConfirmReservation(c.Request.Context()); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"reservation": h.store.CurrentReservation()})
}

// CancelReservation cancels the signed-in user's reservation.
func (h *Handler) CancelReservation(c *gin.Context) {
	if !h.ownsReservation(c) {
		return
	}
	if err := h.store.CancelReservation(c.Request.Context()); err != nil {
		h.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ownsReservation checks that :id is the server id of the current reservation.
func (h *Handler) ownsReservation(c *gin.Context) bool {
	id, ok := paramID(c)
	if !ok {
		return false
	}
	r := h.store.CurrentReservation()
	if r == nil || r.ServerID == nil || *r.ServerID != id {
		h.respondError(c, reservation.ErrNoReservation)
		return false
	}
	return true
}
