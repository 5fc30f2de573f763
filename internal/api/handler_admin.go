package api

import (
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// ListUsers refreshes the user list and filters it by ?q= and ?restricted=true.
// A failed refresh falls back to the cached list.
func (h *Handler) ListUsers(c *gin.Context) {
	if err := h.store.FetchUsers(c.Request.Context()); err != nil {
		log.Printf("Serving cached user list: %v", err)
	}
	users := h.store.FilterUsers(c.Query("q"), c.Query("restricted") == "true")
	c.JSON(http.StatusOK, gin.H{"users": users})
}

type restrictRequest struct {
	Until  *time.Time `json:"until"`
	Days   int        `json:"days"`
	Reason string     `json:"reason" binding:"required"`
}

// RestrictUser suspends a user until the given time, or for the given number of days.
func (h *Handler) RestrictUser(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	var req restrictRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	var until time.Time
	switch {
	case req.Until != nil:
		until = *req.Until
	case req.Days > 0:
		until = h.store.Now().AddDate(0, 0, req.Days)
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "until or days is required"})
		return
	}

	if err := h.store.RestrictUserOnServer(c.Request.Context(), id, until, req.Reason); err != nil {
		h.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// UnrestrictUser lifts a restriction.
func (h *Handler) UnrestrictUser(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	if err := h.store.UnrestrictUserOnServer(c.Request.Context(), id); err != nil {
		h.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ListReservations lists every reservation.
func (h *Handler) ListReservations(c *gin.Context) {
	list, err := h.store.FetchAllReservations(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"reservations": list})
}

// ForceCancelReservation cancels any reservation.
func (h *Handler) ForceCancelReservation(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	if err := h.store.ForceCancelReservation(c.Request.Context(), id); err != nil {
		h.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ListReports lists malfunction reports.
func (h *Handler) ListReports(c *gin.Context) {
	reports, err := h.store.FetchReports(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"reports": reports})
}

// ResolveReport marks a report as handled.
func (h *Handler) ResolveReport(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	if err := h.store.ResolveReport(c.Request.Context(), id); err != nil {
		h.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

type outOfOrderRequest struct {
	IsOutOfOrder *bool `json:"isOutOfOrder" binding:"required"`
}

// SetMachineOutOfOrder flags or clears a machine's out-of-order state.
func (h *Handler) SetMachineOutOfOrder(c *gin.Context) {
	var req outOfOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	if err := h.store.SetMachineOutOfOrder(c.Request.Context(), c.Param("id"), *req.IsOutOfOrder); err != nil {
		h.respondError(c, err)
		return
	}
	m, _ := h.store.Machine(c.Param("id"))
	c.JSON(http.StatusOK, gin.H{"machine": newMachineResponse(m)})
}
