package api

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"laundry-reservation/internal/apiclient"
	"laundry-reservation/internal/reservation"
)

// Handler holds shared dependencies for API handlers.
type Handler struct {
	store *reservation.Store
}

// NewHandler creates a new API handler.
func NewHandler(s *reservation.Store) *Handler {
	return &Handler{store: s}
}

// respondError maps store and backend errors onto HTTP statuses. A backend 401
// also drops the local session so the user is asked to sign in again.
func (h *Handler) respondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	message := err.Error()

	switch {
	case errors.Is(err, reservation.ErrNotSignedIn):
		status = http.StatusUnauthorized
	case errors.Is(err, reservation.ErrRestricted):
		status = http.StatusForbidden
	case errors.Is(err, reservation.ErrAlreadyReserved), errors.Is(err, reservation.ErrNotReservable):
		status = http.StatusConflict
	case errors.Is(err, reservation.ErrNoReservation), errors.Is(err, reservation.ErrUnknownMachine):
		status = http.StatusNotFound
	default:
		var apiErr *apiclient.Error
		if errors.As(err, &apiErr) {
			message = apiErr.Message
			status = apiErr.Status
			if status == 0 {
				status = http.StatusBadGateway
			}
			if status == http.StatusUnauthorized {
				h.store.InvalidateSession(c.Request.Context())
			}
		}
	}

	if status >= http.StatusInternalServerError {
		log.Printf("Error handling %s %s: %v", c.Request.Method, c.FullPath(), err)
	}
	c.JSON(status, gin.H{"error": message})
}

func paramID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return 0, false
	}
	return id, true
}
