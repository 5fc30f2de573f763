package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type signInRequest struct {
	SchoolNumber string `json:"schoolNumber" binding:"required"`
	Password     string `json:"password" binding:"required"`
}

// SignIn authenticates against the backend and keeps the session locally.
func (h *Handler) SignIn(c *gin.Context) {
	var req signInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	user, err := h.store.SignIn(c.Request.Context(), req.SchoolNumber, req.Password)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": user})
}

// SignOut ends the session. The local session is cleared even if the backend call fails.
func (h *Handler) SignOut(c *gin.Context) {
	if err := h.store.SignOut(c.Request.Context()); err != nil {
		h.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// GetMe refreshes and returns the signed-in user with their reservation.
func (h *Handler) GetMe(c *gin.Context) {
	if h.store.CurrentUser() == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "로그인이 필요합니다."})
		return
	}
	if err := h.store.FetchMyInfo(c.Request.Context()); err != nil {
		h.respondError(c, err)
		return
	}

	user := h.store.CurrentUser()
	if user == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "로그인이 필요합니다."})
		return
	}
	now := h.store.Now()
	c.JSON(http.StatusOK, gin.H{
		"user":                 user,
		"restricted":           user.IsRestricted(now),
		"restrictionRemaining": user.RestrictionRemaining(now),
		"reservation":          h.store.CurrentReservation(),
		"accessibleFloors":     h.store.CurrentAccessibleFloors(),
	})
}

// GetFloors returns the floors the signed-in user may see.
func (h *Handler) GetFloors(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"floors": h.store.CurrentAccessibleFloors()})
}
