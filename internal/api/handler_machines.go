package api

import (
	"net/http"
	"slices"
	"strconv"

	"github.com/gin-gonic/gin"

	"laundry-reservation/internal/jobstate"
	"laundry-reservation/internal/model"
	"laundry-reservation/internal/parse"
)

type machineResponse struct {
	model.Machine
	Display   jobstate.Info `json:"display"`
	Remaining string        `json:"remaining"`
}

func newMachineResponse(m model.Machine) machineResponse {
	remaining := 0
	if m.NextAvailableSeconds != nil {
		remaining = *m.NextAvailableSeconds
	}
	return machineResponse{
		Machine:   m,
		Display:   jobstate.Lookup(m.Type, m.JobState),
		Remaining: parse.FormatDuration(remaining),
	}
}

// GetMachines lists machines on the user's accessible floors, or on one floor via ?floor=.
func (h *Handler) GetMachines(c *gin.Context) {
	floors := h.store.CurrentAccessibleFloors()
	if raw := c.Query("floor"); raw != "" {
		floor, err := strconv.Atoi(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid floor"})
			return
		}
		if !slices.Contains(floors, floor) {
			c.JSON(http.StatusForbidden, gin.H{"error": "접근할 수 없는 층입니다."})
			return
		}
		floors = []int{floor}
	}

	machines := h.store.MachinesOnFloors(floors)
	out := make([]machineResponse, 0, len(machines))
	for _, m := range machines {
		out = append(out, newMachineResponse(m))
	}
	c.JSON(http.StatusOK, gin.H{"machines": out, "loading": h.store.Loading()})
}

// GetMachine returns one machine with its operating state, reservation and, for a
// signed-in user, whether they may reserve it.
func (h *Handler) GetMachine(c *gin.Context) {
	id := c.Param("id")
	m, ok := h.store.Machine(id)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "존재하지 않는 기기입니다."})
		return
	}

	resp := gin.H{
		"machine":        newMachineResponse(m),
		"operatingState": h.store.MachineOperatingStateInfo(id),
		"reservation":    h.store.MachineReservationInfo(id),
	}
	if user := h.store.CurrentUser(); user != nil {
		resp["eligibility"] = h.store.CanReserveMachine(id, user.RoomNumber)
	}
	c.JSON(http.StatusOK, resp)
}

type reportRequest struct {
	Description string `json:"description" binding:"required"`
}

// ReportMachine files a malfunction report.
func (h *Handler) ReportMachine(c *gin.Context) {
	var req reportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	if err := h.store.ReportMachine(c.Request.Context(), c.Param("id"), req.Description); err != nil {
		h.respondError(c, err)
		return
	}
	c.Status(http.StatusCreated)
}
