package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"preschool/internal/attendance"
	"preschool/internal/auth"
)

// ---------- Attendance ----------

func (h *Handler) ClockIn(c *gin.Context) {
	e, err := h.attendance.ClockIn(c.Request.Context(), auth.ActorFrom(c))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, e)
}

func (h *Handler) ClockOut(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}
	e, err := h.attendance.ClockOut(c.Request.Context(), id, auth.ActorFrom(c))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, e)
}

func (h *Handler) MyAttendance(c *gin.Context) {
	entries, err := h.attendance.Mine(c.Request.Context(), auth.ActorFrom(c),
		queryInt(c, "limit", 50), queryInt(c, "offset", 0))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"entries": entries})
}

// ListAttendance accepts subject_id, status, limit and offset query parameters.
func (h *Handler) ListAttendance(c *gin.Context) {
	f := attendance.Filter{
		Status: attendance.Status(c.Query("status")),
		Limit:  queryInt(c, "limit", 50),
		Offset: queryInt(c, "offset", 0),
	}
	if v := c.Query("subject_id"); v != "" {
		if parsed, err := strconv.ParseInt(v, 10, 64); err == nil {
			f.SubjectID = parsed
		}
	}
	entries, err := h.attendance.List(c.Request.Context(), f, auth.ActorFrom(c).Role)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"entries": entries})
}

func (h *Handler) DecideAttendance(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}
	var req outcomeRequest
	if !h.bind(c, &req) {
		return
	}
	e, err := h.attendance.Decide(c.Request.Context(), id, attendance.Status(req.Outcome), auth.ActorFrom(c).Role)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, e)
}

func (h *Handler) DeleteAttendance(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}
	if err := h.attendance.Delete(c.Request.Context(), id, auth.ActorFrom(c).Role); err != nil {
		h.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
