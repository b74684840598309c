package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"preschool/internal/admission"
	"preschool/internal/auth"
)

// ---------- Programs ----------

func (h *Handler) ListPrograms(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"programs": admission.Programs})
}

// ---------- Applications ----------

// SubmitApplication is the public admission form.
func (h *Handler) SubmitApplication(c *gin.Context) {
	var req admission.NewApplication
	if !h.bind(c, &req) {
		return
	}
	id, err := h.apps.Submit(c.Request.Context(), req)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": id, "status": admission.StatusPending})
}

func (h *Handler) ListApplications(c *gin.Context) {
	apps, err := h.apps.List(c.Request.Context(), auth.ActorFrom(c).Role)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"applications": apps})
}

func (h *Handler) GetApplication(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}
	app, err := h.apps.Get(c.Request.Context(), id, auth.ActorFrom(c).Role)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, app)
}

func (h *Handler) RecommendApplication(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}
	var req outcomeRequest
	if !h.bind(c, &req) {
		return
	}
	app, err := h.apps.RecordPrincipalRecommendation(c.Request.Context(), id, admission.Outcome(req.Outcome), auth.ActorFrom(c).Role)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, app)
}

func (h *Handler) ConfirmApplication(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}
	var req outcomeRequest
	if !h.bind(c, &req) {
		return
	}
	app, err := h.apps.RecordAdminConfirmation(c.Request.Context(), id, admission.Outcome(req.Outcome), auth.ActorFrom(c).Role)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, app)
}

// ResendNotification queues the status email again.
func (h *Handler) ResendNotification(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}
	if err := h.apps.Resend(c.Request.Context(), id, auth.ActorFrom(c).Role); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusAccepted, gin.H{"id": id, "queued": true})
}

func (h *Handler) DeleteApplication(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}
	if err := h.apps.Delete(c.Request.Context(), id, auth.ActorFrom(c).Role); err != nil {
		h.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
