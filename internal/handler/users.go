package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"preschool/internal/auth"
	"preschool/internal/users"
)

// ---------- Sessions ----------

// Login exchanges credentials for a session token.
func (h *Handler) Login(c *gin.Context) {
	var req users.Credentials
	if !h.bind(c, &req) {
		return
	}
	actor, err := h.users.Authenticate(c.Request.Context(), req)
	if err != nil {
		h.fail(c, err)
		return
	}
	tok, err := h.sessions.Start(c.Request.Context(), actor)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"access_token": tok.AccessToken,
		"expires_at":   tok.ExpiresAt.Unix(),
		"user":         actor,
	})
}

func (h *Handler) Logout(c *gin.Context) {
	if err := h.sessions.End(c.Request.Context(), auth.SessionIDFrom(c)); err != nil {
		h.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) Me(c *gin.Context) {
	c.JSON(http.StatusOK, auth.ActorFrom(c))
}

// ---------- Users ----------

func (h *Handler) ListUsers(c *gin.Context) {
	list, err := h.users.List(c.Request.Context(), auth.ActorFrom(c).Role)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"users": list})
}

func (h *Handler) CreateUser(c *gin.Context) {
	var req users.NewUser
	if !h.bind(c, &req) {
		return
	}
	u, err := h.users.Create(c.Request.Context(), req, auth.ActorFrom(c).Role)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, u)
}

func (h *Handler) DeleteUser(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}
	if err := h.users.Delete(c.Request.Context(), id, auth.ActorFrom(c)); err != nil {
		h.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
