// Package handler exposes the services over HTTP with gin.
package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"preschool/internal/admission"
	"preschool/internal/apperr"
	"preschool/internal/attendance"
	"preschool/internal/auth"
	"preschool/internal/httpmiddleware"
	"preschool/internal/logging"
	"preschool/internal/media"
	"preschool/internal/users"
)

var errMalformedBody = errors.New("malformed request body")

// HealthCheck reports whether one dependency is reachable.
type HealthCheck func(ctx context.Context) bool

// Handler holds the services behind the HTTP API.
type Handler struct {
	apps       *admission.Service
	attendance *attendance.Service
	users      *users.Service
	media      *media.Service
	sessions   *auth.Manager
	limiter    httpmiddleware.Limiter
	checks     map[string]HealthCheck
	reporter   *logging.Reporter
	log        *slog.Logger
}

// Deps lists what New wires together. Limiter, Checks and Reporter may be nil.
type Deps struct {
	Applications *admission.Service
	Attendance   *attendance.Service
	Users        *users.Service
	Media        *media.Service
	Sessions     *auth.Manager
	Limiter      httpmiddleware.Limiter
	Checks       map[string]HealthCheck
	Reporter     *logging.Reporter
}

func New(d Deps, log *slog.Logger) *Handler {
	if log == nil {
		log = slog.Default()
	}
	return &Handler{
		apps:       d.Applications,
		attendance: d.Attendance,
		users:      d.Users,
		media:      d.Media,
		sessions:   d.Sessions,
		limiter:    d.Limiter,
		checks:     d.Checks,
		reporter:   d.Reporter,
		log:        log.With(logging.Module("handler")),
	}
}

// ---------- Health ----------

func (h *Handler) Healthz(c *gin.Context) {
	body := gin.H{"status": "ok"}
	status := http.StatusOK
	for name, check := range h.checks {
		ok := check(c.Request.Context())
		body[name] = ok
		if !ok {
			status = http.StatusServiceUnavailable
			body["status"] = "degraded"
		}
	}
	c.JSON(status, body)
}

// fail maps a service error onto a status code and JSON body.
func (h *Handler) fail(c *gin.Context, err error) {
	var verr *apperr.ValidationError
	switch {
	case errors.As(err, &verr):
		body := gin.H{"error": verr.Error()}
		if len(verr.Fields) > 0 {
			fields := make(map[string]string, len(verr.Fields))
			for _, f := range verr.Fields {
				fields[f.Field] = f.Error
			}
			body["fields"] = fields
		}
		c.JSON(http.StatusBadRequest, body)
	case errors.Is(err, apperr.ErrUnauthenticated):
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
	case errors.Is(err, apperr.ErrUnauthorized):
		c.JSON(http.StatusForbidden, gin.H{"error": apperr.ErrUnauthorized.Error()})
	case errors.Is(err, apperr.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, apperr.ErrPrecondition):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		h.reporter.Report("request failed", err, map[string]interface{}{
			"method": c.Request.Method,
			"route":  c.FullPath(),
		})
		if h.reporter == nil {
			h.log.Error("request failed", slog.String("route", c.FullPath()), logging.Err(err))
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}

func (h *Handler) bind(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		h.fail(c, apperr.NewValidationError(errMalformedBody))
		return false
	}
	return true
}

func (h *Handler) pathID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		h.fail(c, apperr.NewValidationError(errors.New("invalid id"),
			apperr.FieldError{Field: "id", Error: "must be a positive integer"}))
		return 0, false
	}
	return id, true
}

func queryInt(c *gin.Context, key string, fallback int) int {
	if v := c.Query(key); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			return parsed
		}
	}
	return fallback
}

type outcomeRequest struct {
	Outcome string `json:"outcome"`
}
