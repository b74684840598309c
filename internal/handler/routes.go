package handler

import (
	"github.com/gin-gonic/gin"

	"preschool/internal/auth"
	"preschool/internal/httpmiddleware"
)

// Register mounts every API route on r. Sessions are resolved for all of
// /api/v1; staff groups additionally require one.
func (h *Handler) Register(r gin.IRouter) {
	r.GET("/healthz", h.Healthz)

	limit := func(scope string) gin.HandlerFunc {
		if h.limiter == nil {
			return func(c *gin.Context) { c.Next() }
		}
		return httpmiddleware.RateLimit(h.limiter, scope, h.log)
	}

	api := r.Group("/api/v1", auth.SessionAuth(h.sessions))
	{
		api.GET("/programs", h.ListPrograms)
		api.POST("/applications", limit("submit"), h.SubmitApplication)
		api.GET("/banners", h.PublicBanners)
		api.GET("/gallery", h.PublicGallery)

		api.POST("/auth/login", limit("login"), h.Login)
		api.POST("/auth/logout", auth.RequireSession(), h.Logout)
		api.GET("/auth/me", auth.RequireSession(), h.Me)
	}

	att := api.Group("/attendance", auth.RequireSession())
	{
		att.POST("/clock-in", h.ClockIn)
		att.POST("/:id/clock-out", h.ClockOut)
		att.GET("/mine", h.MyAttendance)
	}

	admin := api.Group("/admin", auth.RequireSession())
	{
		admin.GET("/applications", h.ListApplications)
		admin.GET("/applications/:id", h.GetApplication)
		admin.POST("/applications/:id/recommendation", h.RecommendApplication)
		admin.POST("/applications/:id/confirmation", h.ConfirmApplication)
		admin.POST("/applications/:id/notify", h.ResendNotification)
		admin.DELETE("/applications/:id", h.DeleteApplication)

		admin.GET("/attendance", h.ListAttendance)
		admin.POST("/attendance/:id/decision", h.DecideAttendance)
		admin.DELETE("/attendance/:id", h.DeleteAttendance)

		admin.GET("/users", h.ListUsers)
		admin.POST("/users", h.CreateUser)
		admin.DELETE("/users/:id", h.DeleteUser)

		admin.GET("/banners", h.ListBanners)
		admin.POST("/banners", h.CreateBanner)
		admin.PUT("/banners/:id", h.UpdateBanner)
		admin.DELETE("/banners/:id", h.DeleteBanner)

		admin.GET("/gallery", h.ListGallery)
		admin.POST("/gallery", h.CreateGalleryItem)
		admin.PUT("/gallery/:id", h.UpdateGalleryItem)
		admin.DELETE("/gallery/:id", h.DeleteGalleryItem)

		admin.POST("/media", h.UploadMedia)
	}
}
