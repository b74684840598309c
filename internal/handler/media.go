package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"preschool/internal/apperr"
	"preschool/internal/auth"
	"preschool/internal/media"
)

// ---------- Banners ----------

func (h *Handler) PublicBanners(c *gin.Context) {
	list, err := h.media.ActiveBanners(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"banners": list})
}

func (h *Handler) ListBanners(c *gin.Context) {
	list, err := h.media.Banners(c.Request.Context(), auth.ActorFrom(c).Role)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"banners": list})
}

func (h *Handler) CreateBanner(c *gin.Context) {
	var req media.BannerInput
	if !h.bind(c, &req) {
		return
	}
	b, err := h.media.CreateBanner(c.Request.Context(), req, auth.ActorFrom(c).Role)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, b)
}

func (h *Handler) UpdateBanner(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}
	var req media.BannerInput
	if !h.bind(c, &req) {
		return
	}
	b, err := h.media.UpdateBanner(c.Request.Context(), id, req, auth.ActorFrom(c).Role)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, b)
}

func (h *Handler) DeleteBanner(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}
	if err := h.media.DeleteBanner(c.Request.Context(), id, auth.ActorFrom(c).Role); err != nil {
		h.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ---------- Gallery ----------

func (h *Handler) PublicGallery(c *gin.Context) {
	list, err := h.media.Gallery(c.Request.Context(), media.Kind(c.Query("type")))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": list})
}

func (h *Handler) ListGallery(c *gin.Context) {
	list, err := h.media.AdminGallery(c.Request.Context(), media.Kind(c.Query("type")), auth.ActorFrom(c).Role)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": list})
}

func (h *Handler) CreateGalleryItem(c *gin.Context) {
	var req media.GalleryInput
	if !h.bind(c, &req) {
		return
	}
	it, err := h.media.CreateGalleryItem(c.Request.Context(), req, auth.ActorFrom(c).Role)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, it)
}

func (h *Handler) UpdateGalleryItem(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}
	var req media.GalleryInput
	if !h.bind(c, &req) {
		return
	}
	it, err := h.media.UpdateGalleryItem(c.Request.Context(), id, req, auth.ActorFrom(c).Role)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, it)
}

func (h *Handler) DeleteGalleryItem(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}
	if err := h.media.DeleteGalleryItem(c.Request.Context(), id, auth.ActorFrom(c).Role); err != nil {
		h.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ---------- Uploads ----------

// UploadMedia expects a multipart form with a "file" field, or a JSON
// body naming a data URL or remote URL, and returns the CDN URL.
func (h *Handler) UploadMedia(c *gin.Context) {
	if !auth.Can(auth.ActorFrom(c).Role, auth.CapManageMedia) {
		h.fail(c, apperr.ErrUnauthorized)
		return
	}
	if c.ContentType() == gin.MIMEJSON {
		h.uploadSource(c)
		return
	}
	file, header, err := c.Request.FormFile("file")
	if err != nil {
		h.fail(c, apperr.NewValidationError(errors.New("file is required"),
			apperr.FieldError{Field: "file", Error: "this field is required"}))
		return
	}
	defer file.Close()

	res, err := h.media.Upload(c.Request.Context(), file, header.Filename, header.Header.Get("Content-Type"), auth.ActorFrom(c).Role)
	h.uploaded(c, res, err)
}

func (h *Handler) uploadSource(c *gin.Context) {
	var req media.SourceUpload
	if !h.bind(c, &req) {
		return
	}
	res, err := h.media.UploadSource(c.Request.Context(), req, auth.ActorFrom(c).Role)
	h.uploaded(c, res, err)
}

func (h *Handler) uploaded(c *gin.Context, res media.Upload, err error) {
	if err != nil {
		if errors.Is(err, media.ErrUploadsDisabled) {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "media storage not configured"})
			return
		}
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, res)
}
