package media

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"preschool/internal/apperr"
	"preschool/internal/auth"
	"preschool/internal/cloudinary"
	"preschool/internal/logging"
)

// DefaultBanners are seeded into an empty banner table.
var DefaultBanners = []BannerInput{
	{URL: "https://images.unsplash.com/photo-1503454537195-1dcabb73ffb9?auto=format&fit=crop&w=1200", AltText: "Nurturing Growth", DisplayOrder: 1},
	{URL: "https://images.unsplash.com/photo-1544367567-0f2fcb009e0b?auto=format&fit=crop&w=1200", AltText: "Creative Play", DisplayOrder: 2},
}

// ErrUploadsDisabled is returned by Upload when no CDN is configured.
var ErrUploadsDisabled = errors.New("media uploads are not configured")

// Uploader stores a file on the CDN.
type Uploader interface {
	Upload(ctx context.Context, rt cloudinary.ResourceType, file io.Reader, filename string) (*cloudinary.UploadResult, error)
	UploadDataURL(ctx context.Context, rt cloudinary.ResourceType, data string) (*cloudinary.UploadResult, error)
}

// Upload is the result of a media upload.
type Upload struct {
	URL      string `json:"url"`
	PublicID string `json:"public_id"`
	Type     Kind   `json:"type"`
}

// Service manages the home page banners and the event gallery.
type Service struct {
	repo     Repository
	uploader Uploader
	log      *slog.Logger
}

// NewService creates a media service. uploader may be nil when uploads are disabled.
func NewService(repo Repository, uploader Uploader, log *slog.Logger) *Service {
	if log == nil {
		log = slog.Default()
	}
	return &Service{repo: repo, uploader: uploader, log: log.With(logging.Module("media.service"))}
}

// ActiveBanners is the public banner carousel.
func (s *Service) ActiveBanners(ctx context.Context) ([]Banner, error) {
	return s.repo.ListBanners(ctx, true)
}

// Banners lists every banner, active or not.
func (s *Service) Banners(ctx context.Context, role auth.Role) ([]Banner, error) {
	if !auth.Can(role, auth.CapReadMedia) {
		return nil, fmt.Errorf("list banners as %s: %w", role, apperr.ErrUnauthorized)
	}
	return s.repo.ListBanners(ctx, false)
}

func (s *Service) CreateBanner(ctx context.Context, in BannerInput, role auth.Role) (Banner, error) {
	if !auth.Can(role, auth.CapManageMedia) {
		return Banner{}, fmt.Errorf("create banner as %s: %w", role, apperr.ErrUnauthorized)
	}
	in.URL = strings.TrimSpace(in.URL)
	if err := apperr.Validate(in); err != nil {
		return Banner{}, err
	}
	b, err := s.repo.InsertBanner(ctx, in.banner())
	if err != nil {
		return Banner{}, fmt.Errorf("insert banner: %w", err)
	}
	s.log.Info("banner created", slog.Int64("id", b.ID))
	return b, nil
}

// UpdateBanner replaces every field of a banner.
func (s *Service) UpdateBanner(ctx context.Context, id int64, in BannerInput, role auth.Role) (Banner, error) {
	if !auth.Can(role, auth.CapManageMedia) {
		return Banner{}, fmt.Errorf("update banner as %s: %w", role, apperr.ErrUnauthorized)
	}
	in.URL = strings.TrimSpace(in.URL)
	if err := apperr.Validate(in); err != nil {
		return Banner{}, err
	}
	b := in.banner()
	b.ID = id
	return s.repo.UpdateBanner(ctx, b)
}

func (s *Service) DeleteBanner(ctx context.Context, id int64, role auth.Role) error {
	if !auth.Can(role, auth.CapManageMedia) {
		return fmt.Errorf("delete banner as %s: %w", role, apperr.ErrUnauthorized)
	}
	return s.repo.DeleteBanner(ctx, id)
}

// SeedBanners inserts DefaultBanners when no banner exists yet.
func (s *Service) SeedBanners(ctx context.Context) (int, error) {
	existing, err := s.repo.ListBanners(ctx, false)
	if err != nil {
		return 0, err
	}
	if len(existing) > 0 {
		return 0, nil
	}
	for _, in := range DefaultBanners {
		if _, err := s.repo.InsertBanner(ctx, in.banner()); err != nil {
			return 0, fmt.Errorf("seed banner %q: %w", in.AltText, err)
		}
	}
	return len(DefaultBanners), nil
}

// Gallery is the public listing, optionally narrowed to one kind.
func (s *Service) Gallery(ctx context.Context, kind Kind) ([]GalleryItem, error) {
	if kind != "" && !kind.Valid() {
		return nil, apperr.NewValidationError(errors.New("invalid gallery type"),
			apperr.FieldError{Field: "type", Error: "must be one of: photo video"})
	}
	return s.repo.ListGallery(ctx, kind)
}

// AdminGallery lists the gallery for staff screens.
func (s *Service) AdminGallery(ctx context.Context, kind Kind, role auth.Role) ([]GalleryItem, error) {
	if !auth.Can(role, auth.CapReadMedia) {
		return nil, fmt.Errorf("list gallery as %s: %w", role, apperr.ErrUnauthorized)
	}
	return s.Gallery(ctx, kind)
}

func (s *Service) CreateGalleryItem(ctx context.Context, in GalleryInput, role auth.Role) (GalleryItem, error) {
	if !auth.Can(role, auth.CapManageMedia) {
		return GalleryItem{}, fmt.Errorf("create gallery item as %s: %w", role, apperr.ErrUnauthorized)
	}
	in = trimGallery(in)
	if err := apperr.Validate(in); err != nil {
		return GalleryItem{}, err
	}
	it, err := s.repo.InsertGalleryItem(ctx, in.item())
	if err != nil {
		return GalleryItem{}, fmt.Errorf("insert gallery item: %w", err)
	}
	s.log.Info("gallery item created", slog.Int64("id", it.ID), slog.String("type", string(it.Type)))
	return it, nil
}

func (s *Service) UpdateGalleryItem(ctx context.Context, id int64, in GalleryInput, role auth.Role) (GalleryItem, error) {
	if !auth.Can(role, auth.CapManageMedia) {
		return GalleryItem{}, fmt.Errorf("update gallery item as %s: %w", role, apperr.ErrUnauthorized)
	}
	in = trimGallery(in)
	if err := apperr.Validate(in); err != nil {
		return GalleryItem{}, err
	}
	it := in.item()
	it.ID = id
	return s.repo.UpdateGalleryItem(ctx, it)
}

func (s *Service) DeleteGalleryItem(ctx context.Context, id int64, role auth.Role) error {
	if !auth.Can(role, auth.CapManageMedia) {
		return fmt.Errorf("delete gallery item as %s: %w", role, apperr.ErrUnauthorized)
	}
	return s.repo.DeleteGalleryItem(ctx, id)
}

// Upload pushes a file to the CDN and returns its public URL. The stored
// name is random; only the extension of the original name is kept.
func (s *Service) Upload(ctx context.Context, file io.Reader, filename, contentType string, role auth.Role) (Upload, error) {
	if !auth.Can(role, auth.CapManageMedia) {
		return Upload{}, fmt.Errorf("upload media as %s: %w", role, apperr.ErrUnauthorized)
	}
	if s.uploader == nil {
		return Upload{}, ErrUploadsDisabled
	}
	kind := KindPhoto
	rt := cloudinary.Image
	switch {
	case strings.HasPrefix(contentType, "video/"):
		kind, rt = KindVideo, cloudinary.Video
	case strings.HasPrefix(contentType, "image/"):
	default:
		return Upload{}, apperr.NewValidationError(errors.New("unsupported media type"),
			apperr.FieldError{Field: "file", Error: "must be an image or a video"})
	}
	name := uuid.NewString() + strings.ToLower(filepath.Ext(filename))
	res, err := s.uploader.Upload(ctx, rt, file, name)
	if err != nil {
		return Upload{}, fmt.Errorf("upload %s: %w", name, err)
	}
	s.log.Info("media uploaded", slog.String("public_id", res.PublicID), slog.String("type", string(kind)))
	return Upload{URL: res.SecureURL, PublicID: res.PublicID, Type: kind}, nil
}

// UploadSource pushes a data URL or a remote URL to the CDN.
func (s *Service) UploadSource(ctx context.Context, in SourceUpload, role auth.Role) (Upload, error) {
	if !auth.Can(role, auth.CapManageMedia) {
		return Upload{}, fmt.Errorf("upload media as %s: %w", role, apperr.ErrUnauthorized)
	}
	in.Source = strings.TrimSpace(in.Source)
	in.Type = strings.TrimSpace(in.Type)
	if err := apperr.Validate(in); err != nil {
		return Upload{}, err
	}
	if s.uploader == nil {
		return Upload{}, ErrUploadsDisabled
	}
	kind, err := sourceKind(in)
	if err != nil {
		return Upload{}, err
	}
	rt := cloudinary.Image
	if kind == KindVideo {
		rt = cloudinary.Video
	}
	res, err := s.uploader.UploadDataURL(ctx, rt, in.Source)
	if err != nil {
		return Upload{}, fmt.Errorf("upload from source: %w", err)
	}
	s.log.Info("media uploaded", slog.String("public_id", res.PublicID), slog.String("type", string(kind)))
	return Upload{URL: res.SecureURL, PublicID: res.PublicID, Type: kind}, nil
}

func sourceKind(in SourceUpload) (Kind, error) {
	src := strings.ToLower(in.Source)
	switch {
	case strings.HasPrefix(src, "data:"):
		end := strings.IndexAny(src, ";,")
		if end < 0 {
			break
		}
		mime := src[len("data:"):end]
		switch {
		case strings.HasPrefix(mime, "video/"):
			return KindVideo, nil
		case strings.HasPrefix(mime, "image/"):
			return KindPhoto, nil
		}
		return "", apperr.NewValidationError(errors.New("unsupported media type"),
			apperr.FieldError{Field: "source", Error: "must be an image or a video"})
	case strings.HasPrefix(src, "https://"), strings.HasPrefix(src, "http://"):
		if in.Type == "" {
			return KindPhoto, nil
		}
		return Kind(in.Type), nil
	}
	return "", apperr.NewValidationError(errors.New("unsupported source"),
		apperr.FieldError{Field: "source", Error: "must be a data URL or an http(s) URL"})
}

func trimGallery(in GalleryInput) GalleryInput {
	in.Type = strings.TrimSpace(in.Type)
	in.URL = strings.TrimSpace(in.URL)
	in.Title = strings.TrimSpace(in.Title)
	in.EventName = strings.TrimSpace(in.EventName)
	in.EventDate = strings.TrimSpace(in.EventDate)
	return in
}
