package media

import "time"

// Banner is a hero image on the home page.
type Banner struct {
	ID           int64     `json:"id"`
	URL          string    `json:"url"`
	AltText      string    `json:"alt_text"`
	DisplayOrder int       `json:"display_order"`
	IsActive     bool      `json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
}

// BannerInput creates or replaces a banner. A missing is_active means active.
type BannerInput struct {
	URL          string `json:"url" validate:"required,url"`
	AltText      string `json:"alt_text"`
	DisplayOrder int    `json:"display_order" validate:"gte=0"`
	IsActive     *bool  `json:"is_active"`
}

func (in BannerInput) banner() Banner {
	active := true
	if in.IsActive != nil {
		active = *in.IsActive
	}
	return Banner{URL: in.URL, AltText: in.AltText, DisplayOrder: in.DisplayOrder, IsActive: active}
}

// Kind separates photos from videos in the gallery.
type Kind string

const (
	KindPhoto Kind = "photo"
	KindVideo Kind = "video"
)

// Valid returns true when the kind is a supported value.
func (k Kind) Valid() bool {
	return k == KindPhoto || k == KindVideo
}

// GalleryItem is one photo or video from a school event.
type GalleryItem struct {
	ID        int64      `json:"id"`
	Type      Kind       `json:"type"`
	URL       string     `json:"url"`
	Title     string     `json:"title"`
	EventName string     `json:"event_name"`
	EventDate *time.Time `json:"event_date,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}

// GalleryInput creates or replaces a gallery item.
type GalleryInput struct {
	Type      string `json:"type" validate:"required,oneof=photo video"`
	URL       string `json:"url" validate:"required,url"`
	Title     string `json:"title"`
	EventName string `json:"event_name"`
	EventDate string `json:"event_date" validate:"omitempty,datetime=2006-01-02"`
}

func (in GalleryInput) item() GalleryItem {
	it := GalleryItem{Type: Kind(in.Type), URL: in.URL, Title: in.Title, EventName: in.EventName}
	if d, err := time.Parse(time.DateOnly, in.EventDate); err == nil {
		it.EventDate = &d
	}
	return it
}

// SourceUpload asks the CDN to store a base64 data URL or fetch a remote
// http(s) URL. Type only matters for remote URLs; data URLs carry their own
// media type.
type SourceUpload struct {
	Source string `json:"source" validate:"required"`
	Type   string `json:"type" validate:"omitempty,oneof=photo video"`
}
