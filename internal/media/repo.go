package media

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"preschool/internal/apperr"
)

// Repository persists banners and gallery items.
type Repository interface {
	ListBanners(ctx context.Context, activeOnly bool) ([]Banner, error)
	InsertBanner(ctx context.Context, b Banner) (Banner, error)
	UpdateBanner(ctx context.Context, b Banner) (Banner, error)
	DeleteBanner(ctx context.Context, id int64) error

	ListGallery(ctx context.Context, kind Kind) ([]GalleryItem, error)
	InsertGalleryItem(ctx context.Context, it GalleryItem) (GalleryItem, error)
	UpdateGalleryItem(ctx context.Context, it GalleryItem) (GalleryItem, error)
	DeleteGalleryItem(ctx context.Context, id int64) error
}

// PostgresRepository stores media rows in Postgres.
type PostgresRepository struct {
	db *sql.DB
}

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// ListBanners orders by display_order, then id.
func (r *PostgresRepository) ListBanners(ctx context.Context, activeOnly bool) ([]Banner, error) {
	query := `SELECT id, url, alt_text, display_order, is_active, created_at FROM banner_images`
	if activeOnly {
		query += ` WHERE is_active`
	}
	query += ` ORDER BY display_order ASC, id ASC`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	res := []Banner{}
	for rows.Next() {
		var b Banner
		if err := rows.Scan(&b.ID, &b.URL, &b.AltText, &b.DisplayOrder, &b.IsActive, &b.CreatedAt); err != nil {
			return nil, err
		}
		res = append(res, b)
	}
	return res, rows.Err()
}

func (r *PostgresRepository) InsertBanner(ctx context.Context, b Banner) (Banner, error) {
	row := r.db.QueryRowContext(ctx, `
		INSERT INTO banner_images (url, alt_text, display_order, is_active)
		VALUES ($1,$2,$3,$4)
		RETURNING id, created_at
	`, b.URL, b.AltText, b.DisplayOrder, b.IsActive)
	if err := row.Scan(&b.ID, &b.CreatedAt); err != nil {
		return Banner{}, err
	}
	return b, nil
}

func (r *PostgresRepository) UpdateBanner(ctx context.Context, b Banner) (Banner, error) {
	row := r.db.QueryRowContext(ctx, `
		UPDATE banner_images SET url = $1, alt_text = $2, display_order = $3, is_active = $4
		WHERE id = $5
		RETURNING created_at
	`, b.URL, b.AltText, b.DisplayOrder, b.IsActive, b.ID)
	if err := row.Scan(&b.CreatedAt); err != nil {
		return Banner{}, notFound(err, "banner", b.ID)
	}
	return b, nil
}

func (r *PostgresRepository) DeleteBanner(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM banner_images WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return expectOne(res, "banner", id)
}

// ListGallery returns the newest events first; items without a date sort last.
func (r *PostgresRepository) ListGallery(ctx context.Context, kind Kind) ([]GalleryItem, error) {
	query := `SELECT id, type, url, title, event_name, event_date, created_at FROM gallery_items`
	args := []any{}
	if kind != "" {
		query += ` WHERE type = $1`
		args = append(args, kind)
	}
	query += ` ORDER BY event_date DESC NULLS LAST, created_at DESC, id DESC`
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	res := []GalleryItem{}
	for rows.Next() {
		var it GalleryItem
		var date sql.NullTime
		if err := rows.Scan(&it.ID, &it.Type, &it.URL, &it.Title, &it.EventName, &date, &it.CreatedAt); err != nil {
			return nil, err
		}
		if date.Valid {
			d := date.Time
			it.EventDate = &d
		}
		res = append(res, it)
	}
	return res, rows.Err()
}

func (r *PostgresRepository) InsertGalleryItem(ctx context.Context, it GalleryItem) (GalleryItem, error) {
	row := r.db.QueryRowContext(ctx, `
		INSERT INTO gallery_items (type, url, title, event_name, event_date)
		VALUES ($1,$2,$3,$4,$5)
		RETURNING id, created_at
	`, it.Type, it.URL, it.Title, it.EventName, nullDate(it.EventDate))
	if err := row.Scan(&it.ID, &it.CreatedAt); err != nil {
		return GalleryItem{}, err
	}
	return it, nil
}

func (r *PostgresRepository) UpdateGalleryItem(ctx context.Context, it GalleryItem) (GalleryItem, error) {
	row := r.db.QueryRowContext(ctx, `
		UPDATE gallery_items SET type = $1, url = $2, title = $3, event_name = $4, event_date = $5
		WHERE id = $6
		RETURNING created_at
	`, it.Type, it.URL, it.Title, it.EventName, nullDate(it.EventDate), it.ID)
	if err := row.Scan(&it.CreatedAt); err != nil {
		return GalleryItem{}, notFound(err, "gallery item", it.ID)
	}
	return it, nil
}

func (r *PostgresRepository) DeleteGalleryItem(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM gallery_items WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return expectOne(res, "gallery item", id)
}

func nullDate(t *time.Time) any {
	if t == nil {
		return nil
	}
	return *t
}

func notFound(err error, what string, id int64) error {
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%s %d: %w", what, id, apperr.ErrNotFound)
	}
	return err
}

func expectOne(res sql.Result, what string, id int64) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%s %d: %w", what, id, apperr.ErrNotFound)
	}
	return nil
}
