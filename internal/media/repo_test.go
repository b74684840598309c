package media

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"preschool/internal/apperr"
)

func TestPostgresActiveBannersQuery(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := NewPostgresRepository(db)

	now := time.Now()
	mock.ExpectQuery(regexp.QuoteMeta("FROM banner_images WHERE is_active ORDER BY display_order ASC, id ASC")).
		WillReturnRows(sqlmock.NewRows([]string{"id", "url", "alt_text", "display_order", "is_active", "created_at"}).
			AddRow(1, "https://img/a.jpg", "A", 1, true, now))

	res, err := repo.ListBanners(context.Background(), true)
	require.NoError(t, err)
	require.Len(t, res, 1)
	assert.Equal(t, "A", res[0].AltText)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresUpdateBannerNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := NewPostgresRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("UPDATE banner_images SET")).
		WithArgs("https://img/a.jpg", "", 0, true, int64(9)).
		WillReturnError(sql.ErrNoRows)

	_, err = repo.UpdateBanner(context.Background(), Banner{ID: 9, URL: "https://img/a.jpg", IsActive: true})
	assert.ErrorIs(t, err, apperr.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresGalleryFilterAndNullDate(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := NewPostgresRepository(db)

	now := time.Now()
	mock.ExpectQuery(regexp.QuoteMeta("FROM gallery_items WHERE type = $1 ORDER BY event_date DESC NULLS LAST")).
		WithArgs(KindVideo).
		WillReturnRows(sqlmock.NewRows([]string{"id", "type", "url", "title", "event_name", "event_date", "created_at"}).
			AddRow(3, "video", "https://img/v.mp4", "", "Concert", nil, now))
	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO gallery_items")).
		WithArgs(KindPhoto, "https://img/p.jpg", "", "", nil).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(4, now))

	res, err := repo.ListGallery(context.Background(), KindVideo)
	require.NoError(t, err)
	require.Len(t, res, 1)
	assert.Nil(t, res[0].EventDate)

	it, err := repo.InsertGalleryItem(context.Background(), GalleryItem{Type: KindPhoto, URL: "https://img/p.jpg"})
	require.NoError(t, err)
	assert.Equal(t, int64(4), it.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}
