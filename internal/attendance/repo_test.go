package attendance

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"preschool/internal/apperr"
)

var entryCols = []string{"id", "subject_type", "subject_id", "clock_in", "clock_out", "status", "recorded_by", "created_at"}

func newMockRepo(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewPostgresRepository(db), mock
}

func TestPostgresInsertDefaults(t *testing.T) {
	repo, mock := newMockRepo(t)
	in := time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC)
	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO attendance")).
		WithArgs(SubjectStaff, int64(10), in, StatusPending, int64(10)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(1, in))

	e, err := repo.Insert(context.Background(), Entry{SubjectID: 10, RecordedBy: 10, ClockIn: in})
	require.NoError(t, err)
	assert.Equal(t, int64(1), e.ID)
	assert.Equal(t, StatusPending, e.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresGetScansNullClockOut(t *testing.T) {
	repo, mock := newMockRepo(t)
	in := time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC)
	mock.ExpectQuery(regexp.QuoteMeta("FROM attendance WHERE id = $1")).
		WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows(entryCols).AddRow(1, "staff", 10, in, nil, "pending", 10, in))
	mock.ExpectQuery(regexp.QuoteMeta("FROM attendance WHERE id = $1")).
		WithArgs(int64(2)).
		WillReturnRows(sqlmock.NewRows(entryCols))

	e, err := repo.Get(context.Background(), 1)
	require.NoError(t, err)
	assert.Nil(t, e.ClockOut)

	_, err = repo.Get(context.Background(), 2)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresUpdates(t *testing.T) {
	repo, mock := newMockRepo(t)
	out := time.Date(2026, 3, 2, 17, 0, 0, 0, time.UTC)
	mock.ExpectExec(regexp.QuoteMeta("UPDATE attendance SET clock_out = $1 WHERE id = $2")).
		WithArgs(out, int64(1)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE attendance SET status = $1 WHERE id = $2")).
		WithArgs(StatusApproved, int64(1)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM attendance WHERE id = $1")).
		WithArgs(int64(3)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, repo.SetClockOut(context.Background(), 1, out))
	require.NoError(t, repo.SetStatus(context.Background(), 1, StatusApproved))
	assert.ErrorIs(t, repo.Delete(context.Background(), 3), apperr.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresListBuildsFilters(t *testing.T) {
	repo, mock := newMockRepo(t)
	mock.ExpectQuery(regexp.QuoteMeta("FROM attendance WHERE subject_id = $1 AND status = $2 ORDER BY clock_in DESC, id DESC LIMIT $3 OFFSET $4")).
		WithArgs(int64(10), StatusPending, 50, 0).
		WillReturnRows(sqlmock.NewRows(entryCols))

	res, err := repo.List(context.Background(), Filter{SubjectID: 10, Status: StatusPending, Offset: -3})
	require.NoError(t, err)
	assert.Empty(t, res)
	assert.NoError(t, mock.ExpectationsWereMet())
}
